package service

import (
	"context"
	"time"

	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/logger"
	"go.uber.org/zap"
)

// ConnectivityWatcher polls the remote store and flushes the pending queue
// when it becomes reachable again.
type ConnectivityWatcher struct {
	remote   repository.RemoteStore
	syncSvc  *SyncService
	interval time.Duration
	log      logger.ZapLogger
}

// NewConnectivityWatcher creates a watcher that checks every interval.
func NewConnectivityWatcher(remote repository.RemoteStore, syncSvc *SyncService, interval time.Duration, log logger.ZapLogger) *ConnectivityWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectivityWatcher{
		remote:   remote,
		syncSvc:  syncSvc,
		interval: interval,
		log:      log.With(zap.String("component", "connectivity")),
	}
}

// Run checks once immediately and then on every tick until ctx is done.
func (w *ConnectivityWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Start runs the watcher in its own goroutine. The returned channel is
// closed once Run has returned, including any sync run it was in, so the
// caller can close the local store after it.
func (w *ConnectivityWatcher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

// Check pings the remote store when signed in and syncs when it answers and
// sales are pending.
func (w *ConnectivityWatcher) Check(ctx context.Context) {
	if w.remote.GetSession(ctx) == nil {
		return
	}

	wasOnline := w.syncSvc.Online()
	if err := w.remote.Ping(ctx); err != nil {
		if wasOnline {
			w.log.Warn("remote store unreachable", zap.Error(err))
		}
		w.syncSvc.SetOnline(false)
		return
	}
	w.syncSvc.SetOnline(true)
	if !wasOnline {
		w.log.Info("remote store reachable again")
	}

	if w.syncSvc.PendingCount(ctx) > 0 {
		w.syncSvc.SyncPendingSales(ctx)
	}
}
