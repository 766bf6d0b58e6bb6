package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/application/mapper"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/pagination"
	"github.com/sangkips/tillsync/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncOptions tunes the sync orchestrator.
type SyncOptions struct {
	// HistoryWindow is how many recent remote invoices are merged on load.
	HistoryWindow int
	// MaxAttempts moves a pending sale to the dead-letter list once reached.
	MaxAttempts int
}

// SyncService keeps the local sale history and the remote store in step.
// Every sale is written locally first; the remote copy is best effort and is
// retried from the pending queue.
type SyncService struct {
	history    repository.SaleHistoryRepository
	pending    repository.SaleQueueRepository
	deadLetter repository.SaleQueueRepository
	status     repository.SyncStatusRepository
	settings   repository.SettingsRepository
	items      repository.ItemRepository
	remote     repository.RemoteStore
	log        logger.ZapLogger
	opts       SyncOptions

	syncing sync.Mutex
	online  atomic.Bool
}

// NewSyncService creates a new sync service
func NewSyncService(
	history repository.SaleHistoryRepository,
	pending repository.SaleQueueRepository,
	deadLetter repository.SaleQueueRepository,
	status repository.SyncStatusRepository,
	settings repository.SettingsRepository,
	items repository.ItemRepository,
	remoteStore repository.RemoteStore,
	log logger.ZapLogger,
	opts SyncOptions,
) *SyncService {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 50
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	return &SyncService{
		history:    history,
		pending:    pending,
		deadLetter: deadLetter,
		status:     status,
		settings:   settings,
		items:      items,
		remote:     remoteStore,
		log:        log.With(zap.String("component", "sync")),
		opts:       opts,
	}
}

// InitialData is what the till shows on start.
type InitialData struct {
	Sales    []entity.Sale        `json:"sales"`
	Settings entity.StoreSettings `json:"settings"`
	Session  *entity.Session      `json:"session,omitempty"`
	// RemoteError is set when the remote store could not be read. The local
	// data is still complete.
	RemoteError string `json:"remote_error,omitempty"`
}

// LoadInitialData returns the local history and settings, merged with the
// recent remote history when signed in. It never fails.
func (s *SyncService) LoadInitialData(ctx context.Context) *InitialData {
	data := &InitialData{
		Sales:    s.history.List(ctx),
		Settings: *s.settings.Get(ctx),
	}

	session := s.remote.GetSession(ctx)
	if session == nil {
		return data
	}
	data.Session = session

	invoices, err := s.remote.QueryRecentInvoices(ctx, session.UserID, s.opts.HistoryWindow)
	if err != nil {
		s.markRemoteFailure(err)
		s.log.Warn("remote history unavailable, showing local sales only", zap.Error(err))
		data.RemoteError = err.Error()
		return data
	}
	s.online.Store(true)

	remoteSales := make([]entity.Sale, 0, len(invoices))
	for _, inv := range invoices {
		remoteSales = append(remoteSales, mapper.FromRemoteShape(inv, inv.LineItems, data.Settings.WalkInLabel))
	}
	data.Sales = s.history.MergeRemote(ctx, remoteSales)

	if remoteSettings, err := s.remote.GetSettings(ctx, session.UserID); err != nil {
		s.log.Warn("remote settings unavailable, keeping local settings", zap.Error(err))
	} else if remoteSettings != nil {
		merged, err := mapper.FromCompanySettings(remoteSettings, data.Settings)
		if err != nil {
			s.log.Warn("remote settings unreadable, keeping local settings", zap.Error(err))
		} else {
			data.Settings = *s.settings.Replace(ctx, &merged)
		}
	}

	if report := s.SyncPendingSales(ctx); report.Synced > 0 || report.Rejected > 0 {
		data.Sales = s.history.List(ctx)
	}

	return data
}

// CartLine is one line of a cart as submitted by the till.
type CartLine struct {
	ItemID    *uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// SaveResult is the outcome of SaveSale.
type SaveResult struct {
	Sale  entity.Sale   `json:"sale"`
	Sales []entity.Sale `json:"sales"`
	// RemoteError is a soft failure: the sale is saved locally and queued.
	RemoteError string `json:"remote_error,omitempty"`
}

// ValidateItems checks the cart before anything is written.
func ValidateItems(items []entity.LineItem) error {
	if len(items) == 0 {
		return apperror.ErrEmptyCart
	}
	var fieldErrors []apperror.FieldError
	for i, item := range items {
		field := "items[" + strconv.Itoa(i) + "]"
		if item.Name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".name", Message: "name is required"})
		}
		if item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".unit_price", Message: "must not be negative"})
		}
		if item.Quantity < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field + ".quantity", Message: "must not be negative"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateSale builds a sale from a cart at the current time and saves it.
func (s *SyncService) CreateSale(ctx context.Context, customer string, items []entity.LineItem) (*SaveResult, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	walkIn := s.settings.Get(ctx).WalkInLabel
	sale := entity.NewSale(customer, items, time.Now(), walkIn)
	return s.SaveSale(ctx, *sale)
}

// SaveSale writes sale to the local history and then tries the remote store.
// Only validation errors are returned; remote failures queue the sale and are
// reported in SaveResult.RemoteError.
func (s *SyncService) SaveSale(ctx context.Context, sale entity.Sale) (*SaveResult, error) {
	if err := ValidateItems(sale.Items); err != nil {
		return nil, err
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	if sale.Customer == "" {
		sale.Customer = s.settings.Get(ctx).WalkInLabel
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now().UTC()
	}
	sale.Sync = entity.SyncMeta{State: enum.SyncStateLocalOnly}

	sales, inserted := s.history.Append(ctx, sale)
	if !inserted {
		// A resent sale: the stored record already went through stock and
		// the remote push, or sits in a queue that will retry it.
		stored, err := s.history.GetByID(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			stored = &sale
		}
		s.log.Debug("sale already recorded", zap.String("sale_id", sale.ID.String()))
		return &SaveResult{Sale: *stored, Sales: sales}, nil
	}

	result := &SaveResult{Sale: sale, Sales: sales}
	s.items.DecrementStock(ctx, sale.Items)

	session := s.remote.GetSession(ctx)
	if session == nil {
		return result, nil
	}

	meta, err := s.pushSale(ctx, session, sale)
	if err == nil {
		s.markSync(ctx, sale.ID, meta)
		result.Sale.Sync = meta
		result.Sales = s.history.List(ctx)
		return result, nil
	}

	s.markRemoteFailure(err)
	now := time.Now().UTC()
	sale.Sync.InvoiceNumber = meta.InvoiceNumber
	entry := entity.PendingSale{
		Sale:          sale,
		Attempts:      1,
		LastError:     err.Error(),
		EnqueuedAt:    now,
		LastAttemptAt: &now,
	}

	if repository.IsTerminal(err) {
		s.reject(ctx, entry)
		s.log.Error("remote store rejected sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		result.RemoteError = "Saved locally, but the remote store rejected the sale: " + err.Error()
	} else {
		entry.Sale.Sync.State = enum.SyncStatePendingRemote
		s.pending.Enqueue(ctx, entry)
		s.markSync(ctx, sale.ID, entity.SyncMeta{
			State:         enum.SyncStatePendingRemote,
			Attempts:      1,
			LastError:     err.Error(),
			InvoiceNumber: meta.InvoiceNumber,
		})
		s.log.Warn("sale queued for remote sync", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		result.RemoteError = "Saved locally, will sync later: " + err.Error()
	}

	saved, _ := s.history.GetByID(ctx, sale.ID)
	if saved != nil {
		result.Sale = *saved
	}
	result.Sales = s.history.List(ctx)
	return result, nil
}

// SyncReport summarises one SyncPendingSales run.
type SyncReport struct {
	Synced    int  `json:"synced"`
	Failed    int  `json:"failed"`
	Rejected  int  `json:"rejected"`
	Remaining int  `json:"remaining"`
	Skipped   bool `json:"skipped,omitempty"`
}

// SyncPendingSales pushes queued sales to the remote store in queue order.
// Only the remote copy is written; the history already holds every sale. A
// call made while another run is in progress returns at once with Skipped
// set. The run stops at the first retryable failure since the remote store
// is then most likely unreachable for the rest of the queue too.
func (s *SyncService) SyncPendingSales(ctx context.Context) SyncReport {
	if !s.syncing.TryLock() {
		return SyncReport{Remaining: s.pending.Len(ctx), Skipped: true}
	}
	defer s.syncing.Unlock()

	var report SyncReport
	entries := s.pending.List(ctx)
	if len(entries) == 0 {
		return report
	}

	session := s.remote.GetSession(ctx)
	if session == nil {
		report.Remaining = len(entries)
		return report
	}

	status := s.status.Get(ctx)
	started := time.Now().UTC()
	status.LastAttemptAt = &started
	status.LastError = ""

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		meta, err := s.pushSale(ctx, session, entry.Sale)
		now := time.Now().UTC()
		if err == nil {
			s.pending.Remove(ctx, entry.Sale.ID)
			s.markSync(ctx, entry.Sale.ID, meta)
			report.Synced++
			continue
		}

		entry.Attempts++
		entry.LastError = err.Error()
		entry.LastAttemptAt = &now
		entry.Sale.Sync.InvoiceNumber = meta.InvoiceNumber
		status.LastError = err.Error()

		if repository.IsTerminal(err) || entry.Attempts >= s.opts.MaxAttempts {
			s.pending.Remove(ctx, entry.Sale.ID)
			s.reject(ctx, entry)
			report.Rejected++
			s.log.Error("pending sale moved to dead letter",
				zap.String("sale_id", entry.Sale.ID.String()),
				zap.Int("attempts", entry.Attempts),
				zap.Error(err))
			continue
		}

		s.pending.Put(ctx, entry)
		s.markSync(ctx, entry.Sale.ID, entity.SyncMeta{
			State:         enum.SyncStatePendingRemote,
			Attempts:      entry.Attempts,
			LastError:     entry.LastError,
			InvoiceNumber: meta.InvoiceNumber,
		})
		report.Failed++
		s.markRemoteFailure(err)
		s.log.Warn("pending sale still not synced",
			zap.String("sale_id", entry.Sale.ID.String()),
			zap.Int("attempts", entry.Attempts),
			zap.Error(err))
		break
	}

	if report.Synced > 0 {
		s.online.Store(true)
		status.LastSyncAt = &started
	}
	s.status.Save(ctx, status)

	report.Remaining = s.pending.Len(ctx)
	s.log.Info("pending sales sync finished",
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
		zap.Int("rejected", report.Rejected),
		zap.Int("remaining", report.Remaining))
	return report
}

// SyncStatusView is reported by the status endpoint.
type SyncStatusView struct {
	Pending       int        `json:"pending"`
	DeadLetter    int        `json:"dead_letter"`
	LocalOnly     int        `json:"local_only"`
	Synced        int        `json:"synced"`
	Online        bool       `json:"online"`
	SignedIn      bool       `json:"signed_in"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// Status reports queue sizes and the outcome of the last sync run.
func (s *SyncService) Status(ctx context.Context) *SyncStatusView {
	status := s.status.Get(ctx)
	return &SyncStatusView{
		Pending:       s.pending.Len(ctx),
		DeadLetter:    s.deadLetter.Len(ctx),
		LocalOnly:     s.history.CountByState(ctx, enum.SyncStateLocalOnly),
		Synced:        s.history.CountByState(ctx, enum.SyncStateSynced),
		Online:        s.online.Load(),
		SignedIn:      s.remote.GetSession(ctx) != nil,
		LastSyncAt:    status.LastSyncAt,
		LastAttemptAt: status.LastAttemptAt,
		LastError:     status.LastError,
	}
}

// ListSales pages through the local history, newest first.
func (s *SyncService) ListSales(ctx context.Context, params *pagination.PaginationParams) *pagination.PaginatedResult[entity.Sale] {
	params.Validate()
	sales := s.history.List(ctx)
	newest := make([]entity.Sale, len(sales))
	for i, sale := range sales {
		newest[len(sales)-1-i] = sale
	}
	return pagination.Slice(newest, params)
}

// GetSale returns one sale from the local history.
func (s *SyncService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return s.history.GetByID(ctx, id)
}

// DeadLetters lists sales the remote store rejected.
func (s *SyncService) DeadLetters(ctx context.Context) []entity.PendingSale {
	return s.deadLetter.List(ctx)
}

// RequeueRejected moves every dead-letter entry back to the pending queue
// with its attempts reset. It returns how many entries moved.
func (s *SyncService) RequeueRejected(ctx context.Context) int {
	entries := s.deadLetter.Drain(ctx)
	for _, entry := range entries {
		entry.Attempts = 0
		entry.LastError = ""
		entry.Sale.Sync.State = enum.SyncStatePendingRemote
		s.pending.Enqueue(ctx, entry)
		s.markSync(ctx, entry.Sale.ID, entity.SyncMeta{
			State:         enum.SyncStatePendingRemote,
			InvoiceNumber: entry.Sale.Sync.InvoiceNumber,
		})
	}
	if len(entries) > 0 {
		s.log.Info("dead-letter sales requeued", zap.Int("count", len(entries)))
	}
	return len(entries)
}

// PendingCount is the number of sales waiting for the remote store.
func (s *SyncService) PendingCount(ctx context.Context) int {
	return s.pending.Len(ctx)
}

// Online reports whether the last remote contact succeeded.
func (s *SyncService) Online() bool {
	return s.online.Load()
}

// SetOnline records the reachability seen by the connectivity watcher.
func (s *SyncService) SetOnline(online bool) {
	s.online.Store(online)
}

// pushSale writes the invoice and its lines. The returned meta carries the
// invoice number even on failure so a retry reuses it.
func (s *SyncService) pushSale(ctx context.Context, session *entity.Session, sale entity.Sale) (entity.SyncMeta, error) {
	meta := entity.SyncMeta{State: sale.Sync.State, InvoiceNumber: sale.Sync.InvoiceNumber}

	if meta.InvoiceNumber == "" {
		number, err := s.remote.GenerateInvoiceNumber(ctx, session.UserID)
		if err != nil {
			s.log.Debug("invoice number RPC failed, numbering locally", zap.Error(err))
			number = utils.GenerateInvoiceNo(sale.ID, sale.Date)
		}
		meta.InvoiceNumber = number
	}

	shape := mapper.ToRemoteShape(sale, session.UserID, meta.InvoiceNumber)
	if err := s.remote.InsertInvoice(ctx, &shape.Invoice); err != nil {
		return meta, err
	}
	if err := s.remote.InsertLineItems(ctx, sale.ID, shape.LineItems); err != nil {
		return meta, err
	}

	now := time.Now().UTC()
	return entity.SyncMeta{
		State:         enum.SyncStateSynced,
		InvoiceNumber: meta.InvoiceNumber,
		SyncedAt:      &now,
	}, nil
}

func (s *SyncService) reject(ctx context.Context, entry entity.PendingSale) {
	entry.Sale.Sync.State = enum.SyncStateRejected
	s.deadLetter.Enqueue(ctx, entry)
	s.markSync(ctx, entry.Sale.ID, entity.SyncMeta{
		State:         enum.SyncStateRejected,
		Attempts:      entry.Attempts,
		LastError:     entry.LastError,
		InvoiceNumber: entry.Sale.Sync.InvoiceNumber,
	})
}

func (s *SyncService) markSync(ctx context.Context, id uuid.UUID, meta entity.SyncMeta) {
	if err := s.history.MarkSync(ctx, id, meta); err != nil {
		s.log.Warn("sale missing from history", zap.String("sale_id", id.String()), zap.Error(err))
	}
}

func (s *SyncService) markRemoteFailure(err error) {
	if !repository.IsTerminal(err) {
		s.online.Store(false)
	}
}
