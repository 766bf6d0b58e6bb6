package localstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sangkips/tillsync/pkg/logger"
	"go.uber.org/zap"
)

// Keys used by the till. Each key holds one encoded value.
const (
	KeySalesHistory    = "sales_history"
	KeyStoreSettings   = "store_settings"
	KeyPendingSales    = "pending_sales"
	KeyDeadLetterSales = "dead_letter_sales"
	KeyItems           = "items"
	KeyDemoReceipts    = "receipts"
	KeySession         = "auth_session"
	KeySyncStatus      = "sync_status"
)

// IdempotencyKey returns the key under which a replayable response is kept.
func IdempotencyKey(scope, key string) string {
	return "idempotency:" + scope + ":" + key
}

const defaultValueLogFileSize = 64 << 20

// Store is the local durable key/value store. It is the only writer of the
// badger directory; every read-modify-write is serialized by mu.
type Store struct {
	db     *badger.DB
	mu     sync.Mutex
	log    logger.ZapLogger
	memory bool
}

// Open opens the badger directory at path. When the directory cannot be
// opened the store runs in memory for the rest of the process and says so in
// the log. Open never fails.
func Open(path string, log logger.ZapLogger) *Store {
	opts := badger.DefaultOptions(path).
		WithValueLogFileSize(defaultValueLogFileSize).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Error("local store unavailable, keeping data in memory for this session",
			zap.String("path", path), zap.Error(err))
		return OpenInMemory(log)
	}

	log.Info("local store opened", zap.String("path", path))
	return &Store{db: db, log: log}
}

// OpenInMemory opens a store that is lost when the process exits.
func OpenInMemory(log logger.ZapLogger) *Store {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		// Every read now returns its fallback and every write is dropped.
		log.Error("in-memory local store unavailable", zap.Error(err))
		return &Store{log: log, memory: true}
	}
	return &Store{db: db, log: log, memory: true}
}

// InMemory reports whether writes survive a restart.
func (s *Store) InMemory() bool {
	return s.memory
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read returns the value stored under key, or fallback when it is absent,
// cannot be decoded or the store is unavailable.
func Read[T any](s *Store, key string, fallback T) T {
	if s.db == nil {
		return fallback
	}

	var out T
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		raw, err := get(txn, key)
		if err != nil || raw == nil {
			return err
		}
		found = true
		return decode(raw, &out)
	})
	if err != nil {
		s.log.Warn("local read failed, using fallback", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !found {
		return fallback
	}
	return out
}

// Write stores value under key. Failures are logged, never returned.
func Write[T any](s *Store, key string, value T) {
	WriteTTL(s, key, value, 0)
}

// WriteTTL stores value under key until ttl elapses. A zero ttl never expires.
func WriteTTL[T any](s *Store, key string, value T, ttl time.Duration) {
	if s.db == nil {
		return
	}

	raw, err := encode(value)
	if err != nil {
		s.log.Error("local write failed to encode", zap.String("key", key), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), raw)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		s.log.Error("local write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes key. Missing keys are not an error.
func Delete(s *Store, key string) {
	if s.db == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		s.log.Error("local delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Update reads the value under key (or fallback), applies fn and stores the
// result in one transaction. Concurrent updates of any key are applied one
// after another. An error from fn aborts the write and is returned as is;
// storage errors are logged and the computed value is still returned.
func Update[T any](s *Store, key string, fallback T, fn func(current T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fn(fallback)
	}

	var (
		next  T
		fnErr error
	)
	err := s.db.Update(func(txn *badger.Txn) error {
		current := fallback
		raw, err := get(txn, key)
		if err != nil {
			return err
		}
		if raw != nil {
			var decoded T
			if err := decode(raw, &decoded); err != nil {
				s.log.Warn("local value unreadable, starting from fallback",
					zap.String("key", key), zap.Error(err))
			} else {
				current = decoded
			}
		}

		next, fnErr = fn(current)
		if fnErr != nil {
			return fnErr
		}

		encoded, err := encode(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		return txn.Set([]byte(key), encoded)
	})

	if fnErr != nil {
		return next, fnErr
	}
	if err != nil {
		s.log.Error("local update failed", zap.String("key", key), zap.Error(err))
	}
	return next, nil
}

// get returns nil, nil for a missing key.
func get(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
