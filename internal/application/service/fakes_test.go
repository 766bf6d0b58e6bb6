package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/internal/infrastructure/localstore"
	localrepo "github.com/sangkips/tillsync/internal/infrastructure/repository"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/printer"
	"github.com/shopspring/decimal"
)

// terminalError mimics a constraint violation reported by the remote store.
type terminalError struct{ msg string }

func (e terminalError) Error() string  { return e.msg }
func (e terminalError) Terminal() bool { return true }

// fakeRemote is an in-process RemoteStore. Inserts ignore existing rows.
type fakeRemote struct {
	mu sync.Mutex

	session  *entity.Session
	sessions repository.SessionRepository
	invoices map[uuid.UUID]entity.Invoice
	lines    map[uuid.UUID][]entity.InvoiceLineItem
	settings map[uuid.UUID]*entity.CompanySettings
	users    map[string]*entity.User

	numbers     int
	insertCalls int

	numberErr error
	insertErr error
	lineErr   error
	queryErr  error
	upsertErr error
	findErr   error
	pingErr   error

	// entered is signalled and block awaited inside InsertInvoice when set.
	entered chan struct{}
	block   chan struct{}
}

var _ repository.RemoteStore = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		invoices: map[uuid.UUID]entity.Invoice{},
		lines:    map[uuid.UUID][]entity.InvoiceLineItem{},
		settings: map[uuid.UUID]*entity.CompanySettings{},
		users:    map[string]*entity.User{},
	}
}

func (f *fakeRemote) signIn() *entity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &entity.Session{
		UserID:    uuid.New(),
		Email:     "till@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return f.session
}

func (f *fakeRemote) setInsertErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

func (f *fakeRemote) setLineErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineErr = err
}

func (f *fakeRemote) invoiceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invoices)
}

func (f *fakeRemote) addInvoice(userID uuid.UUID, inv entity.Invoice, lines []entity.InvoiceLineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv.UserID = userID
	f.invoices[inv.ID] = inv
	f.lines[inv.ID] = lines
}

func (f *fakeRemote) GetSession(ctx context.Context) *entity.Session {
	f.mu.Lock()
	session, sessions := f.session, f.sessions
	f.mu.Unlock()
	if session == nil && sessions != nil {
		if saved := sessions.Get(ctx); saved != nil && !saved.Expired(time.Now()) {
			return saved
		}
	}
	return session
}

func (f *fakeRemote) GenerateInvoiceNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.numberErr != nil {
		return "", f.numberErr
	}
	f.numbers++
	return fmt.Sprintf("INV-%05d", f.numbers), nil
}

func (f *fakeRemote) InsertInvoice(ctx context.Context, invoice *entity.Invoice) error {
	f.mu.Lock()
	entered, block := f.entered, f.block
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.invoices[invoice.ID]; !ok {
		f.invoices[invoice.ID] = *invoice
	}
	return nil
}

func (f *fakeRemote) InsertLineItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceLineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lineErr != nil {
		return f.lineErr
	}
	if _, ok := f.lines[invoiceID]; !ok {
		f.lines[invoiceID] = items
	}
	return nil
}

func (f *fakeRemote) QueryRecentInvoices(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []entity.Invoice
	for _, inv := range f.invoices {
		if inv.UserID != userID {
			continue
		}
		inv.LineItems = f.lines[inv.ID]
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRemote) UpsertSettings(ctx context.Context, userID uuid.UUID, settings *entity.CompanySettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.settings[userID] = settings
	return nil
}

func (f *fakeRemote) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.CompanySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[userID], nil
}

func (f *fakeRemote) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.users[email], nil
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

// testEnv wires the services over an in-memory local store.
type testEnv struct {
	store    *localstore.Store
	remote   *fakeRemote
	history  repository.SaleHistoryRepository
	pending  repository.SaleQueueRepository
	dead     repository.SaleQueueRepository
	settings repository.SettingsRepository
	items    repository.ItemRepository
	demo     repository.DemoReceiptRepository
	sessions repository.SessionRepository
	sync     *SyncService
}

func newTestEnv(t *testing.T, opts SyncOptions) *testEnv {
	t.Helper()
	store := localstore.OpenInMemory(logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		store:    store,
		remote:   newFakeRemote(),
		history:  localrepo.NewSaleHistoryRepository(store),
		pending:  localrepo.NewPendingSaleRepository(store),
		dead:     localrepo.NewDeadLetterRepository(store),
		settings: localrepo.NewSettingsRepository(store, entity.DefaultStoreSettings()),
		items:    localrepo.NewItemRepository(store),
		demo:     localrepo.NewDemoReceiptRepository(store),
		sessions: localrepo.NewSessionRepository(store),
	}
	env.remote.sessions = env.sessions
	env.sync = NewSyncService(
		env.history,
		env.pending,
		env.dead,
		localrepo.NewSyncStatusRepository(store),
		env.settings,
		env.items,
		env.remote,
		logger.NewNop(),
		opts,
	)
	return env
}

func teaCart() []entity.LineItem {
	return []entity.LineItem{{Name: "Tea", UnitPrice: decimal.NewFromInt(25), Quantity: 2}}
}

// recordingPrinter keeps everything sent to it.
type recordingPrinter struct {
	mu    sync.Mutex
	jobs  [][]byte
	err   error
	typ   string
	ready bool
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(ctx context.Context) bool { return p.ready }

func (p *recordingPrinter) Type() string {
	if p.typ == "" {
		return "network"
	}
	return p.typ
}

func (env *testEnv) receiptService(p printer.Printer) *ReceiptService {
	return NewReceiptService(p, env.history, env.demo, env.settings, time.UTC, logger.NewNop())
}
