package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	domainRepo "github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm client for the hosted Postgres. Every call runs with its
// own timeout and is attempted once.
type Store struct {
	db       *gorm.DB
	sessions domainRepo.SessionRepository
	tokens   *utils.JWTManager
	timeout  time.Duration
}

// NewStore creates a remote store client. sessions is the local session
// storage the client reads the signed-in user from.
func NewStore(db *gorm.DB, sessions domainRepo.SessionRepository, tokens *utils.JWTManager, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, sessions: sessions, tokens: tokens, timeout: timeout}
}

var _ domainRepo.RemoteStore = (*Store)(nil)

// GetSession returns the persisted session when it is present, unexpired and
// carries a valid token for the same user.
func (s *Store) GetSession(ctx context.Context) *entity.Session {
	session := s.sessions.Get(ctx)
	if session == nil || session.Expired(time.Now()) {
		return nil
	}
	claims, err := s.tokens.ValidateAccessToken(session.AccessToken)
	if err != nil || claims.UserID != session.UserID {
		return nil
	}
	return session
}

func (s *Store) GenerateInvoiceNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var number string
	err := s.db.WithContext(ctx).Raw("SELECT generate_invoice_number(?)", userID).Scan(&number).Error
	if err != nil {
		return "", wrap("generate_invoice_number", err)
	}
	if number == "" {
		return "", wrap("generate_invoice_number", errors.New("empty invoice number"))
	}
	return number, nil
}

func (s *Store) InsertInvoice(ctx context.Context, invoice *entity.Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(invoice).Error
	return wrap("insert invoice", err)
}

func (s *Store) InsertLineItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows := make([]entity.InvoiceLineItem, len(items))
	for i, item := range items {
		item.InvoiceID = invoiceID
		rows[i] = item
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	return wrap("insert line items", err)
}

func (s *Store) QueryRecentInvoices(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var invoices []entity.Invoice
	err := s.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, wrap("query invoices", err)
	}
	return invoices, nil
}

func (s *Store) UpsertSettings(ctx context.Context, userID uuid.UUID, settings *entity.CompanySettings) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	settings.UserID = userID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
	return wrap("upsert settings", err)
}

func (s *Store) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.CompanySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var settings entity.CompanySettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get settings", err)
	}
	return &settings, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user entity.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

// Ping checks that the database answers within the call timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("ping", fmt.Errorf("get sql.DB: %w", err))
	}
	return wrap("ping", sqlDB.PingContext(ctx))
}
