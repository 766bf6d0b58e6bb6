package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/pkg/pagination"
)

// RemoteStore is the hosted store reached when a session exists. It never
// retries; callers decide what to do with a failure.
type RemoteStore interface {
	// GetSession returns the current session or nil when signed out or expired.
	GetSession(ctx context.Context) *entity.Session
	GenerateInvoiceNumber(ctx context.Context, userID uuid.UUID) (string, error)
	// InsertInvoice and InsertLineItems are no-ops for rows that already exist.
	InsertInvoice(ctx context.Context, invoice *entity.Invoice) error
	InsertLineItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceLineItem) error
	// QueryRecentInvoices returns the newest invoices with their line items.
	QueryRecentInvoices(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Invoice, error)
	UpsertSettings(ctx context.Context, userID uuid.UUID, settings *entity.CompanySettings) error
	// GetSettings returns nil, nil when the user has no saved settings.
	GetSettings(ctx context.Context, userID uuid.UUID) (*entity.CompanySettings, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	Ping(ctx context.Context) error
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
}

// IsTerminal reports whether err is a remote failure that will fail again
// when retried with the same data.
func IsTerminal(err error) bool {
	var t interface{ Terminal() bool }
	return errors.As(err, &t) && t.Terminal()
}
