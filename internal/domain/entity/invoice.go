package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is the remote header row of a sale. Money columns are unconstrained
// numeric so nothing is rounded in storage.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber string             `gorm:"size:100;not null;index" json:"invoice_number"`
	ClientID      *uuid.UUID         `gorm:"type:uuid;index" json:"client_id,omitempty"`
	CustomerName  string             `gorm:"size:255" json:"customer_name"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"total_amount"`
	Subtotal      decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"subtotal"`
	PaidAmount    decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"paid_amount"`
	BalanceDue    decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"balance_due"`
	IssueDate     time.Time          `gorm:"not null;index" json:"issue_date"`
	DueDate       time.Time          `json:"due_date"`
	Status        enum.InvoiceStatus `gorm:"size:20;default:'draft'" json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Client    *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLineItem is a remote line row. Quantity and unit price are nullable
// because rows written by other clients may omit them.
type InvoiceLineItem struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position    int                 `gorm:"not null;default:0" json:"position"`
	Description string              `gorm:"type:text" json:"description"`
	Quantity    *int                `json:"quantity"`
	UnitPrice   decimal.NullDecimal `gorm:"type:numeric" json:"unit_price"`
	LineTotal   decimal.NullDecimal `gorm:"type:numeric" json:"line_total"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TableName returns the table name for the InvoiceLineItem model
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// CompanySettings is the remote copy of the store profile and receipt template.
type CompanySettings struct {
	UserID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"user_id"`
	CompanyName     string         `gorm:"size:255" json:"company_name"`
	CompanyAddress  string         `gorm:"type:text" json:"company_address"`
	CompanyPhone    string         `gorm:"size:50" json:"company_phone"`
	ReceiptTemplate datatypes.JSON `gorm:"type:jsonb" json:"receipt_template"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName returns the table name for the CompanySettings model
func (CompanySettings) TableName() string {
	return "company_settings"
}
