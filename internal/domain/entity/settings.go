package entity

import (
	"time"

	"github.com/sangkips/tillsync/internal/domain/enum"
)

// StoreSettings is the single receipt template and store profile. It is
// replaced wholesale on save.
type StoreSettings struct {
	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address"`
	StorePhone   string `json:"store_phone"`

	ReceiptTitle  string `json:"receipt_title"`
	HeaderMessage string `json:"header_message"`
	FooterMessage string `json:"footer_message"`

	CustomerLabel  string `json:"customer_label"`
	DateLabel      string `json:"date_label"`
	TimeLabel      string `json:"time_label"`
	ItemLabel      string `json:"item_label"`
	QtyLabel       string `json:"qty_label"`
	PriceLabel     string `json:"price_label"`
	TotalLabel     string `json:"total_label"`
	ItemCountLabel string `json:"item_count_label"`

	ShowStoreName    bool `json:"show_store_name"`
	ShowStoreAddress bool `json:"show_store_address"`
	ShowStorePhone   bool `json:"show_store_phone"`
	ShowHeader       bool `json:"show_header"`
	ShowDate         bool `json:"show_date"`
	ShowTime         bool `json:"show_time"`
	ShowCustomer     bool `json:"show_customer"`
	ShowTableHeaders bool `json:"show_table_headers"`
	ShowItemTable    bool `json:"show_item_table"`
	ShowItemCount    bool `json:"show_item_count"`
	ShowFooter       bool `json:"show_footer"`

	DateFormat     enum.DateFormat `json:"date_format"`
	TimeFormat     enum.TimeFormat `json:"time_format"`
	CurrencySymbol string          `json:"currency_symbol"`
	WalkInLabel    string          `json:"walk_in_label"`
	PaperWidth     int             `json:"paper_width"`

	// Version is an optimistic concurrency token, bumped on every save.
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultStoreSettings is the template used before anything is saved.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName:        "My Store",
		ReceiptTitle:     "Receipt",
		FooterMessage:    "Thank you for your business!",
		CustomerLabel:    "Customer",
		DateLabel:        "Date",
		TimeLabel:        "Time",
		ItemLabel:        "Item",
		QtyLabel:         "Qty",
		PriceLabel:       "Price",
		TotalLabel:       "Total",
		ItemCountLabel:   "Items",
		ShowStoreName:    true,
		ShowStoreAddress: true,
		ShowStorePhone:   true,
		ShowHeader:       true,
		ShowDate:         true,
		ShowTime:         true,
		ShowCustomer:     true,
		ShowTableHeaders: true,
		ShowItemTable:    true,
		ShowItemCount:    false,
		ShowFooter:       true,
		DateFormat:       enum.DateFormatDMY,
		TimeFormat:       enum.TimeFormat24Hour,
		CurrencySymbol:   "$",
		WalkInLabel:      "Walk-in Customer",
		PaperWidth:       32,
	}
}
