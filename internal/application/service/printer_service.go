package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/sangkips/tillsync/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptService renders and prints receipts for saved sales and for carts
// that are not saved yet.
type ReceiptService struct {
	printer  printer.Printer
	history  repository.SaleHistoryRepository
	demo     repository.DemoReceiptRepository
	settings repository.SettingsRepository
	location *time.Location
	log      logger.ZapLogger
}

// NewReceiptService creates a new receipt service. Receipt times are printed
// in location.
func NewReceiptService(
	p printer.Printer,
	history repository.SaleHistoryRepository,
	demo repository.DemoReceiptRepository,
	settings repository.SettingsRepository,
	location *time.Location,
	log logger.ZapLogger,
) *ReceiptService {
	if location == nil {
		location = time.Local
	}
	return &ReceiptService{
		printer:  p,
		history:  history,
		demo:     demo,
		settings: settings,
		location: location,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Type(),
	}
}

// SaleReceiptHTML returns the cached receipt of a sale, or renders one from
// its items and the current settings.
func (s *ReceiptService) SaleReceiptHTML(ctx context.Context, id uuid.UUID) (string, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return "", err
	}
	if sale.ReceiptHTML != "" {
		return sale.ReceiptHTML, nil
	}
	return RenderReceiptHTML(*sale, *s.settings.Get(ctx), sale.Date.In(s.location))
}

// PreviewReceipt renders a cart at the current time without saving anything.
func (s *ReceiptService) PreviewReceipt(ctx context.Context, customer string, items []entity.LineItem, settings *entity.StoreSettings) (string, error) {
	if settings == nil {
		settings = s.settings.Get(ctx)
	}
	now := time.Now()
	sale := entity.NewSale(customer, items, now, settings.WalkInLabel)
	return RenderReceiptHTML(*sale, *settings, now.In(s.location))
}

// RenderForSale renders sale at its own date with the current settings.
func (s *ReceiptService) RenderForSale(ctx context.Context, sale entity.Sale) (string, error) {
	return RenderReceiptHTML(sale, *s.settings.Get(ctx), sale.Date.In(s.location))
}

// CacheReceipt renders a saved sale and stores the HTML on its history
// record. It runs after the save so the receipt carries the invoice number.
func (s *ReceiptService) CacheReceipt(ctx context.Context, sale entity.Sale) (string, error) {
	html, err := s.RenderForSale(ctx, sale)
	if err != nil {
		return "", err
	}
	if err := s.history.SetReceiptHTML(ctx, sale.ID, html); err != nil {
		return "", err
	}
	return html, nil
}

// RenderNow renders sale with the current settings at the current time.
func (s *ReceiptService) RenderNow(ctx context.Context, sale entity.Sale) (string, error) {
	return RenderReceiptHTML(sale, *s.settings.Get(ctx), time.Now().In(s.location))
}

// PrintSale prints the receipt of a saved sale. The formatted receipt is
// returned even when printing fails so it can be shown instead.
func (s *ReceiptService) PrintSale(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.findSale(ctx, id)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceiptView(*sale, *s.settings.Get(ctx), sale.Date.In(s.location))
	if err := s.printer.Print(ctx, FormatReceipt(&receipt)); err != nil {
		s.log.Warn("printer error", zap.String("sale_id", id.String()), zap.Error(err))
		return &receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return &receipt, nil
}

// TestPrint sends a sample receipt using the current template.
func (s *ReceiptService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings := *s.settings.Get(ctx)
	sale := entity.NewSale("", []entity.LineItem{
		{Name: "Test Item 1", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		{Name: "Test Item 2", UnitPrice: decimal.NewFromInt(5), Quantity: 2},
	}, time.Now(), settings.WalkInLabel)
	sale.Sync.InvoiceNumber = "TEST-001"

	receipt := BuildReceiptView(*sale, settings, time.Now().In(s.location))
	if err := s.printer.Print(ctx, FormatReceipt(&receipt)); err != nil {
		return &receipt, fmt.Errorf("test print failed: %w", err)
	}
	return &receipt, nil
}

// findSale looks in the sale history first, then in the demo receipts.
func (s *ReceiptService) findSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.history.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		if sale, err = s.demo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}
