package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages the local item catalog and the demo checkout, which
// records receipts on this till only.
type CatalogService struct {
	itemRepo   repository.ItemRepository
	demoRepo   repository.DemoReceiptRepository
	settings   repository.SettingsRepository
	receiptSvc *ReceiptService
	log        logger.ZapLogger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	itemRepo repository.ItemRepository,
	demoRepo repository.DemoReceiptRepository,
	settings repository.SettingsRepository,
	receiptSvc *ReceiptService,
	log logger.ZapLogger,
) *CatalogService {
	return &CatalogService{
		itemRepo:   itemRepo,
		demoRepo:   demoRepo,
		settings:   settings,
		receiptSvc: receiptSvc,
		log:        log,
	}
}

// ItemInput represents the input for creating or updating an item
type ItemInput struct {
	Name          string
	SKU           string
	Price         decimal.Decimal
	StockQuantity int
}

func (in *ItemInput) validate() error {
	var fieldErrors []apperror.FieldError
	if in.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if in.Price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if in.StockQuantity < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock_quantity", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// ListItems lists catalog items, optionally filtered by name or SKU
func (s *CatalogService) ListItems(ctx context.Context, search string) []entity.Item {
	return s.itemRepo.List(ctx, search)
}

// GetItem retrieves an item by ID
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// CreateItem adds an item to the catalog
func (s *CatalogService) CreateItem(ctx context.Context, input *ItemInput) (*entity.Item, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item := &entity.Item{
		Name:          input.Name,
		SKU:           input.SKU,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces the editable fields of an item
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, input *ItemInput) (*entity.Item, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = input.Name
	item.SKU = input.SKU
	item.Price = input.Price
	item.StockQuantity = input.StockQuantity
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item. Past sales keep their copy of its name and price.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// ResolveCart turns cart lines into sale lines. Lines that reference a catalog
// item take its current name and price; other lines are used as given.
func (s *CatalogService) ResolveCart(ctx context.Context, lines []CartLine) ([]entity.LineItem, error) {
	items := make([]entity.LineItem, 0, len(lines))
	for i, line := range lines {
		if line.ItemID == nil {
			items = append(items, entity.LineItem{
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			})
			continue
		}

		item, err := s.itemRepo.GetByID(ctx, *line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{{
				Field:   "items[" + strconv.Itoa(i) + "].item_id",
				Message: "unknown item",
			}})
		}
		items = append(items, item.ToLineItem(line.Quantity))
	}
	return items, nil
}

// DemoCheckoutOutput is a demo sale with its rendered receipt.
type DemoCheckoutOutput struct {
	Sale entity.Sale `json:"sale"`
	HTML string      `json:"receipt_html"`
}

// DemoCheckout completes a cart in demo mode: the receipt is rendered, kept
// in the demo history and stock is decremented. Nothing reaches the remote
// store or the sale history.
func (s *CatalogService) DemoCheckout(ctx context.Context, customer string, lines []CartLine) (*DemoCheckoutOutput, error) {
	items, err := s.ResolveCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	settings := s.settings.Get(ctx)
	sale := entity.NewSale(customer, items, time.Now(), settings.WalkInLabel)

	html, err := s.receiptSvc.RenderNow(ctx, *sale)
	if err != nil {
		return nil, err
	}
	sale.ReceiptHTML = html

	s.demoRepo.Append(ctx, *sale)
	s.itemRepo.DecrementStock(ctx, sale.Items)
	s.log.Debug("demo checkout", zap.String("sale_id", sale.ID.String()))

	return &DemoCheckoutOutput{Sale: *sale, HTML: html}, nil
}

// ListDemoReceipts returns demo receipts, newest first
func (s *CatalogService) ListDemoReceipts(ctx context.Context) []entity.Sale {
	receipts := s.demoRepo.List(ctx)
	for i, j := 0, len(receipts)-1; i < j; i, j = i+1, j-1 {
		receipts[i], receipts[j] = receipts[j], receipts[i]
	}
	return receipts
}

// GetDemoReceipt retrieves a demo receipt by sale ID
func (s *CatalogService) GetDemoReceipt(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.demoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return sale, nil
}
