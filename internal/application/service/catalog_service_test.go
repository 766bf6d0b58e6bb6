package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/pkg/apperror"
	"github.com/sangkips/tillsync/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoCheckoutStaysLocal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	env.remote.signIn()
	catalog := NewCatalogService(env.items, env.demo, env.settings, env.receiptService(&recordingPrinter{}), logger.NewNop())

	tea, err := catalog.CreateItem(ctx, &ItemInput{Name: "Tea", Price: decimal.NewFromInt(25), StockQuantity: 5})
	require.NoError(t, err)

	out, err := catalog.DemoCheckout(ctx, "", []CartLine{
		{ItemID: &tea.ID, Name: "ignored", UnitPrice: decimal.NewFromInt(1), Quantity: 2},
		{Name: "Bag", UnitPrice: decimal.RequireFromString("0.5"), Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Tea", out.Sale.Items[0].Name)
	assert.True(t, decimal.RequireFromString("50.5").Equal(out.Sale.Total()))
	assert.Contains(t, out.HTML, "$50.50")
	assert.Equal(t, out.HTML, out.Sale.ReceiptHTML)

	item, err := catalog.GetItem(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, item.StockQuantity)

	assert.Len(t, catalog.ListDemoReceipts(ctx), 1)
	assert.Empty(t, env.history.List(ctx))
	assert.Zero(t, env.remote.insertCalls)

	got, err := catalog.GetDemoReceipt(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Sale.ID, got.ID)
}

func TestResolveCartUnknownItem(t *testing.T) {
	env := newTestEnv(t, SyncOptions{})
	catalog := NewCatalogService(env.items, env.demo, env.settings, env.receiptService(&recordingPrinter{}), logger.NewNop())

	missing := uuid.New()
	_, err := catalog.ResolveCart(context.Background(), []CartLine{{ItemID: &missing, Quantity: 1}})
	appErr := apperror.GetAppError(err)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "items[0].item_id", appErr.Errors[0].Field)
}

func TestCatalogItemLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	catalog := NewCatalogService(env.items, env.demo, env.settings, env.receiptService(&recordingPrinter{}), logger.NewNop())

	_, err := catalog.CreateItem(ctx, &ItemInput{Name: "", Price: decimal.NewFromInt(-1)})
	assert.Len(t, apperror.GetAppError(err).Errors, 2)

	scone, err := catalog.CreateItem(ctx, &ItemInput{Name: "Scone", SKU: "SC-1", Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	_, err = catalog.CreateItem(ctx, &ItemInput{Name: "Apple", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	assert.Len(t, catalog.ListItems(ctx, "sc-"), 1)
	all := catalog.ListItems(ctx, "")
	require.Len(t, all, 2)
	assert.Equal(t, "Apple", all[0].Name)

	updated, err := catalog.UpdateItem(ctx, scone.ID, &ItemInput{Name: "Cheese scone", Price: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, "Cheese scone", updated.Name)

	require.NoError(t, catalog.DeleteItem(ctx, scone.ID))
	_, err = catalog.GetItem(ctx, scone.ID)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestPrintSaleFallsBackToReceipt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	p := &recordingPrinter{ready: true}
	receipts := env.receiptService(p)

	result, err := env.sync.CreateSale(ctx, "Jane", teaCart())
	require.NoError(t, err)

	receipt, err := receipts.PrintSale(ctx, result.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "$50.00", receipt.Total)
	require.Len(t, p.jobs, 1)
	assert.Contains(t, string(p.jobs[0]), "Jane")

	p.err = errors.New("printer offline")
	receipt, err = receipts.PrintSale(ctx, result.Sale.ID)
	assert.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "Jane", receipt.Customer)

	_, err = receipts.PrintSale(ctx, uuid.New())
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	status := receipts.GetStatus(ctx)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
}

func TestSaleReceiptHTMLPrefersCachedCopy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	receipts := env.receiptService(&recordingPrinter{})

	sale := receiptSale()
	sale.ReceiptHTML = "<p>cached</p>"
	_, err := env.sync.SaveSale(ctx, sale)
	require.NoError(t, err)

	html, err := receipts.SaleReceiptHTML(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>cached</p>", html)

	preview, err := receipts.PreviewReceipt(ctx, "", teaCart(), nil)
	require.NoError(t, err)
	assert.Contains(t, preview, "Walk-in Customer")
	assert.Len(t, env.history.List(ctx), 1)
}

func TestCacheReceiptShowsInvoiceNumber(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SyncOptions{})
	env.remote.signIn()
	receipts := env.receiptService(&recordingPrinter{})

	result, err := env.sync.CreateSale(ctx, "Jane", teaCart())
	require.NoError(t, err)
	require.Equal(t, "INV-00001", result.Sale.Sync.InvoiceNumber)

	html, err := receipts.CacheReceipt(ctx, result.Sale)
	require.NoError(t, err)
	assert.Contains(t, html, "INV-00001")

	served, err := receipts.SaleReceiptHTML(ctx, result.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, html, served)

	_, err = receipts.CacheReceipt(ctx, *entity.NewSale("", teaCart(), time.Now(), ""))
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
