package service

import (
	"strings"
	"testing"
	"time"

	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiptSale() entity.Sale {
	sale := entity.NewSale("", []entity.LineItem{
		{Name: "Tea", UnitPrice: decimal.NewFromInt(25), Quantity: 2},
		{Name: "Scone", UnitPrice: decimal.RequireFromString("1.005"), Quantity: 3},
	}, time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC), "Walk-in Customer")
	sale.Sync.InvoiceNumber = "INV-00009"
	return *sale
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol string
		amount string
		want   string
	}{
		{"$", "50", "$50.00"},
		{"$", "3.015", "$3.02"},
		{"KSh ", "0", "KSh 0.00"},
		{"€", "1234.5", "€1234.50"},
		{"", "-2.5", "-2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.symbol, decimal.RequireFromString(tt.amount)))
	}
}

func TestFormatDateAndTime(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	assert.Equal(t, "09/03/2024", FormatDate(at, enum.DateFormatDMY))
	assert.Equal(t, "03/09/2024", FormatDate(at, enum.DateFormatMDY))
	assert.Equal(t, "2024-03-09", FormatDate(at, enum.DateFormatISO))
	assert.Equal(t, "09/03/2024", FormatDate(at, enum.DateFormat("bogus")))

	assert.Equal(t, "14:05", FormatTime(at, enum.TimeFormat24Hour))
	assert.Equal(t, "02:05 PM", FormatTime(at, enum.TimeFormat12Hour))
	assert.Equal(t, "14:05", FormatTime(at, enum.TimeFormat("")))
}

func TestBuildReceiptViewAppliesGates(t *testing.T) {
	sale := receiptSale()

	t.Run("defaults", func(t *testing.T) {
		settings := entity.DefaultStoreSettings()
		r := BuildReceiptView(sale, settings, time.Time{})

		assert.Equal(t, "My Store", r.Header.StoreName)
		assert.Equal(t, "09/03/2024", r.Date)
		assert.Equal(t, "14:05", r.Time)
		assert.Equal(t, "Walk-in Customer", r.Customer)
		assert.True(t, r.Tabular)
		assert.True(t, r.TableHeaders)
		assert.Empty(t, r.ItemCount)
		assert.Equal(t, "$53.02", r.Total)
		require.Len(t, r.Items, 2)
		assert.Equal(t, "$1.01", r.Items[1].UnitPrice)
		assert.Equal(t, "$3.02", r.Items[1].Total)
		assert.Equal(t, "Thank you for your business!", r.Footer)
	})

	t.Run("everything hidden", func(t *testing.T) {
		settings := entity.DefaultStoreSettings()
		settings.ShowStoreName = false
		settings.ShowStoreAddress = false
		settings.ShowStorePhone = false
		settings.ShowHeader = false
		settings.ShowDate = false
		settings.ShowTime = false
		settings.ShowCustomer = false
		settings.ShowItemTable = false
		settings.ShowFooter = false
		settings.StoreAddress = "1 Main St"
		settings.HeaderMessage = "Welcome"

		r := BuildReceiptView(sale, settings, time.Time{})

		assert.Equal(t, entity.ReceiptHeader{}, r.Header)
		assert.Empty(t, r.Date)
		assert.Empty(t, r.Time)
		assert.Empty(t, r.Customer)
		assert.False(t, r.Tabular)
		assert.False(t, r.TableHeaders)
		assert.Empty(t, r.Footer)
		assert.Equal(t, "$53.02", r.Total)
	})

	t.Run("item count shown", func(t *testing.T) {
		settings := entity.DefaultStoreSettings()
		settings.ShowItemCount = true
		r := BuildReceiptView(sale, settings, time.Time{})
		assert.Equal(t, "5", r.ItemCount)
		assert.Equal(t, "Items", r.Labels.ItemCount)
	})
}

func TestRenderReceiptHTML(t *testing.T) {
	sale := receiptSale()
	settings := entity.DefaultStoreSettings()
	settings.StoreName = "Tom & Jerry's"
	settings.ShowItemCount = true
	nairobi := time.FixedZone("EAT", 3*60*60)
	at := sale.Date.In(nairobi)

	html, err := RenderReceiptHTML(sale, settings, at)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Tom &amp; Jerry&#39;s")
	assert.Contains(t, html, "INV-00009")
	assert.Contains(t, html, "17:05")
	assert.Contains(t, html, `class="item-count"`)
	assert.Contains(t, html, "$53.02")
	assert.Contains(t, html, `class="footer"`)

	again, err := RenderReceiptHTML(sale, settings, at)
	require.NoError(t, err)
	assert.Equal(t, html, again)

	settings.ShowFooter = false
	settings.ShowStoreName = false
	settings.ShowItemTable = false
	plain, err := RenderReceiptHTML(sale, settings, at)
	require.NoError(t, err)
	assert.NotContains(t, plain, `class="footer"`)
	assert.NotContains(t, plain, `class="store-name"`)
	assert.NotContains(t, plain, "<table")
	assert.Contains(t, plain, "3 x Scone @ $1.01")
}

func TestFormatReceiptESCPOS(t *testing.T) {
	sale := receiptSale()
	settings := entity.DefaultStoreSettings()

	out := FormatReceiptESCPOS(sale, settings, time.Time{})

	assert.Equal(t, []byte{0x1B, 0x40}, out[:2])
	text := string(out)
	assert.Contains(t, text, "My Store")
	assert.Contains(t, text, "INV-00009")
	assert.Contains(t, text, "$53.02")
	assert.Contains(t, text, "Thank you for your business!")
	assert.Equal(t, []byte{0x1D, 0x56, 0x01}, out[len(out)-3:])

	settings.ShowFooter = false
	assert.NotContains(t, string(FormatReceiptESCPOS(sale, settings, time.Time{})), "Thank you")
}
