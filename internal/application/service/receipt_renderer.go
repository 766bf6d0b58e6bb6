package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/enum"
	"github.com/sangkips/tillsync/pkg/printer"
	"github.com/shopspring/decimal"
)

// FormatMoney prefixes symbol to amount rounded to two decimals. This is the
// only place money is rounded.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// FormatDate prints t with the template date format.
func FormatDate(t time.Time, format enum.DateFormat) string {
	return t.Format(format.Layout())
}

// FormatTime prints t with the template time format.
func FormatTime(t time.Time, format enum.TimeFormat) string {
	return t.Format(format.Layout())
}

// BuildReceiptView applies every template gate to sale and formats every
// amount. at is the instant printed on the receipt; a zero at uses the sale
// date. Times are printed in the location of at.
func BuildReceiptView(sale entity.Sale, settings entity.StoreSettings, at time.Time) entity.Receipt {
	if at.IsZero() {
		at = sale.Date
	}

	money := func(d decimal.Decimal) string {
		return FormatMoney(settings.CurrencySymbol, d)
	}

	r := entity.Receipt{
		Title:        settings.ReceiptTitle,
		InvoiceNo:    sale.Sync.InvoiceNumber,
		Tabular:      settings.ShowItemTable,
		TableHeaders: settings.ShowItemTable && settings.ShowTableHeaders,
		Total:        money(sale.Total()),
		PaperWidth:   settings.PaperWidth,
		Labels:       entity.ReceiptLabels{Total: settings.TotalLabel},
	}

	if settings.ShowStoreName {
		r.Header.StoreName = settings.StoreName
	}
	if settings.ShowStoreAddress {
		r.Header.Address = settings.StoreAddress
	}
	if settings.ShowStorePhone {
		r.Header.Phone = settings.StorePhone
	}
	if settings.ShowHeader {
		r.Header.Message = settings.HeaderMessage
	}

	if settings.ShowDate {
		r.Date = FormatDate(at, settings.DateFormat)
		r.Labels.Date = settings.DateLabel
	}
	if settings.ShowTime {
		r.Time = FormatTime(at, settings.TimeFormat)
		r.Labels.Time = settings.TimeLabel
	}
	if settings.ShowCustomer && sale.Customer != "" {
		r.Customer = sale.Customer
		r.Labels.Customer = settings.CustomerLabel
	}
	if r.TableHeaders {
		r.Labels.Item = settings.ItemLabel
		r.Labels.Qty = settings.QtyLabel
		r.Labels.Price = settings.PriceLabel
	}
	if settings.ShowItemCount {
		r.ItemCount = strconv.Itoa(sale.ItemCount())
		r.Labels.ItemCount = settings.ItemCountLabel
	}
	if settings.ShowFooter {
		r.Footer = settings.FooterMessage
	}

	r.Items = make([]entity.ReceiptLine, len(sale.Items))
	for i, item := range sale.Items {
		r.Items[i] = entity.ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Total:     money(item.LineTotal()),
		}
	}

	return r
}

// RenderReceiptHTML renders sale as a self-contained printable HTML document.
// The output depends only on its arguments.
func RenderReceiptHTML(sale entity.Sale, settings entity.StoreSettings, at time.Time) (string, error) {
	view := BuildReceiptView(sale, settings, at)

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// FormatReceiptESCPOS renders sale for a thermal printer with the same gates
// as the HTML receipt.
func FormatReceiptESCPOS(sale entity.Sale, settings entity.StoreSettings, at time.Time) []byte {
	view := BuildReceiptView(sale, settings, at)
	return FormatReceipt(&view)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(r.PaperWidth)

	// Header
	doc.SetAlign(printer.AlignCenter)
	if r.Header.StoreName != "" {
		doc.SetBold(true).
			SetFontSize(printer.FontDouble).
			Text(r.Header.StoreName).
			SetFontSize(printer.FontNormal).
			SetBold(false)
	}
	doc.Text(r.Header.Address).
		Text(r.Header.Phone).
		Text(r.Title).
		Text(r.Header.Message)

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Sale info
	if r.InvoiceNo != "" {
		doc.KeyValue("Invoice:", r.InvoiceNo)
	}
	if r.Date != "" {
		doc.KeyValue(r.Labels.Date+":", r.Date)
	}
	if r.Time != "" {
		doc.KeyValue(r.Labels.Time+":", r.Time)
	}
	if r.Customer != "" {
		doc.KeyValue(r.Labels.Customer+":", r.Customer)
	}

	doc.Separator('-')

	// Items
	widths := []int{4, 9, 9}
	if r.Tabular {
		if r.TableHeaders {
			doc.SetBold(true).
				Columns(r.Labels.Item, []string{r.Labels.Qty, r.Labels.Price, r.Labels.Total}, widths).
				SetBold(false)
		}
		for _, item := range r.Items {
			doc.Columns(item.Name, []string{strconv.Itoa(item.Quantity), item.UnitPrice, item.Total}, widths)
		}
	} else {
		for _, item := range r.Items {
			doc.KeyValue(fmt.Sprintf("%dx %s", item.Quantity, item.Name), item.Total)
			if item.Quantity > 1 {
				doc.Text("  @ " + item.UnitPrice + " each")
			}
		}
	}

	doc.Separator('-')

	// Totals
	if r.ItemCount != "" {
		doc.KeyValue(r.Labels.ItemCount+":", r.ItemCount)
	}
	doc.SetBold(true).
		KeyValue(r.Labels.Total+":", r.Total).
		SetBold(false)

	// Footer
	if r.Footer != "" {
		doc.SetAlign(printer.AlignCenter).
			FeedLines(1).
			Text(r.Footer).
			SetAlign(printer.AlignLeft)
	}

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}Receipt{{end}}</title>
<style>
body{font-family:"Courier New",monospace;font-size:12px;max-width:300px;margin:0 auto;padding:8px;color:#000}
.center{text-align:center}
.row{display:flex;justify-content:space-between}
.sep{border-top:1px dashed #000;margin:6px 0}
table{width:100%;border-collapse:collapse}
th,td{padding:2px 0;text-align:left}
.num{text-align:right}
.total{font-weight:bold;font-size:14px}
@media print{body{margin:0}}
</style>
</head>
<body>
<div class="center header">
{{- with .Header}}
{{- if .StoreName}}
<div class="store-name"><strong>{{.StoreName}}</strong></div>
{{- end}}
{{- if .Address}}
<div class="store-address">{{.Address}}</div>
{{- end}}
{{- if .Phone}}
<div class="store-phone">{{.Phone}}</div>
{{- end}}
{{- end}}
{{- if .Title}}
<div class="title">{{.Title}}</div>
{{- end}}
{{- if .Header.Message}}
<div class="header-message">{{.Header.Message}}</div>
{{- end}}
</div>
<div class="sep"></div>
{{- if .InvoiceNo}}
<div class="row invoice"><span>Invoice:</span><span>{{.InvoiceNo}}</span></div>
{{- end}}
{{- if .Date}}
<div class="row date"><span>{{.Labels.Date}}:</span><span>{{.Date}}</span></div>
{{- end}}
{{- if .Time}}
<div class="row time"><span>{{.Labels.Time}}:</span><span>{{.Time}}</span></div>
{{- end}}
{{- if .Customer}}
<div class="row customer"><span>{{.Labels.Customer}}:</span><span>{{.Customer}}</span></div>
{{- end}}
<div class="sep"></div>
{{- if .Tabular}}
<table class="items">
{{- if .TableHeaders}}
<thead><tr><th>{{.Labels.Item}}</th><th class="num">{{.Labels.Qty}}</th><th class="num">{{.Labels.Price}}</th><th class="num">{{.Labels.Total}}</th></tr></thead>
{{- end}}
<tbody>
{{- range .Items}}
<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Total}}</td></tr>
{{- end}}
</tbody>
</table>
{{- else}}
<div class="items">
{{- range .Items}}
<div class="row"><span>{{.Quantity}} x {{.Name}} @ {{.UnitPrice}}</span><span>{{.Total}}</span></div>
{{- end}}
</div>
{{- end}}
<div class="sep"></div>
{{- if .ItemCount}}
<div class="row item-count"><span>{{.Labels.ItemCount}}:</span><span>{{.ItemCount}}</span></div>
{{- end}}
<div class="row total"><span>{{.Labels.Total}}:</span><span>{{.Total}}</span></div>
{{- if .Footer}}
<div class="sep"></div>
<div class="center footer">{{.Footer}}</div>
{{- end}}
</body>
</html>
`))
