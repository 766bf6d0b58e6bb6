package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sangkips/tillsync/internal/domain/entity"
	"github.com/sangkips/tillsync/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService computes dashboard figures over the local sale history.
type ReportService struct {
	history  repository.SaleHistoryRepository
	location *time.Location
}

// NewReportService creates a new report service. Days are bucketed in location.
func NewReportService(history repository.SaleHistoryRepository, location *time.Location) *ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportService{history: history, location: location}
}

// ReportPeriod bounds a report. Zero values are open ends; To is exclusive.
type ReportPeriod struct {
	From time.Time
	To   time.Time
}

func (p ReportPeriod) contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}

// SalesSummary represents dashboard statistics
type SalesSummary struct {
	SaleCount   int               `json:"sale_count"`
	ItemCount   int               `json:"item_count"`
	Revenue     decimal.Decimal   `json:"revenue"`
	AverageSale decimal.Decimal   `json:"average_sale"`
	ByState     map[string]int    `json:"by_sync_state"`
	Daily       []DailySalesPoint `json:"daily"`
	TopItems    []ItemSalesPoint  `json:"top_items"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ItemSalesPoint represents sales of one item name
type ItemSalesPoint struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

const topItemsLimit = 10

func (s *ReportService) salesIn(ctx context.Context, period ReportPeriod) []entity.Sale {
	var out []entity.Sale
	for _, sale := range s.history.List(ctx) {
		if period.contains(sale.Date) {
			out = append(out, sale)
		}
	}
	return out
}

// Summary returns totals, a per-day series and the best selling items.
func (s *ReportService) Summary(ctx context.Context, period ReportPeriod) *SalesSummary {
	sales := s.salesIn(ctx, period)

	summary := &SalesSummary{
		Revenue:     decimal.Zero,
		AverageSale: decimal.Zero,
		ByState:     map[string]int{},
		Daily:       []DailySalesPoint{},
		TopItems:    []ItemSalesPoint{},
	}

	daily := map[string]*DailySalesPoint{}
	items := map[string]*ItemSalesPoint{}

	for _, sale := range sales {
		total := sale.Total()
		summary.SaleCount++
		summary.ItemCount += sale.ItemCount()
		summary.Revenue = summary.Revenue.Add(total)
		summary.ByState[sale.Sync.State.String()]++

		day := sale.Date.In(s.location).Format("2006-01-02")
		point, ok := daily[day]
		if !ok {
			point = &DailySalesPoint{Date: day, Revenue: decimal.Zero}
			daily[day] = point
		}
		point.Sales++
		point.Revenue = point.Revenue.Add(total)

		for _, line := range sale.Items {
			ip, ok := items[line.Name]
			if !ok {
				ip = &ItemSalesPoint{Name: line.Name, Revenue: decimal.Zero}
				items[line.Name] = ip
			}
			ip.Quantity += line.Quantity
			ip.Revenue = ip.Revenue.Add(line.LineTotal())
		}
	}

	if summary.SaleCount > 0 {
		summary.AverageSale = summary.Revenue.DivRound(decimal.NewFromInt(int64(summary.SaleCount)), 2)
	}

	for _, p := range daily {
		summary.Daily = append(summary.Daily, *p)
	}
	sort.Slice(summary.Daily, func(i, j int) bool {
		return summary.Daily[i].Date < summary.Daily[j].Date
	})

	for _, p := range items {
		summary.TopItems = append(summary.TopItems, *p)
	}
	sort.Slice(summary.TopItems, func(i, j int) bool {
		a, b := summary.TopItems[i], summary.TopItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(summary.TopItems) > topItemsLimit {
		summary.TopItems = summary.TopItems[:topItemsLimit]
	}

	return summary
}

const (
	salesSheet = "Sales"
	linesSheet = "Line Items"
)

// ExportSalesXLSX writes the sales of period as a workbook with one sheet of
// sales and one of line items.
func (s *ReportService) ExportSalesXLSX(ctx context.Context, w io.Writer, period ReportPeriod) error {
	sales := s.salesIn(ctx, period)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(linesSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(f, salesSheet, 1, []interface{}{"Date", "Sale ID", "Invoice", "Customer", "Items", "Total", "Sync state"}); err != nil {
		return err
	}
	if err := writeRow(f, linesSheet, 1, []interface{}{"Sale ID", "Position", "Item", "Quantity", "Unit price", "Line total"}); err != nil {
		return err
	}
	_ = f.SetCellStyle(salesSheet, "A1", "G1", bold)
	_ = f.SetCellStyle(linesSheet, "A1", "F1", bold)

	lineRow := 2
	for i, sale := range sales {
		total, _ := sale.Total().Float64()
		row := []interface{}{
			sale.Date.In(s.location).Format("2006-01-02 15:04:05"),
			sale.ID.String(),
			sale.Sync.InvoiceNumber,
			sale.Customer,
			sale.ItemCount(),
			total,
			sale.Sync.State.String(),
		}
		if err := writeRow(f, salesSheet, i+2, row); err != nil {
			return err
		}

		for pos, line := range sale.Items {
			price, _ := line.UnitPrice.Float64()
			lineTotal, _ := line.LineTotal().Float64()
			if err := writeRow(f, linesSheet, lineRow, []interface{}{
				sale.ID.String(), pos + 1, line.Name, line.Quantity, price, lineTotal,
			}); err != nil {
				return err
			}
			lineRow++
		}
	}

	_ = f.SetColWidth(salesSheet, "A", "D", 22)
	_ = f.SetColWidth(linesSheet, "A", "C", 22)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
