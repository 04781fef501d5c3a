// Package export renders archived periods as spreadsheets.
package export

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Periods"
	SellerSheet  = "Sellers"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout  = "2006-01-02"
)

var (
	summaryHeader = []string{"ID", "Type", "Start", "End", "Total Cost", "Total Profit", "Total Sales", "Archived At"}
	sellerHeader  = []string{"Period ID", "Type", "Start", "End", "Seller", "Cost", "Profit", "Sales"}
)

// HistoryWorkbook builds a workbook with one row per archive on the periods
// sheet and one row per archive and seller on the sellers sheet.
func HistoryWorkbook(records []domain.PeriodHistoryRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", SummarySheet, err)
	}
	if _, err := f.NewSheet(SellerSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", SellerSheet, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	writeRow(f, SummarySheet, 1, toAny(summaryHeader))
	writeRow(f, SellerSheet, 1, toAny(sellerHeader))

	sellerRow := 2
	for i, rec := range records {
		start := rec.PeriodStart.Format(dateLayout)
		end := rec.PeriodEnd.Format(dateLayout)

		writeRow(f, SummarySheet, i+2, []any{
			rec.ID.String(),
			string(rec.PeriodType),
			start,
			end,
			rec.TotalCost.InexactFloat64(),
			rec.TotalProfit.InexactFloat64(),
			rec.TotalSales,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		})

		sellers := make([]string, 0, len(rec.SellerBreakdown))
		for name := range rec.SellerBreakdown {
			sellers = append(sellers, name)
		}
		sort.Strings(sellers)

		for _, name := range sellers {
			totals := rec.SellerBreakdown[name]
			writeRow(f, SellerSheet, sellerRow, []any{
				rec.ID.String(),
				string(rec.PeriodType),
				start,
				end,
				name,
				totals.Cost.InexactFloat64(),
				totals.Profit.InexactFloat64(),
				totals.Sales,
			})
			sellerRow++
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "H1", style)
	_ = f.SetCellStyle(SellerSheet, "A1", "H1", style)

	_ = f.SetColWidth(SummarySheet, "A", "A", 38)
	_ = f.SetColWidth(SummarySheet, "B", "D", 12)
	_ = f.SetColWidth(SummarySheet, "E", "G", 14)
	_ = f.SetColWidth(SummarySheet, "H", "H", 20)
	_ = f.SetColWidth(SellerSheet, "A", "A", 38)
	_ = f.SetColWidth(SellerSheet, "E", "E", 20)

	return f, nil
}

// HistoryXLSX returns the workbook bytes.
func HistoryXLSX(records []domain.PeriodHistoryRecord) ([]byte, error) {
	f, err := HistoryWorkbook(records)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
