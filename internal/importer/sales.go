package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/shopspring/decimal"
)

var saleDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ParseSales maps rows to sales. Required columns: date, unit_cost, quantity.
// profit, product_id and seller are optional.
func ParseSales(t *Table, loc *time.Location) ([]domain.Sale, error) {
	if loc == nil {
		loc = time.UTC
	}

	dateIdx, err := t.require("date", "sale_date", "created_at")
	if err != nil {
		return nil, err
	}
	costIdx, err := t.require("unit_cost", "cost", "cost_price")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := t.require("quantity", "qty")
	if err != nil {
		return nil, err
	}
	profitIdx, _ := t.column("profit")
	productIdx, _ := t.column("product_id", "sku")
	sellerIdx, _ := t.column("seller", "seller_name")

	sales := make([]domain.Sale, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := t.Line(i)

		date, err := parseDate(cell(row, dateIdx), loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", line, cell(row, dateIdx))
		}
		unitCost, err := parseMoney(cell(row, costIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid unit_cost %q", line, cell(row, costIdx))
		}
		quantity, err := strconv.Atoi(cell(row, qtyIdx))
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("row %d: invalid quantity %q", line, cell(row, qtyIdx))
		}
		profit := decimal.Zero
		if raw := cell(row, profitIdx); raw != "" {
			if profit, err = parseMoney(raw); err != nil {
				return nil, fmt.Errorf("row %d: invalid profit %q", line, raw)
			}
		}

		sales = append(sales, domain.Sale{
			ProductID: cell(row, productIdx),
			Date:      date,
			UnitCost:  unitCost,
			Quantity:  quantity,
			Profit:    profit,
			Seller:    cell(row, sellerIdx),
		})
	}

	return sales, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range saleDateLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			year, month, day := t.In(loc).Date()
			return time.Date(year, month, day, 0, 0, 0, 0, loc), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// thousandsGrouped matches values like 1,200 or 12,345,678.90.
var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseMoney accepts plain decimals with optional thousands separators.
// Any other comma, such as a decimal comma in 10,50, is rejected.
func parseMoney(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(value, ",") {
		if !thousandsGrouped.MatchString(value) {
			return decimal.Decimal{}, fmt.Errorf("ambiguous comma in amount %q", value)
		}
		value = strings.ReplaceAll(value, ",", "")
	}
	return decimal.NewFromString(value)
}
