package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPeriodHistoryMoneyMarshalsAsString(t *testing.T) {
	rec := PeriodHistoryRecord{
		PeriodType:  PeriodCost,
		TotalCost:   decimal.RequireFromString("40.5"),
		TotalProfit: decimal.RequireFromString("12"),
		TotalSales:  3,
		SellerBreakdown: SellerBreakdown{
			"Ana": {Cost: decimal.RequireFromString("40.5"), Profit: decimal.RequireFromString("12"), Sales: 3},
		},
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)

	for _, want := range []string{
		`"total_cost":"40.5"`,
		`"total_profit":"12"`,
		`"total_sales":3`,
		`"cost":"40.5"`,
		`"sales":3`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}
