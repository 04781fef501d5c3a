package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownSeller is the breakdown key used for sales without a seller name.
const UnknownSeller = "Unknown"

// Product is a catalog entry as seen by the stock status evaluator
type Product struct {
	ID                string            `json:"id" db:"id"`
	SKU               string            `json:"sku" db:"sku"`
	Name              string            `json:"name" db:"name"`
	Stock             int               `json:"stock" db:"stock"`
	MinStock          int               `json:"min_stock" db:"min_stock"`
	ColorVariants     ColorVariants     `json:"color_variants,omitempty" db:"color_variants"`
	StockWarningLevel StockWarningLevel `json:"stock_warning_level" db:"stock_warning_level"`
}

// ColorVariant is a per-color stock line of a product
type ColorVariant struct {
	Color     string `json:"color"`
	ColorCode string `json:"colorCode"`
	Stock     int    `json:"stock"`
}

// ColorVariants is stored as a JSONB array on the products table.
type ColorVariants []ColorVariant

func (c ColorVariants) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *ColorVariants) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported color variants type %T", src)
	}
}

// Settings holds store-wide stock alert settings
type Settings struct {
	LowStockThreshold int `json:"low_stock_threshold" db:"low_stock_threshold"`
}

// Sale is a recorded sale line, read-only input for period archival
type Sale struct {
	ID        int64           `json:"id" db:"id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Date      time.Time       `json:"date" db:"date"`
	UnitCost  decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Profit    decimal.Decimal `json:"profit" db:"profit"`
	Seller    string          `json:"seller" db:"seller_name"`
}

// Cost returns unit cost times quantity
func (s Sale) Cost() decimal.Decimal {
	return s.UnitCost.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SellerName returns the seller or UnknownSeller when empty
func (s Sale) SellerName() string {
	if s.Seller == "" {
		return UnknownSeller
	}
	return s.Seller
}

// SellerTotals is the per-seller slice of an archived period. Cost and
// Profit marshal as JSON strings like the record totals.
type SellerTotals struct {
	Cost   decimal.Decimal `json:"cost"`
	Profit decimal.Decimal `json:"profit"`
	Sales  int             `json:"sales"`
}

// SellerBreakdown maps seller name to totals, stored as JSONB.
type SellerBreakdown map[string]SellerTotals

func (b SellerBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

func (b *SellerBreakdown) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = SellerBreakdown{}
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported seller breakdown type %T", src)
	}
}

// PeriodHistoryRecord is an immutable archive of a period's totals.
// Money fields marshal as JSON strings ("40.5") so clients keep exact
// decimals; counts stay JSON numbers.
type PeriodHistoryRecord struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PeriodType      PeriodType      `json:"period_type" db:"period_type"`
	PeriodStart     time.Time       `json:"period_start" db:"period_start"`
	PeriodEnd       time.Time       `json:"period_end" db:"period_end"`
	TotalCost       decimal.Decimal `json:"total_cost" db:"total_cost"`
	TotalProfit     decimal.Decimal `json:"total_profit" db:"total_profit"`
	TotalSales      int             `json:"total_sales" db:"total_sales"`
	SellerBreakdown SellerBreakdown `json:"seller_breakdown" db:"seller_breakdown"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ResetTrackingRecord is an append-only log entry of a performed reset
type ResetTrackingRecord struct {
	ID            int64      `json:"id" db:"id"`
	ResetType     PeriodType `json:"reset_type" db:"reset_type"`
	ResetDate     time.Time  `json:"reset_date" db:"reset_date"`
	NextResetDate time.Time  `json:"next_reset_date" db:"next_reset_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Notification is a user-facing stock alert
type Notification struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// PeriodHistoryFilter narrows the archive listing
type PeriodHistoryFilter struct {
	PeriodType PeriodType `json:"period_type"`
	Limit      int        `json:"limit"`
}
