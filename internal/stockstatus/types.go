package stockstatus

import (
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// DefaultThreshold applies when neither the product nor the settings define one.
const DefaultThreshold = 10

// Level is the derived stock condition of a product
type Level string

const (
	LevelOut  Level = "out"
	LevelLow  Level = "low"
	LevelGood Level = "good"
)

var urgencyRank = map[Level]int{
	LevelOut:  0,
	LevelLow:  1,
	LevelGood: 2,
}

// ParseLevel returns the level for a query value (case-insensitive).
func ParseLevel(value string) (Level, bool) {
	level := Level(strings.ToLower(strings.TrimSpace(value)))
	_, ok := urgencyRank[level]

	return level, ok
}

// ColorAlertStatus has a single case: a color variant is either out or not alerted at all.
type ColorAlertStatus string

const ColorOut ColorAlertStatus = "out"

// ColorAlert flags an exhausted color variant
type ColorAlert struct {
	Color     string           `json:"color"`
	ColorCode string           `json:"colorCode"`
	Stock     int              `json:"stock"`
	Status    ColorAlertStatus `json:"status"`
}

// Status is recomputed on demand and never persisted
type Status struct {
	Level          Level        `json:"level"`
	Label          string       `json:"label"`
	Percentage     float64      `json:"percentage"`
	NeedsAttention bool         `json:"needsAttention"`
	ColorAlerts    []ColorAlert `json:"colorAlerts,omitempty"`
}

// Summary holds catalog-wide bucket counts
type Summary struct {
	OutOfStock            int `json:"outOfStock"`
	Low                   int `json:"low"`
	Good                  int `json:"good"`
	TotalNeedingAttention int `json:"totalNeedingAttention"`
}

// ProductStatus pairs a product with its evaluated status
type ProductStatus struct {
	domain.Product
	StockStatus Status `json:"stockStatus"`
}
