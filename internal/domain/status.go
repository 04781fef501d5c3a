package domain

import "strings"

// StockWarningLevel controls which stock alerts surface for a product.
type StockWarningLevel string

const (
	WarningAll      StockWarningLevel = "all"
	WarningOutOnly  StockWarningLevel = "out_only"
	WarningDisabled StockWarningLevel = "disabled"
)

var warningLevels = map[string]StockWarningLevel{
	"all":      WarningAll,
	"out_only": WarningOutOnly,
	"disabled": WarningDisabled,
}

// ParseWarningLevel maps a stored value to a warning level. Empty means all.
func ParseWarningLevel(value string) (StockWarningLevel, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return WarningAll, true
	}
	level, ok := warningLevels[value]

	return level, ok
}

// Effective returns the level with the empty value normalized to all.
func (w StockWarningLevel) Effective() StockWarningLevel {
	if w == "" {
		return WarningAll
	}
	return w
}

// PeriodType is the kind of archival reset.
type PeriodType string

const (
	PeriodCost   PeriodType = "cost"
	PeriodProfit PeriodType = "profit"
)

// ParsePeriodType returns the period type for a label (case-insensitive).
func ParsePeriodType(label string) (PeriodType, bool) {
	switch PeriodType(strings.ToLower(strings.TrimSpace(label))) {
	case PeriodCost:
		return PeriodCost, true
	case PeriodProfit:
		return PeriodProfit, true
	}

	return "", false
}

// Severity of a notification
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)
