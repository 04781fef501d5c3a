package stockstatus

import "github.com/andresuchdata/stockpulse/internal/domain"

const (
	labelOut       = "Out of stock"
	labelColorsOut = "Colors out of stock"
	labelLow       = "Low stock"
	labelGood      = "In stock"
)

// Evaluate computes the stock status of a product. The first matching rule wins.
// globalThreshold is the settings-level fallback; values <= 0 fall back to DefaultThreshold.
func Evaluate(p domain.Product, globalThreshold int) Status {
	warning := p.StockWarningLevel.Effective()
	alertsEnabled := warning != domain.WarningDisabled
	colorAlerts := outOfStockColors(p.ColorVariants)

	// 1. Fully exhausted
	if p.Stock == 0 {
		return Status{
			Level:          LevelOut,
			Label:          labelOut,
			Percentage:     0,
			NeedsAttention: alertsEnabled,
			ColorAlerts:    colorAlerts,
		}
	}

	// 2. Some colors exhausted; 50 is a fixed marker, not a ratio
	if len(colorAlerts) > 0 {
		return Status{
			Level:          LevelOut,
			Label:          labelColorsOut,
			Percentage:     50,
			NeedsAttention: alertsEnabled,
			ColorAlerts:    colorAlerts,
		}
	}

	// 3. No threshold: only alert on full exhaustion
	if p.MinStock == 0 {
		return Status{
			Level:      LevelGood,
			Label:      labelGood,
			Percentage: 100,
		}
	}

	// 4. Effective threshold
	threshold := EffectiveThreshold(p.MinStock, globalThreshold)
	percentage := float64(p.Stock) / float64(threshold) * 100

	// 5. Low; out_only deliberately hides these
	if p.Stock <= threshold {
		return Status{
			Level:          LevelLow,
			Label:          labelLow,
			Percentage:     percentage,
			NeedsAttention: warning == domain.WarningAll,
		}
	}

	// 6. Good
	return Status{
		Level:      LevelGood,
		Label:      labelGood,
		Percentage: percentage,
	}
}

// EffectiveThreshold picks the product minimum, then the global setting, then the default.
func EffectiveThreshold(minStock, globalThreshold int) int {
	if minStock > 0 {
		return minStock
	}
	if globalThreshold > 0 {
		return globalThreshold
	}
	return DefaultThreshold
}

func outOfStockColors(variants []domain.ColorVariant) []ColorAlert {
	var alerts []ColorAlert
	for _, v := range variants {
		if v.Stock != 0 {
			continue
		}
		alerts = append(alerts, ColorAlert{
			Color:     v.Color,
			ColorCode: v.ColorCode,
			Stock:     v.Stock,
			Status:    ColorOut,
		})
	}
	return alerts
}
