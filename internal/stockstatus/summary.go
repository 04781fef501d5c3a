package stockstatus

import (
	"sort"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// Summarize folds Evaluate over the catalog into bucket counts.
func Summarize(products []domain.Product, globalThreshold int) Summary {
	var s Summary
	for _, p := range products {
		status := Evaluate(p, globalThreshold)
		switch status.Level {
		case LevelOut:
			s.OutOfStock++
			if status.NeedsAttention {
				s.TotalNeedingAttention++
			}
		case LevelLow:
			s.Low++
			if status.NeedsAttention {
				s.TotalNeedingAttention++
			}
		default:
			s.Good++
		}
	}
	return s
}

// Filter returns the products needing attention, or the products at exactly
// level when one is given, most urgent first and then by stock ascending.
func Filter(products []domain.Product, globalThreshold int, level *Level) []ProductStatus {
	result := make([]ProductStatus, 0, len(products))
	for _, p := range products {
		status := Evaluate(p, globalThreshold)
		if level != nil {
			if status.Level != *level {
				continue
			}
		} else if !status.NeedsAttention {
			continue
		}
		result = append(result, ProductStatus{Product: p, StockStatus: status})
	}

	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := urgencyRank[result[i].StockStatus.Level], urgencyRank[result[j].StockStatus.Level]
		if ri != rj {
			return ri < rj
		}
		return result[i].Stock < result[j].Stock
	})

	return result
}
