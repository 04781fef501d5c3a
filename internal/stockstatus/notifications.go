package stockstatus

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// GenerateNotifications turns evaluated statuses into alert records.
// It keeps no state: calling it twice yields two sets with distinct ids.
func GenerateNotifications(products []domain.Product, settings domain.Settings, now time.Time) []domain.Notification {
	var out []domain.Notification
	for i, p := range products {
		if p.StockWarningLevel.Effective() == domain.WarningDisabled {
			continue
		}

		status := Evaluate(p, settings.LowStockThreshold)
		if !status.NeedsAttention {
			continue
		}

		id := fmt.Sprintf("stock-%s-%d-%d", p.ID, now.UnixNano(), i)

		if len(status.ColorAlerts) > 0 {
			colors := make([]string, 0, len(status.ColorAlerts))
			for _, alert := range status.ColorAlerts {
				if alert.Status == ColorOut {
					colors = append(colors, alert.Color)
				}
			}
			if len(colors) > 0 {
				out = append(out, domain.Notification{
					ID:        id,
					ProductID: p.ID,
					Title:     "Colors out of stock",
					Message:   fmt.Sprintf("%s is out of stock in: %s", p.Name, strings.Join(colors, ", ")),
					Severity:  domain.SeverityError,
					CreatedAt: now,
				})
				continue
			}
		}

		switch status.Level {
		case LevelOut:
			out = append(out, domain.Notification{
				ID:        id,
				ProductID: p.ID,
				Title:     "Out of stock",
				Message:   fmt.Sprintf("%s is out of stock", p.Name),
				Severity:  domain.SeverityError,
				CreatedAt: now,
			})
		case LevelLow:
			out = append(out, domain.Notification{
				ID:        id,
				ProductID: p.ID,
				Title:     "Low stock",
				Message:   fmt.Sprintf("%s has only %d units left", p.Name, p.Stock),
				Severity:  domain.SeverityWarning,
				CreatedAt: now,
			})
		}
	}
	return out
}
