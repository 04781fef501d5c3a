package period

import (
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// DateLayout is the wire format for period dates.
const DateLayout = "2006-01-02"

// Half identifies which semi-monthly period a date falls in.
type Half string

const (
	FirstHalf  Half = "first-half"
	SecondHalf Half = "second-half"
)

// Info describes the accounting period around a moment in time
type Info struct {
	CurrentPeriod   Half      `json:"current_period"`
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	NextCostReset   time.Time `json:"next_cost_reset"`
	NextProfitReset time.Time `json:"next_profit_reset"`
	CanResetCost    bool      `json:"can_reset_cost"`
	CanResetProfit  bool      `json:"can_reset_profit"`
}

// CurrentInfo maps now to its semi-monthly period. Days 1-15 form the first
// half; day 16 through month end form the second. Cost resets twice a month,
// profit only at month end.
func CurrentInfo(now time.Time) Info {
	loc := now.Location()
	year, month, day := now.Date()
	lastDay := LastDayOfMonth(now)
	fifteenth := time.Date(year, month, 15, 0, 0, 0, 0, loc)

	info := Info{
		NextProfitReset: lastDay,
		CanResetCost:    day == 15 || day == lastDay.Day(),
		CanResetProfit:  day == lastDay.Day(),
	}

	if day <= 15 {
		info.CurrentPeriod = FirstHalf
		info.PeriodStart = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		info.PeriodEnd = fifteenth
		info.NextCostReset = fifteenth
	} else {
		info.CurrentPeriod = SecondHalf
		info.PeriodStart = time.Date(year, month, 16, 0, 0, 0, 0, loc)
		info.PeriodEnd = lastDay
		info.NextCostReset = lastDay
	}

	return info
}

// NextResetDate returns the next scheduled reset for the period type.
func NextResetDate(t domain.PeriodType, now time.Time) time.Time {
	info := CurrentInfo(now)
	if t == domain.PeriodCost {
		return info.NextCostReset
	}
	return info.NextProfitReset
}

// LastDayOfMonth is day 0 of the following month.
func LastDayOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}
