package period

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentInfo(t *testing.T) {
	tests := []struct {
		name           string
		now            time.Time
		wantHalf       Half
		wantStart      time.Time
		wantEnd        time.Time
		wantNextCost   time.Time
		wantNextProfit time.Time
		wantCanCost    bool
		wantCanProfit  bool
	}{
		{
			name:           "first of month",
			now:            time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC),
			wantHalf:       FirstHalf,
			wantStart:      date(2024, time.June, 1),
			wantEnd:        date(2024, time.June, 15),
			wantNextCost:   date(2024, time.June, 15),
			wantNextProfit: date(2024, time.June, 30),
		},
		{
			name:           "fifteenth allows cost reset",
			now:            time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC),
			wantHalf:       FirstHalf,
			wantStart:      date(2024, time.June, 1),
			wantEnd:        date(2024, time.June, 15),
			wantNextCost:   date(2024, time.June, 15),
			wantNextProfit: date(2024, time.June, 30),
			wantCanCost:    true,
		},
		{
			name:           "sixteenth starts second half",
			now:            time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC),
			wantHalf:       SecondHalf,
			wantStart:      date(2024, time.June, 16),
			wantEnd:        date(2024, time.June, 30),
			wantNextCost:   date(2024, time.June, 30),
			wantNextProfit: date(2024, time.June, 30),
		},
		{
			name:           "leap february month end",
			now:            time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC),
			wantHalf:       SecondHalf,
			wantStart:      date(2024, time.February, 16),
			wantEnd:        date(2024, time.February, 29),
			wantNextCost:   date(2024, time.February, 29),
			wantNextProfit: date(2024, time.February, 29),
			wantCanCost:    true,
			wantCanProfit:  true,
		},
		{
			name:           "december rolls year for day zero",
			now:            time.Date(2023, time.December, 20, 8, 0, 0, 0, time.UTC),
			wantHalf:       SecondHalf,
			wantStart:      date(2023, time.December, 16),
			wantEnd:        date(2023, time.December, 31),
			wantNextCost:   date(2023, time.December, 31),
			wantNextProfit: date(2023, time.December, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentInfo(tt.now)
			if got.CurrentPeriod != tt.wantHalf {
				t.Fatalf("expected %s, got %s", tt.wantHalf, got.CurrentPeriod)
			}
			if !got.PeriodStart.Equal(tt.wantStart) || !got.PeriodEnd.Equal(tt.wantEnd) {
				t.Fatalf("expected window %s..%s, got %s..%s", tt.wantStart, tt.wantEnd, got.PeriodStart, got.PeriodEnd)
			}
			if !got.NextCostReset.Equal(tt.wantNextCost) {
				t.Fatalf("expected next cost reset %s, got %s", tt.wantNextCost, got.NextCostReset)
			}
			if !got.NextProfitReset.Equal(tt.wantNextProfit) {
				t.Fatalf("expected next profit reset %s, got %s", tt.wantNextProfit, got.NextProfitReset)
			}
			if got.CanResetCost != tt.wantCanCost || got.CanResetProfit != tt.wantCanProfit {
				t.Fatalf("expected can reset cost=%v profit=%v, got cost=%v profit=%v",
					tt.wantCanCost, tt.wantCanProfit, got.CanResetCost, got.CanResetProfit)
			}
		})
	}
}

func TestCanResetCostOnFifteenthOfEveryMonth(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		if !CurrentInfo(date(2025, m, 15)).CanResetCost {
			t.Fatalf("%s 15: expected cost reset allowed", m)
		}
		if CurrentInfo(date(2025, m, 1)).CanResetCost {
			t.Fatalf("%s 1: expected cost reset blocked", m)
		}
	}
}

func TestNextResetDate(t *testing.T) {
	now := date(2024, time.June, 3)
	if got := NextResetDate(domain.PeriodCost, now); !got.Equal(date(2024, time.June, 15)) {
		t.Fatalf("expected cost reset on the 15th, got %s", got)
	}
	if got := NextResetDate(domain.PeriodProfit, now); !got.Equal(date(2024, time.June, 30)) {
		t.Fatalf("expected profit reset at month end, got %s", got)
	}
}

func TestCurrentInfoKeepsClockLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	clock := Fixed(time.Date(2024, time.March, 31, 23, 0, 0, 0, loc))

	info := CurrentInfo(clock.Now())
	if info.PeriodEnd.Location() != loc {
		t.Fatalf("expected period dates in clock location, got %s", info.PeriodEnd.Location())
	}
	if !info.CanResetProfit {
		t.Fatalf("expected profit reset allowed on the last day")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-15", nil)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if !got.Equal(date(2024, time.June, 15)) {
		t.Fatalf("unexpected date %s", got)
	}
	if _, err := ParseDate("15/06/2024", time.UTC); err == nil {
		t.Fatalf("expected invalid layout to fail")
	}
}
