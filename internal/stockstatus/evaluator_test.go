package stockstatus

import (
	"testing"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name           string
		product        domain.Product
		wantLevel      Level
		wantAttention  bool
		wantPercentage float64
		wantColors     []string
	}{
		{
			name:          "zero stock is out",
			product:       domain.Product{ID: "p1", Stock: 0, MinStock: 5, StockWarningLevel: domain.WarningAll},
			wantLevel:     LevelOut,
			wantAttention: true,
		},
		{
			name:           "min stock zero never alerts low",
			product:        domain.Product{ID: "p2", Stock: 3, MinStock: 0, StockWarningLevel: domain.WarningAll},
			wantLevel:      LevelGood,
			wantPercentage: 100,
		},
		{
			name:           "out_only hides low",
			product:        domain.Product{ID: "p3", Stock: 8, MinStock: 10, StockWarningLevel: domain.WarningOutOnly},
			wantLevel:      LevelLow,
			wantPercentage: 80,
		},
		{
			name: "one color exhausted",
			product: domain.Product{
				ID:    "p4",
				Stock: 5,
				ColorVariants: domain.ColorVariants{
					{Color: "Red", ColorCode: "#F00", Stock: 0},
					{Color: "Blue", ColorCode: "#00F", Stock: 5},
				},
				StockWarningLevel: domain.WarningAll,
			},
			wantLevel:      LevelOut,
			wantAttention:  true,
			wantPercentage: 50,
			wantColors:     []string{"Red"},
		},
		{
			name:          "out_only still alerts when out",
			product:       domain.Product{ID: "p5", Stock: 0, MinStock: 10, StockWarningLevel: domain.WarningOutOnly},
			wantLevel:     LevelOut,
			wantAttention: true,
		},
		{
			name:      "disabled never needs attention",
			product:   domain.Product{ID: "p6", Stock: 0, MinStock: 10, StockWarningLevel: domain.WarningDisabled},
			wantLevel: LevelOut,
		},
		{
			name:           "low at exactly the threshold",
			product:        domain.Product{ID: "p7", Stock: 10, MinStock: 10, StockWarningLevel: domain.WarningAll},
			wantLevel:      LevelLow,
			wantAttention:  true,
			wantPercentage: 100,
		},
		{
			name:           "above threshold is good",
			product:        domain.Product{ID: "p8", Stock: 30, MinStock: 10, StockWarningLevel: domain.WarningAll},
			wantLevel:      LevelGood,
			wantPercentage: 300,
		},
		{
			name:           "empty warning level behaves like all",
			product:        domain.Product{ID: "p9", Stock: 2, MinStock: 4},
			wantLevel:      LevelLow,
			wantAttention:  true,
			wantPercentage: 50,
		},
		{
			name: "zero stock keeps color alerts as metadata",
			product: domain.Product{
				ID:    "p10",
				Stock: 0,
				ColorVariants: domain.ColorVariants{
					{Color: "Black", ColorCode: "#000", Stock: 0},
					{Color: "White", ColorCode: "#FFF", Stock: 0},
				},
				StockWarningLevel: domain.WarningAll,
			},
			wantLevel:     LevelOut,
			wantAttention: true,
			wantColors:    []string{"Black", "White"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.product, 0)
			if got.Level != tt.wantLevel {
				t.Fatalf("expected level %s, got %s", tt.wantLevel, got.Level)
			}
			if got.NeedsAttention != tt.wantAttention {
				t.Fatalf("expected needsAttention %v, got %v", tt.wantAttention, got.NeedsAttention)
			}
			if got.Percentage != tt.wantPercentage {
				t.Fatalf("expected percentage %v, got %v", tt.wantPercentage, got.Percentage)
			}
			if len(got.ColorAlerts) != len(tt.wantColors) {
				t.Fatalf("expected %d color alerts, got %d", len(tt.wantColors), len(got.ColorAlerts))
			}
			for i, color := range tt.wantColors {
				if got.ColorAlerts[i].Color != color {
					t.Fatalf("expected color alert %d to be %s, got %s", i, color, got.ColorAlerts[i].Color)
				}
				if got.ColorAlerts[i].Status != ColorOut {
					t.Fatalf("expected color alert status out, got %s", got.ColorAlerts[i].Status)
				}
			}
		})
	}
}

func TestEvaluateMinStockZeroIgnoresGlobalThreshold(t *testing.T) {
	// minStock 0 short-circuits before the global threshold is consulted
	p := domain.Product{ID: "p", Stock: 4, MinStock: 0, StockWarningLevel: domain.WarningAll}
	if got := Evaluate(p, 20); got.Level != LevelGood {
		t.Fatalf("expected good, got %s", got.Level)
	}
}

func TestEffectiveThreshold(t *testing.T) {
	if got := EffectiveThreshold(7, 20); got != 7 {
		t.Fatalf("expected product min stock 7, got %d", got)
	}
	if got := EffectiveThreshold(0, 20); got != 20 {
		t.Fatalf("expected global threshold 20, got %d", got)
	}
	if got := EffectiveThreshold(0, 0); got != DefaultThreshold {
		t.Fatalf("expected default threshold, got %d", got)
	}
}

func TestEvaluateZeroStockIsAlwaysOut(t *testing.T) {
	for _, minStock := range []int{0, 1, 5, 100} {
		for _, warning := range []domain.StockWarningLevel{domain.WarningAll, domain.WarningOutOnly, domain.WarningDisabled} {
			p := domain.Product{Stock: 0, MinStock: minStock, StockWarningLevel: warning}
			got := Evaluate(p, 0)
			if got.Level != LevelOut {
				t.Fatalf("minStock=%d warning=%s: expected out, got %s", minStock, warning, got.Level)
			}
			if got.NeedsAttention != (warning != domain.WarningDisabled) {
				t.Fatalf("minStock=%d warning=%s: unexpected needsAttention %v", minStock, warning, got.NeedsAttention)
			}
		}
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := ParseLevel(" LOW "); !ok || level != LevelLow {
		t.Fatalf("expected low, got %q (ok=%v)", level, ok)
	}
	if _, ok := ParseLevel("critical"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}
