package optimizer

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"go.uber.org/zap"
)

// Scenario A: 8507.8 per gram of invoice above the accumulated 5 g, 38150 of
// savings once the rate-based discount is fully earned.
func scenarioA() redemption.Input {
	return redemption.Input{
		AccumulatedGoldGrams:    5,
		IntendedJewelleryWeight: 6,
		CurrentGoldPrice:        7000,
		MakingChargePercentage:  18,
	}
}

func newTestSolver(t *testing.T, cfg Config) *Solver {
	t.Helper()
	calc, err := redemption.NewCalculator(redemption.DefaultConstants())
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	s, err := NewSolver(zap.NewNop(), calc, cfg)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}
	return s
}

func TestMaxWeightForBudget(t *testing.T) {
	tests := []struct {
		name           string
		input          redemption.Input
		budget         float64
		wantWeight     float64
		wantAffordable bool
	}{
		{
			name:           "Budget just above payable for requested weight",
			input:          scenarioA(),
			budget:         12900,
			wantWeight:     51050 / 8507.8,
			wantAffordable: true,
		},
		{
			name:           "Budget above payable",
			input:          scenarioA(),
			budget:         20000,
			wantWeight:     58150 / 8507.8,
			wantAffordable: true,
		},
		{
			name:           "Zero budget still redeems owned gold",
			input:          scenarioA(),
			budget:         0,
			wantWeight:     38150 / 8507.8,
			wantAffordable: false,
		},
		{
			name: "Large budget expands the bracket",
			input: redemption.Input{
				AccumulatedGoldGrams:    0,
				IntendedJewelleryWeight: 1,
				CurrentGoldPrice:        7000,
				MakingChargePercentage:  18,
			},
			budget:         1e7,
			wantWeight:     1e7 / 8507.8,
			wantAffordable: true,
		},
	}

	s := newTestSolver(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := s.MaxWeightForBudget(tt.name, tt.input, tt.budget)
			if err != nil {
				t.Fatalf("MaxWeightForBudget() error = %v", err)
			}
			if math.Abs(summary.Value-tt.wantWeight) > 0.0011 {
				t.Errorf("Value = %v, want %v", summary.Value, tt.wantWeight)
			}
			if summary.Payable > tt.budget {
				t.Errorf("Payable = %v exceeds budget %v", summary.Payable, tt.budget)
			}
			if summary.Headroom < 0 {
				t.Errorf("Headroom = %v, want >= 0", summary.Headroom)
			}
			if summary.Affordable != tt.wantAffordable {
				t.Errorf("Affordable = %v, want %v", summary.Affordable, tt.wantAffordable)
			}
			if !summary.Converged {
				t.Errorf("Converged = false after %d iterations", summary.Iterations)
			}
			if summary.Field != FieldIntendedJewelleryWeight {
				t.Errorf("Field = %q, want %q", summary.Field, FieldIntendedJewelleryWeight)
			}
		})
	}
}

func TestMaxWeightForBudgetShortfall(t *testing.T) {
	s := newTestSolver(t, Config{})
	summary, err := s.MaxWeightForBudget("short", scenarioA(), 10000)
	if err != nil {
		t.Fatalf("MaxWeightForBudget() error = %v", err)
	}
	if math.Abs(summary.Shortfall()-2896.8) > 1e-6 {
		t.Errorf("Shortfall() = %v, want 2896.8", summary.Shortfall())
	}
	if summary.Value >= summary.Original {
		t.Errorf("Value = %v, want below original %v", summary.Value, summary.Original)
	}
}

func TestMaxWeightForBudgetNothingAffordable(t *testing.T) {
	input := scenarioA()
	input.AccumulatedGoldGrams = 0

	s := newTestSolver(t, Config{})
	summary, err := s.MaxWeightForBudget("none", input, 0)
	if err != nil {
		t.Fatalf("MaxWeightForBudget() error = %v", err)
	}
	if summary.Value != 0 || summary.Payable != 0 {
		t.Errorf("Value = %v, Payable = %v, want 0 and 0", summary.Value, summary.Payable)
	}
	if len(summary.Notes) != 1 {
		t.Errorf("Notes = %v, want one note", summary.Notes)
	}
}

func TestMaxWeightForBudgetIterationLimit(t *testing.T) {
	s := newTestSolver(t, Config{MaxIterations: 3})
	summary, err := s.MaxWeightForBudget("limited", scenarioA(), 20000)
	if err != nil {
		t.Fatalf("MaxWeightForBudget() error = %v", err)
	}
	if summary.Converged {
		t.Error("Converged = true, want false with three iterations")
	}
	if summary.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", summary.Iterations)
	}
	if summary.Payable > 20000 {
		t.Errorf("Payable = %v exceeds budget", summary.Payable)
	}
	if len(summary.Notes) == 0 {
		t.Error("expected a note about the iteration limit")
	}
}

func TestMaxWeightForBudgetErrors(t *testing.T) {
	s := newTestSolver(t, Config{})

	for _, budget := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := s.MaxWeightForBudget("bad", scenarioA(), budget); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("budget %v: error = %v, want ErrInvalidBudget", budget, err)
		}
	}

	input := scenarioA()
	input.CurrentGoldPrice = 0
	if _, err := s.MaxWeightForBudget("bad", input, 1000); !errors.Is(err, redemption.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestNewSolverRequiresCalculator(t *testing.T) {
	if _, err := NewSolver(nil, nil, Config{}); err == nil {
		t.Error("NewSolver(nil calculator) error = nil, want error")
	}
}
