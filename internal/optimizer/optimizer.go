// Package optimizer searches for the heaviest jewellery a cash budget can pay
// for at redemption.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/format"
	"github.com/iwvelando/gold-scheme/pkg/mathutil"
	"github.com/iwvelando/gold-scheme/pkg/optimization"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"go.uber.org/zap"
)

// FieldIntendedJewelleryWeight is the only field the solver adjusts.
const FieldIntendedJewelleryWeight = "intendedJewelleryWeight"

const (
	defaultMaxIterations = 100
	maxExpansions        = 64
)

// ErrInvalidBudget is returned for negative or non-finite budgets.
var ErrInvalidBudget = errors.New("budget must be a finite, non-negative amount")

// Config bounds the search.
type Config struct {
	// Tolerance is the weight resolution in grams.
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
	MaxIterations int     `yaml:"maxIterations" json:"maxIterations"`
}

// Solver runs affordability searches against one calculator.
type Solver struct {
	logger     *zap.Logger
	calculator *redemption.Calculator
	cfg        Config
}

type evaluation struct {
	weight  float64
	payable float64
	budget  float64
}

func (e evaluation) feasible() bool {
	return e.payable <= e.budget
}

func (e evaluation) headroom() float64 {
	return e.budget - e.payable
}

// NewSolver builds a solver. A nil logger discards output.
func NewSolver(logger *zap.Logger, calculator *redemption.Calculator, cfg Config) (*Solver, error) {
	if calculator == nil {
		return nil, fmt.Errorf("calculator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = constants.WeightTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	return &Solver{logger: logger, calculator: calculator, cfg: cfg}, nil
}

// MaxWeightForBudget returns the largest jewellery weight, to the solver's
// tolerance, whose payable amount stays within budget. Every other input
// field is held fixed. The payable amount never decreases as the weight grows,
// so the feasible weights form an interval starting at zero and bisection
// finds its end.
func (s *Solver) MaxWeightForBudget(name string, input redemption.Input, budget float64) (optimization.Summary, error) {
	if !mathutil.IsFinite(budget) || budget < 0 {
		return optimization.Summary{}, fmt.Errorf("%w: got %v", ErrInvalidBudget, budget)
	}

	original, err := s.evaluate(input, input.IntendedJewelleryWeight, budget)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		TargetName:      name,
		Field:           FieldIntendedJewelleryWeight,
		Original:        input.IntendedJewelleryWeight,
		OriginalDisplay: format.Grams(input.IntendedJewelleryWeight),
		Budget:          budget,
		OriginalPayable: original.payable,
		Affordable:      original.feasible(),
	}

	// Bracket: lower is always feasible (zero weight costs nothing), upper
	// never is.
	lower := 0.0
	upper := math.Max(input.IntendedJewelleryWeight, input.AccumulatedGoldGrams)
	if upper <= 0 {
		upper = 1
	}
	best := evaluation{budget: budget}
	upperEval := original
	if upperEval.weight != upper {
		upperEval, err = s.evaluate(input, upper, budget)
		if err != nil {
			return optimization.Summary{}, err
		}
	}
	for expansions := 0; upperEval.feasible(); expansions++ {
		if expansions >= maxExpansions {
			return optimization.Summary{}, fmt.Errorf("optimizer: budget %s covers every weight up to %s",
				format.Currency(budget), format.Grams(upper))
		}
		best = upperEval
		lower = upper
		upper *= 2
		upperEval, err = s.evaluate(input, upper, budget)
		if err != nil {
			return optimization.Summary{}, err
		}
	}

	iterations := 0
	for iterations < s.cfg.MaxIterations && upper-lower > s.cfg.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := s.evaluate(input, mid, budget)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			best = evalMid
			lower = mid
		} else {
			upper = mid
		}
	}

	// Report on the tolerance grid, rounding down so the value stays feasible.
	value := math.Floor(lower/s.cfg.Tolerance) * s.cfg.Tolerance
	if value > 0 && value != best.weight {
		if snapped, err := s.evaluate(input, value, budget); err == nil && snapped.feasible() {
			best = snapped
		} else {
			value = best.weight
		}
	} else if value <= 0 {
		value = 0
		best = evaluation{budget: budget}
	}

	summary.Value = value
	summary.ValueDisplay = format.Grams(value)
	summary.Payable = best.payable
	summary.Headroom = best.headroom()
	summary.Iterations = iterations
	summary.Converged = upper-lower <= s.cfg.Tolerance

	if value == 0 {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"budget %s does not cover %s of jewellery",
			format.Currency(budget), format.Grams(s.cfg.Tolerance)))
	}
	if !summary.Converged {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"stopped after %d iterations with a %s bracket", iterations, format.Grams(upper-lower)))
	}

	s.logger.Debug("affordability search finished",
		zap.String("op", "optimizer.MaxWeightForBudget"),
		zap.String("name", name),
		zap.Float64("budget", budget),
		zap.Float64("originalWeight", summary.Original),
		zap.Float64("maxWeight", summary.Value),
		zap.Float64("payable", summary.Payable),
		zap.Int("iterations", iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}

func (s *Solver) evaluate(input redemption.Input, weight, budget float64) (evaluation, error) {
	input.IntendedJewelleryWeight = weight
	result, err := s.calculator.Calculate(input)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer evaluation at %s failed: %w", format.Grams(weight), err)
	}
	return evaluation{weight: weight, payable: result.FinalAmountToPay, budget: budget}, nil
}
