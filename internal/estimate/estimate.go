// Package estimate defines the data structures related to a batch of
// redemption estimates and includes functions for computing them.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/gold-scheme/internal/config"
	"github.com/iwvelando/gold-scheme/internal/ledger"
	"github.com/iwvelando/gold-scheme/internal/ledger/store"
	"github.com/iwvelando/gold-scheme/internal/optimizer"
	"github.com/iwvelando/gold-scheme/pkg/format"
	"github.com/iwvelando/gold-scheme/pkg/optimization"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"go.uber.org/zap"
)

// Source names where an estimate came from.
type Source string

const (
	SourceRedemption Source = "redemption"
	SourceScheme     Source = "scheme"
)

// Estimate holds everything computed for one configured entry.
type Estimate struct {
	Name   string `json:"name"`
	Source Source `json:"source"`
	// Result is nil for schemes that are not being redeemed.
	Result        *redemption.Result    `json:"result,omitempty"`
	Scheme        *ledger.Scheme        `json:"scheme,omitempty"`
	Affordability *optimization.Summary `json:"affordability,omitempty"`
	Notes         []string              `json:"notes,omitempty"`
}

// GetEstimates evaluates every active redemption and replays every scheme
// as of today.
func GetEstimates(logger *zap.Logger, conf config.Configuration) ([]Estimate, error) {
	return GetEstimatesWithFixedTime(logger, conf, time.Now())
}

// GetEstimatesWithFixedTime is GetEstimates with an injectable clock. The
// clock decides scheme maturity and the date of undated redemptions.
func GetEstimatesWithFixedTime(logger *zap.Logger, conf config.Configuration, now time.Time) ([]Estimate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	calc, err := redemption.NewCalculator(conf.Constants())
	if err != nil {
		return nil, fmt.Errorf("scheme constants: %w", err)
	}
	solver, err := optimizer.NewSolver(logger, calc, optimizer.Config{})
	if err != nil {
		return nil, err
	}

	var results []Estimate
	for i := range conf.Redemptions {
		r := &conf.Redemptions[i]
		if !r.Active {
			logger.Debug(fmt.Sprintf("skipping redemption %s because it is inactive", r.Name),
				zap.String("op", "estimate.GetEstimates"),
			)
			continue
		}

		input := r.ToInput(conf.PrematureCap())
		result, err := calc.Calculate(input)
		if err != nil {
			return results, fmt.Errorf("redemption %s: %w", r.Name, err)
		}

		est := Estimate{Name: r.Name, Source: SourceRedemption, Result: &result, Notes: resultNotes(result)}
		if r.Budget != nil {
			summary, err := solver.MaxWeightForBudget(r.Name, input, *r.Budget)
			if err != nil {
				return results, fmt.Errorf("redemption %s affordability: %w", r.Name, err)
			}
			est.Affordability = &summary
		}
		results = append(results, est)
	}

	if len(conf.Schemes) == 0 {
		return results, nil
	}

	// Schemes are replayed through a throwaway ledger so the batch run and
	// the API apply the same bookkeeping rules.
	defaultCap := conf.PrematureCap()
	l := ledger.New(logger, store.NewMemory(), calc, ledger.Options{
		MaturityMonths:                conf.MaturityMonths(),
		DefaultPrematureCapPercentage: &defaultCap,
		Now:                           func() time.Time { return now },
	})
	ctx := context.Background()
	for i := range conf.Schemes {
		est, err := replayScheme(ctx, l, solver, &conf.Schemes[i], now)
		if err != nil {
			return results, fmt.Errorf("scheme %s: %w", conf.Schemes[i].Name, err)
		}
		results = append(results, est)
	}

	return results, nil
}

func replayScheme(ctx context.Context, l *ledger.Ledger, solver *optimizer.Solver, s *config.Scheme, now time.Time) (Estimate, error) {
	est := Estimate{Name: s.Name, Source: SourceScheme}

	req, err := s.ToNewScheme()
	if err != nil {
		return est, err
	}
	scheme, err := l.CreateScheme(ctx, req)
	if err != nil {
		return est, err
	}

	for j := range s.Transactions {
		txReq, err := s.Transactions[j].ToNewTransaction()
		if err != nil {
			return est, err
		}
		scheme, _, err = l.AddTransaction(ctx, scheme.ID, txReq)
		if err != nil {
			if ledger.IsConflict(err) || errors.Is(err, ledger.ErrTransactionBeforeStart) {
				est.Notes = append(est.Notes, fmt.Sprintf("skipped transaction on %s: %v", s.Transactions[j].Date, err))
				continue
			}
			return est, err
		}
	}

	if _, err := l.Refresh(ctx, now); err != nil {
		return est, err
	}

	if s.Redeem != nil {
		redeemReq, err := s.Redeem.ToRedeemRequest()
		if err != nil {
			return est, err
		}
		scheme, err = l.Redeem(ctx, scheme.ID, redeemReq)
		if err != nil {
			return est, err
		}
		result := scheme.Redemption.Result
		est.Result = &result
		est.Notes = append(est.Notes, resultNotes(result)...)
		if result.Input.PrematureRedemption {
			est.Notes = append(est.Notes, fmt.Sprintf("premature redemption before maturity on %s, cap %s",
				scheme.MaturityDate.Format(config.DateLayout), format.Percentage(result.Input.PrematureCapPercentage)))
		}
		if s.Redeem.Budget != nil {
			summary, err := solver.MaxWeightForBudget(s.Name, result.Input, *s.Redeem.Budget)
			if err != nil {
				return est, fmt.Errorf("affordability: %w", err)
			}
			est.Affordability = &summary
		}
	} else {
		scheme, err = l.GetScheme(ctx, scheme.ID)
		if err != nil {
			return est, err
		}
		est.Notes = append(est.Notes, fmt.Sprintf("%s: %s accumulated from %s invested, matures %s",
			scheme.Status, format.Grams(scheme.TotalAccumulatedGoldGrams),
			format.Currency(scheme.TotalInvestedAmount), scheme.MaturityDate.Format(config.DateLayout)))
	}

	est.Scheme = &scheme
	return est, nil
}

// resultNotes explains the parts of a result that are easy to misread.
func resultNotes(r redemption.Result) []string {
	var notes []string
	if r.DiscountLimit != redemption.LimitRate {
		notes = append(notes, fmt.Sprintf("making-charge discount limited by %s", r.DiscountLimit))
	}
	if r.HasSurplus() {
		notes = append(notes, fmt.Sprintf("surplus gold %s worth %s exceeds the jewellery weight",
			format.Grams(r.SurplusGoldGrams()), format.Currency(r.SurplusGoldValue())))
	}
	return notes
}
