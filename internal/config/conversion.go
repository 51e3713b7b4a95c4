package config

import (
	"fmt"

	"github.com/iwvelando/gold-scheme/internal/ledger"
	"github.com/iwvelando/gold-scheme/pkg/datetime"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
)

// ToInput converts a configured redemption into an engine input, filling the
// premature cap from defaultCap when it is not set.
func (r *Redemption) ToInput(defaultCap float64) redemption.Input {
	capPercentage := defaultCap
	if r.PrematureCapPercentage != nil {
		capPercentage = *r.PrematureCapPercentage
	}
	return redemption.Input{
		AccumulatedGoldGrams:    r.AccumulatedGoldGrams,
		IntendedJewelleryWeight: r.IntendedJewelleryWeight,
		CurrentGoldPrice:        r.CurrentGoldPrice,
		MakingChargePercentage:  r.MakingChargePercentage,
		PrematureRedemption:     r.PrematureRedemption,
		PrematureCapPercentage:  capPercentage,
	}
}

// ToNewScheme converts the scheme header into a ledger request.
func (s *Scheme) ToNewScheme() (ledger.NewScheme, error) {
	start, err := datetime.ParseDate(s.StartDate)
	if err != nil {
		return ledger.NewScheme{}, fmt.Errorf("scheme %s start date: %w", s.Name, err)
	}
	return ledger.NewScheme{
		Name:           s.Name,
		InvestmentType: ledger.InvestmentType(s.InvestmentType),
		StartDate:      start,
	}, nil
}

// ToNewTransaction converts a configured purchase into a ledger request.
func (t *Transaction) ToNewTransaction() (ledger.NewTransaction, error) {
	date, err := datetime.ParseDate(t.Date)
	if err != nil {
		return ledger.NewTransaction{}, fmt.Errorf("transaction date: %w", err)
	}
	return ledger.NewTransaction{
		Date:           date,
		InvestedAmount: t.InvestedAmount,
		GoldRate:       t.GoldRate,
	}, nil
}

// ToRedeemRequest converts the redeem block into a ledger request. An empty
// date leaves the ledger to use the current day.
func (r *Redeem) ToRedeemRequest() (ledger.RedeemRequest, error) {
	req := ledger.RedeemRequest{
		IntendedJewelleryWeight: r.IntendedJewelleryWeight,
		CurrentGoldPrice:        r.CurrentGoldPrice,
		MakingChargePercentage:  r.MakingChargePercentage,
		PrematureRedemption:     r.PrematureRedemption,
		PrematureCapPercentage:  r.PrematureCapPercentage,
	}
	if r.Date != "" {
		date, err := datetime.ParseDate(r.Date)
		if err != nil {
			return ledger.RedeemRequest{}, fmt.Errorf("redeem date: %w", err)
		}
		req.Date = date
	}
	return req, nil
}

// LastTransactionDate returns the latest purchase date as written in the
// config, or "" when there are none or a date does not parse.
func (s *Scheme) LastTransactionDate() string {
	last := ""
	for _, tx := range s.Transactions {
		if last == "" {
			last = tx.Date
			continue
		}
		before, err := datetime.DateBeforeDate(last, tx.Date)
		if err != nil {
			return ""
		}
		if before {
			last = tx.Date
		}
	}
	return last
}
