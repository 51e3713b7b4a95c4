package config

import (
	"fmt"

	"github.com/iwvelando/gold-scheme/pkg/validation"
)

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for _, r := range c.Redemptions {
		if !r.Active {
			warnings = append(warnings, fmt.Sprintf("Redemption '%s' is inactive and will be skipped", r.Name))
			continue
		}
		if r.PrematureRedemption {
			input := r.ToInput(c.PrematureCap())
			if w := validation.ValidatePrematureCap(r.Name, input.PrematureCapPercentage, c.Scheme.StandardDiscountRateCap); w != "" {
				warnings = append(warnings, w)
			}
		}
		if w := validation.ValidateSurplus(r.Name, r.AccumulatedGoldGrams, r.IntendedJewelleryWeight); w != "" {
			warnings = append(warnings, w)
		}
	}

	for _, s := range c.Schemes {
		if w := validation.ValidateInvestmentType(s.Name, s.InvestmentType, len(s.Transactions)); w != "" {
			warnings = append(warnings, w)
		}

		dates := make([]string, 0, len(s.Transactions))
		for _, tx := range s.Transactions {
			dates = append(dates, tx.Date)
		}
		txWarnings, err := validation.ValidateTransactionDates(s.Name, s.StartDate, dates)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Scheme '%s' has an unreadable date: %v", s.Name, err))
			continue
		}
		warnings = append(warnings, txWarnings...)

		if s.Redeem == nil {
			continue
		}
		w, err := validation.ValidateRedeemDate(s.Name, s.Redeem.Date, s.LastTransactionDate())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Scheme '%s' has an unreadable redeem date: %v", s.Name, err))
		} else if w != "" {
			warnings = append(warnings, w)
		}
		if s.Redeem.PrematureCapPercentage != nil {
			if w := validation.ValidatePrematureCap(s.Name, *s.Redeem.PrematureCapPercentage, c.Scheme.StandardDiscountRateCap); w != "" {
				warnings = append(warnings, w)
			}
		}
	}

	return warnings
}
