package validation

import (
	"fmt"

	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/datetime"
	"github.com/iwvelando/gold-scheme/pkg/mathutil"
)

// ValidatePrematureCap warns when a premature cap would grant a higher
// discount rate than a matured redemption.
func ValidatePrematureCap(name string, capPercentage, standardCapRate float64) string {
	standard := mathutil.RateToPercent(standardCapRate)
	if capPercentage > standard {
		return fmt.Sprintf("Redemption '%s' premature cap %.2f%% exceeds the standard cap %.2f%%",
			name, capPercentage, standard)
	}
	return ""
}

// ValidateSurplus warns when the accumulated gold exceeds the jewellery
// weight; the surplus is not paid out by the invoice.
func ValidateSurplus(name string, accumulatedGrams, intendedWeight float64) string {
	if accumulatedGrams > intendedWeight {
		return fmt.Sprintf("Redemption '%s' leaves %.3f g of surplus gold (%.3f g owned > %.3f g jewellery)",
			name, accumulatedGrams-intendedWeight, accumulatedGrams, intendedWeight)
	}
	return ""
}

// ValidateTransactionDates warns about purchases dated before the scheme
// start. Unparseable dates are returned as an error.
func ValidateTransactionDates(schemeName, startDate string, transactionDates []string) ([]string, error) {
	var warnings []string
	for _, date := range transactionDates {
		before, err := datetime.DateBeforeDate(date, startDate)
		if err != nil {
			return warnings, err
		}
		if before {
			warnings = append(warnings, fmt.Sprintf("Scheme '%s' has a transaction dated before its start (%s < %s); it will be skipped",
				schemeName, date, startDate))
		}
	}
	return warnings, nil
}

// ValidateRedeemDate warns when a scheme is redeemed before its last purchase.
func ValidateRedeemDate(schemeName, redeemDate, lastTransactionDate string) (string, error) {
	if redeemDate == "" || lastTransactionDate == "" {
		return "", nil
	}
	before, err := datetime.DateBeforeDate(redeemDate, lastTransactionDate)
	if err != nil {
		return "", err
	}
	if before {
		return fmt.Sprintf("Scheme '%s' is redeemed before its last transaction (%s < %s)",
			schemeName, redeemDate, lastTransactionDate), nil
	}
	return "", nil
}

// ValidateInvestmentType warns about unknown types and lump-sum schemes with
// more than one purchase.
func ValidateInvestmentType(schemeName, investmentType string, transactions int) string {
	switch investmentType {
	case constants.InvestmentTypeMonthly:
		return ""
	case constants.InvestmentTypeLumpsum:
		if transactions > 1 {
			return fmt.Sprintf("Scheme '%s' is lumpsum but lists %d transactions; only the first is recorded",
				schemeName, transactions)
		}
		return ""
	default:
		return fmt.Sprintf("Scheme '%s' has unknown investment type %q (expected %s or %s)",
			schemeName, investmentType, constants.InvestmentTypeMonthly, constants.InvestmentTypeLumpsum)
	}
}
