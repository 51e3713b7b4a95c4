// Package redemption prices the redemption of accumulated scheme gold into
// finished jewellery.
//
// The invoice is the jewellery's gold value plus making charges plus GST. The
// customer's accumulated gold is credited at full value, and the scheme grants
// a discount on making charges: a share of the making-charge percentage,
// capped by a rate ceiling (standard or premature), applied to the value of the
// accumulated gold, and then limited to the making charges it can offset.
package redemption

import (
	"fmt"

	"github.com/iwvelando/gold-scheme/pkg/mathutil"
)

// Calculator prices redemptions against a fixed, validated set of constants.
type Calculator struct {
	constants Constants
}

// NewCalculator validates constants once so each calculation only has to
// validate its input.
func NewCalculator(constants Constants) (*Calculator, error) {
	if err := constants.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{constants: constants}, nil
}

// Constants returns the constants the calculator was built with.
func (c *Calculator) Constants() Constants {
	return c.constants
}

// Calculate validates input and prices it.
func (c *Calculator) Calculate(input Input) (Result, error) {
	return Calculate(input, c.constants)
}

// Calculate validates input and returns the fully itemized redemption. The
// steps run in a fixed order; each depends only on the ones before it.
func Calculate(input Input, constants Constants) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	if err := checkMagnitude(input, constants); err != nil {
		return Result{}, err
	}

	acc := input.AccumulatedGoldGrams
	weight := input.IntendedJewelleryWeight
	price := input.CurrentGoldPrice
	mcRate := mathutil.PercentToRate(input.MakingChargePercentage)

	r := Result{Input: input, Constants: constants}

	// 1. Gold valuation.
	r.YourGoldValue = acc * price

	// 2. Gold gap. The grams stay signed; a negative value is surplus.
	r.AdditionalGoldGrams = weight - acc
	if r.AdditionalGoldGrams > 0 {
		r.AdditionalGoldValue = r.AdditionalGoldGrams * price
	}

	// 3. Base invoice.
	r.BaseJewelleryCost = weight * price
	r.MakingCharges = mcRate * r.BaseJewelleryCost
	r.SubtotalBeforeGST = r.BaseJewelleryCost + r.MakingCharges
	r.GSTAmount = constants.GSTRate * r.SubtotalBeforeGST
	r.TotalInvoice = r.SubtotalBeforeGST + r.GSTAmount

	// 4. Accumulated gold is credited in full.
	r.GoldValueDeduction = r.YourGoldValue

	// 5. Discount rate.
	r.PotentialDiscountRate = mcRate * constants.MakingChargeDiscountShare
	if input.PrematureRedemption {
		r.ApplicableCapRate = mathutil.PercentToRate(input.PrematureCapPercentage)
	} else {
		r.ApplicableCapRate = constants.StandardDiscountRateCap
	}
	r.AppliedDiscountRate = mathutil.NonNegative(mathutil.Min(r.PotentialDiscountRate, r.ApplicableCapRate))

	// 6. Rate-based discount on the accumulated gold value.
	r.RawDiscount = r.AppliedDiscountRate * r.YourGoldValue

	// 7. Amount caps, tightest wins: owned-and-needed gold first, then the
	// invoice's making charges.
	r.MCOnOverlapPortion = mcRate * (mathutil.Min(acc, weight) * price)
	discount, limit := r.RawDiscount, LimitRate
	if r.MCOnOverlapPortion < discount {
		discount, limit = r.MCOnOverlapPortion, LimitOwnedGoldMakingCharges
	}
	if r.MakingCharges < discount {
		discount, limit = r.MakingCharges, LimitTotalMakingCharges
	}
	r.MakingChargeDiscount = mathutil.NonNegative(discount)
	r.DiscountLimit = limit

	// 8. Savings and payable.
	r.TotalSavings = r.GoldValueDeduction + r.MakingChargeDiscount
	r.FinalAmountToPay = mathutil.NonNegative(r.TotalInvoice - r.TotalSavings)

	// 9. Breakdown.
	r.Breakdown = Breakdown{
		AdditionalGoldCost:     r.AdditionalGoldValue,
		MCOnAdditionalGold:     mcRate * r.AdditionalGoldValue,
		NetMCOnAccumulatedGold: mathutil.NonNegative(r.MCOnOverlapPortion - r.MakingChargeDiscount),
		GST:                    r.GSTAmount,
	}

	return r, nil
}

// MustCalculate is Calculate for inputs known to be valid, such as fixtures.
func MustCalculate(input Input, constants Constants) Result {
	r, err := Calculate(input, constants)
	if err != nil {
		panic(fmt.Sprintf("redemption: %v", err))
	}
	return r
}
