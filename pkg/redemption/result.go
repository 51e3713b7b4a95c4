package redemption

import (
	"math"

	"github.com/iwvelando/gold-scheme/pkg/mathutil"
)

// DiscountLimit names the bound that decided the making-charge discount.
type DiscountLimit string

const (
	// LimitRate means the rate-based amount was applied in full.
	LimitRate DiscountLimit = "rate"
	// LimitOwnedGoldMakingCharges means the discount was cut back to the
	// making charges on the gold that is both owned and needed.
	LimitOwnedGoldMakingCharges DiscountLimit = "owned-gold-making-charges"
	// LimitTotalMakingCharges means the discount was cut back to the total
	// making charges on the invoice. The owned-gold bound never exceeds the
	// total making charges, so this only shows up if that bound changes.
	LimitTotalMakingCharges DiscountLimit = "total-making-charges"
)

// Breakdown decomposes the payable amount into what the customer is paying for.
type Breakdown struct {
	AdditionalGoldCost     float64 `json:"additionalGoldCost"`
	MCOnAdditionalGold     float64 `json:"mcOnAdditionalGold"`
	NetMCOnAccumulatedGold float64 `json:"netMcOnAccumulatedGold"`
	GST                    float64 `json:"gst"`
}

// Total sums the breakdown terms.
func (b Breakdown) Total() float64 {
	return b.AdditionalGoldCost + b.MCOnAdditionalGold + b.NetMCOnAccumulatedGold + b.GST
}

// Result is the itemized outcome of one calculation. It holds only values, so
// copies handed to callers are independent.
type Result struct {
	Input     Input     `json:"input"`
	Constants Constants `json:"constants"`

	// Gold analysis
	YourGoldValue       float64 `json:"yourGoldValue"`
	AdditionalGoldGrams float64 `json:"additionalGoldGrams"`
	AdditionalGoldValue float64 `json:"additionalGoldValue"`

	// Invoice
	BaseJewelleryCost  float64 `json:"baseJewelleryCost"`
	MakingCharges      float64 `json:"makingCharges"`
	SubtotalBeforeGST  float64 `json:"subtotalBeforeGst"`
	GSTAmount          float64 `json:"gstAmount"`
	TotalInvoice       float64 `json:"totalInvoice"`
	GoldValueDeduction float64 `json:"goldValueDeduction"`

	// Discount
	PotentialDiscountRate float64       `json:"potentialDiscountRate"`
	ApplicableCapRate     float64       `json:"applicableCapRate"`
	AppliedDiscountRate   float64       `json:"actualAppliedDiscountRate"`
	RawDiscount           float64       `json:"rawDiscount"`
	MCOnOverlapPortion    float64       `json:"mcOnOverlapPortion"`
	MakingChargeDiscount  float64       `json:"finalMakingChargeDiscount"`
	DiscountLimit         DiscountLimit `json:"discountLimit"`

	TotalSavings     float64   `json:"totalSavings"`
	FinalAmountToPay float64   `json:"finalAmountToPay"`
	Breakdown        Breakdown `json:"breakdown"`
}

// AppliedCapPercentage is the discount-rate cap in force, as a percentage.
func (r Result) AppliedCapPercentage() float64 {
	return mathutil.RateToPercent(r.ApplicableCapRate)
}

// HasSurplus reports whether more gold is owned than the jewellery needs.
func (r Result) HasSurplus() bool {
	return r.AdditionalGoldGrams < 0
}

// SurplusGoldGrams is the magnitude of owned gold beyond the jewellery weight.
func (r Result) SurplusGoldGrams() float64 {
	if !r.HasSurplus() {
		return 0
	}
	return math.Abs(r.AdditionalGoldGrams)
}

// SurplusGoldValue values the surplus at the redemption gold price.
func (r Result) SurplusGoldValue() float64 {
	return r.SurplusGoldGrams() * r.Input.CurrentGoldPrice
}

// UnreconciledAmount is how far the breakdown total sits above the payable
// amount. It is zero (up to float drift) without surplus gold; with surplus it
// equals min(Breakdown.Total(), SurplusGoldValue()).
func (r Result) UnreconciledAmount() float64 {
	return r.Breakdown.Total() - r.FinalAmountToPay
}

// Reconciles reports whether the breakdown sums to the payable amount.
func (r Result) Reconciles(tolerance float64) bool {
	return mathutil.WithinTolerance(r.Breakdown.Total(), r.FinalAmountToPay, tolerance)
}
