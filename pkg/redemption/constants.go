package redemption

import "github.com/iwvelando/gold-scheme/pkg/constants"

// Constants is the fixed scheme configuration the engine prices against.
type Constants struct {
	GSTRate                   float64 `json:"gstRate" yaml:"gstRate" validate:"finite,gte=0"`
	MakingChargeDiscountShare float64 `json:"makingChargeDiscountShare" yaml:"makingChargeDiscountShare" validate:"finite,gte=0,lte=1"`
	StandardDiscountRateCap   float64 `json:"standardDiscountRateCap" yaml:"standardDiscountRateCap" validate:"finite,gte=0,lte=1"`
}

// DefaultConstants returns the published scheme constants.
func DefaultConstants() Constants {
	return Constants{
		GSTRate:                   constants.GSTRate,
		MakingChargeDiscountShare: constants.MakingChargeDiscountShare,
		StandardDiscountRateCap:   constants.StandardDiscountRateCap,
	}
}

// Validate rejects non-finite values, a negative GST rate and any share or cap
// outside [0, 1].
func (c Constants) Validate() error {
	return check(c, ErrInvalidConstants)
}
