package redemption

// Input is a fully-resolved snapshot of one redemption request.
type Input struct {
	AccumulatedGoldGrams    float64 `json:"accumulatedGoldGrams" yaml:"accumulatedGoldGrams" validate:"finite,gte=0"`
	IntendedJewelleryWeight float64 `json:"intendedJewelleryWeight" yaml:"intendedJewelleryWeight" validate:"finite,gt=0"`
	CurrentGoldPrice        float64 `json:"currentGoldPrice" yaml:"currentGoldPrice" validate:"finite,gt=0"`
	MakingChargePercentage  float64 `json:"makingChargePercentage" yaml:"makingChargePercentage" validate:"finite,gte=0"`
	PrematureRedemption     bool    `json:"prematureRedemption" yaml:"prematureRedemption"`
	// PrematureCapPercentage is only read, and only validated, when
	// PrematureRedemption is set.
	PrematureCapPercentage float64 `json:"prematureCapPercentage" yaml:"prematureCapPercentage"`
}

// Validate returns a *ValidationError for the first invalid field.
func (in Input) Validate() error {
	return check(in, ErrInvalidInput)
}
