package redemption

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/gold-scheme/pkg/mathutil"
	"github.com/iwvelando/gold-scheme/pkg/validation"
)

const (
	ruleCapRange = "premature_cap"
	ruleRange    = "range"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// fieldValidator returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validation.NewStructValidator()
		v.RegisterStructValidation(validatePrematureCap, Input{})
		validate = v
	})
	return validate
}

// validatePrematureCap only checks the cap when it will actually be applied.
func validatePrematureCap(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	if !in.PrematureRedemption {
		return
	}
	if !mathutil.IsFinite(in.PrematureCapPercentage) || in.PrematureCapPercentage < 0 || in.PrematureCapPercentage > 100 {
		sl.ReportError(in.PrematureCapPercentage, "prematureCapPercentage", "PrematureCapPercentage", ruleCapRange, "")
	}
}

// checkMagnitude rejects finite inputs whose invoice or gold value would not
// fit in a float64.
func checkMagnitude(in Input, c Constants) error {
	overflow := func(field string, value float64) error {
		return &ValidationError{Field: field, Rule: ruleRange, Value: value, kind: ErrInvalidInput}
	}

	// Savings are at most twice the gold value.
	gold := in.AccumulatedGoldGrams * in.CurrentGoldPrice
	if !mathutil.IsFinite(2 * gold) {
		return overflow("accumulatedGoldGrams", in.AccumulatedGoldGrams)
	}
	base := in.IntendedJewelleryWeight * in.CurrentGoldPrice
	if !mathutil.IsFinite(base) {
		return overflow("intendedJewelleryWeight", in.IntendedJewelleryWeight)
	}
	subtotal := base * (1 + mathutil.PercentToRate(in.MakingChargePercentage))
	if !mathutil.IsFinite(subtotal) {
		return overflow("makingChargePercentage", in.MakingChargePercentage)
	}
	if !mathutil.IsFinite(subtotal * (1 + c.GSTRate)) {
		return overflow("intendedJewelleryWeight", in.IntendedJewelleryWeight)
	}
	return nil
}

func check(s interface{}, kind error) error {
	err := fieldValidator().Struct(s)
	if err == nil {
		return nil
	}

	first, ok := validation.FirstFieldError(err)
	if !ok {
		return fmt.Errorf("%w: %v", kind, err)
	}

	value, _ := first.Value().(float64)
	return &ValidationError{
		Field: first.Field(),
		Rule:  first.Tag(),
		Param: first.Param(),
		Value: value,
		kind:  kind,
	}
}
