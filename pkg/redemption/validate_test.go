package redemption

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/gold-scheme/pkg/mathutil"
)

func validInput() Input {
	return Input{
		AccumulatedGoldGrams:    5,
		IntendedJewelleryWeight: 6,
		CurrentGoldPrice:        7000,
		MakingChargePercentage:  18,
	}
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *Input)
		wantField string
		wantRule  string
	}{
		{
			name:   "Valid input",
			mutate: func(in *Input) {},
		},
		{
			name:   "Zero accumulated gold is allowed",
			mutate: func(in *Input) { in.AccumulatedGoldGrams = 0 },
		},
		{
			name:      "Negative accumulated gold",
			mutate:    func(in *Input) { in.AccumulatedGoldGrams = -1 },
			wantField: "accumulatedGoldGrams",
			wantRule:  "gte",
		},
		{
			name:      "NaN accumulated gold",
			mutate:    func(in *Input) { in.AccumulatedGoldGrams = math.NaN() },
			wantField: "accumulatedGoldGrams",
			wantRule:  "finite",
		},
		{
			name:      "Zero jewellery weight",
			mutate:    func(in *Input) { in.IntendedJewelleryWeight = 0 },
			wantField: "intendedJewelleryWeight",
			wantRule:  "gt",
		},
		{
			name:      "Infinite gold price",
			mutate:    func(in *Input) { in.CurrentGoldPrice = math.Inf(1) },
			wantField: "currentGoldPrice",
			wantRule:  "finite",
		},
		{
			name:      "Negative making charge",
			mutate:    func(in *Input) { in.MakingChargePercentage = -0.5 },
			wantField: "makingChargePercentage",
			wantRule:  "gte",
		},
		{
			name: "First invalid field is reported",
			mutate: func(in *Input) {
				in.CurrentGoldPrice = 0
				in.MakingChargePercentage = -1
			},
			wantField: "currentGoldPrice",
			wantRule:  "gt",
		},
		{
			name: "Out of range cap ignored for standard redemption",
			mutate: func(in *Input) {
				in.PrematureCapPercentage = 250
			},
		},
		{
			name: "Premature cap above 100",
			mutate: func(in *Input) {
				in.PrematureRedemption = true
				in.PrematureCapPercentage = 101
			},
			wantField: "prematureCapPercentage",
			wantRule:  ruleCapRange,
		},
		{
			name: "Premature cap NaN",
			mutate: func(in *Input) {
				in.PrematureRedemption = true
				in.PrematureCapPercentage = math.NaN()
			},
			wantField: "prematureCapPercentage",
			wantRule:  ruleCapRange,
		},
		{
			name: "Premature cap at bounds",
			mutate: func(in *Input) {
				in.PrematureRedemption = true
				in.PrematureCapPercentage = 100
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Validate() field = %s, want %s", ve.Field, tt.wantField)
			}
			if ve.Rule != tt.wantRule {
				t.Errorf("Validate() rule = %s, want %s", ve.Rule, tt.wantRule)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error does not wrap ErrInvalidInput")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() message %q does not name %s", err.Error(), tt.wantField)
			}
		})
	}
}

func TestConstantsValidate(t *testing.T) {
	tests := []struct {
		name      string
		constants Constants
		wantField string
	}{
		{"Defaults", DefaultConstants(), ""},
		{"Zero everything", Constants{}, ""},
		{"Negative GST", Constants{GSTRate: -0.01, MakingChargeDiscountShare: 0.5, StandardDiscountRateCap: 0.12}, "gstRate"},
		{"Share above one", Constants{GSTRate: 0.03, MakingChargeDiscountShare: 1.01, StandardDiscountRateCap: 0.12}, "makingChargeDiscountShare"},
		{"Cap expressed as percent", Constants{GSTRate: 0.03, MakingChargeDiscountShare: 0.5, StandardDiscountRateCap: 12}, "standardDiscountRateCap"},
		{"Infinite GST", Constants{GSTRate: math.Inf(1), MakingChargeDiscountShare: 0.5, StandardDiscountRateCap: 0.12}, "gstRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constants.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Validate() field = %s, want %s", ve.Field, tt.wantField)
			}
			if !errors.Is(err, ErrInvalidConstants) {
				t.Errorf("Validate() error does not wrap ErrInvalidConstants")
			}
		})
	}
}

func TestCalculateRejectsOverflow(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *Input)
		wantField string
	}{
		{
			name: "Gold value overflows",
			mutate: func(in *Input) {
				in.AccumulatedGoldGrams = 1e300
				in.IntendedJewelleryWeight = 1e300
				in.CurrentGoldPrice = 1e300
			},
			wantField: "accumulatedGoldGrams",
		},
		{
			name: "Jewellery cost overflows",
			mutate: func(in *Input) {
				in.AccumulatedGoldGrams = 0
				in.IntendedJewelleryWeight = 1e300
				in.CurrentGoldPrice = 1e10
			},
			wantField: "intendedJewelleryWeight",
		},
		{
			name:      "Making charge overflows",
			mutate:    func(in *Input) { in.MakingChargePercentage = 1e308 },
			wantField: "makingChargePercentage",
		},
		{
			name: "Large but representable",
			mutate: func(in *Input) {
				in.AccumulatedGoldGrams = 1e6
				in.IntendedJewelleryWeight = 1e6
				in.CurrentGoldPrice = 1e9
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			result, err := Calculate(in, DefaultConstants())

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Calculate() unexpected error = %v", err)
				}
				if !mathutil.IsFinite(result.FinalAmountToPay) || result.FinalAmountToPay < 0 {
					t.Errorf("FinalAmountToPay = %v, want finite and >= 0", result.FinalAmountToPay)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Calculate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField || ve.Rule != ruleRange {
				t.Errorf("Calculate() field/rule = %s/%s, want %s/%s", ve.Field, ve.Rule, tt.wantField, ruleRange)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Calculate() error does not wrap ErrInvalidInput")
			}
		})
	}
}
