// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for gold-scheme.
type Configuration struct {
	Scheme      SchemeConfig  `yaml:"scheme,omitempty" json:"scheme"`
	Logging     LoggingConfig `yaml:"logging,omitempty" json:"logging"`
	Output      OutputConfig  `yaml:"output,omitempty" json:"output"`
	Redemptions []Redemption  `yaml:"redemptions,omitempty" json:"redemptions"`
	Schemes     []Scheme      `yaml:"schemes,omitempty" json:"schemes"`
}

// SchemeConfig holds the jeweller's scheme constants and defaults.
type SchemeConfig struct {
	GSTRate                       float64 `yaml:"gstRate" json:"gstRate" mapstructure:"gstRate"`
	MakingChargeDiscountShare     float64 `yaml:"makingChargeDiscountShare" json:"makingChargeDiscountShare" mapstructure:"makingChargeDiscountShare"`
	StandardDiscountRateCap       float64 `yaml:"standardDiscountRateCap" json:"standardDiscountRateCap" mapstructure:"standardDiscountRateCap"`
	DefaultPrematureCapPercentage float64 `yaml:"defaultPrematureCapPercentage" json:"defaultPrematureCapPercentage" mapstructure:"defaultPrematureCapPercentage"`
	MaturityMonths                int     `yaml:"maturityMonths" json:"maturityMonths" mapstructure:"maturityMonths"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`                                    // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`                                  // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv
}

// Redemption is a standalone what-if calculation.
type Redemption struct {
	Name                    string  `yaml:"name" json:"name"`
	Active                  bool    `yaml:"active" json:"active"`
	AccumulatedGoldGrams    float64 `yaml:"accumulatedGoldGrams" json:"accumulatedGoldGrams" mapstructure:"accumulatedGoldGrams"`
	IntendedJewelleryWeight float64 `yaml:"intendedJewelleryWeight" json:"intendedJewelleryWeight" mapstructure:"intendedJewelleryWeight"`
	CurrentGoldPrice        float64 `yaml:"currentGoldPrice" json:"currentGoldPrice" mapstructure:"currentGoldPrice"`
	MakingChargePercentage  float64 `yaml:"makingChargePercentage" json:"makingChargePercentage" mapstructure:"makingChargePercentage"`
	PrematureRedemption     bool    `yaml:"prematureRedemption" json:"prematureRedemption" mapstructure:"prematureRedemption"`
	// PrematureCapPercentage falls back to scheme.defaultPrematureCapPercentage.
	PrematureCapPercentage *float64 `yaml:"prematureCapPercentage,omitempty" json:"prematureCapPercentage,omitempty" mapstructure:"prematureCapPercentage"`
	// Budget, when set, asks for the heaviest jewellery the amount can pay for.
	Budget *float64 `yaml:"budget,omitempty" json:"budget,omitempty"`
}

// Scheme is a scheme history replayed through the ledger.
type Scheme struct {
	Name           string        `yaml:"name" json:"name"`
	InvestmentType string        `yaml:"investmentType" json:"investmentType" mapstructure:"investmentType"`
	StartDate      string        `yaml:"startDate" json:"startDate" mapstructure:"startDate"`
	Transactions   []Transaction `yaml:"transactions,omitempty" json:"transactions,omitempty"`
	Redeem         *Redeem       `yaml:"redeem,omitempty" json:"redeem,omitempty"`
}

// Transaction is one recorded gold purchase.
type Transaction struct {
	Date           string  `yaml:"date" json:"date"`
	InvestedAmount float64 `yaml:"investedAmount" json:"investedAmount" mapstructure:"investedAmount"`
	GoldRate       float64 `yaml:"goldRate" json:"goldRate" mapstructure:"goldRate"`
}

// Redeem describes the jewellery a configured scheme is redeemed into.
type Redeem struct {
	Date                    string  `yaml:"date,omitempty" json:"date,omitempty"`
	IntendedJewelleryWeight float64 `yaml:"intendedJewelleryWeight" json:"intendedJewelleryWeight" mapstructure:"intendedJewelleryWeight"`
	CurrentGoldPrice        float64 `yaml:"currentGoldPrice" json:"currentGoldPrice" mapstructure:"currentGoldPrice"`
	MakingChargePercentage  float64 `yaml:"makingChargePercentage" json:"makingChargePercentage" mapstructure:"makingChargePercentage"`
	// PrematureRedemption overrides the maturity check when set.
	PrematureRedemption    *bool    `yaml:"prematureRedemption,omitempty" json:"prematureRedemption,omitempty" mapstructure:"prematureRedemption"`
	PrematureCapPercentage *float64 `yaml:"prematureCapPercentage,omitempty" json:"prematureCapPercentage,omitempty" mapstructure:"prematureCapPercentage"`
	Budget                 *float64 `yaml:"budget,omitempty" json:"budget,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r. Each
// call uses its own viper instance, so concurrent loads do not interfere.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The jeweller publishes the constants under these names; they override
	// whatever the file says.
	_ = v.BindEnv("scheme.gstRate", constants.EnvGSTRate)
	_ = v.BindEnv("scheme.makingChargeDiscountShare", constants.EnvMakingChargeDiscountShare)
	_ = v.BindEnv("scheme.standardDiscountRateCap", constants.EnvStandardDiscountRateCap)

	v.SetDefault("scheme.gstRate", constants.GSTRate)
	v.SetDefault("scheme.makingChargeDiscountShare", constants.MakingChargeDiscountShare)
	v.SetDefault("scheme.standardDiscountRateCap", constants.StandardDiscountRateCap)
	v.SetDefault("scheme.defaultPrematureCapPercentage", constants.DefaultPrematureCapPercentage)
	v.SetDefault("scheme.maturityMonths", constants.DefaultMaturityMonths)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// Constants returns the engine constants from the scheme section.
func (c *Configuration) Constants() redemption.Constants {
	return redemption.Constants{
		GSTRate:                   c.Scheme.GSTRate,
		MakingChargeDiscountShare: c.Scheme.MakingChargeDiscountShare,
		StandardDiscountRateCap:   c.Scheme.StandardDiscountRateCap,
	}
}

// PrematureCap returns the configured default premature cap percentage. Zero
// is a real cap; an omitted key already took the default during loading.
func (c *Configuration) PrematureCap() float64 {
	return c.Scheme.DefaultPrematureCapPercentage
}

// MaturityMonths returns the configured scheme length in months.
func (c *Configuration) MaturityMonths() int {
	if c.Scheme.MaturityMonths <= 0 {
		return constants.DefaultMaturityMonths
	}
	return c.Scheme.MaturityMonths
}
