// Package constants provides shared constants for the gold-scheme application.
package constants

import "time"

// DateLayout is the format expected for dates in config files and API payloads.
const DateLayout = "2006-01-02"

// Scheme defaults. These mirror the constants table the jeweller publishes and
// are only overridden through configuration, never by user input.
const (
	// GSTRate is the flat tax rate applied to the pre-tax invoice subtotal.
	GSTRate = 0.03

	// MakingChargeDiscountShare is the fraction of the making-charge percentage
	// granted as a potential discount rate on the accumulated-gold value.
	MakingChargeDiscountShare = 0.50

	// StandardDiscountRateCap is the ceiling on the discount rate for
	// non-premature redemption.
	StandardDiscountRateCap = 0.12

	// DefaultPrematureCapPercentage is the premature-redemption cap offered
	// before the user adjusts it.
	DefaultPrematureCapPercentage = 11.0

	// DefaultMaturityMonths is the scheme length after which redemption is no
	// longer premature.
	DefaultMaturityMonths = 11
)

// Environment names recognized as overrides for the scheme constants.
const (
	EnvGSTRate                   = "GST_RATE"
	EnvMakingChargeDiscountShare = "MAKING_CHARGE_DISCOUNT_PERCENTAGE_ON_ACCUMULATED_GOLD"
	EnvStandardDiscountRateCap   = "STANDARD_DISCOUNT_RATE_CAP"
)

// Precision constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places shown for rupee amounts.
	CurrencyPlaces = 2

	// GramPlaces is the number of decimal places shown for gold weights.
	GramPlaces = 3

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Investment types
const (
	InvestmentTypeMonthly = "monthly"
	InvestmentTypeLumpsum = "lumpsum"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server.
	DefaultShutdownTimeout = 10 * time.Second

	// MetricsNamespace prefixes every Prometheus collector.
	MetricsNamespace = "gold_scheme"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// ReconciliationTolerance bounds floating-point drift when the invoice
	// breakdown is summed back to the payable amount.
	ReconciliationTolerance = 1e-6

	// WeightTolerance is the convergence bound for weight searches (1 mg).
	WeightTolerance = 0.001
)
