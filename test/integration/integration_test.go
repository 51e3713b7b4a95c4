package integration

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/gold-scheme/internal/config"
	"github.com/iwvelando/gold-scheme/internal/estimate"
	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/datetime"
	"github.com/iwvelando/gold-scheme/pkg/output"
	"github.com/iwvelando/gold-scheme/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

// baselineDate pins scheme maturity so the baseline does not drift with the
// calendar.
var baselineDate = datetime.MustParseTime(datetime.DateLayout, "2025-12-20")

func runBaseline(t *testing.T) []estimate.Estimate {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := estimate.GetEstimatesWithFixedTime(zap.NewNop(), *conf, baselineDate)
	if err != nil {
		t.Fatalf("GetEstimatesWithFixedTime() error = %v", err)
	}
	return results
}

// TestMainIntegrationBaseline checks the estimates for the shared test
// configuration against hand-computed invoices.
func TestMainIntegrationBaseline(t *testing.T) {
	results := runBaseline(t)

	expectedNames := []string{
		"necklace",
		"early bangle",
		"plain coin",
		"small ring",
		"wedding",
		"festival",
		"savings",
	}
	if len(results) != len(expectedNames) {
		t.Fatalf("Expected %d estimates, got %d", len(expectedNames), len(results))
	}
	for i, expected := range expectedNames {
		if results[i].Name != expected {
			t.Errorf("Estimate %d: expected name '%s', got '%s'", i, expected, results[i].Name)
		}
	}

	checks := []struct {
		name        string
		expectedPay float64
	}{
		{"necklace", 12896.80},
		{"early bangle", 14296.80},
		{"plain coin", 8260.00},
		{"small ring", 0},
		{"wedding", 12896.80},
		{"festival", 17388.00},
	}
	for _, check := range checks {
		est := testutil.FindEstimate(results, check.name)
		if est == nil || est.Result == nil {
			t.Errorf("Estimate '%s' has no redemption result", check.name)
			continue
		}
		if math.Abs(est.Result.FinalAmountToPay-check.expectedPay) > constants.CurrencyTolerance {
			t.Errorf("Estimate '%s': expected payable %.2f, got %.2f",
				check.name, check.expectedPay, est.Result.FinalAmountToPay)
		}
	}

	savings := testutil.FindEstimate(results, "savings")
	if savings == nil || savings.Result != nil {
		t.Fatalf("Expected unredeemed savings scheme, got %+v", savings)
	}
}

// TestCSVOutputFormat checks the CSV layout and a few rendered values.
func TestCSVOutputFormat(t *testing.T) {
	results := runBaseline(t)

	text, err := output.CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) != len(results)+1 {
		t.Fatalf("Expected %d CSV records, got %d", len(results)+1, len(records))
	}

	header := records[0]
	if strings.Join(header, ",") != strings.Join(output.CSVHeader, ",") {
		t.Errorf("CSV header mismatch: got %v", header)
	}

	column := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("CSV header missing column %s", name)
		return -1
	}

	necklace := records[1]
	if got := necklace[column("finalAmountToPay")]; got != "12896.80" {
		t.Errorf("necklace finalAmountToPay: expected 12896.80, got %s", got)
	}
	if got := necklace[column("discountLimit")]; got != "rate" {
		t.Errorf("necklace discountLimit: expected rate, got %s", got)
	}
	if got := necklace[column("budget")]; got != "20000.00" {
		t.Errorf("necklace budget: expected 20000.00, got %s", got)
	}

	for i, record := range records[1:] {
		if len(record) != len(header) {
			t.Errorf("CSV record %d has %d fields, expected %d", i+1, len(record), len(header))
		}
	}
}

// TestPrettyOutputFormat checks the human-readable tables.
func TestPrettyOutputFormat(t *testing.T) {
	results := runBaseline(t)

	var buf bytes.Buffer
	if err := output.WritePretty(&buf, results); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	text := buf.String()

	for _, want := range []string{
		"--- Estimate for redemption necklace ---",
		"--- Estimate for scheme wedding ---",
		"₹12,896.80",
		"2.000 g surplus",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
}

// TestConfigurationValidation checks warnings for the shared test
// configuration and for a configuration with every kind of problem.
func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 2 {
		t.Errorf("Expected 2 warnings for test config, got %d: %v", len(warnings), warnings)
	}

	problems := `
redemptions:
  - name: eager
    active: true
    accumulatedGoldGrams: 5
    intendedJewelleryWeight: 6
    currentGoldPrice: 7000
    makingChargePercentage: 18
    prematureRedemption: true
    prematureCapPercentage: 20
schemes:
  - name: backdated
    investmentType: monthly
    startDate: "2025-03-01"
    transactions:
      - {date: "2025-02-01", investedAmount: 7000, goldRate: 7000}
    redeem:
      date: "2025-01-15"
      intendedJewelleryWeight: 1
      currentGoldPrice: 7000
      makingChargePercentage: 18
`
	path := writeConfig(t, problems)
	conf, err = config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()
	for _, want := range []string{"premature cap", "before its start", "before its last transaction"} {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a warning containing %q, got %v", want, warnings)
		}
	}
}

// TestEndToEndWithEnvironmentOverride runs a configuration whose GST rate is
// replaced from the environment.
func TestEndToEndWithEnvironmentOverride(t *testing.T) {
	t.Setenv(constants.EnvGSTRate, "0")

	path := writeConfig(t, `
redemptions:
  - name: tax free
    active: true
    accumulatedGoldGrams: 5
    intendedJewelleryWeight: 6
    currentGoldPrice: 7000
    makingChargePercentage: 18
`)
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := estimate.GetEstimatesWithFixedTime(zap.NewNop(), *conf, baselineDate)
	if err != nil {
		t.Fatalf("GetEstimatesWithFixedTime() error = %v", err)
	}
	if len(results) != 1 || results[0].Result == nil {
		t.Fatalf("Expected one priced estimate, got %+v", results)
	}

	// 42000 + 7560 making charges, less 35000 gold and a 3150 discount.
	if got := results[0].Result.FinalAmountToPay; math.Abs(got-11410) > constants.CurrencyTolerance {
		t.Errorf("Expected payable 11410.00 without GST, got %.2f", got)
	}
}

// TestBreakdownReconciles checks that every itemized invoice adds up to the
// amount payable, or differs only by the surplus gold that is forfeited.
func TestBreakdownReconciles(t *testing.T) {
	for _, est := range runBaseline(t) {
		r := est.Result
		if r == nil {
			continue
		}
		if r.HasSurplus() {
			if r.UnreconciledAmount() < -constants.ReconciliationTolerance {
				t.Errorf("%s: breakdown below payable by %.6f", est.Name, -r.UnreconciledAmount())
			}
			continue
		}
		if !r.Reconciles(constants.ReconciliationTolerance) {
			t.Errorf("%s: breakdown %.6f does not match payable %.6f", est.Name, r.Breakdown.Total(), r.FinalAmountToPay)
		}
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
