// Package output provides utilities for formatting and displaying estimate results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/gold-scheme/internal/estimate"
	"github.com/iwvelando/gold-scheme/pkg/format"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{
	"name", "source", "status",
	"accumulatedGoldGrams", "intendedJewelleryWeight", "currentGoldPrice", "makingChargePercentage",
	"prematureRedemption", "appliedDiscountRate",
	"totalInvoice", "goldValueDeduction", "makingChargeDiscount", "discountLimit", "finalAmountToPay",
	"additionalGoldCost", "mcOnAdditionalGold", "netMcOnAccumulatedGold", "gst",
	"budget", "maxWeightForBudget", "notes",
}

// CsvString renders results as CSV text.
func CsvString(results []estimate.Estimate) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WritePretty writes one table per estimate.
func WritePretty(w io.Writer, results []estimate.Estimate) error {
	for i, est := range results {
		if _, err := fmt.Fprintf(w, "--- Estimate for %s %s ---\n", est.Source, est.Name); err != nil {
			return err
		}
		rows := prettyRows(est)
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%-30s | %s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		if a := est.Affordability; a != nil {
			_, _ = fmt.Fprintf(w, "%-30s | %s (%d iterations)\n", "Max weight for "+format.Currency(a.Budget), a.ValueDisplay, a.Iterations)
			if !a.Affordable {
				_, _ = fmt.Fprintf(w, "%-30s | %s\n", "Budget shortfall", format.Currency(a.Shortfall()))
			}
		}
		for _, note := range est.Notes {
			_, _ = fmt.Fprintf(w, "%-30s | %s\n", "Note", note)
		}
		if len(results) > 1 && i < len(results)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}
	return nil
}

func prettyRows(est estimate.Estimate) [][2]string {
	var rows [][2]string
	if s := est.Scheme; s != nil {
		rows = append(rows,
			[2]string{"Status", string(s.Status)},
			[2]string{"Invested", format.Currency(s.TotalInvestedAmount)},
			[2]string{"Accumulated gold", format.Grams(s.TotalAccumulatedGoldGrams)},
		)
	}
	r := est.Result
	if r == nil {
		return rows
	}

	gap := format.Grams(r.AdditionalGoldGrams)
	if r.HasSurplus() {
		gap = format.Grams(r.SurplusGoldGrams()) + " surplus"
	}
	rows = append(rows,
		[2]string{"Your gold value", format.Currency(r.YourGoldValue)},
		[2]string{"Additional gold", gap},
		[2]string{"Jewellery gold value", format.Currency(r.BaseJewelleryCost)},
		[2]string{"Making charges", format.Currency(r.MakingCharges)},
		[2]string{"GST", format.Currency(r.GSTAmount)},
		[2]string{"Total invoice", format.Currency(r.TotalInvoice)},
		[2]string{"Gold value deduction", "-" + format.Currency(r.GoldValueDeduction)},
		[2]string{"Discount rate", fmt.Sprintf("%s of %s potential, cap %s",
			format.Rate(r.AppliedDiscountRate), format.Rate(r.PotentialDiscountRate), format.Rate(r.ApplicableCapRate))},
		[2]string{"Making-charge discount", "-" + format.Currency(r.MakingChargeDiscount)},
		[2]string{"Final amount to pay", format.Currency(r.FinalAmountToPay)},
	)
	return rows
}

// WriteCSV writes one row per estimate under CSVHeader.
func WriteCSV(w io.Writer, results []estimate.Estimate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, est := range results {
		if err := cw.Write(csvRow(est)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(est estimate.Estimate) []string {
	row := make([]string, len(CSVHeader))
	row[0] = est.Name
	row[1] = string(est.Source)
	if s := est.Scheme; s != nil {
		row[2] = string(s.Status)
		row[3] = grams(s.TotalAccumulatedGoldGrams)
	}
	if r := est.Result; r != nil {
		fillResult(row, *r)
	}
	if a := est.Affordability; a != nil {
		row[18] = money(a.Budget)
		row[19] = grams(a.Value)
	}
	row[20] = strings.Join(est.Notes, "; ")
	return row
}

func fillResult(row []string, r redemption.Result) {
	row[3] = grams(r.Input.AccumulatedGoldGrams)
	row[4] = grams(r.Input.IntendedJewelleryWeight)
	row[5] = money(r.Input.CurrentGoldPrice)
	row[6] = strconv.FormatFloat(r.Input.MakingChargePercentage, 'f', -1, 64)
	row[7] = strconv.FormatBool(r.Input.PrematureRedemption)
	row[8] = strconv.FormatFloat(r.AppliedDiscountRate, 'f', 4, 64)
	row[9] = money(r.TotalInvoice)
	row[10] = money(r.GoldValueDeduction)
	row[11] = money(r.MakingChargeDiscount)
	row[12] = string(r.DiscountLimit)
	row[13] = money(r.FinalAmountToPay)
	row[14] = money(r.Breakdown.AdditionalGoldCost)
	row[15] = money(r.Breakdown.MCOnAdditionalGold)
	row[16] = money(r.Breakdown.NetMCOnAccumulatedGold)
	row[17] = money(r.Breakdown.GST)
}

func money(v float64) string {
	return strings.ReplaceAll(format.NumericCurrency(v), ",", "")
}

func grams(v float64) string {
	return strings.ReplaceAll(format.Number(v, 3), ",", "")
}
