package server

import (
	"errors"
	"net/http"

	"github.com/iwvelando/gold-scheme/internal/optimizer"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
)

// Metric source labels for calculations served over HTTP.
const (
	sourceCalculate = "calculate"
	sourceQuote     = "quote"
	sourceRedeem    = "redeem"
)

// calculateRequest mirrors redemption.Input with an optional cap so an
// omitted cap takes the configured default.
type calculateRequest struct {
	AccumulatedGoldGrams    float64  `json:"accumulatedGoldGrams"`
	IntendedJewelleryWeight float64  `json:"intendedJewelleryWeight"`
	CurrentGoldPrice        float64  `json:"currentGoldPrice"`
	MakingChargePercentage  float64  `json:"makingChargePercentage"`
	PrematureRedemption     bool     `json:"prematureRedemption"`
	PrematureCapPercentage  *float64 `json:"prematureCapPercentage,omitempty"`
}

func (req calculateRequest) input(defaultCap float64) redemption.Input {
	capPercentage := defaultCap
	if req.PrematureCapPercentage != nil {
		capPercentage = *req.PrematureCapPercentage
	}
	return redemption.Input{
		AccumulatedGoldGrams:    req.AccumulatedGoldGrams,
		IntendedJewelleryWeight: req.IntendedJewelleryWeight,
		CurrentGoldPrice:        req.CurrentGoldPrice,
		MakingChargePercentage:  req.MakingChargePercentage,
		PrematureRedemption:     req.PrematureRedemption,
		PrematureCapPercentage:  capPercentage,
	}
}

type affordabilityRequest struct {
	Name   string           `json:"name"`
	Input  calculateRequest `json:"input"`
	Budget float64          `json:"budget"`
}

type constantsResponse struct {
	redemption.Constants
	DefaultPrematureCapPercentage float64 `json:"defaultPrematureCapPercentage"`
}

func (h *handler) handleConstants(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, constantsResponse{
		Constants:                     h.calculator.Constants(),
		DefaultPrematureCapPercentage: h.defaultCap,
	})
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	var req calculateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	result, err := h.calculator.Calculate(req.input(h.defaultCap))
	h.metrics.ObserveCalculation(sourceCalculate, result, err)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"

	var req affordabilityRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	summary, err := h.solver.MaxWeightForBudget(req.Name, req.Input.input(h.defaultCap), req.Budget)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// respondCalculationError maps engine and solver errors to 400 with the
// offending field, and anything else to 500.
func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var verr *redemption.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeErrorJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: verr.Field}, op)
	case errors.Is(err, optimizer.ErrInvalidBudget):
		h.writeErrorJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "budget"}, op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}
