package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/gold-scheme/internal/ledger"
	"github.com/iwvelando/gold-scheme/internal/metrics"
	"github.com/iwvelando/gold-scheme/pkg/datetime"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
)

// Ledger result labels beyond the shared ok/invalid/error.
const (
	resultNotFound = "not_found"
	resultConflict = "conflict"
)

type schemeRequest struct {
	Name           string `json:"name"`
	InvestmentType string `json:"investmentType"`
	StartDate      string `json:"startDate"`
}

type transactionRequest struct {
	Date           string  `json:"date"`
	InvestedAmount float64 `json:"investedAmount"`
	GoldRate       float64 `json:"goldRate"`
}

type redeemRequest struct {
	Date                    string   `json:"date,omitempty"`
	IntendedJewelleryWeight float64  `json:"intendedJewelleryWeight"`
	CurrentGoldPrice        float64  `json:"currentGoldPrice"`
	MakingChargePercentage  float64  `json:"makingChargePercentage"`
	PrematureRedemption     *bool    `json:"prematureRedemption,omitempty"`
	PrematureCapPercentage  *float64 `json:"prematureCapPercentage,omitempty"`
}

type transactionResponse struct {
	Scheme      ledger.Scheme      `json:"scheme"`
	Transaction ledger.Transaction `json:"transaction"`
}

// errInvalidDate marks request dates that fail to parse.
var errInvalidDate = errors.New("invalid date")

func parseRequestDate(field, value string) (time.Time, error) {
	t, err := datetime.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", errInvalidDate, field, err)
	}
	return t, nil
}

func (req transactionRequest) toNewTransaction() (ledger.NewTransaction, error) {
	date, err := parseRequestDate("date", req.Date)
	if err != nil {
		return ledger.NewTransaction{}, err
	}
	return ledger.NewTransaction{
		Date:           date,
		InvestedAmount: req.InvestedAmount,
		GoldRate:       req.GoldRate,
	}, nil
}

func (req redeemRequest) toRedeemRequest() (ledger.RedeemRequest, error) {
	out := ledger.RedeemRequest{
		IntendedJewelleryWeight: req.IntendedJewelleryWeight,
		CurrentGoldPrice:        req.CurrentGoldPrice,
		MakingChargePercentage:  req.MakingChargePercentage,
		PrematureRedemption:     req.PrematureRedemption,
		PrematureCapPercentage:  req.PrematureCapPercentage,
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := parseRequestDate("date", req.Date)
		if err != nil {
			return ledger.RedeemRequest{}, err
		}
		out.Date = date
	}
	return out, nil
}

func (h *handler) handleCreateScheme(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateScheme"

	var req schemeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	var start time.Time
	if strings.TrimSpace(req.StartDate) != "" {
		var err error
		if start, err = parseRequestDate("startDate", req.StartDate); err != nil {
			h.respondLedgerError(w, err, op)
			return
		}
	}

	scheme, err := h.ledger.CreateScheme(r.Context(), ledger.NewScheme{
		Name:           req.Name,
		InvestmentType: ledger.InvestmentType(strings.ToLower(strings.TrimSpace(req.InvestmentType))),
		StartDate:      start,
	})
	h.metrics.ObserveLedger("create", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, scheme)
}

func (h *handler) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListSchemes"

	if _, err := h.ledger.Refresh(r.Context(), h.now()); err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	schemes, err := h.ledger.ListSchemes(r.Context())
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"schemes": schemes,
	})
}

func (h *handler) handleGetScheme(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetScheme"

	if _, err := h.ledger.Refresh(r.Context(), h.now()); err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	scheme, err := h.ledger.GetScheme(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, scheme)
}

func (h *handler) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddTransaction"

	var req transactionRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	tx, err := req.toNewTransaction()
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}

	scheme, added, err := h.ledger.AddTransaction(r.Context(), chi.URLParam(r, "id"), tx)
	h.metrics.ObserveLedger("add_transaction", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, transactionResponse{Scheme: scheme, Transaction: added})
}

func (h *handler) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEditTransaction"

	var req transactionRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	tx, err := req.toNewTransaction()
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}

	scheme, err := h.ledger.EditTransaction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txID"), tx)
	h.metrics.ObserveLedger("edit_transaction", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, scheme)
}

func (h *handler) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRemoveTransaction"

	scheme, err := h.ledger.RemoveTransaction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txID"))
	h.metrics.ObserveLedger("remove_transaction", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, scheme)
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"

	var req redeemRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	redeem, err := req.toRedeemRequest()
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}

	result, err := h.ledger.Quote(r.Context(), chi.URLParam(r, "id"), redeem)
	h.metrics.ObserveCalculation(sourceQuote, result, err)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRedeem"

	var req redeemRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	redeem, err := req.toRedeemRequest()
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}

	scheme, err := h.ledger.Redeem(r.Context(), chi.URLParam(r, "id"), redeem)
	h.metrics.ObserveLedger("redeem", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.metrics.ObserveCalculation(sourceRedeem, scheme.Redemption.Result, nil)
	h.writeJSON(w, http.StatusOK, scheme)
}

func (h *handler) handleCloseScheme(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCloseScheme"

	scheme, err := h.ledger.CloseScheme(r.Context(), chi.URLParam(r, "id"))
	h.metrics.ObserveLedger("close", err, classifyLedgerError)
	if err != nil {
		h.respondLedgerError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, scheme)
}

// respondLedgerError maps ledger errors to HTTP statuses: 404 for unknown
// records, 409 for state conflicts and 400 for invalid fields.
func (h *handler) respondLedgerError(w http.ResponseWriter, err error, op string) {
	body := errorResponse{Error: err.Error()}
	var verr *redemption.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}

	status := http.StatusInternalServerError
	switch {
	case ledger.IsNotFound(err):
		status = http.StatusNotFound
	case ledger.IsConflict(err):
		status = http.StatusConflict
	case ledger.IsClientError(err), errors.Is(err, errInvalidDate):
		status = http.StatusBadRequest
	}
	h.writeErrorJSON(w, status, body, op)
}

func classifyLedgerError(err error) string {
	switch {
	case ledger.IsNotFound(err):
		return resultNotFound
	case ledger.IsConflict(err):
		return resultConflict
	case ledger.IsClientError(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
