package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/optimization"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func necklaceRequest() map[string]interface{} {
	return map[string]interface{}{
		"accumulatedGoldGrams":    5,
		"intendedJewelleryWeight": 6,
		"currentGoldPrice":        7000,
		"makingChargePercentage":  18,
	}
}

func TestHandleCalculate(t *testing.T) {
	srv := newTestServer(t, constants.DefaultMaxUploadSizeBytes, "2025-12-20")

	tests := []struct {
		name        string
		mutate      func(map[string]interface{})
		wantPayable float64
		wantRate    float64
		wantLimit   redemption.DiscountLimit
	}{
		{
			name:        "standard redemption",
			mutate:      func(map[string]interface{}) {},
			wantPayable: 12896.8,
			wantRate:    0.09,
			wantLimit:   redemption.LimitRate,
		},
		{
			name: "premature with explicit cap",
			mutate: func(req map[string]interface{}) {
				req["prematureRedemption"] = true
				req["prematureCapPercentage"] = 5
			},
			wantPayable: 14296.8,
			wantRate:    0.05,
			wantLimit:   redemption.LimitRate,
		},
		{
			name: "premature with default cap",
			mutate: func(req map[string]interface{}) {
				req["prematureRedemption"] = true
			},
			wantPayable: 12896.8,
			wantRate:    0.09,
			wantLimit:   redemption.LimitRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := necklaceRequest()
			tt.mutate(req)

			rr := performJSON(t, srv.handler, http.MethodPost, "/api/calculate", req)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var result redemption.Result
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
			assert.InDelta(t, tt.wantPayable, result.FinalAmountToPay, tol)
			assert.InDelta(t, tt.wantRate, result.AppliedDiscountRate, tol)
			assert.Equal(t, tt.wantLimit, result.DiscountLimit)
		})
	}
}

func TestHandleCalculateValidation(t *testing.T) {
	srv := newTestServer(t, constants.DefaultMaxUploadSizeBytes, "2025-12-20")

	tests := []struct {
		name      string
		mutate    func(map[string]interface{})
		wantField string
	}{
		{"zero price", func(req map[string]interface{}) { req["currentGoldPrice"] = 0 }, "currentGoldPrice"},
		{"zero weight", func(req map[string]interface{}) { req["intendedJewelleryWeight"] = 0 }, "intendedJewelleryWeight"},
		{"negative gold", func(req map[string]interface{}) { req["accumulatedGoldGrams"] = -1 }, "accumulatedGoldGrams"},
		{"payable too large", func(req map[string]interface{}) {
			req["accumulatedGoldGrams"] = 1e300
			req["intendedJewelleryWeight"] = 1e300
			req["currentGoldPrice"] = 1e300
		}, "accumulatedGoldGrams"},
		{"cap above 100", func(req map[string]interface{}) {
			req["prematureRedemption"] = true
			req["prematureCapPercentage"] = 150
		}, "prematureCapPercentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := necklaceRequest()
			tt.mutate(req)

			rr := performJSON(t, srv.handler, http.MethodPost, "/api/calculate", req)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantField, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleCalculateMalformedBody(t *testing.T) {
	srv := newTestServer(t, constants.DefaultMaxUploadSizeBytes, "2025-12-20")

	rr := perform(t, srv.handler, http.MethodPost, "/api/calculate", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleAffordability(t *testing.T) {
	srv := newTestServer(t, constants.DefaultMaxUploadSizeBytes, "2025-12-20")

	rr := performJSON(t, srv.handler, http.MethodPost, "/api/affordability", map[string]interface{}{
		"name":   "necklace",
		"input":  necklaceRequest(),
		"budget": 12900,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var summary optimization.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, "necklace", summary.TargetName)
	assert.True(t, summary.Affordable)
	assert.InDelta(t, 51050/8507.8, summary.Value, 0.0011)
	assert.LessOrEqual(t, summary.Payable, 12900.0)
	assert.InDelta(t, 12896.8, summary.OriginalPayable, tol)
}

func TestHandleAffordabilityInvalid(t *testing.T) {
	srv := newTestServer(t, constants.DefaultMaxUploadSizeBytes, "2025-12-20")

	rr := performJSON(t, srv.handler, http.MethodPost, "/api/affordability", map[string]interface{}{
		"input":  necklaceRequest(),
		"budget": -1,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "budget", resp.Field)

	bad := necklaceRequest()
	bad["currentGoldPrice"] = 0
	rr = performJSON(t, srv.handler, http.MethodPost, "/api/affordability", map[string]interface{}{
		"input":  bad,
		"budget": 1000,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "currentGoldPrice", resp.Field)
}

func TestHandleCalculateConfiguredZeroCap(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.Scheme.DefaultPrematureCapPercentage = 0

	handler, err := NewHandler(nil, Options{Config: cfg, Gatherer: prometheus.NewRegistry()})
	require.NoError(t, err)

	req := necklaceRequest()
	req["prematureRedemption"] = true
	rr := performJSON(t, handler, http.MethodPost, "/api/calculate", req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result redemption.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.InDelta(t, 0, result.Input.PrematureCapPercentage, tol)
	assert.InDelta(t, 0, result.AppliedDiscountRate, tol)
	assert.InDelta(t, 16046.8, result.FinalAmountToPay, tol)
}
