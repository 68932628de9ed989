package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

func TestParseJSON(t *testing.T) {
	t.Run("decodes decimals given as strings or numbers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price": "187.50", "currency": "USD"}`))
		req, err := parseJSON[request.SetMarketPriceRequest](r)
		require.NoError(t, err)
		assert.Equal(t, "187.5", req.Price.String())

		r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price": 42}`))
		req, err = parseJSON[request.SetMarketPriceRequest](r)
		require.NoError(t, err)
		assert.Equal(t, "42", req.Price.String())
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price": "1", "colour": "red"}`))
		_, err := parseJSON[request.SetMarketPriceRequest](r)
		assert.Error(t, err)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price": "1"} {"price": "2"}`))
		_, err := parseJSON[request.SetMarketPriceRequest](r)
		assert.Error(t, err)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		_, err := parseJSON[request.SetMarketPriceRequest](r)
		assert.Error(t, err)
	})
}

func TestRespondServiceError(t *testing.T) {
	fallback := errors.New("something failed")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrTradeNotFound), http.StatusNotFound, "trade not found"},
		{"missing price", apperrors.ErrMarketPriceNotFound, http.StatusNotFound, "market price not found"},
		{"validation", &validation.Error{Fields: map[string]string{"quantity": "quantity must be positive"}}, http.StatusBadRequest, "validation failed"},
		{"related trade", fmt.Errorf("%w: abc", apperrors.ErrRelatedTradeNotFound), http.StatusBadRequest, "related trade not found"},
		{"date range", apperrors.ErrInvalidDateRange, http.StatusBadRequest, "invalid date range"},
		{"engine input error", &portfolio.InputError{Err: apperrors.ErrInvalidCashFlow, RecordID: "cf-1", Field: "fx_rate", Reason: "missing"}, http.StatusUnprocessableEntity, "invalid cash flow"},
		{"wrapped input sentinel", fmt.Errorf("%w: bad rate", apperrors.ErrInvalidFxRate), http.StatusUnprocessableEntity, "invalid fx rate"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "something failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, tt.err, fallback)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body["error"])
		})
	}

	t.Run("input error details name the record", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondServiceError(w, &portfolio.InputError{Err: apperrors.ErrInvalidTrade, RecordID: "t-9", Field: "side", Reason: "unknown side"}, fallback)

		var body struct {
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "t-9", body.Details["record_id"])
		assert.Equal(t, "side", body.Details["field"])
	})
}
