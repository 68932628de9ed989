package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

// maxBodyBytes caps request bodies. Ledger entries are small.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}
	return req, nil
}

// parseLedgerFilters reads the ticker, type and date range query parameters.
func parseLedgerFilters(r *http.Request) (*request.LedgerFilters, error) {
	q := r.URL.Query()
	return request.ParseLedgerFilters(q.Get("ticker"), q.Get("type"), q.Get("start_date"), q.Get("end_date"))
}

// respondServiceError maps a service error to a status code. Anything not
// recognized is a 500 reported under fallback.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var vErr *validation.Error
	var inputErr *portfolio.InputError

	switch {
	case errors.Is(err, apperrors.ErrTradeNotFound),
		errors.Is(err, apperrors.ErrCashFlowNotFound),
		errors.Is(err, apperrors.ErrFxRateNotFound),
		errors.Is(err, apperrors.ErrMarketPriceNotFound):
		response.RespondError(w, http.StatusNotFound, rootMessage(err), err.Error())
	case errors.As(err, &vErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, apperrors.ErrRelatedTradeNotFound),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidStatement):
		response.RespondError(w, http.StatusBadRequest, rootMessage(err), err.Error())
	case errors.As(err, &inputErr):
		response.RespondError(w, http.StatusUnprocessableEntity, inputErr.Err.Error(), map[string]string{
			"record_id": inputErr.RecordID,
			"field":     inputErr.Field,
			"reason":    inputErr.Reason,
		})
	case errors.Is(err, apperrors.ErrInvalidTrade),
		errors.Is(err, apperrors.ErrInvalidCashFlow),
		errors.Is(err, apperrors.ErrInvalidFxRate):
		response.RespondError(w, http.StatusUnprocessableEntity, rootMessage(err), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}

// rootMessage returns the message of the known sentinel wrapped in err.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrTradeNotFound,
		apperrors.ErrCashFlowNotFound,
		apperrors.ErrFxRateNotFound,
		apperrors.ErrMarketPriceNotFound,
		apperrors.ErrRelatedTradeNotFound,
		apperrors.ErrInvalidDateRange,
		apperrors.ErrInvalidStatement,
		apperrors.ErrInvalidTrade,
		apperrors.ErrInvalidCashFlow,
		apperrors.ErrInvalidFxRate,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return fmt.Sprint(err)
}

// respondBadBody reports an undecodable request body.
func respondBadBody(w http.ResponseWriter, err error) {
	response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
}
