package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/request"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/validation"
)

// CashFlowHandler handles HTTP requests for deposits, withdrawals and fees.
type CashFlowHandler struct {
	cashFlowService *service.CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler.
func NewCashFlowHandler(cashFlowService *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{
		cashFlowService: cashFlowService,
	}
}

// CashFlows handles GET requests to list cash flows in date order.
//
// Endpoint: GET /api/cash-flow
// Query Parameters: type, start_date, end_date (all optional)
// Response: 200 OK with array of model.CashFlow
func (h *CashFlowHandler) CashFlows(w http.ResponseWriter, r *http.Request) {
	filters, err := parseLedgerFilters(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	flows, err := h.cashFlowService.GetCashFlows(r.Context(), *filters)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCashFlows.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, flows)
}

// GetCashFlow handles GET /api/cash-flow/{uuid}.
func (h *CashFlowHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	cf, err := h.cashFlowService.GetCashFlow(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveCashFlow)
		return
	}

	response.RespondJSON(w, http.StatusOK, cf)
}

// CreateCashFlow handles POST requests to record a cash flow. COP amounts are
// converted to USD at the supplied fx_rate.
//
// Endpoint: POST /api/cash-flow
// Request Body: request.CreateCashFlowRequest
// Response: 201 Created with model.CashFlow
// Error: 400 Bad Request if validation fails or the related trade does not exist
func (h *CashFlowHandler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCashFlowRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateCreateCashFlow(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidCashFlow)
		return
	}

	cf, err := h.cashFlowService.CreateCashFlow(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveCashFlow)
		return
	}

	response.RespondJSON(w, http.StatusCreated, cf)
}

// UpdateCashFlow handles PUT /api/cash-flow/{uuid}.
func (h *CashFlowHandler) UpdateCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateCashFlowRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateUpdateCashFlow(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidCashFlow)
		return
	}

	cf, err := h.cashFlowService.UpdateCashFlow(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveCashFlow)
		return
	}

	response.RespondJSON(w, http.StatusOK, cf)
}

// DeleteCashFlow handles DELETE /api/cash-flow/{uuid}.
func (h *CashFlowHandler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	if err := h.cashFlowService.DeleteCashFlow(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveCashFlow)
		return
	}

	response.NoContent(w)
}
