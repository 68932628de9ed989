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

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// Trades handles GET requests to list trades in date order.
//
// Endpoint: GET /api/trade
// Query Parameters: ticker, start_date, end_date (all optional)
// Response: 200 OK with array of model.Trade
// Error: 400 Bad Request if a filter is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) Trades(w http.ResponseWriter, r *http.Request) {
	filters, err := parseLedgerFilters(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	trades, err := h.tradeService.GetTrades(r.Context(), *filters)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// GetTrade handles GET requests to retrieve a single trade by ID.
//
// Endpoint: GET /api/trade/{uuid}
// Response: 200 OK with model.Trade
// Error: 404 Not Found if the trade does not exist
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeService.GetTrade(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// CreateTrade handles POST requests to record a trade. The total is derived
// from quantity, price and fee.
//
// Endpoint: POST /api/trade
// Request Body: request.CreateTradeRequest
// Response: 201 Created with model.Trade
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 422 Unprocessable Entity if the engine rejects the trade
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTradeRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateCreateTrade(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidTrade)
		return
	}

	trade, err := h.tradeService.CreateTrade(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTrade)
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}

// UpdateTrade handles PUT requests to change fields of an existing trade.
//
// Endpoint: PUT /api/trade/{uuid}
// Request Body: request.UpdateTradeRequest (all fields optional)
// Response: 200 OK with model.Trade
// Error: 404 Not Found if the trade does not exist
func (h *TradeHandler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTradeRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateUpdateTrade(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidTrade)
		return
	}

	trade, err := h.tradeService.UpdateTrade(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// DeleteTrade handles DELETE requests. Linked fee cash flows are kept with
// their link cleared.
//
// Endpoint: DELETE /api/trade/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the trade does not exist
func (h *TradeHandler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := h.tradeService.DeleteTrade(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTrade)
		return
	}

	response.NoContent(w)
}
