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

// MarketPriceHandler handles HTTP requests for the market price cache.
type MarketPriceHandler struct {
	marketPriceService *service.MarketPriceService
}

// NewMarketPriceHandler creates a new MarketPriceHandler.
func NewMarketPriceHandler(marketPriceService *service.MarketPriceService) *MarketPriceHandler {
	return &MarketPriceHandler{
		marketPriceService: marketPriceService,
	}
}

// MarketPrices handles GET /api/market-price.
func (h *MarketPriceHandler) MarketPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.marketPriceService.GetMarketPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMarketPrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// GetMarketPrice handles GET /api/market-price/{ticker}.
func (h *MarketPriceHandler) GetMarketPrice(w http.ResponseWriter, r *http.Request) {
	mp, err := h.marketPriceService.GetMarketPrice(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMarketPrice)
		return
	}

	response.RespondJSON(w, http.StatusOK, mp)
}

// SetMarketPrice handles PUT requests that enter a price by hand.
//
// Endpoint: PUT /api/market-price/{ticker}
// Request Body: request.SetMarketPriceRequest
// Response: 200 OK with model.MarketPrice
func (h *MarketPriceHandler) SetMarketPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetMarketPriceRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateSetMarketPrice(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveMarketPrice)
		return
	}

	mp, err := h.marketPriceService.SetMarketPrice(r.Context(), chi.URLParam(r, "ticker"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveMarketPrice)
		return
	}

	response.RespondJSON(w, http.StatusOK, mp)
}

// RefreshPrices handles POST requests that fetch fresh quotes for every held
// ticker. Tickers that could not be priced are listed under "failed".
//
// Endpoint: POST /api/market-price/refresh
// Response: 200 OK with model.PriceRefreshResult
func (h *MarketPriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.marketPriceService.RefreshPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
