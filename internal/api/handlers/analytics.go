package handlers

import (
	"net/http"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/portfolio"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
)

// AnalyticsHandler serves return attribution, fee and FX analysis, the
// performance timeline and snapshot creation.
type AnalyticsHandler struct {
	portfolioService *service.PortfolioService
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(portfolioService *service.PortfolioService, analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		portfolioService: portfolioService,
		analyticsService: analyticsService,
	}
}

// ReturnAttribution handles GET requests for the return waterfall.
//
// Endpoint: GET /api/analytics/return-attribution
// Response: 200 OK with model.ReturnAttributionReport
// Error: 422 Unprocessable Entity if a ledger row is malformed
func (h *AnalyticsHandler) ReturnAttribution(w http.ResponseWriter, r *http.Request) {
	attr, err := h.portfolioService.GetReturnAttribution(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, attr)
}

// Fees handles GET /api/analytics/fees.
func (h *AnalyticsHandler) Fees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.analyticsService.GetFeeBreakdown(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, fees)
}

// TradeFees handles GET requests for the per-trade fee load.
//
// Endpoint: GET /api/analytics/fees/trades
// Query Parameters: ticker, start_date, end_date (all optional)
// Response: 200 OK with array of model.FeeAttribution, newest first
func (h *AnalyticsHandler) TradeFees(w http.ResponseWriter, r *http.Request) {
	filters, err := parseLedgerFilters(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	fees, err := h.analyticsService.GetTradeFeeAttribution(r.Context(), *filters)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, fees)
}

// FeeEfficiency handles GET /api/analytics/fees/efficiency.
func (h *AnalyticsHandler) FeeEfficiency(w http.ResponseWriter, r *http.Request) {
	eff, err := h.analyticsService.GetFeeEfficiency(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, eff)
}

// FXImpact handles GET /api/analytics/fx-impact.
func (h *AnalyticsHandler) FXImpact(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsService.GetFXImpact(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Reconciliation handles GET /api/analytics/reconciliation.
func (h *AnalyticsHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsService.GetReconciliation(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Timeline handles GET requests for the performance series.
//
// Endpoint: GET /api/analytics/timeline
// Query Parameters: interval (day, week, month or year; default day)
// Response: 200 OK with array of model.PerformancePoint
// Error: 400 Bad Request if interval is not recognized
func (h *AnalyticsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	interval := r.URL.Query().Get("interval")
	if interval != "" && portfolio.NormalizeInterval(interval) != interval {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", "interval must be one of day, week, month, year")
		return
	}

	points, err := h.analyticsService.GetTimeline(r.Context(), interval)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots)
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// CreateSnapshot handles POST /api/analytics/snapshot. A snapshot taken
// earlier the same day is replaced.
func (h *AnalyticsHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.portfolioService.CreateSnapshot(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusCreated, snap)
}
