package handlers

import (
	"net/http"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
)

// PortfolioHandler serves the derived portfolio views. Every response is
// computed from the current ledger; malformed ledger rows surface as 422.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Holdings handles GET /api/portfolio/holdings.
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.portfolioService.GetHoldings(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Summary handles GET /api/portfolio/summary.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetSummary(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Performance handles GET /api/portfolio/performance.
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.portfolioService.GetPerformance(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, perf)
}

// NetWorth handles GET /api/portfolio/net-worth.
func (h *PortfolioHandler) NetWorth(w http.ResponseWriter, r *http.Request) {
	nw, err := h.portfolioService.GetNetWorth(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, nw)
}

// CashFlowSummary handles GET /api/portfolio/cash-flows/summary.
func (h *PortfolioHandler) CashFlowSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetCashFlowSummary(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
