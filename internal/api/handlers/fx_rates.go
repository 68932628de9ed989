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

// FxRateHandler handles HTTP requests for COP per USD rates.
type FxRateHandler struct {
	fxRateService *service.FxRateService
}

// NewFxRateHandler creates a new FxRateHandler.
func NewFxRateHandler(fxRateService *service.FxRateService) *FxRateHandler {
	return &FxRateHandler{
		fxRateService: fxRateService,
	}
}

// FxRates handles GET /api/fx-rate. Rates are returned newest first.
func (h *FxRateHandler) FxRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.fxRateService.GetFxRates(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFxRates.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rates)
}

// LatestFxRate handles GET /api/fx-rate/latest.
//
// Error: 404 Not Found if no rate has been recorded
func (h *FxRateHandler) LatestFxRate(w http.ResponseWriter, r *http.Request) {
	fx, err := h.fxRateService.GetLatestFxRate(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveFxRates)
		return
	}

	response.RespondJSON(w, http.StatusOK, fx)
}

// CreateFxRate handles POST /api/fx-rate.
func (h *FxRateHandler) CreateFxRate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFxRateRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateCreateFxRate(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidFxRate)
		return
	}

	fx, err := h.fxRateService.CreateFxRate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveFxRate)
		return
	}

	response.RespondJSON(w, http.StatusCreated, fx)
}

// UpdateFxRate handles PUT /api/fx-rate/{uuid}.
func (h *FxRateHandler) UpdateFxRate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateFxRateRequest](r)
	if err != nil {
		respondBadBody(w, err)
		return
	}

	if err := validation.ValidateUpdateFxRate(req); err != nil {
		respondServiceError(w, err, apperrors.ErrInvalidFxRate)
		return
	}

	fx, err := h.fxRateService.UpdateFxRate(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveFxRate)
		return
	}

	response.RespondJSON(w, http.StatusOK, fx)
}

// DeleteFxRate handles DELETE /api/fx-rate/{uuid}.
func (h *FxRateHandler) DeleteFxRate(w http.ResponseWriter, r *http.Request) {
	if err := h.fxRateService.DeleteFxRate(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveFxRate)
		return
	}

	response.NoContent(w)
}
