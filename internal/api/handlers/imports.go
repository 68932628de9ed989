package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ndewijer/Fintu-Tracking-Backend/internal/api/response"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/apperrors"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/ibkr"
	"github.com/ndewijer/Fintu-Tracking-Backend/internal/service"
)

// maxStatementBytes caps uploaded Flex statements.
const maxStatementBytes = 16 << 20

// ImportHandler handles broker statement imports.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportIBKR handles POST requests carrying an IBKR Activity Flex statement
// as the raw XML body.
//
// Endpoint: POST /api/import/ibkr
// Response: 200 OK with model.ImportResult
// Error: 400 Bad Request if the body is not a Flex statement
func (h *ImportHandler) ImportIBKR(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxStatementBytes))
	if err != nil {
		respondBadBody(w, err)
		return
	}
	if len(data) == 0 {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", "statement is empty")
		return
	}

	result, err := h.importService.ImportStatement(r.Context(), data)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImport)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// SyncIBKR handles POST /api/import/ibkr/sync: downloads the configured Flex
// query and imports it.
//
// Error: 503 Service Unavailable if no Flex credentials are configured
// Error: 502 Bad Gateway if IBKR could not deliver the statement
func (h *ImportHandler) SyncIBKR(w http.ResponseWriter, r *http.Request) {
	result, err := h.importService.SyncIBKR(r.Context())
	switch {
	case errors.Is(err, ibkr.ErrMissingCredentials):
		response.RespondError(w, http.StatusServiceUnavailable, "ibkr import not configured", err.Error())
		return
	case errors.Is(err, apperrors.ErrInvalidStatement):
		respondServiceError(w, err, apperrors.ErrFailedToImport)
		return
	case err != nil:
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToImport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
