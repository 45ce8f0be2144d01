package handlers

import (
	"net/http"

	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/Dosada05/pickleball-ladder/services"
	"github.com/go-chi/chi/v5"
)

type ShareHandler struct {
	shareService services.ShareService
}

func NewShareHandler(ss services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: ss}
}

type emailResultsRequest struct {
	To []string `json:"to"`
}

// GetShare godoc
// @Summary Share text and links for a submitted match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} services.ShareInfo
// @Failure 409 {object} map[string]string
// @Router /api/matches/{id}/share [get]
func (h *ShareHandler) GetShare(w http.ResponseWriter, r *http.Request) {
	info, err := h.shareService.GetShare(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"share": info}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EmailResults godoc
// @Summary Email the results of a submitted match
// @Tags matches
// @Accept json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 202
// @Failure 400,403,409,503 {object} map[string]string
// @Router /api/matches/{id}/share/email [post]
func (h *ShareHandler) EmailResults(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input emailResultsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.shareService.EmailResults(r.Context(), chi.URLParam(r, "id"), userID, input.To); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"message": "results sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
