package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/Dosada05/pickleball-ladder/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type setNameRequest struct {
	Name string `json:"name"`
}

func (h *MatchHandler) currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return 0, false
	}
	return userID, true
}

// writeMatch renders the view. A rejected over-limit score still carries
// the view, which already holds the validation message.
func (h *MatchHandler) writeMatch(w http.ResponseWriter, r *http.Request, status int, view *services.MatchView, err error) {
	var verr *ladder.ValidationError
	if err != nil {
		if !errors.As(err, &verr) || view == nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		status = http.StatusUnprocessableEntity
	}

	env := jsonResponse{"match": view}
	if verr != nil {
		env["error"] = verr.Error()
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateMatch godoc
// @Summary Start a new ladder match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.CreateMatchInput true "Match setup"
// @Success 201 {object} map[string]interface{}
// @Router /api/matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.CreateMatch(r.Context(), userID, input)
	h.writeMatch(w, r, http.StatusCreated, view, err)
}

// ResumeMatch godoc
// @Summary Start a match from the caller's last saved setup
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/matches/resume [post]
func (h *MatchHandler) ResumeMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.matchService.ResumeSetup(r.Context(), userID)
	h.writeMatch(w, r, http.StatusCreated, view, err)
}

// GetSavedSetup godoc
// @Summary The caller's last saved match setup
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/matches/setup [get]
func (h *MatchHandler) GetSavedSetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	setup, err := h.matchService.GetSavedSetup(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"setup": setup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Current state of a match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/matches/{id} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	view, err := h.matchService.GetMatch(r.Context(), chi.URLParam(r, "id"))
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// StartMatch godoc
// @Summary Configure and start the next match after "new match"
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param input body services.CreateMatchInput true "Match setup"
// @Success 200 {object} map[string]interface{}
// @Router /api/matches/{id}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.StartMatch(r.Context(), chi.URLParam(r, "id"), userID, input)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// SetScore godoc
// @Summary Enter a score cell
// @Description value is the raw field text. "" clears the cell; malformed input is ignored; a value above play-to is rejected with 422.
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param input body services.SetScoreInput true "Cell and value"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/matches/{id}/scores [put]
func (h *MatchHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var input services.SetScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.SetScore(r.Context(), chi.URLParam(r, "id"), userID, input)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// SetName godoc
// @Summary Rename a player slot
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param slot path int true "Player slot, zero based"
// @Success 200 {object} map[string]interface{}
// @Router /api/matches/{id}/names/{slot} [put]
func (h *MatchHandler) SetName(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	slot, err := intURLParam(r, "slot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setNameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.SetName(r.Context(), chi.URLParam(r, "id"), userID, slot, input.Name)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// AcceptSuggestion godoc
// @Summary Append the suggested replay game
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /api/matches/{id}/suggestion/accept [post]
func (h *MatchHandler) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.matchService.AcceptSuggestion(r.Context(), chi.URLParam(r, "id"), userID)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// DismissSuggestion godoc
// @Summary Hide the replay suggestion
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/matches/{id}/suggestion/dismiss [post]
func (h *MatchHandler) DismissSuggestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.matchService.DismissSuggestion(r.Context(), chi.URLParam(r, "id"), userID)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// Submit godoc
// @Summary Submit a fully scored match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /api/matches/{id}/submit [post]
func (h *MatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.matchService.Submit(r.Context(), chi.URLParam(r, "id"), userID)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// NewMatch godoc
// @Summary Reset the match back to setup
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/matches/{id}/new [post]
func (h *MatchHandler) NewMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	view, err := h.matchService.NewMatch(r.Context(), chi.URLParam(r, "id"), userID)
	h.writeMatch(w, r, http.StatusOK, view, err)
}

// DeleteMatch godoc
// @Summary Discard a match
// @Tags matches
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 204
// @Router /api/matches/{id} [delete]
func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.matchService.DeleteMatch(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
