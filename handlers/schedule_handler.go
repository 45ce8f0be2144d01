package handlers

import (
	"net/http"

	"github.com/Dosada05/pickleball-ladder/ladder"
)

type ScheduleHandler struct{}

func NewScheduleHandler() *ScheduleHandler {
	return &ScheduleHandler{}
}

// GetSchedule godoc
// @Summary Fixed rotation for a player count
// @Tags schedules
// @Produce json
// @Param numPlayers path int true "4 or 5"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/schedules/{numPlayers} [get]
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	numPlayers, err := intURLParam(r, "numPlayers")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	schedule, err := ladder.Generate(numPlayers)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"schedule": schedule,
		"roles":    ladder.Roles(schedule),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
