package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	env := jsonResponse{"status": "ok"}
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		env = jsonResponse{"status": "unavailable", "database": err.Error()}
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
