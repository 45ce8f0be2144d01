package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/pickleball-ladder/handlers"
	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newRouter(t *testing.T, uploadsDir string) chi.Router {
	t.Helper()
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:      handlers.NewAuthHandler(nil, "secret"),
		User:      handlers.NewUserHandler(nil),
		Match:     handlers.NewMatchHandler(nil),
		Share:     handlers.NewShareHandler(nil),
		Schedule:  handlers.NewScheduleHandler(),
		WebSocket: handlers.NewWebSocketHandler(ladder.NewHub(), nil, []string{"*"}),
		Health:    handlers.NewHealthHandler(okPinger{}),
	}, Options{
		JWTSecret:      "secret",
		AllowedOrigins: []string{"https://app.example"},
		AuthLimiter:    middleware.NewRateLimiter(1),
		UploadsDir:     uploadsDir,
		UploadsPrefix:  "/uploads",
	})
	return router
}

func serve(router http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	router := newRouter(t, "")

	rec := serve(router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = serve(router, http.MethodGet, "/api/schedules/4", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/api/matches/{id}/scores")

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/uploads/a.png", nil).Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	router := newRouter(t, "")
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodPost, "/api/users/profile/avatar"},
		{http.MethodPost, "/api/matches"},
		{http.MethodPost, "/api/matches/resume"},
		{http.MethodGet, "/api/matches/setup"},
		{http.MethodGet, "/api/matches/abc"},
		{http.MethodPut, "/api/matches/abc/scores"},
		{http.MethodPost, "/api/matches/abc/submit"},
		{http.MethodDelete, "/api/matches/abc"},
		{http.MethodGet, "/api/matches/abc/share"},
		{http.MethodPost, "/api/matches/abc/share/email"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(router, route.method, route.path, nil).Code)
		})
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	router := newRouter(t, "")
	header := http.Header{"X-Real-Ip": {"203.0.113.9"}}

	// Empty body fails validation before the service is touched.
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/auth/login", header).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "/api/auth/register", header).Code)

	other := http.Header{"X-Real-Ip": {"203.0.113.10"}}
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/auth/login", other).Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(t, "")
	rec := serve(router, http.MethodOptions, "/api/matches", http.Header{
		"Origin":                        {"https://app.example"},
		"Access-Control-Request-Method": {"POST"},
	})
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, http.MethodOptions, "/api/matches", http.Header{
		"Origin":                        {"https://evil.example"},
		"Access-Control-Request-Method": {"POST"},
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLocalUploadsAreServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "avatars"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "avatars", "me.png"), []byte("png"), 0o644))

	router := newRouter(t, dir)
	rec := serve(router, http.MethodGet, "/uploads/avatars/me.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}
