package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/services"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	now         func() time.Time
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		now:         time.Now,
	}
}

// Register godoc
// @Summary Register a player account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "New account"
// @Success 201 {object} map[string]interface{}
// @Failure 400,409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		badRequestResponse(w, r, errors.New("name, email, and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and receive a token valid for seven days
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, user)
}

// writeSession отвечает токеном и профилем, как после входа
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := middleware.IssueToken(h.jwtSecret, user.ID, h.now())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"token": token,
		"user":  user,
	}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
