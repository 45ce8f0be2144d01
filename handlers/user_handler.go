package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/Dosada05/pickleball-ladder/services"
)

// Inline base64 avatars make profile updates much larger than other bodies.
const maxProfileBodyBytes = 8 << 20

const maxAvatarUploadBytes = 5 << 20

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
	}
}

// GetProfile godoc
// @Summary Current player's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/users/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateProfile godoc
// @Summary Update the current player's profile
// @Description Blank fields keep their value. image: "" removes the avatar, a data:image base64 URL uploads one, any other value is stored as a link.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSONLimit(w, r, &input, maxProfileBodyBytes); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar godoc
// @Summary Upload an avatar as multipart form field "avatar"
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/users/profile/avatar [post]
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	user, err := h.userService.UploadAvatar(r.Context(), userID, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
