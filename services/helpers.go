package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/storage"
)

const minPasswordLength = 6

// setIfPresent overwrites dst only with a non-blank value, so clients can
// send partial profiles.
func setIfPresent(dst *string, v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return false
	}
	*dst = trimmed
	return true
}

func populateUserDetailsFunc(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = "" // Важно для безопасности
	if user.ImageKey != nil && *user.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.ImageKey)
		if url != "" {
			user.ImageURL = &url
		}
	}
}

// decodeImageDataURL splits "data:image/png;base64,...." into its content
// type and decoded bytes.
func decodeImageDataURL(raw string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return "", nil, ErrUnsupportedImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrUnsupportedImage
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrUnsupportedImage
	}
	if _, ok := storage.ExtensionForContentType(contentType); !ok {
		return "", nil, ErrUnsupportedImage
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}
	return contentType, data, nil
}

func avatarKey(userID int, unix int64, contentType string) string {
	ext, _ := storage.ExtensionForContentType(contentType)
	return fmt.Sprintf("avatars/profile-%d-%d.%s", userID, unix, ext)
}
