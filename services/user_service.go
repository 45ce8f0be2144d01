package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/repositories"
	"github.com/Dosada05/pickleball-ladder/storage"
	"github.com/Dosada05/pickleball-ladder/utils"
)

type UserService interface {
	GetProfile(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error)
	UploadAvatar(ctx context.Context, id int, file io.Reader, contentType string) (*models.User, error)
}

// UpdateProfileInput carries a partial profile. Nil or blank text fields
// keep their stored value. Image is special: "" removes the avatar, a
// data:image URL uploads a new one, anything else is stored as a link.
type UpdateProfileInput struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Location       *string `json:"location"`
	Rating         *string `json:"rating"`
	PlayPreference *string `json:"play_preference"`
	Image          *string `json:"image"`
}

func (in UpdateProfileInput) empty() bool {
	return in.Name == nil && in.Email == nil && in.Location == nil &&
		in.Rating == nil && in.PlayPreference == nil && in.Image == nil
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *userService) GetProfile(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error) {
	if input.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	setIfPresent(&user.Name, input.Name)
	setIfPresent(&user.Location, input.Location)
	setIfPresent(&user.Rating, input.Rating)
	setIfPresent(&user.PlayPreference, input.PlayPreference)

	var email string
	if setIfPresent(&email, input.Email) {
		email = strings.ToLower(email)
		if !utils.IsValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		user.Email = email
	}

	var uploadedKey string
	oldKey := user.ImageKey
	if input.Image != nil {
		image := strings.TrimSpace(*input.Image)
		switch {
		case image == "":
			user.ImageKey = nil
			user.ImageURL = nil
		case strings.HasPrefix(image, "data:image"):
			contentType, data, err := decodeImageDataURL(image)
			if err != nil {
				return nil, err
			}
			res, err := s.uploadAvatar(ctx, id, bytes.NewReader(data), contentType)
			if err != nil {
				return nil, err
			}
			uploadedKey = res.Key
			user.ImageKey = &res.Key
			user.ImageURL = nil
		default:
			user.ImageKey = nil
			user.ImageURL = &image
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if uploadedKey != "" {
			s.deleteObject(ctx, uploadedKey)
		}
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	if input.Image != nil && oldKey != nil && (user.ImageKey == nil || *user.ImageKey != *oldKey) {
		s.deleteObject(ctx, *oldKey)
	}

	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, id int, file io.Reader, contentType string) (*models.User, error) {
	if _, ok := storage.ExtensionForContentType(contentType); !ok {
		return nil, ErrUnsupportedImage
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	res, err := s.uploadAvatar(ctx, id, file, contentType)
	if err != nil {
		return nil, err
	}

	oldKey := user.ImageKey
	user.ImageKey = &res.Key
	user.ImageURL = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.deleteObject(ctx, res.Key)
		return nil, fmt.Errorf("failed to save avatar for user %d: %w", id, err)
	}
	if oldKey != nil && *oldKey != res.Key {
		s.deleteObject(ctx, *oldKey)
	}

	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) uploadAvatar(ctx context.Context, id int, file io.Reader, contentType string) (*storage.UploadResult, error) {
	key := avatarKey(id, s.now().Unix(), contentType)
	res, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for user %d: %w", id, err)
	}
	return res, nil
}

func (s *userService) deleteObject(ctx context.Context, key string) {
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to delete avatar object", slog.String("key", key), slog.Any("error", err))
	}
}
