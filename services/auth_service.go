package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/repositories"
	"github.com/Dosada05/pickleball-ladder/storage"
	"github.com/Dosada05/pickleball-ladder/utils"
)

var (
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already in use")
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type RegisterInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Location       string `json:"location"`
	Rating         string `json:"rating"`
	PlayPreference string `json:"play_preference"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewAuthService(userRepo repositories.UserRepository, uploader storage.FileUploader) AuthService {
	return &authService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, ErrNameRequired
	}
	if !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hashedPassword,
		Location:       strings.TrimSpace(input.Location),
		Rating:         strings.TrimSpace(input.Rating),
		PlayPreference: strings.TrimSpace(input.PlayPreference),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	ok, err := utils.CheckPasswordHash(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !ok {
		return nil, ErrAuthInvalidCredentials
	}

	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}
