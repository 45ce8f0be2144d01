package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed   = errors.New("validation failed")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNoFieldsToUpdate   = errors.New("no fields provided for update")
	ErrUnsupportedImage   = errors.New("image must be a png, jpeg, gif or webp data URL")
	ErrInvalidImageData   = errors.New("image data is not valid base64")
	ErrPlayerSlotInvalid  = errors.New("player user ids reference a slot outside the match")
	ErrUserEmailConflict  = errors.New("email address is already in use")
	ErrMatchSetupNotFound = errors.New("no saved match setup")
	ErrNoRecipients       = errors.New("at least one recipient is required")
	ErrTooManyRecipients  = errors.New("too many recipients")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrUserNotFound  = errors.New("user not found")
	ErrMatchNotFound = errors.New("match not found")

	ErrMatchNotSubmitted  = errors.New("results can be shared once the match is submitted with named winners")
	ErrEmailNotConfigured = errors.New("email delivery is not configured")
)
