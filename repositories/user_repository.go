package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pickleball-ladder/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, location, rating, play_preference, image_key, image_url, created_at, updated_at`

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, location, rating, play_preference, image_key, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Location,
		user.Rating,
		user.PlayPreference,
		user.ImageKey,
		user.ImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			password_hash = $3,
			location = $4,
			rating = $5,
			play_preference = $6,
			image_key = $7,
			image_url = $8,
			updated_at = now()
		WHERE id = $9
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Location,
		user.Rating,
		user.PlayPreference,
		user.ImageKey,
		user.ImageURL,
		user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if isUniqueViolation(err, "users_email_key") {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

// scanUser - вспомогательный метод для сканирования одного пользователя
func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	var imageKey, imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Location,
		&user.Rating,
		&user.PlayPreference,
		&imageKey,
		&imageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if imageKey.Valid {
		user.ImageKey = &imageKey.String
	}
	if imageURL.Valid {
		user.ImageURL = &imageURL.String
	}
	return user, nil
}
