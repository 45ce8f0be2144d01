package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/lib/pq"
)

var ErrMatchSetupNotFound = errors.New("match setup not found")

// MatchSetupRepository keeps one resumable setup per user.
type MatchSetupRepository interface {
	Save(ctx context.Context, setup *models.MatchSetup) error
	GetByUserID(ctx context.Context, userID int) (*models.MatchSetup, error)
	Delete(ctx context.Context, userID int) error
}

type postgresMatchSetupRepository struct {
	db *sql.DB
}

func NewPostgresMatchSetupRepository(db *sql.DB) MatchSetupRepository {
	return &postgresMatchSetupRepository{db: db}
}

func (r *postgresMatchSetupRepository) Save(ctx context.Context, setup *models.MatchSetup) error {
	query := `
		INSERT INTO match_setups (user_id, num_players, play_to, player_names, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			num_players = EXCLUDED.num_players,
			play_to = EXCLUDED.play_to,
			player_names = EXCLUDED.player_names,
			updated_at = now()
		RETURNING updated_at`

	names := setup.PlayerNames
	if names == nil {
		names = []string{}
	}
	err := r.db.QueryRowContext(ctx, query,
		setup.UserID,
		setup.NumPlayers,
		setup.PlayTo,
		pq.Array(names),
	).Scan(&setup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save match setup for user %d: %w", setup.UserID, err)
	}
	return nil
}

func (r *postgresMatchSetupRepository) GetByUserID(ctx context.Context, userID int) (*models.MatchSetup, error) {
	query := `
		SELECT user_id, num_players, play_to, player_names, updated_at
		FROM match_setups
		WHERE user_id = $1`

	setup := &models.MatchSetup{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&setup.UserID,
		&setup.NumPlayers,
		&setup.PlayTo,
		pq.Array(&setup.PlayerNames),
		&setup.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchSetupNotFound
		}
		return nil, fmt.Errorf("failed to load match setup for user %d: %w", userID, err)
	}
	return setup, nil
}

func (r *postgresMatchSetupRepository) Delete(ctx context.Context, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_setups WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete match setup for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrMatchSetupNotFound)
}
