package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/models"
	"github.com/Dosada05/pickleball-ladder/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Broadcaster pushes match updates to spectators.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// ProfileLookup resolves registered players for named slots.
type ProfileLookup interface {
	GetProfile(ctx context.Context, id int) (*models.User, error)
}

type MatchService interface {
	CreateMatch(ctx context.Context, ownerID int, input CreateMatchInput) (*MatchView, error)
	ResumeSetup(ctx context.Context, ownerID int) (*MatchView, error)
	GetSavedSetup(ctx context.Context, ownerID int) (*ladder.MatchConfig, error)
	GetMatch(ctx context.Context, matchID string) (*MatchView, error)
	StartMatch(ctx context.Context, matchID string, userID int, input CreateMatchInput) (*MatchView, error)
	SetScore(ctx context.Context, matchID string, userID int, input SetScoreInput) (*MatchView, error)
	SetName(ctx context.Context, matchID string, userID int, slot int, name string) (*MatchView, error)
	AcceptSuggestion(ctx context.Context, matchID string, userID int) (*MatchView, error)
	DismissSuggestion(ctx context.Context, matchID string, userID int) (*MatchView, error)
	Submit(ctx context.Context, matchID string, userID int) (*MatchView, error)
	NewMatch(ctx context.Context, matchID string, userID int) (*MatchView, error)
	DeleteMatch(ctx context.Context, matchID string, userID int) error
	PruneIdle(ctx context.Context, maxIdle time.Duration) int
}

// CreateMatchInput is the setup dialog payload. PlayerUserIDs is optional;
// a non-zero id fills the matching slot's name from that player's profile
// when the slot was left blank.
type CreateMatchInput struct {
	NumPlayers    int      `json:"num_players"`
	PlayTo        int      `json:"play_to"`
	PlayerNames   []string `json:"player_names"`
	PlayerUserIDs []int    `json:"player_user_ids,omitempty"`
}

type SetScoreInput struct {
	Game   int    `json:"game"`
	Player int    `json:"player"`
	Value  string `json:"value"`
}

// MatchView is a match snapshot plus the registry metadata around it.
type MatchView struct {
	ID        string    `json:"id"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ladder.Snapshot
}

type matchEntry struct {
	mu        sync.Mutex
	id        string
	ownerID   int
	session   *ladder.Session
	createdAt time.Time
	updatedAt time.Time
}

func (e *matchEntry) view() *MatchView {
	return &MatchView{
		ID:        e.id,
		OwnerID:   e.ownerID,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
		Snapshot:  e.session.Snapshot(),
	}
}

type matchService struct {
	mu      sync.RWMutex
	matches map[string]*matchEntry

	setupRepo repositories.MatchSetupRepository
	profiles  ProfileLookup
	hub       Broadcaster
	logger    *slog.Logger
	now       func() time.Time
}

func NewMatchService(setupRepo repositories.MatchSetupRepository, profiles ProfileLookup, hub Broadcaster, logger *slog.Logger) MatchService {
	return &matchService{
		matches:   make(map[string]*matchEntry),
		setupRepo: setupRepo,
		profiles:  profiles,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, ownerID int, input CreateMatchInput) (*MatchView, error) {
	cfg, err := s.buildConfig(ctx, input)
	if err != nil {
		return nil, err
	}

	session, err := ladder.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	s.saveSetup(ctx, ownerID, session.Config())

	now := s.now()
	entry := &matchEntry{
		id:        uuid.NewString(),
		ownerID:   ownerID,
		session:   session,
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.matches[entry.id] = entry
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "match created",
		slog.String("match_id", entry.id),
		slog.Int("owner_id", ownerID),
		slog.Int("num_players", cfg.NumPlayers),
		slog.Int("play_to", cfg.PlayTo))

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.view(), nil
}

func (s *matchService) GetSavedSetup(ctx context.Context, ownerID int) (*ladder.MatchConfig, error) {
	setup, err := s.setupRepo.GetByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchSetupNotFound) {
			return nil, ErrMatchSetupNotFound
		}
		return nil, fmt.Errorf("failed to load saved setup for user %d: %w", ownerID, err)
	}
	return &ladder.MatchConfig{
		NumPlayers:  setup.NumPlayers,
		PlayTo:      setup.PlayTo,
		PlayerNames: setup.PlayerNames,
	}, nil
}

func (s *matchService) ResumeSetup(ctx context.Context, ownerID int) (*MatchView, error) {
	cfg, err := s.GetSavedSetup(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.CreateMatch(ctx, ownerID, CreateMatchInput{
		NumPlayers:  cfg.NumPlayers,
		PlayTo:      cfg.PlayTo,
		PlayerNames: cfg.PlayerNames,
	})
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*MatchView, error) {
	entry, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.view(), nil
}

func (s *matchService) StartMatch(ctx context.Context, matchID string, userID int, input CreateMatchInput) (*MatchView, error) {
	cfg, err := s.buildConfig(ctx, input)
	if err != nil {
		return nil, err
	}
	view, err := s.mutate(ctx, matchID, userID, func(session *ladder.Session) error {
		return session.Start(cfg)
	})
	if err != nil {
		return nil, err
	}
	s.saveSetup(ctx, userID, cfg)
	return view, nil
}

// SetScore returns the updated view together with a *ladder.ValidationError
// when the value was over the limit; the view then shows the unchanged
// scores and the message.
func (s *matchService) SetScore(ctx context.Context, matchID string, userID int, input SetScoreInput) (*MatchView, error) {
	return s.mutate(ctx, matchID, userID, func(session *ladder.Session) error {
		return session.SetScore(input.Game, input.Player, input.Value)
	})
}

func (s *matchService) SetName(ctx context.Context, matchID string, userID int, slot int, name string) (*MatchView, error) {
	return s.mutate(ctx, matchID, userID, func(session *ladder.Session) error {
		return session.SetName(slot, name)
	})
}

func (s *matchService) AcceptSuggestion(ctx context.Context, matchID string, userID int) (*MatchView, error) {
	return s.mutate(ctx, matchID, userID, (*ladder.Session).AcceptSuggestion)
}

func (s *matchService) DismissSuggestion(ctx context.Context, matchID string, userID int) (*MatchView, error) {
	return s.mutate(ctx, matchID, userID, (*ladder.Session).DismissSuggestion)
}

func (s *matchService) Submit(ctx context.Context, matchID string, userID int) (*MatchView, error) {
	view, err := s.mutate(ctx, matchID, userID, (*ladder.Session).Submit)
	if err == nil {
		s.logger.InfoContext(ctx, "match submitted",
			slog.String("match_id", matchID),
			slog.Any("winners", view.Winners))
	}
	return view, err
}

func (s *matchService) NewMatch(ctx context.Context, matchID string, userID int) (*MatchView, error) {
	return s.mutate(ctx, matchID, userID, func(session *ladder.Session) error {
		session.NewMatch()
		return nil
	})
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID string, userID int) error {
	entry, err := s.lookup(matchID)
	if err != nil {
		return err
	}
	if entry.ownerID != userID {
		return ErrForbiddenOperation
	}

	s.mu.Lock()
	delete(s.matches, matchID)
	s.mu.Unlock()

	s.hub.BroadcastToRoom(ladder.MatchRoom(matchID), ladder.WebSocketMessage{
		Type:    ladder.MessageMatchDeleted,
		Payload: map[string]string{"id": matchID},
		RoomID:  ladder.MatchRoom(matchID),
	})
	s.logger.InfoContext(ctx, "match deleted", slog.String("match_id", matchID))
	return nil
}

// PruneIdle drops matches nobody has touched for maxIdle and returns how
// many were removed.
func (s *matchService) PruneIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var stale []string
	for id, entry := range s.matches {
		entry.mu.Lock()
		idle := entry.updatedAt.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			stale = append(stale, id)
			delete(s.matches, id)
		}
	}
	s.mu.Unlock()

	sort.Strings(stale)
	for _, id := range stale {
		s.hub.BroadcastToRoom(ladder.MatchRoom(id), ladder.WebSocketMessage{
			Type:    ladder.MessageMatchDeleted,
			Payload: map[string]string{"id": id},
			RoomID:  ladder.MatchRoom(id),
		})
	}
	if len(stale) > 0 {
		s.logger.InfoContext(ctx, "pruned idle matches", slog.Int("count", len(stale)))
	}
	return len(stale)
}

func (s *matchService) lookup(matchID string) (*matchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return entry, nil
}

// mutate runs fn against the match under its lock and broadcasts the
// result. A *ladder.ValidationError from fn still counts as an update: the
// session keeps the message, so the view is returned alongside the error.
func (s *matchService) mutate(ctx context.Context, matchID string, userID int, fn func(*ladder.Session) error) (*MatchView, error) {
	entry, err := s.lookup(matchID)
	if err != nil {
		return nil, err
	}
	if entry.ownerID != userID {
		return nil, ErrForbiddenOperation
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	opErr := fn(entry.session)
	var verr *ladder.ValidationError
	if opErr != nil && !errors.As(opErr, &verr) {
		return nil, opErr
	}

	entry.updatedAt = s.now()
	view := entry.view()
	s.hub.BroadcastToRoom(ladder.MatchRoom(matchID), ladder.WebSocketMessage{
		Type:    ladder.MessageMatchUpdated,
		Payload: view,
		RoomID:  ladder.MatchRoom(matchID),
	})
	return view, opErr
}

func (s *matchService) buildConfig(ctx context.Context, input CreateMatchInput) (ladder.MatchConfig, error) {
	cfg := ladder.MatchConfig{
		NumPlayers:  input.NumPlayers,
		PlayTo:      input.PlayTo,
		PlayerNames: input.PlayerNames,
	}
	if cfg.PlayTo == 0 {
		cfg.PlayTo = ladder.DefaultPlayTo
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if len(input.PlayerUserIDs) > cfg.NumPlayers {
		return cfg, fmt.Errorf("%w: %d ids for %d players", ErrPlayerSlotInvalid, len(input.PlayerUserIDs), cfg.NumPlayers)
	}
	cfg = cfg.Normalize()

	names, err := s.resolveNames(ctx, cfg.PlayerNames, input.PlayerUserIDs)
	if err != nil {
		return cfg, err
	}
	cfg.PlayerNames = names
	return cfg, nil
}

// resolveNames fills blank slots that carry a user id from the profile
// store. Lookups run concurrently; each goroutine owns one slot.
func (s *matchService) resolveNames(ctx context.Context, names []string, userIDs []int) ([]string, error) {
	out := append([]string(nil), names...)
	g, gctx := errgroup.WithContext(ctx)
	for slot, id := range userIDs {
		if id <= 0 || out[slot] != "" {
			continue
		}
		g.Go(func() error {
			user, err := s.profiles.GetProfile(gctx, id)
			if err != nil {
				return fmt.Errorf("resolve player %d for slot %d: %w", id, slot, err)
			}
			out[slot] = user.Name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *matchService) saveSetup(ctx context.Context, ownerID int, cfg ladder.MatchConfig) {
	err := s.setupRepo.Save(ctx, &models.MatchSetup{
		UserID:      ownerID,
		NumPlayers:  cfg.NumPlayers,
		PlayTo:      cfg.PlayTo,
		PlayerNames: cfg.PlayerNames,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to save match setup",
			slog.Int("user_id", ownerID),
			slog.Any("error", err))
	}
}
