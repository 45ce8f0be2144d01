package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/utils"
)

const maxShareRecipients = 10

type ShareInfo struct {
	Text  string            `json:"text"`
	URL   string            `json:"url,omitempty"`
	Links ladder.ShareLinks `json:"links"`
}

type ShareService interface {
	GetShare(ctx context.Context, matchID string) (*ShareInfo, error)
	EmailResults(ctx context.Context, matchID string, userID int, recipients []string) error
}

type shareService struct {
	matches   MatchService
	sender    EmailSender
	publicURL string
	logger    *slog.Logger
}

// NewShareService wires result sharing. sender may be nil when no mail
// server is configured; publicURL may be empty when the frontend address is
// unknown.
func NewShareService(matches MatchService, sender EmailSender, publicURL string, logger *slog.Logger) ShareService {
	return &shareService{
		matches:   matches,
		sender:    sender,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}
}

func (s *shareService) matchURL(matchID string) string {
	if s.publicURL == "" {
		return ""
	}
	return s.publicURL + "/matches/" + matchID
}

func (s *shareService) finishedMatch(ctx context.Context, matchID string) (*MatchView, error) {
	view, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if view.State != ladder.StateComplete || view.ShareText == "" {
		return nil, ErrMatchNotSubmitted
	}
	return view, nil
}

func (s *shareService) GetShare(ctx context.Context, matchID string) (*ShareInfo, error) {
	view, err := s.finishedMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	url := s.matchURL(matchID)
	return &ShareInfo{
		Text:  view.ShareText,
		URL:   url,
		Links: ladder.Links(view.ShareText, url),
	}, nil
}

func (s *shareService) EmailResults(ctx context.Context, matchID string, userID int, recipients []string) error {
	if s.sender == nil {
		return ErrEmailNotConfigured
	}

	to, err := normalizeRecipients(recipients)
	if err != nil {
		return err
	}

	view, err := s.finishedMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if view.OwnerID != userID {
		return ErrForbiddenOperation
	}

	body, err := renderResultsEmail(view, s.matchURL(matchID))
	if err != nil {
		return err
	}
	if err := s.sender.SendEmail(ctx, to, ladder.ShareSubject, body); err != nil {
		return fmt.Errorf("failed to email results for match %s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match results emailed",
		slog.String("match_id", matchID),
		slog.Int("recipients", len(to)))
	return nil
}

func normalizeRecipients(recipients []string) ([]string, error) {
	seen := make(map[string]bool, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		if !utils.IsValidEmail(r) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, r)
		}
		seen[r] = true
		out = append(out, r)
	}
	switch {
	case len(out) == 0:
		return nil, ErrNoRecipients
	case len(out) > maxShareRecipients:
		return nil, fmt.Errorf("%w: at most %d", ErrTooManyRecipients, maxShareRecipients)
	}
	return out, nil
}
