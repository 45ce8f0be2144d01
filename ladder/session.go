package ladder

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultPlayTo = 11
	MinPlayTo     = 1
	MaxPlayTo     = 99
)

// MatchConfig is what the setup dialog hands over to start a match. It is
// also what gets stored so an unfinished setup can be resumed.
type MatchConfig struct {
	NumPlayers  int      `json:"num_players"`
	PlayTo      int      `json:"play_to"`
	PlayerNames []string `json:"player_names"`
}

func (c MatchConfig) Validate() error {
	if c.NumPlayers != 4 && c.NumPlayers != 5 {
		return fmt.Errorf("%w: got %d", ErrUnsupportedPlayerCount, c.NumPlayers)
	}
	if c.PlayTo < MinPlayTo || c.PlayTo > MaxPlayTo {
		return fmt.Errorf("%w: got %d", ErrInvalidPlayTo, c.PlayTo)
	}
	if len(c.PlayerNames) > c.NumPlayers {
		return fmt.Errorf("%w: %d names for %d players", ErrTooManyNames, len(c.PlayerNames), c.NumPlayers)
	}
	return nil
}

// Normalize trims names and pads them to one per slot.
func (c MatchConfig) Normalize() MatchConfig {
	names := make([]string, c.NumPlayers)
	for i := 0; i < c.NumPlayers && i < len(c.PlayerNames); i++ {
		names[i] = strings.TrimSpace(c.PlayerNames[i])
	}
	return MatchConfig{NumPlayers: c.NumPlayers, PlayTo: c.PlayTo, PlayerNames: names}
}

type State string

const (
	StateSetup      State = "setup"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Session runs one ladder match. It is not safe for concurrent use; callers
// that share a session must serialize access to it.
type Session struct {
	cfg       MatchConfig
	state     State
	names     []string
	schedule  Schedule
	ledger    Ledger
	dismissed bool
	extended  bool

	totals     []int
	winners    []int
	complete   bool
	suggestion *Suggestion
}

// NewSession starts a match from cfg.
func NewSession(cfg MatchConfig) (*Session, error) {
	s := &Session{}
	if err := s.start(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start(cfg MatchConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.Normalize()
	schedule, err := Generate(cfg.NumPlayers)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.names = append([]string(nil), cfg.PlayerNames...)
	s.schedule = schedule
	s.ledger = NewLedger(schedule.Len(), cfg.NumPlayers, cfg.PlayTo)
	s.dismissed = false
	s.extended = false
	s.state = StateInProgress
	s.recompute()
	return nil
}

// Start begins a new match after NewMatch put the session back into setup.
func (s *Session) Start(cfg MatchConfig) error {
	if s.state != StateSetup {
		return ErrSessionStarted
	}
	return s.start(cfg)
}

func (s *Session) Config() MatchConfig {
	c := s.cfg
	c.PlayerNames = append([]string(nil), s.cfg.PlayerNames...)
	return c
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) recompute() {
	s.totals = Totals(s.schedule, s.ledger)
	s.winners = Winners(s.names, s.totals)
	s.complete = s.ledger.IsComplete(s.schedule)
	s.suggestion = nil
	if s.state != StateSetup {
		if sg, ok := Suggest(s.schedule, s.ledger, s.dismissed); ok {
			s.suggestion = &sg
		}
	}
	if s.state == StateComplete && !s.complete {
		s.state = StateInProgress
	}
}

// SetScore records raw input for a cell. A *ValidationError is returned when
// the value exceeds play-to; the session keeps the error for its snapshot
// until the next successful write or clear.
func (s *Session) SetScore(gameIdx, playerIdx int, raw string) error {
	if s.state == StateSetup {
		return ErrSessionNotStarted
	}
	next, err := s.ledger.SetScore(s.schedule, gameIdx, playerIdx, raw)
	var verr *ValidationError
	if err != nil && !errors.As(err, &verr) {
		return err
	}
	s.ledger = next
	s.recompute()
	return err
}

func (s *Session) SetName(playerIdx int, name string) error {
	if playerIdx < 0 || playerIdx >= len(s.names) {
		return fmt.Errorf("%w: %d", ErrPlayerOutOfRange, playerIdx)
	}
	s.names[playerIdx] = name
	s.recompute()
	return nil
}

// AcceptSuggestion appends the suggested replay as an extra game.
func (s *Session) AcceptSuggestion() error {
	if s.suggestion == nil || s.extended {
		return ErrNoSuggestion
	}
	game, ok := ReplayGame(s.schedule, s.suggestion.Game)
	if !ok {
		return ErrNoSuggestion
	}
	s.schedule = s.schedule.Append(game)
	s.ledger = s.ledger.AppendRow()
	s.extended = true
	s.recompute()
	return nil
}

func (s *Session) DismissSuggestion() error {
	if s.state == StateSetup {
		return ErrSessionNotStarted
	}
	s.dismissed = true
	s.recompute()
	return nil
}

// Submit finalizes the match. It refuses while any on-court cell is empty.
func (s *Session) Submit() error {
	if s.state == StateSetup {
		return ErrSessionNotStarted
	}
	if !s.complete {
		return ErrIncomplete
	}
	s.state = StateComplete
	return nil
}

// NewMatch discards scores, names and any replay extension and returns the
// session to setup. Calling it repeatedly has no further effect.
func (s *Session) NewMatch() {
	schedule, err := Generate(s.cfg.NumPlayers)
	if err != nil {
		// cfg was validated when the session started.
		panic(err)
	}
	s.state = StateSetup
	s.names = make([]string, s.cfg.NumPlayers)
	s.schedule = schedule
	s.ledger = NewLedger(schedule.Len(), s.cfg.NumPlayers, s.cfg.PlayTo)
	s.dismissed = false
	s.extended = false
	s.recompute()
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	State               State            `json:"state"`
	NumPlayers          int              `json:"num_players"`
	PlayTo              int              `json:"play_to"`
	Names               []string         `json:"names"`
	Schedule            Schedule         `json:"schedule"`
	Scores              [][]Score        `json:"scores"`
	Roles               [][]Role         `json:"roles"`
	Totals              []int            `json:"totals"`
	Winners             []int            `json:"winners"`
	Standings           []Standing       `json:"standings"`
	Complete            bool             `json:"complete"`
	ValidationError     *ValidationError `json:"validation_error,omitempty"`
	Suggestion          *Suggestion      `json:"suggestion,omitempty"`
	SuggestionDismissed bool             `json:"suggestion_dismissed"`
	Extended            bool             `json:"extended"`
	ShareText           string           `json:"share_text,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:               s.state,
		NumPlayers:          s.cfg.NumPlayers,
		PlayTo:              s.cfg.PlayTo,
		Names:               append([]string(nil), s.names...),
		Schedule:            s.schedule.Clone(),
		Scores:              s.ledger.Rows(),
		Roles:               Roles(s.schedule),
		Totals:              append([]int(nil), s.totals...),
		Winners:             append([]int{}, s.winners...),
		Standings:           Standings(s.names, s.totals),
		Complete:            s.complete,
		ValidationError:     s.ledger.ValidationError(),
		SuggestionDismissed: s.dismissed,
		Extended:            s.extended,
	}
	if s.suggestion != nil {
		sg := *s.suggestion
		snap.Suggestion = &sg
	}
	if s.state == StateComplete && len(s.winners) > 0 {
		snap.ShareText = ShareText(s.names, s.totals)
	}
	return snap
}
