package ladder

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFourPlayerSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(MatchConfig{NumPlayers: 4, PlayTo: 11, PlayerNames: []string{"A", "B", "C", "D"}})
	require.NoError(t, err)
	return s
}

func scoreGame(t *testing.T, s *Session, g int, home, away int) {
	t.Helper()
	game := s.Snapshot().Schedule.Games[g]
	for _, p := range game.Home {
		require.NoError(t, s.SetScore(g, p, strconv.Itoa(home)))
	}
	for _, p := range game.Away {
		require.NoError(t, s.SetScore(g, p, strconv.Itoa(away)))
	}
}

func TestMatchConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MatchConfig
		wantErr error
	}{
		{name: "four players", cfg: MatchConfig{NumPlayers: 4, PlayTo: 11}},
		{name: "five players full names", cfg: MatchConfig{NumPlayers: 5, PlayTo: 99, PlayerNames: []string{"a", "b", "c", "d", "e"}}},
		{name: "three players", cfg: MatchConfig{NumPlayers: 3, PlayTo: 11}, wantErr: ErrUnsupportedPlayerCount},
		{name: "six players", cfg: MatchConfig{NumPlayers: 6, PlayTo: 11}, wantErr: ErrUnsupportedPlayerCount},
		{name: "play to zero", cfg: MatchConfig{NumPlayers: 4, PlayTo: 0}, wantErr: ErrInvalidPlayTo},
		{name: "play to 100", cfg: MatchConfig{NumPlayers: 4, PlayTo: 100}, wantErr: ErrInvalidPlayTo},
		{name: "too many names", cfg: MatchConfig{NumPlayers: 4, PlayTo: 11, PlayerNames: []string{"a", "b", "c", "d", "e"}}, wantErr: ErrTooManyNames},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewSessionPadsAndTrimsNames(t *testing.T) {
	s, err := NewSession(MatchConfig{NumPlayers: 5, PlayTo: 11, PlayerNames: []string{" Ann ", "Bo"}})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, []string{"Ann", "Bo", "", "", ""}, snap.Names)
	assert.Equal(t, StateInProgress, snap.State)
	assert.Len(t, snap.Scores, 5)
	assert.Nil(t, snap.Suggestion)
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	_, err := NewSession(MatchConfig{NumPlayers: 6, PlayTo: 11})
	assert.ErrorIs(t, err, ErrUnsupportedPlayerCount)
}

func TestSessionFourPlayerScenario(t *testing.T) {
	s := newFourPlayerSession(t)

	require.ErrorIs(t, s.Submit(), ErrIncomplete)
	assert.Equal(t, StateInProgress, s.State())

	scoreGame(t, s, 0, 11, 8)
	scoreGame(t, s, 1, 11, 6)
	scoreGame(t, s, 2, 9, 11)

	snap := s.Snapshot()
	assert.Equal(t, []int{31, 28, 30, 23}, snap.Totals)
	assert.Equal(t, []int{0}, snap.Winners)
	assert.True(t, snap.Complete)
	require.NotNil(t, snap.Suggestion)

	require.NoError(t, s.Submit())
	snap = s.Snapshot()
	assert.Equal(t, StateComplete, snap.State)
	assert.Equal(t, "Match Results! Winner: A with 31 points!", snap.ShareText)
}

func TestSessionOverLimitKeepsScoresAndReportsError(t *testing.T) {
	s := newFourPlayerSession(t)
	require.NoError(t, s.SetScore(0, 0, "7"))

	err := s.SetScore(0, 0, "12")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	snap := s.Snapshot()
	assert.Equal(t, 7, snap.Scores[0][0].Value())
	require.NotNil(t, snap.ValidationError)
	assert.Equal(t, 11, snap.ValidationError.PlayTo)

	require.NoError(t, s.SetScore(0, 0, "11"))
	assert.Nil(t, s.Snapshot().ValidationError)
}

func TestSessionFivePlayerSitOut(t *testing.T) {
	s, err := NewSession(MatchConfig{NumPlayers: 5, PlayTo: 11, PlayerNames: []string{"A", "B", "C", "D", "E"}})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetScore(0, 4, "5"), ErrCellInactive)

	for g := 0; g < 5; g++ {
		scoreGame(t, s, g, 11, 9)
	}
	snap := s.Snapshot()
	assert.True(t, snap.Complete)
	assert.Nil(t, snap.Suggestion)
	assert.ErrorIs(t, s.AcceptSuggestion(), ErrNoSuggestion)

	for _, row := range snap.Roles {
		assert.Len(t, row, 5)
	}
	assert.Equal(t, RoleSitOut, snap.Roles[0][4])
	for g := 1; g < 5; g++ {
		assert.True(t, snap.Roles[g][4].Active())
	}
	require.NoError(t, s.Submit())
}

func TestSessionAcceptSuggestionExtendsOnce(t *testing.T) {
	s := newFourPlayerSession(t)
	scoreGame(t, s, 0, 11, 9)
	scoreGame(t, s, 1, 11, 9)
	scoreGame(t, s, 2, 11, 3)

	snap := s.Snapshot()
	require.NotNil(t, snap.Suggestion)
	assert.Equal(t, 1, snap.Suggestion.Game)
	require.NoError(t, s.Submit())

	require.NoError(t, s.AcceptSuggestion())
	snap = s.Snapshot()
	assert.True(t, snap.Extended)
	assert.Len(t, snap.Schedule.Games, 4)
	assert.Len(t, snap.Scores, 4)
	assert.Equal(t, Pair{1, 3}, snap.Schedule.Games[3].Home)
	assert.Equal(t, Pair{0, 2}, snap.Schedule.Games[3].Away)
	assert.False(t, snap.Complete)
	assert.Equal(t, StateInProgress, snap.State, "extending a finished match reopens it")
	assert.Nil(t, snap.Suggestion)

	assert.ErrorIs(t, s.AcceptSuggestion(), ErrNoSuggestion)
	assert.ErrorIs(t, s.Submit(), ErrIncomplete)

	scoreGame(t, s, 3, 11, 7)
	snap = s.Snapshot()
	assert.True(t, snap.Complete)
	assert.Equal(t, []int{40, 34, 30, 40}, snap.Totals)
}

func TestSessionDismissSuggestion(t *testing.T) {
	s := newFourPlayerSession(t)
	for g := 0; g < 3; g++ {
		scoreGame(t, s, g, 11, 9)
	}
	require.NotNil(t, s.Snapshot().Suggestion)

	require.NoError(t, s.DismissSuggestion())
	snap := s.Snapshot()
	assert.Nil(t, snap.Suggestion)
	assert.True(t, snap.SuggestionDismissed)
	assert.ErrorIs(t, s.AcceptSuggestion(), ErrNoSuggestion)

	// Editing scores does not bring a dismissed suggestion back.
	require.NoError(t, s.SetScore(0, 0, "10"))
	assert.Nil(t, s.Snapshot().Suggestion)
}

func TestSessionSetName(t *testing.T) {
	s := newFourPlayerSession(t)
	require.NoError(t, s.SetName(1, "Bea"))
	assert.Equal(t, "Bea", s.Snapshot().Names[1])
	assert.ErrorIs(t, s.SetName(4, "X"), ErrPlayerOutOfRange)
	assert.ErrorIs(t, s.SetName(-1, "X"), ErrPlayerOutOfRange)

	// Clearing the leader's name drops them from the winners.
	scoreGame(t, s, 0, 11, 3)
	assert.Equal(t, []int{0, 1}, s.Snapshot().Winners)
	require.NoError(t, s.SetName(0, ""))
	assert.Equal(t, []int{1}, s.Snapshot().Winners)
}

func TestSessionNewMatchIsIdempotent(t *testing.T) {
	s := newFourPlayerSession(t)
	for g := 0; g < 3; g++ {
		scoreGame(t, s, g, 11, 9)
	}
	require.NoError(t, s.AcceptSuggestion())
	_ = s.SetScore(0, 0, "50")

	s.NewMatch()
	once := s.Snapshot()
	s.NewMatch()
	twice := s.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, StateSetup, once.State)
	assert.Equal(t, []string{"", "", "", ""}, once.Names)
	assert.Len(t, once.Schedule.Games, 3)
	assert.False(t, once.Extended)
	assert.False(t, once.SuggestionDismissed)
	assert.Nil(t, once.ValidationError)
	for _, row := range once.Scores {
		for _, sc := range row {
			assert.False(t, sc.IsSet())
		}
	}

	assert.ErrorIs(t, s.SetScore(0, 0, "3"), ErrSessionNotStarted)
	assert.ErrorIs(t, s.Submit(), ErrSessionNotStarted)

	require.NoError(t, s.Start(MatchConfig{NumPlayers: 5, PlayTo: 15, PlayerNames: []string{"V", "W", "X", "Y", "Z"}}))
	snap := s.Snapshot()
	assert.Equal(t, StateInProgress, snap.State)
	assert.Equal(t, 5, snap.NumPlayers)
	assert.Equal(t, 15, snap.PlayTo)
	assert.ErrorIs(t, s.Start(MatchConfig{NumPlayers: 4, PlayTo: 11}), ErrSessionStarted)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newFourPlayerSession(t)
	require.NoError(t, s.SetScore(0, 0, "4"))

	snap := s.Snapshot()
	snap.Names[0] = "changed"
	snap.Scores[0][0] = ScoreOf(9)
	snap.Schedule.Games[0].Home = Pair{3, 3}

	again := s.Snapshot()
	assert.Equal(t, "A", again.Names[0])
	assert.Equal(t, 4, again.Scores[0][0].Value())
	assert.Equal(t, Pair{0, 1}, again.Schedule.Games[0].Home)
}
