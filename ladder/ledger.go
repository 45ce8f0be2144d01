package ladder

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is a single ledger cell: either unset or a non-negative integer.
type Score struct {
	value int
	set   bool
}

func Unset() Score {
	return Score{}
}

func ScoreOf(v int) Score {
	return Score{value: v, set: true}
}

func (s Score) IsSet() bool {
	return s.set
}

// Value returns the stored points, 0 when unset.
func (s Score) Value() int {
	if !s.set {
		return 0
	}
	return s.value
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Unset()
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

// Ledger is the [game][player] score grid of one match. Writes go through
// SetScore, which returns a new ledger; rows held by earlier snapshots are
// never modified.
type Ledger struct {
	rows          [][]Score
	players       int
	playTo        int
	validationErr *ValidationError
}

func NewLedger(games, players, playTo int) Ledger {
	rows := make([][]Score, games)
	for i := range rows {
		rows[i] = make([]Score, players)
	}
	return Ledger{rows: rows, players: players, playTo: playTo}
}

func (l Ledger) Games() int {
	return len(l.rows)
}

func (l Ledger) Players() int {
	return l.players
}

func (l Ledger) PlayTo() int {
	return l.playTo
}

func (l Ledger) Get(gameIdx, playerIdx int) Score {
	if gameIdx < 0 || gameIdx >= len(l.rows) || playerIdx < 0 || playerIdx >= l.players {
		return Unset()
	}
	return l.rows[gameIdx][playerIdx]
}

// ValidationError returns the error raised by the last rejected write, or
// nil once a later write or clear succeeded.
func (l Ledger) ValidationError() *ValidationError {
	if l.validationErr == nil {
		return nil
	}
	v := *l.validationErr
	return &v
}

func (l Ledger) Rows() [][]Score {
	return l.cloneRows()
}

func (l Ledger) cloneRows() [][]Score {
	rows := make([][]Score, len(l.rows))
	for i, row := range l.rows {
		rows[i] = append([]Score(nil), row...)
	}
	return rows
}

func (l Ledger) Clone() Ledger {
	c := l
	c.rows = l.cloneRows()
	c.validationErr = l.ValidationError()
	return c
}

// AppendRow returns a ledger with one more empty game row.
func (l Ledger) AppendRow() Ledger {
	c := l.Clone()
	c.rows = append(c.rows, make([]Score, l.players))
	return c
}

// SetScore applies raw user input to a cell.
//
// An empty string clears the cell. Input that does not parse as a
// non-negative whole number is dropped without error so a half-typed value
// does not flash a message. A value above play-to is rejected with a
// *ValidationError and the grid is left as it was.
func (l Ledger) SetScore(s Schedule, gameIdx, playerIdx int, raw string) (Ledger, error) {
	switch RoleOf(s, gameIdx, playerIdx) {
	case RoleNone:
		return l, ErrCellOutOfRange
	case RoleSitOut:
		return l, ErrCellInactive
	}
	if gameIdx >= len(l.rows) || playerIdx >= l.players {
		return l, ErrCellOutOfRange
	}

	if raw == "" {
		next := l.Clone()
		next.rows[gameIdx][playerIdx] = Unset()
		next.validationErr = nil
		return next, nil
	}

	value, ok := parsePoints(raw)
	if !ok {
		return l, nil
	}

	if value > float64(l.playTo) {
		rejected := l
		rejected.validationErr = newValidationError(l.playTo)
		return rejected, rejected.ValidationError()
	}

	next := l.Clone()
	next.rows[gameIdx][playerIdx] = ScoreOf(int(value))
	next.validationErr = nil
	return next, nil
}

// parsePoints accepts whole, finite, non-negative numbers, including forms
// such as "1e1" or "7.0".
func parsePoints(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 {
			return 0, false
		}
		return float64(n), true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return f, true
}

// IsComplete reports whether every on-court cell of every scheduled game
// holds a score.
func (l Ledger) IsComplete(s Schedule) bool {
	return l.completeThrough(s, s.Len())
}

func (l Ledger) completeThrough(s Schedule, games int) bool {
	if games > len(l.rows) {
		return false
	}
	for g := 0; g < games; g++ {
		for p := 0; p < s.NumPlayers; p++ {
			if !RoleOf(s, g, p).Active() {
				continue
			}
			if !l.Get(g, p).IsSet() {
				return false
			}
		}
	}
	return true
}
