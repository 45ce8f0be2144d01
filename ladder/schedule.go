package ladder

import "fmt"

type Role string

const (
	RoleNone   Role = ""
	RoleHome   Role = "home"
	RoleAway   Role = "away"
	RoleSitOut Role = "out"
)

// Active reports whether a player with this role is on court.
func (r Role) Active() bool {
	return r == RoleHome || r == RoleAway
}

type Pair [2]int

func (p Pair) Contains(player int) bool {
	return p[0] == player || p[1] == player
}

type GameDefinition struct {
	Home   Pair `json:"home"`
	Away   Pair `json:"away"`
	SitOut *int `json:"sit_out"`
}

func (g GameDefinition) clone() GameDefinition {
	if g.SitOut != nil {
		out := *g.SitOut
		g.SitOut = &out
	}
	return g
}

// Schedule is the ordered list of games for one match. It is treated as a
// value: Append returns a new schedule and never touches the receiver.
type Schedule struct {
	NumPlayers int              `json:"num_players"`
	Games      []GameDefinition `json:"games"`
}

const (
	BaseGames4P = 3
	BaseGames5P = 5
)

var (
	fourPlayerHome = [BaseGames4P]Pair{{0, 1}, {0, 2}, {0, 3}}
	fourPlayerAway = [BaseGames4P]Pair{{2, 3}, {1, 3}, {1, 2}}

	fivePlayerSitOut = [BaseGames5P]int{4, 3, 0, 1, 2}
	fivePlayerHome   = [BaseGames5P]Pair{{0, 1}, {1, 4}, {3, 4}, {0, 3}, {1, 3}}
	fivePlayerAway   = [BaseGames5P]Pair{{2, 3}, {0, 2}, {1, 2}, {2, 4}, {0, 4}}
)

// Generate returns the canonical fixed schedule for a 4 or 5 player match.
// Any other player count is a configuration error.
func Generate(numPlayers int) (Schedule, error) {
	switch numPlayers {
	case 4:
		games := make([]GameDefinition, 0, BaseGames4P)
		for i := 0; i < BaseGames4P; i++ {
			games = append(games, GameDefinition{Home: fourPlayerHome[i], Away: fourPlayerAway[i]})
		}
		return Schedule{NumPlayers: 4, Games: games}, nil
	case 5:
		games := make([]GameDefinition, 0, BaseGames5P)
		for i := 0; i < BaseGames5P; i++ {
			out := fivePlayerSitOut[i]
			games = append(games, GameDefinition{Home: fivePlayerHome[i], Away: fivePlayerAway[i], SitOut: &out})
		}
		return Schedule{NumPlayers: 5, Games: games}, nil
	default:
		return Schedule{}, fmt.Errorf("%w: got %d", ErrUnsupportedPlayerCount, numPlayers)
	}
}

func (s Schedule) Len() int {
	return len(s.Games)
}

func (s Schedule) Game(i int) (GameDefinition, bool) {
	if i < 0 || i >= len(s.Games) {
		return GameDefinition{}, false
	}
	return s.Games[i].clone(), true
}

func (s Schedule) Append(g GameDefinition) Schedule {
	games := make([]GameDefinition, 0, len(s.Games)+1)
	for _, existing := range s.Games {
		games = append(games, existing.clone())
	}
	games = append(games, g.clone())
	return Schedule{NumPlayers: s.NumPlayers, Games: games}
}

func (s Schedule) Clone() Schedule {
	games := make([]GameDefinition, len(s.Games))
	for i, g := range s.Games {
		games[i] = g.clone()
	}
	return Schedule{NumPlayers: s.NumPlayers, Games: games}
}

// Partners counts, for every unordered pair of players, the games in which
// they share a side.
func (s Schedule) Partners() map[Pair]int {
	counts := make(map[Pair]int)
	for _, g := range s.Games {
		for _, p := range []Pair{g.Home, g.Away} {
			a, b := p[0], p[1]
			if a > b {
				a, b = b, a
			}
			counts[Pair{a, b}]++
		}
	}
	return counts
}

// RoleOf resolves the role a player has in a game. RoleNone is only
// returned for indices outside the schedule.
func RoleOf(s Schedule, gameIdx, playerIdx int) Role {
	if gameIdx < 0 || gameIdx >= len(s.Games) || playerIdx < 0 || playerIdx >= s.NumPlayers {
		return RoleNone
	}
	g := s.Games[gameIdx]
	if g.SitOut != nil && *g.SitOut == playerIdx {
		return RoleSitOut
	}
	if g.Home.Contains(playerIdx) {
		return RoleHome
	}
	if g.Away.Contains(playerIdx) {
		return RoleAway
	}
	return RoleNone
}

// Roles returns the full role grid, indexed [game][player].
func Roles(s Schedule) [][]Role {
	grid := make([][]Role, len(s.Games))
	for g := range s.Games {
		row := make([]Role, s.NumPlayers)
		for p := 0; p < s.NumPlayers; p++ {
			row[p] = RoleOf(s, g, p)
		}
		grid[g] = row
	}
	return grid
}
