package ladder

import "sort"

// Suggestion describes the base game recommended as an optional replay in a
// four player match.
type Suggestion struct {
	Game       int `json:"game"`
	HomePoints int `json:"home_points"`
	AwayPoints int `json:"away_points"`
	Diff       int `json:"diff"`
	Total      int `json:"total"`
}

func teamPoints(s Schedule, l Ledger, g int) Suggestion {
	game := s.Games[g]
	home := l.Get(g, game.Home[0]).Value() + l.Get(g, game.Home[1]).Value()
	away := l.Get(g, game.Away[0]).Value() + l.Get(g, game.Away[1]).Value()
	diff := home - away
	if diff < 0 {
		diff = -diff
	}
	return Suggestion{Game: g, HomePoints: home, AwayPoints: away, Diff: diff, Total: home + away}
}

// Suggest picks the closest base game to replay. It only applies to a four
// player match whose three base games are scored, that has not been
// extended yet and where the suggestion was not dismissed.
func Suggest(s Schedule, l Ledger, dismissed bool) (Suggestion, bool) {
	if dismissed || s.NumPlayers != 4 || s.Len() != BaseGames4P {
		return Suggestion{}, false
	}
	if !l.completeThrough(s, BaseGames4P) {
		return Suggestion{}, false
	}
	stats := make([]Suggestion, 0, BaseGames4P)
	for g := 0; g < BaseGames4P; g++ {
		stats = append(stats, teamPoints(s, l, g))
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Diff != stats[j].Diff {
			return stats[i].Diff < stats[j].Diff
		}
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Game > stats[j].Game
	})
	return stats[0], true
}

// ReplayGame builds the extra game for a replay of game g with home and
// away swapped.
func ReplayGame(s Schedule, g int) (GameDefinition, bool) {
	base, ok := s.Game(g)
	if !ok {
		return GameDefinition{}, false
	}
	return GameDefinition{Home: base.Away, Away: base.Home, SitOut: base.SitOut}, true
}
