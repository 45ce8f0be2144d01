package ladder

import (
	"fmt"
	"sort"
	"strings"
)

// Totals sums each player's points over the games they were on court for.
// Sit-out cells never count, even if a value ended up stored there.
func Totals(s Schedule, l Ledger) []int {
	totals := make([]int, s.NumPlayers)
	for g := 0; g < s.Len(); g++ {
		for p := 0; p < s.NumPlayers; p++ {
			if !RoleOf(s, g, p).Active() {
				continue
			}
			totals[p] += l.Get(g, p).Value()
		}
	}
	return totals
}

// Winners returns the slots of every named player whose total equals the
// highest total. Ties are not broken.
func Winners(names []string, totals []int) []int {
	if len(totals) == 0 {
		return []int{}
	}
	best := totals[0]
	for _, t := range totals[1:] {
		if t > best {
			best = t
		}
	}
	winners := []int{}
	for i, t := range totals {
		if i >= len(names) || strings.TrimSpace(names[i]) == "" {
			continue
		}
		if t == best {
			winners = append(winners, i)
		}
	}
	return winners
}

type Standing struct {
	Slot   int    `json:"slot"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Winner bool   `json:"winner"`
}

// Standings orders players by total, highest first, then by slot.
func Standings(names []string, totals []int) []Standing {
	winners := make(map[int]bool)
	for _, w := range Winners(names, totals) {
		winners[w] = true
	}
	standings := make([]Standing, 0, len(totals))
	for i, t := range totals {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		standings = append(standings, Standing{Slot: i, Name: name, Total: t, Winner: winners[i]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Total == standings[j].Total {
			return standings[i].Slot < standings[j].Slot
		}
		return standings[i].Total > standings[j].Total
	})
	return standings
}

// ShareText renders the result line used for sharing a finished match.
func ShareText(names []string, totals []int) string {
	winners := Winners(names, totals)
	plural := ""
	if len(winners) > 1 {
		plural = "s"
	}
	list := make([]string, 0, len(winners))
	points := 0
	for _, w := range winners {
		list = append(list, strings.TrimSpace(names[w]))
		points = totals[w]
	}
	return fmt.Sprintf("Match Results! Winner%s: %s with %d points!", plural, strings.Join(list, ", "), points)
}
