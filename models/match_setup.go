package models

import "time"

// MatchSetup is the last setup a user confirmed, kept so it can be resumed.
type MatchSetup struct {
	UserID      int       `json:"user_id"`
	NumPlayers  int       `json:"num_players"`
	PlayTo      int       `json:"play_to"`
	PlayerNames []string  `json:"player_names"`
	UpdatedAt   time.Time `json:"updated_at"`
}
