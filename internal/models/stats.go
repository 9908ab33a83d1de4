package models

import "time"

// PlayerStats is the aggregate record for one player over a game table.
// Losses is the remainder TotalGames - Wins - Draws, so unfinished games count as losses.
type PlayerStats struct {
	Player     string  `json:"player"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	AvgMoves   float64 `json:"avg_moves"`
}

// StatsSnapshot is a PlayerStats row as persisted by the stats store.
type StatsSnapshot struct {
	ID int64 `json:"id"`
	PlayerStats
	CreatedAt time.Time `json:"created_at"`
}
