// Package analytics aggregates game tables into per-player statistics.
package analytics

import (
	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/models"
)

// ComputePlayerStats aggregates every game in t where player held white or black.
// The name is matched exactly. A player with no games yields zeroed stats, not an error.
//
// Wins and draws are counted independently and losses are the remainder, so any result
// that is neither a win for the player nor "1/2-1/2" (including "*") is a loss.
func ComputePlayerStats(t models.GameTable, player string) (models.PlayerStats, error) {
	if missing := t.MissingColumns(); len(missing) > 0 {
		return models.PlayerStats{}, errors.NewSchemaError(missing)
	}

	stats := models.PlayerStats{Player: player}
	movesSum := 0
	for _, g := range t.Rows {
		if !g.Involves(player) {
			continue
		}
		stats.TotalGames++
		movesSum += g.Moves
		if isWin(g, player) {
			stats.Wins++
		}
		if g.Result == models.ResultDraw {
			stats.Draws++
		}
	}

	if stats.TotalGames == 0 {
		return stats, nil
	}

	stats.Losses = stats.TotalGames - stats.Wins - stats.Draws
	stats.AvgMoves = float64(movesSum) / float64(stats.TotalGames)
	return stats, nil
}

func isWin(g models.GameRecord, player string) bool {
	if g.White == player && g.Result == models.ResultWhiteWins {
		return true
	}
	return g.Black == player && g.Result == models.ResultBlackWins
}
