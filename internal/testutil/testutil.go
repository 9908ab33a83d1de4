package testutil

import (
	"context"
	"testing"

	"github.com/miksipiksic/chess-insights/internal/db"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens an in-memory SQLite stats database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	database, err := db.Open(context.Background(), db.SQLite, ":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Games builds a table carrying every game column.
func Games(rows ...models.GameRecord) models.GameTable {
	return models.NewGameTable(rows)
}

// MilenaGames is the three game table used across packages:
// a win as white, a win as black and a draw.
func MilenaGames() models.GameTable {
	return Games(
		models.GameRecord{White: "Milena", Black: "Opponent1", Result: models.ResultWhiteWins, Moves: 7},
		models.GameRecord{White: "Opponent2", Black: "Milena", Result: models.ResultBlackWins, Moves: 4},
		models.GameRecord{White: "Milena", Black: "Opponent3", Result: models.ResultDraw, Moves: 6},
	)
}
