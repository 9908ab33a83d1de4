package analytics_test

import (
	"math/rand"
	"testing"

	"github.com/miksipiksic/chess-insights/internal/analytics"
	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milenaTable() models.GameTable {
	return models.NewGameTable([]models.GameRecord{
		{White: "Milena", Black: "Opponent1", Result: "1-0", Moves: 20},
		{White: "Opponent2", Black: "Milena", Result: "0-1", Moves: 18},
		{White: "Milena", Black: "Opponent3", Result: "1/2-1/2", Moves: 22},
	})
}

func mixedTable() models.GameTable {
	return models.NewGameTable([]models.GameRecord{
		{White: "Milena", Black: "Opponent1", Result: "1-0", Moves: 20},
		{White: "Opponent2", Black: "Milena", Result: "0-1", Moves: 18},
		{White: "Milena", Black: "Opponent3", Result: "1/2-1/2", Moves: 22},
		{White: "Milena", Black: "Opponent2", Result: "0-1", Moves: 31},
		{White: "Opponent3", Black: "Milena", Result: "1/2-1/2", Moves: 45},
		{White: "Opponent1", Black: "Milena", Result: "*", Moves: 9},
		{White: "Opponent1", Black: "Opponent2", Result: "1-0", Moves: 60},
		{White: "", Black: "Milena", Result: "1-0", Moves: 12},
	})
}

func TestComputePlayerStats_ReferenceDataset(t *testing.T) {
	stats, err := analytics.ComputePlayerStats(milenaTable(), "Milena")

	require.NoError(t, err)
	assert.Equal(t, "Milena", stats.Player)
	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 0, stats.Losses)
	assert.Equal(t, 1, stats.Draws)
	assert.InDelta(t, 20.0, stats.AvgMoves, 1e-9)
}

// A "*" result is neither a win nor a draw, so it lands in losses.
func TestComputePlayerStats_UnresolvedGameCountsAsLoss(t *testing.T) {
	tbl := models.NewGameTable([]models.GameRecord{
		{White: "A", Black: "B", Result: "*", Moves: 10},
	})

	stats, err := analytics.ComputePlayerStats(tbl, "A")

	require.NoError(t, err)
	assert.Equal(t, models.PlayerStats{Player: "A", TotalGames: 1, Wins: 0, Losses: 1, Draws: 0, AvgMoves: 10}, stats)
}

func TestComputePlayerStats_UnknownPlayer(t *testing.T) {
	tests := []struct {
		name   string
		table  models.GameTable
		player string
	}{
		{name: "not in table", table: mixedTable(), player: "Magnus"},
		{name: "case differs", table: mixedTable(), player: "milena"},
		{name: "empty table", table: models.NewGameTable(nil), player: "Milena"},
		{name: "surrounding whitespace", table: mixedTable(), player: " Milena"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := analytics.ComputePlayerStats(tt.table, tt.player)

			require.NoError(t, err)
			assert.Equal(t, models.PlayerStats{Player: tt.player}, stats)
			assert.Zero(t, stats.AvgMoves)
		})
	}
}

func TestComputePlayerStats_DrawIgnoresSide(t *testing.T) {
	asWhite := models.NewGameTable([]models.GameRecord{{White: "P", Black: "Q", Result: "1/2-1/2", Moves: 30}})
	asBlack := models.NewGameTable([]models.GameRecord{{White: "Q", Black: "P", Result: "1/2-1/2", Moves: 30}})

	w, err := analytics.ComputePlayerStats(asWhite, "P")
	require.NoError(t, err)
	b, err := analytics.ComputePlayerStats(asBlack, "P")
	require.NoError(t, err)

	assert.Equal(t, 1, w.Draws)
	assert.Equal(t, 1, b.Draws)
	assert.Equal(t, w, b)
}

func TestComputePlayerStats_WinClassification(t *testing.T) {
	tests := []struct {
		name   string
		game   models.GameRecord
		wins   int
		draws  int
		losses int
	}{
		{name: "white wins as white", game: models.GameRecord{White: "P", Black: "Q", Result: "1-0"}, wins: 1},
		{name: "black wins as black", game: models.GameRecord{White: "Q", Black: "P", Result: "0-1"}, wins: 1},
		{name: "black wins as white", game: models.GameRecord{White: "P", Black: "Q", Result: "0-1"}, losses: 1},
		{name: "white wins as black", game: models.GameRecord{White: "Q", Black: "P", Result: "1-0"}, losses: 1},
		{name: "unrecognised result", game: models.GameRecord{White: "P", Black: "Q", Result: "forfeit"}, losses: 1},
		{name: "empty result", game: models.GameRecord{White: "P", Black: "Q", Result: ""}, losses: 1},
		{name: "playing both sides", game: models.GameRecord{White: "P", Black: "P", Result: "0-1"}, wins: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := analytics.ComputePlayerStats(models.NewGameTable([]models.GameRecord{tt.game}), "P")

			require.NoError(t, err)
			assert.Equal(t, 1, stats.TotalGames)
			assert.Equal(t, tt.wins, stats.Wins)
			assert.Equal(t, tt.draws, stats.Draws)
			assert.Equal(t, tt.losses, stats.Losses)
		})
	}
}

func TestComputePlayerStats_OrderIndependent(t *testing.T) {
	base := mixedTable()
	want, err := analytics.ComputePlayerStats(base, "Milena")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		rows := append([]models.GameRecord(nil), base.Rows...)
		rng.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })

		got, err := analytics.ComputePlayerStats(models.NewGameTable(rows), "Milena")
		require.NoError(t, err)
		assert.Equal(t, want, got, "permutation %d", i)
	}
}

func TestComputePlayerStats_CountConservation(t *testing.T) {
	tbl := mixedTable()
	players := []string{"Milena", "Opponent1", "Opponent2", "Opponent3", "", "Nobody"}

	for _, p := range players {
		stats, err := analytics.ComputePlayerStats(tbl, p)
		require.NoError(t, err)
		assert.Equal(t, stats.TotalGames, stats.Wins+stats.Losses+stats.Draws, "player %q", p)
	}
}

func TestComputePlayerStats_MixedResults(t *testing.T) {
	stats, err := analytics.ComputePlayerStats(mixedTable(), "Milena")

	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalGames)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 2, stats.Draws)
	assert.Equal(t, 3, stats.Losses)
	assert.InDelta(t, float64(20+18+22+31+45+9+12)/7, stats.AvgMoves, 1e-9)
}

func TestComputePlayerStats_MeanOverPlayerRowsOnly(t *testing.T) {
	tbl := models.NewGameTable([]models.GameRecord{
		{White: "A", Black: "B", Result: "1-0", Moves: 20},
		{White: "B", Black: "A", Result: "1-0", Moves: 18},
		{White: "A", Black: "C", Result: "1-0", Moves: 22},
		{White: "B", Black: "C", Result: "1-0", Moves: 1000},
	})

	stats, err := analytics.ComputePlayerStats(tbl, "A")

	require.NoError(t, err)
	assert.Equal(t, 20.0, stats.AvgMoves)
}

func TestComputePlayerStats_DuplicateRowsCounted(t *testing.T) {
	g := models.GameRecord{White: "A", Black: "B", Result: "1-0", Moves: 10}

	stats, err := analytics.ComputePlayerStats(models.NewGameTable([]models.GameRecord{g, g}), "A")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 2, stats.Wins)
}

func TestComputePlayerStats_SchemaError(t *testing.T) {
	tbl := models.GameTable{
		Columns: []string{models.ColumnWhite, models.ColumnBlack, models.ColumnMoves},
		Rows:    []models.GameRecord{{White: "A", Black: "B", Moves: 10}},
	}

	_, err := analytics.ComputePlayerStats(tbl, "A")

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSchema))
	assert.Contains(t, err.Error(), "result")
}
