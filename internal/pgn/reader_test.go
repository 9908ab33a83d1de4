package pgn_test

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *pgn.Reader) []models.GameRecord {
	t.Helper()
	var out []models.GameRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestOpen_SampleGames(t *testing.T) {
	r, err := pgn.Open(filepath.Join("testdata", "sample_games.pgn"))
	require.NoError(t, err)
	defer r.Close()

	games := readAll(t, r)

	require.Len(t, games, 3)
	assert.Equal(t, models.GameRecord{White: "Milena", Black: "Opponent1", Result: "1-0", Moves: 7}, games[0])
	assert.Equal(t, models.GameRecord{White: "Opponent2", Black: "Milena", Result: "0-1", Moves: 4}, games[1])
	assert.Equal(t, models.GameRecord{White: "Milena", Black: "Opponent3", Result: "1/2-1/2", Moves: 6}, games[2])
}

func TestOpen_IsRestartable(t *testing.T) {
	path := filepath.Join("testdata", "sample_games.pgn")

	first, err := pgn.Open(path)
	require.NoError(t, err)
	a := readAll(t, first)
	require.NoError(t, first.Close())

	second, err := pgn.Open(path)
	require.NoError(t, err)
	b := readAll(t, second)
	require.NoError(t, second.Close())

	assert.Equal(t, a, b)
}

func TestOpen_MissingFile(t *testing.T) {
	r, err := pgn.Open(filepath.Join("testdata", "does-not-exist.pgn"))

	assert.Nil(t, r)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceRead))
}

func TestReader_DefaultsForMissingTags(t *testing.T) {
	input := `[Event "Casual"]
[Black "Milena"]

1. d4 d5 *
`
	games := readAll(t, pgn.NewReader(strings.NewReader(input), "inline"))

	require.Len(t, games, 1)
	assert.Equal(t, "", games[0].White)
	assert.Equal(t, "Milena", games[0].Black)
	assert.Equal(t, models.ResultUnknown, games[0].Result)
	assert.Equal(t, 2, games[0].Moves)
}

func TestReader_GamesWithoutBlankSeparators(t *testing.T) {
	input := "[White \"A\"]\n[Black \"B\"]\n[Result \"1-0\"]\n1. e4 e5 1-0\n" +
		"[White \"C\"]\n[Black \"D\"]\n[Result \"0-1\"]\n1. d4 d5 2. c4 0-1\n"

	games := readAll(t, pgn.NewReader(strings.NewReader(input), "inline"))

	require.Len(t, games, 2)
	assert.Equal(t, "A", games[0].White)
	assert.Equal(t, 2, games[0].Moves)
	assert.Equal(t, "C", games[1].White)
	assert.Equal(t, "0-1", games[1].Result)
	assert.Equal(t, 3, games[1].Moves)
}

func TestReader_WindowsLineEndings(t *testing.T) {
	input := "[White \"A\"]\r\n[Black \"B\"]\r\n[Result \"1/2-1/2\"]\r\n\r\n1. e4 e5 1/2-1/2\r\n"

	games := readAll(t, pgn.NewReader(strings.NewReader(input), "inline"))

	require.Len(t, games, 1)
	assert.Equal(t, "1/2-1/2", games[0].Result)
	assert.Equal(t, 2, games[0].Moves)
}

func TestReader_EmptyInput(t *testing.T) {
	r := pgn.NewReader(strings.NewReader("\n\n  \n"), "empty")

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, r.Close())
}

func TestReader_UnparseableGameDoesNotAbortStream(t *testing.T) {
	input := "[White \"A\"]\n[Black \"B\"]\n[Result \"1-0\"]\n\n1. e4 e5 2. Ke3 1-0\n\n" +
		"[White \"C\"]\n[Black \"D\"]\n[Result \"0-1\"]\n\n1. f3 e5 2. g4 Qh4# 0-1\n"
	var logs bytes.Buffer
	r := pgn.NewReader(strings.NewReader(input), "inline").
		WithLogger(logger.New(logger.WithOutput(&logs), logger.WithFormat(logger.FormatJSON)))

	games := readAll(t, r)

	require.Len(t, games, 2)
	assert.Equal(t, models.GameRecord{White: "A", Black: "B", Result: "1-0", Moves: 2}, games[0])
	assert.Equal(t, models.GameRecord{White: "C", Black: "D", Result: "0-1", Moves: 4}, games[1])
	assert.Equal(t, 1, r.Recovered())
	assert.Contains(t, logs.String(), "game 1")
}

func TestReader_MovetextVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.GameRecord
	}{
		{
			name:     "escaped quote in tag",
			input:    "[White \"O\\\"Brien\"]\n[Black \"B\"]\n[Result \"1-0\"]\n\n1. e4 e5 2. Nf3 1-0\n",
			expected: models.GameRecord{White: `O"Brien`, Black: "B", Result: "1-0", Moves: 3},
		},
		{
			name:     "zero castling as last move",
			input:    "[White \"A\"]\n[Black \"B\"]\n[Result \"1-0\"]\n\n1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. 0-0 1-0\n",
			expected: models.GameRecord{White: "A", Black: "B", Result: "1-0", Moves: 7},
		},
		{
			name:     "zero castling mid game",
			input:    "[White \"A\"]\n[Black \"B\"]\n[Result \"*\"]\n\n1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. 0-0 Nf6 *\n",
			expected: models.GameRecord{White: "A", Black: "B", Result: "*", Moves: 8},
		},
		{
			name:     "comments variations and nags",
			input:    "[White \"A\"]\n[Black \"B\"]\n[Result \"*\"]\n\n1. e4 (1. d4 d5) e5 2. Nf3 {develops} $1 Nc6 *\n",
			expected: models.GameRecord{White: "A", Black: "B", Result: "*", Moves: 4},
		},
		{
			name:     "clock comments",
			input:    "[White \"A\"]\n[Black \"B\"]\n[Result \"1/2-1/2\"]\n\n1. d4 {[%clk 0:10:00]} 1... d5 {[%clk 0:09:58]} 1/2-1/2\n",
			expected: models.GameRecord{White: "A", Black: "B", Result: "1/2-1/2", Moves: 2},
		},
		{
			name:     "empty result tag",
			input:    "[White \"A\"]\n[Black \"B\"]\n[Result \"\"]\n\n1. e4 *\n",
			expected: models.GameRecord{White: "A", Black: "B", Result: models.ResultUnknown, Moves: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pgn.NewReader(strings.NewReader(tt.input), "inline").WithLogger(logger.Nop())

			games := readAll(t, r)

			require.Len(t, games, 1)
			assert.Equal(t, tt.expected, games[0])
		})
	}
}

func TestReader_HeadersOnlyGameIsSeparate(t *testing.T) {
	input := "[White \"A\"]\n[Black \"B\"]\n\n" +
		"[White \"C\"]\n[Black \"D\"]\n[Result \"1-0\"]\n\n1. e4 e5 1-0\n"

	games := readAll(t, pgn.NewReader(strings.NewReader(input), "inline"))

	require.Len(t, games, 2)
	assert.Equal(t, models.GameRecord{White: "A", Black: "B", Result: models.ResultUnknown, Moves: 0}, games[0])
	assert.Equal(t, models.GameRecord{White: "C", Black: "D", Result: "1-0", Moves: 2}, games[1])
}

func TestReader_ScannerFailureIsSourceReadError(t *testing.T) {
	r := pgn.NewReader(io.MultiReader(strings.NewReader("[White \"A\"]\n"), failingReader{}), "broken")

	_, err := r.Next()

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceRead))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
