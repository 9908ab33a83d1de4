package table

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/pgn"
)

// Loader builds a game table from a named source.
type Loader interface {
	Load(ctx context.Context, path string) (models.GameTable, error)
}

// FileLoader reads .csv files as exported tables and everything else as PGN.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string) (models.GameTable, error) {
	log := logger.FromContext(ctx).WithPrefix("table")

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		log.Debug("loading game table from csv: %s", path)
		f, err := os.Open(path)
		if err != nil {
			return models.GameTable{}, errors.NewSourceReadError(path, err)
		}
		defer f.Close()

		t, err := ReadCSV(f)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeMalformedRecord) {
				return models.GameTable{}, err
			}
			return models.GameTable{}, errors.NewSourceReadError(path, err)
		}
		log.Debug("loaded %d rows, columns=%v", t.Len(), t.Columns)
		return t, nil
	}

	log.Debug("loading games from pgn: %s", path)
	r, err := pgn.Open(path)
	if err != nil {
		return models.GameTable{}, err
	}
	defer r.Close()
	r.WithLogger(logger.FromContext(ctx))

	t, err := Build(r)
	if err != nil {
		return models.GameTable{}, err
	}
	if n := r.Recovered(); n > 0 {
		log.Warn("%s: %d games had unparseable movetext and were counted up to the first bad move", path, n)
	}
	log.Debug("built game table with %d games", t.Len())
	return t, nil
}
