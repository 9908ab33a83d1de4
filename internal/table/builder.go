// Package table turns game record sequences into game tables and moves tables in and out of CSV.
package table

import (
	"io"

	"github.com/miksipiksic/chess-insights/internal/models"
)

// RecordSource produces game records one at a time and returns io.EOF when exhausted.
type RecordSource interface {
	Next() (models.GameRecord, error)
}

// Build drains src into a GameTable, keeping every record once and in source order.
// Any error other than io.EOF aborts the build and is returned as is.
func Build(src RecordSource) (models.GameTable, error) {
	var rows []models.GameRecord
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.GameTable{}, err
		}
		rows = append(rows, rec)
	}
	return models.NewGameTable(rows), nil
}

// SliceSource replays a fixed slice of records.
type SliceSource struct {
	records []models.GameRecord
	pos     int
}

func NewSliceSource(records []models.GameRecord) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next() (models.GameRecord, error) {
	if s.pos >= len(s.records) {
		return models.GameRecord{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}
