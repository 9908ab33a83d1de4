package table

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/models"
)

// WriteCSV writes the table with a white,black,result,moves header.
func WriteCSV(w io.Writer, t models.GameTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.GameColumns); err != nil {
		return err
	}
	for _, g := range t.Rows {
		if err := cw.Write([]string{g.White, g.Black, g.Result, strconv.Itoa(g.Moves)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a table from CSV. The header decides which game columns the table carries;
// unknown columns are ignored and missing ones are left for the aggregator to reject.
// Rows are numbered from 1, excluding the header.
func ReadCSV(r io.Reader) (models.GameTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return models.GameTable{}, nil
	}
	if err != nil {
		return models.GameTable{}, err
	}

	index := map[string]int{}
	var columns []string
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if !isGameColumn(name) {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		columns = append(columns, name)
	}

	t := models.GameTable{Columns: columns}
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.GameTable{}, err
		}
		row++

		rec := models.GameRecord{
			White:  field(fields, index, models.ColumnWhite),
			Black:  field(fields, index, models.ColumnBlack),
			Result: field(fields, index, models.ColumnResult),
		}
		if _, ok := index[models.ColumnMoves]; ok {
			raw := strings.TrimSpace(field(fields, index, models.ColumnMoves))
			moves, err := strconv.Atoi(raw)
			if err != nil {
				return models.GameTable{}, errors.NewMalformedRecordError(row, "moves is not an integer: "+strconv.Quote(raw))
			}
			if moves < 0 {
				return models.GameTable{}, errors.NewMalformedRecordError(row, "moves is negative")
			}
			rec.Moves = moves
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isGameColumn(name string) bool {
	for _, c := range models.GameColumns {
		if c == name {
			return true
		}
	}
	return false
}

func field(fields []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}
