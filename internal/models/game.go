package models

// PGN result tokens.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultUnknown   = "*"
)

// Column names of the tabular game form.
const (
	ColumnWhite  = "white"
	ColumnBlack  = "black"
	ColumnResult = "result"
	ColumnMoves  = "moves"
)

// GameColumns lists the columns every complete GameTable carries, in export order.
var GameColumns = []string{ColumnWhite, ColumnBlack, ColumnResult, ColumnMoves}

// GameRecord is one parsed game reduced to the fields the aggregator needs.
type GameRecord struct {
	White  string `json:"white"`
	Black  string `json:"black"`
	Result string `json:"result"`
	Moves  int    `json:"moves"` // main-line plies
}

// Involves reports whether player held either side.
func (g GameRecord) Involves(player string) bool {
	return g.White == player || g.Black == player
}

// GameTable is an ordered set of games together with the columns it was built with.
// Tables loaded from external tabular data may lack columns.
type GameTable struct {
	Columns []string
	Rows    []GameRecord
}

// NewGameTable returns a table carrying all game columns.
func NewGameTable(rows []GameRecord) GameTable {
	cols := make([]string, len(GameColumns))
	copy(cols, GameColumns)
	return GameTable{Columns: cols, Rows: rows}
}

// HasColumn reports whether the table carries the named column.
func (t GameTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the game columns absent from the table.
func (t GameTable) MissingColumns() []string {
	var missing []string
	for _, c := range GameColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func (t GameTable) Len() int {
	return len(t.Rows)
}
