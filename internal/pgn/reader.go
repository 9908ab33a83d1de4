package pgn

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/miksipiksic/chess-insights/internal/errors"
	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/miksipiksic/chess-insights/internal/models"
)

const maxLineSize = 1 << 20

// Reader yields one GameRecord per game of a PGN stream, in stream order.
// It is not safe for concurrent use.
type Reader struct {
	name      string
	closer    io.Closer
	scanner   *bufio.Scanner
	log       *logger.Logger
	carry     string
	hasNext   bool
	games     int
	recovered int
}

// Open opens the PGN file at path. Reopening a file yields the same sequence again.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceReadError(path, err)
	}
	r := NewReader(f, path)
	r.closer = f
	return r, nil
}

// NewReader reads games from r. name identifies the source in errors and logs.
func NewReader(r io.Reader, name string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{name: name, scanner: sc, log: logger.Default().WithPrefix("pgn")}
}

// WithLogger sets the logger that receives per-game warnings.
func (r *Reader) WithLogger(l *logger.Logger) *Reader {
	if l != nil {
		r.log = l.WithPrefix("pgn")
	}
	return r
}

// Recovered reports how many games so far had movetext the PGN parser rejected.
func (r *Reader) Recovered() int {
	return r.recovered
}

// Next returns the next game, or io.EOF once the stream is exhausted.
// Missing White/Black tags become "" and a missing or empty Result tag becomes "*".
//
// A game whose movetext cannot be parsed is still returned. Its Moves is the
// number of leading legal half-moves and a warning names the game number.
// Only I/O failures end the stream with a SourceReadError.
func (r *Reader) Next() (models.GameRecord, error) {
	tags, movetext, err := r.nextGameText()
	if err != nil {
		return models.GameRecord{}, err
	}
	r.games++

	headers := ParsePGNHeaders(tags)
	result := headers["Result"]
	if result == "" {
		result = models.ResultUnknown
	}

	if strings.TrimSpace(movetext) == "" {
		return models.GameRecord{White: headers["White"], Black: headers["Black"], Result: result}, nil
	}

	movetext = NormalizeCastling(movetext)
	moves, err := CountMainlineMoves(tags + "\n" + movetext)
	if err != nil {
		r.recovered++
		var replayErr error
		moves, replayErr = ReplayMainline(movetext)
		if replayErr != nil {
			r.log.Warn("%s: game %d: movetext stops at ply %d: %v", r.name, r.games, moves, replayErr)
		} else {
			r.log.Warn("%s: game %d: pgn parser rejected game (%v), replayed %d plies", r.name, r.games, err, moves)
		}
	}

	return models.GameRecord{
		White:  headers["White"],
		Black:  headers["Black"],
		Result: result,
		Moves:  moves,
	}, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// nextGameText collects the tag and movetext lines of one game.
// A tag line opens the next game when it follows movetext, or when a blank
// line separates it from earlier tags of a game that never had movetext.
func (r *Reader) nextGameText() (string, string, error) {
	var tags, moves strings.Builder
	hasTags, hasMoves, gap := false, false, false

	if r.hasNext {
		tags.WriteString(r.carry)
		tags.WriteByte('\n')
		hasTags = true
		r.carry, r.hasNext = "", false
	}

	for r.scanner.Scan() {
		line := strings.TrimRight(r.scanner.Text(), "\r")
		line = strings.TrimPrefix(line, "\ufeff")
		trimmed := strings.TrimSpace(line)
		isTag := strings.HasPrefix(trimmed, "[")

		if isTag && (hasMoves || (hasTags && gap)) {
			r.carry, r.hasNext = line, true
			return tags.String(), moves.String(), nil
		}
		switch {
		case trimmed == "":
			if hasTags {
				gap = true
			}
		case isTag:
			hasTags = true
			tags.WriteString(line)
			tags.WriteByte('\n')
		default:
			hasMoves = true
			moves.WriteString(line)
			moves.WriteByte('\n')
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", "", errors.NewSourceReadError(r.name, err)
	}
	if !hasTags && !hasMoves {
		return "", "", io.EOF
	}
	return tags.String(), moves.String(), nil
}
