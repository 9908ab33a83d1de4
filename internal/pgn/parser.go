package pgn

import (
	"regexp"
	"strings"

	"github.com/corentings/chess/v2"
)

var (
	headerRe      = regexp.MustCompile(`\[(\w+)\s+"((?:[^"\\]|\\.)*)"\]`)
	zeroCastleRe  = regexp.MustCompile(`(^|[\s.])0-0(-0)?`)
	commentRe     = regexp.MustCompile(`\{[^}]*\}|;[^\n]*`)
	nagRe         = regexp.MustCompile(`\$\d+`)
	moveNumberRe  = regexp.MustCompile(`^\d+\.+`)
	tagEscapeRepl = strings.NewReplacer(`\"`, `"`, `\\`, `\`)
)

// ParsePGNHeaders extracts PGN header tags into a map
func ParsePGNHeaders(pgn string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgn, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = tagEscapeRepl.Replace(m[2])
		}
	}
	return out
}

// CountMainlineMoves returns the number of half-moves in the game's main line.
func CountMainlineMoves(pgn string) (int, error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return 0, err
	}
	return len(chess.NewGame(opt).Moves()), nil
}

// ReplayMainline plays the SAN moves of movetext from the initial position and
// returns how many were legal before the first one that was not.
// Comments, variations, NAGs, move numbers and result tokens are skipped.
func ReplayMainline(movetext string) (int, error) {
	game := chess.NewGame()
	plies := 0
	for _, tok := range sanTokens(movetext) {
		if err := playSAN(game, tok); err != nil {
			return plies, err
		}
		plies++
	}
	return plies, nil
}

// playSAN accepts check and mate markers whether or not the source wrote them.
func playSAN(game *chess.Game, tok string) error {
	notation := chess.AlgebraicNotation{}
	pos := game.Position()
	bare := strings.TrimRight(tok, "+#")
	var firstErr error
	for _, candidate := range []string{tok, bare, bare + "+", bare + "#"} {
		move, err := notation.Decode(pos, candidate)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return game.Move(move, nil)
	}
	return firstErr
}

// NormalizeCastling rewrites zero-style castling (0-0, 0-0-0) to SAN letters.
func NormalizeCastling(movetext string) string {
	return zeroCastleRe.ReplaceAllStringFunc(movetext, func(m string) string {
		prefix := ""
		if m[0] != '0' {
			prefix, m = m[:1], m[1:]
		}
		if m == "0-0-0" {
			return prefix + "O-O-O"
		}
		return prefix + "O-O"
	})
}

func sanTokens(movetext string) []string {
	text := nagRe.ReplaceAllString(commentRe.ReplaceAllString(movetext, " "), " ")
	text = stripVariations(text)

	var out []string
	for _, tok := range strings.Fields(text) {
		tok = moveNumberRe.ReplaceAllString(tok, "")
		tok = strings.TrimRight(tok, "!?")
		switch tok {
		case "", "1-0", "0-1", "1/2-1/2", "*":
			continue
		}
		out = append(out, tok)
	}
	return out
}

func stripVariations(text string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '(':
			depth++
			sb.WriteByte(' ')
		case r == ')':
			if depth > 0 {
				depth--
			}
			sb.WriteByte(' ')
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
