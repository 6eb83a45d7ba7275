package codes

import "regexp"

// codeToken matches anything shaped like a field code, known or not.
var codeToken = regexp.MustCompile(`%-?[aAwdbBmyYHIpMSfzZjUWcxX%]`)

// Piece is one run of a composite format: a code-shaped token or literal text.
type Piece struct {
	Text   string
	IsCode bool
}

// Split cuts a composite format into code tokens and literal runs, scanning
// left to right without overlap. Joining the Text of every piece returns
// the input unchanged.
func Split(format string) []Piece {
	var pieces []Piece
	last := 0
	for _, loc := range codeToken.FindAllStringIndex(format, -1) {
		if loc[0] > last {
			pieces = append(pieces, Piece{Text: format[last:loc[0]]})
		}
		pieces = append(pieces, Piece{Text: format[loc[0]:loc[1]], IsCode: true})
		last = loc[1]
	}
	if last < len(format) {
		pieces = append(pieces, Piece{Text: format[last:]})
	}
	return pieces
}

