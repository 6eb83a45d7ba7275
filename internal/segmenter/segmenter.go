// Package segmenter splits text into runs of one character class.
package segmenter

import (
	"fmt"
	"unicode/utf8"
)

// Class is the character class of a single rune.
type Class int

const (
	// None covers every rune outside the four ASCII classes.
	None Class = iota
	Digit
	Letter
	Punctuation
	Whitespace
)

func (c Class) String() string {
	switch c {
	case Digit:
		return "digits"
	case Letter:
		return "letters"
	case Punctuation:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	default:
		return "none"
	}
}

const (
	punctuationChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	whitespaceChars  = " \t\n\r\v\f"
)

// asciiClass memoizes the class of every ASCII rune; runes beyond ASCII
// are always None.
var asciiClass [utf8.RuneSelf]Class

func init() {
	for r := '0'; r <= '9'; r++ {
		asciiClass[r] = Digit
	}
	for r := 'a'; r <= 'z'; r++ {
		asciiClass[r] = Letter
		asciiClass[r-'a'+'A'] = Letter
	}
	for i := 0; i < len(punctuationChars); i++ {
		asciiClass[punctuationChars[i]] = Punctuation
	}
	for i := 0; i < len(whitespaceChars); i++ {
		asciiClass[whitespaceChars[i]] = Whitespace
	}
}

// ClassOf returns the class of r.
func ClassOf(r rune) Class {
	if r >= 0 && r < utf8.RuneSelf {
		return asciiClass[r]
	}
	return None
}

// Classify returns the class of a one-character string. Any other length
// is a caller bug and panics.
func Classify(s string) Class {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		panic(fmt.Sprintf("segmenter: Classify requires a single character, got %q", s))
	}
	return ClassOf(r)
}

// Segment splits text at every change of character class. The segments are
// non-empty, single-class and concatenate back to text.
func Segment(text string) []string {
	if text == "" {
		return nil
	}

	var segments []string
	start := 0
	prev := None
	for i, r := range text {
		class := ClassOf(r)
		if i > 0 && class != prev {
			segments = append(segments, text[start:i])
			start = i
		}
		prev = class
	}
	return append(segments, text[start:])
}
