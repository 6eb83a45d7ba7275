package recognizer

import "strfhint/internal/codes"

// span is a half-open byte range of the working string.
type span struct {
	start, end int
}

// piece is one emitted run of replacement text. Bound pieces are field
// codes or composite formats; the rest are literals copied from the input.
type piece struct {
	text  string
	bound bool
}

// session is the state of a single decode call: the working string, its
// mask and the field types bound so far. It is never shared between calls.
type session struct {
	text     string
	mask     []bool
	bound    map[codes.FieldType]bool
	types    []codes.FieldType
	bindings []Binding
}

func newSession(text string) *session {
	return &session{
		text:  text,
		mask:  make([]bool, len(text)),
		bound: make(map[codes.FieldType]bool),
	}
}

func (s *session) consumed(t codes.FieldType) bool {
	return s.bound[t]
}

func (s *session) anyConsumed(types []codes.FieldType) bool {
	for _, t := range types {
		if s.bound[t] {
			return true
		}
	}
	return false
}

func (s *session) bind(b Binding) {
	for _, t := range b.Types {
		s.bound[t] = true
		s.types = append(s.types, t)
	}
	s.bindings = append(s.bindings, b)
}

// splice replaces text[start:end] with pieces. The mask is resized with
// the text so both keep the same length.
func (s *session) splice(start, end int, pieces []piece) int {
	var text []byte
	var mask []bool
	for _, p := range pieces {
		text = append(text, p.text...)
		for i := 0; i < len(p.text); i++ {
			mask = append(mask, p.bound)
		}
	}

	s.text = s.text[:start] + string(text) + s.text[end:]

	newMask := make([]bool, 0, len(s.mask)-(end-start)+len(mask))
	newMask = append(newMask, s.mask[:start]...)
	newMask = append(newMask, mask...)
	s.mask = append(newMask, s.mask[end:]...)

	return len(text)
}

// unmatched returns every maximal run of unconsumed bytes.
func (s *session) unmatched() []span {
	var spans []span
	start := -1
	for i, m := range s.mask {
		switch {
		case !m && start < 0:
			start = i
		case m && start >= 0:
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(s.mask)})
	}
	return spans
}

func (s *session) maskString() string {
	out := make([]byte, len(s.mask))
	for i, m := range s.mask {
		if m {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
