// Package recognizer infers the strftime format that reproduces a textual
// timestamp.
//
// Decoding runs two passes. The first searches the whole text for common
// date and time layouts and replaces each hit with its format. The second
// splits what is left into character-class segments and maps each segment
// to the single field code that fits it best, never binding two codes of
// the same field type.
package recognizer

import (
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"strfhint/internal/codes"
	"strfhint/internal/generator"
	"strfhint/internal/segmenter"
)

// Phase identifies which pass produced a binding.
type Phase int

const (
	PhaseCommon Phase = iota + 1
	PhaseSingle
)

func (p Phase) String() string {
	switch p {
	case PhaseCommon:
		return "common"
	case PhaseSingle:
		return "single"
	default:
		return "unknown"
	}
}

// Binding records one substitution made during a decode.
type Binding struct {
	// Code is a single field code or a whole composite format.
	Code   string
	Types  []codes.FieldType
	Source string
	Phase  Phase
}

// Result is the outcome of a decode call.
type Result struct {
	Format string
	// Types lists bound field types in binding order; no type repeats.
	Types []codes.FieldType
	// Mask has one '0' or '1' per byte of Format; '1' marks bound text.
	Mask     string
	Bindings []Binding
}

type compiledFormat struct {
	format string
	re     *regexp.Regexp
	types  []codes.FieldType
}

type compiledCode struct {
	code string
	typ  codes.FieldType
	re   *regexp.Regexp
	// group is the submatch holding the bare code pattern; 0 when it
	// cannot be told apart from the affixes.
	group int
}

// matchAround returns the first match in context whose code group overlaps
// context[start:end]. Matches made only of a neighbour plus affixes are
// skipped.
func (c *compiledCode) matchAround(context string, start, end int) []int {
	for _, m := range c.re.FindAllStringSubmatchIndex(context, -1) {
		gs, ge := m[2*c.group], m[2*c.group+1]
		if gs >= 0 && gs < end && ge > start {
			return m[:2]
		}
	}
	return nil
}

// codeGroup finds the submatch index of the bare pattern inside its affixed
// rendition by counting the groups of the prefix.
func codeGroup(affixed, bare string) int {
	i := strings.Index(affixed, "("+bare+")")
	if i < 0 {
		return 0
	}
	prefix, err := regexp.Compile(affixed[:i])
	if err != nil {
		return 0
	}
	return prefix.NumSubexp() + 1
}

type candidate struct {
	code   *compiledCode
	length int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIgnorable adds tokens that are always passed through literally.
func WithIgnorable(tokens ...string) Option {
	return func(e *Engine) {
		for _, t := range tokens {
			e.ignorable[strings.ToLower(t)] = struct{}{}
		}
	}
}

// Engine decodes timestamps against a code table. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	lookup    codes.Lookup
	logger    *zap.Logger
	formats   []compiledFormat
	codes     []compiledCode
	ignorable map[string]struct{}
}

// New builds an Engine over lookup. Table patterns that do not compile are
// skipped with a warning.
func New(lookup codes.Lookup, opts ...Option) *Engine {
	e := &Engine{
		lookup:    lookup,
		logger:    zap.NewNop(),
		ignorable: make(map[string]struct{}),
	}
	for _, t := range lookup.IgnorableTokens() {
		e.ignorable[strings.ToLower(t)] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}

	gen := generator.New(lookup)
	for _, format := range lookup.CommonFormats() {
		pattern := gen.Generate(format)
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			e.logger.Warn("skipping common format",
				zap.String("format", format), zap.String("regex", pattern), zap.Error(err))
			continue
		}
		e.formats = append(e.formats, compiledFormat{
			format: format,
			re:     re,
			types:  lookup.TypesOf(format),
		})
	}

	for _, code := range lookup.Codes() {
		typ, ok := lookup.TypeOf(code)
		if !ok {
			continue
		}
		pattern, ok := lookup.RegexOf(code, codes.Affixed)
		if !ok {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			e.logger.Warn("skipping field code",
				zap.String("code", code), zap.String("regex", pattern), zap.Error(err))
			continue
		}
		bare, _ := lookup.RegexOf(code, codes.Bare)
		e.codes = append(e.codes, compiledCode{code: code, typ: typ, re: re, group: codeGroup(pattern, bare)})
	}

	return e
}

// Table returns the code table the engine was built over.
func (e *Engine) Table() codes.Lookup {
	return e.lookup
}

// Decode returns text with every recognized date/time part replaced by its
// strftime code. Unrecognized text is passed through unchanged.
func (e *Engine) Decode(text string) string {
	return e.DecodeResult(text).Format
}

// DecodeResult is Decode with the bound types, mask and bindings exposed.
func (e *Engine) DecodeResult(text string) Result {
	s := newSession(text)
	e.matchPatterns(s)
	e.recognizeSingleCodes(s)
	return Result{
		Format:   s.text,
		Types:    s.types,
		Mask:     s.maskString(),
		Bindings: s.bindings,
	}
}

// matchPatterns replaces the first hit of each common layout, in table
// order. Searches only look inside unmatched windows, so an earlier
// substitution is never re-read, and a layout is skipped once any of its
// field types is bound.
func (e *Engine) matchPatterns(s *session) {
	for i := range e.formats {
		f := &e.formats[i]
		if s.anyConsumed(f.types) {
			continue
		}
		for _, w := range s.unmatched() {
			loc := f.re.FindStringIndex(s.text[w.start:w.end])
			if loc == nil || loc[0] == loc[1] {
				continue
			}
			start, end := w.start+loc[0], w.start+loc[1]
			source := s.text[start:end]
			s.splice(start, end, []piece{{text: f.format, bound: true}})
			s.bind(Binding{Code: f.format, Types: f.types, Source: source, Phase: PhaseCommon})

			if ce := e.logger.Check(zap.DebugLevel, "matched common format"); ce != nil {
				ce.Write(zap.String("format", f.format), zap.String("source", source),
					zap.Int("start", start), zap.Int("end", end))
			}
			break
		}
	}
}

// recognizeSingleCodes decodes every unmatched window segment by segment
// and splices the result back. Windows are visited left to right; shift
// tracks how much earlier replacements moved the later windows.
func (e *Engine) recognizeSingleCodes(s *session) {
	shift := 0
	for _, w := range s.unmatched() {
		start, end := w.start+shift, w.end+shift
		pieces := e.matchSegments(s, segmenter.Segment(s.text[start:end]))
		n := s.splice(start, end, pieces)
		shift += n - (end - start)
	}
}

func (e *Engine) matchSegments(s *session, segments []string) []piece {
	pieces := make([]piece, 0, len(segments))
	for i, seg := range segments {
		if !hasWordChar(seg) || e.isIgnorable(seg) {
			pieces = append(pieces, piece{text: seg})
			continue
		}

		lower := strings.ToLower(seg)
		var prev, next string
		if i > 0 {
			prev = strings.ToLower(segments[i-1])
		}
		if i < len(segments)-1 {
			next = strings.ToLower(segments[i+1])
		}

		found := e.candidates(s, prev+lower+next, len(prev), lower)
		best, ok := pickCandidate(found)
		if !ok {
			pieces = append(pieces, piece{text: seg})
			continue
		}

		s.bind(Binding{
			Code:   best.code.code,
			Types:  []codes.FieldType{best.code.typ},
			Source: seg,
			Phase:  PhaseSingle,
		})
		pieces = append(pieces, piece{text: best.code.code, bound: true})

		if ce := e.logger.Check(zap.DebugLevel, "matched field code"); ce != nil {
			ce.Write(zap.String("segment", seg), zap.String("code", best.code.code),
				zap.Int("length", best.length), zap.Int("candidates", len(found)))
		}
	}
	return pieces
}

// candidates collects every code whose type is still free and whose affixed
// regex matches the segment inside the expanded context, or failing that the
// bare segment. offset is where the segment starts inside context.
func (e *Engine) candidates(s *session, context string, offset int, segment string) []candidate {
	var found []candidate
	for i := range e.codes {
		c := &e.codes[i]
		if s.consumed(c.typ) {
			continue
		}
		loc := c.matchAround(context, offset, offset+len(segment))
		if loc == nil {
			loc = c.re.FindStringIndex(segment)
		}
		if loc == nil {
			continue
		}
		found = append(found, candidate{code: c, length: loc[1] - loc[0]})
	}
	return found
}

// pickCandidate keeps table order when every match has the same length and
// otherwise takes the longest, falling back to table order among equals.
func pickCandidate(found []candidate) (candidate, bool) {
	if len(found) == 0 {
		return candidate{}, false
	}
	for _, c := range found[1:] {
		if c.length != found[0].length {
			slices.SortStableFunc(found, func(a, b candidate) int {
				return b.length - a.length
			})
			break
		}
	}
	return found[0], true
}

func (e *Engine) isIgnorable(seg string) bool {
	_, ok := e.ignorable[strings.ToLower(seg)]
	return ok
}

func hasWordChar(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			return true
		}
	}
	return false
}
