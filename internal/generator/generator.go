// Package generator turns composite strftime formats into search regexes.
package generator

import (
	"regexp"
	"strings"
	"sync"

	"strfhint/internal/codes"
)

// Generator substitutes every known field code of a composite format with
// a parenthesized capture of its bare regex. Results are memoized per
// format; the cache is unbounded because the set of formats is small and
// the table never changes.
type Generator struct {
	lookup codes.Lookup
	cache  sync.Map // format -> regex string
}

// New creates a Generator over the given code table.
func New(lookup codes.Lookup) *Generator {
	return &Generator{lookup: lookup}
}

// Generate returns the combined regex for format. Literal text is quoted so
// separators such as "." match themselves. Code-shaped tokens missing from
// the table are left as they are.
func (g *Generator) Generate(format string) string {
	if cached, ok := g.cache.Load(format); ok {
		return cached.(string)
	}

	var b strings.Builder
	for _, p := range codes.Split(format) {
		if !p.IsCode {
			b.WriteString(regexp.QuoteMeta(p.Text))
			continue
		}
		re, ok := g.lookup.RegexOf(p.Text, codes.Bare)
		if !ok {
			b.WriteString(p.Text)
			continue
		}
		b.WriteString("(")
		b.WriteString(re)
		b.WriteString(")")
	}

	result := b.String()
	g.cache.Store(format, result)
	return result
}
