// Package codes holds the strftime field-code table used by strfhint.
package codes

import (
	"sort"
	"strings"
)

// FieldType is the semantic category a field code renders.
// At most one code of a given FieldType is bound per decode.
type FieldType int

const (
	Year FieldType = iota + 1
	MonthNum
	MonthName
	MonthdayNum
	Hours
	Minutes
	Seconds
	Microseconds
	AmPm
	WeekdayName
	WeekdayNum
	Yearday
	WeekNum
	Timezone
	Literal
)

var fieldTypeNames = map[FieldType]string{
	Year:         "YEAR",
	MonthNum:     "MONTH_NUM",
	MonthName:    "MONTH_NAME",
	MonthdayNum:  "MONTHDAY_NUM",
	Hours:        "HOURS",
	Minutes:      "MINUTES",
	Seconds:      "SECONDS",
	Microseconds: "MICROSECONDS",
	AmPm:         "AM_PM",
	WeekdayName:  "WEEKDAY_NAME",
	WeekdayNum:   "WEEKDAY_NUM",
	Yearday:      "YEARDAY",
	WeekNum:      "WEEK_NUM",
	Timezone:     "TIMEZONE",
	Literal:      "LITERAL",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Affix selects which regex rendition of a code is returned.
type Affix int

const (
	// Bare is the code's pattern with no context.
	Bare Affix = iota
	// WordBordered wraps the bare pattern in \b(...)\b.
	WordBordered
	// Affixed wraps the bare pattern with the code's own prefix and suffix.
	Affixed
)

// Code describes one strftime field code.
type Code struct {
	Code        string
	Description string
	Example     string
	Type        FieldType
	Prefix      string
	Suffix      string
	Regex       string
}

// Lookup is the read-only capability the recognition engine needs from a
// code table. Misses are reported with ok == false.
type Lookup interface {
	// Codes returns every field code in table iteration order.
	Codes() []string
	RegexOf(code string, affix Affix) (string, bool)
	TypeOf(code string) (FieldType, bool)
	TypesOf(format string) []FieldType
	// CommonFormats returns date layouts followed by time layouts.
	CommonFormats() []string
	IgnorableTokens() []string
}

// Table is an immutable code table.
type Table struct {
	codes       []Code
	index       map[string]int
	dateFormats []string
	timeFormats []string
	ignorable   map[string]struct{}
}

// NewTable builds a table from ordered codes, composite layouts and
// ignorable tokens. Later duplicates of a code replace earlier ones in place.
func NewTable(codes []Code, dateFormats, timeFormats, ignorable []string) *Table {
	t := &Table{
		index:       make(map[string]int, len(codes)),
		dateFormats: append([]string(nil), dateFormats...),
		timeFormats: append([]string(nil), timeFormats...),
		ignorable:   make(map[string]struct{}, len(ignorable)),
	}
	for _, c := range codes {
		if i, exists := t.index[c.Code]; exists {
			t.codes[i] = c
			continue
		}
		t.index[c.Code] = len(t.codes)
		t.codes = append(t.codes, c)
	}
	for _, token := range ignorable {
		t.ignorable[strings.ToLower(token)] = struct{}{}
	}
	return t
}

// Codes returns every field code in table order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.codes))
	for i, c := range t.codes {
		out[i] = c.Code
	}
	return out
}

// Describe returns the full record of a code.
func (t *Table) Describe(code string) (Code, bool) {
	i, ok := t.index[code]
	if !ok {
		return Code{}, false
	}
	return t.codes[i], true
}

// RegexOf returns the pattern of a code in the requested rendition.
func (t *Table) RegexOf(code string, affix Affix) (string, bool) {
	c, ok := t.Describe(code)
	if !ok {
		return "", false
	}
	switch affix {
	case Bare:
		return c.Regex, true
	case WordBordered:
		return `\b(` + c.Regex + `)\b`, true
	case Affixed:
		return c.Prefix + "(" + c.Regex + ")" + c.Suffix, true
	default:
		return "", false
	}
}

// TypeOf returns the field type of a code.
func (t *Table) TypeOf(code string) (FieldType, bool) {
	c, ok := t.Describe(code)
	if !ok {
		return 0, false
	}
	return c.Type, true
}

// TypesOf returns the field types of the codes embedded in a composite
// format, left to right. Literals and unknown codes are skipped.
func (t *Table) TypesOf(format string) []FieldType {
	return TypesOf(t, format)
}

// CommonFormats returns the date layouts followed by the time layouts.
func (t *Table) CommonFormats() []string {
	out := make([]string, 0, len(t.dateFormats)+len(t.timeFormats))
	out = append(out, t.dateFormats...)
	return append(out, t.timeFormats...)
}

// DateFormats returns the composite date layouts in table order.
func (t *Table) DateFormats() []string {
	return append([]string(nil), t.dateFormats...)
}

// TimeFormats returns the composite time layouts in table order.
func (t *Table) TimeFormats() []string {
	return append([]string(nil), t.timeFormats...)
}

// IgnorableTokens returns the lowercase ignorable tokens, sorted.
func (t *Table) IgnorableTokens() []string {
	out := make([]string, 0, len(t.ignorable))
	for token := range t.ignorable {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// IsIgnorable reports whether token (any case) is ignorable.
func (t *Table) IsIgnorable(token string) bool {
	_, ok := t.ignorable[strings.ToLower(token)]
	return ok
}

// TypesOf resolves the field types of a composite format against any Lookup.
func TypesOf(l Lookup, format string) []FieldType {
	var types []FieldType
	for _, p := range Split(format) {
		if !p.IsCode {
			continue
		}
		if ft, ok := l.TypeOf(p.Text); ok {
			types = append(types, ft)
		}
	}
	return types
}
