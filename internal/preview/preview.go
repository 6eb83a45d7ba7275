// Package preview renders inferred formats so a user can check them by eye.
package preview

import (
	"time"

	"github.com/ncruces/go-strftime"

	"strfhint/internal/codes"
)

// ReferenceTime is the instant the code table's examples are written for.
var ReferenceTime = time.Date(2013, time.September, 8, 7, 6, 5, 0, time.UTC)

// Render formats t with a strftime format, including the "-" flag
// (%-d, %-I, ...) and %f.
func Render(format string, t time.Time) string {
	return strftime.Format(format, t)
}

// Describer resolves the full record of a field code.
type Describer interface {
	Describe(code string) (codes.Code, bool)
}

// Entry explains one field code of a format.
type Entry struct {
	Code        string
	Type        codes.FieldType
	Description string
	Example     string
}

// Explain lists the known codes of format in order of appearance.
func Explain(format string, d Describer) []Entry {
	var entries []Entry
	for _, p := range codes.Split(format) {
		if !p.IsCode {
			continue
		}
		c, ok := d.Describe(p.Text)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Code:        c.Code,
			Type:        c.Type,
			Description: c.Description,
			Example:     c.Example,
		})
	}
	return entries
}
