// Package output prints hints, tables and the batch progress line.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"golang.org/x/term"
)

// blankLine overwrites a progress line in place.
var blankLine = "\r" + strings.Repeat(" ", 60) + "\r"

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Show types, masks and the source of every hint
	Writer    io.Writer // Hints and tables (default: os.Stdout)
	ErrWriter io.Writer // Warnings about unreadable inputs (default: os.Stderr)
	IsTTY     bool      // Writer is a terminal
}

// DefaultConfig returns a Config writing to the standard streams, with TTY
// detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// progress is the "Decoding line N/M..." line shown during batch runs.
type progress struct {
	mu     sync.Mutex
	active bool
	total  int
}

// Output writes decode results. Messages share the writer with the
// progress line, which is cleared before anything else is printed.
type Output struct {
	config   Config
	progress progress
}

// New creates an Output. Nil writers fall back to the standard streams.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// Hint prints an inferred format. On a terminal, or in verbose mode, the
// source text is shown next to it; piped output carries the format alone
// so scripts can consume it.
func (o *Output) Hint(source, format string) {
	if o.config.IsTTY || o.config.Verbose {
		o.Info("%s\t=> %s", source, format)
		return
	}
	o.Info("%s", format)
}

// Table prints rows as aligned columns.
func (o *Output) Table(rows [][]string) {
	o.clearProgress()
	tw := tabwriter.NewWriter(o.config.Writer, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Verbose prints a line only in verbose mode.
func (o *Output) Verbose(format string, args ...interface{}) {
	if o.config.Verbose {
		o.println(o.config.Writer, format, args...)
	}
}

// Info prints a line.
func (o *Output) Info(format string, args ...interface{}) {
	o.println(o.config.Writer, format, args...)
}

// Error prints a line to the error writer.
func (o *Output) Error(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, format, args...)
}

func (o *Output) println(w io.Writer, format string, args ...interface{}) {
	o.clearProgress()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// showProgress reports whether the progress line is drawn at all. It would
// garble piped output and interleave with verbose lines.
func (o *Output) showProgress() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// StartProgress begins a progress line over total input lines.
func (o *Output) StartProgress(total int) {
	if !o.showProgress() {
		return
	}
	o.progress.mu.Lock()
	defer o.progress.mu.Unlock()
	o.progress.active = true
	o.progress.total = total
}

// UpdateProgress redraws the progress line with done lines decoded.
func (o *Output) UpdateProgress(done int) {
	if !o.showProgress() {
		return
	}
	o.progress.mu.Lock()
	defer o.progress.mu.Unlock()
	if !o.progress.active {
		return
	}
	fmt.Fprintf(o.config.Writer, "\rDecoding line %d/%d...", done, o.progress.total)
}

// EndProgress erases the progress line.
func (o *Output) EndProgress() {
	if !o.showProgress() {
		return
	}
	o.progress.mu.Lock()
	defer o.progress.mu.Unlock()
	if !o.progress.active {
		return
	}
	o.progress.active = false
	fmt.Fprint(o.config.Writer, blankLine)
}

func (o *Output) clearProgress() {
	o.progress.mu.Lock()
	defer o.progress.mu.Unlock()
	if o.progress.active && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, blankLine)
	}
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}
