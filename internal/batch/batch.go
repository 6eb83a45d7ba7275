// Package batch decodes every line of sample files concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"strfhint/internal/recognizer"
)

// StdinPath names standard input in a list of input paths.
const StdinPath = "-"

// InputError represents an input that could not be read.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Line is one non-blank line of an input.
type Line struct {
	Path   string
	Number int // 1-based
	Text   string
}

// LineResult is the decode outcome of a single line.
type LineResult struct {
	Line
	Result recognizer.Result
}

// Recognized reports whether any code was bound for the line.
func (r LineResult) Recognized() bool {
	return len(r.Result.Bindings) > 0
}

// Summary represents the overall results of a batch run.
type Summary struct {
	Inputs      int
	Lines       int
	Recognized  int
	Unchanged   int
	Results     []LineResult
	InputErrors []error
	Duration    time.Duration
}

// HasErrors returns true if any input could not be read.
func (s *Summary) HasErrors() bool {
	return len(s.InputErrors) > 0
}

// PrintSummary returns a formatted summary string.
func (s *Summary) PrintSummary() string {
	return fmt.Sprintf("Decoded %d lines from %d inputs: %d recognized, %d unchanged, %d input errors",
		s.Lines, s.Inputs, s.Recognized, s.Unchanged, len(s.InputErrors))
}

// ProgressFunc is called after each decoded line with the running count.
type ProgressFunc func(done, total int)

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent decoders.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProgress sets a progress callback. It may be called concurrently.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithStdin sets the reader used for StdinPath.
func WithStdin(stdin io.Reader) Option {
	return func(r *Runner) {
		r.stdin = stdin
	}
}

// Runner decodes lines with a shared engine.
type Runner struct {
	engine   *recognizer.Engine
	workers  int
	logger   *zap.Logger
	progress ProgressFunc
	stdin    io.Reader
}

// New creates a Runner. The default worker count is 4.
func New(engine *recognizer.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		workers: 4,
		logger:  zap.NewNop(),
		stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads every input, decodes all lines and returns the summary. An
// unreadable input is recorded and the remaining inputs are still decoded.
// Only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		Inputs:      len(paths),
		Results:     make([]LineResult, 0),
		InputErrors: make([]error, 0),
	}

	var lines []Line
	for _, path := range paths {
		read, err := r.readInput(path)
		if err != nil {
			r.logger.Warn("skipping input", zap.String("path", path), zap.Error(err))
			summary.InputErrors = append(summary.InputErrors, err)
			continue
		}
		lines = append(lines, read...)
	}

	results, err := r.Decode(ctx, lines)
	if err != nil {
		return nil, err
	}

	summary.Lines = len(results)
	summary.Results = results
	for _, res := range results {
		if res.Recognized() {
			summary.Recognized++
		} else {
			summary.Unchanged++
		}
	}
	summary.Duration = time.Since(start)

	r.logger.Debug("batch finished",
		zap.Int("inputs", summary.Inputs),
		zap.Int("lines", summary.Lines),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// Decode decodes lines concurrently. Results keep the order of lines.
func (r *Runner) Decode(ctx context.Context, lines []Line) ([]LineResult, error) {
	results := make([]LineResult, len(lines))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = LineResult{Line: line, Result: r.engine.DecodeResult(line.Text)}
			n := done.Add(1)
			if r.progress != nil {
				r.progress(int(n), len(lines))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) readInput(path string) ([]Line, error) {
	if path == StdinPath {
		lines, err := ReadLines(path, r.stdin)
		if err != nil {
			return nil, &InputError{Path: path, Err: err}
		}
		return lines, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	lines, err := ReadLines(path, f)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	return lines, nil
}

// ReadLines returns the non-blank lines of rd with trailing "\r" removed.
func ReadLines(path string, rd io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	number := 0
	for scanner.Scan() {
		number++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{Path: path, Number: number, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
