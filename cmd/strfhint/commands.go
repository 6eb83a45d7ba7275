package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"strfhint/internal/batch"
	"strfhint/internal/codes"
	"strfhint/internal/config"
	"strfhint/internal/output"
	"strfhint/internal/preview"
	"strfhint/internal/recognizer"
	"strfhint/internal/watcher"
)

// errInputs marks a batch run where some inputs could not be read; the
// details were already printed.
var errInputs = errors.New("some inputs could not be read")

// app carries the state shared by every subcommand.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	verbose    bool
	ignore     []string
	preview    bool
	explain    bool
	workers    int

	cfg    *config.Config
	logger *zap.Logger
	out    *output.Output
	table  *codes.Table
	engine *recognizer.Engine
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, table: codes.Default()}

	root := &cobra.Command{
		Use:   "strfhint [text...]",
		Short: "Infer the strftime format of example timestamps",
		Long: `strfhint reverse-engineers strftime format strings from example text.

  strfhint "2023-11-21, 7:20 PM"   =>  %Y-%m-%d, %-I:%M %p

Each argument is decoded on its own. Use "batch" for files and "watch" to
re-hint files as they are edited.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			for _, text := range args {
				a.printResult(text, a.engine.DecodeResult(text))
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (.json, .yaml or .yml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "show bound field types, match mask and debug logs")
	flags.StringSliceVar(&a.ignore, "ignore", nil, "extra tokens that are never decoded (repeatable)")
	flags.BoolVar(&a.preview, "preview", false, "render each inferred format for the reference time")
	flags.BoolVar(&a.explain, "explain", false, "describe every field code of each inferred format")
	flags.IntVarP(&a.workers, "workers", "w", 0, "concurrent decoders for batch and watch")

	root.AddCommand(a.batchCmd(), a.watchCmd(), a.codesCmd())
	return root
}

// setup loads configuration, applies flag overrides and builds the logger,
// output and engine.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preview") {
		cfg.Preview = a.preview
	}
	if flags.Changed("explain") {
		cfg.Explain = a.explain
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	cfg.Ignorable = append(cfg.Ignorable, a.ignore...)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	for _, issue := range config.ValidateIgnorable(cfg, a.table) {
		logger.Warn("ignorable token", zap.String("field", issue.Field), zap.String("issue", issue.Message))
	}

	outCfg := output.DefaultConfig()
	outCfg.Writer = a.stdout
	outCfg.ErrWriter = a.stderr
	outCfg.Verbose = a.verbose
	if a.stdout != os.Stdout {
		outCfg.IsTTY = false
	}
	a.out = output.New(outCfg)

	a.engine = recognizer.New(a.table,
		recognizer.WithLogger(logger.Named("recognizer")),
		recognizer.WithIgnorable(cfg.Ignorable...))
	return nil
}

func (a *app) printResult(source string, res recognizer.Result) {
	a.out.Hint(source, res.Format)

	if a.out.IsVerbose() {
		types := make([]string, len(res.Types))
		for i, t := range res.Types {
			types[i] = t.String()
		}
		a.out.Verbose("  types: %s", strings.Join(types, ", "))
		a.out.Verbose("  mask:  %s", res.Mask)
	}
	if a.cfg.Preview {
		a.out.Info("  preview: %s", preview.Render(res.Format, a.cfg.ReferenceTime()))
	}
	if a.cfg.Explain {
		var rows [][]string
		for _, e := range preview.Explain(res.Format, a.table) {
			rows = append(rows, []string{"  " + e.Code, e.Type.String(), e.Description})
		}
		a.out.Table(rows)
	}
}

func (a *app) newRunner(progress bool) *batch.Runner {
	opts := []batch.Option{
		batch.WithWorkers(a.cfg.Workers),
		batch.WithLogger(a.logger.Named("batch")),
		batch.WithStdin(a.stdin),
	}
	if progress {
		opts = append(opts, batch.WithProgress(func(done, total int) {
			if done == 1 {
				a.out.StartProgress(total)
			}
			a.out.UpdateProgress(done)
		}))
	}
	return batch.New(a.engine, opts...)
}

func (a *app) runBatch(ctx context.Context, paths []string) error {
	runner := a.newRunner(true)

	summary, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	a.out.EndProgress()

	for _, inputErr := range summary.InputErrors {
		a.out.Error("Warning: %v", inputErr)
	}
	for _, res := range summary.Results {
		source := res.Text
		if len(paths) > 1 {
			source = fmt.Sprintf("%s:%d: %s", res.Path, res.Number, res.Text)
		}
		a.printResult(source, res.Result)
	}
	a.out.Verbose("%s", summary.PrintSummary())

	if summary.HasErrors() {
		return errInputs
	}
	return nil
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file...]",
		Short: "Decode every non-blank line of the given files (default: stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{batch.StdinPath}
			}
			return a.runBatch(cmd.Context(), args)
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch path...",
		Short: "Re-hint sample files (or every file of a directory) whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := a.newRunner(false)
			handler := func(path string) error {
				summary, err := runner.Run(ctx, []string{path})
				if err != nil {
					return err
				}
				if summary.HasErrors() {
					return summary.InputErrors[0]
				}
				a.out.Info("== %s", path)
				for _, res := range summary.Results {
					a.printResult(res.Text, res.Result)
				}
				return nil
			}

			w := watcher.New(&watcher.WatchConfig{
				Debounce:       time.Duration(a.cfg.Watch.DebounceMs) * time.Millisecond,
				IgnorePatterns: a.cfg.Watch.IgnorePatterns,
			}, handler, a.logger.Named("watcher"))
			if err := w.Start(args); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			a.out.Info("Watching %s (Ctrl-C to stop)", strings.Join(w.Targets(), ", "))

			<-ctx.Done()
			summary := w.Stop()
			a.out.Info("Re-hinted %d times, %d failures, %d ignored in %s",
				summary.Handled, summary.Failed, summary.Ignored, summary.Duration.Round(time.Second))
			return nil
		},
	}
}

func (a *app) codesCmd() *cobra.Command {
	var formats bool
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the supported field codes (or common formats with --formats)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formats {
				rows := [][]string{{"FORMAT", "PREVIEW"}}
				for _, f := range a.table.CommonFormats() {
					rows = append(rows, []string{f, preview.Render(f, a.cfg.ReferenceTime())})
				}
				a.out.Table(rows)
				return nil
			}

			rows := [][]string{{"CODE", "TYPE", "EXAMPLE", "DESCRIPTION"}}
			for _, code := range a.table.Codes() {
				c, _ := a.table.Describe(code)
				rows = append(rows, []string{c.Code, c.Type.String(), c.Example, c.Description})
			}
			a.out.Table(rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&formats, "formats", false, "list the common date and time formats instead")
	return cmd
}
