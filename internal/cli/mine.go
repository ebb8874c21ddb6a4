package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	errs "github.com/matzehuels/sppgrowth/pkg/errors"
	pkgio "github.com/matzehuels/sppgrowth/pkg/io"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
)

// mineOpts holds the command-line flags for the mine command.
type mineOpts struct {
	minSupport  int               // minimum support count
	topK        int               // keep only the k most frequent patterns
	maxLength   int               // longest pattern to grow
	boundKind   string            // secondary bound: none, lability, weight_sum
	boundParams map[string]string // bound parameters as key=value
	format      string            // pattern output format
	output      string            // output file (stdout if empty)
	noCache     bool              // disable the result cache
	refresh     bool              // recompute even on a cache hit
	browse      bool              // open the interactive browser
}

// mineCommand creates the mine command.
func (c *CLI) mineCommand() *cobra.Command {
	var o mineOpts

	cmd := &cobra.Command{
		Use:   "mine [transactions]",
		Short: "Mine frequent patterns from a transaction file",
		Long: `Mine frequent patterns from a transaction file.

Each line holds one transaction: space separated non-negative item ids,
optionally followed by "|tid" to set the transaction id explicitly. Lines
starting with #, % or @ are comments. Files ending in .gz or .zst are
decompressed on the fly.

Examples:
  sppgrowth mine retail.dat -s 50
  sppgrowth mine retail.dat -k 20 -f json -o top20.json
  sppgrowth mine sensors.dat --bound lability --param max_per=3 --param max_la=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.mineOptions(cmd, args[0], &o)
			if err != nil {
				return err
			}
			return c.runMine(withLogger(cmd.Context(), c.Logger), opts, o)
		},
	}

	cmd.Flags().IntVarP(&o.minSupport, "min-support", "s", pipeline.DefaultMinSupport, "minimum support count")
	cmd.Flags().IntVarP(&o.topK, "top-k", "k", 0, "keep only the k patterns with highest support (0 = all)")
	cmd.Flags().IntVar(&o.maxLength, "max-length", pipeline.DefaultMaxLength, "maximum pattern length")
	cmd.Flags().StringVar(&o.boundKind, "bound", bound.KindNone, "secondary bound: "+strings.Join(bound.Kinds, ", "))
	cmd.Flags().StringToStringVar(&o.boundParams, "param", nil, "bound parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&o.format, "format", "f", pkgio.FormatSPMF, "output format: "+strings.Join(pkgio.Formats, ", "))
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&o.browse, "browse", false, "browse patterns interactively instead of writing them")

	return cmd
}

// mineOptions merges config file values with the flags the user set and
// validates the output format.
func (c *CLI) mineOptions(cmd *cobra.Command, input string, o *mineOpts) (pipeline.Options, error) {
	cfg := c.Config
	flags := cmd.Flags()

	opts := pipeline.Options{
		Input:      input,
		MinSupport: cfg.MinSupport,
		TopK:       cfg.TopK,
		MaxLength:  cfg.MaxLength,
		Bound:      cfg.Bound,
		Refresh:    o.refresh,
	}
	if flags.Changed("min-support") {
		opts.MinSupport = o.minSupport
	}
	if flags.Changed("top-k") {
		opts.TopK = o.topK
	}
	if flags.Changed("max-length") {
		opts.MaxLength = o.maxLength
	}
	if flags.Changed("bound") || flags.Changed("param") {
		opts.Bound = boundFromFlags(o.boundKind, o.boundParams)
	}

	format := cfg.Format
	switch {
	case flags.Changed("format"):
		format = o.format
	case o.output != "":
		if f := formatFromPath(o.output); f != "" {
			format = f
		}
	}
	f, err := errs.ValidateFormat(format, pkgio.Formats...)
	if err != nil {
		return opts, err
	}
	o.format = f

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// boundFromFlags turns --bound and --param values into a bound config.
func boundFromFlags(kind string, params map[string]string) bound.Config {
	cfg := bound.Config{Kind: kind}
	if len(params) > 0 {
		cfg.Params = make(map[string]any, len(params))
		for k, v := range params {
			cfg.Params[k] = v
		}
	}
	return cfg
}

// formatFromPath infers a pattern format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return pkgio.FormatJSON
	case ".csv":
		return pkgio.FormatCSV
	case ".txt", ".spmf":
		return pkgio.FormatSPMF
	}
	return ""
}

// runMine executes the pipeline and writes or browses the patterns.
func (c *CLI) runMine(ctx context.Context, opts pipeline.Options, o mineOpts) error {
	logger := loggerFromContext(ctx)

	if o.browse && !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("--browse needs an interactive terminal")
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger.Infof("Mining %s (min support %d)", opts.Input, opts.MinSupport)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Mining patterns...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Mining failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Mined %s patterns", humanize.Comma(int64(len(result.Patterns)))))
	printStats(result.Stats, result.CacheInfo.ResultHit)

	if o.browse {
		_, err := tea.NewProgram(NewPatternListModel(result.Patterns), tea.WithAltScreen()).Run()
		return err
	}
	return writePatterns(result, o.output, o.format)
}

// writePatterns writes the result's patterns to path (or stdout if empty).
func writePatterns(result *pipeline.Result, path, format string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := pkgio.WritePatterns(out, result.Patterns, format); err != nil {
		return err
	}
	if path != "" {
		printSuccess("Wrote %d patterns", len(result.Patterns))
		printFile(path)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

// stdout receives pattern and artifact output when no file is given.
var stdout io.Writer = os.Stdout
