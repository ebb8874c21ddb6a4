package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
	"github.com/matzehuels/sppgrowth/pkg/render/nodelink"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	minSupport  int
	boundKind   string
	boundParams map[string]string
	format      string
	output      string
	render      nodelink.Options
	noCache     bool
	refresh     bool
}

// treeCommand creates the tree command for rendering the prefix tree.
func (c *CLI) treeCommand() *cobra.Command {
	var o treeOpts

	cmd := &cobra.Command{
		Use:   "tree [transactions]",
		Short: "Render the prefix tree built from a transaction file",
		Long: `Render the prefix tree built from a transaction file.

Only items passing the minimum support (and bound) are inserted, in the
same order the miner uses. Output is Graphviz DOT or SVG.

Examples:
  sppgrowth tree small.dat -s 2 -o tree.svg
  sppgrowth tree small.dat --tids --links -f dot | dot -Tpng > tree.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Input:      args[0],
				MinSupport: c.Config.MinSupport,
				Bound:      c.Config.Bound,
				Refresh:    o.refresh,
			}
			if cmd.Flags().Changed("min-support") {
				opts.MinSupport = o.minSupport
			}
			if cmd.Flags().Changed("bound") || cmd.Flags().Changed("param") {
				opts.Bound = boundFromFlags(o.boundKind, o.boundParams)
			}
			if !cmd.Flags().Changed("format") && o.output != "" {
				if ext := strings.TrimPrefix(filepath.Ext(o.output), "."); ext == pipeline.FormatDOT || ext == pipeline.FormatSVG {
					o.format = ext
				}
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runTree(withLogger(cmd.Context(), c.Logger), opts, o)
		},
	}

	cmd.Flags().IntVarP(&o.minSupport, "min-support", "s", pipeline.DefaultMinSupport, "minimum support count")
	cmd.Flags().StringVar(&o.boundKind, "bound", bound.KindNone, "secondary bound: "+strings.Join(bound.Kinds, ", "))
	cmd.Flags().StringToStringVar(&o.boundParams, "param", nil, "bound parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&o.format, "format", "f", pipeline.FormatSVG, "output format: "+strings.Join(pipeline.TreeFormats, ", "))
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&o.render.ShowTIDs, "tids", false, "label nodes with their transaction ids")
	cmd.Flags().BoolVar(&o.render.ShowLinks, "links", false, "draw node-link chains")
	cmd.Flags().IntVar(&o.render.MaxNodes, "max-nodes", 500, "stop drawing after this many nodes (0 = no limit)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "re-render even if a cached artifact exists")

	return cmd
}

// runTree loads the database and renders its tree.
func (c *CLI) runTree(ctx context.Context, opts pipeline.Options, o treeOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	db, err := pipeline.Load(ctx, opts)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	data, cached, err := runner.RenderTreeWithCacheInfo(ctx, db, opts, o.render, o.format)
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	status := iconFresh
	if cached {
		status = iconCached
	}
	prog.done(fmt.Sprintf("Rendered %s tree (%s)", o.format, status))

	out, err := openOutput(o.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if o.output != "" {
		printFile(o.output)
	}
	return nil
}
