package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symbolscape/symbolscape/pkg/config"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a diagram layout from a raw indexer graph",
		Long: `Compute a diagram layout from a raw indexer graph.

The layout command runs the full pipeline: seed normalization, layered
placement, group containers, edge bundling, and orthogonal routing. The
output is a layout.json with positioned nodes, containers, and routed edge
paths ready for rendering.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				picked, ok, err := pickLayoutOptions(opts)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				opts = picked
			}
			return c.runLayoutCmd(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick layout options interactively")

	// Layout flags
	cmd.Flags().StringVar(&opts.Orientation, "orientation", "", "flow axis: horizontal (default), vertical")
	cmd.Flags().StringVarP(&opts.GroupingMode, "group", "g", "", "grouping mode: none (default), namespace, file")
	cmd.Flags().BoolVar(&opts.BundleEdges, "bundle", false, "bundle many-to-one flow edges onto shared trunks")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "traversal depth reported by the indexer (density heuristic)")
	cmd.Flags().StringSliceVar(&opts.NodeKindFilter, "exclude-kind", nil, "node kinds to drop before seeding")

	return cmd
}

// runLayoutCmd loads the graph, computes the layout, and writes output.
func (c *CLI) runLayoutCmd(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	raw, err := graph.ReadRawGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if raw.Truncated {
		printWarning("Graph was truncated by the indexer; some symbols may be missing")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyLayoutConfig(&opts, cfg)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	s, err := runner.BuildSeed(ctx, raw, opts)
	if err != nil {
		return fmt.Errorf("build seed: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(s.NodeCount(), s.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "symbolscape render "+outputPath)

	return nil
}

// applyLayoutConfig layers config file defaults under unset flags.
func applyLayoutConfig(opts *pipeline.Options, cfg config.Config) {
	if opts.Orientation == "" {
		opts.Orientation = cfg.Layout.Orientation
	}
	if opts.GroupingMode == "" {
		opts.GroupingMode = cfg.Layout.GroupingMode
	}
	if !opts.BundleEdges {
		opts.BundleEdges = cfg.Layout.BundleEdges
	}
}
