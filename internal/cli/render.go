package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/pipeline"
)

// renderCommand creates the render command for generating output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout to SVG, DOT, PNG, or JSON",
		Long: `Render a layout to output artifacts.

The render command takes a layout.json file (produced by 'layout') and paints
it in one or more formats. The native SVG painter is pure Go; the dot and png
formats go through Graphviz, and degrade to an inline failure message when
the engine is unavailable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], parseFormats(formats), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output basename (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: svg, dot, png, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the layout and writes one artifact file per format.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Formats: formats,
		Logger:  c.Logger,
	}

	p := newProgress(c.Logger)
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	p.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(l.Nodes), len(l.Edges), cacheHit)

	return nil
}
