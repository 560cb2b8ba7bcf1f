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
	"github.com/symbolscape/symbolscape/pkg/seed"
)

// seedCommand creates the seed command for normalizing raw indexer graphs.
func (c *CLI) seedCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "seed [graph.json]",
		Short: "Normalize a raw indexer graph into a canonical seed",
		Long: `Normalize a raw indexer graph into a canonical seed.

The seed command validates raw indexer output (center node, edge endpoints),
folds member symbols into their host cards, resolves node styles, and assigns
deterministic layer ranks and intra-layer ordering. The output seed.json is
the input of the 'layout' command.

A malformed graph (missing center, dangling edge) fails closed: no partial
seed is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.seed.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringSliceVar(&opts.NodeKindFilter, "exclude-kind", nil, "node kinds to drop before seeding")

	return cmd
}

// runSeed loads the raw graph, builds the seed, and writes output.
func (c *CLI) runSeed(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	raw, err := graph.ReadRawGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
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

	opts.Logger = c.Logger
	s, cacheHit, err := runner.BuildSeedWithCacheInfo(ctx, raw, opts)
	if err != nil {
		return fmt.Errorf("build seed: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".seed.json"
	}

	data, err := seed.Marshal(s)
	if err != nil {
		return fmt.Errorf("serialize seed: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Seed complete")
	printFile(outputPath)
	printStats(s.NodeCount(), s.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Layout", "symbolscape layout "+input)

	return nil
}
