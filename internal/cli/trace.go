package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/factlens/origintrace/pkg/diagram"
	"github.com/factlens/origintrace/pkg/pipeline"
	"github.com/factlens/origintrace/pkg/trace"
)

// traceCommand creates the trace command for deriving claim graphs.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "trace [analysis.json]",
		Short: "Derive a claim graph from a fact-check analysis",
		Long: `Derive a claim graph from a fact-check analysis.

The trace command takes an analysis.json file (the structured result of a
fact-check: claim, verdict, origin, evolution, belief drivers, sources) and
derives the node-link graph connecting them. The output is a graph.json file
that can be positioned with the 'layout' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

// runTrace loads the analysis, derives the graph, and writes output.
func (c *CLI) runTrace(ctx context.Context, input, output string, noCache, refresh bool) error {
	logger := loggerFromContext(ctx)

	a, err := trace.ReadAnalysisFile(input)
	if err != nil {
		return fmt.Errorf("load analysis %s: %w", input, err)
	}
	logger.Infof("Tracing %q", a.Claim)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	g, cacheHit, err := runner.BuildWithCacheInfo(ctx, a, pipeline.Options{Refresh: refresh})
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	prog.done(fmt.Sprintf("Derived %d nodes with %d edges", len(g.Nodes), len(g.Edges)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".graph.json"
	}

	if err := diagram.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Trace complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), cacheHit)
	printNewline()
	printNextStep("Layout", "origintrace layout "+outputPath)

	return nil
}
