package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/factlens/origintrace/pkg/diagram"
	"github.com/factlens/origintrace/pkg/pipeline"
	"github.com/factlens/origintrace/pkg/trace"
)

// layoutCommand creates the layout command for positioning claim graphs.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [analysis.json|graph.json]",
		Short: "Position a claim graph on the drawing frame",
		Long: `Position a claim graph on the drawing frame.

The layout command accepts either an analysis.json file (the graph is derived
first) or a graph.json file produced by 'trace'. Every node is placed on the
frame, overlaps are pushed apart, and positions snap to the grid. The output
is a diagram.json file that can be rendered with the 'export' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.diagram.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.GridSize, "grid", opts.GridSize, "grid size positions snap to")
	cmd.Flags().IntVar(&opts.Passes, "passes", opts.Passes, "overlap resolution passes")

	return cmd
}

// runLayout loads the input, positions the graph, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := loadGraph(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	d, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
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
		outputPath = base + ".diagram.json"
	}

	if err := diagram.WriteDiagramFile(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(d.Nodes), len(d.Edges), cacheHit)
	printNewline()
	printNextStep("Export", "origintrace export "+outputPath)

	return nil
}

// loadGraph reads input as either an analysis or a graph document, detected
// by the presence of a claim field. Analyses are traced into graphs first,
// going through the cache like everything else.
func loadGraph(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (diagram.Graph, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return diagram.Graph{}, fmt.Errorf("read %s: %w", input, err)
	}

	var probe struct {
		Claim string `json:"claim"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return diagram.Graph{}, fmt.Errorf("decode %s: %w", input, err)
	}

	if probe.Claim != "" {
		a, err := trace.ReadAnalysis(bytes.NewReader(data))
		if err != nil {
			return diagram.Graph{}, fmt.Errorf("load analysis %s: %w", input, err)
		}
		loggerFromContext(ctx).Infof("Tracing %q", a.Claim)
		g, _, err := runner.BuildWithCacheInfo(ctx, a, opts)
		if err != nil {
			return diagram.Graph{}, fmt.Errorf("build graph: %w", err)
		}
		return g, nil
	}

	g, err := diagram.ReadGraph(bytes.NewReader(data))
	if err != nil {
		return diagram.Graph{}, fmt.Errorf("load graph %s: %w", input, err)
	}
	if len(g.Nodes) == 0 {
		return diagram.Graph{}, fmt.Errorf("%s contains neither a claim nor nodes; expected an analysis or graph document", input)
	}
	return g, nil
}
