package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/export"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// dotCommand creates the dot command for exporting layouts to Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot [layout.json]",
		Short: "Export a layout as Graphviz DOT or SVG",
		Long: `Export a layout as Graphviz DOT, with every node pinned at its computed
position. With --svg the DOT is rendered by the neato engine, which keeps the
pinned positions, for a quick visual check of placement and back edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(cmd.Context(), args[0], output, svg, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.dot or <input>.svg)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of writing DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include rank and metadata in node labels")

	return cmd
}

func runDot(ctx context.Context, input, output string, svg, detailed bool) error {
	logger := loggerFromContext(ctx)

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	dot := export.ToDOT(l, export.Options{Detailed: detailed})

	data, ext := []byte(dot), ".dot"
	if svg {
		prog := newProgress(logger)
		data, err = export.RenderSVG(ctx, dot)
		if err != nil {
			printError("SVG rendering failed")
			return fmt.Errorf("render svg: %w", err)
		}
		prog.done("Rendered SVG")
		ext = ".svg"
	}

	if output == "" {
		output = strings.TrimSuffix(strings.TrimSuffix(input, filepath.Ext(input)), ".layout") + ext
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Export complete")
	printFile(output)
	return nil
}
