package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/pipeline"
)

// topologyCommand creates the topology command that draws a document's
// ownership tree.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "topology [scene.json]",
		Short: "Draw the ownership tree of a scene document",
		Long: `Draw the ownership tree of a scene document through Graphviz.

Each node is an element: shapes own their points and lines, dividers own
their handles. With --detailed, nodes show positions, angles and lengths,
and dashed edges link every line to the points its ends follow. Run it on
a document before and after an edit to see what a topology repair did.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatDOT)
			if err := opts.ValidateForTopology(); err != nil {
				return err
			}
			return c.runTopology(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show positions and point bindings")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runTopology loads the document and draws its tree.
func (c *CLI) runTopology(ctx context.Context, stdout io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := sceneio.ImportJSON(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	result, err := runner.Topology(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("topology: %w", err)
	}
	prog.done(fmt.Sprintf("Drew tree of %d elements", result.Stats.Elements))

	return writeArtifacts(artifactWriteParams{
		stdout:    stdout,
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		suffix:    ".tree",
		elements:  result.Stats.Elements,
		hash:      result.DocHash,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}
