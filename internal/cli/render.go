package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/pipeline"
)

// renderCommand creates the render command for drawing a scene document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene document to PNG or SVG",
		Long: `Render a scene document to PNG or SVG.

The document is imported first, which repairs damaged topology, then drawn
at its own canvas size. Results are cached locally keyed by the repaired
document and the render options.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if !cmd.Flags().Changed("scale") {
				opts.Scale = c.Config.Render.Scale
			}
			if !cmd.Flags().Changed("font") {
				opts.Font = c.Config.Render.Font
			}
			opts.AbstractRightAngle = opts.AbstractRightAngle || c.Config.Render.AbstractRightAngle
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.ShowGrid, "grid", false, "draw the grid")
	cmd.Flags().BoolVar(&opts.AbstractRightAngle, "abstract-right-angle", false, "mark right angles with a square")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (name or #hex)")
	cmd.Flags().StringVar(&opts.Font, "font", "", "label font: regular (default), mono")
	cmd.Flags().BoolVar(&opts.EmbedFont, "embed-font", false, "embed the label font in SVG output")

	return cmd
}

// runRender loads the document and renders it.
func (c *CLI) runRender(ctx context.Context, stdout, stderr io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := sceneio.ImportJSON(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, stderr, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		stdout:    stdout,
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		elements:  result.Stats.Elements,
		hash:      result.DocHash,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams holds everything writeArtifacts needs.
type artifactWriteParams struct {
	stdout    io.Writer
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	suffix    string
	elements  int
	hash      string
	cacheHit  bool
}

// writeArtifacts writes each artifact to its file, or a single artifact to
// stdout when output is "-".
func writeArtifacts(p artifactWriteParams) error {
	if p.output == "-" {
		if len(p.formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
		}
		_, err := p.stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	var paths []string
	for _, format := range p.formats {
		path := outputPath(p.output, p.input, p.suffix, format, len(p.formats) == 1)
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess(p.stdout, "Rendered %s", filepath.Base(p.input))
	printStats(p.stdout, p.elements, p.hash, p.cacheHit)
	for _, path := range paths {
		printFile(p.stdout, path)
	}
	return nil
}

// outputPath derives the path of one artifact. A single artifact goes to
// output verbatim when given; otherwise the path is the base with suffix
// and the format extension.
func outputPath(output, input, suffix, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + suffix + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.RenderFormats, ext) || slices.Contains(pipeline.TopologyFormats, ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
