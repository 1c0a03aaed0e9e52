package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/geom"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// newOpts holds the command-line flags for the new command.
type newOpts struct {
	demo   bool
	force  bool
	width  float64
	height float64
}

// newCommand creates the new command that writes a fresh scene document.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Write an empty or demo scene document",
		Long: `Write a new scene document. Without a file argument the document is
printed to stdout. The --demo flag adds a five-point polygon with its
angles labelled.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := "-"
			if len(args) == 1 {
				out = args[0]
			}
			return c.runNew(cmd, out, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.demo, "demo", false, "add the demo polygon")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height (default from config)")

	return cmd
}

func (c *CLI) runNew(cmd *cobra.Command, out string, opts newOpts) error {
	sceneOpts := c.Config.SceneOptions()
	if opts.width > 0 || opts.height > 0 {
		w, h := c.Config.Canvas.Width, c.Config.Canvas.Height
		if opts.width > 0 {
			w = opts.width
		}
		if opts.height > 0 {
			h = opts.height
		}
		if err := errors.ValidateDimensions(w, h); err != nil {
			return err
		}
		sceneOpts = append(sceneOpts, scene.WithSize(w, h))
	}
	s := scene.New(append(sceneOpts, scene.WithLogger(c.Logger))...)
	if opts.demo {
		addDemo(s)
	}
	doc := s.Export()

	if out == "-" {
		return sceneio.WriteJSON(doc, cmd.OutOrStdout())
	}
	if err := errors.ValidatePath(out, false); err != nil {
		return err
	}
	if _, err := os.Stat(out); err == nil && !opts.force {
		return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", out)
	}
	if err := sceneio.ExportJSON(doc, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Created scene")
	printFile(w, out)
	printNextStep(w, "Edit it", appName+" edit "+out)
	return nil
}

// demoPoints is the demo polygon, clockwise from the top left.
var demoPoints = []struct {
	at   geom.Point
	name string
}{
	{geom.Pt(200, 200), "top left"},
	{geom.Pt(500, 200), "top right"},
	{geom.Pt(600, 300), "middle right"},
	{geom.Pt(500, 500), "bottom right"},
	{geom.Pt(200, 500), "bottom left"},
}

// addDemo adds the demo polygon to s with every angle labelled.
func addDemo(s *scene.Scene) *scene.Shape {
	pts := make([]geom.Point, len(demoPoints))
	for i, p := range demoPoints {
		pts[i] = p.at
	}
	sh := s.MustCreatePolygon(pts)
	for i, p := range sh.Points() {
		p.SetName(demoPoints[i].name)
		p.SetShowLabel(true)
	}
	s.AddChild(sh)
	return sh
}
