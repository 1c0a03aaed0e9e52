package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// checkCommand creates the check command that validates a scene document.
func (c *CLI) checkCommand() *cobra.Command {
	var fix string

	cmd := &cobra.Command{
		Use:   "check [scene.json]",
		Short: "Validate a scene document",
		Long: `Validate a scene document.

The document is imported, which repairs shapes whose lines do not form a
single chain, and then checked for structural consistency. With --fix the
repaired document is written out, or printed when the path is "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.OutOrStdout(), args[0], fix)
		},
	}

	cmd.Flags().StringVar(&fix, "fix", "", "write the repaired document to this path (- for stdout)")

	return cmd
}

func (c *CLI) runCheck(w io.Writer, input, fix string) error {
	doc, err := sceneio.ImportJSON(input)
	if err != nil {
		return err
	}

	s := scene.New(append(c.Config.SceneOptions(), scene.WithLogger(c.Logger))...)
	if err := s.Import(doc); err != nil {
		printError(w, "%s is inconsistent", input)
		return err
	}

	if fix == "-" {
		return sceneio.WriteJSON(s.Export(), w)
	}

	printSuccess(w, "%s is valid", input)
	st := collectStats(s)
	width, height := s.Size()
	printKeyValue(w, "Canvas", fmt.Sprintf("%gx%g", width, height))
	printKeyValue(w, "Shapes", strconv.Itoa(st.shapes))
	printKeyValue(w, "Closed", strconv.Itoa(st.closed))
	printKeyValue(w, "Points", strconv.Itoa(st.points))
	printKeyValue(w, "Dividers", strconv.Itoa(st.dividers))

	if fix != "" {
		if err := sceneio.Save(s, fix); err != nil {
			return fmt.Errorf("write %s: %w", fix, err)
		}
		printFile(w, fix)
	}
	return nil
}

type sceneStats struct {
	shapes, closed, points, dividers int
}

func collectStats(s *scene.Scene) sceneStats {
	var st sceneStats
	for _, el := range s.Children() {
		switch el := el.(type) {
		case *scene.Shape:
			st.shapes++
			st.points += len(el.Points())
			if el.Closed() {
				st.closed++
			}
		case *scene.Divider:
			st.dividers++
		}
	}
	return st
}
