package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/interact"
	sceneio "github.com/matzehuels/geomcloze/pkg/io"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// editCommand creates the edit command that opens the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		demo     bool
		autosave bool
	)

	cmd := &cobra.Command{
		Use:   "edit [scene.json]",
		Short: "Edit a scene document in the terminal",
		Long: `Edit a scene document in the terminal.

The canvas fills the window and follows the mouse. Press s, c or d to
switch between select, create and divider mode, right-click for the
context menu and ? for the key list. ctrl+s saves. A file that does not
exist yet is created on the first save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], demo, autosave)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "start a new file with the demo polygon")
	cmd.Flags().BoolVar(&autosave, "autosave", false, "save after every settled change")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, demo, autosave bool) error {
	if err := errors.ValidatePath(path, false); err != nil {
		return err
	}

	// The alternate screen owns the terminal, so scene logs go to a file.
	logger, closeLog, err := c.editLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	s := scene.New(append(c.Config.SceneOptions(), scene.WithLogger(logger))...)
	switch err := sceneio.Load(s, path); {
	case err == nil:
	case errors.Is(err, errors.ErrCodeFileNotFound):
		if demo {
			addDemo(s)
		}
	case stderrors.Is(err, scene.ErrInvariant):
		// Import repaired what it could; the rest is reported and editable.
		printWarning(cmd.ErrOrStderr(), "%v", err)
	default:
		return err
	}

	if autosave {
		s.AddUpdateListener(func(doc scene.Document) {
			if err := sceneio.ExportJSON(doc, path); err != nil {
				logger.Error("autosave failed", "err", err)
			}
		})
	}

	ed := interact.New(s, interact.WithLogger(logger))
	model := NewEditorModel(s, ed, path, c.Config.Redraw.FPS)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor: %w", err)
	}

	if autosave {
		s.FlushUpdates()
	} else if model.Modified() {
		printWarning(cmd.ErrOrStderr(), "%s has unsaved changes", path)
	}
	return nil
}

// editLogger returns the logger for an editor session: a debug log file in
// the cache directory when verbose, otherwise a discarding logger.
func (c *CLI) editLogger() (*log.Logger, func(), error) {
	if !c.verbose {
		return log.New(io.Discard), func() {}, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := tea.LogToFile(filepath.Join(dir, "edit.log"), appName)
	if err != nil {
		return nil, nil, err
	}
	l := newLogger(f, log.DebugLevel)
	return l, func() { f.Close() }, nil
}
