package cli

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geomcloze/pkg/config"
	"github.com/matzehuels/geomcloze/pkg/observability"
)

// setup runs before every subcommand. It applies --verbose, loads the
// config file with its environment overrides and attaches the logger to
// the command context.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus debug hooks for redraws,
//     repairs, renders, cache and HTTP events, and the rasterizer's own
//     slog output routed through the same logger
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "grid", cfg.Grid.Spacing, "canvas", [2]float64{cfg.Canvas.Width, cfg.Canvas.Height})

	if c.verbose {
		gg.SetLogger(slog.New(c.Logger))
		registerLogHooks(c.Logger)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{log: l}
	observability.SetSceneHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}
