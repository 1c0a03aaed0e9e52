package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1000.0, cfg.Canvas.Width)
	assert.Equal(t, 700.0, cfg.Canvas.Height)
	assert.Equal(t, 50.0, cfg.Grid.Spacing)
	assert.True(t, cfg.Grid.Snap)
	assert.False(t, cfg.Grid.Show)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[canvas]
width = 1200

[grid]
spacing = 25
show = true

[updates]
delay = "250ms"
ceiling = "1s"

[render]
abstract_right_angle = true
font = "mono"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, cfg.Canvas.Width)
	assert.Equal(t, 700.0, cfg.Canvas.Height, "unset keys keep defaults")
	assert.Equal(t, 25.0, cfg.Grid.Spacing)
	assert.True(t, cfg.Grid.Show)
	assert.Equal(t, 250*time.Millisecond, cfg.Updates.Delay)
	assert.Equal(t, time.Second, cfg.Updates.Ceiling)
	assert.True(t, cfg.Render.AbstractRightAngle)
	assert.Equal(t, "mono", cfg.Render.Font)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[grid]\nspacing = 25\n")
	t.Setenv("GEOMCLOZE_GRID_SPACING", "10")
	t.Setenv("GEOMCLOZE_SERVER_ADDR", ":9000")
	t.Setenv("GEOMCLOZE_SERVER_READ_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Grid.Spacing)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "geomcloze"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geomcloze", "config.toml"), []byte("[redraw]\nfps = 30\n"), 0o644))

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "geomcloze", "config.toml"), path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Redraw.FPS)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[grid\nspacing = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[grid]\nspacing = 10\nsize = 4\n", errors.ErrCodeInvalidConfig},
		{"negative spacing", "[grid]\nspacing = -1\n", errors.ErrCodeInvalidConfig},
		{"ceiling below delay", "[updates]\ndelay = \"2s\"\nceiling = \"1s\"\n", errors.ErrCodeInvalidConfig},
		{"unknown font", "[render]\nfont = \"comic\"\n", errors.ErrCodeInvalidConfig},
		{"huge canvas", "[canvas]\nwidth = 100000\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GEOMCLOZE_REDRAW_FPS", "fast")
	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSceneOptions(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 400, 300
	cfg.Grid = Grid{Spacing: 20, Show: true, Snap: false}
	cfg.Render.Scale = 2
	cfg.Render.AbstractRightAngle = true

	s := scene.New(cfg.SceneOptions()...)
	w, h := s.Size()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 300.0, h)
	assert.Equal(t, 20.0, s.GridSpacing())
	assert.True(t, s.ShowGrid())
	assert.False(t, s.Snapping())
	assert.Equal(t, 2.0, s.Scale())
	assert.True(t, s.AbstractRightAngle())
}
