// Package config loads geomcloze settings.
//
// Settings come from three layers, later layers winning:
//
//  1. [Default] values.
//  2. A TOML file, by default $XDG_CONFIG_HOME/geomcloze/config.toml.
//  3. Environment variables prefixed with GEOMCLOZE, for example
//     GEOMCLOZE_GRID_SPACING=25 or GEOMCLOZE_SERVER_ADDR=:9000.
//
// Command line flags are applied by the CLI on top of the result.
//
// # Example file
//
//	[canvas]
//	width = 1200
//	height = 800
//
//	[grid]
//	spacing = 25
//	show = true
//
//	[updates]
//	delay = "250ms"
//	ceiling = "1s"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/fonts"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GEOMCLOZE"

const appName = "geomcloze"

// Config is the complete settings tree.
type Config struct {
	Canvas  Canvas  `toml:"canvas" envconfig:"CANVAS"`
	Grid    Grid    `toml:"grid" envconfig:"GRID"`
	Redraw  Redraw  `toml:"redraw" envconfig:"REDRAW"`
	Updates Updates `toml:"updates" envconfig:"UPDATES"`
	Render  Render  `toml:"render" envconfig:"RENDER"`
	Server  Server  `toml:"server" envconfig:"SERVER"`
	Cache   Cache   `toml:"cache" envconfig:"CACHE"`
}

// Canvas is the scene's coordinate space.
type Canvas struct {
	Width  float64 `toml:"width" envconfig:"WIDTH"`
	Height float64 `toml:"height" envconfig:"HEIGHT"`
}

// Grid controls the background grid and snapping.
type Grid struct {
	Spacing float64 `toml:"spacing" envconfig:"SPACING"`
	Show    bool    `toml:"show" envconfig:"SHOW"`
	Snap    bool    `toml:"snap" envconfig:"SNAP"`
}

// Redraw sets the frame rate of interactive hosts.
type Redraw struct {
	FPS int `toml:"fps" envconfig:"FPS"`
}

// Updates configures the debounced update notifications.
type Updates struct {
	Delay   time.Duration `toml:"delay" envconfig:"DELAY"`
	Ceiling time.Duration `toml:"ceiling" envconfig:"CEILING"`
}

// Render holds output settings shared by the PNG and SVG backends.
type Render struct {
	Scale              float64 `toml:"scale" envconfig:"SCALE"`
	AbstractRightAngle bool    `toml:"abstract_right_angle" envconfig:"ABSTRACT_RIGHT_ANGLE"`
	Font               string  `toml:"font" envconfig:"FONT"`
}

// Server configures `geomcloze serve`.
type Server struct {
	Addr        string        `toml:"addr" envconfig:"ADDR"`
	ReadTimeout time.Duration `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
}

// Cache configures the render artifact cache. An empty Dir means the XDG
// cache directory.
type Cache struct {
	Dir string        `toml:"dir" envconfig:"DIR"`
	TTL time.Duration `toml:"ttl" envconfig:"TTL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas:  Canvas{Width: scene.DefaultWidth, Height: scene.DefaultHeight},
		Grid:    Grid{Spacing: scene.DefaultGridSpacing, Snap: true},
		Redraw:  Redraw{FPS: scene.DefaultFrameRate},
		Updates: Updates{Delay: scene.DefaultUpdateDelay, Ceiling: scene.DefaultUpdateLimit},
		Render:  Render{Scale: 1, Font: string(fonts.Regular)},
		Server:  Server{Addr: ":8080", ReadTimeout: 10 * time.Second},
		Cache:   Cache{TTL: 7 * 24 * time.Hour},
	}
}

// DefaultPath returns the config file location following the XDG base
// directory convention (~/.config/geomcloze/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration. An empty path reads the default location
// and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	switch err := cfg.decodeFile(path); {
	case err == nil:
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
	case stderrors.Is(err, fs.ErrNotExist):
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return cfg, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "environment overrides")
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every value for range errors.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Canvas.Width, c.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas")
	}
	switch {
	case c.Grid.Spacing <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "grid spacing must be positive, got %g", c.Grid.Spacing)
	case c.Redraw.FPS <= 0 || c.Redraw.FPS > 240:
		return errors.New(errors.ErrCodeInvalidConfig, "redraw fps must be in 1..240, got %d", c.Redraw.FPS)
	case c.Updates.Delay < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "update delay cannot be negative")
	case c.Updates.Ceiling < c.Updates.Delay:
		return errors.New(errors.ErrCodeInvalidConfig, "update ceiling %s is below the delay %s", c.Updates.Ceiling, c.Updates.Delay)
	case c.Render.Scale <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render scale must be positive, got %g", c.Render.Scale)
	case c.Server.Addr == "":
		return errors.New(errors.ErrCodeInvalidConfig, "server addr cannot be empty")
	case c.Server.ReadTimeout <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "server read timeout must be positive")
	case c.Cache.TTL <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be positive")
	}
	if _, err := fonts.ParseFamily(c.Render.Font); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render font")
	}
	return nil
}

// SceneOptions returns the scene options the settings imply.
func (c Config) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithSize(c.Canvas.Width, c.Canvas.Height),
		scene.WithGrid(c.Grid.Spacing, c.Grid.Show, c.Grid.Snap),
		scene.WithFrameRate(c.Redraw.FPS),
		scene.WithUpdateDebounce(c.Updates.Delay, c.Updates.Ceiling),
		scene.WithScale(c.Render.Scale),
		scene.WithAbstractRightAngle(c.Render.AbstractRightAngle),
	}
}
