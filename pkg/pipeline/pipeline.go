// Package pipeline provides the document → scene → artifact pipeline shared
// by the CLI and the HTTP service.
//
// By centralizing this logic, `geomcloze render` and `POST /v1/render`
// produce byte-identical output for the same document and options, and
// share one cache key scheme.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Load: import a [scene.Document] into a fresh scene, which repairs
//     damaged topology on the way in.
//  2. Render: paint the scene to one or more formats (SVG, PNG), or draw
//     its ownership tree (DOT, SVG, PNG).
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"png"}})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomcloze/pkg/cache"
	"github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/fonts"
	"github.com/matzehuels/geomcloze/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// RenderFormats are the formats a scene renders to.
var RenderFormats = []string{FormatSVG, FormatPNG}

// TopologyFormats are the formats of the ownership tree view.
var TopologyFormats = []string{FormatDOT, FormatSVG, FormatPNG}

// MaxScale bounds the PNG pixel density.
const MaxScale = 8

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Scale is the PNG pixel density; 2 renders at twice the scene size.
	Scale float64 `json:"scale,omitempty"`

	// ShowGrid and AbstractRightAngle force the setting on even when the
	// document has it off.
	ShowGrid           bool `json:"show_grid,omitempty"`
	AbstractRightAngle bool `json:"abstract_right_angle,omitempty"`

	Background string `json:"background,omitempty"`
	Font       string `json:"font,omitempty"`
	EmbedFont  bool   `json:"embed_font,omitempty"`

	// Detailed adds positions and flags to ownership tree labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the repaired document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements   int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats checks every format against supported.
func ValidateFormats(formats, supported []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, supported); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(slices.Clone(o.Formats))
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %d], got %g", MaxScale, o.Scale)
	}
	if _, err := fonts.ParseFamily(o.Font); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "font")
	}
	if o.Background != "" {
		if _, err := render.ParseColor(o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "background")
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForRender validates and sets defaults for scene rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats, RenderFormats)
}

// ValidateForTopology validates and sets defaults for the ownership tree
// view.
func (o *Options) ValidateForTopology() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats, TopologyFormats)
}

// ArtifactKeyOpts returns cache key options for a render of a width x
// height scene.
func (o *Options) ArtifactKeyOpts(format string, width, height float64) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:             format,
		Width:              width,
		Height:             height,
		Scale:              o.Scale,
		ShowGrid:           o.ShowGrid,
		AbstractRightAngle: o.AbstractRightAngle,
		Background:         o.Background,
		Font:               o.Font,
	}
}

func (o *Options) fontFamily() fonts.Family {
	f, _ := fonts.ParseFamily(o.Font)
	return f
}
