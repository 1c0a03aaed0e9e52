package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/geomcloze/pkg/render"
	"github.com/matzehuels/geomcloze/pkg/render/nodelink"
	"github.com/matzehuels/geomcloze/pkg/render/raster"
	"github.com/matzehuels/geomcloze/pkg/render/svg"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Render paints s in every requested format. Options must already be
// validated.
func Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	p := painter(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, s, p, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, s *scene.Scene, p *render.Painter, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts := []svg.Option{svg.WithFont(opts.fontFamily())}
		if opts.EmbedFont {
			svgOpts = append(svgOpts, svg.WithEmbeddedFont())
		}
		return svg.RenderSVG(ctx, s, p, svgOpts...)
	case FormatPNG:
		return raster.RenderPNG(ctx, s, p, raster.WithScale(opts.Scale), raster.WithFont(opts.fontFamily()))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderTopology draws the ownership tree of s in format.
func RenderTopology(ctx context.Context, s *scene.Scene, format string, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed, Bindings: opts.Detailed})
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported topology format: %s", format)
	}
}

// applyOverrides forces the scene settings the options turn on.
func applyOverrides(s *scene.Scene, opts Options) {
	if opts.ShowGrid {
		s.SetShowGrid(true)
	}
	if opts.AbstractRightAngle {
		s.SetAbstractRightAngle(true)
	}
}

func painter(opts Options) *render.Painter {
	var popts []render.Option
	if opts.Background != "" {
		popts = append(popts, render.WithBackground(render.MustColor(opts.Background)))
	}
	return render.NewPainter(popts...)
}
