// Package raster implements a render.Surface on a gogpu/gg canvas and
// encodes the result as PNG.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/matzehuels/geomcloze/pkg/fonts"
	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/observability"
	"github.com/matzehuels/geomcloze/pkg/render"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Surface draws onto an in-memory RGBA canvas.
type Surface struct {
	ctx           *gg.Context
	width, height float64
	scale         float64
	font          fonts.Family
	faces         map[float64]text.Face
}

// Option configures a Surface.
type Option func(*Surface)

// WithScale sets the device pixels per scene unit (default 1, use 2 for
// high density output).
func WithScale(s float64) Option {
	return func(r *Surface) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithFont selects the label font.
func WithFont(f fonts.Family) Option { return func(r *Surface) { r.font = f } }

// New returns a surface covering width x height scene units.
func New(width, height float64, opts ...Option) *Surface {
	s := &Surface{width: width, height: height, scale: 1, font: fonts.Regular, faces: map[float64]text.Face{}}
	for _, opt := range opts {
		opt(s)
	}
	w := int(math.Ceil(width * s.scale))
	h := int(math.Ceil(height * s.scale))
	s.ctx = gg.NewContext(max(w, 1), max(h, 1))
	s.ctx.Scale(s.scale, s.scale)
	return s
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) Clear(c color.Color) {
	s.ctx.ClearPath()
	s.ctx.ClearWithColor(gg.FromColor(c))
}

func (s *Surface) MoveTo(p geom.Point) { s.ctx.MoveTo(p.X, p.Y) }
func (s *Surface) LineTo(p geom.Point) { s.ctx.LineTo(p.X, p.Y) }
func (s *Surface) ClosePath()          { s.ctx.ClosePath() }

func (s *Surface) Circle(c geom.Point, r float64) {
	s.ctx.NewSubPath()
	s.ctx.DrawCircle(c.X, c.Y, r)
}

func (s *Surface) Rect(r geom.Rect) {
	s.ctx.NewSubPath()
	s.ctx.DrawRectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
}

func (s *Surface) Fill(c color.Color) error {
	s.ctx.SetColor(c)
	return s.ctx.Fill()
}

func (s *Surface) Stroke(pen render.Pen) error {
	s.ctx.SetColor(pen.Color)
	s.ctx.SetLineWidth(pen.Width)
	s.ctx.SetDash(pen.Dash...)
	return s.ctx.Stroke()
}

func (s *Surface) face(size float64) (text.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	f, err := s.font.Face(size)
	if err != nil {
		return nil, err
	}
	s.faces[size] = f
	return f, nil
}

func (s *Surface) Text(str string, p geom.Point, st render.TextStyle) error {
	face, err := s.face(st.Size)
	if err != nil {
		return err
	}
	s.ctx.SetFont(face)
	s.ctx.SetColor(st.Color)
	s.ctx.DrawStringAnchored(str, p.X, p.Y, st.Anchor.X, st.Anchor.Y)
	return nil
}

func (s *Surface) MeasureText(str string, size float64) (float64, float64) {
	face, err := s.face(size)
	if err != nil {
		return 0, 0
	}
	s.ctx.SetFont(face)
	return s.ctx.MeasureString(str)
}

// Image returns the canvas.
func (s *Surface) Image() image.Image { return s.ctx.Image() }

// EncodePNG writes the canvas to w as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// RenderPNG paints s at its own size and returns the PNG bytes.
func RenderPNG(ctx context.Context, s *scene.Scene, p *render.Painter, opts ...Option) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, "png")
	start := time.Now()

	data, err := renderPNG(s, p, opts)
	hooks.OnRenderComplete(ctx, "png", len(data), time.Since(start), err)
	return data, err
}

func renderPNG(s *scene.Scene, p *render.Painter, opts []Option) ([]byte, error) {
	if p == nil {
		p = render.NewPainter()
	}
	w, h := s.Size()
	surf := New(w, h, opts...)
	if err := p.Paint(s, surf); err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	var buf bytes.Buffer
	if err := surf.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ render.Surface = (*Surface)(nil)
