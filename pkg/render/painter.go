package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Drawing constants in scene units.
const (
	DefaultLabelSize = 16
	labelGap         = 14
	angleMarkRadius  = 22
	shadowOffset     = 3
	arcSegments      = 24
)

var (
	shadowColor = color.NRGBA{A: 0x40}
	gridColor   = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	ghostColor  = MustColor(scene.SelectionColor)
	marqueeFill = MustColor(scene.SelectionFill)
)

// Painter draws scenes. A Painter holds only options and may be shared.
type Painter struct {
	background color.Color
	grid       color.Color
	labelSize  float64
}

// Option configures a Painter.
type Option func(*Painter)

// WithBackground sets the color the surface is cleared with.
func WithBackground(c color.Color) Option { return func(p *Painter) { p.background = c } }

// WithGridColor sets the color of grid lines.
func WithGridColor(c color.Color) Option { return func(p *Painter) { p.grid = c } }

// WithLabelSize sets the label font size.
func WithLabelSize(size float64) Option {
	return func(p *Painter) {
		if size > 0 {
			p.labelSize = size
		}
	}
}

// NewPainter returns a painter with a white background.
func NewPainter(opts ...Option) *Painter {
	p := &Painter{background: color.White, grid: gridColor, labelSize: DefaultLabelSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Renderer binds p to surf so a live scene can redraw itself through it.
func (p *Painter) Renderer(surf Surface) scene.Renderer {
	return rendererFunc(func(s *scene.Scene) error { return p.Paint(s, surf) })
}

type rendererFunc func(*scene.Scene) error

func (f rendererFunc) Render(s *scene.Scene) error { return f(s) }

// Paint draws the whole scene, including the transient ghost line and
// marquee, onto surf.
func (p *Painter) Paint(s *scene.Scene, surf Surface) error {
	surf.Clear(p.background)
	if s.ShowGrid() {
		if err := p.paintGrid(surf, s.GridSpacing()); err != nil {
			return err
		}
	}

	children := s.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if err := p.paintElement(s, surf, children[i]); err != nil {
			return err
		}
	}

	if g := s.Ghost(); g != nil {
		pen := Pen{Color: ghostColor, Width: 2, Dash: []float64{6, 4}}
		if g.Divider {
			pen.Color = shadowColor
		}
		surf.MoveTo(g.Start)
		surf.LineTo(g.End)
		if err := surf.Stroke(pen); err != nil {
			return err
		}
	}
	if r := s.Marquee(); r != nil {
		surf.Rect(*r)
		if err := surf.Fill(marqueeFill); err != nil {
			return err
		}
		surf.Rect(*r)
		if err := surf.Stroke(Pen{Color: ghostColor, Width: 1, Dash: []float64{4, 4}}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Painter) paintGrid(surf Surface, spacing float64) error {
	if spacing <= 0 {
		return nil
	}
	w, h := surf.Size()
	for x := 0.0; x <= w; x += spacing {
		surf.MoveTo(geom.Pt(x, 0))
		surf.LineTo(geom.Pt(x, h))
	}
	for y := 0.0; y <= h; y += spacing {
		surf.MoveTo(geom.Pt(0, y))
		surf.LineTo(geom.Pt(w, y))
	}
	return surf.Stroke(Pen{Color: p.grid, Width: 1})
}

func (p *Painter) paintElement(s *scene.Scene, surf Surface, el scene.Element) error {
	if el.Hidden() {
		return nil
	}
	switch el := el.(type) {
	case *scene.Shape:
		return p.paintShape(s, surf, el)
	case *scene.Divider:
		if err := p.paintLine(surf, el.Start(), el.End(), el.Appearance()); err != nil {
			return err
		}
		for _, h := range el.Handles() {
			if el.HandlesVisible(h) {
				if err := p.paintPoint(surf, h.Position(), h.Appearance()); err != nil {
					return err
				}
			}
		}
	case *scene.Line:
		return p.paintLine(surf, el.Start(), el.End(), el.Appearance())
	case *scene.Point:
		return p.paintPoint(surf, el.Position(), el.Appearance())
	}
	return nil
}

func (p *Painter) paintShape(s *scene.Scene, surf Surface, sh *scene.Shape) error {
	st := sh.Appearance()
	poly := sh.Polygon()
	if fill := MustColor(st.Fill); sh.Closed() && !isTransparent(fill) {
		if st.Shadow {
			polygon(surf, poly, geom.Pt(shadowOffset, shadowOffset))
			if err := surf.Fill(shadowColor); err != nil {
				return err
			}
		}
		polygon(surf, poly, geom.Point{})
		if err := surf.Fill(fill); err != nil {
			return err
		}
	}

	lines, points := sh.Lines(), sh.Points()
	for _, l := range lines {
		if !l.Hidden() {
			if err := p.paintLine(surf, l.Start(), l.End(), l.Appearance()); err != nil {
				return err
			}
		}
	}
	for _, pt := range points {
		if !pt.Hidden() {
			if err := p.paintPoint(surf, pt.Position(), pt.Appearance()); err != nil {
				return err
			}
		}
	}

	for _, l := range lines {
		if !l.Hidden() && l.Style().ShowLabel {
			if err := p.lineLabel(surf, sh, l); err != nil {
				return err
			}
		}
	}
	for _, pt := range points {
		if !pt.Hidden() && pt.Style().ShowLabel {
			if err := p.pointLabel(s, surf, sh, pt); err != nil {
				return err
			}
		}
	}
	return nil
}

func polygon(surf Surface, pts []geom.Point, off geom.Point) {
	for i, pt := range pts {
		if i == 0 {
			surf.MoveTo(pt.Add(off))
		} else {
			surf.LineTo(pt.Add(off))
		}
	}
	surf.ClosePath()
}

func (p *Painter) paintLine(surf Surface, a, b geom.Point, st scene.Style) error {
	pen := Pen{Color: MustColor(st.Stroke), Width: st.LineWidth}
	if st.Dashed {
		w := math.Max(st.LineWidth, 1)
		pen.Dash = []float64{4 * w, 3 * w}
	}
	if st.Shadow {
		off := geom.Pt(shadowOffset, shadowOffset)
		surf.MoveTo(a.Add(off))
		surf.LineTo(b.Add(off))
		if err := surf.Stroke(Pen{Color: shadowColor, Width: pen.Width, Dash: pen.Dash}); err != nil {
			return err
		}
	}
	surf.MoveTo(a)
	surf.LineTo(b)
	return surf.Stroke(pen)
}

func (p *Painter) paintPoint(surf Surface, at geom.Point, st scene.Style) error {
	if st.Shadow {
		surf.Circle(at.Add(geom.Pt(shadowOffset, shadowOffset)), st.PointRadius)
		if err := surf.Fill(shadowColor); err != nil {
			return err
		}
	}
	if fill := MustColor(st.Fill); !isTransparent(fill) {
		surf.Circle(at, st.PointRadius)
		if err := surf.Fill(fill); err != nil {
			return err
		}
	}
	stroke := MustColor(st.Stroke)
	if isTransparent(stroke) || st.LineWidth <= 0 {
		return nil
	}
	surf.Circle(at, st.PointRadius)
	return surf.Stroke(Pen{Color: stroke, Width: st.LineWidth})
}
