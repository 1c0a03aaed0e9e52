package render

import (
	"image/color"

	"github.com/matzehuels/geomcloze/pkg/geom"
)

// Surface is an immediate-mode drawing target in scene units.
//
// Path calls accumulate a current path; Fill and Stroke paint it and
// start a new one. Circle and Rect add closed subpaths to the current
// path.
type Surface interface {
	// Size returns the drawable area in scene units.
	Size() (width, height float64)

	// Clear paints the whole surface with c and discards the current path.
	Clear(c color.Color)

	MoveTo(p geom.Point)
	LineTo(p geom.Point)
	ClosePath()
	Circle(center geom.Point, r float64)
	Rect(r geom.Rect)

	Fill(c color.Color) error
	Stroke(pen Pen) error

	// Text draws s anchored at p.
	Text(s string, p geom.Point, style TextStyle) error

	// MeasureText returns the width and height of s at the given size.
	MeasureText(s string, size float64) (w, h float64)
}

// Pen describes a stroke.
type Pen struct {
	Color color.Color
	Width float64
	Dash  []float64 // nil for a solid line
}

// Anchor positions text relative to its point, as fractions of the text
// box: (0,0) is top left, (0.5,0.5) centered.
type Anchor struct{ X, Y float64 }

// Common anchors.
var (
	AnchorCenter = Anchor{0.5, 0.5}
	AnchorLeft   = Anchor{0, 0.5}
)

// TextStyle describes a text run.
type TextStyle struct {
	Color  color.Color
	Size   float64
	Anchor Anchor
}
