package geom

import "math"

// Rect is an axis-aligned rectangle with Min at the top left corner.
type Rect struct {
	Min, Max Point
}

// RectFrom returns the rectangle spanned by two arbitrary corners.
func RectFrom(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Bounds returns the bounding box of pts. It returns the zero Rect when pts
// is empty.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Sides returns the four borders of r, clockwise from the top.
func (r Rect) Sides() [4]Segment {
	tl, br := r.Min, r.Max
	tr, bl := Point{br.X, tl.Y}, Point{tl.X, br.Y}
	return [4]Segment{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// IntersectsSegment reports whether any part of s lies inside r: either an
// endpoint is contained or s crosses one of the borders.
func (r Rect) IntersectsSegment(s Segment) bool {
	if r.Contains(s.A) || r.Contains(s.B) {
		return true
	}
	for _, side := range r.Sides() {
		if side.Intersects(s) {
			return true
		}
	}
	return false
}
