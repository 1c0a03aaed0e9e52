package geom

import "math"

// Segment is a straight line between A and B.
type Segment struct {
	A, B Point
}

// Seg is shorthand for Segment{a, b}.
func Seg(a, b Point) Segment { return Segment{A: a, B: b} }

// Len returns the length of s.
func (s Segment) Len() float64 { return Distance(s.A, s.B) }

// Vector returns B-A.
func (s Segment) Vector() Point { return s.B.Sub(s.A) }

// Closest returns the point on s nearest to p. The projection is clamped to
// the segment, so the result is never outside [A, B].
func (s Segment) Closest(p Point) Point {
	d := s.Vector()
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(d.Scale(t))
}

// DistanceTo returns the distance from p to the nearest point on s.
func (s Segment) DistanceTo(p Point) float64 { return Distance(p, s.Closest(p)) }

// Intersects reports whether s and o share at least one point.
func (s Segment) Intersects(o Segment) bool {
	d1 := orientation(o.A, o.B, s.A)
	d2 := orientation(o.A, o.B, s.B)
	d3 := orientation(s.A, s.B, o.A)
	d4 := orientation(s.A, s.B, o.B)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(o, s.A):
		return true
	case d2 == 0 && onSegment(o, s.B):
		return true
	case d3 == 0 && onSegment(s, o.A):
		return true
	case d4 == 0 && onSegment(s, o.B):
		return true
	}
	return false
}

// IsAbove reports whether p lies above the infinite line through s, i.e. on
// the side of smaller y for a left-to-right line.
func (s Segment) IsAbove(p Point) bool {
	a, b := s.A, s.B
	if a.X > b.X {
		a, b = b, a
	}
	return orientation(a, b, p) < 0
}

func orientation(a, b, p Point) float64 {
	return b.Sub(a).Cross(p.Sub(a))
}

func onSegment(s Segment, p Point) bool {
	return p.X >= math.Min(s.A.X, s.B.X) && p.X <= math.Max(s.A.X, s.B.X) &&
		p.Y >= math.Min(s.A.Y, s.B.Y) && p.Y <= math.Max(s.A.Y, s.B.Y)
}
