package geom

import "math"

// Point is a position in scene space. It is also used as a 2D vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the vector length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns p scaled to unit length. The zero vector stays zero.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Orthogonal returns p rotated by 90 degrees.
func (p Point) Orthogonal() Point { return Point{-p.Y, p.X} }

// Eq reports whether p and q are within eps of each other on both axes.
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 { return b.Sub(a).Len() }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

// Angle returns the angle at vertex between the rays towards a and b in
// degrees, measured counter-clockwise from a to b and normalized to [0, 360).
func Angle(a, vertex, b Point) float64 {
	u, v := a.Sub(vertex), b.Sub(vertex)
	deg := math.Atan2(u.Cross(v), u.Dot(v)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
