package geom

import "math"

// InPolygon reports whether p lies inside the polygon described by poly
// using an even-odd ray cast. Points on an edge may go either way; callers
// that need edge hits test the edges separately.
func InPolygon(p Point, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Area returns the absolute area of poly, summed as a fan of triangles
// around its first vertex.
func Area(poly []Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	var sum float64
	root := poly[0]
	for i := 1; i < len(poly)-1; i++ {
		sum += poly[i].Sub(root).Cross(poly[i+1].Sub(root))
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the polyline through pts. When closed is
// set the segment from the last point back to the first is included.
func Perimeter(pts []Point, closed bool) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		sum += Distance(pts[i-1], pts[i])
	}
	if closed && len(pts) > 2 {
		sum += Distance(pts[len(pts)-1], pts[0])
	}
	return sum
}

// Extreme returns the point of pts that lies furthest in direction dir.
func Extreme(pts []Point, dir Point) (Point, bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	best, bestDot := pts[0], pts[0].Dot(dir)
	for _, p := range pts[1:] {
		if d := p.Dot(dir); d > bestDot {
			best, bestDot = p, d
		}
	}
	return best, true
}

// At returns s[i] with i wrapped around len(s) in both directions.
func At[T any](s []T, i int) T {
	n := len(s)
	return s[((i%n)+n)%n]
}
