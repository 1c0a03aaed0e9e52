package geom

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDistanceTo(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above middle", Pt(5, 3), 3},
		{"on segment", Pt(7, 0), 0},
		{"beyond end is clamped", Pt(14, 3), 5},
		{"before start is clamped", Pt(-3, -4), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.DistanceTo(tt.p), 1e-9)
		})
	}
}

func TestSegmentDegenerate(t *testing.T) {
	s := Seg(Pt(2, 2), Pt(2, 2))
	assert.InDelta(t, 5, s.DistanceTo(Pt(5, 6)), 1e-9)
}

func TestSegmentIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{"crossing", Seg(Pt(0, 0), Pt(10, 10)), Seg(Pt(0, 10), Pt(10, 0)), true},
		{"parallel", Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(0, 1), Pt(10, 1)), false},
		{"touching end", Seg(Pt(0, 0), Pt(5, 5)), Seg(Pt(5, 5), Pt(10, 0)), true},
		{"collinear overlap", Seg(Pt(0, 0), Pt(5, 0)), Seg(Pt(3, 0), Pt(8, 0)), true},
		{"collinear apart", Seg(Pt(0, 0), Pt(2, 0)), Seg(Pt(3, 0), Pt(8, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a))
		})
	}
}

func TestSegmentIsAbove(t *testing.T) {
	s := Seg(Pt(10, 10), Pt(0, 10))
	assert.True(t, s.IsAbove(Pt(5, 0)))
	assert.False(t, s.IsAbove(Pt(5, 20)))
}

func TestRect(t *testing.T) {
	r := RectFrom(Pt(10, 10), Pt(0, 0))
	assert.Equal(t, Pt(0, 0), r.Min)
	assert.Equal(t, Pt(10, 10), r.Max)
	assert.True(t, r.Contains(Pt(10, 5)))
	assert.False(t, r.Contains(Pt(11, 5)))

	tests := []struct {
		name string
		s    Segment
		want bool
	}{
		{"inside", Seg(Pt(2, 2), Pt(3, 3)), true},
		{"one end inside", Seg(Pt(5, 5), Pt(20, 20)), true},
		{"crossing through", Seg(Pt(-5, 5), Pt(15, 5)), true},
		{"outside", Seg(Pt(-5, -5), Pt(-1, 20)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IntersectsSegment(tt.s))
		})
	}
}

func TestBounds(t *testing.T) {
	r := Bounds([]Point{Pt(3, 9), Pt(-1, 4), Pt(7, 2)})
	assert.Equal(t, Rect{Min: Pt(-1, 2), Max: Pt(7, 9)}, r)
	assert.Equal(t, Rect{}, Bounds(nil))
}

func TestInPolygon(t *testing.T) {
	square := []Point{Pt(200, 200), Pt(500, 200), Pt(500, 500), Pt(200, 500)}
	assert.True(t, InPolygon(Pt(300, 300), square))
	assert.False(t, InPolygon(Pt(100, 300), square))
	assert.False(t, InPolygon(Pt(600, 600), square))
	assert.False(t, InPolygon(Pt(0, 0), square[:2]))
}

func TestAreaAndPerimeter(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(4, 0), Pt(4, 4), Pt(0, 4)}
	assert.InDelta(t, 16, Area(square), 1e-9)
	assert.InDelta(t, 16, Perimeter(square, true), 1e-9)
	assert.InDelta(t, 12, Perimeter(square, false), 1e-9)
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, 90, Angle(Pt(1, 0), Pt(0, 0), Pt(0, 1)), 1e-9)
	assert.InDelta(t, 270, Angle(Pt(0, 1), Pt(0, 0), Pt(1, 0)), 1e-9)
	assert.InDelta(t, 180, Angle(Pt(-1, 0), Pt(0, 0), Pt(1, 0)), 1e-9)
}

func TestVector(t *testing.T) {
	v := Pt(3, 4)
	assert.InDelta(t, 5, v.Len(), 1e-9)
	n := v.Normalize()
	assert.InDelta(t, 1, n.Len(), 1e-9)
	assert.Equal(t, Point{}, Point{}.Normalize())
	assert.InDelta(t, 0, v.Dot(v.Orthogonal()), 1e-9)
}

func TestExtreme(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(5, 1), Pt(2, 9)}
	p, ok := Extreme(pts, Pt(0, 1))
	require.True(t, ok)
	assert.Equal(t, Pt(2, 9), p)
	_, ok = Extreme(nil, Pt(1, 0))
	assert.False(t, ok)
}

func TestAt(t *testing.T) {
	s := []int{1, 2, 3}
	assert.Equal(t, 3, At(s, -1))
	assert.Equal(t, 1, At(s, 3))
	assert.Equal(t, 2, At(s, -5))
}

func TestSnap(t *testing.T) {
	moved := Pt(0, 0).Add(Pt(23, 74))
	assert.Equal(t, Pt(0, 50), Snap(moved, 50))
	assert.Equal(t, Pt(0, 100), Snap(Pt(23, 76), 50))
	assert.Equal(t, Pt(23, 74), Snap(moved, 0))
}

func TestRound(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{2.5, "2.5"},
		{3, "3"},
		{1.005001, "1.01"},
		{-0.001, "0"},
		{math.Sqrt2 * 100, "141.42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.v, 2), "Round(%v)", tt.v)
	}
}

func ExampleSnap() {
	fmt.Println(Snap(Pt(23, 76), 50))
	// Output: {0 100}
}
