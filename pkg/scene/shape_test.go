package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/geom"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestScene(t *testing.T, opts ...Option) (*Scene, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(append([]Option{WithClock(clk.Now)}, opts...)...), clk
}

func square() []geom.Point {
	return []geom.Point{geom.Pt(200, 200), geom.Pt(500, 200), geom.Pt(500, 500), geom.Pt(200, 500)}
}

func addPolygon(t *testing.T, s *Scene, pts []geom.Point) *Shape {
	t.Helper()
	sh, err := s.CreatePolygon(pts)
	require.NoError(t, err)
	s.AddChild(sh)
	return sh
}

func addPath(t *testing.T, s *Scene, pts ...geom.Point) *Shape {
	t.Helper()
	sh, err := s.CreatePath(pts)
	require.NoError(t, err)
	s.AddChild(sh)
	return sh
}

func requireValid(t *testing.T, s *Scene) {
	t.Helper()
	require.NoError(t, s.Validate())
}

func positions(sh *Shape) []geom.Point { return sh.Polygon() }

func TestCreatePolygon(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())

	assert.True(t, sh.Closed())
	assert.Len(t, sh.Points(), 4)
	assert.Len(t, sh.Lines(), 4)
	assert.Equal(t, geom.Pt(200, 200), sh.Position())
	assert.InDelta(t, 90000, sh.Area(), 1e-9)
	assert.InDelta(t, 1200, sh.Perimeter(), 1e-9)
	requireValid(t, s)
}

func TestCreatePolygonTooFewPoints(t *testing.T) {
	s, _ := newTestScene(t)
	_, err := s.CreatePolygon([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 1)})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidPolygon))

	assert.Panics(t, func() { s.MustCreatePolygon(nil) })
}

func TestAddPointSplitsNearestEdgeOfClosedShape(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())

	p := sh.AddPoint(geom.Pt(600, 300), 0)
	require.NotNil(t, p)

	assert.True(t, sh.Closed())
	assert.Len(t, sh.Points(), 5)
	assert.Len(t, sh.Lines(), 5)
	assert.Equal(t, []geom.Point{
		geom.Pt(200, 200), geom.Pt(500, 200), geom.Pt(600, 300), geom.Pt(500, 500), geom.Pt(200, 500),
	}, positions(sh))
	requireValid(t, s)
}

func TestAddPointExtendsOpenChain(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0))

	// far from the edge, nearer the end
	sh.AddPoint(geom.Pt(200, 100), 0)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 100)}, positions(sh))

	// nearer the start: the chain is reversed before extending
	sh.AddPoint(geom.Pt(-100, 100), 0)
	assert.Equal(t, []geom.Point{geom.Pt(200, 100), geom.Pt(100, 0), geom.Pt(0, 0), geom.Pt(-100, 100)}, positions(sh))

	// within the split distance of an edge
	sh.AddPoint(geom.Pt(50, 5), 0)
	assert.Len(t, sh.Points(), 5)
	assert.Equal(t, geom.Pt(50, 5), sh.Points()[2].Position())
	assert.False(t, sh.Closed())
	requireValid(t, s)
}

func TestAddPointToEndpoint(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 0))
	pts := sh.Points()

	assert.Nil(t, sh.AddPoint(geom.Pt(50, 50), pts[1].ID()), "middle point is not a free end")

	p := sh.AddPoint(geom.Pt(-100, 0), pts[0].ID())
	require.NotNil(t, p)
	assert.Equal(t, p.ID(), sh.Points()[3].ID())

	closed := addPolygon(t, s, square())
	assert.Nil(t, closed.AddPoint(geom.Pt(0, 0), closed.Points()[0].ID()))
	requireValid(t, s)
}

func TestAddPointToEmptyShape(t *testing.T) {
	s, _ := newTestScene(t)
	sh := s.newShape()
	s.AddChild(sh)

	p := sh.AddPoint(geom.Pt(10, 10), 0)
	require.NotNil(t, p)
	assert.Len(t, sh.Points(), 1)
	requireValid(t, s)
}

func TestRemoveLineOpensClosedShape(t *testing.T) {
	for _, n := range []int{4, 5, 6} {
		s, _ := newTestScene(t)
		pts := make([]geom.Point, n)
		for i := range pts {
			pts[i] = geom.Pt(float64(i*100), float64((i%2)*100))
		}
		sh := addPolygon(t, s, pts)

		lines := sh.Lines()
		require.True(t, sh.RemoveLine(lines[len(lines)-1]))

		assert.Len(t, s.Shapes(), 1, "n=%d", n)
		assert.False(t, sh.Closed())
		assert.Len(t, sh.Points(), n)
		assert.Len(t, sh.Lines(), n-1)
		requireValid(t, s)
	}
}

func TestRemoveMiddleLineOfClosedShape(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	pts := sh.Points()

	sh.Lines()[1].Delete()

	assert.Len(t, s.Shapes(), 1)
	assert.False(t, sh.Closed())
	assert.Len(t, sh.Lines(), 3)
	first, last, ok := sh.Ends()
	require.True(t, ok)
	assert.Equal(t, pts[2].ID(), first.ID())
	assert.Equal(t, pts[1].ID(), last.ID())
	requireValid(t, s)
}

func TestRemoveLineSplitsOpenChain(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 0), geom.Pt(300, 0))
	sh.SetStroke("red")

	sh.RemoveLine(sh.Lines()[1])

	// The sequence is rotated to start after the gap, so the run holding
	// the original first point comes last and stays with sh.
	shapes := s.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0)}, positions(sh))
	spawned := shapes[1]
	assert.Equal(t, []geom.Point{geom.Pt(200, 0), geom.Pt(300, 0)}, positions(spawned))
	assert.Equal(t, "red", spawned.Style().Stroke)
	requireValid(t, s)
}

func TestRemoveOnlyLineLeavesTwoPoints(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0))

	sh.RemoveLine(sh.Lines()[0])

	shapes := s.Shapes()
	require.Len(t, shapes, 2)
	for _, x := range shapes {
		assert.Len(t, x.Children(), 1)
	}
	requireValid(t, s)
}

func TestRemovePointBridgesNeighbors(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, []geom.Point{
		geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(150, 50), geom.Pt(100, 100), geom.Pt(0, 100),
	})
	victim := sh.Points()[2]

	require.True(t, sh.RemovePoint(victim))

	assert.True(t, sh.Closed())
	assert.Len(t, sh.Points(), 4)
	assert.Len(t, sh.Lines(), 4)
	_, ok := s.Element(victim.ID())
	assert.False(t, ok)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)}, positions(sh))
	requireValid(t, s)
}

func TestRemovePointFromTriangleOpensIt(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 80)})

	sh.Points()[1].Delete()

	assert.False(t, sh.Closed())
	assert.Len(t, sh.Points(), 2)
	assert.Len(t, sh.Lines(), 1)
	requireValid(t, s)
}

func TestRemoveEndpointOfChain(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 0))

	sh.Points()[0].Delete()
	assert.Equal(t, []geom.Point{geom.Pt(100, 0), geom.Pt(200, 0)}, positions(sh))

	sh.Points()[1].Delete()
	sh.Points()[0].Delete()
	assert.Empty(t, s.Shapes(), "an emptied shape deletes itself")
	_, ok := s.Element(sh.ID())
	assert.False(t, ok)
	requireValid(t, s)
}

func TestRemovePointRejectsForeignPoint(t *testing.T) {
	s, _ := newTestScene(t)
	a := addPolygon(t, s, square())
	b := addPath(t, s, geom.Pt(0, 0))
	assert.False(t, a.RemovePoint(b.Points()[0]))
	assert.Len(t, a.Points(), 4)
}

func TestConnectMergesChains(t *testing.T) {
	tests := []struct {
		name         string
		mine, theirs func(a, b *Shape) ID
		wantFirstX   float64
		wantLastX    float64
	}{
		{
			name:   "last to first",
			mine:   func(a, _ *Shape) ID { return a.Points()[1].ID() },
			theirs: func(_, b *Shape) ID { return b.Points()[0].ID() },
			// a: 0,10  b: 100,110,120
			wantFirstX: 0, wantLastX: 120,
		},
		{
			name:       "first to last",
			mine:       func(a, _ *Shape) ID { return a.Points()[0].ID() },
			theirs:     func(_, b *Shape) ID { return b.Points()[2].ID() },
			wantFirstX: 10, wantLastX: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScene(t)
			a := addPath(t, s, geom.Pt(0, 0), geom.Pt(10, 0))
			b := addPath(t, s, geom.Pt(100, 0), geom.Pt(110, 0), geom.Pt(120, 0))
			s.SetCreating(b.ID())

			l := a.Connect(b, tt.mine(a, b), tt.theirs(a, b))
			require.NotNil(t, l)

			assert.Len(t, a.Points(), 5)
			assert.Len(t, a.Lines(), 4)
			assert.False(t, a.Closed())
			assert.Nil(t, s.ElementByID(b.ID()))
			assert.False(t, s.HasChild(b))
			assert.Equal(t, a.ID(), s.Creating())

			first, last, _ := a.Ends()
			assert.Equal(t, tt.wantFirstX, first.Position().X)
			assert.Equal(t, tt.wantLastX, last.Position().X)
			requireValid(t, s)
		})
	}
}

func TestConnectRejections(t *testing.T) {
	s, _ := newTestScene(t)
	a := addPath(t, s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	b := addPath(t, s, geom.Pt(100, 0), geom.Pt(110, 0))
	c := addPolygon(t, s, square())

	assert.Nil(t, a.Connect(b, a.Points()[1].ID(), b.Points()[0].ID()), "middle point")
	assert.Nil(t, a.Connect(c, a.Points()[0].ID(), c.Points()[0].ID()), "closed other")
	assert.Nil(t, a.Connect(a, a.Points()[0].ID(), a.Points()[2].ID()), "self")
	assert.Nil(t, a.Connect(nil, a.Points()[0].ID(), 0))

	assert.Len(t, s.Shapes(), 3)
	assert.Len(t, a.Points(), 3)
	requireValid(t, s)
}

func TestConnectPointsClosesChain(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100))
	pts := sh.Points()

	assert.Nil(t, sh.ConnectPoints(pts[0].ID(), pts[1].ID()))
	assert.False(t, sh.Closed())

	require.NotNil(t, sh.ConnectPoints(pts[2].ID(), pts[0].ID()))
	assert.True(t, sh.Closed())
	assert.Len(t, sh.Lines(), 3)
	assert.Nil(t, sh.ConnectPoints(pts[2].ID(), pts[0].ID()), "already closed")
	requireValid(t, s)
}

func TestConnectPointsNeedsThreePoints(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0))
	pts := sh.Points()
	assert.Nil(t, sh.ConnectPoints(pts[0].ID(), pts[1].ID()))
}

func TestRepairDropsDoubledLinesAndDanglingEdges(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 0))
	first := sh.Lines()[0]
	stray := s.newLine(CoordEnd(geom.Pt(5, 5)), CoordEnd(geom.Pt(6, 6)))
	s.attach(sh.ID(), stray.ID(), 2)

	sh.checkValidity()

	// Both lines of the doubled pair go, which cuts off the first point.
	for _, id := range []ID{stray.ID(), first.ID()} {
		_, ok := s.Element(id)
		assert.False(t, ok)
	}
	shapes := s.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0)}, positions(sh))
	assert.Equal(t, []geom.Point{geom.Pt(100, 0), geom.Pt(200, 0)}, positions(shapes[1]))
	requireValid(t, s)
}

func TestShapeInvariantUnderRandomEdits(t *testing.T) {
	s, _ := newTestScene(t)
	addPolygon(t, s, []geom.Point{
		geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(200, 50), geom.Pt(200, 150), geom.Pt(100, 200), geom.Pt(0, 150),
	})

	// A fixed edit script mixing every structural operation.
	steps := []func(){
		func() { s.Shapes()[0].AddPoint(geom.Pt(250, 100), 0) },
		func() { s.Shapes()[0].Lines()[2].Delete() },
		func() { s.Shapes()[0].Points()[0].Delete() },
		func() {
			sh := s.Shapes()[0]
			sh.AddPoint(geom.Pt(300, 300), 0)
		},
		func() {
			p := addPath(t, s, geom.Pt(400, 0), geom.Pt(400, 100))
			sh := s.Shapes()[0]
			_, last, ok := sh.Ends()
			if ok {
				sh.Connect(p, last.ID(), p.Points()[0].ID())
			}
		},
		func() { s.Shapes()[0].Lines()[0].Delete() },
		func() {
			for _, sh := range s.Shapes() {
				if first, last, ok := sh.Ends(); ok && len(sh.Points()) >= 3 {
					sh.ConnectPoints(first.ID(), last.ID())
				}
			}
		},
		func() {
			shapes := s.Shapes()
			shapes[len(shapes)-1].Points()[1].Delete()
		},
	}
	for i, step := range steps {
		if len(s.Shapes()) == 0 {
			break
		}
		step()
		require.NoError(t, s.Validate(), "after step %d", i)
	}
}

func TestShapeMoveAndDelete(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	ids := append([]ID{sh.ID()}, sh.Children()...)

	sh.Move(10, -10)
	assert.Equal(t, geom.Pt(210, 190), sh.Position())
	assert.Equal(t, geom.Pt(510, 190), sh.Lines()[0].End())

	sh.MoveTo(0, 0)
	assert.Equal(t, geom.Pt(0, 0), sh.Position())

	sh.Delete()
	for _, id := range ids {
		_, ok := s.Element(id)
		assert.False(t, ok)
	}
	assert.Zero(t, s.Len())
}
