package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geomcloze/pkg/geom"
)

type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) Render(*Scene) error {
	r.calls++
	return r.err
}

func TestChildrenManagement(t *testing.T) {
	s, _ := newTestScene(t)
	a := addPolygon(t, s, square())
	b := addPath(t, s, geom.Pt(0, 0), geom.Pt(10, 10))
	c := s.CreatePoint(geom.Pt(1, 1))
	s.AddChildAt(c, 0)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []Element{c, a, b}, s.Children())
	assert.True(t, s.HasChild(a))
	assert.False(t, s.HasChild(a.Points()[0]), "HasChild is not recursive")

	p := a.Points()[2]
	assert.Equal(t, p, s.ElementByID(p.ID()))
	assert.Equal(t, a.ID(), p.Parent())
	assert.Equal(t, Element(a), s.TopLevel(p))
	assert.Equal(t, Element(a), s.Owner(p))
	assert.Nil(t, s.Owner(a))

	s.RemoveChild(a)
	assert.False(t, s.HasChild(a))
	assert.Nil(t, s.ElementByID(p.ID()))
	assert.Nil(t, s.ElementByID(9999))
	requireValid(t, s)

	s.Clear()
	assert.Zero(t, s.Len())
	requireValid(t, s)
}

func TestTopLevelHoldsShapesAndDividers(t *testing.T) {
	s, _ := newTestScene(t)
	p := s.NewPoint(geom.Pt(5, 5))
	l := s.NewLine(CoordEnd(geom.Pt(0, 0)), CoordEnd(geom.Pt(9, 9)))
	s.AddChild(p)
	s.AddChildAt(l, 0)
	assert.Zero(t, s.Len())
	assert.False(t, s.HasChild(p))

	d := s.NewDivider(geom.Pt(0, 50), geom.Pt(100, 50))
	sh := s.CreatePoint(geom.Pt(1, 1))
	s.AddChild(d)
	s.AddChild(sh)
	assert.Equal(t, []Element{d, sh}, s.Children())
	requireValid(t, s)
}

func TestValidateIgnoresPendingElements(t *testing.T) {
	s, _ := newTestScene(t)
	addPolygon(t, s, square())

	_, err := s.CreatePolygon([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 10)})
	require.NoError(t, err)
	_, err = s.CreatePath([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 10)})
	require.NoError(t, err)
	s.NewDivider(geom.Pt(0, 50), geom.Pt(100, 50))
	s.NewPoint(geom.Pt(3, 3))
	requireValid(t, s)

	// an element that was placed once and then left behind is still reported
	sh := addPath(t, s, geom.Pt(0, 0), geom.Pt(10, 10))
	s.detach(sh.ID())
	err = s.Validate()
	require.ErrorIs(t, err, ErrInvariant)
	assert.Contains(t, err.Error(), "not reachable from the root")
}

func TestHitTesting(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	pts, lines := sh.Points(), sh.Lines()

	tests := []struct {
		name string
		at   geom.Point
		want Element
	}{
		{"inside", geom.Pt(350, 350), sh},
		{"outside", geom.Pt(600, 600), nil},
		{"on edge", geom.Pt(350, 200), lines[0]},
		{"near edge", geom.Pt(350, 204), lines[0]},
		{"vertex", geom.Pt(200, 200), pts[0]},
		{"vertex radius", geom.Pt(211, 200), pts[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ElementAt(tt.at, nil)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.ID(), got.ID())
		})
	}

	t.Run("vertex before edges", func(t *testing.T) {
		hits := s.Hit(geom.Pt(200, 200))
		require.Len(t, hits, 3)
		assert.Equal(t, KindPoint, hits[0].Kind())
		assert.Equal(t, KindLine, hits[1].Kind())
	})

	t.Run("filter", func(t *testing.T) {
		got := s.ElementAt(geom.Pt(200, 200), func(el Element) bool { return el.Kind() == KindLine })
		require.NotNil(t, got)
		assert.Equal(t, KindLine, got.Kind())
	})

	t.Run("rect", func(t *testing.T) {
		hits := s.HitRect(geom.RectFrom(geom.Pt(550, 250), geom.Pt(150, 150)))
		var ids []ID
		for _, h := range hits {
			ids = append(ids, h.ID())
		}
		assert.ElementsMatch(t, []ID{pts[0].ID(), pts[1].ID(), lines[0].ID(), lines[1].ID(), lines[3].ID()}, ids)
	})

	t.Run("hidden", func(t *testing.T) {
		sh.SetHidden(true)
		defer sh.SetHidden(false)
		assert.Nil(t, s.ElementAt(geom.Pt(350, 350), nil))
		assert.Empty(t, s.HitRect(geom.RectFrom(geom.Pt(0, 0), geom.Pt(1000, 1000))))
	})

	t.Run("open shape has no body", func(t *testing.T) {
		open := addPath(t, s, geom.Pt(600, 0), geom.Pt(900, 0), geom.Pt(900, 300))
		assert.Nil(t, s.ElementAt(geom.Pt(800, 100), nil))
		open.Delete()
	})
}

func TestDividerHandles(t *testing.T) {
	s, _ := newTestScene(t)
	d := s.NewDivider(geom.Pt(0, 0), geom.Pt(100, 0))
	s.AddChild(d)
	handles := d.Handles()
	require.Len(t, handles, 2)
	assert.True(t, d.Style().Dashed)
	assert.False(t, d.HandlesVisible(handles[0]))

	hits := s.Hit(geom.Pt(0, 0))
	require.Len(t, hits, 1)
	assert.Equal(t, d.ID(), hits[0].ID())

	d.Select()
	hits = s.Hit(geom.Pt(0, 0))
	require.Len(t, hits, 2)
	assert.Equal(t, handles[0].ID(), hits[0].ID())

	handles[1].MoveTo(200, 50)
	assert.Equal(t, geom.Pt(200, 50), d.End())

	d.Move(10, 10)
	assert.Equal(t, geom.Pt(10, 10), handles[0].Position())
	requireValid(t, s)

	handles[0].Delete()
	assert.Zero(t, s.Len())
	_, ok := s.Element(handles[1].ID())
	assert.False(t, ok)
	requireValid(t, s)
}

func TestSelectionAppearance(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	p, l := sh.Points()[0], sh.Lines()[0]
	p.SetFill("red")

	for _, el := range []Element{sh, p, l} {
		el.Select()
	}
	assert.True(t, p.Selected())
	assert.Equal(t, SelectionColor, p.Appearance().Fill)
	assert.True(t, p.Appearance().Shadow)
	assert.Equal(t, SelectionFill, sh.Appearance().Fill)
	assert.Equal(t, SelectionColor, l.Appearance().Stroke)

	assert.Equal(t, "red", p.Style().Fill, "stored style is untouched")
	rec := s.Export().Children[0].Children[0]
	assert.Equal(t, "red", rec.Fill)
	assert.False(t, rec.Shadow)

	p.Blur()
	assert.Equal(t, p.Style(), p.Appearance())
}

func TestStyleSettersAreNoOpsOnEqualValues(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	require.NoError(t, s.Draw())
	require.False(t, s.Dirty())

	sh.SetStroke(sh.Style().Stroke)
	sh.SetLineWidth(sh.Style().LineWidth)
	sh.SetLabelMode(LabelValue)
	assert.False(t, s.Dirty())

	sh.SetStroke("red")
	assert.True(t, s.Dirty())
	assert.Equal(t, "red", sh.Style().Stroke)
}

func TestSnapScenario(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   geom.Point
	}{
		{23, 74, geom.Pt(0, 50)},
		{23, 76, geom.Pt(0, 100)},
		{-30, 124, geom.Pt(-50, 100)},
	}
	for _, tt := range tests {
		s, _ := newTestScene(t)
		sh := s.CreatePoint(geom.Pt(0, 0))
		s.AddChild(sh)
		p := sh.Points()[0]

		p.Move(tt.dx, tt.dy)
		s.SnapElement(p)
		assert.Equal(t, tt.want, p.Position(), "delta (%v,%v)", tt.dx, tt.dy)
	}
}

func TestLabels(t *testing.T) {
	s, _ := newTestScene(t)
	tri := addPolygon(t, s, []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(0, 100)})
	pts, lines := tri.Points(), tri.Lines()

	deg, ok := pts[1].Angle()
	require.True(t, ok)
	assert.InDelta(t, 45, deg, 1e-9)
	assert.Equal(t, "45°", pts[1].Label())
	assert.True(t, pts[0].IsRightAngle())
	assert.False(t, pts[1].IsRightAngle())

	pts[1].SetOutsideAngle(true)
	assert.Equal(t, "315°", pts[1].Label())

	assert.Equal(t, "100", lines[0].Label())
	assert.Equal(t, "141.42", lines[1].Label())
	s.SetScale(2)
	assert.Equal(t, "50", lines[0].Label())

	lines[0].SetLabelName("a")
	lines[0].SetLabelMode(LabelName)
	assert.Equal(t, "a", lines[0].Label())

	open := addPath(t, s, geom.Pt(500, 0), geom.Pt(600, 0), geom.Pt(600, 100))
	_, ok = open.Points()[1].Angle()
	assert.False(t, ok, "open shapes have no angles")
	assert.Empty(t, open.Points()[1].Label())
}

func TestRedrawScheduler(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewScheduler(60)

	assert.False(t, r.Due(t0), "nothing requested")
	r.Request(t0)
	r.Request(t0.Add(5 * time.Millisecond))
	assert.False(t, r.Due(t0.Add(10*time.Millisecond)))
	assert.True(t, r.Due(t0.Add(17*time.Millisecond)))
	assert.False(t, r.Pending())

	r.Request(t0.Add(12 * time.Millisecond))
	assert.False(t, r.Pending(), "requests older than the last redraw are stale")

	r.Request(t0.Add(20 * time.Millisecond))
	assert.True(t, r.Pending())
	assert.Equal(t, time.Second/60, r.Interval())
	assert.Equal(t, time.Second/DefaultFrameRate, NewScheduler(0).Interval())
}

func TestTickDrawsOncePerFrame(t *testing.T) {
	rend := &countingRenderer{}
	s, clk := newTestScene(t, WithRenderer(rend))

	addPolygon(t, s, square())
	s.SetShowGrid(true)
	assert.False(t, s.Tick(clk.Now()))
	assert.True(t, s.Tick(clk.Advance(20*time.Millisecond)))
	assert.False(t, s.Tick(clk.Advance(20*time.Millisecond)), "no new changes")
	assert.Equal(t, 1, rend.calls)
	assert.False(t, s.Dirty())

	s.SetSnapping(false)
	assert.True(t, s.Tick(clk.Advance(20*time.Millisecond)))
	assert.Equal(t, 2, rend.calls)
}

func TestUpdateListeners(t *testing.T) {
	s, clk := newTestScene(t)
	var docs []Document
	id := s.AddUpdateListener(func(d Document) { docs = append(docs, d) })

	sh := addPolygon(t, s, square())
	require.Len(t, docs, 1, "the first change is delivered immediately")
	assert.Len(t, docs[0].Children, 1)

	sh.SetFill("red")
	sh.SetFill("green")
	s.Tick(clk.Advance(100 * time.Millisecond))
	assert.Len(t, docs, 1)
	s.Tick(clk.Advance(400 * time.Millisecond))
	require.Len(t, docs, 2)
	assert.Equal(t, "green", docs[1].Children[0].Fill)

	s.RemoveUpdateListener(id)
	sh.SetFill("blue")
	s.FlushUpdates()
	assert.Len(t, docs, 2)
}

func TestModeListeners(t *testing.T) {
	s, _ := newTestScene(t)
	var got []Mode
	cancel := s.OnModeChange(func(m Mode) { got = append(got, m) })

	sh := addPath(t, s, geom.Pt(0, 0))
	s.SetCreating(sh.ID())
	s.SetGhost(&Ghost{Start: geom.Pt(0, 0), End: geom.Pt(5, 5)})

	s.SetMode(ModeCreate)
	s.SetMode(ModeCreate)
	s.SetMode(Mode("bogus"))
	assert.Equal(t, []Mode{ModeCreate, ModeCreate}, got)
	assert.Equal(t, ModeCreate, s.Mode())
	assert.Zero(t, s.Creating())
	assert.Nil(t, s.Ghost())

	cancel()
	s.SetMode(ModeSelect)
	assert.Len(t, got, 2)
}

func TestSettings(t *testing.T) {
	s, _ := newTestScene(t, WithGrid(25, true, false), WithSize(800, 600), WithScale(3))
	assert.Equal(t, 25.0, s.GridSpacing())
	assert.True(t, s.ShowGrid())
	assert.False(t, s.Snapping())
	w, h := s.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
	assert.Equal(t, 3.0, s.Scale())

	s.SetGridSpacing(-1)
	s.SetScale(0)
	assert.Equal(t, 25.0, s.GridSpacing())
	assert.Equal(t, 3.0, s.Scale())

	s.SetAbstractRightAngle(true)
	assert.True(t, s.AbstractRightAngle())
	assert.Equal(t, geom.Pt(25, 50), s.Snap(geom.Pt(30, 40)))
}

func TestMenuItems(t *testing.T) {
	s, _ := newTestScene(t)
	sh := addPolygon(t, s, square())
	p := sh.Points()[0]

	items := s.MenuItems(p.ID())
	require.NotEmpty(t, items)
	last := items[len(items)-1]
	assert.Equal(t, "Delete", last.Label)

	red, ok := Find(items, "Red")
	require.True(t, ok)
	red.Action()
	assert.Equal(t, "#ef4444", p.Style().Fill)

	outside, ok := Find(items, "Outside angle")
	require.True(t, ok)
	assert.False(t, outside.Checked)
	outside.Action()
	assert.True(t, p.OutsideAngle())

	lineItems := s.MenuItems(sh.Lines()[0].ID())
	_, ok = Find(lineItems, "Show length")
	assert.True(t, ok)
	width, ok := Find(lineItems, "Width")
	require.True(t, ok)
	assert.Equal(t, MenuSubmenu, width.Kind)

	_, ok = Find(s.MenuItems(sh.ID()), "Fill color")
	assert.True(t, ok)

	assert.Nil(t, s.MenuItems(9999))

	last.Action()
	assert.Len(t, sh.Points(), 3)
	requireValid(t, s)
}
