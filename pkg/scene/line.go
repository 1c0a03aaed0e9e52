package scene

import (
	"github.com/matzehuels/geomcloze/pkg/geom"
)

// Endpoint is one end of a line: either a reference to a Point or, when
// Point is zero, the bare coordinate At.
type Endpoint struct {
	Point ID
	At    geom.Point
}

// PointEnd returns an endpoint bound to p.
func PointEnd(p *Point) Endpoint { return Endpoint{Point: p.id, At: p.pos} }

// CoordEnd returns a bare coordinate endpoint.
func CoordEnd(at geom.Point) Endpoint { return Endpoint{At: at} }

// Line is a straight segment between two endpoints. Lines inside a shape
// reference their neighboring points; they do not own them.
type Line struct {
	node
	start, end Endpoint
}

func (l *Line) resolve(e Endpoint) geom.Point {
	if p, ok := l.scene.point(e.Point); ok {
		return p.pos
	}
	return e.At
}

// Start returns the current start coordinate.
func (l *Line) Start() geom.Point { return l.resolve(l.start) }

// End returns the current end coordinate.
func (l *Line) End() geom.Point { return l.resolve(l.end) }

// StartPoint returns the point bound to the start, if any.
func (l *Line) StartPoint() (*Point, bool) { return l.scene.point(l.start.Point) }

// EndPoint returns the point bound to the end, if any.
func (l *Line) EndPoint() (*Point, bool) { return l.scene.point(l.end.Point) }

// Segment returns the line's current geometry.
func (l *Line) Segment() geom.Segment { return geom.Seg(l.Start(), l.End()) }

// Length returns the distance between the endpoints.
func (l *Line) Length() float64 { return l.Segment().Len() }

// Touches reports whether one of the endpoints is bound to point id.
func (l *Line) Touches(id ID) bool {
	return id != 0 && (l.start.Point == id || l.end.Point == id)
}

// Other returns the point bound to the end opposite id, or 0.
func (l *Line) Other(id ID) ID {
	switch id {
	case l.start.Point:
		return l.end.Point
	case l.end.Point:
		return l.start.Point
	}
	return 0
}

// SetStart rebinds or moves the start. A bare coordinate given to a line
// whose start is a point moves that point instead.
func (l *Line) SetStart(e Endpoint) { l.setEnd(&l.start, e) }

// SetEnd is SetStart for the end.
func (l *Line) SetEnd(e Endpoint) { l.setEnd(&l.end, e) }

func (l *Line) setEnd(cur *Endpoint, e Endpoint) {
	if p, ok := l.scene.point(cur.Point); ok && e.Point == 0 {
		p.MoveTo(e.At.X, e.At.Y)
		return
	}
	*cur = e
	l.scene.changed()
}

func (l *Line) Position() geom.Point { return l.Start() }

// Move shifts both endpoints. Bound points move with the line.
func (l *Line) Move(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, e := range []*Endpoint{&l.start, &l.end} {
		if p, ok := l.scene.point(e.Point); ok {
			p.Move(dx, dy)
			continue
		}
		e.At = e.At.Add(geom.Pt(dx, dy))
	}
	l.scene.changed()
}

func (l *Line) MoveTo(x, y float64) {
	start := l.Start()
	l.Move(x-start.X, y-start.Y)
}

func (l *Line) Hit(at geom.Point) []Element {
	if l.hidden {
		return nil
	}
	if l.Segment().DistanceTo(at) <= l.style.LineWidth+TouchTolerance {
		return []Element{l}
	}
	return nil
}

func (l *Line) HitRect(r geom.Rect) []Element {
	if l.hidden || !r.IntersectsSegment(l.Segment()) {
		return nil
	}
	return []Element{l}
}

// Label returns the line's label text: its length divided by the scene
// scale, or the label name.
func (l *Line) Label() string {
	if l.style.LabelMode == LabelName {
		return l.style.LabelName
	}
	return geom.Round(l.Length()/l.scene.scale, 2)
}

// Delete removes the line. Inside a shape this goes through RemoveLine so
// the shape repairs itself.
func (l *Line) Delete() {
	s := l.scene
	if owner, ok := s.shape(l.parent); ok {
		owner.RemoveLine(l)
		return
	}
	s.detach(l.id)
	s.forget(l.id)
	s.changed()
}
