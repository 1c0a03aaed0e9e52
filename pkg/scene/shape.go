package scene

import (
	"slices"

	"github.com/matzehuels/geomcloze/pkg/geom"
)

// SplitDistance is how close a new point must be to an edge of an open
// shape for AddPoint to split that edge instead of extending the chain.
const SplitDistance = 10

// Shape is a polygon or polyline: an alternating Point, Line, Point, ...
// sequence that is optionally closed by a final line back to the first
// point.
type Shape struct {
	node
	closed bool
}

// Closed reports whether the final line returns to the first point.
func (sh *Shape) Closed() bool { return sh.closed }

// Points returns the shape's points in sequence order.
func (sh *Shape) Points() []*Point {
	var out []*Point
	for _, id := range sh.children {
		if p, ok := sh.scene.point(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Lines returns the shape's lines in sequence order.
func (sh *Shape) Lines() []*Line {
	var out []*Line
	for _, id := range sh.children {
		if l, ok := sh.scene.line(id); ok {
			out = append(out, l)
		}
	}
	return out
}

// Polygon returns the point coordinates in order.
func (sh *Shape) Polygon() []geom.Point {
	pts := sh.Points()
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = p.pos
	}
	return out
}

// Ends returns the first and last point of an open shape. A single point
// shape returns that point twice.
func (sh *Shape) Ends() (first, last *Point, ok bool) {
	if sh.closed || len(sh.children) == 0 {
		return nil, nil, false
	}
	first, ok1 := sh.scene.point(sh.children[0])
	last, ok2 := sh.scene.point(sh.children[len(sh.children)-1])
	return first, last, ok1 && ok2
}

// IsEnd reports whether id is one of the open shape's free ends.
func (sh *Shape) IsEnd(id ID) bool {
	first, last, ok := sh.Ends()
	return ok && (first.id == id || last.id == id)
}

// Area returns the enclosed area of a closed shape, 0 otherwise.
func (sh *Shape) Area() float64 {
	if !sh.closed {
		return 0
	}
	return geom.Area(sh.Polygon())
}

// Perimeter returns the summed edge length.
func (sh *Shape) Perimeter() float64 {
	var sum float64
	for _, l := range sh.Lines() {
		sum += l.Length()
	}
	return sum
}

// Position returns the top left corner of the bounding box.
func (sh *Shape) Position() geom.Point { return geom.Bounds(sh.Polygon()).Min }

// Move shifts every point of the shape.
func (sh *Shape) Move(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, p := range sh.Points() {
		p.pos = p.pos.Add(geom.Pt(dx, dy))
	}
	sh.scene.changed()
}

func (sh *Shape) MoveTo(x, y float64) {
	pos := sh.Position()
	sh.Move(x-pos.X, y-pos.Y)
}

// Hit tests points before lines. The polygon body of a closed shape only
// counts when no vertex or edge was hit.
func (sh *Shape) Hit(at geom.Point) []Element {
	if sh.hidden {
		return nil
	}
	var hits []Element
	for _, p := range sh.Points() {
		hits = append(hits, p.Hit(at)...)
	}
	for _, l := range sh.Lines() {
		hits = append(hits, l.Hit(at)...)
	}
	if len(hits) > 0 {
		return hits
	}
	if sh.closed && geom.InPolygon(at, sh.Polygon()) {
		return []Element{sh}
	}
	return nil
}

func (sh *Shape) HitRect(r geom.Rect) []Element {
	if sh.hidden {
		return nil
	}
	var hits []Element
	for _, p := range sh.Points() {
		hits = append(hits, p.HitRect(r)...)
	}
	for _, l := range sh.Lines() {
		hits = append(hits, l.HitRect(r)...)
	}
	return hits
}

// Delete removes the shape and everything it owns.
func (sh *Shape) Delete() {
	s := sh.scene
	for _, id := range sh.children {
		s.forget(id)
	}
	sh.children = nil
	s.detach(sh.id)
	s.forget(sh.id)
	if s.creating == sh.id {
		s.creating = 0
	}
	s.changed()
}

// AddPoint inserts a new point at `at` and returns it.
//
// With a non-zero to, the point extends the open shape from that free end;
// any other target, or a closed shape, rejects the edit and returns nil.
// Without a target the point splits the nearest edge when the shape is
// closed or the edge is within SplitDistance, and otherwise extends the
// chain from the nearer free end.
func (sh *Shape) AddPoint(at geom.Point, to ID) *Point {
	if to != 0 {
		first, last, ok := sh.Ends()
		if !ok {
			return nil
		}
		switch to {
		case last.id:
		case first.id:
			sh.reverse()
		default:
			return nil
		}
		return sh.extend(at)
	}

	if l, d, ok := sh.nearestLine(at); ok && (sh.closed || d <= SplitDistance) {
		return sh.split(l, at)
	}

	first, last, ok := sh.Ends()
	if !ok {
		if len(sh.children) > 0 {
			return nil
		}
		p := sh.scene.newPoint(at)
		sh.scene.attach(sh.id, p.id, -1)
		sh.checkValidity()
		return p
	}
	if first != last && geom.Distance(first.pos, at) < geom.Distance(last.pos, at) {
		sh.reverse()
	}
	return sh.extend(at)
}

// extend appends a line and a new point after the last point.
func (sh *Shape) extend(at geom.Point) *Point {
	s := sh.scene
	_, last, _ := sh.Ends()
	p := s.newPoint(at)
	l := s.newLine(PointEnd(last), PointEnd(p))
	l.style = sh.lineStyle()
	p.style = sh.pointStyle()
	s.attach(sh.id, l.id, -1)
	s.attach(sh.id, p.id, -1)
	sh.checkValidity()
	return p
}

// split replaces l with two lines meeting at a new point.
func (sh *Shape) split(l *Line, at geom.Point) *Point {
	s := sh.scene
	i := sh.indexOf(l.id)
	prev := geom.At(sh.children, i-1)
	next := geom.At(sh.children, i+1)
	a, _ := s.point(prev)
	b, _ := s.point(next)

	p := s.newPoint(at)
	p.style = sh.pointStyle()
	l1 := s.newLine(PointEnd(a), PointEnd(p))
	l2 := s.newLine(PointEnd(p), PointEnd(b))
	l1.style, l2.style = l.style, l.style

	s.detach(l.id)
	s.forget(l.id)
	s.attach(sh.id, l1.id, i)
	s.attach(sh.id, p.id, i+1)
	s.attach(sh.id, l2.id, i+2)
	sh.checkValidity()
	return p
}

func (sh *Shape) nearestLine(at geom.Point) (*Line, float64, bool) {
	var best *Line
	bestDist := 0.0
	for _, l := range sh.Lines() {
		if d := l.Segment().DistanceTo(at); best == nil || d < bestDist {
			best, bestDist = l, d
		}
	}
	return best, bestDist, best != nil
}

// RemovePoint removes p with its adjacent lines. When both neighbors
// existed and at least five children remain, a bridging line reconnects
// the orphaned neighbors.
func (sh *Shape) RemovePoint(p *Point) bool {
	s := sh.scene
	i := sh.indexOf(p.id)
	if i < 0 {
		return false
	}
	n := len(sh.children)
	var prevLine, nextLine *Line
	if sh.closed || i > 0 {
		prevLine, _ = s.line(geom.At(sh.children, i-1))
	}
	if sh.closed || i < n-1 {
		nextLine, _ = s.line(geom.At(sh.children, i+1))
	}

	style := Style{}
	for _, l := range []*Line{prevLine, nextLine} {
		if l != nil {
			style = l.style
			s.detach(l.id)
			s.forget(l.id)
		}
	}
	s.detach(p.id)
	s.forget(p.id)

	if prevLine != nil && nextLine != nil && prevLine != nextLine && len(sh.children) >= 5 {
		a, b := prevLine.Other(p.id), nextLine.Other(p.id)
		pa, okA := s.point(a)
		pb, okB := s.point(b)
		if okA && okB && a != b {
			bridge := s.newLine(PointEnd(pa), PointEnd(pb))
			bridge.style = style
			at := sh.indexOf(a)
			if at == len(sh.children)-1 {
				s.attach(sh.id, bridge.id, -1)
			} else {
				s.attach(sh.id, bridge.id, at+1)
			}
		}
	}
	sh.checkValidity()
	return true
}

// RemoveLine removes l and lets the repair pass split or reopen the shape.
func (sh *Shape) RemoveLine(l *Line) bool {
	if sh.indexOf(l.id) < 0 {
		return false
	}
	s := sh.scene
	s.detach(l.id)
	s.forget(l.id)
	sh.checkValidity()
	return true
}

// Connect joins the free end mine of sh to the free end theirs of other
// with a new line. other's children move into sh and other is deleted.
// Closed shapes and non-end points reject the edit.
func (sh *Shape) Connect(other *Shape, mine, theirs ID) *Line {
	if other == nil || other.id == sh.id || sh.closed || other.closed {
		return nil
	}
	if !sh.IsEnd(mine) || !other.IsEnd(theirs) {
		return nil
	}
	s := sh.scene

	if _, last, _ := sh.Ends(); last.id != mine {
		sh.reverse()
	}
	if first, _, _ := other.Ends(); first.id != theirs {
		other.reverse()
	}

	a, _ := s.point(mine)
	b, _ := s.point(theirs)
	l := s.newLine(PointEnd(a), PointEnd(b))
	l.style = sh.lineStyle()
	s.attach(sh.id, l.id, -1)
	for _, id := range other.Children() {
		s.attach(sh.id, id, -1)
	}
	s.detach(other.id)
	s.forget(other.id)
	if s.creating == other.id {
		s.creating = sh.id
	}

	sh.checkValidity()
	return l
}

// ConnectPoints closes an open shape by joining its first and last point.
// It only accepts the two free ends of a chain of at least three points.
func (sh *Shape) ConnectPoints(p1, p2 ID) *Line {
	if sh.closed || p1 == p2 {
		return nil
	}
	first, last, ok := sh.Ends()
	if !ok || len(sh.Points()) < 3 {
		return nil
	}
	if !(p1 == first.id && p2 == last.id) && !(p1 == last.id && p2 == first.id) {
		return nil
	}
	s := sh.scene
	l := s.newLine(PointEnd(last), PointEnd(first))
	l.style = sh.lineStyle()
	s.attach(sh.id, l.id, -1)
	sh.checkValidity()
	return l
}

// reverse flips the sequence so the first point becomes the last.
func (sh *Shape) reverse() {
	slices.Reverse(sh.children)
}

// lineStyle and pointStyle pick the style of an existing sibling so new
// edges and vertices match the rest of the shape.
func (sh *Shape) lineStyle() Style {
	if ls := sh.Lines(); len(ls) > 0 {
		return ls[len(ls)-1].style
	}
	return sh.scene.defaults
}

func (sh *Shape) pointStyle() Style {
	if ps := sh.Points(); len(ps) > 0 {
		return ps[len(ps)-1].style
	}
	return sh.scene.defaults
}
