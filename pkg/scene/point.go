package scene

import (
	"math"

	"github.com/matzehuels/geomcloze/pkg/geom"
)

// TouchTolerance widens hit areas so small targets stay clickable.
const TouchTolerance = 2

// Point is a vertex. Its coordinate is authoritative: lines that reference
// the point read it from here.
type Point struct {
	node
	pos          geom.Point
	outsideAngle bool
}

func (p *Point) Position() geom.Point { return p.pos }

func (p *Point) Move(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	p.pos = p.pos.Add(geom.Pt(dx, dy))
	p.scene.changed()
}

func (p *Point) MoveTo(x, y float64) {
	p.Move(x-p.pos.X, y-p.pos.Y)
}

func (p *Point) Hit(at geom.Point) []Element {
	if p.hidden {
		return nil
	}
	if geom.Distance(p.pos, at)-TouchTolerance < p.style.PointRadius+p.style.LineWidth/2 {
		return []Element{p}
	}
	return nil
}

func (p *Point) HitRect(r geom.Rect) []Element {
	if p.hidden || !r.Contains(p.pos) {
		return nil
	}
	return []Element{p}
}

// OutsideAngle reports whether the angle label shows the reflex angle.
func (p *Point) OutsideAngle() bool { return p.outsideAngle }

func (p *Point) SetOutsideAngle(on bool) {
	if p.outsideAngle == on {
		return
	}
	p.outsideAngle = on
	p.scene.changed()
}

// Angle returns the interior angle in degrees at p when p is a vertex of a
// closed shape, or the outside angle when that flag is set.
func (p *Point) Angle() (float64, bool) {
	sh, ok := p.scene.shape(p.parent)
	if !ok || !sh.closed {
		return 0, false
	}
	pts := sh.Points()
	i := -1
	for j, q := range pts {
		if q.id == p.id {
			i = j
			break
		}
	}
	if i < 0 || len(pts) < 3 {
		return 0, false
	}
	prev, next := geom.At(pts, i-1).pos, geom.At(pts, i+1).pos
	deg := geom.Angle(prev, p.pos, next)

	// The raw angle is measured counter-clockwise; pick the side that faces
	// into the polygon.
	bisector := prev.Sub(p.pos).Normalize().Add(next.Sub(p.pos).Normalize())
	probe := p.pos.Add(bisector.Normalize().Scale(1))
	inside := geom.InPolygon(probe, sh.Polygon())
	if (deg > 180) == inside {
		deg = 360 - deg
	}
	if p.outsideAngle {
		deg = 360 - deg
	}
	return deg, true
}

// IsRightAngle reports whether Angle is within half a degree of 90.
func (p *Point) IsRightAngle() bool {
	deg, ok := p.Angle()
	return ok && math.Abs(deg-90) < 0.5
}

// Label returns the text for the point's label, or "" when it has none.
func (p *Point) Label() string {
	if p.style.LabelMode == LabelName {
		return p.style.LabelName
	}
	deg, ok := p.Angle()
	if !ok {
		return ""
	}
	return geom.Round(deg, 2) + "°"
}

// Delete removes the point. Inside a shape this goes through RemovePoint so
// the shape repairs itself; deleting a divider's handle deletes the divider.
func (p *Point) Delete() {
	s := p.scene
	if owner, ok := s.elements[p.parent]; ok {
		switch owner.Kind() {
		case KindShape:
			owner.(*Shape).RemovePoint(p)
			return
		case KindDivider:
			owner.Delete()
			return
		}
	}
	s.detach(p.id)
	s.forget(p.id)
	s.changed()
}
