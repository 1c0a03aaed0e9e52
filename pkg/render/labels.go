package render

import (
	"math"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// lineLabel draws a line's label beside its midpoint, on the side of the
// edge facing away from the shape's interior.
func (p *Painter) lineLabel(surf Surface, sh *scene.Shape, l *scene.Line) error {
	text := l.Label()
	if text == "" {
		return nil
	}
	st := l.Style()
	seg := l.Segment()
	mid := geom.Midpoint(seg.A, seg.B)
	normal := seg.Vector().Orthogonal().Normalize()
	if normal == (geom.Point{}) {
		normal = geom.Pt(0, -1)
	}
	if sh.Closed() {
		if geom.InPolygon(mid.Add(normal), sh.Polygon()) {
			normal = normal.Scale(-1)
		}
	} else if normal.Y > 0 {
		normal = normal.Scale(-1)
	}
	at := mid.Add(normal.Scale(labelGap + st.LineWidth))
	return surf.Text(text, at, TextStyle{Color: MustColor(st.LabelColor), Size: p.labelSize, Anchor: AnchorCenter})
}

// pointLabel draws a vertex's angle mark and label. A right angle is drawn
// as a small square when the scene abstracts right angles.
func (p *Painter) pointLabel(s *scene.Scene, surf Surface, sh *scene.Shape, pt *scene.Point) error {
	st := pt.Style()
	text := pt.Label()
	ts := TextStyle{Color: MustColor(st.LabelColor), Size: p.labelSize, Anchor: AnchorCenter}
	at := pt.Position()

	deg, ok := pt.Angle()
	if !ok {
		if text == "" {
			return nil
		}
		return surf.Text(text, at.Add(geom.Pt(0, -(st.PointRadius+labelGap))), ts)
	}

	// u+v points into the smaller of the two angles at the vertex.
	u, v := neighborDirs(sh, pt)
	bisector := u.Add(v).Normalize()
	switch {
	case bisector == (geom.Point{}):
		bisector = u.Orthogonal()
		if geom.InPolygon(at.Add(bisector), sh.Polygon()) == pt.OutsideAngle() {
			bisector = bisector.Scale(-1)
		}
	case deg > 180:
		bisector = bisector.Scale(-1)
	}

	pen := Pen{Color: ts.Color, Width: 1.5}
	r := math.Max(angleMarkRadius, st.PointRadius+6)
	if s.AbstractRightAngle() && pt.IsRightAngle() {
		side := r / math.Sqrt2
		surf.MoveTo(at.Add(u.Scale(side)))
		surf.LineTo(at.Add(u.Scale(side)).Add(v.Scale(side)))
		surf.LineTo(at.Add(v.Scale(side)))
	} else {
		arc(surf, at, r, math.Atan2(bisector.Y, bisector.X), deg*math.Pi/180)
	}
	if err := surf.Stroke(pen); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return surf.Text(text, at.Add(bisector.Scale(r+labelGap)), ts)
}

// neighborDirs returns unit vectors from pt towards its neighbors along the
// boundary.
func neighborDirs(sh *scene.Shape, pt *scene.Point) (geom.Point, geom.Point) {
	pts := sh.Points()
	for i, q := range pts {
		if q.ID() != pt.ID() {
			continue
		}
		prev := geom.At(pts, i-1).Position()
		next := geom.At(pts, i+1).Position()
		at := pt.Position()
		return prev.Sub(at).Normalize(), next.Sub(at).Normalize()
	}
	return geom.Pt(1, 0), geom.Pt(0, 1)
}

// arc appends a polyline approximating a circular arc of the given sweep,
// centered on the direction mid.
func arc(surf Surface, c geom.Point, r, mid, sweep float64) {
	start := mid - sweep/2
	for i := 0; i <= arcSegments; i++ {
		a := start + sweep*float64(i)/arcSegments
		pt := geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
		if i == 0 {
			surf.MoveTo(pt)
		} else {
			surf.LineTo(pt)
		}
	}
}
