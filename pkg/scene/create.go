package scene

import (
	"fmt"

	errs "github.com/matzehuels/geomcloze/pkg/errors"
	"github.com/matzehuels/geomcloze/pkg/geom"
)

// The Create factories build shapes that are registered with the scene but
// not yet placed in it. Add them with AddChild.

// CreatePolygon returns a closed shape through pts. It fails with
// INVALID_POLYGON for fewer than three points.
func (s *Scene) CreatePolygon(pts []geom.Point) (*Shape, error) {
	if len(pts) < 3 {
		return nil, errs.New(errs.ErrCodeInvalidPolygon, "polygon needs at least 3 points, got %d", len(pts))
	}
	sh := s.chain(pts)
	first, last, _ := sh.Ends()
	l := s.newLine(PointEnd(last), PointEnd(first))
	s.attach(sh.id, l.id, -1)
	sh.closed = true
	return sh, nil
}

// MustCreatePolygon is like CreatePolygon but panics on error.
func (s *Scene) MustCreatePolygon(pts []geom.Point) *Shape {
	sh, err := s.CreatePolygon(pts)
	if err != nil {
		panic(fmt.Sprintf("scene: CreatePolygon: %v", err))
	}
	return sh
}

// CreatePath returns an open chain through pts.
func (s *Scene) CreatePath(pts []geom.Point) (*Shape, error) {
	if len(pts) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "path needs at least 1 point")
	}
	return s.chain(pts), nil
}

// CreateLine returns an open two-point shape from a to b.
func (s *Scene) CreateLine(a, b geom.Point) *Shape {
	return s.chain([]geom.Point{a, b})
}

// CreatePoint returns a shape holding the single point at.
func (s *Scene) CreatePoint(at geom.Point) *Shape {
	return s.chain([]geom.Point{at})
}

func (s *Scene) chain(pts []geom.Point) *Shape {
	sh := s.newShape()
	var prev *Point
	for _, at := range pts {
		p := s.newPoint(at)
		if prev != nil {
			l := s.newLine(PointEnd(prev), PointEnd(p))
			s.attach(sh.id, l.id, -1)
		}
		s.attach(sh.id, p.id, -1)
		prev = p
	}
	return sh
}
