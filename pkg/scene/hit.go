package scene

import "github.com/matzehuels/geomcloze/pkg/geom"

// Hit returns the elements under p, topmost child first and, within a
// child, finest element first.
func (s *Scene) Hit(p geom.Point) []Element {
	var hits []Element
	for _, el := range s.Children() {
		hits = append(hits, el.Hit(p)...)
	}
	return hits
}

// HitRect returns every element intersecting r in top-down order.
func (s *Scene) HitRect(r geom.Rect) []Element {
	var hits []Element
	for _, el := range s.Children() {
		hits = append(hits, el.HitRect(r)...)
	}
	return hits
}

// ElementAt returns the first element under p accepted by keep, or nil.
// A nil keep accepts everything.
func (s *Scene) ElementAt(p geom.Point, keep func(Element) bool) Element {
	for _, el := range s.Hit(p) {
		if keep == nil || keep(el) {
			return el
		}
	}
	return nil
}

// TopLevel returns the root child that owns el, walking up the parents.
func (s *Scene) TopLevel(el Element) Element {
	for el != nil && el.Parent() != 0 {
		owner, ok := s.elements[el.Parent()]
		if !ok {
			return nil
		}
		el = owner
	}
	return el
}

// Owner returns the element owning el, or nil for top-level elements.
func (s *Scene) Owner(el Element) Element {
	if el == nil {
		return nil
	}
	owner, ok := s.elements[el.Parent()]
	if !ok {
		return nil
	}
	return owner
}
