package scene

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotFound is returned when an element id does not resolve.
	ErrNotFound = errors.New("element not found")

	// ErrInvariant is wrapped by every violation Validate reports.
	ErrInvariant = errors.New("scene invariant violated")
)

// Validate checks the ownership links and the shape invariants of the whole
// scene. It returns nil for a consistent scene and otherwise every
// violation joined into one error. Elements built by the factories and
// never added anywhere are pending, not orphaned, and are only checked for
// their own consistency.
func (s *Scene) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	seen := make(map[ID]bool, len(s.elements))
	var walk func(owner ID, ids []ID)
	walk = func(owner ID, ids []ID) {
		for _, id := range ids {
			el, ok := s.elements[id]
			if !ok {
				fail("child %d of %d is not in the scene", id, owner)
				continue
			}
			if seen[id] {
				fail("%v is owned twice", el)
				continue
			}
			seen[id] = true
			if el.Parent() != owner {
				fail("%v has parent %d, owned by %d", el, el.Parent(), owner)
			}
			walk(id, el.base().children)
		}
	}
	walk(0, s.children)

	for id, el := range s.elements {
		if n := el.base(); !seen[id] && n.parent == 0 && !n.placed {
			seen[id] = true
			walk(id, n.children)
		}
	}

	for id, el := range s.elements {
		if !seen[id] {
			fail("%v is not reachable from the root", el)
		}
	}

	for _, el := range s.elements {
		switch el.Kind() {
		case KindShape:
			errs = append(errs, s.validateShape(el.(*Shape))...)
		case KindDivider:
			d := el.(*Divider)
			if len(d.children) != 2 || !slices.Contains(d.children, d.start.Point) ||
				!slices.Contains(d.children, d.end.Point) {
				fail("%v does not own both of its handles", d)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) validateShape(sh *Shape) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %v: "+format, append([]any{ErrInvariant, sh}, args...)...))
	}

	ids := sh.children
	if len(ids) == 0 {
		fail("empty shape")
		return errs
	}
	if s.kindOf(ids[0]) != KindPoint {
		fail("starts with %v", s.kindOf(ids[0]))
	}
	points := 0
	for i, id := range ids {
		k := s.kindOf(id)
		switch k {
		case KindPoint:
			points++
		case KindLine:
		default:
			fail("child %d is a %v", id, k)
			continue
		}
		if i > 0 && s.kindOf(ids[i-1]) == k {
			fail("children %d and %d are both %vs", ids[i-1], id, k)
		}
		if k != KindLine {
			continue
		}
		l, _ := s.line(id)
		prev := ids[i-1]
		var next ID
		if i+1 < len(ids) {
			next = ids[i+1]
		} else {
			next = ids[0]
		}
		if !l.Touches(prev) || l.Other(prev) != next {
			fail("%v does not connect %d and %d", l, prev, next)
		}
	}

	last := s.kindOf(ids[len(ids)-1])
	wantClosed := points >= 3 && last == KindLine
	if sh.closed != wantClosed {
		fail("closed is %t with %d points and a trailing %v", sh.closed, points, last)
	}
	if !sh.closed && last != KindPoint {
		fail("open shape ends with a line")
	}
	return errs
}
