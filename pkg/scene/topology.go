package scene

import "slices"

// run is a maximal connected point/line chain found by the repair pass.
type run struct {
	ids    []ID
	closed bool
}

// checkValidity restores the shape invariants after a structural edit.
//
// The children are filtered, rotated so the sequence starts at a run
// boundary and split into runs. The last run stays with sh, every other run
// becomes a new sibling shape, and elements that ended up in no run are
// removed from the scene. A shape left with no run deletes itself.
func (sh *Shape) checkValidity() {
	s := sh.scene
	before := slices.Clone(sh.children)

	seq := make([]ID, 0, len(before))
	for _, id := range before {
		if k := s.kindOf(id); k == KindPoint || k == KindLine {
			seq = append(seq, id)
		}
	}
	seq = s.dropDoubledLines(seq)
	seq = s.rotateToBoundary(seq)
	runs := s.splitRuns(seq)

	for _, id := range before {
		s.detach(id)
	}

	placed := make(map[ID]bool, len(before))
	spawned := 0
	if len(runs) > 0 {
		keep := runs[len(runs)-1]
		for _, id := range keep.ids {
			s.attach(sh.id, id, -1)
			placed[id] = true
		}
		sh.closed = keep.closed

		for _, r := range runs[:len(runs)-1] {
			ns := s.newShape()
			ns.style = sh.style
			ns.name = sh.name
			ns.closed = r.closed
			for _, id := range r.ids {
				s.attach(ns.id, id, -1)
				placed[id] = true
			}
			s.attach(0, ns.id, -1)
			spawned++
		}
	}

	for _, id := range before {
		if !placed[id] {
			s.forget(id)
		}
	}

	if len(runs) == 0 {
		sh.closed = false
		s.detach(sh.id)
		s.forget(sh.id)
		if s.creating == sh.id {
			s.creating = 0
		}
	}

	s.log.Debug("repaired shape", "shape", sh.id, "runs", len(runs), "spawned", spawned,
		"dropped", len(before)-len(placed))
	s.hooks().OnRepair(uint64(sh.id), len(runs), spawned)
	s.changed()
}

// dropDoubledLines removes every line with a line for a neighbor. The
// sequence is treated as a ring so a line at either end is compared with
// the element at the other end.
func (s *Scene) dropDoubledLines(seq []ID) []ID {
	n := len(seq)
	out := make([]ID, 0, n)
	for i, id := range seq {
		if s.kindOf(id) == KindLine {
			prev := s.kindOf(seq[(i-1+n)%n])
			next := s.kindOf(seq[(i+1)%n])
			if prev == KindLine || next == KindLine {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

// rotateToBoundary rotates seq so it starts right after the first pair of
// same-kind neighbors, wrapping around the end. A perfectly alternating
// ring that starts with a line is rotated by one so it starts with a point.
func (s *Scene) rotateToBoundary(seq []ID) []ID {
	n := len(seq)
	if n < 2 {
		return seq
	}
	start := -1
	for i := range n {
		if s.kindOf(seq[i]) == s.kindOf(seq[(i+1)%n]) {
			start = (i + 1) % n
			break
		}
	}
	if start < 0 {
		start = 0
		if s.kindOf(seq[0]) == KindLine {
			start = 1
		}
	}
	return append(slices.Clone(seq[start:]), seq[:start]...)
}

// splitRuns walks seq and cuts it into connected runs. A run ends at two
// same-kind neighbors or at a line that does not connect the points around
// it. A run never opens with a line, and a trailing line survives only if
// it closes a run of at least three points.
func (s *Scene) splitRuns(seq []ID) []run {
	var runs []run
	var cur []ID
	points := 0

	flush := func() {
		closed := false
		if n := len(cur); n > 0 && s.kindOf(cur[n-1]) == KindLine {
			l, _ := s.line(cur[n-1])
			if points >= 3 && l.Touches(cur[0]) {
				closed = true
			} else {
				cur = cur[:n-1]
			}
		}
		if len(cur) > 0 {
			runs = append(runs, run{ids: cur, closed: closed})
		}
		cur, points = nil, 0
	}

	for _, id := range seq {
		n := len(cur)
		switch s.kindOf(id) {
		case KindPoint:
			if n >= 2 && s.kindOf(cur[n-1]) == KindLine {
				l, _ := s.line(cur[n-1])
				if l.Other(cur[n-2]) == id {
					cur = append(cur, id)
					points++
					continue
				}
			}
			if n > 0 {
				flush()
			}
			cur = []ID{id}
			points = 1
		case KindLine:
			if n > 0 && s.kindOf(cur[n-1]) == KindPoint {
				l, _ := s.line(id)
				if l.Touches(cur[n-1]) {
					cur = append(cur, id)
					continue
				}
			}
			flush()
		}
	}
	flush()
	return runs
}
