package interact

import (
	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

type dragKind uint8

const (
	dragNone dragKind = iota
	dragMove
	dragMarquee
	dragDivider
	dragConnect
)

// gesture is the state between a press and its release.
type gesture struct {
	button Button
	mods   Mods
	down   geom.Point // unsnapped scene position of the press
	hit    scene.Element

	// hitWasSelected records the selection state of hit before the press
	// selected it.
	hitWasSelected bool

	drag    dragKind
	targets []scene.Element
	starts  map[scene.ID]geom.Point
	points  []*scene.Point
}

// PointerDown starts a gesture.
func (e *Editor) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonMiddle {
		return
	}
	at := e.toScene(ev)
	g := &gesture{button: ev.Button, mods: ev.Mods, down: at}
	e.gesture = g

	switch e.scene.Mode() {
	case scene.ModeSelect, scene.ModeDivider:
		g.hit = e.hitAt(at)
		if g.hit == nil || ev.Button != ButtonLeft {
			break
		}
		g.hitWasSelected = g.hit.Selected()
		if !g.hitWasSelected {
			e.Select([]scene.Element{g.hit}, ev.Mods.multi())
		}
		e.cursor = CursorGrab
	case scene.ModeCreate:
		g.hit = e.scene.ElementAt(at, e.creatable)
	}
}

// PointerMove updates the gesture in progress or, without one, the cursor
// and the ghost preview. A move that reports no pressed buttons while a
// gesture is active means the release was lost; the gesture ends there.
func (e *Editor) PointerMove(ev PointerEvent) {
	at := e.toScene(ev)
	g := e.gesture
	if g == nil {
		e.hover(at, ev.Mods)
		return
	}
	if ev.Buttons == 0 {
		e.log.Debug("pointer release lost, ending gesture")
		e.PointerUp(ev)
		return
	}
	if g.drag == dragNone {
		if geom.Distance(g.down, at) <= DragThreshold || g.button != ButtonLeft {
			return
		}
		e.beginDrag(g)
	}
	e.updateDrag(g, at, ev.Mods)
}

// PointerUp ends the gesture: a drag is committed, anything else is a
// click.
func (e *Editor) PointerUp(ev PointerEvent) {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	at := e.toScene(ev)
	if g.drag != dragNone {
		e.endDrag(g, at, ev.Mods)
	} else {
		e.click(g, at, ev.Mods)
	}
	e.hover(at, ev.Mods)
}

// PointerLeave ends a gesture whose release can no longer be observed.
func (e *Editor) PointerLeave(ev PointerEvent) {
	if e.gesture != nil && ev.Buttons == 0 {
		e.PointerUp(ev)
	}
}

// Cancel aborts the gesture in progress without committing it. Elements
// already dragged go back to where they started.
func (e *Editor) Cancel() {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	for _, p := range g.points {
		start := g.starts[p.ID()]
		p.MoveTo(start.X, start.Y)
	}
	e.scene.SetMarquee(nil)
	e.scene.SetGhost(nil)
}

// creatable picks the targets of create mode: points and lines of shapes.
func (e *Editor) creatable(el scene.Element) bool {
	if el == nil || el.Hidden() {
		return false
	}
	if k := el.Kind(); k != scene.KindPoint && k != scene.KindLine {
		return false
	}
	owner := e.scene.Owner(el)
	return owner != nil && owner.Kind() == scene.KindShape
}

func (e *Editor) hover(at geom.Point, mods Mods) {
	switch e.scene.Mode() {
	case scene.ModeCreate:
		e.cursor = CursorCrosshair
		if hit := e.scene.ElementAt(at, e.creatable); hit != nil {
			e.cursor = CursorPointer
		}
		if _, end := e.creating(); end != nil {
			e.scene.SetGhost(&scene.Ghost{Start: end.Position(), End: e.place(at, mods)})
		}
	default:
		hit := e.hitAt(at)
		switch {
		case hit != nil && hit.Selected():
			e.cursor = CursorGrab
		case hit != nil:
			e.cursor = CursorPointer
		case e.scene.Mode() == scene.ModeDivider:
			e.cursor = CursorCrosshair
		default:
			e.cursor = CursorDefault
		}
	}
}

// =============================================================================
// Drag
// =============================================================================

func (e *Editor) beginDrag(g *gesture) {
	mode := e.scene.Mode()
	switch {
	case mode == scene.ModeCreate:
		if p, ok := g.hit.(*scene.Point); ok && e.isFreeEnd(p) {
			g.drag = dragConnect
		} else {
			return
		}
	case g.hit != nil:
		g.drag = dragMove
		g.targets = e.topSelection()
		g.starts = make(map[scene.ID]geom.Point)
		for _, el := range g.targets {
			for _, p := range e.affectedPoints(el) {
				if _, dup := g.starts[p.ID()]; !dup {
					g.starts[p.ID()] = p.Position()
					g.points = append(g.points, p)
				}
			}
		}
		e.cursor = CursorGrab
	case mode == scene.ModeDivider && !g.mods.Has(ModShift):
		g.drag = dragDivider
		e.BlurAll()
	default:
		g.drag = dragMarquee
		if !g.mods.multi() {
			e.BlurAll()
		}
	}
	e.log.Debug("drag started", "mode", mode, "kind", g.drag)
}

// affectedPoints returns the points whose coordinates change when el moves.
func (e *Editor) affectedPoints(el scene.Element) []*scene.Point {
	switch el.Kind() {
	case scene.KindPoint:
		return []*scene.Point{el.(*scene.Point)}
	case scene.KindLine:
		return linePoints(el.(*scene.Line))
	case scene.KindDivider:
		return el.(*scene.Divider).Handles()
	case scene.KindShape:
		return el.(*scene.Shape).Points()
	}
	return nil
}

func linePoints(l *scene.Line) []*scene.Point {
	var out []*scene.Point
	if p, ok := l.StartPoint(); ok {
		out = append(out, p)
	}
	if p, ok := l.EndPoint(); ok {
		out = append(out, p)
	}
	return out
}

func (e *Editor) updateDrag(g *gesture, at geom.Point, mods Mods) {
	switch g.drag {
	case dragMove:
		delta := at.Sub(g.down)
		for _, p := range g.points {
			start := g.starts[p.ID()]
			p.MoveTo(start.X+delta.X, start.Y+delta.Y)
		}
	case dragMarquee:
		r := geom.RectFrom(g.down, at)
		e.scene.SetMarquee(&r)
	case dragDivider:
		e.scene.SetGhost(&scene.Ghost{
			Start:   e.place(g.down, g.mods),
			End:     e.place(at, mods),
			Divider: true,
		})
	case dragConnect:
		e.scene.SetGhost(&scene.Ghost{Start: g.hit.Position(), End: e.place(at, mods)})
	}
}

func (e *Editor) endDrag(g *gesture, at geom.Point, mods Mods) {
	e.updateDrag(g, at, mods)
	switch g.drag {
	case dragMove:
		// Dropped elements snap in select mode only.
		if e.scene.Mode() == scene.ModeSelect && e.scene.Snapping() && !mods.Has(ModAlt) {
			for _, el := range g.targets {
				if _, ok := e.scene.Element(el.ID()); ok {
					e.scene.SnapElement(el)
				}
			}
		}
	case dragMarquee:
		r := e.scene.Marquee()
		e.scene.SetMarquee(nil)
		if r == nil {
			return
		}
		var picked []scene.Element
		for _, el := range e.scene.HitRect(*r) {
			if e.selectable(el) {
				picked = append(picked, el)
			}
		}
		e.Select(picked, true)
		e.log.Debug("marquee selection", "count", len(picked))
	case dragDivider:
		ghost := e.scene.Ghost()
		e.scene.SetGhost(nil)
		if ghost == nil || ghost.Start == ghost.End {
			return
		}
		d := e.scene.NewDivider(ghost.Start, ghost.End)
		e.scene.AddChildAt(d, 0)
		e.Select([]scene.Element{d}, false)
		e.log.Debug("divider created", "id", d.ID())
	case dragConnect:
		e.scene.SetGhost(nil)
		from := g.hit.(*scene.Point)
		if to, ok := e.scene.ElementAt(at, e.creatable).(*scene.Point); ok {
			e.connect(from, to)
		}
	}
}

// =============================================================================
// Click
// =============================================================================

func (e *Editor) click(g *gesture, at geom.Point, mods Mods) {
	switch e.scene.Mode() {
	case scene.ModeCreate:
		if g.button == ButtonLeft {
			e.createClick(g.hit, at, mods)
		}
	default:
		e.selectClick(g, mods)
	}
}

func (e *Editor) selectClick(g *gesture, mods Mods) {
	hit := g.hit
	if g.button == ButtonRight {
		// Keep the selection so a context menu can act on it.
		if hit != nil && !hit.Selected() {
			e.Select([]scene.Element{hit}, false)
		}
		return
	}
	switch {
	case hit == nil:
		if !mods.multi() {
			e.BlurAll()
		}
	case mods.multi():
		if g.hitWasSelected {
			e.Blur(hit)
		}
	default:
		e.Select([]scene.Element{hit}, false)
	}
}

func (e *Editor) createClick(hit scene.Element, at geom.Point, mods Mods) {
	s := e.scene
	chain, end := e.creating()

	switch hit := hit.(type) {
	case *scene.Point:
		owner, _ := s.Owner(hit).(*scene.Shape)
		switch {
		case chain != nil && hit.ID() == end.ID():
			e.log.Debug("chain finished", "shape", chain.ID())
			e.endChain()
		case chain != nil:
			if e.connect(end, hit) {
				e.endChain()
			}
		case owner != nil && owner.IsEnd(hit.ID()):
			s.SetCreating(owner.ID())
			e.chainEnd = hit.ID()
		}
	case *scene.Line:
		if owner, ok := s.Owner(hit).(*scene.Shape); ok {
			owner.AddPoint(hit.Segment().Closest(at), 0)
		}
	default:
		pos := e.place(at, mods)
		if chain != nil {
			if p := chain.AddPoint(pos, end.ID()); p != nil {
				e.chainEnd = p.ID()
				return
			}
		}
		sh := s.CreatePoint(pos)
		s.AddChildAt(sh, 0)
		s.SetCreating(sh.ID())
		e.chainEnd = sh.Points()[0].ID()
		e.log.Debug("chain started", "shape", sh.ID())
	}
}

// isFreeEnd reports whether p is a free end of an open shape.
func (e *Editor) isFreeEnd(p *scene.Point) bool {
	owner, ok := e.scene.Owner(p).(*scene.Shape)
	return ok && owner.IsEnd(p.ID())
}

// connect joins two free ends: the ends of one shape close it, the ends of
// two shapes merge them. Anything else is rejected by the shapes.
func (e *Editor) connect(from, to *scene.Point) bool {
	a, okA := e.scene.Owner(from).(*scene.Shape)
	b, okB := e.scene.Owner(to).(*scene.Shape)
	if !okA || !okB || from.ID() == to.ID() {
		return false
	}
	var l *scene.Line
	if a.ID() == b.ID() {
		l = a.ConnectPoints(from.ID(), to.ID())
	} else {
		l = a.Connect(b, from.ID(), to.ID())
	}
	e.log.Debug("connect", "from", from.ID(), "to", to.ID(), "ok", l != nil)
	return l != nil
}
