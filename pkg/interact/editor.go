// Package interact turns pointer and keyboard input into scene edits.
//
// An [Editor] sits between a host (a terminal UI, a browser bridge, a test)
// and a [scene.Scene]. The host forwards raw events; the editor runs the
// select, create and divider mode state machine on top of them. Gestures
// start with a press, become a drag once the pointer travels more than
// [DragThreshold] scene units and end with a release.
//
// Hit-testing always uses the unsnapped pointer position. Coordinates that
// place geometry (new points, divider ends and the ghost preview) are
// snapped to the grid while snapping is on and Alt is not held.
package interact

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// DragThreshold is the distance the pointer must travel after a press
// before the gesture counts as a drag.
const DragThreshold = 5

// Editor is the interaction state machine for one scene.
// An Editor is not safe for concurrent use.
type Editor struct {
	scene    *scene.Scene
	log      *log.Logger
	viewport Viewport

	selection []scene.ID
	chainEnd  scene.ID
	gesture   *gesture
	cursor    Cursor

	unsubscribe func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithViewport sets the device to scene mapping.
func WithViewport(v Viewport) Option {
	return func(e *Editor) { e.viewport = v }
}

// New returns an editor driving s.
func New(s *scene.Scene, opts ...Option) *Editor {
	e := &Editor{
		scene:    s,
		log:      log.Default(),
		viewport: Identity,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.unsubscribe = s.OnModeChange(e.modeChanged)
	return e
}

// Close detaches the editor from the scene's mode notifications.
func (e *Editor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Scene returns the edited scene.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// Viewport returns the device to scene mapping.
func (e *Editor) Viewport() Viewport { return e.viewport }

// SetViewport replaces the device to scene mapping.
func (e *Editor) SetViewport(v Viewport) { e.viewport = v }

// Cursor returns the cursor for the last pointer position.
func (e *Editor) Cursor() Cursor { return e.cursor }

// SetMode switches the scene's interaction mode.
func (e *Editor) SetMode(m scene.Mode) { e.scene.SetMode(m) }

// Mode returns the scene's interaction mode.
func (e *Editor) Mode() scene.Mode { return e.scene.Mode() }

func (e *Editor) modeChanged(m scene.Mode) {
	e.gesture = nil
	e.chainEnd = 0
	for _, el := range e.Selection() {
		if !e.selectable(el) {
			e.Blur(el)
		}
	}
	e.log.Debug("editor mode", "mode", m)
}

// toScene maps an event into scene space without snapping.
func (e *Editor) toScene(ev PointerEvent) geom.Point {
	return e.viewport.ToScene(ev.device())
}

// place snaps p for placing geometry.
func (e *Editor) place(p geom.Point, mods Mods) geom.Point {
	if !e.scene.Snapping() || mods.Has(ModAlt) {
		return p
	}
	return e.scene.Snap(p)
}

// selectable reports whether el can be picked in the current mode. Divider
// mode only offers dividers and their handles.
func (e *Editor) selectable(el scene.Element) bool {
	if el == nil || el.Hidden() {
		return false
	}
	if e.scene.Mode() != scene.ModeDivider {
		return true
	}
	if el.Kind() == scene.KindDivider {
		return true
	}
	owner := e.scene.Owner(el)
	return owner != nil && owner.Kind() == scene.KindDivider
}

// hitAt returns the finest selectable element under p.
func (e *Editor) hitAt(p geom.Point) scene.Element {
	return e.scene.ElementAt(p, e.selectable)
}

// creating returns the shape the current chain extends and its active end.
// A stale chain (its shape gone or closed, or the end no longer free) is
// dropped.
func (e *Editor) creating() (*scene.Shape, *scene.Point) {
	id := e.scene.Creating()
	if id == 0 {
		return nil, nil
	}
	el, ok := e.scene.Element(id)
	sh, isShape := el.(*scene.Shape)
	if !ok || !isShape || sh.Closed() {
		e.endChain()
		return nil, nil
	}
	first, last, ok := sh.Ends()
	if !ok {
		e.endChain()
		return nil, nil
	}
	switch e.chainEnd {
	case first.ID():
		return sh, first
	case last.ID():
		return sh, last
	}
	e.chainEnd = last.ID()
	return sh, last
}

func (e *Editor) endChain() {
	e.scene.SetCreating(0)
	e.scene.SetGhost(nil)
	e.chainEnd = 0
}

// =============================================================================
// Selection
// =============================================================================

// Selection returns the selected elements still in the scene, in the order
// they were selected.
func (e *Editor) Selection() []scene.Element {
	out := make([]scene.Element, 0, len(e.selection))
	kept := e.selection[:0]
	for _, id := range e.selection {
		if el, ok := e.scene.Element(id); ok {
			out = append(out, el)
			kept = append(kept, id)
		}
	}
	e.selection = kept
	return out
}

// Select selects els. Without keep the previous selection is cleared first.
func (e *Editor) Select(els []scene.Element, keep bool) {
	if !keep {
		e.BlurAll()
	}
	for _, el := range els {
		if el == nil || slices.Contains(e.selection, el.ID()) {
			continue
		}
		el.Select()
		e.selection = append(e.selection, el.ID())
	}
}

// Blur removes el from the selection.
func (e *Editor) Blur(el scene.Element) {
	if el == nil {
		return
	}
	el.Blur()
	e.selection = slices.DeleteFunc(e.selection, func(id scene.ID) bool { return id == el.ID() })
}

// BlurAll clears the selection.
func (e *Editor) BlurAll() {
	for _, el := range e.Selection() {
		el.Blur()
	}
	e.selection = e.selection[:0]
}

// SelectAll selects every selectable top-level element.
func (e *Editor) SelectAll() {
	var els []scene.Element
	for _, el := range e.scene.Children() {
		if e.selectable(el) {
			els = append(els, el)
		}
	}
	e.Select(els, false)
}

// topSelection returns the selected elements that have no selected
// ancestor.
func (e *Editor) topSelection() []scene.Element {
	sel := e.Selection()
	out := make([]scene.Element, 0, len(sel))
	for _, el := range sel {
		covered := false
		for owner := e.scene.Owner(el); owner != nil; owner = e.scene.Owner(owner) {
			if owner.Selected() {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, el)
		}
	}
	return out
}

// DeleteSelection deletes every selected element.
func (e *Editor) DeleteSelection() {
	targets := e.topSelection()
	e.BlurAll()
	for _, el := range targets {
		if _, ok := e.scene.Element(el.ID()); ok {
			el.Delete()
		}
	}
	if len(targets) > 0 {
		e.log.Debug("deleted selection", "count", len(targets))
	}
}

// =============================================================================
// Context menu
// =============================================================================

// ContextMenu returns the menu for the element under ev, selecting it when
// it is not selected yet. Empty space yields the scene settings menu.
func (e *Editor) ContextMenu(ev PointerEvent) []scene.MenuItem {
	hit := e.hitAt(e.toScene(ev))
	if hit == nil {
		return e.sceneMenu()
	}
	if !hit.Selected() {
		e.Select([]scene.Element{hit}, false)
	}
	return e.scene.MenuItems(hit.ID())
}

func (e *Editor) sceneMenu() []scene.MenuItem {
	s := e.scene
	modes := []scene.MenuItem{}
	for _, m := range []scene.Mode{scene.ModeSelect, scene.ModeCreate, scene.ModeDivider} {
		modes = append(modes, scene.MenuItem{
			Kind:    scene.MenuCheckbox,
			Label:   string(m),
			Checked: s.Mode() == m,
			Action:  func() { s.SetMode(m) },
		})
	}
	return []scene.MenuItem{
		{Kind: scene.MenuSubmenu, Label: "Mode", Items: modes},
		{Kind: scene.MenuDivider},
		{Kind: scene.MenuCheckbox, Label: "Show grid", Checked: s.ShowGrid(), Action: func() { s.SetShowGrid(!s.ShowGrid()) }},
		{Kind: scene.MenuCheckbox, Label: "Snapping", Checked: s.Snapping(), Action: func() { s.SetSnapping(!s.Snapping()) }},
		{
			Kind:    scene.MenuCheckbox,
			Label:   "Abstract right angles",
			Checked: s.AbstractRightAngle(),
			Action:  func() { s.SetAbstractRightAngle(!s.AbstractRightAngle()) },
		},
	}
}
