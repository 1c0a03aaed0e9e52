package scene

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomcloze/pkg/debounce"
	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/observability"
)

// Mode is the interaction mode stored on the scene.
type Mode string

const (
	ModeSelect  Mode = "select"
	ModeCreate  Mode = "create"
	ModeDivider Mode = "divider"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSelect, ModeCreate, ModeDivider:
		return true
	}
	return false
}

// Defaults for a new scene.
const (
	DefaultWidth       = 1000
	DefaultHeight      = 700
	DefaultGridSpacing = 50
	DefaultFrameRate   = 60
	DefaultUpdateDelay = 500 * time.Millisecond
	DefaultUpdateLimit = 2 * time.Second
)

// Renderer draws a scene. It is called from Scene.Tick when a redraw is due.
type Renderer interface {
	Render(s *Scene) error
}

// Ghost is the transient preview line of an in-progress create or divider
// gesture. It is drawn but never exported.
type Ghost struct {
	Start, End geom.Point
	Divider    bool
}

// Scene is the root of the element tree. It owns the element arena, the id
// allocator, the interaction mode and the grid settings, and it schedules
// redraws and update notifications.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	log   *log.Logger
	clock func() time.Time

	width, height float64

	elements map[ID]Element
	children []ID
	nextID   ID

	mode               Mode
	gridSpacing        float64
	showGrid           bool
	snapping           bool
	abstractRightAngle bool
	scale              float64
	defaults           Style

	creating ID
	ghost    *Ghost
	marquee  *geom.Rect

	dirty    bool
	suspend  int
	redraw   *Scheduler
	renderer Renderer
	updates  *debounce.Debouncer

	modeListeners   []listener[Mode]
	updateListeners []listener[Document]
	nextListener    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scene) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithSize sets the scene's coordinate space.
func WithSize(width, height float64) Option {
	return func(s *Scene) { s.width, s.height = width, height }
}

// WithGrid sets the grid spacing and whether the grid is shown and snapped
// to.
func WithGrid(spacing float64, show, snap bool) Option {
	return func(s *Scene) {
		if spacing > 0 {
			s.gridSpacing = spacing
		}
		s.showGrid, s.snapping = show, snap
	}
}

// WithFrameRate sets the redraw rate.
func WithFrameRate(fps int) Option {
	return func(s *Scene) { s.redraw = NewScheduler(fps) }
}

// WithUpdateDebounce sets the delay and latency ceiling of update
// notifications.
func WithUpdateDebounce(delay, ceiling time.Duration) Option {
	return func(s *Scene) { s.updates = debounce.New(s.notifyUpdate, delay, ceiling) }
}

// WithRenderer attaches the renderer used by Tick.
func WithRenderer(r Renderer) Option {
	return func(s *Scene) { s.renderer = r }
}

// WithScale sets the units-per-length factor used for length labels.
func WithScale(scale float64) Option {
	return func(s *Scene) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// WithAbstractRightAngle draws right angles as a small square.
func WithAbstractRightAngle(on bool) Option {
	return func(s *Scene) { s.abstractRightAngle = on }
}

// New returns an empty scene in select mode.
func New(opts ...Option) *Scene {
	s := &Scene{
		log:         log.Default(),
		clock:       time.Now,
		width:       DefaultWidth,
		height:      DefaultHeight,
		elements:    make(map[ID]Element),
		mode:        ModeSelect,
		gridSpacing: DefaultGridSpacing,
		snapping:    true,
		scale:       1,
		defaults:    DefaultStyle(),
		redraw:      NewScheduler(DefaultFrameRate),
	}
	s.updates = debounce.New(s.notifyUpdate, DefaultUpdateDelay, DefaultUpdateLimit)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// Arena
// =============================================================================

func (s *Scene) allocID() ID {
	s.nextID++
	return s.nextID
}

func (s *Scene) register(el Element) {
	s.elements[el.ID()] = el
}

// forget drops id from the arena. The element must already be detached.
func (s *Scene) forget(id ID) {
	delete(s.elements, id)
}

func (s *Scene) kindOf(id ID) Kind {
	if el, ok := s.elements[id]; ok {
		return el.Kind()
	}
	return 0
}

func (s *Scene) point(id ID) (*Point, bool) {
	p, ok := s.elements[id].(*Point)
	return p, ok
}

func (s *Scene) line(id ID) (*Line, bool) {
	l, ok := s.elements[id].(*Line)
	return l, ok
}

func (s *Scene) shape(id ID) (*Shape, bool) {
	sh, ok := s.elements[id].(*Shape)
	return sh, ok
}

func (s *Scene) newNode(kind Kind, st Style) node {
	return node{scene: s, id: s.allocID(), kind: kind, style: st}
}

func (s *Scene) newPoint(at geom.Point) *Point {
	p := &Point{node: s.newNode(KindPoint, s.defaults), pos: at}
	s.register(p)
	return p
}

func (s *Scene) newLine(start, end Endpoint) *Line {
	l := &Line{node: s.newNode(KindLine, s.defaults), start: start, end: end}
	s.register(l)
	return l
}

func (s *Scene) newShape() *Shape {
	sh := &Shape{node: s.newNode(KindShape, s.defaults)}
	s.register(sh)
	return sh
}

// childrenOf returns the children list of owner, the root list for 0.
func (s *Scene) childrenOf(owner ID) *[]ID {
	if owner == 0 {
		return &s.children
	}
	if el, ok := s.elements[owner]; ok {
		return &el.base().children
	}
	return nil
}

// attach inserts child into owner's children at index, or appends for a
// negative index. A child that already has an owner is moved.
func (s *Scene) attach(owner, child ID, index int) {
	el, ok := s.elements[child]
	if !ok {
		return
	}
	s.detach(child)
	list := s.childrenOf(owner)
	if list == nil {
		return
	}
	if index < 0 || index > len(*list) {
		index = len(*list)
	}
	*list = slices.Insert(*list, index, child)
	el.base().parent = owner
	el.base().placed = true
}

// detach removes child from its owner's children. The element stays in the
// arena.
func (s *Scene) detach(child ID) {
	el, ok := s.elements[child]
	if !ok {
		return
	}
	n := el.base()
	if list := s.childrenOf(n.parent); list != nil {
		if i := slices.Index(*list, child); i >= 0 {
			*list = slices.Delete(*list, i, i+1)
		}
	}
	n.parent = 0
}

// =============================================================================
// Children
// =============================================================================

// AddChild appends el to the top-level list, where it renders below the
// elements already present.
func (s *Scene) AddChild(el Element) {
	s.AddChildAt(el, -1)
}

// AddChildAt inserts el into the top-level list at index. Index 0 renders
// topmost. Only shapes and dividers live at the top level; points and lines
// belong to a shape, so any other element is ignored.
func (s *Scene) AddChildAt(el Element, index int) {
	if el == nil {
		return
	}
	if k := el.Kind(); k != KindShape && k != KindDivider {
		s.log.Debug("rejecting top-level element", "id", el.ID(), "kind", k)
		return
	}
	if _, ok := s.elements[el.ID()]; !ok {
		s.register(el)
	}
	s.attach(0, el.ID(), index)
	s.changed()
}

// RemoveChild detaches a top-level element. The element is unreachable
// afterwards and is dropped from the arena along with its children.
func (s *Scene) RemoveChild(el Element) {
	if el == nil || !s.HasChild(el) {
		return
	}
	s.detach(el.ID())
	s.forgetTree(el.ID())
	s.changed()
}

func (s *Scene) forgetTree(id ID) {
	if el, ok := s.elements[id]; ok {
		for _, c := range el.base().children {
			s.forgetTree(c)
		}
	}
	s.forget(id)
}

// HasChild reports whether el is a direct child of the root.
func (s *Scene) HasChild(el Element) bool {
	return el != nil && slices.Contains(s.children, el.ID())
}

// Children returns the top-level elements, topmost first.
func (s *Scene) Children() []Element {
	out := make([]Element, 0, len(s.children))
	for _, id := range s.children {
		if el, ok := s.elements[id]; ok {
			out = append(out, el)
		}
	}
	return out
}

// Len returns the number of top-level elements.
func (s *Scene) Len() int { return len(s.children) }

// Element returns the element with id if it is still in the scene.
func (s *Scene) Element(id ID) (Element, bool) {
	el, ok := s.elements[id]
	return el, ok
}

// ElementByID searches the tree depth-first from the root and returns the
// first element with id, or nil.
func (s *Scene) ElementByID(id ID) Element {
	var walk func(ids []ID) Element
	walk = func(ids []ID) Element {
		for _, c := range ids {
			el, ok := s.elements[c]
			if !ok {
				continue
			}
			if c == id {
				return el
			}
			if found := walk(el.base().children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(s.children)
}

// Shapes returns the top-level shapes, topmost first.
func (s *Scene) Shapes() []*Shape {
	var out []*Shape
	for _, id := range s.children {
		if sh, ok := s.shape(id); ok {
			out = append(out, sh)
		}
	}
	return out
}

// Clear removes every element. Settings and the id counter are kept.
func (s *Scene) Clear() {
	s.elements = make(map[ID]Element)
	s.children = nil
	s.creating = 0
	s.ghost, s.marquee = nil, nil
	s.changed()
}

// =============================================================================
// Factories
// =============================================================================

// NewPoint returns a detached point registered with the scene.
func (s *Scene) NewPoint(at geom.Point) *Point { return s.newPoint(at) }

// NewLine returns a detached line between two endpoints.
func (s *Scene) NewLine(start, end Endpoint) *Line { return s.newLine(start, end) }

// NewDivider returns a divider between a and b. Add it with AddChild.
func (s *Scene) NewDivider(a, b geom.Point) *Divider {
	pa, pb := s.newPoint(a), s.newPoint(b)
	pa.style, pb.style = dividerPointStyle(), dividerPointStyle()

	d := &Divider{Line: Line{
		node:  s.newNode(KindDivider, dividerStyle()),
		start: PointEnd(pa),
		end:   PointEnd(pb),
	}}
	s.register(d)
	s.attach(d.id, pa.id, -1)
	s.attach(d.id, pb.id, -1)
	return d
}

// =============================================================================
// Settings
// =============================================================================

// Size returns the scene's width and height.
func (s *Scene) Size() (width, height float64) { return s.width, s.height }

// SetSize changes the coordinate space.
func (s *Scene) SetSize(width, height float64) {
	if s.width == width && s.height == height {
		return
	}
	s.width, s.height = width, height
	s.changed()
}

// Mode returns the interaction mode.
func (s *Scene) Mode() Mode { return s.mode }

// SetMode switches the interaction mode. Entering a mode, even the current
// one, discards the ghost preview and the chain being created. Unknown modes
// are ignored.
func (s *Scene) SetMode(m Mode) {
	if !m.Valid() {
		return
	}
	prev := s.mode
	s.mode = m
	s.creating = 0
	s.SetGhost(nil)
	s.SetMarquee(nil)
	if prev != m {
		s.log.Debug("mode changed", "from", prev, "to", m)
		s.changed()
	}
	for _, l := range slices.Clone(s.modeListeners) {
		l.fn(m)
	}
}

// OnModeChange registers fn to be called after every SetMode. The returned
// function unregisters it.
func (s *Scene) OnModeChange(fn func(Mode)) (cancel func()) {
	s.nextListener++
	id := s.nextListener
	s.modeListeners = append(s.modeListeners, listener[Mode]{id: id, fn: fn})
	return func() {
		s.modeListeners = slices.DeleteFunc(s.modeListeners, func(l listener[Mode]) bool { return l.id == id })
	}
}

// GridSpacing returns the grid interval.
func (s *Scene) GridSpacing() float64 { return s.gridSpacing }

// SetGridSpacing changes the grid interval. Non-positive values are ignored.
func (s *Scene) SetGridSpacing(spacing float64) {
	if spacing <= 0 || spacing == s.gridSpacing {
		return
	}
	s.gridSpacing = spacing
	s.changed()
}

// ShowGrid reports whether the grid is drawn.
func (s *Scene) ShowGrid() bool { return s.showGrid }

// SetShowGrid toggles grid drawing.
func (s *Scene) SetShowGrid(on bool) {
	if s.showGrid == on {
		return
	}
	s.showGrid = on
	s.changed()
}

// Snapping reports whether placed and dragged coordinates snap to the grid.
func (s *Scene) Snapping() bool { return s.snapping }

// SetSnapping toggles snapping.
func (s *Scene) SetSnapping(on bool) {
	if s.snapping == on {
		return
	}
	s.snapping = on
	s.changed()
}

// Scale returns the length units per scene unit used in labels.
func (s *Scene) Scale() float64 { return s.scale }

// SetScale changes the label scale. Non-positive values are ignored.
func (s *Scene) SetScale(scale float64) {
	if scale <= 0 || scale == s.scale {
		return
	}
	s.scale = scale
	s.changed()
}

// AbstractRightAngle reports whether right angles render as a square mark.
func (s *Scene) AbstractRightAngle() bool { return s.abstractRightAngle }

// SetAbstractRightAngle toggles the right angle mark.
func (s *Scene) SetAbstractRightAngle(on bool) {
	if s.abstractRightAngle == on {
		return
	}
	s.abstractRightAngle = on
	s.changed()
}

// Snap rounds p to the grid.
func (s *Scene) Snap(p geom.Point) geom.Point { return geom.Snap(p, s.gridSpacing) }

// SnapElement moves el so its anchor lies on the grid.
func (s *Scene) SnapElement(el Element) {
	pos := el.Position()
	snapped := s.Snap(pos)
	el.Move(snapped.X-pos.X, snapped.Y-pos.Y)
}

// =============================================================================
// Transient state
// =============================================================================

// Creating returns the shape an in-progress create gesture extends, or 0.
func (s *Scene) Creating() ID { return s.creating }

// SetCreating records the shape being created.
func (s *Scene) SetCreating(id ID) { s.creating = id }

// Ghost returns the preview line, or nil.
func (s *Scene) Ghost() *Ghost { return s.ghost }

// SetGhost replaces the preview line. Nil removes it.
func (s *Scene) SetGhost(g *Ghost) {
	if s.ghost == nil && g == nil {
		return
	}
	s.ghost = g
	s.RequestRedraw()
}

// Marquee returns the drag selection rectangle, or nil.
func (s *Scene) Marquee() *geom.Rect { return s.marquee }

// SetMarquee replaces the drag selection rectangle. Nil removes it.
func (s *Scene) SetMarquee(r *geom.Rect) {
	if s.marquee == nil && r == nil {
		return
	}
	s.marquee = r
	s.RequestRedraw()
}

// =============================================================================
// Change propagation
// =============================================================================

func (s *Scene) hooks() observability.SceneHooks { return observability.Scene() }

// changed records a model change: it marks the scene dirty, requests a
// redraw and schedules an update notification.
func (s *Scene) changed() {
	now := s.clock()
	s.dirty = true
	s.redraw.Request(now)
	if s.suspend == 0 {
		s.updates.Trigger(now)
	}
}

// Dirty reports whether the model changed since the last redraw.
func (s *Scene) Dirty() bool { return s.dirty }

// RequestRedraw asks for a redraw without a model change.
func (s *Scene) RequestRedraw() { s.redraw.Request(s.clock()) }

// SetRenderer attaches the renderer used by Tick and Draw.
func (s *Scene) SetRenderer(r Renderer) { s.renderer = r }

// Tick advances the scene to now: it redraws when one is due and fires
// pending update notifications. It reports whether a redraw happened.
func (s *Scene) Tick(now time.Time) bool {
	drawn := s.redraw.Due(now)
	if drawn {
		if err := s.render(); err != nil {
			s.log.Warn("redraw failed", "err", err)
		}
	}
	s.updates.Poll(now)
	return drawn
}

// Draw renders immediately, bypassing the frame gate.
func (s *Scene) Draw() error {
	s.redraw.Done(s.clock())
	return s.render()
}

func (s *Scene) render() error {
	s.dirty = false
	if s.renderer == nil {
		return nil
	}
	start := s.clock()
	err := s.renderer.Render(s)
	s.hooks().OnRedraw(len(s.children), s.clock().Sub(start))
	return err
}

// FlushUpdates delivers a pending update notification right away.
func (s *Scene) FlushUpdates() { s.updates.Flush(s.clock()) }

// AddUpdateListener registers fn to receive a debounced snapshot after
// changes. It returns a handle for RemoveUpdateListener.
func (s *Scene) AddUpdateListener(fn func(Document)) int {
	s.nextListener++
	s.updateListeners = append(s.updateListeners, listener[Document]{id: s.nextListener, fn: fn})
	return s.nextListener
}

// RemoveUpdateListener unregisters the listener with handle id.
func (s *Scene) RemoveUpdateListener(id int) {
	s.updateListeners = slices.DeleteFunc(s.updateListeners, func(l listener[Document]) bool { return l.id == id })
}

func (s *Scene) notifyUpdate() {
	if len(s.updateListeners) == 0 {
		return
	}
	doc := s.Export()
	for _, l := range slices.Clone(s.updateListeners) {
		l.fn(doc)
	}
}
