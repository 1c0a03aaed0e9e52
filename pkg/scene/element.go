package scene

import (
	"fmt"

	"github.com/matzehuels/geomcloze/pkg/geom"
)

// ID identifies an element within its scene. The zero ID names the scene
// root itself and is never allocated to an element.
type ID uint64

// Kind enumerates the element types.
type Kind uint8

const (
	KindPoint Kind = iota + 1
	KindLine
	KindDivider
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindDivider:
		return "divider"
	case KindShape:
		return "shape"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Hittable elements answer pointer and marquee queries.
type Hittable interface {
	// Hit returns the elements under p, finest first. Hidden elements never
	// match.
	Hit(p geom.Point) []Element
	// HitRect returns the elements intersecting r.
	HitRect(r geom.Rect) []Element
}

// Stylable elements carry a Style.
type Stylable interface {
	Style() Style
	// Appearance is Style with selection highlighting applied.
	Appearance() Style
	SetLineWidth(w float64)
	SetPointRadius(r float64)
	SetStroke(c string)
	SetFill(c string)
	SetShadow(on bool)
	SetDashed(on bool)
	SetShowLabel(on bool)
	SetLabelColor(c string)
	SetLabelMode(m LabelMode)
	SetLabelName(name string)
}

// Draggable elements have a position and a selection flag.
type Draggable interface {
	Stylable
	// Position returns the element's anchor: a point's coordinate, a line's
	// start or the top left corner of a shape's bounding box.
	Position() geom.Point
	Move(dx, dy float64)
	MoveTo(x, y float64)
	Selected() bool
	Select()
	Blur()
}

// Element is a node of the scene tree.
type Element interface {
	Hittable
	Draggable

	ID() ID
	Kind() Kind
	Name() string
	SetName(name string)
	Hidden() bool
	SetHidden(hidden bool)
	// Parent returns the owner's ID, 0 for the scene root.
	Parent() ID
	// Children returns a copy of the owned children in order.
	Children() []ID
	// Delete removes the element from its owner and the scene.
	Delete()

	base() *node
}

// node is the state every element kind shares.
type node struct {
	scene    *Scene
	id       ID
	kind     Kind
	name     string
	hidden   bool
	parent   ID
	children []ID
	style    Style
	selected bool
	// placed is set on the first attach. Factory results that were never
	// placed are pending rather than orphaned.
	placed bool
}

func (n *node) base() *node { return n }

func (n *node) ID() ID       { return n.id }
func (n *node) Kind() Kind   { return n.kind }
func (n *node) Name() string { return n.name }
func (n *node) Parent() ID   { return n.parent }
func (n *node) Hidden() bool { return n.hidden }

func (n *node) Children() []ID {
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

func (n *node) SetName(name string) {
	if n.name == name {
		return
	}
	n.name = name
	n.scene.changed()
}

func (n *node) SetHidden(hidden bool) {
	if n.hidden == hidden {
		return
	}
	n.hidden = hidden
	n.scene.changed()
}

func (n *node) Selected() bool { return n.selected }

// Select marks the element selected. The highlight is applied by
// Appearance, so the stored style is untouched.
func (n *node) Select() {
	if n.selected {
		return
	}
	n.selected = true
	n.scene.RequestRedraw()
}

// Blur clears the selection flag.
func (n *node) Blur() {
	if !n.selected {
		return
	}
	n.selected = false
	n.scene.RequestRedraw()
}

func (n *node) indexOf(id ID) int {
	for i, c := range n.children {
		if c == id {
			return i
		}
	}
	return -1
}

func (n *node) String() string {
	if n.name != "" {
		return fmt.Sprintf("%s#%d(%s)", n.kind, n.id, n.name)
	}
	return fmt.Sprintf("%s#%d", n.kind, n.id)
}
