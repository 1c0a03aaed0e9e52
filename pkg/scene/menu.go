package scene

import "strconv"

// MenuKind is the kind of a context menu entry.
type MenuKind uint8

const (
	MenuButton MenuKind = iota
	MenuCheckbox
	MenuSubmenu
	MenuDivider
)

// MenuItem is one entry of a declarative context menu. The host presents
// the items and calls Action when an entry is chosen. Submenus carry their
// entries in Items.
type MenuItem struct {
	Kind    MenuKind
	Label   string
	Checked bool
	Items   []MenuItem
	Action  func()
}

// Palette is the set of colors offered by the color submenus.
var Palette = []struct{ Name, Value string }{
	{"Black", "black"},
	{"Red", "#ef4444"},
	{"Orange", "#f97316"},
	{"Green", "#22c55e"},
	{"Blue", "#3b82f6"},
	{"Purple", "#a855f7"},
	{"Gray", "#6b7280"},
}

var (
	lineWidths   = []float64{1, 2, 3, 5, 8}
	pointRadii   = []float64{5, 10, 15, 20}
	fillPalette  = append([]struct{ Name, Value string }{{"None", "transparent"}}, Palette...)
	shapeFillPal = []struct{ Name, Value string }{
		{"None", "transparent"},
		{"Red", "#ef444433"},
		{"Green", "#22c55e33"},
		{"Blue", "#3b82f633"},
		{"Gray", "#6b728033"},
	}
)

// MenuItems returns the context menu for the element with id, or nil when
// the id is unknown.
func (s *Scene) MenuItems(id ID) []MenuItem {
	el, ok := s.elements[id]
	if !ok {
		return nil
	}
	var items []MenuItem
	switch el.Kind() {
	case KindPoint:
		p := el.(*Point)
		items = []MenuItem{
			colorMenu("Fill color", fillPalette, p.style.Fill, p.SetFill),
			sizeMenu("Size", pointRadii, p.style.PointRadius, p.SetPointRadius),
			checkbox("Show angle", p.style.ShowLabel, p.SetShowLabel),
			checkbox("Outside angle", p.outsideAngle, p.SetOutsideAngle),
			labelMenu(&p.node),
		}
	case KindLine:
		l := el.(*Line)
		items = []MenuItem{
			colorMenu("Color", Palette, l.style.Stroke, l.SetStroke),
			sizeMenu("Width", lineWidths, l.style.LineWidth, l.SetLineWidth),
			checkbox("Dashed", l.style.Dashed, l.SetDashed),
			checkbox("Show length", l.style.ShowLabel, l.SetShowLabel),
			labelMenu(&l.node),
		}
	case KindDivider:
		d := el.(*Divider)
		items = []MenuItem{
			colorMenu("Color", Palette, d.style.Stroke, d.SetStroke),
			checkbox("Dashed", d.style.Dashed, d.SetDashed),
		}
	case KindShape:
		sh := el.(*Shape)
		items = []MenuItem{
			colorMenu("Fill color", shapeFillPal, sh.style.Fill, sh.SetFill),
		}
	}
	return append(items,
		MenuItem{Kind: MenuDivider},
		MenuItem{Kind: MenuButton, Label: "Delete", Action: el.Delete},
	)
}

func checkbox(label string, on bool, set func(bool)) MenuItem {
	return MenuItem{Kind: MenuCheckbox, Label: label, Checked: on, Action: func() { set(!on) }}
}

func colorMenu(label string, palette []struct{ Name, Value string }, cur string, set func(string)) MenuItem {
	sub := make([]MenuItem, 0, len(palette))
	for _, c := range palette {
		sub = append(sub, MenuItem{
			Kind:    MenuCheckbox,
			Label:   c.Name,
			Checked: c.Value == cur,
			Action:  func() { set(c.Value) },
		})
	}
	return MenuItem{Kind: MenuSubmenu, Label: label, Items: sub}
}

func sizeMenu(label string, sizes []float64, cur float64, set func(float64)) MenuItem {
	sub := make([]MenuItem, 0, len(sizes))
	for _, v := range sizes {
		sub = append(sub, MenuItem{
			Kind:    MenuCheckbox,
			Label:   strconv.FormatFloat(v, 'f', -1, 64),
			Checked: v == cur,
			Action:  func() { set(v) },
		})
	}
	return MenuItem{Kind: MenuSubmenu, Label: label, Items: sub}
}

func labelMenu(n *node) MenuItem {
	return MenuItem{Kind: MenuSubmenu, Label: "Label", Items: []MenuItem{
		{
			Kind:    MenuCheckbox,
			Label:   "Value",
			Checked: n.style.LabelMode == LabelValue,
			Action:  func() { n.SetLabelMode(LabelValue) },
		},
		{
			Kind:    MenuCheckbox,
			Label:   "Name",
			Checked: n.style.LabelMode == LabelName,
			Action:  func() { n.SetLabelMode(LabelName) },
		},
	}}
}

// Find returns the first item with label, searching submenus depth-first.
func Find(items []MenuItem, label string) (MenuItem, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
		if found, ok := Find(it.Items, label); ok {
			return found, true
		}
	}
	return MenuItem{}, false
}
