package scene

// LabelMode selects what an element's label shows.
type LabelMode string

const (
	// LabelValue shows the measured value: a line's length or a point's
	// angle.
	LabelValue LabelMode = "value"
	// LabelName shows the element's label name.
	LabelName LabelMode = "name"
)

// Highlight colors applied by Appearance while an element is selected.
const (
	SelectionColor = "#3b82f6"
	SelectionFill  = "#3b82f633"
)

// Style holds the visual attributes of an element.
type Style struct {
	LineWidth   float64   `json:"lineWidth"`
	PointRadius float64   `json:"pointRadius"`
	Stroke      string    `json:"stroke"`
	Fill        string    `json:"fill"`
	Shadow      bool      `json:"shadow,omitempty"`
	Dashed      bool      `json:"dashed,omitempty"`
	ShowLabel   bool      `json:"showLabel,omitempty"`
	LabelColor  string    `json:"labelColor,omitempty"`
	LabelMode   LabelMode `json:"labelMode,omitempty"`
	LabelName   string    `json:"labelName,omitempty"`
}

// DefaultStyle returns the style new elements start with.
func DefaultStyle() Style {
	return Style{
		LineWidth:   3,
		PointRadius: 10,
		Stroke:      "black",
		Fill:        "transparent",
		LabelColor:  "black",
		LabelMode:   LabelValue,
	}
}

// dividerStyle is the faint dashed look of divider lines.
func dividerStyle() Style {
	st := DefaultStyle()
	st.Dashed = true
	st.Stroke = "#00000050"
	return st
}

// dividerPointStyle is used for a divider's endpoint handles.
func dividerPointStyle() Style {
	st := DefaultStyle()
	st.Stroke = "transparent"
	st.Fill = "#00000050"
	return st
}

func (n *node) Style() Style { return n.style }

// Appearance returns the style to draw with. Selected elements get a shadow
// and a highlight fill.
func (n *node) Appearance() Style {
	st := n.style
	if !n.selected {
		return st
	}
	st.Shadow = true
	switch n.kind {
	case KindPoint:
		st.Fill = SelectionColor
	case KindShape:
		st.Fill = SelectionFill
	default:
		st.Stroke = SelectionColor
	}
	return st
}

func setStyle[T comparable](n *node, field *T, v T) {
	if *field == v {
		return
	}
	*field = v
	n.scene.changed()
}

func (n *node) SetLineWidth(w float64)   { setStyle(n, &n.style.LineWidth, w) }
func (n *node) SetPointRadius(r float64) { setStyle(n, &n.style.PointRadius, r) }
func (n *node) SetStroke(c string)       { setStyle(n, &n.style.Stroke, c) }
func (n *node) SetFill(c string)         { setStyle(n, &n.style.Fill, c) }
func (n *node) SetShadow(on bool)        { setStyle(n, &n.style.Shadow, on) }
func (n *node) SetDashed(on bool)        { setStyle(n, &n.style.Dashed, on) }
func (n *node) SetShowLabel(on bool)     { setStyle(n, &n.style.ShowLabel, on) }
func (n *node) SetLabelColor(c string)   { setStyle(n, &n.style.LabelColor, c) }
func (n *node) SetLabelMode(m LabelMode) { setStyle(n, &n.style.LabelMode, m) }
func (n *node) SetLabelName(name string) { setStyle(n, &n.style.LabelName, name) }

// SetStyle replaces the whole style at once.
func (n *node) SetStyle(st Style) { setStyle(n, &n.style, st) }
