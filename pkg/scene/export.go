package scene

import "github.com/matzehuels/geomcloze/pkg/geom"

// Record type tags.
const (
	TypePoint   = "point"
	TypeLine    = "line"
	TypeElement = "element"
)

// Document is the serialized form of a scene.
type Document struct {
	Children           []Record `json:"children"`
	Mode               Mode     `json:"mode"`
	ShowGrid           bool     `json:"showGrid"`
	Snapping           bool     `json:"snapping"`
	GridSpacing        float64  `json:"gridSpacing,omitempty"`
	Scale              float64  `json:"scale,omitempty"`
	AbstractRightAngle bool     `json:"abstractRightAngle,omitempty"`
	Width              float64  `json:"width,omitempty"`
	Height             float64  `json:"height,omitempty"`
	CreatingShape      ID       `json:"creatingShape,omitempty"`
}

// Record is one serialized element. Type selects the importer: "point",
// "line" (a shape edge, or a divider at the top level) and "element" (a
// shape).
type Record struct {
	Type         string          `json:"_type"`
	ID           ID              `json:"id"`
	Name         string          `json:"name,omitempty"`
	Hidden       bool            `json:"hidden,omitempty"`
	Children     []Record        `json:"children,omitempty"`
	X            *float64        `json:"x,omitempty"`
	Y            *float64        `json:"y,omitempty"`
	Start        *EndpointRecord `json:"start,omitempty"`
	End          *EndpointRecord `json:"end,omitempty"`
	Closed       bool            `json:"closed,omitempty"`
	OutsideAngle bool            `json:"outsideAngle,omitempty"`
	Style
}

// EndpointRecord is a serialized line end. ID references a point in the
// same owner; a missing or unknown ID leaves a bare coordinate.
type EndpointRecord struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID ID      `json:"id,omitempty"`
}

// Export snapshots the whole scene.
func (s *Scene) Export() Document {
	doc := Document{
		Children:           make([]Record, 0, len(s.children)),
		Mode:               s.mode,
		ShowGrid:           s.showGrid,
		Snapping:           s.snapping,
		GridSpacing:        s.gridSpacing,
		Scale:              s.scale,
		AbstractRightAngle: s.abstractRightAngle,
		Width:              s.width,
		Height:             s.height,
		CreatingShape:      s.creating,
	}
	for _, el := range s.Children() {
		doc.Children = append(doc.Children, s.exportElement(el))
	}
	s.hooks().OnExport(len(s.elements))
	return doc
}

func (s *Scene) exportElement(el Element) Record {
	n := el.base()
	rec := Record{ID: n.id, Name: n.name, Hidden: n.hidden, Style: n.style}
	switch el.Kind() {
	case KindPoint:
		p := el.(*Point)
		x, y := p.pos.X, p.pos.Y
		rec.Type = TypePoint
		rec.X, rec.Y = &x, &y
		rec.OutsideAngle = p.outsideAngle
	case KindLine:
		rec.Type = TypeLine
		s.exportEnds(&rec, el.(*Line))
	case KindDivider:
		rec.Type = TypeLine
		s.exportEnds(&rec, &el.(*Divider).Line)
	case KindShape:
		rec.Type = TypeElement
		rec.Closed = el.(*Shape).closed
	}
	for _, id := range n.children {
		if c, ok := s.elements[id]; ok {
			rec.Children = append(rec.Children, s.exportElement(c))
		}
	}
	return rec
}

func (s *Scene) exportEnds(rec *Record, l *Line) {
	start, end := l.Start(), l.End()
	rec.Start = &EndpointRecord{X: start.X, Y: start.Y, ID: l.start.Point}
	rec.End = &EndpointRecord{X: end.X, Y: end.Y, ID: l.end.Point}
	if _, ok := s.point(l.start.Point); !ok {
		rec.Start.ID = 0
	}
	if _, ok := s.point(l.end.Point); !ok {
		rec.End.ID = 0
	}
}

// Import replaces the scene's content and settings with doc.
//
// Damaged input is repaired rather than rejected: a line end that
// references an unknown point becomes a bare coordinate, a duplicate id is
// reallocated and an unknown creating shape is dropped. Each imported shape
// runs through the repair pass. The returned error reports any invariant
// the repaired scene still violates.
func (s *Scene) Import(doc Document) (err error) {
	s.suspend++
	defer func() {
		s.suspend--
		s.changed()
		s.hooks().OnImport(len(s.elements), err)
	}()

	s.elements = make(map[ID]Element)
	s.children = nil
	s.creating = 0
	s.ghost, s.marquee = nil, nil
	s.nextID = maxRecordID(doc.Children)

	s.mode = ModeSelect
	if doc.Mode.Valid() {
		s.mode = doc.Mode
	}
	s.showGrid, s.snapping = doc.ShowGrid, doc.Snapping
	s.abstractRightAngle = doc.AbstractRightAngle
	if doc.GridSpacing > 0 {
		s.gridSpacing = doc.GridSpacing
	}
	if doc.Scale > 0 {
		s.scale = doc.Scale
	}
	if doc.Width > 0 && doc.Height > 0 {
		s.width, s.height = doc.Width, doc.Height
	}

	for _, rec := range doc.Children {
		var el Element
		switch rec.Type {
		case TypeLine:
			el = s.importDivider(rec)
		case TypePoint:
			sh := s.newShape()
			p := s.importPoint(rec)
			s.attach(sh.id, p.id, -1)
			el = sh
		default:
			el = s.importShape(rec)
		}
		s.attach(0, el.ID(), -1)
	}
	for _, sh := range s.Shapes() {
		sh.checkValidity()
	}

	if id := doc.CreatingShape; id != 0 {
		if sh, ok := s.shape(id); ok && !sh.closed && sh.parent == 0 {
			s.creating = id
		} else {
			s.log.Warn("dropping unknown creating shape", "id", id)
		}
	}
	return s.Validate()
}

func maxRecordID(recs []Record) ID {
	var m ID
	for _, r := range recs {
		m = max(m, r.ID, maxRecordID(r.Children))
	}
	return m
}

// claim returns id for an imported element, or a fresh id when id is zero
// or already taken.
func (s *Scene) claim(id ID) ID {
	if id == 0 {
		return s.allocID()
	}
	if _, taken := s.elements[id]; taken {
		fresh := s.allocID()
		s.log.Warn("duplicate element id", "id", id, "reassigned", fresh)
		return fresh
	}
	s.nextID = max(s.nextID, id)
	return id
}

func (s *Scene) importNode(kind Kind, rec Record, def Style) node {
	return node{
		scene:  s,
		id:     s.claim(rec.ID),
		kind:   kind,
		name:   rec.Name,
		hidden: rec.Hidden,
		style:  mergeStyle(rec.Style, def),
	}
}

// mergeStyle fills the zero fields of st from def.
func mergeStyle(st, def Style) Style {
	if st.LineWidth == 0 {
		st.LineWidth = def.LineWidth
	}
	if st.PointRadius == 0 {
		st.PointRadius = def.PointRadius
	}
	if st.Stroke == "" {
		st.Stroke = def.Stroke
	}
	if st.Fill == "" {
		st.Fill = def.Fill
	}
	if st.LabelColor == "" {
		st.LabelColor = def.LabelColor
	}
	if st.LabelMode == "" {
		st.LabelMode = def.LabelMode
	}
	return st
}

func (s *Scene) importPoint(rec Record) *Point {
	return s.importPointStyled(rec, s.defaults)
}

func (s *Scene) importPointStyled(rec Record, def Style) *Point {
	p := &Point{node: s.importNode(KindPoint, rec, def), outsideAngle: rec.OutsideAngle}
	if rec.X != nil {
		p.pos.X = *rec.X
	}
	if rec.Y != nil {
		p.pos.Y = *rec.Y
	}
	s.register(p)
	return p
}

// importEnd resolves an endpoint record against the points imported for
// the same owner.
func (s *Scene) importEnd(rec *EndpointRecord, points map[ID]*Point, owner ID) Endpoint {
	if rec == nil {
		return Endpoint{}
	}
	if p, ok := points[rec.ID]; ok && rec.ID != 0 {
		return PointEnd(p)
	}
	if rec.ID != 0 {
		s.log.Warn("line end references unknown point", "owner", owner, "point", rec.ID)
	}
	return CoordEnd(geom.Pt(rec.X, rec.Y))
}

func (s *Scene) importShape(rec Record) *Shape {
	sh := &Shape{node: s.importNode(KindShape, rec, s.defaults), closed: rec.Closed}
	s.register(sh)

	made := make([]Element, len(rec.Children))
	points := make(map[ID]*Point)
	for i, c := range rec.Children {
		if c.Type == TypePoint {
			p := s.importPoint(c)
			made[i] = p
			points[c.ID] = p
		}
	}
	for i, c := range rec.Children {
		switch c.Type {
		case TypePoint:
		case TypeLine:
			l := &Line{node: s.importNode(KindLine, c, s.defaults)}
			l.start = s.importEnd(c.Start, points, sh.id)
			l.end = s.importEnd(c.End, points, sh.id)
			s.register(l)
			made[i] = l
		default:
			s.log.Warn("skipping nested record in shape", "shape", sh.id, "type", c.Type)
		}
	}
	for _, el := range made {
		if el != nil {
			s.attach(sh.id, el.ID(), -1)
		}
	}
	return sh
}

func (s *Scene) importDivider(rec Record) *Divider {
	d := &Divider{Line: Line{node: s.importNode(KindDivider, rec, dividerStyle())}}
	s.register(d)

	points := make(map[ID]*Point)
	for _, c := range rec.Children {
		if c.Type == TypePoint {
			points[c.ID] = s.importPointStyled(c, dividerPointStyle())
		}
	}
	d.start = s.importEnd(rec.Start, points, d.id)
	d.end = s.importEnd(rec.End, points, d.id)

	// A divider always owns both handles; rebuild any that did not resolve.
	for _, e := range []*Endpoint{&d.start, &d.end} {
		if e.Point == 0 {
			p := s.newPoint(e.At)
			p.style = dividerPointStyle()
			*e = PointEnd(p)
		}
		s.attach(d.id, e.Point, -1)
	}
	for id, p := range points {
		if p.parent != d.id {
			s.log.Warn("dropping unused divider point", "divider", d.id, "point", id)
			s.forget(p.id)
		}
	}
	return d
}
