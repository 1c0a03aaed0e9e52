package scene

import "github.com/matzehuels/geomcloze/pkg/geom"

// Divider is a dashed helper line. Unlike shape edges it owns its two
// endpoint points. The handles only show, and only hit, while the divider
// or the handle itself is selected.
type Divider struct {
	Line
}

// Handles returns the two endpoint points.
func (d *Divider) Handles() []*Point {
	var out []*Point
	for _, id := range d.children {
		if p, ok := d.scene.point(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// HandlesVisible reports whether handle p is shown.
func (d *Divider) HandlesVisible(p *Point) bool {
	return !d.hidden && (d.selected || p.selected)
}

func (d *Divider) Hit(at geom.Point) []Element {
	if d.hidden {
		return nil
	}
	var hits []Element
	for _, p := range d.Handles() {
		if d.HandlesVisible(p) {
			hits = append(hits, p.Hit(at)...)
		}
	}
	return append(hits, d.Line.Hit(at)...)
}

func (d *Divider) HitRect(r geom.Rect) []Element {
	if d.hidden {
		return nil
	}
	var hits []Element
	for _, p := range d.Handles() {
		if d.HandlesVisible(p) {
			hits = append(hits, p.HitRect(r)...)
		}
	}
	return append(hits, d.Line.HitRect(r)...)
}

// Delete removes the divider together with its handles.
func (d *Divider) Delete() {
	s := d.scene
	for _, id := range d.children {
		s.forget(id)
	}
	d.children = nil
	s.detach(d.id)
	s.forget(d.id)
	s.changed()
}
