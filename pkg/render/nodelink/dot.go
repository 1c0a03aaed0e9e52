package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geomcloze/pkg/geom"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Options configures ownership tree rendering.
type Options struct {
	// Detailed includes positions and flags in node labels.
	// When false, only the kind and id are shown.
	Detailed bool

	// Bindings adds dashed edges from each line to the points its
	// endpoints follow.
	Bindings bool
}

const rootID = "scene"

// ToDOT converts the ownership tree of s to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Dividers are drawn dashed and hidden elements grey, so the result shows
// at a glance what a topology repair did to a shape.
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", rootID, sceneLabel(s, opts.Detailed))

	var edges, bindings []string
	var walk func(owner string, ids []scene.ID)
	walk = func(owner string, ids []scene.ID) {
		for _, id := range ids {
			el, ok := s.Element(id)
			if !ok {
				continue
			}
			name := nodeName(id)
			attrs := fmtAttrs(el, fmtLabel(el, opts.Detailed))
			fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", owner, name))

			if l, ok := el.(*scene.Line); ok && opts.Bindings {
				for _, p := range bound(l) {
					bindings = append(bindings, fmt.Sprintf("  %q -> %q [style=dashed, color=grey, constraint=false];\n", name, nodeName(p.ID())))
				}
			}
			walk(name, el.Children())
		}
	}
	var top []scene.ID
	for _, el := range s.Children() {
		top = append(top, el.ID())
	}
	walk(rootID, top)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	for _, e := range bindings {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id scene.ID) string { return "e" + strconv.FormatUint(uint64(id), 10) }

func bound(l *scene.Line) []*scene.Point {
	var out []*scene.Point
	if p, ok := l.StartPoint(); ok {
		out = append(out, p)
	}
	if p, ok := l.EndPoint(); ok {
		out = append(out, p)
	}
	return out
}

func sceneLabel(s *scene.Scene, detailed bool) string {
	if !detailed {
		return rootID
	}
	w, h := s.Size()
	return fmt.Sprintf("%s\nmode: %s\nsize: %gx%g\ngrid: %g", rootID, s.Mode(), w, h, s.GridSpacing())
}

func fmtLabel(el scene.Element, detailed bool) string {
	label := fmt.Sprintf("%s #%d", el.Kind(), el.ID())
	if el.Name() != "" {
		label += " " + strconv.Quote(el.Name())
	}
	if !detailed {
		return label
	}

	var parts []string
	switch el := el.(type) {
	case *scene.Point:
		parts = append(parts, "at: "+fmtPoint(el.Position()))
		if deg, ok := el.Angle(); ok {
			parts = append(parts, "angle: "+geom.Round(deg, 2))
		}
	case *scene.Divider:
		parts = append(parts, fmt.Sprintf("%s -> %s", fmtPoint(el.Start()), fmtPoint(el.End())))
	case *scene.Line:
		parts = append(parts, fmt.Sprintf("%s -> %s", fmtPoint(el.Start()), fmtPoint(el.End())), "length: "+geom.Round(el.Length(), 2))
	case *scene.Shape:
		parts = append(parts, fmt.Sprintf("closed: %t", el.Closed()), fmt.Sprintf("points: %d", len(el.Points())))
	}
	if el.Hidden() {
		parts = append(parts, "hidden")
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtPoint(p geom.Point) string {
	return "(" + geom.Round(p.X, 2) + ", " + geom.Round(p.Y, 2) + ")"
}

func fmtAttrs(el scene.Element, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch el.Kind() {
	case scene.KindDivider:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	case scene.KindShape:
		attrs = append(attrs, "fillcolor=\"#dbeafe\"")
	case scene.KindPoint:
		attrs = append(attrs, "shape=ellipse")
	}
	if el.Hidden() {
		attrs = append(attrs, "fontcolor=grey", "color=grey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
