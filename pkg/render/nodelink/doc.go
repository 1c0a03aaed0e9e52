// Package nodelink renders the ownership tree of a scene as a node-link
// diagram.
//
// # Overview
//
// Shapes own their points and lines, dividers own their two handles and
// the scene root owns every top-level element. This package turns that
// tree into Graphviz DOT, which is handy when checking what a topology
// repair did to a shape.
//
// # Usage
//
// Convert a scene to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include positions, lengths and angles
//   - Bindings: dashed edges from lines to the points they follow
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink
