// Package render draws a scene onto a drawing surface.
//
// # Overview
//
// The scene model knows nothing about pixels. A [Painter] walks the scene
// and issues drawing calls against a [Surface], the small immediate-mode
// contract every backend implements:
//
//   - [raster]: gogpu/gg canvas, PNG output
//   - [svg]: vector output
//   - [term]: character cells for the terminal editor
//
// Painting order is the reverse of the scene's child order, so the first
// child, which is also the first to be hit-tested, ends up on top. Within
// a shape the fill comes first, then edges, then vertices, then labels.
//
//	p := render.NewPainter()
//	surf := raster.New(1000, 700)
//	if err := p.Paint(s, surf); err != nil {
//	    return err
//	}
//	err = surf.EncodePNG(w)
//
// # Colors
//
// Element styles hold CSS-like color strings. [ParseColor] accepts
// "transparent", #rgb, #rgba, #rrggbb, #rrggbbaa and the SVG color
// keywords.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the ownership tree of a scene with
// Graphviz, which is useful when debugging topology repairs.
//
// [raster]: github.com/matzehuels/geomcloze/pkg/render/raster
// [svg]: github.com/matzehuels/geomcloze/pkg/render/svg
// [term]: github.com/matzehuels/geomcloze/pkg/render/term
// [nodelink]: github.com/matzehuels/geomcloze/pkg/render/nodelink
package render
