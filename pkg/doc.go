// Package pkg provides the core libraries of geomcloze, an editable 2D
// diagram engine.
//
// # Overview
//
// A diagram is a tree of elements: shapes own the points and lines of a
// polyline or polygon, and divider lines own their two handles. The scene
// keeps that tree consistent while it is edited, draws it through an
// abstract surface and serializes it to a JSON document. The pkg directory
// is organized into four areas:
//
//  1. Model - [geom], [scene], [debounce]
//  2. Interaction - [interact]
//  3. Output - [render] and its surfaces, [fonts]
//  4. Plumbing - [io], [pipeline], [cache], [api], [config], [errors], [observability]
//
// # Architecture
//
// The typical data flow for a render:
//
//	scene document (JSON)
//	         ↓
//	    [io] package (decode)
//	         ↓
//	    [scene] package (import, repair, validate)
//	         ↓
//	    [render] Painter → svg / raster / term surface
//	         ↓
//	    SVG/PNG output, cached by [cache]
//
// and for an edit session:
//
//	pointer + key events → [interact] Editor → [scene] mutations
//	         ↓                                      ↓
//	    redraw at the frame rate              debounced update listeners
//
// # Quick Start
//
// Build a scene and render it:
//
//	s := scene.New(scene.WithSize(800, 600))
//	s.AddChild(s.MustCreatePolygon([]geom.Point{
//	    geom.Pt(100, 100), geom.Pt(400, 100), geom.Pt(400, 400),
//	}))
//	svg, _ := svg.RenderSVG(ctx, s, render.NewPainter())
//
// Drive it from input events:
//
//	ed := interact.New(s)
//	ed.Key(interact.KeyEvent{Key: "c"})
//	ed.PointerDown(interact.PointerEvent{X: 100, Y: 500, Button: interact.ButtonLeft, Buttons: interact.ButtonsLeft})
//	ed.PointerUp(interact.PointerEvent{X: 100, Y: 500, Button: interact.ButtonLeft})
//
// # Main Packages
//
// ## Model
//
// [geom] - Points, segments, rectangles, angles and grid snapping.
//
// [scene] - The element tree, shape topology repair, hit-testing, context
// menus, redraw scheduling and document import/export.
//
// [debounce] - The delay/ceiling debouncer behind update notifications.
//
// ## Interaction
//
// [interact] - The select, create and divider mode state machine that turns
// pointer and key events into scene edits.
//
// ## Output
//
// [render] - The Painter that draws a scene onto any [render.Surface],
// plus color parsing and label layout.
//
//   - [render/svg]: SVG documents
//   - [render/raster]: PNG through a 2D rasterizer
//   - [render/term]: terminal cell grids for the editor
//   - [render/nodelink]: the ownership tree as Graphviz DOT, SVG or PNG
//
// [fonts] - Embedded label fonts.
//
// ## Plumbing
//
// [io] - JSON decoding and encoding of scene documents.
//
// [pipeline] - Load → hash → render orchestration shared by the CLI and the
// HTTP API, with artifact caching.
//
// [cache] - File and null caches with content-addressed keys.
//
// [api] - The HTTP render service.
//
// [config] - TOML and environment configuration.
//
// [errors] - Coded errors shared by every entry point.
//
// [observability] - Hooks for redraws, repairs, renders, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scene/...    # Specific package
//	go test -run Example       # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/geom
// [scene]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/scene
// [debounce]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/debounce
// [interact]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/interact
// [render]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render
// [render.Surface]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render#Surface
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render/raster
// [render/term]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render/term
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/render/nodelink
// [fonts]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/fonts
// [io]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/geomcloze/pkg/observability
package pkg
