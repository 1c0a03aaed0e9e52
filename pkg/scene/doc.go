// Package scene implements the diagram model: points, lines, divider lines
// and composite shapes owned by a single [Scene] root.
//
// # Ownership
//
// Every element lives in the scene's arena, keyed by an [ID] that the scene
// allocates. Owners store their children as ID lists and each element knows
// its parent by ID, so there are no pointer cycles. An element that is no
// longer reachable from the root is removed from the arena and treated as
// deleted.
//
// # Kinds and capabilities
//
// The element set is closed: [KindPoint], [KindLine], [KindDivider] and
// [KindShape]. Code that walks the tree switches on [Element.Kind]. The
// capabilities every element provides are split into [Stylable],
// [Draggable] and [Hittable].
//
// # Shapes
//
// A [Shape] owns an alternating Point, Line, Point, ... sequence and is
// optionally closed. After every structural edit the shape re-segments its
// children so that:
//
//  1. no two adjacent children share a kind,
//  2. each line connects its two neighboring points, and
//  3. the shape is closed exactly when it has at least three points and
//     its final line returns to the first point.
//
// Runs that no longer connect to the rest become new sibling shapes, and a
// shape left with nothing deletes itself.
//
// # Redraws and updates
//
// Mutations mark the scene dirty and ask the [Scheduler] for a redraw. The
// host drives the scene with [Scene.Tick] once per frame; the tick draws
// through the attached [Renderer] at most once per frame interval and fires
// debounced update listeners with a full [Document] snapshot.
//
// A Scene and its elements are not safe for concurrent use.
package scene
