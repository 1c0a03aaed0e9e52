// Package geom provides the plane geometry used by the diagram engine.
//
// Everything here is a pure function over small value types: [Point] doubles
// as a vector, [Segment] is a straight line between two points and [Rect] is
// an axis-aligned rectangle normalized from any two corners.
//
// # Coordinates
//
// The coordinate space matches a drawing surface: x grows to the right and
// y grows downward. Angles returned by [Angle] are measured in degrees in the
// range [0, 360).
//
// # Snapping and rounding
//
// [Snap] rounds a coordinate to the nearest multiple of a grid spacing per
// axis. [Round] formats a value with a fixed number of fraction digits and
// drops trailing zeros, which is how lengths are printed in labels.
package geom
