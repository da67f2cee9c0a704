// Package grid defines the authoring-time representation of a course level.
//
// The grid package implements:
//   - GridLevel, the JSON document produced by level generators
//   - Cell, a closed tagged enum for tile categories, with a single-character
//     token codec used only at the serialization boundary
//   - Board, an owned 2D cell array with index-based mutation
//   - Profile, the per-game-variant zone, clearance, and shape configuration
//     shared by the validator, sanitizer, and compiler
//
// Internal logic branches on Cell values, never on character literals; the
// token alphabet exists only in ParseBoard and Board.TileRows. Digit tokens
// "1" through "9" are reserved entity references: they parse, validate, and
// round-trip, but nothing interprets them.
//
// Profiles are plain values constructed once per game variant and passed
// explicitly into every component that needs zone constants. There is no
// package-level mutable state.
package grid
