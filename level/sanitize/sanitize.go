// Package sanitize auto-repairs common generation mistakes in a grid level.
//
// Fixes are applied in a fixed order so later steps can rely on earlier ones:
//  1. relocate an out-of-zone start marker to the nearest in-zone tile
//  2. insert a missing start marker at the profile default
//  3. the same two steps for the goal marker
//  4. clear wall pockets around the (possibly relocated) markers
//  5. remove wall tiles outside the obstacle zone
//  6. replace tokens outside the alphabet with the empty tile
//
// Sanitization is deterministic, never aborts, and always returns a grid. It
// increases the likelihood a level validates but does not guarantee it: wall
// shapes, hazards, and currents are left as generated.
package sanitize

import (
	"fmt"

	"github.com/playproof/levelproof/level/geom"
	"github.com/playproof/levelproof/level/grid"
)

// Result carries the repaired level and a human-readable description of each
// corrective action taken. An empty Fixes list means the level was already
// clean for everything the sanitizer covers.
type Result struct {
	Level *grid.GridLevel `json:"level"`
	Fixes []string        `json:"fixes"`
}

// Level repairs lvl against its game profile. The input is never mutated;
// the returned level owns a fresh grid.
func Level(lvl *grid.GridLevel, p *grid.Profile) Result {
	s := &sanitizer{profile: p, fixes: []string{}}

	board := s.decode(lvl.Grid)
	s.placeMarker(board, grid.Start, p.StartZone, p.DefaultStart, "start")
	s.placeMarker(board, grid.Goal, p.GoalZone, p.DefaultGoal, "goal")
	s.clearPocket(board, grid.Start, p.StartPocket, "start")
	s.clearPocket(board, grid.Goal, p.GoalPocket, "goal")
	s.confineWalls(board)

	out := lvl.Clone()
	out.Grid.Cols = board.Cols
	out.Grid.Rows = board.Rows
	out.Grid.Tiles = board.TileRows()
	return Result{Level: out, Fixes: s.fixes}
}

type sanitizer struct {
	profile *grid.Profile
	fixes   []string
}

func (s *sanitizer) fixf(format string, args ...any) {
	s.fixes = append(s.fixes, fmt.Sprintf(format, args...))
}

// decode builds a board of the profile's dimensions, replacing unknown
// tokens with the empty tile and padding or truncating malformed rows. Token
// replacement is step 6 of the contract but happens during decoding; the fix
// log preserves the step-6 wording.
func (s *sanitizer) decode(spec grid.GridSpec) *grid.Board {
	p := s.profile
	board := grid.NewBoard(p.Cols, p.Rows)

	for y := 0; y < p.Rows; y++ {
		var row string
		if y < len(spec.Tiles) {
			row = spec.Tiles[y]
		}
		for x := 0; x < p.Cols; x++ {
			if x >= len(row) {
				continue
			}
			cell, ok := grid.CellForToken(row[x])
			if !ok {
				s.fixf("replaced unknown token %q at (%d,%d) with empty", row[x], x, y)
				continue
			}
			board.Set(x, y, cell)
		}
	}
	if len(spec.Tiles) != p.Rows || spec.Cols != p.Cols || spec.Rows != p.Rows {
		s.fixf("normalized grid to %dx%d", p.Cols, p.Rows)
	}
	return board
}

// placeMarker enforces exactly one marker inside its zone. Extra markers are
// removed, an out-of-zone marker is clamped per axis to the nearest in-zone
// tile, and a missing marker is inserted at the profile default.
func (s *sanitizer) placeMarker(board *grid.Board, cell grid.Cell, zone grid.Zone, def geom.Point, name string) {
	found := board.Find(cell)

	if len(found) == 0 {
		board.Set(def.X, def.Y, cell)
		s.fixf("inserted missing %s marker at default (%d,%d)", name, def.X, def.Y)
		return
	}

	for _, extra := range found[1:] {
		board.Set(extra.X, extra.Y, grid.Empty)
		s.fixf("removed duplicate %s marker at (%d,%d)", name, extra.X, extra.Y)
	}

	pos := found[0]
	if zone.Contains(pos) {
		return
	}
	moved := zone.Clamp(pos)
	board.Set(pos.X, pos.Y, grid.Empty)
	board.Set(moved.X, moved.Y, cell)
	s.fixf("moved %s marker from (%d,%d) to nearest in-zone tile (%d,%d)",
		name, pos.X, pos.Y, moved.X, moved.Y)
}

// clearPocket removes wall tiles within a Chebyshev radius of the marker.
func (s *sanitizer) clearPocket(board *grid.Board, cell grid.Cell, radius int, name string) {
	found := board.Find(cell)
	if len(found) == 0 {
		return
	}
	marker := found[0]

	for y := marker.Y - radius; y <= marker.Y+radius; y++ {
		for x := marker.X - radius; x <= marker.X+radius; x++ {
			if !board.InBounds(x, y) {
				continue
			}
			if board.At(x, y) == grid.Wall {
				board.Set(x, y, grid.Empty)
				s.fixf("cleared wall at (%d,%d) from the %s pocket", x, y, name)
			}
		}
	}
}

// confineWalls removes wall tiles outside the obstacle zone.
func (s *sanitizer) confineWalls(board *grid.Board) {
	for _, w := range board.Find(grid.Wall) {
		if !s.profile.ObstacleZone.Contains(w) {
			board.Set(w.X, w.Y, grid.Empty)
			s.fixf("removed wall at (%d,%d) outside the obstacle zone", w.X, w.Y)
		}
	}
}
