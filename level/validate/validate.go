// Package validate implements the rule-based grid-level validator and the
// non-gating lint pass.
//
// Validation runs three ordered stages:
//   - structural: schema tag, game id, grid dimensions, row lengths, token
//     alphabet, exactly-one start and goal markers
//   - placement: zone membership, clearances, start/goal separation, wall and
//     hazard confinement, directional-current runs
//   - shapes: every wall component must exactly fill its bounding rectangle
//     and match the profile's shape whitelist
//
// Any structural error short-circuits the later stages. Every issue carries a
// stage, a stable machine-matchable code, a severity, a human message, and
// optional structured data. The validator never mutates its input and never
// panics; only error-severity issues affect the verdict.
package validate

import (
	"fmt"

	"github.com/playproof/levelproof/level/geom"
	"github.com/playproof/levelproof/level/grid"
)

// Stages of validation.
const (
	StageStructural = "structural"
	StagePlacement  = "placement"
	StageShapes     = "shapes"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Stable issue codes.
const (
	CodeSchema            = "schema_mismatch"
	CodeGameID            = "game_id_mismatch"
	CodeGridSize          = "grid_size"
	CodeRowLength         = "row_length"
	CodeUnknownToken      = "unknown_token"
	CodeStartCount        = "start_count"
	CodeGoalCount         = "goal_count"
	CodeStartZone         = "start_zone"
	CodeGoalZone          = "goal_zone"
	CodeStartClearance    = "start_clearance"
	CodeGoalClearance     = "goal_clearance"
	CodeStartGoalDistance = "start_goal_distance"
	CodeStartGoalAligned  = "start_goal_aligned"
	CodeWallZone          = "wall_zone"
	CodeWallNearStart     = "wall_near_start"
	CodeHazardSize        = "hazard_size"
	CodeHazardZone        = "hazard_zone"
	CodeHazardNearStart   = "hazard_near_start"
	CodeWaterNearStart    = "water_near_start"
	CodeHazardNearGoal    = "hazard_near_goal"
	CodeCurrentRun        = "current_run"
	CodeCurrentBand       = "current_band"
	CodeWallShapeFill     = "wall_shape_fill"
	CodeWallShapeSize     = "wall_shape_size"
)

// Issue is one validation finding.
type Issue struct {
	Stage    string         `json:"stage"`
	Code     string         `json:"code"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}

// Result is the validator verdict. Valid is determined by the absence of
// error-severity issues; warnings are advisory.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

type checker struct {
	level   *grid.GridLevel
	profile *grid.Profile
	result  Result
}

func (c *checker) errf(stage, code string, data map[string]any, format string, args ...any) {
	c.result.Errors = append(c.result.Errors, Issue{
		Stage:    stage,
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Data:     data,
	})
}

func (c *checker) warnf(stage, code string, data map[string]any, format string, args ...any) {
	c.result.Warnings = append(c.result.Warnings, Issue{
		Stage:    stage,
		Code:     code,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Data:     data,
	})
}

func pointData(p geom.Point) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

// Level validates a grid level against its game profile.
func Level(lvl *grid.GridLevel, p *grid.Profile) Result {
	c := &checker{level: lvl, profile: p}

	board := c.structural()
	if len(c.result.Errors) == 0 && board != nil {
		start := board.Find(grid.Start)[0]
		goal := board.Find(grid.Goal)[0]
		c.placement(board, start, goal)
		c.shapes(board)
	}

	c.result.Valid = len(c.result.Errors) == 0
	if c.result.Errors == nil {
		c.result.Errors = []Issue{}
	}
	if c.result.Warnings == nil {
		c.result.Warnings = []Issue{}
	}
	return c.result
}

// structural checks the document shell and grid well-formedness. It returns
// a parsed board only when the grid region is usable by later stages.
func (c *checker) structural() *grid.Board {
	lvl, p := c.level, c.profile

	if lvl.Schema != grid.SchemaVersion {
		c.errf(StageStructural, CodeSchema, nil,
			"schema %q is not supported, expected %q", lvl.Schema, grid.SchemaVersion)
	}
	if lvl.GameID != p.GameID {
		c.errf(StageStructural, CodeGameID, nil,
			"level targets game %q but profile is %q", lvl.GameID, p.GameID)
	}

	spec := lvl.Grid
	if spec.Cols != p.Cols || spec.Rows != p.Rows {
		c.errf(StageStructural, CodeGridSize,
			map[string]any{"cols": spec.Cols, "rows": spec.Rows},
			"grid is %dx%d, expected %dx%d", spec.Cols, spec.Rows, p.Cols, p.Rows)
		return nil
	}
	if len(spec.Tiles) != spec.Rows {
		c.errf(StageStructural, CodeGridSize,
			map[string]any{"rows": len(spec.Tiles)},
			"grid has %d tile rows, expected %d", len(spec.Tiles), spec.Rows)
		return nil
	}

	malformed := false
	for y, row := range spec.Tiles {
		if len(row) != spec.Cols {
			c.errf(StageStructural, CodeRowLength,
				map[string]any{"row": y, "length": len(row)},
				"row %d has %d tokens, expected %d", y, len(row), spec.Cols)
			malformed = true
			continue
		}
		for x := 0; x < len(row); x++ {
			if _, ok := grid.CellForToken(row[x]); !ok {
				c.errf(StageStructural, CodeUnknownToken,
					map[string]any{"x": x, "y": y, "token": string(row[x])},
					"unknown token %q at (%d,%d)", row[x], x, y)
				malformed = true
			}
		}
	}
	if malformed {
		return nil
	}

	board, err := grid.ParseBoard(spec)
	if err != nil {
		// Row and token problems were caught above; anything left is a
		// dimension problem already reported.
		return nil
	}

	// Exactly one of each marker, one issue per marker regardless of count.
	if n := board.Count(grid.Start); n != 1 {
		c.errf(StageStructural, CodeStartCount, map[string]any{"count": n},
			"level must contain exactly one start marker, found %d", n)
	}
	if n := board.Count(grid.Goal); n != 1 {
		c.errf(StageStructural, CodeGoalCount, map[string]any{"count": n},
			"level must contain exactly one goal marker, found %d", n)
	}
	if len(c.result.Errors) > 0 {
		return nil
	}
	return board
}

// clearanceBlocked reports cells that may not appear near a marker.
func clearanceBlocked(cell grid.Cell) bool {
	return cell == grid.Wall || cell.IsHazard() || cell.IsCurrent()
}

func (c *checker) placement(board *grid.Board, start, goal geom.Point) {
	p := c.profile

	if !p.StartZone.Contains(start) {
		c.errf(StagePlacement, CodeStartZone, pointData(start),
			"start marker (%d,%d) is outside its zone", start.X, start.Y)
	}
	if !p.GoalZone.Contains(goal) {
		c.errf(StagePlacement, CodeGoalZone, pointData(goal),
			"goal marker (%d,%d) is outside its zone", goal.X, goal.Y)
	}

	c.clearance(board, start, p.StartClearance, CodeStartClearance, "start")
	c.clearance(board, goal, p.GoalClearance, CodeGoalClearance, "goal")

	if d := geom.Manhattan(start, goal); d < p.MinStartGoalDistance {
		c.errf(StagePlacement, CodeStartGoalDistance, map[string]any{"distance": d},
			"start and goal are %d tiles apart, need at least %d", d, p.MinStartGoalDistance)
	}
	if start.Y == goal.Y && geom.Manhattan(start, goal) < p.MinSameRowSeparation {
		c.errf(StagePlacement, CodeStartGoalAligned, nil,
			"start and goal share row %d too closely for a non-trivial shot", start.Y)
	}

	c.walls(board, start)
	c.hazards(board, start, goal)
	c.currents(board)
}

func (c *checker) clearance(board *grid.Board, marker geom.Point, radius int, code, name string) {
	for y := marker.Y - radius; y <= marker.Y+radius; y++ {
		for x := marker.X - radius; x <= marker.X+radius; x++ {
			if !board.InBounds(x, y) || (x == marker.X && y == marker.Y) {
				continue
			}
			if clearanceBlocked(board.At(x, y)) {
				c.errf(StagePlacement, code,
					map[string]any{"x": x, "y": y, "cell": board.At(x, y).String()},
					"%s clearance violated by %s tile at (%d,%d)",
					name, board.At(x, y), x, y)
			}
		}
	}
}

func (c *checker) walls(board *grid.Board, start geom.Point) {
	for _, w := range board.Find(grid.Wall) {
		if !c.profile.ObstacleZone.Contains(w) {
			c.errf(StagePlacement, CodeWallZone, pointData(w),
				"wall tile (%d,%d) is outside the obstacle zone", w.X, w.Y)
		}
		if geom.Chebyshev(w, start) <= c.profile.StartClearance {
			c.errf(StagePlacement, CodeWallNearStart, pointData(w),
				"wall tile (%d,%d) is adjacent to the start marker", w.X, w.Y)
		}
	}
}

func (c *checker) hazards(board *grid.Board, start, goal geom.Point) {
	p := c.profile
	for _, cell := range []grid.Cell{grid.Sand, grid.Water} {
		comps := geom.Components(board.Cols, board.Rows, func(x, y int) bool {
			return board.At(x, y) == cell
		})
		for _, comp := range comps {
			if len(comp.Tiles) < p.MinHazardSize {
				c.errf(StagePlacement, CodeHazardSize,
					map[string]any{"cell": cell.String(), "size": len(comp.Tiles)},
					"%s region of %d tiles is below the minimum of %d",
					cell, len(comp.Tiles), p.MinHazardSize)
			}
			for _, tile := range comp.Tiles {
				if !p.HazardZone.Contains(tile) {
					c.errf(StagePlacement, CodeHazardZone, pointData(tile),
						"%s tile (%d,%d) is outside the hazard zone", cell, tile.X, tile.Y)
				}
				if geom.Chebyshev(tile, start) <= 1 {
					c.errf(StagePlacement, CodeHazardNearStart, pointData(tile),
						"%s tile (%d,%d) is adjacent to the start marker", cell, tile.X, tile.Y)
				}
				if cell == grid.Water && geom.Manhattan(tile, start) < p.MinWaterStartDistance {
					c.errf(StagePlacement, CodeWaterNearStart, pointData(tile),
						"water tile (%d,%d) is too close to the start marker", tile.X, tile.Y)
				}
				if geom.Chebyshev(tile, goal) <= p.GoalClearance+1 {
					c.warnf(StagePlacement, CodeHazardNearGoal, pointData(tile),
						"%s tile (%d,%d) crowds the goal pocket", cell, tile.X, tile.Y)
				}
			}
		}
	}
}

func (c *checker) currents(board *grid.Board) {
	p := c.profile

	// Left/right currents form horizontal runs, up/down currents vertical
	// ones; a run's length is the constraint, not its area.
	groups := []struct {
		cell       grid.Cell
		horizontal bool
	}{
		{grid.CurrentLeft, true},
		{grid.CurrentRight, true},
		{grid.CurrentUp, false},
		{grid.CurrentDown, false},
	}
	for _, g := range groups {
		runs := geom.Runs(board.Cols, board.Rows, g.horizontal, func(x, y int) bool {
			return board.At(x, y) == g.cell
		})
		for _, run := range runs {
			if run.Length < p.MinCurrentRun {
				c.errf(StagePlacement, CodeCurrentRun,
					map[string]any{"cell": g.cell.String(), "length": run.Length},
					"%s current run of %d tiles is below the minimum of %d",
					g.cell, run.Length, p.MinCurrentRun)
			}
			for _, tile := range run.Tiles() {
				if !p.CurrentBand.Contains(tile) {
					c.errf(StagePlacement, CodeCurrentBand, pointData(tile),
						"current tile (%d,%d) is outside the allowed band", tile.X, tile.Y)
				}
			}
		}
	}
}

func (c *checker) shapes(board *grid.Board) {
	comps := geom.Components(board.Cols, board.Rows, func(x, y int) bool {
		return board.At(x, y) == grid.Wall
	})
	for _, comp := range comps {
		w, h := comp.Bounds.Width(), comp.Bounds.Height()
		if !comp.Filled() {
			c.errf(StageShapes, CodeWallShapeFill,
				map[string]any{"width": w, "height": h, "tiles": len(comp.Tiles)},
				"wall group near (%d,%d) does not fill its %dx%d bounding rectangle",
				comp.Bounds.MinX, comp.Bounds.MinY, w, h)
			continue
		}
		if !c.profile.AllowsWallShape(w, h) {
			c.errf(StageShapes, CodeWallShapeSize,
				map[string]any{"width": w, "height": h},
				"wall rectangle %dx%d at (%d,%d) is not a permitted shape",
				w, h, comp.Bounds.MinX, comp.Bounds.MinY)
		}
	}
}
