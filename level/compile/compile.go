// Package compile turns a structurally valid grid level into a continuous-
// space LevelSpec consumed by the solvability simulator and the renderer.
//
// Every field of the LevelSpec is an independent projection of the same grid, so
// compilation order cannot affect the result: compile is pure, and compiling
// the same level twice yields identical values. The only failure mode is a
// structurally malformed level; placement and shape violations compile fine.
package compile

import (
	"fmt"

	"github.com/playproof/levelproof/level/geom"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/physics"
)

// World-space projection constants.
const (
	CellSize     = 40.0 // pixels per tile
	BallRadius   = CellSize * 0.3
	GoalRadius   = CellSize * 0.35
	BaseFriction = 0.985 // multiplicative velocity retention per step
)

// RectSpec is an axis-aligned world-space rectangle; X,Y is the top-left.
type RectSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CurrentSpec is a drift region pushing the ball along a unit direction.
type CurrentSpec struct {
	Rect RectSpec    `json:"rect"`
	Dir  physics.Vec `json:"dir"`
}

// PortalSpec is a compiled portal: world-space entrance and exit points with
// the entity's motion parameters passed through unchanged.
type PortalSpec struct {
	ID        string      `json:"id"`
	Entrance  physics.Vec `json:"entrance"`
	Exit      physics.Vec `json:"exit"`
	Cooldown  float64     `json:"cooldown"`
	ExitBoost float64     `json:"exit_boost"`
}

// MovingBlockSpec is a compiled moving block: its rectangle at phase zero
// plus the oscillation parameters, scaled into world units.
type MovingBlockSpec struct {
	ID    string   `json:"id"`
	Rect  RectSpec `json:"rect"`
	Axis  string   `json:"axis"`
	Range float64  `json:"range"` // world-space travel distance
	Speed float64  `json:"speed"` // world units per second
	Mode  string   `json:"mode"`
	Phase float64  `json:"phase"`
}

// LevelSpec is the compiled, immutable, continuous-space level description.
type LevelSpec struct {
	GameID   string  `json:"game_id"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Friction float64 `json:"friction"`

	Ball       physics.Vec `json:"ball"`
	BallRadius float64     `json:"ball_radius"`
	Goal       physics.Vec `json:"goal"`
	GoalRadius float64     `json:"goal_radius"`

	Walls    []RectSpec    `json:"walls"`
	Sand     []RectSpec    `json:"sand,omitempty"`
	Water    []RectSpec    `json:"water,omitempty"`
	Currents []CurrentSpec `json:"currents,omitempty"`

	Portals      []PortalSpec      `json:"portals,omitempty"`
	MovingBlocks []MovingBlockSpec `json:"moving_blocks,omitempty"`
}

// cellCenter returns the world-space center of a tile.
func cellCenter(p geom.Point) physics.Vec {
	return physics.Vec{
		X: (float64(p.X) + 0.5) * CellSize,
		Y: (float64(p.Y) + 0.5) * CellSize,
	}
}

// boundsRect projects a tile bounding rectangle into world space.
func boundsRect(r geom.Rect) RectSpec {
	return RectSpec{
		X: float64(r.MinX) * CellSize,
		Y: float64(r.MinY) * CellSize,
		W: float64(r.Width()) * CellSize,
		H: float64(r.Height()) * CellSize,
	}
}

// Level compiles a grid level. Callers are expected to validate first; a
// structurally malformed level is the only error path.
func Level(lvl *grid.GridLevel, p *grid.Profile) (*LevelSpec, error) {
	board, err := grid.ParseBoard(lvl.Grid)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if board.Cols != p.Cols || board.Rows != p.Rows {
		return nil, fmt.Errorf("compile: grid is %dx%d, profile %s expects %dx%d",
			board.Cols, board.Rows, p.GameID, p.Cols, p.Rows)
	}

	starts := board.Find(grid.Start)
	goals := board.Find(grid.Goal)
	if len(starts) != 1 || len(goals) != 1 {
		return nil, fmt.Errorf("compile: need exactly one start and one goal, found %d and %d",
			len(starts), len(goals))
	}

	spec := &LevelSpec{
		GameID:     lvl.GameID,
		Width:      float64(board.Cols) * CellSize,
		Height:     float64(board.Rows) * CellSize,
		Friction:   BaseFriction,
		Ball:       cellCenter(starts[0]),
		BallRadius: BallRadius,
		Goal:       cellCenter(goals[0]),
		GoalRadius: GoalRadius,
		Walls:      []RectSpec{},
	}

	// One rectangle per connected component. Valid wall components fill
	// their bounds exactly, so the bounding rectangle is the component.
	for _, comp := range componentsOf(board, grid.Wall) {
		spec.Walls = append(spec.Walls, boundsRect(comp.Bounds))
	}
	for _, comp := range componentsOf(board, grid.Sand) {
		spec.Sand = append(spec.Sand, boundsRect(comp.Bounds))
	}
	for _, comp := range componentsOf(board, grid.Water) {
		spec.Water = append(spec.Water, boundsRect(comp.Bounds))
	}

	// Currents compile per tile, not per run; the simulator applies drift
	// cell by cell.
	for y := 0; y < board.Rows; y++ {
		for x := 0; x < board.Cols; x++ {
			cell := board.At(x, y)
			if !cell.IsCurrent() {
				continue
			}
			dx, dy := cell.CurrentDir()
			spec.Currents = append(spec.Currents, CurrentSpec{
				Rect: RectSpec{
					X: float64(x) * CellSize,
					Y: float64(y) * CellSize,
					W: CellSize,
					H: CellSize,
				},
				Dir: physics.Vec{X: float64(dx), Y: float64(dy)},
			})
		}
	}

	for _, portal := range lvl.Entities.Portals {
		spec.Portals = append(spec.Portals, PortalSpec{
			ID:        portal.ID,
			Entrance:  cellCenter(portal.Entrance),
			Exit:      cellCenter(portal.Exit),
			Cooldown:  portal.Cooldown,
			ExitBoost: portal.ExitBoost,
		})
	}

	for _, block := range lvl.Entities.MovingBlocks {
		spec.MovingBlocks = append(spec.MovingBlocks, MovingBlockSpec{
			ID: block.ID,
			Rect: RectSpec{
				X: float64(block.Origin.X) * CellSize,
				Y: float64(block.Origin.Y) * CellSize,
				W: CellSize,
				H: CellSize,
			},
			Axis:  block.Axis,
			Range: float64(block.Range) * CellSize,
			Speed: block.Speed * CellSize,
			Mode:  block.Mode,
			Phase: block.Phase,
		})
	}

	return spec, nil
}

func componentsOf(board *grid.Board, cell grid.Cell) []geom.Component {
	return geom.Components(board.Cols, board.Rows, func(x, y int) bool {
		return board.At(x, y) == cell
	})
}
