package grid

import "github.com/playproof/levelproof/level/geom"

// SchemaVersion is the only schema tag accepted by the validator.
const SchemaVersion = "playproof.level.v1"

// GridLevel is the authoring-time level document. Rules and Design carry
// free-form generator intent and are never read by validation, compilation,
// or simulation.
type GridLevel struct {
	Schema   string         `json:"schema"`
	GameID   string         `json:"game_id"`
	Version  string         `json:"version,omitempty"`
	Seed     string         `json:"seed,omitempty"`
	Grid     GridSpec       `json:"grid"`
	Entities Entities       `json:"entities,omitempty"`
	Rules    map[string]any `json:"rules,omitempty"`
	Design   map[string]any `json:"design,omitempty"`
}

// GridSpec holds the tile rows. Each row must be exactly Cols tokens and
// there must be exactly Rows rows for the level to pass structural checks.
type GridSpec struct {
	Cols  int      `json:"cols"`
	Rows  int      `json:"rows"`
	Tiles []string `json:"tiles"`
}

// Entities are typed placements layered on top of the grid. They reference
// tile coordinates but are not encoded as grid tokens.
type Entities struct {
	Portals      []Portal      `json:"portals,omitempty"`
	MovingBlocks []MovingBlock `json:"moving_blocks,omitempty"`
}

// Portal teleports the ball from its entrance tile to its exit tile.
type Portal struct {
	ID        string     `json:"id"`
	Entrance  geom.Point `json:"entrance"`
	Exit      geom.Point `json:"exit"`
	Cooldown  float64    `json:"cooldown"`   // seconds before it can fire again
	ExitBoost float64    `json:"exit_boost"` // exit-velocity multiplier
}

// Motion axes for moving blocks.
const (
	AxisX = "x"
	AxisY = "y"
)

// Oscillation modes for moving blocks.
const (
	ModeLoop     = "loop"
	ModePingPong = "pingpong"
)

// MovingBlock oscillates along one axis between two tile offsets.
type MovingBlock struct {
	ID     string     `json:"id"`
	Origin geom.Point `json:"origin"`
	Axis   string     `json:"axis"`
	Range  int        `json:"range"` // travel distance in tiles
	Speed  float64    `json:"speed"` // tiles per second
	Mode   string     `json:"mode"`
	Phase  float64    `json:"phase"` // phase offset in seconds
}

// Clone returns a deep copy of the level. Rules and Design maps are shared;
// they are informational and never mutated by any core component.
func (l *GridLevel) Clone() *GridLevel {
	cp := *l
	cp.Grid.Tiles = append([]string(nil), l.Grid.Tiles...)
	cp.Entities.Portals = append([]Portal(nil), l.Entities.Portals...)
	cp.Entities.MovingBlocks = append([]MovingBlock(nil), l.Entities.MovingBlocks...)
	return &cp
}
