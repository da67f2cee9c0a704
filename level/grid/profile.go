package grid

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/playproof/levelproof/level/geom"
)

// ErrUnknownGame is returned when no profile exists for a game id.
var ErrUnknownGame = errors.New("unknown game id")

// Zone is an inclusive tile-coordinate rectangle a marker or obstacle type
// must lie within.
type Zone struct {
	MinX int `json:"min_x" yaml:"min_x"`
	MinY int `json:"min_y" yaml:"min_y"`
	MaxX int `json:"max_x" yaml:"max_x"`
	MaxY int `json:"max_y" yaml:"max_y"`
}

// Contains reports whether p lies inside the zone.
func (z Zone) Contains(p geom.Point) bool {
	return p.X >= z.MinX && p.X <= z.MaxX && p.Y >= z.MinY && p.Y <= z.MaxY
}

// Clamp returns the nearest in-zone point to p, clamping each axis
// independently.
func (z Zone) Clamp(p geom.Point) geom.Point {
	if p.X < z.MinX {
		p.X = z.MinX
	}
	if p.X > z.MaxX {
		p.X = z.MaxX
	}
	if p.Y < z.MinY {
		p.Y = z.MinY
	}
	if p.Y > z.MaxY {
		p.Y = z.MaxY
	}
	return p
}

// WallShape is a permitted wall rectangle size.
type WallShape struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Profile carries every per-game-variant constant consumed by the validator,
// sanitizer, and compiler. One Profile value is shared by all three, so the
// zone constants cannot drift apart.
type Profile struct {
	GameID string `json:"game_id" yaml:"game_id"`
	Cols   int    `json:"cols" yaml:"cols"`
	Rows   int    `json:"rows" yaml:"rows"`

	StartZone    Zone `json:"start_zone" yaml:"start_zone"`
	GoalZone     Zone `json:"goal_zone" yaml:"goal_zone"`
	ObstacleZone Zone `json:"obstacle_zone" yaml:"obstacle_zone"`
	HazardZone   Zone `json:"hazard_zone" yaml:"hazard_zone"`
	CurrentBand  Zone `json:"current_band" yaml:"current_band"`

	// Chebyshev radii: clearance is what the validator requires around each
	// marker; pocket is where the sanitizer removes walls. Pockets must be
	// at least as large as clearances so a sanitized marker always satisfies
	// the wall part of the clearance check. Hazard and current tiles also
	// block clearance but are left as generated.
	StartClearance int `json:"start_clearance" yaml:"start_clearance"`
	GoalClearance  int `json:"goal_clearance" yaml:"goal_clearance"`
	StartPocket    int `json:"start_pocket" yaml:"start_pocket"`
	GoalPocket     int `json:"goal_pocket" yaml:"goal_pocket"`

	MinStartGoalDistance  int `json:"min_start_goal_distance" yaml:"min_start_goal_distance"`
	MinSameRowSeparation  int `json:"min_same_row_separation" yaml:"min_same_row_separation"`
	MinHazardSize         int `json:"min_hazard_size" yaml:"min_hazard_size"`
	MinWaterStartDistance int `json:"min_water_start_distance" yaml:"min_water_start_distance"`
	MinCurrentRun         int `json:"min_current_run" yaml:"min_current_run"`

	WallShapes []WallShape `json:"wall_shapes" yaml:"wall_shapes"`

	DefaultStart geom.Point `json:"default_start" yaml:"default_start"`
	DefaultGoal  geom.Point `json:"default_goal" yaml:"default_goal"`
}

// AllowsWallShape reports whether a w×h wall rectangle is permitted.
func (p *Profile) AllowsWallShape(w, h int) bool {
	for _, s := range p.WallShapes {
		if s.Width == w && s.Height == h {
			return true
		}
	}
	return false
}

// Check verifies the profile's internal consistency: zones inside the grid,
// defaults inside their zones, and pockets no smaller than clearances.
func (p *Profile) Check() error {
	if p.GameID == "" {
		return errors.New("profile: game_id is required")
	}
	if p.Cols <= 0 || p.Rows <= 0 {
		return fmt.Errorf("profile %s: grid dimensions must be positive", p.GameID)
	}
	bounds := Zone{MaxX: p.Cols - 1, MaxY: p.Rows - 1}
	for name, z := range map[string]Zone{
		"start_zone":    p.StartZone,
		"goal_zone":     p.GoalZone,
		"obstacle_zone": p.ObstacleZone,
		"hazard_zone":   p.HazardZone,
		"current_band":  p.CurrentBand,
	} {
		if z.MinX > z.MaxX || z.MinY > z.MaxY {
			return fmt.Errorf("profile %s: %s is empty", p.GameID, name)
		}
		if !bounds.Contains(geom.Point{X: z.MinX, Y: z.MinY}) ||
			!bounds.Contains(geom.Point{X: z.MaxX, Y: z.MaxY}) {
			return fmt.Errorf("profile %s: %s exceeds the grid", p.GameID, name)
		}
	}
	if !p.StartZone.Contains(p.DefaultStart) {
		return fmt.Errorf("profile %s: default start outside start zone", p.GameID)
	}
	if !p.GoalZone.Contains(p.DefaultGoal) {
		return fmt.Errorf("profile %s: default goal outside goal zone", p.GameID)
	}
	if p.StartPocket < p.StartClearance || p.GoalPocket < p.GoalClearance {
		return fmt.Errorf("profile %s: pockets must cover clearances", p.GameID)
	}
	if len(p.WallShapes) == 0 {
		return fmt.Errorf("profile %s: at least one wall shape is required", p.GameID)
	}
	return nil
}

var defaultWallShapes = []WallShape{
	{1, 1}, {2, 1}, {1, 2}, {2, 2},
	{3, 1}, {1, 3}, {4, 1}, {1, 4},
	{3, 2}, {2, 3},
}

// MiniGolf returns the 20×14 mini-golf profile: tee on the left, hole on the
// right, obstacles in the middle band.
func MiniGolf() *Profile {
	return &Profile{
		GameID: "mini-golf",
		Cols:   20,
		Rows:   14,

		StartZone:    Zone{MinX: 1, MinY: 2, MaxX: 5, MaxY: 11},
		GoalZone:     Zone{MinX: 14, MinY: 2, MaxX: 18, MaxY: 11},
		ObstacleZone: Zone{MinX: 3, MinY: 1, MaxX: 16, MaxY: 12},
		HazardZone:   Zone{MinX: 2, MinY: 1, MaxX: 17, MaxY: 12},
		CurrentBand:  Zone{MinX: 6, MinY: 2, MaxX: 13, MaxY: 11},

		StartClearance: 1,
		GoalClearance:  1,
		StartPocket:    2,
		GoalPocket:     1,

		MinStartGoalDistance:  8,
		MinSameRowSeparation:  11,
		MinHazardSize:         3,
		MinWaterStartDistance: 4,
		MinCurrentRun:         3,

		WallShapes: defaultWallShapes,

		DefaultStart: geom.Point{X: 3, Y: 7},
		DefaultGoal:  geom.Point{X: 16, Y: 7},
	}
}

// Basketball returns the 20×14 basketball profile: launch spot low on the
// left, hoop high on the right.
func Basketball() *Profile {
	return &Profile{
		GameID: "basketball",
		Cols:   20,
		Rows:   14,

		StartZone:    Zone{MinX: 1, MinY: 8, MaxX: 6, MaxY: 12},
		GoalZone:     Zone{MinX: 13, MinY: 1, MaxX: 18, MaxY: 6},
		ObstacleZone: Zone{MinX: 4, MinY: 1, MaxX: 15, MaxY: 12},
		HazardZone:   Zone{MinX: 3, MinY: 6, MaxX: 16, MaxY: 12},
		CurrentBand:  Zone{MinX: 7, MinY: 2, MaxX: 12, MaxY: 11},

		StartClearance: 1,
		GoalClearance:  1,
		StartPocket:    2,
		GoalPocket:     1,

		MinStartGoalDistance:  9,
		MinSameRowSeparation:  11,
		MinHazardSize:         3,
		MinWaterStartDistance: 4,
		MinCurrentRun:         3,

		WallShapes: defaultWallShapes,

		DefaultStart: geom.Point{X: 3, Y: 10},
		DefaultGoal:  geom.Point{X: 16, Y: 3},
	}
}

// Archery returns the 20×14 archery profile: a narrow shooting line on the
// far left and a distant target band.
func Archery() *Profile {
	return &Profile{
		GameID: "archery",
		Cols:   20,
		Rows:   14,

		StartZone:    Zone{MinX: 1, MinY: 2, MaxX: 3, MaxY: 11},
		GoalZone:     Zone{MinX: 15, MinY: 2, MaxX: 18, MaxY: 11},
		ObstacleZone: Zone{MinX: 5, MinY: 1, MaxX: 14, MaxY: 12},
		HazardZone:   Zone{MinX: 4, MinY: 1, MaxX: 15, MaxY: 12},
		CurrentBand:  Zone{MinX: 5, MinY: 2, MaxX: 14, MaxY: 11},

		StartClearance: 1,
		GoalClearance:  1,
		StartPocket:    2,
		GoalPocket:     1,

		MinStartGoalDistance:  10,
		MinSameRowSeparation:  12,
		MinHazardSize:         3,
		MinWaterStartDistance: 5,
		MinCurrentRun:         3,

		WallShapes: defaultWallShapes,

		DefaultStart: geom.Point{X: 2, Y: 7},
		DefaultGoal:  geom.Point{X: 17, Y: 7},
	}
}

// ProfileFor returns the built-in profile for a game id.
func ProfileFor(gameID string) (*Profile, error) {
	switch gameID {
	case "mini-golf":
		return MiniGolf(), nil
	case "basketball":
		return Basketball(), nil
	case "archery":
		return Archery(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, gameID)
}

// GameIDs lists the built-in game variants.
func GameIDs() []string {
	return []string{"mini-golf", "basketball", "archery"}
}

// LoadProfile reads a profile from a YAML file and checks its consistency.
// Authoring experiments can tweak zones without recompiling.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return &p, nil
}
