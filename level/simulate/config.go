package simulate

import "github.com/playproof/levelproof/level/compile"

// Config tunes the brute-force search and the per-shot physics loop. The
// same configuration always produces the same report for the same spec.
type Config struct {
	// Fixed-step integration.
	Dt       float64 `json:"dt" yaml:"dt"`
	MaxSteps int     `json:"max_steps" yaml:"max_steps"`

	// Sampling resolution of the angle×power grid.
	AngleSteps int `json:"angle_steps" yaml:"angle_steps"`
	PowerSteps int `json:"power_steps" yaml:"power_steps"`

	// Impulse scaling. Power levels run from MinPowerFrac×MaxPower up to
	// MaxPower; a zero-power shot can never be a witness.
	MaxPower     float64 `json:"max_power" yaml:"max_power"`
	MinPowerFrac float64 `json:"min_power_frac" yaml:"min_power_frac"`

	// A shot is abandoned once the ball stays below StopVelocity for
	// StopFrames consecutive steps.
	StopVelocity float64 `json:"stop_velocity" yaml:"stop_velocity"`
	StopFrames   int     `json:"stop_frames" yaml:"stop_frames"`

	// Hazard tuning.
	SandFriction float64 `json:"sand_friction" yaml:"sand_friction"`
	CurrentForce float64 `json:"current_force" yaml:"current_force"`
	PortalRadius float64 `json:"portal_radius" yaml:"portal_radius"`

	BorderThickness float64 `json:"border_thickness" yaml:"border_thickness"`
}

// DefaultConfig returns the full-resolution search used before a level is
// accepted: 600 steps at 1/60s per shot over a 24×6 shot grid.
func DefaultConfig() Config {
	return Config{
		Dt:              1.0 / 60.0,
		MaxSteps:        600,
		AngleSteps:      24,
		PowerSteps:      6,
		MaxPower:        900,
		MinPowerFrac:    0.25,
		StopVelocity:    2.0,
		StopFrames:      30,
		SandFriction:    0.9,
		CurrentForce:    220,
		PortalRadius:    compile.CellSize * 0.4,
		BorderThickness: compile.CellSize * 0.5,
	}
}

// QuickConfig trades sampling density and step budget for latency; used by
// tight regeneration loops that only need a fast go/no-go signal.
func QuickConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxSteps = 300
	cfg.AngleSteps = 12
	cfg.PowerSteps = 4
	return cfg
}
