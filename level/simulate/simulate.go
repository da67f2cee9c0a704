// Package simulate proves or disproves level solvability by brute force.
//
// The simulator compiles a level and then samples an angle×power grid of
// candidate shots. Each shot runs in a fresh physics world built from the
// compiled spec: border walls, level walls, sand friction regions, current
// drift regions, instant-fail water, portals, and oscillating moving blocks.
// The search is a witness search: it returns on the first holed shot, and
// only exhausts the grid when no shot holes, in which case the closest
// attempt is reported as diagnostic data.
//
// Everything here is deterministic. The same level and configuration always
// yield the same report, and a compile failure is reported as an unsolvable
// level with zero attempts rather than an error.
package simulate

import (
	"fmt"
	"math"

	"github.com/playproof/levelproof/level/compile"
	"github.com/playproof/levelproof/level/grid"
	"github.com/playproof/levelproof/physics"
)

// Shot is one simulated attempt: an instantaneous impulse at a launch angle
// and power fraction, and what became of it.
type Shot struct {
	Angle         float64 `json:"angle"`
	Power         float64 `json:"power"`
	Steps         int     `json:"steps"`
	FinalDistance float64 `json:"final_distance"`
	Holed         bool    `json:"holed"`
}

// Report is the outcome of a solvability search. BestShot is the witness
// when Passed, otherwise the attempt that stopped closest to the goal.
type Report struct {
	Passed   bool   `json:"passed"`
	Attempts int    `json:"attempts"`
	BestShot *Shot  `json:"best_shot,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Level compiles and searches a grid level. A nil cfg uses DefaultConfig.
// Compile failures produce a zero-attempt failed report, never an error:
// a malformed level is unsolvable, not fatal.
func Level(lvl *grid.GridLevel, p *grid.Profile, cfg *Config) Report {
	spec, err := compile.Level(lvl, p)
	if err != nil {
		return Report{
			Passed:   false,
			Attempts: 0,
			Note:     fmt.Sprintf("level did not compile: %v", err),
		}
	}
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return Spec(spec, c)
}

// QuickCheck is the reduced-resolution variant for regeneration loops.
func QuickCheck(lvl *grid.GridLevel, p *grid.Profile) Report {
	cfg := QuickConfig()
	return Level(lvl, p, &cfg)
}

// Spec brute-force searches a compiled spec. Angles are evenly spaced over a
// full turn; power levels run from the low fraction up to full power.
func Spec(spec *compile.LevelSpec, cfg Config) Report {
	attempts := 0
	var best *Shot

	powerDiv := cfg.PowerSteps - 1
	if powerDiv < 1 {
		powerDiv = 1
	}

	for ai := 0; ai < cfg.AngleSteps; ai++ {
		angle := 2 * math.Pi * float64(ai) / float64(cfg.AngleSteps)
		for pi := 0; pi < cfg.PowerSteps; pi++ {
			frac := cfg.MinPowerFrac + (1-cfg.MinPowerFrac)*float64(pi)/float64(powerDiv)
			attempts++

			shot := simulateShot(spec, cfg, angle, frac*cfg.MaxPower)
			if shot.Holed {
				return Report{Passed: true, Attempts: attempts, BestShot: &shot}
			}
			if best == nil || shot.FinalDistance < best.FinalDistance {
				s := shot
				best = &s
			}
		}
	}

	note := fmt.Sprintf("no winning shot in %d attempts", attempts)
	if best != nil && !math.IsInf(best.FinalDistance, 1) {
		note = fmt.Sprintf("no winning shot in %d attempts; best stopped %.1f world units from the goal",
			attempts, best.FinalDistance)
	}
	return Report{Passed: false, Attempts: attempts, BestShot: best, Note: note}
}

// simulateShot runs one shot to completion in its own world.
func simulateShot(spec *compile.LevelSpec, cfg Config, angle, power float64) Shot {
	shot := Shot{Angle: angle, Power: power}

	world := physics.NewWorld(physics.Vec{})
	ball := physics.NewBall(spec.Ball, spec.BallRadius)
	ball.Friction = spec.Friction
	world.AddBall(ball)

	addBorders(world, spec, cfg)
	for _, r := range spec.Walls {
		world.AddWall(specWall(r, "wall", ""))
	}

	blocks := make([]*movingBlock, 0, len(spec.MovingBlocks))
	for i := range spec.MovingBlocks {
		mb := newMovingBlock(&spec.MovingBlocks[i])
		world.AddWall(mb.wall)
		blocks = append(blocks, mb)
	}

	portalTimers := make([]float64, len(spec.Portals))

	dir := physics.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
	ball.ApplyImpulse(dir.Scale(power))

	winRadius := spec.GoalRadius - spec.BallRadius*0.5
	stopped := 0

	for step := 0; step < cfg.MaxSteps; step++ {
		shot.Steps = step + 1

		if insideAny(spec.Sand, ball.Pos) {
			ball.Vel = ball.Vel.Scale(cfg.SandFriction)
		}
		if cur, ok := currentAt(spec.Currents, ball.Pos); ok {
			ball.Vel = ball.Vel.Add(cur.Dir.Scale(cfg.CurrentForce * cfg.Dt))
		}
		if insideAny(spec.Water, ball.Pos) {
			// Water sinks the shot; for solvability it is an instant fail,
			// not a respawn.
			shot.FinalDistance = math.Inf(1)
			return shot
		}

		t := float64(step) * cfg.Dt
		for _, mb := range blocks {
			mb.advance(t)
		}

		world.Step(cfg.Dt)

		for i := range spec.Portals {
			portalTimers[i] -= cfg.Dt
			p := &spec.Portals[i]
			if portalTimers[i] <= 0 && ball.Pos.Dist(p.Entrance) < cfg.PortalRadius {
				ball.Pos = p.Exit
				ball.PrevPos = p.Exit
				ball.Vel = ball.Vel.Scale(p.ExitBoost)
				portalTimers[i] = p.Cooldown
			}
		}

		dist := ball.Pos.Dist(spec.Goal)
		if dist <= winRadius {
			shot.Holed = true
			shot.FinalDistance = dist
			return shot
		}

		if ball.Vel.Len() < cfg.StopVelocity {
			stopped++
			if stopped >= cfg.StopFrames {
				break
			}
		} else {
			stopped = 0
		}
	}

	shot.FinalDistance = ball.Pos.Dist(spec.Goal)
	return shot
}

func specWall(r compile.RectSpec, kind, id string) *physics.Wall {
	w := physics.NewWall(physics.Vec{X: r.X, Y: r.Y}, r.W, r.H)
	w.Restitution = 0.9
	w.Kind = kind
	w.ID = id
	return w
}

// addBorders rings the course with four fixed-thickness walls so no shot
// can leave the world.
func addBorders(world *physics.World, spec *compile.LevelSpec, cfg Config) {
	t := cfg.BorderThickness
	borders := []compile.RectSpec{
		{X: -t, Y: -t, W: spec.Width + 2*t, H: t},          // top
		{X: -t, Y: spec.Height, W: spec.Width + 2*t, H: t}, // bottom
		{X: -t, Y: -t, W: t, H: spec.Height + 2*t},         // left
		{X: spec.Width, Y: -t, W: t, H: spec.Height + 2*t}, // right
	}
	for _, b := range borders {
		world.AddWall(specWall(b, "border", ""))
	}
}

func insideAny(rects []compile.RectSpec, p physics.Vec) bool {
	for _, r := range rects {
		if rectContains(r, p) {
			return true
		}
	}
	return false
}

func currentAt(currents []compile.CurrentSpec, p physics.Vec) (compile.CurrentSpec, bool) {
	for _, c := range currents {
		if rectContains(c.Rect, p) {
			return c, true
		}
	}
	return compile.CurrentSpec{}, false
}

func rectContains(r compile.RectSpec, p physics.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// movingBlock drives a kinematic wall along its axis. The oscillation is a
// pure function of elapsed time, so shots never observe solver state.
type movingBlock struct {
	spec *compile.MovingBlockSpec
	wall *physics.Wall
	base physics.Vec
}

func newMovingBlock(spec *compile.MovingBlockSpec) *movingBlock {
	w := specWall(spec.Rect, "moving", spec.ID)
	return &movingBlock{spec: spec, wall: w, base: w.Pos}
}

func (m *movingBlock) advance(t float64) {
	offset := oscillate(m.spec.Speed*(t+m.spec.Phase), m.spec.Range, m.spec.Mode)
	pos := m.base
	if m.spec.Axis == grid.AxisY {
		pos.Y += offset
	} else {
		pos.X += offset
	}
	m.wall.Pos = pos
}

// oscillate maps travelled distance s onto a block offset within [0, rng].
// Loop wraps; pingpong folds back.
func oscillate(s, rng float64, mode string) float64 {
	if rng <= 0 {
		return 0
	}
	if mode == grid.ModeLoop {
		return math.Mod(s, rng)
	}
	m := math.Mod(s, 2*rng)
	if m < 0 {
		m += 2 * rng
	}
	if m > rng {
		return 2*rng - m
	}
	return m
}
