package physics

// Ball is a circular dynamic body. PrevPos holds the position from the start
// of the last Update call so a renderer can interpolate between steps; the
// integrator itself never reads it.
type Ball struct {
	Pos         Vec
	PrevPos     Vec
	Vel         Vec
	Radius      float64
	Friction    float64 // multiplicative velocity retention per step
	Restitution float64
	Mass        float64
	Static      bool
}

// NewBall creates a dynamic ball with unit mass and default friction and
// restitution suited to a putting surface.
func NewBall(pos Vec, radius float64) *Ball {
	return &Ball{
		Pos:         pos,
		PrevPos:     pos,
		Radius:      radius,
		Friction:    0.985,
		Restitution: 0.8,
		Mass:        1,
	}
}

// ApplyImpulse adds an instantaneous impulse to the ball's velocity.
func (b *Ball) ApplyImpulse(imp Vec) {
	if b.Static || b.Mass == 0 {
		return
	}
	b.Vel = b.Vel.Add(imp.Scale(1 / b.Mass))
}

// Update integrates the ball one fixed step: gravity, friction, then
// position (semi-implicit Euler).
func (b *Ball) Update(dt float64, gravity Vec) {
	if b.Static {
		return
	}
	b.PrevPos = b.Pos
	b.Vel = b.Vel.Add(gravity.Scale(dt))
	b.Vel = b.Vel.Scale(b.Friction)
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// Wall is an axis-aligned rectangular body. Pos is the top-left corner.
// Kind and ID distinguish ordinary walls from tagged hazards such as moving
// blocks; the engine itself does not interpret them.
type Wall struct {
	Pos         Vec
	Width       float64
	Height      float64
	Restitution float64
	Kind        string
	ID          string
}

// NewWall creates a static rectangle with the given top-left corner and size.
func NewWall(pos Vec, width, height float64) *Wall {
	return &Wall{
		Pos:         pos,
		Width:       width,
		Height:      height,
		Restitution: 1,
	}
}

// ClosestPoint returns the point on the rectangle closest to p.
func (w *Wall) ClosestPoint(p Vec) Vec {
	return Vec{
		X: clamp(p.X, w.Pos.X, w.Pos.X+w.Width),
		Y: clamp(p.Y, w.Pos.Y, w.Pos.Y+w.Height),
	}
}

// Contains reports whether p lies inside the rectangle (closed bounds).
func (w *Wall) Contains(p Vec) bool {
	return p.X >= w.Pos.X && p.X <= w.Pos.X+w.Width &&
		p.Y >= w.Pos.Y && p.Y <= w.Pos.Y+w.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
