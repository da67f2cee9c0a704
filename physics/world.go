package physics

// Collision describes a detected circle-vs-rect contact.
type Collision struct {
	Normal      Vec
	Penetration float64
}

// DetectCircleRect tests a ball against an axis-aligned rectangle. The normal
// points from the rectangle toward the circle center. When the center lies
// inside the rectangle the closest-point distance degenerates to zero, so the
// contact is resolved along the axis of minimum penetration instead.
func DetectCircleRect(b *Ball, w *Wall) (Collision, bool) {
	closest := w.ClosestPoint(b.Pos)
	delta := b.Pos.Sub(closest)
	dist := delta.Len()

	if dist == 0 {
		// Center inside the rect: pick the smallest one-sided overlap.
		left := b.Pos.X - w.Pos.X
		right := w.Pos.X + w.Width - b.Pos.X
		top := b.Pos.Y - w.Pos.Y
		bottom := w.Pos.Y + w.Height - b.Pos.Y

		normal := Vec{X: -1, Y: 0}
		pen := left
		if right < pen {
			normal, pen = Vec{X: 1, Y: 0}, right
		}
		if top < pen {
			normal, pen = Vec{X: 0, Y: -1}, top
		}
		if bottom < pen {
			normal, pen = Vec{X: 0, Y: 1}, bottom
		}
		return Collision{Normal: normal, Penetration: pen + b.Radius}, true
	}

	if dist >= b.Radius {
		return Collision{}, false
	}
	return Collision{Normal: delta.Scale(1 / dist), Penetration: b.Radius - dist}, true
}

// ResolveCircleRect pushes the ball out of the rectangle along the contact
// normal and reflects its velocity, scaled by the combined restitution.
func ResolveCircleRect(b *Ball, w *Wall, c Collision) {
	b.Pos = b.Pos.Add(c.Normal.Scale(c.Penetration))
	b.Vel = b.Vel.Reflect(c.Normal).Scale(b.Restitution * w.Restitution)
}

// ResolveCircleCircle separates two overlapping balls symmetrically along the
// line between their centers. Static balls do not move.
func ResolveCircleCircle(a, b *Ball) {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Len()
	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return
	}

	var normal Vec
	if dist == 0 {
		normal = Vec{X: 1, Y: 0}
	} else {
		normal = delta.Scale(1 / dist)
	}

	half := normal.Scale(overlap * 0.5)
	if !a.Static {
		a.Pos = a.Pos.Sub(half)
	}
	if !b.Static {
		b.Pos = b.Pos.Add(half)
	}
}

// World holds the bodies of one simulation and steps them together.
type World struct {
	Gravity Vec
	Balls   []*Ball
	Walls   []*Wall
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity Vec) *World {
	return &World{Gravity: gravity}
}

// AddBall adds a ball to the world and returns it.
func (w *World) AddBall(b *Ball) *Ball {
	w.Balls = append(w.Balls, b)
	return b
}

// AddWall adds a rectangle to the world and returns it.
func (w *World) AddWall(r *Wall) *Wall {
	w.Walls = append(w.Walls, r)
	return r
}

// Step advances the world by one fixed timestep: integrate every ball, then
// resolve ball-vs-rect contacts, then ball-vs-ball contacts. Each pair is
// visited once; there is no iterative solver or sub-stepping.
func (w *World) Step(dt float64) {
	for _, b := range w.Balls {
		b.Update(dt, w.Gravity)
	}

	for _, b := range w.Balls {
		if b.Static {
			continue
		}
		for _, r := range w.Walls {
			if c, ok := DetectCircleRect(b, r); ok {
				ResolveCircleRect(b, r, c)
			}
		}
	}

	for i := 0; i < len(w.Balls); i++ {
		for j := i + 1; j < len(w.Balls); j++ {
			ResolveCircleCircle(w.Balls[i], w.Balls[j])
		}
	}
}
