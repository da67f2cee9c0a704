package physics

import (
	"math"
	"testing"
)

func TestBallAtRestStaysAtRest(t *testing.T) {
	w := NewWorld(Vec{})
	b := NewBall(NewVec(50, 50), 5)
	b.Friction = 1 // frictionless
	w.AddBall(b)

	for i := 0; i < 500; i++ {
		w.Step(1.0 / 60.0)
	}

	if b.Pos.X != 50 || b.Pos.Y != 50 {
		t.Errorf("ball with zero impulse moved to (%v,%v)", b.Pos.X, b.Pos.Y)
	}
	if b.Vel.X != 0 || b.Vel.Y != 0 {
		t.Errorf("ball with zero impulse gained velocity (%v,%v)", b.Vel.X, b.Vel.Y)
	}
}

func TestApplyImpulse(t *testing.T) {
	b := NewBall(NewVec(0, 0), 5)
	b.Mass = 2
	b.ApplyImpulse(NewVec(10, 0))
	if b.Vel.X != 5 || b.Vel.Y != 0 {
		t.Errorf("expected velocity (5,0), got (%v,%v)", b.Vel.X, b.Vel.Y)
	}

	s := NewBall(NewVec(0, 0), 5)
	s.Static = true
	s.ApplyImpulse(NewVec(10, 0))
	if s.Vel.X != 0 {
		t.Error("static ball should ignore impulses")
	}
}

func TestElasticHeadOnBounce(t *testing.T) {
	w := NewWorld(Vec{})
	b := NewBall(NewVec(0, 50), 5)
	b.Friction = 1
	b.Restitution = 1
	b.Vel = NewVec(120, 0)
	w.AddBall(b)

	wall := NewWall(NewVec(100, 0), 20, 100)
	wall.Restitution = 1
	w.AddWall(wall)

	dt := 1.0 / 60.0
	hit := false
	for i := 0; i < 240; i++ {
		w.Step(dt)
		if b.Vel.X < 0 {
			hit = true
			break
		}
	}
	if !hit {
		t.Fatal("ball never bounced off the wall")
	}

	if !almostEqual(b.Vel.X, -120) {
		t.Errorf("elastic bounce should reverse the normal velocity component, got %v", b.Vel.X)
	}
	if !almostEqual(b.Vel.Y, 0) {
		t.Errorf("tangential component should be unchanged, got %v", b.Vel.Y)
	}

	// The resolved position must not still overlap the wall.
	closest := wall.ClosestPoint(b.Pos)
	if b.Pos.Dist(closest) < b.Radius-1e-9 {
		t.Errorf("ball still overlaps wall after resolution: dist %v, radius %v",
			b.Pos.Dist(closest), b.Radius)
	}
}

func TestDetectCircleRectCenterInside(t *testing.T) {
	b := NewBall(NewVec(12, 50), 5)
	wall := NewWall(NewVec(10, 0), 40, 100)

	c, ok := DetectCircleRect(b, wall)
	if !ok {
		t.Fatal("expected a collision for a center inside the rect")
	}
	// Nearest face is the left one, two units away.
	if c.Normal.X != -1 || c.Normal.Y != 0 {
		t.Errorf("expected left-facing normal, got (%v,%v)", c.Normal.X, c.Normal.Y)
	}
	if !almostEqual(c.Penetration, 2+b.Radius) {
		t.Errorf("expected penetration %v, got %v", 2+b.Radius, c.Penetration)
	}
}

func TestDetectCircleRectMiss(t *testing.T) {
	b := NewBall(NewVec(0, 0), 5)
	wall := NewWall(NewVec(10, 10), 20, 20)
	if _, ok := DetectCircleRect(b, wall); ok {
		t.Error("expected no collision")
	}
}

func TestResolveCircleCircle(t *testing.T) {
	a := NewBall(NewVec(0, 0), 5)
	b := NewBall(NewVec(6, 0), 5)

	ResolveCircleCircle(a, b)

	dist := a.Pos.Dist(b.Pos)
	if math.Abs(dist-10) > 1e-9 {
		t.Errorf("expected separation of 10, got %v", dist)
	}
	// Both moved symmetrically.
	if !almostEqual(a.Pos.X, -2) || !almostEqual(b.Pos.X, 8) {
		t.Errorf("expected symmetric separation, got a=%v b=%v", a.Pos.X, b.Pos.X)
	}
}

func TestResolveCircleCircleStatic(t *testing.T) {
	a := NewBall(NewVec(0, 0), 5)
	a.Static = true
	b := NewBall(NewVec(6, 0), 5)

	ResolveCircleCircle(a, b)

	if a.Pos.X != 0 {
		t.Error("static ball must not move")
	}
	if b.Pos.X != 8 {
		t.Errorf("dynamic ball should absorb half the overlap, got %v", b.Pos.X)
	}
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(NewVec(0, 100))
	b := NewBall(NewVec(0, 0), 5)
	b.Friction = 1
	w.AddBall(b)

	w.Step(1.0 / 60.0)

	if b.Vel.Y <= 0 {
		t.Error("gravity should accelerate the ball downward")
	}
	if b.PrevPos.Y != 0 {
		t.Error("PrevPos should hold the pre-step position")
	}
	if b.Pos.Y <= 0 {
		t.Error("ball should have moved with its velocity")
	}
}
