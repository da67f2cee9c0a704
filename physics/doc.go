// Package physics implements the minimal deterministic 2D physics core used
// by the solvability simulator and the interactive renderer.
//
// The physics package implements:
//   - 2D vector math (add, subtract, scale, normalize, dot, reflect, distance)
//   - Circular dynamic bodies with impulses and per-step friction
//   - Axis-aligned rectangular static/kinematic bodies
//   - Circle-vs-rect and circle-vs-circle collision detection and resolution
//   - A World that steps all bodies with a fixed timestep
//
// Design constraints:
//
// There is no rotation, no torque, no continuous collision detection, and no
// broad-phase structure. Integration is semi-implicit Euler; collisions are
// resolved once per step without an iterative solver. The engine is sized for
// short single-ball simulations where only the qualitative outcome matters.
// Given the same inputs every operation is fully deterministic, and none of
// the operations can fail.
package physics
