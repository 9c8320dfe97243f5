// Package vmath provides the small amount of 3D vector math the particle
// engine needs. All values are float64; the package has no dependency on
// any rendering backend so the simulation core stays renderer-agnostic.
package vmath

import "math"

// Vector3 is a 3D vector. It doubles as an RGB color triple (normalized
// [0,1] channels) and as a per-axis scale factor where the engine animates
// those properties.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the Euclidean magnitude of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector normalizes
// to the zero vector.
func (v Vector3) Normalize() Vector3 {
	mag := v.Length()
	if mag == 0 {
		return Vector3{}
	}
	// One division, three multiplies.
	inv := 1.0 / mag
	return Vector3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Distance returns the Euclidean distance between v and o.
func (v Vector3) Distance(o Vector3) float64 {
	return v.Sub(o).Length()
}

// Lerp linearly interpolates between a and b component-wise.
// t=0 yields a, t=1 yields b; t is not clamped.
func Lerp(a, b Vector3, t float64) Vector3 {
	return Vector3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Clamp01 clamps every component of v to [0,1]. Used for color channels
// and opacity after interpolation.
func Clamp01(v Vector3) Vector3 {
	return Vector3{clamp01(v.X), clamp01(v.Y), clamp01(v.Z)}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
