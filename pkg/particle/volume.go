package particle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/decker502/pfx/pkg/vmath"
)

// Shape selects the geometric region particles spawn in or on.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
	ShapePoint
)

// String returns the shape name used in config errors.
func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapePoint:
		return "point"
	}
	return "unknown"
}

// SpawnVolume describes the region around the emitter from which spawn
// positions are sampled. Params depend on the shape: a box takes three
// half-extents, a sphere takes a radius, a point takes none. When
// SpawnOnSurface is set, box and sphere sample their surface instead of
// their interior; a point ignores the flag.
type SpawnVolume struct {
	Shape          Shape
	Params         []float64
	SpawnOnSurface bool
}

// PointVolume returns the default spawn volume: every particle spawns at
// the emitter origin.
func PointVolume() SpawnVolume {
	return SpawnVolume{Shape: ShapePoint}
}

// Validate checks the shape parameter list. It is called when the volume
// is set on an emitter so a malformed volume can never be sampled
// mid-frame.
func (v SpawnVolume) Validate() error {
	switch v.Shape {
	case ShapeBox:
		if len(v.Params) != 3 {
			return fmt.Errorf("box volume needs 3 half-extents, got %d params", len(v.Params))
		}
		for i, p := range v.Params {
			if p < 0 {
				return fmt.Errorf("box volume half-extent %d is negative: %v", i, p)
			}
		}
	case ShapeSphere:
		if len(v.Params) != 1 {
			return fmt.Errorf("sphere volume needs 1 radius, got %d params", len(v.Params))
		}
		if v.Params[0] < 0 {
			return fmt.Errorf("sphere volume radius is negative: %v", v.Params[0])
		}
	case ShapePoint:
		if len(v.Params) != 0 {
			return fmt.Errorf("point volume takes no params, got %d", len(v.Params))
		}
	default:
		return fmt.Errorf("unknown volume shape %d", v.Shape)
	}
	return nil
}

// Sample returns a uniformly distributed position within (or on the
// surface of) the volume, in emitter-local coordinates. The distribution
// is uniform over the requested region: box faces are picked weighted by
// area, sphere interiors use cube-root radius scaling, sphere surfaces
// use normalized normal deviates.
func (v SpawnVolume) Sample(rng *rand.Rand) vmath.Vector3 {
	switch v.Shape {
	case ShapeBox:
		return sampleBox(rng, v.Params[0], v.Params[1], v.Params[2], v.SpawnOnSurface)
	case ShapeSphere:
		return sampleSphere(rng, v.Params[0], v.SpawnOnSurface)
	default:
		return vmath.Vector3{}
	}
}

func sampleBox(rng *rand.Rand, hx, hy, hz float64, surface bool) vmath.Vector3 {
	if !surface {
		return vmath.Vector3{
			X: randomInRange(rng, -hx, hx),
			Y: randomInRange(rng, -hy, hy),
			Z: randomInRange(rng, -hz, hz),
		}
	}

	// Pick one of the six faces weighted by its area, then a uniform
	// point on that face. sign picks between the +/- face pair.
	ax := hy * hz // area of the x-normal faces (/4)
	ay := hx * hz
	az := hx * hy
	total := ax + ay + az
	sign := 1.0
	if rng.Float64() < 0.5 {
		sign = -1.0
	}
	u := rng.Float64() * total
	switch {
	case total == 0:
		return vmath.Vector3{}
	case u < ax:
		return vmath.Vector3{X: sign * hx, Y: randomInRange(rng, -hy, hy), Z: randomInRange(rng, -hz, hz)}
	case u < ax+ay:
		return vmath.Vector3{X: randomInRange(rng, -hx, hx), Y: sign * hy, Z: randomInRange(rng, -hz, hz)}
	default:
		return vmath.Vector3{X: randomInRange(rng, -hx, hx), Y: randomInRange(rng, -hy, hy), Z: sign * hz}
	}
}

func sampleSphere(rng *rand.Rand, radius float64, surface bool) vmath.Vector3 {
	// Normal deviates normalize to a uniform direction on the unit
	// sphere; retry the (vanishingly rare) zero vector.
	var dir vmath.Vector3
	for {
		dir = vmath.Vector3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if dir.Length() > 0 {
			break
		}
	}
	dir = dir.Normalize()
	if surface {
		return dir.Scale(radius)
	}
	// Volume scales with r^3, so a uniform ball sample needs cbrt.
	return dir.Scale(radius * math.Cbrt(rng.Float64()))
}
