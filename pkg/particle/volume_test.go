package particle

import (
	"math"
	"math/rand"
	"testing"
)

func TestVolumeValidate(t *testing.T) {
	tests := []struct {
		name    string
		volume  SpawnVolume
		wantErr bool
	}{
		{"point", PointVolume(), false},
		{"point with params", SpawnVolume{Shape: ShapePoint, Params: []float64{1}}, true},
		{"box", SpawnVolume{Shape: ShapeBox, Params: []float64{1, 2, 3}}, false},
		{"box wrong arity", SpawnVolume{Shape: ShapeBox, Params: []float64{1, 2}}, true},
		{"box negative extent", SpawnVolume{Shape: ShapeBox, Params: []float64{1, -2, 3}}, true},
		{"sphere", SpawnVolume{Shape: ShapeSphere, Params: []float64{2}}, false},
		{"sphere wrong arity", SpawnVolume{Shape: ShapeSphere, Params: nil}, true},
		{"sphere negative radius", SpawnVolume{Shape: ShapeSphere, Params: []float64{-1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.volume.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPointVolumeSamplesOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := PointVolume()
	for i := 0; i < 10; i++ {
		if got := v.Sample(rng); got.Length() != 0 {
			t.Fatalf("point volume sampled %v, want origin", got)
		}
	}
}

func TestBoxInteriorSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := SpawnVolume{Shape: ShapeBox, Params: []float64{2, 1, 0.5}}
	inner := 0
	for i := 0; i < 10000; i++ {
		s := v.Sample(rng)
		if math.Abs(s.X) > 2 || math.Abs(s.Y) > 1 || math.Abs(s.Z) > 0.5 {
			t.Fatalf("sample %v outside box", s)
		}
		if math.Abs(s.X) < 1 && math.Abs(s.Y) < 0.5 && math.Abs(s.Z) < 0.25 {
			inner++
		}
	}
	// Uniform interior density: the half-extent core holds 1/8 of the
	// volume, so samples are not piled up at the boundary.
	frac := float64(inner) / 10000
	if frac < 0.09 || frac > 0.16 {
		t.Errorf("inner-core fraction = %v, want ~0.125 (uniform density)", frac)
	}
}

func TestBoxSurfaceSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := SpawnVolume{Shape: ShapeBox, Params: []float64{2, 1, 0.5}, SpawnOnSurface: true}
	const eps = 1e-12
	for i := 0; i < 10000; i++ {
		s := v.Sample(rng)
		onFace := math.Abs(math.Abs(s.X)-2) < eps ||
			math.Abs(math.Abs(s.Y)-1) < eps ||
			math.Abs(math.Abs(s.Z)-0.5) < eps
		if !onFace {
			t.Fatalf("surface sample %v not on any face", s)
		}
	}
}

func TestSphereSurfaceSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := SpawnVolume{Shape: ShapeSphere, Params: []float64{3}, SpawnOnSurface: true}
	for i := 0; i < 10000; i++ {
		s := v.Sample(rng)
		if math.Abs(s.Length()-3) > 1e-9 {
			t.Fatalf("surface sample %v has radius %v, want 3", s, s.Length())
		}
	}
}

func TestSphereInteriorSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := SpawnVolume{Shape: ShapeSphere, Params: []float64{3}}
	inner := 0
	for i := 0; i < 10000; i++ {
		s := v.Sample(rng)
		if s.Length() > 3+1e-9 {
			t.Fatalf("interior sample %v outside radius", s)
		}
		if s.Length() < 3*0.5 {
			inner++
		}
	}
	// Uniform density: the inner half-radius ball holds 1/8 of the volume.
	// With 10k samples the observed fraction should sit near 12.5%.
	frac := float64(inner) / 10000
	if frac < 0.09 || frac > 0.16 {
		t.Errorf("inner-ball fraction = %v, want ~0.125 (uniform density)", frac)
	}
}
