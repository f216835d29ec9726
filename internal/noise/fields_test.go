package noise

import (
	"math"
	"sync"
	"testing"
)

func flatParams() Params {
	// Scale 0 removes the heightmap so the surface sits exactly at Height/2.
	return Params{Seed: 123, Octaves: 3, Frequency: 0.01, Scale: 0, Height: 64}
}

func TestPlanarGroundPlane(t *testing.T) {
	f, err := Build(flatParams())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if v := f.Primary.Eval(5, 5, 31); v != 1 {
		t.Errorf("z=31 should be solid, got %f", v)
	}
	if v := f.Primary.Eval(5, 5, 32); v != 0 {
		t.Errorf("z=32 should be air, got %f", v)
	}
	if v := f.GrassHeight.Eval(5, 5, 0); v != 32 {
		t.Errorf("grass height = %f, want 32", v)
	}
	if v := f.VerticalGradient.Eval(0, 0, 0); v != 1 {
		t.Errorf("gradient at z=0 = %f, want 1", v)
	}
	if v := f.VerticalGradient.Eval(0, 0, 64); v != 0 {
		t.Errorf("gradient at z=height = %f, want 0", v)
	}
	if v := f.VerticalGradient.Eval(0, 0, 16); v != 0.75 {
		t.Errorf("gradient at z=16 = %f, want 0.75", v)
	}
}

func TestPlanarHeightmapIgnoresZ(t *testing.T) {
	p := flatParams()
	p.Scale = 32
	f, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for z := -10; z < 80; z += 7 {
		if f.GrassHeight.Eval(11, -4, float64(z)) != f.GrassHeight.Eval(11, -4, 0) {
			t.Fatalf("grass height should not depend on z")
		}
	}
}

func TestPlanarSolidMatchesGrassHeight(t *testing.T) {
	p := flatParams()
	p.Scale = 32
	f, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for x := -20; x <= 20; x += 4 {
		surface := f.GrassHeight.Eval(float64(x), 3, 0)
		below := math.Ceil(surface) - 1
		above := math.Ceil(surface) + 1
		if f.Primary.Eval(float64(x), 3, below) <= 0.5 {
			t.Errorf("x=%d: z=%f below surface %f should be solid", x, below, surface)
		}
		if f.Primary.Eval(float64(x), 3, above) > 0.5 {
			t.Errorf("x=%d: z=%f above surface %f should be air", x, above, surface)
		}
	}
}

func TestSphericalBall(t *testing.T) {
	p := flatParams()
	p.Topology = Spherical
	f, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v := f.Primary.Eval(10, 0, 0); v != 1 {
		t.Errorf("distance 10 should be solid, got %f", v)
	}
	if v := f.Primary.Eval(0, 40, 0); v != 0 {
		t.Errorf("distance 40 should be air, got %f", v)
	}
	if v := f.Primary.Eval(0, 0, -32); v != 1 {
		t.Errorf("distance 32 is on the shell and should be solid, got %f", v)
	}
}

func TestBuildDeterministic(t *testing.T) {
	p := Params{Seed: 42, Octaves: 4, Frequency: 0.02, Scale: 16, Height: 64}
	a, _ := Build(p)
	b, _ := Build(p)
	for i := 0; i < 50; i++ {
		x, y, z := float64(i*3-70), float64(i*5-100), float64(i)
		if a.Primary.Eval(x, y, z) != b.Primary.Eval(x, y, z) {
			t.Fatalf("primary differs at (%f,%f,%f)", x, y, z)
		}
		if a.Ore.Eval(x, y, z) != b.Ore.Eval(x, y, z) {
			t.Fatalf("ore differs at (%f,%f,%f)", x, y, z)
		}
	}
}

func TestBuildRejectsBadParams(t *testing.T) {
	if _, err := Build(Params{Octaves: 0, Height: 64}); err != ErrOctaves {
		t.Errorf("got %v, want ErrOctaves", err)
	}
	if _, err := Build(Params{Octaves: 1, Height: 0}); err != ErrHeight {
		t.Errorf("got %v, want ErrHeight", err)
	}
}

func TestZeroFrequencyDegradesGracefully(t *testing.T) {
	p := flatParams()
	p.Frequency = 0
	p.Scale = 32
	f, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v := f.Primary.Eval(100, 100, 10)
	if math.IsNaN(v) {
		t.Errorf("zero frequency produced NaN")
	}
}

func TestCacheReusesFields(t *testing.T) {
	c := NewCache()
	p := flatParams()

	var wg sync.WaitGroup
	results := make([]*Fields, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := c.Get(p)
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = f
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("cache returned distinct Fields for identical params")
		}
	}
	p.Seed++
	if _, err := c.Get(p); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("cache len = %d, want 2", c.Len())
	}
}

func TestParseTopology(t *testing.T) {
	if v, err := ParseTopology("sphere"); err != nil || v != Spherical {
		t.Errorf("got %v, %v", v, err)
	}
	if _, err := ParseTopology("torus"); err == nil {
		t.Errorf("expected error")
	}
}
