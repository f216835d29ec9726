package world

import (
	"testing"

	"voxel-terrain/internal/noise"
)

// constantFields evaluates every field to a fixed value.
func constantFields(primary, grass, ore, oreGradient float64) *noise.Fields {
	return &noise.Fields{
		Params:           noise.Params{Octaves: 1, Height: 64, Topology: noise.Planar},
		Primary:          noise.Constant(primary),
		GrassHeight:      noise.Constant(grass),
		Ore:              noise.Constant(ore),
		OreGradient:      noise.Constant(oreGradient),
		VerticalGradient: noise.Constant(0.5),
	}
}

func TestBandMaterialBoundaries(t *testing.T) {
	const grassZ, thickness = 50, 10
	// ore value 1.7 sits in the dirt pocket range; 1.7 is used where the
	// band itself decides and the ore value must not matter.
	cases := []struct {
		name string
		z    int
		o    float64
		want Material
	}{
		{"above grass", 55, 1.7, MaterialGrass},
		{"grass boundary", 50, 1.0, MaterialGrass},
		{"dirt top", 49, 1.0, MaterialDirt},
		{"dirt mid", 45, 1.0, MaterialDirt},
		{"dirt bottom", 40, 1.0, MaterialDirt},
		{"below dirt ore low", 39, 1.0, MaterialOre},
		{"stone", 10, 1.55, MaterialStone},
		{"ore below 1.5", 10, 1.49, MaterialOre},
		{"stone at 1.5", 10, 1.5, MaterialStone},
		{"stone at 1.6", 10, 1.6, MaterialStone},
		{"dirt pocket", 10, 1.7, MaterialDirt},
		{"stone at 1.8", 10, 1.8, MaterialStone},
		{"stone at 1.848", 10, 1.848, MaterialStone},
		{"ore above 1.848", 10, 1.849, MaterialOre},
		{"ore at 1.85", 10, 1.85, MaterialOre},
		{"carved above 1.85", 10, 1.851, MaterialAir},
	}
	for _, c := range cases {
		if got := bandMaterial(c.z, grassZ, c.o, thickness); got != c.want {
			t.Errorf("%s: bandMaterial(z=%d, o=%v) = %v, want %v", c.name, c.z, c.o, got, c.want)
		}
	}
}

func TestBandedClassifierCaveCarve(t *testing.T) {
	c := &BandedClassifier{Fields: constantFields(1, 50, 1.9, 0.9), Encoding: Fine, DirtThickness: 10}
	for z := 0; z < 64; z += 7 {
		if v := c.Classify(0, 0, z); v != Air {
			t.Fatalf("z=%d: carved voxel = %+v, want air", z, v)
		}
	}

	// Either half of the cave condition alone does not carve above the dirt band.
	c.Fields = constantFields(1, 50, 1.9, 0.8)
	if v := c.Classify(0, 0, 55); v.Material != MaterialGrass || v.Density != 255 {
		t.Errorf("uncarved grass = %+v", v)
	}
}

func TestBandedClassifierDensity(t *testing.T) {
	c := &BandedClassifier{Fields: constantFields(0.75, 50, 1.55, 0), Encoding: Coarse, DirtThickness: 10}
	v := c.Classify(3, 4, 10)
	if v.Material != MaterialStone {
		t.Fatalf("material %v", v.Material)
	}
	if v.Density != 11 {
		t.Errorf("density = %d, want floor(0.75*15)=11", v.Density)
	}

	c.Fields = constantFields(0.5, 50, 1.55, 0)
	if v := c.Classify(0, 0, 0); v != Air {
		t.Errorf("n=0.5 must be air, got %+v", v)
	}

	c.Fields = constantFields(3, 50, 1.55, 0)
	if v := c.Classify(0, 0, 0); v.Density != 15 {
		t.Errorf("density must clamp to max, got %d", v.Density)
	}
}

// Carving only ever removes material the binary rule would keep.
func TestCarvingNeverAddsSolid(t *testing.T) {
	f, err := noise.Build(noise.Params{Seed: 7, Octaves: 3, Frequency: 0.05, Scale: 6, Height: 48})
	if err != nil {
		t.Fatal(err)
	}
	banded := NewClassifier(ClassifierBanded, f, Fine, DefaultDirtThickness)
	binary := NewClassifier(ClassifierBinary, f, Fine, DefaultDirtThickness)
	for x := -8; x < 8; x++ {
		for z := 0; z < 48; z++ {
			b := banded.Classify(x, 3, z)
			if b.Solid() && !binary.Classify(x, 3, z).Solid() {
				t.Fatalf("(%d,3,%d) solid in banded but air in binary", x, z)
			}
			if !b.Solid() && b != Air {
				t.Fatalf("(%d,3,%d) non-solid voxel carries material %v", x, z, b.Material)
			}
		}
	}
}

func TestSphericalContainment(t *testing.T) {
	f, err := noise.Build(noise.Params{Seed: 1, Octaves: 2, Frequency: 0.1, Scale: 0, Height: 64, Topology: noise.Spherical})
	if err != nil {
		t.Fatal(err)
	}
	c := NewClassifier(ClassifierAuto, f, Coarse, DefaultDirtThickness)
	if _, ok := c.(*BinaryClassifier); !ok {
		t.Fatalf("spherical default classifier is %T", c)
	}
	if v := c.Classify(10, 0, 0); v.Material != MaterialStone || v.Density != 15 {
		t.Errorf("r=10: %+v, want stone at full density", v)
	}
	if v := c.Classify(0, 40, 0); v != Air {
		t.Errorf("r=40: %+v, want air", v)
	}
	if v := c.Classify(0, 0, -31); !v.Solid() {
		t.Errorf("r=31 below origin should be solid")
	}
}

func TestClassifierDeterminism(t *testing.T) {
	p := noise.Params{Seed: 99, Octaves: 4, Frequency: 0.02, Scale: 10, Height: 64}
	f1, _ := noise.Build(p)
	f2, _ := noise.Build(p)
	a := NewClassifier(ClassifierAuto, f1, Fine, DefaultDirtThickness)
	b := NewClassifier(ClassifierAuto, f2, Fine, DefaultDirtThickness)
	for i := 0; i < 500; i++ {
		x, y, z := i*7-1000, i*3, i%64
		if a.Classify(x, y, z) != b.Classify(x, y, z) {
			t.Fatalf("classify(%d,%d,%d) differs between identical graphs", x, y, z)
		}
		if a.Classify(x, y, z) != a.Classify(x, y, z) {
			t.Fatalf("classify(%d,%d,%d) not repeatable", x, y, z)
		}
	}
}

func TestParseClassifierKind(t *testing.T) {
	var k ClassifierKind
	if err := k.UnmarshalText([]byte("binary")); err != nil || k != ClassifierBinary {
		t.Fatalf("binary: %v %v", k, err)
	}
	if ClassifierAuto.Resolve(noise.Planar) != ClassifierBanded {
		t.Error("planar should default to banded")
	}
	if ClassifierBanded.Resolve(noise.Spherical) != ClassifierBanded {
		t.Error("explicit kind must not be overridden")
	}
	if _, err := ParseClassifierKind("marble"); err == nil {
		t.Error("expected error")
	}
}
