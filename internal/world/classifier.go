package world

import (
	"fmt"
	"math"
	"strings"

	"voxel-terrain/internal/noise"
)

// Classifier decides the voxel occupying a world position. Implementations
// must be pure so chunks can be built in any order and in parallel.
type Classifier interface {
	Classify(x, y, z int) Voxel
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(x, y, z int) Voxel

func (f ClassifierFunc) Classify(x, y, z int) Voxel { return f(x, y, z) }

// ClassifierKind names a classifier variant in configuration.
type ClassifierKind int

const (
	// ClassifierAuto picks Banded for planar and Binary for spherical terrain.
	ClassifierAuto ClassifierKind = iota
	ClassifierBanded
	ClassifierBinary
)

func (k ClassifierKind) String() string {
	switch k {
	case ClassifierAuto:
		return "auto"
	case ClassifierBanded:
		return "banded"
	case ClassifierBinary:
		return "binary"
	default:
		return fmt.Sprintf("classifier(%d)", int(k))
	}
}

func ParseClassifierKind(s string) (ClassifierKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ClassifierAuto, nil
	case "banded", "layered":
		return ClassifierBanded, nil
	case "binary", "solid":
		return ClassifierBinary, nil
	}
	return 0, fmt.Errorf("unknown classifier %q", s)
}

func (k *ClassifierKind) UnmarshalText(text []byte) error {
	v, err := ParseClassifierKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (k ClassifierKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Resolve replaces Auto with the default variant for topology.
func (k ClassifierKind) Resolve(t noise.Topology) ClassifierKind {
	if k != ClassifierAuto {
		return k
	}
	if t == noise.Spherical {
		return ClassifierBinary
	}
	return ClassifierBanded
}

const (
	solidThreshold = 0.5

	caveOre      = 1.88
	caveGradient = 0.875

	carveOre       = 1.85
	dirtPocketLow  = 1.6
	dirtPocketHigh = 1.8
	oreLow         = 1.5
	oreHigh        = 1.848

	// DefaultDirtThickness is the depth of the dirt band under the grass layer.
	DefaultDirtThickness = 10
)

// NewClassifier builds the classifier variant kind over f.
func NewClassifier(kind ClassifierKind, f *noise.Fields, enc Encoding, dirtThickness int) Classifier {
	switch kind.Resolve(f.Params.Topology) {
	case ClassifierBinary:
		return &BinaryClassifier{Fields: f, Encoding: enc}
	default:
		return &BandedClassifier{Fields: f, Encoding: enc, DirtThickness: dirtThickness}
	}
}

// density converts a primary field value to the encoding's density scale.
func density(n float64, enc Encoding) uint8 {
	if n < 0 {
		n = 0
	} else if n > 1 {
		n = 1
	}
	return uint8(math.Floor(n * float64(enc.MaxDensity())))
}

// BinaryClassifier emits Stone wherever the primary field is solid.
type BinaryClassifier struct {
	Fields   *noise.Fields
	Encoding Encoding
}

func (c *BinaryClassifier) Classify(x, y, z int) Voxel {
	n := c.Fields.Primary.Eval(float64(x), float64(y), float64(z))
	if n <= solidThreshold {
		return Air
	}
	return Voxel{Density: density(n, c.Encoding), Material: MaterialStone}
}

// BandedClassifier layers grass, dirt, stone and ore below the surface and
// carves caves where the ore field peaks.
type BandedClassifier struct {
	Fields        *noise.Fields
	Encoding      Encoding
	DirtThickness int
}

func (c *BandedClassifier) Classify(x, y, z int) Voxel {
	fx, fy, fz := float64(x), float64(y), float64(z)

	n := c.Fields.Primary.Eval(fx, fy, fz)
	if n <= solidThreshold {
		return Air
	}

	o := c.Fields.Ore.Eval(fx, fy, fz)
	g := c.Fields.OreGradient.Eval(fx, fy, fz)
	if o > caveOre && g > caveGradient {
		return Air
	}

	grassZ := int(math.Floor(c.Fields.GrassHeight.Eval(fx, fy, fz)))
	m := bandMaterial(z, grassZ, o, c.DirtThickness)
	if m == MaterialAir {
		return Air
	}
	return Voxel{Density: density(n, c.Encoding), Material: m}
}

// bandMaterial picks the material for a solid voxel at height z given the
// column's grass height and the ore field value o. Air means carved.
func bandMaterial(z, grassZ int, o float64, thickness int) Material {
	dirtZ := grassZ - 1
	switch {
	case z >= grassZ:
		return MaterialGrass
	case z <= dirtZ && z > dirtZ-thickness:
		return MaterialDirt
	case o > carveOre:
		return MaterialAir
	case o > dirtPocketLow && o < dirtPocketHigh:
		return MaterialDirt
	case o < oreLow || o > oreHigh:
		return MaterialOre
	default:
		return MaterialStone
	}
}
