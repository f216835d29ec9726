package noise

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Topology is the macro shape of generated terrain.
type Topology int

const (
	// Planar terrain is a heightmap-perturbed ground plane.
	Planar Topology = iota
	// Spherical terrain is a domain-perturbed solid ball of radius Height/2.
	Spherical
)

func (t Topology) String() string {
	switch t {
	case Planar:
		return "planar"
	case Spherical:
		return "spherical"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "planar", "flat", "heightmap":
		return Planar, nil
	case "spherical", "sphere", "shell":
		return Spherical, nil
	}
	return 0, fmt.Errorf("unknown topology %q", s)
}

func (t *Topology) UnmarshalText(text []byte) error {
	v, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t Topology) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

const (
	// oreFrequencyFactor scales the primary frequency for the ore field.
	oreFrequencyFactor = 1.2
	oreOctaves         = 2
	oreSeedOffset      = 1
	gradientBias       = 1.015
)

// Params fully determines a set of Fields. It is comparable and used as the
// cache key.
type Params struct {
	Seed      int64
	Octaves   int
	Frequency float64
	Scale     float64
	Offset    float64
	Height    float64
	Topology  Topology
	Basis     Basis
}

var (
	ErrOctaves = errors.New("noise: octaves must be at least 1")
	ErrHeight  = errors.New("noise: height must be positive")
)

func (p Params) Validate() error {
	if p.Octaves < 1 {
		return ErrOctaves
	}
	if p.Height <= 0 {
		return ErrHeight
	}
	return nil
}

// Fields is the immutable set of scalar functions the classifiers read.
type Fields struct {
	Params Params

	// Primary is terrain occupancy; > 0.5 means solid, 1.0 fully solid.
	Primary Node
	// GrassHeight is the world Z of the surface layer for the column.
	GrassHeight Node
	// Ore is a 2-octave ridged multifractal in [0,2].
	Ore Node
	// OreGradient is Ore weighted by the biased vertical gradient.
	OreGradient Node
	// VerticalGradient is 1 at z=0 falling linearly to 0 at z=Height.
	VerticalGradient Node
}

// Build constructs the evaluation graph for p.
func Build(p Params) (*Fields, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	zero := Constant(0)
	one := Constant(1)
	height := Constant(p.Height)
	half := Constant(p.Height / 2)

	gradient := Divide(Clamp(Subtract(height, AxisZ), zero, height), height)
	terrain := NewFractal(FBM, p.Basis, p.Octaves, p.Frequency, p.Seed)
	perturb := ScaleOffset(terrain, p.Scale, p.Offset)

	f := &Fields{
		Params:           p,
		VerticalGradient: gradient,
	}

	switch p.Topology {
	case Spherical:
		ball := Select(one, zero, Radial{}, half, 0)
		f.Primary = TranslateDomain(ball, perturb, perturb, perturb)
		f.GrassHeight = half
	default:
		ground := Select(zero, one, gradient, Constant(0.5), 0)
		heightmap := ScaleDomain(perturb, 1, 1, 0)
		f.Primary = TranslateZ(ground, heightmap)
		f.GrassHeight = Subtract(half, heightmap)
	}

	ore := NewFractal(RidgedMulti, p.Basis, oreOctaves, p.Frequency*oreFrequencyFactor, p.Seed+oreSeedOffset)
	f.Ore = ore
	f.OreGradient = Multiply(ore, Bias(gradient, gradientBias))

	return f, nil
}

// Cache memoises Fields by Params so graph construction stays out of the
// per-chunk path. Safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	fields map[Params]*Fields
}

func NewCache() *Cache {
	return &Cache{fields: make(map[Params]*Fields)}
}

// Get returns the cached Fields for p, building them on first use.
func (c *Cache) Get(p Params) (*Fields, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fields[p]; ok {
		return f, nil
	}
	f, err := Build(p)
	if err != nil {
		return nil, err
	}
	c.fields[p] = f
	return f, nil
}

// Len reports how many distinct parameter sets are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fields)
}
