package noise

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis selects the single-octave noise function fractals are built from.
type Basis int

const (
	BasisSimplex Basis = iota
	BasisPerlin
	BasisValue
)

func (b Basis) String() string {
	switch b {
	case BasisSimplex:
		return "simplex"
	case BasisPerlin:
		return "perlin"
	case BasisValue:
		return "value"
	default:
		return fmt.Sprintf("basis(%d)", int(b))
	}
}

// ParseBasis accepts the names produced by String.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simplex":
		return BasisSimplex, nil
	case "perlin", "gradient":
		return BasisPerlin, nil
	case "value":
		return BasisValue, nil
	}
	return 0, fmt.Errorf("unknown noise basis %q", s)
}

func (b *Basis) UnmarshalText(text []byte) error {
	v, err := ParseBasis(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b Basis) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// NewBasis returns a seeded single-octave noise source with output roughly in [-1,1].
func NewBasis(kind Basis, seed int64) Node {
	switch kind {
	case BasisPerlin:
		// n=1 disables go-perlin's internal octave loop; fractals do their own.
		return perlinBasis{p: perlin.NewPerlin(2, 2, 1, seed)}
	case BasisValue:
		return valueBasis{seed: seed}
	default:
		return simplexBasis{n: opensimplex.New(seed)}
	}
}

type simplexBasis struct {
	n opensimplex.Noise
}

func (b simplexBasis) Eval(x, y, z float64) float64 {
	return b.n.Eval3(x, y, z)
}

type perlinBasis struct {
	p *perlin.Perlin
}

func (b perlinBasis) Eval(x, y, z float64) float64 {
	return b.p.Noise3D(x, y, z)
}

type valueBasis struct {
	seed int64
}

func (b valueBasis) Eval(x, y, z float64) float64 {
	return valueNoise3D(x, y, z, b.seed)*2 - 1
}
