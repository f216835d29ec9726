package noise

import (
	"math"
)

// FractalKind is the octave-combination rule of a Fractal.
type FractalKind int

const (
	// FBM sums octaves with halving amplitude, normalised to [-1,1].
	FBM FractalKind = iota
	// RidgedMulti is Musgrave's ridged multifractal (offset 1, gain 2), in [0, octaves].
	RidgedMulti
	// Billow sums folded octaves |n|*2-1, normalised to [-1,1].
	Billow
)

const (
	lacunarity  = 2.0
	persistence = 0.5
	ridgeOffset = 1.0
	ridgeGain   = 2.0
)

// Fractal layers several seeded basis instances at increasing frequency.
type Fractal struct {
	Kind      FractalKind
	Frequency float64
	octaves   []Node
}

// NewFractal builds a fractal over basis. Octave i is seeded seed+i*131 so no
// two octaves share a lattice. Octaves below one are raised to one.
func NewFractal(kind FractalKind, basis Basis, octaves int, frequency float64, seed int64) *Fractal {
	if octaves < 1 {
		octaves = 1
	}
	f := &Fractal{
		Kind:      kind,
		Frequency: frequency,
		octaves:   make([]Node, octaves),
	}
	for i := range f.octaves {
		f.octaves[i] = NewBasis(basis, seed+int64(i*131))
	}
	return f
}

// Octaves reports how many octaves are summed.
func (f *Fractal) Octaves() int {
	return len(f.octaves)
}

func (f *Fractal) Eval(x, y, z float64) float64 {
	x *= f.Frequency
	y *= f.Frequency
	z *= f.Frequency

	switch f.Kind {
	case RidgedMulti:
		return f.ridged(x, y, z)
	case Billow:
		return f.sum(x, y, z, func(v float64) float64 { return math.Abs(v)*2 - 1 })
	default:
		return f.sum(x, y, z, nil)
	}
}

func (f *Fractal) sum(x, y, z float64, shape func(float64) float64) float64 {
	amplitude := 1.0
	scale := 1.0
	total := 0.0
	norm := 0.0
	for _, o := range f.octaves {
		v := o.Eval(x*scale, y*scale, z*scale)
		if shape != nil {
			v = shape(v)
		}
		total += v * amplitude
		norm += amplitude
		amplitude *= persistence
		scale *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

func (f *Fractal) ridged(x, y, z float64) float64 {
	total := 0.0
	weight := 1.0
	scale := 1.0
	for _, o := range f.octaves {
		signal := ridgeOffset - math.Abs(o.Eval(x*scale, y*scale, z*scale))
		signal *= signal
		signal *= weight
		weight = clamp(signal*ridgeGain, 0, 1)
		total += signal
		scale *= lacunarity
	}
	return total
}
