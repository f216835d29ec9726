package meshing

import (
	"fmt"
	"strings"

	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Sampler reads voxels by world coordinates. world.Store satisfies it.
type Sampler interface {
	Voxel(x, y, z int) world.Voxel
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func(x, y, z int) world.Voxel

func (f SamplerFunc) Voxel(x, y, z int) world.Voxel { return f(x, y, z) }

// RawVertex is one extractor output vertex. Position is relative to the
// extracted region's lower corner, with voxel centres on integer positions.
type RawVertex struct {
	Position mgl32.Vec3
	Material world.Material
	Density  uint8
}

// RawMesh is an indexed triangle list. Triangles wind counter-clockwise when
// seen from the empty side of the surface.
type RawMesh struct {
	Vertices []RawVertex
	Indices  []uint32
}

func (m *RawMesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Extractor turns the voxels of a region into a triangle mesh.
type Extractor interface {
	Extract(s Sampler, r world.Region) *RawMesh
	Mode() Mode
}

// Mode selects the surface extraction algorithm.
type Mode int

const (
	// Blocky emits cube faces between solid and empty voxels.
	Blocky Mode = iota
	// Smooth emits a surface-nets iso-surface over normalised density.
	Smooth
)

func (m Mode) String() string {
	switch m {
	case Blocky:
		return "blocky"
	case Smooth:
		return "smooth"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blocky", "cubic":
		return Blocky, nil
	case "smooth", "marching", "surfacenets":
		return Smooth, nil
	}
	return 0, fmt.Errorf("unknown extractor %q", s)
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// NewExtractor returns the extractor for mode. enc fixes the density scale
// the smooth extractor normalises against.
func NewExtractor(mode Mode, enc world.Encoding) Extractor {
	if mode == Smooth {
		return &SmoothExtractor{MaxDensity: enc.MaxDensity()}
	}
	return &BlockyExtractor{}
}

// grid is a padded copy of a region's voxels: one extra layer on every side
// so neighbours across the region border can be inspected.
type grid struct {
	lower      world.Vec3i // world position of cell (0,0,0), region.Lower-1
	sx, sy, sz int
	cells      []world.Voxel
}

func sampleGrid(s Sampler, r world.Region) *grid {
	size := r.Size()
	g := &grid{
		lower: r.Lower.Sub(world.Vec3i{X: 1, Y: 1, Z: 1}),
		sx:    size.X + 2,
		sy:    size.Y + 2,
		sz:    size.Z + 2,
	}
	g.cells = make([]world.Voxel, g.sx*g.sy*g.sz)
	for x := 0; x < g.sx; x++ {
		for y := 0; y < g.sy; y++ {
			for z := 0; z < g.sz; z++ {
				g.cells[g.index(x, y, z)] = s.Voxel(g.lower.X+x, g.lower.Y+y, g.lower.Z+z)
			}
		}
	}
	return g
}

func (g *grid) index(x, y, z int) int {
	return (x*g.sy+y)*g.sz + z
}

// at reads grid-local coordinates, where 1 is the region's lower edge.
func (g *grid) at(p [3]int) world.Voxel {
	return g.cells[g.index(p[0], p[1], p[2])]
}

func (g *grid) dim(axis int) int {
	switch axis {
	case 0:
		return g.sx
	case 1:
		return g.sy
	default:
		return g.sz
	}
}
