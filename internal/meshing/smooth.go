package meshing

import (
	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// isoLevel is the normalised density at which the smooth surface lies.
const isoLevel = 0.5

// cubeEdges lists corner pairs of a unit cell; corner bit 0 is +x, bit 1
// +y, bit 2 +z.
var cubeEdges = func() [12][2]int {
	var edges [12][2]int
	n := 0
	for a := 0; a < 8; a++ {
		for bit := 0; bit < 3; bit++ {
			if a&(1<<bit) == 0 {
				edges[n] = [2]int{a, a | 1<<bit}
				n++
			}
		}
	}
	return edges
}()

// SmoothExtractor places one vertex per surface-crossing cell at the mean of
// its interpolated edge crossings (surface nets) and joins the vertices of
// the four cells around every crossing edge into a quad.
type SmoothExtractor struct {
	MaxDensity uint8
}

func (*SmoothExtractor) Mode() Mode { return Smooth }

func (e *SmoothExtractor) Extract(s Sampler, r world.Region) *RawMesh {
	defer profiling.Track("meshing.extractSmooth")()
	m := &RawMesh{}
	if !r.Valid() {
		return m
	}
	g := sampleGrid(s, r)
	maxD := float32(e.MaxDensity)
	if maxD == 0 {
		maxD = 255
	}
	level := func(p [3]int) float32 {
		return float32(g.at(p).Density) / maxD
	}

	// Cells are addressed by their minimum grid corner, 0..dim-2 per axis.
	cx, cy, cz := g.sx-1, g.sy-1, g.sz-1
	cellIndex := func(p [3]int) int { return (p[0]*cy+p[1])*cz + p[2] }
	vertexOf := make([]int32, cx*cy*cz)

	for x := 0; x < cx; x++ {
		for y := 0; y < cy; y++ {
			for z := 0; z < cz; z++ {
				cell := [3]int{x, y, z}
				vertexOf[cellIndex(cell)] = -1

				var d [8]float32
				inside := 0
				for c := 0; c < 8; c++ {
					d[c] = level(corner(cell, c))
					if d[c] > isoLevel {
						inside |= 1 << c
					}
				}
				if inside == 0 || inside == 0xff {
					continue
				}

				var sum mgl32.Vec3
				crossings := 0
				for _, edge := range cubeEdges {
					a, b := edge[0], edge[1]
					if (inside>>a)&1 == (inside>>b)&1 {
						continue
					}
					t := (isoLevel - d[a]) / (d[b] - d[a])
					pa, pb := cornerOffset(a), cornerOffset(b)
					sum = sum.Add(pa.Add(pb.Sub(pa).Mul(t)))
					crossings++
				}
				avg := sum.Mul(1 / float32(crossings))

				// Grid index 1 is the region's lower edge, local position 0.
				pos := mgl32.Vec3{float32(x-1) + avg[0], float32(y-1) + avg[1], float32(z-1) + avg[2]}
				vox := dominantVoxel(g, cell)
				vertexOf[cellIndex(cell)] = int32(len(m.Vertices))
				m.Vertices = append(m.Vertices, RawVertex{Position: pos, Material: vox.Material, Density: vox.Density})
			}
		}
	}

	// Each region sample owns the three edges leaving it in the positive
	// direction, so neighbouring regions never emit the same quad.
	for x := 1; x < g.sx-1; x++ {
		for y := 1; y < g.sy-1; y++ {
			for z := 1; z < g.sz-1; z++ {
				p := [3]int{x, y, z}
				in := level(p) > isoLevel
				for axis := 0; axis < 3; axis++ {
					t := p
					t[axis]++
					if in == (level(t) > isoLevel) {
						continue
					}
					u, v := (axis+1)%3, (axis+2)%3
					c0, c1, c2, c3 := p, p, p, p
					c0[u]--
					c0[v]--
					c1[v]--
					c3[u]--
					q := [4]int32{
						vertexOf[cellIndex(c0)],
						vertexOf[cellIndex(c1)],
						vertexOf[cellIndex(c2)],
						vertexOf[cellIndex(c3)],
					}
					if !in {
						q[1], q[3] = q[3], q[1]
					}
					m.Indices = append(m.Indices,
						uint32(q[0]), uint32(q[1]), uint32(q[2]),
						uint32(q[0]), uint32(q[2]), uint32(q[3]),
					)
				}
			}
		}
	}
	return m
}

func corner(cell [3]int, c int) [3]int {
	return [3]int{cell[0] + c&1, cell[1] + (c>>1)&1, cell[2] + (c>>2)&1}
}

func cornerOffset(c int) mgl32.Vec3 {
	return mgl32.Vec3{float32(c & 1), float32((c >> 1) & 1), float32((c >> 2) & 1)}
}

// dominantVoxel is the densest solid corner of cell, first in corner order
// on ties.
func dominantVoxel(g *grid, cell [3]int) world.Voxel {
	var best world.Voxel
	for c := 0; c < 8; c++ {
		v := g.at(corner(cell, c))
		if v.Density > best.Density {
			best = v
		}
	}
	return best
}
