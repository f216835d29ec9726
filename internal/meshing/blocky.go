package meshing

import (
	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockyExtractor greedy-merges cube faces between solid and empty voxels.
// Faces of different materials are never merged.
type BlockyExtractor struct{}

func (*BlockyExtractor) Mode() Mode { return Blocky }

func (e *BlockyExtractor) Extract(s Sampler, r world.Region) *RawMesh {
	defer profiling.Track("meshing.extractBlocky")()
	if !r.Valid() {
		return &RawMesh{}
	}
	g := sampleGrid(s, r)
	m := &RawMesh{
		Vertices: make([]RawVertex, 0, 256),
		Indices:  make([]uint32, 0, 384),
	}
	for axis := 0; axis < 3; axis++ {
		buildGreedyForDirection(g, m, axis, +1)
		buildGreedyForDirection(g, m, axis, -1)
	}
	return m
}

// buildGreedyForDirection performs 2D greedy meshing of all faces whose
// outward normal is sign along axis. Layers are walked along the axis and
// each layer's visible faces are merged into maximal rectangles.
func buildGreedyForDirection(g *grid, m *RawMesh, axis, sign int) {
	u := (axis + 1) % 3
	v := (axis + 2) % 3
	nd, nu, nv := g.dim(axis)-2, g.dim(u)-2, g.dim(v)-2

	// mask holds material+1 for a visible face, 0 otherwise
	mask := make([]int, nu*nv)
	dens := make([]uint8, nu*nv)

	for layer := 0; layer < nd; layer++ {
		clear(mask)
		for i := 0; i < nu; i++ {
			for j := 0; j < nv; j++ {
				var p [3]int
				p[axis], p[u], p[v] = layer+1, i+1, j+1
				vox := g.at(p)
				if !vox.Solid() {
					continue
				}
				p[axis] += sign
				if g.at(p).Solid() {
					continue
				}
				mask[i*nv+j] = int(vox.Material) + 1
				dens[i*nv+j] = vox.Density
			}
		}

		// Greedy merge (width along v, height along u)
		k := 0
		for k < nu*nv {
			id := mask[k]
			if id == 0 {
				k++
				continue
			}
			i0, j0 := k/nv, k%nv
			width := 1
			for j1 := j0 + 1; j1 < nv && mask[i0*nv+j1] == id; j1++ {
				width++
			}
			height := 1
		outer:
			for i1 := i0 + 1; i1 < nu; i1++ {
				for j1 := j0; j1 < j0+width; j1++ {
					if mask[i1*nv+j1] != id {
						break outer
					}
				}
				height++
			}

			var base, du, dv mgl32.Vec3
			base[axis] = float32(layer) + 0.5*float32(sign)
			base[u] = float32(i0) - 0.5
			base[v] = float32(j0) - 0.5
			du[u] = float32(height)
			dv[v] = float32(width)
			emitQuad(m, base, du, dv, sign > 0, world.Material(id-1), dens[k])

			for ii := i0; ii < i0+height; ii++ {
				for jj := j0; jj < j0+width; jj++ {
					mask[ii*nv+jj] = 0
				}
			}
		}
	}
}

// emitQuad appends the rectangle base, base+du, base+du+dv, base+dv. With
// du×dv along the outward normal the corners are already counter-clockwise;
// otherwise they are emitted in the opposite order.
func emitQuad(m *RawMesh, base, du, dv mgl32.Vec3, forward bool, mat world.Material, density uint8) {
	corners := [4]mgl32.Vec3{base, base.Add(du), base.Add(du).Add(dv), base.Add(dv)}
	if !forward {
		corners[1], corners[3] = corners[3], corners[1]
	}
	first := uint32(len(m.Vertices))
	for _, c := range corners {
		m.Vertices = append(m.Vertices, RawVertex{Position: c, Material: mat, Density: density})
	}
	m.Indices = append(m.Indices,
		first, first+1, first+2,
		first, first+2, first+3,
	)
}
