package meshing

import (
	"sort"

	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialMesh is one material's triangles of a chunk, with flat per-triangle
// normals and tangents. Every triangle owns its three vertices.
type MaterialMesh struct {
	Material  world.Material
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Tangents  []mgl32.Vec3
	Indices   []uint32
}

func (m *MaterialMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ExtractAndPartition runs ex over r and splits the result by material.
// origin is added to every region-relative position before scaling by
// unitScale. It returns nil when the extractor yields no triangles.
func ExtractAndPartition(ex Extractor, s Sampler, r world.Region, origin world.Vec3i, unitScale float32) []*MaterialMesh {
	raw := ex.Extract(s, r)
	off := mgl32.Vec3{float32(origin.X), float32(origin.Y), float32(origin.Z)}
	return Partition(raw, off, unitScale)
}

// Partition decodes raw into per-material meshes sorted by material id.
// Index triples are consumed in reverse (i+2, i+1, i) so the output winds
// clockwise seen from outside; normals and tangents are derived from the
// extractor's own vertex order and so still point outward. A triangle takes
// the material of its first vertex.
func Partition(raw *RawMesh, origin mgl32.Vec3, unitScale float32) []*MaterialMesh {
	if raw == nil || len(raw.Indices) < 3 {
		return nil
	}
	defer profiling.Track("meshing.partition")()

	byMaterial := make(map[world.Material]*MaterialMesh)
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		v0 := raw.Vertices[raw.Indices[i]]
		v1 := raw.Vertices[raw.Indices[i+1]]
		v2 := raw.Vertices[raw.Indices[i+2]]

		edge01 := v1.Position.Sub(v0.Position)
		edge02 := v2.Position.Sub(v0.Position)
		tangent := safeNormalize(edge01)
		normal := safeNormalize(edge01.Cross(edge02))

		mm := byMaterial[v0.Material]
		if mm == nil {
			mm = &MaterialMesh{Material: v0.Material}
			byMaterial[v0.Material] = mm
		}
		for _, v := range [3]RawVertex{v2, v1, v0} {
			mm.Indices = append(mm.Indices, uint32(len(mm.Positions)))
			mm.Positions = append(mm.Positions, v.Position.Add(origin).Mul(unitScale))
			mm.Normals = append(mm.Normals, normal)
			mm.Tangents = append(mm.Tangents, tangent)
		}
	}

	out := make([]*MaterialMesh, 0, len(byMaterial))
	for _, mm := range byMaterial {
		out = append(out, mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}

// safeNormalize returns the zero vector for (near) zero-length input instead
// of NaNs.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	sq := v.Dot(v)
	if sq < 1e-8 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}
