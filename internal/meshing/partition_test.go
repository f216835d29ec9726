package meshing

import (
	"math"
	"testing"

	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func mixedSampler() SamplerFunc {
	return func(x, y, z int) world.Voxel {
		if (x*7+y*13+z*3)%4 == 0 {
			return solid(world.Material(1 + (x+2*y+z)%4))
		}
		return world.Air
	}
}

func TestPartitionCompleteness(t *testing.T) {
	raw := (&BlockyExtractor{}).Extract(mixedSampler(), cube(8))
	if raw.TriangleCount() == 0 {
		t.Fatal("expected triangles")
	}

	want := make(map[world.Material]int)
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		want[raw.Vertices[raw.Indices[i]].Material]++
	}

	meshes := Partition(raw, mgl32.Vec3{}, 1)
	total := 0
	for i, mm := range meshes {
		if i > 0 && meshes[i-1].Material >= mm.Material {
			t.Fatalf("meshes not sorted by material: %v then %v", meshes[i-1].Material, mm.Material)
		}
		if mm.TriangleCount() != want[mm.Material] {
			t.Errorf("%v: %d triangles, want %d", mm.Material, mm.TriangleCount(), want[mm.Material])
		}
		if len(mm.Positions) != len(mm.Indices) || len(mm.Normals) != len(mm.Indices) || len(mm.Tangents) != len(mm.Indices) {
			t.Errorf("%v: attribute lengths differ", mm.Material)
		}
		total += mm.TriangleCount()
	}
	if total != raw.TriangleCount() {
		t.Fatalf("partitioned %d triangles, raw has %d", total, raw.TriangleCount())
	}
	if len(meshes) != len(want) {
		t.Errorf("%d meshes for %d materials", len(meshes), len(want))
	}
}

func TestPartitionReversesWinding(t *testing.T) {
	s := voxelSet{{X: 0, Y: 0, Z: 0}: solid(world.MaterialStone)}
	meshes := ExtractAndPartition(&BlockyExtractor{}, s, cube(2), world.Vec3i{}, 1)
	if len(meshes) != 1 || meshes[0].Material != world.MaterialStone {
		t.Fatalf("unexpected meshes %v", meshes)
	}
	mm := meshes[0]
	for i := 0; i+2 < len(mm.Indices); i += 3 {
		p0 := mm.Positions[mm.Indices[i]]
		p1 := mm.Positions[mm.Indices[i+1]]
		p2 := mm.Positions[mm.Indices[i+2]]
		n := mm.Normals[mm.Indices[i]]
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)

		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d normal %v points inward", i/3, n)
		}
		if math.Abs(float64(n.Len())-1) > 1e-5 {
			t.Fatalf("normal %v not unit length", n)
		}
		// Emitted order winds against the stored normal.
		if wound := p1.Sub(p0).Cross(p2.Sub(p0)); wound.Dot(n) >= 0 {
			t.Fatalf("triangle %d winding not reversed", i/3)
		}
		tan := mm.Tangents[mm.Indices[i]]
		if math.Abs(float64(tan.Dot(n))) > 1e-5 {
			t.Fatalf("tangent %v not perpendicular to normal %v", tan, n)
		}
	}
}

func TestPartitionOffsetAndScale(t *testing.T) {
	r := cube(4).Translate(world.Vec3i{X: 32})
	s := voxelSet{{X: 32, Y: 0, Z: 0}: solid(world.MaterialDirt)}
	meshes := ExtractAndPartition(&BlockyExtractor{}, s, r, r.Lower, 100)
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes", len(meshes))
	}
	for _, p := range meshes[0].Positions {
		if p.X() != 3150 && p.X() != 3250 {
			t.Fatalf("x = %v, want 3150 or 3250", p.X())
		}
		if p.Y() != -50 && p.Y() != 50 {
			t.Fatalf("y = %v, want ±50", p.Y())
		}
	}
}

func TestPartitionDegenerateTriangles(t *testing.T) {
	raw := &RawMesh{
		Vertices: []RawVertex{
			{Position: mgl32.Vec3{0, 0, 0}, Material: world.MaterialStone},
			{Position: mgl32.Vec3{1, 0, 0}, Material: world.MaterialStone},
			{Position: mgl32.Vec3{2, 0, 0}, Material: world.MaterialStone},
			{Position: mgl32.Vec3{5, 5, 5}, Material: world.MaterialOre},
		},
		// collinear, then fully collapsed
		Indices: []uint32{0, 1, 2, 3, 3, 3},
	}
	meshes := Partition(raw, mgl32.Vec3{}, 1)
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes", len(meshes))
	}
	stone, ore := meshes[0], meshes[1]
	if stone.Normals[0] != (mgl32.Vec3{}) {
		t.Errorf("collinear normal = %v, want zero", stone.Normals[0])
	}
	if stone.Tangents[0] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("collinear tangent = %v", stone.Tangents[0])
	}
	if ore.Normals[0] != (mgl32.Vec3{}) || ore.Tangents[0] != (mgl32.Vec3{}) {
		t.Errorf("collapsed triangle should have zero normal and tangent")
	}
	// reversed emission order: v2, v1, v0
	if stone.Positions[0] != (mgl32.Vec3{2, 0, 0}) || stone.Positions[2] != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("positions not reversed: %v", stone.Positions)
	}
}

func TestPartitionFirstVertexMaterial(t *testing.T) {
	raw := &RawMesh{
		Vertices: []RawVertex{
			{Position: mgl32.Vec3{0, 0, 0}, Material: world.MaterialGrass},
			{Position: mgl32.Vec3{1, 0, 0}, Material: world.MaterialStone},
			{Position: mgl32.Vec3{0, 1, 0}, Material: world.MaterialStone},
		},
		Indices: []uint32{0, 1, 2, 1, 2, 0},
	}
	meshes := Partition(raw, mgl32.Vec3{}, 1)
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes", len(meshes))
	}
	if meshes[0].Material != world.MaterialStone || meshes[1].Material != world.MaterialGrass {
		t.Errorf("materials %v, %v", meshes[0].Material, meshes[1].Material)
	}
}

func TestPartitionNothingToRender(t *testing.T) {
	empty := SamplerFunc(func(x, y, z int) world.Voxel { return world.Air })
	if m := ExtractAndPartition(&BlockyExtractor{}, empty, cube(8), world.Vec3i{}, 1); m != nil {
		t.Errorf("air region: got %d meshes, want nil", len(m))
	}
	full := SamplerFunc(func(x, y, z int) world.Voxel { return solid(world.MaterialStone) })
	if m := ExtractAndPartition(&BlockyExtractor{}, full, cube(8), world.Vec3i{}, 1); m != nil {
		t.Errorf("solid interior: got %d meshes, want nil", len(m))
	}
	if Partition(nil, mgl32.Vec3{}, 1) != nil {
		t.Error("nil raw mesh should partition to nil")
	}
}
