package physics

import (
	"testing"

	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type voxelMap map[world.Vec3i]world.Material

func (m voxelMap) Voxel(x, y, z int) world.Voxel {
	if mat, ok := m[world.Vec3i{X: x, Y: y, Z: z}]; ok {
		return world.Voxel{Density: 255, Material: mat}
	}
	return world.Air
}

type voxelFunc func(x, y, z int) world.Voxel

func (f voxelFunc) Voxel(x, y, z int) world.Voxel { return f(x, y, z) }

func TestRaycast(t *testing.T) {
	src := voxelMap{{X: 5}: world.MaterialStone}
	start := mgl32.Vec3{0, 0, 0}
	dir := mgl32.Vec3{1, 0, 0}

	res := Raycast(src, start, dir, 0.1, 10)
	if !res.Hit {
		t.Fatal("expected hit, got miss")
	}
	if res.Voxel != (world.Vec3i{X: 5}) || res.Previous != (world.Vec3i{X: 4}) {
		t.Errorf("hit %v after %v", res.Voxel, res.Previous)
	}
	if res.Material != world.MaterialStone {
		t.Errorf("material %v", res.Material)
	}
	// the face of voxel 5 is at x = 4.5
	if res.Distance < 4.47 || res.Distance > 4.53 {
		t.Errorf("distance %f, want 4.5", res.Distance)
	}

	if short := Raycast(src, start, dir, 0.1, 4); short.Hit {
		t.Errorf("hit %v beyond max distance", short.Voxel)
	}
	if wrong := Raycast(src, start, mgl32.Vec3{0, 1, 0}, 0.1, 10); wrong.Hit {
		t.Errorf("hit %v in the wrong direction", wrong.Voxel)
	}

	src[world.Vec3i{X: 2, Y: 2, Z: 2}] = world.MaterialOre
	diag := Raycast(src, start, mgl32.Vec3{1, 1, 1}.Normalize(), 0.1, 10)
	if !diag.Hit || diag.Voxel != (world.Vec3i{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("diagonal: %+v", diag)
	}
	if diag.Distance < 2.55 || diag.Distance > 2.65 {
		t.Errorf("diagonal distance %f, want 1.5*sqrt(3)", diag.Distance)
	}
}

func TestRaycastMinDistanceSkipsNearVoxels(t *testing.T) {
	src := voxelMap{{X: 1}: world.MaterialDirt, {X: 3}: world.MaterialStone}
	res := Raycast(src, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 1.6, 10)
	if !res.Hit || res.Voxel.X != 3 {
		t.Fatalf("got %+v, want hit at x=3", res)
	}
}

func TestSurfaceZ(t *testing.T) {
	ground := voxelFunc(func(x, y, z int) world.Voxel {
		if z < 3 {
			return world.Voxel{Density: 255, Material: world.MaterialGrass}
		}
		return world.Air
	})
	z, ok := SurfaceZ(ground, 0, 0, 10, -10)
	if !ok || z != 2.5 {
		t.Errorf("surface %v %v, want 2.5", z, ok)
	}
	if _, ok := SurfaceZ(voxelMap{}, 0, 0, 10, -10); ok {
		t.Error("empty column reported ground")
	}
}

func TestGroundLevelTakesHighestColumn(t *testing.T) {
	// column height rises with x
	steps := voxelFunc(func(x, y, z int) world.Voxel {
		if z <= x {
			return world.Voxel{Density: 255, Material: world.MaterialStone}
		}
		return world.Air
	})
	z, ok := GroundLevel(steps, 0.4, 0, 0.3, 10, -10)
	if !ok || z != 1.5 {
		t.Errorf("ground %v %v, want 1.5", z, ok)
	}
	if _, ok := GroundLevel(voxelMap{}, 0, 0, 0.3, 10, -10); ok {
		t.Error("empty footprint reported ground")
	}
}

func BenchmarkRaycast(b *testing.B) {
	wall := voxelFunc(func(x, y, z int) world.Voxel {
		if x == 5 {
			return world.Voxel{Density: 255, Material: world.MaterialStone}
		}
		return world.Air
	})
	start := mgl32.Vec3{0, 8, 0}
	dir := mgl32.Vec3{1, 0, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Raycast(wall, start, dir, 0.1, 10)
	}
}
