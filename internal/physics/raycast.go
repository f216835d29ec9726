// Package physics answers spatial queries against voxel data: ray hits and
// surface heights. Voxel centres sit on integer coordinates and every solid
// voxel fills the unit cube around its centre.
package physics

import (
	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelSource reads voxels by world coordinates. world.Store satisfies it.
type VoxelSource interface {
	Voxel(x, y, z int) world.Voxel
}

const stepSize = float32(0.02)

// RaycastResult stores the result of a raycast operation.
type RaycastResult struct {
	Hit      bool
	Voxel    world.Vec3i
	Previous world.Vec3i // last empty voxel before the hit
	Material world.Material
	Distance float32
}

// Raycast marches from start along direction and reports the first solid
// voxel between minDist and maxDist. direction should be normalised;
// distances are measured along it.
func Raycast(src VoxelSource, start, direction mgl32.Vec3, minDist, maxDist float32) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	steps := int(maxDist / stepSize)
	last := voxelAt(start)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}
		p := voxelAt(start.Add(direction.Mul(dist)))
		if v := src.Voxel(p.X, p.Y, p.Z); v.Solid() {
			return RaycastResult{
				Hit:      true,
				Voxel:    p,
				Previous: last,
				Material: v.Material,
				Distance: dist,
			}
		}
		last = p
	}
	return RaycastResult{}
}

func voxelAt(p mgl32.Vec3) world.Vec3i {
	return world.Vec3i{X: voxelCoord(p.X()), Y: voxelCoord(p.Y()), Z: voxelCoord(p.Z())}
}
