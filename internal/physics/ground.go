package physics

import "math"

// SurfaceZ scans the column (x, y) downward from fromZ to minZ and returns
// the Z of the top face of the first solid voxel. ok is false when the
// column is empty over that range.
func SurfaceZ(src VoxelSource, x, y, fromZ, minZ int) (z float32, ok bool) {
	for bz := fromZ; bz >= minZ; bz-- {
		if src.Voxel(x, y, bz).Solid() {
			return float32(bz) + 0.5, true
		}
	}
	return 0, false
}

// GroundLevel is the highest surface under a square footprint of the given
// half-width centred on (x, y). Columns with no ground are ignored.
func GroundLevel(src VoxelSource, x, y float32, halfWidth float32, fromZ, minZ int) (float32, bool) {
	minX, maxX := voxelCoord(x-halfWidth), voxelCoord(x+halfWidth)
	minY, maxY := voxelCoord(y-halfWidth), voxelCoord(y+halfWidth)

	var best float32
	found := false
	for bx := minX; bx <= maxX; bx++ {
		for by := minY; by <= maxY; by++ {
			z, ok := SurfaceZ(src, bx, by, fromZ, minZ)
			if ok && (!found || z > best) {
				best, found = z, true
			}
		}
	}
	return best, found
}

// voxelCoord maps a position on one axis to the voxel whose centre is
// nearest.
func voxelCoord(f float32) int {
	return int(math.Floor(float64(f) + 0.5))
}
