package world

import "fmt"

// Vec3i is an integer position in voxel space.
type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Region is an axis-aligned box with inclusive Lower and Upper corners.
type Region struct {
	Lower Vec3i
	Upper Vec3i
}

// Valid reports whether Lower <= Upper on every axis.
func (r Region) Valid() bool {
	return r.Lower.X <= r.Upper.X && r.Lower.Y <= r.Upper.Y && r.Lower.Z <= r.Upper.Z
}

func (r Region) Contains(x, y, z int) bool {
	return x >= r.Lower.X && x <= r.Upper.X &&
		y >= r.Lower.Y && y <= r.Upper.Y &&
		z >= r.Lower.Z && z <= r.Upper.Z
}

// Size returns the number of voxels along each axis.
func (r Region) Size() Vec3i {
	if !r.Valid() {
		return Vec3i{}
	}
	return Vec3i{
		r.Upper.X - r.Lower.X + 1,
		r.Upper.Y - r.Lower.Y + 1,
		r.Upper.Z - r.Lower.Z + 1,
	}
}

func (r Region) Volume() int {
	s := r.Size()
	return s.X * s.Y * s.Z
}

func (r Region) Translate(d Vec3i) Region {
	return Region{Lower: r.Lower.Add(d), Upper: r.Upper.Add(d)}
}

func (r Region) String() string {
	return fmt.Sprintf("[%v..%v]", r.Lower, r.Upper)
}

// ChunkCoord identifies a chunk in chunk space.
type ChunkCoord struct {
	X, Y, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Origin is the world position of the chunk's lower corner.
func (c ChunkCoord) Origin(size int) Vec3i {
	return Vec3i{c.X * size, c.Y * size, c.Z * size}
}

// Region is the inclusive world box [c*size, c*size+size-1] on each axis.
func (c ChunkCoord) Region(size int) Region {
	lo := c.Origin(size)
	return Region{
		Lower: lo,
		Upper: Vec3i{lo.X + size - 1, lo.Y + size - 1, lo.Z + size - 1},
	}
}

// ChunkOf returns the chunk containing world voxel (x,y,z).
func ChunkOf(x, y, z, size int) ChunkCoord {
	return ChunkCoord{floorDiv(x, size), floorDiv(y, size), floorDiv(z, size)}
}

func floorDiv(value, size int) int {
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}

func mod(value, size int) int {
	m := value % size
	if m < 0 {
		m += size
	}
	return m
}
