package world

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned for chunk coordinates outside the index bounds.
var ErrOutOfBounds = errors.New("world: chunk coordinate out of bounds")

// ChunkIndex maps chunk coordinates in [-Max, Max) on each axis to a dense
// integer in [0, Len()).
type ChunkIndex struct {
	Max Vec3i
}

func NewChunkIndex(bounds Vec3i) (ChunkIndex, error) {
	if bounds.X <= 0 || bounds.Y <= 0 || bounds.Z <= 0 {
		return ChunkIndex{}, fmt.Errorf("world: grid bounds must be positive, got %v", bounds)
	}
	return ChunkIndex{Max: bounds}, nil
}

// Len is the number of addressable chunks.
func (ix ChunkIndex) Len() int {
	return 8 * ix.Max.X * ix.Max.Y * ix.Max.Z
}

func (ix ChunkIndex) Contains(c ChunkCoord) bool {
	return c.X >= -ix.Max.X && c.X < ix.Max.X &&
		c.Y >= -ix.Max.Y && c.Y < ix.Max.Y &&
		c.Z >= -ix.Max.Z && c.Z < ix.Max.Z
}

func (ix ChunkIndex) Index(c ChunkCoord) (int, error) {
	if !ix.Contains(c) {
		return 0, fmt.Errorf("%w: %v outside ±%v", ErrOutOfBounds, c, ix.Max)
	}
	sy, sz := 2*ix.Max.Y, 2*ix.Max.Z
	x := c.X + ix.Max.X
	y := c.Y + ix.Max.Y
	z := c.Z + ix.Max.Z
	return (x*sy+y)*sz + z, nil
}

// Coord inverts Index.
func (ix ChunkIndex) Coord(i int) (ChunkCoord, error) {
	if i < 0 || i >= ix.Len() {
		return ChunkCoord{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, i)
	}
	sy, sz := 2*ix.Max.Y, 2*ix.Max.Z
	z := i % sz
	i /= sz
	y := i % sy
	x := i / sy
	return ChunkCoord{x - ix.Max.X, y - ix.Max.Y, z - ix.Max.Z}, nil
}
