package world

// Chunk is a dense size³ block of voxels tagged with the world Region it
// covers. Voxels are addressed chunk-local, local = world - Region.Lower.
type Chunk struct {
	Coord  ChunkCoord
	Region Region

	size     int
	encoding Encoding
	cells    []uint16
	solid    int
}

// NewChunk allocates an all-air chunk for coord.
func NewChunk(coord ChunkCoord, size int, enc Encoding) *Chunk {
	return &Chunk{
		Coord:    coord,
		Region:   coord.Region(size),
		size:     size,
		encoding: enc,
		cells:    make([]uint16, size*size*size),
	}
}

func (c *Chunk) Size() int { return c.size }

func (c *Chunk) Encoding() Encoding { return c.encoding }

func (c *Chunk) index(x, y, z int) int {
	return (x*c.size+y)*c.size + z
}

func (c *Chunk) inRange(x, y, z int) bool {
	return x >= 0 && x < c.size && y >= 0 && y < c.size && z >= 0 && z < c.size
}

// Get returns the voxel at chunk-local coordinates. Out of range is Air.
func (c *Chunk) Get(x, y, z int) Voxel {
	if !c.inRange(x, y, z) {
		return Air
	}
	return c.encoding.Unpack(c.cells[c.index(x, y, z)])
}

// Set stores v at chunk-local coordinates. Out of range writes are dropped.
func (c *Chunk) Set(x, y, z int, v Voxel) {
	if !c.inRange(x, y, z) {
		return
	}
	i := c.index(x, y, z)
	old := c.encoding.Unpack(c.cells[i])
	c.cells[i] = c.encoding.Pack(v)
	stored := c.encoding.Unpack(c.cells[i])
	switch {
	case old.Solid() && !stored.Solid():
		c.solid--
	case !old.Solid() && stored.Solid():
		c.solid++
	}
}

// At reads by world coordinates.
func (c *Chunk) At(x, y, z int) Voxel {
	return c.Get(x-c.Region.Lower.X, y-c.Region.Lower.Y, z-c.Region.Lower.Z)
}

// SolidCount is the number of voxels with non-zero density.
func (c *Chunk) SolidCount() int { return c.solid }

func (c *Chunk) Empty() bool { return c.solid == 0 }

func (c *Chunk) Full() bool { return c.solid == len(c.cells) }
