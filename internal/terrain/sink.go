package terrain

import (
	"sort"
	"sync"

	"voxel-terrain/internal/meshing"
	"voxel-terrain/internal/world"
)

// MeshSink receives the per-material meshes of each chunk that produced
// geometry. slot is the chunk's dense index, usable as a render slot.
// Consume may be called from several goroutines at once.
type MeshSink interface {
	Consume(coord world.ChunkCoord, slot int, meshes []*meshing.MaterialMesh)
}

// SinkFunc adapts a plain function to MeshSink.
type SinkFunc func(coord world.ChunkCoord, slot int, meshes []*meshing.MaterialMesh)

func (f SinkFunc) Consume(coord world.ChunkCoord, slot int, meshes []*meshing.MaterialMesh) {
	f(coord, slot, meshes)
}

type discardSink struct{}

func (discardSink) Consume(world.ChunkCoord, int, []*meshing.MaterialMesh) {}

// ChunkMeshes is one chunk's output held by a MemorySink.
type ChunkMeshes struct {
	Coord  world.ChunkCoord
	Slot   int
	Meshes []*meshing.MaterialMesh
}

// MemorySink keeps every consumed mesh in memory.
type MemorySink struct {
	mu     sync.Mutex
	chunks map[world.ChunkCoord]ChunkMeshes
}

func NewMemorySink() *MemorySink {
	return &MemorySink{chunks: make(map[world.ChunkCoord]ChunkMeshes)}
}

func (s *MemorySink) Consume(coord world.ChunkCoord, slot int, meshes []*meshing.MaterialMesh) {
	s.mu.Lock()
	s.chunks[coord] = ChunkMeshes{Coord: coord, Slot: slot, Meshes: meshes}
	s.mu.Unlock()
}

// Get returns the meshes stored for coord.
func (s *MemorySink) Get(coord world.ChunkCoord) ([]*meshing.MaterialMesh, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chunks[coord]
	return c.Meshes, ok
}

func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Chunks returns everything consumed so far ordered by slot.
func (s *MemorySink) Chunks() []ChunkMeshes {
	s.mu.Lock()
	out := make([]ChunkMeshes, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Triangles is the total triangle count across all stored meshes.
func (s *MemorySink) Triangles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.chunks {
		for _, m := range c.Meshes {
			n += m.TriangleCount()
		}
	}
	return n
}
