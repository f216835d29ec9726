package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"voxel-terrain/internal/profiling"
)

// State is the lifecycle position of one chunk slot.
type State int

const (
	Unbuilt State = iota
	Building
	Built
	Evicted
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Building:
		return "building"
	case Built:
		return "built"
	case Evicted:
		return "evicted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// BuildResult tells an EnsureChunk caller what happened to its request.
type BuildResult int

const (
	// NewlyBuilt means this call claimed the slot and populated the chunk.
	NewlyBuilt BuildResult = iota
	// AlreadyBuilt means another call claimed the slot first.
	AlreadyBuilt
	// SkippedEvicted means the chunk was built once and has since been evicted.
	SkippedEvicted
)

func (r BuildResult) String() string {
	switch r {
	case NewlyBuilt:
		return "newly-built"
	case AlreadyBuilt:
		return "already-built"
	case SkippedEvicted:
		return "evicted"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// ErrNotBuilt is returned when a chunk is required but no build finished.
var ErrNotBuilt = errors.New("world: chunk not built")

type slot struct {
	state State
	chunk *Chunk
	done  chan struct{}
}

// Store owns the chunk slots of one terrain instance and guarantees each
// chunk index is built at most once for the store's lifetime.
type Store struct {
	size       int
	index      ChunkIndex
	classifier Classifier
	encoding   Encoding
	log        *slog.Logger

	mu       sync.RWMutex
	slots    map[int]*slot
	resident int
	builds   uint64
}

// StoreOption customises a Store.
type StoreOption func(*Store)

func WithEncoding(enc Encoding) StoreOption {
	return func(s *Store) { s.encoding = enc }
}

func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates a store for cubic chunks of edge size whose coordinates
// lie in [-bounds, bounds) per axis.
func NewStore(size int, bounds Vec3i, classifier Classifier, opts ...StoreOption) (*Store, error) {
	if size <= 0 {
		return nil, fmt.Errorf("world: chunk size must be positive, got %d", size)
	}
	if classifier == nil {
		return nil, errors.New("world: classifier is required")
	}
	index, err := NewChunkIndex(bounds)
	if err != nil {
		return nil, err
	}
	s := &Store{
		size:       size,
		index:      index,
		classifier: classifier,
		encoding:   Fine,
		log:        slog.Default(),
		slots:      make(map[int]*slot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) ChunkSize() int { return s.size }

func (s *Store) Index() ChunkIndex { return s.index }

func (s *Store) Classifier() Classifier { return s.classifier }

// EnsureChunk builds the chunk at coord unless its slot is already claimed.
// A cancelled build releases the claim and returns ctx.Err().
func (s *Store) EnsureChunk(ctx context.Context, coord ChunkCoord) (BuildResult, error) {
	idx, err := s.index.Index(coord)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if sl, ok := s.slots[idx]; ok {
		state := sl.state
		s.mu.Unlock()
		if state == Evicted {
			return SkippedEvicted, nil
		}
		return AlreadyBuilt, nil
	}
	sl := &slot{state: Building, done: make(chan struct{})}
	s.slots[idx] = sl
	s.mu.Unlock()

	chunk, err := s.build(ctx, coord)

	s.mu.Lock()
	if err != nil {
		delete(s.slots, idx)
	} else {
		sl.chunk = chunk
		sl.state = Built
		s.resident++
		s.builds++
	}
	close(sl.done)
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("chunk build aborted", "coord", coord, "err", err)
		return 0, err
	}
	s.log.Debug("chunk built", "coord", coord, "index", idx, "solid", chunk.SolidCount())
	return NewlyBuilt, nil
}

// build classifies every voxel of coord's region in x, y, z order.
func (s *Store) build(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	defer profiling.Track("world.buildChunk")()

	chunk := NewChunk(coord, s.size, s.encoding)
	r := chunk.Region
	for x := r.Lower.X; x <= r.Upper.X; x++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lx := x - r.Lower.X
		for y := r.Lower.Y; y <= r.Upper.Y; y++ {
			ly := y - r.Lower.Y
			for z := r.Lower.Z; z <= r.Upper.Z; z++ {
				v := s.classifier.Classify(x, y, z)
				if v.Solid() {
					chunk.Set(lx, ly, z-r.Lower.Z, v)
				}
			}
		}
	}
	return chunk, nil
}

// State reports the lifecycle state of coord. Out of bounds is Unbuilt.
func (s *Store) State(coord ChunkCoord) State {
	idx, err := s.index.Index(coord)
	if err != nil {
		return Unbuilt
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sl, ok := s.slots[idx]; ok {
		return sl.state
	}
	return Unbuilt
}

// Chunk returns the built chunk at coord, or nil if it is not resident.
func (s *Store) Chunk(coord ChunkCoord) *Chunk {
	idx, err := s.index.Index(coord)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sl, ok := s.slots[idx]; ok && sl.state == Built {
		return sl.chunk
	}
	return nil
}

// Wait blocks until the build claimed for coord finishes and returns the
// chunk. It fails with ErrNotBuilt if nothing is claimed or the build aborted.
func (s *Store) Wait(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	idx, err := s.index.Index(coord)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	sl, ok := s.slots[idx]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotBuilt, coord)
	}

	select {
	case <-sl.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if sl.state != Built {
		return nil, fmt.Errorf("%w: %v is %v", ErrNotBuilt, coord, sl.state)
	}
	return sl.chunk, nil
}

// Evict drops the voxel data of a built chunk. The slot stays claimed, so
// the chunk is never rebuilt.
func (s *Store) Evict(coord ChunkCoord) error {
	idx, err := s.index.Index(coord)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[idx]
	if !ok || sl.state != Built {
		return fmt.Errorf("%w: %v", ErrNotBuilt, coord)
	}
	sl.state = Evicted
	sl.chunk = nil
	s.resident--
	return nil
}

// Len is the number of resident built chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resident
}

// BuildCount is the number of builds completed over the store's lifetime.
func (s *Store) BuildCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builds
}

// Resident lists the coordinates of built chunks in index order.
func (s *Store) Resident() []ChunkCoord {
	s.mu.RLock()
	idxs := make([]int, 0, s.resident)
	for i, sl := range s.slots {
		if sl.state == Built {
			idxs = append(idxs, i)
		}
	}
	s.mu.RUnlock()

	sort.Ints(idxs)
	out := make([]ChunkCoord, 0, len(idxs))
	for _, i := range idxs {
		c, _ := s.index.Coord(i)
		out = append(out, c)
	}
	return out
}

// Voxel samples world space. Built chunks are read directly; everywhere
// else the classifier is evaluated, which yields the same value a build
// would have written.
func (s *Store) Voxel(x, y, z int) Voxel {
	if c := s.Chunk(ChunkOf(x, y, z, s.size)); c != nil {
		return c.At(x, y, z)
	}
	v := s.classifier.Classify(x, y, z)
	if !v.Solid() {
		return Air
	}
	return s.encoding.Unpack(s.encoding.Pack(v))
}
