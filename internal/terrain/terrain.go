package terrain

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"voxel-terrain/internal/config"
	"voxel-terrain/internal/meshing"
	"voxel-terrain/internal/noise"
	"voxel-terrain/internal/physics"
	"voxel-terrain/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain wires configuration, noise fields, classifier, chunk store,
// extractor and mesh sink into one generation pipeline.
type Terrain struct {
	cfg        config.Config
	log        *slog.Logger
	fields     *noise.Fields
	cache      *noise.Cache
	classifier world.Classifier
	store      *world.Store
	extractor  meshing.Extractor
	sink       MeshSink
	unitScale  float32
}

// Option customises a Terrain.
type Option func(*Terrain)

func WithLogger(log *slog.Logger) Option {
	return func(t *Terrain) {
		if log != nil {
			t.log = log
		}
	}
}

func WithSink(sink MeshSink) Option {
	return func(t *Terrain) {
		if sink != nil {
			t.sink = sink
		}
	}
}

// WithExtractor replaces the extractor selected by configuration.
func WithExtractor(ex meshing.Extractor) Option {
	return func(t *Terrain) { t.extractor = ex }
}

// WithFieldCache shares noise graphs between terrains with equal parameters.
func WithFieldCache(c *noise.Cache) Option {
	return func(t *Terrain) {
		if c != nil {
			t.cache = c
		}
	}
}

// New validates cfg and builds the pipeline. cfg is copied.
func New(cfg *config.Config, opts ...Option) (*Terrain, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	t := &Terrain{
		cfg:       *cfg,
		log:       slog.Default(),
		sink:      discardSink{},
		unitScale: float32(cfg.Mesh.UnitScale),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.cache == nil {
		t.cache = noise.NewCache()
	}

	fields, err := t.cache.Get(cfg.NoiseParams())
	if err != nil {
		return nil, fmt.Errorf("terrain: build noise fields: %w", err)
	}
	t.fields = fields

	enc := cfg.Volume.Encoding
	kind := cfg.Terrain.Classifier.Resolve(cfg.Terrain.Topology)
	t.classifier = world.NewClassifier(kind, fields, enc, cfg.Terrain.DirtThickness)

	t.store, err = world.NewStore(cfg.Volume.ChunkSize, cfg.Volume.GridBounds.Vec(), t.classifier,
		world.WithEncoding(enc), world.WithLogger(t.log))
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	if t.extractor == nil {
		t.extractor = meshing.NewExtractor(cfg.Mesh.Extractor, enc)
	}

	t.log.Info("terrain ready",
		"seed", cfg.Terrain.Seed,
		"topology", cfg.Terrain.Topology,
		"basis", cfg.Terrain.Basis,
		"classifier", kind,
		"encoding", enc,
		"chunkSize", cfg.Volume.ChunkSize,
		"extractor", t.extractor.Mode(),
	)
	return t, nil
}

func (t *Terrain) Config() config.Config { return t.cfg }

func (t *Terrain) Store() *world.Store { return t.store }

func (t *Terrain) Fields() *noise.Fields { return t.fields }

func (t *Terrain) Classifier() world.Classifier { return t.classifier }

// GenerateChunk builds the chunk at (x,y,z) and hands its meshes to the
// sink. It reports true only if this call built the chunk and the chunk has
// a surface; duplicates and empty chunks return false.
func (t *Terrain) GenerateChunk(ctx context.Context, x, y, z int) (bool, error) {
	coord := world.ChunkCoord{X: x, Y: y, Z: z}
	res, err := t.store.EnsureChunk(ctx, coord)
	if err != nil {
		return false, err
	}
	if res != world.NewlyBuilt {
		t.log.Debug("chunk request skipped", "coord", coord, "result", res)
		return false, nil
	}

	meshes := t.ExtractAndPartition(coord)
	if meshes == nil {
		return false, nil
	}
	t.emit(coord, meshes)
	return true, nil
}

// ExtractAndPartition meshes the region of coord in world units. Voxels
// outside built chunks are classified on the fly.
func (t *Terrain) ExtractAndPartition(coord world.ChunkCoord) []*meshing.MaterialMesh {
	r := coord.Region(t.cfg.Volume.ChunkSize)
	return meshing.ExtractAndPartition(t.extractor, t.store, r, r.Lower, t.unitScale)
}

func (t *Terrain) emit(coord world.ChunkCoord, meshes []*meshing.MaterialMesh) {
	slot, err := t.store.Index().Index(coord)
	if err != nil {
		t.log.Error("mesh slot lookup failed", "coord", coord, "err", err)
		return
	}
	t.sink.Consume(coord, slot, meshes)
}

// Evict pages a built chunk out. It is never rebuilt afterwards.
func (t *Terrain) Evict(coord world.ChunkCoord) error {
	if err := t.store.Evict(coord); err != nil {
		return err
	}
	t.log.Debug("chunk evicted", "coord", coord)
	return nil
}

// Raycast traces a ray in voxel space against the terrain, using built
// chunks where present.
func (t *Terrain) Raycast(start, direction mgl32.Vec3, maxDist float32) physics.RaycastResult {
	return physics.Raycast(t.store, start, direction, 0, maxDist)
}

// SurfaceZ is the top of the highest solid voxel in column (x, y) within
// the store's bounds.
func (t *Terrain) SurfaceZ(x, y int) (float32, bool) {
	size := t.store.ChunkSize()
	max := t.store.Index().Max.Z
	return physics.SurfaceZ(t.store, x, y, max*size-1, -max*size)
}

// GridStats summarises a GenerateGrid run.
type GridStats struct {
	Requested int
	Built     int
	Skipped   int
	Meshed    int
	Empty     int
	Triangles int
	Elapsed   time.Duration
}

// GridCoords lists the eagerly generated chunks, x-major from the origin.
func (t *Terrain) GridCoords() []world.ChunkCoord {
	n := t.cfg.Volume.ChunkCount
	out := make([]world.ChunkCoord, 0, n.X*n.Y*n.Z)
	for x := 0; x < n.X; x++ {
		for y := 0; y < n.Y; y++ {
			for z := 0; z < n.Z; z++ {
				out = append(out, world.ChunkCoord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// GenerateGrid builds and meshes the configured chunk grid in parallel.
func (t *Terrain) GenerateGrid(ctx context.Context) (GridStats, error) {
	workers := t.cfg.Runtime.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	meshWorkers := t.cfg.Runtime.MeshWorkers
	if meshWorkers <= 0 {
		meshWorkers = runtime.NumCPU()
	}

	start := time.Now()
	s := NewStreamer(t, workers, meshWorkers, t.cfg.Runtime.QueueSize)
	defer s.Close()

	coords := t.GridCoords()
	skipped := 0
	for _, c := range coords {
		if !s.Request(ctx, c) {
			skipped++
		}
	}
	stats, err := s.Flush()
	stats.Requested = len(coords)
	stats.Skipped += skipped
	stats.Elapsed = time.Since(start)

	t.log.Info("grid generated",
		"chunks", stats.Requested,
		"built", stats.Built,
		"meshed", stats.Meshed,
		"empty", stats.Empty,
		"triangles", stats.Triangles,
		"elapsed", stats.Elapsed,
	)
	return stats, err
}
