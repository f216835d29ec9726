package terrain

import (
	"context"
	"sync"

	"voxel-terrain/internal/meshing"
	"voxel-terrain/internal/profiling"
	"voxel-terrain/internal/world"

	"github.com/alitto/pond/v2"
)

// Streamer builds chunks on a pond pool and meshes them on a meshing
// WorkerPool. A coordinate is queued at most once while pending.
type Streamer struct {
	t       *Terrain
	builds  pond.Pool
	meshes  *meshing.WorkerPool
	results chan meshing.MeshResult

	pendingMu sync.Mutex
	pending   map[world.ChunkCoord]struct{}
	inflight  sync.WaitGroup

	statsMu  sync.Mutex
	stats    GridStats
	firstErr error

	collectorDone chan struct{}
	closeOnce     sync.Once
}

// NewStreamer starts the build and mesh workers for t.
func NewStreamer(t *Terrain, workers, meshWorkers, queueSize int) *Streamer {
	if workers < 1 {
		workers = 1
	}
	s := &Streamer{
		t:             t,
		builds:        pond.NewPool(workers),
		meshes:        meshing.NewWorkerPool(meshWorkers, queueSize, t.extractor, t.unitScale),
		results:       make(chan meshing.MeshResult, queueSize),
		pending:       make(map[world.ChunkCoord]struct{}),
		collectorDone: make(chan struct{}),
	}
	go s.collect()
	return s
}

// Request queues coord for building and meshing. It returns false if coord
// is already pending or has been claimed by the store.
func (s *Streamer) Request(ctx context.Context, coord world.ChunkCoord) bool {
	if s.t.store.State(coord) != world.Unbuilt {
		return false
	}

	s.pendingMu.Lock()
	if _, ok := s.pending[coord]; ok {
		s.pendingMu.Unlock()
		return false
	}
	s.pending[coord] = struct{}{}
	s.pendingMu.Unlock()

	s.inflight.Add(1)
	s.builds.Submit(func() {
		s.build(ctx, coord)
	})
	return true
}

// Pending reports how many coordinates are queued or in progress.
func (s *Streamer) Pending() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

func (s *Streamer) build(ctx context.Context, coord world.ChunkCoord) {
	defer profiling.Track("terrain.streamBuild")()

	res, err := s.t.store.EnsureChunk(ctx, coord)
	if err != nil {
		s.fail(coord, err)
		return
	}
	if res != world.NewlyBuilt {
		s.record(func(st *GridStats) { st.Skipped++ })
		s.finish(coord)
		return
	}
	s.record(func(st *GridStats) { st.Built++ })

	job := meshing.MeshJob{
		Coord:      coord,
		Region:     coord.Region(s.t.cfg.Volume.ChunkSize),
		Sampler:    s.t.store,
		ResultChan: s.results,
	}
	if !s.meshes.SubmitJobBlocking(ctx, job) {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		s.fail(coord, err)
	}
}

// collect hands finished meshes to the sink.
func (s *Streamer) collect() {
	defer close(s.collectorDone)
	for r := range s.results {
		if r.Error != nil {
			s.fail(r.Coord, r.Error)
			continue
		}
		if len(r.Meshes) == 0 {
			s.record(func(st *GridStats) { st.Empty++ })
			s.finish(r.Coord)
			continue
		}
		tris := 0
		for _, m := range r.Meshes {
			tris += m.TriangleCount()
		}
		s.t.emit(r.Coord, r.Meshes)
		s.record(func(st *GridStats) {
			st.Meshed++
			st.Triangles += tris
		})
		s.finish(r.Coord)
	}
}

func (s *Streamer) record(f func(*GridStats)) {
	s.statsMu.Lock()
	f(&s.stats)
	s.statsMu.Unlock()
}

func (s *Streamer) fail(coord world.ChunkCoord, err error) {
	s.t.log.Warn("chunk generation failed", "coord", coord, "err", err)
	s.statsMu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	s.statsMu.Unlock()
	s.finish(coord)
}

func (s *Streamer) finish(coord world.ChunkCoord) {
	s.pendingMu.Lock()
	delete(s.pending, coord)
	s.pendingMu.Unlock()
	s.inflight.Done()
}

// Flush waits for every requested chunk to finish and returns the totals so
// far together with the first error seen.
func (s *Streamer) Flush() (GridStats, error) {
	s.inflight.Wait()
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats, s.firstErr
}

// Close waits for outstanding work and stops all workers.
func (s *Streamer) Close() {
	s.closeOnce.Do(func() {
		s.inflight.Wait()
		s.builds.StopAndWait()
		s.meshes.Shutdown()
		close(s.results)
		<-s.collectorDone
	})
}
