package meshing

import (
	"context"
	"sync"

	"voxel-terrain/internal/world"
)

// MeshJob asks the pool to extract and partition one chunk region.
type MeshJob struct {
	Coord   world.ChunkCoord
	Region  world.Region
	Sampler Sampler
	// Result channel, sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord  world.ChunkCoord
	Meshes []*MaterialMesh
	Error  error
}

// WorkerPool runs mesh extraction on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue  chan MeshJob
	workers   int
	extractor Extractor
	unitScale float32
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWorkerPool creates a mesh worker pool that extracts with ex and scales
// output positions by unitScale.
func NewWorkerPool(workers, queueSize int, ex Extractor, unitScale float32) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	if workers < 1 {
		workers = 1
	}

	pool := &WorkerPool{
		jobQueue:  make(chan MeshJob, queueSize),
		workers:   workers,
		extractor: ex,
		unitScale: unitScale,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// SubmitJob submits a job without blocking.
// Returns false if the queue is full or the pool is shut down.
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking blocks until the job is queued, ctx is done or the pool
// shuts down. It reports whether the job was queued.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			origin := job.Region.Lower
			meshes := ExtractAndPartition(p.extractor, job.Sampler, job.Region, origin, p.unitScale)

			select {
			case job.ResultChan <- MeshResult{Coord: job.Coord, Meshes: meshes}:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Queued jobs that have not started are dropped.
func (p *WorkerPool) Shutdown() {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// QueueLength returns the current number of queued jobs.
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
