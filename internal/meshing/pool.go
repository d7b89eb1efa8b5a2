package meshing

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"voxelmesh/internal/config"
	"voxelmesh/internal/world"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	Snapshot world.Snapshot
	// Result channel - will be sent the result when done
	ResultChan chan Result
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	resolver MeshResolver
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int, r MeshResolver) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		resolver: r,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Start worker goroutines
	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// NewConfiguredPool creates a pool sized from the mesh settings
func NewConfiguredPool(r MeshResolver) *WorkerPool {
	return NewWorkerPool(config.GetMeshWorkers(), config.GetQueueSize(), r)
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued.
// Returns false if the pool shut down first.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := MeshChunk(job.Snapshot, p.resolver)

			// Send result back
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Jobs still queued are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// MeshDirty meshes every dirty chunk of store in parallel and returns the
// results ordered by chunk position. Chunks that were not meshed because ctx
// ended are marked dirty again.
func MeshDirty(ctx context.Context, store *world.ChunkStore, r MeshResolver) ([]Result, error) {
	snaps := store.TakeDirty()
	if len(snaps) == 0 {
		return nil, nil
	}

	results := make([]Result, len(snaps))
	done := make([]bool, len(snaps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.GetMeshWorkers())
	for i, snap := range snaps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = MeshChunk(snap, r)
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		requeued := 0
		for i, snap := range snaps {
			if !done[i] {
				store.MarkDirty(snap.Position)
				requeued++
			}
		}
		log.Printf("Meshing interrupted, %d of %d chunks requeued", requeued, len(snaps))
		return nil, fmt.Errorf("mesh dirty chunks: %w", err)
	}
	return results, nil
}
