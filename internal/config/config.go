package config

import (
	"runtime"
	"sync"
)

// MeshSettings holds chunk meshing configuration
type MeshSettings struct {
	mu             sync.RWMutex
	workers        int     // concurrent chunk meshing jobs
	queueSize      int     // pending jobs held by a worker pool
	sortEpsilon    float32 // camera movement tolerated before a translucent re-sort; 0 re-sorts on any move
	dedupeVertices bool
}

var globalMeshSettings = &MeshSettings{
	workers:        defaultWorkers(),
	queueSize:      256,
	sortEpsilon:    0,
	dedupeVertices: true,
}

func defaultWorkers() int {
	return clampInt(runtime.NumCPU(), 1, 64)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetMeshWorkers returns how many chunks may be meshed at once
func GetMeshWorkers() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.workers
}

// SetMeshWorkers sets the meshing parallelism, clamped to 1..64
func SetMeshWorkers(workers int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.workers = clampInt(workers, 1, 64)
}

// GetQueueSize returns the worker pool queue capacity
func GetQueueSize() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.queueSize
}

// SetQueueSize sets the worker pool queue capacity, clamped to 16..4096
func SetQueueSize(size int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.queueSize = clampInt(size, 16, 4096)
}

// GetSortEpsilon returns the camera distance that invalidates a translucent sort
func GetSortEpsilon() float32 {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.sortEpsilon
}

// SetSortEpsilon sets the re-sort distance, clamped to 0..16 blocks
func SetSortEpsilon(eps float32) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()

	if eps < 0 {
		eps = 0
	}
	if eps > 16 {
		eps = 16
	}
	globalMeshSettings.sortEpsilon = eps
}

// GetDedupeVertices reports whether translucent meshes merge identical vertices
func GetDedupeVertices() bool {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.dedupeVertices
}

func SetDedupeVertices(enabled bool) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.dedupeVertices = enabled
}
