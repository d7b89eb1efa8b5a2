package chunkbuffer

import (
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/graphics/view"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

type chunkMesh struct {
	pos         world.ChunkPosition
	solid       Buffers
	translucent Buffers
	layer       *meshing.TranslucentLayer
}

// Meshes keeps the GPU buffers of every meshed chunk in sync with a chunk
// store. Meshing runs on a worker pool; everything else runs on the render
// thread.
type Meshes struct {
	pool    *meshing.WorkerPool
	results chan meshing.Result
	pending map[world.ChunkPosition]struct{}
	meshes  map[world.ChunkPosition]*chunkMesh
}

func NewMeshes(r meshing.MeshResolver) *Meshes {
	return &Meshes{
		pool:    meshing.NewConfiguredPool(r),
		results: make(chan meshing.Result, 100),
		pending: make(map[world.ChunkPosition]struct{}),
		meshes:  make(map[world.ChunkPosition]*chunkMesh),
	}
}

// Schedule submits every dirty chunk of store for meshing. Chunks that are
// already in flight or do not fit in the queue stay dirty for the next call.
func (m *Meshes) Schedule(store *world.ChunkStore) int {
	submitted := 0
	for _, snap := range store.TakeDirty() {
		if _, busy := m.pending[snap.Position]; busy {
			store.MarkDirty(snap.Position)
			continue
		}
		job := meshing.MeshJob{Snapshot: snap, ResultChan: m.results}
		if !m.pool.SubmitJob(job) {
			store.MarkDirty(snap.Position)
			continue
		}
		m.pending[snap.Position] = struct{}{}
		submitted++
	}
	return submitted
}

// Process uploads every finished mesh. Call once per frame before Draw.
func (m *Meshes) Process() int {
	defer profiling.Track("chunkbuffer.Process")()
	applied := 0
	for {
		select {
		case res := <-m.results:
			m.apply(res)
			applied++
		default:
			return applied
		}
	}
}

func (m *Meshes) apply(res meshing.Result) {
	delete(m.pending, res.Position)

	cm := m.meshes[res.Position]
	if res.Empty() {
		if cm != nil {
			m.Remove(res.Position)
		}
		return
	}
	if cm == nil {
		cm = &chunkMesh{pos: res.Position, layer: meshing.NewTranslucentLayer(res.Translucent)}
		m.meshes[res.Position] = cm
	} else {
		cm.layer.Replace(res.Translucent)
	}
	cm.solid.Upload(&res.Solid)
	cm.translucent.Upload(cm.layer.Mesh())
}

// Draw renders the solid layers of every chunk inside the camera frustum,
// then their translucent layers from the farthest chunk to the nearest,
// each sorted for the camera position.
func (m *Meshes) Draw(shader *Shader, cam *view.Camera) int {
	defer profiling.Track("chunkbuffer.Draw")()

	shader.Use()
	shader.SetViewProjection(cam.ViewProjection())
	shader.SetAlpha(1)
	frustum := cam.Frustum()
	camera := cam.Position

	drawn := 0
	translucent := make([]*chunkMesh, 0, len(m.meshes))
	for _, cm := range m.meshes {
		if !frustum.ChunkVisible(cm.pos) {
			continue
		}
		drawn++
		cm.solid.Draw()
		if !cm.layer.Mesh().Empty() {
			translucent = append(translucent, cm)
		}
	}
	if len(translucent) == 0 {
		return drawn
	}

	sort.Slice(translucent, func(i, j int) bool {
		return chunkDistance(translucent[i].pos, camera) > chunkDistance(translucent[j].pos, camera)
	})
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, cm := range translucent {
		if cm.layer.Update(camera) {
			cm.translucent.UpdateIndices(cm.layer.Mesh())
		}
		cm.translucent.Draw()
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	return drawn
}

func chunkDistance(pos world.ChunkPosition, camera mgl32.Vec3) float32 {
	half := float32(world.ChunkSize) / 2
	center := pos.Origin().Add(mgl32.Vec3{half, half, half})
	d := center.Sub(camera)
	return d.Dot(d)
}

// Remove frees the buffers of one chunk.
func (m *Meshes) Remove(pos world.ChunkPosition) {
	if cm, ok := m.meshes[pos]; ok {
		cm.solid.Delete()
		cm.translucent.Delete()
		delete(m.meshes, pos)
	}
}

// Len returns the number of chunks with buffers.
func (m *Meshes) Len() int { return len(m.meshes) }

// Shutdown stops meshing and frees every buffer.
func (m *Meshes) Shutdown() {
	m.pool.Shutdown()
	for pos := range m.meshes {
		m.Remove(pos)
	}
}
