package meshing

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"voxelmesh/internal/config"
	"voxelmesh/internal/profiling"
	"voxelmesh/pkg/geometry"
)

// SortBackToFront reorders the triangles of m by the distance from camera
// to each triangle's centroid, farthest first. Vertices are not touched.
// m must be a valid mesh.
func SortBackToFront(m *geometry.Mesh, camera mgl32.Vec3) {
	defer profiling.Track("meshing.sort")()

	n := m.TriangleCount()
	if n < 2 {
		return
	}

	type tri struct {
		dist float32 // squared; ordering is the same
		i    [3]uint32
	}
	tris := make([]tri, n)
	for t := 0; t < n; t++ {
		a, b, c := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
		centroid := m.Vertices[a].Position.
			Add(m.Vertices[b].Position).
			Add(m.Vertices[c].Position).
			Mul(1.0 / 3.0)
		d := centroid.Sub(camera)
		tris[t] = tri{dist: d.Dot(d), i: [3]uint32{a, b, c}}
	}
	sort.SliceStable(tris, func(i, j int) bool { return tris[i].dist > tris[j].dist })

	for t, tr := range tris {
		copy(m.Indices[3*t:3*t+3], tr.i[:])
	}
}

// TranslucentLayer owns a chunk's translucent mesh and keeps it sorted for
// the current camera. Geometry and camera updates are independent: Update
// re-sorts after Replace and whenever the camera moved further than the
// configured epsilon, which defaults to 0 so that any movement re-sorts.
type TranslucentLayer struct {
	mesh       geometry.Mesh
	lastCamera mgl32.Vec3
	sorted     bool
}

func NewTranslucentLayer(m geometry.Mesh) *TranslucentLayer {
	return &TranslucentLayer{mesh: m}
}

// Replace swaps in freshly meshed geometry.
func (l *TranslucentLayer) Replace(m geometry.Mesh) {
	l.mesh = m
	l.sorted = false
}

// Update sorts for camera if needed and reports whether the index order
// changed, in which case the index buffer has to be uploaded again.
func (l *TranslucentLayer) Update(camera mgl32.Vec3) bool {
	if l.sorted {
		eps := config.GetSortEpsilon()
		if camera.Sub(l.lastCamera).Len() <= eps {
			return false
		}
	}
	SortBackToFront(&l.mesh, camera)
	l.lastCamera = camera
	l.sorted = true
	return true
}

// Mesh returns the current geometry. It is owned by the layer and changes
// on the next Update or Replace.
func (l *TranslucentLayer) Mesh() *geometry.Mesh {
	return &l.mesh
}
