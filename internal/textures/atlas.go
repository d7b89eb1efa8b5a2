package textures

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"path"
	"sync"

	"golang.org/x/image/draw"
)

// Atlas assigns every texture name a stable layer in the global texture
// array. Block models refer to textures by a model-local index; Remap turns
// those into layers.
type Atlas struct {
	mu    sync.RWMutex
	names []string
	index map[string]uint32
}

func NewAtlas() *Atlas {
	return &Atlas{index: make(map[string]uint32)}
}

// Register returns the layer for name, adding it if needed.
func (a *Atlas) Register(name string) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if layer, ok := a.index[name]; ok {
		return layer
	}
	layer := uint32(len(a.names))
	a.index[name] = layer
	a.names = append(a.names, name)
	return layer
}

// Layer looks up an already registered texture.
func (a *Atlas) Layer(name string) (uint32, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	layer, ok := a.index[name]
	return layer, ok
}

// Names returns the registered textures in layer order.
func (a *Atlas) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.names...)
}

// Len returns the number of layers.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.names)
}

// Remap registers every local texture and returns the table from local
// index to global layer.
func (a *Atlas) Remap(local []string) []uint32 {
	out := make([]uint32, len(local))
	for i, name := range local {
		out[i] = a.Register(name)
	}
	return out
}

// LoadLayers decodes "<name>.png" from fsys for every registered texture
// and scales each to size x size. Layer i of the result belongs to Names()[i].
func (a *Atlas) LoadLayers(fsys fs.FS, size int) ([]*image.RGBA, error) {
	names := a.Names()
	layers := make([]*image.RGBA, 0, len(names))
	for _, name := range names {
		file := path.Clean(name) + ".png"
		img, err := decode(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load texture %s: %w", file, err)
		}

		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
			draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		} else {
			draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		}
		layers = append(layers, dst)
	}
	log.Printf("Loaded %d textures into atlas layers (size: %dx%d)", len(layers), size, size)
	return layers, nil
}

func decode(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
