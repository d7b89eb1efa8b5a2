package blockmodel

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/syncmap"
)

// Loader compiles model files below a root directory and caches the result
// per name.
type Loader struct {
	root       string
	modelCache syncmap.Map // name -> *BlockMesh
}

func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Supported reports whether the file name has a model extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".json" || ext == ".cjson"
}

// Load compiles root/name. The extension is checked before the file is
// opened.
func (l *Loader) Load(name string) (*BlockMesh, error) {
	if !Supported(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, name)
	}

	if cached, ok := l.modelCache.Load(name); ok {
		return cached.(*BlockMesh), nil
	}

	path := filepath.Join(l.root, name)
	log.Printf("Loading model from file %q", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading %s", path)
		return nil, fmt.Errorf("%w: could not read model file: %w", ErrParse, err)
	}

	bm, err := Compile(name, data)
	if err != nil {
		return nil, err
	}

	// another goroutine may have won the race; keep the first one
	cached, _ := l.modelCache.LoadOrStore(name, bm)
	return cached.(*BlockMesh), nil
}

// LoadAll compiles every name concurrently. The first failure cancels the
// rest and is returned.
func (l *Loader) LoadAll(ctx context.Context, names []string) (map[string]*BlockMesh, error) {
	results := make([]*BlockMesh, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bm, err := l.Load(name)
			if err != nil {
				return fmt.Errorf("model %s: %w", name, err)
			}
			results[i] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*BlockMesh, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}
