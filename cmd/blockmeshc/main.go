package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"

	"voxelmesh/internal/config"
	"voxelmesh/internal/graphics/vertexlayout"
	"voxelmesh/internal/graphics/view"
	"voxelmesh/internal/meshdump"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/registry"
	"voxelmesh/internal/textures"
	"voxelmesh/internal/world"
	"voxelmesh/pkg/blockmodel"
	"voxelmesh/pkg/geometry"
)

func main() {
	app := &cli.App{
		Name:  "blockmeshc",
		Usage: "compiles block models and meshes demo chunks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "assets", Value: "assets/models", Usage: "directory holding block models"},
			&cli.IntFlag{Name: "workers", Value: config.GetMeshWorkers(), Usage: "chunks meshed in parallel"},
			&cli.BoolFlag{Name: "dedupe", Value: true, Usage: "merge identical translucent vertices"},
		},
		Before: func(c *cli.Context) error {
			config.SetMeshWorkers(c.Int("workers"))
			config.SetDedupeVertices(c.Bool("dedupe"))
			return nil
		},
		Commands: []*cli.Command{
			compileCommand,
			meshCommand,
			atlasCommand,
			previewCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var compileCommand = &cli.Command{
	Name:      "compile",
	Usage:     "compile models and print their buckets",
	ArgsUsage: "<model> [model...]",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.Exit("need at least one model", 1)
		}
		loader := blockmodel.NewLoader(c.String("assets"))
		names := c.Args().Slice()
		meshes, err := loader.LoadAll(c.Context, names)
		if err != nil {
			return err
		}
		for _, name := range names {
			printSummary(meshes[name])
		}
		return nil
	},
}

func printSummary(bm *blockmodel.BlockMesh) {
	fmt.Printf("%s: textures %v, solid sides %v, translucent sides %v\n",
		bm.Name(), bm.Textures(), bm.SolidSides(), bm.TranslucentSides())
	bm.Buckets(func(i int, m *geometry.Mesh) {
		layer := "solid"
		mask := geometry.Sides(i)
		if i >= blockmodel.BucketCount/2 {
			layer = "translucent"
			mask = geometry.Sides(i - blockmodel.BucketCount/2)
		}
		fmt.Printf("  %3d %-11s %-28v %3d vertices %3d triangles\n",
			i, layer, mask, len(m.Vertices), m.TriangleCount())
	})
}

// sceneFlags are shared by the commands that build a demo scene.
func sceneFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "model", Value: "cube.json", Usage: "solid block model"},
		&cli.StringFlag{Name: "translucent", Usage: "translucent block model, optional"},
		&cli.StringFlag{Name: "pattern", Value: "cube", Usage: "floor, cube, checker or terrain"},
		&cli.IntFlag{Name: "radius", Value: 0, Usage: "chunks around the origin on x and z"},
		&cli.StringFlag{Name: "camera", Value: "8,24,-16", Usage: "camera position"},
		&cli.StringFlag{Name: "target", Value: "8,8,8", Usage: "point the camera looks at"},
	}, extra...)
}

// scene is a registry plus a chunk store filled from the scene flags.
type scene struct {
	reg            *registry.Registry
	store          *world.ChunkStore
	camera, target mgl32.Vec3
}

func loadScene(c *cli.Context) (*scene, error) {
	camera, err := parseVec3(c.String("camera"))
	if err != nil {
		return nil, err
	}
	target, err := parseVec3(c.String("target"))
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	defs := []registry.Definition{{Name: "solid", Model: c.String("model")}}
	if name := c.String("translucent"); name != "" {
		defs = append(defs, registry.Definition{Name: "translucent", Model: name})
	}
	loader := blockmodel.NewLoader(c.String("assets"))
	if err := reg.LoadDefinitions(c.Context, loader, defs); err != nil {
		return nil, err
	}
	solidID, _ := reg.Lookup("solid")
	var liquid world.Block
	if id, ok := reg.Lookup("translucent"); ok {
		liquid = world.Block{Type: id}
	}

	store, err := buildScene(c.String("pattern"), c.Int("radius"), world.Block{Type: solidID}, liquid)
	if err != nil {
		return nil, err
	}
	return &scene{reg: reg, store: store, camera: camera, target: target}, nil
}

var meshCommand = &cli.Command{
	Name:  "mesh",
	Usage: "build a demo scene and mesh every chunk",
	Flags: sceneFlags(
		&cli.StringFlag{Name: "out", Usage: "write zstd-compressed buffers to this file"},
	),
	Action: runMesh,
}

func runMesh(c *cli.Context) error {
	sc, err := loadScene(c)
	if err != nil {
		return err
	}
	reg, store, camera := sc.reg, sc.store, sc.camera
	frustum := view.NewCamera(16, 9, camera, sc.target).Frustum()

	profiling.Reset()
	results, err := meshing.MeshDirty(c.Context, store, reg)
	if err != nil {
		return err
	}

	var vertices, triangles, inView int
	for i := range results {
		res := &results[i]
		if frustum.ChunkVisible(res.Position) {
			inView++
		}
		meshing.SortBackToFront(&res.Translucent, camera)
		vertices += len(res.Solid.Vertices) + len(res.Translucent.Vertices)
		triangles += res.Solid.TriangleCount() + res.Translucent.TriangleCount()
		log.Printf("chunk %v: solid %d/%d, translucent %d/%d (vertices/triangles)",
			res.Position,
			len(res.Solid.Vertices), res.Solid.TriangleCount(),
			len(res.Translucent.Vertices), res.Translucent.TriangleCount())
	}
	log.Printf("meshed %d chunks: %d vertices, %d triangles, %d bytes per vertex",
		len(results), vertices, triangles, vertexlayout.Stride)
	log.Printf("%d of %d chunks inside the camera frustum", inView, len(results))
	log.Printf("timings: %s", profiling.TopN(6))

	if out := c.String("out"); out != "" {
		return writeResults(out, results)
	}
	return nil
}

func writeResults(path string, results []meshing.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for i := range results {
		if err := meshdump.WriteFrame(w, &results[i]); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	log.Printf("wrote %d chunk frames to %s", len(results), path)
	return f.Close()
}

func parseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v mgl32.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

var atlasCommand = &cli.Command{
	Name:      "atlas",
	Usage:     "assign atlas layers to the textures of models and load them",
	ArgsUsage: "<model> [model...]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "textures", Value: "assets/textures", Usage: "directory holding <texture>.png files"},
		&cli.IntFlag{Name: "size", Value: 16, Usage: "layer width and height in pixels"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.Exit("need at least one model", 1)
		}
		reg := registry.New()
		var defs []registry.Definition
		for _, name := range c.Args().Slice() {
			defs = append(defs, registry.Definition{Name: name, Model: name})
		}
		if err := reg.LoadDefinitions(c.Context, blockmodel.NewLoader(c.String("assets")), defs); err != nil {
			return err
		}

		atlas := textures.NewAtlas()
		reg.BindAtlas(atlas)
		for layer, name := range atlas.Names() {
			fmt.Printf("%3d %s\n", layer, name)
		}
		_, err := atlas.LoadLayers(os.DirFS(c.String("textures")), c.Int("size"))
		return err
	},
}
