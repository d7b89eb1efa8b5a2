package main

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/draw"

	"voxelmesh/internal/graphics/chunkbuffer"
	"voxelmesh/internal/graphics/view"
	"voxelmesh/internal/profiling"
	"voxelmesh/internal/textures"
)

func init() {
	// GLFW and GL calls must come from the main thread.
	runtime.LockOSThread()
}

var previewCommand = &cli.Command{
	Name:  "preview",
	Usage: "open a window and orbit the camera around a demo scene",
	Flags: sceneFlags(
		&cli.StringFlag{Name: "textures", Value: "assets/textures", Usage: "directory holding <texture>.png files"},
		&cli.IntFlag{Name: "size", Value: 16, Usage: "layer width and height in pixels"},
		&cli.Float64Flag{Name: "orbit", Value: 0.05, Usage: "camera revolutions per second"},
		&cli.DurationFlag{Name: "duration", Usage: "close after this long; 0 keeps the window open"},
	),
	Action: runPreview,
}

func openWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, "blockmeshc preview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}
	glfw.SwapInterval(1)
	return window, nil
}

func runPreview(c *cli.Context) error {
	sc, err := loadScene(c)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := openWindow(960, 540)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer window.Destroy()

	atlas := textures.NewAtlas()
	sc.reg.BindAtlas(atlas)
	layers, err := atlas.LoadLayers(os.DirFS(c.String("textures")), c.Int("size"))
	if err != nil {
		log.Printf("Falling back to plain texture layers: %v", err)
		layers = plainLayers(atlas.Len(), c.Int("size"))
	}
	texture, err := chunkbuffer.UploadTextureArray(layers)
	if err != nil {
		return err
	}
	defer gl.DeleteTextures(1, &texture)

	shader, err := chunkbuffer.NewShader()
	if err != nil {
		return err
	}
	defer shader.Delete()
	shader.Use()
	shader.SetTextureUnit(0)

	meshes := chunkbuffer.NewMeshes(sc.reg)
	defer meshes.Shutdown()

	fbW, fbH := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	cam := view.NewCamera(fbW, max(fbH, 1), sc.camera, sc.target)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
		if h > 0 {
			cam.AspectRatio = float32(w) / float32(h)
		}
	})

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.53, 0.74, 0.92, 1)

	path := newOrbit(sc.camera, sc.target)
	speed := c.Float64("orbit")
	limit := c.Duration("duration")
	start := time.Now()
	frames := 0
	for !window.ShouldClose() {
		elapsed := time.Since(start)
		if limit > 0 && elapsed >= limit {
			break
		}

		meshes.Schedule(sc.store)
		meshes.Process()
		cam.Position = path.at(elapsed.Seconds() * speed)

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture)
		meshes.Draw(shader, cam)

		window.SwapBuffers()
		glfw.PollEvents()
		frames++
	}

	log.Printf("Preview closed after %d frames, %d chunks uploaded", frames, meshes.Len())
	log.Printf("timings: %s", profiling.TopN(6))
	return nil
}

// orbit circles the camera around a target, keeping the starting
// horizontal distance and height.
type orbit struct {
	target mgl32.Vec3
	radius float64
	height float32
	phase  float64
}

func newOrbit(camera, target mgl32.Vec3) orbit {
	d := camera.Sub(target)
	return orbit{
		target: target,
		radius: math.Hypot(float64(d.X()), float64(d.Z())),
		height: d.Y(),
		phase:  math.Atan2(float64(d.Z()), float64(d.X())),
	}
}

// at returns the camera position after the given number of revolutions.
func (o orbit) at(turns float64) mgl32.Vec3 {
	a := o.phase + 2*math.Pi*turns
	return o.target.Add(mgl32.Vec3{
		float32(o.radius * math.Cos(a)),
		o.height,
		float32(o.radius * math.Sin(a)),
	})
}

// plainLayers returns n opaque white layers, at least one, for scenes
// whose textures are not on disk. Vertex tints still show.
func plainLayers(n, size int) []*image.RGBA {
	layers := make([]*image.RGBA, max(n, 1))
	for i := range layers {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		layers[i] = img
	}
	return layers
}
