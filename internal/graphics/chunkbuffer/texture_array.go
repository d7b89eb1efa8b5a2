package chunkbuffer

import (
	"fmt"
	"image"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// UploadTextureArray creates a TEXTURE_2D_ARRAY with one layer per image.
// All layers must share the size of the first one, as produced by
// textures.Atlas.LoadLayers.
func UploadTextureArray(layers []*image.RGBA) (uint32, error) {
	if len(layers) == 0 {
		return 0, fmt.Errorf("no texture layers")
	}
	width, height := layers[0].Rect.Dx(), layers[0].Rect.Dy()
	for i, img := range layers {
		if img.Rect.Dx() != width || img.Rect.Dy() != height {
			return 0, fmt.Errorf("layer %d is %dx%d, want %dx%d", i, img.Rect.Dx(), img.Rect.Dy(), width, height)
		}
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture)

	// Storage
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		int32(len(layers)),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		nil,
	)

	for i, img := range layers {
		gl.TexSubImage3D(
			gl.TEXTURE_2D_ARRAY,
			0,
			0, 0, int32(i),
			int32(width),
			int32(height),
			1,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
	}

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)

	log.Printf("Loaded %d textures into array (size: %dx%d)", len(layers), width, height)
	return texture, nil
}
