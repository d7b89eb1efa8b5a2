package chunkbuffer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/chunk.vert
	chunkVertexSource string
	//go:embed shaders/chunk.frag
	chunkFragmentSource string
)

// Shader is the program that draws chunk buffers.
type Shader struct {
	ID uint32
}

// NewShader compiles the built-in chunk program.
func NewShader() (*Shader, error) {
	program, err := compileProgram(chunkVertexSource, chunkFragmentSource)
	if err != nil {
		return nil, err
	}
	return &Shader{ID: program}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// SetViewProjection sets the camera matrix
func (s *Shader) SetViewProjection(m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.uniform("viewProjection"), 1, false, &m[0])
}

// SetTextureUnit binds the texture array sampler to unit
func (s *Shader) SetTextureUnit(unit int32) {
	gl.Uniform1i(s.uniform("blockTextures"), unit)
}

// SetAlpha sets the layer opacity; 1 for solid chunks
func (s *Shader) SetAlpha(alpha float32) {
	gl.Uniform1f(s.uniform("alpha"), alpha)
}

func (s *Shader) uniform(name string) int32 {
	return gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
}

func (s *Shader) Delete() {
	gl.DeleteProgram(s.ID)
}

// stage is one shader source and the GL stage it compiles for.
type stage struct {
	kind   uint32
	source string
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program := gl.CreateProgram()
	for _, st := range []stage{{gl.VERTEX_SHADER, vertexSrc}, {gl.FRAGMENT_SHADER, fragmentSrc}} {
		shader, err := compileShader(st)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, shader)
		// flagged for deletion, freed together with the program
		gl.DeleteShader(shader)
	}

	gl.LinkProgram(program)
	if msg, ok := checkStatus(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); !ok {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link chunk program: %s", msg)
	}
	return program, nil
}

func compileShader(st stage) (uint32, error) {
	shader := gl.CreateShader(st.kind)
	src, free := gl.Strs(st.source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, src, nil)
	gl.CompileShader(shader)

	if msg, ok := checkStatus(shader, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog); !ok {
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile %s shader: %s", stageName(st.kind), msg)
	}
	return shader, nil
}

// checkStatus reads a compile or link status and, on failure, the info log.
func checkStatus(
	id, param uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) (string, bool) {
	var status int32
	getiv(id, param, &status)
	if status != gl.FALSE {
		return "", true
	}
	var length int32
	getiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "no info log", false
	}
	buf := make([]byte, length)
	getLog(id, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n"), false
}

func stageName(kind uint32) string {
	if kind == gl.VERTEX_SHADER {
		return "vertex"
	}
	return "fragment"
}
