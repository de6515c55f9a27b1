package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/orbit/engine/core"
	"github.com/hubastard/orbit/engine/logging"
)

// RendererGL implements core.Renderer on an OpenGL 3.3 core context. All
// methods must be called on the thread that owns the context.
type RendererGL struct {
	win core.Window

	vendor, renderer, version string
}

type pipelineGL struct {
	program   uint32
	depthTest bool
	blend     bool
	locs      map[string]int32
}

func (p *pipelineGL) Handle() uint32 { return p.program }

// location caches lookups; missing uniforms resolve to -1, which GL ignores.
func (p *pipelineGL) location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.locs[name] = loc
	return loc
}

type meshGL struct {
	vao, vbo, ebo uint32
	count         int
}

func (m *meshGL) Handle() uint32  { return m.vao }
func (m *meshGL) IndexCount() int { return m.count }

type textureGL struct {
	id     uint32
	w, h   int
	mipmap bool
}

func (t *textureGL) Handle() uint32   { return t.id }
func (t *textureGL) Size() (int, int) { return t.w, t.h }

func NewRendererGL(win core.Window, _ core.Config) (*RendererGL, error) {
	r := &RendererGL{win: win}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	r.vendor = gl.GoStr(gl.GetString(gl.VENDOR))
	r.renderer = gl.GoStr(gl.GetString(gl.RENDERER))
	r.version = gl.GoStr(gl.GetString(gl.VERSION))
	if r.version == "" {
		return fmt.Errorf("gl: no current context")
	}
	logging.Logger().Info("gl renderer", "vendor", r.vendor, "renderer", r.renderer, "version", r.version)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func (r *RendererGL) Shutdown() {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
}

func (r *RendererGL) GPUVendor() string   { return r.vendor }
func (r *RendererGL) GPURenderer() string { return r.renderer }
func (r *RendererGL) GPUVersion() string  { return r.version }

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, err
	}
	return &pipelineGL{
		program:   prog,
		depthTest: desc.DepthTest,
		blend:     desc.Blend,
		locs:      make(map[string]int32, 8),
	}, nil
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return nil, fmt.Errorf("gl: empty mesh")
	}
	m := &meshGL{count: len(desc.Indices)}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*4, gl.Ptr(desc.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), gl.STATIC_DRAW)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Size, attribType(a.Type), false, desc.Layout.Stride, unsafe.Pointer(uintptr(a.Offset)))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	t := &textureGL{}
	gl.GenTextures(1, &t.id)
	if t.id == 0 {
		return nil, fmt.Errorf("gl: glGenTextures failed")
	}
	if err := r.upload(t, desc); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

func (r *RendererGL) UpdateTexture(tex core.Texture, desc core.TextureDesc) error {
	t, ok := tex.(*textureGL)
	if !ok || t.id == 0 {
		return fmt.Errorf("gl: update of foreign or released texture")
	}
	return r.upload(t, desc)
}

func (r *RendererGL) upload(t *textureGL, desc core.TextureDesc) error {
	if desc.Width < 1 || desc.Height < 1 {
		return fmt.Errorf("gl: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != 0 && len(desc.Pixels) < want {
		return fmt.Errorf("gl: texture needs %d bytes, got %d", want, len(desc.Pixels))
	}

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	var pix unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pix = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)

	t.mipmap = desc.MinFilter == "mipmap"
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(desc.WrapV))
	if t.mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.w, t.h = desc.Width, desc.Height
	return nil
}

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	p, ok := cmd.Pipe.(*pipelineGL)
	if !ok || p.program == 0 {
		return
	}
	m, ok := cmd.Mesh.(*meshGL)
	if !ok || m.vao == 0 {
		return
	}

	if p.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if p.blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(p.program)
	for i := range cmd.Uniforms {
		u := &cmd.Uniforms[i]
		loc := p.location(u.Name)
		if loc < 0 {
			continue
		}
		switch u.Kind {
		case core.UniformFloat:
			gl.Uniform1f(loc, u.V[0])
		case core.UniformVec2:
			gl.Uniform2f(loc, u.V[0], u.V[1])
		case core.UniformMat4:
			gl.UniformMatrix4fv(loc, 1, false, &u.V[0])
		}
	}
	for i, s := range cmd.Samplers {
		t, ok := s.Texture.(*textureGL)
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		if loc := p.location(s.Name); loc >= 0 {
			gl.Uniform1i(loc, int32(i))
		}
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(m.count), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (r *RendererGL) Release(res core.Resource) {
	switch v := res.(type) {
	case *pipelineGL:
		if v.program != 0 {
			gl.DeleteProgram(v.program)
			v.program = 0
		}
	case *meshGL:
		if v.ebo != 0 {
			gl.DeleteBuffers(1, &v.ebo)
			v.ebo = 0
		}
		if v.vbo != 0 {
			gl.DeleteBuffers(1, &v.vbo)
			v.vbo = 0
		}
		if v.vao != 0 {
			gl.DeleteVertexArrays(1, &v.vao)
			v.vao = 0
		}
	case *textureGL:
		if v.id != 0 {
			gl.DeleteTextures(1, &v.id)
			v.id = 0
		}
	}
}

func attribType(t core.AttribType) uint32 {
	switch t {
	case core.AttribFloat32:
		return gl.FLOAT
	default:
		return gl.FLOAT
	}
}

func filter(name string) int32 {
	switch name {
	case "nearest":
		return gl.NEAREST
	case "mipmap":
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func wrap(name string) int32 {
	if name == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
