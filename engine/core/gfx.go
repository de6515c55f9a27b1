package core

// Renderer abstraction.
type Renderer interface {
	Resize(w, h int)
	Clear(r, g, b, a float32)

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	// UpdateTexture replaces the contents (and size) of an existing texture.
	UpdateTexture(t Texture, desc TextureDesc) error
	Draw(cmd DrawCmd)

	// Release frees a resource created by this renderer. Nil is ignored.
	Release(res Resource)

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
	Shutdown()
}

// Resource is any GPU object owned by a Renderer. Handle is the backend's
// object name (0 once released).
type Resource interface{ Handle() uint32 }

type Pipeline interface{ Resource }

type Mesh interface {
	Resource
	IndexCount() int
}

type Texture interface {
	Resource
	Size() (w, h int)
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location uint32
	Size     int32 // components
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int32 // bytes
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // tightly packed, bottom row first
	MinFilter     string // "nearest" | "linear" | "mipmap"
	MagFilter     string
	WrapU, WrapV  string // "clamp" | "repeat"
}

// DrawCmd draws Mesh with Pipe. Uniform values are read at call time, so
// callers may keep one slice per draw and mutate it frame to frame.
type DrawCmd struct {
	Pipe     Pipeline
	Mesh     Mesh
	Uniforms []Uniform
	Samplers []Sampler
}

type Sampler struct {
	Name    string
	Texture Texture
}

type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformVec2
	UniformMat4
)

// Uniform is a named value stored inline so updating it never allocates.
type Uniform struct {
	Name string
	Kind UniformKind
	V    [16]float32
}

func FloatUniform(name string, v float32) Uniform {
	u := Uniform{Name: name, Kind: UniformFloat}
	u.V[0] = v
	return u
}

func Vec2Uniform(name string, x, y float32) Uniform {
	u := Uniform{Name: name, Kind: UniformVec2}
	u.V[0], u.V[1] = x, y
	return u
}

func Mat4Uniform(name string, m [16]float32) Uniform {
	return Uniform{Name: name, Kind: UniformMat4, V: m}
}

func (u *Uniform) SetFloat(v float32)    { u.V[0] = v }
func (u *Uniform) SetVec2(x, y float32)  { u.V[0], u.V[1] = x, y }
func (u *Uniform) SetMat4(m [16]float32) { u.V = m }
func (u *Uniform) Float() float32        { return u.V[0] }
func (u *Uniform) Vec2() (x, y float32)  { return u.V[0], u.V[1] }
