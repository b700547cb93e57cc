// Package gl is the WebGL2 binding surface used by the render backend.
//
// The backend never talks to a context directly; it calls through the
// [Functions] interface. On js/wasm the interface is implemented over
// syscall/js (see functions_js.go). Tests and tools use the recording
// implementation in package gltest.
//
// Object names (Buffer, Texture, ...) are small integers. Zero is the null
// object, which is what WebGL calls for "unbind" or "default framebuffer".
package gl

type (
	Enum    uint32
	Attrib  uint32
	Buffer  uint32
	Program uint32
	Shader  uint32
	Texture uint32
	Sampler uint32
	Sync    uint32

	Framebuffer  uint32
	Renderbuffer uint32
	VertexArray  uint32
)

// Uniform is a uniform location. The zero value is the null location;
// WebGL silently ignores uniform calls against it.
type Uniform uint32

func (b Buffer) Valid() bool       { return b != 0 }
func (p Program) Valid() bool      { return p != 0 }
func (s Shader) Valid() bool       { return s != 0 }
func (t Texture) Valid() bool      { return t != 0 }
func (s Sampler) Valid() bool      { return s != 0 }
func (s Sync) Valid() bool         { return s != 0 }
func (u Uniform) Valid() bool      { return u != 0 }
func (f Framebuffer) Valid() bool  { return f != 0 }
func (r Renderbuffer) Valid() bool { return r != 0 }
func (v VertexArray) Valid() bool  { return v != 0 }

// Functions is the subset of the WebGL2 API the backend uses. Method names
// follow the WebGL IDL with Go casing; argument order is unchanged.
type Functions interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindBuffer(target Enum, b Buffer)
	BindBufferRange(target Enum, index int, b Buffer, offset, size int)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindRenderbuffer(target Enum, rb Renderbuffer)
	BindSampler(unit int, s Sampler)
	BindTexture(target Enum, t Texture)
	BindVertexArray(a VertexArray)
	BlendColor(r, g, b, a float32)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask Enum, filter Enum)
	BufferData(target Enum, size int, usage Enum)
	BufferSubData(target Enum, offset int, src []byte)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearBufferfi(buffer Enum, drawbuffer int, depth float32, stencil int)
	ClearBufferfv(buffer Enum, drawbuffer int, value [4]float32)
	ClearBufferiv(buffer Enum, drawbuffer int, value [4]int32)
	ClearBufferuiv(buffer Enum, drawbuffer int, value [4]uint32)
	ClearColor(r, g, b, a float32)
	ClearDepthf(d float32)
	ClearStencil(s int)
	ClientWaitSync(s Sync, flags Enum, timeout uint64) Enum
	ColorMask(r, g, b, a bool)
	CompileShader(s Shader)
	CopyBufferSubData(readTarget, writeTarget Enum, readOffset, writeOffset, size int)
	CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int)
	CopyTexSubImage3D(target Enum, level, xoffset, yoffset, zoffset, x, y, width, height int)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateRenderbuffer() Renderbuffer
	CreateSampler() Sampler
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CreateVertexArray() VertexArray
	CullFace(mode Enum)
	DeleteBuffer(b Buffer)
	DeleteFramebuffer(fb Framebuffer)
	DeleteProgram(p Program)
	DeleteRenderbuffer(rb Renderbuffer)
	DeleteSampler(s Sampler)
	DeleteShader(s Shader)
	DeleteSync(s Sync)
	DeleteTexture(t Texture)
	DeleteVertexArray(a VertexArray)
	DepthFunc(fn Enum)
	DepthMask(mask bool)
	DepthRangef(near, far float32)
	Disable(cap Enum)
	DisableVertexAttribArray(a Attrib)
	DrawArraysInstanced(mode Enum, first, count, instanceCount int)
	DrawBuffers(bufs []Enum)
	DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instanceCount int)
	Enable(cap Enum)
	EnableVertexAttribArray(a Attrib)
	FenceSync(condition Enum, flags Enum) Sync
	FramebufferRenderbuffer(target, attachment, renderbuffertarget Enum, rb Renderbuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	FramebufferTextureLayer(target, attachment Enum, t Texture, level, layer int)
	FrontFace(mode Enum)
	GetActiveUniformBlockParameteri(p Program, blockIndex uint32, pname Enum) int
	GetBufferSubData(target Enum, offset int, dst []byte)
	GetExtension(name string) bool
	GetInteger(pname Enum) int
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetUniformBlockIndex(p Program, name string) uint32
	GetUniformLocation(p Program, name string) Uniform
	InvalidateFramebuffer(target Enum, attachments []Enum)
	IsContextLost() bool
	LinkProgram(p Program)
	PixelStorei(pname Enum, param int)
	PolygonOffset(factor, units float32)
	ReadBuffer(src Enum)
	ReadPixels(x, y, width, height int, format, ty Enum, dst []byte)
	ReadPixelsOffset(x, y, width, height int, format, ty Enum, offset int)
	RenderbufferStorageMultisample(target Enum, samples int, internalformat Enum, width, height int)
	SamplerParameterf(s Sampler, pname Enum, param float32)
	SamplerParameteri(s Sampler, pname Enum, param int)
	Scissor(x, y, width, height int)
	ShaderSource(s Shader, src string)
	StencilFuncSeparate(face, fn Enum, ref int, mask uint32)
	StencilMask(mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass Enum)
	TexStorage2D(target Enum, levels int, internalformat Enum, width, height int)
	TexStorage3D(target Enum, levels int, internalformat Enum, width, height, depth int)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte)
	TexSubImage2DOffset(target Enum, level, x, y, width, height int, format, ty Enum, offset int)
	TexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, data []byte)
	TexSubImage3DOffset(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, offset int)
	Uniform1i(u Uniform, v int)
	UniformBlockBinding(p Program, blockIndex, blockBinding uint32)
	UseProgram(p Program)
	VertexAttribDivisor(a Attrib, divisor int)
	VertexAttribIPointer(a Attrib, size int, ty Enum, stride, offset int)
	VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}
