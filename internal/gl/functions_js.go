//go:build js && wasm

package gl

import (
	"errors"
	"syscall/js"
)

// ErrNoWebGL2 is returned when a canvas cannot produce a WebGL2 context.
var ErrNoWebGL2 = errors.New("gl: webgl2 context unavailable")

// Context implements Functions over a WebGL2RenderingContext.
//
// WebGL objects are JavaScript values; Context keeps them in a table and
// hands out their index as the object name. Index 0 is reserved for null.
type Context struct {
	gl      js.Value
	objects []js.Value
	free    []uint32

	uint8Array   js.Value
	int32Array   js.Value
	uint32Array  js.Value
	float32Array js.Value

	// Reused scratch array for clearBuffer* and drawBuffers calls.
	scratch js.Value
}

// NewContext requests a "webgl2" context from canvas with the given
// creation attributes (may be nil).
func NewContext(canvas js.Value, attrs map[string]any) (*Context, error) {
	var ctx js.Value
	if attrs == nil {
		ctx = canvas.Call("getContext", "webgl2")
	} else {
		ctx = canvas.Call("getContext", "webgl2", attrs)
	}
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, ErrNoWebGL2
	}
	return &Context{
		gl:           ctx,
		objects:      []js.Value{js.Null()},
		uint8Array:   js.Global().Get("Uint8Array"),
		int32Array:   js.Global().Get("Int32Array"),
		uint32Array:  js.Global().Get("Uint32Array"),
		float32Array: js.Global().Get("Float32Array"),
		scratch:      js.Global().Get("Array").New(),
	}, nil
}

// JSValue returns the underlying WebGL2RenderingContext.
func (c *Context) JSValue() js.Value { return c.gl }

func (c *Context) put(v js.Value) uint32 {
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	if n := len(c.free); n > 0 {
		id := c.free[n-1]
		c.free = c.free[:n-1]
		c.objects[id] = v
		return id
	}
	c.objects = append(c.objects, v)
	return uint32(len(c.objects) - 1)
}

func (c *Context) get(id uint32) js.Value {
	if id == 0 || int(id) >= len(c.objects) {
		return js.Null()
	}
	return c.objects[id]
}

func (c *Context) drop(id uint32) js.Value {
	v := c.get(id)
	if id != 0 && int(id) < len(c.objects) {
		c.objects[id] = js.Null()
		c.free = append(c.free, id)
	}
	return v
}

func (c *Context) bytes(data []byte) js.Value {
	a := c.uint8Array.New(len(data))
	js.CopyBytesToJS(a, data)
	return a
}

func (c *Context) ActiveTexture(texture Enum) { c.gl.Call("activeTexture", int(texture)) }

func (c *Context) AttachShader(p Program, s Shader) {
	c.gl.Call("attachShader", c.get(uint32(p)), c.get(uint32(s)))
}

func (c *Context) BindBuffer(target Enum, b Buffer) {
	c.gl.Call("bindBuffer", int(target), c.get(uint32(b)))
}

func (c *Context) BindBufferRange(target Enum, index int, b Buffer, offset, size int) {
	c.gl.Call("bindBufferRange", int(target), index, c.get(uint32(b)), offset, size)
}

func (c *Context) BindFramebuffer(target Enum, fb Framebuffer) {
	c.gl.Call("bindFramebuffer", int(target), c.get(uint32(fb)))
}

func (c *Context) BindRenderbuffer(target Enum, rb Renderbuffer) {
	c.gl.Call("bindRenderbuffer", int(target), c.get(uint32(rb)))
}

func (c *Context) BindSampler(unit int, s Sampler) {
	c.gl.Call("bindSampler", unit, c.get(uint32(s)))
}

func (c *Context) BindTexture(target Enum, t Texture) {
	c.gl.Call("bindTexture", int(target), c.get(uint32(t)))
}

func (c *Context) BindVertexArray(a VertexArray) {
	c.gl.Call("bindVertexArray", c.get(uint32(a)))
}

func (c *Context) BlendColor(r, g, b, a float32) { c.gl.Call("blendColor", r, g, b, a) }

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	c.gl.Call("blendEquationSeparate", int(modeRGB), int(modeAlpha))
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA Enum) {
	c.gl.Call("blendFuncSeparate", int(srcRGB), int(dstRGB), int(srcA), int(dstA))
}

func (c *Context) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask Enum, filter Enum) {
	c.gl.Call("blitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, int(mask), int(filter))
}

func (c *Context) BufferData(target Enum, size int, usage Enum) {
	c.gl.Call("bufferData", int(target), size, int(usage))
}

func (c *Context) BufferSubData(target Enum, offset int, src []byte) {
	c.gl.Call("bufferSubData", int(target), offset, c.bytes(src))
}

func (c *Context) CheckFramebufferStatus(target Enum) Enum {
	return Enum(c.gl.Call("checkFramebufferStatus", int(target)).Int())
}

func (c *Context) Clear(mask Enum) { c.gl.Call("clear", int(mask)) }

func (c *Context) ClearBufferfi(buffer Enum, drawbuffer int, depth float32, stencil int) {
	c.gl.Call("clearBufferfi", int(buffer), drawbuffer, depth, stencil)
}

func (c *Context) ClearBufferfv(buffer Enum, drawbuffer int, value [4]float32) {
	a := c.float32Array.New(4)
	for i, v := range value {
		a.SetIndex(i, v)
	}
	c.gl.Call("clearBufferfv", int(buffer), drawbuffer, a)
}

func (c *Context) ClearBufferiv(buffer Enum, drawbuffer int, value [4]int32) {
	a := c.int32Array.New(4)
	for i, v := range value {
		a.SetIndex(i, v)
	}
	c.gl.Call("clearBufferiv", int(buffer), drawbuffer, a)
}

func (c *Context) ClearBufferuiv(buffer Enum, drawbuffer int, value [4]uint32) {
	a := c.uint32Array.New(4)
	for i, v := range value {
		a.SetIndex(i, v)
	}
	c.gl.Call("clearBufferuiv", int(buffer), drawbuffer, a)
}

func (c *Context) ClearColor(r, g, b, a float32) { c.gl.Call("clearColor", r, g, b, a) }
func (c *Context) ClearDepthf(d float32)         { c.gl.Call("clearDepth", d) }
func (c *Context) ClearStencil(s int)            { c.gl.Call("clearStencil", s) }

func (c *Context) ClientWaitSync(s Sync, flags Enum, timeout uint64) Enum {
	return Enum(c.gl.Call("clientWaitSync", c.get(uint32(s)), int(flags), float64(timeout)).Int())
}

func (c *Context) ColorMask(r, g, b, a bool) { c.gl.Call("colorMask", r, g, b, a) }

func (c *Context) CompileShader(s Shader) { c.gl.Call("compileShader", c.get(uint32(s))) }

func (c *Context) CopyBufferSubData(readTarget, writeTarget Enum, readOffset, writeOffset, size int) {
	c.gl.Call("copyBufferSubData", int(readTarget), int(writeTarget), readOffset, writeOffset, size)
}

func (c *Context) CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int) {
	c.gl.Call("copyTexSubImage2D", int(target), level, xoffset, yoffset, x, y, width, height)
}

func (c *Context) CopyTexSubImage3D(target Enum, level, xoffset, yoffset, zoffset, x, y, width, height int) {
	c.gl.Call("copyTexSubImage3D", int(target), level, xoffset, yoffset, zoffset, x, y, width, height)
}

func (c *Context) CreateBuffer() Buffer { return Buffer(c.put(c.gl.Call("createBuffer"))) }

func (c *Context) CreateFramebuffer() Framebuffer {
	return Framebuffer(c.put(c.gl.Call("createFramebuffer")))
}

func (c *Context) CreateProgram() Program { return Program(c.put(c.gl.Call("createProgram"))) }

func (c *Context) CreateRenderbuffer() Renderbuffer {
	return Renderbuffer(c.put(c.gl.Call("createRenderbuffer")))
}

func (c *Context) CreateSampler() Sampler { return Sampler(c.put(c.gl.Call("createSampler"))) }

func (c *Context) CreateShader(ty Enum) Shader {
	return Shader(c.put(c.gl.Call("createShader", int(ty))))
}

func (c *Context) CreateTexture() Texture { return Texture(c.put(c.gl.Call("createTexture"))) }

func (c *Context) CreateVertexArray() VertexArray {
	return VertexArray(c.put(c.gl.Call("createVertexArray")))
}

func (c *Context) CullFace(mode Enum) { c.gl.Call("cullFace", int(mode)) }

func (c *Context) DeleteBuffer(b Buffer) { c.gl.Call("deleteBuffer", c.drop(uint32(b))) }

func (c *Context) DeleteFramebuffer(fb Framebuffer) {
	c.gl.Call("deleteFramebuffer", c.drop(uint32(fb)))
}

func (c *Context) DeleteProgram(p Program) { c.gl.Call("deleteProgram", c.drop(uint32(p))) }

func (c *Context) DeleteRenderbuffer(rb Renderbuffer) {
	c.gl.Call("deleteRenderbuffer", c.drop(uint32(rb)))
}

func (c *Context) DeleteSampler(s Sampler) { c.gl.Call("deleteSampler", c.drop(uint32(s))) }
func (c *Context) DeleteShader(s Shader)   { c.gl.Call("deleteShader", c.drop(uint32(s))) }
func (c *Context) DeleteSync(s Sync)       { c.gl.Call("deleteSync", c.drop(uint32(s))) }
func (c *Context) DeleteTexture(t Texture) { c.gl.Call("deleteTexture", c.drop(uint32(t))) }

func (c *Context) DeleteVertexArray(a VertexArray) {
	c.gl.Call("deleteVertexArray", c.drop(uint32(a)))
}

func (c *Context) DepthFunc(fn Enum)             { c.gl.Call("depthFunc", int(fn)) }
func (c *Context) DepthMask(mask bool)           { c.gl.Call("depthMask", mask) }
func (c *Context) DepthRangef(near, far float32) { c.gl.Call("depthRange", near, far) }
func (c *Context) Disable(cap Enum)              { c.gl.Call("disable", int(cap)) }

func (c *Context) DisableVertexAttribArray(a Attrib) {
	c.gl.Call("disableVertexAttribArray", int(a))
}

func (c *Context) DrawArraysInstanced(mode Enum, first, count, instanceCount int) {
	c.gl.Call("drawArraysInstanced", int(mode), first, count, instanceCount)
}

func (c *Context) DrawBuffers(bufs []Enum) {
	c.scratch.Set("length", 0)
	for _, b := range bufs {
		c.scratch.Call("push", int(b))
	}
	c.gl.Call("drawBuffers", c.scratch)
}

func (c *Context) DrawElementsInstanced(mode Enum, count int, ty Enum, offset, instanceCount int) {
	c.gl.Call("drawElementsInstanced", int(mode), count, int(ty), offset, instanceCount)
}

func (c *Context) Enable(cap Enum) { c.gl.Call("enable", int(cap)) }

func (c *Context) EnableVertexAttribArray(a Attrib) {
	c.gl.Call("enableVertexAttribArray", int(a))
}

func (c *Context) FenceSync(condition Enum, flags Enum) Sync {
	return Sync(c.put(c.gl.Call("fenceSync", int(condition), int(flags))))
}

func (c *Context) FramebufferRenderbuffer(target, attachment, renderbuffertarget Enum, rb Renderbuffer) {
	c.gl.Call("framebufferRenderbuffer", int(target), int(attachment), int(renderbuffertarget), c.get(uint32(rb)))
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	c.gl.Call("framebufferTexture2D", int(target), int(attachment), int(texTarget), c.get(uint32(t)), level)
}

func (c *Context) FramebufferTextureLayer(target, attachment Enum, t Texture, level, layer int) {
	c.gl.Call("framebufferTextureLayer", int(target), int(attachment), c.get(uint32(t)), level, layer)
}

func (c *Context) FrontFace(mode Enum) { c.gl.Call("frontFace", int(mode)) }

func (c *Context) GetActiveUniformBlockParameteri(p Program, blockIndex uint32, pname Enum) int {
	return c.gl.Call("getActiveUniformBlockParameter", c.get(uint32(p)), blockIndex, int(pname)).Int()
}

func (c *Context) GetBufferSubData(target Enum, offset int, dst []byte) {
	a := c.uint8Array.New(len(dst))
	c.gl.Call("getBufferSubData", int(target), offset, a)
	js.CopyBytesToGo(dst, a)
}

func (c *Context) GetExtension(name string) bool {
	ext := c.gl.Call("getExtension", name)
	return !ext.IsNull() && !ext.IsUndefined()
}

func (c *Context) GetInteger(pname Enum) int {
	v := c.gl.Call("getParameter", int(pname))
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Int()
}

func (c *Context) GetProgrami(p Program, pname Enum) int {
	return paramInt(c.gl.Call("getProgramParameter", c.get(uint32(p)), int(pname)))
}

func (c *Context) GetProgramInfoLog(p Program) string {
	return c.gl.Call("getProgramInfoLog", c.get(uint32(p))).String()
}

func (c *Context) GetShaderi(s Shader, pname Enum) int {
	return paramInt(c.gl.Call("getShaderParameter", c.get(uint32(s)), int(pname)))
}

func (c *Context) GetShaderInfoLog(s Shader) string {
	return c.gl.Call("getShaderInfoLog", c.get(uint32(s))).String()
}

func (c *Context) GetUniformBlockIndex(p Program, name string) uint32 {
	return uint32(c.gl.Call("getUniformBlockIndex", c.get(uint32(p)), name).Int())
}

func (c *Context) GetUniformLocation(p Program, name string) Uniform {
	return Uniform(c.put(c.gl.Call("getUniformLocation", c.get(uint32(p)), name)))
}

func (c *Context) InvalidateFramebuffer(target Enum, attachments []Enum) {
	c.scratch.Set("length", 0)
	for _, a := range attachments {
		c.scratch.Call("push", int(a))
	}
	c.gl.Call("invalidateFramebuffer", int(target), c.scratch)
}

func (c *Context) IsContextLost() bool { return c.gl.Call("isContextLost").Bool() }

func (c *Context) LinkProgram(p Program) { c.gl.Call("linkProgram", c.get(uint32(p))) }

func (c *Context) PixelStorei(pname Enum, param int) { c.gl.Call("pixelStorei", int(pname), param) }

func (c *Context) PolygonOffset(factor, units float32) { c.gl.Call("polygonOffset", factor, units) }

func (c *Context) ReadBuffer(src Enum) { c.gl.Call("readBuffer", int(src)) }

func (c *Context) ReadPixels(x, y, width, height int, format, ty Enum, dst []byte) {
	a := c.uint8Array.New(len(dst))
	c.gl.Call("readPixels", x, y, width, height, int(format), int(ty), a)
	js.CopyBytesToGo(dst, a)
}

func (c *Context) ReadPixelsOffset(x, y, width, height int, format, ty Enum, offset int) {
	c.gl.Call("readPixels", x, y, width, height, int(format), int(ty), offset)
}

func (c *Context) RenderbufferStorageMultisample(target Enum, samples int, internalformat Enum, width, height int) {
	c.gl.Call("renderbufferStorageMultisample", int(target), samples, int(internalformat), width, height)
}

func (c *Context) SamplerParameterf(s Sampler, pname Enum, param float32) {
	c.gl.Call("samplerParameterf", c.get(uint32(s)), int(pname), param)
}

func (c *Context) SamplerParameteri(s Sampler, pname Enum, param int) {
	c.gl.Call("samplerParameteri", c.get(uint32(s)), int(pname), param)
}

func (c *Context) Scissor(x, y, width, height int) { c.gl.Call("scissor", x, y, width, height) }

func (c *Context) ShaderSource(s Shader, src string) {
	c.gl.Call("shaderSource", c.get(uint32(s)), src)
}

func (c *Context) StencilFuncSeparate(face, fn Enum, ref int, mask uint32) {
	c.gl.Call("stencilFuncSeparate", int(face), int(fn), ref, mask)
}

func (c *Context) StencilMask(mask uint32) { c.gl.Call("stencilMask", mask) }

func (c *Context) StencilOpSeparate(face, sfail, dpfail, dppass Enum) {
	c.gl.Call("stencilOpSeparate", int(face), int(sfail), int(dpfail), int(dppass))
}

func (c *Context) TexStorage2D(target Enum, levels int, internalformat Enum, width, height int) {
	c.gl.Call("texStorage2D", int(target), levels, int(internalformat), width, height)
}

func (c *Context) TexStorage3D(target Enum, levels int, internalformat Enum, width, height, depth int) {
	c.gl.Call("texStorage3D", int(target), levels, int(internalformat), width, height, depth)
}

func (c *Context) TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte) {
	c.gl.Call("texSubImage2D", int(target), level, x, y, width, height, int(format), int(ty), c.bytes(data))
}

func (c *Context) TexSubImage2DOffset(target Enum, level, x, y, width, height int, format, ty Enum, offset int) {
	c.gl.Call("texSubImage2D", int(target), level, x, y, width, height, int(format), int(ty), offset)
}

func (c *Context) TexSubImage3D(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, data []byte) {
	c.gl.Call("texSubImage3D", int(target), level, x, y, z, width, height, depth, int(format), int(ty), c.bytes(data))
}

func (c *Context) TexSubImage3DOffset(target Enum, level, x, y, z, width, height, depth int, format, ty Enum, offset int) {
	c.gl.Call("texSubImage3D", int(target), level, x, y, z, width, height, depth, int(format), int(ty), offset)
}

func (c *Context) Uniform1i(u Uniform, v int) { c.gl.Call("uniform1i", c.get(uint32(u)), v) }

func (c *Context) UniformBlockBinding(p Program, blockIndex, blockBinding uint32) {
	c.gl.Call("uniformBlockBinding", c.get(uint32(p)), blockIndex, blockBinding)
}

func (c *Context) UseProgram(p Program) { c.gl.Call("useProgram", c.get(uint32(p))) }

func (c *Context) VertexAttribDivisor(a Attrib, divisor int) {
	c.gl.Call("vertexAttribDivisor", int(a), divisor)
}

func (c *Context) VertexAttribIPointer(a Attrib, size int, ty Enum, stride, offset int) {
	c.gl.Call("vertexAttribIPointer", int(a), size, int(ty), stride, offset)
}

func (c *Context) VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", int(a), size, int(ty), normalized, stride, offset)
}

func (c *Context) Viewport(x, y, width, height int) { c.gl.Call("viewport", x, y, width, height) }

// paramInt converts a getXParameter result, which WebGL returns as a
// boolean for status queries and a number otherwise.
func paramInt(v js.Value) int {
	switch v.Type() {
	case js.TypeBoolean:
		if v.Bool() {
			return 1
		}
		return 0
	case js.TypeNumber:
		return v.Int()
	default:
		return 0
	}
}

var _ Functions = (*Context)(nil)
