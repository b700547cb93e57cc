// Package gltest provides a recording gl.Functions implementation.
//
// Context logs every call in order and simulates enough of a WebGL2 context
// for state-machine tests: object creation, framebuffer attachments, clears,
// blits, buffer storage and pixel read-back. Color images are stored as
// 4 bytes per texel regardless of the internal format; depth and stencil
// contents are not simulated.
package gltest

import (
	"fmt"
	"strings"

	"github.com/gogpu/glgpu/internal/gl"
)

// Call is one recorded driver call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := a.(type) {
		case gl.Enum:
			fmt.Fprintf(&b, "0x%04X", uint32(v))
		case []byte:
			fmt.Fprintf(&b, "[%d bytes]", len(v))
		default:
			fmt.Fprint(&b, v)
		}
	}
	b.WriteByte(')')
	return b.String()
}

type image struct {
	width, height, layers int
	internalFormat        gl.Enum
	samples               int
	levels                [][]byte
}

func (im *image) levelSize(level int) (w, h int) {
	w, h = max(im.width>>level, 1), max(im.height>>level, 1)
	return w, h
}

func (im *image) texels(level, layer int) ([]byte, int, int) {
	if im == nil || level >= len(im.levels) {
		return nil, 0, 0
	}
	w, h := im.levelSize(level)
	n := w * h * 4
	data := im.levels[level]
	if (layer+1)*n > len(data) {
		return nil, 0, 0
	}
	return data[layer*n : (layer+1)*n], w, h
}

type attachment struct {
	img          *image
	level, layer int
}

type framebuffer struct {
	attachments map[gl.Enum]attachment
	drawBuffers []gl.Enum
	readBuffer  gl.Enum
}

type program struct {
	shaders []gl.Shader
	blocks  map[string]uint32
	linked  bool
}

type shader struct {
	ty     gl.Enum
	source string
}

// Context is a recording, partially simulating WebGL2 context.
// The zero value is not usable; call New.
type Context struct {
	// Calls is the ordered call log.
	Calls []Call

	// Lost makes IsContextLost report true.
	Lost bool
	// FailCompile and FailLink make status queries report failure.
	FailCompile bool
	FailLink    bool
	// Integers answers GetInteger; missing keys return 0.
	Integers map[gl.Enum]int
	// Extensions lists the extension names GetExtension accepts.
	Extensions map[string]bool
	// BlockSizes answers UNIFORM_BLOCK_DATA_SIZE queries by block name.
	// Unknown names report 16 bytes.
	BlockSizes map[string]int
	// MissingBlocks lists uniform block names GetUniformBlockIndex
	// reports as INVALID_INDEX.
	MissingBlocks map[string]bool
	// PendingPolls is how many ClientWaitSync calls on a new fence report
	// TIMEOUT_EXPIRED before the fence signals.
	PendingPolls int
	// FailSync makes ClientWaitSync report WAIT_FAILED.
	FailSync bool

	next uint32

	buffers       map[gl.Buffer][]byte
	textures      map[gl.Texture]*image
	renderbuffers map[gl.Renderbuffer]*image
	framebuffers  map[gl.Framebuffer]*framebuffer
	programs      map[gl.Program]*program
	shaders       map[gl.Shader]*shader
	syncs         map[gl.Sync]int
	samplers      map[gl.Sampler]bool
	vertexArrays  map[gl.VertexArray]bool
	uniforms      map[gl.Uniform]string

	back     *image
	defaultF *framebuffer

	bufferBindings map[gl.Enum]gl.Buffer
	drawFB, readFB gl.Framebuffer
	renderbuffer   gl.Renderbuffer
	activeUnit     int
	unitTextures   map[int]map[gl.Enum]gl.Texture
	enabled        map[gl.Enum]bool
	clearColor     [4]float32
	colorMask      [4]bool
	scissor        [4]int
	pixelStore     map[gl.Enum]int
}

// New returns a context whose default framebuffer is width x height.
func New(width, height int) *Context {
	c := &Context{
		Integers: map[gl.Enum]int{
			gl.MAX_VERTEX_ATTRIBS:               16,
			gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS: 32,
			gl.MAX_UNIFORM_BUFFER_BINDINGS:      24,
			gl.MAX_SAMPLES:                      4,
			gl.MAX_COLOR_ATTACHMENTS:            8,
			gl.MAX_DRAW_BUFFERS:                 8,
			gl.MAX_TEXTURE_SIZE:                 4096,
			gl.MAX_UNIFORM_BLOCK_SIZE:           16384,
			gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT:  256,
		},
		Extensions:     map[string]bool{},
		BlockSizes:     map[string]int{},
		MissingBlocks:  map[string]bool{},
		buffers:        map[gl.Buffer][]byte{},
		textures:       map[gl.Texture]*image{},
		renderbuffers:  map[gl.Renderbuffer]*image{},
		framebuffers:   map[gl.Framebuffer]*framebuffer{},
		programs:       map[gl.Program]*program{},
		shaders:        map[gl.Shader]*shader{},
		syncs:          map[gl.Sync]int{},
		samplers:       map[gl.Sampler]bool{},
		vertexArrays:   map[gl.VertexArray]bool{},
		uniforms:       map[gl.Uniform]string{},
		bufferBindings: map[gl.Enum]gl.Buffer{},
		unitTextures:   map[int]map[gl.Enum]gl.Texture{},
		enabled:        map[gl.Enum]bool{},
		colorMask:      [4]bool{true, true, true, true},
		pixelStore:     map[gl.Enum]int{},
	}
	c.Resize(width, height)
	return c
}

// Resize replaces the default framebuffer with a cleared one of the given size.
func (c *Context) Resize(width, height int) {
	c.back = newImage(width, height, 1, 1, gl.RGBA8, 1)
	c.defaultF = &framebuffer{
		attachments: map[gl.Enum]attachment{gl.COLOR_ATTACHMENT0: {img: c.back}},
		drawBuffers: []gl.Enum{gl.COLOR_ATTACHMENT0},
		readBuffer:  gl.COLOR_ATTACHMENT0,
	}
	c.scissor = [4]int{0, 0, width, height}
}

func newImage(w, h, layers, levels int, ifmt gl.Enum, samples int) *image {
	im := &image{width: w, height: h, layers: layers, internalFormat: ifmt, samples: samples}
	for l := 0; l < max(levels, 1); l++ {
		lw, lh := im.levelSize(l)
		im.levels = append(im.levels, make([]byte, lw*lh*layers*4))
	}
	return im
}

func (c *Context) record(name string, args ...any) {
	c.Calls = append(c.Calls, Call{Name: name, Args: args})
}

func (c *Context) id() uint32 {
	c.next++
	return c.next
}

// Reset clears the call log. Simulated state is kept.
func (c *Context) Reset() { c.Calls = c.Calls[:0] }

// Count returns how many calls named name were recorded.
func (c *Context) Count(name string) int {
	n := 0
	for _, call := range c.Calls {
		if call.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls whose name is one of names.
func (c *Context) Filter(names ...string) []Call {
	var out []Call
	for _, call := range c.Calls {
		for _, n := range names {
			if call.Name == n {
				out = append(out, call)
				break
			}
		}
	}
	return out
}

// Names returns the names of the recorded calls in order.
func (c *Context) Names() []string {
	out := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		out[i] = call.Name
	}
	return out
}

// Histogram returns the number of calls per name.
func (c *Context) Histogram() map[string]int {
	h := make(map[string]int)
	for _, call := range c.Calls {
		h[call.Name]++
	}
	return h
}

// IsEnabled reports the simulated state of an Enable/Disable capability.
func (c *Context) IsEnabled(cap gl.Enum) bool { return c.enabled[cap] }

// BoundBuffer returns the buffer bound to target.
func (c *Context) BoundBuffer(target gl.Enum) gl.Buffer { return c.bufferBindings[target] }

// BufferContents returns the simulated contents of b.
func (c *Context) BufferContents(b gl.Buffer) []byte { return c.buffers[b] }

// TexturePixels returns the RGBA texels of one level/layer of t.
func (c *Context) TexturePixels(t gl.Texture, level, layer int) []byte {
	px, _, _ := c.textures[t].texels(level, layer)
	return px
}

// RenderbufferPixels returns the RGBA texels of rb.
func (c *Context) RenderbufferPixels(rb gl.Renderbuffer) []byte {
	px, _, _ := c.renderbuffers[rb].texels(0, 0)
	return px
}

// BackBufferPixels returns the RGBA texels of the default framebuffer.
func (c *Context) BackBufferPixels() []byte {
	px, _, _ := c.back.texels(0, 0)
	return px
}

// Live reports the number of undeleted objects of every kind.
func (c *Context) Live() int {
	return len(c.buffers) + len(c.textures) + len(c.renderbuffers) + len(c.framebuffers) +
		len(c.programs) + len(c.shaders) + len(c.syncs) + len(c.samplers) + len(c.vertexArrays)
}

func (c *Context) fb(target gl.Enum) *framebuffer {
	var id gl.Framebuffer
	if target == gl.READ_FRAMEBUFFER {
		id = c.readFB
	} else {
		id = c.drawFB
	}
	if id == 0 {
		return c.defaultF
	}
	return c.framebuffers[id]
}

func (c *Context) boundTexture(target gl.Enum) *image {
	return c.textures[c.unitTextures[c.activeUnit][target]]
}

func (c *Context) fill(a attachment, value [4]byte) {
	px, w, h := a.img.texels(a.level, a.layer)
	if px == nil {
		return
	}
	x0, y0, x1, y1 := 0, 0, w, h
	if c.enabled[gl.SCISSOR_TEST] {
		x0, y0 = max(x0, c.scissor[0]), max(y0, c.scissor[1])
		x1, y1 = min(x1, c.scissor[0]+c.scissor[2]), min(y1, c.scissor[1]+c.scissor[3])
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			o := (y*w + x) * 4
			for i := 0; i < 4; i++ {
				if c.colorMask[i] {
					px[o+i] = value[i]
				}
			}
		}
	}
}

func unorm(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}

func (c *Context) drawAttachment(drawbuffer int) (attachment, bool) {
	f := c.fb(gl.DRAW_FRAMEBUFFER)
	if f == nil || drawbuffer >= len(f.drawBuffers) {
		return attachment{}, false
	}
	a, ok := f.attachments[f.drawBuffers[drawbuffer]]
	return a, ok
}

func (c *Context) readAttachment() (attachment, bool) {
	f := c.fb(gl.READ_FRAMEBUFFER)
	if f == nil {
		return attachment{}, false
	}
	a, ok := f.attachments[f.readBuffer]
	return a, ok
}

func (c *Context) ActiveTexture(texture gl.Enum) {
	c.record("ActiveTexture", texture)
	c.activeUnit = int(texture - gl.TEXTURE0)
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	c.record("AttachShader", p, s)
	if prog := c.programs[p]; prog != nil {
		prog.shaders = append(prog.shaders, s)
	}
}

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	c.record("BindBuffer", target, b)
	c.bufferBindings[target] = b
}

func (c *Context) BindBufferRange(target gl.Enum, index int, b gl.Buffer, offset, size int) {
	c.record("BindBufferRange", target, index, b, offset, size)
	c.bufferBindings[target] = b
}

func (c *Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	c.record("BindFramebuffer", target, fb)
	switch target {
	case gl.READ_FRAMEBUFFER:
		c.readFB = fb
	case gl.DRAW_FRAMEBUFFER:
		c.drawFB = fb
	default:
		c.readFB, c.drawFB = fb, fb
	}
}

func (c *Context) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	c.record("BindRenderbuffer", target, rb)
	c.renderbuffer = rb
}

func (c *Context) BindSampler(unit int, s gl.Sampler) { c.record("BindSampler", unit, s) }

func (c *Context) BindTexture(target gl.Enum, t gl.Texture) {
	c.record("BindTexture", target, t)
	m := c.unitTextures[c.activeUnit]
	if m == nil {
		m = map[gl.Enum]gl.Texture{}
		c.unitTextures[c.activeUnit] = m
	}
	m[target] = t
}

func (c *Context) BindVertexArray(a gl.VertexArray) { c.record("BindVertexArray", a) }

func (c *Context) BlendColor(r, g, b, a float32) { c.record("BlendColor", r, g, b, a) }

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	c.record("BlendEquationSeparate", modeRGB, modeAlpha)
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcA, dstA gl.Enum) {
	c.record("BlendFuncSeparate", srcRGB, dstRGB, srcA, dstA)
}

func (c *Context) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask gl.Enum, filter gl.Enum) {
	c.record("BlitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, mask, filter)
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	src, ok := c.readAttachment()
	if !ok {
		return
	}
	spx, sw, _ := src.img.texels(src.level, src.layer)
	dstF := c.fb(gl.DRAW_FRAMEBUFFER)
	if spx == nil || dstF == nil || dx1 == dx0 || dy1 == dy0 {
		return
	}
	for _, db := range dstF.drawBuffers {
		dst, ok := dstF.attachments[db]
		if !ok {
			continue
		}
		dpx, dw, dh := dst.img.texels(dst.level, dst.layer)
		for y := min(dy0, dy1); y < max(dy0, dy1); y++ {
			for x := min(dx0, dx1); x < max(dx0, dx1); x++ {
				if x < 0 || y < 0 || x >= dw || y >= dh {
					continue
				}
				sx := sx0 + (x-dx0)*(sx1-sx0)/(dx1-dx0)
				sy := sy0 + (y-dy0)*(sy1-sy0)/(dy1-dy0)
				so := (sy*sw + sx) * 4
				if so < 0 || so+4 > len(spx) {
					continue
				}
				copy(dpx[(y*dw+x)*4:], spx[so:so+4])
			}
		}
	}
}

func (c *Context) BufferData(target gl.Enum, size int, usage gl.Enum) {
	c.record("BufferData", target, size, usage)
	if b := c.bufferBindings[target]; b != 0 {
		c.buffers[b] = make([]byte, size)
	}
}

func (c *Context) BufferSubData(target gl.Enum, offset int, src []byte) {
	c.record("BufferSubData", target, offset, src)
	if data := c.buffers[c.bufferBindings[target]]; offset+len(src) <= len(data) {
		copy(data[offset:], src)
	}
}

func (c *Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	c.record("CheckFramebufferStatus", target)
	f := c.fb(target)
	if f == nil || len(f.attachments) == 0 {
		return gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	samples := -1
	for _, a := range f.attachments {
		if samples >= 0 && a.img.samples != samples {
			return gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE
		}
		samples = a.img.samples
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (c *Context) Clear(mask gl.Enum) {
	c.record("Clear", mask)
	if mask&gl.COLOR_BUFFER_BIT == 0 {
		return
	}
	v := [4]byte{unorm(c.clearColor[0]), unorm(c.clearColor[1]), unorm(c.clearColor[2]), unorm(c.clearColor[3])}
	f := c.fb(gl.DRAW_FRAMEBUFFER)
	if f == nil {
		return
	}
	for _, db := range f.drawBuffers {
		if a, ok := f.attachments[db]; ok {
			c.fill(a, v)
		}
	}
}

func (c *Context) ClearBufferfi(buffer gl.Enum, drawbuffer int, depth float32, stencil int) {
	c.record("ClearBufferfi", buffer, drawbuffer, depth, stencil)
}

func (c *Context) ClearBufferfv(buffer gl.Enum, drawbuffer int, value [4]float32) {
	c.record("ClearBufferfv", buffer, drawbuffer, value)
	if buffer != gl.COLOR {
		return
	}
	if a, ok := c.drawAttachment(drawbuffer); ok {
		c.fill(a, [4]byte{unorm(value[0]), unorm(value[1]), unorm(value[2]), unorm(value[3])})
	}
}

func (c *Context) ClearBufferiv(buffer gl.Enum, drawbuffer int, value [4]int32) {
	c.record("ClearBufferiv", buffer, drawbuffer, value)
	if buffer != gl.COLOR {
		return
	}
	if a, ok := c.drawAttachment(drawbuffer); ok {
		c.fill(a, [4]byte{byte(value[0]), byte(value[1]), byte(value[2]), byte(value[3])})
	}
}

func (c *Context) ClearBufferuiv(buffer gl.Enum, drawbuffer int, value [4]uint32) {
	c.record("ClearBufferuiv", buffer, drawbuffer, value)
	if buffer != gl.COLOR {
		return
	}
	if a, ok := c.drawAttachment(drawbuffer); ok {
		c.fill(a, [4]byte{byte(value[0]), byte(value[1]), byte(value[2]), byte(value[3])})
	}
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor", r, g, b, a)
	c.clearColor = [4]float32{r, g, b, a}
}

func (c *Context) ClearDepthf(d float32) { c.record("ClearDepthf", d) }
func (c *Context) ClearStencil(s int)    { c.record("ClearStencil", s) }

func (c *Context) ClientWaitSync(s gl.Sync, flags gl.Enum, timeout uint64) gl.Enum {
	c.record("ClientWaitSync", s, flags, timeout)
	if c.FailSync || c.Lost {
		return gl.WAIT_FAILED
	}
	left, ok := c.syncs[s]
	if !ok {
		return gl.WAIT_FAILED
	}
	if left > 0 {
		c.syncs[s] = left - 1
		return gl.TIMEOUT_EXPIRED
	}
	return gl.ALREADY_SIGNALED
}

func (c *Context) ColorMask(r, g, b, a bool) {
	c.record("ColorMask", r, g, b, a)
	c.colorMask = [4]bool{r, g, b, a}
}

func (c *Context) CompileShader(s gl.Shader) { c.record("CompileShader", s) }

func (c *Context) CopyBufferSubData(readTarget, writeTarget gl.Enum, readOffset, writeOffset, size int) {
	c.record("CopyBufferSubData", readTarget, writeTarget, readOffset, writeOffset, size)
	src := c.buffers[c.bufferBindings[readTarget]]
	dst := c.buffers[c.bufferBindings[writeTarget]]
	if readOffset+size <= len(src) && writeOffset+size <= len(dst) {
		copy(dst[writeOffset:writeOffset+size], src[readOffset:readOffset+size])
	}
}

func (c *Context) copyTexSub(target gl.Enum, level, xoff, yoff, layer, x, y, w, h int) {
	src, ok := c.readAttachment()
	dst := c.boundTexture(target)
	if !ok || dst == nil {
		return
	}
	spx, sw, _ := src.img.texels(src.level, src.layer)
	dpx, dw, _ := dst.texels(level, layer)
	if spx == nil || dpx == nil {
		return
	}
	for row := 0; row < h; row++ {
		so := ((y+row)*sw + x) * 4
		do := ((yoff+row)*dw + xoff) * 4
		if so+w*4 > len(spx) || do+w*4 > len(dpx) {
			return
		}
		copy(dpx[do:do+w*4], spx[so:so+w*4])
	}
}

func (c *Context) CopyTexSubImage2D(target gl.Enum, level, xoffset, yoffset, x, y, width, height int) {
	c.record("CopyTexSubImage2D", target, level, xoffset, yoffset, x, y, width, height)
	c.copyTexSub(target, level, xoffset, yoffset, 0, x, y, width, height)
}

func (c *Context) CopyTexSubImage3D(target gl.Enum, level, xoffset, yoffset, zoffset, x, y, width, height int) {
	c.record("CopyTexSubImage3D", target, level, xoffset, yoffset, zoffset, x, y, width, height)
	c.copyTexSub(target, level, xoffset, yoffset, zoffset, x, y, width, height)
}

func (c *Context) CreateBuffer() gl.Buffer {
	b := gl.Buffer(c.id())
	c.record("CreateBuffer", b)
	c.buffers[b] = nil
	return b
}

func (c *Context) CreateFramebuffer() gl.Framebuffer {
	fb := gl.Framebuffer(c.id())
	c.record("CreateFramebuffer", fb)
	c.framebuffers[fb] = &framebuffer{
		attachments: map[gl.Enum]attachment{},
		drawBuffers: []gl.Enum{gl.COLOR_ATTACHMENT0},
		readBuffer:  gl.COLOR_ATTACHMENT0,
	}
	return fb
}

func (c *Context) CreateProgram() gl.Program {
	p := gl.Program(c.id())
	c.record("CreateProgram", p)
	c.programs[p] = &program{blocks: map[string]uint32{}}
	return p
}

func (c *Context) CreateRenderbuffer() gl.Renderbuffer {
	rb := gl.Renderbuffer(c.id())
	c.record("CreateRenderbuffer", rb)
	c.renderbuffers[rb] = nil
	return rb
}

func (c *Context) CreateSampler() gl.Sampler {
	s := gl.Sampler(c.id())
	c.record("CreateSampler", s)
	c.samplers[s] = true
	return s
}

func (c *Context) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader(c.id())
	c.record("CreateShader", ty, s)
	c.shaders[s] = &shader{ty: ty}
	return s
}

func (c *Context) CreateTexture() gl.Texture {
	t := gl.Texture(c.id())
	c.record("CreateTexture", t)
	c.textures[t] = nil
	return t
}

func (c *Context) CreateVertexArray() gl.VertexArray {
	a := gl.VertexArray(c.id())
	c.record("CreateVertexArray", a)
	c.vertexArrays[a] = true
	return a
}

func (c *Context) CullFace(mode gl.Enum) { c.record("CullFace", mode) }

func (c *Context) DeleteBuffer(b gl.Buffer) {
	c.record("DeleteBuffer", b)
	delete(c.buffers, b)
	for t, bound := range c.bufferBindings {
		if bound == b {
			c.bufferBindings[t] = 0
		}
	}
}

func (c *Context) DeleteFramebuffer(fb gl.Framebuffer) {
	c.record("DeleteFramebuffer", fb)
	delete(c.framebuffers, fb)
	if c.drawFB == fb {
		c.drawFB = 0
	}
	if c.readFB == fb {
		c.readFB = 0
	}
}

func (c *Context) DeleteProgram(p gl.Program) {
	c.record("DeleteProgram", p)
	delete(c.programs, p)
}

func (c *Context) DeleteRenderbuffer(rb gl.Renderbuffer) {
	c.record("DeleteRenderbuffer", rb)
	delete(c.renderbuffers, rb)
}

func (c *Context) DeleteSampler(s gl.Sampler) {
	c.record("DeleteSampler", s)
	delete(c.samplers, s)
}

func (c *Context) DeleteShader(s gl.Shader) {
	c.record("DeleteShader", s)
	delete(c.shaders, s)
}

func (c *Context) DeleteSync(s gl.Sync) {
	c.record("DeleteSync", s)
	delete(c.syncs, s)
}

func (c *Context) DeleteTexture(t gl.Texture) {
	c.record("DeleteTexture", t)
	delete(c.textures, t)
}

func (c *Context) DeleteVertexArray(a gl.VertexArray) {
	c.record("DeleteVertexArray", a)
	delete(c.vertexArrays, a)
}

func (c *Context) DepthFunc(fn gl.Enum)                 { c.record("DepthFunc", fn) }
func (c *Context) DepthMask(mask bool)                  { c.record("DepthMask", mask) }
func (c *Context) DepthRangef(near, far float32)        { c.record("DepthRangef", near, far) }
func (c *Context) DisableVertexAttribArray(a gl.Attrib) { c.record("DisableVertexAttribArray", a) }

func (c *Context) Disable(cap gl.Enum) {
	c.record("Disable", cap)
	c.enabled[cap] = false
}

func (c *Context) DrawArraysInstanced(mode gl.Enum, first, count, instanceCount int) {
	c.record("DrawArraysInstanced", mode, first, count, instanceCount)
}

func (c *Context) DrawBuffers(bufs []gl.Enum) {
	c.record("DrawBuffers", append([]gl.Enum(nil), bufs...))
	if f := c.fb(gl.DRAW_FRAMEBUFFER); f != nil && f != c.defaultF {
		f.drawBuffers = append([]gl.Enum(nil), bufs...)
	}
}

func (c *Context) DrawElementsInstanced(mode gl.Enum, count int, ty gl.Enum, offset, instanceCount int) {
	c.record("DrawElementsInstanced", mode, count, ty, offset, instanceCount)
}

func (c *Context) Enable(cap gl.Enum) {
	c.record("Enable", cap)
	c.enabled[cap] = true
}

func (c *Context) EnableVertexAttribArray(a gl.Attrib) { c.record("EnableVertexAttribArray", a) }

func (c *Context) FenceSync(condition gl.Enum, flags gl.Enum) gl.Sync {
	s := gl.Sync(c.id())
	c.record("FenceSync", condition, flags, s)
	c.syncs[s] = c.PendingPolls
	return s
}

func (c *Context) attach(target, point gl.Enum, a attachment) {
	f := c.fb(target)
	if f == nil || f == c.defaultF {
		return
	}
	if a.img == nil {
		delete(f.attachments, point)
		return
	}
	f.attachments[point] = a
}

func (c *Context) FramebufferRenderbuffer(target, point, renderbuffertarget gl.Enum, rb gl.Renderbuffer) {
	c.record("FramebufferRenderbuffer", target, point, renderbuffertarget, rb)
	c.attach(target, point, attachment{img: c.renderbuffers[rb]})
}

func (c *Context) FramebufferTexture2D(target, point, texTarget gl.Enum, t gl.Texture, level int) {
	c.record("FramebufferTexture2D", target, point, texTarget, t, level)
	c.attach(target, point, attachment{img: c.textures[t], level: level})
}

func (c *Context) FramebufferTextureLayer(target, point gl.Enum, t gl.Texture, level, layer int) {
	c.record("FramebufferTextureLayer", target, point, t, level, layer)
	c.attach(target, point, attachment{img: c.textures[t], level: level, layer: layer})
}

func (c *Context) FrontFace(mode gl.Enum) { c.record("FrontFace", mode) }

func (c *Context) GetActiveUniformBlockParameteri(p gl.Program, blockIndex uint32, pname gl.Enum) int {
	c.record("GetActiveUniformBlockParameteri", p, blockIndex, pname)
	prog := c.programs[p]
	if prog == nil || pname != gl.UNIFORM_BLOCK_DATA_SIZE {
		return 0
	}
	for name, idx := range prog.blocks {
		if idx == blockIndex {
			if size, ok := c.BlockSizes[name]; ok {
				return size
			}
			return 16
		}
	}
	return 0
}

func (c *Context) GetBufferSubData(target gl.Enum, offset int, dst []byte) {
	c.record("GetBufferSubData", target, offset, len(dst))
	if data := c.buffers[c.bufferBindings[target]]; offset+len(dst) <= len(data) {
		copy(dst, data[offset:])
	}
}

func (c *Context) GetExtension(name string) bool {
	c.record("GetExtension", name)
	return c.Extensions[name]
}

func (c *Context) GetInteger(pname gl.Enum) int {
	c.record("GetInteger", pname)
	return c.Integers[pname]
}

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int {
	c.record("GetProgrami", p, pname)
	if pname == gl.LINK_STATUS && (c.FailLink || c.Lost) {
		return 0
	}
	return 1
}

func (c *Context) GetProgramInfoLog(p gl.Program) string {
	if c.FailLink {
		return "link failed"
	}
	return ""
}

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int {
	c.record("GetShaderi", s, pname)
	if pname == gl.COMPILE_STATUS && (c.FailCompile || c.Lost) {
		return 0
	}
	return 1
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string {
	if c.FailCompile {
		return "compile failed"
	}
	return ""
}

func (c *Context) GetUniformBlockIndex(p gl.Program, name string) uint32 {
	c.record("GetUniformBlockIndex", p, name)
	prog := c.programs[p]
	if prog == nil || c.MissingBlocks[name] {
		return gl.INVALID_INDEX
	}
	idx, ok := prog.blocks[name]
	if !ok {
		idx = uint32(len(prog.blocks))
		prog.blocks[name] = idx
	}
	return idx
}

func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	u := gl.Uniform(c.id())
	c.record("GetUniformLocation", p, name, u)
	c.uniforms[u] = name
	return u
}

func (c *Context) InvalidateFramebuffer(target gl.Enum, attachments []gl.Enum) {
	c.record("InvalidateFramebuffer", target, append([]gl.Enum(nil), attachments...))
}

func (c *Context) IsContextLost() bool { return c.Lost }

func (c *Context) LinkProgram(p gl.Program) {
	c.record("LinkProgram", p)
	if prog := c.programs[p]; prog != nil {
		prog.linked = !c.FailLink
	}
}

func (c *Context) PixelStorei(pname gl.Enum, param int) {
	c.record("PixelStorei", pname, param)
	c.pixelStore[pname] = param
}

func (c *Context) PolygonOffset(factor, units float32) { c.record("PolygonOffset", factor, units) }

func (c *Context) ReadBuffer(src gl.Enum) {
	c.record("ReadBuffer", src)
	if f := c.fb(gl.READ_FRAMEBUFFER); f != nil && f != c.defaultF {
		f.readBuffer = src
	}
}

func (c *Context) readPixels(x, y, w, h int, format, ty gl.Enum, dst []byte) {
	if format != gl.RGBA || ty != gl.UNSIGNED_BYTE {
		return
	}
	src, ok := c.readAttachment()
	if !ok {
		return
	}
	spx, sw, sh := src.img.texels(src.level, src.layer)
	rowLen := w
	if n := c.pixelStore[gl.PACK_ROW_LENGTH]; n > 0 {
		rowLen = n
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			sx, sy := x+col, y+row
			if sx < 0 || sy < 0 || sx >= sw || sy >= sh {
				continue
			}
			do := (row*rowLen + col) * 4
			if do+4 > len(dst) {
				return
			}
			copy(dst[do:do+4], spx[(sy*sw+sx)*4:])
		}
	}
}

func (c *Context) ReadPixels(x, y, width, height int, format, ty gl.Enum, dst []byte) {
	c.record("ReadPixels", x, y, width, height, format, ty, len(dst))
	c.readPixels(x, y, width, height, format, ty, dst)
}

func (c *Context) ReadPixelsOffset(x, y, width, height int, format, ty gl.Enum, offset int) {
	c.record("ReadPixelsOffset", x, y, width, height, format, ty, offset)
	if data := c.buffers[c.bufferBindings[gl.PIXEL_PACK_BUFFER]]; offset <= len(data) {
		c.readPixels(x, y, width, height, format, ty, data[offset:])
	}
}

func (c *Context) RenderbufferStorageMultisample(target gl.Enum, samples int, internalformat gl.Enum, width, height int) {
	c.record("RenderbufferStorageMultisample", target, samples, internalformat, width, height)
	if _, ok := c.renderbuffers[c.renderbuffer]; ok && c.renderbuffer != 0 {
		c.renderbuffers[c.renderbuffer] = newImage(width, height, 1, 1, internalformat, max(samples, 1))
	}
}

func (c *Context) SamplerParameterf(s gl.Sampler, pname gl.Enum, param float32) {
	c.record("SamplerParameterf", s, pname, param)
}

func (c *Context) SamplerParameteri(s gl.Sampler, pname gl.Enum, param int) {
	c.record("SamplerParameteri", s, pname, param)
}

func (c *Context) Scissor(x, y, width, height int) {
	c.record("Scissor", x, y, width, height)
	c.scissor = [4]int{x, y, width, height}
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	c.record("ShaderSource", s, src)
	if sh := c.shaders[s]; sh != nil {
		sh.source = src
	}
}

func (c *Context) StencilFuncSeparate(face, fn gl.Enum, ref int, mask uint32) {
	c.record("StencilFuncSeparate", face, fn, ref, mask)
}

func (c *Context) StencilMask(mask uint32) { c.record("StencilMask", mask) }

func (c *Context) StencilOpSeparate(face, sfail, dpfail, dppass gl.Enum) {
	c.record("StencilOpSeparate", face, sfail, dpfail, dppass)
}

func (c *Context) storeTexture(target gl.Enum, levels int, ifmt gl.Enum, w, h, layers int) {
	t := c.unitTextures[c.activeUnit][target]
	if _, ok := c.textures[t]; ok && t != 0 {
		c.textures[t] = newImage(w, h, layers, levels, ifmt, 1)
	}
}

func (c *Context) TexStorage2D(target gl.Enum, levels int, internalformat gl.Enum, width, height int) {
	c.record("TexStorage2D", target, levels, internalformat, width, height)
	c.storeTexture(target, levels, internalformat, width, height, 1)
}

func (c *Context) TexStorage3D(target gl.Enum, levels int, internalformat gl.Enum, width, height, depth int) {
	c.record("TexStorage3D", target, levels, internalformat, width, height, depth)
	c.storeTexture(target, levels, internalformat, width, height, depth)
}

func (c *Context) upload(target gl.Enum, level, x, y, z, w, h, d int, format, ty gl.Enum, data []byte) {
	im := c.boundTexture(target)
	if im == nil || format != gl.RGBA || ty != gl.UNSIGNED_BYTE {
		return
	}
	rowLen := w
	if n := c.pixelStore[gl.UNPACK_ROW_LENGTH]; n > 0 {
		rowLen = n
	}
	imgHeight := h
	if n := c.pixelStore[gl.UNPACK_IMAGE_HEIGHT]; n > 0 {
		imgHeight = n
	}
	for layer := 0; layer < d; layer++ {
		dpx, dw, _ := im.texels(level, z+layer)
		if dpx == nil {
			return
		}
		for row := 0; row < h; row++ {
			so := ((layer*imgHeight + row) * rowLen) * 4
			do := ((y+row)*dw + x) * 4
			if so+w*4 > len(data) || do+w*4 > len(dpx) {
				return
			}
			copy(dpx[do:do+w*4], data[so:so+w*4])
		}
	}
}

func (c *Context) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, data []byte) {
	c.record("TexSubImage2D", target, level, x, y, width, height, format, ty, data)
	c.upload(target, level, x, y, 0, width, height, 1, format, ty, data)
}

func (c *Context) TexSubImage2DOffset(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, offset int) {
	c.record("TexSubImage2DOffset", target, level, x, y, width, height, format, ty, offset)
	if data := c.buffers[c.bufferBindings[gl.PIXEL_UNPACK_BUFFER]]; offset <= len(data) {
		c.upload(target, level, x, y, 0, width, height, 1, format, ty, data[offset:])
	}
}

func (c *Context) TexSubImage3D(target gl.Enum, level, x, y, z, width, height, depth int, format, ty gl.Enum, data []byte) {
	c.record("TexSubImage3D", target, level, x, y, z, width, height, depth, format, ty, data)
	c.upload(target, level, x, y, z, width, height, depth, format, ty, data)
}

func (c *Context) TexSubImage3DOffset(target gl.Enum, level, x, y, z, width, height, depth int, format, ty gl.Enum, offset int) {
	c.record("TexSubImage3DOffset", target, level, x, y, z, width, height, depth, format, ty, offset)
	if data := c.buffers[c.bufferBindings[gl.PIXEL_UNPACK_BUFFER]]; offset <= len(data) {
		c.upload(target, level, x, y, z, width, height, depth, format, ty, data[offset:])
	}
}

func (c *Context) Uniform1i(u gl.Uniform, v int) { c.record("Uniform1i", u, v) }

func (c *Context) UniformBlockBinding(p gl.Program, blockIndex, blockBinding uint32) {
	c.record("UniformBlockBinding", p, blockIndex, blockBinding)
}

func (c *Context) UseProgram(p gl.Program) { c.record("UseProgram", p) }

func (c *Context) VertexAttribDivisor(a gl.Attrib, divisor int) {
	c.record("VertexAttribDivisor", a, divisor)
}

func (c *Context) VertexAttribIPointer(a gl.Attrib, size int, ty gl.Enum, stride, offset int) {
	c.record("VertexAttribIPointer", a, size, ty, stride, offset)
}

func (c *Context) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer", a, size, ty, normalized, stride, offset)
}

func (c *Context) Viewport(x, y, width, height int) { c.record("Viewport", x, y, width, height) }

var _ gl.Functions = (*Context)(nil)
