package webgl

import (
	"github.com/gogpu/glgpu/internal/gl"
)

// StencilFace is the per-face stencil configuration in driver enums.
type StencilFace struct {
	Compare   gl.Enum
	Fail      gl.Enum
	DepthFail gl.Enum
	Pass      gl.Enum
}

// PipelineState is the fixed-function state a RenderPipeline bakes at
// creation. Values are stored as driver enums so that diffing two states
// compares exactly what the driver sees.
//
// Axes that are switched off (culling, stencil, blending, depth bias) hold
// normalized values, so two pipelines that both disable an axis never
// differ on it.
type PipelineState struct {
	FrontFace       gl.Enum
	CullEnabled     bool
	CullFace        gl.Enum
	AlphaToCoverage bool

	DepthTest    bool
	DepthWrite   bool
	DepthCompare gl.Enum

	DepthBias           float32
	DepthBiasSlopeScale float32

	StencilTest      bool
	StencilFront     StencilFace
	StencilBack      StencilFace
	StencilReadMask  uint32
	StencilWriteMask uint32

	BlendEnabled  bool
	BlendColorOp  gl.Enum
	BlendAlphaOp  gl.Enum
	BlendSrcColor gl.Enum
	BlendDstColor gl.Enum
	BlendSrcAlpha gl.Enum
	BlendDstAlpha gl.Enum
	ColorMask     [4]bool
}

var defaultStencilFace = StencilFace{Compare: gl.ALWAYS, Fail: gl.KEEP, DepthFail: gl.KEEP, Pass: gl.KEEP}

// DefaultPipelineState returns the state of a pipeline with no depth-stencil
// state, no culling and no blending. It is what a fresh context holds,
// except that the depth write mask is off.
func DefaultPipelineState() PipelineState {
	return PipelineState{
		FrontFace:        gl.CCW,
		CullFace:         gl.BACK,
		DepthCompare:     gl.ALWAYS,
		StencilFront:     defaultStencilFace,
		StencilBack:      defaultStencilFace,
		StencilReadMask:  0xFF,
		StencilWriteMask: 0xFF,
		BlendColorOp:     gl.FUNC_ADD,
		BlendAlphaOp:     gl.FUNC_ADD,
		BlendSrcColor:    gl.ONE,
		BlendDstColor:    gl.ZERO,
		BlendSrcAlpha:    gl.ONE,
		BlendDstAlpha:    gl.ZERO,
		ColorMask:        [4]bool{true, true, true, true},
	}
}

func setCap(f gl.Functions, cap gl.Enum, enable bool) {
	if enable {
		f.Enable(cap)
	} else {
		f.Disable(cap)
	}
}

// applyPipelineState emits the driver calls that move the context from prev
// to next, then stores next into prev. With force every axis is emitted.
// The stencil reference is not part of PipelineState; it is combined with
// the compare functions and read mask of next whenever those change.
func applyPipelineState(f gl.Functions, prev *PipelineState, next *PipelineState, stencilRef int, force bool) {
	if force || prev.FrontFace != next.FrontFace {
		f.FrontFace(next.FrontFace)
	}
	if force || prev.CullEnabled != next.CullEnabled {
		setCap(f, gl.CULL_FACE, next.CullEnabled)
	}
	if force || prev.CullFace != next.CullFace {
		f.CullFace(next.CullFace)
	}
	if force || prev.AlphaToCoverage != next.AlphaToCoverage {
		setCap(f, gl.SAMPLE_ALPHA_TO_COVERAGE, next.AlphaToCoverage)
	}

	if force || prev.DepthTest != next.DepthTest {
		setCap(f, gl.DEPTH_TEST, next.DepthTest)
	}
	if force || prev.DepthWrite != next.DepthWrite {
		f.DepthMask(next.DepthWrite)
	}
	if force || prev.DepthCompare != next.DepthCompare {
		f.DepthFunc(next.DepthCompare)
	}

	prevBias := prev.DepthBias != 0 || prev.DepthBiasSlopeScale != 0
	nextBias := next.DepthBias != 0 || next.DepthBiasSlopeScale != 0
	if force || prevBias != nextBias {
		setCap(f, gl.POLYGON_OFFSET_FILL, nextBias)
	}
	if force || prev.DepthBias != next.DepthBias || prev.DepthBiasSlopeScale != next.DepthBiasSlopeScale {
		f.PolygonOffset(next.DepthBiasSlopeScale, next.DepthBias)
	}

	if force || prev.StencilTest != next.StencilTest {
		setCap(f, gl.STENCIL_TEST, next.StencilTest)
	}
	readMaskChanged := prev.StencilReadMask != next.StencilReadMask
	if force || readMaskChanged || prev.StencilFront.Compare != next.StencilFront.Compare {
		f.StencilFuncSeparate(gl.FRONT, next.StencilFront.Compare, stencilRef, next.StencilReadMask)
	}
	if force || readMaskChanged || prev.StencilBack.Compare != next.StencilBack.Compare {
		f.StencilFuncSeparate(gl.BACK, next.StencilBack.Compare, stencilRef, next.StencilReadMask)
	}
	if force || !sameStencilOps(prev.StencilFront, next.StencilFront) {
		f.StencilOpSeparate(gl.FRONT, next.StencilFront.Fail, next.StencilFront.DepthFail, next.StencilFront.Pass)
	}
	if force || !sameStencilOps(prev.StencilBack, next.StencilBack) {
		f.StencilOpSeparate(gl.BACK, next.StencilBack.Fail, next.StencilBack.DepthFail, next.StencilBack.Pass)
	}
	if force || prev.StencilWriteMask != next.StencilWriteMask {
		f.StencilMask(next.StencilWriteMask)
	}

	if force || prev.BlendEnabled != next.BlendEnabled {
		setCap(f, gl.BLEND, next.BlendEnabled)
	}
	if force || prev.BlendColorOp != next.BlendColorOp || prev.BlendAlphaOp != next.BlendAlphaOp {
		f.BlendEquationSeparate(next.BlendColorOp, next.BlendAlphaOp)
	}
	if force || prev.BlendSrcColor != next.BlendSrcColor || prev.BlendDstColor != next.BlendDstColor ||
		prev.BlendSrcAlpha != next.BlendSrcAlpha || prev.BlendDstAlpha != next.BlendDstAlpha {
		f.BlendFuncSeparate(next.BlendSrcColor, next.BlendDstColor, next.BlendSrcAlpha, next.BlendDstAlpha)
	}
	if force || prev.ColorMask != next.ColorMask {
		f.ColorMask(next.ColorMask[0], next.ColorMask[1], next.ColorMask[2], next.ColorMask[3])
	}

	*prev = *next
}

func sameStencilOps(a, b StencilFace) bool {
	return a.Fail == b.Fail && a.DepthFail == b.DepthFail && a.Pass == b.Pass
}

type bufferRange struct {
	buffer       gl.Buffer
	offset, size int
}

type textureBinding struct {
	target  gl.Enum
	texture gl.Texture
}

// stateCache mirrors every piece of context state the backend sets, so
// that each setter only reaches the driver when the value changes.
// It is owned by one Device and passed explicitly; nothing here is global.
type stateCache struct {
	f gl.Functions

	applied    PipelineState
	stencilRef int
	blendColor [4]float32

	viewport    [4]int
	depthRange  [2]float32
	scissor     [4]int
	scissorTest bool

	clearColor   [4]float32
	clearDepth   float32
	clearStencil int

	drawFB, readFB gl.Framebuffer
	renderbuffer   gl.Renderbuffer
	program        gl.Program
	buffers        map[gl.Enum]gl.Buffer
	uniformRanges  []bufferRange
	activeUnit     int
	textures       []textureBinding
	samplers       []gl.Sampler
	pixelStore     map[gl.Enum]int
}

func newStateCache(f gl.Functions, maxUniformBindings, maxTextureUnits int) *stateCache {
	return &stateCache{
		f:       f,
		applied: DefaultPipelineState(),
		// The initial viewport and scissor are the drawing buffer size,
		// which is not known here; -1 never matches a real rectangle.
		viewport:      [4]int{-1, -1, -1, -1},
		scissor:       [4]int{-1, -1, -1, -1},
		depthRange:    [2]float32{0, 1},
		clearDepth:    1,
		buffers:       make(map[gl.Enum]gl.Buffer),
		uniformRanges: make([]bufferRange, maxUniformBindings),
		textures:      make([]textureBinding, maxTextureUnits),
		samplers:      make([]gl.Sampler, maxTextureUnits),
		pixelStore: map[gl.Enum]int{
			gl.UNPACK_ALIGNMENT: 4,
			gl.PACK_ALIGNMENT:   4,
		},
	}
}

// reset forces every pipeline state axis onto the driver. Used once at
// device creation, when the context holds unknown state.
func (s *stateCache) reset() {
	def := DefaultPipelineState()
	applyPipelineState(s.f, &s.applied, &def, s.stencilRef, true)
}

func (s *stateCache) applyPipeline(next *PipelineState) {
	applyPipelineState(s.f, &s.applied, next, s.stencilRef, false)
}

// setStencilReference re-issues the stencil functions with the cached
// compare functions and read mask. Nothing else is touched.
func (s *stateCache) setStencilReference(ref int) {
	if ref == s.stencilRef {
		return
	}
	s.stencilRef = ref
	a := &s.applied
	s.f.StencilFuncSeparate(gl.FRONT, a.StencilFront.Compare, ref, a.StencilReadMask)
	s.f.StencilFuncSeparate(gl.BACK, a.StencilBack.Compare, ref, a.StencilReadMask)
}

func (s *stateCache) setBlendColor(c [4]float32) {
	if c == s.blendColor {
		return
	}
	s.blendColor = c
	s.f.BlendColor(c[0], c[1], c[2], c[3])
}

// setDepthMask changes the cached depth write mask outside a pipeline bind.
// The next pipeline bind diffs against the new value.
func (s *stateCache) setDepthMask(write bool) {
	if s.applied.DepthWrite == write {
		return
	}
	s.applied.DepthWrite = write
	s.f.DepthMask(write)
}

func (s *stateCache) setStencilMask(mask uint32) {
	if s.applied.StencilWriteMask == mask {
		return
	}
	s.applied.StencilWriteMask = mask
	s.f.StencilMask(mask)
}

func (s *stateCache) setColorMask(mask [4]bool) {
	if s.applied.ColorMask == mask {
		return
	}
	s.applied.ColorMask = mask
	s.f.ColorMask(mask[0], mask[1], mask[2], mask[3])
}

func (s *stateCache) setViewport(x, y, w, h int) {
	v := [4]int{x, y, w, h}
	if v == s.viewport {
		return
	}
	s.viewport = v
	s.f.Viewport(x, y, w, h)
}

func (s *stateCache) setDepthRange(near, far float32) {
	r := [2]float32{near, far}
	if r == s.depthRange {
		return
	}
	s.depthRange = r
	s.f.DepthRangef(near, far)
}

func (s *stateCache) setScissor(x, y, w, h int) {
	v := [4]int{x, y, w, h}
	if v == s.scissor {
		return
	}
	s.scissor = v
	s.f.Scissor(x, y, w, h)
}

func (s *stateCache) setScissorTest(enable bool) {
	if s.scissorTest == enable {
		return
	}
	s.scissorTest = enable
	setCap(s.f, gl.SCISSOR_TEST, enable)
}

func (s *stateCache) setClearColor(c [4]float32) {
	if c == s.clearColor {
		return
	}
	s.clearColor = c
	s.f.ClearColor(c[0], c[1], c[2], c[3])
}

func (s *stateCache) setClearDepth(d float32) {
	if d == s.clearDepth {
		return
	}
	s.clearDepth = d
	s.f.ClearDepthf(d)
}

func (s *stateCache) setClearStencil(v int) {
	if v == s.clearStencil {
		return
	}
	s.clearStencil = v
	s.f.ClearStencil(v)
}

// bindFramebuffer binds fb to target. gl.FRAMEBUFFER sets both the draw and
// the read binding.
func (s *stateCache) bindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	switch target {
	case gl.DRAW_FRAMEBUFFER:
		if s.drawFB == fb {
			return
		}
		s.drawFB = fb
	case gl.READ_FRAMEBUFFER:
		if s.readFB == fb {
			return
		}
		s.readFB = fb
	default:
		if s.drawFB == fb && s.readFB == fb {
			return
		}
		s.drawFB, s.readFB = fb, fb
	}
	s.f.BindFramebuffer(target, fb)
}

func (s *stateCache) bindRenderbuffer(rb gl.Renderbuffer) {
	if s.renderbuffer == rb {
		return
	}
	s.renderbuffer = rb
	s.f.BindRenderbuffer(gl.RENDERBUFFER, rb)
}

func (s *stateCache) useProgram(p gl.Program) {
	if s.program == p {
		return
	}
	s.program = p
	s.f.UseProgram(p)
}

func (s *stateCache) bindBuffer(target gl.Enum, b gl.Buffer) {
	if s.buffers[target] == b {
		return
	}
	s.buffers[target] = b
	s.f.BindBuffer(target, b)
}

// bindBufferRange binds a range of b to a uniform buffer binding point.
// BindBufferRange also changes the generic UNIFORM_BUFFER binding.
func (s *stateCache) bindBufferRange(index int, b gl.Buffer, offset, size int) {
	r := bufferRange{buffer: b, offset: offset, size: size}
	if index < len(s.uniformRanges) && s.uniformRanges[index] == r {
		return
	}
	if index < len(s.uniformRanges) {
		s.uniformRanges[index] = r
	}
	s.buffers[gl.UNIFORM_BUFFER] = b
	s.f.BindBufferRange(gl.UNIFORM_BUFFER, index, b, offset, size)
}

func (s *stateCache) activeTexture(unit int) {
	if s.activeUnit == unit {
		return
	}
	s.activeUnit = unit
	s.f.ActiveTexture(gl.Enum(gl.TEXTURE0 + unit))
}

func (s *stateCache) bindTexture(unit int, target gl.Enum, t gl.Texture) {
	b := textureBinding{target: target, texture: t}
	if unit < len(s.textures) && s.textures[unit] == b {
		return
	}
	s.activeTexture(unit)
	if unit < len(s.textures) {
		s.textures[unit] = b
	}
	s.f.BindTexture(target, t)
}

func (s *stateCache) bindSampler(unit int, smp gl.Sampler) {
	if unit < len(s.samplers) && s.samplers[unit] == smp {
		return
	}
	if unit < len(s.samplers) {
		s.samplers[unit] = smp
	}
	s.f.BindSampler(unit, smp)
}

func (s *stateCache) pixelStorei(pname gl.Enum, v int) {
	if s.pixelStore[pname] == v {
		return
	}
	s.pixelStore[pname] = v
	s.f.PixelStorei(pname, v)
}

// The forget* methods drop cache entries naming a deleted object. The
// driver unbinds deleted objects, and the name may be handed out again.

func (s *stateCache) forgetBuffer(b gl.Buffer) {
	for target, bound := range s.buffers {
		if bound == b {
			delete(s.buffers, target)
		}
	}
	for i := range s.uniformRanges {
		if s.uniformRanges[i].buffer == b {
			s.uniformRanges[i] = bufferRange{}
		}
	}
}

func (s *stateCache) forgetTexture(t gl.Texture) {
	for i := range s.textures {
		if s.textures[i].texture == t {
			s.textures[i] = textureBinding{}
		}
	}
}

func (s *stateCache) forgetSampler(smp gl.Sampler) {
	for i := range s.samplers {
		if s.samplers[i] == smp {
			s.samplers[i] = 0
		}
	}
}

func (s *stateCache) forgetFramebuffer(fb gl.Framebuffer) {
	if s.drawFB == fb {
		s.drawFB = 0
	}
	if s.readFB == fb {
		s.readFB = 0
	}
}

func (s *stateCache) forgetRenderbuffer(rb gl.Renderbuffer) {
	if s.renderbuffer == rb {
		s.renderbuffer = 0
	}
}

func (s *stateCache) forgetProgram(p gl.Program) {
	if s.program == p {
		s.program = 0
	}
}
