package webgl

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// ClearType selects the clearBuffer variant for a color attachment.
type ClearType uint8

const (
	// ClearFloat clears with clearBufferfv (normalized and float formats).
	ClearFloat ClearType = iota

	// ClearInt clears with clearBufferiv (signed integer formats).
	ClearInt

	// ClearUint clears with clearBufferuiv (unsigned integer formats).
	ClearUint
)

// String returns the string representation of ClearType.
func (c ClearType) String() string {
	switch c {
	case ClearFloat:
		return "Float"
	case ClearInt:
		return "Int"
	case ClearUint:
		return "Uint"
	default:
		return fmt.Sprintf("ClearType(%d)", c)
	}
}

// VertexFormatDesc describes how a vertex format is fed to vertexAttrib*Pointer.
type VertexFormatDesc struct {
	ByteSize   int
	Components int
	Type       gl.Enum
	Normalized bool
	// Integer attributes use vertexAttribIPointer.
	Integer bool
}

var vertexFormats = map[gputypes.VertexFormat]VertexFormatDesc{
	gputypes.VertexFormatUint8x2:      {2, 2, gl.UNSIGNED_BYTE, false, true},
	gputypes.VertexFormatUint8x4:      {4, 4, gl.UNSIGNED_BYTE, false, true},
	gputypes.VertexFormatSint8x2:      {2, 2, gl.BYTE, false, true},
	gputypes.VertexFormatSint8x4:      {4, 4, gl.BYTE, false, true},
	gputypes.VertexFormatUnorm8x2:     {2, 2, gl.UNSIGNED_BYTE, true, false},
	gputypes.VertexFormatUnorm8x4:     {4, 4, gl.UNSIGNED_BYTE, true, false},
	gputypes.VertexFormatSnorm8x2:     {2, 2, gl.BYTE, true, false},
	gputypes.VertexFormatSnorm8x4:     {4, 4, gl.BYTE, true, false},
	gputypes.VertexFormatUint16x2:     {4, 2, gl.UNSIGNED_SHORT, false, true},
	gputypes.VertexFormatUint16x4:     {8, 4, gl.UNSIGNED_SHORT, false, true},
	gputypes.VertexFormatSint16x2:     {4, 2, gl.SHORT, false, true},
	gputypes.VertexFormatSint16x4:     {8, 4, gl.SHORT, false, true},
	gputypes.VertexFormatUnorm16x2:    {4, 2, gl.UNSIGNED_SHORT, true, false},
	gputypes.VertexFormatUnorm16x4:    {8, 4, gl.UNSIGNED_SHORT, true, false},
	gputypes.VertexFormatSnorm16x2:    {4, 2, gl.SHORT, true, false},
	gputypes.VertexFormatSnorm16x4:    {8, 4, gl.SHORT, true, false},
	gputypes.VertexFormatFloat16x2:    {4, 2, gl.HALF_FLOAT, false, false},
	gputypes.VertexFormatFloat16x4:    {8, 4, gl.HALF_FLOAT, false, false},
	gputypes.VertexFormatFloat32:      {4, 1, gl.FLOAT, false, false},
	gputypes.VertexFormatFloat32x2:    {8, 2, gl.FLOAT, false, false},
	gputypes.VertexFormatFloat32x3:    {12, 3, gl.FLOAT, false, false},
	gputypes.VertexFormatFloat32x4:    {16, 4, gl.FLOAT, false, false},
	gputypes.VertexFormatUint32:       {4, 1, gl.UNSIGNED_INT, false, true},
	gputypes.VertexFormatUint32x2:     {8, 2, gl.UNSIGNED_INT, false, true},
	gputypes.VertexFormatUint32x3:     {12, 3, gl.UNSIGNED_INT, false, true},
	gputypes.VertexFormatUint32x4:     {16, 4, gl.UNSIGNED_INT, false, true},
	gputypes.VertexFormatSint32:       {4, 1, gl.INT, false, true},
	gputypes.VertexFormatSint32x2:     {8, 2, gl.INT, false, true},
	gputypes.VertexFormatSint32x3:     {12, 3, gl.INT, false, true},
	gputypes.VertexFormatSint32x4:     {16, 4, gl.INT, false, true},
	gputypes.VertexFormatUnorm1010102: {4, 4, gl.UNSIGNED_INT_2_10_10_10_REV, true, false},
}

// VertexFormatInfo returns the driver description of a vertex format.
func VertexFormatInfo(f gputypes.VertexFormat) (VertexFormatDesc, bool) {
	d, ok := vertexFormats[f]
	return d, ok
}

// TextureFormatDesc describes a texture format's storage and transfer types.
type TextureFormatDesc struct {
	InternalFormat gl.Enum
	Format         gl.Enum
	Type           gl.Enum
	TexelSize      int
	ClearType      ClearType
	DepthStencil   bool
	Stencil        bool
}

var textureFormats = map[gputypes.TextureFormat]TextureFormatDesc{
	gputypes.TextureFormatR8Unorm:  {gl.R8, gl.RED, gl.UNSIGNED_BYTE, 1, ClearFloat, false, false},
	gputypes.TextureFormatR8Snorm:  {gl.R8_SNORM, gl.RED, gl.BYTE, 1, ClearFloat, false, false},
	gputypes.TextureFormatR8Uint:   {gl.R8UI, gl.RED_INTEGER, gl.UNSIGNED_BYTE, 1, ClearUint, false, false},
	gputypes.TextureFormatR8Sint:   {gl.R8I, gl.RED_INTEGER, gl.BYTE, 1, ClearInt, false, false},
	gputypes.TextureFormatR16Uint:  {gl.R16UI, gl.RED_INTEGER, gl.UNSIGNED_SHORT, 2, ClearUint, false, false},
	gputypes.TextureFormatR16Sint:  {gl.R16I, gl.RED_INTEGER, gl.SHORT, 2, ClearInt, false, false},
	gputypes.TextureFormatR16Float: {gl.R16F, gl.RED, gl.HALF_FLOAT, 2, ClearFloat, false, false},
	gputypes.TextureFormatRG8Unorm: {gl.RG8, gl.RG, gl.UNSIGNED_BYTE, 2, ClearFloat, false, false},
	gputypes.TextureFormatRG8Snorm: {gl.RG8_SNORM, gl.RG, gl.BYTE, 2, ClearFloat, false, false},
	gputypes.TextureFormatRG8Uint:  {gl.RG8UI, gl.RG_INTEGER, gl.UNSIGNED_BYTE, 2, ClearUint, false, false},
	gputypes.TextureFormatRG8Sint:  {gl.RG8I, gl.RG_INTEGER, gl.BYTE, 2, ClearInt, false, false},

	gputypes.TextureFormatR32Float:  {gl.R32F, gl.RED, gl.FLOAT, 4, ClearFloat, false, false},
	gputypes.TextureFormatR32Uint:   {gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT, 4, ClearUint, false, false},
	gputypes.TextureFormatR32Sint:   {gl.R32I, gl.RED_INTEGER, gl.INT, 4, ClearInt, false, false},
	gputypes.TextureFormatRG16Uint:  {gl.RG16UI, gl.RG_INTEGER, gl.UNSIGNED_SHORT, 4, ClearUint, false, false},
	gputypes.TextureFormatRG16Sint:  {gl.RG16I, gl.RG_INTEGER, gl.SHORT, 4, ClearInt, false, false},
	gputypes.TextureFormatRG16Float: {gl.RG16F, gl.RG, gl.HALF_FLOAT, 4, ClearFloat, false, false},

	gputypes.TextureFormatRGBA8Unorm:     {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4, ClearFloat, false, false},
	gputypes.TextureFormatRGBA8UnormSrgb: {gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE, 4, ClearFloat, false, false},
	gputypes.TextureFormatRGBA8Snorm:     {gl.RGBA8_SNORM, gl.RGBA, gl.BYTE, 4, ClearFloat, false, false},
	gputypes.TextureFormatRGBA8Uint:      {gl.RGBA8UI, gl.RGBA_INTEGER, gl.UNSIGNED_BYTE, 4, ClearUint, false, false},
	gputypes.TextureFormatRGBA8Sint:      {gl.RGBA8I, gl.RGBA_INTEGER, gl.BYTE, 4, ClearInt, false, false},
	// WebGL2 has no BGRA storage; the swizzle is the client's concern.
	gputypes.TextureFormatBGRA8Unorm:   {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, 4, ClearFloat, false, false},
	gputypes.TextureFormatRGB10A2Uint:  {gl.RGB10_A2UI, gl.RGBA_INTEGER, gl.UNSIGNED_INT_2_10_10_10_REV, 4, ClearUint, false, false},
	gputypes.TextureFormatRGB10A2Unorm: {gl.RGB10_A2, gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV, 4, ClearFloat, false, false},
	gputypes.TextureFormatRG11B10Ufloat: {
		gl.R11F_G11F_B10F, gl.RGB, gl.UNSIGNED_INT_10F_11F_11F_REV, 4, ClearFloat, false, false,
	},
	gputypes.TextureFormatRGB9E5Ufloat: {gl.RGB9_E5, gl.RGB, gl.UNSIGNED_INT_5_9_9_9_REV, 4, ClearFloat, false, false},

	gputypes.TextureFormatRG32Float:   {gl.RG32F, gl.RG, gl.FLOAT, 8, ClearFloat, false, false},
	gputypes.TextureFormatRG32Uint:    {gl.RG32UI, gl.RG_INTEGER, gl.UNSIGNED_INT, 8, ClearUint, false, false},
	gputypes.TextureFormatRG32Sint:    {gl.RG32I, gl.RG_INTEGER, gl.INT, 8, ClearInt, false, false},
	gputypes.TextureFormatRGBA16Uint:  {gl.RGBA16UI, gl.RGBA_INTEGER, gl.UNSIGNED_SHORT, 8, ClearUint, false, false},
	gputypes.TextureFormatRGBA16Sint:  {gl.RGBA16I, gl.RGBA_INTEGER, gl.SHORT, 8, ClearInt, false, false},
	gputypes.TextureFormatRGBA16Float: {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT, 8, ClearFloat, false, false},
	gputypes.TextureFormatRGBA32Float: {gl.RGBA32F, gl.RGBA, gl.FLOAT, 16, ClearFloat, false, false},
	gputypes.TextureFormatRGBA32Uint:  {gl.RGBA32UI, gl.RGBA_INTEGER, gl.UNSIGNED_INT, 16, ClearUint, false, false},
	gputypes.TextureFormatRGBA32Sint:  {gl.RGBA32I, gl.RGBA_INTEGER, gl.INT, 16, ClearInt, false, false},

	gputypes.TextureFormatDepth16Unorm: {gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT, 2, ClearFloat, true, false},
	gputypes.TextureFormatDepth24Plus:  {gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT, 4, ClearFloat, true, false},
	gputypes.TextureFormatDepth24PlusStencil8: {
		gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8, 4, ClearFloat, true, true,
	},
	gputypes.TextureFormatDepth32Float: {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, 4, ClearFloat, true, false},
	gputypes.TextureFormatDepth32FloatStencil8: {
		gl.DEPTH32F_STENCIL8, gl.DEPTH_STENCIL, gl.FLOAT_32_UNSIGNED_INT_24_8_REV, 8, ClearFloat, true, true,
	},
}

// TextureFormatInfo returns the driver description of a texture format.
// Compressed and 16-bit normalized formats are not available in WebGL2.
func TextureFormatInfo(f gputypes.TextureFormat) (TextureFormatDesc, bool) {
	d, ok := textureFormats[f]
	return d, ok
}

// attachmentPoint returns the framebuffer attachment for a depth/stencil format.
func (d TextureFormatDesc) attachmentPoint() gl.Enum {
	if d.Stencil {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.DEPTH_ATTACHMENT
}

// bufferMask returns the blit mask covering the format's aspects.
func (d TextureFormatDesc) bufferMask() gl.Enum {
	switch {
	case d.Stencil:
		return gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT
	case d.DepthStencil:
		return gl.DEPTH_BUFFER_BIT
	default:
		return gl.COLOR_BUFFER_BIT
	}
}

// The translators below panic on values outside their enum: descriptors are
// produced by code, so an unknown value is a programming error.

func compareFunc(f gputypes.CompareFunction) gl.Enum {
	switch f {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionLess:
		return gl.LESS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	case gputypes.CompareFunctionAlways, gputypes.CompareFunctionUndefined:
		return gl.ALWAYS
	default:
		panic(fmt.Sprintf("webgl: unknown compare function %d", f))
	}
}

func stencilOp(op gputypes.StencilOperation) gl.Enum {
	switch op {
	case gputypes.StencilOperationKeep:
		return gl.KEEP
	case gputypes.StencilOperationZero:
		return gl.ZERO
	case gputypes.StencilOperationReplace:
		return gl.REPLACE
	case gputypes.StencilOperationInvert:
		return gl.INVERT
	case gputypes.StencilOperationIncrementClamp:
		return gl.INCR
	case gputypes.StencilOperationDecrementClamp:
		return gl.DECR
	case gputypes.StencilOperationIncrementWrap:
		return gl.INCR_WRAP
	case gputypes.StencilOperationDecrementWrap:
		return gl.DECR_WRAP
	default:
		panic(fmt.Sprintf("webgl: unknown stencil operation %d", op))
	}
}

func blendFactor(f gputypes.BlendFactor) gl.Enum {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorOne:
		return gl.ONE
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return gl.SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return gl.CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return gl.ONE_MINUS_CONSTANT_COLOR
	default:
		panic(fmt.Sprintf("webgl: unknown blend factor %d", f))
	}
}

func blendOp(op gputypes.BlendOperation) gl.Enum {
	switch op {
	case gputypes.BlendOperationAdd, gputypes.BlendOperationUndefined:
		return gl.FUNC_ADD
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	default:
		panic(fmt.Sprintf("webgl: unknown blend operation %d", op))
	}
}

func frontFace(f gputypes.FrontFace) gl.Enum {
	switch f {
	case gputypes.FrontFaceCCW:
		return gl.CCW
	case gputypes.FrontFaceCW:
		return gl.CW
	default:
		panic(fmt.Sprintf("webgl: unknown front face %d", f))
	}
}

// cullFace returns whether culling is enabled and the face to cull.
func cullFace(m gputypes.CullMode) (bool, gl.Enum) {
	switch m {
	case gputypes.CullModeNone:
		return false, gl.BACK
	case gputypes.CullModeFront:
		return true, gl.FRONT
	case gputypes.CullModeBack:
		return true, gl.BACK
	default:
		panic(fmt.Sprintf("webgl: unknown cull mode %d", m))
	}
}

func topology(t gputypes.PrimitiveTopology) gl.Enum {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP
	case gputypes.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		panic(fmt.Sprintf("webgl: unknown primitive topology %d", t))
	}
}

// indexType returns the element type and byte size of an index format.
func indexType(f gputypes.IndexFormat) (gl.Enum, int) {
	switch f {
	case gputypes.IndexFormatUint16:
		return gl.UNSIGNED_SHORT, 2
	case gputypes.IndexFormatUint32:
		return gl.UNSIGNED_INT, 4
	default:
		panic(fmt.Sprintf("webgl: unknown index format %d", f))
	}
}

func addressMode(m gputypes.AddressMode) int {
	switch m {
	case gputypes.AddressModeClampToEdge, gputypes.AddressModeUndefined:
		return gl.CLAMP_TO_EDGE
	case gputypes.AddressModeRepeat:
		return gl.REPEAT
	case gputypes.AddressModeMirrorRepeat:
		return gl.MIRRORED_REPEAT
	default:
		panic(fmt.Sprintf("webgl: unknown address mode %d", m))
	}
}

func magFilter(f gputypes.FilterMode) int {
	if f == gputypes.FilterModeLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func minFilter(f gputypes.FilterMode, mip gputypes.MipmapFilterMode) int {
	linear := f == gputypes.FilterModeLinear
	switch mip {
	case gputypes.MipmapFilterModeNearest:
		if linear {
			return gl.LINEAR_MIPMAP_NEAREST
		}
		return gl.NEAREST_MIPMAP_NEAREST
	case gputypes.MipmapFilterModeLinear:
		if linear {
			return gl.LINEAR_MIPMAP_LINEAR
		}
		return gl.NEAREST_MIPMAP_LINEAR
	default:
		if linear {
			return gl.LINEAR
		}
		return gl.NEAREST
	}
}
