package webgl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// Pipeline errors.
var (
	// ErrMissingShader is returned when a pipeline lacks a vertex or
	// fragment shader, or a shader was destroyed.
	ErrMissingShader = errors.New("webgl: pipeline needs a vertex and a fragment shader")

	// ErrTooManyBindGroups is returned for more than four bind group layouts.
	ErrTooManyBindGroups = errors.New("webgl: too many bind group layouts")

	// ErrTooManyVertexBuffers is returned for more than eight vertex buffers.
	ErrTooManyVertexBuffers = errors.New("webgl: too many vertex buffers")

	// ErrVertexFormat is returned for vertex formats WebGL2 cannot fetch.
	ErrVertexFormat = errors.New("webgl: unsupported vertex format")

	// ErrShaderLocation is returned for shader locations beyond
	// MaxVertexAttribs.
	ErrShaderLocation = errors.New("webgl: shader location out of range")
)

// RenderPipelineDescriptor describes a render pipeline.
//
// Blending and the write mask are taken from Targets[0]; WebGL2 applies a
// single blend state to every draw buffer.
type RenderPipelineDescriptor struct {
	Label            string
	VertexShader     *Shader
	FragmentShader   *Shader
	BindGroupLayouts []*BindGroupLayout
	VertexBuffers    []gputypes.VertexBufferLayout
	Primitive        gputypes.PrimitiveState
	DepthStencil     *gputypes.DepthStencilState
	Multisample      gputypes.MultisampleState
	Targets          []gputypes.ColorTargetState
}

type vertexAttrib struct {
	location int
	format   VertexFormatDesc
	offset   int
}

// vertexLayout is one vertex buffer slot of a pipeline.
type vertexLayout struct {
	stride   int
	instance bool
	attribs  []vertexAttrib
}

// RenderPipeline is a linked program with its baked fixed-function state,
// vertex layout and bind group slot assignment. All of it is immutable.
type RenderPipeline struct {
	device    *Device
	label     string
	program   gl.Program
	state     PipelineState
	topology  gl.Enum
	samples   int
	layouts   []*BindGroupLayout
	vertex    []vertexLayout
	attribs   uint64
	bindings  *resolver
	destroyed bool
}

// CreateRenderPipeline links the two shaders, bakes the pipeline state and
// resolves the bind group layouts to driver slots. The sampler uniforms
// are set with the new program current; the previously current program is
// restored afterwards.
func (d *Device) CreateRenderPipeline(desc *RenderPipelineDescriptor) (*RenderPipeline, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	vs, fs := desc.VertexShader, desc.FragmentShader
	if vs == nil || fs == nil || vs.destroyed || fs.destroyed {
		return nil, ErrMissingShader
	}
	if len(desc.BindGroupLayouts) > maxBindGroups {
		return nil, fmt.Errorf("%w: %d", ErrTooManyBindGroups, len(desc.BindGroupLayouts))
	}
	if len(desc.VertexBuffers) > maxVertexBuffers {
		return nil, fmt.Errorf("%w: %d", ErrTooManyVertexBuffers, len(desc.VertexBuffers))
	}

	p := &RenderPipeline{
		device:   d,
		label:    desc.Label,
		state:    bakePipelineState(desc),
		topology: topology(desc.Primitive.Topology),
		samples:  int(max(desc.Multisample.Count, 1)),
		layouts:  append([]*BindGroupLayout(nil), desc.BindGroupLayouts...),
	}
	if err := p.bakeVertexLayouts(desc.VertexBuffers, d.limits.MaxVertexAttribs); err != nil {
		return nil, err
	}

	p.program = d.f.CreateProgram()
	d.f.AttachShader(p.program, vs.shader)
	d.f.AttachShader(p.program, fs.shader)
	d.f.LinkProgram(p.program)
	d.assertProgramLinked(p.program, desc.Label)

	p.bindings = d.resolveBindings(p.program, p.layouts)
	if p.bindings.units > 0 {
		prev := d.cache.program
		d.cache.useProgram(p.program)
		p.bindings.setSamplerUnits(d.f)
		d.cache.useProgram(prev)
	}

	slogger().Debug("webgl: pipeline created",
		slog.String("label", desc.Label),
		slog.Int("uniformBuffers", p.bindings.blocks),
		slog.Int("textureUnits", p.bindings.units),
		slog.Int("vertexBuffers", len(p.vertex)),
	)
	return p, nil
}

func (p *RenderPipeline) bakeVertexLayouts(buffers []gputypes.VertexBufferLayout, maxAttribs int) error {
	limit := min(maxAttribs, 64)
	p.vertex = make([]vertexLayout, len(buffers))
	for i, b := range buffers {
		l := vertexLayout{
			stride:   int(b.ArrayStride),
			instance: b.StepMode == gputypes.VertexStepModeInstance,
		}
		if b.StepMode == gputypes.VertexStepModeVertexBufferNotUsed {
			p.vertex[i] = l
			continue
		}
		for _, a := range b.Attributes {
			info, ok := VertexFormatInfo(a.Format)
			if !ok {
				return fmt.Errorf("%w: %v", ErrVertexFormat, a.Format)
			}
			loc := int(a.ShaderLocation)
			if loc >= limit {
				return fmt.Errorf("%w: %d, limit %d", ErrShaderLocation, loc, limit)
			}
			if l.stride == 0 {
				l.stride = info.ByteSize
			}
			l.attribs = append(l.attribs, vertexAttrib{location: loc, format: info, offset: int(a.Offset)})
			p.attribs |= 1 << uint(loc)
		}
		p.vertex[i] = l
	}
	return nil
}

// bakePipelineState translates the descriptor into driver enums. Axes that
// are switched off keep the values of DefaultPipelineState.
func bakePipelineState(desc *RenderPipelineDescriptor) PipelineState {
	s := DefaultPipelineState()

	s.FrontFace = frontFace(desc.Primitive.FrontFace)
	if enabled, face := cullFace(desc.Primitive.CullMode); enabled {
		s.CullEnabled, s.CullFace = true, face
	}
	s.AlphaToCoverage = desc.Multisample.AlphaToCoverageEnabled

	if ds := desc.DepthStencil; ds != nil {
		compare := compareFunc(ds.DepthCompare)
		if compare != gl.ALWAYS || ds.DepthWriteEnabled {
			s.DepthTest = true
			s.DepthWrite = ds.DepthWriteEnabled
			s.DepthCompare = compare
		}
		s.DepthBias = float32(ds.DepthBias)
		s.DepthBiasSlopeScale = ds.DepthBiasSlopeScale

		front, back := stencilFace(ds.StencilFront), stencilFace(ds.StencilBack)
		if front != defaultStencilFace || back != defaultStencilFace {
			s.StencilTest = true
			s.StencilFront, s.StencilBack = front, back
			s.StencilReadMask = ds.StencilReadMask
			s.StencilWriteMask = ds.StencilWriteMask
		}
	}

	if len(desc.Targets) > 0 {
		t := desc.Targets[0]
		if b := t.Blend; b != nil {
			s.BlendEnabled = true
			s.BlendColorOp = blendOp(b.Color.Operation)
			s.BlendAlphaOp = blendOp(b.Alpha.Operation)
			s.BlendSrcColor = blendFactor(b.Color.SrcFactor)
			s.BlendDstColor = blendFactor(b.Color.DstFactor)
			s.BlendSrcAlpha = blendFactor(b.Alpha.SrcFactor)
			s.BlendDstAlpha = blendFactor(b.Alpha.DstFactor)
		}
		m := t.WriteMask
		s.ColorMask = [4]bool{
			m&gputypes.ColorWriteMaskRed != 0,
			m&gputypes.ColorWriteMaskGreen != 0,
			m&gputypes.ColorWriteMaskBlue != 0,
			m&gputypes.ColorWriteMaskAlpha != 0,
		}
	}
	return s
}

func stencilFace(f gputypes.StencilFaceState) StencilFace {
	return StencilFace{
		Compare:   compareFunc(f.Compare),
		Fail:      stencilOp(f.FailOp),
		DepthFail: stencilOp(f.DepthFailOp),
		Pass:      stencilOp(f.PassOp),
	}
}

// Label returns the debug label.
func (p *RenderPipeline) Label() string { return p.label }

// State returns the baked pipeline state.
func (p *RenderPipeline) State() PipelineState { return p.state }

// IsDestroyed reports whether Destroy has been called.
func (p *RenderPipeline) IsDestroyed() bool { return p.destroyed }

// Destroy deletes the program. A destroyed pipeline that is still set on
// the encoder makes draws no-ops.
func (p *RenderPipeline) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.device.f.DeleteProgram(p.program)
	p.device.cache.forgetProgram(p.program)
}
