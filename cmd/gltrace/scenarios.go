package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu"
	"github.com/gogpu/glgpu/internal/gl/gltest"
	"github.com/gogpu/glgpu/internal/wire"
)

const (
	vertexSource = `#version 300 es
layout(location = 0) in vec2 a_pos;
void main() { gl_Position = vec4(a_pos, 0.0, 1.0); }
`
	fragmentSource = `#version 300 es
precision mediump float;
uniform Block { vec4 u_color; };
out vec4 o_color;
void main() { o_color = u_color; }
`
)

// session is the device a scenario records into.
type session struct {
	cfg   Config
	dev   *glgpu.Device
	sched *gltest.Scheduler
}

// scenario prepares resources and returns the function that records one
// frame. Only the frames are traced.
type scenario struct {
	about string
	setup func(s *session) (frame func(i int), err error)
}

var scenarios = map[string]scenario{
	"triangle": {"one draw into the cleared back buffer", setupTriangle},
	"indexed":  {"indexed quad with a base vertex", setupIndexed},
	"switch":   {"pipeline switches that only differ in blend and cull state", setupSwitch},
	"stencil":  {"stencil reference updates inside an offscreen pass", setupStencil},
	"msaa":     {"multisampled pass resolved into a sampleable texture", setupMSAA},
	"packed":   {"bind group and pass built from packed descriptors", setupPacked},
	"readback": {"asynchronous buffer read-back polled through a fence", setupReadback},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func float32Bytes(vs ...float32) []byte {
	out := make([]byte, 0, len(vs)*4)
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func (s *session) vertexBuffer(vs ...float32) (glgpu.Buffer, error) {
	data := float32Bytes(vs...)
	b, err := s.dev.CreateBuffer(&glgpu.BufferDescriptor{
		Label: "vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, err
	}
	return b, s.dev.WriteBuffer(b, 0, data)
}

// pipeline creates a position-only pipeline. edit adjusts the descriptor
// before creation.
func (s *session) pipeline(label string, edit func(*glgpu.RenderPipelineDescriptor)) (glgpu.RenderPipeline, error) {
	vs, err := s.dev.CreateShader(&glgpu.ShaderDescriptor{Label: label + ".vs", Stage: gputypes.ShaderStageVertex, Source: vertexSource})
	if err != nil {
		return 0, err
	}
	fs, err := s.dev.CreateShader(&glgpu.ShaderDescriptor{Label: label + ".fs", Stage: gputypes.ShaderStageFragment, Source: fragmentSource})
	if err != nil {
		return 0, err
	}
	desc := &glgpu.RenderPipelineDescriptor{
		Label:          label,
		VertexShader:   vs,
		FragmentShader: fs,
		VertexBuffers: []gputypes.VertexBufferLayout{{
			ArrayStride: 8,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{{Format: gputypes.VertexFormatFloat32x2}},
		}},
		Primitive: gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Targets: []gputypes.ColorTargetState{{
			Format:    gputypes.TextureFormatRGBA8Unorm,
			WriteMask: gputypes.ColorWriteMaskAll,
		}},
	}
	if edit != nil {
		edit(desc)
	}
	p, err := s.dev.CreateRenderPipeline(desc)
	// Linked programs keep their shaders.
	s.dev.DestroyShader(vs)
	s.dev.DestroyShader(fs)
	return p, err
}

func (s *session) screenPass() (glgpu.RenderPass, error) {
	return s.dev.CreateRenderPass(&glgpu.RenderPassDescriptor{
		Label:      "screen",
		ClearColor: &gputypes.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
	})
}

func (s *session) target(label string, format gputypes.TextureFormat, samples int, usage gputypes.TextureUsage) (glgpu.Texture, error) {
	return s.dev.CreateTexture(&glgpu.TextureDescriptor{
		Label:         label,
		Size:          gputypes.Extent3D{Width: uint32(s.cfg.Width), Height: uint32(s.cfg.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   uint32(samples),
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
}

// =============================================================================
// Scenarios
// =============================================================================

func setupTriangle(s *session) (func(int), error) {
	vb, err := s.vertexBuffer(-1, -1, 1, -1, 0, 1)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline("triangle", nil)
	if err != nil {
		return nil, err
	}
	pass, err := s.screenPass()
	if err != nil {
		return nil, err
	}
	return func(int) {
		s.dev.BeginRenderPass(pass)
		s.dev.SetRenderPipeline(p)
		s.dev.SetVertexBuffer(0, vb, 0)
		s.dev.Draw(3, 1, 0, 0)
		s.dev.SubmitRenderPass()
	}, nil
}

func setupIndexed(s *session) (func(int), error) {
	// Vertex 0 is padding so the draw needs a base vertex of 1.
	vb, err := s.vertexBuffer(0, 0, -1, -1, 1, -1, -1, 1, 1, 1)
	if err != nil {
		return nil, err
	}
	indices := []byte{0, 0, 1, 0, 2, 0, 2, 0, 1, 0, 3, 0}
	ib, err := s.dev.CreateBuffer(&glgpu.BufferDescriptor{
		Label: "indices",
		Size:  uint64(len(indices)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := s.dev.WriteBuffer(ib, 0, indices); err != nil {
		return nil, err
	}
	p, err := s.pipeline("quad", nil)
	if err != nil {
		return nil, err
	}
	return func(int) {
		s.dev.BeginRenderPass(0)
		s.dev.SetRenderPipeline(p)
		s.dev.SetVertexBuffer(0, vb, 0)
		s.dev.SetIndexBuffer(ib, gputypes.IndexFormatUint16, 0)
		s.dev.DrawIndexed(6, 1, 0, 1, 0)
		s.dev.SubmitRenderPass()
	}, nil
}

func setupSwitch(s *session) (func(int), error) {
	vb, err := s.vertexBuffer(-1, -1, 1, -1, 0, 1)
	if err != nil {
		return nil, err
	}
	opaque, err := s.pipeline("opaque", nil)
	if err != nil {
		return nil, err
	}
	blend := gputypes.BlendStatePremultiplied()
	blended, err := s.pipeline("blended", func(d *glgpu.RenderPipelineDescriptor) {
		d.Primitive.CullMode = gputypes.CullModeBack
		d.Targets[0].Blend = &blend
	})
	if err != nil {
		return nil, err
	}
	return func(int) {
		s.dev.BeginRenderPass(0)
		s.dev.SetVertexBuffer(0, vb, 0)
		for _, p := range []glgpu.RenderPipeline{opaque, blended, opaque} {
			s.dev.SetRenderPipeline(p)
			s.dev.Draw(3, 1, 0, 0)
		}
		s.dev.SubmitRenderPass()
	}, nil
}

func setupStencil(s *session) (func(int), error) {
	vb, err := s.vertexBuffer(-1, -1, 1, -1, 0, 1)
	if err != nil {
		return nil, err
	}
	color, err := s.target("color", gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return nil, err
	}
	depth, err := s.target("depth", gputypes.TextureFormatDepth24PlusStencil8, 1, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return nil, err
	}
	pass, err := s.dev.CreateRenderPass(&glgpu.RenderPassDescriptor{
		Label: "stencil",
		ColorAttachments: []glgpu.RenderPassColorAttachment{{
			Texture: color,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
		DepthStencilAttachment: &glgpu.RenderPassDepthStencilAttachment{
			Texture:         depth,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1,
			StencilLoadOp:   gputypes.LoadOpClear,
			StencilStoreOp:  gputypes.StoreOpDiscard,
		},
	})
	if err != nil {
		return nil, err
	}
	face := gputypes.StencilFaceState{
		Compare:     gputypes.CompareFunctionEqual,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      gputypes.StencilOperationIncrementClamp,
	}
	p, err := s.pipeline("stencil", func(d *glgpu.RenderPipelineDescriptor) {
		d.DepthStencil = &gputypes.DepthStencilState{
			Format:           gputypes.TextureFormatDepth24PlusStencil8,
			DepthCompare:     gputypes.CompareFunctionAlways,
			StencilFront:     face,
			StencilBack:      face,
			StencilReadMask:  0xFF,
			StencilWriteMask: 0xFF,
		}
	})
	if err != nil {
		return nil, err
	}
	return func(i int) {
		s.dev.BeginRenderPass(pass)
		s.dev.SetRenderPipeline(p)
		s.dev.SetVertexBuffer(0, vb, 0)
		s.dev.SetStencilReference(0)
		s.dev.Draw(3, 1, 0, 0)
		s.dev.SetStencilReference(1)
		s.dev.SetStencilReference(1)
		s.dev.Draw(3, 1, 0, 0)
		s.dev.SubmitRenderPass()
	}, nil
}

func setupMSAA(s *session) (func(int), error) {
	vb, err := s.vertexBuffer(-1, -1, 1, -1, 0, 1)
	if err != nil {
		return nil, err
	}
	color, err := s.target("color", gputypes.TextureFormatRGBA8Unorm, s.cfg.Samples,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding)
	if err != nil {
		return nil, err
	}
	pass, err := s.dev.CreateRenderPass(&glgpu.RenderPassDescriptor{
		Label: "msaa",
		ColorAttachments: []glgpu.RenderPassColorAttachment{{
			Texture:    color,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{A: 1},
		}},
	})
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline("msaa", func(d *glgpu.RenderPipelineDescriptor) {
		d.Multisample.Count = uint32(s.cfg.Samples)
	})
	if err != nil {
		return nil, err
	}
	return func(int) {
		s.dev.BeginRenderPass(pass)
		s.dev.SetRenderPipeline(p)
		s.dev.SetVertexBuffer(0, vb, 0)
		s.dev.Draw(3, 1, 0, 0)
		s.dev.SubmitRenderPass()
	}, nil
}

func setupPacked(s *session) (func(int), error) {
	var b wire.Builder
	layoutAddr := b.LayoutEntries([]wire.LayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageFragment,
		Kind:       wire.KindBuffer,
		Extra0:     1,
		Name:       "Block",
	}})
	layout, err := s.dev.CreateBindGroupLayoutPacked(b.Mem, "packed", layoutAddr, 1)
	if err != nil {
		return nil, err
	}

	ub, err := s.dev.CreateBuffer(&glgpu.BufferDescriptor{
		Label: "colors",
		Size:  512,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := s.dev.WriteBuffer(ub, 0, float32Bytes(1, 0, 0, 1)); err != nil {
		return nil, err
	}
	if err := s.dev.WriteBuffer(ub, 256, float32Bytes(0, 0, 1, 1)); err != nil {
		return nil, err
	}
	color, err := s.target("color", gputypes.TextureFormatRGBA8Unorm, 1, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return nil, err
	}

	b.Reset()
	groupAddr := b.GroupEntries([]wire.GroupEntry{{Binding: 0, Kind: wire.KindBuffer, Handle: uint32(ub), Size: 16}})
	passAddr := b.Attachments([]wire.Attachment{{
		Kind:    wire.AttachmentColor,
		Texture: uint32(color),
		LoadOp:  uint32(gputypes.LoadOpClear),
		StoreOp: uint32(gputypes.StoreOpStore),
		Clear:   [4]float32{0, 0, 0, 1},
	}})
	group, err := s.dev.CreateBindGroupPacked(b.Mem, "packed", layout, groupAddr, 1)
	if err != nil {
		return nil, err
	}
	pass, err := s.dev.CreateRenderPassPacked(b.Mem, "packed", passAddr, 1)
	if err != nil {
		return nil, err
	}

	vb, err := s.vertexBuffer(-1, -1, 1, -1, 0, 1)
	if err != nil {
		return nil, err
	}
	p, err := s.pipeline("packed", func(d *glgpu.RenderPipelineDescriptor) {
		d.BindGroupLayouts = []glgpu.BindGroupLayout{layout}
	})
	if err != nil {
		return nil, err
	}
	return func(int) {
		s.dev.BeginRenderPass(pass)
		s.dev.SetRenderPipeline(p)
		s.dev.SetVertexBuffer(0, vb, 0)
		for _, offset := range []uint32{0, 256} {
			s.dev.SetBindGroup(0, group, []uint32{offset})
			s.dev.Draw(3, 1, 0, 0)
		}
		s.dev.SubmitRenderPass()
	}, nil
}

func setupReadback(s *session) (func(int), error) {
	b, err := s.dev.CreateBuffer(&glgpu.BufferDescriptor{
		Label: "results",
		Size:  16,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := s.dev.WriteBuffer(b, 0, float32Bytes(1, 2, 3, 4)); err != nil {
		return nil, err
	}
	return func(i int) {
		f, err := s.dev.ReadBufferAsync(b, 0, 16)
		if err != nil {
			panic(fmt.Sprintf("gltrace: frame %d: %v", i, err))
		}
		s.sched.Run(16)
		if status, _, err := s.dev.PollFuture(f); status != glgpu.FutureReady {
			panic(fmt.Sprintf("gltrace: frame %d: read-back %v: %v", i, status, err))
		}
	}, nil
}
