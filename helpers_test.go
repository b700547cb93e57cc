package glgpu

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl/gltest"
)

const (
	testWidth  = 32
	testHeight = 16
)

// newTestDevice returns a device over a fresh recording context whose call
// log is empty.
func newTestDevice(t *testing.T, opts ...DeviceOption) (*Device, *gltest.Context) {
	t.Helper()
	ctx := gltest.New(testWidth, testHeight)
	d := NewDevice(ctx, testWidth, testHeight, opts...)
	t.Cleanup(d.Destroy)
	ctx.Reset()
	return d, ctx
}

func mustBuffer(t *testing.T, d *Device, size uint64, usage gputypes.BufferUsage) Buffer {
	t.Helper()
	b, err := d.CreateBuffer(&BufferDescriptor{Label: "test", Size: size, Usage: usage})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	return b
}

func mustTexture(t *testing.T, d *Device, w, h uint32, usage gputypes.TextureUsage) Texture {
	t.Helper()
	tex, err := d.CreateTexture(&TextureDescriptor{
		Label:     "test",
		Size:      gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		Dimension: gputypes.TextureDimension2D,
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Usage:     usage,
	})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	return tex
}

func mustShader(t *testing.T, d *Device, stage gputypes.ShaderStage) Shader {
	t.Helper()
	s, err := d.CreateShader(&ShaderDescriptor{Label: "test", Stage: stage, Source: "#version 300 es\n"})
	if err != nil {
		t.Fatalf("CreateShader() error = %v", err)
	}
	return s
}

// mustPipeline creates a pipeline with one float32x2 attribute at location
// 0 and the given bind group layouts.
func mustPipeline(t *testing.T, d *Device, layouts ...BindGroupLayout) RenderPipeline {
	t.Helper()
	p, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:            "test",
		VertexShader:     mustShader(t, d, gputypes.ShaderStageVertex),
		FragmentShader:   mustShader(t, d, gputypes.ShaderStageFragment),
		BindGroupLayouts: layouts,
		VertexBuffers: []gputypes.VertexBufferLayout{{
			ArrayStride: 8,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, ShaderLocation: 0},
			},
		}},
		Primitive: gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Targets: []gputypes.ColorTargetState{{
			Format:    gputypes.TextureFormatRGBA8Unorm,
			WriteMask: gputypes.ColorWriteMaskAll,
		}},
	})
	if err != nil {
		t.Fatalf("CreateRenderPipeline() error = %v", err)
	}
	return p
}

func mustLayout(t *testing.T, d *Device, entries ...BindGroupLayoutEntry) BindGroupLayout {
	t.Helper()
	l, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{Label: "test", Entries: entries})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout() error = %v", err)
	}
	return l
}

// call renders one expected call the way gltest.Call prints it.
func call(name string, args ...any) string {
	return gltest.Call{Name: name, Args: args}.String()
}

func calls(ctx *gltest.Context, names ...string) []string {
	var out []string
	for _, c := range ctx.Filter(names...) {
		out = append(out, c.String())
	}
	return out
}
