package webgl

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl/gltest"
)

const (
	testWidth  = 64
	testHeight = 48
)

// newTestDevice returns a device over a fresh recording context whose call
// log is empty.
func newTestDevice(t *testing.T) (*Device, *gltest.Context) {
	t.Helper()
	ctx := gltest.New(testWidth, testHeight)
	d := NewDevice(ctx, Config{Width: testWidth, Height: testHeight, Scheduler: &gltest.Scheduler{}})
	t.Cleanup(d.Destroy)
	ctx.Reset()
	return d, ctx
}

func mustShader(t *testing.T, d *Device, stage gputypes.ShaderStage) *Shader {
	t.Helper()
	s, err := d.CreateShader(&ShaderDescriptor{Label: "test", Stage: stage, Source: "#version 300 es\n"})
	if err != nil {
		t.Fatalf("CreateShader() error = %v", err)
	}
	return s
}

// mustPipeline fills in shaders and a single opaque color target when the
// descriptor leaves them empty.
func mustPipeline(t *testing.T, d *Device, desc RenderPipelineDescriptor) *RenderPipeline {
	t.Helper()
	if desc.VertexShader == nil {
		desc.VertexShader = mustShader(t, d, gputypes.ShaderStageVertex)
	}
	if desc.FragmentShader == nil {
		desc.FragmentShader = mustShader(t, d, gputypes.ShaderStageFragment)
	}
	if desc.Targets == nil {
		desc.Targets = []gputypes.ColorTargetState{{
			Format:    gputypes.TextureFormatRGBA8Unorm,
			WriteMask: gputypes.ColorWriteMaskAll,
		}}
	}
	p, err := d.CreateRenderPipeline(&desc)
	if err != nil {
		t.Fatalf("CreateRenderPipeline() error = %v", err)
	}
	return p
}

func mustBuffer(t *testing.T, d *Device, size uint64, usage gputypes.BufferUsage) *Buffer {
	t.Helper()
	b, err := d.CreateBuffer(&BufferDescriptor{Label: "test", Size: size, Usage: usage})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	return b
}

func mustTexture(t *testing.T, d *Device, desc TextureDescriptor) *Texture {
	t.Helper()
	if desc.Dimension == gputypes.TextureDimensionUndefined {
		desc.Dimension = gputypes.TextureDimension2D
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	tex, err := d.CreateTexture(&desc)
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	return tex
}

// calls renders the recorded calls with the given names as strings.
func calls(ctx *gltest.Context, names ...string) []string {
	var out []string
	for _, c := range ctx.Filter(names...) {
		out = append(out, c.String())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// stateCalls are the driver calls applyPipelineState may emit.
var stateCalls = []string{
	"FrontFace", "CullFace", "Enable", "Disable", "DepthMask", "DepthFunc", "PolygonOffset",
	"StencilFuncSeparate", "StencilOpSeparate", "StencilMask",
	"BlendEquationSeparate", "BlendFuncSeparate", "ColorMask",
}

func countAll(ctx *gltest.Context, names []string) int {
	n := 0
	for _, name := range names {
		n += ctx.Count(name)
	}
	return n
}

func rgba8(w, h int, fill [4]byte) []byte {
	px := make([]byte, w*h*4)
	for i := 0; i < len(px); i += 4 {
		copy(px[i:], fill[:])
	}
	return px
}

// call renders one expected call the way gltest.Call prints it.
func call(name string, args ...any) string {
	return gltest.Call{Name: name, Args: args}.String()
}
