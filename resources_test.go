package glgpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/backend/webgl"
	"github.com/gogpu/glgpu/internal/gl"
)

// =============================================================================
// Creation with handle references
// =============================================================================

func TestCreateBindGroup_ResolvesHandles(t *testing.T) {
	d, _ := newTestDevice(t)
	l := mustLayout(t, d,
		BindGroupLayoutEntry{Binding: 0, Name: "Block", Kind: BindingBuffer},
		BindGroupLayoutEntry{Binding: 1, Name: "u_tex", Kind: BindingTexture},
		BindGroupLayoutEntry{Binding: 2, Name: "u_tex", Kind: BindingSampler},
	)
	ub := mustBuffer(t, d, 64, gputypes.BufferUsageUniform)
	tex := mustTexture(t, d, 4, 4, gputypes.TextureUsageTextureBinding)
	s, err := d.CreateSampler(&gputypes.SamplerDescriptor{Label: "s"})
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}

	g, err := d.CreateBindGroup(&BindGroupDescriptor{
		Label:  "g",
		Layout: l,
		Entries: []BindGroupEntry{
			{Binding: 0, Buffer: ub, Size: 64},
			{Binding: 1, Texture: tex},
			{Binding: 2, Sampler: s},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroup() error = %v", err)
	}
	group, ok := d.groups.get(g)
	if !ok {
		t.Fatal("bind group handle not live")
	}
	layout, _ := d.layouts.get(l)
	if group.Layout() != layout {
		t.Error("bind group does not reference the resolved layout")
	}
}

func TestCreateBindGroup_StaleHandle(t *testing.T) {
	d, _ := newTestDevice(t)
	l := mustLayout(t, d, BindGroupLayoutEntry{Binding: 0, Name: "Block", Kind: BindingBuffer})
	ub := mustBuffer(t, d, 64, gputypes.BufferUsageUniform)
	d.DestroyBuffer(ub)

	tests := []struct {
		name string
		desc *BindGroupDescriptor
		want error
	}{
		{"nil descriptor", nil, webgl.ErrNilDescriptor},
		{"zero layout", &BindGroupDescriptor{}, ErrInvalidHandle},
		{"stale buffer", &BindGroupDescriptor{Layout: l, Entries: []BindGroupEntry{{Binding: 0, Buffer: ub}}}, ErrInvalidHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateBindGroup(tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateBindGroup() error = %v, want %v", err, tt.want)
			}
		})
	}
	if got := d.groups.len(); got != 0 {
		t.Errorf("bind groups = %d, want 0", got)
	}
}

func TestCreateRenderPipeline_Handles(t *testing.T) {
	d, _ := newTestDevice(t)
	vs := mustShader(t, d, gputypes.ShaderStageVertex)
	fs := mustShader(t, d, gputypes.ShaderStageFragment)
	l := mustLayout(t, d, BindGroupLayoutEntry{Binding: 0, Name: "Block", Kind: BindingBuffer})
	stale := mustLayout(t, d, BindGroupLayoutEntry{Binding: 0, Name: "Other", Kind: BindingBuffer})
	d.DestroyBindGroupLayout(stale)

	tests := []struct {
		name string
		desc RenderPipelineDescriptor
		want error
	}{
		{"ok", RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs, BindGroupLayouts: []BindGroupLayout{l}}, nil},
		{"missing fragment", RenderPipelineDescriptor{VertexShader: vs}, webgl.ErrMissingShader},
		{"stale shader", RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs + 1}, ErrInvalidHandle},
		{"stale layout", RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs, BindGroupLayouts: []BindGroupLayout{stale}}, ErrInvalidHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CreateRenderPipeline(&tt.desc)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateRenderPipeline() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateRenderPass_Handles(t *testing.T) {
	d, _ := newTestDevice(t)
	color := mustTexture(t, d, 8, 8, gputypes.TextureUsageRenderAttachment)
	dead := mustTexture(t, d, 8, 8, gputypes.TextureUsageRenderAttachment)
	d.DestroyTexture(dead)

	if _, err := d.CreateRenderPass(&RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{{Texture: color, LoadOp: gputypes.LoadOpClear}},
	}); err != nil {
		t.Errorf("CreateRenderPass() error = %v", err)
	}
	if _, err := d.CreateRenderPass(&RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{{Texture: dead}},
	}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("CreateRenderPass(stale color) error = %v, want %v", err, ErrInvalidHandle)
	}
	if _, err := d.CreateRenderPass(&RenderPassDescriptor{
		ColorAttachments:       []RenderPassColorAttachment{{Texture: color}},
		DepthStencilAttachment: &RenderPassDepthStencilAttachment{Texture: dead},
	}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("CreateRenderPass(stale depth) error = %v, want %v", err, ErrInvalidHandle)
	}
}

func TestCreateRenderPass_DefaultTargetClears(t *testing.T) {
	d, ctx := newTestDevice(t)
	zero := float32(0)
	stencil := uint32(3)
	tests := []struct {
		name string
		desc RenderPassDescriptor
		want []string
	}{
		{"zero value", RenderPassDescriptor{}, nil},
		{"depth zero", RenderPassDescriptor{ClearDepth: &zero}, []string{call("Clear", gl.Enum(gl.DEPTH_BUFFER_BIT))}},
		{"stencil", RenderPassDescriptor{ClearStencil: &stencil}, []string{call("Clear", gl.Enum(gl.STENCIL_BUFFER_BIT))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := d.CreateRenderPass(&tt.desc)
			if err != nil {
				t.Fatalf("CreateRenderPass() error = %v", err)
			}
			ctx.Reset()
			d.BeginRenderPass(p)
			d.SubmitRenderPass()
			if got := calls(ctx, "Clear"); len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
				t.Errorf("Clear calls = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Transfers
// =============================================================================

func TestTransfers_RoundTrip(t *testing.T) {
	d, _ := newTestDevice(t)
	const usage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	src := mustTexture(t, d, 2, 2, usage)
	dst := mustTexture(t, d, 2, 2, usage)
	staging := mustBuffer(t, d, 16, gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst)

	texels := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	size := gputypes.Extent3D{Width: 2, Height: 2, DepthOrArrayLayers: 1}
	layout := gputypes.TextureDataLayout{BytesPerRow: 8, RowsPerImage: 2}

	if err := d.WriteTexture(ImageCopyTexture{Texture: src}, texels, layout, size); err != nil {
		t.Fatalf("WriteTexture() error = %v", err)
	}
	if err := d.CopyTextureToBuffer(ImageCopyTexture{Texture: src}, ImageCopyBuffer{Buffer: staging, Layout: layout}, size); err != nil {
		t.Fatalf("CopyTextureToBuffer() error = %v", err)
	}
	if err := d.CopyBufferToTexture(ImageCopyBuffer{Buffer: staging, Layout: layout}, ImageCopyTexture{Texture: dst}, size); err != nil {
		t.Fatalf("CopyBufferToTexture() error = %v", err)
	}
	got, err := d.ReadTexturePixels(dst, 0, 0)
	if err != nil {
		t.Fatalf("ReadTexturePixels() error = %v", err)
	}
	if !bytes.Equal(got, texels) {
		t.Errorf("ReadTexturePixels() = %v, want %v", got, texels)
	}

	if err := d.CopyTextureToTexture(ImageCopyTexture{Texture: src}, ImageCopyTexture{Texture: 0}, size); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("CopyTextureToTexture(zero dst) error = %v, want %v", err, ErrInvalidHandle)
	}
	if err := d.CopyBufferToBuffer(staging, 0, 0, 0, 4); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("CopyBufferToBuffer(zero dst) error = %v, want %v", err, ErrInvalidHandle)
	}
}
