package glgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/backend/webgl"
)

// Descriptors that reference no other resource are shared with the
// backend.
type (
	BufferDescriptor          = webgl.BufferDescriptor
	TextureDescriptor         = webgl.TextureDescriptor
	ShaderDescriptor          = webgl.ShaderDescriptor
	BindGroupLayoutDescriptor = webgl.BindGroupLayoutDescriptor
	BindGroupLayoutEntry      = webgl.BindGroupLayoutEntry
)

// Binding kinds of a BindGroupLayoutEntry.
const (
	BindingBuffer  = webgl.BindingBuffer
	BindingTexture = webgl.BindingTexture
	BindingSampler = webgl.BindingSampler
)

// AutoBinding as a layout entry binding number uses the entry's position.
const AutoBinding = webgl.AutoBinding

// NoClear as a DepthClearValue skips the depth clear.
var NoClear = webgl.NoClear

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	Label            string
	VertexShader     Shader
	FragmentShader   Shader
	BindGroupLayouts []BindGroupLayout
	VertexBuffers    []gputypes.VertexBufferLayout
	Primitive        gputypes.PrimitiveState
	DepthStencil     *gputypes.DepthStencilState
	Multisample      gputypes.MultisampleState
	Targets          []gputypes.ColorTargetState
}

// BindGroupEntry binds a resource to the layout entry with the same
// binding number. Only the handle matching the entry's kind is used.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Offset  uint64
	Size    uint64
	Texture Texture
	Sampler Sampler
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// RenderPassColorAttachment is one color target of an offscreen pass.
type RenderPassColorAttachment struct {
	Texture    Texture
	MipLevel   int
	Layer      int
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDepthStencilAttachment is the depth and stencil target of an
// offscreen pass.
type RenderPassDepthStencilAttachment struct {
	Texture           Texture
	DepthLoadOp       gputypes.LoadOp
	DepthStoreOp      gputypes.StoreOp
	DepthClearValue   float32
	StencilLoadOp     gputypes.LoadOp
	StencilStoreOp    gputypes.StoreOp
	StencilClearValue uint32
}

// RenderPassDescriptor describes a render pass. A pass without attachments
// renders to the default framebuffer and uses the pass-level clears; nil
// clear values are skipped.
type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
	ClearColor             *gputypes.Color
	ClearDepth             *float32
	ClearStencil           *uint32
}

// ImageCopyTexture selects a mip level and origin of a texture.
type ImageCopyTexture struct {
	Texture  Texture
	MipLevel int
	Origin   gputypes.Origin3D
}

// ImageCopyBuffer selects a buffer and the layout of its texel rows.
type ImageCopyBuffer struct {
	Buffer Buffer
	Layout gputypes.TextureDataLayout
}

// =============================================================================
// Creation
// =============================================================================

// CreateBuffer creates a buffer.
func (d *Device) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	b, err := d.dev.CreateBuffer(desc)
	if err != nil {
		return 0, err
	}
	return d.buffers.insert(b)
}

// CreateTexture creates a texture.
func (d *Device) CreateTexture(desc *TextureDescriptor) (Texture, error) {
	t, err := d.dev.CreateTexture(desc)
	if err != nil {
		return 0, err
	}
	return d.textures.insert(t)
}

// CreateSampler creates a sampler.
func (d *Device) CreateSampler(desc *gputypes.SamplerDescriptor) (Sampler, error) {
	s, err := d.dev.CreateSampler(desc)
	if err != nil {
		return 0, err
	}
	return d.samplers.insert(s)
}

// CreateShader compiles a GLSL ES 3.00 shader.
func (d *Device) CreateShader(desc *ShaderDescriptor) (Shader, error) {
	s, err := d.dev.CreateShader(desc)
	if err != nil {
		return 0, err
	}
	return d.shaders.insert(s)
}

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	l, err := d.dev.CreateBindGroupLayout(desc)
	if err != nil {
		return 0, err
	}
	return d.layouts.insert(l)
}

// CreateBindGroup creates a bind group. Every handle of an entry used by
// the layout must be live.
func (d *Device) CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error) {
	if desc == nil {
		return 0, webgl.ErrNilDescriptor
	}
	layout, err := d.layouts.resolve(desc.Layout, false)
	if err != nil {
		return 0, err
	}
	entries := make([]webgl.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		out := webgl.BindGroupEntry{Binding: e.Binding, Offset: e.Offset, Size: e.Size}
		if out.Buffer, err = d.buffers.resolve(e.Buffer, true); err != nil {
			return 0, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, err)
		}
		if out.Texture, err = d.textures.resolve(e.Texture, true); err != nil {
			return 0, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, err)
		}
		if out.Sampler, err = d.samplers.resolve(e.Sampler, true); err != nil {
			return 0, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, err)
		}
		entries[i] = out
	}
	g, err := d.dev.CreateBindGroup(&webgl.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return 0, err
	}
	return d.groups.insert(g)
}

// CreateRenderPipeline links the two shaders and bakes the pipeline state.
func (d *Device) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	if desc == nil {
		return 0, webgl.ErrNilDescriptor
	}
	vs, err := d.shaders.resolve(desc.VertexShader, true)
	if err != nil {
		return 0, fmt.Errorf("pipeline %q vertex shader: %w", desc.Label, err)
	}
	fs, err := d.shaders.resolve(desc.FragmentShader, true)
	if err != nil {
		return 0, fmt.Errorf("pipeline %q fragment shader: %w", desc.Label, err)
	}
	layouts := make([]*webgl.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, h := range desc.BindGroupLayouts {
		if layouts[i], err = d.layouts.resolve(h, false); err != nil {
			return 0, fmt.Errorf("pipeline %q group %d: %w", desc.Label, i, err)
		}
	}
	p, err := d.dev.CreateRenderPipeline(&webgl.RenderPipelineDescriptor{
		Label:            desc.Label,
		VertexShader:     vs,
		FragmentShader:   fs,
		BindGroupLayouts: layouts,
		VertexBuffers:    desc.VertexBuffers,
		Primitive:        desc.Primitive,
		DepthStencil:     desc.DepthStencil,
		Multisample:      desc.Multisample,
		Targets:          desc.Targets,
	})
	if err != nil {
		return 0, err
	}
	return d.pipelines.insert(p)
}

// CreateRenderPass creates the framebuffers of a render pass.
func (d *Device) CreateRenderPass(desc *RenderPassDescriptor) (RenderPass, error) {
	if desc == nil {
		return 0, webgl.ErrNilDescriptor
	}
	out := &webgl.RenderPassDescriptor{
		Label:        desc.Label,
		ClearColor:   desc.ClearColor,
		ClearDepth:   desc.ClearDepth,
		ClearStencil: desc.ClearStencil,
	}
	for i, a := range desc.ColorAttachments {
		t, err := d.textures.resolve(a.Texture, false)
		if err != nil {
			return 0, fmt.Errorf("render pass %q color attachment %d: %w", desc.Label, i, err)
		}
		out.ColorAttachments = append(out.ColorAttachments, webgl.RenderPassColorAttachment{
			Texture:    t,
			MipLevel:   a.MipLevel,
			Layer:      a.Layer,
			LoadOp:     a.LoadOp,
			StoreOp:    a.StoreOp,
			ClearValue: a.ClearValue,
		})
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		t, err := d.textures.resolve(ds.Texture, false)
		if err != nil {
			return 0, fmt.Errorf("render pass %q depth attachment: %w", desc.Label, err)
		}
		out.DepthStencilAttachment = &webgl.RenderPassDepthStencilAttachment{
			Texture:           t,
			DepthLoadOp:       ds.DepthLoadOp,
			DepthStoreOp:      ds.DepthStoreOp,
			DepthClearValue:   ds.DepthClearValue,
			StencilLoadOp:     ds.StencilLoadOp,
			StencilStoreOp:    ds.StencilStoreOp,
			StencilClearValue: ds.StencilClearValue,
		}
	}
	p, err := d.dev.CreateRenderPass(out)
	if err != nil {
		return 0, err
	}
	return d.passes.insert(p)
}

// =============================================================================
// Destruction
// =============================================================================

// DestroyBuffer destroys a buffer. Stale handles are ignored.
func (d *Device) DestroyBuffer(h Buffer) { d.buffers.destroy(h) }

// DestroyTexture destroys a texture. Stale handles are ignored.
func (d *Device) DestroyTexture(h Texture) { d.textures.destroy(h) }

// DestroySampler destroys a sampler. Stale handles are ignored.
func (d *Device) DestroySampler(h Sampler) { d.samplers.destroy(h) }

// DestroyShader destroys a shader. Pipelines linked from it keep working.
func (d *Device) DestroyShader(h Shader) { d.shaders.destroy(h) }

// DestroyBindGroupLayout destroys a bind group layout.
func (d *Device) DestroyBindGroupLayout(h BindGroupLayout) { d.layouts.destroy(h) }

// DestroyBindGroup destroys a bind group.
func (d *Device) DestroyBindGroup(h BindGroup) { d.groups.destroy(h) }

// DestroyRenderPipeline destroys a render pipeline.
func (d *Device) DestroyRenderPipeline(h RenderPipeline) { d.pipelines.destroy(h) }

// DestroyRenderPass destroys a render pass and its framebuffers.
func (d *Device) DestroyRenderPass(h RenderPass) { d.passes.destroy(h) }

// =============================================================================
// Transfers
// =============================================================================

func (d *Device) imageCopyTexture(c ImageCopyTexture) (webgl.ImageCopyTexture, error) {
	t, err := d.textures.resolve(c.Texture, false)
	if err != nil {
		return webgl.ImageCopyTexture{}, err
	}
	return webgl.ImageCopyTexture{Texture: t, MipLevel: c.MipLevel, Origin: c.Origin}, nil
}

func (d *Device) imageCopyBuffer(c ImageCopyBuffer) (webgl.ImageCopyBuffer, error) {
	b, err := d.buffers.resolve(c.Buffer, false)
	if err != nil {
		return webgl.ImageCopyBuffer{}, err
	}
	return webgl.ImageCopyBuffer{Buffer: b, Layout: c.Layout}, nil
}

// WriteBuffer uploads data into the buffer at offset.
func (d *Device) WriteBuffer(h Buffer, offset int, data []byte) error {
	b, err := d.buffers.resolve(h, false)
	if err != nil {
		return err
	}
	return d.dev.WriteBuffer(b, offset, data)
}

// CopyBufferToBuffer copies size bytes between buffers.
func (d *Device) CopyBufferToBuffer(src Buffer, srcOffset int, dst Buffer, dstOffset int, size int) error {
	s, err := d.buffers.resolve(src, false)
	if err != nil {
		return err
	}
	t, err := d.buffers.resolve(dst, false)
	if err != nil {
		return err
	}
	return d.dev.CopyBufferToBuffer(s, srcOffset, t, dstOffset, size)
}

// WriteTexture uploads texel rows described by layout into dst.
func (d *Device) WriteTexture(dst ImageCopyTexture, data []byte, layout gputypes.TextureDataLayout, size gputypes.Extent3D) error {
	t, err := d.imageCopyTexture(dst)
	if err != nil {
		return err
	}
	return d.dev.WriteTexture(t, data, layout, size)
}

// WriteTextureImage uploads img, scaled to size, into an RGBA8 texture.
func (d *Device) WriteTextureImage(dst ImageCopyTexture, img image.Image, size gputypes.Extent3D) error {
	t, err := d.imageCopyTexture(dst)
	if err != nil {
		return err
	}
	return d.dev.WriteTextureImage(t, img, size)
}

// CopyBufferToTexture copies texel rows from a buffer into a texture.
func (d *Device) CopyBufferToTexture(src ImageCopyBuffer, dst ImageCopyTexture, size gputypes.Extent3D) error {
	b, err := d.imageCopyBuffer(src)
	if err != nil {
		return err
	}
	t, err := d.imageCopyTexture(dst)
	if err != nil {
		return err
	}
	return d.dev.CopyBufferToTexture(b, t, size)
}

// CopyTextureToBuffer copies a texture region into texel rows of a buffer.
func (d *Device) CopyTextureToBuffer(src ImageCopyTexture, dst ImageCopyBuffer, size gputypes.Extent3D) error {
	t, err := d.imageCopyTexture(src)
	if err != nil {
		return err
	}
	b, err := d.imageCopyBuffer(dst)
	if err != nil {
		return err
	}
	return d.dev.CopyTextureToBuffer(t, b, size)
}

// CopyTextureToTexture copies a region between textures.
func (d *Device) CopyTextureToTexture(src, dst ImageCopyTexture, size gputypes.Extent3D) error {
	s, err := d.imageCopyTexture(src)
	if err != nil {
		return err
	}
	t, err := d.imageCopyTexture(dst)
	if err != nil {
		return err
	}
	return d.dev.CopyTextureToTexture(s, t, size)
}

// ReadTexturePixels synchronously reads one level and layer of a texture.
// It stalls the pipeline and is meant for tests and debugging.
func (d *Device) ReadTexturePixels(h Texture, level, layer int) ([]byte, error) {
	t, err := d.textures.resolve(h, false)
	if err != nil {
		return nil, err
	}
	return d.dev.ReadTexturePixels(t, level, layer)
}
