package glgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/backend/webgl"
	"github.com/gogpu/glgpu/internal/wire"
)

// Packed descriptors are fixed-layout little-endian records in a linear
// memory, as written by a client that shares memory with the device (see
// package wire for the layouts). Reads outside mem and unknown kinds
// panic.

// VertexBufferLayoutPacked decodes n vertex attributes at addr into a
// buffer layout.
func VertexBufferLayoutPacked(mem []byte, stride uint64, step gputypes.VertexStepMode, addr uint32, n int) gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    step,
		Attributes:  wire.VertexAttributes(mem, addr, n),
	}
}

// CreateBindGroupLayoutPacked creates a layout from n packed entries at
// addr.
func (d *Device) CreateBindGroupLayoutPacked(mem []byte, label string, addr uint32, n int) (BindGroupLayout, error) {
	records := wire.LayoutEntries(mem, addr, n)
	entries := make([]webgl.BindGroupLayoutEntry, len(records))
	for i, r := range records {
		e := webgl.BindGroupLayoutEntry{
			Binding:    r.Binding,
			Name:       r.Name,
			Visibility: r.Visibility,
		}
		switch r.Kind {
		case wire.KindBuffer:
			e.Kind = webgl.BindingBuffer
			e.HasDynamicOffset = r.Extra0 != 0
			e.MinBindingSize = uint64(r.Extra1)
		case wire.KindTexture:
			e.Kind = webgl.BindingTexture
			e.SampleType = gputypes.TextureSampleType(r.Extra0)
			e.ViewDimension = gputypes.TextureViewDimension(r.Extra1 &^ wire.MultisampledBit)
			e.Multisampled = r.Extra1&wire.MultisampledBit != 0
		case wire.KindSampler:
			e.Kind = webgl.BindingSampler
			e.SamplerType = gputypes.SamplerBindingType(r.Extra0)
		}
		entries[i] = e
	}
	return d.CreateBindGroupLayout(&webgl.BindGroupLayoutDescriptor{Label: label, Entries: entries})
}

// CreateBindGroupPacked creates a bind group from n packed entries at
// addr. An entry whose handle is stale is logged and dropped, so its
// binding stays empty and is skipped when the group is set.
func (d *Device) CreateBindGroupPacked(mem []byte, label string, layout BindGroupLayout, addr uint32, n int) (BindGroup, error) {
	records := wire.GroupEntries(mem, addr, n)
	entries := make([]BindGroupEntry, 0, len(records))
	for _, r := range records {
		e := BindGroupEntry{
			Binding: r.Binding,
			Offset:  uint64(r.Offset),
			Size:    uint64(r.Size),
		}
		var live bool
		switch r.Kind {
		case wire.KindBuffer:
			e.Buffer = Buffer(r.Handle)
			_, live = d.buffers.get(e.Buffer)
		case wire.KindTexture:
			e.Texture = Texture(r.Handle)
			_, live = d.textures.get(e.Texture)
		case wire.KindSampler:
			e.Sampler = Sampler(r.Handle)
			_, live = d.samplers.get(e.Sampler)
		}
		if !live {
			d.logger().Warn("glgpu: stale handle in packed bind group",
				slog.String("group", label),
				slog.Uint64("binding", uint64(r.Binding)),
				slog.String("kind", r.Kind.String()),
				slog.String("handle", fmt.Sprintf("%#x", r.Handle)))
			continue
		}
		entries = append(entries, e)
	}
	return d.CreateBindGroup(&BindGroupDescriptor{Label: label, Layout: layout, Entries: entries})
}

// CreateRenderPassPacked creates a render pass from n packed attachments
// at addr. Without attachments the pass renders to the default
// framebuffer and clears nothing. A stale texture handle is logged and
// fails the creation.
func (d *Device) CreateRenderPassPacked(mem []byte, label string, addr uint32, n int) (RenderPass, error) {
	desc := &RenderPassDescriptor{Label: label}
	for i, a := range wire.Attachments(mem, addr, n) {
		tex := Texture(a.Texture)
		if _, ok := d.textures.get(tex); !ok {
			d.logger().Warn("glgpu: stale handle in packed render pass",
				slog.String("pass", label),
				slog.Int("attachment", i),
				slog.String("handle", fmt.Sprintf("%#x", a.Texture)))
			return 0, fmt.Errorf("render pass %q attachment %d: %w", label, i, ErrInvalidHandle)
		}
		switch a.Kind {
		case wire.AttachmentColor:
			desc.ColorAttachments = append(desc.ColorAttachments, RenderPassColorAttachment{
				Texture:  tex,
				MipLevel: a.MipLevel,
				Layer:    a.Layer,
				LoadOp:   gputypes.LoadOp(a.LoadOp),
				StoreOp:  gputypes.StoreOp(a.StoreOp),
				ClearValue: gputypes.Color{
					R: float64(a.Clear[0]),
					G: float64(a.Clear[1]),
					B: float64(a.Clear[2]),
					A: float64(a.Clear[3]),
				},
			})
		case wire.AttachmentDepthStencil:
			depthLoad, stencilLoad := wire.DepthOps(a.LoadOp)
			depthStore, stencilStore := wire.DepthOps(a.StoreOp)
			desc.DepthStencilAttachment = &RenderPassDepthStencilAttachment{
				Texture:           tex,
				DepthLoadOp:       gputypes.LoadOp(depthLoad),
				DepthStoreOp:      gputypes.StoreOp(depthStore),
				DepthClearValue:   a.Clear[0],
				StencilLoadOp:     gputypes.LoadOp(stencilLoad),
				StencilStoreOp:    gputypes.StoreOp(stencilStore),
				StencilClearValue: uint32(a.Clear[1]),
			}
		}
	}
	return d.CreateRenderPass(desc)
}
