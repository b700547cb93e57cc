package glgpu

import (
	"github.com/gogpu/gputypes"
)

// Encoder commands. They return nothing: a zero, destroyed or stale handle
// makes the command a no-op, as does any command outside a render pass.

// BeginRenderPass starts recording into p. The zero handle renders to the
// default framebuffer without clearing it.
func (d *Device) BeginRenderPass(p RenderPass) {
	if p == 0 {
		d.dev.BeginRenderPass(nil)
		return
	}
	pass, ok := d.passes.get(p)
	if !ok {
		return
	}
	d.dev.BeginRenderPass(pass)
}

// SubmitRenderPass ends the active pass, resolving multisampled targets.
func (d *Device) SubmitRenderPass() { d.dev.SubmitRenderPass() }

// InPass reports whether a render pass is active.
func (d *Device) InPass() bool { return d.dev.InPass() }

// SetRenderPipeline sets the pipeline for subsequent draws.
func (d *Device) SetRenderPipeline(p RenderPipeline) {
	if pipeline, ok := d.pipelines.get(p); ok {
		d.dev.SetRenderPipeline(pipeline)
	}
}

// SetIndexBuffer sets the index buffer. offset is in bytes.
func (d *Device) SetIndexBuffer(b Buffer, format gputypes.IndexFormat, offset int) {
	if buf, ok := d.buffers.get(b); ok {
		d.dev.SetIndexBuffer(buf, format, offset)
	}
}

// SetVertexBuffer sets the buffer of a vertex buffer slot.
func (d *Device) SetVertexBuffer(slot int, b Buffer, offset int) {
	if buf, ok := d.buffers.get(b); ok {
		d.dev.SetVertexBuffer(slot, buf, offset)
	}
}

// SetBindGroup sets the bind group at index with its dynamic offsets.
func (d *Device) SetBindGroup(index int, g BindGroup, offsets []uint32) {
	if group, ok := d.groups.get(g); ok {
		d.dev.SetBindGroup(index, group, offsets)
	}
}

// Draw draws non-indexed primitives.
func (d *Device) Draw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	d.dev.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// DrawIndexed draws indexed primitives.
func (d *Device) DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance int) {
	d.dev.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// SetViewport sets the viewport in top-left origin coordinates.
func (d *Device) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	d.dev.SetViewport(x, y, width, height, minDepth, maxDepth)
}

// SetScissorRect sets the scissor rectangle in top-left origin coordinates.
func (d *Device) SetScissorRect(x, y, width, height int) {
	d.dev.SetScissorRect(x, y, width, height)
}

// SetBlendConstant sets the constant blend color.
func (d *Device) SetBlendConstant(c gputypes.Color) { d.dev.SetBlendConstant(c) }

// SetStencilReference sets the stencil reference value.
func (d *Device) SetStencilReference(ref uint32) { d.dev.SetStencilReference(ref) }
