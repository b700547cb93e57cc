package webgl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

type boundGroup struct {
	group   *BindGroup
	offsets []uint32
}

// encoderState is the per-pass command state. Between passes the device
// is Idle and every command below is ignored.
type encoderState struct {
	active        bool
	pass          *RenderPass
	width, height int

	pipeline *RenderPipeline
	groups   [maxBindGroups]boundGroup

	index       *Buffer
	indexType   gl.Enum
	indexSize   int
	indexOffset int
}

func (e *encoderState) begin(p *RenderPass, width, height int) {
	*e = encoderState{active: true, pass: p, width: width, height: height}
}

func (e *encoderState) end() {
	*e = encoderState{}
}

// InPass reports whether a render pass is active.
func (d *Device) InPass() bool { return d.enc.active }

// SetRenderPipeline binds p: its program, the diff of its pipeline state
// against the applied state, and its vertex layout. Bind groups set
// earlier in the pass are re-applied at the new pipeline's slots.
func (d *Device) SetRenderPipeline(p *RenderPipeline) {
	if !d.enc.active || p == nil || p.destroyed || p.device != d || d.enc.pipeline == p {
		return
	}
	d.enc.pipeline = p
	d.cache.useProgram(p.program)
	d.cache.applyPipeline(&p.state)
	d.vertex.setPipeline(p)
	for i, g := range d.enc.groups {
		if g.group != nil {
			d.bindGroup(p.bindings, i, g.group, g.offsets)
		}
	}
}

// SetIndexBuffer sets the index buffer for DrawIndexed. offset is in bytes.
func (d *Device) SetIndexBuffer(b *Buffer, format gputypes.IndexFormat, offset int) {
	if !d.enc.active || !b.usable(d) {
		return
	}
	if format != gputypes.IndexFormatUint16 && format != gputypes.IndexFormatUint32 {
		return
	}
	d.enc.index = b
	d.enc.indexType, d.enc.indexSize = indexType(format)
	d.enc.indexOffset = offset
	d.cache.bindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.buffer)
}

// SetVertexBuffer sets the buffer and byte offset of a vertex buffer slot.
func (d *Device) SetVertexBuffer(slot int, b *Buffer, offset int) {
	if !d.enc.active || !b.usable(d) {
		return
	}
	d.vertex.setVertexBuffer(slot, b.buffer, offset)
}

// SetBindGroup sets the group at index. It is bound immediately when a
// pipeline is set and again after every pipeline switch in the pass.
// offsets are consumed in entry order by the dynamic buffer entries.
func (d *Device) SetBindGroup(index int, g *BindGroup, offsets []uint32) {
	if !d.enc.active || index < 0 || index >= maxBindGroups || g == nil || g.destroyed || g.device != d {
		return
	}
	d.enc.groups[index] = boundGroup{group: g, offsets: append([]uint32(nil), offsets...)}
	if p := d.enc.pipeline; p != nil && !p.destroyed {
		d.bindGroup(p.bindings, index, g, offsets)
	}
}

// drawable reports whether a draw can be issued.
func (d *Device) drawable() bool {
	return d.enc.active && d.enc.pipeline != nil && !d.enc.pipeline.destroyed
}

// Draw draws vertexCount vertices of instanceCount instances. A non-zero
// firstInstance re-bases the instance-stepped vertex buffers.
func (d *Device) Draw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	if !d.drawable() || vertexCount <= 0 || instanceCount <= 0 {
		return
	}
	d.vertex.rebase(firstInstance, 0)
	d.f.DrawArraysInstanced(d.enc.pipeline.topology, firstVertex, vertexCount, instanceCount)
}

// DrawIndexed draws indexCount indices from the index buffer starting at
// firstIndex. baseVertex and firstInstance re-base the vertex-stepped and
// instance-stepped vertex buffers.
func (d *Device) DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance int) {
	if !d.drawable() || d.enc.index == nil || d.enc.index.destroyed || indexCount <= 0 || instanceCount <= 0 {
		return
	}
	// Buffer uploads rebind the element array binding of the shared VAO.
	d.cache.bindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.enc.index.buffer)
	d.vertex.rebase(firstInstance, baseVertex)
	offset := d.enc.indexOffset + firstIndex*d.enc.indexSize
	d.f.DrawElementsInstanced(d.enc.pipeline.topology, indexCount, d.enc.indexType, offset, instanceCount)
}

// SetViewport sets the viewport in top-left-origin pixels and the depth
// range.
func (d *Device) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	if !d.enc.active {
		return
	}
	h := int(height)
	d.cache.setViewport(int(x), d.enc.height-int(y)-h, int(width), h)
	d.cache.setDepthRange(minDepth, maxDepth)
}

// SetScissorRect restricts drawing to a top-left-origin rectangle.
func (d *Device) SetScissorRect(x, y, width, height int) {
	if !d.enc.active {
		return
	}
	d.cache.setScissor(x, d.enc.height-y-height, width, height)
	d.cache.setScissorTest(true)
}

// SetBlendConstant sets the color used by the Constant blend factors.
func (d *Device) SetBlendConstant(c gputypes.Color) {
	if !d.enc.active {
		return
	}
	d.cache.setBlendColor([4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
}

// SetStencilReference sets the stencil reference value. Only the stencil
// functions are re-issued, with the compare functions and read mask of the
// applied pipeline state.
func (d *Device) SetStencilReference(ref uint32) {
	if !d.enc.active {
		return
	}
	d.cache.setStencilReference(int(ref))
}
