package glgpu

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

func TestCommands_Draw(t *testing.T) {
	d, ctx := newTestDevice(t)
	p := mustPipeline(t, d)
	vb := mustBuffer(t, d, 24, gputypes.BufferUsageVertex)
	ctx.Reset()

	d.BeginRenderPass(0)
	if !d.InPass() {
		t.Fatal("InPass() = false after BeginRenderPass(0)")
	}
	d.SetRenderPipeline(p)
	d.SetVertexBuffer(0, vb, 0)
	d.Draw(3, 1, 0, 0)
	d.SubmitRenderPass()

	got := calls(ctx, "DrawArraysInstanced")
	want := []string{call("DrawArraysInstanced", gl.Enum(gl.TRIANGLES), 0, 3, 1)}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("draws = %v, want %v", got, want)
	}
	if ctx.Count("Clear") != 0 {
		t.Errorf("Clear calls = %d, want 0 for the zero pass", ctx.Count("Clear"))
	}
}

func TestCommands_StaleHandlesIgnored(t *testing.T) {
	d, ctx := newTestDevice(t)
	p := mustPipeline(t, d)
	vb := mustBuffer(t, d, 24, gputypes.BufferUsageVertex)
	ib := mustBuffer(t, d, 12, gputypes.BufferUsageIndex)
	tex := mustTexture(t, d, 8, 8, gputypes.TextureUsageRenderAttachment)
	pass, err := d.CreateRenderPass(&RenderPassDescriptor{
		ColorAttachments: []RenderPassColorAttachment{{Texture: tex}},
	})
	if err != nil {
		t.Fatalf("CreateRenderPass() error = %v", err)
	}
	d.DestroyRenderPass(pass)
	d.DestroyRenderPipeline(p)
	d.DestroyBuffer(vb)
	d.DestroyBuffer(ib)
	ctx.Reset()

	d.BeginRenderPass(pass)
	if d.InPass() {
		t.Fatal("BeginRenderPass(stale) started a pass")
	}

	d.BeginRenderPass(0)
	d.SetRenderPipeline(p)
	d.SetVertexBuffer(0, vb, 0)
	d.SetIndexBuffer(ib, gputypes.IndexFormatUint16, 0)
	d.SetBindGroup(0, BindGroup(0x10000), nil)
	d.Draw(3, 1, 0, 0)
	d.DrawIndexed(3, 1, 0, 0, 0)
	d.SubmitRenderPass()

	for _, name := range []string{"UseProgram", "BindBuffer", "BindBufferRange", "DrawArraysInstanced", "DrawElementsInstanced"} {
		if got := ctx.Count(name); got != 0 {
			t.Errorf("%s calls = %d, want 0", name, got)
		}
	}
}

func TestCommands_BindGroup(t *testing.T) {
	d, ctx := newTestDevice(t)
	l := mustLayout(t, d, BindGroupLayoutEntry{Binding: 0, Name: "Block", Kind: BindingBuffer, HasDynamicOffset: true})
	p := mustPipeline(t, d, l)
	ub := mustBuffer(t, d, 512, gputypes.BufferUsageUniform)
	g, err := d.CreateBindGroup(&BindGroupDescriptor{
		Layout:  l,
		Entries: []BindGroupEntry{{Binding: 0, Buffer: ub, Size: 64}},
	})
	if err != nil {
		t.Fatalf("CreateBindGroup() error = %v", err)
	}
	ctx.Reset()

	d.BeginRenderPass(0)
	d.SetRenderPipeline(p)
	d.SetBindGroup(0, g, []uint32{256})
	d.SubmitRenderPass()

	ranges := ctx.Filter("BindBufferRange")
	if len(ranges) != 1 {
		t.Fatalf("BindBufferRange calls = %d, want 1", len(ranges))
	}
	if got := ranges[0].Args[3]; got != 256 {
		t.Errorf("BindBufferRange offset = %v, want 256", got)
	}
}

func TestCommands_DynamicState(t *testing.T) {
	d, ctx := newTestDevice(t)
	ctx.Reset()

	// Idle: nothing reaches the driver.
	d.SetViewport(0, 0, 8, 8, 0, 1)
	d.SetScissorRect(0, 0, 8, 8)
	d.SetBlendConstant(gputypes.Color{R: 1})
	d.SetStencilReference(1)
	if len(ctx.Calls) != 0 {
		t.Fatalf("idle commands emitted %d calls", len(ctx.Calls))
	}

	d.BeginRenderPass(0)
	d.SetScissorRect(0, 0, 8, 4)
	d.SetBlendConstant(gputypes.Color{R: 1, A: 1})
	d.SubmitRenderPass()

	// Y is flipped against the back buffer height.
	want := call("Scissor", 0, testHeight-4, 8, 4)
	got := calls(ctx, "Scissor")
	if len(got) == 0 || got[len(got)-1] != want {
		t.Errorf("Scissor calls = %v, want last %s", got, want)
	}
	if got := ctx.Count("BlendColor"); got != 1 {
		t.Errorf("BlendColor calls = %d, want 1", got)
	}
}
