//go:build gldebug

package webgl

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("no panic, want one containing %q", substr)
		}
		if msg, _ := r.(string); !strings.Contains(msg, substr) {
			t.Errorf("panic = %v, want it to contain %q", r, substr)
		}
	}()
	fn()
}

func TestDebug_ShaderCompile(t *testing.T) {
	d, ctx := newTestDevice(t)
	ctx.FailCompile = true
	expectPanic(t, "failed to compile: compile failed", func() {
		d.CreateShader(&ShaderDescriptor{Label: "broken", Stage: gputypes.ShaderStageVertex})
	})

	ctx.Lost = true
	if _, err := d.CreateShader(&ShaderDescriptor{Label: "lost", Stage: gputypes.ShaderStageVertex}); err != nil {
		t.Errorf("CreateShader() on a lost context error = %v", err)
	}
}

func TestDebug_ProgramLink(t *testing.T) {
	d, ctx := newTestDevice(t)
	vs := mustShader(t, d, gputypes.ShaderStageVertex)
	fs := mustShader(t, d, gputypes.ShaderStageFragment)
	ctx.FailLink = true
	expectPanic(t, `pipeline "bad" failed to link`, func() {
		d.CreateRenderPipeline(&RenderPipelineDescriptor{Label: "bad", VertexShader: vs, FragmentShader: fs})
	})
}

func TestDebug_BindGroupMismatch(t *testing.T) {
	d, _ := newTestDevice(t)
	l := mustLayout(t, d, bufferEntry(0, "Block", false))
	expectPanic(t, "binding 3 not in layout", func() {
		d.CreateBindGroup(&BindGroupDescriptor{Label: "g", Layout: l, Entries: []BindGroupEntry{{Binding: 3}}})
	})
	expectPanic(t, "binding 0 needs a buffer", func() {
		d.CreateBindGroup(&BindGroupDescriptor{Label: "g", Layout: l, Entries: []BindGroupEntry{{Binding: 0}}})
	})
}

func TestDebug_BlockSize(t *testing.T) {
	d, ctx := newTestDevice(t)
	ctx.BlockSizes["Block"] = 64
	l := mustLayout(t, d, bufferEntry(0, "Block", false))
	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l}})
	b := mustBuffer(t, d, 256, gputypes.BufferUsageUniform)
	g := mustGroup(t, d, l, BindGroupEntry{Binding: 0, Buffer: b, Size: 32})

	d.BeginRenderPass(nil)
	d.SetRenderPipeline(p)
	expectPanic(t, "smaller than block size 64", func() {
		d.SetBindGroup(0, g, nil)
	})
}

func TestDebug_SkippedWhenLost(t *testing.T) {
	d, ctx := newTestDevice(t)
	vs := mustShader(t, d, gputypes.ShaderStageVertex)
	fs := mustShader(t, d, gputypes.ShaderStageFragment)
	ctx.Lost = true
	ctx.FailLink = true
	if _, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs}); err != nil {
		t.Errorf("CreateRenderPipeline() error = %v", err)
	}
	if n := ctx.Count("GetProgrami"); n != 0 {
		t.Errorf("GetProgrami calls = %d, want 0 on a lost context", n)
	}
}
