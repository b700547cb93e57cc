package webgl

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

func mustLayout(t *testing.T, d *Device, entries ...BindGroupLayoutEntry) *BindGroupLayout {
	t.Helper()
	l, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{Label: "test", Entries: entries})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout() error = %v", err)
	}
	return l
}

func mustGroup(t *testing.T, d *Device, l *BindGroupLayout, entries ...BindGroupEntry) *BindGroup {
	t.Helper()
	g, err := d.CreateBindGroup(&BindGroupDescriptor{Label: "test", Layout: l, Entries: entries})
	if err != nil {
		t.Fatalf("CreateBindGroup() error = %v", err)
	}
	return g
}

func mustSampler(t *testing.T, d *Device) *Sampler {
	t.Helper()
	s, err := d.CreateSampler(&gputypes.SamplerDescriptor{Label: "test"})
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}
	return s
}

func bufferEntry(binding uint32, name string, dynamic bool) BindGroupLayoutEntry {
	return BindGroupLayoutEntry{Binding: binding, Name: name, Kind: BindingBuffer, HasDynamicOffset: dynamic}
}

func textureEntry(binding uint32, name string) BindGroupLayoutEntry {
	return BindGroupLayoutEntry{Binding: binding, Name: name, Kind: BindingTexture}
}

func samplerEntry(binding uint32, name string) BindGroupLayoutEntry {
	return BindGroupLayoutEntry{Binding: binding, Name: name, Kind: BindingSampler}
}

// =============================================================================
// Layouts
// =============================================================================

func TestLayoutEntry(t *testing.T) {
	tests := []struct {
		name    string
		in      gputypes.BindGroupLayoutEntry
		kind    BindingKind
		wantErr bool
	}{
		{
			name: "buffer",
			in: gputypes.BindGroupLayoutEntry{Binding: 2, Buffer: &gputypes.BufferBindingLayout{
				HasDynamicOffset: true, MinBindingSize: 64,
			}},
			kind: BindingBuffer,
		},
		{
			name: "texture",
			in: gputypes.BindGroupLayoutEntry{Binding: 3, Texture: &gputypes.TextureBindingLayout{
				SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D,
			}},
			kind: BindingTexture,
		},
		{
			name: "sampler",
			in: gputypes.BindGroupLayoutEntry{Binding: 4, Sampler: &gputypes.SamplerBindingLayout{
				Type: gputypes.SamplerBindingTypeFiltering,
			}},
			kind: BindingSampler,
		},
		{
			name:    "empty",
			in:      gputypes.BindGroupLayoutEntry{Binding: 5},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LayoutEntry("u_"+tt.name, tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBindingKind) {
					t.Errorf("LayoutEntry() error = %v, want %v", err, ErrBindingKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("LayoutEntry() error = %v", err)
			}
			if got.Kind != tt.kind || got.Binding != tt.in.Binding || got.Name != "u_"+tt.name {
				t.Errorf("LayoutEntry() = %+v", got)
			}
		})
	}

	got, _ := LayoutEntry("u", gputypes.BindGroupLayoutEntry{Buffer: &gputypes.BufferBindingLayout{
		HasDynamicOffset: true, MinBindingSize: 64,
	}})
	if !got.HasDynamicOffset || got.MinBindingSize != 64 {
		t.Errorf("buffer fields = (%v, %d), want (true, 64)", got.HasDynamicOffset, got.MinBindingSize)
	}
}

func TestCreateBindGroupLayout(t *testing.T) {
	d, _ := newTestDevice(t)
	l := mustLayout(t, d,
		bufferEntry(AutoBinding, "a", true),
		bufferEntry(7, "b", false),
		textureEntry(AutoBinding, "c"),
		bufferEntry(AutoBinding, "d", true),
	)

	var bindings []uint32
	for _, e := range l.Entries() {
		bindings = append(bindings, e.Binding)
	}
	want := []uint32{0, 7, 2, 3}
	for i := range want {
		if bindings[i] != want[i] {
			t.Errorf("Entries()[%d].Binding = %d, want %d", i, bindings[i], want[i])
		}
	}
	if n := l.DynamicOffsetCount(); n != 2 {
		t.Errorf("DynamicOffsetCount() = %d, want 2", n)
	}

	_, err := d.CreateBindGroupLayout(&BindGroupLayoutDescriptor{Entries: []BindGroupLayoutEntry{{Kind: BindingKind(9)}}})
	if !errors.Is(err, ErrBindingKind) {
		t.Errorf("unknown kind error = %v, want %v", err, ErrBindingKind)
	}
}

// =============================================================================
// Resolver
// =============================================================================

func TestResolveBindings(t *testing.T) {
	d, ctx := newTestDevice(t)
	l0 := mustLayout(t, d,
		bufferEntry(0, "Globals", false),
		textureEntry(1, "u_image"),
		samplerEntry(2, "u_image"),
	)
	// The sampler precedes its texture.
	l1 := mustLayout(t, d,
		samplerEntry(0, "u_mask"),
		textureEntry(1, "u_mask"),
		bufferEntry(2, "Locals", true),
	)
	ctx.Reset()

	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l0, l1}})

	type slotIndex struct {
		kind  BindingKind
		index int
	}
	want := [][]slotIndex{
		{{BindingBuffer, 0}, {BindingTexture, 0}, {BindingSampler, 0}},
		{{BindingSampler, 1}, {BindingTexture, 1}, {BindingBuffer, 1}},
	}
	for gi, slots := range p.bindings.groups {
		for i, s := range slots {
			if got := (slotIndex{s.kind, s.index}); got != want[gi][i] {
				t.Errorf("group %d entry %d = %+v, want %+v", gi, i, got, want[gi][i])
			}
		}
	}
	if p.bindings.blocks != 2 || p.bindings.units != 2 {
		t.Errorf("blocks, units = %d, %d; want 2, 2", p.bindings.blocks, p.bindings.units)
	}

	wantBlocks := []string{
		call("UniformBlockBinding", p.program, uint32(0), uint32(0)),
		call("UniformBlockBinding", p.program, uint32(1), uint32(1)),
	}
	if got := calls(ctx, "UniformBlockBinding"); !equalStrings(got, wantBlocks) {
		t.Errorf("UniformBlockBinding calls = %v, want %v", got, wantBlocks)
	}

	// Sampler uniforms are set once, with the program current, and the
	// previous program is restored.
	uniforms := ctx.Filter("Uniform1i")
	if len(uniforms) != 2 {
		t.Fatalf("Uniform1i calls = %d, want 2", len(uniforms))
	}
	for i, c := range uniforms {
		if c.Args[1] != i {
			t.Errorf("Uniform1i #%d unit = %v, want %d", i, c.Args[1], i)
		}
	}
	wantPrograms := []string{call("UseProgram", p.program), call("UseProgram", gl.Program(0))}
	if got := calls(ctx, "UseProgram"); !equalStrings(got, wantPrograms) {
		t.Errorf("UseProgram calls = %v, want %v", got, wantPrograms)
	}
}

func TestResolveBindings_InactiveBlockKeepsSlot(t *testing.T) {
	d, ctx := newTestDevice(t)
	ctx.MissingBlocks["Unused"] = true
	l := mustLayout(t, d, bufferEntry(0, "Unused", false), bufferEntry(1, "Used", false))

	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l}})

	if got := p.bindings.groups[0][1].index; got != 1 {
		t.Errorf("second block binding = %d, want 1", got)
	}
	if n := ctx.Count("UniformBlockBinding"); n != 1 {
		t.Errorf("UniformBlockBinding calls = %d, want 1", n)
	}
}

// =============================================================================
// Binding
// =============================================================================

func TestSetBindGroup_DynamicOffsets(t *testing.T) {
	d, ctx := newTestDevice(t)
	l := mustLayout(t, d,
		bufferEntry(0, "Static", false),
		bufferEntry(1, "First", true),
		bufferEntry(2, "Second", true),
	)
	buf := mustBuffer(t, d, 2048, gputypes.BufferUsageUniform)
	g := mustGroup(t, d, l,
		BindGroupEntry{Binding: 0, Buffer: buf, Offset: 0, Size: 64},
		BindGroupEntry{Binding: 1, Buffer: buf, Offset: 256, Size: 64},
		BindGroupEntry{Binding: 2, Buffer: buf, Offset: 1024},
	)
	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l}})

	d.BeginRenderPass(nil)
	d.SetRenderPipeline(p)
	ctx.Reset()
	d.SetBindGroup(0, g, []uint32{512, 256})

	want := []string{
		call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 0, buf.buffer, 0, 64),
		call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 1, buf.buffer, 768, 64),
		call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 2, buf.buffer, 1280, 768),
	}
	if got := calls(ctx, "BindBufferRange"); !equalStrings(got, want) {
		t.Errorf("BindBufferRange calls =\n%v\nwant\n%v", got, want)
	}

	// Only the ranges that moved are rebound.
	ctx.Reset()
	d.SetBindGroup(0, g, []uint32{512, 0})
	want = []string{call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 2, buf.buffer, 1024, 1024)}
	if got := calls(ctx, "BindBufferRange"); !equalStrings(got, want) {
		t.Errorf("BindBufferRange calls = %v, want %v", got, want)
	}
}

func TestSetBindGroup_TexturesAndSamplers(t *testing.T) {
	d, ctx := newTestDevice(t)
	sampled := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	a := mustTexture(t, d, TextureDescriptor{Label: "a", Size: gputypes.Extent3D{Width: 4, Height: 4}, Usage: sampled})
	b := mustTexture(t, d, TextureDescriptor{Label: "b", Size: gputypes.Extent3D{Width: 4, Height: 4}, Usage: sampled})
	sa, sb := mustSampler(t, d), mustSampler(t, d)

	l := mustLayout(t, d,
		textureEntry(0, "u_a"), samplerEntry(1, "u_a"),
		textureEntry(2, "u_b"), samplerEntry(3, "u_b"),
	)
	g := mustGroup(t, d, l,
		BindGroupEntry{Binding: 0, Texture: a},
		BindGroupEntry{Binding: 1, Sampler: sa},
		BindGroupEntry{Binding: 2, Texture: b},
		BindGroupEntry{Binding: 3, Sampler: sb},
	)
	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l}})

	d.BeginRenderPass(nil)
	d.SetRenderPipeline(p)
	ctx.Reset()
	d.SetBindGroup(0, g, nil)

	want := []string{
		call("BindTexture", gl.Enum(gl.TEXTURE_2D), a.texture),
		call("BindSampler", 0, sa.sampler),
		call("ActiveTexture", gl.Enum(gl.TEXTURE0+1)),
		call("BindTexture", gl.Enum(gl.TEXTURE_2D), b.texture),
		call("BindSampler", 1, sb.sampler),
	}
	if got := calls(ctx, "ActiveTexture", "BindTexture", "BindSampler"); !equalStrings(got, want) {
		t.Errorf("calls =\n%v\nwant\n%v", got, want)
	}
}

func TestSetBindGroup_ReappliedAfterPipelineSwitch(t *testing.T) {
	d, ctx := newTestDevice(t)
	one := mustLayout(t, d, bufferEntry(0, "A", false))
	two := mustLayout(t, d, bufferEntry(0, "B", false), bufferEntry(1, "C", false))
	shared := mustLayout(t, d, bufferEntry(0, "Shared", false))

	buf := mustBuffer(t, d, 256, gputypes.BufferUsageUniform)
	g := mustGroup(t, d, shared, BindGroupEntry{Binding: 0, Buffer: buf, Size: 16})

	pa := mustPipeline(t, d, RenderPipelineDescriptor{Label: "a", BindGroupLayouts: []*BindGroupLayout{one, shared}})
	pb := mustPipeline(t, d, RenderPipelineDescriptor{Label: "b", BindGroupLayouts: []*BindGroupLayout{two, shared}})

	d.BeginRenderPass(nil)
	ctx.Reset()
	d.SetBindGroup(1, g, nil)
	if n := ctx.Count("BindBufferRange"); n != 0 {
		t.Errorf("SetBindGroup without a pipeline bound %d ranges, want 0", n)
	}

	d.SetRenderPipeline(pa)
	d.SetRenderPipeline(pb)

	want := []string{
		call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 1, buf.buffer, 0, 16),
		call("BindBufferRange", gl.Enum(gl.UNIFORM_BUFFER), 2, buf.buffer, 0, 16),
	}
	if got := calls(ctx, "BindBufferRange"); !equalStrings(got, want) {
		t.Errorf("BindBufferRange calls = %v, want %v", got, want)
	}

	// A new pass starts without groups.
	d.SubmitRenderPass()
	d.BeginRenderPass(nil)
	ctx.Reset()
	d.SetRenderPipeline(pa)
	if n := ctx.Count("BindBufferRange"); n != 0 {
		t.Errorf("groups leaked into the next pass: %d BindBufferRange calls", n)
	}
}

func TestSetBindGroup_Ignored(t *testing.T) {
	d, ctx := newTestDevice(t)
	l := mustLayout(t, d, bufferEntry(0, "U", false))
	buf := mustBuffer(t, d, 64, gputypes.BufferUsageUniform)
	g := mustGroup(t, d, l, BindGroupEntry{Binding: 0, Buffer: buf})
	p := mustPipeline(t, d, RenderPipelineDescriptor{BindGroupLayouts: []*BindGroupLayout{l}})

	// Outside a pass.
	d.SetBindGroup(0, g, nil)

	d.BeginRenderPass(nil)
	d.SetRenderPipeline(p)
	ctx.Reset()

	d.SetBindGroup(maxBindGroups, g, nil)
	d.SetBindGroup(-1, g, nil)
	g.Destroy()
	d.SetBindGroup(0, g, nil)

	if n := ctx.Count("BindBufferRange"); n != 0 {
		t.Errorf("BindBufferRange calls = %d, want 0", n)
	}
}
