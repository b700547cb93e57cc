package wire

import (
	"reflect"
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

// =============================================================================
// Memory
// =============================================================================

func TestMemory(t *testing.T) {
	m := Memory{0x78, 0x56, 0x34, 0x12, 0x00, 0x00, 0x80, 0x3F, 'h', 'i'}

	if got := m.U32(0); got != 0x12345678 {
		t.Errorf("U32(0) = %#x, want 0x12345678", got)
	}
	if got := m.F32(4); got != 1 {
		t.Errorf("F32(4) = %v, want 1", got)
	}
	if got := m.String(8, 2); got != "hi" {
		t.Errorf("String(8, 2) = %q, want %q", got, "hi")
	}
	if got := m.String(100, 0); got != "" {
		t.Errorf("String(100, 0) = %q, want empty", got)
	}
	expectPanic(t, "outside 10 bytes", func() { m.U32(8) })
	expectPanic(t, "outside 10 bytes", func() { m.Bytes(^uint32(0), 2) })
}

// =============================================================================
// Records
// =============================================================================

func TestVertexAttributes(t *testing.T) {
	attrs := []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatUnorm8x4, Offset: 12, ShaderLocation: 3},
	}
	var b Builder
	b.U32s(0xDEADBEEF)
	addr := b.VertexAttributes(attrs)

	// Struct-of-arrays: all formats, then all offsets, then all locations.
	if got := b.Mem.U32(addr + 4); got != uint32(gputypes.VertexFormatUnorm8x4) {
		t.Errorf("second format word = %d, want %d", got, gputypes.VertexFormatUnorm8x4)
	}
	if got := b.Mem.U32(addr + 12); got != 12 {
		t.Errorf("second offset word = %d, want 12", got)
	}

	got := VertexAttributes(b.Mem, addr, len(attrs))
	if !reflect.DeepEqual(got, attrs) {
		t.Errorf("VertexAttributes() = %+v, want %+v", got, attrs)
	}
	if got := VertexAttributes(b.Mem, addr, 0); got != nil {
		t.Errorf("VertexAttributes(n=0) = %v, want nil", got)
	}
}

func TestLayoutEntries(t *testing.T) {
	entries := []LayoutEntry{
		{Binding: 0, Visibility: gputypes.ShaderStageVertex, Kind: KindBuffer, Extra0: 1, Extra1: 64, Name: "Camera"},
		{Binding: 1, Visibility: gputypes.ShaderStageFragment, Kind: KindTexture,
			Extra0: uint32(gputypes.TextureSampleTypeFloat), Extra1: uint32(gputypes.TextureViewDimension2D) | MultisampledBit,
			Name:   "u_albedo"},
		{Binding: 2, Visibility: gputypes.ShaderStageFragment, Kind: KindSampler, Name: "u_albedo"},
	}
	var b Builder
	addr := b.LayoutEntries(entries)
	if addr%4 != 0 || len(b.Mem) < len(entries)*LayoutEntrySize {
		t.Fatalf("memory = %d bytes at %d", len(b.Mem), addr)
	}

	got := LayoutEntries(b.Mem, addr, len(entries))
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("LayoutEntries() =\n%+v\nwant\n%+v", got, entries)
	}
}

func TestGroupEntries(t *testing.T) {
	entries := []GroupEntry{
		{Binding: 0, Kind: KindBuffer, Handle: 0x10001, Offset: 256, Size: 64},
		{Binding: 1, Kind: KindTexture, Handle: 0x20003},
		{Binding: 2, Kind: KindSampler, Handle: 0x10002},
	}
	var b Builder
	addr := b.GroupEntries(entries)
	if len(b.Mem) != len(entries)*GroupEntrySize {
		t.Errorf("memory = %d bytes, want %d", len(b.Mem), len(entries)*GroupEntrySize)
	}
	if got := GroupEntries(b.Mem, addr, len(entries)); !reflect.DeepEqual(got, entries) {
		t.Errorf("GroupEntries() = %+v, want %+v", got, entries)
	}
}

func TestAttachments(t *testing.T) {
	atts := []Attachment{
		{
			Kind:   AttachmentColor, Texture: 0x10001, MipLevel: 2, Layer: 5,
			LoadOp: uint32(gputypes.LoadOpClear), StoreOp: uint32(gputypes.StoreOpStore),
			Clear:  [4]float32{0.25, 0.5, 0.75, 1},
		},
		{
			Kind:    AttachmentDepthStencil, Texture: 0x10002,
			LoadOp:  PackOps(uint32(gputypes.LoadOpClear), uint32(gputypes.LoadOpLoad)),
			StoreOp: PackOps(uint32(gputypes.StoreOpDiscard), uint32(gputypes.StoreOpStore)),
			Clear:   [4]float32{1, 7},
		},
	}
	var b Builder
	addr := b.Attachments(atts)
	if len(b.Mem) != len(atts)*AttachmentSize {
		t.Errorf("memory = %d bytes, want %d", len(b.Mem), len(atts)*AttachmentSize)
	}
	got := Attachments(b.Mem, addr, len(atts))
	if !reflect.DeepEqual(got, atts) {
		t.Errorf("Attachments() =\n%+v\nwant\n%+v", got, atts)
	}

	depth, stencil := DepthOps(got[1].LoadOp)
	if depth != uint32(gputypes.LoadOpClear) || stencil != uint32(gputypes.LoadOpLoad) {
		t.Errorf("DepthOps() = %d, %d; want %d, %d", depth, stencil, gputypes.LoadOpClear, gputypes.LoadOpLoad)
	}
}

func TestUnknownKindPanics(t *testing.T) {
	var b Builder
	layout := b.LayoutEntries([]LayoutEntry{{Kind: 7}})
	group := b.GroupEntries([]GroupEntry{{}, {Kind: 3}})
	att := b.Attachments([]Attachment{{Kind: 2}})

	expectPanic(t, "layout entry 0 has unknown kind 7", func() { LayoutEntries(b.Mem, layout, 1) })
	expectPanic(t, "bind group entry 1 has unknown kind 3", func() { GroupEntries(b.Mem, group, 2) })
	expectPanic(t, "attachment 0 has unknown kind 2", func() { Attachments(b.Mem, att, 1) })
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindBuffer, "Buffer"},
		{KindTexture, "Texture"},
		{KindSampler, "Sampler"},
		{Kind(9), "Kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint32(tt.k), got, tt.want)
		}
	}
}
