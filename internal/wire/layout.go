package wire

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Strides of the fixed-size records.
const (
	LayoutEntrySize = 28
	GroupEntrySize  = 24
	AttachmentSize  = 36
)

// Kind is the resource kind of a bind group layout entry or bind group
// entry.
type Kind uint32

const (
	KindBuffer Kind = iota
	KindTexture
	KindSampler
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "Buffer"
	case KindTexture:
		return "Texture"
	case KindSampler:
		return "Sampler"
	default:
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
}

func kind(v uint32, record string, i int) Kind {
	k := Kind(v)
	if k > KindSampler {
		panic(fmt.Sprintf("wire: %s %d has unknown kind %d", record, i, v))
	}
	return k
}

// VertexAttributes decodes n attributes stored as three parallel u32
// arrays at addr: formats, then offsets, then shader locations.
func VertexAttributes(m Memory, addr uint32, n int) []gputypes.VertexAttribute {
	if n == 0 {
		return nil
	}
	col := uint32(n) * 4
	formats := m.U32s(addr, n)
	offsets := m.U32s(addr+col, n)
	locations := m.U32s(addr+2*col, n)

	out := make([]gputypes.VertexAttribute, n)
	for i := range out {
		out[i] = gputypes.VertexAttribute{
			Format:         gputypes.VertexFormat(formats[i]),
			Offset:         uint64(offsets[i]),
			ShaderLocation: locations[i],
		}
	}
	return out
}

// LayoutEntry is one bind group layout record:
//
//	+0  binding
//	+4  visibility (gputypes.ShaderStages)
//	+8  kind
//	+12 extra0: buffer has-dynamic-offset flag, texture sample type,
//	    sampler binding type
//	+16 extra1: buffer min binding size, texture view dimension with bit 31
//	    set when multisampled
//	+20 name address
//	+24 name length
type LayoutEntry struct {
	Binding    uint32
	Visibility gputypes.ShaderStages
	Kind       Kind
	Extra0     uint32
	Extra1     uint32
	Name       string
}

// MultisampledBit marks a multisampled texture in LayoutEntry.Extra1.
const MultisampledBit = 1 << 31

// LayoutEntries decodes n layout records at addr.
func LayoutEntries(m Memory, addr uint32, n int) []LayoutEntry {
	out := make([]LayoutEntry, n)
	for i := range out {
		base := addr + uint32(i)*LayoutEntrySize
		out[i] = LayoutEntry{
			Binding:    m.U32(base),
			Visibility: gputypes.ShaderStages(m.U32(base + 4)),
			Kind:       kind(m.U32(base+8), "layout entry", i),
			Extra0:     m.U32(base + 12),
			Extra1:     m.U32(base + 16),
			Name:       m.String(m.U32(base+20), m.U32(base+24)),
		}
	}
	return out
}

// GroupEntry is one bind group record:
//
//	+0  binding
//	+4  kind
//	+8  resource handle
//	+12 offset
//	+16 size, zero for the rest of the buffer
//	+20 reserved
type GroupEntry struct {
	Binding uint32
	Kind    Kind
	Handle  uint32
	Offset  uint32
	Size    uint32
}

// GroupEntries decodes n bind group records at addr.
func GroupEntries(m Memory, addr uint32, n int) []GroupEntry {
	out := make([]GroupEntry, n)
	for i := range out {
		base := addr + uint32(i)*GroupEntrySize
		out[i] = GroupEntry{
			Binding: m.U32(base),
			Kind:    kind(m.U32(base+4), "bind group entry", i),
			Handle:  m.U32(base + 8),
			Offset:  m.U32(base + 12),
			Size:    m.U32(base + 16),
		}
	}
	return out
}

// AttachmentKind distinguishes color and depth-stencil attachments.
type AttachmentKind uint32

const (
	AttachmentColor AttachmentKind = iota
	AttachmentDepthStencil
)

// Attachment is one render pass attachment record:
//
//	+0  kind
//	+4  texture handle
//	+8  mip level in the low 16 bits, array layer in the high 16 bits
//	+12 load op; for depth-stencil the depth op in the low 16 bits and
//	    the stencil op in the high 16 bits
//	+16 store op, split like the load op
//	+20 clear value: RGBA for color, depth then stencil for depth-stencil
type Attachment struct {
	Kind     AttachmentKind
	Texture  uint32
	MipLevel int
	Layer    int
	LoadOp   uint32
	StoreOp  uint32
	Clear    [4]float32
}

// Attachments decodes n attachment records at addr.
func Attachments(m Memory, addr uint32, n int) []Attachment {
	out := make([]Attachment, n)
	for i := range out {
		base := addr + uint32(i)*AttachmentSize
		k := AttachmentKind(m.U32(base))
		if k > AttachmentDepthStencil {
			panic(fmt.Sprintf("wire: attachment %d has unknown kind %d", i, uint32(k)))
		}
		level := m.U32(base + 8)
		a := Attachment{
			Kind:     k,
			Texture:  m.U32(base + 4),
			MipLevel: int(level & 0xFFFF),
			Layer:    int(level >> 16),
			LoadOp:   m.U32(base + 12),
			StoreOp:  m.U32(base + 16),
		}
		for c := range a.Clear {
			a.Clear[c] = m.F32(base + 20 + uint32(c)*4)
		}
		out[i] = a
	}
	return out
}

// DepthOps splits a depth-stencil load or store op word.
func DepthOps(v uint32) (depth, stencil uint32) {
	return v & 0xFFFF, v >> 16
}
