package wire

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Builder appends packed records to a Memory. It is the encoding side of
// the decoders, used by Go clients and the trace tool.
type Builder struct {
	Mem Memory
}

// Reset empties the memory while keeping its capacity.
func (b *Builder) Reset() { b.Mem = b.Mem[:0] }

// words reserves n zeroed words and returns their address.
func (b *Builder) words(n int) uint32 {
	addr := uint32(len(b.Mem))
	b.Mem = append(b.Mem, make([]byte, n*4)...)
	return addr
}

func (b *Builder) put(addr uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.Mem[addr:], v)
}

// U32s appends words and returns the address of the first.
func (b *Builder) U32s(vals ...uint32) uint32 {
	addr := b.words(len(vals))
	for i, v := range vals {
		b.put(addr+uint32(i)*4, v)
	}
	return addr
}

// Bytes appends p padded to a word boundary and returns its address.
func (b *Builder) Bytes(p []byte) uint32 {
	addr := b.words((len(p) + 3) / 4)
	copy(b.Mem[addr:], p)
	return addr
}

// String appends s and returns its address and length.
func (b *Builder) String(s string) (addr, n uint32) {
	return b.Bytes([]byte(s)), uint32(len(s))
}

// VertexAttributes appends attrs in the struct-of-arrays layout.
func (b *Builder) VertexAttributes(attrs []gputypes.VertexAttribute) uint32 {
	n := len(attrs)
	addr := b.words(3 * n)
	col := uint32(n) * 4
	for i, a := range attrs {
		off := uint32(i) * 4
		b.put(addr+off, uint32(a.Format))
		b.put(addr+col+off, uint32(a.Offset))
		b.put(addr+2*col+off, a.ShaderLocation)
	}
	return addr
}

// LayoutEntries appends layout records. Names are stored after the
// records.
func (b *Builder) LayoutEntries(entries []LayoutEntry) uint32 {
	addr := b.words(len(entries) * LayoutEntrySize / 4)
	for i, e := range entries {
		base := addr + uint32(i)*LayoutEntrySize
		b.put(base, e.Binding)
		b.put(base+4, uint32(e.Visibility))
		b.put(base+8, uint32(e.Kind))
		b.put(base+12, e.Extra0)
		b.put(base+16, e.Extra1)
		nameAddr, nameLen := b.String(e.Name)
		b.put(base+20, nameAddr)
		b.put(base+24, nameLen)
	}
	return addr
}

// GroupEntries appends bind group records.
func (b *Builder) GroupEntries(entries []GroupEntry) uint32 {
	addr := b.words(len(entries) * GroupEntrySize / 4)
	for i, e := range entries {
		base := addr + uint32(i)*GroupEntrySize
		b.put(base, e.Binding)
		b.put(base+4, uint32(e.Kind))
		b.put(base+8, e.Handle)
		b.put(base+12, e.Offset)
		b.put(base+16, e.Size)
	}
	return addr
}

// Attachments appends render pass attachment records.
func (b *Builder) Attachments(atts []Attachment) uint32 {
	addr := b.words(len(atts) * AttachmentSize / 4)
	for i, a := range atts {
		base := addr + uint32(i)*AttachmentSize
		b.put(base, uint32(a.Kind))
		b.put(base+4, a.Texture)
		b.put(base+8, uint32(a.MipLevel)&0xFFFF|uint32(a.Layer)<<16)
		b.put(base+12, a.LoadOp)
		b.put(base+16, a.StoreOp)
		for c, v := range a.Clear {
			b.put(base+20+uint32(c)*4, math.Float32bits(v))
		}
	}
	return addr
}

// PackOps combines depth and stencil load or store ops into one word.
func PackOps(depth, stencil uint32) uint32 {
	return depth&0xFFFF | stencil<<16
}
