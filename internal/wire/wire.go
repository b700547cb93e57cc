// Package wire decodes the packed descriptors a client writes into linear
// memory before calling across the handle boundary.
//
// All layouts are little-endian with 4-byte fields. Arrays are passed as a
// base address and an element count. A kind field outside its known range
// is a programming error in the client and panics.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Memory is the client's linear memory.
type Memory []byte

// U32 reads the little-endian word at addr.
func (m Memory) U32(addr uint32) uint32 {
	m.check(addr, 4)
	return binary.LittleEndian.Uint32(m[addr:])
}

// F32 reads the little-endian float at addr.
func (m Memory) F32(addr uint32) float32 {
	return math.Float32frombits(m.U32(addr))
}

// Bytes returns the n bytes at addr without copying.
func (m Memory) Bytes(addr, n uint32) []byte {
	m.check(addr, n)
	return m[addr : addr+n : addr+n]
}

// String copies the n bytes at addr into a string.
func (m Memory) String(addr, n uint32) string {
	if n == 0 {
		return ""
	}
	return string(m.Bytes(addr, n))
}

// U32s reads n consecutive words starting at addr.
func (m Memory) U32s(addr uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = m.U32(addr + uint32(i)*4)
	}
	return out
}

func (m Memory) check(addr, n uint32) {
	if uint64(addr)+uint64(n) > uint64(len(m)) {
		panic(fmt.Sprintf("wire: read of %d bytes at %#x outside %d bytes of memory", n, addr, len(m)))
	}
}
