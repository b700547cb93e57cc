package webgl

import (
	"math/bits"

	"github.com/gogpu/glgpu/internal/gl"
)

type vertexSlot struct {
	buffer gl.Buffer
	offset int
}

// attribPointer is the vertexAttrib*Pointer state of one location.
type attribPointer struct {
	buffer     gl.Buffer
	size       int
	ty         gl.Enum
	normalized bool
	integer    bool
	stride     int
	offset     int
}

// vertexTracker owns the vertex array state of the device's single VAO.
//
// Each slot caches the (buffer, offset) last set on it. Each location
// caches its attribute pointer and divisor. The enabled locations are a
// bitmap diffed on every pipeline switch. WebGL2 has no base instance or
// base vertex, so draws re-base the pointers of instance-stepped slots by
// firstInstance*stride and of vertex-stepped slots by baseVertex*stride.
type vertexTracker struct {
	f     gl.Functions
	cache *stateCache

	slots    [maxVertexBuffers]vertexSlot
	pointers []attribPointer
	divisors []int
	enabled  uint64

	layouts       []vertexLayout
	firstInstance int
	baseVertex    int
}

func newVertexTracker(f gl.Functions, cache *stateCache, maxAttribs int) *vertexTracker {
	n := min(maxAttribs, 64)
	return &vertexTracker{
		f:        f,
		cache:    cache,
		pointers: make([]attribPointer, n),
		divisors: make([]int, n),
	}
}

// setPipeline switches to the vertex layout of p. Only the locations whose
// enabled state differs between the two pipelines are toggled.
func (t *vertexTracker) setPipeline(p *RenderPipeline) {
	changed := t.enabled ^ p.attribs
	for changed != 0 {
		loc := bits.TrailingZeros64(changed)
		changed &^= 1 << uint(loc)
		if p.attribs&(1<<uint(loc)) != 0 {
			t.f.EnableVertexAttribArray(gl.Attrib(loc))
		} else {
			t.f.DisableVertexAttribArray(gl.Attrib(loc))
		}
	}
	t.enabled = p.attribs

	t.layouts = p.vertex
	for i, l := range t.layouts {
		divisor := 0
		if l.instance {
			divisor = 1
		}
		for _, a := range l.attribs {
			if t.divisors[a.location] != divisor {
				t.divisors[a.location] = divisor
				t.f.VertexAttribDivisor(gl.Attrib(a.location), divisor)
			}
		}
		t.configure(i)
	}
}

// setVertexBuffer records the buffer and offset of slot. When they equal
// the cached values nothing is recomputed.
func (t *vertexTracker) setVertexBuffer(slot int, b gl.Buffer, offset int) {
	if slot < 0 || slot >= maxVertexBuffers {
		return
	}
	s := vertexSlot{buffer: b, offset: offset}
	if t.slots[slot] == s {
		return
	}
	t.slots[slot] = s
	t.configure(slot)
}

// rebase applies the base instance and base vertex of the next draw.
// Slots whose effective offsets do not change issue no calls.
func (t *vertexTracker) rebase(firstInstance, baseVertex int) {
	instanceChanged := firstInstance != t.firstInstance
	vertexChanged := baseVertex != t.baseVertex
	if !instanceChanged && !vertexChanged {
		return
	}
	t.firstInstance, t.baseVertex = firstInstance, baseVertex
	for i, l := range t.layouts {
		if (l.instance && instanceChanged) || (!l.instance && vertexChanged) {
			t.configure(i)
		}
	}
}

// configure issues the attribute pointers of every attribute sourced from
// slot under the current pipeline layout.
func (t *vertexTracker) configure(slot int) {
	if slot >= len(t.layouts) {
		return
	}
	s := t.slots[slot]
	if !s.buffer.Valid() {
		return
	}
	l := t.layouts[slot]
	base := s.offset
	if l.instance {
		base += t.firstInstance * l.stride
	} else {
		base += t.baseVertex * l.stride
	}
	for _, a := range l.attribs {
		ptr := attribPointer{
			buffer:     s.buffer,
			size:       a.format.Components,
			ty:         a.format.Type,
			normalized: a.format.Normalized,
			integer:    a.format.Integer,
			stride:     l.stride,
			offset:     base + a.offset,
		}
		if t.pointers[a.location] == ptr {
			continue
		}
		t.pointers[a.location] = ptr
		t.cache.bindBuffer(gl.ARRAY_BUFFER, s.buffer)
		if ptr.integer {
			t.f.VertexAttribIPointer(gl.Attrib(a.location), ptr.size, ptr.ty, ptr.stride, ptr.offset)
		} else {
			t.f.VertexAttribPointer(gl.Attrib(a.location), ptr.size, ptr.ty, ptr.normalized, ptr.stride, ptr.offset)
		}
	}
}

// forgetBuffer drops every slot and pointer naming a deleted buffer.
func (t *vertexTracker) forgetBuffer(b gl.Buffer) {
	for i := range t.slots {
		if t.slots[i].buffer == b {
			t.slots[i] = vertexSlot{}
		}
	}
	for i := range t.pointers {
		if t.pointers[i].buffer == b {
			t.pointers[i] = attribPointer{}
		}
	}
}
