package glgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/glgpu/backend/webgl"
	"github.com/gogpu/glgpu/internal/handle"
)

// Handle errors.
var (
	// ErrInvalidHandle is returned when a creation call references a zero,
	// destroyed or stale handle.
	ErrInvalidHandle = errors.New("glgpu: invalid handle")

	// ErrTableFull is returned when a resource table has no free slots.
	ErrTableFull = errors.New("glgpu: resource table full")
)

// Typed resource handles. A handle packs a slot index and a generation;
// the zero value never refers to a live resource, and a handle stays
// invalid after its resource is destroyed, even when the slot is reused.
type (
	Buffer          handle.Handle
	Texture         handle.Handle
	Sampler         handle.Handle
	Shader          handle.Handle
	BindGroupLayout handle.Handle
	BindGroup       handle.Handle
	RenderPipeline  handle.Handle
	RenderPass      handle.Handle
	Future          handle.Handle
)

type handleKind interface {
	~uint32
}

// table maps typed handles to backend resources.
type table[H handleKind, T webgl.Resource] struct {
	name string
	t    handle.Table[T]
}

// insert stores v. When the table is full v is destroyed, so a failed
// creation never leaks driver objects.
func (t *table[H, T]) insert(v T) (H, error) {
	h, ok := t.t.Insert(v)
	if !ok {
		v.Destroy()
		return 0, fmt.Errorf("%w: %s", ErrTableFull, t.name)
	}
	return H(h), nil
}

func (t *table[H, T]) get(h H) (T, bool) {
	return t.t.Get(handle.Handle(h))
}

// resolve is get for creation calls: the zero handle resolves to the
// zero value when optional is set, anything else unknown is an error.
func (t *table[H, T]) resolve(h H, optional bool) (T, error) {
	var zero T
	if h == 0 && optional {
		return zero, nil
	}
	v, ok := t.get(h)
	if !ok {
		return zero, fmt.Errorf("%w: %s %#x", ErrInvalidHandle, t.name, uint32(h))
	}
	return v, nil
}

// destroy removes h and destroys its resource. Stale handles are ignored.
func (t *table[H, T]) destroy(h H) bool {
	v, ok := t.t.Remove(handle.Handle(h))
	if ok {
		v.Destroy()
	}
	return ok
}

func (t *table[H, T]) destroyAll() {
	var hs []handle.Handle
	t.t.Each(func(h handle.Handle, _ T) { hs = append(hs, h) })
	for _, h := range hs {
		t.destroy(H(h))
	}
}

func (t *table[H, T]) len() int { return t.t.Len() }

func handleOf[H handleKind](h H) handle.Handle { return handle.Handle(h) }
