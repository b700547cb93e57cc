package webgl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// Buffer errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("webgl: buffer has been destroyed")

	// ErrInvalidBufferSize is returned when a buffer size is zero or negative.
	ErrInvalidBufferSize = errors.New("webgl: invalid buffer size")

	// ErrBufferRange is returned when an offset and length exceed the buffer.
	ErrBufferRange = errors.New("webgl: range out of buffer bounds")
)

// BufferKind is the driver binding target a buffer is created for.
type BufferKind uint8

const (
	// BufferKindVertex buffers are bound to ARRAY_BUFFER.
	BufferKindVertex BufferKind = iota

	// BufferKindIndex buffers are bound to ELEMENT_ARRAY_BUFFER.
	BufferKindIndex

	// BufferKindUniform buffers are bound to UNIFORM_BUFFER.
	BufferKindUniform
)

// String returns the string representation of BufferKind.
func (k BufferKind) String() string {
	switch k {
	case BufferKindVertex:
		return "Vertex"
	case BufferKindIndex:
		return "Index"
	case BufferKindUniform:
		return "Uniform"
	default:
		return fmt.Sprintf("BufferKind(%d)", k)
	}
}

func (k BufferKind) target() gl.Enum {
	switch k {
	case BufferKindIndex:
		return gl.ELEMENT_ARRAY_BUFFER
	case BufferKindUniform:
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// Buffer is a driver buffer with its kind and size fixed at creation.
//
// Buffer contents change only through WriteBuffer and the copy commands.
type Buffer struct {
	device    *Device
	label     string
	buffer    gl.Buffer
	kind      BufferKind
	size      int
	usage     gputypes.BufferUsage
	destroyed bool
}

// CreateBuffer allocates a zero-filled buffer. The kind is Index when the
// usage contains BufferUsageIndex, Uniform when it contains
// BufferUsageUniform and Vertex otherwise.
func (d *Device) CreateBuffer(desc *BufferDescriptor) (*Buffer, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	if desc.Size == 0 || desc.Size > 1<<31-1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBufferSize, desc.Size)
	}

	kind := BufferKindVertex
	switch {
	case desc.Usage.Contains(gputypes.BufferUsageIndex):
		kind = BufferKindIndex
	case desc.Usage.Contains(gputypes.BufferUsageUniform):
		kind = BufferKindUniform
	}
	hint := gl.Enum(gl.DYNAMIC_DRAW)
	if desc.Usage.Contains(gputypes.BufferUsageMapRead) {
		hint = gl.DYNAMIC_READ
	}

	b := &Buffer{
		device: d,
		label:  desc.Label,
		buffer: d.f.CreateBuffer(),
		kind:   kind,
		size:   int(desc.Size),
		usage:  desc.Usage,
	}
	target := kind.target()
	d.cache.bindBuffer(target, b.buffer)
	d.f.BufferData(target, b.size, hint)

	slogger().Debug("webgl: buffer created",
		slog.String("label", desc.Label),
		slog.String("kind", kind.String()),
		slog.Int("size", b.size),
	)
	return b, nil
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return uint64(b.size) }

// Kind returns the binding target kind chosen at creation.
func (b *Buffer) Kind() BufferKind { return b.kind }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// IsDestroyed reports whether Destroy has been called.
func (b *Buffer) IsDestroyed() bool { return b.destroyed }

// Destroy deletes the driver buffer. Pending read-backs complete with
// ErrBufferDestroyed.
func (b *Buffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.vertex.forgetBuffer(b.buffer)
	b.device.f.DeleteBuffer(b.buffer)
	b.device.cache.forgetBuffer(b.buffer)
}

func (b *Buffer) usable(d *Device) bool {
	return b != nil && !b.destroyed && b.device == d
}

func (b *Buffer) checkRange(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > b.size {
		return fmt.Errorf("%w: offset %d length %d size %d", ErrBufferRange, offset, length, b.size)
	}
	return nil
}

// WriteBuffer copies data into b at offset.
func (d *Device) WriteBuffer(b *Buffer, offset int, data []byte) error {
	if b == nil || b.destroyed {
		return ErrBufferDestroyed
	}
	if err := b.checkRange(offset, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := b.kind.target()
	d.cache.bindBuffer(target, b.buffer)
	d.f.BufferSubData(target, offset, data)
	return nil
}

// CopyBufferToBuffer copies size bytes between two buffers on the device.
func (d *Device) CopyBufferToBuffer(src *Buffer, srcOffset int, dst *Buffer, dstOffset int, size int) error {
	if src == nil || src.destroyed || dst == nil || dst.destroyed {
		return ErrBufferDestroyed
	}
	if err := src.checkRange(srcOffset, size); err != nil {
		return err
	}
	if err := dst.checkRange(dstOffset, size); err != nil {
		return err
	}
	d.cache.bindBuffer(gl.COPY_READ_BUFFER, src.buffer)
	d.cache.bindBuffer(gl.COPY_WRITE_BUFFER, dst.buffer)
	d.f.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, srcOffset, dstOffset, size)
	return nil
}
