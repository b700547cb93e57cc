package glgpu

import (
	"fmt"
)

// FutureStatus is the state of an asynchronous read-back.
type FutureStatus uint8

const (
	// FuturePending means the fence has not signaled yet.
	FuturePending FutureStatus = iota
	// FutureReady means the data is available.
	FutureReady
	// FutureFailed means the read-back ended with an error.
	FutureFailed
	// FutureUnknown means the handle is zero, dropped or already consumed.
	FutureUnknown
)

// String returns the string representation of FutureStatus.
func (s FutureStatus) String() string {
	switch s {
	case FuturePending:
		return "Pending"
	case FutureReady:
		return "Ready"
	case FutureFailed:
		return "Failed"
	case FutureUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("FutureStatus(%d)", uint8(s))
	}
}

type future struct {
	done bool
	data []byte
	err  error
}

// ReadBufferAsync starts copying size bytes at offset out of b once the
// commands issued so far have completed, and returns a future to poll.
func (d *Device) ReadBufferAsync(b Buffer, offset, size int) (Future, error) {
	buf, err := d.buffers.resolve(b, false)
	if err != nil {
		return 0, err
	}
	f := &future{}
	h, ok := d.futures.Insert(f)
	if !ok {
		return 0, fmt.Errorf("%w: future", ErrTableFull)
	}
	err = d.dev.ReadBufferAsync(buf, offset, size, func(data []byte, err error) {
		f.data, f.err, f.done = data, err, true
	})
	if err != nil {
		d.futures.Remove(h)
		return 0, err
	}
	return Future(h), nil
}

// PollFuture reports the state of a read-back. A Ready or Failed result
// is returned once; the handle is unknown afterwards.
func (d *Device) PollFuture(h Future) (FutureStatus, []byte, error) {
	f, ok := d.futures.Get(handleOf(h))
	if !ok {
		return FutureUnknown, nil, fmt.Errorf("%w: future %#x", ErrInvalidHandle, uint32(h))
	}
	if !f.done {
		return FuturePending, nil, nil
	}
	d.futures.Remove(handleOf(h))
	if f.err != nil {
		return FutureFailed, nil, f.err
	}
	return FutureReady, f.data, nil
}

// DropFuture releases a future without waiting for it. The read-back still
// runs to completion and its result is discarded.
func (d *Device) DropFuture(h Future) {
	d.futures.Remove(handleOf(h))
}

// PendingFutures returns the number of futures not yet consumed.
func (d *Device) PendingFutures() int { return d.futures.Len() }
