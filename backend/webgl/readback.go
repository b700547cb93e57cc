package webgl

import (
	"errors"
	"log/slog"

	"github.com/gogpu/glgpu/internal/gl"
)

// Read-back errors.
var (
	// ErrNoScheduler is returned when a read-back is requested on a device
	// configured without a Scheduler.
	ErrNoScheduler = errors.New("webgl: no scheduler configured for read-back")

	// ErrReadbackFailed is reported when the fence wait fails, typically
	// because the context was lost.
	ErrReadbackFailed = errors.New("webgl: read-back fence wait failed")
)

// ReadbackFunc receives the result of an asynchronous read-back. Exactly
// one of data and err is non-nil.
type ReadbackFunc func(data []byte, err error)

// readback is one pending fence poll.
type readback struct {
	d      *Device
	buf    *Buffer
	offset int
	size   int
	sync   gl.Sync
	polls  int
	done   ReadbackFunc
}

// ReadBufferAsync copies size bytes at offset out of b once the commands
// issued so far have completed. It inserts a fence and polls it without
// blocking, rescheduling itself through the configured Scheduler until the
// fence signals or fails. There is no cancellation: a caller that loses
// interest simply ignores the callback.
//
// If b is destroyed while the read is pending, done receives
// ErrBufferDestroyed. done is never called synchronously.
func (d *Device) ReadBufferAsync(b *Buffer, offset, size int, done ReadbackFunc) error {
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	if d.cfg.Scheduler == nil {
		return ErrNoScheduler
	}
	if b == nil || b.destroyed {
		return ErrBufferDestroyed
	}
	if err := b.checkRange(offset, size); err != nil {
		return err
	}
	r := &readback{
		d:      d,
		buf:    b,
		offset: offset,
		size:   size,
		sync:   d.f.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0),
		done:   done,
	}
	d.cfg.Scheduler.AfterFunc(d.cfg.PollInterval, r.poll)
	return nil
}

func (r *readback) poll() {
	d := r.d
	r.polls++
	if d.destroyed {
		r.finish(nil, ErrDeviceDestroyed)
		return
	}

	switch d.f.ClientWaitSync(r.sync, 0, 0) {
	case gl.TIMEOUT_EXPIRED:
		slogger().Debug("webgl: read-back pending", slog.Int("polls", r.polls))
		d.cfg.Scheduler.AfterFunc(d.cfg.PollInterval, r.poll)
		return
	case gl.WAIT_FAILED:
		slogger().Warn("webgl: read-back failed",
			slog.String("buffer", r.buf.label),
			slog.Int("polls", r.polls),
		)
		r.finish(nil, ErrReadbackFailed)
		return
	}

	if r.buf.destroyed {
		r.finish(nil, ErrBufferDestroyed)
		return
	}
	data := make([]byte, r.size)
	if r.size > 0 {
		d.cache.bindBuffer(gl.COPY_READ_BUFFER, r.buf.buffer)
		d.f.GetBufferSubData(gl.COPY_READ_BUFFER, r.offset, data)
	}
	r.finish(data, nil)
}

func (r *readback) finish(data []byte, err error) {
	if !r.d.destroyed {
		r.d.f.DeleteSync(r.sync)
	}
	if r.done != nil {
		r.done(data, err)
	}
}
