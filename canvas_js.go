//go:build js && wasm

package glgpu

import (
	"syscall/js"
	"time"

	"github.com/gogpu/glgpu/internal/gl"
)

// timeoutScheduler runs callbacks through window.setTimeout, which
// delivers them on the event loop of the page that owns the context.
type timeoutScheduler struct{}

func (timeoutScheduler) AfterFunc(d time.Duration, fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("setTimeout", cb, d.Milliseconds())
}

// NewCanvasDevice creates a device over a WebGL2 context of canvas. The
// drawing buffer size is the canvas width and height attributes; call
// Resize when they change. Read-backs are polled through setTimeout unless
// WithScheduler is given.
func NewCanvasDevice(canvas js.Value, opts ...DeviceOption) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, err := gl.NewContext(canvas, o.attrs.toMap())
	if err != nil {
		return nil, err
	}
	if o.scheduler == nil {
		o.scheduler = timeoutScheduler{}
	}
	return newDevice(ctx, canvas.Get("width").Int(), canvas.Get("height").Int(), o), nil
}
