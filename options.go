package glgpu

import (
	"log/slog"
	"time"

	"github.com/gogpu/glgpu/backend/webgl"
)

// DeviceOption configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	sched := &glgpu.TimerScheduler{}
//	dev := glgpu.NewDevice(f, 800, 600, glgpu.WithScheduler(sched))
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	logger       *slog.Logger
	scheduler    webgl.Scheduler
	pollInterval time.Duration
	attrs        ContextAttributes
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		pollInterval: webgl.DefaultPollInterval,
		attrs:        DefaultContextAttributes(),
	}
}

// WithLogger sets the logger for the device's own diagnostics, such as
// stale handles in packed descriptors. The package logger set with
// SetLogger is used when l is nil or the option is omitted.
func WithLogger(l *slog.Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithScheduler sets the source of delayed callbacks that drives buffer
// read-back polling. Without a scheduler ReadBufferAsync fails with
// webgl.ErrNoScheduler, except on js/wasm where setTimeout is the default.
func WithScheduler(s webgl.Scheduler) DeviceOption {
	return func(o *deviceOptions) {
		o.scheduler = s
	}
}

// WithPollInterval sets the delay between fence polls of a read-back.
// Non-positive values keep the default of 4ms.
func WithPollInterval(d time.Duration) DeviceOption {
	return func(o *deviceOptions) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithContextAttributes sets the attributes a canvas context is requested
// with. It only affects NewCanvasDevice.
func WithContextAttributes(a ContextAttributes) DeviceOption {
	return func(o *deviceOptions) {
		o.attrs = a
	}
}

// ContextAttributes are the WebGL context creation attributes.
type ContextAttributes struct {
	Alpha                 bool
	Depth                 bool
	Stencil               bool
	Antialias             bool
	PremultipliedAlpha    bool
	PreserveDrawingBuffer bool

	// PowerPreference is "default", "high-performance" or "low-power".
	PowerPreference string
}

// DefaultContextAttributes returns the browser defaults, with a stencil
// buffer requested.
func DefaultContextAttributes() ContextAttributes {
	return ContextAttributes{
		Alpha:              true,
		Depth:              true,
		Stencil:            true,
		Antialias:          true,
		PremultipliedAlpha: true,
		PowerPreference:    "default",
	}
}

// toMap returns the attributes as the dictionary getContext expects.
func (a ContextAttributes) toMap() map[string]any {
	m := map[string]any{
		"alpha":                 a.Alpha,
		"depth":                 a.Depth,
		"stencil":               a.Stencil,
		"antialias":             a.Antialias,
		"premultipliedAlpha":    a.PremultipliedAlpha,
		"preserveDrawingBuffer": a.PreserveDrawingBuffer,
	}
	if a.PowerPreference != "" {
		m["powerPreference"] = a.PowerPreference
	}
	return m
}
