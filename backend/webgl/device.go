package webgl

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/glgpu/internal/gl"
)

// Device errors.
var (
	// ErrDeviceDestroyed is returned by creation calls on a destroyed device.
	ErrDeviceDestroyed = errors.New("webgl: device destroyed")

	// ErrNilDescriptor is returned when a creation call receives a nil descriptor.
	ErrNilDescriptor = errors.New("webgl: descriptor is nil")
)

// DefaultPollInterval is the delay between fence polls of a read-back.
const DefaultPollInterval = 4 * time.Millisecond

// maxBindGroups is the number of bind group slots a pipeline may use.
const maxBindGroups = 4

// maxVertexBuffers is the number of vertex buffer slots.
const maxVertexBuffers = 8

// Scheduler runs fn once after at least d has elapsed, on the goroutine
// that owns the Device. In a browser this is setTimeout.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Config holds the settings a Device is created with.
type Config struct {
	// Width and Height are the drawing buffer size of the default framebuffer.
	Width, Height int

	// Scheduler drives read-back polling. Read-backs fail with
	// ErrNoScheduler when it is nil.
	Scheduler Scheduler

	// PollInterval is the delay between fence polls. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
}

// Features lists the optional capabilities the context exposes.
type Features struct {
	// ColorBufferFloat allows float formats as render targets
	// (EXT_color_buffer_float).
	ColorBufferFloat bool
	// FloatLinear allows linear filtering of 32-bit float textures
	// (OES_texture_float_linear).
	FloatLinear bool
	// Anisotropy enables anisotropic sampler filtering
	// (EXT_texture_filter_anisotropic).
	Anisotropy bool
}

// Limits holds the implementation limits queried at device creation.
type Limits struct {
	MaxVertexAttribs         int
	MaxTextureUnits          int
	MaxUniformBufferBindings int
	MaxUniformBlockSize      int
	UniformBufferAlignment   int
	MaxSamples               int
	MaxColorAttachments      int
	MaxDrawBuffers           int
	MaxTextureSize           int
	MaxAnisotropy            int
}

// Device is a render device over one WebGL2 context.
//
// It owns the context state cache, the vertex binding tracker, the
// scratch copy framebuffer and the encoder state of at most one active
// render pass.
type Device struct {
	f        gl.Functions
	cfg      Config
	features Features
	limits   Limits

	vao    gl.VertexArray
	copyFB gl.Framebuffer

	cache  *stateCache
	vertex *vertexTracker
	enc    encoderState

	width, height int
	destroyed     bool
}

// NewDevice wraps an existing context. It queries limits and extensions,
// binds the device's vertex array object, creates the scratch copy
// framebuffer and forces the default pipeline state onto the context.
func NewDevice(f gl.Functions, cfg Config) *Device {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	d := &Device{
		f:      f,
		cfg:    cfg,
		width:  cfg.Width,
		height: cfg.Height,
	}
	d.limits = Limits{
		MaxVertexAttribs:         f.GetInteger(gl.MAX_VERTEX_ATTRIBS),
		MaxTextureUnits:          f.GetInteger(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxUniformBufferBindings: f.GetInteger(gl.MAX_UNIFORM_BUFFER_BINDINGS),
		MaxUniformBlockSize:      f.GetInteger(gl.MAX_UNIFORM_BLOCK_SIZE),
		UniformBufferAlignment:   f.GetInteger(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT),
		MaxSamples:               f.GetInteger(gl.MAX_SAMPLES),
		MaxColorAttachments:      f.GetInteger(gl.MAX_COLOR_ATTACHMENTS),
		MaxDrawBuffers:           f.GetInteger(gl.MAX_DRAW_BUFFERS),
		MaxTextureSize:           f.GetInteger(gl.MAX_TEXTURE_SIZE),
	}
	d.features = Features{
		ColorBufferFloat: f.GetExtension("EXT_color_buffer_float"),
		FloatLinear:      f.GetExtension("OES_texture_float_linear"),
		Anisotropy:       f.GetExtension("EXT_texture_filter_anisotropic"),
	}
	if d.features.Anisotropy {
		d.limits.MaxAnisotropy = f.GetInteger(gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT)
	}

	d.cache = newStateCache(f, d.limits.MaxUniformBufferBindings, d.limits.MaxTextureUnits)
	d.vertex = newVertexTracker(f, d.cache, d.limits.MaxVertexAttribs)

	d.vao = f.CreateVertexArray()
	f.BindVertexArray(d.vao)
	d.copyFB = f.CreateFramebuffer()
	d.cache.reset()

	slogger().Info("webgl: device created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Bool("colorBufferFloat", d.features.ColorBufferFloat),
		slog.Bool("floatLinear", d.features.FloatLinear),
		slog.Bool("anisotropy", d.features.Anisotropy),
		slog.Int("maxVertexAttribs", d.limits.MaxVertexAttribs),
		slog.Int("maxTextureUnits", d.limits.MaxTextureUnits),
		slog.Int("maxSamples", d.limits.MaxSamples),
	)
	return d
}

// Features returns the optional capabilities detected at creation.
func (d *Device) Features() Features { return d.features }

// Limits returns the implementation limits queried at creation.
func (d *Device) Limits() Limits { return d.limits }

// Size returns the drawing buffer size of the default framebuffer.
func (d *Device) Size() (width, height int) { return d.width, d.height }

// Resize records a new drawing buffer size, typically after the canvas
// was resized. It takes effect at the next BeginRenderPass.
func (d *Device) Resize(width, height int) {
	d.width, d.height = width, height
}

// Functions returns the driver the device issues calls to.
func (d *Device) Functions() gl.Functions { return d.f }

// IsDestroyed reports whether Destroy has been called.
func (d *Device) IsDestroyed() bool { return d.destroyed }

// Destroy ends any active pass and releases the scratch framebuffer and the
// vertex array object. Resources created from the device are not released.
// Calling Destroy again is a no-op.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.SubmitRenderPass()
	d.f.DeleteFramebuffer(d.copyFB)
	d.cache.forgetFramebuffer(d.copyFB)
	d.f.DeleteVertexArray(d.vao)
	d.copyFB, d.vao = 0, 0
	d.destroyed = true
	slogger().Info("webgl: device destroyed")
}
