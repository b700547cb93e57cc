package glgpu

import (
	"log/slog"

	"github.com/gogpu/glgpu/backend/webgl"
	"github.com/gogpu/glgpu/internal/gl"
	"github.com/gogpu/glgpu/internal/handle"
)

// Device is the handle-based front end of a webgl.Device. Every resource
// it creates lives in a per-kind table and is referred to by a typed
// handle.
//
// A Device is not safe for concurrent use. All calls, including the
// callbacks of its Scheduler, must come from the goroutine that owns the
// context.
type Device struct {
	dev *webgl.Device
	log *slog.Logger

	buffers   table[Buffer, *webgl.Buffer]
	textures  table[Texture, *webgl.Texture]
	samplers  table[Sampler, *webgl.Sampler]
	shaders   table[Shader, *webgl.Shader]
	layouts   table[BindGroupLayout, *webgl.BindGroupLayout]
	groups    table[BindGroup, *webgl.BindGroup]
	pipelines table[RenderPipeline, *webgl.RenderPipeline]
	passes    table[RenderPass, *webgl.RenderPass]
	futures   handle.Table[*future]
}

// NewDevice creates a device over f with a drawing buffer of
// width x height pixels.
func NewDevice(f gl.Functions, width, height int, opts ...DeviceOption) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newDevice(f, width, height, o)
}

func newDevice(f gl.Functions, width, height int, o deviceOptions) *Device {
	d := &Device{
		dev: webgl.NewDevice(f, webgl.Config{
			Width:        width,
			Height:       height,
			Scheduler:    o.scheduler,
			PollInterval: o.pollInterval,
		}),
		log: o.logger,
	}
	d.buffers.name = "buffer"
	d.textures.name = "texture"
	d.samplers.name = "sampler"
	d.shaders.name = "shader"
	d.layouts.name = "bind group layout"
	d.groups.name = "bind group"
	d.pipelines.name = "render pipeline"
	d.passes.name = "render pass"
	return d
}

func (d *Device) logger() *slog.Logger {
	if d.log != nil {
		return d.log
	}
	return Logger()
}

// Backend returns the underlying webgl device.
func (d *Device) Backend() *webgl.Device { return d.dev }

// Features returns the optional capabilities of the context.
func (d *Device) Features() webgl.Features { return d.dev.Features() }

// Limits returns the implementation limits of the context.
func (d *Device) Limits() webgl.Limits { return d.dev.Limits() }

// Size returns the drawing buffer size.
func (d *Device) Size() (width, height int) { return d.dev.Size() }

// Resize records a new drawing buffer size.
func (d *Device) Resize(width, height int) { d.dev.Resize(width, height) }

// IsDestroyed reports whether Destroy has been called.
func (d *Device) IsDestroyed() bool { return d.dev.IsDestroyed() }

// Live returns the number of live resources of every kind, excluding
// futures.
func (d *Device) Live() int {
	return d.buffers.len() + d.textures.len() + d.samplers.len() + d.shaders.len() +
		d.layouts.len() + d.groups.len() + d.pipelines.len() + d.passes.len()
}

// Destroy ends any active pass, destroys every live resource and then the
// backend device. Pending read-backs complete with an error. Calling
// Destroy again is a no-op.
func (d *Device) Destroy() {
	if d.dev.IsDestroyed() {
		return
	}
	d.dev.SubmitRenderPass()
	n := d.Live()
	d.passes.destroyAll()
	d.pipelines.destroyAll()
	d.groups.destroyAll()
	d.layouts.destroyAll()
	d.shaders.destroyAll()
	d.samplers.destroyAll()
	d.textures.destroyAll()
	d.buffers.destroyAll()
	d.dev.Destroy()
	d.logger().Debug("glgpu: device resources released", slog.Int("count", n))
}
