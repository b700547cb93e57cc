package webgl

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// Render pass errors.
var (
	// ErrTooManyAttachments is returned when a pass has more color
	// attachments than MaxColorAttachments.
	ErrTooManyAttachments = errors.New("webgl: too many color attachments")

	// ErrAttachmentSize is returned when attachments differ in size or
	// sample count.
	ErrAttachmentSize = errors.New("webgl: attachments differ in size or sample count")

	// ErrDepthFormat is returned when the depth-stencil attachment has a
	// color format, or a color attachment has a depth format.
	ErrDepthFormat = errors.New("webgl: attachment format does not match its attachment point")
)

// NoClear as a DepthClearValue skips the depth clear of a LoadOpClear
// attachment.
var NoClear = float32(math.NaN())

// RenderPassColorAttachment is one draw buffer of an offscreen pass.
type RenderPassColorAttachment struct {
	Texture    *Texture
	MipLevel   int
	Layer      int
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDepthStencilAttachment is the depth and stencil target of an
// offscreen pass. A NaN DepthClearValue skips the depth clear.
type RenderPassDepthStencilAttachment struct {
	Texture           *Texture
	DepthLoadOp       gputypes.LoadOp
	DepthStoreOp      gputypes.StoreOp
	DepthClearValue   float32
	StencilLoadOp     gputypes.LoadOp
	StencilStoreOp    gputypes.StoreOp
	StencilClearValue uint32
}

// RenderPassDescriptor describes a render pass.
//
// A pass without attachments renders to the default framebuffer. Only such
// a pass uses ClearColor, ClearDepth and ClearStencil, and a nil value
// skips the respective clear.
type RenderPassDescriptor struct {
	Label                  string
	ColorAttachments       []RenderPassColorAttachment
	DepthStencilAttachment *RenderPassDepthStencilAttachment
	ClearColor             *gputypes.Color
	ClearDepth             *float32
	ClearStencil           *uint32
}

// resolve is one blit from the pass framebuffer into a single-sample
// framebuffer holding the sampleable texture.
type resolve struct {
	framebuffer gl.Framebuffer
	readBuffer  gl.Enum
	mask        gl.Enum
}

// RenderPass is a reusable render target configuration. An offscreen pass
// owns a framebuffer and one resolve framebuffer per multisampled
// attachment that has a texture object.
type RenderPass struct {
	device *Device
	label  string
	desc   RenderPassDescriptor

	framebuffer   gl.Framebuffer
	width, height int
	resolves      []resolve
	invalidate    []gl.Enum
	destroyed     bool
}

// CreateRenderPass creates the framebuffers of an offscreen pass. The
// framebuffer binding in effect before the call is restored.
func (d *Device) CreateRenderPass(desc *RenderPassDescriptor) (*RenderPass, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	p := &RenderPass{device: d, label: desc.Label, desc: *desc}
	p.desc.ColorAttachments = append([]RenderPassColorAttachment(nil), desc.ColorAttachments...)
	p.desc.ClearColor = clone(desc.ClearColor)
	p.desc.ClearDepth = clone(desc.ClearDepth)
	p.desc.ClearStencil = clone(desc.ClearStencil)
	if desc.DepthStencilAttachment != nil {
		ds := *desc.DepthStencilAttachment
		p.desc.DepthStencilAttachment = &ds
	}
	if p.isDefaultTarget() {
		return p, nil
	}
	if err := p.validate(d.limits); err != nil {
		return nil, err
	}

	prevDraw, prevRead := d.cache.drawFB, d.cache.readFB
	p.framebuffer = d.f.CreateFramebuffer()
	d.cache.bindFramebuffer(gl.FRAMEBUFFER, p.framebuffer)

	drawBuffers := make([]gl.Enum, 0, len(p.desc.ColorAttachments))
	for i, a := range p.desc.ColorAttachments {
		point := gl.Enum(gl.COLOR_ATTACHMENT0 + i)
		a.Texture.attach(d.f, gl.FRAMEBUFFER, point, a.MipLevel, a.Layer, a.Texture.samples > 1)
		drawBuffers = append(drawBuffers, point)
		if a.StoreOp == gputypes.StoreOpDiscard {
			p.invalidate = append(p.invalidate, point)
		}
	}
	if len(drawBuffers) == 0 {
		d.f.DrawBuffers([]gl.Enum{gl.NONE})
		d.f.ReadBuffer(gl.NONE)
	} else {
		d.f.DrawBuffers(drawBuffers)
	}
	if ds := p.desc.DepthStencilAttachment; ds != nil {
		point := ds.Texture.info.attachmentPoint()
		ds.Texture.attach(d.f, gl.FRAMEBUFFER, point, 0, 0, ds.Texture.samples > 1)
		discard := ds.DepthStoreOp == gputypes.StoreOpDiscard
		if ds.Texture.info.Stencil {
			discard = discard && ds.StencilStoreOp == gputypes.StoreOpDiscard
		}
		if discard {
			p.invalidate = append(p.invalidate, point)
		}
	}
	d.assertFramebufferComplete(gl.FRAMEBUFFER, desc.Label)

	for i, a := range p.desc.ColorAttachments {
		if a.Texture.samples > 1 && a.Texture.texture.Valid() {
			p.addResolve(a.Texture, gl.COLOR_ATTACHMENT0, a.MipLevel, a.Layer, gl.Enum(gl.COLOR_ATTACHMENT0+i))
		}
	}
	if ds := p.desc.DepthStencilAttachment; ds != nil && ds.Texture.samples > 1 && ds.Texture.texture.Valid() {
		p.addResolve(ds.Texture, ds.Texture.info.attachmentPoint(), 0, 0, gl.NONE)
	}

	d.cache.bindFramebuffer(gl.DRAW_FRAMEBUFFER, prevDraw)
	d.cache.bindFramebuffer(gl.READ_FRAMEBUFFER, prevRead)

	slogger().Debug("webgl: render pass created",
		slog.String("label", desc.Label),
		slog.Int("colorAttachments", len(p.desc.ColorAttachments)),
		slog.Bool("depthStencil", p.desc.DepthStencilAttachment != nil),
		slog.Int("resolves", len(p.resolves)),
	)
	return p, nil
}

func (p *RenderPass) isDefaultTarget() bool {
	return len(p.desc.ColorAttachments) == 0 && p.desc.DepthStencilAttachment == nil
}

// validate checks the attachments and fixes the pass size: the first color
// attachment's level size, or zero (the back buffer) without one.
func (p *RenderPass) validate(l Limits) error {
	colors := p.desc.ColorAttachments
	if l.MaxColorAttachments > 0 && len(colors) > l.MaxColorAttachments {
		return fmt.Errorf("%w: %d", ErrTooManyAttachments, len(colors))
	}
	samples := -1
	check := func(t *Texture, level int) error {
		if t == nil || t.destroyed {
			return ErrTextureDestroyed
		}
		w, h, _ := t.levelSize(level)
		if samples < 0 {
			samples = t.samples
			if p.width == 0 && len(colors) > 0 {
				p.width, p.height = w, h
			}
		}
		if t.samples != samples || (p.width != 0 && (w != p.width || h != p.height)) {
			return fmt.Errorf("%w: %q is %dx%d with %d samples", ErrAttachmentSize, t.label, w, h, t.samples)
		}
		return nil
	}
	for _, a := range colors {
		if err := check(a.Texture, a.MipLevel); err != nil {
			return err
		}
		if a.Texture.info.DepthStencil {
			return fmt.Errorf("%w: color attachment %q", ErrDepthFormat, a.Texture.label)
		}
	}
	if ds := p.desc.DepthStencilAttachment; ds != nil {
		if err := check(ds.Texture, 0); err != nil {
			return err
		}
		if !ds.Texture.info.DepthStencil {
			return fmt.Errorf("%w: depth attachment %q", ErrDepthFormat, ds.Texture.label)
		}
	}
	return nil
}

// addResolve creates the single-sample framebuffer that receives the blit
// for one multisampled attachment. readBuffer is the color attachment of
// the pass framebuffer to read, or NONE for depth-stencil.
func (p *RenderPass) addResolve(t *Texture, point gl.Enum, level, layer int, readBuffer gl.Enum) {
	d := p.device
	fb := d.f.CreateFramebuffer()
	d.cache.bindFramebuffer(gl.FRAMEBUFFER, fb)
	t.attach(d.f, gl.FRAMEBUFFER, point, level, layer, false)
	if readBuffer == gl.NONE {
		d.f.DrawBuffers([]gl.Enum{gl.NONE})
	}
	d.assertFramebufferComplete(gl.FRAMEBUFFER, p.label+" resolve")
	p.resolves = append(p.resolves, resolve{
		framebuffer: fb,
		readBuffer:  readBuffer,
		mask:        t.info.bufferMask(),
	})
}

// Label returns the debug label.
func (p *RenderPass) Label() string { return p.label }

// IsDestroyed reports whether Destroy has been called.
func (p *RenderPass) IsDestroyed() bool { return p.destroyed }

// Destroy deletes the pass framebuffers, submitting the pass first if it
// is active. Attached textures are not destroyed.
func (p *RenderPass) Destroy() {
	if p.destroyed {
		return
	}
	d := p.device
	if d.enc.active && d.enc.pass == p {
		d.SubmitRenderPass()
	}
	p.destroyed = true
	if p.framebuffer.Valid() {
		d.f.DeleteFramebuffer(p.framebuffer)
		d.cache.forgetFramebuffer(p.framebuffer)
	}
	for _, r := range p.resolves {
		d.f.DeleteFramebuffer(r.framebuffer)
		d.cache.forgetFramebuffer(r.framebuffer)
	}
	p.resolves = nil
}

// BeginRenderPass makes p the active pass. A nil p renders to the default
// framebuffer without clearing. If a pass is already active it is
// submitted first. The viewport and scissor are reset to the full target
// and the scissor test is disabled before clearing.
func (d *Device) BeginRenderPass(p *RenderPass) {
	if d.destroyed {
		return
	}
	if d.enc.active {
		slogger().Warn("webgl: BeginRenderPass while a pass is active; submitting it")
		d.SubmitRenderPass()
	}
	if p != nil && (p.destroyed || p.device != d) {
		return
	}

	fb, w, h := gl.Framebuffer(0), d.width, d.height
	if p != nil && p.framebuffer.Valid() {
		fb = p.framebuffer
		if p.width != 0 {
			w, h = p.width, p.height
		}
	}
	d.cache.bindFramebuffer(gl.FRAMEBUFFER, fb)
	d.cache.setViewport(0, 0, w, h)
	d.cache.setScissor(0, 0, w, h)
	d.cache.setScissorTest(false)

	switch {
	case p == nil:
	case p.framebuffer.Valid():
		d.clearAttachments(p)
	default:
		d.clearDefault(p)
	}
	d.enc.begin(p, w, h)
}

var allColors = [4]bool{true, true, true, true}

// clearDefault issues one combined clear of the default framebuffer.
// Forcing the write masks on is not undone: the new masks are what the
// cache holds until the next pipeline bind.
func (d *Device) clearDefault(p *RenderPass) {
	var mask gl.Enum
	if c := p.desc.ClearColor; c != nil {
		d.cache.setColorMask(allColors)
		d.cache.setClearColor([4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
		mask |= gl.COLOR_BUFFER_BIT
	}
	if v := p.desc.ClearDepth; v != nil {
		d.cache.setDepthMask(true)
		d.cache.setClearDepth(*v)
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if v := p.desc.ClearStencil; v != nil {
		d.cache.setStencilMask(0xFF)
		d.cache.setClearStencil(int(*v))
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		d.f.Clear(mask)
	}
}

// clearAttachments clears each draw buffer of an offscreen pass with the
// clearBuffer variant matching its format.
func (d *Device) clearAttachments(p *RenderPass) {
	for i, a := range p.desc.ColorAttachments {
		if a.LoadOp != gputypes.LoadOpClear {
			continue
		}
		d.cache.setColorMask(allColors)
		c := a.ClearValue
		switch a.Texture.info.ClearType {
		case ClearInt:
			d.f.ClearBufferiv(gl.COLOR, i, [4]int32{int32(c.R), int32(c.G), int32(c.B), int32(c.A)})
		case ClearUint:
			d.f.ClearBufferuiv(gl.COLOR, i, [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A)})
		default:
			d.f.ClearBufferfv(gl.COLOR, i, [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
		}
	}

	ds := p.desc.DepthStencilAttachment
	if ds == nil {
		return
	}
	clearDepth := ds.DepthLoadOp == gputypes.LoadOpClear && !isNaN(ds.DepthClearValue)
	clearStencil := ds.StencilLoadOp == gputypes.LoadOpClear && ds.Texture.info.Stencil
	if clearDepth {
		d.cache.setDepthMask(true)
	}
	if clearStencil {
		d.cache.setStencilMask(0xFF)
	}
	switch {
	case clearDepth && clearStencil:
		d.f.ClearBufferfi(gl.DEPTH_STENCIL, 0, ds.DepthClearValue, int(ds.StencilClearValue))
	case clearDepth:
		d.f.ClearBufferfv(gl.DEPTH, 0, [4]float32{ds.DepthClearValue})
	case clearStencil:
		d.f.ClearBufferiv(gl.STENCIL, 0, [4]int32{int32(ds.StencilClearValue)})
	}
}

// SubmitRenderPass ends the active pass. Multisampled attachments are
// resolved into their textures by blitting, then attachments stored with
// StoreOpDiscard are invalidated. Without an active pass it does nothing.
func (d *Device) SubmitRenderPass() {
	if !d.enc.active {
		return
	}
	p := d.enc.pass
	if p != nil && p.framebuffer.Valid() && !p.destroyed {
		w, h := d.enc.width, d.enc.height
		if len(p.resolves) > 0 {
			d.cache.setScissorTest(false)
		}
		for _, r := range p.resolves {
			d.cache.bindFramebuffer(gl.READ_FRAMEBUFFER, p.framebuffer)
			if r.readBuffer != gl.NONE {
				d.f.ReadBuffer(r.readBuffer)
			}
			d.cache.bindFramebuffer(gl.DRAW_FRAMEBUFFER, r.framebuffer)
			d.f.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, r.mask, gl.NEAREST)
		}
		if len(p.invalidate) > 0 {
			d.cache.bindFramebuffer(gl.DRAW_FRAMEBUFFER, p.framebuffer)
			d.f.InvalidateFramebuffer(gl.DRAW_FRAMEBUFFER, p.invalidate)
		}
	}
	d.enc.end()
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }
