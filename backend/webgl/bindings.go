package webgl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// ErrBindingKind is returned for a layout entry with an unknown kind.
var ErrBindingKind = errors.New("webgl: unknown binding kind")

// BindingKind is the resource kind of a bind group layout entry.
type BindingKind uint8

const (
	// BindingBuffer entries bind a uniform buffer range.
	BindingBuffer BindingKind = iota

	// BindingTexture entries bind a sampled texture.
	BindingTexture

	// BindingSampler entries bind a sampler on the unit of the texture
	// entry with the same name.
	BindingSampler
)

// String returns the string representation of BindingKind.
func (k BindingKind) String() string {
	switch k {
	case BindingBuffer:
		return "Buffer"
	case BindingTexture:
		return "Texture"
	case BindingSampler:
		return "Sampler"
	default:
		return fmt.Sprintf("BindingKind(%d)", k)
	}
}

// AutoBinding as a layout entry's Binding means "the entry's position".
const AutoBinding = ^uint32(0)

// BindGroupLayoutEntry describes one binding of a layout. Name is the
// uniform block name for buffers and the sampler uniform name for textures
// and samplers; a sampler is paired with the texture of the same name.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Name       string
	Visibility gputypes.ShaderStages
	Kind       BindingKind

	// Buffer entries.
	HasDynamicOffset bool
	MinBindingSize   uint64

	// Texture entries.
	SampleType    gputypes.TextureSampleType
	ViewDimension gputypes.TextureViewDimension
	Multisampled  bool

	// Sampler entries.
	SamplerType gputypes.SamplerBindingType
}

// LayoutEntry converts a WebGPU layout entry to a named entry. Storage
// textures are not supported.
func LayoutEntry(name string, e gputypes.BindGroupLayoutEntry) (BindGroupLayoutEntry, error) {
	out := BindGroupLayoutEntry{Binding: e.Binding, Name: name, Visibility: e.Visibility}
	switch {
	case e.Buffer != nil:
		out.Kind = BindingBuffer
		out.HasDynamicOffset = e.Buffer.HasDynamicOffset
		out.MinBindingSize = e.Buffer.MinBindingSize
	case e.Texture != nil:
		out.Kind = BindingTexture
		out.SampleType = e.Texture.SampleType
		out.ViewDimension = e.Texture.ViewDimension
		out.Multisampled = e.Texture.Multisampled
	case e.Sampler != nil:
		out.Kind = BindingSampler
		out.SamplerType = e.Sampler.Type
	default:
		return out, fmt.Errorf("%w: entry %q", ErrBindingKind, name)
	}
	return out, nil
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupLayout is an ordered list of entries with resolved binding
// numbers.
type BindGroupLayout struct {
	device    *Device
	label     string
	entries   []BindGroupLayoutEntry
	dynamic   int
	destroyed bool
}

// CreateBindGroupLayout copies desc.Entries, replacing AutoBinding with
// each entry's position.
func (d *Device) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (*BindGroupLayout, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	l := &BindGroupLayout{
		device:  d,
		label:   desc.Label,
		entries: make([]BindGroupLayoutEntry, len(desc.Entries)),
	}
	for i, e := range desc.Entries {
		if e.Kind > BindingSampler {
			return nil, fmt.Errorf("%w: %v in entry %d", ErrBindingKind, e.Kind, i)
		}
		if e.Binding == AutoBinding {
			e.Binding = uint32(i)
		}
		if e.Kind == BindingBuffer && e.HasDynamicOffset {
			l.dynamic++
		}
		l.entries[i] = e
	}
	return l, nil
}

// Label returns the debug label.
func (l *BindGroupLayout) Label() string { return l.label }

// Entries returns the layout entries with resolved binding numbers.
func (l *BindGroupLayout) Entries() []BindGroupLayoutEntry { return l.entries }

// DynamicOffsetCount returns the number of entries consuming a dynamic offset.
func (l *BindGroupLayout) DynamicOffsetCount() int { return l.dynamic }

// IsDestroyed reports whether Destroy has been called.
func (l *BindGroupLayout) IsDestroyed() bool { return l.destroyed }

// Destroy marks the layout destroyed. It owns no driver objects.
func (l *BindGroupLayout) Destroy() { l.destroyed = true }

// BindGroupEntry binds a resource to the layout entry with the same
// binding number. Exactly one of Buffer, Texture or Sampler is used,
// according to the layout entry's kind. A zero Size binds the rest of the
// buffer from Offset.
type BindGroupEntry struct {
	Binding uint32
	Buffer  *Buffer
	Offset  uint64
	Size    uint64
	Texture *Texture
	Sampler *Sampler
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  *BindGroupLayout
	Entries []BindGroupEntry
}

// BindGroup holds concrete resources in layout order. The resources must
// outlive every draw that uses the group.
type BindGroup struct {
	device    *Device
	label     string
	layout    *BindGroupLayout
	entries   []BindGroupEntry
	destroyed bool
}

// CreateBindGroup matches desc.Entries to the layout by binding number.
// Mismatches are only reported by gldebug builds; in release builds an
// unmatched layout entry stays empty and is skipped when bound.
func (d *Device) CreateBindGroup(desc *BindGroupDescriptor) (*BindGroup, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil || desc.Layout == nil {
		return nil, ErrNilDescriptor
	}
	g := &BindGroup{
		device:  d,
		label:   desc.Label,
		layout:  desc.Layout,
		entries: make([]BindGroupEntry, len(desc.Layout.entries)),
	}
	for _, e := range desc.Entries {
		i := desc.Layout.find(e.Binding)
		d.assertf(i >= 0, "bind group %q: binding %d not in layout %q", desc.Label, e.Binding, desc.Layout.label)
		if i < 0 {
			continue
		}
		le := desc.Layout.entries[i]
		switch le.Kind {
		case BindingBuffer:
			d.assertf(e.Buffer != nil, "bind group %q: binding %d needs a buffer", desc.Label, e.Binding)
		case BindingTexture:
			d.assertf(e.Texture != nil && e.Texture.texture.Valid(),
				"bind group %q: binding %d needs a sampleable texture", desc.Label, e.Binding)
		case BindingSampler:
			d.assertf(e.Sampler != nil, "bind group %q: binding %d needs a sampler", desc.Label, e.Binding)
		}
		g.entries[i] = e
	}
	return g, nil
}

func (l *BindGroupLayout) find(binding uint32) int {
	for i, e := range l.entries {
		if e.Binding == binding {
			return i
		}
	}
	return -1
}

// Label returns the debug label.
func (g *BindGroup) Label() string { return g.label }

// Layout returns the layout the group was created against.
func (g *BindGroup) Layout() *BindGroupLayout { return g.layout }

// Entries returns the bound resources in layout entry order. Bindings the
// descriptor left out are zero.
func (g *BindGroup) Entries() []BindGroupEntry { return g.entries }

// IsDestroyed reports whether Destroy has been called.
func (g *BindGroup) IsDestroyed() bool { return g.destroyed }

// Destroy marks the group destroyed. Binding it afterwards is a no-op.
func (g *BindGroup) Destroy() { g.destroyed = true }

// slot is the driver location one layout entry resolved to.
type slot struct {
	kind BindingKind
	// index is the uniform buffer binding for buffers and the texture unit
	// for textures and samplers. -1 means unresolved.
	index    int
	location gl.Uniform
	// blockSize is the uniform block data size, recorded in gldebug builds.
	blockSize int
}

// resolver maps every entry of a pipeline's bind group layouts to a
// driver slot. It is built once when the pipeline is created.
type resolver struct {
	groups [][]slot
	units  int
	blocks int
}

// resolveBindings walks layouts in order. Buffer entries take the next
// uniform buffer binding, assigned to the named block of the program.
// Texture entries take the next texture unit. Samplers take the unit of
// the texture entry with the same name. p must be linked.
func (d *Device) resolveBindings(p gl.Program, layouts []*BindGroupLayout) *resolver {
	r := &resolver{groups: make([][]slot, len(layouts))}
	units := make(map[string]int)

	for gi, l := range layouts {
		if l == nil {
			continue
		}
		slots := make([]slot, len(l.entries))
		for i, e := range l.entries {
			s := slot{kind: e.Kind, index: -1}
			switch e.Kind {
			case BindingBuffer:
				s.index = r.blocks
				r.blocks++
				block := d.f.GetUniformBlockIndex(p, e.Name)
				if block == gl.INVALID_INDEX {
					slogger().Debug("webgl: uniform block not active", slog.String("name", e.Name))
					break
				}
				d.f.UniformBlockBinding(p, block, uint32(s.index))
				if d.checking() {
					s.blockSize = d.f.GetActiveUniformBlockParameteri(p, block, gl.UNIFORM_BLOCK_DATA_SIZE)
				}
			case BindingTexture:
				s.index = r.units
				r.units++
				s.location = d.f.GetUniformLocation(p, e.Name)
				units[e.Name] = s.index
			}
			slots[i] = s
		}
		r.groups[gi] = slots
	}

	// Samplers may precede their texture in the layout.
	for gi, l := range layouts {
		if l == nil {
			continue
		}
		for i, e := range l.entries {
			if e.Kind != BindingSampler {
				continue
			}
			if unit, ok := units[e.Name]; ok {
				r.groups[gi][i].index = unit
			}
		}
	}

	d.assertf(r.blocks <= d.limits.MaxUniformBufferBindings,
		"%d uniform buffers exceed the limit of %d", r.blocks, d.limits.MaxUniformBufferBindings)
	d.assertf(r.units <= d.limits.MaxTextureUnits,
		"%d textures exceed the limit of %d", r.units, d.limits.MaxTextureUnits)
	return r
}

// setSamplerUnits stores each texture unit in its sampler uniform. The
// values are program state, so this runs once with the program current.
func (r *resolver) setSamplerUnits(f gl.Functions) {
	for _, slots := range r.groups {
		for _, s := range slots {
			if s.kind == BindingTexture && s.location.Valid() {
				f.Uniform1i(s.location, s.index)
			}
		}
	}
}

// bindGroup binds every resource of g at the slots resolved for group
// index. Dynamic offsets are consumed in entry order by the dynamic
// buffer entries; missing offsets count as zero.
func (d *Device) bindGroup(r *resolver, index int, g *BindGroup, offsets []uint32) {
	if index >= len(r.groups) || g == nil || g.destroyed {
		return
	}
	slots := r.groups[index]
	entries := g.layout.entries
	dyn := 0
	for i, e := range g.entries {
		if i >= len(slots) {
			break
		}
		s := slots[i]
		switch s.kind {
		case BindingBuffer:
			offset := e.Offset
			if entries[i].HasDynamicOffset {
				if dyn < len(offsets) {
					offset += uint64(offsets[dyn])
				}
				dyn++
			}
			if !e.Buffer.usable(d) || s.index < 0 {
				continue
			}
			size := e.Size
			if size == 0 {
				size = uint64(e.Buffer.size) - min(offset, uint64(e.Buffer.size))
			}
			d.assertf(s.blockSize == 0 || int(size) >= s.blockSize,
				"bind group %q binding %d: range of %d bytes is smaller than block size %d",
				g.label, entries[i].Binding, size, s.blockSize)
			d.cache.bindBufferRange(s.index, e.Buffer.buffer, int(offset), int(size))
		case BindingTexture:
			t := e.Texture
			if t == nil || t.destroyed || !t.texture.Valid() {
				continue
			}
			d.cache.bindTexture(s.index, t.target, t.texture)
		case BindingSampler:
			if e.Sampler == nil || e.Sampler.destroyed || s.index < 0 {
				continue
			}
			d.cache.bindSampler(s.index, e.Sampler.sampler)
		}
	}
}
