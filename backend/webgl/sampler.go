package webgl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// defaultLodMaxClamp replaces a zero LodMaxClamp.
const defaultLodMaxClamp = 32

// Sampler is a driver sampler object. It is bound to the texture unit of
// the texture it is paired with in a bind group.
type Sampler struct {
	device    *Device
	label     string
	sampler   gl.Sampler
	compare   bool
	destroyed bool
}

// CreateSampler creates a sampler object from desc. A zero LodMaxClamp
// means no upper clamp. MaxAnisotropy is ignored unless the device has
// the Anisotropy feature.
func (d *Device) CreateSampler(desc *gputypes.SamplerDescriptor) (*Sampler, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	s := &Sampler{
		device:  d,
		label:   desc.Label,
		sampler: d.f.CreateSampler(),
	}
	f, smp := d.f, s.sampler
	f.SamplerParameteri(smp, gl.TEXTURE_WRAP_S, addressMode(desc.AddressModeU))
	f.SamplerParameteri(smp, gl.TEXTURE_WRAP_T, addressMode(desc.AddressModeV))
	f.SamplerParameteri(smp, gl.TEXTURE_WRAP_R, addressMode(desc.AddressModeW))
	f.SamplerParameteri(smp, gl.TEXTURE_MAG_FILTER, magFilter(desc.MagFilter))
	f.SamplerParameteri(smp, gl.TEXTURE_MIN_FILTER, minFilter(desc.MinFilter, desc.MipmapFilter))

	lodMax := desc.LodMaxClamp
	if lodMax <= 0 {
		lodMax = defaultLodMaxClamp
	}
	f.SamplerParameterf(smp, gl.TEXTURE_MIN_LOD, desc.LodMinClamp)
	f.SamplerParameterf(smp, gl.TEXTURE_MAX_LOD, lodMax)

	if desc.Compare != gputypes.CompareFunctionUndefined {
		s.compare = true
		f.SamplerParameteri(smp, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		f.SamplerParameteri(smp, gl.TEXTURE_COMPARE_FUNC, int(compareFunc(desc.Compare)))
	}
	if d.features.Anisotropy && desc.MaxAnisotropy > 1 {
		aniso := min(int(desc.MaxAnisotropy), max(d.limits.MaxAnisotropy, 1))
		f.SamplerParameterf(smp, gl.TEXTURE_MAX_ANISOTROPY_EXT, float32(aniso))
	}
	return s, nil
}

// Label returns the debug label.
func (s *Sampler) Label() string { return s.label }

// IsComparison reports whether the sampler performs depth comparison.
func (s *Sampler) IsComparison() bool { return s.compare }

// IsDestroyed reports whether Destroy has been called.
func (s *Sampler) IsDestroyed() bool { return s.destroyed }

// Destroy deletes the sampler object.
func (s *Sampler) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.device.f.DeleteSampler(s.sampler)
	s.device.cache.forgetSampler(s.sampler)
}
