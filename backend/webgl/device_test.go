package webgl

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
	"github.com/gogpu/glgpu/internal/gl/gltest"
)

// =============================================================================
// Device
// =============================================================================

func TestNewDevice(t *testing.T) {
	ctx := gltest.New(32, 16)
	ctx.Extensions["EXT_color_buffer_float"] = true
	ctx.Extensions["EXT_texture_filter_anisotropic"] = true
	ctx.Integers[gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT] = 16

	d := NewDevice(ctx, Config{Width: 32, Height: 16})
	defer d.Destroy()

	want := Features{ColorBufferFloat: true, Anisotropy: true}
	if got := d.Features(); got != want {
		t.Errorf("Features() = %+v, want %+v", got, want)
	}
	l := d.Limits()
	if l.MaxVertexAttribs != 16 || l.MaxTextureUnits != 32 || l.MaxUniformBufferBindings != 24 || l.MaxAnisotropy != 16 {
		t.Errorf("Limits() = %+v", l)
	}
	if w, h := d.Size(); w != 32 || h != 16 {
		t.Errorf("Size() = %d, %d; want 32, 16", w, h)
	}
	if d.cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", d.cfg.PollInterval, DefaultPollInterval)
	}
	if n := ctx.Count("BindVertexArray"); n != 1 {
		t.Errorf("BindVertexArray calls = %d, want 1", n)
	}
}

func TestDevice_Resize(t *testing.T) {
	d, ctx := newTestDevice(t)
	d.Resize(20, 10)
	d.BeginRenderPass(nil)
	want := []string{call("Viewport", 0, 0, 20, 10)}
	if got := calls(ctx, "Viewport"); !equalStrings(got, want) {
		t.Errorf("Viewport calls = %v, want %v", got, want)
	}
}

func TestDevice_Destroy(t *testing.T) {
	ctx := gltest.New(8, 8)
	d := NewDevice(ctx, Config{Width: 8, Height: 8})
	live := ctx.Live()

	d.BeginRenderPass(nil)
	d.Destroy()
	d.Destroy()

	if !d.IsDestroyed() || d.InPass() {
		t.Errorf("IsDestroyed(), InPass() = %v, %v; want true, false", d.IsDestroyed(), d.InPass())
	}
	if got := ctx.Live(); got != live-2 {
		t.Errorf("Live() = %d, want %d (scratch framebuffer and vertex array released)", got, live-2)
	}
	if _, err := d.CreateShader(&ShaderDescriptor{Stage: gputypes.ShaderStageVertex}); !errors.Is(err, ErrDeviceDestroyed) {
		t.Errorf("CreateShader() error = %v, want %v", err, ErrDeviceDestroyed)
	}
	if _, err := d.CreateSampler(&gputypes.SamplerDescriptor{}); !errors.Is(err, ErrDeviceDestroyed) {
		t.Errorf("CreateSampler() error = %v, want %v", err, ErrDeviceDestroyed)
	}
}

// =============================================================================
// Shaders and pipelines
// =============================================================================

func TestCreateShader(t *testing.T) {
	d, ctx := newTestDevice(t)
	s := mustShader(t, d, gputypes.ShaderStageFragment)
	if s.Stage() != gputypes.ShaderStageFragment {
		t.Errorf("Stage() = %v, want Fragment", s.Stage())
	}
	for _, name := range []string{"CreateShader", "ShaderSource", "CompileShader"} {
		if n := ctx.Count(name); n != 1 {
			t.Errorf("%s calls = %d, want 1", name, n)
		}
	}

	if _, err := d.CreateShader(&ShaderDescriptor{Stage: gputypes.ShaderStageCompute}); !errors.Is(err, ErrShaderStage) {
		t.Errorf("compute stage error = %v, want %v", err, ErrShaderStage)
	}
	s.Destroy()
	s.Destroy()
	if n := ctx.Count("DeleteShader"); n != 1 {
		t.Errorf("DeleteShader calls = %d, want 1", n)
	}
}

func TestCreateRenderPipeline_Errors(t *testing.T) {
	d, ctx := newTestDevice(t)
	vs := mustShader(t, d, gputypes.ShaderStageVertex)
	fs := mustShader(t, d, gputypes.ShaderStageFragment)
	dead := mustShader(t, d, gputypes.ShaderStageFragment)
	dead.Destroy()
	layout := mustLayout(t, d)
	ctx.Reset()

	tests := []struct {
		name string
		desc RenderPipelineDescriptor
		want error
	}{
		{"no fragment", RenderPipelineDescriptor{VertexShader: vs}, ErrMissingShader},
		{"destroyed shader", RenderPipelineDescriptor{VertexShader: vs, FragmentShader: dead}, ErrMissingShader},
		{
			"five groups",
			RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs,
				BindGroupLayouts: []*BindGroupLayout{layout, layout, layout, layout, layout}},
			ErrTooManyBindGroups,
		},
		{
			"nine buffers",
			RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs,
				VertexBuffers: make([]gputypes.VertexBufferLayout, 9)},
			ErrTooManyVertexBuffers,
		},
		{
			"location out of range",
			RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs,
				VertexBuffers: []gputypes.VertexBufferLayout{
					attribLayout(4, gputypes.VertexStepModeVertex, attr(16, gputypes.VertexFormatFloat32, 0)),
				}},
			ErrShaderLocation,
		},
		{
			"unknown format",
			RenderPipelineDescriptor{VertexShader: vs, FragmentShader: fs,
				VertexBuffers: []gputypes.VertexBufferLayout{
					attribLayout(4, gputypes.VertexStepModeVertex, attr(0, gputypes.VertexFormatUndefined, 0)),
				}},
			ErrVertexFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := tt.desc
			if _, err := d.CreateRenderPipeline(&desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateRenderPipeline() error = %v, want %v", err, tt.want)
			}
		})
	}
	if n := ctx.Count("CreateProgram"); n != 0 {
		t.Errorf("CreateProgram calls = %d, want 0", n)
	}
}

func TestCreateRenderPipeline_RestoresProgram(t *testing.T) {
	d, ctx := newTestDevice(t)
	sl := mustLayout(t, d, textureEntry(0, "u_tex"), samplerEntry(1, "u_tex"))
	mustPipeline(t, d, RenderPipelineDescriptor{
		BindGroupLayouts: []*BindGroupLayout{sl},
	})
	if d.cache.program != 0 {
		t.Errorf("current program = %d, want 0", d.cache.program)
	}
	if n := ctx.Count("Uniform1i"); n != 1 {
		t.Errorf("Uniform1i calls = %d, want 1", n)
	}
}

// =============================================================================
// Samplers
// =============================================================================

func TestCreateSampler(t *testing.T) {
	d, ctx := newTestDevice(t)
	s, err := d.CreateSampler(&gputypes.SamplerDescriptor{
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeMirrorRepeat,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.MipmapFilterModeLinear,
		LodMinClamp:  1,
		Compare:      gputypes.CompareFunctionLessEqual,
	})
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}
	smp := s.sampler
	want := []string{
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_WRAP_S), gl.REPEAT),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_WRAP_T), gl.MIRRORED_REPEAT),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_WRAP_R), gl.CLAMP_TO_EDGE),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_MAG_FILTER), gl.LINEAR),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_MIN_FILTER), gl.LINEAR_MIPMAP_LINEAR),
		call("SamplerParameterf", smp, gl.Enum(gl.TEXTURE_MIN_LOD), float32(1)),
		call("SamplerParameterf", smp, gl.Enum(gl.TEXTURE_MAX_LOD), float32(defaultLodMaxClamp)),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_COMPARE_MODE), gl.COMPARE_REF_TO_TEXTURE),
		call("SamplerParameteri", smp, gl.Enum(gl.TEXTURE_COMPARE_FUNC), gl.LEQUAL),
	}
	if got := calls(ctx, "SamplerParameteri", "SamplerParameterf"); !equalStrings(got, want) {
		t.Errorf("sampler parameters =\n%v\nwant\n%v", got, want)
	}
	if !s.IsComparison() {
		t.Error("IsComparison() = false")
	}
}

func TestCreateSampler_Anisotropy(t *testing.T) {
	tests := []struct {
		name      string
		extension bool
		requested uint16
		want      []string
	}{
		{"clamped to limit", true, 16, []string{call("SamplerParameterf", gl.Sampler(0), gl.Enum(gl.TEXTURE_MAX_ANISOTROPY_EXT), float32(8))}},
		{"below limit", true, 4, []string{call("SamplerParameterf", gl.Sampler(0), gl.Enum(gl.TEXTURE_MAX_ANISOTROPY_EXT), float32(4))}},
		{"no extension", false, 16, nil},
		{"one", true, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := gltest.New(4, 4)
			ctx.Extensions["EXT_texture_filter_anisotropic"] = tt.extension
			ctx.Integers[gl.MAX_TEXTURE_MAX_ANISOTROPY_EXT] = 8
			d := NewDevice(ctx, Config{Width: 4, Height: 4})
			defer d.Destroy()

			s, err := d.CreateSampler(&gputypes.SamplerDescriptor{MaxAnisotropy: tt.requested})
			if err != nil {
				t.Fatalf("CreateSampler() error = %v", err)
			}
			var got []string
			for _, c := range ctx.Filter("SamplerParameterf") {
				if c.Args[1] == gl.Enum(gl.TEXTURE_MAX_ANISOTROPY_EXT) {
					c.Args[0] = gl.Sampler(0)
					got = append(got, c.String())
				}
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("anisotropy calls = %v, want %v", got, tt.want)
			}
			s.Destroy()
		})
	}
}
