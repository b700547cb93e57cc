package webgl

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glgpu/internal/gl"
)

// ErrShaderStage is returned for stages other than vertex or fragment.
var ErrShaderStage = errors.New("webgl: unsupported shader stage")

// ShaderDescriptor describes a GLSL ES 3.00 shader.
type ShaderDescriptor struct {
	Label  string
	Stage  gputypes.ShaderStage
	Source string
}

// Shader is a compiled shader object. It is linked into programs by
// CreateRenderPipeline and may be destroyed once the pipelines using it
// exist.
type Shader struct {
	device    *Device
	label     string
	stage     gputypes.ShaderStage
	shader    gl.Shader
	destroyed bool
}

// CreateShader compiles desc.Source. Compile status is only checked in
// gldebug builds; release builds find out at link time.
func (d *Device) CreateShader(desc *ShaderDescriptor) (*Shader, error) {
	if d.destroyed {
		return nil, ErrDeviceDestroyed
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	var ty gl.Enum
	switch desc.Stage {
	case gputypes.ShaderStageVertex:
		ty = gl.VERTEX_SHADER
	case gputypes.ShaderStageFragment:
		ty = gl.FRAGMENT_SHADER
	default:
		return nil, fmt.Errorf("%w: %v", ErrShaderStage, desc.Stage)
	}

	s := &Shader{
		device: d,
		label:  desc.Label,
		stage:  desc.Stage,
		shader: d.f.CreateShader(ty),
	}
	d.f.ShaderSource(s.shader, desc.Source)
	d.f.CompileShader(s.shader)
	d.assertShaderCompiled(s.shader, desc.Label)
	return s, nil
}

// Label returns the debug label.
func (s *Shader) Label() string { return s.label }

// Stage returns the shader stage.
func (s *Shader) Stage() gputypes.ShaderStage { return s.stage }

// IsDestroyed reports whether Destroy has been called.
func (s *Shader) IsDestroyed() bool { return s.destroyed }

// Destroy deletes the shader object.
func (s *Shader) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.device.f.DeleteShader(s.shader)
}
