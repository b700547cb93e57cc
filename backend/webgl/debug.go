package webgl

import (
	"fmt"

	"github.com/gogpu/glgpu/internal/gl"
)

// Assertions are compiled in only with the gldebug build tag. Each one is
// skipped while the context is lost, because a lost context reports
// failure for every status query.

func (d *Device) checking() bool {
	return debugEnabled && !d.f.IsContextLost()
}

func (d *Device) assertShaderCompiled(s gl.Shader, label string) {
	if !d.checking() {
		return
	}
	if d.f.GetShaderi(s, gl.COMPILE_STATUS) == 0 {
		panic(fmt.Sprintf("webgl: shader %q failed to compile: %s", label, d.f.GetShaderInfoLog(s)))
	}
}

func (d *Device) assertProgramLinked(p gl.Program, label string) {
	if !d.checking() {
		return
	}
	if d.f.GetProgrami(p, gl.LINK_STATUS) == 0 {
		panic(fmt.Sprintf("webgl: pipeline %q failed to link: %s", label, d.f.GetProgramInfoLog(p)))
	}
}

func (d *Device) assertFramebufferComplete(target gl.Enum, label string) {
	if !d.checking() {
		return
	}
	if status := d.f.CheckFramebufferStatus(target); status != gl.FRAMEBUFFER_COMPLETE {
		panic(fmt.Sprintf("webgl: framebuffer %q incomplete: status 0x%04X", label, uint32(status)))
	}
}

func (d *Device) assertf(cond bool, format string, args ...any) {
	if !d.checking() || cond {
		return
	}
	panic(fmt.Sprintf("webgl: "+format, args...))
}
