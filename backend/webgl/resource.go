package webgl

// Resource is implemented by every object a Device creates.
//
// Destroy releases the driver objects. Destroying twice is a no-op, and a
// destroyed resource passed to any Device method is silently ignored.
type Resource interface {
	Destroy()
	IsDestroyed() bool
	Label() string
}

var (
	_ Resource = (*Buffer)(nil)
	_ Resource = (*Texture)(nil)
	_ Resource = (*Sampler)(nil)
	_ Resource = (*Shader)(nil)
	_ Resource = (*BindGroupLayout)(nil)
	_ Resource = (*BindGroup)(nil)
	_ Resource = (*RenderPipeline)(nil)
	_ Resource = (*RenderPass)(nil)
)
