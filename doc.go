// Package glgpu provides a WebGPU-shaped render API over WebGL2.
//
// # Overview
//
// A Device wraps one WebGL2 context. Buffers, textures, samplers,
// shaders, bind group layouts, bind groups, render pipelines and render
// passes are created from descriptors and referred to by typed
// generational handles, so a destroyed resource can never be reached
// through an old handle.
//
// # Quick Start
//
//	dev, err := glgpu.NewCanvasDevice(canvas) // js/wasm only
//	if err != nil {
//		return err
//	}
//	defer dev.Destroy()
//
//	depth := float32(1)
//	pass, _ := dev.CreateRenderPass(&glgpu.RenderPassDescriptor{
//		ClearColor: &gputypes.Color{A: 1},
//		ClearDepth: &depth,
//	})
//
//	dev.BeginRenderPass(pass)
//	dev.SetRenderPipeline(pipeline)
//	dev.SetVertexBuffer(0, vertices, 0)
//	dev.Draw(3, 1, 0, 0)
//	dev.SubmitRenderPass()
//
// # Render Passes
//
// A pass either targets the default framebuffer or a set of offscreen
// attachments. Multisampled attachments that are also sampled are
// resolved into their single-sample textures when the pass is submitted.
// Viewport and scissor rectangles use a top-left origin.
//
// # Commands
//
// Encoder commands such as Draw and SetBindGroup return nothing. Outside
// a pass, or with a stale handle, they do nothing. Creation calls return
// errors for invalid descriptors.
//
// # Read-back
//
// ReadBufferAsync inserts a fence and polls it through a Scheduler without
// blocking. The returned Future is polled with PollFuture. In a browser
// the scheduler is setTimeout; elsewhere pass one with WithScheduler, for
// example a TimerScheduler drained by the owning goroutine.
//
// # Logging
//
// Logging is disabled by default. Use SetLogger to enable it:
//
//	glgpu.SetLogger(slog.Default())
//
// # Debug Builds
//
// Building with the gldebug tag adds assertions for shader compilation,
// program linking, framebuffer completeness and bind group consistency.
// They panic with a descriptive message and are skipped while the
// context is lost.
package glgpu
