// Package webgl implements a WebGPU-shaped render backend over WebGL2.
//
// WebGPU describes rendering with explicit, immutable objects: pipelines
// carry all fixed-function state, bind groups carry resource bindings and
// render passes carry their targets. WebGL2 is an implicit state machine
// with global bind points. This package maps the former onto the latter
// while issuing as few driver calls as possible.
//
// # Architecture Overview
//
// Key components:
//
//   - Device: owns the driver context, limits, feature flags, the state
//     cache and the per-device scratch framebuffer used by copies
//   - stateCache: the last applied pipeline state and every binding the
//     backend relies on; pipeline binds diff against it
//   - resolver: built once per RenderPipeline, maps bind group entries to
//     uniform block slots, texture units and shared sampler units
//   - vertexTracker: per-slot (buffer, offset) cache, per-location
//     attribute pointer cache and enabled-location bitmap
//   - RenderPass: offscreen framebuffer, per-attachment clears and the
//     multisample resolve framebuffers
//
// # Pass lifecycle
//
// A Device is Idle until BeginRenderPass and InPass until SubmitRenderPass:
//
//	dev.BeginRenderPass(pass)
//	dev.SetRenderPipeline(pipeline)
//	dev.SetVertexBuffer(0, vb, 0)
//	dev.SetBindGroup(0, group, nil)
//	dev.Draw(3, 1, 0, 0)
//	dev.SubmitRenderPass()
//
// Encoder calls made while Idle, or with destroyed resources, are silent
// no-ops. Multisampled attachments are rendered into renderbuffers and
// blitted into their sampleable textures on submit.
//
// # Debug builds
//
// Building with the gldebug tag compiles in assertions for shader compile
// status, program link status, framebuffer completeness and bind group
// layout compatibility. Every assertion is skipped while the context is
// lost, since a lost context fails every status query.
//
// # Thread Safety
//
// A Device and everything created from it belong to one goroutine.
// Read-back callbacks run from the device's Scheduler.
package webgl
