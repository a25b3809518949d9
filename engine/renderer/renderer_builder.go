package renderer

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithClearColor sets the color the render pass clears to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c gpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clear = c
	}
}

// WithSize sets the initial surface size. Defaults to 800x600; non-positive sizes are ignored.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithProfiler ticks p once per rendered frame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - RendererBuilderOption: a function that applies the profiler option to a renderer
func WithProfiler(p *profiler.Profiler) RendererBuilderOption {
	return func(r *renderer) {
		r.profiler = p
	}
}

// WithCameraOptions passes options to the default camera created during startup.
//
// Parameters:
//   - options: camera options
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera options to a renderer
func WithCameraOptions(options ...camera.CameraBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.cameraOptions = append(r.cameraOptions, options...)
	}
}

// WithDepthFormat sets the depth attachment format. Defaults to Depth24Plus.
//
// Parameters:
//   - format: a depth texture format
//
// Returns:
//   - RendererBuilderOption: a function that applies the depth format option to a renderer
func WithDepthFormat(format gpu.TextureFormat) RendererBuilderOption {
	return func(r *renderer) {
		r.depthFormat = format
	}
}
