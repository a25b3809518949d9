package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/input"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
)

var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Runs the frame loop on the window's thread through the window update callback.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	input    input.Controller

	profiler         *profiler.Profiler
	profilingEnabled bool
	rendererOptions  []renderer.RendererBuilderOption

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	tickCallback    func(deltaTime float32)
	keyDownCallback func(keyCode uint32)

	lastFrame        time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frameErr         error
}

// Engine is the main entry point for the framework.
// It wires the window, the input controller, the renderer and the profiler into one frame loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer. Register OnReady callbacks on it to populate the scene.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Input returns the controller fed by the window's pointer events.
	//
	// Returns:
	//   - input.Controller: the controller
	Input() input.Controller

	// Profiler returns the frame profiler, or nil when profiling is disabled.
	Profiler() *profiler.Profiler

	// SetTickCallback registers the function called each frame before rendering.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetKeyDownCallback registers the function called for key presses after the engine's
	// own bindings (R resets the camera).
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the renderer, binds input and runs the window message loop. Blocks until the
	// window closes or Quit is called, then releases the renderer.
	//
	// Returns:
	//   - error: a startup error, or ErrNotReady if the renderer stopped accepting frames
	Run() error

	// Quit stops the frame loop and closes the window on the next iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine drawing into win with the backend returned by acquire.
// The renderer is created immediately in renderer.StateCreated and sized to the window.
//
// Parameters:
//   - win: the window
//   - acquire: returns the GPU backend when the renderer starts
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(win window.Window, acquire renderer.AcquireFunc, options ...EngineBuilderOption) Engine {
	e := &engine{
		window:      win,
		input:       input.NewController(),
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}

	rOpts := append([]renderer.RendererBuilderOption{}, e.rendererOptions...)
	if win != nil {
		rOpts = append(rOpts, renderer.WithSize(win.Width(), win.Height()))
	}
	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler()
		rOpts = append(rOpts, renderer.WithProfiler(e.profiler))
	}
	e.renderer = renderer.NewRenderer(acquire, rOpts...)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Input() input.Controller {
	return e.input
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetKeyDownCallback(callback func(keyCode uint32)) {
	e.keyDownCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if err := e.renderer.Start(); err != nil {
		e.renderer.Release()
		return fmt.Errorf("failed to start renderer: %w", err)
	}

	e.bindInput()
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()

	e.renderer.Release()
	return e.frameErr
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// bindInput routes window events to the controller, the renderer and the camera.
func (e *engine) bindInput() {
	e.window.SetMouseMoveCallback(e.input.MouseMove)
	e.window.SetMouseButtonCallback(e.input.MouseButton)
	e.window.SetScrollCallback(e.input.Wheel)
	e.window.SetResizeCallback(e.renderer.Resize)
	e.window.SetKeyDownCallback(e.keyDown)

	if cam := e.renderer.Camera(); cam != nil {
		cam.BindInput(e.input)
	}
}

func (e *engine) keyDown(keyCode uint32) {
	if keyCode == common.KeyR {
		if cam := e.renderer.Camera(); cam != nil {
			cam.Reset()
			common.LogDebug("camera reset")
		}
	}
	if e.keyDownCallback != nil {
		e.keyDownCallback(keyCode)
	}
}

// frame runs one iteration of the loop: tick callback, render, optional frame limiting.
// Frame errors are logged; a renderer that no longer accepts frames stops the loop.
func (e *engine) frame() {
	select {
	case <-e.quitChannel:
		e.renderer.Release()
		if err := e.window.Close(); err != nil {
			common.LogWarn("failed to close window: %v", err)
		}
		return
	default:
	}

	start := time.Now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if err := e.renderer.RenderFrame(); err != nil {
		if errors.Is(err, renderer.ErrNotReady) {
			e.frameErr = err
			e.Quit()
			return
		}
		common.LogError("frame failed: %v", err)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}
