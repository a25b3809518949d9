package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/shader"
)

var (
	ErrAlreadyStarted    = errors.New("renderer already started")
	ErrNotReady          = errors.New("renderer is not ready")
	ErrNilAcquire        = errors.New("renderer has no backend acquire function")
	ErrDeviceAcquisition = errors.New("failed to acquire GPU device")
)

// AcquireFunc returns the backend the renderer draws with. It may panic, as adapter and
// device requests do; Start turns the panic into an error.
type AcquireFunc func() (gpu.Backend, error)

// ReadyFunc runs once the renderer reaches StateReady. Scenes use it to build their actors.
type ReadyFunc func(r Renderer) error

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu sync.Mutex

	acquire AcquireFunc
	backend gpu.Backend
	state   State

	width, height int
	pendingResize *[2]int
	clear         gpu.Color
	depthFormat   gpu.TextureFormat
	depth         gpu.TextureView

	module  gpu.ResourceModule
	shaders shader.Cache

	hooks   []func(gpu.RenderPass)
	onReady []ReadyFunc

	cameraOptions []camera.CameraBuilderOption
	cameraActor   actor.Actor
	camera        *camera.Camera
	actors        []actor.Actor

	profiler *profiler.Profiler
}

// Renderer is the system that owns the device, the shared services and the actors, and drives
// the single render pass of every frame.
//
// Startup is a synchronous state machine run by Start. Frames are rendered on the caller's
// goroutine; the Renderer is not meant to be driven from several goroutines at once.
type Renderer interface {
	gpu.FrameHooks

	// Start walks Created -> DeviceAcquired -> ServicesReady -> EntitiesReady -> Ready.
	// A failing phase aborts startup and releases the device and depth texture; State then
	// reports the last completed phase. Startup can be retried only while State is StateCreated.
	//
	// Returns:
	//   - error: ErrAlreadyStarted, ErrDeviceAcquisition or the wrapped failure of a phase
	Start() error

	// State returns the last completed startup phase.
	State() State

	// OnReady registers fn to run when the renderer becomes ready. When it is already ready,
	// fn runs immediately.
	//
	// Parameters:
	//   - fn: the callback
	//
	// Returns:
	//   - error: the callback's error when it ran immediately
	OnReady(fn ReadyFunc) error

	// AddActor appends a to the frame's update list.
	AddActor(a actor.Actor)

	// RemoveActor drops a from the update list.
	//
	// Returns:
	//   - bool: whether a was present
	RemoveActor(a actor.Actor) bool

	// Actors returns the scene actors in update order. The camera actor is not included.
	Actors() []actor.Actor

	// Camera returns the default camera, or nil before StateEntitiesReady.
	Camera() *camera.Camera

	// Resources returns the resource module, or nil before StateServicesReady.
	Resources() gpu.ResourceModule

	// Shaders returns the shader cache, or nil before StateServicesReady.
	Shaders() shader.Cache

	// Size returns the surface size the renderer targets, including a pending resize.
	Size() (width, height int)

	// Resize records a new surface size. It is applied at the start of the next frame:
	// the surface is reconfigured, the depth texture recreated and the camera aspect updated.
	// Non-positive sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// RenderFrame renders one frame: pending resize, camera upload, begin pass, hooks in
	// registration order, actor updates in order, end and submit, present.
	//
	// Returns:
	//   - error: ErrNotReady, a frame acquisition error or the first actor update error
	RenderFrame() error

	// Release frees the depth texture and the backend. RenderFrame fails with ErrNotReady afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer in StateCreated. Nothing touches the GPU until Start.
//
// Parameters:
//   - acquire: returns the backend to draw with
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(acquire AcquireFunc, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		acquire:     acquire,
		width:       800,
		height:      600,
		clear:       gpu.Color{R: 0.05, G: 0.05, B: 0.08, A: 1},
		depthFormat: gpu.TextureFormatDepth24Plus,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Start() error {
	if r.state != StateCreated {
		return ErrAlreadyStarted
	}
	if r.acquire == nil {
		return ErrNilAcquire
	}
	if err := r.start(); err != nil {
		r.Release()
		return err
	}
	return nil
}

func (r *renderer) start() error {

	if err := r.acquireDevice(); err != nil {
		return err
	}
	r.advance(StateDeviceAcquired)

	if err := r.createServices(); err != nil {
		return err
	}
	r.advance(StateServicesReady)

	if err := r.createEntities(); err != nil {
		return err
	}
	r.advance(StateEntitiesReady)

	for i, fn := range r.onReady {
		if err := fn(r); err != nil {
			return fmt.Errorf("ready callback %d failed: %w", i, err)
		}
	}
	r.advance(StateReady)
	return nil
}

func (r *renderer) advance(s State) {
	r.state = s
	common.LogDebug("renderer state: %s", s)
}

func (r *renderer) acquireDevice() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrDeviceAcquisition, rec)
		}
	}()

	backend, err := r.acquire()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceAcquisition, err)
	}
	if backend == nil {
		return fmt.Errorf("%w: acquire returned no backend", ErrDeviceAcquisition)
	}
	r.backend = backend

	if err := backend.Configure(r.width, r.height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}
	depth, err := backend.CreateDepthTexture("Depth Texture", r.width, r.height, r.depthFormat)
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	r.depth = depth
	common.LogInfo("device acquired, surface %dx%d", r.width, r.height)
	return nil
}

func (r *renderer) createServices() error {
	module, err := gpu.NewResourceModule(r.backend, r, gpu.WithDepthFormat(r.depthFormat))
	if err != nil {
		return fmt.Errorf("failed to create resource module: %w", err)
	}
	r.module = module
	r.shaders = shader.NewCache(r.backend)
	return nil
}

func (r *renderer) createEntities() error {
	cam := camera.NewCamera(r.module, r.width, r.height, r.cameraOptions...)
	a := actor.NewActor(actor.WithName("Camera"))
	if err := a.AddComponent("camera", cam); err != nil {
		return fmt.Errorf("failed to create camera: %w", err)
	}
	r.camera = cam
	r.cameraActor = a
	return nil
}

func (r *renderer) State() State {
	return r.state
}

func (r *renderer) OnUpdate(hook func(gpu.RenderPass)) {
	r.hooks = append(r.hooks, hook)
}

func (r *renderer) OnReady(fn ReadyFunc) error {
	if r.state == StateReady {
		return fn(r)
	}
	r.onReady = append(r.onReady, fn)
	return nil
}

func (r *renderer) AddActor(a actor.Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actors = append(r.actors, a)
}

func (r *renderer) RemoveActor(a actor.Actor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.actors, a)
	if i < 0 {
		return false
	}
	r.actors = slices.Delete(r.actors, i, i+1)
	return true
}

func (r *renderer) Actors() []actor.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.actors)
}

func (r *renderer) Camera() *camera.Camera {
	return r.camera
}

func (r *renderer) Resources() gpu.ResourceModule {
	return r.module
}

func (r *renderer) Shaders() shader.Cache {
	return r.shaders
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingResize != nil {
		return r.pendingResize[0], r.pendingResize[1]
	}
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateCreated {
		r.width, r.height = width, height
		return
	}
	r.pendingResize = &[2]int{width, height}
}

func (r *renderer) applyResize() error {
	r.mu.Lock()
	size := r.pendingResize
	r.pendingResize = nil
	r.mu.Unlock()
	if size == nil || (size[0] == r.width && size[1] == r.height) {
		return nil
	}

	if err := r.backend.Configure(size[0], size[1]); err != nil {
		return fmt.Errorf("failed to reconfigure surface: %w", err)
	}
	depth, err := r.backend.CreateDepthTexture("Depth Texture", size[0], size[1], r.depthFormat)
	if err != nil {
		return fmt.Errorf("failed to recreate depth texture: %w", err)
	}
	if r.depth != nil {
		r.depth.Release()
	}
	r.depth = depth
	r.width, r.height = size[0], size[1]
	r.camera.SetScreenSize(r.width, r.height)
	common.LogDebug("resized surface to %dx%d", r.width, r.height)
	return nil
}

func (r *renderer) RenderFrame() error {
	if r.state != StateReady || r.backend == nil {
		return ErrNotReady
	}
	if err := r.applyResize(); err != nil {
		return err
	}
	if err := r.camera.UpdateProjectionBuffer(); err != nil {
		return fmt.Errorf("failed to update camera: %w", err)
	}

	pass, err := r.backend.BeginFrame(r.depth, r.clear)
	if err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	for _, hook := range r.hooks {
		hook(pass)
	}

	var updateErr error
	for _, a := range append([]actor.Actor{r.cameraActor}, r.Actors()...) {
		if updateErr = a.Update(pass); updateErr != nil {
			break
		}
	}

	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("failed to submit frame: %w", err)
	}
	r.backend.Present()

	if r.profiler != nil {
		r.profiler.Tick()
	}
	return updateErr
}

func (r *renderer) Release() {
	if r.depth != nil {
		r.depth.Release()
		r.depth = nil
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
