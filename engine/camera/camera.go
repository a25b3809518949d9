package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/input"
	"github.com/Carmen-Shannon/oxy-scene/engine/resource"
)

const (
	// ProjViewSlot names the binding slot holding projection * view.
	ProjViewSlot = "projView"
	// ProjViewResource names the camera's uniform resource.
	ProjViewResource = "Camera ProjView"
)

// Camera is the scene camera component. It wraps an Arcball with a perspective projection and
// keeps the projection-view uniform that every pipeline reads at group 0.
// It provides "camera" and has no dependencies.
type Camera struct {
	*actor.BaseComponent

	mu     sync.Mutex
	module gpu.ResourceModule

	eye, center, up [3]float32
	zoomSpeed       float32
	fov             float32
	near, far       float32
	width, height   int
	initialDrag     *[2][2]float32

	arcball    Arcball
	projection common.Mat4
	projView   common.Mat4
	uniform    resource.Resource
}

var _ actor.Component = &Camera{}

// NewCamera creates a camera for a width x height surface. Without options the eye sits at
// (0, 0, 5) looking at the origin with a 50 degree field of view, near 0.1 and far 100.
//
// Parameters:
//   - module: the resource module that allocates the uniform
//   - width: surface width in pixels
//   - height: surface height in pixels
//   - options: functional options
//
// Returns:
//   - *Camera: the camera component
func NewCamera(module gpu.ResourceModule, width, height int, options ...CameraBuilderOption) *Camera {
	c := &Camera{
		module:    module,
		eye:       [3]float32{0, 0, 5},
		center:    [3]float32{0, 0, 0},
		up:        [3]float32{0, 1, 0},
		zoomSpeed: 0.5,
		fov:       common.Radians(50),
		near:      0.1,
		far:       100,
		width:     max(width, 1),
		height:    max(height, 1),
		projView:  common.IdentityMat4(),
	}
	for _, opt := range options {
		opt(c)
	}
	c.BaseComponent = actor.NewBaseComponent("Camera", c.onInit)
	c.reset()
	return c
}

func (c *Camera) Provides() []actor.Capability {
	return []actor.Capability{components.CapabilityCamera}
}

func (c *Camera) onInit() error {
	res, err := resource.New(c.module, gpu.ResourceData{
		Type:       gpu.ResourceTypeUniform,
		Name:       ProjViewResource,
		Data:       append([]float32(nil), c.projView[:]...),
		DataFormat: gpu.ShaderDataFormatMat4F32,
		ShaderSlots: []gpu.ShaderSlot{{
			Name:     ProjViewSlot,
			Type:     gpu.SlotTypeBinding,
			Position: 0,
			Binding:  0,
			Size:     16,
			DataType: gpu.ShaderDataFormatMat4F32,
		}},
	})
	if err != nil {
		return err
	}
	c.uniform = res
	return nil
}

// Arcball returns the view controller.
func (c *Camera) Arcball() Arcball {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arcball
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

// ProjView returns the projection-view matrix written by the last UpdateProjectionBuffer.
func (c *Camera) ProjView() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projView
}

// Uniform returns the projection-view uniform resource.
//
// Returns:
//   - resource.Resource: the uniform
//   - error: ErrNotInitialized before the camera is attached
func (c *Camera) Uniform() (resource.Resource, error) {
	if c.uniform == nil {
		return nil, fmt.Errorf("camera uniform: %w", actor.ErrNotInitialized)
	}
	return c.uniform, nil
}

// UpdateProjectionBuffer recomputes projection * view and writes it to the uniform.
//
// Returns:
//   - error: ErrNotInitialized before the camera is attached, or a device error
func (c *Camera) UpdateProjectionBuffer() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uniform == nil {
		return fmt.Errorf("camera projection buffer: %w", actor.ErrNotInitialized)
	}
	c.projView = common.MulMat4(c.projection, c.arcball.Matrix())
	return c.module.WriteSlot(c.uniform.Buffer(), ProjViewSlot, c.projView[:])
}

// SetScreenSize updates the arcball's pointer normalization and the projection aspect ratio.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
func (c *Camera) SetScreenSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.arcball.SetScreenDims(float32(width), float32(height))
	c.updateProjection()
}

// Reset restores the initial eye, center and up.
func (c *Camera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// BindInput drives the camera from ctrl: left drag rotates, right drag pans, the wheel and
// pinches zoom and two-finger drags pan.
//
// Parameters:
//   - ctrl: the input controller
func (c *Camera) BindInput(ctrl input.Controller) {
	ctrl.SetMouseMoveCallback(func(prev, cur input.Point, buttons input.Buttons) {
		c.mu.Lock()
		defer c.mu.Unlock()
		switch buttons {
		case input.ButtonLeft:
			c.arcball.Rotate(prev, cur)
		case input.ButtonRight:
			c.arcball.Pan([2]float32{cur[0] - prev[0], prev[1] - cur[1]})
		}
	})
	ctrl.SetWheelCallback(func(amount float32) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.arcball.Zoom(amount * 0.5)
	})
	ctrl.SetPinchCallback(func(amount float32) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.arcball.Zoom(amount)
	})
	ctrl.SetTwoFingerDragCallback(func(drag input.Point) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.arcball.Pan(drag)
	})
}

// reset rebuilds the arcball and projection. Caller must hold the mutex.
func (c *Camera) reset() {
	c.arcball = NewArcball(c.eye, c.center, c.up, c.zoomSpeed, [2]float32{float32(c.width), float32(c.height)})
	if c.initialDrag != nil {
		c.arcball.Rotate(c.initialDrag[0], c.initialDrag[1])
	}
	c.updateProjection()
}

// updateProjection recomputes the perspective matrix. Caller must hold the mutex.
func (c *Camera) updateProjection() {
	common.Perspective(c.projection[:], c.fov, float32(c.width)/float32(c.height), c.near, c.far)
}
