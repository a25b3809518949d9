package camera

// CameraBuilderOption is a functional option for configuring a Camera during construction.
type CameraBuilderOption func(*Camera)

// WithEye sets the initial eye position.
//
// Parameters:
//   - eye: the eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the eye
func WithEye(eye [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.eye = eye
	}
}

// WithCenter sets the point the camera orbits.
//
// Parameters:
//   - center: the orbit center
//
// Returns:
//   - CameraBuilderOption: a function that sets the center
func WithCenter(center [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.center = center
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: the up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the up vector
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.up = up
	}
}

// WithZoomSpeed sets the arcball zoom scale.
//
// Parameters:
//   - speed: the zoom scale
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) CameraBuilderOption {
	return func(c *Camera) {
		c.zoomSpeed = speed
	}
}

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *Camera) {
		c.fov = fov
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *Camera) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.far = far
	}
}

// WithInitialDrag applies one arcball drag from prev to cur after construction and after every Reset.
//
// Parameters:
//   - prev: drag start in pixels
//   - cur: drag end in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the initial drag
func WithInitialDrag(prev, cur [2]float32) CameraBuilderOption {
	return func(c *Camera) {
		c.initialDrag = &[2][2]float32{prev, cur}
	}
}
