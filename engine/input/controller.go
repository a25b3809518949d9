package input

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/chewxy/math32"
)

// Buttons is a mouse button bit mask.
type Buttons uint8

const (
	ButtonLeft   Buttons = 1
	ButtonRight  Buttons = 2
	ButtonMiddle Buttons = 4
)

// Point is a pointer position in window pixels.
type Point = [2]float32

type controller struct {
	prev    Point
	hasPrev bool
	buttons Buttons

	onMouseMove     func(prev, cur Point, buttons Buttons)
	onPress         func(cur Point, buttons Buttons)
	onWheel         func(amount float32)
	onPinch         func(amount float32)
	onTwoFingerDrag func(drag Point)
}

// Controller turns raw pointer, wheel and two-finger events into drag, press, wheel, pinch and
// pan callbacks.
type Controller interface {
	// SetMouseMoveCallback sets the callback for pointer motion.
	//
	// Parameters:
	//   - callback: receives the previous and current positions and the held button mask
	SetMouseMoveCallback(callback func(prev, cur Point, buttons Buttons))

	// SetPressCallback sets the callback for button presses.
	//
	// Parameters:
	//   - callback: receives the press position and the button mask after the press
	SetPressCallback(callback func(cur Point, buttons Buttons))

	// SetWheelCallback sets the callback for wheel scrolling.
	//
	// Parameters:
	//   - callback: receives the scroll amount, positive away from the user
	SetWheelCallback(callback func(amount float32))

	// SetPinchCallback sets the callback for two-finger pinches.
	//
	// Parameters:
	//   - callback: receives the change in distance between the fingers
	SetPinchCallback(callback func(amount float32))

	// SetTwoFingerDragCallback sets the callback for two-finger drags.
	//
	// Parameters:
	//   - callback: receives the average finger motion with y pointing up
	SetTwoFingerDragCallback(callback func(drag Point))

	// MouseMove reports a pointer position. The first report only seeds the previous position.
	MouseMove(x, y float32)

	// MouseButton reports a press or release of button at (x, y).
	MouseButton(button Buttons, pressed bool, x, y float32)

	// Wheel reports a scroll amount, positive away from the user.
	Wheel(amount float32)

	// TwoFingerMove reports the previous and current positions of two touch points and
	// classifies the motion as a pinch, a drag or neither.
	TwoFingerMove(old, cur [2]Point)

	// Buttons returns the currently held button mask.
	Buttons() Buttons
}

var _ Controller = &controller{}

// NewController creates a controller with no callbacks.
func NewController() Controller {
	return &controller{}
}

func (c *controller) SetMouseMoveCallback(callback func(prev, cur Point, buttons Buttons)) {
	c.onMouseMove = callback
}

func (c *controller) SetPressCallback(callback func(cur Point, buttons Buttons)) {
	c.onPress = callback
}

func (c *controller) SetWheelCallback(callback func(amount float32)) {
	c.onWheel = callback
}

func (c *controller) SetPinchCallback(callback func(amount float32)) {
	c.onPinch = callback
}

func (c *controller) SetTwoFingerDragCallback(callback func(drag Point)) {
	c.onTwoFingerDrag = callback
}

func (c *controller) Buttons() Buttons {
	return c.buttons
}

func (c *controller) MouseMove(x, y float32) {
	cur := Point{x, y}
	if c.hasPrev && c.onMouseMove != nil {
		c.onMouseMove(c.prev, cur, c.buttons)
	}
	c.prev = cur
	c.hasPrev = true
}

func (c *controller) MouseButton(button Buttons, pressed bool, x, y float32) {
	if !pressed {
		c.buttons &^= button
		return
	}
	c.buttons |= button
	if c.onPress != nil {
		c.onPress(Point{x, y}, c.buttons)
	}
}

func (c *controller) Wheel(amount float32) {
	if c.onWheel != nil {
		c.onWheel(amount)
	}
}

func (c *controller) TwoFingerMove(old, cur [2]Point) {
	motion := [2]Point{
		{cur[0][0] - old[0][0], cur[0][1] - old[0][1]},
		{cur[1][0] - old[1][0], cur[1][1] - old[1][1]},
	}
	dirs := [2]Point{common.Normalize2(motion[0]), common.Normalize2(motion[1])}

	pinchAxis := common.Normalize2(Point{old[1][0] - old[0][0], old[1][1] - old[0][1]})
	avg := Point{(motion[0][0] + motion[1][0]) * 0.5, (motion[0][1] + motion[1][1]) * 0.5}
	panAxis := common.Normalize2(avg)

	pinch := [2]float32{common.Dot2(pinchAxis, dirs[0]), common.Dot2(pinchAxis, dirs[1])}
	pan := [2]float32{common.Dot2(panAxis, dirs[0]), common.Dot2(panAxis, dirs[1])}

	switch {
	case c.onPinch != nil && math32.Abs(pinch[0]) > 0.5 && math32.Abs(pinch[1]) > 0.5 &&
		math32.Signbit(pinch[0]) != math32.Signbit(pinch[1]):
		c.onPinch(distance(cur[0], cur[1]) - distance(old[0], old[1]))
	case c.onTwoFingerDrag != nil && math32.Abs(pan[0]) > 0.5 && math32.Abs(pan[1]) > 0.5 &&
		math32.Signbit(pan[0]) == math32.Signbit(pan[1]):
		c.onTwoFingerDrag(Point{avg[0], -avg[1]})
	}
}

func distance(a, b Point) float32 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	return math32.Sqrt(dx*dx + dy*dy)
}
