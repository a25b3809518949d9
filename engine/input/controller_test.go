package input_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/input"
	"github.com/stretchr/testify/assert"
)

type moveEvent struct {
	prev, cur input.Point
	buttons   input.Buttons
}

func TestFirstMoveOnlySeeds(t *testing.T) {
	c := input.NewController()
	var moves []moveEvent
	c.SetMouseMoveCallback(func(prev, cur input.Point, buttons input.Buttons) {
		moves = append(moves, moveEvent{prev, cur, buttons})
	})

	c.MouseMove(10, 20)
	assert.Empty(t, moves)

	c.MouseButton(input.ButtonLeft, true, 10, 20)
	c.MouseMove(15, 25)
	c.MouseButton(input.ButtonLeft, false, 15, 25)
	c.MouseMove(16, 26)

	assert.Equal(t, []moveEvent{
		{input.Point{10, 20}, input.Point{15, 25}, input.ButtonLeft},
		{input.Point{15, 25}, input.Point{16, 26}, 0},
	}, moves)
}

func TestButtonMaskAndPress(t *testing.T) {
	c := input.NewController()
	var presses []input.Buttons
	c.SetPressCallback(func(_ input.Point, buttons input.Buttons) {
		presses = append(presses, buttons)
	})

	c.MouseButton(input.ButtonRight, true, 0, 0)
	c.MouseButton(input.ButtonMiddle, true, 0, 0)
	assert.Equal(t, input.ButtonRight|input.ButtonMiddle, c.Buttons())
	c.MouseButton(input.ButtonRight, false, 0, 0)
	assert.Equal(t, input.ButtonMiddle, c.Buttons())
	assert.Equal(t, []input.Buttons{input.ButtonRight, input.ButtonRight | input.ButtonMiddle}, presses)
}

func TestWheelPassesAmountThrough(t *testing.T) {
	c := input.NewController()
	var got float32
	c.SetWheelCallback(func(amount float32) { got = amount })
	c.Wheel(-3)
	assert.Equal(t, float32(-3), got)
}

func TestTwoFingerPinch(t *testing.T) {
	c := input.NewController()
	var pinch float32
	dragged := false
	c.SetPinchCallback(func(amount float32) { pinch = amount })
	c.SetTwoFingerDragCallback(func(input.Point) { dragged = true })

	c.TwoFingerMove(
		[2]input.Point{{100, 100}, {200, 100}},
		[2]input.Point{{90, 100}, {210, 100}},
	)
	assert.InDelta(t, 20, pinch, 1e-4)
	assert.False(t, dragged)
}

func TestTwoFingerDrag(t *testing.T) {
	c := input.NewController()
	var drag input.Point
	pinched := false
	c.SetPinchCallback(func(float32) { pinched = true })
	c.SetTwoFingerDragCallback(func(d input.Point) { drag = d })

	c.TwoFingerMove(
		[2]input.Point{{100, 100}, {200, 100}},
		[2]input.Point{{100, 110}, {200, 112}},
	)
	assert.False(t, pinched)
	assert.InDelta(t, 0, drag[0], 1e-4)
	assert.InDelta(t, -11, drag[1], 1e-4)
}

func TestTwoFingerNeither(t *testing.T) {
	c := input.NewController()
	called := false
	c.SetPinchCallback(func(float32) { called = true })
	c.SetTwoFingerDragCallback(func(input.Point) { called = true })

	// One finger still, the other moving sideways to the pinch axis.
	c.TwoFingerMove(
		[2]input.Point{{100, 100}, {200, 100}},
		[2]input.Point{{100, 100}, {200, 130}},
	)
	assert.False(t, called)
}
