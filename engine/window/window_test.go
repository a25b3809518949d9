package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/input"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("viewer"),
		WithSize(640, 0),
		WithMinSize(100, 80),
		WithMaxSize(2000, 1500),
	)
	assert.Equal(t, "viewer", w.title)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 80, w.minHeight)
	assert.Equal(t, 2000, w.maxWidth)
	assert.Equal(t, 1500, w.maxHeight)
}

func TestButtonMask(t *testing.T) {
	assert.Equal(t, input.ButtonLeft, buttonMask(glfw.MouseButtonLeft))
	assert.Equal(t, input.ButtonRight, buttonMask(glfw.MouseButtonRight))
	assert.Equal(t, input.ButtonMiddle, buttonMask(glfw.MouseButtonMiddle))
	assert.Equal(t, input.Buttons(0), buttonMask(glfw.MouseButton4))
}

func TestDispatchKey(t *testing.T) {
	w := newEngineWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	w.dispatchKey(82, true)
	w.dispatchKey(82, true)
	w.dispatchKey(82, false)

	assert.Equal(t, []uint32{82, 82}, down)
	assert.Equal(t, []uint32{82}, up)
}

func TestDispatchMouseButtonIgnoresUnmapped(t *testing.T) {
	w := newEngineWindow()
	calls := 0
	var got input.Buttons
	w.SetMouseButtonCallback(func(b input.Buttons, pressed bool, x, y float32) {
		calls++
		got = b
		assert.True(t, pressed)
		assert.Equal(t, float32(3), x)
		assert.Equal(t, float32(4), y)
	})

	w.dispatchMouseButton(0, true, 3, 4)
	assert.Equal(t, 0, calls)

	w.dispatchMouseButton(input.ButtonRight, true, 3, 4)
	assert.Equal(t, 1, calls)
	assert.Equal(t, input.ButtonRight, got)
}

func TestDispatchWithoutCallbacks(t *testing.T) {
	w := newEngineWindow()
	assert.NotPanics(t, func() {
		w.dispatchKey(1, true)
		w.dispatchKey(1, false)
		w.dispatchMouseButton(input.ButtonLeft, true, 0, 0)
		w.dispatchMouseMove(1, 2)
		w.dispatchScroll(1)
		w.dispatchResize(10, 10)
	})
}

func TestDispatchResizeSkipsMinimized(t *testing.T) {
	w := newEngineWindow()
	var sizes [][2]int
	w.SetResizeCallback(func(width, height int) { sizes = append(sizes, [2]int{width, height}) })

	w.dispatchResize(0, 0)
	assert.Equal(t, 0, w.Width())
	assert.Empty(t, sizes)

	w.dispatchResize(800, 600)
	assert.Equal(t, [][2]int{{800, 600}}, sizes)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrWindowNotInitialized)
}

func TestMouseMoveAndScroll(t *testing.T) {
	w := newEngineWindow()
	var moved [2]float32
	var scrolled float32
	w.SetMouseMoveCallback(func(x, y float32) { moved = [2]float32{x, y} })
	w.SetScrollCallback(func(d float32) { scrolled = d })

	w.dispatchMouseMove(5, 6)
	w.dispatchScroll(-1)

	assert.Equal(t, [2]float32{5, 6}, moved)
	assert.Equal(t, float32(-1), scrolled)
}
