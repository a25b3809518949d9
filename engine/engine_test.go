package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-scene/engine/input"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of loop iterations, calling beforeFrame ahead of each update.
type fakeWindow struct {
	width, height int
	maxFrames     int
	running       bool
	closed        bool
	processed     bool

	beforeFrame func(i int)

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button input.Buttons, pressed bool, x, y float32)
	onMouseMove   func(x, y float32)
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(frames int) *fakeWindow {
	return &fakeWindow{width: 800, height: 600, maxFrames: frames, running: true}
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))     { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32))     { w.onKeyUp = cb }
func (w *fakeWindow) SetMouseButtonCallback(cb func(button input.Buttons, pressed bool, x, y float32)) {
	w.onMouseButton = cb
}
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float32)) { w.onMouseMove = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool                            { return w.running }
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }

func (w *fakeWindow) Close() error {
	w.running = false
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	w.processed = true
	for i := 0; i < w.maxFrames && w.running; i++ {
		if w.beforeFrame != nil {
			w.beforeFrame(i)
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func acquire(dev *gputest.Device) renderer.AcquireFunc {
	return func() (gpu.Backend, error) { return dev, nil }
}

func TestRunRendersUntilWindowStops(t *testing.T) {
	dev := gputest.NewDevice()
	win := newFakeWindow(3)
	e := NewEngine(win, acquire(dev))

	ticks := 0
	e.SetTickCallback(func(dt float32) {
		ticks++
		assert.GreaterOrEqual(t, dt, float32(0))
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 3, dev.Frames)
	assert.Equal(t, 800, dev.Width)
	assert.Equal(t, 600, dev.Height)
	assert.ErrorIs(t, e.Renderer().RenderFrame(), renderer.ErrNotReady)
}

func TestQuitClosesWindowOnNextFrame(t *testing.T) {
	dev := gputest.NewDevice()
	win := newFakeWindow(10)
	e := NewEngine(win, acquire(dev))

	e.SetTickCallback(func(float32) {
		if dev.Frames == 1 {
			e.Quit()
			e.Quit()
		}
	})

	require.NoError(t, e.Run())
	assert.True(t, win.closed)
	assert.Equal(t, 2, dev.Frames)
}

func TestRunReturnsStartError(t *testing.T) {
	win := newFakeWindow(1)
	boom := errors.New("no adapter")
	e := NewEngine(win, func() (gpu.Backend, error) { return nil, boom })

	err := e.Run()
	assert.ErrorIs(t, err, boom)
	assert.False(t, win.processed)
}

func TestRunWithoutWindow(t *testing.T) {
	e := NewEngine(nil, acquire(gputest.NewDevice()))
	assert.ErrorIs(t, e.Run(), ErrNoWindow)
}

func TestRendererStoppingEndsLoop(t *testing.T) {
	dev := gputest.NewDevice()
	win := newFakeWindow(10)
	e := NewEngine(win, acquire(dev))
	win.beforeFrame = func(i int) {
		if i == 1 {
			e.Renderer().Release()
		}
	}

	err := e.Run()
	assert.ErrorIs(t, err, renderer.ErrNotReady)
	assert.True(t, win.closed)
	assert.Equal(t, 1, dev.Frames)
}

func TestFrameErrorsAreLoggedAndLoopContinues(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailBeginFrame = true
	win := newFakeWindow(3)
	e := NewEngine(win, acquire(dev))

	ticks := 0
	e.SetTickCallback(func(float32) { ticks++ })
	require.NoError(t, e.Run())
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, dev.Frames)
}

func TestInputDrivesCameraAndResetKey(t *testing.T) {
	dev := gputest.NewDevice()
	win := newFakeWindow(3)
	e := NewEngine(win, acquire(dev))

	var keys []uint32
	e.SetKeyDownCallback(func(k uint32) { keys = append(keys, k) })

	var initial, dragged, reset common.Mat4
	win.beforeFrame = func(i int) {
		cam := e.Renderer().Camera()
		switch i {
		case 0:
			initial = cam.Arcball().Matrix()
			win.onMouseMove(400, 300)
			win.onMouseButton(input.ButtonLeft, true, 400, 300)
			win.onMouseMove(500, 300)
			win.onMouseButton(input.ButtonLeft, false, 500, 300)
		case 1:
			dragged = cam.Arcball().Matrix()
			win.onKeyDown(common.KeyR)
		case 2:
			reset = cam.Arcball().Matrix()
		}
	}

	require.NoError(t, e.Run())
	assert.False(t, common.ApproxEqualMat4(initial, dragged, 1e-4))
	assert.True(t, common.ApproxEqualMat4(initial, reset, 1e-5))
	assert.Equal(t, []uint32{common.KeyR}, keys)
}

func TestScrollZoomsAndResizeIsForwarded(t *testing.T) {
	dev := gputest.NewDevice()
	win := newFakeWindow(2)
	e := NewEngine(win, acquire(dev))

	var before, after common.Mat4
	win.beforeFrame = func(i int) {
		cam := e.Renderer().Camera()
		if i == 0 {
			before = cam.Arcball().Matrix()
			win.onScroll(1)
			win.onResize(400, 300)
			after = cam.Arcball().Matrix()
		}
	}

	require.NoError(t, e.Run())
	assert.False(t, common.ApproxEqualMat4(before, after, 1e-6))
	assert.Equal(t, 400, dev.Width)
	assert.Equal(t, 300, dev.Height)
}

func TestProfilingOption(t *testing.T) {
	e := NewEngine(newFakeWindow(0), acquire(gputest.NewDevice()))
	assert.Nil(t, e.Profiler())

	e = NewEngine(newFakeWindow(0), acquire(gputest.NewDevice()), WithProfiling(true), WithRenderFrameLimit(120))
	assert.NotNil(t, e.Profiler())
	assert.NotNil(t, e.Input())
	assert.NotNil(t, e.Window())
}
