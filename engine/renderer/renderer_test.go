package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-scene/engine/primitives"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRenderer(t *testing.T, options ...renderer.RendererBuilderOption) (*gputest.Device, renderer.Renderer) {
	t.Helper()
	dev := gputest.NewDevice()
	r := renderer.NewRenderer(func() (gpu.Backend, error) { return dev, nil }, options...)
	require.NoError(t, r.Start())
	return dev, r
}

func addPlane(t *testing.T, r renderer.Renderer) actor.Actor {
	t.Helper()
	mesh, err := primitives.NewPlane(r.Resources())
	require.NoError(t, err)
	a := actor.NewActor(actor.WithName("plane"))
	require.NoError(t, a.AddComponent("mesh", mesh))
	require.NoError(t, a.AddComponent("material", components.NewSimpleMaterial(r.Shaders())))
	r.AddActor(a)
	return a
}

func TestStartWalksEveryPhase(t *testing.T) {
	dev, r := startRenderer(t, renderer.WithSize(640, 480))

	assert.Equal(t, renderer.StateReady, r.State())
	assert.Equal(t, "Ready", r.State().String())
	assert.Equal(t, 640, dev.Width)
	assert.Equal(t, 480, dev.Height)
	require.Len(t, dev.DepthTextures, 1)
	assert.Equal(t, gpu.TextureFormatDepth24Plus, dev.DepthTextures[0].Format)

	require.NotNil(t, r.Camera())
	assert.True(t, r.Camera().Initialized())
	assert.NotNil(t, r.Resources())
	assert.NotNil(t, r.Shaders())
	assert.Empty(t, r.Actors())
	assert.NotNil(t, dev.BufferByLabel(camera.ProjViewResource))

	assert.ErrorIs(t, r.Start(), renderer.ErrAlreadyStarted)
}

func TestRenderFrameOrdering(t *testing.T) {
	dev, r := startRenderer(t)
	addPlane(t, r)

	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{
		"WriteBuffer", "BeginFrame", "SetBindGroup",
		"CreateRenderPipeline", "SetPipeline", "SetVertexBuffer", "Draw",
		"EndFrame", "Present",
	}, dev.Ops())
	assert.Equal(t, []any{uint32(0), camera.ProjViewResource + " " + camera.ProjViewSlot}, dev.Calls[2].Args)
	assert.Equal(t, 1, dev.Frames)

	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{
		"WriteBuffer", "BeginFrame", "SetBindGroup",
		"SetPipeline", "SetVertexBuffer", "Draw",
		"EndFrame", "Present",
	}, dev.Ops())
}

func TestRenderFrameUploadsProjView(t *testing.T) {
	dev, r := startRenderer(t)
	r.Camera().Arcball().Zoom(600)

	require.NoError(t, r.RenderFrame())
	buf := dev.BufferByLabel(camera.ProjViewResource)
	require.NotNil(t, buf)
	pv := r.Camera().ProjView()
	want := common.MulMat4(r.Camera().Projection(), r.Camera().Arcball().Matrix())
	assert.Equal(t, want, pv)
	assert.Equal(t, common.Float32sToBytes(pv[:]), buf.Contents)
}

func TestHooksRunInRegistrationOrderBeforeActors(t *testing.T) {
	dev, r := startRenderer(t)
	var calls []string
	r.OnUpdate(func(gpu.RenderPass) { calls = append(calls, "hook") })

	a := actor.NewActor()
	a.OnUpdate(func(gpu.RenderPass) error {
		calls = append(calls, "actor")
		return nil
	})
	r.AddActor(a)

	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{"hook", "actor"}, calls)
	assert.Equal(t, "SetBindGroup", dev.Ops()[2], "the camera hook registered first")
}

func TestResizeIsDeferredToNextFrame(t *testing.T) {
	dev, r := startRenderer(t, renderer.WithSize(800, 600))
	before := r.Camera().Projection()

	r.Resize(1600, 600)
	assert.Equal(t, 800, dev.Width)
	w, h := r.Size()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 600, h)

	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []string{"Configure", "CreateDepthTexture", "WriteBuffer"}, dev.Ops()[:3])
	assert.Equal(t, 1600, dev.Width)
	require.Len(t, dev.DepthTextures, 2)
	assert.True(t, dev.DepthTextures[0].Released)
	assert.Equal(t, 1600, dev.DepthTextures[1].Width)

	after := r.Camera().Projection()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	r.Resize(0, 0)
	dev.Reset()
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, "WriteBuffer", dev.Ops()[0])
}

func TestResizeBeforeStartSetsInitialSize(t *testing.T) {
	dev := gputest.NewDevice()
	r := renderer.NewRenderer(func() (gpu.Backend, error) { return dev, nil })
	r.Resize(320, 200)
	require.NoError(t, r.Start())
	assert.Equal(t, 320, dev.Width)
	assert.Equal(t, 200, dev.Height)
}

func TestStartFailures(t *testing.T) {
	boom := errors.New("no adapter")

	r := renderer.NewRenderer(func() (gpu.Backend, error) { return nil, boom })
	err := r.Start()
	assert.ErrorIs(t, err, renderer.ErrDeviceAcquisition)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, renderer.StateCreated, r.State())

	r = renderer.NewRenderer(func() (gpu.Backend, error) { panic("request device failed") })
	err = r.Start()
	assert.ErrorIs(t, err, renderer.ErrDeviceAcquisition)
	assert.Contains(t, err.Error(), "request device failed")
	assert.Equal(t, renderer.StateCreated, r.State())

	assert.ErrorIs(t, renderer.NewRenderer(nil).Start(), renderer.ErrNilAcquire)

	dev := gputest.NewDevice()
	r = renderer.NewRenderer(func() (gpu.Backend, error) { return dev, nil })
	require.NoError(t, r.OnReady(func(renderer.Renderer) error { return boom }))
	assert.ErrorIs(t, r.Start(), boom)
	assert.Equal(t, renderer.StateEntitiesReady, r.State())
	assert.ErrorIs(t, r.RenderFrame(), renderer.ErrNotReady)
	assert.True(t, dev.Released)
	require.Len(t, dev.DepthTextures, 1)
	assert.True(t, dev.DepthTextures[0].Released)
	assert.ErrorIs(t, r.Start(), renderer.ErrAlreadyStarted)
}

func TestFailedSurfaceSetupReleasesDeviceAndAllowsRetry(t *testing.T) {
	var acquired []*gputest.Device
	r := renderer.NewRenderer(func() (gpu.Backend, error) {
		dev := gputest.NewDevice()
		dev.FailConfigure = len(acquired) == 0
		acquired = append(acquired, dev)
		return dev, nil
	})

	err := r.Start()
	assert.ErrorIs(t, err, gputest.ErrInjected)
	assert.Equal(t, renderer.StateCreated, r.State())
	require.Len(t, acquired, 1)
	assert.True(t, acquired[0].Released)

	require.NoError(t, r.Start())
	require.Len(t, acquired, 2)
	assert.False(t, acquired[1].Released)
	assert.Equal(t, renderer.StateReady, r.State())

	r.Release()
	assert.True(t, acquired[1].Released)
}

func TestOnReady(t *testing.T) {
	dev := gputest.NewDevice()
	r := renderer.NewRenderer(func() (gpu.Backend, error) { return dev, nil })

	var seen []renderer.State
	require.NoError(t, r.OnReady(func(got renderer.Renderer) error {
		seen = append(seen, got.State())
		assert.NotNil(t, got.Camera())
		return nil
	}))
	assert.Empty(t, seen)

	require.NoError(t, r.Start())
	assert.Equal(t, []renderer.State{renderer.StateEntitiesReady}, seen)

	require.NoError(t, r.OnReady(func(got renderer.Renderer) error {
		seen = append(seen, got.State())
		return nil
	}))
	assert.Equal(t, []renderer.State{renderer.StateEntitiesReady, renderer.StateReady}, seen)
}

func TestActorErrorsStillPresentFrame(t *testing.T) {
	dev, r := startRenderer(t)
	boom := errors.New("draw failed")
	var later bool

	failing := actor.NewActor()
	failing.OnUpdate(func(gpu.RenderPass) error { return boom })
	next := actor.NewActor()
	next.OnUpdate(func(gpu.RenderPass) error {
		later = true
		return nil
	})
	r.AddActor(failing)
	r.AddActor(next)

	dev.Reset()
	assert.ErrorIs(t, r.RenderFrame(), boom)
	assert.False(t, later)
	assert.Equal(t, 1, dev.Frames)

	assert.True(t, r.RemoveActor(failing))
	assert.False(t, r.RemoveActor(failing))
	require.NoError(t, r.RenderFrame())
	assert.True(t, later)
	assert.Len(t, r.Actors(), 1)
}

func TestBeginFrameFailureSkipsPresent(t *testing.T) {
	dev, r := startRenderer(t)
	dev.FailBeginFrame = true

	assert.ErrorIs(t, r.RenderFrame(), gputest.ErrInjected)
	assert.Equal(t, 0, dev.Frames)
}

func TestReleaseStopsRendering(t *testing.T) {
	dev, r := startRenderer(t)
	r.Release()
	assert.True(t, dev.DepthTextures[0].Released)
	assert.ErrorIs(t, r.RenderFrame(), renderer.ErrNotReady)
}

func TestRenderFrameBeforeStart(t *testing.T) {
	r := renderer.NewRenderer(func() (gpu.Backend, error) { return gputest.NewDevice(), nil })
	assert.ErrorIs(t, r.RenderFrame(), renderer.ErrNotReady)
	assert.Equal(t, renderer.StateCreated, r.State())
	assert.Nil(t, r.Camera())
}
