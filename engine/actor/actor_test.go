package actor_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu/gputest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	capMesh     actor.Capability = "mesh"
	capMaterial actor.Capability = "material"
	capCamera   actor.Capability = "camera"
)

type fakeComponent struct {
	*actor.BaseComponent
	provides  []actor.Capability
	inits     int
	initErr   error
	updates   *[]string
	updateErr error
}

func newFake(name string, provides []actor.Capability, deps ...actor.Capability) *fakeComponent {
	f := &fakeComponent{provides: provides}
	f.BaseComponent = actor.NewBaseComponent(name, f.onInit, deps...)
	return f
}

func (f *fakeComponent) onInit() error {
	f.inits++
	return f.initErr
}

func (f *fakeComponent) Provides() []actor.Capability {
	return f.provides
}

func (f *fakeComponent) Update(gpu.RenderPass) error {
	if f.updates != nil {
		*f.updates = append(*f.updates, f.Name())
	}
	return f.updateErr
}

func TestInitRunsOnceAfterAllDependenciesInAnyOrder(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {1, 2, 0}}
	for _, order := range orders {
		a := actor.NewActor()
		renderer := newFake("renderer", []actor.Capability{capMesh}, capMaterial, capCamera)
		material := newFake("material", []actor.Capability{capMaterial})
		camera := newFake("camera", []actor.Capability{capCamera})
		comps := []*fakeComponent{renderer, material, camera}
		labels := []string{"renderer", "material", "camera"}

		for step, i := range order {
			require.NoError(t, a.AddComponent(labels[i], comps[i]))
			if step < 2 {
				assert.Equal(t, 0, renderer.inits, "order %v step %d", order, step)
			}
		}
		assert.Equal(t, 1, renderer.inits, "order %v", order)
		assert.True(t, renderer.Initialized())
		assert.Equal(t, 1, material.inits)
		assert.Equal(t, 1, camera.inits)
	}
}

func TestStalledComponentInitializesOnSatisfyingAttachment(t *testing.T) {
	a := actor.NewActor(actor.WithName("node"))
	mesh := newFake("mesh", []actor.Capability{capMesh}, capMaterial)
	material := newFake("material", []actor.Capability{capMaterial}, capMesh)

	require.NoError(t, a.AddComponent("mesh", mesh))
	assert.False(t, mesh.Initialized())

	require.NoError(t, a.AddComponent("material", material))
	assert.True(t, mesh.Initialized())
	assert.True(t, material.Initialized())
	assert.Equal(t, 1, mesh.inits)

	require.NoError(t, a.AddComponent("extra", newFake("extra", nil)))
	assert.Equal(t, 1, mesh.inits)
	assert.Equal(t, 1, material.inits)
}

func TestAddComponentDuplicateLabel(t *testing.T) {
	a := actor.NewActor()
	require.NoError(t, a.AddComponent("x", newFake("one", nil)))

	err := a.AddComponent("x", newFake("two", nil))
	assert.ErrorIs(t, err, actor.ErrDuplicateLabel)
	assert.Len(t, a.Components(), 1)
}

func TestAddSameInstanceTwiceIsNoop(t *testing.T) {
	a := actor.NewActor()
	var calls []string
	c := newFake("c", []actor.Capability{capCamera})
	c.updates = &calls

	require.NoError(t, a.AddComponent("first", c))
	require.NoError(t, a.AddComponent("second", c))

	assert.Len(t, a.Components(), 1)
	label, ok := a.Label(c)
	assert.True(t, ok)
	assert.Equal(t, "first", label)

	require.NoError(t, a.Update(gputest.NewRenderPass(gputest.NewDevice())))
	assert.Equal(t, []string{"c"}, calls)
}

func TestComponentAttachesToOneActor(t *testing.T) {
	c := newFake("c", nil)
	require.NoError(t, actor.NewActor().AddComponent("c", c))

	err := actor.NewActor().AddComponent("c", c)
	assert.ErrorIs(t, err, actor.ErrAlreadyAttached)
	assert.ErrorIs(t, c.AddDependency(capMesh), actor.ErrAlreadyAttached)
}

func TestActorBeforeAttachFails(t *testing.T) {
	c := newFake("c", nil, capMesh)
	_, err := c.Actor()
	assert.ErrorIs(t, err, actor.ErrActorNotSet)
	assert.ErrorIs(t, c.CheckDependencies(), actor.ErrActorNotSet)

	require.NoError(t, c.AddDependency(capCamera))
	assert.Equal(t, []actor.Capability{capMesh, capCamera}, c.Dependencies())
}

func TestInitErrorIsReturnedAndNotRetried(t *testing.T) {
	a := actor.NewActor()
	boom := errors.New("boom")
	c := newFake("c", nil)
	c.initErr = boom

	err := a.AddComponent("c", c)
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Initialized())

	assert.ErrorIs(t, a.AddComponent("d", newFake("d", nil)), boom)
	assert.Equal(t, 1, c.inits)
}

func TestCapabilityLookup(t *testing.T) {
	a := actor.NewActor()
	first := newFake("first", []actor.Capability{capMesh})
	second := newFake("second", []actor.Capability{capMesh})
	require.NoError(t, a.AddComponent("first", first))
	require.NoError(t, a.AddComponent("second", second))

	got, err := actor.Get[*fakeComponent](a, capMesh)
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.True(t, a.HasCapability(capMesh))
	assert.False(t, a.HasCapability(capCamera))

	_, err = a.Component(capCamera)
	assert.ErrorIs(t, err, actor.ErrCapabilityNotFound)

	_, err = actor.Get[*actor.BaseComponent](a, capMesh)
	assert.ErrorIs(t, err, actor.ErrCapabilityType)
}

func TestUpdateRunsInRegistrationOrderAndStopsAtError(t *testing.T) {
	a := actor.NewActor()
	var calls []string
	boom := errors.New("draw failed")

	one := newFake("one", nil)
	two := newFake("two", nil)
	three := newFake("three", nil)
	for _, c := range []*fakeComponent{one, two, three} {
		c.updates = &calls
	}
	two.updateErr = boom

	require.NoError(t, a.AddComponent("one", one))
	a.OnUpdate(func(gpu.RenderPass) error {
		calls = append(calls, "raw")
		return nil
	})
	require.NoError(t, a.AddComponent("two", two))
	require.NoError(t, a.AddComponent("three", three))

	err := a.Update(gputest.NewRenderPass(gputest.NewDevice()))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"one", "raw", "two"}, calls)
}

func TestActorIdentity(t *testing.T) {
	id := uuid.New()
	a := actor.NewActor(actor.WithID(id))
	assert.Equal(t, id, a.ID())
	assert.Equal(t, id.String(), a.Name())

	b := actor.NewActor(actor.WithName("cube"))
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, "cube", b.Name())

	assert.ErrorIs(t, b.AddComponent("nil", nil), actor.ErrNilComponent)
}
