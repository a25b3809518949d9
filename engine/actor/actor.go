package actor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/google/uuid"
)

var (
	ErrDuplicateLabel     = errors.New("component label already in use")
	ErrNilComponent       = errors.New("component is nil")
	ErrCapabilityNotFound = errors.New("no component provides capability")
	ErrCapabilityType     = errors.New("capability provider has unexpected type")
)

// UpdateFunc is a per-frame callback run against the active render pass.
type UpdateFunc func(pass gpu.RenderPass) error

type entry struct {
	label     string
	component Component
}

type actor struct {
	id   uuid.UUID
	name string

	components   []entry
	labels       map[string]Component
	capabilities map[Capability]Component
	updates      []UpdateFunc
}

// Actor is a named set of uniquely labelled components. Adding a component is what drives
// dependency resolution for every component the actor holds.
type Actor interface {
	// ID returns the actor's unique identifier.
	ID() uuid.UUID

	// Name returns the actor's name.
	Name() string

	// AddComponent attaches c under label, registers its per-frame update and rechecks the
	// dependencies of every attached component in attachment order. Adding an instance that is
	// already attached logs a warning and does nothing.
	//
	// Parameters:
	//   - label: a label unique within this actor
	//   - c: the component
	//
	// Returns:
	//   - error: ErrDuplicateLabel, ErrNilComponent, an attach error or the first init error
	AddComponent(label string, c Component) error

	// Register enlists c.Update in the per-frame callbacks.
	//
	// Parameters:
	//   - c: the component to update every frame
	Register(c Component)

	// OnUpdate appends a raw per-frame callback.
	//
	// Parameters:
	//   - fn: the callback
	OnUpdate(fn UpdateFunc)

	// Component returns the first attached component providing capability.
	//
	// Parameters:
	//   - capability: the capability tag
	//
	// Returns:
	//   - Component: the provider
	//   - error: ErrCapabilityNotFound if nothing provides it
	Component(capability Capability) (Component, error)

	// HasCapability reports whether an attached component provides capability.
	HasCapability(capability Capability) bool

	// Components returns the attached components in attachment order.
	Components() []Component

	// Label returns the label c was attached under.
	//
	// Returns:
	//   - string: the label
	//   - bool: whether c is attached to this actor
	Label(c Component) (string, bool)

	// Update runs every per-frame callback in registration order, stopping at the first error.
	//
	// Parameters:
	//   - pass: the active render pass
	//
	// Returns:
	//   - error: the first callback error
	Update(pass gpu.RenderPass) error
}

var _ Actor = &actor{}

// NewActor creates an empty actor. Without WithID a random identifier is assigned.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Actor: the actor
func NewActor(options ...ActorBuilderOption) Actor {
	a := &actor{
		labels:       make(map[string]Component),
		capabilities: make(map[Capability]Component),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.id == uuid.Nil {
		a.id = uuid.New()
	}
	if a.name == "" {
		a.name = a.id.String()
	}
	return a
}

func (a *actor) ID() uuid.UUID {
	return a.id
}

func (a *actor) Name() string {
	return a.name
}

func (a *actor) AddComponent(label string, c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if _, ok := a.labels[label]; ok {
		return fmt.Errorf("actor %s label %q: %w", a.name, label, ErrDuplicateLabel)
	}
	if existing, ok := a.Label(c); ok {
		common.LogWarn("component %s is already attached to actor %s as %q", c.Name(), a.name, existing)
		return nil
	}

	if err := c.Attach(a); err != nil {
		return err
	}
	a.components = append(a.components, entry{label: label, component: c})
	a.labels[label] = c
	for _, capability := range c.Provides() {
		if _, taken := a.capabilities[capability]; !taken {
			a.capabilities[capability] = c
		}
	}
	a.Register(c)

	var first error
	for _, e := range a.components {
		if err := e.component.CheckDependencies(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *actor) Register(c Component) {
	a.OnUpdate(c.Update)
}

func (a *actor) OnUpdate(fn UpdateFunc) {
	a.updates = append(a.updates, fn)
}

func (a *actor) Component(capability Capability) (Component, error) {
	c, ok := a.capabilities[capability]
	if !ok {
		return nil, fmt.Errorf("actor %s %q: %w", a.name, capability, ErrCapabilityNotFound)
	}
	return c, nil
}

func (a *actor) HasCapability(capability Capability) bool {
	_, ok := a.capabilities[capability]
	return ok
}

func (a *actor) Components() []Component {
	out := make([]Component, len(a.components))
	for i, e := range a.components {
		out[i] = e.component
	}
	return out
}

func (a *actor) Label(c Component) (string, bool) {
	for _, e := range a.components {
		if e.component == c {
			return e.label, true
		}
	}
	return "", false
}

func (a *actor) Update(pass gpu.RenderPass) error {
	for _, fn := range a.updates {
		if err := fn(pass); err != nil {
			return fmt.Errorf("actor %s: %w", a.name, err)
		}
	}
	return nil
}

// Get returns the provider of capability on a as a T.
//
// Parameters:
//   - a: the actor
//   - capability: the capability tag
//
// Returns:
//   - T: the typed provider
//   - error: ErrCapabilityNotFound or ErrCapabilityType
func Get[T any](a Actor, capability Capability) (T, error) {
	var zero T
	c, err := a.Component(capability)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%q provided by %s (%T): %w", capability, c.Name(), c, ErrCapabilityType)
	}
	return typed, nil
}
