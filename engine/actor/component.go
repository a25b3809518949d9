package actor

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
)

var (
	ErrActorNotSet     = errors.New("component is not attached to an actor")
	ErrAlreadyAttached = errors.New("component is already attached to an actor")
	ErrNotInitialized  = errors.New("component is not initialized")
)

// Capability is a stable tag naming a behavior a component provides, such as "mesh".
type Capability string

// Component is a unit of behavior attached to exactly one Actor. A component declares the
// capabilities it provides and the sibling capabilities it needs before it may initialize.
type Component interface {
	// Name returns a human-readable name used in logs.
	Name() string

	// Provides returns the capabilities this component registers on its actor.
	Provides() []Capability

	// Dependencies returns the sibling capabilities required before initialization.
	Dependencies() []Capability

	// Attach sets the owning actor. It succeeds once; attaching the same actor again is a no-op.
	//
	// Parameters:
	//   - a: the owning actor
	//
	// Returns:
	//   - error: ErrAlreadyAttached if the component belongs to another actor
	Attach(a Actor) error

	// Actor returns the owning actor.
	//
	// Returns:
	//   - Actor: the owner
	//   - error: ErrActorNotSet before Attach
	Actor() (Actor, error)

	// CheckDependencies initializes the component the first time every dependency is present on
	// its actor. It is a no-op once initialized.
	//
	// Returns:
	//   - error: the wrapped init error, if the init hook failed
	CheckDependencies() error

	// Initialized reports whether the init hook has run successfully.
	Initialized() bool

	// Update runs once per frame against the active render pass.
	//
	// Parameters:
	//   - pass: the active render pass
	//
	// Returns:
	//   - error: if the component cannot record its commands
	Update(pass gpu.RenderPass) error
}

// BaseComponent implements dependency tracking and one-shot initialization. Concrete components
// embed it and supply Provides and Update.
type BaseComponent struct {
	name         string
	dependencies []Capability
	actor        Actor
	initialized  bool
	initRan      bool
	initErr      error
	onInit       func() error
}

// NewBaseComponent creates the shared component state.
//
// Parameters:
//   - name: the component name used in logs
//   - onInit: the one-shot init hook, run once every dependency resolves; may be nil
//   - dependencies: the required sibling capabilities
//
// Returns:
//   - *BaseComponent: the base state to embed
func NewBaseComponent(name string, onInit func() error, dependencies ...Capability) *BaseComponent {
	return &BaseComponent{
		name:         name,
		dependencies: append([]Capability(nil), dependencies...),
		onInit:       onInit,
	}
}

func (b *BaseComponent) Name() string {
	return b.name
}

// Provides returns no capabilities; concrete components override it.
func (b *BaseComponent) Provides() []Capability {
	return nil
}

func (b *BaseComponent) Dependencies() []Capability {
	return b.dependencies
}

// AddDependency declares another required capability. Dependencies are fixed once attached.
//
// Parameters:
//   - c: the required capability
//
// Returns:
//   - error: ErrAlreadyAttached after Attach
func (b *BaseComponent) AddDependency(c Capability) error {
	if b.actor != nil {
		return fmt.Errorf("%s: %w", b.name, ErrAlreadyAttached)
	}
	b.dependencies = append(b.dependencies, c)
	return nil
}

func (b *BaseComponent) Attach(a Actor) error {
	if a == nil {
		return ErrActorNotSet
	}
	if b.actor != nil {
		if b.actor == a {
			return nil
		}
		return fmt.Errorf("%s: %w", b.name, ErrAlreadyAttached)
	}
	b.actor = a
	return nil
}

func (b *BaseComponent) Actor() (Actor, error) {
	if b.actor == nil {
		return nil, fmt.Errorf("%s: %w", b.name, ErrActorNotSet)
	}
	return b.actor, nil
}

func (b *BaseComponent) Initialized() bool {
	return b.initialized
}

func (b *BaseComponent) CheckDependencies() error {
	if b.initialized {
		return nil
	}
	if b.initRan {
		return b.initErr
	}
	if b.actor == nil {
		return fmt.Errorf("%s: %w", b.name, ErrActorNotSet)
	}

	for _, dep := range b.dependencies {
		if !b.actor.HasCapability(dep) {
			common.LogWarn("not all dependencies met for %s, requires %s", b.name, dep)
			return nil
		}
		common.LogDebug("dependency met for %s: %s", b.name, dep)
	}

	common.LogDebug("all dependencies resolved, initializing %s", b.name)
	b.initRan = true
	if b.onInit != nil {
		if err := b.onInit(); err != nil {
			b.initErr = fmt.Errorf("failed to initialize %s: %w", b.name, err)
			return b.initErr
		}
	}
	b.initialized = true
	return nil
}

// Update is the default per-frame callback; it records nothing.
func (b *BaseComponent) Update(gpu.RenderPass) error {
	return nil
}

var _ Component = &BaseComponent{}
