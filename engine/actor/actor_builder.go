package actor

import "github.com/google/uuid"

// ActorBuilderOption is a functional option for configuring an Actor during construction.
type ActorBuilderOption func(*actor)

// WithName sets the actor name used in logs and errors.
//
// Parameters:
//   - name: the actor name
//
// Returns:
//   - ActorBuilderOption: a function that sets the name
func WithName(name string) ActorBuilderOption {
	return func(a *actor) {
		a.name = name
	}
}

// WithID sets the actor's identifier instead of generating one.
//
// Parameters:
//   - id: the identifier
//
// Returns:
//   - ActorBuilderOption: a function that sets the ID
func WithID(id uuid.UUID) ActorBuilderOption {
	return func(a *actor) {
		a.id = id
	}
}
