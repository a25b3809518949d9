package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaterialFactory sets the function creating a material for every loaded actor.
//
// Parameters:
//   - factory: the material factory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the factory to a loader
func WithMaterialFactory(factory MaterialFactory) LoaderBuilderOption {
	return func(l *loader) {
		l.materialFactory = factory
	}
}

// WithWorkers sets the number of goroutines LoadAll parses files on. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}
