package gpu

// ResourceModuleBuilderOption is a functional option for configuring the resource module.
type ResourceModuleBuilderOption func(*resourceModule)

// WithEntryPoints sets the vertex and fragment entry points used by created pipelines.
// Defaults are "vertexMain" and "fragmentMain".
//
// Parameters:
//   - vertex: vertex stage entry point
//   - fragment: fragment stage entry point
//
// Returns:
//   - ResourceModuleBuilderOption: a function that sets the entry points
func WithEntryPoints(vertex, fragment string) ResourceModuleBuilderOption {
	return func(m *resourceModule) {
		m.vertexEntryPoint = vertex
		m.fragmentEntryPoint = fragment
	}
}

// WithDepthFormat sets the depth attachment format pipelines are built against.
//
// Parameters:
//   - format: a depth texture format
//
// Returns:
//   - ResourceModuleBuilderOption: a function that sets the depth format
func WithDepthFormat(format TextureFormat) ResourceModuleBuilderOption {
	return func(m *resourceModule) {
		m.depthFormat = format
	}
}

type pipelineConfig struct {
	topology         PrimitiveTopology
	stripIndexFormat IndexFormat
}

// PipelineOption configures a single CreateRenderPipeline call.
type PipelineOption func(*pipelineConfig)

// WithTopology selects the primitive topology. Triangle strips use stripFormat as the strip index format.
//
// Parameters:
//   - topology: the primitive topology
//   - stripFormat: index format for strip topologies; ignored otherwise
//
// Returns:
//   - PipelineOption: a function that sets the topology
func WithTopology(topology PrimitiveTopology, stripFormat IndexFormat) PipelineOption {
	return func(c *pipelineConfig) {
		c.topology = topology
		c.stripIndexFormat = stripFormat
	}
}
