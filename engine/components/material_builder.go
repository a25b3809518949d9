package components

// MaterialBuilderOption is a functional option for configuring a Material during construction.
type MaterialBuilderOption func(*Material)

// WithName sets the material name. It also names the material's pipeline.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that sets the name
func WithName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.name = name
	}
}

// WithColor sets the material color.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - MaterialBuilderOption: a function that sets the color
func WithColor(c Color) MaterialBuilderOption {
	return func(m *Material) {
		m.color = c
	}
}

// WithShaderCode sets the WGSL body compiled after the generated slot header.
// The body must define vertexMain and fragmentMain.
//
// Parameters:
//   - code: the WGSL body
//
// Returns:
//   - MaterialBuilderOption: a function that sets the shader body
func WithShaderCode(code string) MaterialBuilderOption {
	return func(m *Material) {
		m.code = code
	}
}
