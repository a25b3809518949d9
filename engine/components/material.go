package components

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/shader"
)

// SimpleShader colors fragments by their object-space position. It expects Position and Color
// vec4 slots and the view uniform at group 0.
//
//go:embed assets/simple.wgsl
var SimpleShader string

// GLTFNormalShader shades by the screen-space derivative normal. It expects a vec3 position slot,
// a world_pos output slot, the view uniform at group 0 and the node transform at group 1.
//
//go:embed assets/gltf_normal.wgsl
var GLTFNormalShader string

// Color is an 8-bit RGB material color.
type Color struct {
	R, G, B uint8
}

// Material compiles a shader body against the slots of the sibling mesh.
// It provides "material" and depends on "mesh".
type Material struct {
	*actor.BaseComponent

	cache  shader.Cache
	name   string
	color  Color
	code   string
	module gpu.ShaderModule
}

var (
	_ actor.Component      = &Material{}
	_ gpu.PipelineMaterial = &Material{}
)

// NewMaterial creates a material compiling through cache. Without options it is named "Material",
// colored (55, 22, 111) and uses SimpleShader.
//
// Parameters:
//   - cache: the shader cache
//   - options: functional options
//
// Returns:
//   - *Material: the component
func NewMaterial(cache shader.Cache, options ...MaterialBuilderOption) *Material {
	m := &Material{
		cache: cache,
		name:  "Material",
		color: Color{R: 55, G: 22, B: 111},
		code:  SimpleShader,
	}
	for _, opt := range options {
		opt(m)
	}
	m.BaseComponent = actor.NewBaseComponent(m.name, m.onInit, CapabilityMesh)
	return m
}

// NewSimpleMaterial creates a material shading with SimpleShader.
func NewSimpleMaterial(cache shader.Cache, options ...MaterialBuilderOption) *Material {
	defaults := []MaterialBuilderOption{WithName("SimpleMaterial"), WithShaderCode(SimpleShader)}
	return NewMaterial(cache, append(defaults, options...)...)
}

// NewGLTFNormalMaterial creates a material shading glTF meshes with GLTFNormalShader.
func NewGLTFNormalMaterial(cache shader.Cache, options ...MaterialBuilderOption) *Material {
	defaults := []MaterialBuilderOption{WithName("GLTFNormalMaterial"), WithShaderCode(GLTFNormalShader)}
	return NewMaterial(cache, append(defaults, options...)...)
}

func (m *Material) Name() string {
	return m.name
}

func (m *Material) Provides() []actor.Capability {
	return []actor.Capability{CapabilityMaterial}
}

// Color returns the material color.
func (m *Material) Color() Color {
	return m.color
}

// ShaderCode returns the shader body, without the generated header.
func (m *Material) ShaderCode() string {
	return m.code
}

// ShaderModule returns the compiled module.
//
// Returns:
//   - gpu.ShaderModule: the module
//   - error: ErrNotInitialized before the mesh resolves
func (m *Material) ShaderModule() (gpu.ShaderModule, error) {
	if m.module == nil {
		return nil, fmt.Errorf("material %s shader: %w", m.name, actor.ErrNotInitialized)
	}
	return m.module, nil
}

func (m *Material) onInit() error {
	a, err := m.Actor()
	if err != nil {
		return err
	}
	mesh, err := actor.Get[*MeshRenderer](a, CapabilityMesh)
	if err != nil {
		return err
	}
	module, err := m.cache.CreateShaderModule(mesh.Resource(), m.code)
	if err != nil {
		return err
	}
	m.module = module
	return nil
}
