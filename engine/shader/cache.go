package shader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/cespare/xxhash/v2"
)

var ErrNilSource = errors.New("shader source resource is nil")

// SlotSource is what the cache needs from a resource: a name to cache under and the slots the
// header is generated from.
type SlotSource interface {
	Name() string
	Slots() []gpu.ShaderSlot
}

type cache struct {
	device gpu.Device

	byHash map[uint64]gpu.ShaderModule
	byName map[string]gpu.ShaderModule
}

// Cache compiles shader bodies against generated slot headers and deduplicates the results.
// It is not safe for concurrent use.
type Cache interface {
	// CreateShaderModule prepends the header generated from src's slots to body and compiles it.
	// Code identical to an earlier compilation returns the earlier handle without compiling again.
	// The module is cached under src's name.
	//
	// Parameters:
	//   - src: the resource whose slots define VertexInput and VertexOutput
	//   - body: the WGSL shader body
	//
	// Returns:
	//   - gpu.ShaderModule: the compiled (or deduplicated) module
	//   - error: ErrNilSource or the wrapped compilation error
	CreateShaderModule(src SlotSource, body string) (gpu.ShaderModule, error)

	// Module returns the module cached under name.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - gpu.ShaderModule: the module, or nil
	//   - bool: whether a module was cached under name
	Module(name string) (gpu.ShaderModule, bool)

	// Len returns the number of distinct compiled modules.
	Len() int
}

var _ Cache = &cache{}

// NewCache creates an empty shader cache compiling on device.
//
// Parameters:
//   - device: the device that compiles modules
//
// Returns:
//   - Cache: the cache
func NewCache(device gpu.Device) Cache {
	return &cache{
		device: device,
		byHash: make(map[uint64]gpu.ShaderModule),
		byName: make(map[string]gpu.ShaderModule),
	}
}

func (c *cache) CreateShaderModule(src SlotSource, body string) (gpu.ShaderModule, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	code := GenerateHeader(src.Slots()) + body
	sum := xxhash.Sum64String(code)

	if module, ok := c.byHash[sum]; ok {
		c.byName[src.Name()] = module
		common.LogDebug("shader %s reuses module %s", src.Name(), module.Label())
		return module, nil
	}

	module, err := c.device.CreateShaderModule(src.Name(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %s: %w", src.Name(), err)
	}
	c.byHash[sum] = module
	c.byName[src.Name()] = module
	common.LogDebug("compiled shader %s (%d bytes)", src.Name(), len(code))
	return module, nil
}

func (c *cache) Module(name string) (gpu.ShaderModule, bool) {
	m, ok := c.byName[name]
	return m, ok
}

func (c *cache) Len() int {
	return len(c.byHash)
}
