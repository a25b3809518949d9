package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/resource"
)

const (
	// PositionSlot is the vertex attribute carrying glTF positions.
	PositionSlot = "Position"
	// WorldPositionSlot is the vertex output the normal material derives normals from.
	WorldPositionSlot = "world_pos"
	// TransformSlot is the dedicated uniform holding the node's world transform.
	TransformSlot = "transform"
	// TransformGroup is the bind group index of TransformSlot.
	TransformGroup = 1

	// MeshLabel and MaterialLabel are the component labels used on loaded actors.
	MeshLabel     = "mesh"
	MaterialLabel = "material"
)

// MaterialFactory creates the material attached to a loaded actor.
//
// Parameters:
//   - name: the actor name
//
// Returns:
//   - *components.Material: the material, or nil to leave the actor without one
type MaterialFactory func(name string) *components.Material

// primitiveData is the CPU side of one mesh node primitive, ready for upload.
type primitiveData struct {
	name      string
	positions []float32
	indices   []uint32
	topology  gpu.PrimitiveTopology
	transform common.Mat4
}

// loader is the implementation of the Loader interface.
type loader struct {
	module          gpu.ResourceModule
	materialFactory MaterialFactory
	workers         int
}

// Loader turns GLB files into actors. Parsing happens off the GPU; each mesh node primitive
// becomes one actor carrying a MeshRenderer and, when a MaterialFactory is set, a material.
type Loader interface {
	// LoadBytes parses an in-memory GLB file and uploads its default scene.
	//
	// Parameters:
	//   - name: the model name, used as the actor name prefix
	//   - data: the GLB file contents
	//
	// Returns:
	//   - []actor.Actor: one actor per mesh node primitive, in scene order
	//   - error: a parse, validation or upload error
	LoadBytes(name string, data []byte) ([]actor.Actor, error)

	// Load reads and uploads a GLB file. The model name is the file name without extension.
	//
	// Parameters:
	//   - path: the file path
	//
	// Returns:
	//   - []actor.Actor: one actor per mesh node primitive
	//   - error: a read, parse or upload error
	Load(path string) ([]actor.Actor, error)

	// LoadAll reads and parses every file in parallel on a worker pool, then uploads them in
	// argument order on the calling goroutine. Nothing is uploaded if any file fails to parse.
	//
	// Parameters:
	//   - paths: the file paths
	//
	// Returns:
	//   - []actor.Actor: the actors of every file, concatenated in argument order
	//   - error: every parse error joined, or the first upload error
	LoadAll(paths ...string) ([]actor.Actor, error)
}

var _ Loader = &loader{}

// NewLoader creates a Loader uploading through module.
//
// Parameters:
//   - module: the resource module that allocates mesh buffers
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(module gpu.ResourceModule, options ...LoaderBuilderOption) Loader {
	l := &loader{
		module:  module,
		workers: 4,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadBytes(name string, data []byte) ([]actor.Actor, error) {
	prims, err := extract(name, data)
	if err != nil {
		return nil, err
	}
	return l.upload(name, prims)
}

func (l *loader) Load(path string) ([]actor.Actor, error) {
	name, prims, err := readAndExtract(path)
	if err != nil {
		return nil, err
	}
	return l.upload(name, prims)
}

func (l *loader) LoadAll(paths ...string) ([]actor.Actor, error) {
	type parsed struct {
		name  string
		prims []primitiveData
		err   error
	}
	results := make([]parsed, len(paths))

	// pool.Wait() tracks activeWorkers, which the workers never report, so completion is tracked
	// with a WaitGroup.
	workers := min(l.workers, max(len(paths), 1))
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	defer stopPool(pool, workers)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				name, prims, err := readAndExtract(p)
				results[idx] = parsed{name: name, prims: prims, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var actors []actor.Actor
	for _, r := range results {
		loaded, err := l.upload(r.name, r.prims)
		if err != nil {
			return nil, err
		}
		actors = append(actors, loaded...)
	}
	return actors, nil
}

// stopPool ends every worker goroutine of pool. Workers drop stop signals addressed to other
// workers, so each one is first handed a task that exits its goroutine.
func stopPool(pool worker.DynamicWorkerPool, workers int) {
	var retired sync.WaitGroup
	retired.Add(workers)
	for i := range workers {
		pool.SubmitTask(worker.Task{
			ID: -1 - i,
			Do: func() (any, error) {
				retired.Done()
				runtime.Goexit()
				return nil, nil
			},
		})
	}
	retired.Wait()
	pool.Stop()
}

func readAndExtract(path string) (string, []primitiveData, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := os.ReadFile(path)
	if err != nil {
		return name, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prims, err := extract(name, data)
	if err != nil {
		return name, nil, fmt.Errorf("%s: %w", path, err)
	}
	return name, prims, nil
}

// extract parses a GLB file and reads every primitive of every mesh node in the default scene.
func extract(name string, data []byte) ([]primitiveData, error) {
	doc, err := ParseGLB(data)
	if err != nil {
		return nil, err
	}
	nodes, err := FlattenScene(doc)
	if err != nil {
		return nil, err
	}

	var prims []primitiveData
	for _, node := range nodes {
		mesh := doc.Meshes[node.Mesh]
		for pi, prim := range mesh.Primitives {
			positions, err := doc.ReadVec3Accessor(prim.Attributes[attributePosition])
			if err != nil {
				return nil, fmt.Errorf("node %s primitive %d positions: %w", node.Name, pi, err)
			}
			indices, err := doc.ReadIndicesAccessor(*prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("node %s primitive %d indices: %w", node.Name, pi, err)
			}

			topology := gpu.PrimitiveTopologyTriangleList
			if prim.ModeOrDefault() == primitiveModeTriangleStrip {
				topology = gpu.PrimitiveTopologyTriangleStrip
			}

			primName := fmt.Sprintf("%s/%s", name, node.Name)
			if len(mesh.Primitives) > 1 {
				primName = fmt.Sprintf("%s/%d", primName, pi)
			}
			prims = append(prims, primitiveData{
				name:      primName,
				positions: positions,
				indices:   indices,
				topology:  topology,
				transform: node.Transform,
			})
		}
	}
	common.LogDebug("parsed %s: %d mesh nodes, %d primitives", name, len(nodes), len(prims))
	return prims, nil
}

// upload creates the GPU resources and actors for parsed primitives. It must run on the render
// goroutine.
func (l *loader) upload(name string, prims []primitiveData) ([]actor.Actor, error) {
	actors := make([]actor.Actor, 0, len(prims))
	for _, p := range prims {
		res, err := resource.New(l.module, gpu.ResourceData{
			Type:        gpu.ResourceTypeTriangles,
			Name:        p.name,
			Data:        p.positions,
			ShaderSlots: primitiveSlots(p.transform),
			VertexCount: len(p.positions) / 3,
			Indices:     p.indices,
			Topology:    p.topology,
		})
		if err != nil {
			return nil, err
		}

		a := actor.NewActor(actor.WithName(p.name))
		if err := a.AddComponent(MeshLabel, components.NewMeshRenderer(l.module, res)); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		if l.materialFactory != nil {
			if mat := l.materialFactory(p.name); mat != nil {
				if err := a.AddComponent(MaterialLabel, mat); err != nil {
					return nil, fmt.Errorf("%s: %w", p.name, err)
				}
			}
		}
		actors = append(actors, a)
	}
	common.LogInfo("loaded %s: %d actors", name, len(actors))
	return actors, nil
}

// primitiveSlots returns the slots of a glTF primitive: vec3 positions at location 0, the
// world_pos output at location 1 and the node transform uniform at group 1.
func primitiveSlots(transform common.Mat4) []gpu.ShaderSlot {
	return []gpu.ShaderSlot{
		{Name: PositionSlot, Type: gpu.SlotTypePosition, Position: 0, Size: 3},
		{Name: WorldPositionSlot, Type: gpu.SlotTypePositionOut, Position: 1, Size: 3},
		{
			Name:            TransformSlot,
			Type:            gpu.SlotTypeBinding,
			Position:        TransformGroup,
			Binding:         0,
			Size:            16,
			CreateNewBuffer: true,
			Data:            transform[:],
		},
	}
}
