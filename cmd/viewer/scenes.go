package main

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/loader"
	"github.com/Carmen-Shannon/oxy-scene/engine/primitives"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
)

var errNoModels = errors.New("the gltf scene needs at least one .glb path")

type sceneOptions struct {
	paths   []string
	workers int
}

// sceneBuilder populates a ready renderer.
type sceneBuilder func(r renderer.Renderer, opts sceneOptions) error

var scenes = map[string]sceneBuilder{
	"triangle": buildTriangle,
	"cube":     buildCube,
	"gltf":     buildGLTF,
}

func buildTriangle(r renderer.Renderer, _ sceneOptions) error {
	mesh, err := primitives.NewPlane(r.Resources())
	if err != nil {
		return err
	}
	return addSimpleActor(r, "Triangle", mesh)
}

func buildCube(r renderer.Renderer, _ sceneOptions) error {
	mesh, err := primitives.NewCube(r.Resources())
	if err != nil {
		return err
	}
	return addSimpleActor(r, "Cube", mesh)
}

func addSimpleActor(r renderer.Renderer, name string, mesh *components.MeshRenderer) error {
	a := actor.NewActor(actor.WithName(name))
	if err := a.AddComponent(loader.MeshLabel, mesh); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := a.AddComponent(loader.MaterialLabel, components.NewSimpleMaterial(r.Shaders())); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.AddActor(a)
	return nil
}

func buildGLTF(r renderer.Renderer, opts sceneOptions) error {
	if len(opts.paths) == 0 {
		return errNoModels
	}
	l := loader.NewLoader(r.Resources(),
		loader.WithWorkers(opts.workers),
		loader.WithMaterialFactory(func(string) *components.Material {
			return components.NewGLTFNormalMaterial(r.Shaders())
		}),
	)
	actors, err := l.LoadAll(opts.paths...)
	if err != nil {
		return err
	}
	for _, a := range actors {
		r.AddActor(a)
	}
	common.LogInfo("scene ready: %d actors from %d files", len(actors), len(opts.paths))
	return nil
}
