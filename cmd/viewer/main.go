// Command viewer opens a window and renders a triangle, a cube or one or more glTF binary files
// with an arcball camera: left drag rotates, right drag pans, the wheel zooms and R resets.
//
//	viewer -scene gltf -config viewer.toml model.glb other.glb
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine"
	"github.com/Carmen-Shannon/oxy-scene/engine/backend"
	"github.com/Carmen-Shannon/oxy-scene/engine/config"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	sceneName := flag.String("scene", "cube", "scene to show: triangle, cube or gltf")
	workers := flag.Int("workers", 4, "goroutines used to parse glTF files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file.glb ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			common.LogFatal("%v", err)
		}
	}
	if err := common.SetLogLevel(cfg.Log.Level); err != nil {
		common.LogFatal("%v", err)
	}

	build, ok := scenes[*sceneName]
	if !ok {
		common.LogFatal("unknown scene %q", *sceneName)
	}
	opts := sceneOptions{paths: flag.Args(), workers: *workers}

	win, err := window.NewWindow(cfg.WindowOptions()...)
	if err != nil {
		common.LogFatal("%v", err)
	}

	eng := engine.NewEngine(win,
		func() (gpu.Backend, error) {
			return backend.NewWGPUBackend(win.SurfaceDescriptor(), cfg.BackendOptions()...), nil
		},
		engine.WithProfiling(cfg.Renderer.Profiling),
		engine.WithRendererOptions(cfg.RendererOptions()...),
	)

	if err := eng.Renderer().OnReady(func(r renderer.Renderer) error {
		return build(r, opts)
	}); err != nil {
		common.LogFatal("%v", err)
	}

	if err := eng.Run(); err != nil {
		common.LogFatal("%v", err)
	}
}
