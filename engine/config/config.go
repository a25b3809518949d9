package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/backend"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidSize        = errors.New("window size must be positive")
	ErrInvalidPresentMode = errors.New("present_mode must be \"vsync\" or \"uncapped\"")
	ErrInvalidClearColor  = errors.New("clear_color components must be within [0, 1]")
	ErrInvalidCamera      = errors.New("invalid camera settings")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// Config is the viewer configuration read from a TOML file.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig is the [window] section.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig is the [renderer] section.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`
	// ClearColor is RGBA in [0, 1].
	ClearColor [4]float64 `toml:"clear_color"`
	// Profiling logs frame statistics once per second.
	Profiling bool `toml:"profiling"`
	// ForceSoftware requests the fallback (CPU) adapter.
	ForceSoftware bool `toml:"force_software"`
}

// CameraConfig is the [camera] section.
type CameraConfig struct {
	Eye        [3]float32 `toml:"eye"`
	Center     [3]float32 `toml:"center"`
	Up         [3]float32 `toml:"up"`
	ZoomSpeed  float32    `toml:"zoom_speed"`
	FovDegrees float32    `toml:"fov_degrees"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal.
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-scene",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "uncapped",
			ClearColor:  [4]float64{0.05, 0.05, 0.08, 1},
		},
		Camera: CameraConfig{
			Eye:        [3]float32{0, 0, 5},
			Center:     [3]float32{0, 0, 0},
			Up:         [3]float32{0, 1, 0},
			ZoomSpeed:  0.5,
			FovDegrees: 50,
			Near:       0.1,
			Far:        100,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML file and overlays it onto Default. Keys missing from the file keep their
// default values; unknown keys are rejected.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over Default and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged, validated configuration
//   - error: a decode or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
//
// Returns:
//   - error: the first invalid setting, wrapping one of the package errors
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Window.Width, c.Window.Height)
	}

	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPresentMode, c.Renderer.PresentMode)
	}
	for _, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidClearColor, c.Renderer.ClearColor)
		}
	}

	cam := c.Camera
	switch {
	case cam.ZoomSpeed <= 0:
		return fmt.Errorf("%w: zoom_speed %v must be positive", ErrInvalidCamera, cam.ZoomSpeed)
	case cam.FovDegrees <= 0 || cam.FovDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees %v must be within (0, 180)", ErrInvalidCamera, cam.FovDegrees)
	case cam.Near <= 0 || cam.Far <= cam.Near:
		return fmt.Errorf("%w: need 0 < near < far, got near %v far %v", ErrInvalidCamera, cam.Near, cam.Far)
	case cam.Eye == cam.Center:
		return fmt.Errorf("%w: eye and center coincide", ErrInvalidCamera)
	case cam.Up == [3]float32{}:
		return fmt.Errorf("%w: up is zero", ErrInvalidCamera)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// WindowOptions returns the window options for the [window] section.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// BackendOptions returns the wgpu backend options for the [renderer] section.
func (c Config) BackendOptions() []backend.WGPUBackendBuilderOption {
	return []backend.WGPUBackendBuilderOption{
		backend.WithPresentMode(backend.ParsePresentMode(c.Renderer.PresentMode)),
		backend.WithForceSoftwareRenderer(c.Renderer.ForceSoftware),
	}
}

// CameraOptions returns the camera options for the [camera] section.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithEye(c.Camera.Eye),
		camera.WithCenter(c.Camera.Center),
		camera.WithUp(c.Camera.Up),
		camera.WithZoomSpeed(c.Camera.ZoomSpeed),
		camera.WithFov(common.Radians(c.Camera.FovDegrees)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
	}
}

// RendererOptions returns the renderer options for the window size, clear color and camera.
// Profiling is wired by the engine, which owns the profiler.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithSize(c.Window.Width, c.Window.Height),
		renderer.WithClearColor(gpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithCameraOptions(c.CameraOptions()...),
	}
}
