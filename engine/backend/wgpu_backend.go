// Package backend implements the gpu device capability on top of wgpu-native through
// cogentcore/webgpu, presenting to a GLFW window surface.
package backend

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var ErrFrameInProgress = errors.New("previous frame surface not yet presented")

type wgpuBackend struct {
	mu     sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	alphaMode            wgpu.CompositeAlphaMode
	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool

	// Frame state for the single render pass of a frame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ gpu.Backend = &wgpuBackend{}

// NewWGPUBackend requests an adapter and device compatible with the surface described by
// surfaceDescriptor. Like the wgpu requests it wraps, it panics when no adapter or device
// is available; the renderer converts that panic into a startup error.
// The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, from the window
//   - options: functional options
//
// Returns:
//   - gpu.Backend: the device and surface
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...WGPUBackendBuilderOption) gpu.Backend {
	runtime.LockOSThread()
	b := &wgpuBackend{
		presentMode: wgpu.PresentModeImmediate,
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]
	common.LogInfo("wgpu device ready, surface format %v", b.surfaceFormat)
	return b
}

func (b *wgpuBackend) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	return nil
}

func (b *wgpuBackend) PreferredFormat() gpu.TextureFormat {
	return fromTextureFormat(b.surfaceFormat)
}

func (b *wgpuBackend) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		buf *wgpu.Buffer
		err error
	)
	if desc.MappedAtCreation && len(desc.Contents) > 0 {
		contents := desc.Contents
		if uint64(len(contents)) < desc.Size {
			contents = append(append([]byte(nil), contents...), make([]byte, desc.Size-uint64(len(contents)))...)
		}
		buf, err = b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    desc.Label,
			Contents: contents,
			Usage:    toBufferUsage(desc.Usage),
		})
	} else {
		buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: desc.Label,
			Size:  desc.Size,
			Usage: toBufferUsage(desc.Usage),
		})
	}
	if err != nil {
		return nil, err
	}
	return &buffer{buf: buf, label: desc.Label, size: desc.Size, usage: desc.Usage}, nil
}

func (b *wgpuBackend) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	wb, ok := buf.(*buffer)
	if !ok {
		return fmt.Errorf("write buffer %T: %w", buf, ErrForeignHandle)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.WriteBuffer(wb.buf, offset, data)
}

func (b *wgpuBackend) CreateBindGroupLayout(label string, entries []gpu.BindGroupLayoutEntry) (gpu.BindGroupLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wentries := make([]wgpu.BindGroupLayoutEntry, len(entries))
	for i, e := range entries {
		wentries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toShaderStage(e.Visibility),
		}
		wentries[i].Buffer.Type = wgpu.BufferBindingTypeUniform
	}
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: wentries,
	})
	if err != nil {
		return nil, err
	}
	return &bindGroupLayout{layout: layout}, nil
}

func (b *wgpuBackend) CreateBindGroup(label string, layout gpu.BindGroupLayout, entries []gpu.BindGroupEntry) (gpu.BindGroup, error) {
	wl, ok := layout.(*bindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("bind group %s layout: %w", label, ErrForeignHandle)
	}
	wentries := make([]wgpu.BindGroupEntry, len(entries))
	for i, e := range entries {
		wb, ok := e.Buffer.(*buffer)
		if !ok {
			return nil, fmt.Errorf("bind group %s entry %d: %w", label, e.Binding, ErrForeignHandle)
		}
		wentries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  wb.buf,
			Offset:  e.Offset,
			Size:    e.Size,
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  wl.layout,
		Entries: wentries,
	})
	if err != nil {
		return nil, err
	}
	return &bindGroup{group: group}, nil
}

func (b *wgpuBackend) CreateShaderModule(label, code string) (gpu.ShaderModule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	})
	if err != nil {
		return nil, err
	}
	return &shaderModule{module: module, label: label}, nil
}

func (b *wgpuBackend) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	sm, ok := desc.Module.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("pipeline %s shader: %w", desc.Label, ErrForeignHandle)
	}
	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		wl, ok := l.(*bindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("pipeline %s group %d: %w", desc.Label, i, ErrForeignHandle)
		}
		layouts[i] = wl.layout
	}
	buffers, err := toVertexBufferLayouts(desc.Buffers)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Label, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}

	colorFormat := toTextureFormat(desc.ColorFormat)
	if colorFormat == wgpu.TextureFormatUndefined {
		colorFormat = b.surfaceFormat
	}
	var depthStencil *wgpu.DepthStencilState
	if desc.DepthFormat != gpu.TextureFormatUndefined {
		depthStencil = &wgpu.DepthStencilState{
			Format:            toTextureFormat(desc.DepthFormat),
			DepthWriteEnabled: desc.DepthWriteEnabled,
			DepthCompare:      toCompareFunction(desc.DepthCompare),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     sm.module,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     sm.module,
			EntryPoint: desc.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:         toTopology(desc.Topology),
			StripIndexFormat: toIndexFormat(desc.StripIndexFormat),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		pipelineLayout.Release()
		return nil, err
	}
	return &renderPipeline{pipeline: created, layout: pipelineLayout, label: desc.Label}, nil
}

func (b *wgpuBackend) CreateDepthTexture(label string, width, height int, format gpu.TextureFormat) (gpu.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toTextureFormat(format),
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create depth texture view: %w", err)
	}
	return &textureView{texture: tex, view: view}, nil
}

func (b *wgpuBackend) BeginFrame(depth gpu.TextureView, clear gpu.Color) (gpu.RenderPass, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return nil, ErrFrameInProgress
	}
	dv, ok := depth.(*textureView)
	if !ok {
		return nil, fmt.Errorf("depth attachment: %w", ErrForeignHandle)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            dv.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return &renderPass{pass: pass}, nil
}

func (b *wgpuBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil {
		return nil
	}

	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	return nil
}

func (b *wgpuBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
