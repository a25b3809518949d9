// Package gputest provides an in-memory gpu.Backend that records every call, for tests.
package gputest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

// Buffer is a recorded device buffer.
type Buffer struct {
	Desc     gpu.BufferDescriptor
	Contents []byte
	Released bool
}

func (b *Buffer) Label() string          { return b.Desc.Label }
func (b *Buffer) Size() uint64           { return b.Desc.Size }
func (b *Buffer) Usage() gpu.BufferUsage { return b.Desc.Usage }
func (b *Buffer) Release()               { b.Released = true }

// BindGroupLayout is a recorded layout.
type BindGroupLayout struct {
	Label   string
	Entries []gpu.BindGroupLayoutEntry
}

func (l *BindGroupLayout) Release() {}

// BindGroup is a recorded bind group.
type BindGroup struct {
	Label   string
	Layout  gpu.BindGroupLayout
	Entries []gpu.BindGroupEntry
}

func (g *BindGroup) Release() {}

// ShaderModule is a recorded shader module.
type ShaderModule struct {
	Name string
	Code string
}

func (s *ShaderModule) Label() string { return s.Name }
func (s *ShaderModule) Release()      {}

// RenderPipeline is a recorded pipeline.
type RenderPipeline struct {
	Desc gpu.RenderPipelineDescriptor
}

func (p *RenderPipeline) Label() string { return p.Desc.Label }
func (p *RenderPipeline) Release()      {}

// TextureView is a recorded depth texture view.
type TextureView struct {
	Label         string
	Width, Height int
	Format        gpu.TextureFormat
	Released      bool
}

func (v *TextureView) Release() { v.Released = true }

// Call is one entry of the ordered call log.
type Call struct {
	Op   string
	Args []any
}

// Device is a recording gpu.Backend. The zero value is not usable; use NewDevice.
type Device struct {
	mu sync.Mutex

	Buffers       []*Buffer
	Layouts       []*BindGroupLayout
	BindGroups    []*BindGroup
	Shaders       []*ShaderModule
	Pipelines     []*RenderPipeline
	DepthTextures []*TextureView
	Writes        []Call
	Calls         []Call

	Width, Height int
	Frames        int

	// FailShaders makes CreateShaderModule fail for code containing any of these substrings.
	FailShaders []string
	// FailBeginFrame makes BeginFrame fail.
	FailBeginFrame bool
	// FailConfigure makes Configure fail.
	FailConfigure bool

	// Released is set by Release.
	Released bool

	pass *RenderPass
}

var _ gpu.Backend = &Device{}

// NewDevice creates an empty recording device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := &Buffer{Desc: desc, Contents: make([]byte, desc.Size)}
	if desc.MappedAtCreation {
		copy(b.Contents, desc.Contents)
	}
	d.Buffers = append(d.Buffers, b)
	d.record("CreateBuffer", desc.Label)
	return b, nil
}

func (d *Device) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("foreign buffer %T", buf)
	}
	if offset+uint64(len(data)) > uint64(len(b.Contents)) {
		return fmt.Errorf("write of %d bytes at %d overflows buffer %s", len(data), offset, b.Label())
	}
	copy(b.Contents[offset:], data)
	call := Call{Op: "WriteBuffer", Args: []any{b.Label(), offset, len(data)}}
	d.Writes = append(d.Writes, call)
	d.Calls = append(d.Calls, call)
	return nil
}

func (d *Device) CreateBindGroupLayout(label string, entries []gpu.BindGroupLayoutEntry) (gpu.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &BindGroupLayout{Label: label, Entries: entries}
	d.Layouts = append(d.Layouts, l)
	d.record("CreateBindGroupLayout", label)
	return l, nil
}

func (d *Device) CreateBindGroup(label string, layout gpu.BindGroupLayout, entries []gpu.BindGroupEntry) (gpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g := &BindGroup{Label: label, Layout: layout, Entries: entries}
	d.BindGroups = append(d.BindGroups, g)
	d.record("CreateBindGroup", label)
	return g, nil
}

func (d *Device) CreateShaderModule(label, code string) (gpu.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, bad := range d.FailShaders {
		if bad != "" && strings.Contains(code, bad) {
			return nil, fmt.Errorf("shader %s: %w", label, ErrInjected)
		}
	}
	s := &ShaderModule{Name: label, Code: code}
	d.Shaders = append(d.Shaders, s)
	d.record("CreateShaderModule", label)
	return s, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &RenderPipeline{Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	d.record("CreateRenderPipeline", desc.Label)
	return p, nil
}

func (d *Device) CreateDepthTexture(label string, width, height int, format gpu.TextureFormat) (gpu.TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := &TextureView{Label: label, Width: width, Height: height, Format: format}
	d.DepthTextures = append(d.DepthTextures, v)
	d.record("CreateDepthTexture", width, height)
	return v, nil
}

func (d *Device) PreferredFormat() gpu.TextureFormat {
	return gpu.TextureFormatBGRA8Unorm
}

func (d *Device) Configure(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailConfigure {
		return ErrInjected
	}
	d.Width, d.Height = width, height
	d.record("Configure", width, height)
	return nil
}

func (d *Device) BeginFrame(depth gpu.TextureView, clear gpu.Color) (gpu.RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailBeginFrame {
		return nil, ErrInjected
	}
	d.pass = &RenderPass{device: d, Depth: depth, Clear: clear}
	d.record("BeginFrame")
	return d.pass, nil
}

func (d *Device) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pass = nil
	d.record("EndFrame")
	return nil
}

func (d *Device) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Frames++
	d.record("Present")
}

func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Released = true
}

// Ops returns the recorded operation names in call order.
func (d *Device) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears the call log.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = nil
	d.Writes = nil
}

// BufferByLabel returns the first buffer created with label.
func (d *Device) BufferByLabel(label string) *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.Buffers {
		if b.Label() == label {
			return b
		}
	}
	return nil
}

// RenderPass records pass commands into its device's call log.
type RenderPass struct {
	device *Device
	Depth  gpu.TextureView
	Clear  gpu.Color
}

var _ gpu.RenderPass = &RenderPass{}

func (p *RenderPass) rec(op string, args ...any) {
	p.device.mu.Lock()
	defer p.device.mu.Unlock()
	p.device.record(op, args...)
}

func (p *RenderPass) SetPipeline(pl gpu.RenderPipeline) {
	p.rec("SetPipeline", pl.Label())
}

func (p *RenderPass) SetBindGroup(index uint32, bg gpu.BindGroup) {
	label := ""
	if g, ok := bg.(*BindGroup); ok {
		label = g.Label
	}
	p.rec("SetBindGroup", index, label)
}

func (p *RenderPass) SetVertexBuffer(slot uint32, buf gpu.Buffer, offset, size uint64) {
	p.rec("SetVertexBuffer", slot, buf.Label(), offset, size)
}

func (p *RenderPass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset, size uint64) {
	p.rec("SetIndexBuffer", buf.Label(), format, offset, size)
}

func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec("Draw", vertexCount, instanceCount)
}

func (p *RenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.rec("DrawIndexed", indexCount, instanceCount)
}

// NewRenderPass returns a pass recording into d, for tests that drive components directly.
func NewRenderPass(d *Device) *RenderPass {
	return &RenderPass{device: d}
}

// Hooks is a gpu.FrameHooks that stores hooks for later invocation.
type Hooks struct {
	List []func(gpu.RenderPass)
}

func (h *Hooks) OnUpdate(hook func(gpu.RenderPass)) {
	h.List = append(h.List, hook)
}

// Run invokes every stored hook against pass.
func (h *Hooks) Run(pass gpu.RenderPass) {
	for _, hook := range h.List {
		hook(pass)
	}
}
