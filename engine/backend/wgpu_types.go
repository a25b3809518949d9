package backend

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrForeignHandle is returned when a handle created by another device is passed in.
var ErrForeignHandle = errors.New("handle was not created by the wgpu backend")

type buffer struct {
	buf   *wgpu.Buffer
	label string
	size  uint64
	usage gpu.BufferUsage
}

func (b *buffer) Label() string          { return b.label }
func (b *buffer) Size() uint64           { return b.size }
func (b *buffer) Usage() gpu.BufferUsage { return b.usage }
func (b *buffer) Release()               { b.buf.Release() }

type bindGroupLayout struct {
	layout *wgpu.BindGroupLayout
}

func (l *bindGroupLayout) Release() { l.layout.Release() }

type bindGroup struct {
	group *wgpu.BindGroup
}

func (g *bindGroup) Release() { g.group.Release() }

type shaderModule struct {
	module *wgpu.ShaderModule
	label  string
}

func (s *shaderModule) Label() string { return s.label }
func (s *shaderModule) Release()      { s.module.Release() }

type renderPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	label    string
}

func (p *renderPipeline) Label() string { return p.label }
func (p *renderPipeline) Release() {
	p.pipeline.Release()
	p.layout.Release()
}

type textureView struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (v *textureView) Release() {
	v.view.Release()
	v.texture.Release()
}

// renderPass forwards draw commands to the frame's render pass encoder.
type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ gpu.RenderPass = &renderPass{}

func (p *renderPass) SetPipeline(pl gpu.RenderPipeline) {
	if rp, ok := pl.(*renderPipeline); ok {
		p.pass.SetPipeline(rp.pipeline)
	}
}

func (p *renderPass) SetBindGroup(index uint32, bg gpu.BindGroup) {
	if g, ok := bg.(*bindGroup); ok {
		p.pass.SetBindGroup(index, g.group, nil)
	}
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf gpu.Buffer, offset, size uint64) {
	if b, ok := buf.(*buffer); ok {
		p.pass.SetVertexBuffer(slot, b.buf, offset, size)
	}
}

func (p *renderPass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat, offset, size uint64) {
	if b, ok := buf.(*buffer); ok {
		p.pass.SetIndexBuffer(b.buf, toIndexFormat(format), offset, size)
	}
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// toBufferUsage converts usage bits. The gpu bit values are the WebGPU ones.
func toBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	return wgpu.BufferUsage(u)
}

func toShaderStage(s gpu.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&gpu.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func toVertexFormat(f gpu.VertexFormat) (wgpu.VertexFormat, error) {
	switch f {
	case gpu.VertexFormatFloat32:
		return wgpu.VertexFormatFloat32, nil
	case gpu.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2, nil
	case gpu.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3, nil
	case gpu.VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex format %d", f)
	}
}

func toTextureFormat(f gpu.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gpu.TextureFormatBGRA8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case gpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatDepth24Plus:
		return wgpu.TextureFormatDepth24Plus
	case gpu.TextureFormatDepth24PlusStencil8:
		return wgpu.TextureFormatDepth24PlusStencil8
	default:
		return wgpu.TextureFormatUndefined
	}
}

func fromTextureFormat(f wgpu.TextureFormat) gpu.TextureFormat {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm:
		return gpu.TextureFormatBGRA8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return gpu.TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatRGBA8Unorm:
		return gpu.TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return gpu.TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatDepth24Plus:
		return gpu.TextureFormatDepth24Plus
	case wgpu.TextureFormatDepth24PlusStencil8:
		return gpu.TextureFormatDepth24PlusStencil8
	default:
		return gpu.TextureFormatUndefined
	}
}

func toTopology(t gpu.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case gpu.PrimitiveTopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case gpu.PrimitiveTopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	case gpu.PrimitiveTopologyPointList:
		return wgpu.PrimitiveTopologyPointList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toIndexFormat(f gpu.IndexFormat) wgpu.IndexFormat {
	switch f {
	case gpu.IndexFormatUint16:
		return wgpu.IndexFormatUint16
	case gpu.IndexFormatUint32:
		return wgpu.IndexFormatUint32
	default:
		return wgpu.IndexFormatUndefined
	}
}

func toCompareFunction(c gpu.CompareFunction) wgpu.CompareFunction {
	switch c {
	case gpu.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case gpu.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}

func toPresentMode(m PresentMode) wgpu.PresentMode {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	default:
		return wgpu.PresentModeImmediate
	}
}

// toVertexBufferLayouts converts the vertex buffer layouts of a pipeline descriptor.
func toVertexBufferLayouts(layouts []gpu.VertexBufferLayout) ([]wgpu.VertexBufferLayout, error) {
	out := make([]wgpu.VertexBufferLayout, 0, len(layouts))
	for _, l := range layouts {
		attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
		for _, a := range l.Attributes {
			format, err := toVertexFormat(a.Format)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         format,
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			})
		}
		out = append(out, wgpu.VertexBufferLayout{
			ArrayStride: l.ArrayStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return out, nil
}
