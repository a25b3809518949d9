package backend

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferUsageBitsMatchWebGPU(t *testing.T) {
	cases := map[gpu.BufferUsage]wgpu.BufferUsage{
		gpu.BufferUsageMapRead:  wgpu.BufferUsageMapRead,
		gpu.BufferUsageMapWrite: wgpu.BufferUsageMapWrite,
		gpu.BufferUsageCopySrc:  wgpu.BufferUsageCopySrc,
		gpu.BufferUsageCopyDst:  wgpu.BufferUsageCopyDst,
		gpu.BufferUsageIndex:    wgpu.BufferUsageIndex,
		gpu.BufferUsageVertex:   wgpu.BufferUsageVertex,
		gpu.BufferUsageUniform:  wgpu.BufferUsageUniform,
		gpu.BufferUsageStorage:  wgpu.BufferUsageStorage,
	}
	for in, want := range cases {
		assert.Equal(t, want, toBufferUsage(in))
	}
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, toBufferUsage(gpu.BufferUsageVertex|gpu.BufferUsageCopyDst))
}

func TestShaderStage(t *testing.T) {
	assert.Equal(t, wgpu.ShaderStageVertex, toShaderStage(gpu.ShaderStageVertex))
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, toShaderStage(gpu.ShaderStageVertex|gpu.ShaderStageFragment))
}

func TestTextureFormatRoundTrip(t *testing.T) {
	for _, f := range []gpu.TextureFormat{
		gpu.TextureFormatBGRA8Unorm,
		gpu.TextureFormatBGRA8UnormSrgb,
		gpu.TextureFormatRGBA8Unorm,
		gpu.TextureFormatRGBA8UnormSrgb,
		gpu.TextureFormatDepth24Plus,
		gpu.TextureFormatDepth24PlusStencil8,
	} {
		assert.Equal(t, f, fromTextureFormat(toTextureFormat(f)))
	}
	assert.Equal(t, gpu.TextureFormatUndefined, fromTextureFormat(wgpu.TextureFormatR32Float))
}

func TestVertexBufferLayouts(t *testing.T) {
	out, err := toVertexBufferLayouts([]gpu.VertexBufferLayout{{
		ArrayStride: 28,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(28), out[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, out[0].StepMode)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, out[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), out[0].Attributes[1].Offset)

	_, err = toVertexBufferLayouts([]gpu.VertexBufferLayout{{
		Attributes: []gpu.VertexAttribute{{Format: 0}},
	}})
	assert.Error(t, err)
}

func TestEnumConversions(t *testing.T) {
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, toTopology(gpu.PrimitiveTopologyTriangleStrip))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, toTopology(gpu.PrimitiveTopologyLineList))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, toTopology(gpu.PrimitiveTopologyTriangleList))
	assert.Equal(t, wgpu.IndexFormatUint32, toIndexFormat(gpu.IndexFormatUint32))
	assert.Equal(t, wgpu.IndexFormatUndefined, toIndexFormat(gpu.IndexFormatUndefined))
	assert.Equal(t, wgpu.CompareFunctionLess, toCompareFunction(gpu.CompareFunctionLess))
	assert.Equal(t, wgpu.PresentModeFifo, toPresentMode(ParsePresentMode("vsync")))
	assert.Equal(t, wgpu.PresentModeImmediate, toPresentMode(ParsePresentMode("uncapped")))
}

func TestOptions(t *testing.T) {
	b := &wgpuBackend{presentMode: wgpu.PresentModeImmediate}
	WithPresentMode(PresentModeVSync)(b)
	WithForceSoftwareRenderer(true)(b)
	assert.Equal(t, wgpu.PresentModeFifo, b.presentMode)
	assert.True(t, b.forceFallbackAdapter)
}

func TestForeignHandlesAreRejected(t *testing.T) {
	b := &wgpuBackend{}
	_, err := b.CreateBindGroup("x", nil, nil)
	assert.ErrorIs(t, err, ErrForeignHandle)
	_, err = b.CreateRenderPipeline(gpu.RenderPipelineDescriptor{Label: "p"})
	assert.ErrorIs(t, err, ErrForeignHandle)
}
