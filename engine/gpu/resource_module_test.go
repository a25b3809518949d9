package gpu_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMaterial struct {
	name   string
	module gpu.ShaderModule
	err    error
}

func (m *testMaterial) Name() string { return m.name }

func (m *testMaterial) ShaderModule() (gpu.ShaderModule, error) {
	return m.module, m.err
}

func newModule(t *testing.T) (*gputest.Device, *gputest.Hooks, gpu.ResourceModule) {
	t.Helper()
	dev := gputest.NewDevice()
	hooks := &gputest.Hooks{}
	m, err := gpu.NewResourceModule(dev, hooks)
	require.NoError(t, err)
	return dev, hooks, m
}

func TestCreateBufferStrideExcludesBindings(t *testing.T) {
	dev, hooks, m := newModule(t)

	data := make([]float32, 4*3)
	buf, err := m.CreateBuffer(gpu.ResourceData{
		Type: gpu.ResourceTypeUniform,
		Name: "mixed",
		Data: data,
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "Position", Type: gpu.SlotTypePosition, Position: 0, Size: 4},
			{Name: "Params", Type: gpu.SlotTypeBinding, Position: 0, Size: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(16), buf.Layout.ArrayStride)
	require.Len(t, buf.Layout.Attributes, 1)
	assert.Equal(t, gpu.VertexFormatFloat32x4, buf.Layout.Attributes[0].Format)
	assert.NotNil(t, buf.BindGroup)
	assert.Len(t, hooks.List, 1)

	primary := dev.BufferByLabel("mixed")
	require.NotNil(t, primary)
	assert.Equal(t, uint64(48), primary.Size())
	assert.True(t, primary.Desc.MappedAtCreation)
	assert.Equal(t, gpu.BufferUsageVertex|gpu.BufferUsageUniform|gpu.BufferUsageCopySrc|gpu.BufferUsageCopyDst, primary.Usage())
}

func TestVertexLayoutOffsetsFollowDeclarationOrder(t *testing.T) {
	_, _, m := newModule(t)

	buf, err := m.CreateBuffer(gpu.ResourceData{
		Type: gpu.ResourceTypeTriangles,
		Name: "interleaved",
		Data: make([]float32, 10*2),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "Position", Type: gpu.SlotTypePosition, Position: 0, Size: 4},
			{Name: "Color", Type: gpu.SlotTypePosition, Position: 1, Size: 4},
			{Name: "world_pos", Type: gpu.SlotTypePositionOut, Position: 3, Size: 3},
			{Name: "uv", Type: gpu.SlotTypePosition, Position: 2, Size: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(40), buf.Layout.ArrayStride)
	require.Len(t, buf.Layout.Attributes, 3)
	var last int64 = -1
	for _, a := range buf.Layout.Attributes {
		assert.Greater(t, int64(a.Offset), last)
		last = int64(a.Offset)
	}
	assert.Equal(t, uint64(0), buf.Layout.Attributes[0].Offset)
	assert.Equal(t, uint64(16), buf.Layout.Attributes[1].Offset)
	assert.Equal(t, uint64(32), buf.Layout.Attributes[2].Offset)
	assert.Equal(t, uint32(2), buf.Layout.Attributes[2].ShaderLocation)
	assert.Equal(t, uint64(40), m.VertexStride([]gpu.ShaderSlot{
		{Type: gpu.SlotTypePosition, Size: 4},
		{Type: gpu.SlotTypePosition, Size: 4},
		{Type: gpu.SlotTypePositionOut, Size: 3},
		{Type: gpu.SlotTypePosition, Size: 2},
	}))
}

func TestTrianglesUsageIsVertexOnly(t *testing.T) {
	dev, hooks, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{
		Type:        gpu.ResourceTypeTriangles,
		Name:        "tri",
		Data:        make([]float32, 8),
		ShaderSlots: []gpu.ShaderSlot{{Name: "Position", Type: gpu.SlotTypePosition, Size: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, gpu.BufferUsageVertex|gpu.BufferUsageCopyDst, dev.BufferByLabel("tri").Usage())
	assert.Empty(t, hooks.List)
	assert.Equal(t, []string{"CreateBindGroupLayout", "CreateBuffer", "WriteBuffer"}, dev.Ops())
}

func TestCreateBufferRejectsSecondSharedBinding(t *testing.T) {
	_, _, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{
		Type: gpu.ResourceTypeUniform,
		Name: "two",
		Data: make([]float32, 16),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "a", Type: gpu.SlotTypeBinding, Position: 0, Size: 4},
			{Name: "b", Type: gpu.SlotTypeBinding, Position: 1, Size: 4},
		},
	})
	assert.True(t, errors.Is(err, gpu.ErrMultipleBindings))
}

func TestDedicatedBindingAllocatesBufferAndRecordsLayout(t *testing.T) {
	dev, hooks, m := newModule(t)

	transform := make([]float32, 16)
	transform[0], transform[5], transform[10], transform[15] = 1, 1, 1, 1

	buf, err := m.CreateBuffer(gpu.ResourceData{
		Type: gpu.ResourceTypeTriangles,
		Name: "node",
		Data: make([]float32, 9),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "position", Type: gpu.SlotTypePosition, Position: 0, Size: 3},
			{Name: "transform", Type: gpu.SlotTypeBinding, Position: 1, Size: 16, CreateNewBuffer: true, Data: transform},
		},
		Indices: []uint32{0, 1, 2},
	})
	require.NoError(t, err)

	sb, ok := buf.Binding("transform")
	require.True(t, ok)
	assert.NotNil(t, sb.Layout)
	assert.NotSame(t, buf.Data, sb.Buffer)
	assert.Equal(t, uint64(64), sb.Buffer.Size())
	assert.Equal(t, gpu.BufferUsageUniform|gpu.BufferUsageCopyDst, sb.Buffer.Usage())
	assert.Nil(t, buf.BindGroup)
	assert.Len(t, hooks.List, 1)

	require.NotNil(t, buf.Index)
	assert.Equal(t, uint32(3), buf.IndexCount)
	assert.Equal(t, gpu.BufferUsageIndex|gpu.BufferUsageCopyDst, buf.Index.Usage())

	layouts, err := m.BindGroupLayouts()
	require.NoError(t, err)
	require.Len(t, layouts, 2)
	assert.Same(t, m.ViewBindGroupLayout(), layouts[0])
	assert.Same(t, sb.Layout, layouts[1])

	identity := dev.BufferByLabel("node transform")
	require.NotNil(t, identity)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, identity.Contents[:4])

	moved := make([]float32, 16)
	moved[12] = 2
	require.NoError(t, m.WriteSlot(buf, "transform", moved))
	assert.Error(t, m.WriteSlot(buf, "transform", moved[:4]))
	assert.ErrorIs(t, m.WriteSlot(buf, "missing", moved), gpu.ErrUnknownSlot)
}

func TestDedicatedBindingAtGroupZeroIsRejected(t *testing.T) {
	_, _, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{
		Name: "bad",
		Data: make([]float32, 4),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "x", Type: gpu.SlotTypeBinding, Position: 0, Size: 4, CreateNewBuffer: true},
		},
	})
	assert.ErrorIs(t, err, gpu.ErrReservedGroup)
}

func TestEmptyResourceIsRejected(t *testing.T) {
	_, _, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{Name: "empty"})
	assert.ErrorIs(t, err, gpu.ErrEmptyResource)
}

func TestHookAppliesBindGroupAtSlotPosition(t *testing.T) {
	dev, hooks, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{
		Type: gpu.ResourceTypeUniform,
		Name: "Camera ProjView",
		Data: make([]float32, 16),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "projView", Type: gpu.SlotTypeBinding, Position: 0, Size: 16},
		},
	})
	require.NoError(t, err)

	dev.Reset()
	hooks.Run(gputest.NewRenderPass(dev))
	require.Len(t, dev.Calls, 1)
	assert.Equal(t, "SetBindGroup", dev.Calls[0].Op)
	assert.Equal(t, uint32(0), dev.Calls[0].Args[0])
}

func TestCreateRenderPipelineCachesAndUsesAccumulatedLayouts(t *testing.T) {
	dev, _, m := newModule(t)

	shader, err := dev.CreateShaderModule("mat", "code")
	require.NoError(t, err)
	mat := &testMaterial{name: "mat", module: shader}
	layout := gpu.VertexBufferLayout{ArrayStride: 32}

	p1, err := m.CreateRenderPipeline(layout, mat)
	require.NoError(t, err)
	p2, err := m.CreateRenderPipeline(layout, mat)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	require.Len(t, dev.Pipelines, 1)

	desc := dev.Pipelines[0].Desc
	assert.Equal(t, "vertexMain", desc.VertexEntryPoint)
	assert.Equal(t, "fragmentMain", desc.FragmentEntryPoint)
	assert.Equal(t, gpu.TextureFormatDepth24Plus, desc.DepthFormat)
	assert.Equal(t, gpu.CompareFunctionLess, desc.DepthCompare)
	assert.True(t, desc.DepthWriteEnabled)
	assert.Equal(t, gpu.TextureFormatBGRA8Unorm, desc.ColorFormat)
	assert.Len(t, desc.BindGroupLayouts, 1)

	_, err = m.CreateBuffer(gpu.ResourceData{
		Name: "node",
		Data: make([]float32, 3),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "transform", Type: gpu.SlotTypeBinding, Position: 1, Size: 16, CreateNewBuffer: true},
		},
	})
	require.NoError(t, err)

	p3, err := m.CreateRenderPipeline(layout, mat, gpu.WithTopology(gpu.PrimitiveTopologyTriangleStrip, gpu.IndexFormatUint32))
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	last := dev.Pipelines[len(dev.Pipelines)-1].Desc
	assert.Len(t, last.BindGroupLayouts, 2)
	assert.Equal(t, gpu.PrimitiveTopologyTriangleStrip, last.Topology)
	assert.Equal(t, gpu.IndexFormatUint32, last.StripIndexFormat)
}

func TestCreateRenderPipelineFailsForUnreadyMaterial(t *testing.T) {
	_, _, m := newModule(t)
	notReady := errors.New("not ready")

	_, err := m.CreateRenderPipeline(gpu.VertexBufferLayout{}, &testMaterial{name: "late", err: notReady})
	assert.ErrorIs(t, err, notReady)

	_, err = m.CreateRenderPipeline(gpu.VertexBufferLayout{}, nil)
	assert.ErrorIs(t, err, gpu.ErrNilMaterial)
}

func TestBindGroupLayoutsRejectGaps(t *testing.T) {
	_, _, m := newModule(t)

	_, err := m.CreateBuffer(gpu.ResourceData{
		Name: "far",
		Data: make([]float32, 4),
		ShaderSlots: []gpu.ShaderSlot{
			{Name: "x", Type: gpu.SlotTypeBinding, Position: 2, Size: 4, CreateNewBuffer: true},
		},
	})
	require.NoError(t, err)

	_, err = m.BindGroupLayouts()
	assert.ErrorIs(t, err, gpu.ErrBindGroupGap)
}

func TestSlotFormatDerivesFromSize(t *testing.T) {
	assert.Equal(t, gpu.ShaderDataFormatVec4F32, gpu.ShaderSlot{Size: 4}.Format())
	assert.Equal(t, gpu.ShaderDataFormatMat4F32, gpu.ShaderSlot{Size: 16}.Format())
	assert.Equal(t, gpu.ShaderDataFormatVec2F32, gpu.ShaderSlot{Size: 4, DataType: gpu.ShaderDataFormatVec2F32}.Format())
	assert.Equal(t, "vec3f32", gpu.DataFormatForSize(3).String())
}
