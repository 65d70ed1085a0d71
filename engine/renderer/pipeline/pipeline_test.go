package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	dev := devicetest.New()
	camera, err := dev.CreateBindGroupLayout(&device.BindGroupLayoutDescriptor{Label: "camera"})
	require.NoError(t, err)
	s, err := shader.Load(shader.NameSimple)
	require.NoError(t, err)

	p := NewPipeline("simple",
		WithShader(s),
		WithVertexLayout(mesh.LayoutColored.VertexLayout()),
		WithBindGroupLayouts(camera, camera),
		WithBlend(device.BlendAlpha),
		WithDepthWriteEnabled(false),
		WithCullBack(true),
	)
	desc := p.Descriptor()
	assert.Equal(t, "simple", desc.Label)
	assert.Equal(t, "vs_main", desc.VertexEntry)
	assert.Equal(t, "fs_main", desc.FragmentEntry)
	assert.Equal(t, device.BlendAlpha, desc.Blend)
	assert.False(t, desc.DepthWrite)
	assert.True(t, desc.CullBack)
	assert.Equal(t, uint64(mesh.VertexStride), desc.VertexLayout.Stride)

	assert.Nil(t, p.RenderPipeline())
	require.NoError(t, p.Build(dev))
	require.NotNil(t, p.RenderPipeline())
	require.Len(t, dev.Pipelines(), 1)
	assert.Equal(t, 2, dev.Pipelines()[0].Groups())
}

func TestBuildIncomplete(t *testing.T) {
	dev := devicetest.New()
	require.ErrorIs(t, NewPipeline("empty").Build(dev), ErrIncomplete)

	s, err := shader.Load(shader.NameSimple)
	require.NoError(t, err)
	require.ErrorIs(t, NewPipeline("no layouts", WithShader(s)).Build(dev), ErrIncomplete)
	assert.Empty(t, dev.Pipelines())
}

func TestDefaults(t *testing.T) {
	desc := NewPipeline("defaults").Descriptor()
	assert.True(t, desc.DepthWrite)
	assert.Equal(t, device.BlendOpaque, desc.Blend)
	assert.False(t, desc.CullBack)
	assert.Empty(t, desc.Source)
}
