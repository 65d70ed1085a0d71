package graphics

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func everyKind() []Component {
	tr := common.NewTransform(common.Vec3{})
	color := common.Color{1, 1, 1, 1}
	vp := common.IdentityMatrix()
	return []Component{
		NewCamera(&vp),
		NewSimple(mesh.ColoredCube(), &tr),
		NewDecal(mesh.DecalQuad(), &tr, &color),
		NewShadedNormal(mesh.Gem(), &tr, &color),
		NewDecoratedShading(mesh.Ball(), &tr, &color),
		NewPointLight(light.NewPointLight(), mesh.Ball()),
	}
}

func TestLifecycleTransitions(t *testing.T) {
	for _, c := range everyKind() {
		t.Run(c.Kind().String(), func(t *testing.T) {
			dev, res := newResources(t)
			assert.Equal(t, StateUninitialized, c.State())
			assert.Empty(t, c.AppendWrites(nil), "no writes before initialization")

			require.NoError(t, c.Initialize(res))
			assert.Equal(t, StateReady, c.State())
			require.ErrorIs(t, c.Initialize(res), ErrInvalidTransition)

			assert.NotEmpty(t, c.AppendWrites(nil))

			c.Destroy()
			assert.Equal(t, StateDestroyed, c.State())
			c.Destroy()
			assert.Empty(t, c.AppendWrites(nil))
			require.ErrorIs(t, c.Initialize(res), ErrInvalidTransition)

			res.Meshes.Release()
			assert.Empty(t, dev.LiveBuffers())
			assert.Empty(t, dev.Violations())
		})
	}
}

func TestDoubleDestroyWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	_, res := newResources(t)
	s := NewSimple(mesh.ColoredCube(), new(common.Transform), WithLogger(zap.New(core)))
	require.NoError(t, s.Initialize(res))

	s.Destroy()
	s.Destroy()
	assert.Equal(t, 1, logs.FilterMessage("graphics component destroyed twice").Len())
}

func TestDestroyBeforeInitialize(t *testing.T) {
	dev, _ := newResources(t)
	s := NewSimple(mesh.ColoredCube(), new(common.Transform))
	s.Destroy()
	assert.Equal(t, StateDestroyed, s.State())
	assert.Empty(t, dev.Violations())
}

func TestSharedMeshBufferOutlivesComponents(t *testing.T) {
	dev, res := newResources(t)
	tr := common.NewTransform(common.Vec3{})
	color := common.Color{0, 0.5, 0, 0.5}

	a := NewDecoratedShading(mesh.Ball(), &tr, &color)
	b := NewDecoratedShading(mesh.Ball(), &tr, &color)
	require.NoError(t, a.Initialize(res))
	require.NoError(t, b.Initialize(res))
	assert.Equal(t, 1, res.Meshes.Len())

	var ball *devicetest.Buffer
	for _, buf := range dev.Buffers() {
		if buf.Label() == "Singleton Vertex Buffer for "+mesh.NameBall {
			ball = buf
		}
	}
	require.NotNil(t, ball)

	a.Destroy()
	b.Destroy()
	assert.Zero(t, ball.Destroyed())

	c := NewDecoratedShading(mesh.Ball(), &tr, &color)
	require.NoError(t, c.Initialize(res))
	assert.Equal(t, 1, res.Meshes.Len())

	res.Meshes.Release()
	assert.Equal(t, 1, ball.Destroyed())
	assert.Empty(t, dev.Violations())
}

func TestSimpleOwnsItsVertexBuffer(t *testing.T) {
	dev, res := newResources(t)
	s := NewSimple(mesh.ColoredCube(), new(common.Transform), WithLabel("cube"))
	require.NoError(t, s.Initialize(res))

	var vb *devicetest.Buffer
	for _, buf := range dev.Buffers() {
		if buf.Label() == "Vertex Buffer for cube" {
			vb = buf
		}
	}
	require.NotNil(t, vb)
	assert.Equal(t, uint64(36*mesh.VertexStride), vb.Size())

	s.Destroy()
	assert.Equal(t, 1, vb.Destroyed())
	assert.Zero(t, res.Meshes.Len())
}

func TestInitializeFailureReleasesPartialResources(t *testing.T) {
	dev, res := newResources(t)
	s := NewSimple(mesh.ColoredCube(), new(common.Transform))

	dev.FailCreateBuffer = true
	require.ErrorIs(t, s.Initialize(res), devicetest.ErrInjected)
	assert.Equal(t, StateUninitialized, s.State())
	assert.Empty(t, dev.LiveBuffers())

	dev.FailCreateBuffer = false
	require.NoError(t, s.Initialize(res))
	assert.Equal(t, StateReady, s.State())
}

func TestLayoutMismatch(t *testing.T) {
	_, res := newResources(t)
	tr := common.NewTransform(common.Vec3{})
	color := common.Color{}

	shaded := NewShadedNormal(mesh.Ball(), &tr, &color)
	require.ErrorIs(t, shaded.Initialize(res), ErrLayoutMismatch)
	assert.Equal(t, StateUninitialized, shaded.State())

	simple := NewSimple(mesh.Gem(), &tr)
	require.ErrorIs(t, simple.Initialize(res), ErrLayoutMismatch)
}

func TestDrawRecordsOneDrawPerComponent(t *testing.T) {
	dev, res := newResources(t)
	c := NewDecal(mesh.DecalQuad(), new(common.Transform), new(common.Color))
	require.NoError(t, c.Initialize(res))

	depth, err := dev.CreateDepthTexture(4, 4)
	require.NoError(t, err)
	require.NoError(t, dev.ConfigureSurface(4, 4))
	pass, err := dev.BeginRenderPass(depth, device.ClearColor{})
	require.NoError(t, err)
	c.Draw(pass)
	require.NoError(t, dev.Submit(pass))

	subs := dev.Submissions()
	require.Len(t, subs, 1)
	cmds := subs[0].Commands
	require.Len(t, cmds, 3)
	assert.Equal(t, devicetest.OpSetVertexBuffer, cmds[0].Op)
	assert.Equal(t, devicetest.OpSetBindGroup, cmds[1].Op)
	assert.Equal(t, uint32(1), cmds[1].Index)
	assert.Equal(t, devicetest.OpDraw, cmds[2].Op)
	assert.Equal(t, uint32(6), cmds[2].Count)
}
