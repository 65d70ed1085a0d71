package renderer

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newReady(t *testing.T, options ...RendererBuilderOption) (*devicetest.Device, Renderer) {
	t.Helper()
	dev := devicetest.New()
	r := NewRenderer(context.Background(), dev.Acquirer(), 800, 600, options...)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Await(ctx))
	require.True(t, r.Ready())
	dev.ResetLog()
	return dev, r
}

func newCamera() *graphics.Camera {
	vp := common.IdentityMatrix()
	return graphics.NewCamera(&vp, graphics.WithLabel("camera"))
}

func newSimple(label string) *graphics.Simple {
	tr := common.NewTransform(common.Vec3{})
	return graphics.NewSimple(mesh.ColoredCube(), &tr, graphics.WithLabel(label))
}

func pipelineOrder(cmds []devicetest.Command) []string {
	var out []string
	for _, c := range cmds {
		if c.Op == devicetest.OpSetPipeline {
			out = append(out, c.Label)
		}
	}
	return out
}

func TestSetupBuildsEveryPipeline(t *testing.T) {
	dev, r := newReady(t, WithShaderValidation(true))
	assert.Len(t, dev.Pipelines(), len(graphics.DrawOrder))
	assert.Nil(t, r.Pipeline(graphics.KindCamera))
	for _, kind := range graphics.DrawOrder {
		p := r.Pipeline(kind)
		require.NotNil(t, p, kind.String())
		assert.Equal(t, kind.String()+" Pipeline", p.PipelineKey())
	}
	assert.Equal(t, 3, len(r.Pipeline(graphics.KindShadedNormal).BindGroupLayouts()))

	w, h := dev.SurfaceSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	require.Len(t, dev.Textures(), 1)
	assert.NotNil(t, r.Meshes())
}

func TestRenderBeforeReadySkips(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dev := devicetest.New()
	gate := make(chan struct{})
	acquire := func(ctx context.Context) (device.Device, error) {
		<-gate
		return dev, nil
	}

	r := NewRenderer(context.Background(), acquire, 800, 600, WithLogger(zap.New(core)))
	org := graphics.NewOrganizer(nil)
	org.Register(newCamera())

	assert.False(t, r.Ready())
	_, err := r.Resources()
	require.ErrorIs(t, err, ErrNotReady)
	assert.Nil(t, r.Meshes())
	r.Render(org)
	assert.Equal(t, 1, logs.FilterMessage("render skipped").Len())
	assert.Equal(t, 1, org.Pending(), "the init queue waits for the device")

	close(gate)
	require.NoError(t, r.Await(context.Background()))
	r.Render(org)
	assert.Len(t, dev.Submissions(), 1)
}

func TestAcquireFailure(t *testing.T) {
	r := NewRenderer(context.Background(), devicetest.FailingAcquirer(devicetest.ErrInjected), 800, 600)
	require.ErrorIs(t, r.Await(context.Background()), devicetest.ErrInjected)
	assert.False(t, r.Ready())
	r.Release()
}

func TestAwaitHonorsContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	dev := devicetest.New()
	r := NewRenderer(context.Background(), func(context.Context) (device.Device, error) {
		<-gate
		return dev, nil
	}, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.Await(ctx), context.Canceled)
}

func TestRenderWithoutCameraSkipsFrame(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dev, r := newReady(t, WithLogger(zap.New(core)))
	org := graphics.NewOrganizer(nil)
	s := newSimple("cube")
	org.Register(s)

	r.Render(org)
	assert.Equal(t, graphics.StateReady, s.State(), "initialization still happens")
	assert.NotEmpty(t, dev.Writes(), "writes still happen")
	assert.Empty(t, dev.Submissions())
	assert.Equal(t, 1, logs.FilterMessage("no active camera, skipping frame").Len())
}

func TestRenderDrainsLIFO(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	org.Register(newCamera(), newSimple("a"), newSimple("b"))
	r.Render(org)

	var order []string
	for _, b := range dev.Buffers() {
		switch b.Label() {
		case "Vertex Buffer for a", "Vertex Buffer for b":
			order = append(order, b.Label())
		}
	}
	assert.Equal(t, []string{"Vertex Buffer for b", "Vertex Buffer for a"}, order)
	assert.Zero(t, org.Pending())
}

func TestRenderDrawOrderAndLight(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)

	tr := common.NewTransform(common.Vec3{})
	color := common.Color{1, 1, 1, 1}
	org.Register(
		graphics.NewDecoratedShading(mesh.Ball(), &tr, &color),
		graphics.NewShadedNormal(mesh.Gem(), &tr, &color),
		graphics.NewDecal(mesh.DecalQuad(), &tr, &color),
		newSimple("cube"),
		newCamera(),
	)
	r.Render(org)

	subs := dev.Submissions()
	require.Len(t, subs, 1)
	cmds := subs[0].Commands
	assert.Equal(t, []string{"simple Pipeline", "decal Pipeline", "shaded-normal Pipeline", "decorated-shading Pipeline"}, pipelineOrder(cmds))
	assert.Equal(t, devicetest.OpSetBindGroup, cmds[0].Op)
	assert.Equal(t, "Bind Group for camera", cmds[0].Label)

	var lightBind string
	for _, c := range cmds {
		if c.Op == devicetest.OpSetBindGroup && c.Index == 2 {
			lightBind = c.Label
		}
	}
	assert.Equal(t, "Bind Group for Fallback Light", lightBind)

	lamp := graphics.NewPointLight(light.NewPointLight(), mesh.Ball(), graphics.WithLabel("lamp"))
	org.Register(lamp)
	dev.ResetLog()
	r.Render(org)
	cmds = dev.Submissions()[0].Commands
	assert.Equal(t, "point-light Pipeline", pipelineOrder(cmds)[4])
	for _, c := range cmds {
		if c.Op == devicetest.OpSetBindGroup && c.Index == 2 {
			lightBind = c.Label
		}
	}
	assert.Equal(t, "Bind Group for lamp", lightBind)
	assert.Empty(t, dev.Violations())
}

func TestRenderTwiceIsIdentical(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	tr := common.NewTransform(common.Vec3{})
	color := common.Color{1, 0, 0, 1}
	org.Register(newCamera(), newSimple("cube"), graphics.NewDecoratedShading(mesh.Ball(), &tr, &color))
	r.Render(org)
	r.Render(org)

	subs := dev.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, subs[0].Commands, subs[1].Commands)
	assert.NotEmpty(t, subs[0].Commands)
}

func TestRenderSkipsInactive(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	hidden := newSimple("hidden")
	hidden.SetActive(false)
	org.Register(newCamera(), hidden)
	r.Render(org)

	cmds := dev.Submissions()[0].Commands
	assert.Empty(t, pipelineOrder(cmds), "a bucket with nothing to draw sets no pipeline")
	assert.Equal(t, graphics.StateReady, hidden.State())
}

func TestResizeReplacesDepthTexture(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	org.Register(newCamera(), newSimple("cube"))
	r.Render(org)
	require.Len(t, dev.Textures(), 1)
	original := dev.Textures()[0]

	r.Resize(400, 300)
	w, h := r.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	r.Render(org)

	textures := dev.Textures()
	require.Len(t, textures, 2)
	assert.Equal(t, 1, original.Destroyed())
	assert.Zero(t, textures[1].Destroyed())
	assert.Equal(t, 400, textures[1].Width())
	assert.Equal(t, 300, textures[1].Height())

	sw, sh := dev.SurfaceSize()
	assert.Equal(t, 400, sw)
	assert.Equal(t, 300, sh)
	subs := dev.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, 400, subs[1].DepthWidth)
	assert.Empty(t, dev.Violations())

	r.Render(org)
	assert.Len(t, dev.Textures(), 2, "no resize without a size change")
}

func TestZeroCanvasSkipsFrame(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	org.Register(newCamera())
	r.Resize(0, 0)
	r.Render(org)
	assert.Empty(t, dev.Submissions())
	assert.Len(t, dev.Textures(), 1)
}

func TestStragglerInitializedAtDraw(t *testing.T) {
	dev, r := newReady(t)
	org := graphics.NewOrganizer(nil)
	org.Register(newCamera())
	r.Render(org)

	s := newSimple("late")
	org.Register(s)
	dev.FailCreateBuffer = true
	r.Render(org)
	assert.Equal(t, graphics.StateUninitialized, s.State())
	assert.Zero(t, org.Pending())

	dev.FailCreateBuffer = false
	dev.ResetLog()
	r.Render(org)
	require.Equal(t, graphics.StateReady, s.State())
	cmds := dev.Submissions()[0].Commands
	assert.Equal(t, []string{"simple Pipeline"}, pipelineOrder(cmds))

	var wrote bool
	for _, w := range dev.Writes() {
		if w.Label == "Transform Buffer for late" {
			wrote = true
		}
	}
	assert.True(t, wrote, "a straggler is written before it is drawn")
	assert.Empty(t, dev.Violations())
}

func TestRelease(t *testing.T) {
	dev, r := newReady(t)
	r.Release()
	assert.True(t, dev.Released())
	assert.Empty(t, dev.LiveBuffers())
	assert.Equal(t, 1, dev.Textures()[0].Destroyed())
	assert.False(t, r.Ready())

	r.Release()
	assert.Equal(t, 1, dev.Textures()[0].Destroyed())
}
