package game

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/config"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// dt is a power of two so positions and timers stay exact.
const dt = 0.0625

func newTestScene(t *testing.T, floor *Floor) scene.Scene {
	t.Helper()
	b := floor.Bounds()
	s := scene.NewScene(context.Background(), "test",
		scene.WithViewport(800, 600),
		scene.WithSystems(systems.WithBoundary(b.Scaled(boundaryScale)), systems.WithClamp(b)),
	)
	t.Cleanup(s.Teardown)
	return s
}

func newTestPlayer(health int) *Player {
	return NewPlayer(mesh.ColoredCube(), mesh.ColoredCube(), mesh.DecalQuad(), common.Vec3{}, 5, 1, health)
}

func contains(entities []scene.Entity, e scene.Entity) bool {
	for _, x := range entities {
		if x == e {
			return true
		}
	}
	return false
}

func TestFireballHitsPlayerOnce(t *testing.T) {
	floor := NewFloor(mesh.Floor(), common.Vec3{}, 50)
	s := newTestScene(t, floor)
	cam := NewTopCamera(common.Vec3{}, 50, 1, 20, 800, 600)
	player := newTestPlayer(3)
	fireball := NewFireball(mesh.Ball(), common.Vec3{25, 0, 0}, common.Vec3{-25, 0, 0}, FireballParams{
		Speed: 16, Radius: 1, Damage: 1, SpawnDuration: 0.25,
	})
	for _, e := range []scene.Entity{cam, floor, player, fireball} {
		s.AddEntity(e)
	}

	for i := 0; i < 3; i++ {
		s.Update(dt)
		require.False(t, fireball.ColliderActive(), "update %d", i)
		require.Equal(t, FireballSpawning, fireball.State())
	}
	s.Update(dt)
	require.True(t, fireball.ColliderActive(), "active after 0.25s")
	assert.InDelta(t, 1, fireball.Transform().Scale(), 1e-6)

	frames := 0
	for !fireball.MarkedForDeletion() {
		require.Less(t, frames, 100, "fireball never reached the player")
		require.Equal(t, 3, player.Health())
		s.Update(dt)
		frames++
	}
	assert.Equal(t, 24, frames)
	assert.Equal(t, 2, player.Health())
	assert.InDelta(t, 1, fireball.WorldPosition()[0], 1e-6)
	assert.True(t, contains(s.Entities(), fireball), "removed on the next compaction pass")

	s.Update(dt)
	assert.False(t, contains(s.Entities(), fireball))
	assert.False(t, s.Systems().Collision.Contains(fireball))
	assert.False(t, s.Systems().Boundary.Contains(fireball))
	assert.Equal(t, 2, player.Health())
}

func TestFireballSpawnRamp(t *testing.T) {
	f := NewFireball(mesh.Ball(), common.Vec3{}, common.Vec3{1, 0, 0}, FireballParams{Speed: 1, Radius: 2, SpawnDuration: 0.25})
	assert.Zero(t, f.Transform().Scale())

	f.Update(0.125)
	assert.InDelta(t, 1, f.Transform().Scale(), 1e-5, "smoothstep(0.5) is 0.5")
	assert.InDelta(t, fireballColor[1]/2, f.Color()[1], 1e-5)
	assert.Equal(t, common.Vec3{}, f.WorldPosition(), "spawning fireballs stay put")

	f.Update(0.125)
	assert.Equal(t, FireballActive, f.State())
	assert.Equal(t, fireballColor, f.Color())
	f.Update(0.5)
	assert.InDelta(t, 0.5, f.WorldPosition()[0], 1e-6)
	assert.InDelta(t, 2, f.Transform().Scale(), 1e-4)

	f.OnLeave()
	assert.True(t, f.MarkedForDeletion())
}

func TestFireballWithoutSpawnDurationStartsActive(t *testing.T) {
	f := NewFireball(mesh.Ball(), common.Vec3{}, common.Vec3{0, 0, 1}, FireballParams{Speed: 1, Radius: 1})
	assert.True(t, f.ColliderActive())
	assert.Equal(t, "active", f.State().String())
}

func TestPlayerWalksToDestination(t *testing.T) {
	p := newTestPlayer(3)
	assert.False(t, p.Target().Visible())

	p.AcceptWorldPoint(common.Vec3{3, 0, 4})
	assert.True(t, p.Target().Visible())
	assert.Equal(t, common.Vec3{3, 0, 4}, *p.Target().Transform().Position())
	assert.True(t, p.Moving())

	p.Update(0.5)
	pos := p.WorldPosition()
	assert.InDelta(t, 1.5, pos[0], 1e-5)
	assert.InDelta(t, 2, pos[2], 1e-5)

	p.Update(1)
	assert.Equal(t, common.Vec3{3, 0, 4}, p.WorldPosition())
	assert.False(t, p.Moving())

	bricks := p.HealthBar().Bricks()
	require.Len(t, bricks, 3)
	start := float32(1.5 / math.Sqrt2)
	assert.InDelta(t, 3-start, bricks[0].Transform().Position()[0], 1e-5)
	assert.InDelta(t, healthBarHeight, bricks[0].Transform().Position()[1], 1e-5)
	assert.InDelta(t, 4+start, bricks[0].Transform().Position()[2], 1e-5)
}

func TestHealthBar(t *testing.T) {
	owner := common.Vec3{}
	h := NewHealthBar(mesh.ColoredCube(), 3, &owner)
	visible := func() []bool {
		var out []bool
		for _, b := range h.Bricks() {
			out = append(out, b.Visible())
		}
		return out
	}

	h.TakeDamage(1)
	assert.Equal(t, 2, h.Health())
	assert.Equal(t, []bool{true, true, false}, visible())

	h.TakeDamage(5)
	assert.Zero(t, h.Health())
	assert.Equal(t, []bool{false, false, false}, visible())

	h.TakeDamage(-2)
	assert.Equal(t, 2, h.Health())
	assert.Equal(t, []bool{true, true, false}, visible())

	h.TakeDamage(-10)
	assert.Equal(t, 3, h.MaxHealth())
	assert.Equal(t, 3, h.Health())

	owner = common.Vec3{10, 0, 10}
	h.Follow()
	assert.InDelta(t, 10-float32(1.5/math.Sqrt2)+1, h.Bricks()[1].Transform().Position()[0], 1e-5)

	h.Destroy(nil, nil)
	for _, b := range h.Bricks() {
		assert.True(t, b.MarkedForDeletion())
	}
}

func TestDeletingPlayerDeletesChildren(t *testing.T) {
	floor := NewFloor(mesh.Floor(), common.Vec3{}, 50)
	s := newTestScene(t, floor)
	p := newTestPlayer(2)
	s.AddEntity(p)
	require.Len(t, s.Entities(), 5, "player, target, bar and two bricks")

	p.MarkForDeletion()
	for i := 0; i < 3; i++ {
		s.ProcessDeletedEntities()
	}
	assert.Empty(t, s.Entities())
	assert.Zero(t, s.Organizer().Len())
	assert.False(t, s.Systems().Collision.Contains(p))
}

func TestRightClickSetsDestination(t *testing.T) {
	floor := NewFloor(mesh.Floor(), common.Vec3{}, 50)
	s := newTestScene(t, floor)
	cam := NewTopCamera(common.Vec3{}, 50, 1, 20, 800, 600)
	p := newTestPlayer(3)
	s.AddEntity(cam)
	s.AddEntity(p)

	s.Controls().HandleMouseDown(common.MouseButtonRight, 400, 300)
	assert.True(t, p.Target().Visible())
	assert.InDelta(t, 0, p.Destination().Length(), 1e-3, "the canvas center looks at the camera target")

	s.Controls().HandleMouseDown(common.MouseButtonLeft, 0, 0)
	assert.InDelta(t, 0, p.Destination().Length(), 1e-3)
}

func TestCameraIsClampedToFloor(t *testing.T) {
	floor := NewFloor(mesh.Floor(), common.Vec3{}, 50)
	s := newTestScene(t, floor)
	cam := NewTopCamera(common.Vec3{}, 50, 1, 20, 800, 600)
	s.AddEntity(cam)

	s.Controls().HandleKeyDown(common.KeyUp)
	s.Controls().HandleKeyDown(common.KeyRight)
	for i := 0; i < 100; i++ {
		s.Update(dt)
	}
	target := cam.WorldPosition()
	assert.NotEqual(t, common.Vec3{}, target)
	assert.LessOrEqual(t, math.Abs(float64(target[0])), 25.0)
	assert.LessOrEqual(t, math.Abs(float64(target[2])), 25.0)

	s.Controls().HandleKeyUp(common.KeyUp)
	s.Controls().HandleKeyUp(common.KeyRight)
	s.Update(dt)
	assert.Equal(t, target, cam.WorldPosition())
}

func TestFireballSpawnerFiresFromRim(t *testing.T) {
	target := newTestPlayer(3)
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewFireballSpawner(mesh.Ball(), rng, target, common.Vec3{}, 25, 1, 0, FireballParams{Speed: 10, Radius: 1, SpawnDuration: 0})

	s.Update(0.5)
	assert.Empty(t, s.TakeChildren())
	s.Update(0.5)
	children := s.TakeChildren()
	require.Len(t, children, 1)
	assert.Equal(t, 1, s.Fired())

	f := children[0].(*Fireball)
	start := f.WorldPosition()
	assert.InDelta(t, 25, start.Length(), 1e-4)
	f.Update(1)
	assert.InDelta(t, 15, f.WorldPosition().Length(), 1e-3, "flies straight at the player")

	s.Update(0.75)
	assert.Empty(t, s.TakeChildren(), "zero jitter waits exactly one interval")
	s.Update(0.25)
	assert.Len(t, s.TakeChildren(), 1)
}

func TestPickupSpawnerRespectsCap(t *testing.T) {
	bounds := systems.NewRect(common.Vec3{}, 20, 10)
	s := NewPickupSpawner(mesh.Gem(), mesh.DecalQuad(), rand.New(rand.NewPCG(3, 4)), bounds, 1, 2, 1, -2)

	var spawned []*Pickup
	for i := 0; i < 4; i++ {
		s.Update(1)
		for _, c := range s.TakeChildren() {
			spawned = append(spawned, c.(*Pickup))
		}
	}
	require.Len(t, spawned, 2)
	assert.Equal(t, 2, s.Live())
	for _, p := range spawned {
		assert.True(t, bounds.Contains(p.WorldPosition()))
	}

	spawned[0].MarkForDeletion()
	assert.Equal(t, 1, s.Live())
	s.Update(1)
	assert.Len(t, s.TakeChildren(), 1)
	assert.Equal(t, 2, s.Live())
}

func TestPickupRisesThenHeals(t *testing.T) {
	floor := NewFloor(mesh.Floor(), common.Vec3{}, 50)
	s := newTestScene(t, floor)
	p := newTestPlayer(3)
	pickup := NewPickup(mesh.Gem(), mesh.DecalQuad(), common.Vec3{}, 1, -2)
	s.AddEntity(p)
	p.ResolveCollision(2)
	require.Equal(t, 1, p.Health())

	s.AddEntity(pickup)
	assert.Less(t, pickup.Transform().Position()[1], float32(0), "starts below ground")
	assert.False(t, pickup.shadow.decal.Active())

	s.Update(0.5)
	assert.False(t, pickup.ColliderActive())
	assert.Equal(t, PickupSpawning, pickup.State())
	assert.Equal(t, 1, p.Health())

	s.Update(0.5)
	assert.Equal(t, PickupIdle, pickup.State())
	assert.True(t, pickup.shadow.decal.Active())
	assert.InDelta(t, pickupHover, pickup.Transform().Position()[1], 1e-6)
	assert.Equal(t, 3, p.Health(), "collides on the frame it becomes idle")
	assert.True(t, pickup.MarkedForDeletion())

	s.Update(dt)
	s.Update(dt)
	assert.False(t, contains(s.Entities(), pickup))
	assert.False(t, contains(s.Entities(), pickup.shadow))
}

func TestPickupSpinRamps(t *testing.T) {
	p := NewPickup(mesh.Gem(), mesh.DecalQuad(), common.Vec3{}, 1, -1)
	p.Update(pickupRiseTime)
	require.Equal(t, PickupIdle, p.State())
	assert.Zero(t, p.Spin())
	p.Update(pickupRampTime / 2)
	assert.InDelta(t, pickupMaxSpin/2, p.Spin(), 1e-6)
	p.Update(pickupRampTime)
	assert.InDelta(t, pickupMaxSpin, p.Spin(), 1e-6)
}

func TestLampOrbits(t *testing.T) {
	l := NewLamp(mesh.Ball(), common.Vec3{}, 10, 5, math.Pi/2)
	assert.Equal(t, common.Vec3{10, 5, 0}, l.Light().Position)
	l.Update(1)
	assert.InDelta(t, 0, l.Light().Position[0], 1e-5)
	assert.InDelta(t, 5, l.Light().Position[1], 1e-5)
	assert.InDelta(t, 10, l.Light().Position[2], 1e-5)
	assert.Equal(t, l.Light().Position, *l.Transform().Position())
}

func TestArena(t *testing.T) {
	cfg := config.Default().Arena
	a := NewArena(context.Background(), cfg, mesh.NewLibrary(), rand.New(rand.NewPCG(1, 1)), 800, 600, nil)
	t.Cleanup(a.Scene().Teardown)

	assert.True(t, contains(a.Scene().Entities(), a.Player()))
	assert.True(t, contains(a.Scene().Entities(), a.Player().HealthBar()))
	assert.Equal(t, a.Floor().Bounds().Scaled(boundaryScale), a.Scene().Systems().Boundary.Bounds())
	assert.Len(t, a.Scene().Organizer().Bucket(graphics.KindCamera), 1)
	assert.Len(t, a.Scene().Organizer().Bucket(graphics.KindPointLight), 1)
	assert.False(t, a.GameOver())

	a.Player().ResolveCollision(float32(cfg.PlayerHealth))
	assert.True(t, a.GameOver())
}

func TestFactoryBuildsFreshRounds(t *testing.T) {
	factory := Factory(config.Default().Arena, mesh.NewLibrary(), 800, 600, zap.NewNop())
	g1, err := factory(context.Background())
	require.NoError(t, err)
	g2, err := factory(context.Background())
	require.NoError(t, err)
	t.Cleanup(g1.Scene().Teardown)
	t.Cleanup(g2.Scene().Teardown)
	assert.NotSame(t, g1.Scene(), g2.Scene())
	assert.NotSame(t, g1.(*Arena).Player(), g2.(*Arena).Player())
}
