package systems

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCollider struct {
	team     Team
	pos      common.Vec3
	radius   float32
	damage   float32
	active   bool
	received []float32
}

func (f *fakeCollider) WorldPosition() common.Vec3      { return f.pos }
func (f *fakeCollider) Team() Team                      { return f.team }
func (f *fakeCollider) Radius() float32                 { return f.radius }
func (f *fakeCollider) Damage() float32                 { return f.damage }
func (f *fakeCollider) ColliderActive() bool            { return f.active }
func (f *fakeCollider) ResolveCollision(damage float32) { f.received = append(f.received, damage) }

type fakeLeaver struct {
	pos    common.Vec3
	leaves int
}

func (f *fakeLeaver) WorldPosition() common.Vec3 { return f.pos }
func (f *fakeLeaver) OnLeave()                   { f.leaves++ }

type fakeClamped struct {
	pos      common.Vec3
	returned []common.Vec3
}

func (f *fakeClamped) WorldPosition() common.Vec3 { return f.pos }
func (f *fakeClamped) ReturnToWorld(p common.Vec3) {
	f.returned = append(f.returned, p)
	f.pos = p
}

func TestCollisionBoundary(t *testing.T) {
	tests := []struct {
		name     string
		enemyX   float32
		collides bool
	}{
		{"overlapping", 1.5, true},
		{"touching exactly", 2, false},
		{"apart", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSystems()
			player := &fakeCollider{team: TeamPlayer, radius: 1, damage: 0, active: true}
			enemy := &fakeCollider{team: TeamEnemy, pos: common.Vec3{tt.enemyX, 0, 0}, radius: 1, damage: 5, active: true}
			s.Collision.Register(player)
			s.Collision.Register(enemy)
			s.Execute()

			if tt.collides {
				assert.Equal(t, []float32{5}, player.received)
				assert.Equal(t, []float32{0}, enemy.received)
			} else {
				assert.Empty(t, player.received)
				assert.Empty(t, enemy.received)
			}
		})
	}
}

func TestCollisionSkipsInactiveAndSameTeam(t *testing.T) {
	s := NewSystems()
	player := &fakeCollider{team: TeamPlayer, radius: 1, active: true}
	ally := &fakeCollider{team: TeamPlayer, radius: 1, active: true}
	spawning := &fakeCollider{team: TeamEnemy, radius: 1, damage: 3, active: false}
	s.Collision.Register(player)
	s.Collision.Register(ally)
	s.Collision.Register(spawning)
	s.Execute()
	assert.Empty(t, player.received)
	assert.Empty(t, ally.received)
	assert.Empty(t, spawning.received)

	spawning.active = true
	s.Execute()
	assert.Equal(t, []float32{3}, player.received)
	assert.Equal(t, []float32{3}, ally.received)
	assert.Len(t, spawning.received, 2)
}

func TestCollisionNegativeDamageHeals(t *testing.T) {
	s := NewSystems()
	player := &fakeCollider{team: TeamPlayer, radius: 1, active: true}
	pickup := &fakeCollider{team: TeamEnemy, radius: 0.5, damage: -1, active: true}
	s.Collision.Register(player)
	s.Collision.Register(pickup)
	s.Collision.Execute()
	assert.Equal(t, []float32{-1}, player.received)
}

func TestRegistryWarnsOnStaleHandles(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewSystems(WithLogger(zap.New(core)))
	c := &fakeCollider{team: TeamEnemy}

	s.Collision.Register(c)
	s.Collision.Register(c)
	assert.Equal(t, 1, s.Collision.Len())
	s.Collision.Remove(c)
	s.Collision.Remove(c)
	assert.Zero(t, s.Collision.Len())
	assert.False(t, s.Collision.Contains(c))

	s.Boundary.Remove(&fakeLeaver{})
	assert.Equal(t, 1, logs.FilterMessage("item already registered").Len())
	assert.Equal(t, 2, logs.FilterMessage("tried to remove item that is not registered").Len())
}

func TestRegistrySwapRemove(t *testing.T) {
	r := newRegistry[*fakeLeaver]("test", zap.NewNop())
	a, b, c, d := &fakeLeaver{}, &fakeLeaver{}, &fakeLeaver{}, &fakeLeaver{}
	for _, l := range []*fakeLeaver{a, b, c, d} {
		r.register(l)
	}
	r.remove(b)
	assert.Equal(t, []*fakeLeaver{a, d, c}, r.items)
	r.remove(c)
	assert.Equal(t, []*fakeLeaver{a, d}, r.items)
	for i, l := range r.items {
		assert.Equal(t, i, r.index[l])
	}
	r.register(b)
	assert.True(t, r.contains(b))
	assert.Equal(t, 3, r.len())
}

func TestRect(t *testing.T) {
	r := NewRect(common.Vec3{}, 50, 50)
	assert.True(t, r.Contains(common.Vec3{24.9, 100, -24.9}), "height is ignored")
	assert.False(t, r.Contains(common.Vec3{25, 0, 0}), "the edge is outside")
	assert.Equal(t, common.Vec3{25, 3, -25}, r.ClosestValidPoint(common.Vec3{40, 3, -30}))
	assert.Equal(t, common.Vec3{1, 2, 3}, r.ClosestValidPoint(common.Vec3{1, 2, 3}))

	big := r.Scaled(1.5)
	assert.True(t, big.Contains(common.Vec3{30, 0, 0}))
	assert.Equal(t, float32(37.5), big.HalfWidth)
}

func TestBoundaryAndClamp(t *testing.T) {
	floor := NewRect(common.Vec3{}, 10, 10)
	s := NewSystems(WithBoundary(floor.Scaled(1.5)), WithClamp(floor))

	inside := &fakeLeaver{pos: common.Vec3{1, 0, 1}}
	outside := &fakeLeaver{pos: common.Vec3{0, 0, 8}}
	s.Boundary.Register(inside)
	s.Boundary.Register(outside)

	focus := &fakeClamped{pos: common.Vec3{7, 0, 0}}
	still := &fakeClamped{pos: common.Vec3{2, 0, 2}}
	s.Clamp.Register(focus)
	s.Clamp.Register(still)

	s.Execute()
	assert.Zero(t, inside.leaves)
	assert.Equal(t, 1, outside.leaves)
	require.Len(t, focus.returned, 1)
	assert.Equal(t, common.Vec3{5, 0, 0}, focus.returned[0])
	assert.Empty(t, still.returned)

	s.Execute()
	assert.Len(t, focus.returned, 1, "a clamped point is not corrected again")
	assert.Equal(t, 2, outside.leaves)
}

func TestNilBoundsDisableChecks(t *testing.T) {
	s := NewSystems()
	l := &fakeLeaver{pos: common.Vec3{1000, 0, 0}}
	c := &fakeClamped{pos: common.Vec3{1000, 0, 0}}
	s.Boundary.Register(l)
	s.Clamp.Register(c)
	s.Execute()
	assert.Zero(t, l.leaves)
	assert.Empty(t, c.returned)
	assert.Nil(t, s.Boundary.Bounds())
}
