package scene

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type probe struct {
	Base
	name    string
	journal *[]string

	updates    int
	destroyed  int
	controls   *controls.Controls
	systems    *systems.Systems
	size       [2]int
	spawnLater []Entity
}

func newProbe(name string, journal *[]string) *probe {
	p := &probe{Base: NewBase(), name: name, journal: journal}
	p.AddGraphics(graphics.NewSimple(mesh.ColoredCube(), p.Transform(), graphics.WithLabel(name)))
	return p
}

func (p *probe) Update(dt float32) {
	p.updates++
	*p.journal = append(*p.journal, p.name)
	if len(p.spawnLater) > 0 {
		p.Spawn(p.spawnLater...)
		p.spawnLater = nil
	}
}

func (p *probe) AttachControls(c *controls.Controls)          { p.controls = c }
func (p *probe) RegisterSystems(s *systems.Systems)           { p.systems = s }
func (p *probe) OnResize(width, height int)                   { p.size = [2]int{width, height} }
func (p *probe) Destroy(*systems.Systems, *controls.Controls) { p.destroyed++ }

// mover walks onto the origin during Update and collides as an enemy.
type mover struct {
	Base
	hits []float32
}

func (m *mover) Update(float32)                     { *m.Transform().Position() = common.Vec3{} }
func (m *mover) RegisterSystems(s *systems.Systems) { s.Collision.Register(m) }
func (m *mover) WorldPosition() common.Vec3         { return *m.Transform().Position() }
func (m *mover) Team() systems.Team                 { return systems.TeamEnemy }
func (m *mover) Radius() float32                    { return 1 }
func (m *mover) Damage() float32                    { return 3 }
func (m *mover) ColliderActive() bool               { return true }
func (m *mover) ResolveCollision(d float32)         { m.hits = append(m.hits, d) }

type anchor struct {
	Base
	hits []float32
}

func (a *anchor) RegisterSystems(s *systems.Systems) { s.Collision.Register(a) }
func (a *anchor) WorldPosition() common.Vec3         { return *a.Transform().Position() }
func (a *anchor) Team() systems.Team                 { return systems.TeamPlayer }
func (a *anchor) Radius() float32                    { return 1 }
func (a *anchor) Damage() float32                    { return 0 }
func (a *anchor) ColliderActive() bool               { return true }
func (a *anchor) ResolveCollision(d float32)         { a.hits = append(a.hits, d) }

func names(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if p, ok := e.(*probe); ok {
			out = append(out, p.name)
		}
	}
	return out
}

func TestAddEntityAttachesAndLiftsChildren(t *testing.T) {
	var journal []string
	s := NewScene(context.Background(), "test")

	root := newProbe("root", &journal)
	child := newProbe("child", &journal)
	grandchild := newProbe("grandchild", &journal)
	child.Spawn(grandchild)
	root.Spawn(child)

	s.AddEntity(root)
	assert.Equal(t, []string{"root", "child", "grandchild"}, names(s.Entities()))
	assert.Same(t, s.Controls(), grandchild.controls)
	assert.Same(t, s.Systems(), grandchild.systems)
	assert.Equal(t, 3, s.Organizer().Len())
	assert.Equal(t, 3, s.Organizer().Pending())
	assert.Empty(t, root.TakeChildren(), "the child stack is drained on add")

	s.AddEntity(nil)
	assert.Len(t, s.Entities(), 3)
}

func TestCompactionKeepsSurvivorOrder(t *testing.T) {
	var journal []string
	s := NewScene(context.Background(), "test")
	a, b, c, d := newProbe("a", &journal), newProbe("b", &journal), newProbe("c", &journal), newProbe("d", &journal)
	for _, e := range []Entity{a, b, c, d} {
		s.AddEntity(e)
	}

	b.MarkForDeletion()
	d.MarkForDeletion()
	assert.Equal(t, 2, s.ProcessDeletedEntities())
	assert.Equal(t, []string{"a", "c"}, names(s.Entities()))

	for _, gone := range []*probe{b, d} {
		assert.Equal(t, 1, gone.destroyed)
		assert.False(t, s.Organizer().Contains(gone.Graphics()[0]))
		assert.Equal(t, graphics.StateDestroyed, gone.Graphics()[0].State())
	}
	assert.Equal(t, []string{"a", "c"}, func() []string {
		var out []string
		for _, g := range s.Organizer().Bucket(graphics.KindSimple) {
			out = append(out, g.Label())
		}
		return out
	}())

	assert.Zero(t, s.ProcessDeletedEntities())
	assert.Equal(t, 1, b.destroyed, "the destructor hook runs exactly once")
}

func TestUpdateSkipsRemovedAndDefersSpawned(t *testing.T) {
	var journal []string
	s := NewScene(context.Background(), "test")
	keep := newProbe("keep", &journal)
	drop := newProbe("drop", &journal)
	late := newProbe("late", &journal)
	s.AddEntity(keep)
	s.AddEntity(drop)

	drop.MarkForDeletion()
	keep.spawnLater = []Entity{late}
	s.Update(0.016)

	assert.Equal(t, []string{"keep"}, journal, "removed entities are never updated")
	assert.Zero(t, drop.updates)
	assert.NotContains(t, names(s.Entities()), "late", "spawned during update, lifted next frame")

	journal = journal[:0]
	s.Update(0.016)
	assert.Equal(t, []string{"keep", "late"}, journal)
	assert.Equal(t, []string{"keep", "late"}, names(s.Entities()))
	assert.Same(t, s.Controls(), late.controls)
}

func TestSystemsRunAfterUpdates(t *testing.T) {
	s := NewScene(context.Background(), "test")
	player := &anchor{Base: NewBase()}
	enemy := &mover{Base: NewBase(WithPosition(common.Vec3{10, 0, 0}))}
	s.AddEntity(player)
	s.AddEntity(enemy)

	s.Update(0.016)
	assert.Equal(t, []float32{3}, player.hits)
	assert.Equal(t, []float32{0}, enemy.hits)
}

func TestOnResizeForwards(t *testing.T) {
	var journal []string
	s := NewScene(context.Background(), "test", WithViewport(10, 10))
	p := newProbe("p", &journal)
	s.AddEntity(p)

	s.OnResize(640, 480)
	assert.Equal(t, [2]int{640, 480}, p.size)
	w, h := s.Controls().Viewport()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	w, h = s.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestTeardown(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var journal []string
	s := NewScene(context.Background(), "test", WithLogger(zap.New(core)))
	a, b := newProbe("a", &journal), newProbe("b", &journal)
	s.AddEntity(a)
	s.AddEntity(b)

	s.Teardown()
	s.Teardown()
	assert.True(t, s.Controls().Aborted())
	assert.Empty(t, s.Entities())
	assert.Zero(t, s.Organizer().Len())
	assert.Equal(t, 1, a.destroyed)
	assert.Equal(t, 1, b.destroyed)

	s.AddEntity(newProbe("c", &journal))
	s.Update(0.016)
	assert.Empty(t, s.Entities())
	assert.Empty(t, journal)
	assert.Equal(t, 1, logs.FilterMessage("tried to add entity to a torn down scene").Len())
}

func TestParentCancellationAbortsControls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScene(ctx, "test")
	cancel()
	assert.True(t, s.Controls().Aborted())
}

func TestNewScenePanicsWithoutContext(t *testing.T) {
	//nolint:staticcheck
	require.Panics(t, func() { NewScene(nil, "test") })
}

func TestBaseOptions(t *testing.T) {
	b := NewBase(WithPosition(common.Vec3{1, 2, 3}), WithScale(2))
	assert.Equal(t, common.Vec3{1, 2, 3}, *b.Transform().Position())
	assert.InDelta(t, 2, b.Transform().Scale(), 1e-6)
	first, second := NewBase(), NewBase()
	assert.NotEqual(t, first.ID(), second.ID())
	assert.False(t, b.MarkedForDeletion())
	b.MarkForDeletion()
	assert.True(t, b.MarkedForDeletion())
}
