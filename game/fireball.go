package game

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// FireballState is a phase of the fireball animation.
type FireballState int

const (
	FireballSpawning FireballState = iota
	FireballActive
)

func (s FireballState) String() string {
	if s == FireballActive {
		return "active"
	}
	return "spawning"
}

// fireballSpin is the angular velocity of an active fireball in radians per second.
const fireballSpin = 4

var fireballColor = common.Color{0, 0.5, 0, 0.5}

// Fireball grows in place for its spawn duration, then flies in a straight line
// and deletes itself on contact or when it leaves the arena.
type Fireball struct {
	scene.Base
	state     FireballState
	remaining float32
	duration  float32
	direction common.Vec3
	speed     float32
	radius    float32
	damage    float32
	color     common.Color
}

var (
	_ systems.Collider = &Fireball{}
	_ systems.Leaver   = &Fireball{}
)

// FireballParams are the tunables of a fireball.
type FireballParams struct {
	Speed         float32
	Radius        float32
	Damage        float32
	SpawnDuration float32
}

// NewFireball creates a spawning fireball at position flying along direction.
//
// Parameters:
//   - m: the fireball mesh
//   - position: where it appears
//   - direction: travel direction; need not be normalized
//   - p: speed, radius, damage and spawn duration
//
// Returns:
//   - *Fireball: the fireball
func NewFireball(m mesh.Mesh, position, direction common.Vec3, p FireballParams) *Fireball {
	f := &Fireball{
		Base:      scene.NewBase(scene.WithPosition(position), scene.WithScale(0)),
		remaining: p.SpawnDuration,
		duration:  p.SpawnDuration,
		direction: direction.Horizontal().Normalize(),
		speed:     p.Speed,
		radius:    p.Radius,
		damage:    p.Damage,
	}
	f.AddGraphics(graphics.NewDecoratedShading(m, f.Transform(), &f.color, graphics.WithLabel("Fireball")))
	if f.duration <= 0 {
		f.activate()
	}
	return f
}

// State returns the current phase.
func (f *Fireball) State() FireballState {
	return f.state
}

// Color returns the current tint.
func (f *Fireball) Color() common.Color {
	return f.color
}

func (f *Fireball) Update(dt float32) {
	switch f.state {
	case FireballSpawning:
		f.remaining -= dt
		if f.remaining <= 0 {
			f.activate()
			return
		}
		t := common.SmoothStep(1 - f.remaining/f.duration)
		f.Transform().SetScale(f.radius * t)
		f.color = common.Color{}.Lerp(fireballColor, t)
	case FireballActive:
		f.Transform().Translate(f.direction.Scale(f.speed * dt))
		f.Transform().RotateY(fireballSpin * dt)
	}
}

func (f *Fireball) activate() {
	f.state = FireballActive
	f.remaining = 0
	f.Transform().SetScale(f.radius)
	f.color = fireballColor
}

func (f *Fireball) WorldPosition() common.Vec3 { return *f.Transform().Position() }
func (f *Fireball) Team() systems.Team         { return systems.TeamEnemy }
func (f *Fireball) Radius() float32            { return f.radius }
func (f *Fireball) Damage() float32            { return f.damage }
func (f *Fireball) ColliderActive() bool       { return f.state == FireballActive }
func (f *Fireball) ResolveCollision(float32)   { f.MarkForDeletion() }
func (f *Fireball) OnLeave()                   { f.MarkForDeletion() }

func (f *Fireball) RegisterSystems(s *systems.Systems) {
	s.Collision.Register(f)
	s.Boundary.Register(f)
}

func (f *Fireball) Destroy(s *systems.Systems, _ *controls.Controls) {
	s.Collision.Remove(f)
	s.Boundary.Remove(f)
}
