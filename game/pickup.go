package game

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// PickupState is a phase of the pickup animation.
type PickupState int

const (
	PickupSpawning PickupState = iota
	PickupIdle
)

func (s PickupState) String() string {
	if s == PickupIdle {
		return "idle"
	}
	return "spawning"
}

const (
	pickupRiseTime  = 1.0
	pickupRampTime  = 2.0
	pickupMaxSpin   = 3.0
	pickupHover     = 1.0
	pickupDepth     = 2.0
	pickupScale     = 0.75
	pickupShadowLen = 1.5
)

var (
	pickupStartColor = common.Color{0.1, 0.1, 0.1, 1}
	pickupColor      = common.Color{0.2, 1, 0.4, 1}
	pickupShadow     = common.Color{0, 0, 0, 0.4}
)

// Pickup rises out of the floor, then hovers and spins up. Touching it applies its
// damage to the player; a negative damage heals.
type Pickup struct {
	scene.Base
	state     PickupState
	remaining float32
	spinTime  float32
	ground    common.Vec3
	radius    float32
	damage    float32
	color     common.Color
	body      *graphics.ShadedNormal
	shadow    *pickupShadowDecal
}

var _ systems.Collider = &Pickup{}

// NewPickup creates a spawning pickup over ground.
//
// Parameters:
//   - body: a mesh.LayoutNormal mesh for the pickup itself
//   - decal: a mesh.LayoutColored mesh, usually mesh.DecalQuad, for the ground shadow
//   - ground: floor point the pickup rises from
//   - radius: collision radius
//   - damage: damage applied to the player; negative heals
//
// Returns:
//   - *Pickup: the pickup
func NewPickup(body, decal mesh.Mesh, ground common.Vec3, radius, damage float32) *Pickup {
	p := &Pickup{
		Base:      scene.NewBase(scene.WithPosition(ground.Add(common.Vec3{0, -pickupDepth, 0})), scene.WithScale(pickupScale)),
		remaining: pickupRiseTime,
		ground:    ground,
		radius:    radius,
		damage:    damage,
		color:     pickupStartColor,
	}
	p.body = graphics.NewShadedNormal(body, p.Transform(), &p.color, graphics.WithLabel("Pickup"))
	p.AddGraphics(p.body)
	p.shadow = newPickupShadowDecal(decal, ground)
	p.Spawn(p.shadow)
	return p
}

// State returns the current phase.
func (p *Pickup) State() PickupState {
	return p.state
}

// Spin returns the current angular velocity in radians per second.
func (p *Pickup) Spin() float32 {
	return pickupMaxSpin * common.Clamp(p.spinTime/pickupRampTime, 0, 1)
}

func (p *Pickup) Update(dt float32) {
	switch p.state {
	case PickupSpawning:
		p.remaining -= dt
		if p.remaining <= 0 {
			p.state = PickupIdle
			p.remaining = 0
			p.color = pickupColor
			*p.Transform().Position() = p.ground.Add(common.Vec3{0, pickupHover, 0})
			p.shadow.decal.SetActive(true)
			return
		}
		t := common.SmoothStep(1 - p.remaining/pickupRiseTime)
		p.color = pickupStartColor.Lerp(pickupColor, t)
		*p.Transform().Position() = p.ground.Add(common.Vec3{0, common.Lerp(-pickupDepth, pickupHover, t), 0})
	case PickupIdle:
		p.spinTime += dt
		p.Transform().RotateY(p.Spin() * dt)
	}
}

func (p *Pickup) WorldPosition() common.Vec3 { return p.ground }
func (p *Pickup) Team() systems.Team         { return systems.TeamEnemy }
func (p *Pickup) Radius() float32            { return p.radius }
func (p *Pickup) Damage() float32            { return p.damage }
func (p *Pickup) ColliderActive() bool       { return p.state == PickupIdle }
func (p *Pickup) ResolveCollision(float32)   { p.MarkForDeletion() }

func (p *Pickup) RegisterSystems(s *systems.Systems) {
	s.Collision.Register(p)
}

func (p *Pickup) Destroy(s *systems.Systems, _ *controls.Controls) {
	s.Collision.Remove(p)
	p.shadow.MarkForDeletion()
}

// pickupShadowDecal marks where a pickup sits. It stays hidden while the pickup rises.
type pickupShadowDecal struct {
	scene.Base
	color common.Color
	decal *graphics.Decal
}

func newPickupShadowDecal(m mesh.Mesh, ground common.Vec3) *pickupShadowDecal {
	d := &pickupShadowDecal{
		Base:  scene.NewBase(scene.WithPosition(ground), scene.WithScale(pickupShadowLen)),
		color: pickupShadow,
	}
	d.decal = graphics.NewDecal(m, d.Transform(), &d.color, graphics.WithLabel("Pickup Shadow"), graphics.WithActive(false))
	d.AddGraphics(d.decal)
	return d
}
