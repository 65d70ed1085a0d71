package game

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// Player walks in a straight line to the last right-clicked ground point.
type Player struct {
	scene.Base
	speed       float32
	radius      float32
	destination common.Vec3
	moving      bool
	target      *Target
	healthBar   *HealthBar
}

var (
	_ systems.Collider            = &Player{}
	_ controls.WorldPointAcceptor = &Player{}
)

// NewPlayer creates a player at position. The destination marker and the health
// bar are spawned as children.
//
// Parameters:
//   - body: mesh drawn for the player
//   - brick: mesh drawn for each health brick
//   - marker: mesh drawn for the destination marker
//   - position: the starting point
//   - speed: walking speed in units per second
//   - radius: collision radius
//   - health: maximum and starting health
//
// Returns:
//   - *Player: the player
func NewPlayer(body, brick, marker mesh.Mesh, position common.Vec3, speed, radius float32, health int) *Player {
	p := &Player{
		Base:        scene.NewBase(scene.WithPosition(position)),
		speed:       speed,
		radius:      radius,
		destination: position,
	}
	p.AddGraphics(graphics.NewSimple(body, p.Transform(), graphics.WithLabel("Player")))
	p.target = NewTarget(marker, position)
	p.healthBar = NewHealthBar(brick, health, p.Transform().Position())
	p.Spawn(p.target, p.healthBar)
	return p
}

// AcceptWorldPoint sets a new destination.
func (p *Player) AcceptWorldPoint(dest common.Vec3) {
	p.destination = dest
	p.moving = dest.Sub(*p.Transform().Position()).LengthSq() > 0
	if p.moving {
		p.Transform().FaceHorizontal(dest.Sub(*p.Transform().Position()))
	}
	p.target.SetLocation(dest)
}

func (p *Player) Update(dt float32) {
	if p.moving {
		pos := p.Transform().Position()
		to := p.destination.Sub(*pos)
		step := p.speed * dt
		if step*step >= to.LengthSq() {
			*pos = p.destination
			p.moving = false
		} else {
			p.Transform().Translate(to.Normalize().Scale(step))
		}
	}
	p.healthBar.Follow()
}

// Destination returns where the player is walking to.
func (p *Player) Destination() common.Vec3 {
	return p.destination
}

// Moving reports whether the player has not reached its destination yet.
func (p *Player) Moving() bool {
	return p.moving
}

// Health returns the remaining health.
func (p *Player) Health() int {
	return p.healthBar.Health()
}

// HealthBar returns the bar spawned for the player.
func (p *Player) HealthBar() *HealthBar {
	return p.healthBar
}

// Target returns the destination marker.
func (p *Player) Target() *Target {
	return p.target
}

func (p *Player) WorldPosition() common.Vec3 { return *p.Transform().Position() }
func (p *Player) Team() systems.Team         { return systems.TeamPlayer }
func (p *Player) Radius() float32            { return p.radius }
func (p *Player) Damage() float32            { return 0 }
func (p *Player) ColliderActive() bool       { return true }

// ResolveCollision applies damage to the health bar. Negative damage heals.
func (p *Player) ResolveCollision(damage float32) {
	p.healthBar.TakeDamage(damage)
}

func (p *Player) AttachControls(c *controls.Controls) {
	c.AddWorldPointAcceptor(p)
}

func (p *Player) RegisterSystems(s *systems.Systems) {
	s.Collision.Register(p)
}

func (p *Player) Destroy(s *systems.Systems, c *controls.Controls) {
	c.RemoveWorldPointAcceptor(p)
	s.Collision.Remove(p)
	p.target.MarkForDeletion()
	p.healthBar.MarkForDeletion()
}

// Target marks the player's destination on the ground. It is hidden until the
// first destination is set.
type Target struct {
	scene.Base
	color  common.Color
	marker *graphics.Decal
}

// NewTarget creates a hidden marker at position.
func NewTarget(m mesh.Mesh, position common.Vec3) *Target {
	t := &Target{
		Base:  scene.NewBase(scene.WithPosition(position), scene.WithScale(0.5)),
		color: common.Color{1, 1, 1, 0.6},
	}
	t.marker = graphics.NewDecal(m, t.Transform(), &t.color, graphics.WithLabel("Target"), graphics.WithActive(false))
	t.AddGraphics(t.marker)
	return t
}

// SetLocation moves the marker and shows it.
func (t *Target) SetLocation(p common.Vec3) {
	*t.Transform().Position() = p
	t.marker.SetActive(true)
}

// Visible reports whether the marker is drawn.
func (t *Target) Visible() bool {
	return t.marker.Active()
}
