package systems

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"go.uber.org/zap"
)

// Team decides which colliders test against each other.
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// Positioned is anything with a world position.
type Positioned interface {
	WorldPosition() common.Vec3
}

// Collider is an entity that takes part in player/enemy collision.
type Collider interface {
	Positioned

	// Team returns the side the collider is on. It must not change while registered.
	Team() Team

	// Radius returns the collision radius.
	Radius() float32

	// Damage returns the damage dealt to the other side. Negative values heal.
	Damage() float32

	// ColliderActive reports whether the collider is tested this frame.
	ColliderActive() bool

	// ResolveCollision is called with the other side's damage on contact.
	ResolveCollision(damage float32)
}

// CollisionSystem tests every active player collider against every active enemy
// collider. Two colliders touch when the distance between them is strictly less
// than the sum of their radii.
type CollisionSystem struct {
	players *registry[Collider]
	enemies *registry[Collider]
}

func newCollisionSystem(logger *zap.Logger) *CollisionSystem {
	return &CollisionSystem{
		players: newRegistry[Collider]("collision/player", logger),
		enemies: newRegistry[Collider]("collision/enemy", logger),
	}
}

// Register adds c to its team.
func (s *CollisionSystem) Register(c Collider) {
	s.team(c).register(c)
}

// Remove drops c from its team.
func (s *CollisionSystem) Remove(c Collider) {
	s.team(c).remove(c)
}

// Contains reports whether c is registered.
func (s *CollisionSystem) Contains(c Collider) bool {
	return s.team(c).contains(c)
}

// Len returns the number of registered colliders on both teams.
func (s *CollisionSystem) Len() int {
	return s.players.len() + s.enemies.len()
}

func (s *CollisionSystem) team(c Collider) *registry[Collider] {
	switch t := c.Team(); t {
	case TeamPlayer:
		return s.players
	case TeamEnemy:
		return s.enemies
	default:
		panic(fmt.Sprintf("systems: unknown team %s", t))
	}
}

// Execute resolves every contact once. Both sides of a contact receive the other's damage.
func (s *CollisionSystem) Execute() {
	for _, p := range s.players.items {
		if !p.ColliderActive() {
			continue
		}
		for _, e := range s.enemies.items {
			if !e.ColliderActive() {
				continue
			}
			if Touching(p, e) {
				p.ResolveCollision(e.Damage())
				e.ResolveCollision(p.Damage())
			}
		}
	}
}

// Touching reports whether a and b overlap: distance < ra + rb.
func Touching(a, b Collider) bool {
	r := a.Radius() + b.Radius()
	return a.WorldPosition().DistanceSq(b.WorldPosition()) < r*r
}
