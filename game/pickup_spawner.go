package game

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// PickupSpawner drops a pickup at a random point of the floor every interval,
// as long as fewer than max of its pickups are alive.
type PickupSpawner struct {
	scene.Base
	body     mesh.Mesh
	decal    mesh.Mesh
	rng      *rand.Rand
	bounds   systems.Rect
	interval float32
	max      int
	radius   float32
	damage   float32
	wait     float32
	live     []*Pickup
}

// NewPickupSpawner creates a spawner for bounds.
//
// Parameters:
//   - body, decal: meshes handed to every pickup
//   - rng: random source for positions
//   - bounds: where pickups may appear
//   - interval: seconds between spawns
//   - limit: cap on live pickups
//   - radius: pickup collision radius
//   - damage: pickup damage; negative heals
//
// Returns:
//   - *PickupSpawner: the spawner
func NewPickupSpawner(body, decal mesh.Mesh, rng *rand.Rand, bounds systems.Rect, interval float32, limit int, radius, damage float32) *PickupSpawner {
	return &PickupSpawner{
		Base:     scene.NewBase(scene.WithPosition(bounds.Center)),
		body:     body,
		decal:    decal,
		rng:      rng,
		bounds:   bounds,
		interval: interval,
		max:      limit,
		radius:   radius,
		damage:   damage,
		wait:     interval,
	}
}

// Live returns the number of spawned pickups not yet deleted.
func (s *PickupSpawner) Live() int {
	s.prune()
	return len(s.live)
}

func (s *PickupSpawner) Update(dt float32) {
	s.wait -= dt
	if s.wait > 0 {
		return
	}
	s.wait = s.interval
	if s.Live() >= s.max {
		return
	}
	// keep a margin so the pickup is reachable without clamping
	margin := s.radius
	x := s.bounds.Center[0] + (s.rng.Float32()*2-1)*max(0, s.bounds.HalfWidth-margin)
	z := s.bounds.Center[2] + (s.rng.Float32()*2-1)*max(0, s.bounds.HalfDepth-margin)
	p := NewPickup(s.body, s.decal, common.Vec3{x, 0, z}, s.radius, s.damage)
	s.live = append(s.live, p)
	s.Spawn(p)
}

func (s *PickupSpawner) prune() {
	n := 0
	for _, p := range s.live {
		if !p.MarkedForDeletion() {
			s.live[n] = p
			n++
		}
	}
	clear(s.live[n:])
	s.live = s.live[:n]
}
