package game

import (
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
)

// FireballSpawner fires a fireball from a random point on the arena rim at the
// player every interval + rand*jitter seconds.
type FireballSpawner struct {
	scene.Base
	mesh     mesh.Mesh
	rng      *rand.Rand
	target   systems.Positioned
	rim      float32
	interval float32
	jitter   float32
	params   FireballParams
	wait     float32
	fired    int
}

// NewFireballSpawner creates a spawner. The first fireball is fired after one interval.
//
// Parameters:
//   - m: mesh for every fireball
//   - rng: random source for angles and jitter
//   - target: what the fireballs are aimed at
//   - center: center of the rim circle
//   - rim: radius of the rim circle
//   - interval: minimum seconds between fireballs
//   - jitter: random extra seconds added to each wait
//   - params: fireball tunables
//
// Returns:
//   - *FireballSpawner: the spawner
func NewFireballSpawner(m mesh.Mesh, rng *rand.Rand, target systems.Positioned, center common.Vec3, rim, interval, jitter float32, params FireballParams) *FireballSpawner {
	return &FireballSpawner{
		Base:     scene.NewBase(scene.WithPosition(center)),
		mesh:     m,
		rng:      rng,
		target:   target,
		rim:      rim,
		interval: interval,
		jitter:   jitter,
		params:   params,
		wait:     interval,
	}
}

// Fired returns the number of fireballs spawned so far.
func (s *FireballSpawner) Fired() int {
	return s.fired
}

func (s *FireballSpawner) Update(dt float32) {
	s.wait -= dt
	if s.wait > 0 {
		return
	}
	angle := s.rng.Float64() * 2 * math.Pi
	center := *s.Transform().Position()
	from := center.Add(common.Vec3{float32(math.Cos(angle)), 0, float32(math.Sin(angle))}.Scale(s.rim))
	s.Spawn(NewFireball(s.mesh, from, s.target.WorldPosition().Sub(from), s.params))
	s.fired++
	s.wait = s.interval + s.rng.Float32()*s.jitter
}
