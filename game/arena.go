package game

import (
	"context"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine"
	"github.com/Carmen-Shannon/oxy-arena/engine/config"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"go.uber.org/zap"
)

const (
	// boundaryScale is how far past the floor edge fireballs may fly before they are deleted.
	boundaryScale = 1.5
	pickupRadius  = 1
	lampHeight    = 12
	lampSpeed     = 0.4
)

// Arena is one round: a floor, a player, a camera over the player, fireballs
// fired from the rim and healing pickups. The round is over when the player has
// no health left.
type Arena struct {
	scene     scene.Scene
	camera    *TopCamera
	floor     *Floor
	lamp      *Lamp
	player    *Player
	fireballs *FireballSpawner
	pickups   *PickupSpawner
}

var _ engine.Game = &Arena{}

// NewArena builds a round and adds every entity to a fresh scene.
//
// Parameters:
//   - ctx: parent of the scene's controls
//   - cfg: gameplay tunables
//   - lib: meshes looked up by the mesh.Name* constants
//   - rng: random source for the spawners
//   - width, height: initial canvas size
//   - logger: scene logger
//
// Returns:
//   - *Arena: the round
func NewArena(ctx context.Context, cfg config.Arena, lib *mesh.Library, rng *rand.Rand, width, height int, logger *zap.Logger) *Arena {
	a := &Arena{}
	a.floor = NewFloor(lib.MustGet(mesh.NameFloor), common.Vec3{}, cfg.Size)
	bounds := a.floor.Bounds()
	a.scene = scene.NewScene(ctx, "arena",
		scene.WithLogger(logger),
		scene.WithViewport(width, height),
		scene.WithSystems(
			systems.WithBoundary(bounds.Scaled(boundaryScale)),
			systems.WithClamp(bounds),
		),
	)

	a.camera = NewTopCamera(common.Vec3{}, cfg.CameraDistance, cfg.CameraFov, cfg.CameraSpeed, width, height)
	a.lamp = NewLamp(lib.MustGet(mesh.NameBall), common.Vec3{}, cfg.Size/4, lampHeight, lampSpeed)
	a.player = NewPlayer(
		lib.MustGet(mesh.NameCube),
		lib.MustGet(mesh.NameCube),
		lib.MustGet(mesh.NameDecalQuad),
		common.Vec3{},
		cfg.PlayerSpeed, cfg.PlayerRadius, cfg.PlayerHealth,
	)
	a.fireballs = NewFireballSpawner(lib.MustGet(mesh.NameBall), rng, a.player, common.Vec3{}, cfg.Size/2,
		cfg.FireballInterval, cfg.FireballJitter, FireballParams{
			Speed:         cfg.FireballSpeed,
			Radius:        cfg.FireballRadius,
			Damage:        cfg.FireballDamage,
			SpawnDuration: cfg.SpawnDuration,
		})
	a.pickups = NewPickupSpawner(lib.MustGet(mesh.NameGem), lib.MustGet(mesh.NameDecalQuad), rng, bounds,
		cfg.PickupInterval, cfg.PickupMax, pickupRadius, cfg.PickupHeal)

	for _, e := range []scene.Entity{a.camera, a.floor, a.lamp, a.player, a.fireballs, a.pickups} {
		a.scene.AddEntity(e)
	}
	return a
}

// Factory returns a GameFactory building a new arena per round. Round n seeds
// its random source with (cfg.Seed, n) so a run is reproducible.
//
// Parameters:
//   - cfg: gameplay tunables
//   - lib: the mesh library
//   - width, height: canvas size until the engine reports the real one
//   - logger: handed to every scene
//
// Returns:
//   - engine.GameFactory: the factory
func Factory(cfg config.Arena, lib *mesh.Library, width, height int, logger *zap.Logger) engine.GameFactory {
	var round uint64
	return func(ctx context.Context) (engine.Game, error) {
		rng := rand.New(rand.NewPCG(uint64(cfg.Seed), round))
		round++
		logger.Info("building arena", zap.Uint64("round", round))
		return NewArena(ctx, cfg, lib, rng, width, height, logger), nil
	}
}

func (a *Arena) Scene() scene.Scene {
	return a.scene
}

// GameOver reports whether the player has run out of health.
func (a *Arena) GameOver() bool {
	return a.player.Health() <= 0
}

func (a *Arena) Player() *Player                   { return a.player }
func (a *Arena) Camera() *TopCamera                { return a.camera }
func (a *Arena) Floor() *Floor                     { return a.floor }
func (a *Arena) Lamp() *Lamp                       { return a.lamp }
func (a *Arena) FireballSpawner() *FireballSpawner { return a.fireballs }
func (a *Arena) PickupSpawner() *PickupSpawner     { return a.pickups }
