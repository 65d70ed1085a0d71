package game

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/scene"
)

// Lamp is a point light circling above the arena center.
type Lamp struct {
	scene.Base
	light  *light.PointLight
	center common.Vec3
	radius float32
	speed  float32
	angle  float32
}

// NewLamp creates a lamp orbiting center at the given radius and height.
//
// Parameters:
//   - gizmo: mesh drawn at the light
//   - center: orbit center on the ground
//   - radius: orbit radius
//   - height: height above center
//   - speed: angular speed in radians per second
//
// Returns:
//   - *Lamp: the lamp
func NewLamp(gizmo mesh.Mesh, center common.Vec3, radius, height, speed float32) *Lamp {
	l := &Lamp{
		Base:   scene.NewBase(),
		center: center.Add(common.Vec3{0, height, 0}),
		radius: radius,
		speed:  speed,
	}
	l.light = light.NewPointLight(
		light.WithColor(1, 0.95, 0.8),
		light.WithIntensity(2),
		light.WithRange(radius*4+height),
	)
	l.place()
	l.AddGraphics(graphics.NewPointLight(l.light, gizmo, graphics.WithLabel("Lamp")))
	return l
}

// Light returns the light the lamp moves.
func (l *Lamp) Light() *light.PointLight {
	return l.light
}

func (l *Lamp) Update(dt float32) {
	l.angle = float32(math.Mod(float64(l.angle+l.speed*dt), 2*math.Pi))
	l.place()
}

func (l *Lamp) place() {
	sin, cos := math.Sincos(float64(l.angle))
	p := l.center.Add(common.Vec3{float32(cos), 0, float32(sin)}.Scale(l.radius))
	l.light.Position = p
	*l.Transform().Position() = p
}
