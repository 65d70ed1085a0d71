package light

import "github.com/Carmen-Shannon/oxy-arena/common"

// PointLight is a light that emits in all directions from a position and
// attenuates to zero at Range. Entities own their PointLight and move it by
// writing Position; the graphics layer reads it every frame.
type PointLight struct {
	Position  common.Vec3
	Color     common.Vec3
	Intensity float32
	Range     float32
	Enabled   bool
}

// NewPointLight creates a white, enabled point light at the origin with the
// given options applied.
//
// Parameters:
//   - options: a variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - *PointLight: the new light
func NewPointLight(options ...LightBuilderOption) *PointLight {
	l := &PointLight{
		Color:     common.Vec3{1, 1, 1},
		Intensity: 1,
		Range:     10,
		Enabled:   true,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// GPU converts the light into its uniform layout. A disabled light keeps its
// position and color but contributes nothing.
//
// Returns:
//   - GPUPointLight: the GPU representation
func (l *PointLight) GPU() GPUPointLight {
	g := GPUPointLight{
		Position:  l.Position,
		Range:     l.Range,
		Color:     l.Color,
		Intensity: l.Intensity,
	}
	if !l.Enabled {
		g.Intensity = 0
	}
	return g
}

// Attenuation returns the light's falloff factor at distance d, matching the
// shaded-normal shader: a squared smooth falloff reaching zero at Range.
//
// Parameters:
//   - d: distance from the light
//
// Returns:
//   - float32: factor in [0, 1]
func (l *PointLight) Attenuation(d float32) float32 {
	if l.Range <= 0 || d >= l.Range {
		return 0
	}
	f := 1 - d/l.Range
	return f * f
}
