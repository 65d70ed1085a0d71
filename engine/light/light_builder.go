package light

import "github.com/Carmen-Shannon/oxy-arena/common"

// LightBuilderOption is a function that configures a PointLight during construction.
type LightBuilderOption func(*PointLight)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a PointLight
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *PointLight) {
		l.Position = p
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red component
//   - g: the green component
//   - b: the blue component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a PointLight
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *PointLight) {
		l.Color = common.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity of the light.
//
// Parameters:
//   - intensity: the intensity multiplier
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a PointLight
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *PointLight) {
		l.Intensity = intensity
	}
}

// WithRange is an option builder that sets the attenuation cutoff distance.
// Negative values are clamped to zero.
//
// Parameters:
//   - r: the range
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a PointLight
func WithRange(r float32) LightBuilderOption {
	return func(l *PointLight) {
		l.Range = max(r, 0)
	}
}

// WithEnabled is an option builder that sets whether the light contributes.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a PointLight
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *PointLight) {
		l.Enabled = enabled
	}
}
