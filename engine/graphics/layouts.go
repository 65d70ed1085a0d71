package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/light"
)

// Uniform sizes in bytes.
const (
	MatrixSize = 64
	ColorSize  = 16
	LightSize  = light.GPUPointLightSize
)

// Layouts holds the bind-group layouts shared by every component and pipeline.
type Layouts struct {
	// Camera is the view-projection matrix, bound at group 0 of every pipeline.
	Camera device.BindGroupLayout
	// Transform is a single model matrix (simple technique).
	Transform device.BindGroupLayout
	// TransformColor is a model matrix at binding 0 and a color at binding 1
	// (decal, shaded-normal and decorated-shading techniques).
	TransformColor device.BindGroupLayout
	// PointLight is the 32 byte point light uniform.
	PointLight device.BindGroupLayout
}

// NewLayouts creates the shared layouts on dev.
//
// Parameters:
//   - dev: the device
//
// Returns:
//   - *Layouts: the layouts
//   - error: any device error
func NewLayouts(dev device.Device) (*Layouts, error) {
	both := device.ShaderStageVertex | device.ShaderStageFragment
	descs := []struct {
		dst  *device.BindGroupLayout
		desc device.BindGroupLayoutDescriptor
	}{
		{nil, device.BindGroupLayoutDescriptor{
			Label:   "Camera Bind Group Layout",
			Entries: []device.BindGroupLayoutEntry{{Binding: 0, Visibility: device.ShaderStageVertex, MinBindingSize: MatrixSize}},
		}},
		{nil, device.BindGroupLayoutDescriptor{
			Label:   "Transform Bind Group Layout",
			Entries: []device.BindGroupLayoutEntry{{Binding: 0, Visibility: device.ShaderStageVertex, MinBindingSize: MatrixSize}},
		}},
		{nil, device.BindGroupLayoutDescriptor{
			Label: "Transform and Color Bind Group Layout",
			Entries: []device.BindGroupLayoutEntry{
				{Binding: 0, Visibility: both, MinBindingSize: MatrixSize},
				{Binding: 1, Visibility: both, MinBindingSize: ColorSize},
			},
		}},
		{nil, device.BindGroupLayoutDescriptor{
			Label:   "Point Light Bind Group Layout",
			Entries: []device.BindGroupLayoutEntry{{Binding: 0, Visibility: both, MinBindingSize: LightSize}},
		}},
	}

	l := &Layouts{}
	descs[0].dst = &l.Camera
	descs[1].dst = &l.Transform
	descs[2].dst = &l.TransformColor
	descs[3].dst = &l.PointLight

	for _, d := range descs {
		layout, err := dev.CreateBindGroupLayout(&d.desc)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", d.desc.Label, err)
		}
		*d.dst = layout
	}
	return l, nil
}
