// Package pipeline describes one render pipeline per drawable technique: the
// shader it runs, the vertex layout it reads and the bind group layouts it binds.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer/shader"
)

// ErrIncomplete is returned by Build when the pipeline has no shader or no bind group layouts.
var ErrIncomplete = errors.New("pipeline: incomplete configuration")

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, also used as its label
	pipelineKey string

	shader           shader.Shader
	vertexLayout     device.VertexLayout
	bindGroupLayouts []device.BindGroupLayout

	// renderPipeline is set by Build
	renderPipeline device.RenderPipeline

	blend             device.BlendMode
	depthWriteEnabled bool
	cullBack          bool
}

// Pipeline defines the interface for a render pipeline configuration and, once
// built, the device pipeline created from it.
type Pipeline interface {
	// PipelineKey returns the unique key of the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader the pipeline runs.
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if unset
	Shader() shader.Shader

	// BindGroupLayouts returns the layouts in group order.
	//
	// Returns:
	//   - []device.BindGroupLayout: the layouts
	BindGroupLayouts() []device.BindGroupLayout

	// Descriptor builds the device descriptor for this configuration.
	//
	// Returns:
	//   - *device.RenderPipelineDescriptor: the descriptor
	Descriptor() *device.RenderPipelineDescriptor

	// Build creates the device pipeline. Calling Build again replaces the handle.
	//
	// Parameters:
	//   - dev: the device
	//
	// Returns:
	//   - error: ErrIncomplete, or the device error
	Build(dev device.Device) error

	// RenderPipeline returns the device pipeline, or nil before Build.
	//
	// Returns:
	//   - device.RenderPipeline: the device pipeline
	RenderPipeline() device.RenderPipeline
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline configuration. Depth writes are enabled and
// blending is off unless options say otherwise.
//
// Parameters:
//   - key: the unique identifier for the pipeline
//   - options: the builder options
//
// Returns:
//   - Pipeline: the pipeline
func NewPipeline(key string, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       key,
		blend:             device.BlendOpaque,
		depthWriteEnabled: true,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) BindGroupLayouts() []device.BindGroupLayout {
	return p.bindGroupLayouts
}

func (p *pipeline) Descriptor() *device.RenderPipelineDescriptor {
	desc := &device.RenderPipelineDescriptor{
		Label:            p.pipelineKey,
		VertexLayout:     p.vertexLayout,
		BindGroupLayouts: p.bindGroupLayouts,
		Blend:            p.blend,
		DepthWrite:       p.depthWriteEnabled,
		CullBack:         p.cullBack,
	}
	if p.shader != nil {
		desc.Source = p.shader.Source()
		desc.VertexEntry = p.shader.VertexEntry()
		desc.FragmentEntry = p.shader.FragmentEntry()
	}
	return desc
}

func (p *pipeline) Build(dev device.Device) error {
	if p.shader == nil || len(p.bindGroupLayouts) == 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, p.pipelineKey)
	}
	rp, err := dev.CreateRenderPipeline(p.Descriptor())
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %s: %w", p.pipelineKey, err)
	}
	p.renderPipeline = rp
	return nil
}

func (p *pipeline) RenderPipeline() device.RenderPipeline {
	return p.renderPipeline
}
