package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-arena/engine/renderer/shader"
)

// pipelineFor returns the configuration for kind. Group 0 is always the camera.
// The camera kind is bound, not drawn, and has no pipeline.
func pipelineFor(kind graphics.Kind, l *graphics.Layouts) (name string, options []pipeline.PipelineBuilderOption) {
	switch kind {
	case graphics.KindCamera:
		return "", nil
	case graphics.KindSimple:
		return shader.NameSimple, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayout(mesh.LayoutColored.VertexLayout()),
			pipeline.WithBindGroupLayouts(l.Camera, l.Transform),
		}
	case graphics.KindDecal:
		return shader.NameDecal, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayout(mesh.LayoutColored.VertexLayout()),
			pipeline.WithBindGroupLayouts(l.Camera, l.TransformColor),
			pipeline.WithBlend(device.BlendAlpha),
			pipeline.WithDepthWriteEnabled(false),
		}
	case graphics.KindShadedNormal:
		return shader.NameShadedNormal, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayout(mesh.LayoutNormal.VertexLayout()),
			pipeline.WithBindGroupLayouts(l.Camera, l.TransformColor, l.PointLight),
		}
	case graphics.KindDecoratedShading:
		return shader.NameDecoratedShading, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayout(mesh.LayoutColored.VertexLayout()),
			pipeline.WithBindGroupLayouts(l.Camera, l.TransformColor),
			pipeline.WithBlend(device.BlendAdditive),
		}
	case graphics.KindPointLight:
		return shader.NamePointLight, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayout(mesh.LayoutColored.VertexLayout()),
			pipeline.WithBindGroupLayouts(l.Camera, l.PointLight),
		}
	default:
		panic(fmt.Sprintf("renderer: no pipeline for %s", kind))
	}
}

// buildPipelines loads, optionally validates, and builds one pipeline per drawn kind.
func buildPipelines(dev device.Device, l *graphics.Layouts, validate bool) (map[graphics.Kind]pipeline.Pipeline, error) {
	out := make(map[graphics.Kind]pipeline.Pipeline, len(graphics.DrawOrder))
	for _, kind := range graphics.DrawOrder {
		name, options := pipelineFor(kind, l)
		s, err := shader.Load(name)
		if err != nil {
			return nil, err
		}
		if validate {
			if err := shader.Validate(s); err != nil {
				return nil, err
			}
		}
		p := pipeline.NewPipeline(kind.String()+" Pipeline", append(options, pipeline.WithShader(s))...)
		if err := p.Build(dev); err != nil {
			return nil, err
		}
		out[kind] = p
	}
	return out, nil
}
