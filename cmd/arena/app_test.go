package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/engine/loader"
	"github.com/stretchr/testify/assert"
)

func TestMeshSources(t *testing.T) {
	names := func(sources []loader.Source) []string {
		var out []string
		for _, s := range sources {
			out = append(out, s.Name)
		}
		return out
	}

	obj, gltf := meshSources(map[string]string{
		"gem":   "a/gem.obj",
		"ball":  "b/ball.OBJ",
		"floor": "c/floor.glb",
		"cube":  "d/cube.gltf",
	})
	assert.Equal(t, []string{"ball", "gem"}, names(obj))
	assert.Equal(t, []string{"cube", "floor"}, names(gltf))

	obj, gltf = meshSources(nil)
	assert.Empty(t, obj)
	assert.Empty(t, gltf)
}
