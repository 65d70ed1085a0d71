package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allNames = []string{NameSimple, NameDecal, NameShadedNormal, NameDecoratedShading, NamePointLight}

func TestEmbeddedShadersCompile(t *testing.T) {
	for _, name := range allNames {
		t.Run(name, func(t *testing.T) {
			s, err := Load(name)
			require.NoError(t, err)
			assert.Equal(t, "vs_main", s.VertexEntry())
			assert.Equal(t, "fs_main", s.FragmentEntry())
			assert.NotContains(t, s.Source(), includeDirective)
			require.NoError(t, Validate(s))
		})
	}
}

func TestEmbeddedShaderBindings(t *testing.T) {
	tests := []struct {
		name string
		want [][2]int
	}{
		{NameSimple, [][2]int{{0, 0}, {1, 0}}},
		{NameDecal, [][2]int{{0, 0}, {1, 0}, {1, 1}}},
		{NameShadedNormal, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 0}}},
		{NameDecoratedShading, [][2]int{{0, 0}, {1, 0}, {1, 1}}},
		{NamePointLight, [][2]int{{0, 0}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.name)
			require.NoError(t, err)
			var got [][2]int
			for _, b := range s.Bindings() {
				got = append(got, [2]int{b.Group, b.Binding})
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "viewProjection", s.Bindings()[0].Name)
		})
	}
}

func TestPreProcessorInclude(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("// @oxy:include point_light\n//   @oxy:include point_light\nfn f() {}\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct PointLight"))
	assert.Equal(t, []string{IncludePointLight}, pp.Includes())

	out, err = pp.Process("fn f() {}\n")
	require.NoError(t, err)
	assert.Equal(t, "fn f() {}\n", out)
	assert.Empty(t, pp.Includes())
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown", "// @oxy:include teapot\n"},
		{"no argument", "// @oxy:include\n"},
		{"two arguments", "// @oxy:include point_light extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestNewShaderRequiresEntryPoints(t *testing.T) {
	_, err := NewShader("half", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Load("teapot")
	require.Error(t, err)
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	s, err := NewShader("broken", "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(; }\n@fragment fn fs() {}\n")
	require.NoError(t, err)
	require.ErrorIs(t, Validate(s), ErrInvalid)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* c */ d */ e // f\ng"
	assert.Equal(t, "a  e \ng\n", stripComments(src))
}
