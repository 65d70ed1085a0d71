package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadText = `# a unit quad
o quad
v -1 0 -1
v  1 0 -1
v  1 0  1
v -1 0  1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseVertices(t *testing.T) {
	vertices, count, err := ParseVertices(strings.NewReader(quadText))
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	require.Len(t, vertices, 6*mesh.FloatsPerVertex)

	// Second vertex of the first triangle: position 2, normal, uv 2.
	second := vertices[mesh.FloatsPerVertex : 2*mesh.FloatsPerVertex]
	assert.Equal(t, []float32{1, 0, -1, 1, 0, 1, 0, 0, 1, 0}, second)
}

func TestParseVerticesFlatNormals(t *testing.T) {
	text := "v 0 0 0\nv 0 0 1\nv 1 0 0\nf 1 2 3\n"
	vertices, count, err := ParseVertices(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	for i := 0; i < count; i++ {
		n := vertices[i*mesh.FloatsPerVertex+4 : i*mesh.FloatsPerVertex+7]
		assert.InDeltaSlice(t, []float32{0, 1, 0}, n, 1e-6)
	}
}

func TestParseVerticesNegativeIndices(t *testing.T) {
	text := "v 0 0 0\nv 0 0 1\nv 1 0 0\nf -3 -2 -1\n"
	_, count, err := ParseVertices(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestParseVerticesMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"comments only", "# nothing\n\n"},
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"bad number", "v 0 zero 0\n"},
		{"short vertex", "v 0 0\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n"},
		{"unknown directive", "teapot 1 2 3\n"},
		{"corner without position", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseVertices(strings.NewReader(tt.text))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLoaderLoadCachesByBaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadText), 0o644))

	lib := mesh.NewLibrary()
	l := NewLoader(BackendTypeOBJ, WithLibrary(lib))

	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quad", m.Name())
	assert.Equal(t, mesh.LayoutNormal, m.Layout())

	require.NoError(t, os.Remove(path))
	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, m, again)

	fromLib, ok := lib.Get("quad")
	require.True(t, ok)
	assert.Same(t, m, fromLib)
}

func TestLoadAll(t *testing.T) {
	lib := mesh.NewLibrary()
	l := NewLoader(BackendTypeOBJ, WithLibrary(lib), WithWorkers(2))

	meshes, err := l.LoadAll(context.Background(),
		BytesSource("quad", []byte(quadText)),
		BytesSource(mesh.NameGem, []byte("v 0 0\n")),
		BytesSource("broken", []byte("f 1 2 3\n")),
	)
	require.ErrorIs(t, err, ErrMalformed)
	require.Len(t, meshes, 2)
	assert.Equal(t, "quad", meshes[0].Name())

	// the gem fails to parse and falls back to the built-in primitive
	assert.Equal(t, mesh.NameGem, meshes[1].Name())
	builtinGem, _ := mesh.Builtin(mesh.NameGem)
	assert.Equal(t, builtinGem.VertexCount(), meshes[1].VertexCount())
	assert.NotNil(t, l.Get(mesh.NameGem))

	assert.Nil(t, l.Get("broken"))
	assert.Len(t, l.Meshes(), 2)
}

func TestLoadAllKeepsBuiltinLayout(t *testing.T) {
	lib := mesh.NewLibrary()
	l := NewLoader(BackendTypeOBJ, WithLibrary(lib))

	_, err := l.LoadReader(mesh.NameBall, strings.NewReader(quadText))
	require.ErrorIs(t, err, ErrLayoutMismatch)
	ball, ok := lib.Get(mesh.NameBall)
	require.True(t, ok)
	assert.Equal(t, mesh.LayoutColored, ball.Layout(), "a rejected mesh never reaches the library")

	meshes, err := l.LoadAll(context.Background(),
		BytesSource(mesh.NameBall, []byte(quadText)),
		BytesSource(mesh.NameNormalCube, []byte(quadText)),
	)
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, mesh.LayoutColored, meshes[0].Layout())
	assert.Equal(t, mesh.BallVertexCount, meshes[0].VertexCount(), "the ball falls back to the built-in")
	assert.Equal(t, 6, meshes[1].VertexCount(), "a normal-layout override replaces the built-in")

	ball, _ = lib.Get(mesh.NameBall)
	assert.Equal(t, mesh.LayoutColored, ball.Layout())
	cube, _ := lib.Get(mesh.NameNormalCube)
	assert.Same(t, meshes[1], cube)
}

func TestLoadAllMissingFile(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)
	_, err := l.LoadAll(context.Background(), FileSource("nothing", filepath.Join(t.TempDir(), "nothing.obj")))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(BackendTypeOBJ)
	_, err := l.LoadAll(ctx, BytesSource("quad", []byte(quadText)))
	require.ErrorIs(t, err, context.Canceled)
}
