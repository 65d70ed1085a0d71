package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer holds three positions followed by three uint16 indices.
func triangleBuffer() []byte {
	var b bytes.Buffer
	for _, f := range []float32{0, 0, 0, 0, 0, 1, 1, 0, 0} {
		_ = binary.Write(&b, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&b, binary.LittleEndian, i)
	}
	return b.Bytes()
}

func triangleDocument(uri string, byteLength int) map[string]any {
	buffer := map[string]any{"byteLength": byteLength}
	if uri != "" {
		buffer["uri"] = uri
	}
	return map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"meshes": []any{map[string]any{
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
			}},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
}

func gltfJSON(t *testing.T) []byte {
	t.Helper()
	buf := triangleBuffer()
	data, err := json.Marshal(triangleDocument("data:application/octet-stream;base64,"+base64.StdEncoding.EncodeToString(buf), len(buf)))
	require.NoError(t, err)
	return data
}

func glb(t *testing.T) []byte {
	t.Helper()
	buf := triangleBuffer()
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	doc, err := json.Marshal(triangleDocument("", len(buf)))
	require.NoError(t, err)
	for len(doc)%4 != 0 {
		doc = append(doc, ' ')
	}

	var out bytes.Buffer
	total := 12 + 8 + len(doc) + 8 + len(buf)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(doc)), ChunkType: gltfGLBChunkJSON})
	out.Write(doc)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(buf)), ChunkType: gltfGLBChunkBIN})
	out.Write(buf)
	return out.Bytes()
}

func TestParseGLTF(t *testing.T) {
	for name, data := range map[string][]byte{"json": gltfJSON(t), "glb": glb(t)} {
		t.Run(name, func(t *testing.T) {
			m, err := ParseGLTF("tri", bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, "tri", m.Name())
			assert.Equal(t, mesh.LayoutNormal, m.Layout())
			require.Equal(t, 3, m.VertexCount())

			v := m.Vertices()
			second := v[mesh.FloatsPerVertex : 2*mesh.FloatsPerVertex]
			assert.InDeltaSlice(t, []float32{0, 0, 1, 1, 0, 1, 0, 0, 0, 0}, second, 1e-6, "flat normal when NORMAL is absent")
		})
	}
}

func TestParseGLTFRejects(t *testing.T) {
	good := gltfJSON(t)
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"version 1", `{"asset":{"version":"1.0"}}`},
		{"no meshes", `{"asset":{"version":"2.0"}}`},
		{"external buffer", `{"asset":{"version":"2.0"},"buffers":[{"uri":"tri.bin","byteLength":4}]}`},
		{"index out of range", strings.Replace(string(good), `"count":3,"type":"VEC3"`, `"count":2,"type":"VEC3"`, 1)},
		{"short buffer", strings.Replace(string(good), fmt.Sprintf(`"byteLength":%d`, len(triangleBuffer())), `"byteLength":400`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGLTF("bad", strings.NewReader(tt.data))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestGLTFLoaderPublishes(t *testing.T) {
	lib := mesh.NewLibrary()
	l := NewLoader(BackendTypeGLTF, WithLibrary(lib))
	loaded, err := l.LoadAll(context.Background(), BytesSource("tri", glb(t)))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	m, ok := lib.Get("tri")
	require.True(t, ok)
	assert.Same(t, loaded[0], m)
}
