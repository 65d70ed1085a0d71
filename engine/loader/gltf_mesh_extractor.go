package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// extractVertices flattens every triangle primitive of every mesh in the document
// into one mesh.LayoutNormal triangle list. Primitives without normals get flat
// face normals; other topologies are skipped.
func (p *gltfParser) extractVertices() ([]float32, error) {
	var out []float32
	for mi, m := range p.document.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				continue
			}
			v, err := p.extractPrimitive(prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			out = append(out, v...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no triangle primitives", ErrMalformed)
	}
	return out, nil
}

func (p *gltfParser) extractPrimitive(prim gltfPrimitive) ([]float32, error) {
	posIndex, ok := prim.Attributes[gltfAttrPosition]
	if !ok {
		return nil, fmt.Errorf("%w: primitive has no POSITION", ErrMalformed)
	}
	positions, err := p.readFloats(posIndex, gltfAccessorTypeVec3)
	if err != nil {
		return nil, err
	}
	count := len(positions) / 3

	var normals, texcoords []float32
	if i, ok := prim.Attributes[gltfAttrNormal]; ok {
		if normals, err = p.readFloats(i, gltfAccessorTypeVec3); err != nil {
			return nil, err
		}
		if len(normals)/3 != count {
			return nil, fmt.Errorf("%w: %d normals for %d positions", ErrMalformed, len(normals)/3, count)
		}
	}
	if i, ok := prim.Attributes[gltfAttrTexcoord]; ok {
		if texcoords, err = p.readFloats(i, gltfAccessorTypeVec2); err != nil {
			return nil, err
		}
		if len(texcoords)/2 != count {
			return nil, fmt.Errorf("%w: %d texcoords for %d positions", ErrMalformed, len(texcoords)/2, count)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a triangle list", ErrMalformed, len(indices))
	}

	position := func(i uint32) common.Vec3 {
		return common.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	out := make([]float32, 0, len(indices)*mesh.FloatsPerVertex)
	for t := 0; t < len(indices); t += 3 {
		tri := indices[t : t+3]
		for _, i := range tri {
			if int(i) >= count {
				return nil, fmt.Errorf("%w: index %d out of range (%d vertices)", ErrMalformed, i, count)
			}
		}
		flat := position(tri[1]).Sub(position(tri[0])).Cross(position(tri[2]).Sub(position(tri[0]))).Normalize()
		for _, i := range tri {
			pos := position(i)
			n := flat
			if normals != nil {
				n = common.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
			}
			var uv [2]float32
			if texcoords != nil {
				uv = [2]float32{texcoords[i*2], texcoords[i*2+1]}
			}
			out = append(out,
				pos[0], pos[1], pos[2], 1,
				n[0], n[1], n[2], 0,
				uv[0], uv[1],
			)
		}
	}
	return out, nil
}

// ParseGLTF parses a glTF JSON or GLB document into a named mesh. Buffers must
// be embedded, either as data URIs or in the GLB binary chunk.
//
// Parameters:
//   - name: the mesh identifier
//   - r: the document
//
// Returns:
//   - mesh.Mesh: every triangle of the document in mesh.LayoutNormal
//   - error: ErrMalformed wrapped with the cause
func ParseGLTF(name string, r io.Reader) (mesh.Mesh, error) {
	p, err := parseGLTFReader(r)
	if err != nil {
		return nil, err
	}
	vertices, err := p.extractVertices()
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(mesh.WithName(name), mesh.WithLayout(mesh.LayoutNormal), mesh.WithVertices(vertices))
}
