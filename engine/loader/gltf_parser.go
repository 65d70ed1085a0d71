package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// gltfParser decodes a glTF JSON or GLB document and reads typed accessor data from it.
type gltfParser struct {
	document       *gltfDocument
	glbBinaryChunk []byte
}

// parseGLTFReader reads a whole document from r, detecting GLB by its magic number.
func parseGLTFReader(r io.Reader) (*gltfParser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read glTF data: %w", err)
	}
	p := &gltfParser{}
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		err = p.parseGLB(data)
	} else {
		err = p.parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *gltfParser) parseJSON(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: glTF JSON: %v", ErrMalformed, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return fmt.Errorf("%w: glTF version %q, want 2.x", ErrMalformed, doc.Asset.Version)
	}
	if err := p.loadBuffers(&doc); err != nil {
		return err
	}
	p.document = &doc
	return nil
}

// parseGLB splits a GLB container into its JSON and BIN chunks.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParser) parseGLB(data []byte) error {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("%w: GLB header: %v", ErrMalformed, err)
	}
	if header.Version != gltfGLBVersion {
		return fmt.Errorf("%w: GLB version %d", ErrMalformed, header.Version)
	}

	var jsonData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("%w: GLB chunk header: %v", ErrMalformed, err)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("%w: GLB chunk of %d bytes overruns the file", ErrMalformed, chunk.ChunkLength)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return fmt.Errorf("%w: GLB chunk: %v", ErrMalformed, err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = body
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = body
		}
	}
	if jsonData == nil {
		return fmt.Errorf("%w: GLB has no JSON chunk", ErrMalformed)
	}
	return p.parseJSON(jsonData)
}

// loadBuffers fills every buffer from its data URI or, for an unnamed first buffer, the GLB chunk.
func (p *gltfParser) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			return fmt.Errorf("%w: buffer %d has no embedded data", ErrMalformed, i)
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("%w: buffer %d holds %d bytes, declares %d", ErrMalformed, i, len(buf.Data), buf.ByteLength)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: unsupported data URI", ErrMalformed)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: data URI: %v", ErrMalformed, err)
	}
	return data, nil
}

// readAccessor returns the packed element bytes of an accessor, honoring byte stride.
func (p *gltfParser) readAccessor(index int, wantType string) (*gltfAccessor, []byte, error) {
	doc := p.document
	if index < 0 || index >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformed, index)
	}
	acc := &doc.Accessors[index]
	if acc.Type != wantType {
		return nil, nil, fmt.Errorf("%w: accessor %d is %s, want %s", ErrMalformed, index, acc.Type, wantType)
	}
	if acc.Sparse != nil || acc.BufferView == nil {
		return nil, nil, fmt.Errorf("%w: accessor %d has no dense data", ErrMalformed, index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("%w: accessor %d references missing buffer view", ErrMalformed, index)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("%w: buffer view %d references missing buffer", ErrMalformed, *acc.BufferView)
	}
	buf := doc.Buffers[bv.Buffer].Data

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 || acc.Count < 0 {
		return nil, nil, fmt.Errorf("%w: accessor %d has component type %d", ErrMalformed, index, acc.ComponentType)
	}
	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && (start < 0 || start+(acc.Count-1)*stride+elementSize > len(buf)) {
		return nil, nil, fmt.Errorf("%w: accessor %d overruns its buffer", ErrMalformed, index)
	}

	out := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		copy(out[i*elementSize:(i+1)*elementSize], buf[start+i*stride:])
	}
	return acc, out, nil
}

// readFloats reads a float accessor of the given type as a flat slice.
func (p *gltfParser) readFloats(index int, wantType string) ([]float32, error) {
	acc, data, err := p.readAccessor(index, wantType)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("%w: accessor %d is not FLOAT", ErrMalformed, index)
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// readIndices reads an index accessor of unsigned bytes, shorts or ints.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	acc, data, err := p.readAccessor(index, gltfAccessorTypeScalar)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range out {
			out[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("%w: index component type %d", ErrMalformed, acc.ComponentType)
	}
	return out, nil
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
