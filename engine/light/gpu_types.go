package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPointLightSource is the canonical WGSL definition of the PointLight struct.
// Matches GPUPointLight layout exactly (32 bytes, uniform aligned).
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUPointLightSize is the byte size of GPUPointLight.
const GPUPointLightSize = 32

// GPUPointLight is the GPU-aligned representation of a point light.
// Matches the WGSL PointLight struct layout exactly (see GPUPointLightSource).
type GPUPointLight struct {
	Position  [3]float32 // offset  0: world-space position
	Range     float32    // offset 12: attenuation cutoff distance
	Color     [3]float32 // offset 16: RGB color
	Intensity float32    // offset 28: scalar multiplier, 0 when disabled
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUPointLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUPointLight) Marshal() []byte {
	return g.MarshalTo(make([]byte, GPUPointLightSize))
}

// MarshalTo serializes into buf, which must hold at least GPUPointLightSize bytes,
// and returns the filled prefix. Used to reuse one staging slice per frame.
//
// Parameters:
//   - buf: destination buffer
//
// Returns:
//   - []byte: buf[:GPUPointLightSize]
func (g *GPUPointLight) MarshalTo(buf []byte) []byte {
	buf = buf[:GPUPointLightSize]
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Range))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	return buf
}
