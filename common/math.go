package common

import (
	"math"
	"unsafe"
)

// IdentityMatrix returns a 4x4 identity matrix in column-major order.
//
// Returns:
//   - [16]float32: the identity matrix
func IdentityMatrix() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	total := int(unsafe.Sizeof(zero)) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), total)
}

// StructToBytes reinterprets a pointer to a fixed-size value as a raw byte slice.
// The returned slice aliases the value, so later writes to the value show through.
//
// Parameters:
//   - v: pointer to the value to reinterpret
//
// Returns:
//   - []byte: byte slice view of the value's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Mul4 multiplies two column-major 4x4 matrices, returning a * b.
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - [16]float32: the product
func Mul4(a, b *[16]float32) [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// MulPoint transforms the point (x, y, z, 1) by m and performs the perspective divide.
func MulPoint(m *[16]float32, p Vec3) Vec3 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return Vec3{x, y, z}
}

// Perspective builds a finite-depth perspective projection mapping view space
// depth [near, far] to the WebGPU clip range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - [16]float32: the projection matrix
func Perspective(fovY, aspect, near, far float32) [16]float32 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	rangeInv := 1.0 / (near - far)

	var out [16]float32
	out[0] = f / aspect
	out[5] = f
	out[10] = far * rangeInv
	out[11] = -1
	out[14] = near * far * rangeInv
	return out
}

// LookAt builds a view matrix for an eye at eye looking at target.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera looks at
//   - up: up direction, typically +Y
//
// Returns:
//   - [16]float32: the view matrix
func LookAt(eye, target, up Vec3) [16]float32 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return [16]float32{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Invert4 computes the inverse of a column-major 4x4 matrix by cofactor expansion.
// Cofactors are accumulated in float64.
// Returns false and leaves out untouched when src is singular.
//
// Parameters:
//   - out: destination matrix
//   - src: source matrix
//
// Returns:
//   - bool: true if the matrix was inverted
func Invert4(out, src *[16]float32) bool {
	var m [16]float64
	for i, v := range src {
		m[i] = float64(v)
	}

	a0 := m[0]*m[5] - m[4]*m[1]
	a1 := m[0]*m[6] - m[4]*m[2]
	a2 := m[0]*m[7] - m[4]*m[3]
	a3 := m[1]*m[6] - m[5]*m[2]
	a4 := m[1]*m[7] - m[5]*m[3]
	a5 := m[2]*m[7] - m[6]*m[3]

	b5 := m[10]*m[15] - m[14]*m[11]
	b4 := m[9]*m[15] - m[13]*m[11]
	b3 := m[9]*m[14] - m[13]*m[10]
	b2 := m[8]*m[15] - m[12]*m[11]
	b1 := m[8]*m[14] - m[12]*m[10]
	b0 := m[8]*m[13] - m[12]*m[9]

	det := a0*b5 - a1*b4 + a2*b3 + a3*b2 - a4*b1 + a5*b0
	if det == 0 {
		return false
	}
	inv := 1 / det

	out[0] = float32((m[5]*b5 - m[6]*b4 + m[7]*b3) * inv)
	out[1] = float32((-m[1]*b5 + m[2]*b4 - m[3]*b3) * inv)
	out[2] = float32((m[13]*a5 - m[14]*a4 + m[15]*a3) * inv)
	out[3] = float32((-m[9]*a5 + m[10]*a4 - m[11]*a3) * inv)

	out[4] = float32((-m[4]*b5 + m[6]*b2 - m[7]*b1) * inv)
	out[5] = float32((m[0]*b5 - m[2]*b2 + m[3]*b1) * inv)
	out[6] = float32((-m[12]*a5 + m[14]*a2 - m[15]*a1) * inv)
	out[7] = float32((m[8]*a5 - m[10]*a2 + m[11]*a1) * inv)

	out[8] = float32((m[4]*b4 - m[5]*b2 + m[7]*b0) * inv)
	out[9] = float32((-m[0]*b4 + m[1]*b2 - m[3]*b0) * inv)
	out[10] = float32((m[12]*a4 - m[13]*a2 + m[15]*a0) * inv)
	out[11] = float32((-m[8]*a4 + m[9]*a2 - m[11]*a0) * inv)

	out[12] = float32((-m[4]*b3 + m[5]*b1 - m[6]*b0) * inv)
	out[13] = float32((m[0]*b3 - m[1]*b1 + m[2]*b0) * inv)
	out[14] = float32((-m[12]*a3 + m[13]*a1 - m[14]*a0) * inv)
	out[15] = float32((m[8]*a3 - m[9]*a1 + m[10]*a0) * inv)
	return true
}

// SmoothStep is the cubic Hermite ease 3t²-2t³ with t clamped to [0, 1].
func SmoothStep(t float32) float32 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
