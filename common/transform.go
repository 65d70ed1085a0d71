package common

import "math"

// Transform is an object-to-world matrix stored column-major in a single array.
// Columns 0..3 are the right, up, back and position vectors; the accessors below
// return pointers into that storage so basis edits and matrix edits are the same edit.
//
// Only rigid transforms with a uniform scale are expected. SetScale and
// RotateY preserve that; writing arbitrary values through the basis views does not.
type Transform [16]float32

// NewTransform returns an identity transform positioned at pos.
//
// Parameters:
//   - pos: the initial world position
//
// Returns:
//   - Transform: the new transform
func NewTransform(pos Vec3) Transform {
	t := Transform(IdentityMatrix())
	*t.Position() = pos
	return t
}

// Right returns a view of the first basis column.
func (t *Transform) Right() *Vec3 { return (*Vec3)(t[0:3]) }

// Up returns a view of the second basis column.
func (t *Transform) Up() *Vec3 { return (*Vec3)(t[4:7]) }

// Back returns a view of the third basis column.
func (t *Transform) Back() *Vec3 { return (*Vec3)(t[8:11]) }

// Position returns a view of the translation column.
func (t *Transform) Position() *Vec3 { return (*Vec3)(t[12:15]) }

// Matrix returns the transform as a plain matrix pointer for math helpers.
func (t *Transform) Matrix() *[16]float32 { return (*[16]float32)(t) }

// Scale returns the uniform scale, measured on the right vector.
func (t *Transform) Scale() float32 {
	return t.Right().Length()
}

// SetScale rescales every basis vector to length s, keeping orientation.
// A zero scale collapses the basis; orientation is then reset to the identity.
//
// Parameters:
//   - s: the new uniform scale
func (t *Transform) SetScale(s float32) {
	right, up, back := t.Right(), t.Up(), t.Back()
	if right.LengthSq() == 0 || up.LengthSq() == 0 || back.LengthSq() == 0 {
		*right, *up, *back = Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}
	}
	*right = right.Normalize().Scale(s)
	*up = up.Normalize().Scale(s)
	*back = back.Normalize().Scale(s)
}

// Translate moves the position by d.
func (t *Transform) Translate(d Vec3) {
	p := t.Position()
	*p = p.Add(d)
}

// RotateY rotates the basis about the world Y axis by angle radians, leaving position alone.
//
// Parameters:
//   - angle: rotation in radians, counter-clockwise seen from +Y
func (t *Transform) RotateY(angle float32) {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	for _, v := range [...]*Vec3{t.Right(), t.Up(), t.Back()} {
		x, z := v[0], v[2]
		v[0] = c*x + s*z
		v[2] = -s*x + c*z
	}
}

// FaceHorizontal orients the basis so the forward (-back) vector points along dir
// projected onto the ground plane. The current scale is kept.
//
// Parameters:
//   - dir: desired facing; ignored when its horizontal part is zero
func (t *Transform) FaceHorizontal(dir Vec3) {
	forward := dir.Horizontal()
	if forward.LengthSq() == 0 {
		return
	}
	s := t.Scale()
	back := forward.Normalize().Scale(-1)
	up := Vec3{0, 1, 0}
	right := up.Cross(back)
	*t.Right() = right.Scale(s)
	*t.Up() = up.Scale(s)
	*t.Back() = back.Scale(s)
}

// Bytes returns a byte view of the matrix for buffer uploads.
func (t *Transform) Bytes() []byte {
	return StructToBytes(t)
}
