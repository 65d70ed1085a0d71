package systems

import "github.com/Carmen-Shannon/oxy-arena/common"

// Bounds is a region of the ground plane. Height is ignored.
type Bounds interface {
	// Contains reports whether p lies strictly inside the region.
	Contains(p common.Vec3) bool

	// ClosestValidPoint returns p moved onto the nearest point of the region.
	// Points inside are returned unchanged. The height is kept.
	ClosestValidPoint(p common.Vec3) common.Vec3
}

// Rect is an axis-aligned rectangle on the X/Z plane.
type Rect struct {
	Center    common.Vec3
	HalfWidth float32 // along X
	HalfDepth float32 // along Z
}

var _ Bounds = Rect{}

// NewRect returns a rectangle of the given full width and depth centered on center.
//
// Parameters:
//   - center: the center; only X and Z are used
//   - width: extent along X
//   - depth: extent along Z
//
// Returns:
//   - Rect: the rectangle
func NewRect(center common.Vec3, width, depth float32) Rect {
	return Rect{Center: center, HalfWidth: width / 2, HalfDepth: depth / 2}
}

// Scaled returns r grown (or shrunk) around its center by factor.
func (r Rect) Scaled(factor float32) Rect {
	return Rect{Center: r.Center, HalfWidth: r.HalfWidth * factor, HalfDepth: r.HalfDepth * factor}
}

func (r Rect) Contains(p common.Vec3) bool {
	return abs(p[0]-r.Center[0]) < r.HalfWidth && abs(p[2]-r.Center[2]) < r.HalfDepth
}

func (r Rect) ClosestValidPoint(p common.Vec3) common.Vec3 {
	return common.Vec3{
		common.Clamp(p[0], r.Center[0]-r.HalfWidth, r.Center[0]+r.HalfWidth),
		p[1],
		common.Clamp(p[2], r.Center[2]-r.HalfDepth, r.Center[2]+r.HalfDepth),
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
