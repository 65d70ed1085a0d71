package mesh

import (
	"math"

	"github.com/Carmen-Shannon/oxy-arena/common"
)

// Names of the built-in meshes.
const (
	NameCube       = "cube"
	NameFloor      = "floor"
	NameBall       = "ball"
	NameNormalCube = "normal-cube"
	NameGem        = "gem"
	NameDecalQuad  = "decal-quad"
)

const (
	ballSlices = 10
	ballStacks = 9
)

// BallVertexCount is the vertex count of the built-in ball.
const BallVertexCount = ballSlices * ballStacks * 6

// Builtin returns a freshly built primitive by name.
//
// Parameters:
//   - name: one of the Name* constants
//
// Returns:
//   - Mesh: the primitive
//   - bool: false if no primitive has that name
func Builtin(name string) (Mesh, bool) {
	switch name {
	case NameCube:
		return ColoredCube(), true
	case NameFloor:
		return Floor(), true
	case NameBall:
		return Ball(), true
	case NameNormalCube:
		return NormalCube(), true
	case NameGem:
		return Gem(), true
	case NameDecalQuad:
		return DecalQuad(), true
	default:
		return nil, false
	}
}

// BuiltinNames lists every built-in primitive.
func BuiltinNames() []string {
	return []string{NameCube, NameFloor, NameBall, NameNormalCube, NameGem, NameDecalQuad}
}

// BuiltinLayout returns the vertex layout of the built-in primitive called name.
// A mesh replacing a built-in must keep this layout.
//
// Parameters:
//   - name: one of the Name* constants
//
// Returns:
//   - Layout: the primitive's layout
//   - bool: false if no primitive has that name
func BuiltinLayout(name string) (Layout, bool) {
	switch name {
	case NameCube, NameFloor, NameBall, NameDecalQuad:
		return LayoutColored, true
	case NameNormalCube, NameGem:
		return LayoutNormal, true
	default:
		return 0, false
	}
}

// ColoredCube is a 2x2x2 cube centered on the origin whose vertex colors encode
// the corner position.
func ColoredCube() Mesh {
	// float4 position, float4 color, float2 uv
	v := []float32{
		1, -1, 1, 1, 1, 0, 1, 1, 0, 1,
		-1, -1, 1, 1, 0, 0, 1, 1, 1, 1,
		-1, -1, -1, 1, 0, 0, 0, 1, 1, 0,
		1, -1, -1, 1, 1, 0, 0, 1, 0, 0,
		1, -1, 1, 1, 1, 0, 1, 1, 0, 1,
		-1, -1, -1, 1, 0, 0, 0, 1, 1, 0,

		1, 1, 1, 1, 1, 1, 1, 1, 0, 1,
		1, -1, 1, 1, 1, 0, 1, 1, 1, 1,
		1, -1, -1, 1, 1, 0, 0, 1, 1, 0,
		1, 1, -1, 1, 1, 1, 0, 1, 0, 0,
		1, 1, 1, 1, 1, 1, 1, 1, 0, 1,
		1, -1, -1, 1, 1, 0, 0, 1, 1, 0,

		-1, 1, 1, 1, 0, 1, 1, 1, 0, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, -1, 1, 1, 1, 0, 1, 1, 0,
		-1, 1, -1, 1, 0, 1, 0, 1, 0, 0,
		-1, 1, 1, 1, 0, 1, 1, 1, 0, 1,
		1, 1, -1, 1, 1, 1, 0, 1, 1, 0,

		-1, -1, 1, 1, 0, 0, 1, 1, 0, 1,
		-1, 1, 1, 1, 0, 1, 1, 1, 1, 1,
		-1, 1, -1, 1, 0, 1, 0, 1, 1, 0,
		-1, -1, -1, 1, 0, 0, 0, 1, 0, 0,
		-1, -1, 1, 1, 0, 0, 1, 1, 0, 1,
		-1, 1, -1, 1, 0, 1, 0, 1, 1, 0,

		1, 1, 1, 1, 1, 1, 1, 1, 0, 1,
		-1, 1, 1, 1, 0, 1, 1, 1, 1, 1,
		-1, -1, 1, 1, 0, 0, 1, 1, 1, 0,
		-1, -1, 1, 1, 0, 0, 1, 1, 1, 0,
		1, -1, 1, 1, 1, 0, 1, 1, 0, 0,
		1, 1, 1, 1, 1, 1, 1, 1, 0, 1,

		1, -1, -1, 1, 1, 0, 0, 1, 0, 1,
		-1, -1, -1, 1, 0, 0, 0, 1, 1, 1,
		-1, 1, -1, 1, 0, 1, 0, 1, 1, 0,
		1, 1, -1, 1, 1, 1, 0, 1, 0, 0,
		1, -1, -1, 1, 1, 0, 0, 1, 0, 1,
		-1, 1, -1, 1, 0, 1, 0, 1, 1, 0,
	}
	return MustMesh(WithName(NameCube), WithLayout(LayoutColored), WithVertices(v))
}

// Floor is a unit quad on the y = 0 plane spanning [-1, 1] on X and Z.
func Floor() Mesh {
	v := []float32{
		-1, 0, 1, 1, 0, 1, 0, 1, 0, 0,
		-1, 0, -1, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 1, 0, 1, 0, 1, 1, 0,
		1, 0, 1, 1, 0, 1, 0, 1, 1, 0,
		1, 0, -1, 1, 0, 1, 0, 1, 1, 1,
		-1, 0, -1, 1, 0, 1, 0, 1, 0, 1,
	}
	return MustMesh(WithName(NameFloor), WithLayout(LayoutColored), WithVertices(v))
}

// DecalQuad is a unit quad lifted slightly above the ground so it does not
// z-fight with the floor. The uv spans [0, 1] for shaders that draw rings.
func DecalQuad() Mesh {
	const y = 0.01
	v := []float32{
		-1, y, 1, 1, 1, 1, 1, 1, 0, 0,
		1, y, 1, 1, 1, 1, 1, 1, 1, 0,
		1, y, -1, 1, 1, 1, 1, 1, 1, 1,
		-1, y, 1, 1, 1, 1, 1, 1, 0, 0,
		1, y, -1, 1, 1, 1, 1, 1, 1, 1,
		-1, y, -1, 1, 1, 1, 1, 1, 0, 1,
	}
	return MustMesh(WithName(NameDecalQuad), WithLayout(LayoutColored), WithVertices(v))
}

// Ball is a unit UV sphere of ballSlices x ballStacks quads, drawn as a plain
// triangle list.
func Ball() Mesh {
	color := common.Color{0.439216, 0, 1, 1}
	v := make([]float32, 0, BallVertexCount*FloatsPerVertex)

	point := func(slice, stack int) []float32 {
		u := float32(slice) / ballSlices
		t := float32(stack) / ballStacks
		theta := float64(u) * 2 * math.Pi
		phi := float64(t) * math.Pi
		x := float32(math.Sin(phi) * math.Cos(theta))
		y := float32(math.Cos(phi))
		z := float32(math.Sin(phi) * math.Sin(theta))
		return []float32{x, y, z, 1, color[0], color[1], color[2], color[3], u, t}
	}

	for stack := 0; stack < ballStacks; stack++ {
		for slice := 0; slice < ballSlices; slice++ {
			a := point(slice, stack)
			b := point(slice+1, stack)
			c := point(slice, stack+1)
			d := point(slice+1, stack+1)
			v = append(v, a...)
			v = append(v, c...)
			v = append(v, b...)
			v = append(v, b...)
			v = append(v, c...)
			v = append(v, d...)
		}
	}
	return MustMesh(WithName(NameBall), WithLayout(LayoutColored), WithVertices(v))
}

// NormalCube is a 2x2x2 cube with per-face normals.
func NormalCube() Mesh {
	faces := []struct {
		normal common.Vec3
		u, v   common.Vec3
	}{
		{common.Vec3{1, 0, 0}, common.Vec3{0, 0, -1}, common.Vec3{0, 1, 0}},
		{common.Vec3{-1, 0, 0}, common.Vec3{0, 0, 1}, common.Vec3{0, 1, 0}},
		{common.Vec3{0, 1, 0}, common.Vec3{1, 0, 0}, common.Vec3{0, 0, -1}},
		{common.Vec3{0, -1, 0}, common.Vec3{1, 0, 0}, common.Vec3{0, 0, 1}},
		{common.Vec3{0, 0, 1}, common.Vec3{1, 0, 0}, common.Vec3{0, 1, 0}},
		{common.Vec3{0, 0, -1}, common.Vec3{-1, 0, 0}, common.Vec3{0, 1, 0}},
	}
	v := make([]float32, 0, 36*FloatsPerVertex)
	corner := func(n, u, w common.Vec3, su, sw float32) []float32 {
		p := n.Add(u.Scale(su)).Add(w.Scale(sw))
		return []float32{p[0], p[1], p[2], 1, n[0], n[1], n[2], 0, (su + 1) / 2, (sw + 1) / 2}
	}
	for _, f := range faces {
		a := corner(f.normal, f.u, f.v, -1, -1)
		b := corner(f.normal, f.u, f.v, 1, -1)
		c := corner(f.normal, f.u, f.v, 1, 1)
		d := corner(f.normal, f.u, f.v, -1, 1)
		v = append(v, a...)
		v = append(v, b...)
		v = append(v, c...)
		v = append(v, a...)
		v = append(v, c...)
		v = append(v, d...)
	}
	return MustMesh(WithName(NameNormalCube), WithLayout(LayoutNormal), WithVertices(v))
}

// Gem is an octahedron with flat face normals, stretched vertically. It stands in
// for the loaded gem model when that fails to parse.
func Gem() Mesh {
	top := common.Vec3{0, 1.5, 0}
	bottom := common.Vec3{0, -1.5, 0}
	ring := []common.Vec3{{1, 0, 0}, {0, 0, -1}, {-1, 0, 0}, {0, 0, 1}}

	v := make([]float32, 0, 24*FloatsPerVertex)
	tri := func(a, b, c common.Vec3) {
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for i, p := range [...]common.Vec3{a, b, c} {
			v = append(v, p[0], p[1], p[2], 1, n[0], n[1], n[2], 0, float32(i)/2, p[1]/3+0.5)
		}
	}
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		tri(top, a, b)
		tri(bottom, b, a)
	}
	return MustMesh(WithName(NameGem), WithLayout(LayoutNormal), WithVertices(v))
}
