package graphics

import "fmt"

// Kind tags every graphics component. The set is closed: each dispatch site
// switches over every value and panics on anything else.
type Kind int

const (
	KindCamera Kind = iota
	KindSimple
	KindDecal
	KindShadedNormal
	KindDecoratedShading
	KindPointLight

	kindCount
)

// Kinds lists every kind in bucket order. Buffer writes follow this order.
var Kinds = [kindCount]Kind{
	KindCamera,
	KindSimple,
	KindDecal,
	KindShadedNormal,
	KindDecoratedShading,
	KindPointLight,
}

// DrawOrder lists the drawable kinds in the order the renderer draws them.
// Decals go after opaque geometry they sit on and the additive decorated
// shading goes after everything it blends over.
var DrawOrder = [...]Kind{
	KindSimple,
	KindDecal,
	KindShadedNormal,
	KindDecoratedShading,
	KindPointLight,
}

func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindSimple:
		return "simple"
	case KindDecal:
		return "decal"
	case KindShadedNormal:
		return "shaded-normal"
	case KindDecoratedShading:
		return "decorated-shading"
	case KindPointLight:
		return "point-light"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// index returns the bucket index of k, panicking on values outside the set.
func (k Kind) index() int {
	switch k {
	case KindCamera, KindSimple, KindDecal, KindShadedNormal, KindDecoratedShading, KindPointLight:
		return int(k)
	default:
		panic(fmt.Sprintf("graphics: unknown kind %d", int(k)))
	}
}
