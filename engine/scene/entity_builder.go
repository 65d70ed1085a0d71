package scene

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/google/uuid"
)

// BaseBuilderOption is a functional option for configuring a Base during construction.
type BaseBuilderOption func(*Base)

// WithID sets the ID of the entity.
//
// Parameters:
//   - id: unique identifier for the entity
//
// Returns:
//   - BaseBuilderOption: functional option to set the ID
func WithID(id uuid.UUID) BaseBuilderOption {
	return func(b *Base) {
		b.id = id
	}
}

// WithPosition sets the initial position of the entity's transform.
//
// Parameters:
//   - p: the world position
//
// Returns:
//   - BaseBuilderOption: functional option to set the position
func WithPosition(p common.Vec3) BaseBuilderOption {
	return func(b *Base) {
		*b.transform.Position() = p
	}
}

// WithScale sets the uniform scale of the entity's transform.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - BaseBuilderOption: functional option to set the scale
func WithScale(s float32) BaseBuilderOption {
	return func(b *Base) {
		b.transform.SetScale(s)
	}
}
