package scene

import (
	"github.com/Carmen-Shannon/oxy-arena/common"
	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"github.com/google/uuid"
)

// Entity is a node of the scene tree. It owns one Transform, the graphics
// components drawn for it and a stack of children waiting to be lifted into the scene.
type Entity interface {
	// ID returns the entity's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the entity ID
	ID() uuid.UUID

	// Transform returns the entity's transform. Graphics components borrow this pointer.
	//
	// Returns:
	//   - *common.Transform: the transform owned by the entity
	Transform() *common.Transform

	// Graphics returns the graphics components owned by the entity.
	// The scene registers them with the organizer on add and removes them on compaction.
	//
	// Returns:
	//   - []graphics.Component: the components, possibly empty
	Graphics() []graphics.Component

	// TakeChildren empties the child stack and returns what it held, in spawn order.
	//
	// Returns:
	//   - []Entity: the children to lift
	TakeChildren() []Entity

	// MarkedForDeletion reports whether the entity is waiting for compaction.
	MarkedForDeletion() bool

	// MarkForDeletion flags the entity for removal on the next compaction pass.
	MarkForDeletion()
}

// Updatable entities receive Update once per frame.
type Updatable interface {
	Update(dt float32)
}

// ControlReceiver entities register input listeners when added to a scene.
type ControlReceiver interface {
	AttachControls(c *controls.Controls)
}

// SystemRegistrant entities register themselves with the scene's systems when added.
type SystemRegistrant interface {
	RegisterSystems(s *systems.Systems)
}

// Destructible entities detach from systems and controls when compacted away.
// Destroy is called exactly once, after the entity's graphics have been removed.
type Destructible interface {
	Destroy(s *systems.Systems, c *controls.Controls)
}

// Resizable entities are told about canvas size changes.
type Resizable interface {
	OnResize(width, height int)
}

// Base implements Entity and is meant to be embedded by concrete entities.
// Attach graphics after embedding so components borrow the embedded transform.
type Base struct {
	id        uuid.UUID
	transform common.Transform
	graphics  []graphics.Component
	children  []Entity
	deleteMe  bool
}

var _ Entity = &Base{}

// NewBase creates an entity base with a fresh ID and an identity transform.
//
// Parameters:
//   - options: functional options to configure the base
//
// Returns:
//   - Base: the base, to be embedded by value
func NewBase(options ...BaseBuilderOption) Base {
	b := Base{
		id:        uuid.New(),
		transform: common.NewTransform(common.Vec3{}),
	}
	for _, option := range options {
		option(&b)
	}
	return b
}

func (b *Base) ID() uuid.UUID {
	return b.id
}

func (b *Base) Transform() *common.Transform {
	return &b.transform
}

func (b *Base) Graphics() []graphics.Component {
	return b.graphics
}

// AddGraphics appends components to the entity. It must be called before the
// entity is added to a scene; later additions are never registered.
//
// Parameters:
//   - components: the components to own
func (b *Base) AddGraphics(components ...graphics.Component) {
	b.graphics = append(b.graphics, components...)
}

// Spawn pushes children onto the child stack. The scene lifts them on add, or
// at the start of the next frame when spawned during Update.
//
// Parameters:
//   - children: the entities to lift
func (b *Base) Spawn(children ...Entity) {
	b.children = append(b.children, children...)
}

func (b *Base) TakeChildren() []Entity {
	children := b.children
	b.children = nil
	return children
}

func (b *Base) MarkedForDeletion() bool {
	return b.deleteMe
}

func (b *Base) MarkForDeletion() {
	b.deleteMe = true
}
