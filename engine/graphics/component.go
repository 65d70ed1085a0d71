// Package graphics holds the GPU-side halves of entities: one Component per
// drawable technique, the bind-group layouts they share, and the Organizer the
// renderer walks every frame.
package graphics

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidTransition is returned when a component is initialized outside the
// Uninitialized state.
var ErrInvalidTransition = errors.New("graphics: invalid lifecycle transition")

// ErrLayoutMismatch is returned when a component is given a mesh whose vertex
// layout its pipeline cannot read.
var ErrLayoutMismatch = errors.New("graphics: mesh layout does not match technique")

// State is the lifecycle state of a component. Transitions only move forward.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resources is what a component needs to create its GPU objects.
type Resources struct {
	Device  device.Device
	Layouts *Layouts
	Meshes  *mesh.Cache
}

// BufferWrite describes a single GPU buffer write operation at a given byte offset.
// Data aliases the source value; it is copied when the write is enqueued.
type BufferWrite struct {
	Buffer device.Buffer
	Offset uint64
	Data   []byte
}

// Component is the GPU half of an entity.
//
// Lifecycle: a component is created Uninitialized by game code, initialized once
// by the renderer (Ready), and destroyed once by the Organizer (Destroyed).
// A component borrows its data (transform, color, matrices) from its entity and
// reads it every frame; it never owns that data.
type Component interface {
	// Kind returns the technique the component is drawn with.
	//
	// Returns:
	//   - Kind: the component kind
	Kind() Kind

	// Label returns the debug label, also used for GPU object labels.
	//
	// Returns:
	//   - string: the label
	Label() string

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Active reports whether the component is written and drawn.
	// Inactive components keep their GPU resources.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive toggles writing and drawing.
	//
	// Parameters:
	//   - active: the new flag
	SetActive(active bool)

	// Initialize creates the component's GPU resources. On failure every
	// resource created so far is released and the component stays
	// Uninitialized so a later attempt can succeed.
	//
	// Parameters:
	//   - res: the device, layouts and shared mesh buffers
	//
	// Returns:
	//   - error: ErrInvalidTransition outside Uninitialized, or a device error
	Initialize(res Resources) error

	// AppendWrites appends the buffer writes for this frame to dst.
	// Components that are not Ready append nothing.
	//
	// Parameters:
	//   - dst: the slice to append to
	//
	// Returns:
	//   - []BufferWrite: dst with this component's writes appended
	AppendWrites(dst []BufferWrite) []BufferWrite

	// Draw records the component's draw into pass. The renderer has already set
	// the pipeline and the camera bind group. Components that are not Ready draw nothing.
	//
	// Parameters:
	//   - pass: the open render pass
	Draw(pass device.RenderPass)

	// Destroy releases every GPU resource the component owns. Shared mesh
	// buffers are left alone. A second call logs a warning and does nothing.
	Destroy()

	sealed()
}

// Binder is implemented by components whose bind group other draws use:
// the camera and point lights.
type Binder interface {
	// Bind sets the component's bind group at the given group index.
	//
	// Parameters:
	//   - pass: the open render pass
	//   - group: the bind group index
	Bind(pass device.RenderPass, group uint32)
}

// Option configures the common part of a component.
type Option func(*base)

// WithLabel is an option builder that sets the component's debug label.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - Option: a function that applies the label option to a component
func WithLabel(label string) Option {
	return func(b *base) {
		b.label = label
	}
}

// WithLogger is an option builder that sets the logger used for lifecycle warnings.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - Option: a function that applies the logger option to a component
func WithLogger(logger *zap.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithActive is an option builder that sets the initial active flag. Components
// are active by default.
//
// Parameters:
//   - active: the initial flag
//
// Returns:
//   - Option: a function that applies the active option to a component
func WithActive(active bool) Option {
	return func(b *base) {
		b.active = active
	}
}

// base carries the lifecycle bookkeeping every variant shares.
type base struct {
	kind   Kind
	label  string
	state  State
	active bool
	logger *zap.Logger
}

func newBase(kind Kind, options []Option) base {
	b := base{
		kind:   kind,
		active: true,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(&b)
	}
	if b.label == "" {
		b.label = kind.String() + "-" + uuid.NewString()
	}
	return b
}

func (b *base) Kind() Kind            { return b.kind }
func (b *base) Label() string         { return b.label }
func (b *base) State() State          { return b.state }
func (b *base) Active() bool          { return b.active }
func (b *base) SetActive(active bool) { b.active = active }
func (b *base) sealed()               {}

func (b *base) ready() bool {
	return b.state == StateReady
}

// checkInit reports whether Initialize may proceed.
func (b *base) checkInit() error {
	if b.state != StateUninitialized {
		return fmt.Errorf("%w: initialize %s %q while %s", ErrInvalidTransition, b.kind, b.label, b.state)
	}
	return nil
}

// markDestroyed moves to Destroyed and reports whether resources must be released.
func (b *base) markDestroyed() bool {
	if b.state == StateDestroyed {
		b.logger.Warn("graphics component destroyed twice",
			zap.Stringer("kind", b.kind),
			zap.String("label", b.label))
		return false
	}
	wasReady := b.state == StateReady
	b.state = StateDestroyed
	return wasReady
}
