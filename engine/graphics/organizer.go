package graphics

import (
	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"go.uber.org/zap"
)

// Organizer keeps every registered component in a bucket for its kind and
// queues new components for initialization. It is the only owner of component
// destruction: Remove destroys what it removes.
//
// A component must be registered at most once; sharing one component between
// entities is not supported.
type Organizer struct {
	logger  *zap.Logger
	buckets [kindCount][]Component
	pending []Component
	writes  []BufferWrite
}

// NewOrganizer creates an empty organizer.
//
// Parameters:
//   - logger: logger for stale-handle warnings, nil for none
//
// Returns:
//   - *Organizer: the organizer
func NewOrganizer(logger *zap.Logger) *Organizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Organizer{logger: logger}
}

// Register appends each component to its bucket and queues it for initialization.
// Nil components are skipped.
//
// Parameters:
//   - components: the components to register
func (o *Organizer) Register(components ...Component) {
	for _, c := range components {
		if c == nil {
			continue
		}
		i := c.Kind().index()
		o.buckets[i] = append(o.buckets[i], c)
		o.pending = append(o.pending, c)
	}
}

// Remove destroys each component and splices it out of its bucket, keeping the
// order of the rest. A component that is not registered is logged and left alone.
// Nil components are skipped.
//
// Parameters:
//   - components: the components to remove
func (o *Organizer) Remove(components ...Component) {
	for _, c := range components {
		if c == nil {
			continue
		}
		o.remove(c)
	}
}

func (o *Organizer) remove(c Component) {
	i := c.Kind().index()
	bucket := o.buckets[i]
	if len(bucket) == 0 {
		o.logger.Warn("tried to remove graphics component from empty bucket",
			zap.Stringer("kind", c.Kind()),
			zap.String("label", c.Label()))
		return
	}
	at := indexOf(bucket, c)
	if at < 0 {
		o.logger.Warn("did not find graphics component to remove",
			zap.Stringer("kind", c.Kind()),
			zap.String("label", c.Label()))
		return
	}

	c.Destroy()
	copy(bucket[at:], bucket[at+1:])
	bucket[len(bucket)-1] = nil
	o.buckets[i] = bucket[:len(bucket)-1]

	if p := indexOf(o.pending, c); p >= 0 {
		o.pending = append(o.pending[:p], o.pending[p+1:]...)
	}
}

func indexOf(s []Component, c Component) int {
	for i, x := range s {
		if x == c {
			return i
		}
	}
	return -1
}

// Pending returns the number of components waiting for initialization.
func (o *Organizer) Pending() int {
	return len(o.pending)
}

// DrainPending pops components off the initialization queue, most recently
// registered first, until it is empty, calling fn for each.
//
// Parameters:
//   - fn: called once per queued component
func (o *Organizer) DrainPending(fn func(Component)) {
	for len(o.pending) > 0 {
		last := len(o.pending) - 1
		c := o.pending[last]
		o.pending[last] = nil
		o.pending = o.pending[:last]
		fn(c)
	}
}

// Bucket returns the components of one kind in registration order.
// The slice is owned by the organizer and must not be modified or retained.
//
// Parameters:
//   - kind: the bucket to return
//
// Returns:
//   - []Component: the bucket
func (o *Organizer) Bucket(kind Kind) []Component {
	return o.buckets[kind.index()]
}

// Len returns the number of registered components across all buckets.
func (o *Organizer) Len() int {
	n := 0
	for _, b := range o.buckets {
		n += len(b)
	}
	return n
}

// Contains reports whether c is registered.
func (o *Organizer) Contains(c Component) bool {
	return c != nil && indexOf(o.buckets[c.Kind().index()], c) >= 0
}

// ActiveCamera returns the first active, ready camera, or nil.
func (o *Organizer) ActiveCamera() *Camera {
	for _, c := range o.buckets[KindCamera.index()] {
		if c.Active() && c.State() == StateReady {
			return c.(*Camera)
		}
	}
	return nil
}

// ActiveLight returns the first active, ready point light, or nil.
func (o *Organizer) ActiveLight() *PointLight {
	for _, c := range o.buckets[KindPointLight.index()] {
		if c.Active() && c.State() == StateReady {
			return c.(*PointLight)
		}
	}
	return nil
}

// WriteEverything enqueues the buffer writes of every active, ready component,
// bucket by bucket in Kinds order. Components that are not ready are skipped.
//
// Parameters:
//   - dev: the device to write through
//
// Returns:
//   - int: the number of writes enqueued
func (o *Organizer) WriteEverything(dev device.Device) int {
	writes := o.writes[:0]
	for _, kind := range Kinds {
		for _, c := range o.buckets[kind.index()] {
			if !c.Active() {
				continue
			}
			if c.State() != StateReady {
				o.logger.Debug("skipping writes for component that is not ready",
					zap.Stringer("kind", kind),
					zap.String("label", c.Label()),
					zap.Stringer("state", c.State()))
				continue
			}
			writes = c.AppendWrites(writes)
		}
	}
	Flush(dev, writes)
	n := len(writes)
	clear(writes)
	o.writes = writes[:0]
	return n
}

// Flush enqueues writes through dev in order.
//
// Parameters:
//   - dev: the device to write through
//   - writes: the writes
func Flush(dev device.Device, writes []BufferWrite) {
	for _, w := range writes {
		dev.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
}
