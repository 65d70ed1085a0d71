package graphics

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
)

// uniform describes one uniform buffer binding of a bindingSet.
type uniform struct {
	binding uint32
	size    uint64
	name    string
}

// bindingSet owns a bind group and the uniform buffers bound in it.
type bindingSet struct {
	label     string
	bindGroup device.BindGroup
	buffers   map[uint32]device.Buffer
}

// newBindingSet creates one uniform buffer per entry and a bind group binding
// them against layout. On failure everything created so far is released.
func newBindingSet(dev device.Device, label string, layout device.BindGroupLayout, uniforms ...uniform) (*bindingSet, error) {
	s := &bindingSet{
		label:   label,
		buffers: make(map[uint32]device.Buffer, len(uniforms)),
	}
	entries := make([]device.BindGroupEntry, 0, len(uniforms))
	for _, u := range uniforms {
		buf, err := dev.CreateBuffer(&device.BufferDescriptor{
			Label: u.name + " Buffer for " + label,
			Size:  u.size,
			Usage: device.BufferUsageUniform | device.BufferUsageCopyDst,
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("failed to create %s buffer for %q: %w", u.name, label, err)
		}
		s.buffers[u.binding] = buf
		entries = append(entries, device.BindGroupEntry{Binding: u.binding, Buffer: buf})
	}

	bg, err := dev.CreateBindGroup(&device.BindGroupDescriptor{
		Label:   "Bind Group for " + label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("failed to create bind group for %q: %w", label, err)
	}
	s.bindGroup = bg
	return s, nil
}

// Buffer returns the uniform buffer at binding, or nil.
func (s *bindingSet) Buffer(binding uint32) device.Buffer {
	return s.buffers[binding]
}

// BindGroup returns the bind group, or nil once released.
func (s *bindingSet) BindGroup() device.BindGroup {
	return s.bindGroup
}

// Release destroys the buffers and the bind group. Safe to call more than once.
func (s *bindingSet) Release() {
	for i, buf := range s.buffers {
		if buf != nil {
			buf.Destroy()
			delete(s.buffers, i)
		}
	}
	if s.bindGroup != nil {
		s.bindGroup.Destroy()
		s.bindGroup = nil
	}
}
