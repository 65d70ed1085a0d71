package mesh

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"go.uber.org/zap"
)

// ErrKeyCollision is returned when a mesh hashes to the key of a cached mesh
// with different content.
var ErrKeyCollision = errors.New("mesh: cache key collision")

type cacheEntry struct {
	mesh   Mesh
	buffer device.Buffer
}

// Cache owns the shared ("singleton") vertex buffers of meshes drawn by many
// components at once. A buffer is created on first request and lives until
// Release; components borrowing it must never destroy it.
//
// Cache is used from the frame thread only.
type Cache struct {
	dev     device.Device
	logger  *zap.Logger
	entries map[uint64]*cacheEntry
}

// NewCache creates an empty cache allocating from dev.
//
// Parameters:
//   - dev: the device buffers are created on
//   - logger: logger for collisions and releases, nil for none
//
// Returns:
//   - *Cache: the cache
func NewCache(dev device.Device, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		dev:     dev,
		logger:  logger,
		entries: make(map[uint64]*cacheEntry),
	}
}

// Buffer returns the shared vertex buffer for m, creating and filling it on first use.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - device.Buffer: the shared vertex buffer
//   - error: ErrKeyCollision if a different mesh already owns m's key, or any
//     error from buffer creation
func (c *Cache) Buffer(m Mesh) (device.Buffer, error) {
	if e, ok := c.entries[m.Key()]; ok {
		if !sameContent(e.mesh, m) {
			c.logger.Warn("mesh key collision",
				zap.String("cached", e.mesh.Name()),
				zap.String("requested", m.Name()))
			return nil, fmt.Errorf("%w: %q and %q", ErrKeyCollision, e.mesh.Name(), m.Name())
		}
		return e.buffer, nil
	}

	data := m.VertexData()
	buf, err := c.dev.CreateBuffer(&device.BufferDescriptor{
		Label: "Singleton Vertex Buffer for " + m.Name(),
		Size:  uint64(len(data)),
		Usage: device.BufferUsageVertex | device.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer for mesh %q: %w", m.Name(), err)
	}
	c.dev.WriteBuffer(buf, 0, data)
	c.entries[m.Key()] = &cacheEntry{mesh: m, buffer: buf}
	c.logger.Debug("created shared vertex buffer",
		zap.String("mesh", m.Name()),
		zap.Int("vertices", m.VertexCount()))
	return buf, nil
}

// Len returns the number of live shared buffers.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Release destroys every shared buffer. The cache is empty and usable afterwards.
func (c *Cache) Release() {
	for key, e := range c.entries {
		if e.buffer != nil {
			e.buffer.Destroy()
		}
		delete(c.entries, key)
	}
}
