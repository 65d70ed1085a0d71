package loader

import (
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used for fallback warnings.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLibrary is an option builder that publishes every loaded mesh to a library.
//
// Parameters:
//   - library: the library to fill
//
// Returns:
//   - LoaderBuilderOption: a function that applies the library option to a loader
func WithLibrary(library *mesh.Library) LoaderBuilderOption {
	return func(l *loader) {
		l.library = library
	}
}

// WithWorkers is an option builder that caps the worker pool used by LoadAll.
//
// Parameters:
//   - n: the maximum number of parser goroutines, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithMesh is an option builder that pre-populates the mesh cache with a mesh.
//
// Parameters:
//   - m: the mesh to cache under its own name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(m mesh.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[m.Name()] = m
	}
}
