package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"go.uber.org/zap"
)

// LoaderBackendType identifies the mesh text format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront-style text backend.
	BackendTypeOBJ LoaderBackendType = iota
	// BackendTypeGLTF selects the glTF 2.0 backend (JSON or GLB, embedded buffers only).
	BackendTypeGLTF
)

// Source names one mesh to load and how to open its text.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource loads name from a file on disk.
func FileSource(name, path string) Source {
	return Source{Name: name, Open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// FSSource loads name from a file inside fsys, typically an embed.FS.
func FSSource(fsys fs.FS, name, path string) Source {
	return Source{Name: name, Open: func() (io.ReadCloser, error) { return fsys.Open(path) }}
}

// BytesSource loads name from in-memory text.
func BytesSource(name string, data []byte) Source {
	return Source{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}}
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger  *zap.Logger
	library *mesh.Library
	workers int

	meshCache map[string]mesh.Mesh

	backend loaderBackend
}

// Loader parses mesh text into meshes and caches the results by name.
// Loaded meshes are also published to a mesh.Library when one is configured.
type Loader interface {
	// Load parses a mesh file and caches the result under the file's base name
	// without extension. A cached mesh is returned without touching the file.
	//
	// Parameters:
	//   - path: the file path to the mesh text
	//
	// Returns:
	//   - mesh.Mesh: the loaded mesh
	//   - error: ErrMalformed or an I/O error
	Load(path string) (mesh.Mesh, error)

	// LoadReader parses mesh text from r and caches it under name, replacing any
	// previous entry.
	//
	// Parameters:
	//   - name: the mesh identifier and cache key
	//   - r: the reader providing mesh text
	//
	// Returns:
	//   - mesh.Mesh: the loaded mesh
	//   - error: ErrMalformed or an I/O error
	LoadReader(name string, r io.Reader) (mesh.Mesh, error)

	// LoadAll parses every source concurrently on a worker pool and blocks until
	// all are done or ctx ends. A source that fails to parse is replaced by the
	// built-in primitive of the same name, with a warning; if there is no such
	// primitive its error is joined into the returned error.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//   - sources: the meshes to load
	//
	// Returns:
	//   - []mesh.Mesh: one mesh per source that loaded or fell back, in source order
	//   - error: joined per-source errors, or ctx.Err()
	LoadAll(ctx context.Context, sources ...Source) ([]mesh.Mesh, error)

	// Get retrieves a cached mesh by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - mesh.Mesh: the cached mesh or nil
	Get(name string) mesh.Mesh

	// Meshes returns a copy of the mesh cache.
	//
	// Returns:
	//   - map[string]mesh.Mesh: all cached meshes keyed by name
	Meshes() map[string]mesh.Mesh
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:    zap.NewNop(),
		workers:   max(runtime.NumCPU()-1, 1),
		meshCache: make(map[string]mesh.Mesh),
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend()
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (mesh.Mesh, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := l.Get(name); m != nil {
		return m, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh %q: %w", path, err)
	}
	defer f.Close()
	return l.LoadReader(name, f)
}

func (l *loader) LoadReader(name string, r io.Reader) (mesh.Mesh, error) {
	m, err := l.backend.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mesh %q: %w", name, err)
	}
	if want, ok := mesh.BuiltinLayout(name); ok && m.Layout() != want {
		return nil, fmt.Errorf("%w: %q is %s, built-in is %s", ErrLayoutMismatch, name, m.Layout(), want)
	}
	l.store(m)
	return m, nil
}

func (l *loader) LoadAll(ctx context.Context, sources ...Source) ([]mesh.Mesh, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	results := make([]mesh.Mesh, len(sources))
	errs := make([]error, len(sources))

	pool := worker.NewDynamicWorkerPool(min(l.workers, len(sources)), len(sources), 1*time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: src.Name,
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					errs[i] = err
					return nil, err
				}
				results[i], errs[i] = l.loadSource(src)
				return results[i], errs[i]
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	loaded := make([]mesh.Mesh, 0, len(sources))
	var failed []error
	for i, src := range sources {
		if errs[i] == nil {
			loaded = append(loaded, results[i])
			continue
		}
		fallback, ok := mesh.Builtin(src.Name)
		if !ok {
			failed = append(failed, errs[i])
			continue
		}
		l.logger.Warn("mesh failed to load, using built-in primitive",
			zap.String("mesh", src.Name),
			zap.Error(errs[i]))
		l.store(fallback)
		loaded = append(loaded, fallback)
	}
	return loaded, errors.Join(failed...)
}

func (l *loader) loadSource(src Source) (mesh.Mesh, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh %q: %w", src.Name, err)
	}
	defer rc.Close()
	return l.LoadReader(src.Name, rc)
}

func (l *loader) store(m mesh.Mesh) {
	l.mu.Lock()
	l.meshCache[m.Name()] = m
	l.mu.Unlock()
	if l.library != nil {
		l.library.Put(m)
	}
}

func (l *loader) Get(name string) mesh.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]mesh.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]mesh.Mesh, len(l.meshCache))
	for k, v := range l.meshCache {
		out[k] = v
	}
	return out
}
