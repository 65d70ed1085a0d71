package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
)

// loaderBackend defines the generic interface for turning mesh text into a mesh.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Parse reads mesh text from r.
	//
	// Parameters:
	//   - name: the mesh identifier
	//   - r: the reader providing mesh text
	//
	// Returns:
	//   - mesh.Mesh: the parsed mesh
	//   - error: error if parsing fails
	Parse(name string, r io.Reader) (mesh.Mesh, error)
}

// objLoaderBackend parses Wavefront-style text.
type objLoaderBackend struct{}

var _ loaderBackend = objLoaderBackend{}

func newOBJLoaderBackend() loaderBackend {
	return objLoaderBackend{}
}

func (objLoaderBackend) Parse(name string, r io.Reader) (mesh.Mesh, error) {
	return Parse(name, r)
}

// gltfLoaderBackend parses glTF JSON and GLB documents with embedded buffers.
type gltfLoaderBackend struct{}

var _ loaderBackend = gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return gltfLoaderBackend{}
}

func (gltfLoaderBackend) Parse(name string, r io.Reader) (mesh.Mesh, error) {
	return ParseGLTF(name, r)
}
