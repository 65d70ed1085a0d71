package mesh

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithName is an option builder that sets the mesh identifier.
// Meshes share one GPU buffer in a Cache only when name, layout and vertices all match.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithLayout is an option builder that sets the vertex format of the mesh.
//
// Parameters:
//   - layout: the vertex layout
//
// Returns:
//   - MeshBuilderOption: a function that applies the layout option to a mesh
func WithLayout(layout Layout) MeshBuilderOption {
	return func(m *mesh) {
		m.layout = layout
	}
}

// WithVertices is an option builder that sets the flat interleaved vertex array.
// The slice is retained, not copied.
//
// Parameters:
//   - vertices: FloatsPerVertex floats per vertex
//
// Returns:
//   - MeshBuilderOption: a function that applies the vertices option to a mesh
func WithVertices(vertices []float32) MeshBuilderOption {
	return func(m *mesh) {
		m.vertices = vertices
	}
}
