// Package shader holds the WGSL programs for every drawable technique. Sources
// are embedded, run through the include pre-processor and can be checked with
// naga before a pipeline is built from them.
package shader

import (
	"embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// ErrInvalid is returned when WGSL source fails to compile.
var ErrInvalid = errors.New("shader: invalid WGSL")

// Embedded shader names, one per drawable technique.
const (
	NameSimple           = "simple"
	NameDecal            = "decal"
	NameShadedNormal     = "shaded_normal"
	NameDecoratedShading = "decorated_shading"
	NamePointLight       = "point_light"
)

//go:embed assets/*.wgsl
var assets embed.FS

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	bindings      []Binding
	includes      []string
}

// Shader is a pre-processed WGSL module holding one vertex and one fragment entry point.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for pipeline labels.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntry returns the @vertex function name.
	//
	// Returns:
	//   - string: the entry point name
	VertexEntry() string

	// FragmentEntry returns the @fragment function name.
	//
	// Returns:
	//   - string: the entry point name
	FragmentEntry() string

	// Bindings returns the @group/@binding declarations, sorted by group then binding.
	//
	// Returns:
	//   - []Binding: the declarations
	Bindings() []Binding

	// Includes returns the struct sources the pre-processor injected.
	//
	// Returns:
	//   - []string: the include names
	Includes() []string
}

var _ Shader = &shader{}

// NewShader pre-processes source and extracts its entry points and bindings.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the raw WGSL source
//
// Returns:
//   - Shader: the shader
//   - error: a pre-processing error, or ErrInvalid if an entry point is missing
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %q: %w", key, err)
	}
	s := &shader{
		key:      key,
		source:   processed,
		bindings: parseBindings(processed),
		includes: append([]string(nil), pp.Includes()...),
	}
	s.vertexEntry, s.fragmentEntry = parseEntryPoints(processed)
	if s.vertexEntry == "" || s.fragmentEntry == "" {
		return nil, fmt.Errorf("%w: %q needs both a @vertex and a @fragment entry point", ErrInvalid, key)
	}
	return s, nil
}

// Load reads one of the embedded technique shaders by name.
//
// Parameters:
//   - name: one of the Name constants
//
// Returns:
//   - Shader: the shader
//   - error: an error if the name is unknown or the source is malformed
func Load(name string) (Shader, error) {
	data, err := assets.ReadFile("assets/" + name + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader: unknown shader %q: %w", name, err)
	}
	return NewShader(name, string(data))
}

// Validate compiles s with naga and reports whether the source is valid WGSL.
//
// Parameters:
//   - s: the shader to check
//
// Returns:
//   - error: nil if the source compiles, otherwise wraps ErrInvalid
func Validate(s Shader) error {
	if _, err := naga.Compile(s.Source()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, s.Key(), err)
	}
	return nil
}

func (s *shader) Key() string           { return s.key }
func (s *shader) Source() string        { return s.source }
func (s *shader) VertexEntry() string   { return s.vertexEntry }
func (s *shader) FragmentEntry() string { return s.fragmentEntry }
func (s *shader) Bindings() []Binding   { return s.bindings }
func (s *shader) Includes() []string    { return s.includes }
