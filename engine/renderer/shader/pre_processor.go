// pre_processor.go implements the WGSL include pre-processor. A line of the form
//
//	// @oxy:include <name>
//
// is replaced by the WGSL struct source registered under name, so Go-side GPU
// types and the shaders that read them share one definition.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-arena/engine/light"
)

const includeDirective = "@oxy:include"

// IncludePointLight injects the PointLight uniform struct.
const IncludePointLight = "point_light"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps include names to embedded WGSL struct sources.
	structRegistry map[string]string

	// includes records the names injected by the most recent Process call.
	includes []string
}

// PreProcessor expands include directives in raw WGSL source.
type PreProcessor interface {
	// Process replaces every include directive with its registered struct source.
	// Each name is injected at most once per call; repeats are dropped.
	//
	// Parameters:
	//   - source: the raw WGSL shader source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if a directive is malformed or names an unknown struct
	Process(source string) (string, error)

	// Includes returns the names injected by the most recent Process call, in source order.
	//
	// Returns:
	//   - []string: the injected names
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct sources registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[string]string{
			IncludePointLight: light.GPUPointLightSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok, err := parseInclude(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ok {
			out = append(out, line)
			continue
		}
		src, known := p.structRegistry[name]
		if !known {
			return "", fmt.Errorf("line %d: unknown %s argument %q", i+1, includeDirective, name)
		}
		if p.included(name) {
			continue
		}
		p.includes = append(p.includes, name)
		out = append(out, strings.TrimRight(src, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return p.includes
}

func (p *preProcessor) included(name string) bool {
	for _, n := range p.includes {
		if n == name {
			return true
		}
	}
	return false
}

// parseInclude reports whether line is an include directive and returns its argument.
func parseInclude(line string) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	body, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return "", false, nil
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(body), includeDirective)
	if !ok {
		return "", false, nil
	}
	args := strings.Fields(rest)
	if len(args) != 1 {
		return "", false, fmt.Errorf("%s takes exactly one argument, got %d", includeDirective, len(args))
	}
	return args[0], true, nil
}
