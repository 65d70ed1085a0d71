package mesh

import (
	"fmt"
	"sort"
	"sync"
)

// Library maps mesh names to meshes. It starts with every built-in primitive and
// is filled with loaded meshes at startup; it is safe for concurrent use.
type Library struct {
	mu     sync.RWMutex
	meshes map[string]Mesh
}

// NewLibrary returns a library holding the built-in primitives.
func NewLibrary() *Library {
	l := &Library{meshes: make(map[string]Mesh)}
	for _, name := range BuiltinNames() {
		m, _ := Builtin(name)
		l.meshes[name] = m
	}
	return l
}

// Put adds or replaces a mesh under its own name.
func (l *Library) Put(m Mesh) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meshes[m.Name()] = m
}

// Get looks a mesh up by name.
func (l *Library) Get(name string) (Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.meshes[name]
	return m, ok
}

// MustGet looks a mesh up by name and panics if it is missing. Gameplay code uses
// it for names that NewLibrary guarantees.
func (l *Library) MustGet(name string) Mesh {
	m, ok := l.Get(name)
	if !ok {
		panic(fmt.Sprintf("mesh: %q not in library", name))
	}
	return m
}

// Names returns the sorted names of every mesh in the library.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.meshes))
	for name := range l.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
