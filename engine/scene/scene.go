package scene

import (
	"context"

	"github.com/Carmen-Shannon/oxy-arena/engine/controls"
	"github.com/Carmen-Shannon/oxy-arena/engine/graphics"
	"github.com/Carmen-Shannon/oxy-arena/engine/systems"
	"go.uber.org/zap"
)

// Scene owns the flat list of live entities together with the graphics organizer,
// systems and controls they register with. It runs on the frame thread only.
//
// Structural changes to the entity list happen in distinct passes: compaction
// removes, lifting inserts and the update pass never mutates the list itself.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// AddEntity attaches e to controls and systems when it declares interest,
	// appends it to the entity list, registers its graphics with the organizer,
	// then recursively adds every child on its child stack.
	//
	// Children must not form a cycle; AddEntity does not guard against it.
	//
	// Parameters:
	//   - e: the entity to add
	AddEntity(e Entity)

	// Update runs one simulation step: compaction, the lift pass, Update on every
	// Updatable entity that was live when the pass began, then the systems.
	//
	// Parameters:
	//   - dt: elapsed time since the previous frame in seconds
	Update(dt float32)

	// ProcessDeletedEntities removes every entity marked for deletion in one
	// in-place pass that keeps the order of the survivors. Each removed entity has
	// its graphics removed from the organizer and its destructor hook called once.
	//
	// Returns:
	//   - int: the number of entities removed
	ProcessDeletedEntities() int

	// OnResize records the canvas size and forwards it to the controls viewport
	// and every Resizable entity.
	//
	// Parameters:
	//   - width: canvas width in pixels
	//   - height: canvas height in pixels
	OnResize(width, height int)

	// Size returns the last canvas size passed to OnResize.
	Size() (width, height int)

	// Teardown aborts the scene's controls and removes every entity through the
	// compaction path. Calling it more than once is a no-op.
	Teardown()

	// Entities returns the live entity list. The slice is owned by the scene and
	// must not be modified or retained across frames.
	Entities() []Entity

	// Organizer returns the graphics organizer the renderer draws from.
	Organizer() *graphics.Organizer

	// Systems returns the scene's collision and spatial systems.
	Systems() *systems.Systems

	// Controls returns the scene's input hub.
	Controls() *controls.Controls
}

type scene struct {
	name      string
	logger    *zap.Logger
	organizer *graphics.Organizer
	systems   *systems.Systems
	controls  *controls.Controls
	entities  []Entity
	width     int
	height    int
	torn      bool

	systemOptions []systems.SystemsBuilderOption
}

var _ Scene = &scene{}

// NewScene creates an empty scene. Its controls derive their abort handle from ctx,
// so cancelling ctx detaches every listener the scene's entities registered.
//
// Panics if ctx is nil.
//
// Parameters:
//   - ctx: parent context for the scene's controls
//   - name: the scene's identifier
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(ctx context.Context, name string, options ...SceneBuilderOption) Scene {
	if ctx == nil {
		panic("scene: NewScene requires a non-nil context")
	}

	s := &scene{
		name:   name,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}

	s.logger = s.logger.With(zap.String("scene", name))
	s.organizer = graphics.NewOrganizer(s.logger)
	s.systems = systems.NewSystems(append([]systems.SystemsBuilderOption{systems.WithLogger(s.logger)}, s.systemOptions...)...)
	s.controls = controls.NewControls(ctx,
		controls.WithLogger(s.logger),
		controls.WithViewport(s.width, s.height))
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) AddEntity(e Entity) {
	if e == nil {
		return
	}
	if s.torn {
		s.logger.Warn("tried to add entity to a torn down scene", zap.Stringer("entity", e.ID()))
		return
	}

	if r, ok := e.(ControlReceiver); ok {
		r.AttachControls(s.controls)
	}
	if r, ok := e.(SystemRegistrant); ok {
		r.RegisterSystems(s.systems)
	}
	s.entities = append(s.entities, e)
	s.organizer.Register(e.Graphics()...)

	s.lift(e)
}

// lift adds every child queued on e, recursing through AddEntity.
func (s *scene) lift(e Entity) {
	for _, child := range e.TakeChildren() {
		s.AddEntity(child)
	}
}

func (s *scene) Update(dt float32) {
	if s.torn {
		return
	}
	s.ProcessDeletedEntities()

	live := len(s.entities)
	for i := 0; i < live; i++ {
		s.lift(s.entities[i])
	}

	// Entities lifted above are updated this frame; anything spawned below waits
	// for the next lift pass.
	live = len(s.entities)
	for i := 0; i < live; i++ {
		if u, ok := s.entities[i].(Updatable); ok {
			u.Update(dt)
		}
	}

	s.systems.Execute()
}

func (s *scene) ProcessDeletedEntities() int {
	kept := 0
	for _, e := range s.entities {
		if e.MarkedForDeletion() {
			s.destroy(e)
			continue
		}
		s.entities[kept] = e
		kept++
	}
	removed := len(s.entities) - kept
	clear(s.entities[kept:])
	s.entities = s.entities[:kept]
	if removed > 0 {
		s.logger.Debug("compacted entities", zap.Int("removed", removed), zap.Int("live", kept))
	}
	return removed
}

func (s *scene) destroy(e Entity) {
	s.organizer.Remove(e.Graphics()...)
	if d, ok := e.(Destructible); ok {
		d.Destroy(s.systems, s.controls)
	}
}

func (s *scene) OnResize(width, height int) {
	s.width, s.height = width, height
	s.controls.SetViewport(width, height)
	for _, e := range s.entities {
		if r, ok := e.(Resizable); ok {
			r.OnResize(width, height)
		}
	}
}

func (s *scene) Size() (width, height int) {
	return s.width, s.height
}

func (s *scene) Teardown() {
	if s.torn {
		return
	}
	s.torn = true
	s.controls.Abort()
	for _, e := range s.entities {
		s.destroy(e)
	}
	s.logger.Debug("scene torn down", zap.Int("entities", len(s.entities)))
	clear(s.entities)
	s.entities = s.entities[:0]
}

func (s *scene) Entities() []Entity {
	return s.entities
}

func (s *scene) Organizer() *graphics.Organizer {
	return s.organizer
}

func (s *scene) Systems() *systems.Systems {
	return s.systems
}

func (s *scene) Controls() *controls.Controls {
	return s.controls
}
