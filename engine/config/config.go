// Package config loads the arena's YAML configuration. Missing fields keep
// their defaults; the result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-arena/engine/device"
	"github.com/Carmen-Shannon/oxy-arena/engine/mesh"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Present modes accepted in render.present_mode.
const (
	PresentVSync    = "vsync"
	PresentUncapped = "uncapped"
)

// Config is the complete arena configuration.
type Config struct {
	Window Window            `yaml:"window"`
	Render Render            `yaml:"render"`
	Loop   Loop              `yaml:"loop"`
	Log    Log               `yaml:"log"`
	Arena  Arena             `yaml:"arena"`
	Meshes map[string]string `yaml:"meshes"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Size limits for interactive resizing. The initial size must lie within them.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

type Render struct {
	PresentMode     string     `yaml:"present_mode"`
	ForceFallback   bool       `yaml:"force_fallback_adapter"`
	ValidateShaders bool       `yaml:"validate_shaders"`
	ClearColor      [4]float64 `yaml:"clear_color"`
}

type Loop struct {
	// MaxFrameDelta is the longest frame, in seconds, that still advances the simulation.
	MaxFrameDelta float32 `yaml:"max_frame_delta"`
	// ProfileInterval is how often, in seconds, frame statistics are logged. Zero disables it.
	ProfileInterval float32 `yaml:"profile_interval"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Arena tunes the gameplay entities.
type Arena struct {
	Size float32 `yaml:"size"`
	Seed int64   `yaml:"seed"`

	PlayerSpeed  float32 `yaml:"player_speed"`
	PlayerRadius float32 `yaml:"player_radius"`
	PlayerHealth int     `yaml:"player_health"`

	FireballInterval float32 `yaml:"fireball_interval"`
	FireballJitter   float32 `yaml:"fireball_jitter"`
	FireballSpeed    float32 `yaml:"fireball_speed"`
	FireballRadius   float32 `yaml:"fireball_radius"`
	FireballDamage   float32 `yaml:"fireball_damage"`
	SpawnDuration    float32 `yaml:"spawn_duration"`

	PickupInterval float32 `yaml:"pickup_interval"`
	PickupMax      int     `yaml:"pickup_max"`
	PickupHeal     float32 `yaml:"pickup_heal"`

	CameraDistance float32 `yaml:"camera_distance"`
	CameraSpeed    float32 `yaml:"camera_speed"`
	CameraFov      float32 `yaml:"camera_fov"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Title:     "oxy arena",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
			MaxWidth:  2560,
			MaxHeight: 1440,
		},
		Render: Render{
			PresentMode: PresentVSync,
			ClearColor:  [4]float64{0.5, 0.5, 0.5, 1},
		},
		Loop: Loop{MaxFrameDelta: 1.0 / 20, ProfileInterval: 5},
		Log:  Log{Level: "info", Encoding: "console"},
		Arena: Arena{
			Size:             50,
			Seed:             1,
			PlayerSpeed:      10,
			PlayerRadius:     1,
			PlayerHealth:     10,
			FireballInterval: 1,
			FireballJitter:   1,
			FireballSpeed:    12,
			FireballRadius:   0.5,
			FireballDamage:   1,
			SpawnDuration:    0.25,
			PickupInterval:   5,
			PickupMax:        3,
			PickupHeal:       -2,
			CameraDistance:   50,
			CameraSpeed:      20,
			CameraFov:        1,
		},
		Meshes: map[string]string{},
	}
}

// Load reads and decodes the file at path.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if decoding or validation fails
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid field, wrapped in ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0:
		return fmt.Errorf("%w: window minimum %dx%d", ErrInvalid, c.Window.MinWidth, c.Window.MinHeight)
	case c.Window.Width < c.Window.MinWidth || c.Window.Width > c.Window.MaxWidth:
		return fmt.Errorf("%w: window width %d outside [%d, %d]", ErrInvalid, c.Window.Width, c.Window.MinWidth, c.Window.MaxWidth)
	case c.Window.Height < c.Window.MinHeight || c.Window.Height > c.Window.MaxHeight:
		return fmt.Errorf("%w: window height %d outside [%d, %d]", ErrInvalid, c.Window.Height, c.Window.MinHeight, c.Window.MaxHeight)
	case c.Render.PresentMode != PresentVSync && c.Render.PresentMode != PresentUncapped:
		return fmt.Errorf("%w: present mode %q", ErrInvalid, c.Render.PresentMode)
	case c.Loop.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: max frame delta %v", ErrInvalid, c.Loop.MaxFrameDelta)
	case c.Loop.ProfileInterval < 0:
		return fmt.Errorf("%w: profile interval %v", ErrInvalid, c.Loop.ProfileInterval)
	case c.Arena.Size <= 0:
		return fmt.Errorf("%w: arena size %v", ErrInvalid, c.Arena.Size)
	case c.Arena.PlayerHealth <= 0:
		return fmt.Errorf("%w: player health %d", ErrInvalid, c.Arena.PlayerHealth)
	case c.Arena.PlayerRadius <= 0 || c.Arena.FireballRadius <= 0:
		return fmt.Errorf("%w: collider radius must be positive", ErrInvalid)
	case c.Arena.FireballInterval <= 0 || c.Arena.PickupInterval <= 0:
		return fmt.Errorf("%w: spawn intervals must be positive", ErrInvalid)
	case c.Arena.FireballJitter < 0 || c.Arena.SpawnDuration < 0 || c.Arena.PickupMax < 0:
		return fmt.Errorf("%w: negative spawner setting", ErrInvalid)
	case c.Arena.CameraFov <= 0 || c.Arena.CameraDistance <= 0:
		return fmt.Errorf("%w: camera framing must be positive", ErrInvalid)
	}
	return c.validateMeshes()
}

// validateMeshes rejects overrides of built-ins the loaders cannot reproduce.
// Loaded meshes always carry normals.
func (c Config) validateMeshes() error {
	for name := range c.Meshes {
		if layout, ok := mesh.BuiltinLayout(name); ok && layout != mesh.LayoutNormal {
			return fmt.Errorf("%w: mesh %q cannot be overridden, its built-in layout is %s", ErrInvalid, name, layout)
		}
	}
	return nil
}

// Mode maps render.present_mode onto the device option.
func (r Render) Mode() device.PresentMode {
	if r.PresentMode == PresentUncapped {
		return device.PresentModeUncapped
	}
	return device.PresentModeVSync
}

// Clear returns render.clear_color as a device clear color.
func (r Render) Clear() device.ClearColor {
	return device.ClearColor{R: r.ClearColor[0], G: r.ClearColor[1], B: r.ClearColor[2], A: r.ClearColor[3]}
}
