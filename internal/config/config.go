// Package config loads application settings from a JSON file and merges
// them with command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/texture"
)

// Light source names.
const (
	LightHeadlamp = "headlamp"
	LightFixed    = "fixed"
)

// Config holds everything the viewer and snapshot commands need.
type Config struct {
	// Scene
	Model   string  `json:"model"`
	Texture string  `json:"texture"`
	Spin    float64 `json:"spin"` // Spin impulse in radians per second

	// Texture sampling: "nearest" or "bilinear", "repeat" or "clamp"
	TextureFilter string `json:"texture_filter"`
	TextureWrap   string `json:"texture_wrap"`

	// Lens
	FOV  float64 `json:"fov"` // Degrees
	Near float64 `json:"near"`
	Far  float64 `json:"far"`

	// Loop and camera
	FPS       int     `json:"fps"`
	MoveSpeed float64 `json:"move_speed"`
	TurnSpeed float64 `json:"turn_speed"`
	Light     string  `json:"light"`

	// Drawing
	Fill          *bool `json:"fill"`
	Wireframe     bool  `json:"wireframe"`
	Textured      *bool `json:"textured"`
	ShadeTextures bool  `json:"shade_textures"`
	Inset         bool  `json:"inset"`
	Debug         bool  `json:"debug"`

	Snapshot Snapshot `json:"snapshot"`
}

// Snapshot configures headless rendering to a file.
type Snapshot struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Supersample int    `json:"supersample"`
	Output      string `json:"output"`
}

// Flags holds CLI flag values that override config file settings. Zero
// values and nil pointers leave the file's setting alone.
type Flags struct {
	Model     string
	Texture   string
	Filter    string
	Wrap      string
	FOV       float64
	FPS       int
	Light     string
	Fill      *bool
	Wireframe *bool
	Textured  *bool
	Inset     *bool
	Debug     *bool

	Width       int
	Height      int
	Supersample int
	Output      string
}

// Load reads a JSON config file. Fields not set in the file keep their
// zero values until Resolve fills them.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides and fills remaining empty fields with
// defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Filter != "" {
		c.TextureFilter = flags.Filter
	}
	if flags.Wrap != "" {
		c.TextureWrap = flags.Wrap
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Light != "" {
		c.Light = flags.Light
	}
	if flags.Fill != nil {
		c.Fill = flags.Fill
	}
	if flags.Wireframe != nil {
		c.Wireframe = *flags.Wireframe
	}
	if flags.Textured != nil {
		c.Textured = flags.Textured
	}
	if flags.Inset != nil {
		c.Inset = *flags.Inset
	}
	if flags.Debug != nil {
		c.Debug = *flags.Debug
	}
	if flags.Width > 0 {
		c.Snapshot.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Snapshot.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Snapshot.Supersample = flags.Supersample
	}
	if flags.Output != "" {
		c.Snapshot.Output = flags.Output
	}

	if c.TextureFilter == "" {
		c.TextureFilter = "nearest"
	}
	if c.TextureWrap == "" {
		c.TextureWrap = "repeat"
	}
	lens := render.DefaultLens()
	if c.FOV <= 0 {
		c.FOV = lens.FOV
	}
	if c.Near <= 0 {
		c.Near = lens.Near
	}
	if c.Far <= 0 {
		c.Far = lens.Far
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.MoveSpeed <= 0 {
		c.MoveSpeed = 8
	}
	if c.TurnSpeed <= 0 {
		c.TurnSpeed = 2
	}
	if c.Light == "" {
		c.Light = LightHeadlamp
	}
	if c.Fill == nil {
		c.Fill = ptr(true)
	}
	if c.Textured == nil {
		c.Textured = ptr(true)
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 640
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 480
	}
	if c.Snapshot.Supersample <= 0 {
		c.Snapshot.Supersample = 1
	}
	if c.Snapshot.Output == "" {
		c.Snapshot.Output = "frame.png"
	}
}

// Validate reports settings the renderer cannot use. Call it after
// Resolve.
func (c *Config) Validate() error {
	var errs []error
	if c.FOV <= 0 || c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %v must be between 0 and 180 degrees", c.FOV))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("clip range %v..%v must satisfy 0 < near < far", c.Near, c.Far))
	}
	if c.Light != LightHeadlamp && c.Light != LightFixed {
		errs = append(errs, fmt.Errorf("light %q must be %q or %q", c.Light, LightHeadlamp, LightFixed))
	}
	if _, err := texture.ParseFilter(c.TextureFilter); err != nil {
		errs = append(errs, err)
	}
	if _, err := texture.ParseWrap(c.TextureWrap); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Lens returns the projection settings.
func (c *Config) Lens() render.Lens {
	return render.Lens{FOV: c.FOV, Near: c.Near, Far: c.Far}
}

// Sampling returns the texture filter and wrap modes. Unknown names fall
// back to nearest and repeat; Validate reports them.
func (c *Config) Sampling() (texture.FilterMode, texture.WrapMode) {
	f, _ := texture.ParseFilter(c.TextureFilter)
	w, _ := texture.ParseWrap(c.TextureWrap)
	return f, w
}

// Options returns the per-frame render options.
func (c *Config) Options() render.Options {
	opts := render.DefaultOptions()
	opts.Fill = c.Fill == nil || *c.Fill
	opts.Textured = c.Textured == nil || *c.Textured
	opts.Wireframe = c.Wireframe
	opts.ShadeTextures = c.ShadeTextures
	opts.Debug = c.Debug
	return opts
}

func ptr[T any](v T) *T {
	return &v
}
