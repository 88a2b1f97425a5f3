package lattice

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables shared by MapView, Pyramid and the interaction
// layer. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// TileSize is the side of one tile in pixels.
	TileSize float64 `yaml:"tileSize"`

	// MinZoom and MaxZoom clamp every zoom change.
	MinZoom float64 `yaml:"minZoom"`
	MaxZoom float64 `yaml:"maxZoom"`

	// Wraparound repeats the world horizontally and vertically instead of
	// clamping visible tiles to the grid.
	Wraparound bool `yaml:"wraparound"`

	// PanDurationMs is the length of an animated pan.
	PanDurationMs int `yaml:"panDurationMs"`
	// PanEasing shapes pan progress as 1-(1-t)^(1/easing). Must be > 0.
	PanEasing float64 `yaml:"panEasing"`

	// ZoomDurationMs is the length of an animated zoom.
	ZoomDurationMs int `yaml:"zoomDurationMs"`
	// ZoomDelta is the zoom step applied per wheel notch.
	ZoomDelta float64 `yaml:"zoomDelta"`

	// Inertia enables a pan animation after a fast drag release.
	Inertia bool `yaml:"inertia"`
	// InertiaDurationMs is the length of the inertial pan.
	InertiaDurationMs int `yaml:"inertiaDurationMs"`

	// DragDeadZone is the distance in pixels the pointer must travel before a
	// press becomes a drag.
	DragDeadZone float64 `yaml:"dragDeadZone"`

	// CacheCapacity is the number of tiles the pyramid keeps resident.
	CacheCapacity int `yaml:"cacheCapacity"`
	// MaxAncestorDepth bounds how many levels up a substitute is searched.
	MaxAncestorDepth int `yaml:"maxAncestorDepth"`
	// MaxDescendantDepth bounds how many levels down a substitute is searched.
	MaxDescendantDepth int `yaml:"maxDescendantDepth"`

	// MultiSelectKey names the modifier that extends the selection instead of
	// replacing it: "shift", "ctrl", "alt" or "meta".
	MultiSelectKey string `yaml:"multiSelectKey"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		TileSize:           256,
		MinZoom:            0,
		MaxZoom:            30,
		Wraparound:         false,
		PanDurationMs:      250,
		PanEasing:          0.25,
		ZoomDurationMs:     250,
		ZoomDelta:          1,
		Inertia:            true,
		InertiaDurationMs:  500,
		DragDeadZone:       4,
		CacheCapacity:      512,
		MaxAncestorDepth:   4,
		MaxDescendantDepth: 2,
		MultiSelectKey:     "shift",
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
// Fields missing from data keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("lattice: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("lattice: invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("lattice: read config: %w", err)
	}
	return ParseConfig(data)
}

var validModifiers = map[string]bool{"shift": true, "ctrl": true, "alt": true, "meta": true}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if !(c.TileSize > 0) || math.IsInf(c.TileSize, 0) {
		errs = append(errs, fmt.Errorf("tileSize must be positive, got %v", c.TileSize))
	}
	if c.MinZoom < 0 {
		errs = append(errs, fmt.Errorf("minZoom must not be negative, got %v", c.MinZoom))
	}
	if c.MaxZoom < c.MinZoom {
		errs = append(errs, fmt.Errorf("maxZoom (%v) below minZoom (%v)", c.MaxZoom, c.MinZoom))
	}
	if c.PanDurationMs < 0 || c.ZoomDurationMs < 0 || c.InertiaDurationMs < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if !(c.PanEasing > 0) {
		errs = append(errs, fmt.Errorf("panEasing must be positive, got %v", c.PanEasing))
	}
	if c.DragDeadZone < 0 {
		errs = append(errs, fmt.Errorf("dragDeadZone must not be negative, got %v", c.DragDeadZone))
	}
	if c.CacheCapacity <= 0 {
		errs = append(errs, fmt.Errorf("cacheCapacity must be positive, got %d", c.CacheCapacity))
	}
	if c.MaxAncestorDepth < 0 || c.MaxDescendantDepth < 0 {
		errs = append(errs, errors.New("substitute search depths must not be negative"))
	}
	if c.MultiSelectKey != "" && !validModifiers[c.MultiSelectKey] {
		errs = append(errs, fmt.Errorf("unknown multiSelectKey %q", c.MultiSelectKey))
	}
	return errors.Join(errs...)
}

// PanDuration returns PanDurationMs as a time.Duration.
func (c Config) PanDuration() time.Duration {
	return time.Duration(c.PanDurationMs) * time.Millisecond
}

// ZoomDuration returns ZoomDurationMs as a time.Duration.
func (c Config) ZoomDuration() time.Duration {
	return time.Duration(c.ZoomDurationMs) * time.Millisecond
}

// InertiaDuration returns InertiaDurationMs as a time.Duration.
func (c Config) InertiaDuration() time.Duration {
	return time.Duration(c.InertiaDurationMs) * time.Millisecond
}

// clampZoom restricts z to [MinZoom, MaxZoom].
func (c Config) clampZoom(z float64) float64 {
	return clamp(z, c.MinZoom, c.MaxZoom)
}
