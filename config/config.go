package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the griddle tracker, the cooking
// classifier and the capture loop. Fields may be loaded from a JSON, TOML or
// YAML file and overridden by GRIDDLE_* environment variables.
type Config struct {
	Debug bool `json:"debug" toml:"debug" yaml:"debug"`

	// Patty timers
	DefaultDurationSeconds int `json:"default_duration_seconds" toml:"default_duration_seconds" yaml:"default_duration_seconds"`
	AlarmThresholdSeconds  int `json:"alarm_threshold_seconds" toml:"alarm_threshold_seconds" yaml:"alarm_threshold_seconds"`
	TickIntervalMs         int `json:"tick_interval_ms" toml:"tick_interval_ms" yaml:"tick_interval_ms"`
	BlinkIntervalMs        int `json:"blink_interval_ms" toml:"blink_interval_ms" yaml:"blink_interval_ms"`
	FramePollIntervalMs    int `json:"frame_poll_interval_ms" toml:"frame_poll_interval_ms" yaml:"frame_poll_interval_ms"`

	// Griddle display
	PattyRadius      int  `json:"patty_radius" toml:"patty_radius" yaml:"patty_radius"`
	GriddleWidth     int  `json:"griddle_width" toml:"griddle_width" yaml:"griddle_width"`
	GriddleHeight    int  `json:"griddle_height" toml:"griddle_height" yaml:"griddle_height"`
	SecondaryDisplay bool `json:"secondary_display" toml:"secondary_display" yaml:"secondary_display"`
	SecondaryX       int  `json:"secondary_x" toml:"secondary_x" yaml:"secondary_x"`
	SecondaryY       int  `json:"secondary_y" toml:"secondary_y" yaml:"secondary_y"`

	// Reference images (read-only inputs, fixed names inside ReferenceDir)
	ReferenceDir string `json:"reference_dir" toml:"reference_dir" yaml:"reference_dir"`
	RawImage     string `json:"raw_image" toml:"raw_image" yaml:"raw_image"`
	HalfImage    string `json:"half_image" toml:"half_image" yaml:"half_image"`
	CookedImage  string `json:"cooked_image" toml:"cooked_image" yaml:"cooked_image"`
	HueFloor     int    `json:"hue_floor" toml:"hue_floor" yaml:"hue_floor"`

	// Browned-region detection band (H 0-179, S/V 0-255)
	BandLowerH    int `json:"band_lower_h" toml:"band_lower_h" yaml:"band_lower_h"`
	BandLowerS    int `json:"band_lower_s" toml:"band_lower_s" yaml:"band_lower_s"`
	BandLowerV    int `json:"band_lower_v" toml:"band_lower_v" yaml:"band_lower_v"`
	BandUpperH    int `json:"band_upper_h" toml:"band_upper_h" yaml:"band_upper_h"`
	BandUpperS    int `json:"band_upper_s" toml:"band_upper_s" yaml:"band_upper_s"`
	BandUpperV    int `json:"band_upper_v" toml:"band_upper_v" yaml:"band_upper_v"`
	MinRegionArea int `json:"min_region_area" toml:"min_region_area" yaml:"min_region_area"`

	// Cross-frame region matching
	MatchDistancePx int `json:"match_distance_px" toml:"match_distance_px" yaml:"match_distance_px"`
	MatchMaxMisses  int `json:"match_max_misses" toml:"match_max_misses" yaml:"match_max_misses"`

	// Camera selection rectangle (screen coordinates)
	SelectionX int `json:"selection_x" toml:"selection_x" yaml:"selection_x"`
	SelectionY int `json:"selection_y" toml:"selection_y" yaml:"selection_y"`
	SelectionW int `json:"selection_w" toml:"selection_w" yaml:"selection_w"`
	SelectionH int `json:"selection_h" toml:"selection_h" yaml:"selection_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                  false,
		DefaultDurationSeconds: 30,
		AlarmThresholdSeconds:  5,
		TickIntervalMs:         1000,
		BlinkIntervalMs:        400,
		FramePollIntervalMs:    10,
		PattyRadius:            150,
		GriddleWidth:           1280,
		GriddleHeight:          720,
		SecondaryDisplay:       true,
		SecondaryX:             1920,
		SecondaryY:             0,
		ReferenceDir:           "references",
		RawImage:               "raw.jpg",
		HalfImage:              "half_cooked.jpg",
		CookedImage:            "fully_cooked.jpg",
		HueFloor:               10,
		BandLowerH:             5,
		BandLowerS:             60,
		BandLowerV:             40,
		BandUpperH:             25,
		BandUpperS:             255,
		BandUpperV:             220,
		MinRegionArea:          500,
		MatchDistancePx:        80,
		MatchMaxMisses:         5,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.DefaultDurationSeconds < 0 {
		c.DefaultDurationSeconds = 30
	}
	if c.AlarmThresholdSeconds < 0 {
		c.AlarmThresholdSeconds = 5
	}
	if c.TickIntervalMs <= 0 {
		c.TickIntervalMs = 1000
	}
	if c.BlinkIntervalMs <= 0 {
		c.BlinkIntervalMs = 400
	}
	if c.FramePollIntervalMs <= 0 {
		c.FramePollIntervalMs = 10
	}
	if c.PattyRadius <= 0 {
		c.PattyRadius = 150
	}
	if c.GriddleWidth <= 0 {
		c.GriddleWidth = 1280
	}
	if c.GriddleHeight <= 0 {
		c.GriddleHeight = 720
	}
	if c.HueFloor < 0 || c.HueFloor > 179 {
		c.HueFloor = 10
	}
	c.BandLowerH, c.BandUpperH = clampPair(c.BandLowerH, c.BandUpperH, 179)
	c.BandLowerS, c.BandUpperS = clampPair(c.BandLowerS, c.BandUpperS, 255)
	c.BandLowerV, c.BandUpperV = clampPair(c.BandLowerV, c.BandUpperV, 255)
	if c.MinRegionArea < 0 {
		c.MinRegionArea = 0
	}
	if c.MatchDistancePx <= 0 {
		c.MatchDistancePx = 80
	}
	if c.MatchMaxMisses < 0 {
		c.MatchMaxMisses = 0
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return nil
}

func clampPair(lo, hi, max int) (int, int) {
	lo = clamp(lo, 0, max)
	hi = clamp(hi, 0, max)
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ReferencePaths returns the three reference image paths ordered
// raw, half-cooked, fully cooked.
func (c *Config) ReferencePaths() [3]string {
	join := func(name string) string {
		if filepath.IsAbs(name) || c.ReferenceDir == "" {
			return name
		}
		return filepath.Join(c.ReferenceDir, name)
	}
	return [3]string{join(c.RawImage), join(c.HalfImage), join(c.CookedImage)}
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	p, err := xdg.ConfigFile(filepath.Join("griddle-bot", "config.json"))
	if err != nil {
		return "config.json"
	}
	return p
}

type format int

const (
	formatJSON format = iota
	formatTOML
	formatYAML
)

func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// Load attempts to read configuration from the given file path. The format is
// chosen by extension (.toml, .yaml/.yml, anything else JSON). If the file does
// not exist it returns DefaultConfig(). On decode error it returns defaults with
// the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if err := decode(f, formatFor(path), cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

func decode(r io.Reader, f format, cfg *Config) error {
	switch f {
	case formatTOML:
		return toml.NewDecoder(r).Decode(cfg)
	case formatYAML:
		err := yaml.NewDecoder(r).Decode(cfg)
		if err == io.EOF {
			return nil
		}
		return err
	default:
		return json.NewDecoder(r).Decode(cfg)
	}
}

// Save writes the configuration to the given path, format chosen by extension.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch formatFor(path) {
	case formatTOML:
		return toml.NewEncoder(f).Encode(c)
	case formatYAML:
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
}
