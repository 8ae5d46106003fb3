package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDDLE_"

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the process environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from GRIDDLE_* environment variables. Invalid
// values are reported and leave the field untouched.
func (c *Config) ApplyEnv() error {
	var bad []string
	setInt := func(key string, dst *int) {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			bad = append(bad, EnvPrefix+key)
			return
		}
		*dst = i
	}
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DEBUG"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			bad = append(bad, EnvPrefix+"DEBUG")
		} else {
			c.Debug = b
		}
	}
	setInt("DEFAULT_DURATION", &c.DefaultDurationSeconds)
	setInt("ALARM_THRESHOLD", &c.AlarmThresholdSeconds)
	setInt("TICK_INTERVAL_MS", &c.TickIntervalMs)
	setInt("BLINK_INTERVAL_MS", &c.BlinkIntervalMs)
	setInt("FRAME_POLL_INTERVAL_MS", &c.FramePollIntervalMs)
	setInt("HUE_FLOOR", &c.HueFloor)
	setInt("MIN_REGION_AREA", &c.MinRegionArea)
	setString("REFERENCE_DIR", &c.ReferenceDir)
	_ = c.Validate()
	if len(bad) > 0 {
		return fmt.Errorf("config: invalid environment values: %s", strings.Join(bad, ", "))
	}
	return nil
}
