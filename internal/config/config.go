// Package config loads the daemon configuration from a YAML file with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/signlight/internal/gpio"
	"github.com/sweeney/signlight/internal/pwm"
)

// Config represents the application configuration.
type Config struct {
	Location Location     `yaml:"location"`
	Timezone Timezone     `yaml:"timezone"`
	Lamp     LampConfig   `yaml:"lamp"`
	Button   ButtonConfig `yaml:"button"`
	Loop     LoopConfig   `yaml:"loop"`
	MQTT     MQTTConfig   `yaml:"mqtt"`
	HTTP     HTTPConfig   `yaml:"http"`
	Log      LogConfig    `yaml:"log"`
}

// Location is the geographic position of the sign in decimal degrees.
// Negative latitude is south, negative longitude is west.
type Location struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Timezone holds the local zone name plus the two UTC offsets; which one
// applies at a given instant depends on whether DST is in effect.
type Timezone struct {
	Name           string `yaml:"name"`             // IANA name, e.g. America/Chicago
	StdOffsetHours int    `yaml:"std_offset_hours"` // offset outside DST
	DSTOffsetHours int    `yaml:"dst_offset_hours"` // offset during DST
}

// LampConfig configures the PWM output.
type LampConfig struct {
	OnDuty     int      `yaml:"on_duty"`    // duty when fully on (0..255)
	FadeStep   Duration `yaml:"fade_step"`  // delay per one-unit duty change
	PWMChip    int      `yaml:"pwm_chip"`
	PWMChannel int      `yaml:"pwm_channel"`
	PWMPeriod  int      `yaml:"pwm_period"` // nanoseconds
}

// ButtonConfig configures the optional override button.
type ButtonConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Pin      int      `yaml:"pin"`
	Debounce Duration `yaml:"debounce"`
}

// LoopConfig configures control loop cadence.
type LoopConfig struct {
	EvalInterval Duration `yaml:"eval_interval"` // schedule evaluation cadence
	Heartbeat    Duration `yaml:"heartbeat"`     // heartbeat interval (0 = disabled)
}

// MQTTConfig configures telemetry publishing. An empty broker disables it.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	WSBroker string `yaml:"ws_broker"` // websocket URL for the live status page
}

// HTTPConfig configures the status server. An empty addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Timezone.Name == "" {
		c.Timezone.Name = "America/Chicago"
		if c.Timezone.StdOffsetHours == 0 && c.Timezone.DSTOffsetHours == 0 {
			c.Timezone.StdOffsetHours = -6
			c.Timezone.DSTOffsetHours = -5
		}
	}
	if c.Location.Lat == 0 && c.Location.Lon == 0 {
		// Omaha, NE
		c.Location.Lat = 41.2565
		c.Location.Lon = -95.9345
	}
	if c.Lamp.OnDuty == 0 {
		c.Lamp.OnDuty = 192 // 75% of full scale
	}
	if c.Lamp.FadeStep == 0 {
		c.Lamp.FadeStep = Duration(20 * time.Millisecond)
	}
	if c.Lamp.PWMPeriod == 0 {
		c.Lamp.PWMChip = pwm.DefaultChip
		c.Lamp.PWMChannel = pwm.DefaultChannel
		c.Lamp.PWMPeriod = pwm.DefaultPeriodNs
	}
	if c.Button.Pin == 0 {
		c.Button.Pin = gpio.DefaultButtonPin
	}
	if c.Button.Debounce == 0 {
		c.Button.Debounce = Duration(200 * time.Millisecond)
	}
	if c.Loop.EvalInterval == 0 {
		c.Loop.EvalInterval = Duration(time.Minute)
	}
	if c.Loop.Heartbeat == 0 {
		c.Loop.Heartbeat = Duration(15 * time.Minute)
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	// Polar latitudes give degenerate sunrise/sunset; refuse them rather
	// than guess.
	if c.Location.Lat < -66 || c.Location.Lat > 66 {
		return fmt.Errorf("latitude %.4f outside supported range -66..66", c.Location.Lat)
	}
	if c.Location.Lon < -180 || c.Location.Lon > 180 {
		return fmt.Errorf("longitude %.4f outside -180..180", c.Location.Lon)
	}
	if c.Lamp.OnDuty < 1 || c.Lamp.OnDuty > pwm.MaxDuty {
		return fmt.Errorf("lamp on_duty %d outside 1..%d", c.Lamp.OnDuty, pwm.MaxDuty)
	}
	if c.Lamp.FadeStep.Duration() <= 0 {
		return fmt.Errorf("lamp fade_step must be positive")
	}
	if c.Timezone.StdOffsetHours < -12 || c.Timezone.StdOffsetHours > 14 {
		return fmt.Errorf("std_offset_hours %d outside -12..14", c.Timezone.StdOffsetHours)
	}
	if c.Timezone.DSTOffsetHours < -12 || c.Timezone.DSTOffsetHours > 14 {
		return fmt.Errorf("dst_offset_hours %d outside -12..14", c.Timezone.DSTOffsetHours)
	}
	if _, err := c.Timezone.Location(); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone.Name, err)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

// Location resolves the configured IANA timezone.
func (tz Timezone) Location() (*time.Location, error) {
	return time.LoadLocation(tz.Name)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
