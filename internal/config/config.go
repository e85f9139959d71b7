package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Light           LightConfig       `yaml:"light"`
	Controller      ControllerConfig  `yaml:"controller"`
	Trigger         TriggerConfig     `yaml:"trigger"`
	Database        DatabaseConfig    `yaml:"database"`
	Log             LogConfig         `yaml:"log"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	EventBus        EventBusConfig    `yaml:"eventbus"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// LightConfig contains the key light device connection settings
type LightConfig struct {
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	Timeout Duration `yaml:"timeout"` // HTTP timeout for device requests
}

// ControllerConfig contains state bounds, step sizes and debounce settings
type ControllerConfig struct {
	BrightnessMin     int `yaml:"brightness_min"`
	BrightnessMax     int `yaml:"brightness_max"`
	BrightnessStep    int `yaml:"brightness_step"`
	BrightnessDefault int `yaml:"brightness_default"`

	TemperatureMin     int `yaml:"temperature_min"`
	TemperatureMax     int `yaml:"temperature_max"`
	TemperatureStep    int `yaml:"temperature_step"`
	TemperatureDefault int `yaml:"temperature_default"`

	DebounceDelay Duration `yaml:"debounce_delay"` // Quiet period before a burst of intents is flushed
	RateLimitRPS  float64  `yaml:"rate_limit_rps"` // Cap on outbound device requests
}

// TriggerConfig contains the intent HTTP server settings
type TriggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	Workers   int `yaml:"workers"`    // Number of worker goroutines (default: 1)
	QueueSize int `yaml:"queue_size"` // Event queue size (default: 100)
}

// GetWorkers returns worker count with default.
// Defaults to a single worker so intents are handled in arrival order.
func (c *EventBusConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

// GetQueueSize returns queue size with default
func (c *EventBusConfig) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 100
	}
	return c.QueueSize
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
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

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
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

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./glowd.sqlite"
	}

	// Light defaults (Elgato key lights listen on 9123)
	if cfg.Light.Port == 0 {
		cfg.Light.Port = 9123
	}
	if cfg.Light.Timeout == 0 {
		cfg.Light.Timeout = Duration(5 * time.Second)
	}

	// Controller defaults follow the key light's accepted ranges:
	// brightness in [3,100], temperature in device units [143,344]
	if cfg.Controller.BrightnessMin == 0 {
		cfg.Controller.BrightnessMin = 3
	}
	if cfg.Controller.BrightnessMax == 0 {
		cfg.Controller.BrightnessMax = 100
	}
	if cfg.Controller.BrightnessStep == 0 {
		cfg.Controller.BrightnessStep = 10
	}
	if cfg.Controller.BrightnessDefault == 0 {
		cfg.Controller.BrightnessDefault = 50
	}
	if cfg.Controller.TemperatureMin == 0 {
		cfg.Controller.TemperatureMin = 143
	}
	if cfg.Controller.TemperatureMax == 0 {
		cfg.Controller.TemperatureMax = 344
	}
	if cfg.Controller.TemperatureStep == 0 {
		cfg.Controller.TemperatureStep = 10
	}
	if cfg.Controller.TemperatureDefault == 0 {
		cfg.Controller.TemperatureDefault = 170
	}
	if cfg.Controller.DebounceDelay == 0 {
		cfg.Controller.DebounceDelay = Duration(300 * time.Millisecond)
	}
	if cfg.Controller.RateLimitRPS == 0 {
		cfg.Controller.RateLimitRPS = 10.0
	}

	// Trigger server defaults
	if cfg.Trigger.Host == "" {
		cfg.Trigger.Host = "127.0.0.1"
	}
	if cfg.Trigger.Port == 0 {
		cfg.Trigger.Port = 9124
	}

	// Healthcheck defaults
	if cfg.Healthcheck.Host == "" {
		cfg.Healthcheck.Host = "0.0.0.0"
	}
	if cfg.Healthcheck.Port == 0 {
		cfg.Healthcheck.Port = 9090
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

func validate(cfg *Config) error {
	if cfg.Light.Host == "" {
		return fmt.Errorf("light.host is required")
	}
	if cfg.Controller.BrightnessMin > cfg.Controller.BrightnessMax {
		return fmt.Errorf("controller: brightness_min %d > brightness_max %d",
			cfg.Controller.BrightnessMin, cfg.Controller.BrightnessMax)
	}
	if cfg.Controller.TemperatureMin > cfg.Controller.TemperatureMax {
		return fmt.Errorf("controller: temperature_min %d > temperature_max %d",
			cfg.Controller.TemperatureMin, cfg.Controller.TemperatureMax)
	}
	return nil
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
