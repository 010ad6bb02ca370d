package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gotherm/pkg/probe"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Probe   ProbeConfig   `yaml:"probe"`
	Monitor MonitorConfig `yaml:"monitor"`
	Mock    MockConfig    `yaml:"mock"`
	Log     LogConfig     `yaml:"log"`
}

// SerialConfig contains host-side serial link configuration.
type SerialConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	WakeupDelay time.Duration `yaml:"wakeup_delay"` // settle time after opening the port
	ReadTimeout time.Duration `yaml:"read_timeout"` // timeout while waiting for a response line
	Retries     int           `yaml:"retries"`      // attempts per reading request
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

// ProbeConfig contains the probe calibration and presentation settings.
// Mirrors probe.Config in YAML-friendly form.
type ProbeConfig struct {
	Trigger        string  `yaml:"trigger"` // single command character
	Scale          float64 `yaml:"scale"`
	Divisor        float64 `yaml:"divisor"`
	Offset         float64 `yaml:"offset"`
	ADCMax         uint16  `yaml:"adc_max"`
	AlertEnabled   bool    `yaml:"alert_enabled"`
	AlertThreshold float64 `yaml:"alert_threshold"`
	Banner         bool    `yaml:"banner"`
	Decimals       int     `yaml:"decimals"`
	Unit           string  `yaml:"unit"`
	Precision      string  `yaml:"precision"` // "float64" or "float32"
}

// MonitorConfig contains the threshold monitor parameters.
type MonitorConfig struct {
	Devices        []string      `yaml:"devices"`         // serial ports to sweep
	MaxTemp        float64       `yaml:"max_temp"`        // emergency threshold (°C)
	Interval       time.Duration `yaml:"interval"`        // time between sweeps
	Hysteresis     int           `yaml:"hysteresis"`      // consecutive hot readings before the action fires
	AlertCommand   []string      `yaml:"alert_command"`   // executed on emergency, empty = log only
	ActionCooldown time.Duration `yaml:"action_cooldown"` // minimum time between action runs
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Sample     uint16  `yaml:"sample"`      // pinned raw sample the simulated sensor returns
	NoiseLevel float64 `yaml:"noise_level"` // noise amplitude in ADC counts
}

// LogConfig contains logging configuration.
type LogConfig struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Probe converts the YAML form to the reporter's configuration.
func (p ProbeConfig) Probe() probe.Config {
	cfg := probe.Config{
		Scale:          p.Scale,
		Divisor:        p.Divisor,
		Offset:         p.Offset,
		ADCMax:         p.ADCMax,
		AlertEnabled:   p.AlertEnabled,
		AlertThreshold: p.AlertThreshold,
		Banner:         p.Banner,
		Decimals:       p.Decimals,
		Unit:           p.Unit,
	}
	if p.Trigger != "" {
		cfg.Trigger = p.Trigger[0]
	} else {
		cfg.Trigger = 'R'
	}
	if p.Precision == "float32" {
		cfg.Precision = probe.Float32
	}
	return cfg
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:        "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate:    probe.DefaultBaudRate,
			WakeupDelay: time.Second,
			ReadTimeout: time.Second,
			Retries:     3,
			RetryDelay:  500 * time.Millisecond,
		},
		Probe: ProbeConfig{
			Trigger:        "R",
			Scale:          340,
			Divisor:        614.4,
			Offset:         70,
			ADCMax:         probe.DefaultADCMax,
			AlertEnabled:   false,
			AlertThreshold: 100.0,
			Banner:         true,
			Decimals:       2,
			Unit:           "",
			Precision:      "float64",
		},
		Monitor: MonitorConfig{
			Devices:        []string{"/dev/ttyACM0"},
			MaxTemp:        180.0,
			Interval:       5 * time.Minute,
			Hysteresis:     2,
			AlertCommand:   nil,
			ActionCooldown: 5 * time.Minute,
		},
		Mock: MockConfig{
			Sample:     614,
			NoiseLevel: 0,
		},
		Log: LogConfig{
			File:    "gotherm.log",
			Level:   "info",
			Console: true,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.WakeupDelay == 0 {
		c.Serial.WakeupDelay = def.Serial.WakeupDelay
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}
	if c.Serial.Retries == 0 {
		c.Serial.Retries = def.Serial.Retries
	}
	if c.Serial.RetryDelay == 0 {
		c.Serial.RetryDelay = def.Serial.RetryDelay
	}

	if c.Probe.Trigger == "" {
		c.Probe.Trigger = def.Probe.Trigger
	}
	if c.Probe.Scale == 0 {
		c.Probe.Scale = def.Probe.Scale
	}
	if c.Probe.Divisor == 0 {
		c.Probe.Divisor = def.Probe.Divisor
	}
	if c.Probe.ADCMax == 0 {
		c.Probe.ADCMax = def.Probe.ADCMax
	}
	if c.Probe.AlertThreshold == 0 {
		c.Probe.AlertThreshold = def.Probe.AlertThreshold
	}
	if c.Probe.Precision == "" {
		c.Probe.Precision = def.Probe.Precision
	}

	if len(c.Monitor.Devices) == 0 {
		c.Monitor.Devices = def.Monitor.Devices
	}
	if c.Monitor.MaxTemp == 0 {
		c.Monitor.MaxTemp = def.Monitor.MaxTemp
	}
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = def.Monitor.Interval
	}
	if c.Monitor.Hysteresis == 0 {
		c.Monitor.Hysteresis = def.Monitor.Hysteresis
	}
	if c.Monitor.ActionCooldown == 0 {
		c.Monitor.ActionCooldown = def.Monitor.ActionCooldown
	}

	if c.Mock.Sample == 0 {
		c.Mock.Sample = def.Mock.Sample
	}

	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
