// Package config loads client and server configuration from YAML, with
// overrides from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vkngwrapper/bulletblaster/gpuselect"
)

// Config is the root configuration.
type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Window      WindowConfig      `yaml:"window"`
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Network     NetworkConfig     `yaml:"network"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ApplicationConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// GraphicsConfig drives device negotiation.
type GraphicsConfig struct {
	// DeviceExtensions must be supported by the selected device.
	DeviceExtensions []string `yaml:"device_extensions"`
	// OptionalDeviceExtensions are enabled when present.
	OptionalDeviceExtensions []string `yaml:"optional_device_extensions"`
	// Features must be supported by the selected device, by Vulkan member name.
	Features []string `yaml:"features"`
	// RequirePresentation rejects devices that cannot present to the window.
	RequirePresentation bool `yaml:"require_presentation"`
	// DiscreteBonus is added to the score of discrete GPUs.
	DiscreteBonus uint64 `yaml:"discrete_bonus"`
	// Validation enables the Khronos validation layer and a debug messenger.
	Validation bool `yaml:"validation"`
}

type NetworkConfig struct {
	Server string `yaml:"server"`
	Port   int    `yaml:"port"`
}

// Address is the host:port the client connects to and the server binds.
func (n NetworkConfig) Address() string {
	return n.Server + ":" + strconv.Itoa(n.Port)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:    "Bullet Blaster",
			Version: "0.1.0",
		},
		Window: WindowConfig{
			Title:  "BulletBlaster",
			Width:  800,
			Height: 600,
		},
		Graphics: GraphicsConfig{
			DeviceExtensions:         []string{"VK_KHR_swapchain"},
			OptionalDeviceExtensions: []string{"VK_KHR_portability_subset"},
			RequirePresentation:      true,
			DiscreteBonus:            3000,
		},
		Network: NetworkConfig{
			Server: "127.0.0.1",
			Port:   7777,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads path on top of the defaults. An empty path skips the file.
// Environment overrides are applied last, after loading a .env file from
// the working directory if one exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parsing config file")
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the named files without overriding ones
// already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.Wrapf(err, "loading %s", name)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SERVER"); v != "" {
		cfg.Network.Server = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "PORT=%q", v)
		}
		cfg.Network.Port = port
	}
	if v := os.Getenv("BLASTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BLASTER_VALIDATION"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "BLASTER_VALIDATION=%q", v)
		}
		cfg.Graphics.Validation = enabled
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Network.Port < 0 || c.Network.Port > 65535 {
		return errors.Newf("network port %d out of range", c.Network.Port)
	}
	for _, name := range c.Graphics.DeviceExtensions {
		if strings.TrimSpace(name) == "" {
			return errors.New("empty device extension name")
		}
	}
	for _, name := range c.Graphics.Features {
		if !gpuselect.Feature(name).Known() {
			return errors.Newf("unknown device feature %q", name)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return errors.Newf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Requirements converts the graphics section into device requirements.
func (g GraphicsConfig) Requirements() gpuselect.Requirements {
	features := make([]gpuselect.Feature, len(g.Features))
	for i, name := range g.Features {
		features[i] = gpuselect.Feature(name)
	}
	return gpuselect.Requirements{
		Extensions:         g.DeviceExtensions,
		OptionalExtensions: g.OptionalDeviceExtensions,
		Features:           features,
	}
}

// ScoreFunc is the device ranking configured by DiscreteBonus.
func (g GraphicsConfig) ScoreFunc() gpuselect.ScoreFunc {
	return gpuselect.WeightedScore(g.DiscreteBonus)
}
