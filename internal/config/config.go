// Package config loads the handcursor YAML configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/handcursor/internal/capture"
	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/plugin"
)

// DirName is the per-user data directory below $HOME.
const DirName = ".handcursor"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Addr      string `yaml:"addr"`
	WebDir    string `yaml:"web_dir"`
	DataDir   string `yaml:"data_dir"`
	DBPath    string `yaml:"db_path"`
	PluginDir string `yaml:"plugin_dir"`
	Tray      bool   `yaml:"tray"`

	Camera        CameraConfig             `yaml:"camera"`
	Surface       SurfaceConfig            `yaml:"surface"`
	Detector      detector.Config          `yaml:"detector"`
	PluginTimeout time.Duration            `yaml:"plugin_timeout"`
	Bindings      map[string]BindingConfig `yaml:"bindings"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	ID  int `yaml:"id"`
	FPS int `yaml:"fps"`
	// MotionThreshold is the percentage of changed pixels below which the
	// previous detection is reused. Zero runs detection on every frame.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// SurfaceConfig is the drawing surface the cursor moves on.
type SurfaceConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BindingConfig maps a cursor action to a plugin action.
//
//	bindings:
//	  click:
//	    plugin: pointer
//	    action: click
//	    config: {button: left}
type BindingConfig struct {
	Plugin  string         `yaml:"plugin"`
	Action  string         `yaml:"action"`
	Options map[string]any `yaml:"config"`
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Addr:          ":8080",
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "handcursor.db"),
		PluginDir:     filepath.Join(dataDir, "plugins"),
		Camera:        CameraConfig{ID: 0, FPS: 30, MotionThreshold: capture.DefaultMotionThreshold},
		Surface:       SurfaceConfig{Width: 1280, Height: 720},
		Detector:      detector.DefaultConfig(),
		PluginTimeout: plugin.DefaultTimeout,
		Bindings:      map[string]BindingConfig{},
	}
}

// DefaultDataDir returns ~/.handcursor.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.handcursor/config.yaml.
func DefaultPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults for the directory containing it. A missing
// file yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	case c.Camera.FPS <= 0:
		return fmt.Errorf("%w: camera.fps must be positive, got %d", ErrInvalid, c.Camera.FPS)
	case c.Camera.MotionThreshold < 0 || c.Camera.MotionThreshold > 100:
		return fmt.Errorf("%w: camera.motion_threshold must be in [0,100]", ErrInvalid)
	case c.Surface.Width <= 0 || c.Surface.Height <= 0:
		return fmt.Errorf("%w: surface must be positive, got %vx%v", ErrInvalid, c.Surface.Width, c.Surface.Height)
	case c.Detector.MaxHands < 1:
		return fmt.Errorf("%w: detector.max_hands must be at least 1", ErrInvalid)
	case !unit(c.Detector.MinConfidence):
		return fmt.Errorf("%w: detector.min_detection_confidence must be in [0,1]", ErrInvalid)
	case !unit(c.Detector.MinTrackingConf):
		return fmt.Errorf("%w: detector.min_tracking_confidence must be in [0,1]", ErrInvalid)
	case c.PluginTimeout < 0:
		return fmt.Errorf("%w: plugin_timeout is negative", ErrInvalid)
	}

	for action, b := range c.Bindings {
		if action != "click" && action != "right-click" {
			return fmt.Errorf("%w: binding for unknown action %q", ErrInvalid, action)
		}
		if b.Plugin == "" {
			return fmt.Errorf("%w: binding %q has no plugin", ErrInvalid, action)
		}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// Binding converts the configured binding for action into a plugin binding.
// It returns nil when action is unbound.
func (c *Config) Binding(action string) (*plugin.Binding, error) {
	b, ok := c.Bindings[action]
	if !ok {
		return nil, nil
	}

	pluginAction := b.Action
	if pluginAction == "" {
		pluginAction = action
	}

	var raw json.RawMessage
	if len(b.Options) > 0 {
		data, err := json.Marshal(b.Options)
		if err != nil {
			return nil, fmt.Errorf("binding %s config: %w", action, err)
		}
		raw = data
	}

	return &plugin.Binding{Plugin: b.Plugin, Action: pluginAction, Config: raw}, nil
}
