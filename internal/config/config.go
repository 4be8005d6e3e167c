// Package config loads the optional phoenix.yaml project file. A
// missing file is not an error: every field has a default, and the
// loader fills in defaults for fields the file leaves out.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working
// directory when no explicit path is given.
const DefaultFile = "phoenix.yaml"

// Config is the project configuration.
type Config struct {
	Compiler string   `yaml:"compiler"`  // backend C compiler
	Flags    []string `yaml:"flags"`     // extra backend flags
	CacheDir string   `yaml:"cache_dir"` // build cache root
	OutDir   string   `yaml:"out_dir"`   // where .c files and binaries land

	// Watch holds the debounce window for `phoenix watch`, as a Go
	// duration string in the file ("200ms").
	Watch WatchConfig `yaml:"watch"`
}

// WatchConfig configures the rebuild-on-change loop.
type WatchConfig struct {
	Debounce time.Duration `yaml:"-"`
}

// UnmarshalYAML accepts the debounce as a duration string ("200ms");
// yaml.v3 has no native time.Duration decoding.
func (w *WatchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Debounce string `yaml:"debounce"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Debounce == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.Debounce)
	if err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	w.Debounce = d
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Compiler: "cc",
		Flags:    []string{"-O3"},
		CacheDir: ".phoenix-cache",
		OutDir:   ".",
		Watch:    WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Load reads path and overlays it onto the defaults. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := Default()
	if c.Compiler == "" {
		c.Compiler = def.Compiler
	}
	if c.Flags == nil {
		c.Flags = def.Flags
	}
	if c.CacheDir == "" {
		c.CacheDir = def.CacheDir
	}
	if c.OutDir == "" {
		c.OutDir = def.OutDir
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = def.Watch.Debounce
	}
	return c
}
