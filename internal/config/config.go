// Package config loads coursekit settings.
// Precedence (highest to lowest): flags > env vars > config file > defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/pluqqy/coursekit/pkg/files"
)

const EnvPrefix = "COURSEKIT_"

type DirectoryConfig struct {
	URL           string        `koanf:"url" yaml:"url"`
	Timeout       time.Duration `koanf:"timeout" yaml:"timeout"`
	DefaultAvatar string        `koanf:"default_avatar" yaml:"default_avatar"`
}

type PreviewConfig struct {
	ImageDelay time.Duration `koanf:"image_delay" yaml:"image_delay"`
	VideoDelay time.Duration `koanf:"video_delay" yaml:"video_delay"`
}

type LogConfig struct {
	Mode string `koanf:"mode" yaml:"mode"`
	File string `koanf:"file" yaml:"file"`
}

type WarningsConfig struct {
	MinGrade bool `koanf:"min_grade" yaml:"min_grade"`
}

// Config is the resolved configuration
type Config struct {
	DataDir   string          `koanf:"data_dir" yaml:"data_dir"`
	Directory DirectoryConfig `koanf:"directory" yaml:"directory"`
	Preview   PreviewConfig   `koanf:"preview" yaml:"preview"`
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Warnings  WarningsConfig  `koanf:"warnings" yaml:"warnings"`

	// File is the config file that was read, if any
	File string `koanf:"-" yaml:"-"`
}

// LogFile returns the log destination, defaulting to a file in the data directory
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "coursekit.log")
}

// DefaultAvatar is shown for directory profiles without an image
const DefaultAvatar = "https://cdn4.iconfinder.com/data/icons/ui-standard/96/People-512.png"

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":                 files.DefaultDataDir,
		"directory.url":            "",
		"directory.timeout":        "10s",
		"directory.default_avatar": DefaultAvatar,
		"preview.image_delay":      "1s",
		"preview.video_delay":      "1s",
		"log.mode":                 "development",
		"log.file":                 "",
		"warnings.min_grade":       false,
	}
}

// sections are the nested key groups; env and flag names use "_" or "-"
// where the config file nests
var sections = []string{"directory", "preview", "log", "warnings"}

func nestKey(key string) string {
	for _, s := range sections {
		if strings.HasPrefix(key, s+"_") {
			return s + "." + strings.TrimPrefix(key, s+"_")
		}
	}
	return key
}

// findConfigFile returns explicit, or the first config file found in the
// working directory
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{files.ConfigFile, "coursekit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration. Only flags that were explicitly set
// override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// COURSEKIT_DIRECTORY_URL -> directory.url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return nestKey(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := nestKey(strings.ReplaceAll(f.Name, "-", "_"))
			if _, known := defaults()[key]; !known {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable fallback
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Directory.Timeout < 0 || c.Preview.ImageDelay < 0 || c.Preview.VideoDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	switch strings.ToLower(c.Log.Mode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("unknown log mode %q", c.Log.Mode)
	}
	return nil
}

// WriteDefault writes a config file with the default values and dataDir.
// It refuses to overwrite an existing file.
func WriteDefault(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if dataDir == "" {
		dataDir = files.DefaultDataDir
	}
	cfg := Config{
		DataDir:   dataDir,
		Directory: DirectoryConfig{Timeout: 10 * time.Second},
		Preview:   PreviewConfig{ImageDelay: time.Second, VideoDelay: time.Second},
		Log:       LogConfig{Mode: "development"},
	}
	content, err := yamlv3.Marshal(fileView(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return files.WriteFile(path, string(content))
}

// fileView renders durations as strings so the file reads back through koanf
func fileView(c Config) map[string]interface{} {
	return map[string]interface{}{
		"data_dir": c.DataDir,
		"directory": map[string]interface{}{
			"url":            c.Directory.URL,
			"timeout":        c.Directory.Timeout.String(),
			"default_avatar": c.Directory.DefaultAvatar,
		},
		"preview": map[string]interface{}{
			"image_delay": c.Preview.ImageDelay.String(),
			"video_delay": c.Preview.VideoDelay.String(),
		},
		"log": map[string]interface{}{
			"mode": c.Log.Mode,
			"file": c.Log.File,
		},
		"warnings": map[string]interface{}{
			"min_grade": c.Warnings.MinGrade,
		},
	}
}
