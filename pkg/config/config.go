// Package config loads usbtree settings from a YAML file.
//
// A file only needs the keys it changes; everything else keeps the value from
// Default. Command-line flags are applied on top by the caller.
//
//	color: always
//	glyphs: ascii
//	devices:
//	  - 046d:c52b
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Nicoretti/usb-info/pkg/enumerate"
	"github.com/Nicoretti/usb-info/pkg/log"
	"github.com/Nicoretti/usb-info/pkg/render"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

// Accepted values of the enumerated settings.
const (
	GlyphsUnicode = "unicode"
	GlyphsASCII   = "ascii"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	BackendSysfs    = "sysfs"
	BackendLibusb   = "libusb"
	BackendSnapshot = "snapshot"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings shared by all usbtree commands.
type Config struct {
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`

	// Header prints the summary line above the tree.
	Header bool `yaml:"header"`

	// Glyphs is "unicode" or "ascii".
	Glyphs string `yaml:"glyphs"`

	// Verbose adds address, speed and serial number to labels.
	Verbose bool `yaml:"verbose"`

	// Format is "text", "json" or "yaml".
	Format string `yaml:"format"`

	// Backend is "sysfs", "libusb" or "snapshot".
	Backend string `yaml:"backend"`

	// SysfsRoot is the devices directory read by the sysfs backend.
	SysfsRoot string `yaml:"sysfs_root"`

	// Snapshot is the file replayed by the snapshot backend.
	Snapshot string `yaml:"snapshot"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`

	// Devices is the default vendor:product filter. Empty shows everything.
	Devices []string `yaml:"devices"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Color:     string(render.ColorAuto),
		Header:    true,
		Glyphs:    GlyphsUnicode,
		Format:    FormatText,
		Backend:   BackendSysfs,
		SysfsRoot: enumerate.DefaultSysfsRoot,
		LogLevel:  log.DefaultLevel,
	}
}

// LoadError describes a configuration file that could not be used.
type LoadError struct {
	// File is the path of the configuration file.
	File string

	// Cause is the underlying error.
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.File, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var _ error = (*LoadError)(nil)

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected. Empty input yields Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("YAML parse error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, &LoadError{File: path, Cause: err}
	}
	return cfg, nil
}

// DefaultPath returns the per-user configuration file location,
// usually ~/.config/usbtree/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usbtree", "config.yaml"), nil
}

// Resolve loads explicit when it is set. Otherwise it loads the file at
// DefaultPath if one exists, and falls back to Default. The returned path is
// empty when no file was read.
func Resolve(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks every enumerated setting and the device filter.
func (c Config) Validate() error {
	if _, err := render.ParseColorMode(c.Color); err != nil {
		return fmt.Errorf("%w: color: %v", ErrInvalidConfig, err)
	}
	switch c.Glyphs {
	case GlyphsUnicode, GlyphsASCII:
	default:
		return fmt.Errorf("%w: glyphs %q (want unicode or ascii)", ErrInvalidConfig, c.Glyphs)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: format %q (want text, json or yaml)", ErrInvalidConfig, c.Format)
	}
	switch c.Backend {
	case BackendSysfs, BackendLibusb:
	case BackendSnapshot:
		if c.Snapshot == "" {
			return fmt.Errorf("%w: snapshot backend needs a snapshot file", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: backend %q (want sysfs, libusb or snapshot)", ErrInvalidConfig, c.Backend)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if _, err := usb.ParseIDSet(c.Devices); err != nil {
		return fmt.Errorf("%w: devices: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Style returns the render style for output written to w.
func (c Config) Style(w io.Writer) render.Style {
	s := render.DefaultStyle().
		WithColor(render.ColorMode(c.Color).Enabled(w)).
		WithHeader(c.Header).
		WithVerbose(c.Verbose)
	if c.Glyphs == GlyphsASCII {
		s = s.WithGlyphs(render.ASCIIGlyphs)
	}
	return s
}
