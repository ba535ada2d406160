// Package commands implements the usbtree subcommands.
//
// Each RunX function parses its own arguments, writes results to stdout and
// diagnostics to stderr, and returns the process exit code.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/Nicoretti/usb-info/pkg/config"
	"github.com/Nicoretti/usb-info/pkg/enumerate"
	"github.com/Nicoretti/usb-info/pkg/log"
	"github.com/Nicoretti/usb-info/pkg/snapshot"
	"github.com/Nicoretti/usb-info/pkg/tree"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitNotFound     = 2
	exitBackend      = 3
)

// openEnumerator selects the backend named by cfg. Tests replace it.
var openEnumerator = func(cfg config.Config, logger *slog.Logger) enumerate.Enumerator {
	switch cfg.Backend {
	case config.BackendLibusb:
		return &enumerate.Libusb{Logger: logger}
	case config.BackendSnapshot:
		return snapshot.Source{Path: cfg.Snapshot}
	default:
		return enumerate.NewSysfs(cfg.SysfsRoot, logger)
	}
}

// deviceList collects repeated -device flags.
type deviceList []string

func (d *deviceList) String() string {
	return strings.Join(*d, ",")
}

func (d *deviceList) Set(v string) error {
	if _, err := usb.ParseID(v); err != nil {
		return err
	}
	*d = append(*d, v)
	return nil
}

// sourceFlags select and configure the enumeration backend.
type sourceFlags struct {
	configFile string
	backend    string
	snapshot   string
	sysfs      string
	logLevel   string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.configFile, "config", "", "Configuration file (default ~/.config/usbtree/config.yaml)")
	fs.StringVar(&s.backend, "backend", "", "Enumeration backend: sysfs, libusb, snapshot")
	fs.StringVar(&s.snapshot, "snapshot", "", "Snapshot file to replay (implies -backend snapshot)")
	fs.StringVar(&s.sysfs, "sysfs", "", "sysfs devices directory")
	fs.StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// viewFlags shape what is shown and how.
type viewFlags struct {
	subtree  string
	devices  deviceList
	color    string
	noColor  bool
	noHeader bool
	ascii    bool
	verbose  bool
	format   string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.subtree, "subtree", "", "Only show the subtree rooted at this device path (e.g. 1-3.2)")
	fs.Var(&v.devices, "device", "Only show devices with this vendor:product ID (repeatable)")
	fs.StringVar(&v.color, "color", "", "Colors: auto, always, never")
	fs.BoolVar(&v.noColor, "no-color", false, "Disable colors")
	fs.BoolVar(&v.noHeader, "no-header", false, "Omit the summary line")
	fs.BoolVar(&v.ascii, "ascii", false, "Draw the tree with ASCII characters")
	fs.BoolVar(&v.verbose, "verbose", false, "Show address, speed and serial number")
	fs.StringVar(&v.format, "format", "", "Output format: text, json, yaml")
}

// settings is the outcome of flag parsing and configuration loading.
type settings struct {
	cfg     config.Config
	subtree usb.Path
	ids     usb.IDSet
	logger  *slog.Logger
}

// resolve loads the configuration file and applies the flags that were set
// on top of it.
func resolve(fs *flag.FlagSet, src *sourceFlags, view *viewFlags, stderr io.Writer) (*settings, error) {
	cfg, _, err := config.Resolve(src.configFile)
	if err != nil {
		return nil, err
	}

	backendSet := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = src.backend
			backendSet = true
		case "snapshot":
			cfg.Snapshot = src.snapshot
		case "sysfs":
			cfg.SysfsRoot = src.sysfs
		case "log-level":
			cfg.LogLevel = src.logLevel
		}
		if view == nil {
			return
		}
		switch f.Name {
		case "color":
			cfg.Color = view.color
		case "no-color":
			if view.noColor {
				cfg.Color = "never"
			}
		case "no-header":
			cfg.Header = !view.noHeader
		case "ascii":
			if view.ascii {
				cfg.Glyphs = config.GlyphsASCII
			}
		case "verbose":
			cfg.Verbose = view.verbose
		case "format":
			cfg.Format = view.format
		case "device":
			cfg.Devices = []string(view.devices)
		}
	})
	if src.snapshot != "" && !backendSet {
		cfg.Backend = config.BackendSnapshot
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &settings{cfg: cfg, logger: log.New(stderr, level)}

	if view != nil && view.subtree != "" {
		p, err := usb.ParsePath(view.subtree)
		if err != nil {
			return nil, err
		}
		s.subtree = p
	}

	s.ids, err = usb.ParseIDSet(cfg.Devices)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// commandContext returns a context cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadForest enumerates devices and builds the forest, then applies the
// subtree and ID filters.
func loadForest(ctx context.Context, s *settings) (tree.Forest, error) {
	records, err := openEnumerator(s.cfg, s.logger).Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("enumerated devices", "backend", s.cfg.Backend, "count", len(records))

	f, err := tree.Build(records, tree.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	if s.subtree.IsValid() {
		node, err := tree.Subtree(f, s.subtree)
		if err != nil {
			return nil, err
		}
		f = tree.Forest{node}
	}
	if s.ids.Len() > 0 {
		f = tree.FilterByIDs(f, s.ids)
	}
	return f, nil
}

// fail reports err on stderr and returns the matching exit code.
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, tree.ErrNotFound):
		return exitNotFound
	case errors.Is(err, enumerate.ErrBackend), errors.Is(err, tree.ErrDuplicatePath):
		return exitBackend
	default:
		return exitCommandError
	}
}
