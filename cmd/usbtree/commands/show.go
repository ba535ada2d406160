package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Nicoretti/usb-info/pkg/config"
	"github.com/Nicoretti/usb-info/pkg/render"
	"github.com/Nicoretti/usb-info/pkg/tree"
)

// RunShow runs the show command: enumerate, filter and print the tree.
func RunShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var src sourceFlags
	var view viewFlags
	src.register(fs)
	view.register(fs)
	fs.Usage = func() { printShowUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitSuccess
		}
		return exitCommandError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		return exitCommandError
	}

	s, err := resolve(fs, &src, &view, stderr)
	if err != nil {
		return fail(stderr, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	f, err := loadForest(ctx, s)
	if err != nil {
		return fail(stderr, err)
	}

	if err := writeForest(stdout, f, s.cfg); err != nil {
		return fail(stderr, err)
	}
	return exitSuccess
}

func writeForest(w io.Writer, f tree.Forest, cfg config.Config) error {
	switch cfg.Format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(render.NewDocument(f), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case config.FormatYAML:
		data, err := yaml.Marshal(render.NewDocument(f))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return render.Write(w, f, cfg.Style(w))
	}
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: usbtree [show] [options]

Options:
  -subtree <path>       Only show the subtree rooted at <path> (e.g. 1-3.2)
  -device <vid:pid>     Only show matching devices and their ancestors (repeatable)
  -color <mode>         Colors: auto, always, never [default: auto]
  -no-color             Disable colors
  -no-header            Omit the summary line
  -ascii                Draw the tree with ASCII characters
  -verbose              Show address, speed and serial number
  -format <fmt>         Output format: text, json, yaml [default: text]
  -backend <name>       Enumeration backend: sysfs, libusb, snapshot [default: sysfs]
  -snapshot <file>      Replay a snapshot file
  -sysfs <dir>          sysfs devices directory [default: /sys/bus/usb/devices]
  -config <file>        Configuration file
  -log-level <level>    Log level: debug, info, warn, error [default: warn]

Examples:
  usbtree
  usbtree -subtree 1-3
  usbtree -device 046d:c52b -device 0781:5583
  usbtree show -format json -snapshot lab.usbsnap`)
}
