package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/Nicoretti/usb-info/pkg/snapshot"
)

// RunSnapshot runs the snapshot command: capture one enumeration to a file.
func RunSnapshot(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var src sourceFlags
	src.register(fs)
	var output string
	fs.StringVar(&output, "o", "", "Output file")
	fs.StringVar(&output, "output", "", "Output file")
	fs.Usage = func() { printSnapshotUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitSuccess
		}
		return exitCommandError
	}
	if output == "" {
		fmt.Fprintln(stderr, "Error: no output file specified")
		printSnapshotUsage(stderr)
		return exitCommandError
	}

	s, err := resolve(fs, &src, nil, stderr)
	if err != nil {
		return fail(stderr, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	snap, err := snapshot.Capture(ctx, openEnumerator(s.cfg, s.logger), s.cfg.Backend)
	if err != nil {
		return fail(stderr, err)
	}
	if err := snapshot.WriteFile(output, snap); err != nil {
		return fail(stderr, err)
	}

	fmt.Fprintf(stdout, "Wrote %d devices to %s (snapshot %s)\n", len(snap.Devices), output, snap.ID)
	return exitSuccess
}

func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: usbtree snapshot -o <file> [options]

Options:
  -o, -output <file>    Snapshot file to write
  -backend <name>       Enumeration backend: sysfs, libusb [default: sysfs]
  -sysfs <dir>          sysfs devices directory
  -config <file>        Configuration file
  -log-level <level>    Log level

Examples:
  usbtree snapshot -o lab.usbsnap
  usbtree show -snapshot lab.usbsnap`)
}
