package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/Nicoretti/usb-info/cmd/usbtree/interactive"
)

// RunExplore runs the interactive explorer over one enumeration. The
// -subtree and -device flags set the initial view of the tree; the explorer
// can widen it again only within what was loaded.
func RunExplore(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("explore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var src sourceFlags
	var view viewFlags
	src.register(fs)
	view.register(fs)
	fs.Usage = func() { printExploreUsage(stderr) }

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

	e := interactive.New(f, s.cfg.Style(stdout))
	if err := e.Run(ctx); err != nil {
		return fail(stderr, err)
	}
	return exitSuccess
}

func printExploreUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: usbtree explore [options]

Enumerates once and opens an interactive shell over the device tree. Accepts
the same filter, style and backend options as show; -subtree and -device set
the initial view.

Shell commands:
  tree, t              Print the current view
  ls, l                List the children of the current root
  cd <path>, cd /      Change the current root
  up, ..               Move to the parent device
  filter, f <vid:pid>  Only show matching devices and their ancestors
  clear                Remove the filter
  info, i [path]       Show device details
  find <vid:pid>...    List matching devices
  help, ?              Show shell help
  quit, exit, q        Leave the shell

Examples:
  usbtree explore
  usbtree explore -snapshot lab.usbsnap -subtree 1-1`)
}
