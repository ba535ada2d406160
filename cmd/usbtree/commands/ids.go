package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Nicoretti/usb-info/pkg/config"
	"github.com/Nicoretti/usb-info/pkg/tree"
)

// IDEntry is one line of the ids listing.
type IDEntry struct {
	Path string `json:"path" yaml:"path"`
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RunIDs runs the ids command: a flat, path-ordered device listing.
func RunIDs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ids", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var src sourceFlags
	var view viewFlags
	src.register(fs)
	view.register(fs)
	fs.Usage = func() { printIDsUsage(stderr) }

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

	// Pre-order over sorted children is ascending path order.
	records := tree.Records(f)
	entries := make([]IDEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, IDEntry{Path: r.Path.String(), ID: r.ID().String(), Name: r.Name()})
	}

	switch s.cfg.Format {
	case config.FormatJSON:
		data, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(stdout, string(data))
	case config.FormatYAML:
		data, _ := yaml.Marshal(entries)
		fmt.Fprint(stdout, string(data))
	default:
		for _, e := range entries {
			fmt.Fprintf(stdout, "%-12s %s  %s\n", e.Path, e.ID, e.Name)
		}
	}
	return exitSuccess
}

func printIDsUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: usbtree ids [options]

Lists every device as "path  vid:pid  name", ordered by path. Accepts the
same filter, backend and format options as show.

Examples:
  usbtree ids
  usbtree ids -subtree 1-1 -format json`)
}
