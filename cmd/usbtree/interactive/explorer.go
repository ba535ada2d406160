// Package interactive provides the readline explorer behind "usbtree explore".
//
// The explorer works on one enumeration snapshot. It keeps a current root
// (like a working directory) and an optional vendor:product filter, and
// renders the resulting view on request.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Nicoretti/usb-info/pkg/render"
	"github.com/Nicoretti/usb-info/pkg/tree"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

// Explorer is an interactive session over a device forest.
type Explorer struct {
	forest tree.Forest
	style  render.Style

	// cwd is the current root. The zero Path means the whole forest.
	cwd usb.Path
	ids usb.IDSet
}

// New creates an explorer over f. Filters never modify f.
func New(f tree.Forest, style render.Style) *Explorer {
	return &Explorer{forest: f, style: style}
}

// Prompt returns the prompt for the current root.
func (e *Explorer) Prompt() string {
	if !e.cwd.IsValid() {
		return "usb> "
	}
	return "usb:" + e.cwd.String() + "> "
}

// Run starts the interactive command loop on the terminal. It returns when
// the user quits, input ends, or ctx is cancelled.
func (e *Explorer) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          e.Prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	e.printHelp(out)
	e.cmdTree(out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		if e.Exec(out, line) {
			return nil
		}
		rl.SetPrompt(e.Prompt())
	}
}

// Exec runs one command line, writing its output to w. It reports whether
// the session should end.
func (e *Explorer) Exec(w io.Writer, line string) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		e.printHelp(w)

	case "tree", "t":
		e.cmdTree(w)

	case "ls", "l":
		e.cmdList(w)

	case "cd":
		e.cmdCd(w, args)

	case "up", "..":
		e.cmdUp(w)

	case "filter", "f":
		e.cmdFilter(w, args)

	case "clear":
		e.ids = nil
		fmt.Fprintln(w, "Filter cleared")

	case "info", "i":
		e.cmdInfo(w, args)

	case "find":
		e.cmdFind(w, args)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("tree"),
		readline.PcItem("ls"),
		readline.PcItem("cd"),
		readline.PcItem("up"),
		readline.PcItem("filter"),
		readline.PcItem("clear"),
		readline.PcItem("info"),
		readline.PcItem("find"),
		readline.PcItem("quit"),
	)
}

func (e *Explorer) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
USB Explorer Commands:
  Navigation:
    tree               - Show the current view
    ls                 - List direct children of the current root
    cd <path>          - Make <path> the current root (cd / for everything)
    up                 - Move the current root to its parent

  Filtering:
    filter <vid:pid>...- Keep only matching devices and their ancestors
    clear              - Remove the device filter

  Devices:
    info <path>        - Show details of one device
    find <vid:pid>     - List paths of devices with this ID

  General:
    help               - Show this help
    quit               - Leave the explorer`)
}
