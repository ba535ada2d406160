package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nicoretti/usb-info/pkg/tree"
)

// Lines renders the forest as text lines, one per node, in depth-first
// pre-order. Roots carry no connector and are separated by an empty line.
func Lines(f tree.Forest, s Style) []string {
	var lines []string
	if s.ShowHeader {
		lines = append(lines, Header(f))
	}

	for i, root := range f {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, s.paint(Label(root, s.Verbose), 0, root))
		lines = s.appendChildren(lines, root, "", 1)
	}
	return lines
}

// appendChildren renders the children of n. prefix holds one segment per
// ancestor below the root: Vertical while that ancestor has later siblings,
// Indent once it was the last child.
func (s Style) appendChildren(lines []string, n *tree.Node, prefix string, depth int) []string {
	for i, child := range n.Children {
		connector, next := s.Branch, s.Vertical
		if i == len(n.Children)-1 {
			connector, next = s.Corner, s.Indent
		}

		lines = append(lines, prefix+connector+s.paint(Label(child, s.Verbose), depth, child))
		lines = s.appendChildren(lines, child, prefix+next, depth+1)
	}
	return lines
}

// Write renders the forest to w.
func Write(w io.Writer, f tree.Forest, s Style) error {
	for _, line := range Lines(f, s) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Header returns the summary line: the number of devices and of roots.
func Header(f tree.Forest) string {
	devices := plural(f.Len(), "device", "devices")
	if f.BusRoots() {
		return fmt.Sprintf("USB devices: %s on %s", devices, plural(len(f), "bus", "buses"))
	}
	return fmt.Sprintf("USB devices: %s under %s", devices, plural(len(f), "root", "roots"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Label returns the text shown for a node.
//
// Bus roots lead with "Bus NNN", other nodes with their path. Devices add the
// vendor:product pair and name; nodes without a record show "[hub]".
func Label(n *tree.Node, verbose bool) string {
	var sb strings.Builder
	if n.Path.IsBusRoot() {
		fmt.Fprintf(&sb, "Bus %03d", n.Path.Bus())
	} else {
		sb.WriteString(n.Path.String())
	}

	rec := n.Record
	if rec == nil {
		sb.WriteString("  [hub]")
		return sb.String()
	}

	fmt.Fprintf(&sb, "  %s  %s", rec.ID(), rec.Name())

	if verbose {
		var details []string
		if rec.Address > 0 {
			details = append(details, fmt.Sprintf("addr %d", rec.Address))
		}
		if rec.Speed != 0 {
			details = append(details, rec.Speed.String())
		}
		if rec.Serial != "" {
			details = append(details, "serial "+rec.Serial)
		}
		if len(details) > 0 {
			fmt.Fprintf(&sb, "  [%s]", strings.Join(details, ", "))
		}
	}

	return sb.String()
}
