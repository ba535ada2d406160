package interactive

import (
	"fmt"
	"io"

	"github.com/Nicoretti/usb-info/pkg/render"
	"github.com/Nicoretti/usb-info/pkg/tree"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

// view returns the forest as currently narrowed by root and filter.
func (e *Explorer) view() (tree.Forest, error) {
	f := e.forest
	if e.cwd.IsValid() {
		node, err := tree.Subtree(f, e.cwd)
		if err != nil {
			return nil, err
		}
		f = tree.Forest{node}
	}
	if e.ids.Len() > 0 {
		f = tree.FilterByIDs(f, e.ids)
	}
	return f, nil
}

func (e *Explorer) cmdTree(w io.Writer) {
	f, err := e.view()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(f) == 0 {
		fmt.Fprintln(w, "No devices match the current filter")
		return
	}
	_ = render.Write(w, f, e.style)
}

func (e *Explorer) cmdList(w io.Writer) {
	f, err := e.view()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	nodes := []*tree.Node(f)
	if e.cwd.IsValid() && len(f) == 1 {
		nodes = f[0].Children
	}
	if len(nodes) == 0 {
		fmt.Fprintln(w, "(no devices)")
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(w, "  %s\n", render.Label(n, e.style.Verbose))
	}
}

func (e *Explorer) cmdCd(w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: cd <path>")
		return
	}
	if args[0] == "/" {
		e.cwd = usb.Path{}
		return
	}

	p, err := usb.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if _, ok := tree.Find(e.forest, p); !ok {
		fmt.Fprintf(w, "Error: %v\n", &tree.NotFoundError{Path: p})
		return
	}
	e.cwd = p
}

func (e *Explorer) cmdUp(w io.Writer) {
	if !e.cwd.IsValid() {
		fmt.Fprintln(w, "Already at the top")
		return
	}
	parent, ok := e.cwd.Parent()
	if !ok {
		e.cwd = usb.Path{}
		return
	}
	// The parent may lie outside a forest loaded with -subtree.
	if _, found := tree.Find(e.forest, parent); !found {
		e.cwd = usb.Path{}
		return
	}
	e.cwd = parent
}

func (e *Explorer) cmdFilter(w io.Writer, args []string) {
	if len(args) == 0 {
		if e.ids.Len() == 0 {
			fmt.Fprintln(w, "No filter set")
			return
		}
		for _, id := range e.ids.Sorted() {
			fmt.Fprintf(w, "  %s\n", id)
		}
		return
	}

	ids, err := usb.ParseIDSet(args)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	e.ids = ids
	e.cmdTree(w)
}

func (e *Explorer) cmdInfo(w io.Writer, args []string) {
	var target usb.Path
	switch {
	case len(args) == 1:
		p, err := usb.ParsePath(args[0])
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		target = p
	case len(args) == 0 && e.cwd.IsValid():
		target = e.cwd
	default:
		fmt.Fprintln(w, "Usage: info <path>")
		return
	}

	n, ok := tree.Find(e.forest, target)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", &tree.NotFoundError{Path: target})
		return
	}

	fmt.Fprintf(w, "Path:         %s\n", n.Path)
	if n.IsPlaceholder() {
		fmt.Fprintln(w, "Kind:         hub (not reported by the backend)")
		fmt.Fprintf(w, "Children:     %d\n", len(n.Children))
		return
	}

	rec := n.Record
	fmt.Fprintf(w, "ID:           %s\n", rec.ID())
	fmt.Fprintf(w, "Manufacturer: %s\n", orUnknown(rec.Manufacturer))
	fmt.Fprintf(w, "Product:      %s\n", orUnknown(rec.Product))
	if rec.Serial != "" {
		fmt.Fprintf(w, "Serial:       %s\n", rec.Serial)
	}
	if rec.Address > 0 {
		fmt.Fprintf(w, "Address:      %d\n", rec.Address)
	}
	if rec.Speed != usb.SpeedUnknown {
		fmt.Fprintf(w, "Speed:        %s\n", rec.Speed)
	}
	fmt.Fprintf(w, "Hub:          %t\n", n.IsHub())
	fmt.Fprintf(w, "Children:     %d\n", len(n.Children))
}

func (e *Explorer) cmdFind(w io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(w, "Usage: find <vid:pid>...")
		return
	}
	ids, err := usb.ParseIDSet(args)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	found := 0
	for _, rec := range tree.Records(e.forest) {
		if ids.Contains(rec.ID()) {
			fmt.Fprintf(w, "  %s\n", rec)
			found++
		}
	}
	if found == 0 {
		fmt.Fprintln(w, "No matching devices")
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
