package tree

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// BuildOption configures Build.
type BuildOption func(*builder)

// WithLogger makes Build report inserted placeholders at debug level.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(b *builder) {
		b.logger = logger
	}
}

type builder struct {
	logger *slog.Logger

	// nodes indexes every node by canonical path while building.
	nodes map[string]*Node
	roots []*Node
}

// Build arranges records into a forest with one root per bus.
//
// Hubs the backend did not report are filled in with placeholder nodes so
// that every record is reachable from its bus root. A record always replaces
// a placeholder at its own path; two records for the same path fail with a
// *DuplicatePathError. Children are sorted by path.
func Build(records []usb.Record, opts ...BuildOption) (Forest, error) {
	b := &builder{
		nodes: make(map[string]*Node, len(records)),
	}
	for _, opt := range opts {
		opt(b)
	}

	for i := range records {
		if err := b.insert(records[i]); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(b.roots, compareNodes)
	for _, root := range b.roots {
		sortChildren(root)
	}
	return Forest(b.roots), nil
}

func (b *builder) insert(rec usb.Record) error {
	if !rec.Path.IsValid() {
		return fmt.Errorf("record %s: %w: zero path", rec.ID(), usb.ErrInvalidPath)
	}

	var parent *Node
	for _, ancestor := range rec.Path.Ancestors() {
		var created bool
		parent, created = b.ensure(ancestor, parent)
		if created && b.logger != nil {
			b.logger.Debug("inserted placeholder node",
				slog.String("path", ancestor.String()),
				slog.String("for", rec.Path.String()))
		}
	}

	node, _ := b.ensure(rec.Path, parent)
	if node.Record != nil {
		return &DuplicatePathError{Path: rec.Path}
	}
	node.Record = &rec
	return nil
}

// ensure returns the node at path, creating a placeholder under parent when
// it does not exist yet. parent is nil for bus roots.
func (b *builder) ensure(path usb.Path, parent *Node) (*Node, bool) {
	key := path.String()
	if n, ok := b.nodes[key]; ok {
		return n, false
	}

	n := &Node{Path: path}
	b.nodes[key] = n
	if parent == nil {
		b.roots = append(b.roots, n)
	} else {
		parent.Children = append(parent.Children, n)
	}
	return n, true
}

func sortChildren(n *Node) {
	slices.SortFunc(n.Children, compareNodes)
	for _, child := range n.Children {
		sortChildren(child)
	}
}

func compareNodes(a, b *Node) int {
	return usb.Compare(a.Path, b.Path)
}
