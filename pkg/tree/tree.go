// Package tree turns the flat device list of one enumeration snapshot into a
// forest mirroring the bus/hub/port topology, and provides pure filters over
// that forest.
//
// Every operation returns freshly allocated nodes. A Forest is never modified
// after it has been returned, so callers may keep the unfiltered tree next to
// any number of filtered views.
package tree

import (
	"errors"
	"fmt"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// Tree errors.
var (
	ErrDuplicatePath = errors.New("duplicate device path")
	ErrNotFound      = errors.New("device path not found")
)

// DuplicatePathError reports two records claiming the same path.
type DuplicatePathError struct {
	Path usb.Path
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicatePath, e.Path)
}

// Unwrap returns ErrDuplicatePath.
func (e *DuplicatePathError) Unwrap() error {
	return ErrDuplicatePath
}

// NotFoundError reports a path with no node in the forest.
type NotFoundError struct {
	Path usb.Path
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, e.Path)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Compile-time interface satisfaction checks.
var (
	_ error = (*DuplicatePathError)(nil)
	_ error = (*NotFoundError)(nil)
)

// Node is one position in the topology.
type Node struct {
	// Path is the address of this node.
	Path usb.Path

	// Record is the device at this path, or nil for a placeholder the
	// builder inserted for a hub the backend did not report.
	Record *usb.Record

	// Children are sorted by usb.Compare.
	Children []*Node
}

// IsPlaceholder reports whether the node has no backing device record.
func (n *Node) IsPlaceholder() bool {
	return n.Record == nil
}

// IsHub reports whether the node acts as a hub: the device says so, or
// something hangs below it.
func (n *Node) IsHub() bool {
	return (n.Record != nil && n.Record.IsHub) || len(n.Children) > 0
}

// clone returns a deep copy of the node. Records are shared; they are
// immutable.
func (n *Node) clone() *Node {
	c := &Node{Path: n.Path, Record: n.Record}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}

// Forest is an ordered list of root nodes. A freshly built forest has one
// root per bus, ordered by bus number.
type Forest []*Node

// Len returns the number of device records in the forest.
func (f Forest) Len() int {
	n := 0
	Walk(f, func(node *Node, _ int) bool {
		if node.Record != nil {
			n++
		}
		return true
	})
	return n
}

// Nodes returns the number of nodes in the forest, placeholders included.
func (f Forest) Nodes() int {
	n := 0
	Walk(f, func(*Node, int) bool {
		n++
		return true
	})
	return n
}

// BusRoots reports whether every root of the forest is a bus root.
func (f Forest) BusRoots() bool {
	for _, root := range f {
		if !root.Path.IsBusRoot() {
			return false
		}
	}
	return true
}

// Walk visits every node depth-first in pre-order. depth is 0 for roots.
// Returning false from fn skips the node's children.
func Walk(f Forest, fn func(node *Node, depth int) bool) {
	for _, root := range f {
		walk(root, 0, fn)
	}
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Records returns every device record in depth-first order.
func Records(f Forest) []usb.Record {
	var out []usb.Record
	Walk(f, func(n *Node, _ int) bool {
		if n.Record != nil {
			out = append(out, *n.Record)
		}
		return true
	})
	return out
}

// Find returns the node at path, or false when there is none. Unlike Subtree
// it returns the node itself rather than a copy.
func Find(f Forest, path usb.Path) (*Node, bool) {
	for _, root := range f {
		if !root.Path.Contains(path) {
			continue
		}
		n := root
		for !n.Path.Equal(path) {
			next := childToward(n, path)
			if next == nil {
				return nil, false
			}
			n = next
		}
		return n, true
	}
	return nil, false
}

// childToward returns the child of n on the way to target.
func childToward(n *Node, target usb.Path) *Node {
	for _, child := range n.Children {
		if child.Path.Contains(target) {
			return child
		}
	}
	return nil
}
