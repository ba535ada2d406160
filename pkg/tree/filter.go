package tree

import (
	"fmt"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// Subtree returns a copy of the node at root together with everything below
// it. Wrap the result in a Forest to keep rendering or filtering it.
//
// The search starts at the forest root containing the path and descends one
// port at a time. A missing node yields a *NotFoundError.
func Subtree(f Forest, root usb.Path) (*Node, error) {
	if !root.IsValid() {
		return nil, fmt.Errorf("subtree: %w: zero path", usb.ErrInvalidPath)
	}

	n, ok := Find(f, root)
	if !ok {
		return nil, &NotFoundError{Path: root}
	}
	return n.clone(), nil
}

// FilterByIDs keeps the devices whose vendor/product pair is in wanted, plus
// the hubs and placeholders needed to reach them. Nodes with no wanted device
// at or below them are pruned. An empty wanted set yields an empty forest.
//
// FilterByIDs is idempotent, and applying it before or after Subtree retains
// the same device records.
func FilterByIDs(f Forest, wanted usb.IDSet) Forest {
	out := Forest{}
	if wanted.Len() == 0 {
		return out
	}
	for _, root := range f {
		if kept := filterNode(root, wanted); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

// filterNode returns a pruned copy of n, or nil when nothing at or below n
// matches.
func filterNode(n *Node, wanted usb.IDSet) *Node {
	var children []*Node
	for _, child := range n.Children {
		if kept := filterNode(child, wanted); kept != nil {
			children = append(children, kept)
		}
	}

	matches := n.Record != nil && wanted.Contains(n.Record.ID())
	if !matches && len(children) == 0 {
		return nil
	}
	return &Node{Path: n.Path, Record: n.Record, Children: children}
}
