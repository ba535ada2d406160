package render

import (
	"github.com/Nicoretti/usb-info/pkg/tree"
)

// Document is the forest as plain data, for JSON and YAML output.
type Document struct {
	Devices int       `json:"devices" yaml:"devices"`
	Roots   []DocNode `json:"roots" yaml:"roots"`
}

// DocNode is one node of a Document.
type DocNode struct {
	Path         string    `json:"path" yaml:"path"`
	ID           string    `json:"id,omitempty" yaml:"id,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Product      string    `json:"product,omitempty" yaml:"product,omitempty"`
	Serial       string    `json:"serial,omitempty" yaml:"serial,omitempty"`
	Address      int       `json:"address,omitempty" yaml:"address,omitempty"`
	Speed        string    `json:"speed,omitempty" yaml:"speed,omitempty"`
	Hub          bool      `json:"hub,omitempty" yaml:"hub,omitempty"`
	Placeholder  bool      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Children     []DocNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewDocument converts a forest into a Document.
func NewDocument(f tree.Forest) Document {
	doc := Document{
		Devices: f.Len(),
		Roots:   make([]DocNode, 0, len(f)),
	}
	for _, root := range f {
		doc.Roots = append(doc.Roots, docNode(root))
	}
	return doc
}

func docNode(n *tree.Node) DocNode {
	d := DocNode{
		Path:        n.Path.String(),
		Hub:         n.IsHub(),
		Placeholder: n.IsPlaceholder(),
	}
	if rec := n.Record; rec != nil {
		d.ID = rec.ID().String()
		d.Manufacturer = rec.Manufacturer
		d.Product = rec.Product
		d.Serial = rec.Serial
		d.Address = rec.Address
		if rec.Speed != 0 {
			d.Speed = rec.Speed.String()
		}
	}
	for _, child := range n.Children {
		d.Children = append(d.Children, docNode(child))
	}
	return d
}
