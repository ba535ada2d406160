package tree_test

import (
	"testing"

	"github.com/Nicoretti/usb-info/pkg/tree"
	"github.com/Nicoretti/usb-info/pkg/usb"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, path string, vid, pid uint16, hub bool) usb.Record {
	t.Helper()
	p, err := usb.ParsePath(path)
	require.NoError(t, err)
	return usb.Record{Path: p, VendorID: vid, ProductID: pid, IsHub: hub}
}

func path(t *testing.T, s string) usb.Path {
	t.Helper()
	p, err := usb.ParsePath(s)
	require.NoError(t, err)
	return p
}

// sampleRecords is a two-bus machine:
//
//	1          root hub 1d6b:0002
//	1-1        hub 05e3:0610
//	1-1.2      keyboard 046d:c31c
//	1-1.4      receiver 046d:c52b
//	1-3        receiver 046d:c52b
//	2          root hub 1d6b:0003
//	2-2.1.3    storage 0781:5583 (2-2 and 2-2.1 not reported)
func sampleRecords(t *testing.T) []usb.Record {
	t.Helper()
	return []usb.Record{
		record(t, "2-2.1.3", 0x0781, 0x5583, false),
		record(t, "1-3", 0x046d, 0xc52b, false),
		record(t, "1-1.4", 0x046d, 0xc52b, false),
		record(t, "1", 0x1d6b, 0x0002, true),
		record(t, "1-1", 0x05e3, 0x0610, true),
		record(t, "2", 0x1d6b, 0x0003, true),
		record(t, "1-1.2", 0x046d, 0xc31c, false),
	}
}

func buildSample(t *testing.T) tree.Forest {
	t.Helper()
	f, err := tree.Build(sampleRecords(t))
	require.NoError(t, err)
	return f
}

// paths lists every node path in depth-first order.
func paths(f tree.Forest) []string {
	var out []string
	tree.Walk(f, func(n *tree.Node, _ int) bool {
		out = append(out, n.Path.String())
		return true
	})
	return out
}

// recordPaths lists the paths of every record in depth-first order.
func recordPaths(f tree.Forest) []string {
	var out []string
	for _, r := range tree.Records(f) {
		out = append(out, r.Path.String())
	}
	return out
}
