// Package snapshot stores one enumeration result in a file for later replay.
//
// Snapshot files are CBOR encoded with integer keys and usually carry the
// .usbsnap extension. A Source replays a file through the enumerate.Enumerator
// interface, so a captured tree renders exactly like a live one.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Nicoretti/usb-info/pkg/enumerate"
	"github.com/Nicoretti/usb-info/pkg/usb"
)

// FormatVersion is the snapshot layout written by this package.
const FormatVersion = 1

// ErrUnsupportedVersion is returned for files written by a newer layout.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is one enumeration result with capture metadata.
type Snapshot struct {
	// Version is the file layout version.
	Version uint8 `cbor:"1,keyasint"`

	// ID uniquely identifies the capture (UUID).
	ID string `cbor:"2,keyasint"`

	// TakenAt is when the enumeration ran.
	TakenAt time.Time `cbor:"3,keyasint"`

	// Hostname of the machine the devices were attached to.
	Hostname string `cbor:"4,keyasint,omitempty"`

	// Backend that produced the records.
	Backend string `cbor:"5,keyasint"`

	Devices []Device `cbor:"6,keyasint"`
}

// Device is the stored form of a usb.Record.
type Device struct {
	Path         string `cbor:"1,keyasint"`
	VendorID     uint16 `cbor:"2,keyasint"`
	ProductID    uint16 `cbor:"3,keyasint"`
	Manufacturer string `cbor:"4,keyasint,omitempty"`
	Product      string `cbor:"5,keyasint,omitempty"`
	Hub          bool   `cbor:"6,keyasint,omitempty"`
	Address      int    `cbor:"7,keyasint,omitempty"`
	Serial       string `cbor:"8,keyasint,omitempty"`
	Speed        uint8  `cbor:"9,keyasint,omitempty"`
}

// New wraps records in a Snapshot stamped with a fresh ID and the current
// time.
func New(backend string, records []usb.Record) *Snapshot {
	s := &Snapshot{
		Version: FormatVersion,
		ID:      uuid.NewString(),
		TakenAt: time.Now().UTC(),
		Backend: backend,
		Devices: make([]Device, 0, len(records)),
	}
	if host, err := os.Hostname(); err == nil {
		s.Hostname = host
	}
	for _, r := range records {
		s.Devices = append(s.Devices, Device{
			Path:         r.Path.String(),
			VendorID:     r.VendorID,
			ProductID:    r.ProductID,
			Manufacturer: r.Manufacturer,
			Product:      r.Product,
			Hub:          r.IsHub,
			Address:      r.Address,
			Serial:       r.Serial,
			Speed:        uint8(r.Speed),
		})
	}
	return s
}

// Capture runs one enumeration and wraps the result.
func Capture(ctx context.Context, e enumerate.Enumerator, backend string) (*Snapshot, error) {
	records, err := e.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	return New(backend, records), nil
}

// Records converts the stored devices back to records.
func (s *Snapshot) Records() ([]usb.Record, error) {
	records := make([]usb.Record, 0, len(s.Devices))
	for i, d := range s.Devices {
		p, err := usb.ParsePath(d.Path)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		records = append(records, usb.Record{
			Path:         p,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			IsHub:        d.Hub,
			Address:      d.Address,
			Serial:       d.Serial,
			Speed:        usb.Speed(d.Speed),
		})
	}
	return records, nil
}

// Source replays a snapshot file as an Enumerator.
type Source struct {
	Path string
}

var _ enumerate.Enumerator = Source{}

// Enumerate reads the file and returns its records. Every failure is a
// *enumerate.BackendError.
func (s Source) Enumerate(ctx context.Context) ([]usb.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &enumerate.BackendError{Backend: "snapshot", Err: err}
	}
	snap, err := ReadFile(s.Path)
	if err != nil {
		return nil, &enumerate.BackendError{Backend: "snapshot", Err: err}
	}
	records, err := snap.Records()
	if err != nil {
		return nil, &enumerate.BackendError{Backend: "snapshot", Err: fmt.Errorf("%s: %w", s.Path, err)}
	}
	return records, nil
}
