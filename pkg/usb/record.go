package usb

import (
	"fmt"
	"strings"
)

// ClassHub is the bDeviceClass value of a USB hub.
const ClassHub = 0x09

// Speed is the negotiated signalling rate of a device.
type Speed uint8

const (
	SpeedUnknown Speed = iota
	SpeedLow
	SpeedFull
	SpeedHigh
	SpeedSuper
	SpeedSuperPlus
)

// String returns a human-readable speed name.
func (s Speed) String() string {
	switch s {
	case SpeedLow:
		return "1.5 Mbps"
	case SpeedFull:
		return "12 Mbps"
	case SpeedHigh:
		return "480 Mbps"
	case SpeedSuper:
		return "5 Gbps"
	case SpeedSuperPlus:
		return "10 Gbps"
	default:
		return "unknown speed"
	}
}

// ParseSpeed converts the Mbps value Linux reports in sysfs ("1.5", "12",
// "480", "5000", "10000", "20000") to a Speed.
func ParseSpeed(mbps string) Speed {
	switch strings.TrimSpace(mbps) {
	case "1.5":
		return SpeedLow
	case "12":
		return SpeedFull
	case "480":
		return SpeedHigh
	case "5000":
		return SpeedSuper
	case "10000", "20000":
		return SpeedSuperPlus
	default:
		return SpeedUnknown
	}
}

// Record describes one device discovered by an enumeration backend.
// Records are produced once per snapshot and never modified afterwards.
type Record struct {
	// Path is the topological address of the device.
	Path Path

	// VendorID and ProductID identify the product.
	VendorID  uint16
	ProductID uint16

	// Manufacturer and Product are the string descriptors.
	// Empty when the device has none or they could not be read.
	Manufacturer string
	Product      string

	// IsHub is set for devices exposing downstream ports.
	IsHub bool

	// Display-only details. Zero values mean unknown.
	Address int
	Serial  string
	Speed   Speed
}

// ID returns the vendor/product pair of the device.
func (r Record) ID() ID {
	return ID{Vendor: r.VendorID, Product: r.ProductID}
}

// Name returns "Manufacturer Product", whichever parts are known, or
// "Unknown Device".
func (r Record) Name() string {
	name := strings.TrimSpace(strings.TrimSpace(r.Manufacturer) + " " + strings.TrimSpace(r.Product))
	if name == "" {
		return "Unknown Device"
	}
	return name
}

// String returns a one-line description, e.g.
// "1-3 046d:c52b Logitech USB Receiver".
func (r Record) String() string {
	return fmt.Sprintf("%s %s %s", r.Path, r.ID(), r.Name())
}
