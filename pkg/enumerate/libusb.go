//go:build libusb

package enumerate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/gousb"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// Libusb enumerates devices through libusb. String descriptors are read only
// from devices that can be opened; the rest keep empty names.
type Libusb struct {
	Logger *slog.Logger
}

var _ Enumerator = (*Libusb)(nil)

// LibusbSupported reports whether this binary was built with libusb.
const LibusbSupported = true

// Enumerate lists all devices libusb can see.
func (l *Libusb) Enumerate(ctx context.Context) (records []usb.Record, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &BackendError{Backend: "libusb", Err: err}
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// gousb panics when libusb cannot be initialised.
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, &BackendError{Backend: "libusb", Err: fmt.Errorf("init: %v", r)}
		}
	}()

	uctx := gousb.NewContext()
	defer uctx.Close()

	index := make(map[string]int)
	var listErr error
	devs, openErr := uctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		p, perr := usb.NewPath(desc.Bus, desc.Path...)
		if perr != nil {
			listErr = perr
			return false
		}
		index[p.String()] = len(records)
		records = append(records, usb.Record{
			Path:      p,
			VendorID:  uint16(desc.Vendor),
			ProductID: uint16(desc.Product),
			IsHub:     desc.Class == gousb.ClassHub,
			Address:   desc.Address,
			Speed:     convertSpeed(desc.Speed),
		})
		return true
	})
	defer func() {
		for _, d := range devs {
			_ = d.Close()
		}
	}()

	if listErr != nil {
		return nil, &BackendError{Backend: "libusb", Err: listErr}
	}
	if openErr != nil {
		if len(records) == 0 {
			return nil, &BackendError{Backend: "libusb", Err: openErr}
		}
		logger.Debug("some devices could not be opened", "error", openErr)
	}

	for _, d := range devs {
		p, perr := usb.NewPath(d.Desc.Bus, d.Desc.Path...)
		if perr != nil {
			continue
		}
		rec := &records[index[p.String()]]
		rec.Manufacturer = readString(logger, p, "manufacturer", d.Manufacturer)
		rec.Product = readString(logger, p, "product", d.Product)
		rec.Serial = readString(logger, p, "serial", d.SerialNumber)
	}

	return records, nil
}

func readString(logger *slog.Logger, p usb.Path, what string, read func() (string, error)) string {
	s, err := read()
	if err != nil {
		logger.Debug("reading string descriptor failed", "path", p.String(), "descriptor", what, "error", err)
		return ""
	}
	return s
}

func convertSpeed(s gousb.Speed) usb.Speed {
	switch s {
	case gousb.SpeedLow:
		return usb.SpeedLow
	case gousb.SpeedFull:
		return usb.SpeedFull
	case gousb.SpeedHigh:
		return usb.SpeedHigh
	case gousb.SpeedSuper:
		return usb.SpeedSuper
	default:
		return usb.SpeedUnknown
	}
}
