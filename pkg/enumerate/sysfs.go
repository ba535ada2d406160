package enumerate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// DefaultSysfsRoot is where Linux exposes one entry per USB device.
const DefaultSysfsRoot = "/sys/bus/usb/devices"

// Sysfs enumerates devices from the Linux sysfs tree.
//
// Entries are named "usbN" for root hubs and "N-p.p" for other devices.
// Interface entries ("1-1.4:1.0") and anything without a busnum file are
// skipped.
type Sysfs struct {
	// Root is the devices directory. Defaults to DefaultSysfsRoot.
	Root fs.FS

	Logger *slog.Logger
}

// NewSysfs returns a backend reading dir, or DefaultSysfsRoot when dir is
// empty.
func NewSysfs(dir string, logger *slog.Logger) *Sysfs {
	if dir == "" {
		dir = DefaultSysfsRoot
	}
	return &Sysfs{Root: os.DirFS(dir), Logger: logger}
}

var _ Enumerator = (*Sysfs)(nil)

// Enumerate lists every device entry under Root.
func (s *Sysfs) Enumerate(ctx context.Context) ([]usb.Record, error) {
	root := s.Root
	if root == nil {
		root = os.DirFS(DefaultSysfsRoot)
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := fs.ReadDir(root, ".")
	if err != nil {
		return nil, &BackendError{Backend: "sysfs", Err: err}
	}

	var records []usb.Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Backend: "sysfs", Err: err}
		}

		name := entry.Name()
		if strings.Contains(name, ":") {
			continue
		}

		rec, err := readSysfsDevice(root, name)
		if err != nil {
			logger.Warn("skipping sysfs entry", "entry", name, "error", err)
			continue
		}
		records = append(records, rec)
	}

	logger.Debug("sysfs enumeration complete", "devices", len(records))
	return records, nil
}

func readSysfsDevice(root fs.FS, dir string) (usb.Record, error) {
	attr := func(name string) string {
		data, err := fs.ReadFile(root, path.Join(dir, name))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}

	bus, err := strconv.Atoi(attr("busnum"))
	if err != nil {
		return usb.Record{}, fmt.Errorf("busnum: %w", err)
	}

	var p usb.Path
	if devpath := attr("devpath"); devpath == "" || devpath == "0" {
		p, err = usb.NewPath(bus)
	} else {
		p, err = usb.ParsePath(strconv.Itoa(bus) + "-" + devpath)
	}
	if err != nil {
		return usb.Record{}, err
	}

	vendor, err := parseHexAttr(attr("idVendor"))
	if err != nil {
		return usb.Record{}, fmt.Errorf("idVendor: %w", err)
	}
	product, err := parseHexAttr(attr("idProduct"))
	if err != nil {
		return usb.Record{}, fmt.Errorf("idProduct: %w", err)
	}

	rec := usb.Record{
		Path:         p,
		VendorID:     vendor,
		ProductID:    product,
		Manufacturer: attr("manufacturer"),
		Product:      attr("product"),
		Serial:       attr("serial"),
		Speed:        usb.ParseSpeed(attr("speed")),
	}
	if class, err := parseHexAttr(attr("bDeviceClass")); err == nil {
		rec.IsHub = class == usb.ClassHub
	}
	if addr, err := strconv.Atoi(attr("devnum")); err == nil {
		rec.Address = addr
	}
	return rec, nil
}

func parseHexAttr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
