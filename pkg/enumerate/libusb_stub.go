//go:build !libusb

package enumerate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// ErrLibusbUnavailable is returned by the libusb backend in builds without
// the libusb tag.
var ErrLibusbUnavailable = errors.New("built without libusb support (rebuild with -tags libusb)")

// Libusb enumerates devices through libusb. This build has no libusb support
// and always fails.
type Libusb struct {
	Logger *slog.Logger
}

var _ Enumerator = (*Libusb)(nil)

// LibusbSupported reports whether this binary was built with libusb.
const LibusbSupported = false

// Enumerate always returns a BackendError wrapping ErrLibusbUnavailable.
func (l *Libusb) Enumerate(context.Context) ([]usb.Record, error) {
	return nil, &BackendError{Backend: "libusb", Err: ErrLibusbUnavailable}
}
