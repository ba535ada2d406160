// Package enumerate discovers attached USB devices.
//
// An Enumerator produces one flat snapshot of device records. Backends read
// Linux sysfs, talk to libusb, or replay fixed data; the tree package turns
// the records into a forest.
package enumerate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// ErrBackend is wrapped by every enumeration failure.
var ErrBackend = errors.New("backend error")

// BackendError describes why a backend could not list devices.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Backend, ErrBackend)
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is reports ErrBackend for every BackendError.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

var _ error = (*BackendError)(nil)

// Enumerator lists the USB devices currently attached.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]usb.Record, error)
}

// Static is an Enumerator over a fixed record list.
type Static struct {
	Records []usb.Record
}

// Enumerate returns a copy of the records.
func (s Static) Enumerate(ctx context.Context) ([]usb.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &BackendError{Backend: "static", Err: err}
	}
	return slices.Clone(s.Records), nil
}

var _ Enumerator = Static{}
