package usb

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ID errors.
var (
	ErrInvalidID = errors.New("invalid vendor:product id")
)

// ID identifies a USB product by the vendor who produced it and the product
// number the vendor assigned.
type ID struct {
	Vendor  uint16
	Product uint16
}

// ParseID parses "vid:pid" where each side is 1-4 hex digits with an optional
// 0x prefix, e.g. "046d:c52b" or "0x46D:0xC52B".
func ParseID(input string) (ID, error) {
	vendorPart, productPart, ok := strings.Cut(input, ":")
	if !ok {
		return ID{}, fmt.Errorf("%w %q: expected vid:pid", ErrInvalidID, input)
	}

	vendor, err := parseHex16(vendorPart)
	if err != nil {
		return ID{}, fmt.Errorf("%w %q: vendor: %v", ErrInvalidID, input, err)
	}
	product, err := parseHex16(productPart)
	if err != nil {
		return ID{}, fmt.Errorf("%w %q: product: %v", ErrInvalidID, input, err)
	}

	return ID{Vendor: vendor, Product: product}, nil
}

// parseHex16 parses a uint16 from a hex string with optional 0x prefix.
func parseHex16(s string) (uint16, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if s == "" || len(s) > 4 {
		return 0, fmt.Errorf("expected 1-4 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("not a hex number: %q", s)
	}
	return uint16(v), nil
}

// String returns the lsusb-style "vvvv:pppp" form.
func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// CompareIDs orders IDs by vendor, then product.
func CompareIDs(a, b ID) int {
	if c := cmp.Compare(a.Vendor, b.Vendor); c != 0 {
		return c
	}
	return cmp.Compare(a.Product, b.Product)
}

// IDSet is a set of vendor/product pairs.
type IDSet map[ID]struct{}

// NewIDSet creates a set holding the given IDs.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// ParseIDSet parses every entry with ParseID.
func ParseIDSet(inputs []string) (IDSet, error) {
	s := make(IDSet, len(inputs))
	for _, in := range inputs {
		id, err := ParseID(in)
		if err != nil {
			return nil, err
		}
		s.Add(id)
	}
	return s, nil
}

// Add inserts id into the set.
func (s IDSet) Add(id ID) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the IDs in ascending order.
func (s IDSet) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.SortFunc(out, CompareIDs)
	return out
}
