// Package usb provides the value types shared by the enumeration backends,
// the tree builder and the renderer:
//   - Path, the topological address of a device ("1-3.2")
//   - ID, a vendor/product identifier pair ("046d:c52b")
//   - Record, one device as reported by an enumeration backend
package usb

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrInvalidPath = errors.New("invalid device path")
)

// Separators of the canonical path form.
const (
	busSeparator  = "-"
	portSeparator = "."
)

// Path is the position of a device in the USB topology: the bus number and
// the port numbers walked through nested hubs to reach it.
//
// The canonical text form is "<bus>" for the bus root and
// "<bus>-<port>.<port>...<port>" otherwise, the same naming Linux uses under
// /sys/bus/usb/devices. The zero Path is invalid.
type Path struct {
	bus   int
	ports []int
}

// NewPath creates a Path from a bus number and a port chain.
// The bus and every port must be at least 1.
func NewPath(bus int, ports ...int) (Path, error) {
	if bus < 1 {
		return Path{}, fmt.Errorf("%w: bus %d", ErrInvalidPath, bus)
	}
	for _, p := range ports {
		if p < 1 {
			return Path{}, fmt.Errorf("%w: port %d", ErrInvalidPath, p)
		}
	}
	return Path{bus: bus, ports: slices.Clone(ports)}, nil
}

// MustPath is like NewPath but panics on invalid input.
// Intended for tests and static tables.
func MustPath(bus int, ports ...int) Path {
	p, err := NewPath(bus, ports...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePath parses the canonical text form of a Path.
//
// Parsing is strict: the input is not trimmed, and empty components, signs,
// leading zeros, zero values and stray separators are rejected. For every
// accepted input s, ParsePath(s).String() == s.
func ParsePath(input string) (Path, error) {
	if input == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	busPart, portPart, hasPorts := strings.Cut(input, busSeparator)

	bus, err := parseComponent(busPart)
	if err != nil {
		return Path{}, fmt.Errorf("%w %q: bus: %v", ErrInvalidPath, input, err)
	}

	p := Path{bus: bus}
	if !hasPorts {
		return p, nil
	}

	for _, part := range strings.Split(portPart, portSeparator) {
		port, err := parseComponent(part)
		if err != nil {
			return Path{}, fmt.Errorf("%w %q: port: %v", ErrInvalidPath, input, err)
		}
		p.ports = append(p.ports, port)
	}

	return p, nil
}

// parseComponent parses one bus or port number in canonical decimal form.
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric component %q", s)
		}
	}
	if s[0] == '0' {
		return 0, fmt.Errorf("component %q must be a positive number without leading zeros", s)
	}
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("component %q out of range", s)
	}
	return int(v), nil
}

// String returns the canonical text form.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(p.bus))

	for i, port := range p.ports {
		if i == 0 {
			sb.WriteString(busSeparator)
		} else {
			sb.WriteString(portSeparator)
		}
		sb.WriteString(strconv.Itoa(port))
	}

	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: zero path", ErrInvalidPath)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// IsValid reports whether p was constructed by NewPath or ParsePath.
func (p Path) IsValid() bool {
	return p.bus >= 1
}

// Bus returns the bus number.
func (p Path) Bus() int {
	return p.bus
}

// Ports returns a copy of the port chain.
func (p Path) Ports() []int {
	return slices.Clone(p.ports)
}

// Depth returns the number of ports in the chain. The bus root has depth 0.
func (p Path) Depth() int {
	return len(p.ports)
}

// IsBusRoot reports whether p addresses the bus itself.
func (p Path) IsBusRoot() bool {
	return len(p.ports) == 0
}

// BusRoot returns the root path of p's bus.
func (p Path) BusRoot() Path {
	return Path{bus: p.bus}
}

// Parent returns the path one level up. It returns false for a bus root.
func (p Path) Parent() (Path, bool) {
	if len(p.ports) == 0 {
		return Path{}, false
	}
	return Path{bus: p.bus, ports: slices.Clone(p.ports[:len(p.ports)-1])}, true
}

// Child returns the path of the given downstream port.
func (p Path) Child(port int) (Path, error) {
	if port < 1 {
		return Path{}, fmt.Errorf("%w: port %d", ErrInvalidPath, port)
	}
	ports := make([]int, len(p.ports), len(p.ports)+1)
	copy(ports, p.ports)
	return Path{bus: p.bus, ports: append(ports, port)}, nil
}

// Ancestors returns every proper ancestor of p, bus root first.
func (p Path) Ancestors() []Path {
	out := make([]Path, 0, len(p.ports))
	for i := 0; i < len(p.ports); i++ {
		out = append(out, Path{bus: p.bus, ports: slices.Clone(p.ports[:i])})
	}
	return out
}

// IsAncestorOf reports whether p is a proper ancestor of other: same bus and
// p's port chain is a strict prefix of other's.
func (p Path) IsAncestorOf(other Path) bool {
	return p.bus == other.bus &&
		len(p.ports) < len(other.ports) &&
		slices.Equal(p.ports, other.ports[:len(p.ports)])
}

// IsDescendantOf reports whether other is a proper ancestor of p.
func (p Path) IsDescendantOf(other Path) bool {
	return other.IsAncestorOf(p)
}

// Contains reports whether other is p itself or one of its descendants.
func (p Path) Contains(other Path) bool {
	return p.Equal(other) || p.IsAncestorOf(other)
}

// Equal reports value equality.
func (p Path) Equal(other Path) bool {
	return p.bus == other.bus && slices.Equal(p.ports, other.ports)
}

// Compare orders paths by bus, then element-wise by port chain, a strict
// prefix sorting first. It returns -1, 0 or +1 and is suitable for
// slices.SortFunc.
func Compare(a, b Path) int {
	if c := cmp.Compare(a.bus, b.bus); c != 0 {
		return c
	}
	return slices.Compare(a.ports, b.ports)
}
