// Package render turns a device forest into text.
//
// Lines produces the familiar tree drawing:
//
//	Bus 001  1d6b:0002  Linux Foundation 2.0 root hub
//	├── 1-1  05e3:0610  Genesys Logic Hub
//	│   └── 1-1.4  046d:c52b  Logitech USB Receiver
//	└── 1-3  0781:5583  SanDisk Ultra Fit
//
// Document produces the same hierarchy as plain data for JSON or YAML output.
package render

// Glyphs are the strings used to draw tree branches. All four should have the
// same display width.
type Glyphs struct {
	// Indent continues below an ancestor that was the last child.
	Indent string
	// Branch connects a child that has siblings after it.
	Branch string
	// Corner connects the last child.
	Corner string
	// Vertical continues below an ancestor that has siblings after it.
	Vertical string
}

// Predefined glyph sets.
var (
	UnicodeGlyphs = Glyphs{
		Indent:   "    ",
		Branch:   "├── ",
		Corner:   "└── ",
		Vertical: "│   ",
	}

	ASCIIGlyphs = Glyphs{
		Indent:   "    ",
		Branch:   "|-- ",
		Corner:   "`-- ",
		Vertical: "|   ",
	}
)

// Style configures rendering. It is a plain value; the With methods return
// modified copies and never change the receiver.
type Style struct {
	// Colored enables ANSI colors.
	Colored bool

	// ShowHeader prepends a summary line.
	ShowHeader bool

	// Verbose adds address, speed and serial number to device labels.
	Verbose bool

	Glyphs
}

// DefaultStyle returns a colored style with header and Unicode glyphs.
func DefaultStyle() Style {
	return Style{
		Colored:    true,
		ShowHeader: true,
		Glyphs:     UnicodeGlyphs,
	}
}

// Plain returns DefaultStyle without colors.
func Plain() Style {
	return DefaultStyle().WithColor(false)
}

// ASCII returns DefaultStyle drawn with ASCII-only glyphs.
func ASCII() Style {
	return DefaultStyle().WithGlyphs(ASCIIGlyphs)
}

// WithColor returns a copy with colors enabled or disabled.
func (s Style) WithColor(colored bool) Style {
	s.Colored = colored
	return s
}

// WithHeader returns a copy with the summary line enabled or disabled.
func (s Style) WithHeader(show bool) Style {
	s.ShowHeader = show
	return s
}

// WithVerbose returns a copy with detailed device labels enabled or disabled.
func (s Style) WithVerbose(verbose bool) Style {
	s.Verbose = verbose
	return s
}

// WithGlyphs returns a copy drawing with g.
func (s Style) WithGlyphs(g Glyphs) Style {
	s.Glyphs = g
	return s
}
