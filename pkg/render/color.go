package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/Nicoretti/usb-info/pkg/tree"
)

// depthPalette colors labels by tree depth, cycling after ten levels.
var depthPalette = []color.Attribute{
	color.FgRed,
	color.FgYellow,
	color.FgGreen,
	color.FgCyan,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiRed,
	color.FgHiYellow,
	color.FgHiGreen,
	color.FgHiCyan,
}

// paint colors a label when the style asks for it. Hubs are bold and
// placeholders faint on top of the depth color.
func (s Style) paint(text string, depth int, n *tree.Node) string {
	if !s.Colored {
		return text
	}

	attrs := []color.Attribute{depthPalette[depth%len(depthPalette)]}
	switch {
	case n.IsPlaceholder():
		attrs = append(attrs, color.Faint)
	case n.IsHub():
		attrs = append(attrs, color.Bold)
	}

	c := color.New(attrs...)
	// The caller decided; ignore fatih/color's own terminal detection.
	c.EnableColor()
	return c.Sprint(text)
}

// ColorMode selects when colors are used.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Enabled resolves the mode for output going to w. In auto mode colors are
// used only when w is a terminal, NO_COLOR is unset and TERM is not "dumb".
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
