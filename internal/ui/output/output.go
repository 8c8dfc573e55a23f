// Package output creates termenv outputs with the CLI's color policy.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile for terminal output.
// NO_COLOR forces Ascii. KILN_COLOR=always forces ANSI even when the
// environment does not advertise color support.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("KILN_COLOR") == "always" {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Paint renders s in color on out, optionally in bold.
func Paint(out *termenv.Output, s string, color lipgloss.Color, bold bool) string {
	styled := out.String(s).Foreground(out.Color(string(color)))
	if bold {
		styled = styled.Bold()
	}
	return styled.String()
}
