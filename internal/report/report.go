// Package report renders build failures for the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

const internalErrorBanner = "Internal error, please report upstream including the contents of _build/log."

// Options control the rendering of a failure.
type Options struct {
	// Debug appends the dependency path of build failures.
	Debug bool
	// Rewrite maps file names in locations, e.g. to strip a sandbox prefix.
	Rewrite func(string) string
}

// Render formats err without colour.
func Render(err error, opts Options) string {
	return render(err, opts, func(s string) string { return s })
}

// Print writes the rendering of err to w. The "Error:" label is coloured
// unless NO_COLOR is set.
func Print(w io.Writer, err error, opts Options) {
	out := output.New(w)
	label := func(s string) string {
		return output.Paint(out, s, style.Red, true)
	}
	_, _ = io.WriteString(out, render(err, opts, label))
}

func render(err error, opts Options, label func(string) string) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	switch domain.KindOf(err) {
	case domain.KindLocation:
		var le *domain.LocError
		errors.As(err, &le)
		file := le.Loc.File
		if opts.Rewrite != nil {
			file = opts.Rewrite(file)
		}
		fmt.Fprintf(&b, "File %q, line %d, characters %d-%d:\n", file, le.Loc.Line, le.Loc.StartCol, le.Loc.EndCol)
		fmt.Fprintf(&b, "%s %s\n", label("Error:"), le.Msg)

	case domain.KindFatal:
		msg := err.Error()
		if msg == "" {
			return ""
		}
		b.WriteString(capitalize(msg))
		b.WriteString("\n")

	case domain.KindNotFound:
		var nf *domain.NotFoundError
		errors.As(err, &nf)
		fmt.Fprintf(&b, "%s %q not found.\n", capitalize(nf.Entity), nf.Name)

	case domain.KindCode:
		var ce *domain.CodeError
		errors.As(err, &ce)
		b.WriteString(internalErrorBanner)
		b.WriteString("\n")
		fmt.Fprintf(&b, "Description: %s\n", ce.Msg)
		for _, k := range slices.Sorted(maps.Keys(ce.Data)) {
			fmt.Fprintf(&b, "  %s: %v\n", k, ce.Data[k])
		}
		writeStack(&b, err)

	default:
		msg := err.Error()
		if strings.HasPrefix(msg, `File "`) {
			b.WriteString(msg)
		} else {
			fmt.Fprintf(&b, "%s %s", label("Error:"), msg)
		}
		b.WriteString("\n")
		writeStack(&b, err)
	}

	var be *domain.BuildError
	if opts.Debug && errors.As(err, &be) && len(be.Path) > 0 {
		b.WriteString("Dependency path:\n    ")
		b.WriteString(strings.Join(domain.PathStrings(be.Path), "\n--> "))
		b.WriteString("\n")
	}

	return b.String()
}

func writeStack(b *strings.Builder, err error) {
	if st := domain.StackOf(err); st != "" {
		b.WriteString("Backtrace:")
		b.WriteString(st)
		b.WriteString("\n")
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
