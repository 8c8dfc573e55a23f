package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("KILN_COLOR", "always")
	assert.Equal(t, termenv.Ascii, output.ColorProfile(), "NO_COLOR wins")

	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfile())

	t.Setenv("KILN_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_Nil(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}

func TestPaint(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	out := output.New(&bytes.Buffer{})
	assert.Equal(t, "Error:", output.Paint(out, "Error:", style.Red, true))

	t.Setenv("NO_COLOR", "")
	t.Setenv("KILN_COLOR", "always")
	out = output.New(&bytes.Buffer{})
	painted := output.Paint(out, "Error:", style.Red, true)
	assert.Contains(t, painted, "Error:")
	assert.NotEqual(t, "Error:", painted)
}
