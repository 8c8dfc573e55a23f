package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestPath_Interning(t *testing.T) {
	a := domain.NewPath("_build/default/src/foo.lib")
	b := domain.NewPath("./_build/default/src//foo.lib")
	assert.Equal(t, a, b)
	assert.Equal(t, "_build/default/src/foo.lib", b.String())
}

func TestPath_ContextName(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantOK  bool
		wantRel string
	}{
		{path: "_build/default/src/foo.lib", want: "default", wantOK: true, wantRel: "src/foo.lib"},
		{path: "_build/alt/kiln.install", want: "alt", wantOK: true, wantRel: "kiln.install"},
		{path: "_build/alt", want: "alt", wantOK: true, wantRel: "."},
		{path: "src/foo.c", want: "", wantOK: false, wantRel: "src/foo.c"},
		{path: "_buildx/foo", want: "", wantOK: false, wantRel: "_buildx/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p := domain.NewPath(tt.path)
			name, ok := p.ContextName()
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRel, p.SourceRel().String())
		})
	}
}

func TestPath_Join(t *testing.T) {
	p := domain.ContextBuildDir("default").Join("lib", "foo.lib")
	assert.Equal(t, "_build/default/lib/foo.lib", p.String())
	assert.Equal(t, "foo.lib", p.Base())
	assert.Equal(t, "_build/default/lib", p.Dir().String())
	assert.True(t, p.IsBuild())
	assert.False(t, domain.NewPath("lib/foo.c").IsBuild())
}

func TestPackage_InstallFile(t *testing.T) {
	pkg := domain.Package{Name: "kiln", Path: domain.NewPath(".")}
	assert.Equal(t, "kiln.install", pkg.InstallFile().String())

	nested := domain.Package{Name: "foo", Path: domain.NewPath("libs/foo")}
	ctx := domain.NewContext("default", nil)
	assert.Equal(t, "_build/default/libs/foo/foo.install", nested.InstallTarget(ctx).String())
}

func TestContext_ID(t *testing.T) {
	a := domain.NewContext("default", []string{"B=2", "A=1"})
	b := domain.NewContext("default", []string{"A=1", "B=2"})
	c := domain.NewContext("alt", []string{"A=1", "B=2"})

	assert.Equal(t, a.ID(), b.ID(), "env order must not matter")
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Len(t, a.ID(), 64)
}
