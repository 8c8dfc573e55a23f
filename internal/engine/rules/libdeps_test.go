package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/rules"
)

func TestIndex_LibDeps(t *testing.T) {
	lib := touch("_build/default/lib.a", "src/lib.ml")
	lib.LibDeps = domain.NewLibDeps([]domain.LibDep{{Name: "unix"}, {Name: "str", Kind: domain.Optional}})
	exe := touch("_build/default/app.exe", "_build/default/lib.a")
	exe.LibDeps = domain.NewLibDeps([]domain.LibDep{{Name: "str"}, {Name: "threads", Kind: domain.Optional}})
	other := touch("_build/default/other", "_build/default/missing")

	idx, err := rules.NewIndex(domain.NewContext("default", nil), []*domain.Rule{lib, exe, other})
	require.NoError(t, err)

	got, err := idx.LibDeps(t.TempDir(), []domain.Path{domain.NewPath("_build/default/app.exe")})
	require.NoError(t, err)
	assert.Equal(t, domain.LibDeps{
		"unix":    domain.Required,
		"str":     domain.Required,
		"threads": domain.Optional,
	}, got[domain.NewPath("_build/default/app.exe")])

	_, err = idx.LibDeps(t.TempDir(), []domain.Path{domain.NewPath("_build/default/other")})
	require.ErrorIs(t, err, domain.ErrNoRule)
}
