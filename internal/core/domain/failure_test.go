package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestKindOf(t *testing.T) {
	target := domain.NewPath("_build/default/a")
	tests := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{name: "location", err: domain.NewLocError(domain.Loc{File: "kiln.yaml", Line: 1}, "bad"), want: domain.KindLocation},
		{name: "fatal", err: domain.Fatalf("boom"), want: domain.KindFatal},
		{name: "already reported", err: domain.ErrAlreadyReported, want: domain.KindFatal},
		{name: "no rule", err: &domain.NoRuleError{Target: target}, want: domain.KindFatal},
		{name: "not found", err: &domain.NotFoundError{Entity: "program", Name: "cc"}, want: domain.KindNotFound},
		{name: "code", err: domain.NewCodeError("invariant broken"), want: domain.KindCode},
		{name: "plain", err: errors.New("plain"), want: domain.KindUncategorized},
		{
			name: "through build error and zerr",
			err:  domain.NewBuildError(target, zerr.Wrap(&domain.NotFoundError{Entity: "program", Name: "cc"}, "action failed")),
			want: domain.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	target := domain.NewPath("_build/default/a")

	withMeta := zerr.With(&domain.NoRuleError{Target: target}, "context", "default")
	assert.ErrorIs(t, withMeta, domain.ErrNoRule)

	cycle := &domain.CycleError{Cycle: []domain.Path{target, target}}
	assert.ErrorIs(t, domain.NewBuildError(target, cycle), domain.ErrCycleDetected)
	assert.Equal(t, "dependency cycle detected: _build/default/a -> _build/default/a", cycle.Error())

	assert.ErrorIs(t, &domain.DuplicateRuleError{Target: target}, domain.ErrDuplicateRule)
	assert.ErrorIs(t, &domain.UnknownPackageError{Name: "x"}, domain.ErrUnknownPackage)
}

func TestBuildError_Prepend(t *testing.T) {
	root := domain.NewPath("_build/default/root")
	mid := domain.NewPath("_build/default/mid")
	leaf := domain.NewPath("_build/default/leaf")

	err := domain.NewBuildError(root, domain.NewBuildError(mid, domain.NewBuildError(leaf, errors.New("exit 2"))))

	var be *domain.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, []domain.Path{root, mid, leaf}, be.Path)
	assert.Equal(t, "exit 2", be.Error())
}

func TestNewCodeError_CapturesStack(t *testing.T) {
	err := domain.NewCodeError("node finished twice", "target", "a")

	var ce *domain.CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.Data["target"])
	assert.NotEmpty(t, domain.StackOf(err))
}

func TestLibDeps_RequiredWins(t *testing.T) {
	deps := domain.NewLibDeps([]domain.LibDep{
		{Name: "bar", Kind: domain.Optional},
		{Name: "bar", Kind: domain.Required},
		{Name: "baz", Kind: domain.Optional},
	})
	deps.Add("baz", domain.Optional)

	assert.Equal(t, domain.LibDeps{"bar": domain.Required, "baz": domain.Optional}, deps)
	assert.Equal(t, []string{"bar", "baz"}, deps.Names())
}
