package build_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/build"
	"go.trai.ch/kiln/internal/engine/gen"
	"go.trai.ch/kiln/internal/engine/rules"
	"go.uber.org/mock/gomock"
)

func project() *domain.Project {
	return &domain.Project{
		Dirs: []*domain.DirStanzas{
			{
				Dir: domain.NewPath("src"),
				Libraries: []domain.LibraryStanza{
					{Name: "foo", Srcs: []string{"foo.c"}, Libraries: []domain.LibDep{{Name: "unix"}, {Name: "bar"}}},
					{Name: "bar", Srcs: []string{"bar.c"}, Libraries: []domain.LibDep{{Name: "str"}}},
				},
			},
			{
				Dir: domain.NewPath("bin"),
				Executables: []domain.ExecutableStanza{{
					Name:      "main",
					Srcs:      []string{"main.c"},
					Libraries: []domain.LibDep{{Name: "foo"}, {Name: "threads", Kind: domain.Optional}},
				}},
			},
		},
	}
}

type harness struct {
	root    string
	engine  *build.Engine
	stderr  *bytes.Buffer
	exit    []int
	events  []string
	metrics *mocks.MockMetrics
}

func newHarness(t *testing.T, contextNames ...string) *harness {
	t.Helper()
	if len(contextNames) == 0 {
		contextNames = []string{"default"}
	}

	root := t.TempDir()
	for name, body := range map[string]string{
		"src/foo.c":  "foo\n",
		"src/bar.c":  "bar\n",
		"bin/main.c": "main\n",
	} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}

	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().FileDigest(gomock.Any()).Return("d", nil).AnyTimes()
	hasher.EXPECT().ActionDigest(gomock.Any(), gomock.Any(), gomock.Any()).Return("h").AnyTimes()
	store := mocks.NewMockBuildInfoStore(ctrl)
	store.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ActionStarted(gomock.Any()).AnyTimes()
	metrics.EXPECT().ActionFinished(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	proj := project()
	var indexes []*rules.Index
	for _, name := range contextNames {
		c := domain.NewContext(name, nil)
		rs, err := gen.Rules(c, proj, nil)
		require.NoError(t, err)
		idx, err := rules.NewIndex(c, rs)
		require.NoError(t, err)
		indexes = append(indexes, idx)
	}

	h := &harness{root: root, stderr: &bytes.Buffer{}, metrics: metrics}
	h.engine = build.New(root, indexes, proj.Libraries(), build.Collaborators{
		Executor: mocks.NewMockExecutor(ctrl),
		Store:    store,
		Hasher:   hasher,
		Metrics:  metrics,
	}, build.Options{
		Jobs:   2,
		Stderr: h.stderr,
		Exit: func(code int) {
			h.exit = append(h.exit, code)
			h.events = append(h.events, "exit")
		},
		BeforeExit: func() { h.events = append(h.events, "flush") },
	})
	return h
}

func (h *harness) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestAllLibDeps_ExcludesInternal(t *testing.T) {
	h := newHarness(t)
	target := domain.NewPath("_build/default/bin/main.exe")

	got, err := h.engine.AllLibDeps("default", []domain.Path{target})
	require.NoError(t, err)
	assert.Equal(t, domain.LibDeps{
		"unix":    domain.Required,
		"str":     domain.Required,
		"threads": domain.Optional,
	}, got[target])
}

func TestAllLibDeps_UnknownContext(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.AllLibDeps("cross", nil)
	require.ErrorIs(t, err, domain.ErrUnknownContext)
}

func TestDoBuild(t *testing.T) {
	h := newHarness(t)
	h.metrics.EXPECT().WriteSnapshot(filepath.Join(h.root, "_build", "metrics.prom")).Return(nil)

	err := h.engine.DoBuild(context.Background(), []domain.Path{domain.NewPath("_build/default/bin/main.exe")})
	require.NoError(t, err)
	assert.Equal(t, "main\nfoo\n", h.read(t, "_build/default/bin/main.exe"))
}

func TestDoBuild_MultipleContexts(t *testing.T) {
	h := newHarness(t, "default", "alt")
	h.metrics.EXPECT().WriteSnapshot(gomock.Any()).Return(nil)

	targets, err := h.engine.ResolveTargets([]string{"src/foo.lib"})
	require.NoError(t, err)
	require.Equal(t, []string{"_build/default/src/foo.lib", "_build/alt/src/foo.lib"}, domain.PathStrings(targets))

	require.NoError(t, h.engine.DoBuild(context.Background(), targets))
	assert.Equal(t, "foo\n", h.read(t, "_build/default/src/foo.lib"))
	assert.Equal(t, "foo\n", h.read(t, "_build/alt/src/foo.lib"))
}

func TestDoBuild_UnknownContext(t *testing.T) {
	h := newHarness(t)
	err := h.engine.DoBuild(context.Background(), []domain.Path{domain.NewPath("_build/cross/src/foo.lib")})
	require.ErrorIs(t, err, domain.ErrUnknownContext)
}

func TestDoBuildStrict_ExitsOnFailure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := newHarness(t)
	h.metrics.EXPECT().WriteSnapshot(gomock.Any()).Return(nil)

	h.engine.DoBuildStrict(context.Background(), []domain.Path{domain.NewPath("_build/default/missing.exe")})
	assert.Equal(t, []int{1}, h.exit)
	assert.Equal(t, "No rule found for _build/default/missing.exe\n", h.stderr.String())
	assert.Equal(t, []string{"flush", "exit"}, h.events)
}

func TestDoBuildStrict_SuccessSkipsExit(t *testing.T) {
	h := newHarness(t)
	h.metrics.EXPECT().WriteSnapshot(gomock.Any()).Return(nil)

	h.engine.DoBuildStrict(context.Background(), []domain.Path{domain.NewPath("_build/default/src/foo.lib")})
	assert.Empty(t, h.exit)
	assert.Empty(t, h.events)
}

func TestResolveTargets(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.ResolveTargets(nil)
	require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)

	_, err = h.engine.ResolveTargets([]string{"@install"})
	require.Error(t, err)
	assert.Equal(t, domain.KindFatal, domain.KindOf(err))

	got, err := h.engine.ResolveTargets([]string{"_build/default/kiln.install", "./bin/main.exe"})
	require.NoError(t, err)
	assert.Equal(t, []string{"_build/default/kiln.install", "_build/default/bin/main.exe"}, domain.PathStrings(got))
}
