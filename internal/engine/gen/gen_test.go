package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/gen"
)

func ptr[T any](v T) *T { return &v }

func sampleProject() *domain.Project {
	return &domain.Project{
		Dirs: []*domain.DirStanzas{
			{
				Dir: domain.NewPath("src"),
				Libraries: []domain.LibraryStanza{{
					Name:      "foo",
					Srcs:      []string{"foo.c"},
					Libraries: []domain.LibDep{{Name: "unix"}},
				}},
			},
			{
				Dir: domain.NewPath("bin"),
				Executables: []domain.ExecutableStanza{{
					Name:      "main",
					Srcs:      []string{"main.c"},
					Libraries: []domain.LibDep{{Name: "foo"}, {Name: "threads", Kind: domain.Optional}},
				}},
				Rules: []domain.RuleStanza{{
					Targets:  []string{"version.txt"},
					Deps:     []string{"VERSION"},
					DepsFile: "extra.deps",
					Action:   domain.ActionStanza{Run: []string{"cp", "VERSION", "version.txt"}},
				}},
				Installs: []domain.InstallStanza{{Package: "kiln", Files: []string{"main.exe"}}},
			},
		},
	}
}

func byTarget(rules []*domain.Rule) map[string]*domain.Rule {
	out := make(map[string]*domain.Rule)
	for _, r := range rules {
		for _, t := range r.Targets {
			out[t.String()] = r
		}
	}
	return out
}

func TestRules(t *testing.T) {
	ctx := domain.NewContext("default", nil)
	pkgs := map[string]domain.Package{"kiln": {Name: "kiln", Path: domain.NewPath(".")}}

	rs, err := gen.Rules(ctx, sampleProject(), pkgs)
	require.NoError(t, err)
	got := byTarget(rs)

	t.Run("copies sources", func(t *testing.T) {
		r := got["_build/default/src/foo.c"]
		require.NotNil(t, r)
		assert.Equal(t, domain.ActionCopy, r.Action.Kind)
		assert.Equal(t, []string{"src/foo.c"}, domain.PathStrings(r.Deps))
	})

	t.Run("links internal libraries", func(t *testing.T) {
		r := got["_build/default/bin/main.exe"]
		require.NotNil(t, r)
		assert.Equal(t, domain.ActionCat, r.Action.Kind)
		assert.Equal(t,
			[]string{"_build/default/bin/main.c", "_build/default/src/foo.lib"},
			domain.PathStrings(r.Deps))
		assert.Equal(t, domain.LibDeps{"foo": domain.Required, "threads": domain.Optional}, r.LibDeps)
	})

	t.Run("user rule", func(t *testing.T) {
		r := got["_build/default/bin/version.txt"]
		require.NotNil(t, r)
		assert.Equal(t, domain.ActionRun, r.Action.Kind)
		assert.Equal(t, "_build/default/bin", r.Action.Dir.String())
		assert.Equal(t, []string{"cp", "VERSION", "version.txt"}, r.Action.Argv())
		require.NotNil(t, r.Dynamic)
		assert.Equal(t, "_build/default/bin/extra.deps", r.Dynamic.Source.String())
		assert.NotNil(t, got["_build/default/bin/extra.deps"])
	})

	t.Run("install manifest", func(t *testing.T) {
		r := got["_build/default/kiln.install"]
		require.NotNil(t, r)
		assert.Equal(t, domain.ActionWrite, r.Action.Kind)
		assert.Equal(t, []string{"_build/default/bin/main.exe"}, domain.PathStrings(r.Deps))
		assert.Equal(t, "kiln: [\n  \"bin/main.exe\"\n]\n", r.Action.Contents)
	})
}

func TestRules_Errors(t *testing.T) {
	loc := &domain.Loc{File: "src/kiln.yaml", Line: 4, StartCol: 2, EndCol: 9}
	tests := []struct {
		name string
		dir  *domain.DirStanzas
		msg  string
	}{
		{
			name: "two actions",
			dir: &domain.DirStanzas{Dir: domain.NewPath("src"), Rules: []domain.RuleStanza{{
				Targets: []string{"a"},
				Action:  domain.ActionStanza{System: "true", Write: ptr("x")},
				Loc:     loc,
			}}},
			msg: "exactly one of",
		},
		{
			name: "write with two targets",
			dir: &domain.DirStanzas{Dir: domain.NewPath("src"), Rules: []domain.RuleStanza{{
				Targets: []string{"a", "b"},
				Action:  domain.ActionStanza{Write: ptr("x")},
				Loc:     loc,
			}}},
			msg: "exactly one target",
		},
		{
			name: "unknown package",
			dir: &domain.DirStanzas{Dir: domain.NewPath("src"), Installs: []domain.InstallStanza{{
				Package: "nope", Files: []string{"a"}, Loc: loc,
			}}},
			msg: `unknown package "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Rules(domain.NewContext("default", nil), &domain.Project{Dirs: []*domain.DirStanzas{tt.dir}}, nil)
			require.Error(t, err)
			assert.Equal(t, domain.KindLocation, domain.KindOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseDepsFile(t *testing.T) {
	got, err := gen.ParseDepsFile(domain.NewPath("_build/default/src"), []byte("# generated\na.o\n\n  sub/b.o  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"_build/default/src/a.o", "_build/default/src/sub/b.o"}, domain.PathStrings(got))
}
