package shell

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		sysEnv     []string
		contextEnv []string
		expected   []string
	}{
		{
			name:     "System Only (Allowed)",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
		},
		{
			name:     "System Only (Filtered)",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "SECRET=key"},
			expected: []string{"USER=test"},
		},
		{
			name:       "Context Adds",
			sysEnv:     []string{"USER=test", "PATH=/bin"},
			contextEnv: []string{"KILN_CONTEXT=alt"},
			expected:   []string{"USER=test", "PATH=/bin", "KILN_CONTEXT=alt"},
		},
		{
			name:       "Context PATH Wins",
			sysEnv:     []string{"USER=test", "PATH=/bin"},
			contextEnv: []string{"PATH=/opt/tc/bin:/bin"},
			expected:   []string{"USER=test", "PATH=/opt/tc/bin:/bin"},
		},
		{
			name:       "Malformed Entries Ignored",
			sysEnv:     []string{"PATH=/bin", "garbage"},
			contextEnv: []string{"nokey"},
			expected:   []string{"PATH=/bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveEnvironment(tt.sysEnv, tt.contextEnv)

			sort.Strings(got)
			sort.Strings(tt.expected)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLookPath_EmptyPATH(t *testing.T) {
	_, err := lookPath("echo", []string{"USER=test"})
	assert.Error(t, err)
}

func TestLookPath_ExecutableNotFound(t *testing.T) {
	_, err := lookPath("nonexistent-command", []string{"PATH=/nonexistent/dir"})
	assert.Error(t, err)
}

func TestFindExecutable_Directory(t *testing.T) {
	assert.Error(t, findExecutable(t.TempDir()))
}

func TestFindExecutable_NonExistent(t *testing.T) {
	assert.Error(t, findExecutable("/nonexistent/file"))
}
