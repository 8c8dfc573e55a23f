// Package shell provides the subprocess executor for Run and System actions.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// Execute runs the action's command line from root/action.Dir and waits for
// it to complete.
func (e *Executor) Execute(
	ctx context.Context,
	root string,
	action domain.Action,
	env []string,
	stdout, stderr io.Writer,
) error {
	if !action.IsProcess() {
		return domain.NewCodeError("executor received an in-process action", "kind", action.Kind.String())
	}

	argv := action.Argv()
	if len(argv) == 0 || argv[0] == "" {
		return domain.NewCodeError("action has no program")
	}
	name, args := argv[0], argv[1:]

	cmdEnv := resolveEnvironment(e.environ(), env)

	executable := name
	if !filepath.IsAbs(name) && strings.ContainsRune(name, filepath.Separator) {
		executable = filepath.Join(root, action.Dir.String(), name)
	} else if !filepath.IsAbs(name) {
		lp, err := lookPath(name, cmdEnv)
		if err != nil {
			return &domain.NotFoundError{Entity: "program", Name: name}
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands come from rules
	cmd.Args[0] = name
	cmd.Dir = filepath.Join(root, action.Dir.String())
	cmd.Env = cmdEnv
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if e.logger != nil {
			e.logger.Info("command exited with status " + strconv.Itoa(exitCode) + ": " + strings.Join(argv, " "))
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return nil
}

// allowListedEnvVars are the system environment variables inherited by
// actions. Everything else comes from the build context.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
}

// resolveEnvironment merges the allow-listed system environment with the
// context descriptor. Context entries win, PATH included.
func resolveEnvironment(sysEnv, contextEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range contextEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
