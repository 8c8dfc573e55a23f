package domain

import "strings"

// ActionKind tags the recipe held by an Action.
type ActionKind int

const (
	// ActionRun executes Prog with Args in Dir.
	ActionRun ActionKind = iota
	// ActionSystem executes Command through sh -c in Dir.
	ActionSystem
	// ActionWrite writes Contents to Target.
	ActionWrite
	// ActionCopy copies Srcs[0] to Target.
	ActionCopy
	// ActionCat concatenates Srcs into Target.
	ActionCat
)

var actionKindNames = [...]string{"run", "system", "write", "copy", "cat"}

func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return "unknown"
}

// Action is the executable recipe of a rule.
type Action struct {
	Kind ActionKind
	// Dir is the working directory of Run and System actions.
	Dir     Path
	Prog    string
	Args    []string
	Command string
	// StdoutTo captures the standard output of Run and System actions.
	StdoutTo Path
	Target   Path
	Srcs     []Path
	Contents string
}

// Argv returns the command line of a subprocess action.
func (a Action) Argv() []string {
	switch a.Kind {
	case ActionRun:
		return append([]string{a.Prog}, a.Args...)
	case ActionSystem:
		return []string{"sh", "-c", a.Command}
	default:
		return nil
	}
}

// IsProcess reports whether the action spawns a subprocess.
func (a Action) IsProcess() bool {
	return a.Kind == ActionRun || a.Kind == ActionSystem
}

// Describe renders the action for logs and cache keys.
func (a Action) Describe() string {
	var b strings.Builder
	b.WriteString(a.Kind.String())
	switch a.Kind {
	case ActionRun, ActionSystem:
		b.WriteString(" (cd ")
		b.WriteString(a.Dir.String())
		b.WriteString(" && ")
		b.WriteString(strings.Join(a.Argv(), " "))
		b.WriteString(")")
		if !a.StdoutTo.IsZero() {
			b.WriteString(" > ")
			b.WriteString(a.StdoutTo.String())
		}
	case ActionWrite:
		b.WriteString(" ")
		b.WriteString(a.Target.String())
		b.WriteString(" ")
		b.WriteString(a.Contents)
	case ActionCopy, ActionCat:
		b.WriteString(" ")
		b.WriteString(strings.Join(PathStrings(a.Srcs), " "))
		b.WriteString(" > ")
		b.WriteString(a.Target.String())
	}
	return b.String()
}

// DynamicDeps names a file that must be built and read before the
// dependencies it lists are known.
type DynamicDeps struct {
	Source Path
	Parse  func(dir Path, contents []byte) ([]Path, error)
}

// Rule maps a set of targets to the action that produces them.
type Rule struct {
	Targets []Path
	Deps    []Path
	Dynamic *DynamicDeps
	Action  Action
	LibDeps LibDeps
	Loc     *Loc
}

// ID is the canonical target of the rule, used to key its build node.
func (r *Rule) ID() Path {
	return r.Targets[0]
}

// Artifact is the result of building or locating one target.
type Artifact struct {
	Path   Path
	Digest string
	Cached bool
	Source bool
}
