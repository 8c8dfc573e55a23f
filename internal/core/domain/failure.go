package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Kind classifies a failure for reporting.
type Kind int

const (
	// KindUncategorized is any fault without a more specific classification.
	KindUncategorized Kind = iota
	// KindLocation is a user error attached to a source position.
	KindLocation
	// KindFatal is a user error with a plain message; an empty message means
	// the diagnostic was already printed.
	KindFatal
	// KindNotFound is an external lookup that found nothing.
	KindNotFound
	// KindCode is an internal invariant violation, i.e. a bug in kiln.
	KindCode
)

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUncategorized
}

// Loc is a source position. Line is 1-based, columns are 0-based.
type Loc struct {
	File     string
	Line     int
	StartCol int
	EndCol   int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d-%d", l.File, l.Line, l.StartCol, l.EndCol)
}

// LocError is a user error attached to a source location.
type LocError struct {
	Loc Loc
	Msg string
}

// NewLocError builds a LocError, formatting the message.
func NewLocError(loc Loc, format string, args ...any) error {
	return &LocError{Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func (e *LocError) Error() string { return e.Loc.String() + ": " + e.Msg }

// Kind implements kinded.
func (e *LocError) Kind() Kind { return KindLocation }

// FatalError is a user error reported by message only.
type FatalError struct {
	Msg string
}

// Fatalf builds a FatalError.
func Fatalf(format string, args ...any) error {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}

// ErrAlreadyReported is a fatal error whose diagnostic was already printed.
var ErrAlreadyReported error = &FatalError{}

func (e *FatalError) Error() string { return e.Msg }

// Kind implements kinded.
func (e *FatalError) Kind() Kind { return KindFatal }

// NotFoundError reports a named external entity that could not be found.
type NotFoundError struct {
	Entity string
	Name   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.Name) }

// Kind implements kinded.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// CodeError is an internal invariant violation.
type CodeError struct {
	Msg  string
	Data map[string]any
}

// NewCodeError builds a CodeError carrying a stack trace. kv holds
// alternating keys and values.
func NewCodeError(msg string, kv ...any) error {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		data[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return zerr.WithStack(&CodeError{Msg: msg, Data: data})
}

func (e *CodeError) Error() string { return e.Msg }

// Kind implements kinded.
func (e *CodeError) Kind() Kind { return KindCode }

// NoRuleError is returned when a target has no producing rule and is not a
// source file.
type NoRuleError struct {
	Target Path
}

func (e *NoRuleError) Error() string { return "no rule found for " + e.Target.String() }

// Kind implements kinded.
func (e *NoRuleError) Kind() Kind { return KindFatal }

// Is matches ErrNoRule.
func (e *NoRuleError) Is(target error) bool { return target == ErrNoRule }

// CycleError reports a dependency cycle. The first and last elements are
// the same target.
type CycleError struct {
	Cycle []Path
}

func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(PathStrings(e.Cycle), " -> ")
}

// Kind implements kinded.
func (e *CycleError) Kind() Kind { return KindFatal }

// Is matches ErrCycleDetected.
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// DuplicateRuleError reports two rules producing the same target.
type DuplicateRuleError struct {
	Target Path
	Locs   []*Loc
}

func (e *DuplicateRuleError) Error() string {
	msg := "multiple rules generated for " + e.Target.String()
	var where []string
	for _, l := range e.Locs {
		if l != nil {
			where = append(where, l.String())
		}
	}
	if len(where) > 0 {
		msg += " (" + strings.Join(where, ", ") + ")"
	}
	return msg
}

// Kind implements kinded.
func (e *DuplicateRuleError) Kind() Kind { return KindFatal }

// Is matches ErrDuplicateRule.
func (e *DuplicateRuleError) Is(target error) bool { return target == ErrDuplicateRule }

// UnknownPackageError reports a package name missing from the package table.
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string { return fmt.Sprintf("unknown package %q", e.Name) }

// Kind implements kinded.
func (e *UnknownPackageError) Kind() Kind { return KindFatal }

// Is matches ErrUnknownPackage.
func (e *UnknownPackageError) Is(target error) bool { return target == ErrUnknownPackage }

// BuildError wraps a failure raised while resolving targets, recording the
// chain of targets from the requested root down to the failing node.
type BuildError struct {
	Path []Path
	Err  error
}

// NewBuildError wraps err for the failing target. An existing BuildError in
// err is extended instead of nested.
func NewBuildError(target Path, err error) *BuildError {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Prepend(target)
	}
	return &BuildError{Path: []Path{target}, Err: err}
}

// Prepend returns a copy of e with p in front of the dependency path.
func (e *BuildError) Prepend(p Path) *BuildError {
	path := make([]Path, 0, len(e.Path)+1)
	path = append(path, p)
	path = append(path, e.Path...)
	return &BuildError{Path: path, Err: e.Err}
}

func (e *BuildError) Error() string { return e.Err.Error() }

func (e *BuildError) Unwrap() error { return e.Err }

// StackOf returns the first stack trace recorded in err's chain.
func StackOf(err error) string {
	for err != nil {
		if z, ok := err.(*zerr.Error); ok {
			if st := z.StackTrace(); st != "" {
				return st
			}
		}
		err = errors.Unwrap(err)
	}
	return ""
}
