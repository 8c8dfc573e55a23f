package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRule matches NoRuleError.
	ErrNoRule = zerr.New("no rule found")

	// ErrCycleDetected matches CycleError.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrDuplicateRule matches DuplicateRuleError.
	ErrDuplicateRule = zerr.New("multiple rules generated for the same target")

	// ErrUnknownPackage matches UnknownPackageError.
	ErrUnknownPackage = zerr.New("unknown package")

	// ErrBuildAborted is returned by actions refused after an earlier failure.
	ErrBuildAborted = zerr.New("build aborted after an earlier failure")

	// ErrUnknownContext is returned when a target names a context that does not exist.
	ErrUnknownContext = zerr.New("unknown build context")

	// ErrNoTargetsSpecified is returned when no targets are given to build.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrTargetNotProduced is returned when an action succeeds without creating one of its targets.
	ErrTargetNotProduced = zerr.New("rule failed to generate target")

	// ErrActionFailed is returned when a build action fails.
	ErrActionFailed = zerr.New("action failed")

	// ErrBuildExecutionFailed is returned when the build fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrDynamicDepsFailed is returned when a dependency file cannot be read or parsed.
	ErrDynamicDepsFailed = zerr.New("failed to read dynamic dependencies")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrConfigReadFailed is returned when a stanza or workspace file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a stanza or workspace file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrDuplicatePackage is returned when two package files share a name.
	ErrDuplicatePackage = zerr.New("duplicate package")

	// ErrFailedToGetRoot is returned when the workspace root cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of workspace root")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrLogCreateFailed is returned when the build log cannot be created.
	ErrLogCreateFailed = zerr.New("failed to create build log")

	// ErrMetricsWriteFailed is returned when the metrics snapshot cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics snapshot")
)
