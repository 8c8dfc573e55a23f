package ports

// BuildLog records the commands of one invocation in _build/log.
//
//go:generate mockgen -source=build_log.go -destination=mocks/mock_build_log.go -package=mocks
type BuildLog interface {
	// Command records an executed command line.
	Command(dir string, argv []string)
	// Close flushes and closes the log.
	Close() error
}
