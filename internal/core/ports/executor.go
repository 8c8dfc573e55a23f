// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// Executor defines the interface for running subprocess actions.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs a Run or System action from root.
	//
	// The env parameter is the context's toolchain descriptor in "KEY=VALUE"
	// format. It is merged over an allow-listed system environment.
	//
	// A program missing from PATH is reported as *domain.NotFoundError.
	Execute(ctx context.Context, root string, action domain.Action, env []string, stdout, stderr io.Writer) error
}
