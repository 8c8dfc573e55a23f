package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// ContextOptions tunes how contexts are created.
type ContextOptions struct {
	// Dev selects the development profile.
	Dev bool
}

// ContextFactory turns workspace entries into build contexts.
//
//go:generate mockgen -source=context_factory.go -destination=mocks/mock_context_factory.go -package=mocks
type ContextFactory interface {
	Create(ctx context.Context, specs []domain.ContextSpec, opts ContextOptions) ([]domain.Context, error)
}
