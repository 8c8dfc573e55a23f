package contexts

import (
	"os"

	"go.trai.ch/kiln/internal/core/ports"
)

// NewFactoryForTest exposes the injectable constructor.
func NewFactoryForTest(logger ports.Logger, getenv func(string) string, stat func(string) (os.FileInfo, error)) *Factory {
	return newFactory(logger, getenv, stat)
}
