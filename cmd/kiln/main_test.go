package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newApp(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) *app.App {
	return app.New(
		loader,
		mocks.NewMockContextFactory(ctrl),
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockBuildInfoStore(ctrl),
		mocks.NewMockHasher(ctrl),
		logger,
		nil,
		nil,
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_BuildFailure verifies that a rendered build failure is not logged again.
func TestRun_BuildFailure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().FindRoot(root).Return(root)
	mockLoader.EXPECT().LoadWorkspace(root).Return(nil, errors.New("load failed"))

	// No Error expectation: the failure is printed by the reporter.
	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mockLoader, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	diag := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "target"}, io.Discard, provider, func(a *app.App) {
		a.WithWorkingDir(root).WithOutput(io.Discard, diag)
	})

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "Error: load failed\n", diag.String())
}

// TestRun_ExecutionError verifies that command errors other than build
// failures are logged.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"frobnicate"}, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Clean verifies that clean removes the build directory.
func TestRun_Clean(t *testing.T) {
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_build", "default"), domain.DirPerm))

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().FindRoot(root).Return(root)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).Times(2)

	application := newApp(ctrl, mockLoader, mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"clean"}, io.Discard, provider, func(a *app.App) {
		a.WithWorkingDir(root)
	})
	assert.Equal(t, 0, exitCode)

	_, err := os.Stat(filepath.Join(root, "_build"))
	assert.True(t, os.IsNotExist(err))
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	blockCh := make(chan struct{})

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().FindRoot(root).Return(root)
	mockLoader.EXPECT().LoadWorkspace(root).DoAndReturn(func(_ string) ([]domain.ContextSpec, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	application := newApp(ctrl, mockLoader, mockLogger).WithWorkingDir(root).WithOutput(io.Discard, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"build", "target"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
		})
	}()

	// Wait a bit to ensure run() reaches LoadWorkspace()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
