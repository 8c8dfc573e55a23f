package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/contexts"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			contexts.NodeID,
			shell.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.NodeID,
			metrics.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.ContextFactory](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, factory, executor, store, hasher, log, tracer, collector).WithWatcher(w), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
