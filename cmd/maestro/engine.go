package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ckeeney/maestro/internal/api"
	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/manifest"
	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/internal/state"
)

// engine bundles an orchestrator with the resources it owns: the
// session archive and, for live runs, the API token tracker.
type engine struct {
	orch    *orchestrator.Orchestrator
	db      *state.DB
	tracker *api.TokenTracker

	closeOnce sync.Once
}

// Close shuts down the orchestrator and the archive database. The
// orchestrator's event channel closes exactly once, so Close is safe
// to call from multiple exit paths.
func (e *engine) Close() {
	e.closeOnce.Do(func() {
		e.orch.Close()
		if e.db != nil {
			e.db.Close()
		}
	})
}

// newEngine assembles an orchestrator from configuration: specialist
// roster, adapter, session archive, and orchestration options.
func newEngine(cfg *config.Config, offline bool) (*engine, error) {
	roster, err := manifest.LoadOrDefault(cfg.Manifest.Path)
	if err != nil {
		return nil, fmt.Errorf("load specialist manifest: %w", err)
	}

	registry := orchestrator.NewRegistry()
	for _, s := range roster {
		if err := registry.Register(s); err != nil {
			return nil, fmt.Errorf("register specialist: %w", err)
		}
	}

	adapter, tracker, err := newAdapter(cfg, offline)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithTimeout(cfg.Orchestrator.Timeout),
		orchestrator.WithMaxConcurrent(cfg.Orchestrator.MaxConcurrent),
		orchestrator.WithMaxRetries(cfg.Orchestrator.MaxRetries),
		orchestrator.WithAttribution(cfg.Orchestrator.AttributeSources),
	}

	if cfg.Debug {
		if cwd, err := os.Getwd(); err == nil {
			opts = append(opts, orchestrator.WithLogger(orchestrator.NewDebugLoggerForDir(cwd)))
		}
	}

	var db *state.DB
	if cfg.Archive.Path != "" {
		db, err = state.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open session archive: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate session archive: %w", err)
		}
		// Sessions left active by a crash or kill are unrecoverable.
		if _, err := db.MarkInterrupted(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not mark interrupted sessions: %v\n", err)
		}
		opts = append(opts, orchestrator.WithStore(state.NewArchiveStore(db)))
	}

	orch, err := orchestrator.New(orchestrator.RequiredConfig{
		Registry: registry,
		Adapter:  adapter,
	}, opts...)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	return &engine{orch: orch, db: db, tracker: tracker}, nil
}

// newAdapter picks the specialist adapter: canned offline answers, or
// the live Anthropic client with its token tracker.
func newAdapter(cfg *config.Config, offline bool) (orchestrator.Adapter, *api.TokenTracker, error) {
	if offline {
		return api.NewStaticAdapter(), nil, nil
	}

	key, err := config.GetAPIKey(cfg)
	if err != nil && !cfg.Anthropic.UseBedrock {
		if errors.Is(err, config.ErrNoAPIKey) {
			return nil, nil, fmt.Errorf("%w\n\n"+
				"Set one with:\n"+
				"  export ANTHROPIC_API_KEY=your-key-here\n"+
				"  # or: maestro config anthropic.api_key your-key-here\n\n"+
				"Or answer without the API:\n"+
				"  maestro --offline", err)
		}
		return nil, nil, err
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        key,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create Anthropic client: %w", err)
	}

	return api.NewClaudeAdapter(client), client.Tracker(), nil
}
