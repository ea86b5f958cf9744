// clawdroid - chat client with LLM tool orchestration
// License: MIT

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/KarakuriAgent/clawdroid/pkg/agent"
	"github.com/KarakuriAgent/clawdroid/pkg/catalog"
	"github.com/KarakuriAgent/clawdroid/pkg/config"
	"github.com/KarakuriAgent/clawdroid/pkg/llm"
	"github.com/KarakuriAgent/clawdroid/pkg/logger"
	"github.com/KarakuriAgent/clawdroid/pkg/persona"
	"github.com/KarakuriAgent/clawdroid/pkg/prompt"
	"github.com/KarakuriAgent/clawdroid/pkg/providers"
	"github.com/KarakuriAgent/clawdroid/pkg/thread"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// app holds the wired-up subsystems every command works against.
type app struct {
	cfg      *config.Config
	registry *tools.Registry
	catalog  *catalog.Catalog
	personas *persona.Store
	composer *prompt.Composer
	client   *llm.Client
	engine   *agent.Engine
	runner   *agent.TurnRunner
	store    *thread.Store
}

func newApp(ctx context.Context, cfgPath string, debug bool) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if debug {
		logger.SetLevel(logger.DEBUG)
	} else {
		logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	}
	if cfg.Logging.File != "" {
		if err := logger.EnableFileLogging(cfg.Logging.File); err != nil {
			return nil, fmt.Errorf("failed to enable file logging: %w", err)
		}
	}

	provider, err := providers.CreateProvider(cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Proxy)
	if err != nil {
		return nil, err
	}
	client := llm.NewClient(provider, llm.Options{
		RequestsPerMinute: cfg.Agent.RequestsPerMinute,
	})

	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	registry.Register(tools.NewSearchTool(tools.SearchToolOptions{
		BraveEnabled:         cfg.Tools.Search.Brave.Enabled,
		BraveAPIKey:          cfg.Tools.Search.Brave.APIKey,
		BraveMaxResults:      cfg.Tools.Search.Brave.MaxResults,
		DuckDuckGoMaxResults: cfg.Tools.Search.DuckDuckGoMaxResults,
		Proxy:                cfg.Tools.Proxy,
	}))
	registry.Register(tools.NewImageTool(tools.ImageToolOptions{
		BaseURL: cfg.Tools.Image.BaseURL,
		Proxy:   cfg.Tools.Proxy,
	}))

	cat := catalog.FromConfig(cfg.Models)
	composer := prompt.NewComposer(registry, cat)

	engine := agent.NewEngine(client, registry, composer, agent.EngineOptions{
		HasCredential:      cfg.HasCredential(),
		MaxTokens:          cfg.Agent.MaxTokens,
		Temperature:        cfg.Agent.Temperature,
		ParallelTools:      cfg.Agent.ParallelTools,
		MaxToolConcurrency: cfg.Agent.MaxToolConcurrency,
	})

	store, err := thread.OpenStore(ctx, filepath.Join(cfg.Storage.DataDir, "threads.db"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		registry: registry,
		catalog:  cat,
		personas: persona.FromConfig(cfg.Characters),
		composer: composer,
		client:   client,
		engine:   engine,
		runner:   agent.NewTurnRunner(engine),
		store:    store,
	}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// resolveModel picks the model to use: explicit flag, then config, then
// the provider default. The id must exist in the catalog.
func (a *app) resolveModel(flagValue string) (string, error) {
	id := flagValue
	if id == "" {
		id = a.cfg.LLM.Model
	}
	if id == "" {
		id = a.client.DefaultModel()
	}
	if _, ok := a.catalog.Get(id); !ok {
		return "", fmt.Errorf("unknown model %q (see: clawdroid models)", id)
	}
	return id, nil
}
