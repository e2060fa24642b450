package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/extract"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/pipeline"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/store"
	"github.com/Sandhiyavisu-16/hackathon-product/pkg/llm"
)

// pipelineEnv bundles the wired components a pipeline command needs.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	State    *pipeline.RunState
}

func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close", zap.Error(err))
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "hackeval.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initLLM builds the chat client. The store's active evaluation model
// config, when present, overrides the file-configured provider and model;
// credentials always come from configuration, never from the store.
func initLLM(ctx context.Context, st store.Store) (llm.Client, error) {
	llmCfg := llm.Config{
		Provider:          cfg.LLM.Provider,
		Model:             cfg.LLM.Model,
		APIKey:            cfg.LLM.APIKey,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}

	mc, err := st.ActiveModelConfig(ctx, model.PurposeEvaluation)
	switch {
	case err == nil:
		llmCfg.Provider = mc.Provider
		llmCfg.Model = mc.Model
		llmCfg.MaxTokens = int64(llm.SettingInt(mc.Settings, "max_tokens", int(llmCfg.MaxTokens)))
		zap.L().Info("using stored model config",
			zap.String("name", mc.Name),
			zap.String("model", mc.Model))
	case eris.Is(err, store.ErrNotFound):
		zap.L().Debug("no active model config, using file configuration",
			zap.String("model", llmCfg.Model))
	default:
		return nil, err
	}

	return llm.New(llmCfg)
}

func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate("pipeline"); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	client, err := initLLM(ctx, st)
	if err != nil {
		st.Close()
		return nil, err
	}

	state := pipeline.NewRunState()
	p := pipeline.New(
		st,
		extract.NewFileExtractor(client),
		pipeline.NewClassifier(client),
		pipeline.NewEvaluator(client),
		pipeline.Config{
			BatchSize:     cfg.Pipeline.BatchSize,
			FilesRoot:     cfg.Pipeline.FilesRoot,
			RetryAttempts: cfg.Pipeline.RetryAttempts,
			RetryBackoff:  cfg.Pipeline.RetryBackoff,
		},
		func(p pipeline.Progress) {
			state.Observe(p)
			zap.L().Info("pipeline progress",
				zap.String("stage", p.Stage),
				zap.Int("progress", p.Progress),
				zap.String("message", p.Message))
		},
	)

	return &pipelineEnv{Store: st, Pipeline: p, State: state}, nil
}
