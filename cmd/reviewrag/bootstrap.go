package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/ai"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/config/file"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/source/csvfile"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/cli"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/services"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// bootstrap wires the adapters and core services for one command run.
// Gateways are only created when the command embeds or chats, so offline
// commands work without an API key.
func bootstrap(ctx context.Context, cfg cli.BootstrapConfig) (*cli.Services, error) {
	if loaded, err := file.LoadDotEnv(""); err != nil {
		logger.Warn("Ignoring %s: %v", file.DotEnvFile, err)
	} else if loaded {
		logger.Debug("Loaded environment from %s", file.DotEnvFile)
	}

	configStore, err := file.NewConfigStore(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		if cfg.Gateways {
			return nil, err
		}
		// Offline commands report the problem themselves.
		settings = settingsService.GetDefaults()
	}

	source := csvfile.New(settings.CSVPath, settings.ReviewColumn)
	store, err := storage.NewVectorStore(settings.IndexBackend, settings.IndexPath)
	if err != nil {
		return nil, err
	}
	handle := services.NewIndexHandle(store.Path())

	var (
		gateways *ai.InitResult
		embedder driven.EmbeddingService
		llm      driven.LLMService
	)
	if cfg.Gateways {
		apiKey := ""
		if settings.NeedsAPIKey() {
			if apiKey, err = settingsService.APIKey(); err != nil {
				return nil, err
			}
		}
		gateways, err = ai.Init(ctx, settings, apiKey, false)
		if err != nil {
			return nil, err
		}
		for _, w := range gateways.Warnings {
			logger.Warn("Chat disabled: %s", w)
		}
		embedder = gateways.EmbeddingService
		llm = gateways.LLMService
	}

	scheduler := services.NewBatchScheduler(embedder, store, handle, settings.Ingest)
	index := services.NewIndexManager(source, store, handle, scheduler)

	out := &cli.Services{
		Index:      index,
		DataCheck:  services.NewDataCheckService(source),
		Settings:   settingsService,
		Validator:  ai.NewConfigValidator(),
		ConfigPath: configStore.Path(),
		Close: func() {
			if err := handle.Close(); err != nil {
				logger.Warn("Closing index: %v", err)
			}
			if gateways != nil {
				gateways.Close()
			}
		},
	}

	if embedder != nil {
		retrieval := services.NewRetrievalService(embedder, handle, settings.TopKRetrieval)
		out.Retrieval = retrieval
		out.Evaluation = services.NewEvaluationService(retrieval)

		if llm != nil {
			prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(configStore.Path()), "prompts"))
			if err != nil {
				out.Close()
				return nil, err
			}
			out.Answer = services.NewAnswerService(retrieval, llm, prompts, settings.Chat)
		}
	}

	return out, nil
}
