package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/providers/knowledge"
	"github.com/sandevgo/agriaid/internal/providers/llm"
	"github.com/sandevgo/agriaid/internal/providers/price"
	"github.com/sandevgo/agriaid/internal/providers/search"
	"github.com/sandevgo/agriaid/internal/providers/weather"
	"github.com/sandevgo/agriaid/internal/service/assistant"
	"github.com/sandevgo/agriaid/internal/service/fusion"
	"github.com/sandevgo/agriaid/internal/service/session"
	"github.com/sandevgo/agriaid/internal/storage/filecache"
	"github.com/sandevgo/agriaid/internal/storage/sqlite"
	"github.com/sandevgo/agriaid/internal/transport/cli"
	"github.com/sandevgo/agriaid/internal/transport/telegram"
	"github.com/sandevgo/agriaid/pkg/log"
	"github.com/sandevgo/agriaid/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Assistant stack (storage, resolvers, fusion, model)
	asst, cleanups := buildAssistant(ctx, appCfg)
	services = append(services, cleanups...)

	// 3. Transports
	transports, err := initTransports(ctx, appCfg, asst)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

// buildAssistant wires the full answer pipeline. The returned services are
// shutdown-only cleanups the caller must run at exit.
func buildAssistant(ctx context.Context, appCfg *config.AppConfig) (*assistant.Assistant, []srv.Service) {
	logger := log.FromCtx(ctx)

	// Storage
	db, knowledgeRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	cleanups := []srv.Service{srv.NewCleanup(db.Close)}

	// Web search with its payload cache
	searchCfg := config.NewSearchConfig(ctx)
	searchCache, err := filecache.New(filepath.Join(appCfg.GetCacheDir(), "search"), searchCfg.CacheTTL())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize search cache")
	}
	searcher := search.New(searchCfg, searchCache)

	// Resolvers
	knowledgeRes := knowledge.New(knowledgeRepo)
	priceRes := price.New(config.NewPriceConfig(ctx))
	weatherRes := weather.New(config.NewWeatherConfig(ctx), searcher)

	// Fusion over the bounded conversation window
	sessions := session.NewStore(appCfg.ContextWindowSize)
	engine := fusion.New(knowledgeRes, priceRes, weatherRes, searcher, sessions, appCfg.Region)

	// Generative backend
	ollama := llm.NewOllama(config.NewOllamaConfig(ctx))

	return assistant.New(engine, ollama, ollama, appCfg.PromptTokenBudget), cleanups
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.KnowledgeRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewKnowledgeRepo(db), nil
}

func initTransports(ctx context.Context, cfg *config.AppConfig, asst *assistant.Assistant) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, asst)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Interactive console
	if cfg.EnableCLI {
		services = append(services, cli.NewConsole(asst, cfg))
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
