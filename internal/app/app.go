package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/handlers"
	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/services/analysis"
	"github.com/ternarybob/moneta/internal/services/filings"
	"github.com/ternarybob/moneta/internal/services/intent"
	"github.com/ternarybob/moneta/internal/services/llm"
	"github.com/ternarybob/moneta/internal/services/news"
	badgerstore "github.com/ternarybob/moneta/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	LLMService     interfaces.LLMService
	Renderer       interfaces.PageRenderer

	IntentService   interfaces.IntentService
	NewsService     interfaces.NewsService
	FilingsService  interfaces.FilingsService
	AnalysisService interfaces.AnalysisService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	FilingsHandler *handlers.FilingsHandler
}

// New wires up storage, services, and handlers from the configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badgerstore.NewStorageManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	llmService, err := llm.NewLLMService(config, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}

	renderer := filings.NewChromeRenderer(config, logger)

	intentService := intent.NewParser(llmService, logger)
	newsService := news.NewService(config, logger)
	filingsService := filings.NewService(config, logger, storageManager.FilingStorage(), renderer)
	analysisService := analysis.NewService(config, logger, intentService, newsService, filingsService, llmService)

	application := &App{
		Config:          config,
		Logger:          logger,
		StorageManager:  storageManager,
		LLMService:      llmService,
		Renderer:        renderer,
		IntentService:   intentService,
		NewsService:     newsService,
		FilingsService:  filingsService,
		AnalysisService: analysisService,
		APIHandler:      handlers.NewAPIHandler(logger),
		AnalyzeHandler:  handlers.NewAnalyzeHandler(analysisService, logger),
		FilingsHandler:  handlers.NewFilingsHandler(storageManager.FilingStorage(), logger),
	}

	logger.Info().
		Str("llm_provider", config.LLM.Provider).
		Str("storage_path", config.Storage.Badger.Path).
		Msg("Application initialized")

	return application, nil
}

// Close releases all application resources in reverse dependency order
func (a *App) Close() error {
	var firstErr error

	if a.Renderer != nil {
		if err := a.Renderer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return firstErr
}
