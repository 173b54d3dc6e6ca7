package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/services/analysis"
	"github.com/ternarybob/moneta/internal/services/filings"
	"github.com/ternarybob/moneta/internal/services/intent"
	"github.com/ternarybob/moneta/internal/services/llm"
	"github.com/ternarybob/moneta/internal/services/news"
	badgerstore "github.com/ternarybob/moneta/internal/storage/badger"
)

func main() {
	configPath := os.Getenv("MONETA_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("moneta.toml"); err == nil {
			configPath = "moneta.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	storageManager, err := badgerstore.NewStorageManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	llmService, err := llm.NewLLMService(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize LLM service")
	}
	defer llmService.Close()

	renderer := filings.NewChromeRenderer(config, logger)
	defer renderer.Close()

	intentService := intent.NewParser(llmService, logger)
	newsService := news.NewService(config, logger)
	filingsService := filings.NewService(config, logger, storageManager.FilingStorage(), renderer)
	analysisService := analysis.NewService(config, logger, intentService, newsService, filingsService, llmService)

	mcpServer := server.NewMCPServer(
		"moneta",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register pipeline tools
	mcpServer.AddTool(createParseQuestionTool(), handleParseQuestion(intentService, logger))
	mcpServer.AddTool(createFetchNewsTool(), handleFetchNews(newsService, logger))
	mcpServer.AddTool(createFetchFilingsTool(), handleFetchFilings(filingsService, logger))
	mcpServer.AddTool(createNewsSummaryTool(), handleNewsSummary(analysisService, logger))
	mcpServer.AddTool(createAnalyzeFinancialDataTool(), handleAnalyzeFinancialData(analysisService, logger))
	mcpServer.AddTool(createInvalidateFilingCacheTool(), handleInvalidateFilingCache(filingsService, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
