package llm

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based on
// the configured provider.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", cfg.LLM.Provider).Msg("Initializing LLM service")

	switch cfg.LLM.Provider {
	case "claude":
		return NewClaudeService(&cfg.LLM, logger)

	case "gemini":
		return NewGeminiService(&cfg.LLM, logger)

	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'claude' or 'gemini'", cfg.LLM.Provider)
	}
}

// resolveAPIKey resolves the provider API key with config-first precedence,
// falling back to the provider's conventional environment variable.
func resolveAPIKey(config *common.LLMConfig, envVar string) (string, error) {
	if config.APIKey != "" {
		return config.APIKey, nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key configured")
}
