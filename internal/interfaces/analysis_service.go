package interfaces

import (
	"context"

	"github.com/ternarybob/moneta/internal/models"
)

// IntentService converts a free-text finance question into a structured
// intent. A malformed model response surfaces as *models.ParseError carrying
// the raw text; it is never retried.
type IntentService interface {
	Parse(ctx context.Context, question string) (*models.Intent, error)
}

// FinancialDataRequest carries the optional pre-resolved fields for
// AnalyzeFinancialData. When StockID or Company is empty the question is
// parsed first.
type FinancialDataRequest struct {
	Question string
	StockID  string
	Company  string
	Topic    string
	Pages    int
}

// AnalysisService is the single orchestrator behind every front end (HTTP
// and MCP). All entry points share one result contract: a populated
// *models.AnalysisResult on success or degraded success, an error only for
// whole-stage failures (intent extraction, synthesis).
type AnalysisService interface {
	// Analyze runs the full pipeline: intent extraction, evidence fan-out
	// driven by the resource selector, corpus assembly, synthesis.
	Analyze(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error)

	// NewsSummary runs the news-only flow and produces a two-part answer
	// (evidence summary plus a bounded direct answer).
	NewsSummary(ctx context.Context, question string, pages, limit int) (*models.AnalysisResult, error)

	// AnalyzeFinancialData combines recent filings with news for a known or
	// parsed company and answers the question.
	AnalyzeFinancialData(ctx context.Context, req FinancialDataRequest) (*models.AnalysisResult, error)
}
