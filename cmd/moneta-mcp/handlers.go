package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/services/filings"
)

// handleParseQuestion implements the parse_question tool
func handleParseQuestion(intentService interfaces.IntentService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return textResult("Error: question parameter is required"), nil
		}

		intent, err := intentService.Parse(ctx, question)
		if err != nil {
			logger.Error().Err(err).Msg("Question parse failed")
			return textResult(fmt.Sprintf("Parse error: %v", err)), nil
		}

		data, err := json.MarshalIndent(intent, "", "  ")
		if err != nil {
			return textResult(fmt.Sprintf("Encoding error: %v", err)), nil
		}

		return textResult(string(data)), nil
	}
}

// handleFetchNews implements the fetch_news tool
func handleFetchNews(newsService interfaces.NewsService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		keyword, err := request.RequireString("keyword")
		if err != nil || keyword == "" {
			return textResult("Error: keyword parameter is required"), nil
		}

		pages := request.GetInt("pages", 1)

		articles, err := newsService.FetchNews(ctx, keyword, pages)
		if err != nil {
			logger.Error().Err(err).Str("keyword", keyword).Msg("News fetch failed")
			return textResult(fmt.Sprintf("News fetch error: %v", err)), nil
		}

		return textResult(formatArticles(keyword, articles)), nil
	}
}

// handleFetchFilings implements the fetch_filings tool
func handleFetchFilings(filingsService interfaces.FilingsService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stockID, err := request.RequireString("stock_id")
		if err != nil || stockID == "" {
			return textResult("Error: stock_id parameter is required"), nil
		}

		year := request.GetInt("year", 0)
		season := request.GetInt("season", 0)
		if year <= 0 || season < 1 || season > 4 {
			return textResult("Error: year and season (1-4) parameters are required"), nil
		}

		results, err := filingsService.FetchFilings(ctx, []string{stockID}, []int{year}, []int{season})
		if err != nil {
			logger.Error().Err(err).Str("stock_id", stockID).Msg("Filings fetch failed")
			return textResult(fmt.Sprintf("Filings fetch error: %v", err)), nil
		}

		return textResult(formatFilings(results)), nil
	}
}

// handleNewsSummary implements the news_summary tool
func handleNewsSummary(analysisService interfaces.AnalysisService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return textResult("Error: question parameter is required"), nil
		}

		pages := request.GetInt("pages", 1)
		limit := request.GetInt("limit", 0)

		result, err := analysisService.NewsSummary(ctx, question, pages, limit)
		if err != nil {
			logger.Error().Err(err).Msg("News summary failed")
			return textResult(fmt.Sprintf("News summary error: %v", err)), nil
		}

		return textResult(formatAnalysisResult(result)), nil
	}
}

// handleAnalyzeFinancialData implements the analyze_financial_data tool
func handleAnalyzeFinancialData(analysisService interfaces.AnalysisService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return textResult("Error: question parameter is required"), nil
		}

		result, err := analysisService.AnalyzeFinancialData(ctx, interfaces.FinancialDataRequest{
			Question: question,
			StockID:  request.GetString("stock_id", ""),
			Company:  request.GetString("company", ""),
			Topic:    request.GetString("topic", ""),
			Pages:    1,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Financial data analysis failed")
			return textResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		return textResult(formatAnalysisResult(result)), nil
	}
}

// handleInvalidateFilingCache implements the invalidate_filing_cache tool
func handleInvalidateFilingCache(filingsService *filings.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stockID, err := request.RequireString("stock_id")
		if err != nil || stockID == "" {
			return textResult("Error: stock_id parameter is required"), nil
		}

		year := request.GetInt("year", 0)
		season := request.GetInt("season", 0)
		if year <= 0 || season < 1 || season > 4 {
			return textResult("Error: year and season (1-4) parameters are required"), nil
		}

		if err := filingsService.Invalidate(ctx, stockID, year, season); err != nil {
			logger.Error().Err(err).Str("stock_id", stockID).Msg("Cache invalidation failed")
			return textResult(fmt.Sprintf("Invalidation error: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Cache entry for %s %dQ%d removed", stockID, year, season)), nil
	}
}

// textResult wraps a string as a single-text tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
