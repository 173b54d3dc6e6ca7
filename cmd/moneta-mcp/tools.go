package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createParseQuestionTool returns the parse_question tool definition
func createParseQuestionTool() mcp.Tool {
	return mcp.NewTool("parse_question",
		mcp.WithDescription("Parse a free-text finance question into structured fields: company, stock id, topic, resource selector, year, season"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The finance question in natural language"),
		),
	)
}

// createFetchNewsTool returns the fetch_news tool definition
func createFetchNewsTool() mcp.Tool {
	return mcp.NewTool("fetch_news",
		mcp.WithDescription("Search news articles by keyword and return them with extracted bodies"),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Search keyword, typically company name plus topic"),
		),
		mcp.WithNumber("pages",
			mcp.Description("Number of search result pages to fetch (default: 1)"),
		),
	)
}

// createFetchFilingsTool returns the fetch_filings tool definition
func createFetchFilingsTool() mcp.Tool {
	return mcp.NewTool("fetch_filings",
		mcp.WithDescription("Fetch regulatory filing tables for a stock id and period, using the local cache when available"),
		mcp.WithString("stock_id",
			mcp.Required(),
			mcp.Description("Stock id, digits only (e.g. 2330)"),
		),
		mcp.WithNumber("year",
			mcp.Required(),
			mcp.Description("Filing year (e.g. 2024)"),
		),
		mcp.WithNumber("season",
			mcp.Required(),
			mcp.Description("Filing season, 1-4"),
		),
	)
}

// createNewsSummaryTool returns the etnews_finance_summary tool definition
func createNewsSummaryTool() mcp.Tool {
	return mcp.NewTool("etnews_finance_summary",
		mcp.WithDescription("Answer a finance question from news only: parses the question, searches news, and produces a per-article digest plus an overall read"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The finance question in natural language"),
		),
		mcp.WithNumber("pages",
			mcp.Description("Number of search result pages to fetch (default: 1)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum articles included in the digest (default: configured cap)"),
		),
	)
}

// createAnalyzeFinancialDataTool returns the analyze_financial_data tool definition
func createAnalyzeFinancialDataTool() mcp.Tool {
	return mcp.NewTool("analyze_financial_data",
		mcp.WithDescription("Analyze a company's financial position from recent filing periods plus a compact news digest"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The finance question in natural language"),
		),
		mcp.WithString("stock_id",
			mcp.Description("Stock id if already known; parsed from the question otherwise"),
		),
		mcp.WithString("company",
			mcp.Description("Company name if already known; parsed from the question otherwise"),
		),
		mcp.WithString("topic",
			mcp.Description("Topic to focus the supporting news search on"),
		),
	)
}

// createInvalidateFilingCacheTool returns the invalidate_filing_cache tool definition
func createInvalidateFilingCacheTool() mcp.Tool {
	return mcp.NewTool("invalidate_filing_cache",
		mcp.WithDescription("Remove a cached filing period so the next fetch re-scrapes it"),
		mcp.WithString("stock_id",
			mcp.Required(),
			mcp.Description("Stock id, digits only"),
		),
		mcp.WithNumber("year",
			mcp.Required(),
			mcp.Description("Filing year"),
		),
		mcp.WithNumber("season",
			mcp.Required(),
			mcp.Description("Filing season, 1-4"),
		),
	)
}
