package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/moneta/internal/models"
)

// formatArticles renders fetched articles as markdown
func formatArticles(keyword string, articles []models.Article) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No articles found for %q", keyword)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# News results for %q (%d articles)\n", keyword, len(articles))
	for i, article := range articles {
		fmt.Fprintf(&b, "\n## %d. %s\n", i+1, article.Title)
		if article.Date != "" {
			fmt.Fprintf(&b, "Date: %s\n", article.Date)
		}
		fmt.Fprintf(&b, "Link: %s\n\n", article.Link)
		b.WriteString(article.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// formatFilings renders fetched filing tables as markdown, keyed by period
func formatFilings(results map[string]models.TableSet) string {
	if len(results) == 0 {
		return "No filing periods requested"
	}

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		tables := results[key]
		fmt.Fprintf(&b, "# Filing %s\n", key)
		if tables == nil {
			b.WriteString("\nNo report available for this period.\n\n")
			continue
		}
		for _, table := range tables {
			fmt.Fprintf(&b, "\n## Table %d (%d rows)\n\n```\n%s\n```\n", table.TableIndex, len(table.Data), table.Preview)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// formatAnalysisResult renders a pipeline result as markdown
func formatAnalysisResult(result *models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(result.Summary)

	if result.ArticlesUsed > 0 {
		fmt.Fprintf(&b, "\n\n---\nBased on %d article(s):\n", result.ArticlesUsed)
		for i, article := range result.Articles {
			if i >= result.ArticlesUsed {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", article.Title, article.Link)
		}
	}

	if len(result.Filings) > 0 {
		keys := make([]string, 0, len(result.Filings))
		for key := range result.Filings {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, "\nFiling periods consulted: %s\n", strings.Join(keys, ", "))
	}

	return b.String()
}
