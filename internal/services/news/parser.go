package news

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/moneta/internal/models"
)

var dateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// parseSearchResults extracts article headers from one search-results page.
// Each result block is a .box_2 element carrying an h2 anchor and a detail
// line with the publication date. Candidates missing a link, title, or date
// are dropped silently.
func parseSearchResults(doc *goquery.Document, keyword string) []models.Article {
	var articles []models.Article

	doc.Find(".box_2").Each(func(_ int, block *goquery.Selection) {
		anchor := block.Find("h2 a").First()
		link, ok := anchor.Attr("href")
		if !ok || link == "" {
			return
		}

		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return
		}

		detail := block.Find("p.detail span.date").First().Text()
		date := dateRegex.FindString(detail)
		if date == "" {
			return
		}

		articles = append(articles, models.Article{
			Title:   title,
			Link:    link,
			Date:    date,
			Keyword: keyword,
		})
	})

	return articles
}

// extractArticleBody pulls the main story text out of an article page and
// renders it as markdown. The primary container is #main-content; older
// article templates use .story instead.
func extractArticleBody(doc *goquery.Document, pageURL string) (string, error) {
	container := doc.Find("#main-content").First()
	if container.Length() == 0 {
		container = doc.Find(".story").First()
	}
	if container.Length() == 0 {
		return "", fmt.Errorf("no story container found")
	}

	html, err := container.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize story container: %w", err)
	}

	converter := md.NewConverter(pageURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert story to markdown: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", fmt.Errorf("story container was empty")
	}

	return markdown, nil
}
