package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/moneta/internal/models"
)

// RenderArticles formats up to maxArticles articles as a numbered evidence
// corpus. Each body is cut to charLimit characters; the cut is rune-safe so
// multi-byte text never splits mid-character. Returns the rendered corpus
// and how many articles it includes.
func RenderArticles(articles []models.Article, maxArticles, charLimit int) (string, int) {
	if len(articles) == 0 {
		return "", 0
	}

	used := articles
	if maxArticles > 0 && len(used) > maxArticles {
		used = used[:maxArticles]
	}

	var b strings.Builder
	for i, article := range used {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "【第 %d 篇】\n", i+1)
		fmt.Fprintf(&b, "標題：%s\n", article.Title)
		fmt.Fprintf(&b, "日期：%s\n", article.Date)
		fmt.Fprintf(&b, "連結：%s\n", article.Link)
		fmt.Fprintf(&b, "內文：%s", truncateRunes(article.Content, charLimit))
	}

	return b.String(), len(used)
}

// RenderFilings serializes filing tables as indented JSON with keys in
// sorted order, cut to charLimit characters. Returns "無" when there is
// nothing to render.
func RenderFilings(filings map[string]models.TableSet, charLimit int) string {
	if len(filings) == 0 {
		return "無"
	}

	keys := make([]string, 0, len(filings))
	for key := range filings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ordered := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		tables := filings[key]
		if tables == nil {
			continue
		}
		ordered = append(ordered, map[string]any{
			"period": key,
			"tables": tables,
		})
	}
	if len(ordered) == 0 {
		return "無"
	}

	data, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return "無"
	}

	text := string(data)
	if charLimit > 0 {
		runes := []rune(text)
		if len(runes) > charLimit {
			text = string(runes[:charLimit]) + "..."
		}
	}

	return text
}

// truncateRunes cuts s to at most limit runes
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
