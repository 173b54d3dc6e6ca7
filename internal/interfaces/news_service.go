package interfaces

import (
	"context"

	"github.com/ternarybob/moneta/internal/models"
)

// NewsService retrieves news articles for a keyword from the search-and-scrape
// flow. The call never fails outright: page-level and article-level failures
// are absorbed and whatever was obtainable is returned, possibly empty.
// Article order is page order, then position within page, and is stable
// across a single invocation.
type NewsService interface {
	FetchNews(ctx context.Context, keyword string, pages int) ([]models.Article, error)
}
