package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/httpclient"
	"github.com/ternarybob/moneta/internal/models"
)

// Sentinel bodies recorded when an article page cannot be fetched or parsed.
// The article still counts toward the result set so the caller sees which
// links were found even when their content is unavailable.
const (
	bodyFetchFailed = "(抓取失敗: %v)"
	bodyUnavailable = "(無法取得內文)"
)

// Service fetches news articles from the configured search source. Search
// pages are fetched sequentially (pagination is cheap and ordered); article
// bodies are fetched concurrently under a shared rate limiter so the source
// never sees more than the configured request rate regardless of fan-out.
type Service struct {
	config  *common.Config
	logger  arbor.ILogger
	client  *http.Client
	limiter *rate.Limiter

	searchTimeout  time.Duration
	articleTimeout time.Duration
}

// NewService creates a news service from the crawler and news configuration
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	userAgent := httpclient.PickUserAgent(config.Crawler.UserAgents)

	return &Service{
		config:         config,
		logger:         logger,
		client:         httpclient.NewBrowserClient(userAgent),
		limiter:        rate.NewLimiter(rate.Limit(config.Crawler.RateLimit), config.Crawler.RateBurst),
		searchTimeout:  common.ParseDurationOr(config.Crawler.SearchTimeout, 15*time.Second),
		articleTimeout: common.ParseDurationOr(config.Crawler.ArticleTimeout, 20*time.Second),
	}
}

// FetchNews searches for articles matching the keyword across the requested
// number of result pages and fills in each article's body. A failed search
// page is logged and skipped; the remaining pages still contribute results.
func (s *Service) FetchNews(ctx context.Context, keyword string, pages int) ([]models.Article, error) {
	if keyword == "" {
		return nil, fmt.Errorf("keyword cannot be empty")
	}
	if pages < 1 {
		pages = 1
	}

	var articles []models.Article
	for page := 1; page <= pages; page++ {
		found, err := s.searchPage(ctx, keyword, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn().
				Err(err).
				Str("keyword", keyword).
				Int("page", page).
				Msg("Search page fetch failed, skipping")
			continue
		}
		articles = append(articles, found...)
	}

	s.logger.Info().
		Str("keyword", keyword).
		Int("pages", pages).
		Int("articles", len(articles)).
		Msg("Search complete, fetching article bodies")

	s.fillBodies(ctx, articles)

	return articles, nil
}

// searchPage fetches and parses one page of search results
func (s *Service) searchPage(ctx context.Context, keyword string, page int) ([]models.Article, error) {
	searchURL := fmt.Sprintf(s.config.News.SearchURL, url.QueryEscape(keyword), page)

	doc, err := s.fetchDocument(ctx, searchURL, s.searchTimeout)
	if err != nil {
		return nil, err
	}

	return parseSearchResults(doc, keyword), nil
}

// fillBodies fetches article bodies concurrently, bounded by the configured
// concurrency. Results land back in the slice by index so the search order
// is preserved. Individual failures record a sentinel body instead of
// failing the batch.
func (s *Service) fillBodies(ctx context.Context, articles []models.Article) {
	if len(articles) == 0 {
		return
	}

	maxConcurrency := s.config.Crawler.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for i := range articles {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			articles[idx].Content = s.fetchBody(ctx, articles[idx].Link)
		}(i)
	}

	wg.Wait()
}

// fetchBody retrieves one article page and extracts its story text. Any
// failure yields a sentinel string rather than an error.
func (s *Service) fetchBody(ctx context.Context, link string) string {
	doc, err := s.fetchDocument(ctx, link, s.articleTimeout)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("link", link).
			Msg("Article body fetch failed")
		return fmt.Sprintf(bodyFetchFailed, err)
	}

	body, err := extractArticleBody(doc, link)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("link", link).
			Msg("Article body extraction failed")
		return bodyUnavailable
	}

	return body
}

// fetchDocument performs a rate-limited GET and parses the response body
func (s *Service) fetchDocument(ctx context.Context, pageURL string, timeout time.Duration) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", pageURL, err)
	}

	return doc, nil
}
