package filings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// Service fetches regulatory filing tables, caching each (stock, year,
// season) result in storage. Misses are cached too: a filing period with no
// published report stays empty until invalidated, so the renderer is not
// re-driven for periods known to be absent.
type Service struct {
	config   *common.Config
	logger   arbor.ILogger
	storage  interfaces.FilingStorage
	renderer interfaces.PageRenderer
}

// NewService creates a filings service backed by the given cache and renderer
func NewService(config *common.Config, logger arbor.ILogger, storage interfaces.FilingStorage, renderer interfaces.PageRenderer) *Service {
	return &Service{
		config:   config,
		logger:   logger,
		storage:  storage,
		renderer: renderer,
	}
}

// FetchFilings resolves the full cross-product of stock ids, years, and
// seasons. Every combination appears in the returned map; combinations that
// fail to render or parse map to nil. A cancelled context aborts the batch.
func (s *Service) FetchFilings(ctx context.Context, stockIDs []string, years []int, seasons []int) (map[string]models.TableSet, error) {
	results := make(map[string]models.TableSet)

	for _, stockID := range stockIDs {
		for _, year := range years {
			for _, season := range seasons {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				key := models.FilingKey(stockID, year, season)
				results[key] = s.fetchOne(ctx, key, stockID, year, season)
			}
		}
	}

	return results, nil
}

// fetchOne resolves a single filing period, preferring the cache
func (s *Service) fetchOne(ctx context.Context, key, stockID string, year, season int) models.TableSet {
	cached, err := s.storage.Get(ctx, key)
	if err == nil {
		s.logger.Debug().Str("key", key).Msg("Filing cache hit")
		return cached
	}
	if err != interfaces.ErrKeyNotFound {
		s.logger.Warn().Err(err).Str("key", key).Msg("Filing cache read failed, fetching fresh")
	}

	tables := s.scrape(ctx, key, stockID, year, season)

	// Write-through, including nil for recorded misses
	if err := s.storage.Put(ctx, key, tables); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Filing cache write failed")
	}

	return tables
}

// scrape renders the filing page and parses its tables. Returns nil when the
// page cannot be rendered or yields no tables.
func (s *Service) scrape(ctx context.Context, key, stockID string, year, season int) models.TableSet {
	reportURL := fmt.Sprintf(s.config.Filings.ReportURL, stockID, year, season)

	html, err := s.renderer.RenderPage(ctx, reportURL)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", key).
			Str("url", reportURL).
			Msg("Filing page render failed")
		return nil
	}

	tables, err := ParseTables(html, s.config.Filings.MaxTables)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("Filing page yielded no tables")
		return nil
	}

	s.logger.Info().
		Str("key", key).
		Int("tables", len(tables)).
		Msg("Filing fetched")

	return tables
}

// Invalidate removes a cached filing period so the next fetch re-scrapes it
func (s *Service) Invalidate(ctx context.Context, stockID string, year, season int) error {
	key := models.FilingKey(stockID, year, season)
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to invalidate filing %s: %w", key, err)
	}
	s.logger.Info().Str("key", key).Msg("Filing cache entry invalidated")
	return nil
}
