package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

// filingRecord is the stored form of one composite key's tables. Tables is
// nil for combinations that could not be fetched; the recorded miss stops the
// pipeline from re-rendering a period with no published data.
type filingRecord struct {
	Key       string `badgerhold:"key"`
	Tables    models.TableSet
	FetchedAt time.Time
}

// FilingStorage implements the FilingStorage interface for Badger
type FilingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFilingStorage creates a new FilingStorage instance
func NewFilingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FilingStorage {
	return &FilingStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the table set stored under key
func (s *FilingStorage) Get(ctx context.Context, key string) (models.TableSet, error) {
	var record filingRecord
	err := s.db.Store().Get(key, &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filing entry: %w", err)
	}

	return record.Tables, nil
}

// Put stores the table set (possibly nil) under key. Entries are never
// refreshed by the pipeline; an overwrite only happens after an explicit
// Delete.
func (s *FilingStorage) Put(ctx context.Context, key string, tables models.TableSet) error {
	record := filingRecord{
		Key:       key,
		Tables:    tables,
		FetchedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(key, &record); err != nil {
		return fmt.Errorf("failed to store filing entry: %w", err)
	}

	s.logger.Debug().
		Str("key", key).
		Int("tables", len(tables)).
		Msg("Filing entry stored")

	return nil
}

// Delete removes the entry for key (manual invalidation for corrected filings)
func (s *FilingStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Store().Delete(key, &filingRecord{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete filing entry: %w", err)
	}

	s.logger.Info().Str("key", key).Msg("Filing cache entry invalidated")
	return nil
}

// Keys lists all stored composite keys
func (s *FilingStorage) Keys(ctx context.Context) ([]string, error) {
	var records []filingRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list filing entries: %w", err)
	}

	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.Key)
	}
	return keys, nil
}
