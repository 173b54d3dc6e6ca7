package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
	"github.com/ternarybob/moneta/internal/models"
)

func newTestStorage(t *testing.T) interfaces.FilingStorage {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewFilingStorage(db, logger)
}

func TestFilingStorageRoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	tables := models.TableSet{
		{
			TableIndex: 0,
			Preview:    "項目  金額\n現金  100",
			Data:       []map[string]string{{"項目": "現金", "金額": "100"}},
		},
	}

	key := models.FilingKey("2330", 2024, 1)
	require.NoError(t, storage.Put(ctx, key, tables))

	got, err := storage.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tables[0].Data, got[0].Data)
	assert.Equal(t, tables[0].Preview, got[0].Preview)
}

func TestFilingStorageGetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "2330_2024Q1")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestFilingStorageRecordedMiss(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// A nil table set is a recorded miss, distinct from a missing key
	key := models.FilingKey("9999", 2024, 3)
	require.NoError(t, storage.Put(ctx, key, nil))

	got, err := storage.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFilingStorageDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	key := models.FilingKey("2330", 2024, 1)
	require.NoError(t, storage.Put(ctx, key, models.TableSet{{TableIndex: 0}}))
	require.NoError(t, storage.Delete(ctx, key))

	_, err := storage.Get(ctx, key)
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestFilingStorageDeleteMissing(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.Delete(context.Background(), "absent_2024Q1")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestFilingStorageKeys(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "2330_2024Q1", nil))
	require.NoError(t, storage.Put(ctx, "2603_2023Q4", nil))

	keys, err := storage.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2330_2024Q1", "2603_2023Q4"}, keys)
}

func TestFilingStorageUpsert(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	key := models.FilingKey("2330", 2024, 1)
	require.NoError(t, storage.Put(ctx, key, nil))
	require.NoError(t, storage.Put(ctx, key, models.TableSet{{TableIndex: 0}}))

	got, err := storage.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
