package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db            *BadgerDB
	filingStorage interfaces.FilingStorage
	logger        arbor.ILogger
}

// NewStorageManager creates the storage layer backed by Badger
func NewStorageManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:            db,
		filingStorage: NewFilingStorage(db, logger),
		logger:        logger,
	}, nil
}

// FilingStorage returns the filing evidence store
func (m *Manager) FilingStorage() interfaces.FilingStorage {
	return m.filingStorage
}

// Close closes all storage connections
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}
