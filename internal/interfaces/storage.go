package interfaces

// StorageManager provides access to the storage layer
type StorageManager interface {
	// FilingStorage returns the filing evidence store
	FilingStorage() FilingStorage

	// Close closes all storage connections
	Close() error
}
