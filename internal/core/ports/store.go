package ports

import "go.trai.ch/rtcdeps/internal/core/domain"

// RecordStore defines the interface for storing and retrieving build records.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RecordStore interface {
	// Get retrieves the record for a given task name.
	// Returns nil, nil if not found.
	Get(root, taskName string) (*domain.BuildRecord, error)

	// Put stores the record.
	Put(root string, record domain.BuildRecord) error

	// Remove deletes every record below root.
	Remove(root string) error
}
