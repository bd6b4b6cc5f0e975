// Package cas stores build records, one JSON file per task.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.RecordStore using a file-per-task strategy.
type Store struct{}

// NewStore creates a new Store. Every operation takes the project root explicitly.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record for a given task name, or nil if none was stored.
func (s *Store) Get(root, taskName string) (*domain.BuildRecord, error) {
	filename := s.filename(root, taskName)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "task", taskName)
	}

	var record domain.BuildRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "task", taskName)
	}

	return &record, nil
}

// Put stores the record, replacing any previous record of the same task.
func (s *Store) Put(root string, record domain.BuildRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(root, record.Task)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "task", record.Task)
	}

	return nil
}

// Remove deletes the store directory below root. A missing directory is not an error.
func (s *Store) Remove(root string) error {
	if err := os.RemoveAll(domain.DefaultStorePath(root)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove record store"), "root", root)
	}
	return nil
}

func (s *Store) filename(root, taskName string) string {
	hash := sha256.Sum256([]byte(taskName))
	return filepath.Join(domain.DefaultStorePath(root), hex.EncodeToString(hash[:])+".json")
}
