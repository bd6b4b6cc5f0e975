// Package fs checks build artifacts on the local filesystem.
package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verifier implements ports.Verifier using os.Stat.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyArtifacts returns the paths that do not exist as regular files, in input order.
// Any stat error other than not-exist is returned.
func (v *Verifier) VerifyArtifacts(paths []string) ([]string, error) {
	var missing []string
	for _, p := range paths {
		info, err := os.Stat(filepath.FromSlash(p))
		switch {
		case os.IsNotExist(err):
			missing = append(missing, p)
		case err != nil:
			return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", p)
		case info.IsDir():
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// Inspect reports existence, size and modification time for each path.
func (v *Verifier) Inspect(paths []string) ([]domain.ArtifactStatus, error) {
	statuses := make([]domain.ArtifactStatus, 0, len(paths))
	for _, p := range paths {
		status := domain.ArtifactStatus{Path: p}

		info, err := os.Stat(filepath.FromSlash(p))
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", p)
		default:
			status.Exists = !info.IsDir()
			status.Size = info.Size()
			status.ModTime = info.ModTime()
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}
