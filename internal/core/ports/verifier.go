package ports

import "go.trai.ch/rtcdeps/internal/core/domain"

// Verifier defines the interface for checking artifacts on disk.
//
//go:generate mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// VerifyArtifacts returns the paths that do not exist, in input order.
	VerifyArtifacts(paths []string) ([]string, error)

	// Inspect reports existence, size and modification time of every path.
	Inspect(paths []string) ([]domain.ArtifactStatus, error)
}
