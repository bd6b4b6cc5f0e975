package ports

import "go.trai.ch/rtcdeps/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project containing cwd.
	// An explicit file path takes precedence over discovery; pass "" to discover.
	// The overrides are applied last.
	Load(cwd, file string, overrides domain.Overrides) (domain.BuildConfiguration, error)
}
