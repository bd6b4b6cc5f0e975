package domain

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	// StateDirName is the name of the internal state directory under the project root.
	StateDirName = ".rtcdeps"

	// StoreDirName is the name of the build record directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "rtcdeps.yaml"

	// DepsDirName is the directory holding the vendored dependency sources.
	DepsDirName = "thirdparty"

	// TLSName is the directory and task name of the TLS library.
	TLSName = "openssl"

	// TransportName is the directory and task name of the WebRTC transport library.
	TransportName = "libdatachannel"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout holds every source, build and install directory of one configuration.
// All paths use forward slashes so declared artifacts compare byte for byte.
type Layout struct {
	DepsRoot            string
	BuildRoot           string
	TLSSourceDir        string
	TLSBuildDir         string
	TLSInstallDir       string
	TLSIncludeDir       string
	TransportSourceDir  string
	TransportBuildDir   string
	TransportIncludeDir string
}

// ResolveLayout derives the directory layout from the configuration.
// It performs no I/O and returns identical results for identical input.
func ResolveLayout(cfg BuildConfiguration) Layout {
	root := filepath.ToSlash(cfg.ProjectRoot)
	deps := path.Join(root, DepsDirName)
	buildRoot := path.Join(root, "bin", DepsDirName, buildDirName(cfg))

	tlsBuild := path.Join(buildRoot, TLSName)
	tlsInstall := path.Join(tlsBuild, "dest")
	transportSource := path.Join(deps, TransportName)

	return Layout{
		DepsRoot:            deps,
		BuildRoot:           buildRoot,
		TLSSourceDir:        path.Join(deps, TLSName),
		TLSBuildDir:         tlsBuild,
		TLSInstallDir:       tlsInstall,
		TLSIncludeDir:       path.Join(tlsInstall, "include"),
		TransportSourceDir:  transportSource,
		TransportBuildDir:   path.Join(buildRoot, TransportName),
		TransportIncludeDir: path.Join(transportSource, "include"),
	}
}

// buildDirName is "<suffix>.<label>.dir" with the suffix's leading dot dropped.
func buildDirName(cfg BuildConfiguration) string {
	suffix := strings.TrimPrefix(cfg.Suffix, ".")
	return suffix + "." + cfg.ConfigurationLabel() + ".dir"
}

// DefaultStorePath returns the build record directory below root.
func DefaultStorePath(root string) string {
	return filepath.Join(root, StateDirName, StoreDirName)
}
