package domain

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// BuildRecord is written after a task succeeds. It is informational only.
type BuildRecord struct {
	Task        string    `json:"task"`
	Fingerprint string    `json:"fingerprint"`
	Artifacts   []string  `json:"artifacts"`
	Timestamp   time.Time `json:"timestamp"`
}

// Fingerprint hashes the steps of a task so a record can be compared with the current plan.
func Fingerprint(steps []Step) string {
	d := xxhash.New()
	for _, s := range steps {
		_, _ = d.WriteString(s.Name)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(s.Dir)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(s.CommandLine())
		_, _ = d.WriteString("\x00")
		for _, p := range s.PathPrepend {
			_, _ = d.WriteString(p)
			_, _ = d.WriteString("\x00")
		}
		for _, k := range slices.Sorted(maps.Keys(s.Env)) {
			_, _ = d.WriteString(k + "=" + s.Env[k])
			_, _ = d.WriteString("\x00")
		}
		_, _ = d.WriteString("\x01")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// ArtifactStatus describes one declared artifact as found on disk.
type ArtifactStatus struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
}
