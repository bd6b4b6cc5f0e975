// Package resolver maps a build configuration to the argument lists of the native build tools.
//
// Each tool has a table keyed by (platform, architecture). A missing key is an
// unsupported configuration, so the supported matrix can be enumerated without
// running anything.
package resolver

import (
	"cmp"
	"maps"
	"slices"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// Key identifies one row of a resolver table.
type Key struct {
	Platform domain.Platform
	Arch     domain.Arch
}

// KeyOf returns the table key of cfg.
func KeyOf(cfg domain.BuildConfiguration) Key {
	return Key{Platform: cfg.Platform, Arch: cfg.Arch}
}

func (k Key) String() string {
	return k.Platform.String() + "/" + k.Arch.String()
}

// fragment produces the platform-specific tail of an argument list.
// It may still reject option-dependent cases.
type fragment[In any] func(cfg domain.BuildConfiguration, in In) ([]string, error)

func sortedKeys[V any](table map[Key]V) []Key {
	return slices.SortedFunc(maps.Keys(table), func(a, b Key) int {
		if c := cmp.Compare(a.Platform, b.Platform); c != 0 {
			return c
		}
		return cmp.Compare(a.Arch, b.Arch)
	})
}

func unsupported(target string, cfg domain.BuildConfiguration, reason string) error {
	err := zerr.Wrap(domain.ErrUnsupportedConfiguration, reason)
	err = zerr.With(err, "target", target)
	err = zerr.With(err, "platform", cfg.Platform.String())
	return zerr.With(err, "arch", cfg.Arch.String())
}
