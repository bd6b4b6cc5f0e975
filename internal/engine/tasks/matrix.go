package tasks

import "go.trai.ch/rtcdeps/internal/core/domain"

// MatrixEntry is the resolution outcome of one (platform, arch, toolchain) tuple.
type MatrixEntry struct {
	Platform     domain.Platform
	Arch         domain.Arch
	UseMingw     bool
	IOSSimulator bool
	Err          error
}

// Supported reports whether both tasks resolved.
func (e MatrixEntry) Supported() bool {
	return e.Err == nil
}

// Matrix plans every platform and architecture on top of base. Toolchain options
// are only varied where they change the outcome: MinGW on windows, the simulator on ios.
func Matrix(base domain.BuildConfiguration) []MatrixEntry {
	var entries []MatrixEntry
	for _, p := range domain.Platforms() {
		for _, a := range domain.Archs() {
			for _, mingw := range variants(p == domain.PlatformWindows) {
				for _, sim := range variants(p == domain.PlatformIOS) {
					cfg := base
					cfg.Platform = p
					cfg.Arch = a
					cfg.UseMingw = mingw
					cfg.IOSSimulator = sim

					_, err := NewPlan(cfg)
					entries = append(entries, MatrixEntry{
						Platform:     p,
						Arch:         a,
						UseMingw:     mingw,
						IOSSimulator: sim,
						Err:          err,
					})
				}
			}
		}
	}
	return entries
}

func variants(vary bool) []bool {
	if vary {
		return []bool{false, true}
	}
	return []bool{false}
}
