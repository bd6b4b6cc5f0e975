package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Platform is the operating system a native dependency is built for.
type Platform string

const (
	// PlatformLinux targets desktop Linux.
	PlatformLinux Platform = "linux"
	// PlatformMacOS targets macOS.
	PlatformMacOS Platform = "macos"
	// PlatformWindows targets Windows, either with MSVC or a MinGW cross toolchain.
	PlatformWindows Platform = "windows"
	// PlatformAndroid targets Android through the NDK.
	PlatformAndroid Platform = "android"
	// PlatformIOS targets iOS devices and the iOS simulator.
	PlatformIOS Platform = "ios"
)

// Platforms lists every recognized platform in a stable order.
func Platforms() []Platform {
	return []Platform{PlatformLinux, PlatformMacOS, PlatformWindows, PlatformAndroid, PlatformIOS}
}

// ParsePlatform converts a configuration value into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms() {
		if p == known {
			return p, nil
		}
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidConfiguration, "unknown platform"), "platform", s)
}

// String returns the configuration spelling of the platform.
func (p Platform) String() string {
	return string(p)
}

// Arch is the CPU architecture a native dependency is built for.
type Arch string

const (
	// ArchX86_32 is 32-bit x86.
	ArchX86_32 Arch = "x86_32"
	// ArchX86_64 is 64-bit x86.
	ArchX86_64 Arch = "x86_64"
	// ArchArm32 is 32-bit ARM.
	ArchArm32 Arch = "arm32"
	// ArchArm64 is 64-bit ARM.
	ArchArm64 Arch = "arm64"
	// ArchUniversal is a fat binary covering several architectures.
	ArchUniversal Arch = "universal"
)

// Archs lists every recognized architecture in a stable order.
func Archs() []Arch {
	return []Arch{ArchX86_32, ArchX86_64, ArchArm32, ArchArm64, ArchUniversal}
}

// ParseArch converts a configuration value into an Arch.
func ParseArch(s string) (Arch, error) {
	a := Arch(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Archs() {
		if a == known {
			return a, nil
		}
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidConfiguration, "unknown architecture"), "arch", s)
}

// String returns the configuration spelling of the architecture.
func (a Arch) String() string {
	return string(a)
}

// Is32Bit reports whether the architecture has 32-bit pointers.
func (a Arch) Is32Bit() bool {
	return a == ArchX86_32 || a == ArchArm32
}
