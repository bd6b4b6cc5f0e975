package resolver

import (
	"path/filepath"
	"strconv"

	"go.trai.ch/rtcdeps/internal/core/domain"
)

type tlsFragment = fragment[struct{}]

var tlsTable = map[Key]tlsFragment{
	{domain.PlatformLinux, domain.ArchX86_32}: linuxTLS,
	{domain.PlatformLinux, domain.ArchX86_64}: linuxTLS,
	{domain.PlatformLinux, domain.ArchArm32}:  linuxTLS,
	{domain.PlatformLinux, domain.ArchArm64}:  linuxTLS,

	{domain.PlatformAndroid, domain.ArchArm64}:  androidTLS("android-arm64"),
	{domain.PlatformAndroid, domain.ArchArm32}:  androidTLS("android-arm"),
	{domain.PlatformAndroid, domain.ArchX86_32}: androidTLS("android-x86"),
	{domain.PlatformAndroid, domain.ArchX86_64}: androidTLS("android-x86_64"),

	{domain.PlatformMacOS, domain.ArchX86_64}: fixed("darwin64-x86_64"),
	{domain.PlatformMacOS, domain.ArchArm64}:  fixed("darwin64-arm64"),

	{domain.PlatformIOS, domain.ArchArm32}:  iosTLS("ios-xcrun"),
	{domain.PlatformIOS, domain.ArchArm64}:  iosTLS("ios64-xcrun"),
	{domain.PlatformIOS, domain.ArchX86_32}: iosTLS(""),
	{domain.PlatformIOS, domain.ArchX86_64}: iosTLS(""),

	{domain.PlatformWindows, domain.ArchX86_32}: windowsTLS,
	{domain.PlatformWindows, domain.ArchX86_64}: windowsTLS,
	{domain.PlatformWindows, domain.ArchArm32}:  windowsTLS,
	{domain.PlatformWindows, domain.ArchArm64}:  windowsTLS,
}

func fixed(args ...string) tlsFragment {
	return func(domain.BuildConfiguration, struct{}) ([]string, error) {
		return args, nil
	}
}

// linuxTLS picks the Configure target by pointer width only.
func linuxTLS(cfg domain.BuildConfiguration, _ struct{}) ([]string, error) {
	if cfg.Arch.Is32Bit() {
		return []string{"linux-x86"}, nil
	}
	return []string{"linux-x86_64"}, nil
}

// androidTLS does not need the NDK root to resolve; Configure reads it from the environment.
func androidTLS(target string) tlsFragment {
	return func(cfg domain.BuildConfiguration, _ struct{}) ([]string, error) {
		return []string{target, "-D__ANDROID_API__=" + strconv.Itoa(cfg.ResolvedAndroidAPILevel())}, nil
	}
}

// iosTLS selects the simulator target for every architecture and device only for ARM.
func iosTLS(device string) tlsFragment {
	return func(cfg domain.BuildConfiguration, _ struct{}) ([]string, error) {
		if cfg.IOSSimulator {
			return []string{"iossimulator-xcrun"}, nil
		}
		if device == "" {
			return nil, unsupported(domain.TLSName, cfg, "no iOS device target for architecture")
		}
		return []string{device}, nil
	}
}

func windowsTLS(cfg domain.BuildConfiguration, _ struct{}) ([]string, error) {
	switch {
	case cfg.UseMingw && cfg.Arch.Is32Bit():
		return []string{"mingw", "--cross-compile-prefix=" + mingwPrefix(cfg.Arch)}, nil
	case cfg.UseMingw:
		return []string{"mingw64", "--cross-compile-prefix=" + mingwPrefix(cfg.Arch)}, nil
	case cfg.Arch.Is32Bit():
		return []string{"VC-WIN32"}, nil
	default:
		return []string{"VC-WIN64A"}, nil
	}
}

// mingwPrefix names the cross toolchain for the pointer width of a.
func mingwPrefix(a domain.Arch) string {
	if a.Is32Bit() {
		return "i686-w64-mingw32-"
	}
	return "x86_64-w64-mingw32-"
}

// SupportedTLS lists every (platform, arch) pair the TLS resolver has a row for.
func SupportedTLS() []Key {
	return sortedKeys(tlsTable)
}

// ResolveTLS returns the Configure arguments for cfg.
func ResolveTLS(cfg domain.BuildConfiguration, installDir string) (domain.ArgumentList, error) {
	frag, ok := tlsTable[KeyOf(cfg)]
	if !ok {
		return domain.ArgumentList{}, unsupported(domain.TLSName, cfg, "no TLS configure target")
	}

	tail, err := frag(cfg, struct{}{})
	if err != nil {
		return domain.ArgumentList{}, err
	}

	args := []string{
		"no-ssl3",
		"no-weak-ssl-ciphers",
		"no-legacy",
		"--prefix=" + installDir,
		"--openssldir=" + installDir,
	}
	if cfg.DebugSymbols {
		args = append(args, "-d")
	}
	// Windows applications do not link against a static-only build.
	if cfg.Platform != domain.PlatformWindows {
		args = append(args, "no-shared")
	}

	return domain.NewArgumentList(append(args, tail...)...), nil
}

// TLSEnvironment returns the environment Configure needs. Only Android adds anything.
func TLSEnvironment(cfg domain.BuildConfiguration) domain.ToolEnv {
	if cfg.Platform != domain.PlatformAndroid {
		return domain.ToolEnv{}
	}
	env := domain.ToolEnv{
		Vars: map[string]string{"ANDROID_NDK_ROOT": cfg.AndroidNDKRoot},
	}
	if cfg.CC != "" {
		env.PathPrepend = []string{filepath.Dir(cfg.CC)}
	}
	return env
}
