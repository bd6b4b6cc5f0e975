package resolver

import (
	"slices"
	"strconv"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// IOSDeploymentTarget is the minimum iOS version the transport library is built for.
const IOSDeploymentTarget = "11.0"

// TransportInputs carries the paths the transport build reads from the TLS build.
type TransportInputs struct {
	SourceDir     string
	BuildDir      string
	TLSIncludeDir string
	TLSRootDir    string

	// TLSLibraries is the TLS emitter output: the ssl archive first, then crypto.
	TLSLibraries []string
}

type transportFragment = fragment[TransportInputs]

var androidABIs = map[domain.Arch]string{
	domain.ArchArm64:  "arm64-v8a",
	domain.ArchArm32:  "armeabi-v7a",
	domain.ArchX86_32: "x86",
	domain.ArchX86_64: "x86_64",
}

var appleArchs = map[domain.Arch]string{
	domain.ArchArm32:  "armv7",
	domain.ArchArm64:  "arm64",
	domain.ArchX86_32: "i386",
	domain.ArchX86_64: "x86_64",
}

var transportTable = map[Key]transportFragment{
	{domain.PlatformAndroid, domain.ArchArm64}:  androidTransport,
	{domain.PlatformAndroid, domain.ArchArm32}:  androidTransport,
	{domain.PlatformAndroid, domain.ArchX86_32}: androidTransport,
	{domain.PlatformAndroid, domain.ArchX86_64}: androidTransport,

	{domain.PlatformLinux, domain.ArchX86_32}: linuxTransport,
	{domain.PlatformLinux, domain.ArchX86_64}: linuxTransport,
	{domain.PlatformLinux, domain.ArchArm32}:  linuxTransport,
	{domain.PlatformLinux, domain.ArchArm64}:  linuxTransport,

	{domain.PlatformMacOS, domain.ArchX86_64}: macosTransport,
	{domain.PlatformMacOS, domain.ArchArm64}:  macosTransport,

	{domain.PlatformIOS, domain.ArchArm32}:  iosTransport,
	{domain.PlatformIOS, domain.ArchArm64}:  iosTransport,
	{domain.PlatformIOS, domain.ArchX86_32}: iosTransport,
	{domain.PlatformIOS, domain.ArchX86_64}: iosTransport,

	{domain.PlatformWindows, domain.ArchX86_32}: windowsTransport,
	{domain.PlatformWindows, domain.ArchX86_64}: windowsTransport,
	{domain.PlatformWindows, domain.ArchArm32}:  windowsTransport,
	{domain.PlatformWindows, domain.ArchArm64}:  windowsTransport,
}

func androidTransport(cfg domain.BuildConfiguration, _ TransportInputs) ([]string, error) {
	if cfg.AndroidNDKRoot == "" {
		return nil, unsupported(domain.TransportName, cfg, "ANDROID_NDK_ROOT is not set")
	}
	abi := androidABIs[cfg.Arch]
	return []string{
		"-DCMAKE_SYSTEM_NAME=Android",
		"-DCMAKE_SYSTEM_VERSION=" + strconv.Itoa(cfg.ResolvedAndroidAPILevel()),
		"-DCMAKE_ANDROID_ARCH_ABI=" + abi,
		"-DANDROID_ABI=" + abi,
		"-DCMAKE_TOOLCHAIN_FILE=" + cfg.AndroidNDKRoot + "/build/cmake/android.toolchain.cmake",
		"-DCMAKE_ANDROID_STL_TYPE=c++_static",
	}, nil
}

func linuxTransport(cfg domain.BuildConfiguration, _ TransportInputs) ([]string, error) {
	flag := "-m64"
	if cfg.Arch.Is32Bit() {
		flag = "-m32"
	}
	return []string{"-DCMAKE_C_FLAGS=" + flag, "-DCMAKE_CXX_FLAGS=" + flag}, nil
}

func macosTransport(cfg domain.BuildConfiguration, _ TransportInputs) ([]string, error) {
	var args []string
	if cfg.HasDeploymentTarget() {
		args = append(args, "-DCMAKE_OSX_DEPLOYMENT_TARGET="+cfg.MacOSDeploymentTarget)
	}
	return append(args, "-DCMAKE_OSX_ARCHITECTURES="+appleArchs[cfg.Arch]), nil
}

func iosTransport(cfg domain.BuildConfiguration, _ TransportInputs) ([]string, error) {
	args := []string{
		"-DCMAKE_SYSTEM_NAME=iOS",
		"-DCMAKE_OSX_DEPLOYMENT_TARGET=" + IOSDeploymentTarget,
		"-DCMAKE_OSX_ARCHITECTURES=" + appleArchs[cfg.Arch],
	}
	if cfg.IOSSimulator {
		args = append(args, "-DCMAKE_OSX_SYSROOT=iphonesimulator")
	}
	return args, nil
}

// windowsTransport always points cmake at the TLS build. MinGW also selects
// makefiles and the cross compilers for the pointer width.
func windowsTransport(cfg domain.BuildConfiguration, in TransportInputs) ([]string, error) {
	args := []string{"-DOPENSSL_ROOT_DIR=" + in.TLSRootDir}
	if cfg.UseMingw {
		prefix := mingwPrefix(cfg.Arch)
		args = append(args,
			"-G",
			"Unix Makefiles",
			"-DCMAKE_C_COMPILER="+prefix+"gcc",
			"-DCMAKE_CXX_COMPILER="+prefix+"g++",
			"-DCMAKE_SYSTEM_NAME=Windows",
		)
	}
	return args, nil
}

// SupportedTransport lists every (platform, arch) pair the transport resolver has a row for.
func SupportedTransport() []Key {
	return sortedKeys(transportTable)
}

// ResolveTransport returns the cmake generate arguments for cfg.
func ResolveTransport(cfg domain.BuildConfiguration, in TransportInputs) (domain.ArgumentList, error) {
	frag, ok := transportTable[KeyOf(cfg)]
	if !ok {
		return domain.ArgumentList{}, unsupported(domain.TransportName, cfg, "no transport generator settings")
	}

	if len(in.TLSLibraries) != 2 || slices.Contains(in.TLSLibraries, "") {
		return domain.ArgumentList{}, zerr.With(
			zerr.Wrap(domain.ErrUndeclaredInput, "transport needs the ssl and crypto archives"),
			"tls_libraries", in.TLSLibraries,
		)
	}

	tail, err := frag(cfg, in)
	if err != nil {
		return domain.ArgumentList{}, err
	}

	args := []string{
		"-B",
		in.BuildDir,
		"-DUSE_NICE=0",
		"-DNO_WEBSOCKET=1",
		"-DNO_EXAMPLES=1",
		"-DNO_TESTS=1",
		"-DOPENSSL_USE_STATIC_LIBS=1",
		"-DOPENSSL_INCLUDE_DIR=" + in.TLSIncludeDir,
		"-DOPENSSL_SSL_LIBRARY=" + in.TLSLibraries[0],
		"-DOPENSSL_CRYPTO_LIBRARY=" + in.TLSLibraries[1],
		"-DCMAKE_BUILD_TYPE=" + cfg.ConfigurationLabel(),
	}
	args = append(args, tail...)
	args = append(args, in.SourceDir)

	return domain.NewArgumentList(args...), nil
}

// TransportEnvironment returns the environment cmake needs. Only Android adds anything.
func TransportEnvironment(cfg domain.BuildConfiguration) domain.ToolEnv {
	if cfg.Platform != domain.PlatformAndroid {
		return domain.ToolEnv{}
	}
	return domain.ToolEnv{
		Vars: map[string]string{"ANDROID_NDK_ROOT": cfg.AndroidNDKRoot},
	}
}
