package resolver_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/engine/resolver"
	"go.trai.ch/zerr"
)

func testConfig(p domain.Platform, a domain.Arch) domain.BuildConfiguration {
	return domain.BuildConfiguration{
		Platform:              p,
		Arch:                  a,
		MacOSDeploymentTarget: domain.DefaultDeploymentTarget,
		AndroidAPILevel:       21,
		Jobs:                  4,
		Suffix:                ".test",
		ProjectRoot:           "/work",
		AndroidNDKRoot:        "/opt/ndk",
		CC:                    "/opt/ndk/toolchains/llvm/prebuilt/linux-x86_64/bin/clang",
	}
}

func transportInputs(cfg domain.BuildConfiguration) resolver.TransportInputs {
	l := domain.ResolveLayout(cfg)
	return resolver.TransportInputs{
		SourceDir:     l.TransportSourceDir,
		BuildDir:      l.TransportBuildDir,
		TLSIncludeDir: l.TLSIncludeDir,
		TLSRootDir:    l.TLSBuildDir,
		TLSLibraries:  []string{l.TLSBuildDir + "/libssl.a", l.TLSBuildDir + "/libcrypto.a"},
	}
}

func render(args domain.ArgumentList) []byte {
	return []byte(strings.Join(args.Args(), "\n") + "\n")
}

func TestResolve_Golden(t *testing.T) {
	tests := []struct {
		name   string
		config func() domain.BuildConfiguration
	}{
		{
			name: "linux_x86_64",
			config: func() domain.BuildConfiguration {
				return testConfig(domain.PlatformLinux, domain.ArchX86_64)
			},
		},
		{
			name: "android_arm64_debug",
			config: func() domain.BuildConfiguration {
				cfg := testConfig(domain.PlatformAndroid, domain.ArchArm64)
				cfg.DebugSymbols = true
				return cfg
			},
		},
		{
			name: "linux_arm64",
			config: func() domain.BuildConfiguration {
				return testConfig(domain.PlatformLinux, domain.ArchArm64)
			},
		},
		{
			name: "windows_arm32_mingw",
			config: func() domain.BuildConfiguration {
				cfg := testConfig(domain.PlatformWindows, domain.ArchArm32)
				cfg.UseMingw = true
				return cfg
			},
		},
		{
			name: "windows_x86_32_mingw",
			config: func() domain.BuildConfiguration {
				cfg := testConfig(domain.PlatformWindows, domain.ArchX86_32)
				cfg.UseMingw = true
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config()
			l := domain.ResolveLayout(cfg)

			tls, err := resolver.ResolveTLS(cfg, l.TLSInstallDir)
			require.NoError(t, err)
			transport, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, "tls_"+tt.name, render(tls))
			g.Assert(t, "transport_"+tt.name, render(transport))
		})
	}
}

func TestResolveTransport_Golden(t *testing.T) {
	sim := testConfig(domain.PlatformIOS, domain.ArchArm64)
	sim.IOSSimulator = true

	mac := testConfig(domain.PlatformMacOS, domain.ArchArm64)
	mac.MacOSDeploymentTarget = "10.15"

	for name, cfg := range map[string]domain.BuildConfiguration{
		"transport_ios_arm64_simulator": sim,
		"transport_macos_arm64_target":  mac,
	} {
		t.Run(name, func(t *testing.T) {
			args, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, name, render(args))
		})
	}
}

func TestScenario_LinuxRelease(t *testing.T) {
	cfg := testConfig(domain.PlatformLinux, domain.ArchX86_64)

	tls, err := resolver.ResolveTLS(cfg, domain.ResolveLayout(cfg).TLSInstallDir)
	require.NoError(t, err)
	assert.Equal(t, "linux-x86_64", tls.Last())
	assert.True(t, tls.Contains("no-shared"))
	assert.False(t, tls.Contains("-d"))

	transport, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
	require.NoError(t, err)
	buildType, ok := transport.Value("-DCMAKE_BUILD_TYPE")
	require.True(t, ok)
	assert.Equal(t, "Release", buildType)
	assert.Equal(t, "/work/thirdparty/libdatachannel", transport.Last())
}

func TestScenario_AndroidAPIFloor(t *testing.T) {
	cfg := testConfig(domain.PlatformAndroid, domain.ArchArm64)
	cfg.AndroidAPILevel = 21

	tls, err := resolver.ResolveTLS(cfg, "/install")
	require.NoError(t, err)
	assert.True(t, tls.Contains("-D__ANDROID_API__=28"))

	transport, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
	require.NoError(t, err)

	version, _ := transport.Value("-DCMAKE_SYSTEM_VERSION")
	assert.Equal(t, "28", version)
	abi, _ := transport.Value("-DCMAKE_ANDROID_ARCH_ABI")
	assert.Equal(t, "arm64-v8a", abi)
	abi, _ = transport.Value("-DANDROID_ABI")
	assert.Equal(t, "arm64-v8a", abi)

	cfg.AndroidAPILevel = 33
	tls, err = resolver.ResolveTLS(cfg, "/install")
	require.NoError(t, err)
	assert.True(t, tls.Contains("-D__ANDROID_API__=33"))
}

func TestScenario_IOSUniversal(t *testing.T) {
	cfg := testConfig(domain.PlatformIOS, domain.ArchUniversal)

	for _, sim := range []bool{false, true} {
		cfg.IOSSimulator = sim

		_, err := resolver.ResolveTLS(cfg, "/install")
		require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)

		_, err = resolver.ResolveTransport(cfg, transportInputs(cfg))
		require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)
	}
}

func TestUnsupported_Metadata(t *testing.T) {
	cfg := testConfig(domain.PlatformMacOS, domain.ArchArm32)

	_, err := resolver.ResolveTLS(cfg, "/install")
	require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, "openssl", meta["target"])
	assert.Equal(t, "macos", meta["platform"])
	assert.Equal(t, "arm32", meta["arch"])
}

func TestUnsupported_OptionDependent(t *testing.T) {
	device := testConfig(domain.PlatformIOS, domain.ArchX86_64)
	_, err := resolver.ResolveTLS(device, "/install")
	require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)

	device.IOSSimulator = true
	args, err := resolver.ResolveTLS(device, "/install")
	require.NoError(t, err)
	assert.Equal(t, "iossimulator-xcrun", args.Last())

	noNDK := testConfig(domain.PlatformAndroid, domain.ArchX86_64)
	noNDK.AndroidNDKRoot = ""
	args, err = resolver.ResolveTLS(noNDK, "/install")
	require.NoError(t, err)
	assert.True(t, args.Contains("android-x86_64"))
	_, err = resolver.ResolveTransport(noNDK, transportInputs(noNDK))
	require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)
}

func TestResolve_PointerWidthSelectsFragment(t *testing.T) {
	tests := []struct {
		platform  domain.Platform
		arch      domain.Arch
		mingw     bool
		tlsTarget string
		marker    string
	}{
		{domain.PlatformLinux, domain.ArchArm32, false, "linux-x86", "-DCMAKE_C_FLAGS=-m32"},
		{domain.PlatformLinux, domain.ArchArm64, false, "linux-x86_64", "-DCMAKE_C_FLAGS=-m64"},
		{domain.PlatformWindows, domain.ArchArm32, false, "VC-WIN32", "-DOPENSSL_ROOT_DIR=/work/bin/thirdparty/test.Release.dir/openssl"},
		{domain.PlatformWindows, domain.ArchArm64, false, "VC-WIN64A", "-DOPENSSL_ROOT_DIR=/work/bin/thirdparty/test.Release.dir/openssl"},
		{domain.PlatformWindows, domain.ArchArm32, true, "mingw", "-DCMAKE_C_COMPILER=i686-w64-mingw32-gcc"},
		{domain.PlatformWindows, domain.ArchArm64, true, "mingw64", "-DCMAKE_C_COMPILER=x86_64-w64-mingw32-gcc"},
	}

	for _, tt := range tests {
		cfg := testConfig(tt.platform, tt.arch)
		cfg.UseMingw = tt.mingw
		name := resolver.KeyOf(cfg).String()

		tls, err := resolver.ResolveTLS(cfg, "/install")
		require.NoError(t, err, name)
		assert.True(t, tls.Contains(tt.tlsTarget), name)

		transport, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
		require.NoError(t, err, name)
		assert.True(t, transport.Contains(tt.marker), name)
	}

	for _, p := range []domain.Platform{domain.PlatformLinux, domain.PlatformWindows} {
		cfg := testConfig(p, domain.ArchUniversal)
		_, err := resolver.ResolveTLS(cfg, "/install")
		require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)
		_, err = resolver.ResolveTransport(cfg, transportInputs(cfg))
		require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration)
	}
}

func TestUnsupported_EveryMissingKey(t *testing.T) {
	tlsKeys := make(map[resolver.Key]bool)
	for _, k := range resolver.SupportedTLS() {
		tlsKeys[k] = true
	}
	transportKeys := make(map[resolver.Key]bool)
	for _, k := range resolver.SupportedTransport() {
		transportKeys[k] = true
	}

	for _, p := range domain.Platforms() {
		for _, a := range domain.Archs() {
			key := resolver.Key{Platform: p, Arch: a}
			cfg := testConfig(p, a)
			cfg.IOSSimulator = true

			_, err := resolver.ResolveTLS(cfg, "/install")
			if tlsKeys[key] {
				require.NoError(t, err, key.String())
			} else {
				require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration, key.String())
			}

			_, err = resolver.ResolveTransport(cfg, transportInputs(cfg))
			if transportKeys[key] {
				require.NoError(t, err, key.String())
			} else {
				require.ErrorIs(t, err, domain.ErrUnsupportedConfiguration, key.String())
			}
		}
	}

	assert.Equal(t, resolver.SupportedTLS(), resolver.SupportedTransport())
	assert.NotContains(t, tlsKeys, resolver.Key{Platform: domain.PlatformIOS, Arch: domain.ArchUniversal})
	assert.NotContains(t, tlsKeys, resolver.Key{Platform: domain.PlatformMacOS, Arch: domain.ArchArm32})
}

func TestResolve_DeterministicAcrossMatrix(t *testing.T) {
	for _, key := range resolver.SupportedTLS() {
		for _, mingw := range []bool{false, true} {
			for _, sim := range []bool{false, true} {
				for _, debug := range []bool{false, true} {
					cfg := testConfig(key.Platform, key.Arch)
					cfg.UseMingw = mingw
					cfg.IOSSimulator = sim
					cfg.DebugSymbols = debug

					first, firstErr := resolver.ResolveTLS(cfg, "/install")
					second, secondErr := resolver.ResolveTLS(cfg, "/install")
					assert.Equal(t, firstErr == nil, secondErr == nil)
					assert.Equal(t, first.String(), second.String())

					in := transportInputs(cfg)
					first, firstErr = resolver.ResolveTransport(cfg, in)
					second, secondErr = resolver.ResolveTransport(cfg, in)
					assert.Equal(t, firstErr == nil, secondErr == nil)
					assert.Equal(t, first.String(), second.String())
				}
			}
		}
	}
}

func TestResolveTransport_ContainsTLSLibrariesVerbatim(t *testing.T) {
	for _, key := range resolver.SupportedTransport() {
		cfg := testConfig(key.Platform, key.Arch)
		in := transportInputs(cfg)

		args, err := resolver.ResolveTransport(cfg, in)
		require.NoError(t, err, key.String())

		joined := args.String()
		for _, lib := range in.TLSLibraries {
			assert.Contains(t, joined, lib, key.String())
		}
		assert.Equal(t, in.SourceDir, args.Last(), key.String())
	}
}

func TestResolveTransport_RejectsForeignLibraries(t *testing.T) {
	cfg := testConfig(domain.PlatformLinux, domain.ArchX86_64)
	in := transportInputs(cfg)
	in.TLSLibraries = in.TLSLibraries[:1]

	_, err := resolver.ResolveTransport(cfg, in)
	require.ErrorIs(t, err, domain.ErrUndeclaredInput)
}

// The 32-bit MinGW branch must carry the same generator and compiler flags as the 64-bit one.
func TestResolveTransport_MingwBranchesMatch(t *testing.T) {
	fragment := func(a domain.Arch) []string {
		cfg := testConfig(domain.PlatformWindows, a)
		cfg.UseMingw = true
		args, err := resolver.ResolveTransport(cfg, transportInputs(cfg))
		require.NoError(t, err)
		all := args.Args()
		start := args.Index("-DCMAKE_BUILD_TYPE=Release") + 1
		return all[start : len(all)-1]
	}

	x86 := fragment(domain.ArchX86_32)
	x64 := fragment(domain.ArchX86_64)
	require.Len(t, x86, len(x64))

	normalize := func(args []string) []string {
		out := make([]string, len(args))
		for i, a := range args {
			a = strings.ReplaceAll(a, "i686-w64-mingw32-", "<prefix>")
			out[i] = strings.ReplaceAll(a, "x86_64-w64-mingw32-", "<prefix>")
		}
		return out
	}
	assert.Equal(t, normalize(x64), normalize(x86))
	assert.Contains(t, x86, "-DCMAKE_C_COMPILER=i686-w64-mingw32-gcc")

	native := testConfig(domain.PlatformWindows, domain.ArchX86_32)
	args, err := resolver.ResolveTransport(native, transportInputs(native))
	require.NoError(t, err)
	assert.False(t, args.Contains("-G"))
	root, _ := args.Value("-DOPENSSL_ROOT_DIR")
	assert.Equal(t, domain.ResolveLayout(native).TLSBuildDir, root)
}

func TestEnvironment(t *testing.T) {
	android := testConfig(domain.PlatformAndroid, domain.ArchArm64)

	env := resolver.TLSEnvironment(android)
	assert.Equal(t, "/opt/ndk", env.Vars["ANDROID_NDK_ROOT"])
	assert.Equal(t, []string{"/opt/ndk/toolchains/llvm/prebuilt/linux-x86_64/bin"}, env.PathPrepend)

	env = resolver.TransportEnvironment(android)
	assert.Equal(t, "/opt/ndk", env.Vars["ANDROID_NDK_ROOT"])
	assert.Empty(t, env.PathPrepend)

	linux := testConfig(domain.PlatformLinux, domain.ArchX86_64)
	assert.True(t, resolver.TLSEnvironment(linux).IsEmpty())
	assert.True(t, resolver.TransportEnvironment(linux).IsEmpty())
}
