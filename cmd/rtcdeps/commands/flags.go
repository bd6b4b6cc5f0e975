package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rtcdeps/internal/app"
	"go.trai.ch/rtcdeps/internal/core/domain"
)

const (
	flagConfig                = "config"
	flagPlatform              = "platform"
	flagArch                  = "arch"
	flagDebugSymbols          = "debug-symbols"
	flagUseMingw              = "use-mingw"
	flagIOSSimulator          = "ios-simulator"
	flagMacOSDeploymentTarget = "macos-deployment-target"
	flagAndroidAPILevel       = "android-api-level"
	flagJobs                  = "jobs"
	flagSuffix                = "suffix"
	flagJSONLogs              = "json-logs"
)

func registerConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringP(flagConfig, "c", "", "Path to rtcdeps.yaml (default: discovered from the working directory)")
	f.StringP(flagPlatform, "p", "", "Target platform: linux, macos, windows, ios or android")
	f.StringP(flagArch, "a", "", "Target architecture: x86_32, x86_64, arm32, arm64 or universal")
	f.Bool(flagDebugSymbols, false, "Build with debug symbols (RelWithDebInfo)")
	f.Bool(flagUseMingw, false, "Cross-compile Windows targets with MinGW")
	f.Bool(flagIOSSimulator, false, "Build for the iOS simulator")
	f.String(flagMacOSDeploymentTarget, "", "Minimum macOS version, or \"default\"")
	f.Int(flagAndroidAPILevel, 0, "Android API level (raised to the minimum if lower)")
	f.IntP(flagJobs, "j", 0, "Parallel compile jobs")
	f.String(flagSuffix, "", "Build directory suffix")
	f.Bool(flagJSONLogs, false, "Emit logs as JSON")
}

// configOptions maps the flags the user actually set onto overrides.
func configOptions(cmd *cobra.Command) (app.Options, error) {
	f := cmd.Flags()
	opts := app.Options{}
	opts.ConfigFile, _ = f.GetString(flagConfig)

	o := &opts.Overrides
	if f.Changed(flagPlatform) {
		raw, _ := f.GetString(flagPlatform)
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			return opts, err
		}
		o.Platform = &p
	}
	if f.Changed(flagArch) {
		raw, _ := f.GetString(flagArch)
		a, err := domain.ParseArch(raw)
		if err != nil {
			return opts, err
		}
		o.Arch = &a
	}
	o.DebugSymbols = changedBool(cmd, flagDebugSymbols)
	o.UseMingw = changedBool(cmd, flagUseMingw)
	o.IOSSimulator = changedBool(cmd, flagIOSSimulator)
	o.MacOSDeploymentTarget = changedString(cmd, flagMacOSDeploymentTarget)
	o.AndroidAPILevel = changedInt(cmd, flagAndroidAPILevel)
	o.Jobs = changedInt(cmd, flagJobs)
	o.Suffix = changedString(cmd, flagSuffix)

	return opts, nil
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
