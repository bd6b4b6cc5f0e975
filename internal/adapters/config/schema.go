package config

// File represents the structure of the rtcdeps.yaml configuration file.
// Pointer fields distinguish an absent key from a zero value.
type File struct {
	// Root is the project root, relative to the file's directory when not absolute.
	Root                  string  `yaml:"root"`
	Platform              string  `yaml:"platform"`
	Arch                  string  `yaml:"arch"`
	DebugSymbols          *bool   `yaml:"debug_symbols"`
	UseMingw              *bool   `yaml:"use_mingw"`
	IOSSimulator          *bool   `yaml:"ios_simulator"`
	MacOSDeploymentTarget string  `yaml:"macos_deployment_target"`
	AndroidAPILevel       *int    `yaml:"android_api_level"`
	Suffix                *string `yaml:"suffix"`
	Jobs                  *int    `yaml:"jobs"`
	CC                    string  `yaml:"cc"`
	AndroidNDKRoot        string  `yaml:"android_ndk_root"`
}
