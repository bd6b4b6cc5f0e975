package domain

// Overrides holds command-line values that replace file and environment settings.
// A nil field leaves the loaded value untouched.
type Overrides struct {
	Platform              *Platform
	Arch                  *Arch
	DebugSymbols          *bool
	UseMingw              *bool
	IOSSimulator          *bool
	MacOSDeploymentTarget *string
	AndroidAPILevel       *int
	Jobs                  *int
	Suffix                *string
}

// Apply returns cfg with every set override applied.
func (o Overrides) Apply(cfg BuildConfiguration) BuildConfiguration {
	if o.Platform != nil {
		cfg.Platform = *o.Platform
	}
	if o.Arch != nil {
		cfg.Arch = *o.Arch
	}
	if o.DebugSymbols != nil {
		cfg.DebugSymbols = *o.DebugSymbols
	}
	if o.UseMingw != nil {
		cfg.UseMingw = *o.UseMingw
	}
	if o.IOSSimulator != nil {
		cfg.IOSSimulator = *o.IOSSimulator
	}
	if o.MacOSDeploymentTarget != nil {
		cfg.MacOSDeploymentTarget = *o.MacOSDeploymentTarget
	}
	if o.AndroidAPILevel != nil {
		cfg.AndroidAPILevel = *o.AndroidAPILevel
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
	if o.Suffix != nil {
		cfg.Suffix = *o.Suffix
	}
	return cfg
}
