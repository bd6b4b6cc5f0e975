// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rtcdeps/internal/adapters/cas"
	_ "go.trai.ch/rtcdeps/internal/adapters/config"
	_ "go.trai.ch/rtcdeps/internal/adapters/fs"
	_ "go.trai.ch/rtcdeps/internal/adapters/logger"
	_ "go.trai.ch/rtcdeps/internal/adapters/shell"
	_ "go.trai.ch/rtcdeps/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/rtcdeps/internal/app"
	_ "go.trai.ch/rtcdeps/internal/engine/scheduler"
)
