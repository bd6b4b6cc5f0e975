package linear

import "go.trai.ch/rtcdeps/internal/adapters/detector"

// NewDefault creates a Renderer on the process streams with colours suited to env.
func NewDefault(env detector.Environment) *Renderer {
	return NewRenderer(nil, nil, env.ColorProfile())
}
