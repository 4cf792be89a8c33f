// Package scene loads animation scenes from YAML and compiles them into
// keyframe sequences and animation runs.
package scene

import (
	"github.com/ivlev/animatr/internal/keyframe"
)

// Scene describes properties, keyframe tracks and animation runs.
type Scene struct {
	Version    string      `yaml:"version"`
	Duration   float64     `yaml:"duration"` // Bake horizon, same unit as all times
	Properties []Property  `yaml:"properties,omitempty"`
	Tracks     []Track     `yaml:"tracks,omitempty"`
	Animations []Animation `yaml:"animations,omitempty"`
}

// Property is a named value animated by bindings.
type Property struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// Track is a keyframe sequence with an optional output transform.
type Track struct {
	Name      string              `yaml:"name"`
	Transform string              `yaml:"transform,omitempty"` // hex, hue, fixed or empty
	Prefix    string              `yaml:"prefix,omitempty"`    // hex: colour prefix
	Chroma    float64             `yaml:"chroma,omitempty"`    // hue
	Luminance float64             `yaml:"luminance,omitempty"` // hue
	Precision int                 `yaml:"precision,omitempty"` // fixed
	Keyframes []keyframe.Keyframe `yaml:"keyframes"`
}

// Animation is one animation run bound to properties.
type Animation struct {
	Name      string    `yaml:"name"`
	Law       string    `yaml:"law,omitempty"`
	Blend     float64   `yaml:"blend,omitempty"` // ramp blend fraction
	Reverse   bool      `yaml:"reverse,omitempty"`
	Duration  float64   `yaml:"duration"`
	Delay     float64   `yaml:"delay,omitempty"`
	EndDelay  float64   `yaml:"endDelay,omitempty"`
	Direction string    `yaml:"direction,omitempty"`
	Bindings  []Binding `yaml:"bindings"`
}

// Binding moves a property either to an absolute value or by a delta.
// Exactly one of To and Delta must be set.
type Binding struct {
	Property string   `yaml:"property"`
	To       *float64 `yaml:"to,omitempty"`
	Delta    *float64 `yaml:"delta,omitempty"`
}
