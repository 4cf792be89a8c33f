package scene

import (
	"errors"
	"fmt"

	"github.com/ivlev/animatr/internal/animator"
	"github.com/ivlev/animatr/internal/keyframe"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid scene")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks names, references and keyframe ordering.
func (s *Scene) Validate() error {
	if s.Duration < 0 {
		return invalid("negative duration %g", s.Duration)
	}

	props := make(map[string]bool, len(s.Properties))
	for i, p := range s.Properties {
		if p.Name == "" {
			return invalid("property %d has no name", i)
		}
		if props[p.Name] {
			return invalid("duplicate property %q", p.Name)
		}
		props[p.Name] = true
	}

	tracks := make(map[string]bool, len(s.Tracks))
	for i, tr := range s.Tracks {
		if tr.Name == "" {
			return invalid("track %d has no name", i)
		}
		if tracks[tr.Name] {
			return invalid("duplicate track %q", tr.Name)
		}
		tracks[tr.Name] = true
		if _, err := keyframe.New(nil, tr.Keyframes...); err != nil {
			return fmt.Errorf("%w: track %q: %w", ErrInvalid, tr.Name, err)
		}
		switch tr.Transform {
		case "", TransformHex, TransformHue, TransformFixed:
		default:
			return invalid("track %q: unknown transform %q", tr.Name, tr.Transform)
		}
	}

	anims := make(map[string]bool, len(s.Animations))
	for i, a := range s.Animations {
		if a.Name == "" {
			return invalid("animation %d has no name", i)
		}
		if anims[a.Name] {
			return invalid("duplicate animation %q", a.Name)
		}
		anims[a.Name] = true
		switch animator.Direction(a.Direction) {
		case "", animator.Forward, animator.Backward:
		default:
			return invalid("animation %q: unknown direction %q", a.Name, a.Direction)
		}
		if a.Blend < 0 || a.Blend > 0.5 {
			return invalid("animation %q: blend %g outside [0, 0.5]", a.Name, a.Blend)
		}
		for _, b := range a.Bindings {
			if !props[b.Property] {
				return invalid("animation %q: unknown property %q", a.Name, b.Property)
			}
			if (b.To == nil) == (b.Delta == nil) {
				return invalid("animation %q: property %q needs exactly one of to and delta", a.Name, b.Property)
			}
		}
	}

	return nil
}
