package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/animatr/internal/animator"
	"github.com/ivlev/animatr/internal/binding"
	"github.com/ivlev/animatr/internal/keyframe"
	"github.com/ivlev/animatr/internal/motion"
)

// Track transforms.
const (
	TransformHex   = "hex"
	TransformHue   = "hue"
	TransformFixed = "fixed"
)

// CompiledTrack is a track ready for evaluation.
type CompiledTrack struct {
	Name      string
	Sequence  *keyframe.Sequence
	Transform keyframe.Transform // nil when the track has none
}

// NamedRun is an animation run with its scene name.
type NamedRun struct {
	Name string
	Run  *animator.Run
}

// Stage is a compiled scene. Properties are bound at build time, so a Stage
// is good for a single playback.
type Stage struct {
	Tracks     []CompiledTrack
	Properties []*binding.Property
	Runs       []NamedRun
	Horizon    float64
}

// FinishFunc is told when a named run finishes.
type FinishFunc func(name string, e animator.FinishEvent)

// ResolveLaw returns the motion law an animation asks for.
func ResolveLaw(reg *motion.Registry, a Animation) motion.Law {
	var l motion.Law
	if a.Law == "ramp" {
		l = motion.Ramp(a.Blend)
	} else {
		l = reg.Resolve(a.Law)
	}
	if a.Reverse {
		l = motion.Reverse(l)
	}
	return l
}

// LookupLaw resolves a law name as typed on a command line. Besides the
// registry names it accepts "ramp" and "ramp:<blend>", the parameterised
// ramp that scenes select with law: ramp and blend.
func LookupLaw(reg *motion.Registry, name string) (motion.Law, error) {
	if name == "ramp" || strings.HasPrefix(name, "ramp:") {
		var blend float64
		if arg, ok := strings.CutPrefix(name, "ramp:"); ok {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || !(v >= 0 && v <= 0.5) {
				return nil, fmt.Errorf("ramp blend %q must be a number in [0, 0.5]", arg)
			}
			blend = v
		}
		return motion.Ramp(blend), nil
	}
	if l, ok := reg.Lookup(name); ok {
		return l, nil
	}
	return nil, fmt.Errorf("unknown law %q", name)
}

func transformOf(tr Track) keyframe.Transform {
	switch tr.Transform {
	case TransformHex:
		return keyframe.HexChannel(tr.Prefix)
	case TransformHue:
		return keyframe.Hue(tr.Chroma, tr.Luminance)
	case TransformFixed:
		return keyframe.Fixed(tr.Precision)
	}
	return nil
}

// Build compiles the scene against reg. The scene must be valid.
func (s *Scene) Build(reg *motion.Registry, onFinish FinishFunc) (*Stage, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	st := &Stage{Horizon: s.Duration}

	for _, tr := range s.Tracks {
		seq, err := keyframe.New(reg, tr.Keyframes...)
		if err != nil {
			return nil, err
		}
		st.Tracks = append(st.Tracks, CompiledTrack{
			Name:      tr.Name,
			Sequence:  seq,
			Transform: transformOf(tr),
		})
		st.Horizon = max(st.Horizon, seq.End())
	}

	props := make(map[string]*binding.Property, len(s.Properties))
	for _, p := range s.Properties {
		bp := &binding.Property{Name: p.Name, Value: p.Value}
		props[p.Name] = bp
		st.Properties = append(st.Properties, bp)
	}

	for _, a := range s.Animations {
		handlers := make([]animator.Handler, 0, len(a.Bindings))
		for _, b := range a.Bindings {
			p := props[b.Property]
			if b.To != nil {
				handlers = append(handlers, binding.To(p, *b.To))
			} else {
				handlers = append(handlers, binding.By(p, *b.Delta))
			}
		}

		opts := animator.Options{
			Law:       ResolveLaw(reg, a),
			Duration:  a.Duration,
			Delay:     a.Delay,
			EndDelay:  a.EndDelay,
			Direction: animator.Direction(a.Direction),
		}
		if onFinish != nil {
			name := a.Name
			opts.OnFinish = func(e animator.FinishEvent) { onFinish(name, e) }
		}

		run := animator.New(handlers, opts)
		st.Runs = append(st.Runs, NamedRun{Name: a.Name, Run: run})
		st.Horizon = max(st.Horizon, run.Total())
	}

	return st, nil
}
