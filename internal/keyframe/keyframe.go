// Package keyframe interpolates scalar values between (time, value) anchors.
package keyframe

import (
	"errors"
	"fmt"

	"github.com/ivlev/animatr/internal/motion"
)

var (
	// ErrEmptySequence is returned for a sequence without keyframes.
	ErrEmptySequence = errors.New("keyframe: empty sequence")
	// ErrUnordered is returned when keyframe times are not strictly increasing.
	ErrUnordered = errors.New("keyframe: times not strictly increasing")
)

// Keyframe is an anchor of a piecewise animation curve. Law names the motion
// law of the segment that starts at this keyframe; empty means linear.
type Keyframe struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
	Law   string  `yaml:"law,omitempty"`
}

// Sequence is an immutable, time-ordered list of keyframes. It is safe for
// concurrent use.
type Sequence struct {
	keyframes []Keyframe
	easings   []motion.Easing // easings[i] drives segment [i, i+1)
}

// New validates kfs and resolves the segment laws against laws. Keyframes
// must already be sorted by strictly increasing time; New does not sort.
func New(laws *motion.Registry, kfs ...Keyframe) (*Sequence, error) {
	if len(kfs) == 0 {
		return nil, ErrEmptySequence
	}
	for i := 1; i < len(kfs); i++ {
		if !(kfs[i].Time > kfs[i-1].Time) {
			return nil, fmt.Errorf("%w: keyframe %d at %g follows %g", ErrUnordered, i, kfs[i].Time, kfs[i-1].Time)
		}
	}

	s := &Sequence{
		keyframes: append([]Keyframe(nil), kfs...),
		easings:   make([]motion.Easing, len(kfs)-1),
	}
	for i := range s.easings {
		if laws == nil {
			s.easings[i] = motion.EaseLinear
			continue
		}
		s.easings[i] = laws.Easing(kfs[i].Law)
	}
	return s, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(laws *motion.Registry, kfs ...Keyframe) *Sequence {
	s, err := New(laws, kfs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of keyframes.
func (s *Sequence) Len() int {
	return len(s.keyframes)
}

// Keyframes returns a copy of the keyframes.
func (s *Sequence) Keyframes() []Keyframe {
	return append([]Keyframe(nil), s.keyframes...)
}

// Start returns the time of the first keyframe.
func (s *Sequence) Start() float64 {
	return s.keyframes[0].Time
}

// End returns the time of the last keyframe.
func (s *Sequence) End() float64 {
	return s.keyframes[len(s.keyframes)-1].Time
}

// At returns the interpolated value at time t. Before the first keyframe it
// holds the first value, from the last keyframe on it holds the last value.
func (s *Sequence) At(t float64) float64 {
	kfs := s.keyframes
	first, last := kfs[0], kfs[len(kfs)-1]

	if t < first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	for i := 0; i < len(kfs)-1; i++ {
		next := kfs[i+1]
		if next.Time > t {
			cur := kfs[i]
			tn := (t - cur.Time) / (next.Time - cur.Time)
			return cur.Value + s.easings[i](tn)*(next.Value-cur.Value)
		}
	}

	// Unreachable for a validated sequence.
	return last.Value
}

// Format returns the value at t passed through tr.
func (s *Sequence) Format(t float64, tr Transform) string {
	return tr(s.At(t))
}

// Evaluate returns the value of seq at t in its output form, post-processed
// by tr when tr is not nil. Without a transform the value is formatted with
// Fixed(-1), the shortest decimal that parses back to exactly At(t). Callers
// that need the number itself use At.
func Evaluate(seq *Sequence, t float64, tr Transform) string {
	if tr == nil {
		tr = Fixed(-1)
	}
	return seq.Format(t, tr)
}
