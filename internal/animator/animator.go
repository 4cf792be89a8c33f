// Package animator advances a single animation run tick by tick.
//
// A Run is driven by an external scheduler that calls Step with a
// non-decreasing timestamp until Step returns false. Each tick maps the
// timestamp onto the run's motion law and hands position, velocity and
// acceleration to the run's handlers.
package animator

import (
	"github.com/ivlev/animatr/internal/motion"
)

// Handler receives the motion law outputs of one tick.
type Handler func(pos, vel, acc float64)

// Direction is a descriptive tag carried by a run. It does not alter timing.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// State is the lifecycle phase of a run.
type State int

const (
	Pending State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// FinishEvent is passed to Options.OnFinish.
type FinishEvent struct {
	CurrentTime float64 // time since the run's delay elapsed
}

// Options configures a run. Negative times are treated as zero and a nil Law
// as motion.Linear.
type Options struct {
	Law       motion.Law
	Duration  float64
	Delay     float64
	EndDelay  float64
	Direction Direction
	OnFinish  func(FinishEvent)
}

// Run is the state of one animation playback.
type Run struct {
	law       motion.Law
	duration  float64
	delay     float64
	endDelay  float64
	direction Direction
	onFinish  func(FinishEvent)
	handlers  []Handler

	state State
}

// New creates a run dispatching to handlers.
func New(handlers []Handler, opts Options) *Run {
	r := &Run{
		law:       opts.Law,
		duration:  max(0, opts.Duration),
		delay:     max(0, opts.Delay),
		endDelay:  max(0, opts.EndDelay),
		direction: opts.Direction,
		onFinish:  opts.OnFinish,
		handlers:  append([]Handler(nil), handlers...),
		state:     Pending,
	}
	if r.law == nil {
		r.law = motion.Linear
	}
	if r.direction == "" {
		r.direction = Forward
	}
	return r
}

// Step advances the run to absoluteTime, measured from the moment the run
// was started, and reports whether the scheduler should keep calling.
func (r *Run) Step(absoluteTime float64) bool {
	t := absoluteTime - r.delay
	tfinish := r.duration + r.endDelay

	// A zero duration completes instantly.
	q, dt := 1.0, 1.0
	if r.duration > 0 {
		q = t / r.duration
		dt = r.duration * 1e-3
	}

	if t >= 0 && t <= r.duration {
		pos := r.law.F(q)
		vel := r.law.Fd(q) / dt
		acc := r.law.Fdd(q) / dt / dt
		r.state = Active
		for _, h := range r.handlers {
			h(pos, vel, acc)
		}
	} else if t >= tfinish && r.state != Finished {
		r.state = Finished
		if r.onFinish != nil {
			r.onFinish(FinishEvent{CurrentTime: t})
		}
	}

	return t <= tfinish
}

// State returns the phase reached by the last Step.
func (r *Run) State() State {
	return r.state
}

// Duration returns the active time span of the run.
func (r *Run) Duration() float64 { return r.duration }

// Delay returns the time before the run becomes active.
func (r *Run) Delay() float64 { return r.delay }

// EndDelay returns the hold time after the active span.
func (r *Run) EndDelay() float64 { return r.endDelay }

// Direction returns the run's direction tag.
func (r *Run) Direction() Direction { return r.direction }

// Total returns the absolute time at which Step starts returning false.
func (r *Run) Total() float64 {
	return r.delay + r.duration + r.endDelay
}
