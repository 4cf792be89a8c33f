package animator

import (
	"math"
	"testing"

	"github.com/ivlev/animatr/internal/binding"
	"github.com/ivlev/animatr/internal/motion"
)

type recorder struct {
	pos, vel, acc []float64
}

func (r *recorder) handle(pos, vel, acc float64) {
	r.pos = append(r.pos, pos)
	r.vel = append(r.vel, vel)
	r.acc = append(r.acc, acc)
}

func (r *recorder) last() float64 {
	return r.pos[len(r.pos)-1]
}

func TestStepEndToEnd(t *testing.T) {
	for _, law := range []motion.Law{motion.Linear, motion.Poly5, motion.Harmonic, motion.Ramp(0.2)} {
		rec := &recorder{}
		finished := 0
		var finishedAt float64
		run := New([]Handler{rec.handle}, Options{
			Law:      law,
			Duration: 1000,
			OnFinish: func(e FinishEvent) { finished++; finishedAt = e.CurrentTime },
		})

		if run.State() != Pending {
			t.Errorf("initial state %v, want pending", run.State())
		}

		steps := []struct {
			time float64
			pos  float64
			cont bool
		}{
			{0, 0, true},
			{500, law.F(0.5), true},
			{1000, 1, true},
		}
		for _, s := range steps {
			if got := run.Step(s.time); got != s.cont {
				t.Errorf("Step(%g) = %v, want %v", s.time, got, s.cont)
			}
			if math.Abs(rec.last()-s.pos) > 1e-9 {
				t.Errorf("Step(%g) pos = %g, want %g", s.time, rec.last(), s.pos)
			}
			if run.State() != Active {
				t.Errorf("Step(%g) state %v, want active", s.time, run.State())
			}
		}

		if run.Step(1001) {
			t.Error("Step(1001) = true, want false")
		}
		if finished != 1 || finishedAt != 1001 {
			t.Errorf("onFinish called %d times at %g, want once at 1001", finished, finishedAt)
		}
		if run.State() != Finished {
			t.Errorf("state %v, want finished", run.State())
		}
		if len(rec.pos) != 3 {
			t.Errorf("handlers called %d times, want 3", len(rec.pos))
		}

		// A scheduler that keeps calling does not re-fire onFinish.
		run.Step(1002)
		if finished != 1 {
			t.Errorf("onFinish fired %d times", finished)
		}
	}
}

func TestStepDerivativeScaling(t *testing.T) {
	rec := &recorder{}
	run := New([]Handler{rec.handle}, Options{Law: motion.Quadratic, Duration: 2000})
	run.Step(500) // q = 0.25

	// Dt = 2000 * 1e-3 = 2
	if want := motion.Quadratic.Fd(0.25) / 2; rec.vel[0] != want {
		t.Errorf("vel = %g, want %g", rec.vel[0], want)
	}
	if want := motion.Quadratic.Fdd(0.25) / 4; rec.acc[0] != want {
		t.Errorf("acc = %g, want %g", rec.acc[0], want)
	}
}

func TestStepDelayAndEndDelay(t *testing.T) {
	rec := &recorder{}
	var events []FinishEvent
	run := New([]Handler{rec.handle}, Options{
		Duration: 100,
		Delay:    50,
		EndDelay: 20,
		OnFinish: func(e FinishEvent) { events = append(events, e) },
	})

	if !run.Step(10) || run.State() != Pending || len(rec.pos) != 0 {
		t.Errorf("before delay: state %v, %d handler calls", run.State(), len(rec.pos))
	}
	if !run.Step(100) || rec.last() != 0.5 {
		t.Errorf("mid run pos = %v", rec.pos)
	}
	// Hold: no handler calls, no finish yet.
	if !run.Step(160) || len(rec.pos) != 1 || len(events) != 0 {
		t.Errorf("during end delay: %d calls, %d events", len(rec.pos), len(events))
	}
	// t == duration+endDelay: finish fires and the run still reports true.
	if !run.Step(170) {
		t.Error("Step at the finish boundary returned false")
	}
	if len(events) != 1 || events[0].CurrentTime != 120 {
		t.Errorf("events = %+v, want one at 120", events)
	}
	if run.Step(171) {
		t.Error("Step after finish returned true")
	}
	if len(events) != 1 {
		t.Errorf("onFinish fired %d times", len(events))
	}
	if run.Total() != 170 {
		t.Errorf("Total = %g, want 170", run.Total())
	}
}

func TestStepZeroDuration(t *testing.T) {
	rec := &recorder{}
	run := New([]Handler{rec.handle}, Options{Law: motion.Poly5})

	if !run.Step(0) {
		t.Error("Step(0) = false, want true")
	}
	if len(rec.pos) != 1 || rec.pos[0] != 1 {
		t.Errorf("pos = %v, want [1]", rec.pos)
	}
	// Dt falls back to 1, so the derivatives stay finite.
	if rec.vel[0] != 0 || rec.acc[0] != 0 {
		t.Errorf("vel %g acc %g, want 0 0", rec.vel[0], rec.acc[0])
	}
	if run.Step(1) {
		t.Error("Step(1) = true, want false")
	}
}

func TestNewClampsOptions(t *testing.T) {
	run := New(nil, Options{Duration: -5, Delay: -1, EndDelay: -2})
	if run.Duration() != 0 || run.Delay() != 0 || run.EndDelay() != 0 {
		t.Errorf("got duration %g delay %g endDelay %g", run.Duration(), run.Delay(), run.EndDelay())
	}
	if run.Direction() != Forward {
		t.Errorf("direction %q, want forward", run.Direction())
	}
}

func TestDirectionIsInert(t *testing.T) {
	fwd, bwd := &recorder{}, &recorder{}
	a := New([]Handler{fwd.handle}, Options{Law: motion.Sinoid, Duration: 10, Direction: Forward})
	b := New([]Handler{bwd.handle}, Options{Law: motion.Sinoid, Duration: 10, Direction: Backward})
	for tm := 0.0; tm <= 10; tm++ {
		a.Step(tm)
		b.Step(tm)
	}
	for i := range fwd.pos {
		if fwd.pos[i] != bwd.pos[i] {
			t.Fatalf("tick %d: forward %g, backward %g", i, fwd.pos[i], bwd.pos[i])
		}
	}
}

func TestStepWithBoundProperty(t *testing.T) {
	p := &binding.Property{Value: 100}
	x := 0.0
	run := New([]Handler{binding.To(p, 200), binding.By(binding.Scalar{V: &x}, 10)}, Options{
		Law:      motion.Linear,
		Duration: 1000,
	})

	run.Step(250)
	if p.Value != 125 || x != 2.5 {
		t.Errorf("value %g x %g, want 125 2.5", p.Value, x)
	}
	// Linear: fd = 1, Dt = 1, velocity = delta.
	if p.Vel != 100 || p.Acc != 0 {
		t.Errorf("vel %g acc %g, want 100 0", p.Vel, p.Acc)
	}

	run.Step(1000)
	if p.Value != 200 || x != 10 {
		t.Errorf("end value %g x %g, want 200 10", p.Value, x)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Pending: "pending", Active: "active", Finished: "finished", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
