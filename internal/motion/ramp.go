package motion

// ramp is a trapezoidal velocity profile: constant acceleration a on
// [0, dq), cruise on [dq, 1-dq), constant deceleration on [1-dq, 1].
type ramp struct {
	dq, a float64
}

// Ramp returns the trapezoidal law with blend fraction dq, clamped to
// [0, 0.5]. Ramp(0) is Linear and Ramp(0.5) is Quadratic.
func Ramp(dq float64) Law {
	dq = max(min(dq, 0.5), 0)
	switch dq {
	case 0:
		return Linear
	case 0.5:
		return Quadratic
	}
	return ramp{dq: dq, a: 1 / ((1 - dq) * dq)}
}

// accel, cruise and decel return position and velocity of the three
// branches. Each is valid on its own interval only; they are split out so
// the joins can be checked against each other.
func (r ramp) accel(q float64) (f, fd float64) {
	return r.a * q * q / 2, r.a * q
}

func (r ramp) cruise(q float64) (f, fd float64) {
	return r.a * (q - r.dq/2) * r.dq, r.a * r.dq
}

func (r ramp) decel(q float64) (f, fd float64) {
	// u is the time left until the end of the motion.
	u := 1 - q
	return 1 - r.a*u*u/2, r.a * u
}

func (r ramp) F(q float64) float64 {
	var f float64
	switch {
	case q < r.dq:
		f, _ = r.accel(q)
	case q < 1-r.dq:
		f, _ = r.cruise(q)
	default:
		f, _ = r.decel(q)
	}
	return f
}

func (r ramp) Fd(q float64) float64 {
	var fd float64
	switch {
	case q < r.dq:
		_, fd = r.accel(q)
	case q < 1-r.dq:
		_, fd = r.cruise(q)
	default:
		_, fd = r.decel(q)
	}
	return fd
}

func (r ramp) Fdd(q float64) float64 {
	switch {
	case q < r.dq:
		return r.a
	case q < 1-r.dq:
		return 0
	default:
		return -r.a
	}
}
