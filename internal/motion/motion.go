package motion

import "math"

// Law is a motion law: position, velocity and acceleration over normalized
// time q.
type Law interface {
	F(q float64) float64
	Fd(q float64) float64
	Fdd(q float64) float64
}

// Easing is the single-output form of a motion law, used where only the
// position is needed (keyframe segments).
type Easing func(q float64) float64

// law implements Law on top of three plain functions.
type law struct {
	f, fd, fdd func(q float64) float64
}

func (l law) F(q float64) float64   { return l.f(q) }
func (l law) Fd(q float64) float64  { return l.fd(q) }
func (l law) Fdd(q float64) float64 { return l.fdd(q) }

// New builds a Law from a position function and its two derivatives.
func New(f, fd, fdd func(q float64) float64) Law {
	return law{f: f, fd: fd, fdd: fdd}
}

// EasingOf returns the position function of l.
func EasingOf(l Law) Easing {
	return l.F
}

var (
	// Linear moves at constant speed.
	Linear Law = law{
		f:   func(q float64) float64 { return q },
		fd:  func(q float64) float64 { return 1 },
		fdd: func(q float64) float64 { return 0 },
	}

	// Quadratic accelerates uniformly for the first half and decelerates
	// uniformly for the second.
	Quadratic Law = law{
		f: func(q float64) float64 {
			if q <= 0.5 {
				return 2 * q * q
			}
			return -2*q*q + 4*q - 1
		},
		fd: func(q float64) float64 {
			if q <= 0.5 {
				return 4 * q
			}
			return -4*q + 4
		},
		fdd: func(q float64) float64 {
			if q <= 0.5 {
				return 4
			}
			return -4
		},
	}

	// Harmonic is half a cosine wave.
	Harmonic Law = law{
		f:   func(q float64) float64 { return (1 - math.Cos(math.Pi*q)) / 2 },
		fd:  func(q float64) float64 { return math.Pi / 2 * math.Sin(math.Pi*q) },
		fdd: func(q float64) float64 { return math.Pi * math.Pi / 2 * math.Cos(math.Pi*q) },
	}

	// Sinoid has zero velocity and zero acceleration at both ends.
	Sinoid Law = law{
		f:   func(q float64) float64 { return q - math.Sin(2*math.Pi*q)/(2*math.Pi) },
		fd:  func(q float64) float64 { return 1 - math.Cos(2*math.Pi*q) },
		fdd: func(q float64) float64 { return math.Sin(2*math.Pi*q) * 2 * math.Pi },
	}

	// Poly5 is the quintic 10q³-15q⁴+6q⁵.
	Poly5 Law = law{
		f: func(q float64) float64 {
			q3 := q * q * q
			return 10*q3 - 15*q3*q + 6*q3*q*q
		},
		fd: func(q float64) float64 {
			q2 := q * q
			return 30*q2 - 60*q2*q + 30*q2*q2
		},
		fdd: func(q float64) float64 {
			q2 := q * q
			return 60*q - 180*q2 + 120*q2*q
		},
	}
)

// The lighter single-output variants used by keyframe segments.
var (
	EaseLinear    Easing = Linear.F
	EaseQuadratic Easing = Quadratic.F
	EasePoly5     Easing = Poly5.F
)

// Reverse plays l backwards in time: F(q) = l.F(1-q). Values are not negated.
func Reverse(l Law) Law {
	return law{
		f:   func(q float64) float64 { return l.F(1 - q) },
		fd:  func(q float64) float64 { return l.Fd(1 - q) },
		fdd: func(q float64) float64 { return l.Fdd(1 - q) },
	}
}
