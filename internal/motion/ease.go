package motion

// diffStep is the finite difference step used by FromEasing.
const diffStep = 1e-4

// FromEasing lifts a position-only easing function into a Law. Velocity and
// acceleration are estimated with central differences; near the ends of
// [0, 1] the stencil is shifted inwards so fn is never sampled outside it.
func FromEasing(fn Easing) Law {
	h := diffStep
	center := func(q float64) float64 {
		return min(max(q, h), 1-h)
	}
	return law{
		f: fn,
		fd: func(q float64) float64 {
			c := center(q)
			return (fn(c+h) - fn(c-h)) / (2 * h)
		},
		fdd: func(q float64) float64 {
			c := center(q)
			return (fn(c+h) - 2*fn(c) + fn(c-h)) / (h * h)
		},
	}
}
