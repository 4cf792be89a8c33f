package motion

import "fmt"

// MaxPot is the highest exponent of the power family.
const MaxPot = 5

// ipow returns q**n for n >= 0. A negative n yields 0, which is what the
// derivative formulas need for the low exponents.
func ipow(q float64, n int) float64 {
	if n < 0 {
		return 0
	}
	r := 1.0
	for i := 0; i < n; i++ {
		r *= q
	}
	return r
}

func checkPot(n int) {
	if n < 0 || n > MaxPot {
		panic(fmt.Sprintf("motion: power law exponent %d out of range [0, %d]", n, MaxPot))
	}
}

// Pot returns the power law F(q) = qⁿ for 0 <= n <= MaxPot. Pot(0) is the
// constant 1. It panics for any other n.
func Pot(n int) Law {
	checkPot(n)
	fn := float64(n)
	return law{
		f:   func(q float64) float64 { return ipow(q, n) },
		fd:  func(q float64) float64 { return fn * ipow(q, n-1) },
		fdd: func(q float64) float64 { return fn * (fn - 1) * ipow(q, n-2) },
	}
}

// InPot is the ease-in power law, identical to Pot.
func InPot(n int) Law {
	return Pot(n)
}

// OutPot mirrors Pot(n) into an ease-out curve.
func OutPot(n int) Law {
	p := Pot(n)
	return law{
		f:   func(q float64) float64 { return 1 - p.F(1-q) },
		fd:  func(q float64) float64 { return p.Fd(1 - q) },
		fdd: func(q float64) float64 { return -p.Fdd(1 - q) },
	}
}

// InOutPot eases in with Pot(n) on the first half and out on the second.
// Both halves are scaled by 2ⁿ⁻¹ so they meet at q = 0.5 with equal value
// and slope.
func InOutPot(n int) Law {
	p := Pot(n)
	k := ipow(2, n-1)
	if n == 0 {
		k = 0.5
	}
	return law{
		f: func(q float64) float64 {
			if q < 0.5 {
				return k * p.F(q)
			}
			return 1 - k*p.F(1-q)
		},
		fd: func(q float64) float64 {
			if q < 0.5 {
				return k * p.Fd(q)
			}
			return k * p.Fd(1-q)
		},
		fdd: func(q float64) float64 {
			if q < 0.5 {
				return k * p.Fdd(q)
			}
			return -k * p.Fdd(1-q)
		},
	}
}
