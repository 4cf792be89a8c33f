// Package binding turns value handles into per-tick animation handlers.
//
// A handle exposes Get and Set and may additionally accept velocity and
// acceleration. The optional capabilities are probed with type assertions;
// a handle without them simply does not receive derivatives.
package binding

// Handle is read and written by a bound handler. The handler never owns the
// backing value.
type Handle interface {
	Get() float64
	Set(v float64)
}

// VelocitySetter is implemented by handles that accept a velocity.
type VelocitySetter interface {
	SetVel(v float64)
}

// AccelerationSetter is implemented by handles that accept an acceleration.
// It is only used on handles that are also a VelocitySetter.
type AccelerationSetter interface {
	SetAcc(v float64)
}

// binder holds the state captured at bind time.
type binder struct {
	h     Handle
	val0  float64
	delta float64
	vel   VelocitySetter
	acc   AccelerationSetter
}

func bind(h Handle, val0, delta float64) func(f, fd, fdd float64) {
	b := &binder{h: h, val0: val0, delta: delta}
	if vs, ok := h.(VelocitySetter); ok {
		b.vel = vs
		if as, ok := h.(AccelerationSetter); ok {
			b.acc = as
		}
	}
	return b.apply
}

func (b *binder) apply(f, fd, fdd float64) {
	b.h.Set(b.val0 + f*b.delta)
	if b.vel != nil {
		b.vel.SetVel(fd * b.delta)
	}
	if b.acc != nil {
		b.acc.SetAcc(fdd * b.delta)
	}
}

// To binds h so that it travels from its current value to target.
func To(h Handle, target float64) func(f, fd, fdd float64) {
	val0 := h.Get()
	return bind(h, val0, target-val0)
}

// By binds h so that it travels from its current value by delta.
func By(h Handle, delta float64) func(f, fd, fdd float64) {
	return bind(h, h.Get(), delta)
}
