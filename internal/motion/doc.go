// Package motion provides motion laws (timing functions) over normalized time.
//
// A motion law maps normalized time q in [0, 1] to a normalized position and
// exposes the first and second derivative with respect to q. The laws follow
// the cam design catalogue of VDI 2143 (linear, quadratic, harmonic, sinoid,
// poly5, ramp) plus the power family popularised by Penner easing curves.
//
// Well-formed laws satisfy F(0) == 0 and F(1) == 1. No law clamps q; callers
// keep q inside [0, 1].
//
// Laws are looked up by name through a [Registry], which is built once and
// passed to whoever needs string-keyed access.
package motion
