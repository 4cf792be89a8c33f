package motion

import (
	"fmt"
	"sort"

	"github.com/fogleman/ease"
)

// Registry maps law names to laws. Build it once with NewRegistry and pass
// it to the code that resolves names.
type Registry struct {
	laws    map[string]Law
	builtin map[string]bool
}

var potNames = [...]string{2: "Quad", 3: "Cubic", 4: "Quart", 5: "Quint"}

// NewRegistry returns a registry holding the built-in laws.
func NewRegistry() *Registry {
	r := &Registry{laws: make(map[string]Law)}

	r.Register("linear", Linear)
	r.Register("quadratic", Quadratic)
	r.Register("harmonic", Harmonic)
	r.Register("sinoid", Sinoid)
	r.Register("poly5", Poly5)

	for n := 2; n <= MaxPot; n++ {
		r.Register("in"+potNames[n], InPot(n))
		r.Register("out"+potNames[n], OutPot(n))
		r.Register("inOut"+potNames[n], InOutPot(n))
	}

	// Curves without closed-form derivatives here.
	for name, fn := range map[string]Easing{
		"inSine":      ease.InSine,
		"outSine":     ease.OutSine,
		"inOutSine":   ease.InOutSine,
		"inCirc":      ease.InCirc,
		"outCirc":     ease.OutCirc,
		"inOutCirc":   ease.InOutCirc,
		"inBack":      ease.InBack,
		"outBack":     ease.OutBack,
		"inOutBack":   ease.InOutBack,
		"inBounce":    ease.InBounce,
		"outBounce":   ease.OutBounce,
		"inOutBounce": ease.InOutBounce,
	} {
		r.Register(name, FromEasing(fn))
	}

	r.builtin = make(map[string]bool, len(r.laws))
	for name := range r.laws {
		r.builtin[name] = true
	}
	return r
}

// Register adds or replaces the law stored under name.
func (r *Registry) Register(name string, l Law) {
	if name == "" || l == nil {
		panic(fmt.Sprintf("motion: invalid registration %q", name))
	}
	r.laws[name] = l
	delete(r.builtin, name)
}

// Builtin reports whether name still holds the law NewRegistry put there.
func (r *Registry) Builtin(name string) bool {
	return r.builtin[name]
}

// Lookup returns the law registered under name.
func (r *Registry) Lookup(name string) (Law, bool) {
	l, ok := r.laws[name]
	return l, ok
}

// Resolve returns the law registered under name, or Linear when the name is
// empty or unknown.
func (r *Registry) Resolve(name string) Law {
	if l, ok := r.laws[name]; ok {
		return l
	}
	return Linear
}

// Easing returns the position function of Resolve(name).
func (r *Registry) Easing(name string) Easing {
	return EasingOf(r.Resolve(name))
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.laws))
	for name := range r.laws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
