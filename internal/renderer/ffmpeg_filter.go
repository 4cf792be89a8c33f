// Package renderer turns keyframe tracks into FFmpeg expressions, so a
// baked track can drive filter parameters without a side channel.
package renderer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ivlev/animatr/internal/keyframe"
	"github.com/ivlev/animatr/internal/motion"
)

// DefaultSteps is the number of linear pieces used for laws without a
// closed-form template.
const DefaultSteps = 16

// closedForms holds expression templates of the built-in laws. Q stands for
// the normalized segment time.
var closedForms = map[string]string{
	"linear":    "Q",
	"quadratic": "if(lte(Q,0.5),2*Q*Q,-2*Q*Q+4*Q-1)",
	"harmonic":  "(1-cos(PI*Q))/2",
	"sinoid":    "Q-sin(2*PI*Q)/(2*PI)",
	"poly5":     "Q*Q*Q*(10-15*Q+6*Q*Q)",
	"inQuad":    "Q*Q",
	"inCubic":   "Q*Q*Q",
}

// Clock describes the expression variable that carries time and how many
// milliseconds one unit of it spans. zoompan counts output frames in "on",
// most other filters expose seconds in "t".
type Clock struct {
	Var   string
	Scale float64
}

// Seconds is the clock of filters that expose t in seconds.
var Seconds = Clock{Var: "t", Scale: 1000}

// Frames returns the clock of zoompan's output frame counter at fps.
func Frames(fps int) Clock {
	return Clock{Var: "on", Scale: 1000 / float64(fps)}
}

func (c Clock) millis() string {
	if c.Scale == 1 {
		return c.Var
	}
	return c.Var + "*" + num(c.Scale)
}

// Options tune Expression.
type Options struct {
	Clock Clock
	Steps int // linear pieces per sampled segment, DefaultSteps when zero
}

// Expression renders seq as a nested if() expression. laws must be the
// registry seq was built with. Built-in laws with a known closed form are
// written exactly, all others are approximated by Steps linear pieces
// sampled from laws.
func Expression(laws *motion.Registry, seq *keyframe.Sequence, opts Options) string {
	if opts.Clock.Var == "" {
		opts.Clock = Seconds
	}
	if opts.Steps <= 0 {
		opts.Steps = DefaultSteps
	}
	kfs := seq.Keyframes()
	if len(kfs) == 1 {
		return num(kfs[0].Value)
	}

	now := opts.Clock.millis()
	var b strings.Builder
	fmt.Fprintf(&b, "if(lt(%s,%s),%s,", now, num(kfs[0].Time), num(kfs[0].Value))
	for i := 0; i < len(kfs)-1; i++ {
		cur, next := kfs[i], kfs[i+1]
		q := fmt.Sprintf("(%s-%s)/%s", now, num(cur.Time), num(next.Time-cur.Time))
		fmt.Fprintf(&b, "if(lt(%s,%s),%s,", now, num(next.Time), segment(laws, cur, next, q, opts.Steps))
	}
	b.WriteString(num(kfs[len(kfs)-1].Value))
	b.WriteString(strings.Repeat(")", len(kfs)))
	return b.String()
}

func segment(laws *motion.Registry, cur, next keyframe.Keyframe, q string, steps int) string {
	var eased string
	if tmpl, ok := template(laws, cur.Law); ok {
		eased = strings.ReplaceAll(tmpl, "Q", "("+q+")")
	} else {
		eased = sampled(laws.Easing(cur.Law), q, steps)
	}

	dv := next.Value - cur.Value
	if dv < 0 {
		return fmt.Sprintf("%s-%s*(%s)", num(cur.Value), num(-dv), eased)
	}
	return fmt.Sprintf("%s+%s*(%s)", num(cur.Value), num(dv), eased)
}

// template returns the exact expression of the law a keyframe segment
// evaluates with. Without a registry, and for names the registry does not
// know, segments are linear. A template applies only while the registry
// still holds the built-in law under that name.
func template(laws *motion.Registry, name string) (string, bool) {
	if laws == nil {
		return closedForms["linear"], true
	}
	if _, ok := laws.Lookup(name); !ok {
		return closedForms["linear"], true
	}
	tmpl, ok := closedForms[name]
	return tmpl, ok && laws.Builtin(name)
}

// sampled approximates ease on [0, 1] with steps linear pieces.
func sampled(ease motion.Easing, q string, steps int) string {
	var b strings.Builder
	prev := ease(0)
	for k := 1; k <= steps; k++ {
		v := ease(float64(k) / float64(steps))
		piece := fmt.Sprintf("%s+(%s)*((%s)*%d-%d)", num(prev), num(v-prev), q, steps, k-1)
		if k < steps {
			fmt.Fprintf(&b, "if(lt(%s,%s),%s,", q, num(float64(k)/float64(steps)), piece)
		} else {
			b.WriteString(piece)
		}
		prev = v
	}
	b.WriteString(strings.Repeat(")", steps-1))
	return b.String()
}

// Filter assembles a filter string such as zoompan=z='...':x='...' from
// option expressions. Options are emitted in key order, extra raw options
// like d=1 follow verbatim.
func Filter(name string, exprs map[string]string, extra ...string) string {
	keys := make([]string, 0, len(exprs))
	for k := range exprs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+len(extra))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s='%s'", k, exprs[k]))
	}
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return name
	}
	return name + "=" + strings.Join(parts, ":")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
