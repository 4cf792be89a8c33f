package keyframe

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/ivlev/animatr/internal/motion"
)

func threeKeys(t *testing.T, law string) *Sequence {
	t.Helper()
	seq, err := New(motion.NewRegistry(),
		Keyframe{Time: 0, Value: 10, Law: law},
		Keyframe{Time: 5, Value: 20, Law: law},
		Keyframe{Time: 10, Value: 30},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return seq
}

func TestAtLinear(t *testing.T) {
	seq := threeKeys(t, "linear")

	tests := []struct {
		time     float64
		expected float64
	}{
		{-1, 10},  // Before first keyframe
		{0, 10},   // First keyframe
		{2.5, 15}, // Midpoint of first segment
		{5, 20},   // Second keyframe
		{7.5, 25}, // Midpoint of second segment
		{10, 30},  // Last keyframe
		{11, 30},  // After last keyframe
	}

	for _, tt := range tests {
		if got := seq.At(tt.time); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.time, got, tt.expected)
		}
	}
}

func TestAtWithSegmentLaw(t *testing.T) {
	seq := threeKeys(t, "poly5")
	for _, tt := range []struct{ time, tn, base float64 }{
		{1, 0.2, 10}, {2.5, 0.5, 10}, {6, 0.2, 20}, {9, 0.8, 20},
	} {
		want := tt.base + motion.Poly5.F(tt.tn)*10
		if got := seq.At(tt.time); math.Abs(got-want) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.time, got, want)
		}
	}
}

func TestAtMixedLaws(t *testing.T) {
	seq, err := New(motion.NewRegistry(),
		Keyframe{Time: 0, Value: 0, Law: "quadratic"},
		Keyframe{Time: 1, Value: 1},
		Keyframe{Time: 2, Value: 0, Law: "bogus"},
		Keyframe{Time: 3, Value: 1},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := seq.At(0.25); got != 0.125 {
		t.Errorf("quadratic segment At(0.25) = %g, want 0.125", got)
	}
	// No law on the middle keyframe: linear.
	if got := seq.At(1.25); got != 0.75 {
		t.Errorf("default segment At(1.25) = %g, want 0.75", got)
	}
	// Unknown law: linear.
	if got := seq.At(2.25); got != 0.25 {
		t.Errorf("unknown-law segment At(2.25) = %g, want 0.25", got)
	}
}

func TestSingleKeyframe(t *testing.T) {
	seq := MustNew(nil, Keyframe{Time: 3, Value: 42})
	for _, tm := range []float64{-100, 0, 3, 3.0001, 1e9} {
		if got := seq.At(tm); got != 42 {
			t.Errorf("At(%g) = %g, want 42", tm, got)
		}
	}
	if seq.Start() != 3 || seq.End() != 3 || seq.Len() != 1 {
		t.Errorf("unexpected bounds: start %g end %g len %d", seq.Start(), seq.End(), seq.Len())
	}
}

func TestNewRejectsInvalidSequences(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("empty: got %v, want ErrEmptySequence", err)
	}

	_, err := New(nil, Keyframe{Time: 0}, Keyframe{Time: 2}, Keyframe{Time: 1})
	if !errors.Is(err, ErrUnordered) {
		t.Errorf("unordered: got %v, want ErrUnordered", err)
	}

	_, err = New(nil, Keyframe{Time: 1}, Keyframe{Time: 1})
	if !errors.Is(err, ErrUnordered) {
		t.Errorf("duplicate time: got %v, want ErrUnordered", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew did not panic on an empty sequence")
		}
	}()
	MustNew(nil)
}

func TestNewCopiesInput(t *testing.T) {
	kfs := []Keyframe{{Time: 0, Value: 1}, {Time: 1, Value: 2}}
	seq := MustNew(nil, kfs...)
	kfs[1].Value = 100
	if got := seq.At(1); got != 2 {
		t.Errorf("sequence changed with caller slice: At(1) = %g", got)
	}
}

func TestAtIsIdempotent(t *testing.T) {
	seq := threeKeys(t, "sinoid")
	for _, tm := range []float64{0.1, 3.3, 6.7, 9.99} {
		a, b := seq.At(tm), seq.At(tm)
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Errorf("At(%g) not bit-identical: %v vs %v", tm, a, b)
		}
	}
}

func TestEvaluateTransforms(t *testing.T) {
	seq := MustNew(nil, Keyframe{Time: 0, Value: 0}, Keyframe{Time: 1, Value: 255})

	if got := Evaluate(seq, 0.5, HexChannel("#ff0000")); got != "#ff00007f" {
		t.Errorf("hex at 0.5 = %q", got)
	}
	if got := Evaluate(seq, 0, HexChannel("#00ff00")); got != "#00ff0000" {
		t.Errorf("hex at 0 = %q", got)
	}
	if got := Evaluate(seq, 2, HexChannel("")); got != "ff" {
		t.Errorf("hex after end = %q", got)
	}
	if got := Evaluate(seq, 0.5, nil); got != "127.5" {
		t.Errorf("raw at 0.5 = %q", got)
	}
	if got := seq.Format(1.0/3, Fixed(2)); got != "85.00" {
		t.Errorf("fixed = %q", got)
	}
}

func TestEvaluateWithoutTransformMatchesAt(t *testing.T) {
	seq := threeKeys(t, "poly5")
	for _, ts := range []float64{-1, 0, 1.0 / 3, 2.5, 7.77, 10, 12} {
		got, err := strconv.ParseFloat(Evaluate(seq, ts, nil), 64)
		if err != nil {
			t.Fatalf("t=%g: %v", ts, err)
		}
		if want := seq.At(ts); got != want {
			t.Errorf("t=%g: Evaluate parses to %v, At = %v", ts, got, want)
		}
	}
}

func TestHexChannelPadding(t *testing.T) {
	tr := HexChannel("#")
	for _, tt := range []struct {
		v    float64
		want string
	}{
		{-4, "#00"}, {0, "#00"}, {9.9, "#09"}, {15, "#0f"}, {16, "#10"}, {300, "#ff"},
	} {
		if got := tr(tt.v); got != tt.want {
			t.Errorf("HexChannel(%g) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestHue(t *testing.T) {
	got := Hue(0.5, 0.6)(120)
	if len(got) != 7 || !strings.HasPrefix(got, "#") {
		t.Errorf("Hue produced %q", got)
	}
	if a, b := Hue(0.5, 0.6)(10), Hue(0.5, 0.6)(200); a == b {
		t.Errorf("different hues gave the same colour %q", a)
	}
}
