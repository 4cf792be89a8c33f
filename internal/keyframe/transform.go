package keyframe

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Transform post-processes an interpolated value, typically into a string a
// renderer understands. It does not take part in interpolation.
type Transform func(v float64) string

// HexChannel appends v as a two digit hex colour channel to prefix, e.g.
// HexChannel("#ff0000")(128) == "#ff000080". v is floored and clamped to
// [0, 255].
func HexChannel(prefix string) Transform {
	return func(v float64) string {
		c := int64(math.Max(0, math.Min(255, math.Floor(v))))
		s := strconv.FormatInt(c, 16)
		if c < 16 {
			s = "0" + s
		}
		return prefix + s
	}
}

// Hue reads v as an HCL hue in degrees and returns the matching #rrggbb
// colour for the given chroma and luminance.
func Hue(chroma, luminance float64) Transform {
	return func(v float64) string {
		return colorful.Hcl(v, chroma, luminance).Clamped().Hex()
	}
}

// Fixed formats v with prec decimals; -1 uses the shortest exact form.
func Fixed(prec int) Transform {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', prec, 64)
	}
}
