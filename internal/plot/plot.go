// Package plot renders motion laws as PNG charts for visual inspection.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/ivlev/animatr/internal/motion"
	"github.com/ivlev/animatr/internal/system"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	margin    = 24
	samples   = 256
	lineWidth = 1.5
)

var pool = system.NewImagePool()

// Curve is one plotted series.
type Curve struct {
	Label string
	Color color.Color
	Fn    func(q float64) float64
}

// Curves returns the position, velocity and acceleration of l, each
// scaled by its peak absolute value over [0, 1] so all three fit one chart.
func Curves(l motion.Law) []Curve {
	palette := Palette(3)
	raw := []Curve{
		{Label: "f", Fn: l.F},
		{Label: "fd", Fn: l.Fd},
		{Label: "fdd", Fn: l.Fdd},
	}
	for i := range raw {
		raw[i].Color = palette[i]
		fn := raw[i].Fn
		if peak := Peak(fn); peak > 0 {
			raw[i].Fn = func(q float64) float64 { return fn(q) / peak }
			raw[i].Label = fmt.Sprintf("%s/%.3g", raw[i].Label, peak)
		}
	}
	return raw
}

// Peak is the largest |fn(q)| over an even grid on [0, 1].
func Peak(fn func(float64) float64) float64 {
	var peak float64
	for i := 0; i <= samples; i++ {
		if v := math.Abs(fn(float64(i) / samples)); v > peak && !math.IsInf(v, 0) {
			peak = v
		}
	}
	return peak
}

// Palette returns n evenly spaced hues of equal lightness.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = colorful.Hcl(float64(i)*360/float64(n)+30, 0.6, 0.55).Clamped()
	}
	return out
}

// Law draws the curves of l on a w by h canvas. The vertical axis spans
// [-1, 1] with zero in the middle.
func Law(name string, l motion.Law, w, h int) *image.RGBA {
	return Draw(name, Curves(l), w, h)
}

// Draw renders curves on a fresh canvas. Release returns it for reuse.
func Draw(title string, curves []Curve, w, h int) *image.RGBA {
	img := pool.Get(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawAxes(img)
	for _, c := range curves {
		stroke(img, c)
	}

	label(img, margin, margin-8, title, color.Black)
	for i, c := range curves {
		label(img, w-margin-80, margin+12+14*i, c.Label, c.Color)
	}
	return img
}

// Release hands img back to the canvas pool.
func Release(img *image.RGBA) {
	pool.Put(img)
}

// toCanvas maps q in [0, 1] and v in [-1, 1] to pixel coordinates.
func toCanvas(r image.Rectangle, q, v float64) (float32, float32) {
	pw := float64(r.Dx() - 2*margin)
	ph := float64(r.Dy() - 2*margin)
	x := float64(margin) + q*pw
	y := float64(margin) + (1-v)/2*ph
	return float32(x), float32(y)
}

func drawAxes(img *image.RGBA) {
	r := img.Bounds()
	grey := image.NewUniform(color.Gray{Y: 0xb0})
	x0, y0 := toCanvas(r, 0, 0)
	x1, _ := toCanvas(r, 1, 0)
	_, top := toCanvas(r, 0, 1)
	_, bottom := toCanvas(r, 0, -1)

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	segment(z, x0, y0, x1, y0, 1)
	segment(z, x0, top, x0, bottom, 1)
	z.Draw(img, r, grey, image.Point{})
}

func stroke(img *image.RGBA, c Curve) {
	r := img.Bounds()
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	px, py := toCanvas(r, 0, clampUnit(c.Fn(0)))
	for i := 1; i <= samples; i++ {
		q := float64(i) / samples
		x, y := toCanvas(r, q, clampUnit(c.Fn(q)))
		segment(z, px, py, x, y, lineWidth)
		px, py = x, y
	}
	z.Draw(img, r, image.NewUniform(c.Color), image.Point{})
}

// segment adds a filled quad of the given width around the line a-b.
func segment(z *vector.Rasterizer, ax, ay, bx, by, width float32) {
	dx, dy := bx-ax, by-ay
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	ox, oy := -dy/n*width/2, dx/n*width/2
	z.MoveTo(ax+ox, ay+oy)
	z.LineTo(bx+ox, by+oy)
	z.LineTo(bx-ox, by-oy)
	z.LineTo(ax-ox, ay-oy)
	z.ClosePath()
}

func label(img *image.RGBA, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
