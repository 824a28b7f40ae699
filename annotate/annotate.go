package annotate

import (
	"image"
	"image/color"
	"image/draw"
)

// Pen width bounds and the per-click adjustment step.
const (
	MinWidth     = 1
	MaxWidth     = 24
	WidthStep    = 2
	DefaultWidth = 3
)

// DefaultColor is the red used for new strokes and the selection border.
var DefaultColor = color.RGBA{R: 255, G: 80, B: 80, A: 255}

// Palette is the fixed set of swatches offered by the toolbar picker.
var Palette = []color.RGBA{
	{R: 255, G: 80, B: 80, A: 255},
	{R: 255, G: 200, B: 0, A: 255},
	{R: 60, G: 200, B: 80, A: 255},
	{R: 60, G: 140, B: 255, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 20, G: 20, B: 20, A: 255},
}

// Stroke is one continuous freehand path drawn with a fixed color and width.
type Stroke struct {
	Points []image.Point
	Color  color.RGBA
	Width  int
}

// Overlay accumulates strokes on top of a captured image. Strokes are only
// ever appended; there is no undo.
type Overlay struct {
	strokes []Stroke
}

// ClampWidth forces w into [MinWidth, MaxWidth].
func ClampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

// BeginStroke starts a new stroke at p and returns its index.
func (o *Overlay) BeginStroke(p image.Point, c color.RGBA, width int) int {
	o.strokes = append(o.strokes, Stroke{
		Points: []image.Point{p},
		Color:  c,
		Width:  ClampWidth(width),
	})
	return len(o.strokes) - 1
}

// ExtendStroke appends a point to the most recent stroke. It is a no-op when
// no stroke has been started.
func (o *Overlay) ExtendStroke(p image.Point) {
	if len(o.strokes) == 0 {
		return
	}
	s := &o.strokes[len(o.strokes)-1]
	if n := len(s.Points); n > 0 && s.Points[n-1] == p {
		return
	}
	s.Points = append(s.Points, p)
}

// Strokes returns the strokes in insertion order.
func (o *Overlay) Strokes() []Stroke { return o.strokes }

// Empty reports whether any stroke has been drawn.
func (o *Overlay) Empty() bool { return len(o.strokes) == 0 }

// Composite renders base with every stroke stamped on top in insertion
// order. Later strokes overwrite earlier ones; there is no blending. The
// base image is never modified.
func (o *Overlay) Composite(base *image.RGBA) *image.RGBA {
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	for _, s := range o.strokes {
		drawStroke(out, s)
	}
	return out
}

func drawStroke(img *image.RGBA, s Stroke) {
	if len(s.Points) == 0 {
		return
	}
	if len(s.Points) == 1 {
		stampBrush(img, s.Points[0].X, s.Points[0].Y, s.Width, s.Color)
		return
	}
	for i := 1; i < len(s.Points); i++ {
		drawSegment(img, s.Points[i-1], s.Points[i], s.Width, s.Color)
	}
}

// drawSegment stamps a round brush along the Bresenham line from a to b.
func drawSegment(img *image.RGBA, a, b image.Point, width int, col color.RGBA) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy
	for {
		stampBrush(img, x0, y0, width, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// stampBrush paints a filled disc of diameter width centered at (cx, cy).
func stampBrush(img *image.RGBA, cx, cy, width int, col color.RGBA) {
	r := width / 2
	if r < 1 {
		if image.Pt(cx, cy).In(img.Bounds()) {
			img.SetRGBA(cx, cy, col)
		}
		return
	}
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			if image.Pt(cx+dx, cy+dy).In(img.Bounds()) {
				img.SetRGBA(cx+dx, cy+dy, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
