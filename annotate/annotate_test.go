package annotate

import (
	"image"
	"image/color"
	"testing"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{0, MinWidth},
		{-5, MinWidth},
		{1, 1},
		{3, 3},
		{24, 24},
		{25, MaxWidth},
		{100, MaxWidth},
	}
	for _, tt := range tests {
		if got := ClampWidth(tt.in); got != tt.expected {
			t.Errorf("ClampWidth(%d) = %d, expected %d", tt.in, got, tt.expected)
		}
	}
}

func TestCompositeLeavesBaseUntouched(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 20, 20))
	var o Overlay
	o.BeginStroke(image.Pt(5, 5), DefaultColor, 3)
	o.ExtendStroke(image.Pt(15, 5))
	_ = o.Composite(base)

	for i, b := range base.Pix {
		if b != 0 {
			t.Fatalf("base pixel data modified at byte %d", i)
		}
	}
}

func TestCompositeInsertionOrder(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 30, 30))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	var o Overlay
	// Stroke A then stroke B crossing the same pixels: B must win.
	o.BeginStroke(image.Pt(0, 10), red, 5)
	o.ExtendStroke(image.Pt(29, 10))
	o.BeginStroke(image.Pt(0, 10), blue, 5)
	o.ExtendStroke(image.Pt(29, 10))

	out := o.Composite(base)
	if got := out.RGBAAt(15, 10); got != blue {
		t.Errorf("overlap pixel = %v, expected later stroke %v", got, blue)
	}
}

func TestCompositeOpaqueOverwrite(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			base.SetRGBA(x, y, color.RGBA{R: 1, G: 2, B: 3, A: 255})
		}
	}
	var o Overlay
	o.BeginStroke(image.Pt(5, 5), DefaultColor, 1)
	out := o.Composite(base)

	if got := out.RGBAAt(5, 5); got != DefaultColor {
		t.Errorf("stroke pixel = %v, expected opaque %v", got, DefaultColor)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("untouched pixel = %v, expected base color", got)
	}
}

func TestStrokeClippedToImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var o Overlay
	// Wide brush near the corner must not panic on out-of-bounds stamps.
	o.BeginStroke(image.Pt(0, 0), DefaultColor, MaxWidth)
	o.ExtendStroke(image.Pt(-5, -5))
	out := o.Composite(base)
	if out.Bounds() != base.Bounds() {
		t.Errorf("composite bounds changed: %v", out.Bounds())
	}
}

func TestExtendStrokeWithoutBegin(t *testing.T) {
	var o Overlay
	o.ExtendStroke(image.Pt(1, 1)) // must not panic
	if !o.Empty() {
		t.Error("overlay should still be empty")
	}
}

func TestExtendStrokeSkipsDuplicatePoints(t *testing.T) {
	var o Overlay
	o.BeginStroke(image.Pt(3, 3), DefaultColor, 1)
	o.ExtendStroke(image.Pt(3, 3))
	o.ExtendStroke(image.Pt(4, 3))
	if got := len(o.Strokes()[0].Points); got != 2 {
		t.Errorf("stroke has %d points, expected 2", got)
	}
}
