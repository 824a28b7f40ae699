package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

var (
	// ErrEmptyRegion is returned when a region has zero width or height.
	ErrEmptyRegion = errors.New("capture: region has zero area")
	// ErrOutOfBounds is returned when a region lies entirely outside the display.
	ErrOutOfBounds = errors.New("capture: region outside display bounds")
	// ErrNoDisplay is returned when no active display can be found.
	ErrNoDisplay = errors.New("capture: no active display")
)

// Region is a screen rectangle in primary-display coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Normalize returns an equivalent region with non-negative spans, so a drag
// in any direction yields the same rectangle.
func (r Region) Normalize() Region {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Clip intersects the region with bounds. The result may be empty.
func (r Region) Clip(bounds image.Rectangle) Region {
	clipped := r.Normalize().Rect().Intersect(bounds)
	return Region{
		X:      clipped.Min.X,
		Y:      clipped.Min.Y,
		Width:  clipped.Dx(),
		Height: clipped.Dy(),
	}
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region has zero area.
func (r Region) Empty() bool {
	n := r.Normalize()
	return n.Width == 0 || n.Height == 0
}

// Image is an immutable pixel buffer together with the screen region it was
// captured from. It is created once per capture and handed to exactly one
// floating viewer, which owns it until the window closes.
type Image struct {
	Pixels *image.RGBA
	Origin Region
}

// PrimaryDisplay returns the bounds of the primary display (display 0).
// Capture is limited to the primary display; secondary monitors are not
// covered.
func PrimaryDisplay() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	return screenshot.GetDisplayBounds(0), nil
}

// CaptureRegion captures one rectangle of the primary display.
// A zero-area region yields ErrEmptyRegion; a region that does not intersect
// the display yields ErrOutOfBounds. Both are treated by callers as a silent
// return to idle.
func CaptureRegion(region Region) (*Image, error) {
	region = region.Normalize()
	if region.Width <= 0 || region.Height <= 0 {
		return nil, ErrEmptyRegion
	}

	display, err := PrimaryDisplay()
	if err != nil {
		return nil, err
	}
	clipped := region.Clip(display)
	if clipped.Width <= 0 || clipped.Height <= 0 {
		return nil, ErrOutOfBounds
	}

	img, err := screenshot.CaptureRect(clipped.Rect())
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return &Image{Pixels: img, Origin: clipped}, nil
}

// CapturePrimary grabs the entire primary display. The selection overlay uses
// it as the frozen background it draws the rubber band over.
func CapturePrimary() (*image.RGBA, error) {
	display, err := PrimaryDisplay()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(display)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return img, nil
}
