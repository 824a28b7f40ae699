package viewer

import (
	"errors"
	"image/color"

	"snip-nano/capture"
)

// Options carries the pen defaults a new viewer window starts with.
type Options struct {
	PenColor color.RGBA
	PenWidth int
}

// Open shows img in a new always-on-top floating window and returns once the
// window is up. Each window runs independently on its own OS thread and owns
// img exclusively until it is closed; any number of windows may coexist.
func Open(img *capture.Image, opts Options) error {
	if img == nil || img.Pixels == nil {
		return errors.New("viewer: nil image")
	}
	b := img.Pixels.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return errors.New("viewer: empty image")
	}
	return openPlatformWindow(img, opts)
}
