package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

// ErrEmptyImage is returned when there is nothing to export.
var ErrEmptyImage = errors.New("clipboard: empty image buffer")

var writeMu sync.Mutex

// Init must be called once before any write. A failure means the clipboard
// is unavailable on this system; writes will keep failing but the rest of
// the application stays usable.
func Init() error {
	return clipboard.Init()
}

// WriteImage serializes img as PNG and places it on the system clipboard.
// The write is mutex-guarded so two viewer windows copying at once cannot
// interleave.
func WriteImage(img image.Image) error {
	if img == nil {
		return ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ErrEmptyImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("clipboard: encode: %w", err)
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
