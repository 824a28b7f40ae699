//go:build !windows

package viewer

import (
	"fmt"

	"snip-nano/capture"
)

func openPlatformWindow(img *capture.Image, opts Options) error {
	return fmt.Errorf("viewer: floating windows not implemented for this platform")
}
