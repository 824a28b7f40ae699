//go:build !windows

package overlay

import (
	"context"
	"fmt"

	"snip-nano/capture"
)

type stubSelector struct{}

func newPlatformSelector() Selector { return &stubSelector{} }

func (s *stubSelector) Select(ctx context.Context) (capture.Region, bool, error) {
	return capture.Region{}, false, fmt.Errorf("overlay: interactive region selection not implemented for this platform")
}
