package overlay

import (
	"context"

	"snip-nano/capture"
)

// Selector is the synchronous region-selection API owned by the event loop.
// Select blocks while the overlay window is up and MUST be called only from
// the single event-loop goroutine. Returns (region, cancelled, error); when
// cancelled is true, region is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context) (capture.Region, bool, error)
}

// NewSelector returns the platform implementation.
func NewSelector() Selector {
	return newPlatformSelector()
}
