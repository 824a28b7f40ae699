// Package eventloop runs the single goroutine that owns the capture
// pipeline. Hotkey and tray events funnel into one channel; each event
// runs select, capture and viewer-open synchronously, so at most one
// overlay exists at a time.
package eventloop

import (
	"context"
	"log"

	"snip-nano/capture"
)

// SelectFunc blocks until the user commits or cancels a selection.
type SelectFunc func(ctx context.Context) (capture.Region, bool, error)

// CaptureFunc grabs the pixels of a committed region.
type CaptureFunc func(capture.Region) (*capture.Image, error)

// OpenFunc shows a captured image in a floating viewer window.
type OpenFunc func(*capture.Image) error

// Loop coordinates one capture flow at a time. All fields are set at
// construction; Run is the only method that touches them afterwards.
type Loop struct {
	selectRegion SelectFunc
	captureImage CaptureFunc
	openViewer   OpenFunc
	setBusy      func(bool)
	events       chan struct{}
}

// New builds a loop around the injected pipeline stages. setBusy may be
// nil when no busy indicator exists.
func New(sel SelectFunc, grab CaptureFunc, open OpenFunc, setBusy func(bool)) *Loop {
	if setBusy == nil {
		setBusy = func(bool) {}
	}
	return &Loop{
		selectRegion: sel,
		captureImage: grab,
		openViewer:   open,
		setBusy:      setBusy,
		events:       make(chan struct{}, 1),
	}
}

// Post requests a capture. It never blocks; a request arriving while the
// loop is busy is dropped rather than queued behind the running one.
func (l *Loop) Post() {
	select {
	case l.events <- struct{}{}:
	default:
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.events:
			l.handleEvent(ctx)
		}
	}
}

func (l *Loop) handleEvent(ctx context.Context) {
	l.setBusy(true)
	defer func() {
		l.drain()
		l.setBusy(false)
	}()

	region, cancelled, err := l.selectRegion(ctx)
	if err != nil {
		log.Printf("Event loop: selection failed: %v", err)
		return
	}
	if cancelled {
		log.Printf("Event loop: selection cancelled")
		return
	}

	img, err := l.captureImage(region)
	if err != nil {
		log.Printf("Event loop: capture of %+v failed: %v", region, err)
		return
	}

	if err := l.openViewer(img); err != nil {
		log.Printf("Event loop: viewer open failed: %v", err)
	}
}

// drain discards events that arrived while an event was being handled.
func (l *Loop) drain() {
	for {
		select {
		case <-l.events:
		default:
			return
		}
	}
}
