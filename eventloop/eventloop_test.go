package eventloop

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"snip-nano/capture"
)

func testImage(r capture.Region) *capture.Image {
	return &capture.Image{
		Pixels: image.NewRGBA(image.Rect(0, 0, r.Width, r.Height)),
		Origin: r,
	}
}

func TestLoopHappyPath(t *testing.T) {
	region := capture.Region{X: 100, Y: 100, Width: 300, Height: 200}
	opened := make(chan *capture.Image, 1)
	var capturedWith capture.Region

	loop := New(
		func(ctx context.Context) (capture.Region, bool, error) {
			return region, false, nil
		},
		func(r capture.Region) (*capture.Image, error) {
			capturedWith = r
			return testImage(r), nil
		},
		func(img *capture.Image) error {
			opened <- img
			return nil
		},
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Post()

	select {
	case img := <-opened:
		if img.Origin != region {
			t.Errorf("viewer opened with origin %+v, want %+v", img.Origin, region)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("viewer was never opened")
	}
	if capturedWith != region {
		t.Errorf("capturer called with %+v, want %+v", capturedWith, region)
	}
}

func TestLoopCancelledSelectionSkipsCapture(t *testing.T) {
	var captures atomic.Int32
	done := make(chan struct{}, 1)

	loop := New(
		func(ctx context.Context) (capture.Region, bool, error) {
			return capture.Region{}, true, nil
		},
		func(r capture.Region) (*capture.Image, error) {
			captures.Add(1)
			return testImage(r), nil
		},
		func(img *capture.Image) error { return nil },
		func(busy bool) {
			if !busy {
				done <- struct{}{}
			}
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Post()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never returned to idle")
	}
	if n := captures.Load(); n != 0 {
		t.Errorf("capturer called %d times after cancel, want 0", n)
	}
}

func TestLoopCaptureErrorSkipsViewer(t *testing.T) {
	var opens atomic.Int32
	done := make(chan struct{}, 1)

	loop := New(
		func(ctx context.Context) (capture.Region, bool, error) {
			return capture.Region{Width: 10, Height: 10}, false, nil
		},
		func(r capture.Region) (*capture.Image, error) {
			return nil, capture.ErrEmptyRegion
		},
		func(img *capture.Image) error {
			opens.Add(1)
			return nil
		},
		func(busy bool) {
			if !busy {
				done <- struct{}{}
			}
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Post()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never returned to idle")
	}
	if n := opens.Load(); n != 0 {
		t.Errorf("viewer opened %d times after capture error, want 0", n)
	}
}

func TestLoopDropsEventsWhileBusy(t *testing.T) {
	var selections atomic.Int32
	gate := make(chan struct{})
	idle := make(chan struct{}, 4)

	loop := New(
		func(ctx context.Context) (capture.Region, bool, error) {
			selections.Add(1)
			<-gate
			return capture.Region{}, true, nil
		},
		func(r capture.Region) (*capture.Image, error) {
			return nil, errors.New("unreachable")
		},
		func(img *capture.Image) error { return nil },
		func(busy bool) {
			if !busy {
				idle <- struct{}{}
			}
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Post()
	for selections.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	// Requests arriving mid-capture must not queue a second overlay.
	loop.Post()
	loop.Post()
	close(gate)

	select {
	case <-idle:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never returned to idle")
	}
	time.Sleep(50 * time.Millisecond)
	if n := selections.Load(); n != 1 {
		t.Errorf("selector called %d times, want 1", n)
	}
}

func TestLoopRunStopsOnContextCancel(t *testing.T) {
	loop := New(
		func(ctx context.Context) (capture.Region, bool, error) {
			return capture.Region{}, true, nil
		},
		func(r capture.Region) (*capture.Image, error) { return nil, nil },
		func(img *capture.Image) error { return nil },
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
