package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"snip-nano/capture"
	"snip-nano/clipboard"
	"snip-nano/config"
	"snip-nano/eventloop"
	"snip-nano/hotkey"
	"snip-nano/logutil"
	"snip-nano/overlay"
	"snip-nano/tray"
	"snip-nano/viewer"
)

func main() {
	// DPI awareness must be set before any window or metric query.
	enableDPIAwareness()

	// Keep the main goroutine off the per-window message-loop threads.
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		log.Fatalf("Failed to initialize clipboard: %v", err)
	}

	log.Printf("Snip Nano starting")
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("Pen: color %v, width %d", cfg.PenColor, cfg.PenWidth)

	selector := overlay.NewSelector()
	loop := eventloop.New(
		selector.Select,
		capture.CaptureRegion,
		func(img *capture.Image) error {
			return viewer.Open(img, viewer.Options{
				PenColor: cfg.PenColor,
				PenWidth: cfg.PenWidth,
			})
		},
		tray.SetBusy,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A bad combo or failed hook leaves the tray menu as the only trigger.
	reg, err := hotkey.New(cfg.Hotkey)
	if err != nil {
		log.Printf("Hotkey %q rejected: %v; capture stays available from the tray menu", cfg.Hotkey, err)
	} else if err := reg.Register(loop.Post); err != nil {
		log.Printf("Hotkey registration failed: %v; capture stays available from the tray menu", err)
	} else {
		defer reg.Unregister()
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		tray.Quit()
	}()

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Event loop stopped: %v", err)
		}
	}()

	// Blocks on the tray message loop until Quit.
	tray.Run(loop.Post, cancel)

	log.Printf("Snip Nano exiting")
}
