// Package tray owns the system tray icon and its menu. The Capture item
// feeds the same channel as the global hotkey so the application stays
// usable when hotkey registration fails.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

const (
	title       = "Snip Nano"
	tooltipIdle = "Snip Nano - press the hotkey or use Capture"
	tooltipBusy = "Snip Nano - capture in progress"
)

// Run starts the systray loop. It blocks until Quit is clicked or
// systray.Quit is called, then invokes onExit. onCapture is called from a
// tray-owned goroutine on every Capture click.
func Run(onCapture func(), onExit func()) {
	systray.Run(func() { onReady(onCapture) }, onExit)
}

// Quit asks the systray loop to exit.
func Quit() {
	systray.Quit()
}

// SetBusy switches the tooltip between the idle and busy texts. Safe to
// call from the event-loop goroutine once Run's onReady has fired.
func SetBusy(busy bool) {
	if busy {
		systray.SetTooltip(tooltipBusy)
	} else {
		systray.SetTooltip(tooltipIdle)
	}
}

func onReady(onCapture func()) {
	systray.SetIcon(iconICO())
	systray.SetTitle(title)
	systray.SetTooltip(tooltipIdle)

	mCapture := systray.AddMenuItem("Capture", "Select a region of the screen")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				log.Printf("Tray: capture requested")
				onCapture()
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}
