//go:build windows

package notify

import (
	"golang.org/x/sys/windows"
)

// showError displays a topmost modal message box.
func showError(title, message string) {
	titlePtr, _ := windows.UTF16PtrFromString(title)
	msgPtr, _ := windows.UTF16PtrFromString(message)
	const (
		mbOK          = 0x00000000
		mbIconError   = 0x00000010
		mbSystemModal = 0x00001000
	)
	_, _ = windows.MessageBox(0, msgPtr, titlePtr, mbOK|mbIconError|mbSystemModal)
}
