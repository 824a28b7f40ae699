// Package notify surfaces non-fatal errors to the user. Export failures go
// through here; capture and hotkey failures stay log-only.
package notify

import "fmt"

// Errorf shows a blocking error dialog where the platform supports one and
// logs it elsewhere.
func Errorf(title, format string, args ...interface{}) {
	showError(title, fmt.Sprintf(format, args...))
}
