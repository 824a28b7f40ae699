//go:build !windows

package notify

import "log"

func showError(title, message string) {
	log.Printf("%s: %s", title, message)
}
