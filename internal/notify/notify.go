// Package notify shows desktop notifications.
package notify

import "github.com/gen2brain/beeep"

// Notify shows a desktop notification. Failures are ignored.
func Notify(title, message string) {
	_ = beeep.Notify(title, message, "")
}
