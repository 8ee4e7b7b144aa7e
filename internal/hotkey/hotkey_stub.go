//go:build !windows

package hotkey

import "fmt"

// Register is not supported on non-Windows builds.
func Register(toggleKey, cancelKey string, onToggle, onCancel func()) error {
	return fmt.Errorf("global hotkeys are not supported on this platform")
}
