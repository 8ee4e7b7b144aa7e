// Package playback plays synthesized dialog audio through ffplay.
package playback

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Available reports whether ffplay is on PATH.
func Available() bool {
	_, err := exec.LookPath("ffplay")
	return err == nil
}

// Play plays an audio file and blocks until playback finishes.
func Play(path string) error {
	if !Available() {
		return fmt.Errorf("ffplay not found on PATH")
	}
	cmd := exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "error", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffplay failed: %v\n%s", err, stderr.String())
	}
	return nil
}
