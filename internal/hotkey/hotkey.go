// Package hotkey registers global keyboard shortcuts for toggling and
// cancelling a recording.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Win32 modifier masks for RegisterHotKey.
const (
	modAlt   = 0x0001
	modCtrl  = 0x0002
	modShift = 0x0004
	modWin   = 0x0008
)

var namedKeys = map[string]uint32{
	"esc":       0x1B,
	"escape":    0x1B,
	"space":     0x20,
	"enter":     0x0D,
	"return":    0x0D,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"add":       0x6B,
	"plus":      0x6B,
	"subtract":  0x6D,
	"minus":     0x6D,
}

// parseHotkey accepts strings like "alt+q", "ctrl+shift+F1" or "esc" and
// returns the modifier mask and virtual-key code.
func parseHotkey(s string) (uint32, uint32, error) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, fmt.Errorf("empty key")
	}
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(strings.ToLower(parts[i]))
	}
	keyToken := parts[len(parts)-1]

	var mod uint32
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "alt", "menu":
			mod |= modAlt
		case "ctrl", "control":
			mod |= modCtrl
		case "shift":
			mod |= modShift
		case "win", "meta", "super":
			mod |= modWin
		default:
			return 0, 0, fmt.Errorf("unknown modifier: %s", p)
		}
	}

	if len(keyToken) == 1 {
		ch := keyToken[0]
		if ch >= 'a' && ch <= 'z' {
			return mod, uint32(ch - 'a' + 'A'), nil
		}
		if ch >= '0' && ch <= '9' {
			return mod, uint32(ch), nil
		}
	}
	if v, ok := namedKeys[keyToken]; ok {
		return mod, v, nil
	}
	if rest, ok := strings.CutPrefix(keyToken, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 24 {
			return mod, 0x70 + uint32(n-1), nil
		}
	}
	if rest, ok := strings.CutPrefix(keyToken, "numpad"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= 9 {
			return mod, 0x60 + uint32(n), nil
		}
	}
	return 0, 0, fmt.Errorf("unsupported key token: %s", s)
}
