//go:build windows

package hotkey

import (
	"fmt"
	"log/slog"
	"runtime"
	"syscall"
	"time"
	"unsafe"
)

const (
	idToggle = 1
	idCancel = 2

	wmHotkey = 0x0312
)

type msgStruct struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

// Register installs the toggle and cancel hotkeys system-wide and runs the
// message loop on a dedicated OS thread. The callbacks are invoked on that
// thread, so they must not block.
func Register(toggleKey, cancelKey string, onToggle, onCancel func()) error {
	defs := []struct {
		id   int
		spec string
		mod  uint32
		vk   uint32
	}{
		{id: idToggle, spec: toggleKey},
		{id: idCancel, spec: cancelKey},
	}
	for i := range defs {
		mod, vk, err := parseHotkey(defs[i].spec)
		if err != nil {
			return fmt.Errorf("invalid hotkey %q: %w", defs[i].spec, err)
		}
		defs[i].mod = mod
		defs[i].vk = vk
		slog.Debug("parsed hotkey", "spec", defs[i].spec, "mod", fmt.Sprintf("0x%X", mod), "vk", fmt.Sprintf("0x%X", vk))
	}

	errCh := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		user32 := syscall.NewLazyDLL("user32.dll")
		procRegisterHotKey := user32.NewProc("RegisterHotKey")
		procUnregisterHotKey := user32.NewProc("UnregisterHotKey")
		procGetMessageW := user32.NewProc("GetMessageW")

		for i, d := range defs {
			r, _, _ := procRegisterHotKey.Call(0, uintptr(d.id), uintptr(d.mod), uintptr(d.vk))
			if r == 0 {
				for _, od := range defs[:i] {
					procUnregisterHotKey.Call(0, uintptr(od.id))
				}
				errCh <- fmt.Errorf("RegisterHotKey failed for %q (id=%d)", d.spec, d.id)
				return
			}
		}
		slog.Info("registered global hotkeys", "toggle", toggleKey, "cancel", cancelKey)
		errCh <- nil

		var msg msgStruct
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) <= 0 {
				slog.Warn("hotkey message loop exited", "ret", int32(ret))
				return
			}
			if msg.Message != wmHotkey {
				continue
			}
			switch int(msg.WParam) {
			case idToggle:
				onToggle()
			case idCancel:
				onCancel()
			}
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		return fmt.Errorf("timeout registering hotkeys")
	}
}
