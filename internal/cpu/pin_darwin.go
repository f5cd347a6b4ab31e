//go:build darwin

package cpu

import (
	"runtime"
)

// Pin locks the calling goroutine to an OS thread. macOS offers no
// public thread-affinity API, so the thread floats across cores.
func Pin(workerID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
