//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to an OS thread and binds that thread
// to one CPU core, chosen from the worker's index. The returned cleanup
// function releases the thread and should be deferred.
func Pin(workerID int) func() {
	runtime.LockOSThread()
	_ = setAffinity(workerID % runtime.NumCPU())

	return func() {
		runtime.UnlockOSThread()
	}
}

// setAffinity restricts the current thread to the given core. Must run
// after runtime.LockOSThread().
func setAffinity(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	// pid 0 = current thread
	return unix.SchedSetaffinity(0, &set)
}
