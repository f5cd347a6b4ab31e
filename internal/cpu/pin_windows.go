//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// Pin locks the calling goroutine to an OS thread and binds that thread
// to one CPU core, chosen from the worker's index. The returned cleanup
// function releases the thread and should be deferred.
func Pin(workerID int) func() {
	runtime.LockOSThread()
	setAffinity(workerID % runtime.NumCPU())

	return func() {
		runtime.UnlockOSThread()
	}
}

// setAffinity restricts the current thread to the given core. Bit N of
// the mask selects CPU N.
func setAffinity(core int) {
	handle, _, _ := getCurrentThread.Call()
	_, _, _ = setThreadAffinityMask.Call(handle, uintptr(1)<<core)
}
