//go:build !debug

package pool

// debugLog compiles to nothing unless built with -tags debug.
func debugLog(string, ...interface{}) {}
