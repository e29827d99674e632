package util

import "runtime"

// GetOptimalPoolSize returns the worker and parser pool size:
// twice the CPU count, clamped to [4, 32].
//
// Analysis spends most of its time inside cgo parser calls, so
// oversubscribing the cores keeps them busy. The parser manager and the
// scanner must agree on this number so a worker never waits for a parser.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive and
// GetOptimalPoolSize otherwise.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
