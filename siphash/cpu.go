package siphash

import "github.com/klauspost/cpuid/v2"

// HasFastPath reports whether the running CPU exposes the vector extensions
// that make Batch8 worth calling instead of eight Node calls. Batch8 is
// correct either way; this only informs a caller's own dispatch heuristic.
func HasFastPath() bool {
	return cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.ASIMD)
}
