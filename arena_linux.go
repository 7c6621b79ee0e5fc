//go:build linux

package cuckoocycle

import (
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// madvPopulateWrite is MADV_POPULATE_WRITE, added in Linux 5.14. Kernels
// older than that reject it with EINVAL, which prefault treats as "no fast
// path available" rather than an allocation failure: prefaulting only
// shaves the first page-fault pass off the predecessor array and is never
// required for the solver to run correctly.
const madvPopulateWrite = 23

// prefault forces the kernel to allocate and zero every page of the
// arena's backing region up front, instead of one page at a time as the
// solver's effectively-random predecessor-array writes touch each for the
// first time. Any failure other than the expected old-kernel EINVAL is
// logged at debug level and otherwise ignored.
func (a *arena) prefault() {
	if len(a.region) == 0 {
		return
	}
	if err := unix.Madvise(a.region, madvPopulateWrite); err != nil && err != unix.EINVAL {
		log.Debug("cuckoocycle: arena prefault skipped", zap.Error(err))
	}
}
