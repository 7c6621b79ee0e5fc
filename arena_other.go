//go:build !linux

package cuckoocycle

// prefault is a no-op on platforms without MADV_POPULATE_WRITE: the
// predecessor array pays for page faults lazily as the solver touches it
// instead of up front.
func (a *arena) prefault() {}
