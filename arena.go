package cuckoocycle

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// arena is a large, page-prefaulted allocation backing the cycle finder's
// predecessor array. At edgeBits 30 and 31 that array runs to 4 MiB
// (2*NX*NYZ2 uint32s); anonymous-mmapping and prefaulting it up front avoids the page
// fault storm a plain make([]uint32, n) would otherwise take the first time
// every page is touched mid-search.
type arena struct {
	region mmap.MMap
}

// newArena allocates size bytes of zeroed, prefaulted memory. Callers use
// the returned bytes directly as scratch space; there is no free-list or
// reuse across calls, matching the solver's one-shot-per-Solve lifetime.
func newArena(size int) (*arena, error) {
	if size <= 0 {
		size = 1
	}
	region, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	a := &arena{region: region}
	a.prefault()
	return a, nil
}

func (a *arena) bytes() []byte {
	return a.region
}

// uint32s reinterprets the arena's backing bytes as a []uint32 of the given
// length. n*4 must not exceed len(a.bytes()).
func (a *arena) uint32s(n int) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&a.region[0])), n)
}

func (a *arena) close() error {
	return a.region.Unmap()
}
