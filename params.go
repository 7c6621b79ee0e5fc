package cuckoocycle

// MinEdgeBits and MaxEdgeBits bound the edgeBits values Solve and Verify
// accept, matching the dispatch table's coverage.
const (
	MinEdgeBits = 16
	MaxEdgeBits = 31
)

// xBitsTable mirrors the reference solver's compile-time template
// dispatch (EDGEBITS -> XBITS), one entry per supported edgeBits. Rather
// than instantiate sixteen specialized solver variants the way the C++
// template does, Params computes every derived constant once at runtime
// and the trimmer is written generically against it.
var xBitsTable = [MaxEdgeBits + 1]uint8{
	16: 0, 17: 1, 18: 1, 19: 2, 20: 2, 21: 3, 22: 3, 23: 4,
	24: 4, 25: 5, 26: 5, 27: 6, 28: 6, 29: 7, 30: 8, 31: 8,
}

// Params holds every constant the trimmer, cycle finder, and matcher derive
// from a single edgeBits value. It stands in for the reference solver's
// Params<EDGEBITS,XBITS> template: the same derivation, computed once at
// Solve time instead of at compile time.
type Params struct {
	EdgeBits uint8
	XBits    uint8

	Nedge    uint64 // 1 << EdgeBits
	EdgeMask uint64 // Nedge - 1
	Nnode    uint64 // 2 * Nedge

	NX    uint32 // 1 << XBits
	XMask uint32 // NX - 1

	YBits uint32 // == XBits, kept distinct for readability at call sites
	NY    uint32
	YMask uint32

	ZBits uint32 // EdgeBits - 2*XBits
	NZ    uint32
	ZMask uint32

	YZBits uint32 // EdgeBits - XBits
	NYZ    uint32
	YZMask uint32

	// First-compression id space: bounds the rename table used at
	// CompressRound. Mirrors YZ1BITS = min(YZBits, 15) upstream.
	YZ1Bits uint32
	NYZ1    uint32
	Z1Bits  uint32
	NZ1     uint32

	// Second-compression id space: bounds the final rename table and, in
	// turn, the cycle finder's predecessor array size. Mirrors
	// YZ2BITS = min(YZBits, 11) upstream.
	YZ2Bits uint32
	NYZ2    uint32
	Z2Bits  uint32
	NZ2     uint32

	// CompressRound is the trim round at which node ids are first
	// renamed down to the NYZ1 space, freeing most of the working set
	// for subsequent rounds.
	CompressRound uint32

	// NTrims is the total number of alternating-side trim rounds run
	// before the two final renames.
	NTrims uint32
}

// NewParams computes the derived constants for edgeBits, matching the
// reference dispatch table's (EDGEBITS, XBITS) pairs for 16..31 exactly. It
// returns ErrUnsupportedEdgeBits outside that range.
func NewParams(edgeBits uint8) (*Params, error) {
	if edgeBits < MinEdgeBits || edgeBits > MaxEdgeBits {
		return nil, ErrUnsupportedEdgeBits
	}
	p := &Params{EdgeBits: edgeBits}
	p.XBits = xBitsTable[edgeBits]

	p.Nedge = uint64(1) << edgeBits
	p.EdgeMask = p.Nedge - 1
	p.Nnode = 2 * p.Nedge

	p.NX = uint32(1) << p.XBits
	p.XMask = p.NX - 1
	p.NY = p.NX
	p.YMask = p.XMask
	p.YBits = uint32(p.XBits)

	p.ZBits = uint32(edgeBits) - 2*uint32(p.XBits)
	p.NZ = uint32(1) << p.ZBits
	p.ZMask = p.NZ - 1

	p.YZBits = uint32(edgeBits) - uint32(p.XBits)
	p.NYZ = uint32(1) << p.YZBits
	p.YZMask = p.NYZ - 1

	p.YZ1Bits = p.YZBits
	if p.YZ1Bits > 15 {
		p.YZ1Bits = 15
	}
	p.NYZ1 = uint32(1) << p.YZ1Bits
	p.Z1Bits = p.YZ1Bits - p.YBits
	p.NZ1 = uint32(1) << p.Z1Bits

	p.YZ2Bits = p.YZBits
	if p.YZ2Bits > 11 {
		p.YZ2Bits = 11
	}
	p.NYZ2 = uint32(1) << p.YZ2Bits
	p.Z2Bits = p.YZ2Bits - p.YBits
	p.NZ2 = uint32(1) << p.Z2Bits

	if edgeBits < 30 {
		p.CompressRound = 14
	} else {
		p.CompressRound = 22
	}
	if edgeBits >= 30 {
		p.NTrims = 96
	} else {
		p.NTrims = 68
	}
	return p, nil
}

// CuckooSize is the size of the predecessor array the cycle finder needs:
// the fully compressed id space, repeated across all NX rows since a
// second-stage id is only unique within its own row, doubled to give
// U-side and V-side nodes disjoint index ranges.
func (p *Params) CuckooSize() uint64 {
	return 2 * uint64(p.NX) * uint64(p.NYZ2)
}
