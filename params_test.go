package cuckoocycle

import "testing"

func TestNewParamsDispatchTable(t *testing.T) {
	want := map[uint8]uint8{
		16: 0, 17: 1, 18: 1, 19: 2, 20: 2, 21: 3, 22: 3, 23: 4,
		24: 4, 25: 5, 26: 5, 27: 6, 28: 6, 29: 7, 30: 8, 31: 8,
	}
	for edgeBits, xBits := range want {
		p, err := NewParams(edgeBits)
		if err != nil {
			t.Fatalf("NewParams(%d): %v", edgeBits, err)
		}
		if p.XBits != xBits {
			t.Errorf("edgeBits=%d: XBits = %d, want %d", edgeBits, p.XBits, xBits)
		}
	}
}

func TestNewParamsRejectsOutOfRange(t *testing.T) {
	for _, eb := range []uint8{0, 1, 15, 32, 255} {
		if _, err := NewParams(eb); err == nil {
			t.Errorf("NewParams(%d) succeeded, want ErrUnsupportedEdgeBits", eb)
		}
	}
}

func TestParamsDerivedConstantsConsistent(t *testing.T) {
	for eb := uint8(MinEdgeBits); eb <= MaxEdgeBits; eb++ {
		p, err := NewParams(eb)
		if err != nil {
			t.Fatalf("NewParams(%d): %v", eb, err)
		}
		if got := uint64(p.NX) * uint64(p.NX) * uint64(p.NZ); got != p.Nedge {
			t.Errorf("edgeBits=%d: NX*NX*NZ = %d, want Nedge %d", eb, got, p.Nedge)
		}
		if p.NX*p.NZ2 != p.NYZ2 {
			t.Errorf("edgeBits=%d: NX*NZ2 = %d, want NYZ2 %d", eb, p.NX*p.NZ2, p.NYZ2)
		}
		if want := 2 * uint64(p.NX) * uint64(p.NYZ2); p.CuckooSize() != want {
			t.Errorf("edgeBits=%d: CuckooSize() = %d, want %d", eb, p.CuckooSize(), want)
		}
		if p.EdgeMask != p.Nedge-1 {
			t.Errorf("edgeBits=%d: EdgeMask wrong", eb)
		}
	}
}
