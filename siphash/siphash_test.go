package siphash

import (
	"math/rand"
	"testing"

	refsiphash "github.com/dchest/siphash"
)

// TestHash24Vectors pins Hash24 against known-good outputs for a fixed key
// and block pair, the same vectors used to validate the reference Cuckoo
// Cycle siphash-2-4 implementation this package was ported from.
func TestHash24Vectors(t *testing.T) {
	keys := Keys{K0: 0x0011223344556677, K1: 0x8899aabbccddeeff}
	const b0 uint64 = 0x7766554433221100
	const b1 uint64 = 0xffeeddccbbaa9988
	const want0 uint64 = 12289717139560654282
	const want1 uint64 = 9875031879028705471

	if got := Hash24(keys, b0); got != want0 {
		t.Fatalf("Hash24(b0) = %d, want %d", got, want0)
	}
	if got := Hash24(keys, b1); got != want1 {
		t.Fatalf("Hash24(b1) = %d, want %d", got, want1)
	}
}

// TestSipNodeReferenceVector checks Hash24 against the classic SipHash-2-4
// reference vector for the ascending-byte 16-byte test key (k0 built from
// bytes 00..07, k1 from bytes 08..0f, both little-endian), applied to the
// edge function's own framing: nonce = 2*edge+side with edge=0, side=0,
// masked to the low 40 bits the way sipnode's callers mask down to a node
// space. This is the one externally-verifiable numeric oracle for the edge
// function's correctness: 0x726fdb47dd0e0e31 is the published SipHash-2-4
// test output for this key and an empty/zero input block, independent of
// this repository or any example in it.
func TestSipNodeReferenceVector(t *testing.T) {
	keys := Keys{K0: 0x0706050403020100, K1: 0x0F0E0D0C0B0A0908}
	const edge, side uint64 = 0, 0
	const mask = 0xFFFFFFFFFF
	const wantFull uint64 = 0x726fdb47dd0e0e31

	got := Hash24(keys, 2*edge+side)
	if got != wantFull {
		t.Fatalf("Hash24 = %#x, want %#x", got, wantFull)
	}
	if got&mask != wantFull&mask {
		t.Fatalf("Hash24 & mask = %#x, want %#x", got&mask, wantFull&mask)
	}
}

// TestHash24AgainstEcosystemSiphash cross-checks Hash24 against an
// independent siphash-2-4 implementation on the general keyed-PRF path: a
// standalone 7-byte message hashed by dchest/siphash's block-oriented API
// must agree with our single-block PRF once its length framing is accounted
// for, since Cuckoo Cycle's edge function is siphash-2-4 applied to a bare
// 64-bit nonce rather than to a length-prefixed byte string.
func TestHash24AgainstEcosystemSiphash(t *testing.T) {
	keys := Keys{K0: 0x0706050403020100, K1: 0x0f0e0d0c0b0a0908}
	key := make([]byte, 16)
	for i := 0; i < 8; i++ {
		key[i] = byte(keys.K0 >> (8 * i))
		key[8+i] = byte(keys.K1 >> (8 * i))
	}
	h := refsiphash.New(key)
	// A message shorter than eight bytes is a single block for standard
	// siphash-2-4 too, with the message length in that block's top byte.
	// Cuckoo's PRF has no length byte, so fold it into the nonce here to
	// reproduce the standard framing.
	msg := make([]byte, 7)
	for i := 0; i < len(msg); i++ {
		msg[i] = byte(0x2a + i)
	}
	h.Write(msg)
	want := h.Sum64()

	nonce := uint64(len(msg))
	for i := len(msg) - 1; i >= 0; i-- {
		nonce = nonce<<8 | uint64(msg[i])
	}
	if got := Hash24(keys, nonce); got != want {
		t.Fatalf("Hash24 = %#x, dchest/siphash = %#x", got, want)
	}
	if Hash24(keys, nonce) == 0 {
		// siphash-2-4 output being exactly zero across a real key and
		// nonce would itself be newsworthy; this guards against a
		// degenerate all-zero implementation slipping through.
		t.Fatal("Hash24 returned zero for a non-degenerate input")
	}
}

func TestBatch8MatchesNode(t *testing.T) {
	keys := Keys{K0: rand.Uint64(), K1: rand.Uint64()}
	const mask = (uint64(1) << 20) - 1
	for _, side := range []uint64{0, 1} {
		var base uint64 = 128
		var out [8]uint64
		Batch8(keys, mask, base, side, &out)
		for lane := 0; lane < 8; lane++ {
			want := Node(keys, mask, base+uint64(lane), side)
			if out[lane] != want {
				t.Fatalf("side %d lane %d: Batch8=%d Node=%d", side, lane, out[lane], want)
			}
		}
	}
}

func TestNodeParity(t *testing.T) {
	keys := Keys{K0: 1, K1: 2}
	const mask = (uint64(1) << 16) - 1
	for _, side := range []uint64{0, 1} {
		n := Node(keys, mask, 12345, side)
		if n&1 != side {
			t.Fatalf("Node side tag = %d, want %d", n&1, side)
		}
	}
}

func TestHash24Deterministic(t *testing.T) {
	keys := Keys{K0: 42, K1: 4242}
	for i := 0; i < 1000; i++ {
		a := Hash24(keys, uint64(i))
		b := Hash24(keys, uint64(i))
		if a != b {
			t.Fatalf("Hash24 not deterministic at %d: %d != %d", i, a, b)
		}
	}
}
