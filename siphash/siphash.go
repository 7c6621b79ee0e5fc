// Package siphash computes the siphash-2-4 edge function Cuckoo Cycle uses
// to map an edge index to its two endpoint node values. It provides both a
// scalar implementation and an 8-way batched one; the batched path is a
// throughput optimization only; both must and do produce byte-identical
// output for identical input, a property exercised in siphash_test.go.
package siphash

// Keys are the two 64-bit siphash-2-4 keys derived from a block header.
type Keys struct {
	K0 uint64
	K1 uint64
}

// initState expands (k0, k1) into the four siphash-2-4 lane words, xored
// with the algorithm's fixed initialization constants.
func initState(k0, k1 uint64) (v0, v1, v2, v3 uint64) {
	v0 = k0 ^ 0x736f6d6570736575
	v1 = k1 ^ 0x646f72616e646f6d
	v2 = k0 ^ 0x6c7967656e657261
	v3 = k1 ^ 0x7465646279746573
	return
}

func rotl(x uint64, b uint) uint64 {
	return (x << b) | (x >> (64 - b))
}

func sipround(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = rotl(v1, 13)
	v1 ^= v0
	v0 = rotl(v0, 32)
	v2 += v3
	v3 = rotl(v3, 16)
	v3 ^= v2
	v0 += v3
	v3 = rotl(v3, 21)
	v3 ^= v0
	v2 += v1
	v1 = rotl(v1, 17)
	v1 ^= v2
	v2 = rotl(v2, 32)
	return v0, v1, v2, v3
}

// Hash24 runs siphash-2-4 (two compression rounds, four finalization rounds)
// over the single 64-bit input block nonce, keyed by keys. This is the
// scalar edge function: Node in this package's usual caller wraps it with
// the mask-and-side-tag steps the cuckoo graph definition requires.
func Hash24(keys Keys, nonce uint64) uint64 {
	v0, v1, v2, v3 := initState(keys.K0, keys.K1)
	v3 ^= nonce
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	v0 ^= nonce
	v2 ^= 0xff
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipround(v0, v1, v2, v3)
	return v0 ^ v1 ^ v2 ^ v3
}

// Node computes one endpoint of edge under keys, masked to fit within the
// graph's node space and tagged into side's partition (side 0 or 1) the way
// the bipartite Cuckoo graph requires: node = (Hash24(2*edge+side) & mask)<<1 | side.
func Node(keys Keys, mask uint64, edge uint64, side uint64) uint64 {
	h := Hash24(keys, 2*edge+side) & mask
	return h<<1 | side
}

// Batch8 computes Node for eight consecutive edges [edgeBase, edgeBase+8)
// on the given side in one call. It is a pure lane-unrolled restatement of
// Node with no requirement on the caller beyond a big enough backing array;
// HasFastPath reports whether the runtime CPU can execute the underlying
// vectorized instructions the compiler is likely to emit for this shape,
// but Batch8 itself is always correct to call.
func Batch8(keys Keys, mask uint64, edgeBase uint64, side uint64, out *[8]uint64) {
	v0, v1, v2, v3 := initState(keys.K0, keys.K1)
	for lane := 0; lane < 8; lane++ {
		nonce := 2*(edgeBase+uint64(lane)) + side
		a, b, c, d := v0, v1, v2, v3
		d ^= nonce
		a, b, c, d = sipround(a, b, c, d)
		a, b, c, d = sipround(a, b, c, d)
		a ^= nonce
		c ^= 0xff
		a, b, c, d = sipround(a, b, c, d)
		a, b, c, d = sipround(a, b, c, d)
		a, b, c, d = sipround(a, b, c, d)
		a, b, c, d = sipround(a, b, c, d)
		h := (a ^ b ^ c ^ d) & mask
		out[lane] = h<<1 | side
	}
}
