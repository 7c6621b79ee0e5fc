package cuckoocycle

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Keys are the two siphash-2-4 keys the edge function is built on for a
// given header. They are derived by hashing the header with blake2b-256 and
// splitting the digest into two little-endian uint64s, the same construction
// the miner's own PoW header hashing uses.
type Keys struct {
	K0 uint64
	K1 uint64
}

// HeaderKeys hashes header with blake2b-256 and returns the derived siphash
// keys. header may be any length; there is no truncation or padding
// requirement placed on the caller.
func HeaderKeys(header []byte) Keys {
	sum := blake2b.Sum256(header)
	return Keys{
		K0: binary.LittleEndian.Uint64(sum[0:8]),
		K1: binary.LittleEndian.Uint64(sum[8:16]),
	}
}
