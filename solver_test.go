package cuckoocycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSolverAllocatesCuckooArray(t *testing.T) {
	p, err := NewParams(16)
	require.NoError(t, err)

	s, err := newSolver(p)
	require.NoError(t, err)
	defer s.close()

	require.Len(t, s.cuckoo, int(p.CuckooSize()))
	for _, v := range s.cuckoo {
		require.Zero(t, v)
	}
}

func TestSolverPathWalksToRoot(t *testing.T) {
	p, err := NewParams(16)
	require.NoError(t, err)
	s, err := newSolver(p)
	require.NoError(t, err)
	defer s.close()

	// Chain: 5 -> 3 -> 1 -> root(0), i.e. cuckoo[5]=3, cuckoo[3]=1, cuckoo[1]=0.
	s.cuckoo[5] = 3
	s.cuckoo[3] = 1
	s.cuckoo[1] = 0

	require.Equal(t, []uint32{5, 3, 1}, s.path(5))
	require.Nil(t, s.path(0))
}

func TestSpliceOntoReroots(t *testing.T) {
	cuckoo := make([]uint32, 16)
	// Chain: 4 -> 2 -> 1 -> 0 (root).
	cuckoo[4] = 2
	cuckoo[2] = 1
	cuckoo[1] = 0
	chain := []uint32{4, 2, 1}

	spliceOnto(cuckoo, chain, 9)

	// The chain is reversed and re-rooted through 9: 1 -> 2 -> 4 -> 9.
	require.Equal(t, uint32(2), cuckoo[1])
	require.Equal(t, uint32(4), cuckoo[2])
	require.Equal(t, uint32(9), cuckoo[4])
}

// Two chains sharing root 1, diverging above node 6 on the v side, close a
// 4-edge cycle: u-v, then one step up the u chain, then two steps up the v
// chain to the shared ancestor.
func TestJoinChainsAcceptsMatchingLength(t *testing.T) {
	us := []uint32{10, 6, 1}
	vs := []uint32{20, 15, 6, 1}

	pairs, ok := joinChains(99, 88, us, vs, 4)
	require.True(t, ok)
	require.Len(t, pairs, 4)
	require.Equal(t, edgePair(99, 88), pairs[0])
	require.Equal(t, edgePair(10, 6), pairs[1])
	require.Equal(t, edgePair(20, 15), pairs[2])
	require.Equal(t, edgePair(15, 6), pairs[3])
}

func TestJoinChainsRejectsWrongLength(t *testing.T) {
	us := []uint32{10, 6, 1}
	vs := []uint32{20, 15, 6, 1}
	_, ok := joinChains(99, 88, us, vs, 5)
	require.False(t, ok)
}

func TestEdgePairOrdersBySideTag(t *testing.T) {
	// Low bit 0 marks a U-side node, low bit 1 marks V-side.
	require.Equal(t, [2]uint32{4, 5}, edgePair(4, 5))
	require.Equal(t, [2]uint32{4, 5}, edgePair(5, 4))
}
