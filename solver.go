package cuckoocycle

// maxPathLen bounds how far the cycle finder will walk a predecessor chain
// before giving up on it, matching the reference solver's own guard against
// a corrupt or cyclic (non-tree) predecessor structure. 8192 comfortably
// exceeds any chain length a genuine proof-size cycle search produces.
const maxPathLen = 8192

// solver finds candidate cycles in the trimmer's final, doubly compressed
// matrix using the reference algorithm's union-by-splice trick: the
// predecessor array cuckoo forms a forest, each remaining graph edge's two
// endpoints are walked to their tree roots, and if two endpoints already
// share a root the walk lengths tell us whether they close a cycle of
// exactly proofSize edges. Otherwise the shorter chain is reversed and
// re-rooted through the other endpoint, unioning the two trees.
type solver struct {
	p      *Params
	arena  *arena
	cuckoo []uint32
}

// newSolver mmaps and prefaults the predecessor array up front rather than
// letting Go's allocator hand back lazily-committed pages, since the whole
// array is written across during findCycles regardless of how many edges
// actually survive trimming.
func newSolver(p *Params) (*solver, error) {
	n := int(p.CuckooSize())
	a, err := newArena(n * 4)
	if err != nil {
		return nil, err
	}
	return &solver{p: p, arena: a, cuckoo: a.uint32s(n)}, nil
}

// close releases the predecessor array's backing memory. Safe to call once
// findCycles has returned its candidate cycle endpoints, which do not
// reference the array.
func (s *solver) close() error {
	return s.arena.close()
}

// path walks node's predecessor chain to its root. Node value 0 doubles as
// the "no predecessor" sentinel, so a chain that legitimately starts at 0
// is reported as empty and skipped by the caller; this affects at most one
// node's worth of edges out of the whole graph.
func (s *solver) path(node uint32) []uint32 {
	if node == 0 {
		return nil
	}
	chain := make([]uint32, 0, 16)
	n := node
	for n != 0 && len(chain) < maxPathLen {
		chain = append(chain, n)
		n = s.cuckoo[n]
	}
	return chain
}

// findCycles walks every surviving (u, v) node-index pair and returns the
// endpoint pairs of every candidate cycle of exactly proofSize edges found
// along the way.
func (s *solver) findCycles(recs [][2]uint32, proofSize int) [][][2]uint32 {
	var found [][][2]uint32
	for _, rec := range recs {
		u, v := rec[0], rec[1]
		us := s.path(u)
		vs := s.path(v)
		if len(us) == 0 || len(vs) == 0 {
			continue
		}
		if us[len(us)-1] == vs[len(vs)-1] {
			if pairs, ok := joinChains(u, v, us, vs, proofSize); ok {
				found = append(found, pairs)
			}
			continue
		}
		if len(us) < len(vs) {
			spliceOnto(s.cuckoo, us, v)
		} else {
			spliceOnto(s.cuckoo, vs, u)
		}
	}
	return found
}

// spliceOnto reverses chain in place (as far as the predecessor array is
// concerned) and re-roots it through target, unioning chain's tree onto
// target's.
func spliceOnto(cuckoo []uint32, chain []uint32, target uint32) {
	for i := len(chain) - 2; i >= 0; i-- {
		cuckoo[chain[i+1]] = chain[i]
	}
	cuckoo[chain[0]] = target
}

// joinChains finds the lowest common ancestor of two chains known to share
// a root, and if the resulting cycle has exactly proofSize edges, returns
// its endpoint pairs ordered (uNode, vNode) by each pair's own side tag.
func joinChains(u, v uint32, us, vs []uint32, proofSize int) ([][2]uint32, bool) {
	nu, nv := len(us)-1, len(vs)-1
	m := nu
	if nv < m {
		m = nv
	}
	nu -= m
	nv -= m
	for us[nu] != vs[nv] {
		nu++
		nv++
	}
	length := nu + nv + 1
	if length != proofSize {
		return nil, false
	}
	pairs := make([][2]uint32, 0, proofSize)
	pairs = append(pairs, edgePair(u, v))
	for i := 0; i < nu; i++ {
		pairs = append(pairs, edgePair(us[i], us[i+1]))
	}
	for i := 0; i < nv; i++ {
		pairs = append(pairs, edgePair(vs[i], vs[i+1]))
	}
	return pairs, true
}

// edgePair orders a chain step's two endpoints as (uNode, vNode) using each
// node's side tag (its low bit), so the matcher can always hash the first
// element with side 0 and the second with side 1.
func edgePair(a, b uint32) [2]uint32 {
	if a&1 == 0 {
		return [2]uint32{a, b}
	}
	return [2]uint32{b, a}
}
