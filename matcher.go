package cuckoocycle

import (
	"sort"
	"sync"

	"github.com/HalalChain/cuckoocycle/siphash"
)

// matchEdges recovers the original edge index behind each requested
// (u, v) full node-value pair by rescanning the whole edge universe in
// parallel. Compression and renaming exist only to keep the trimming
// rounds' working set small; once a cycle's endpoints are known, resolving
// them back to nonces is cheapest done by brute, parallel rehashing rather
// than by threading edge indices through every trim and rename round.
func matchEdges(p *Params, keys siphash.Keys, threads int, targets [][2]uint32) ([]uint32, error) {
	want := make(map[[2]uint32]int, len(targets))
	for i, t := range targets {
		want[t] = i
	}
	found := make([]uint32, len(targets))
	seen := make([]bool, len(targets))
	var mu sync.Mutex

	if threads < 1 {
		threads = 1
	}
	n := p.Nedge
	chunk := (n + uint64(threads) - 1) / uint64(threads)
	var wg sync.WaitGroup
	for tid := 0; tid < threads; tid++ {
		start := uint64(tid) * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end uint64) {
			defer wg.Done()
			for edge := start; edge < end; edge++ {
				u := uint32(siphash.Node(keys, p.EdgeMask, edge, uint64(sideU)) >> 1)
				v := uint32(siphash.Node(keys, p.EdgeMask, edge, uint64(sideV)) >> 1)
				idx, ok := want[[2]uint32{u, v}]
				if !ok {
					continue
				}
				mu.Lock()
				found[idx] = uint32(edge)
				seen[idx] = true
				mu.Unlock()
			}
		}(start, end)
	}
	wg.Wait()

	for _, ok := range seen {
		if !ok {
			return nil, ErrNoCycle
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	for i := 1; i < len(found); i++ {
		if found[i] == found[i-1] {
			return nil, ErrDuplicateEdge
		}
	}
	return found, nil
}
