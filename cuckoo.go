package cuckoocycle

import (
	"context"
	"encoding/binary"

	"github.com/HalalChain/cuckoocycle/siphash"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cycle is a simple cycle in the Cuckoo graph, given as its edge indices
// (nonces) in strictly ascending order.
type Cycle []uint32

var solveGroup singleflight.Group

// Solve enumerates every simple cycle of length proofSize in the Cuckoo
// graph implied by header at the given edgeBits, using up to threads
// worker goroutines. It returns an empty, non-nil slice (not an error) when
// the graph contains no such cycle, since that is the overwhelmingly common
// case for any single header and is not itself a failure.
//
// By default, concurrent Solve calls for the same (header, edgeBits,
// proofSize) are collapsed into a single computation; disable this with
// WithDedup(false).
func Solve(ctx context.Context, header []byte, edgeBits, proofSize uint8, threads int, opts ...Option) ([]Cycle, error) {
	if proofSize == 0 || proofSize%2 != 0 {
		return nil, ErrInvalidProofSize
	}
	p, err := NewParams(edgeBits)
	if err != nil {
		return nil, err
	}
	if uint64(proofSize) > p.Nedge {
		return nil, ErrInvalidProofSize
	}

	cfg := defaultConfig()
	cfg.threads = threads
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.resolve()

	run := func() ([]Cycle, error) {
		return solve(ctx, p, header, proofSize, cfg)
	}

	if !cfg.dedup {
		return run()
	}

	key := dedupKey(header, edgeBits, proofSize)
	v, err, _ := solveGroup.Do(key, func() (interface{}, error) {
		return run()
	})
	if err != nil {
		return nil, err
	}
	return v.([]Cycle), nil
}

func dedupKey(header []byte, edgeBits, proofSize uint8) string {
	h := xxhash.New()
	_, _ = h.Write(header)
	var tail [2]byte
	tail[0] = edgeBits
	tail[1] = proofSize
	_, _ = h.Write(tail[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h.Sum64())
	return string(buf[:])
}

func solve(ctx context.Context, p *Params, header []byte, proofSize uint8, cfg *config) ([]Cycle, error) {
	keys := siphash.Keys(HeaderKeys(header))

	t := newTrimmer(p, keys, cfg.threads, cfg.logger)
	recs, err := t.run(ctx)
	if err != nil {
		return nil, err
	}

	sv, err := newSolver(p)
	if err != nil {
		return nil, err
	}
	defer sv.close()
	candidates := sv.findCycles(recs, int(proofSize))
	if len(candidates) == 0 {
		return []Cycle{}, nil
	}

	cfg.logger.Debug("cuckoocycle: candidate cycles found",
		zap.Int("count", len(candidates)),
		zap.String("requestID", cfg.requestID.String()),
	)

	cycles := make([]Cycle, 0, len(candidates))
	for _, pairs := range candidates {
		targets := make([][2]uint32, 0, len(pairs)*2)
		for _, pr := range pairs {
			targets = append(targets, resolvePair(p, t, pr))
		}
		nonces, err := matchEdges(p, keys, cfg.threads, targets)
		if err != nil {
			continue
		}
		cycles = append(cycles, Cycle(nonces))
	}
	return cycles, nil
}

// resolvePair turns one candidate cycle edge's compressed node-index pair
// back into the full masked node values the edge matcher hashes against.
func resolvePair(p *Params, t *trimmer, pr [2]uint32) [2]uint32 {
	ux, uid, _ := splitNodeIndex(p, pr[0])
	vx, vid, _ := splitNodeIndex(p, pr[1])
	return [2]uint32{t.resolveU(ux, uid), t.resolveV(vx, vid)}
}

// Verify checks that cycle is a valid proof for header at edgeBits: exactly
// proofSize distinct, ascending edge indices whose endpoints, hashed with
// header's derived siphash keys, close a single cycle touching every node
// exactly twice.
func Verify(header []byte, edgeBits, proofSize uint8, cycle Cycle) error {
	if len(cycle) != int(proofSize) {
		return ErrWrongProofSize
	}
	p, err := NewParams(edgeBits)
	if err != nil {
		return err
	}
	keys := siphash.Keys(HeaderKeys(header))

	for i, n := range cycle {
		if uint64(n) > p.EdgeMask {
			return ErrEdgeOutOfRange
		}
		if i > 0 && n <= cycle[i-1] {
			return ErrDuplicateEdge
		}
	}

	endpoints := make(map[uint32]int, 2*len(cycle))
	var uXor, vXor uint32
	for _, n := range cycle {
		u := uint32(siphash.Node(keys, p.EdgeMask, uint64(n), uint64(sideU)))
		v := uint32(siphash.Node(keys, p.EdgeMask, uint64(n), uint64(sideV)))
		endpoints[u]++
		endpoints[v]++
		uXor ^= u
		vXor ^= v
	}
	if uXor != 0 || vXor != 0 {
		return ErrNotACycle
	}
	for _, count := range endpoints {
		if count != 2 {
			return ErrNotACycle
		}
	}
	if !closesSingleCycle(keys, p, cycle) {
		return ErrNotACycle
	}
	return nil
}

// cycleEndpoint records which edge (by index into the cycle) touches a
// given node value, so nextEdge can find an edge's partner at that node.
type cycleEndpoint struct {
	node uint32
	edge int
}

// edgeNodes is one cycle edge's two hashed endpoints.
type edgeNodes struct {
	u, v uint32
}

// closesSingleCycle walks the cycle's edges by always leaving each edge
// through the node it was not entered through, and confirms the walk
// visits every edge exactly once before returning to the start. This rules
// out an edge set that splits into several disjoint smaller cycles whose
// lengths happen to sum to proofSize.
func closesSingleCycle(keys siphash.Keys, p *Params, cycle Cycle) bool {
	byNode := make(map[uint32][]cycleEndpoint, 2*len(cycle))
	nodes := make([]edgeNodes, len(cycle))
	for i, n := range cycle {
		u := uint32(siphash.Node(keys, p.EdgeMask, uint64(n), uint64(sideU)))
		v := uint32(siphash.Node(keys, p.EdgeMask, uint64(n), uint64(sideV)))
		nodes[i] = edgeNodes{u, v}
		byNode[u] = append(byNode[u], cycleEndpoint{u, i})
		byNode[v] = append(byNode[v], cycleEndpoint{v, i})
	}
	for _, eps := range byNode {
		if len(eps) != 2 {
			return false
		}
	}

	visited := make([]bool, len(cycle))
	const start = 0
	edge := start
	entryNode := nodes[start].u
	steps := 0
	for {
		visited[edge] = true
		steps++
		exitNode := nodes[edge].v
		if nodes[edge].u != entryNode {
			exitNode = nodes[edge].u
		}
		next := nextEdge(byNode, exitNode, edge)
		if next < 0 {
			return false
		}
		if next == start {
			break
		}
		if visited[next] {
			return false
		}
		entryNode = exitNode
		edge = next
		if steps > len(cycle) {
			return false
		}
	}
	return steps == len(cycle)
}

func nextEdge(byNode map[uint32][]cycleEndpoint, node uint32, current int) int {
	eps, ok := byNode[node]
	if !ok {
		return -1
	}
	for _, e := range eps {
		if e.edge != current {
			return e.edge
		}
	}
	return -1
}
