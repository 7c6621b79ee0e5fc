package cuckoocycle

import (
	"context"
	"sync"

	"github.com/HalalChain/cuckoocycle/siphash"
	"go.uber.org/zap"
)

const (
	sideU uint8 = 0
	sideV uint8 = 1
)

// trimmer runs the generation and repeated-trimming pipeline: genU and genV
// build the initial bipartite edge set, alternating trim rounds drop nodes
// with degree less than two until what remains can only be simple cycles,
// and two compression passes shrink node ids down to a range small enough
// for the cycle finder's predecessor array to stay memory-bounded even at
// edgeBits close to 31.
//
// The matrix layout never moves buckets between rounds the way the
// reference solver's cache-tuned storage does: matrix[x][y] always holds
// records whose first (U-side) endpoint's X partition is x and whose
// second (V-side) endpoint's X partition is y. Trimming and renaming by
// row (U side) or column (V side) therefore never touches another
// worker's cells, so every round after generation runs lock-free once
// work is partitioned by row or column index.
//
// run spawns threads worker goroutines exactly once and keeps them alive
// for the whole pipeline; every phase transition (genU -> genV, each trim
// round, each compression pass) is a rendezvous through a single shared
// barrier, the way the reference solver's own thread pool advances in
// lockstep between phases rather than being re-spawned per phase.
type trimmer struct {
	p       *Params
	keys    siphash.Keys
	threads int
	logger  *zap.Logger

	mat *matrix

	xLocks []sync.Mutex

	renameU  [][]uint32 // renameU[x][id] -> original masked u value, filled at first compression
	renameV  [][]uint32
	renameU2 [][]uint32 // renameU2[x][id] -> renameU id, filled at second (final) compression
	renameV2 [][]uint32
}

func newTrimmer(p *Params, keys siphash.Keys, threads int, logger *zap.Logger) *trimmer {
	if threads < 1 {
		threads = 1
	}
	if logger == nil {
		logger = log
	}
	return &trimmer{
		p:       p,
		keys:    keys,
		threads: threads,
		logger:  logger,
		mat:     newMatrix(p),
		xLocks:  make([]sync.Mutex, p.NX),
	}
}

// matrixStats scans every bucket and returns the total number of surviving
// records and the largest single bucket, for round-boundary log lines.
// Skipped whenever the logger has debug logging disabled, since a full
// NX*NX bucket scan every round is otherwise wasted work.
func (t *trimmer) matrixStats() (total, highWater int) {
	for _, row := range t.mat.buckets {
		for _, cell := range row {
			n := len(cell)
			total += n
			if n > highWater {
				highWater = n
			}
		}
	}
	return
}

func sideName(side uint8) string {
	if side == sideU {
		return "u"
	}
	return "v"
}

// logPhase emits a debug line reporting the matrix's current surviving
// record count and bucket high-water mark. Called by worker 0 only, after a
// barrier rendezvous so every other worker's writes for that phase are
// already visible; every worker then waits at a second rendezvous before
// starting the next phase, so no bucket changes while this scan runs.
func (t *trimmer) logPhase(message string, round int, side uint8) {
	if !t.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	total, highWater := t.matrixStats()
	t.logger.Debug(message,
		zap.Int("round", round),
		zap.String("side", sideName(side)),
		zap.Int("survivingRecords", total),
		zap.Int("bucketHighWaterMark", highWater),
	)
}

// run executes the full generate/trim/compress pipeline and returns the
// final matrix's surviving (uID, vID) records. The rename tables needed to
// resolve them back to full node values stay on t, read by resolveU and
// resolveV.
func (t *trimmer) run(ctx context.Context) ([][2]uint32, error) {
	pending := make([][]uint64, t.p.NX)

	t.renameU = make([][]uint32, t.p.NX)
	t.renameV = make([][]uint32, t.p.NX)
	t.renameU2 = make([][]uint32, t.p.NX)
	t.renameV2 = make([][]uint32, t.p.NX)

	firstStageRounds := int(t.p.CompressRound) / 2
	remainingRounds := int(t.p.NTrims-t.p.CompressRound)/2 - 1
	if remainingRounds < 0 {
		remainingRounds = 0
	}

	bar := newBarrier(t.threads)
	errs := make([]error, t.threads)
	var wg sync.WaitGroup
	for id := 0; id < t.threads; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			errs[id] = t.worker(ctx, bar, id, pending, firstStageRounds, remainingRounds)
		}(id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return t.records(), nil
}

// worker is one persistent pipeline participant. Every worker executes the
// exact same, statically known sequence of barrier.Wait() calls regardless
// of errors or context cancellation encountered along the way, so the
// barrier never deadlocks waiting on a participant that gave up early: once
// a worker hits an error it stops doing real work but keeps rendezvousing
// through the remaining phases.
func (t *trimmer) worker(ctx context.Context, bar *barrier, id int, pending [][]uint64, firstStageRounds, remainingRounds int) error {
	var stepErr error
	fail := func(err error) {
		if stepErr == nil {
			stepErr = err
		}
	}

	if stepErr == nil {
		if err := t.genUShard(ctx, id, pending); err != nil {
			fail(err)
		}
	}
	bar.Wait()

	if stepErr == nil {
		if err := t.genVShard(ctx, id, pending); err != nil {
			fail(err)
		}
	}
	bar.Wait()
	if id == 0 {
		t.logPhase("cuckoocycle: generation complete", 0, sideV)
	}
	bar.Wait()

	round := 0
	for r := 0; r < firstStageRounds; r++ {
		round++
		if stepErr == nil {
			if err := t.trimSideShard(ctx, id, sideV); err != nil {
				fail(err)
			}
		}
		bar.Wait()
		if id == 0 {
			t.logPhase("cuckoocycle: trim round complete", round, sideV)
		}
		bar.Wait()
		if stepErr == nil {
			if err := t.trimSideShard(ctx, id, sideU); err != nil {
				fail(err)
			}
		}
		bar.Wait()
		if id == 0 {
			t.logPhase("cuckoocycle: trim round complete", round, sideU)
		}
		bar.Wait()
	}

	if stepErr == nil {
		if err := t.compressShard(ctx, id, sideU, t.p.NYZ1, t.renameU); err != nil {
			fail(err)
		}
	}
	bar.Wait()
	if stepErr == nil {
		if err := t.compressShard(ctx, id, sideV, t.p.NYZ1, t.renameV); err != nil {
			fail(err)
		}
	}
	bar.Wait()
	if id == 0 {
		t.logPhase("cuckoocycle: first compression complete", round, sideV)
	}
	bar.Wait()

	for r := 0; r < remainingRounds; r++ {
		round++
		if stepErr == nil {
			if err := t.trimSideShard(ctx, id, sideV); err != nil {
				fail(err)
			}
		}
		bar.Wait()
		if id == 0 {
			t.logPhase("cuckoocycle: trim round complete", round, sideV)
		}
		bar.Wait()
		if stepErr == nil {
			if err := t.trimSideShard(ctx, id, sideU); err != nil {
				fail(err)
			}
		}
		bar.Wait()
		if id == 0 {
			t.logPhase("cuckoocycle: trim round complete", round, sideU)
		}
		bar.Wait()
	}

	if stepErr == nil {
		if err := t.compressShard(ctx, id, sideU, t.p.NYZ2, t.renameU2); err != nil {
			fail(err)
		}
	}
	bar.Wait()
	if stepErr == nil {
		if err := t.compressShard(ctx, id, sideV, t.p.NYZ2, t.renameV2); err != nil {
			fail(err)
		}
	}
	bar.Wait()
	if id == 0 {
		t.logPhase("cuckoocycle: second compression complete", round, sideV)
	}
	bar.Wait()

	return stepErr
}

// resolveU walks a final-stage compressed U id at row x back to its
// original masked node value via the two rename tables.
func (t *trimmer) resolveU(x, id2 uint32) uint32 {
	id1 := t.renameU2[x][id2]
	return t.renameU[x][id1]
}

func (t *trimmer) resolveV(x, id2 uint32) uint32 {
	id1 := t.renameV2[x][id2]
	return t.renameV[x][id1]
}

// records returns every surviving packed record as a plain (uID, vID) pair
// in the final compressed id space, alongside its row index folded in via
// nodeIndex so the cycle finder can address the shared predecessor array.
func (t *trimmer) records() [][2]uint32 {
	var out [][2]uint32
	for x, row := range t.mat.buckets {
		for y, cell := range row {
			for _, rec := range cell {
				uID := uint32(rec >> 32)
				vID := uint32(rec)
				u := nodeIndex(t.p, uint32(x), uID, sideU)
				v := nodeIndex(t.p, uint32(y), vID, sideV)
				out = append(out, [2]uint32{u, v})
			}
		}
	}
	return out
}

// nodeIndex folds a bucket row/column x and a compressed id into the flat
// index space the cycle finder's predecessor array uses, with the side tag
// in the low bit so every node value in that array is self-describing. The
// id is only unique within its own row, so x is folded in at YZ2Bits, not
// Z2Bits: a second-stage compression id spans the whole row (all NY sibling
// columns), matching the NYZ2-sized capacity compressShard enforces for it.
func nodeIndex(p *Params, x, id uint32, side uint8) uint32 {
	global := x<<p.YZ2Bits | id
	return global<<1 | uint32(side)
}

// splitNodeIndex is nodeIndex's inverse: given a flat predecessor-array
// index, recover the row x, the compressed id, and the side tag.
func splitNodeIndex(p *Params, n uint32) (x, id uint32, side uint8) {
	side = uint8(n & 1)
	global := n >> 1
	x = global >> p.YZ2Bits
	id = global & (p.NYZ2 - 1)
	return
}

// rangeForWorker64 divides [0, n) into up to threads contiguous shards and
// returns the one belonging to id. Worker ids at or past the number of
// shards actually needed (when threads exceeds n) get an empty range,
// while still participating in every barrier rendezvous.
func rangeForWorker64(id, threads int, n uint64) (start, end uint64) {
	effective := threads
	if uint64(effective) > n {
		effective = int(n)
	}
	if effective < 1 {
		effective = 1
	}
	if id >= effective {
		return n, n
	}
	chunk := (n + uint64(effective) - 1) / uint64(effective)
	start = uint64(id) * chunk
	end = start + chunk
	if end > n {
		end = n
	}
	return
}

// rangeForWorker32 is rangeForWorker64 for the NX-sized row/column domain.
func rangeForWorker32(id, threads int, n uint32) (start, end uint32) {
	s, e := rangeForWorker64(id, threads, uint64(n))
	return uint32(s), uint32(e)
}

// genUShard computes u = Node(edge, side 0) for this worker's slice of the
// edge range, bucketed by X(u). Because u's X partition can't be predicted
// from the edge index, this is the one phase that needs cross-goroutine
// locking: each of NX rows gets its own mutex so concurrent writers to
// different rows never contend.
//
// This shard's edge range is contiguous, which is exactly the shape Batch8
// needs (eight consecutive edges' nonces share one siphash key schedule
// expansion), so on a CPU HasFastPath reports as vector-capable the loop
// hashes in groups of eight and falls back to Node one edge at a time only
// for the tail that doesn't fill a group.
func (t *trimmer) genUShard(ctx context.Context, id int, pending [][]uint64) error {
	start, end := rangeForWorker64(id, t.threads, t.p.Nedge)
	edge := start

	if siphash.HasFastPath() {
		var batch [8]uint64
		for edge+8 <= end {
			if edge%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			siphash.Batch8(t.keys, t.p.EdgeMask, edge, uint64(sideU), &batch)
			for lane := uint64(0); lane < 8; lane++ {
				u := uint32(batch[lane] >> 1)
				x := u >> t.p.YZBits
				rec := (edge+lane)<<32 | uint64(u)
				t.xLocks[x].Lock()
				pending[x] = append(pending[x], rec)
				t.xLocks[x].Unlock()
			}
			edge += 8
		}
	}

	for ; edge < end; edge++ {
		if edge%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		h := siphash.Node(t.keys, t.p.EdgeMask, edge, uint64(sideU))
		u := uint32(h >> 1)
		x := u >> t.p.YZBits
		rec := edge<<32 | uint64(u)
		t.xLocks[x].Lock()
		pending[x] = append(pending[x], rec)
		t.xLocks[x].Unlock()
	}
	return nil
}

// genVShard drops degree-1 U nodes (their edge can never lie on a cycle)
// for this worker's slice of rows and, for survivors, computes
// v = Node(edge, side 1), storing the combined (u, v) record in
// matrix[X(u)][X(v)]. Each row x is owned by exactly one worker, so this
// and every later row/column-partitioned phase runs with no locking at all.
// Unlike genUShard, the surviving edges here are whatever degree-2 U nodes
// happened to land in this row, not a contiguous range, so there is no
// group of eight consecutive edges to hand Batch8; this side stays scalar.
func (t *trimmer) genVShard(ctx context.Context, id int, pending [][]uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start, end := rangeForWorker32(id, t.threads, t.p.NX)
	for x := start; x < end; x++ {
		items := pending[x]
		if len(items) == 0 {
			continue
		}
		deg := make(map[uint32]int, len(items))
		for _, rec := range items {
			deg[uint32(rec)]++
		}
		for _, rec := range items {
			u := uint32(rec)
			if deg[u] < 2 {
				continue
			}
			edge := rec >> 32
			h := siphash.Node(t.keys, t.p.EdgeMask, edge, uint64(sideV))
			v := uint32(h >> 1)
			vx := v >> t.p.YZBits
			if err := t.mat.add(x, vx, uint64(u)<<32|uint64(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// trimSideShard drops every record whose endpoint on side has degree less
// than two, counted across the whole row (U side) or column (V side) that
// endpoint's X partition selects, for this worker's slice of rows/columns.
func (t *trimmer) trimSideShard(ctx context.Context, id int, side uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start, end := rangeForWorker32(id, t.threads, t.p.NX)
	if side == sideV {
		for y := start; y < end; y++ {
			cells := t.mat.col(y)
			deg := make(map[uint32]int)
			for _, cellPtr := range cells {
				for _, rec := range *cellPtr {
					deg[uint32(rec)]++
				}
			}
			for _, cellPtr := range cells {
				cell := *cellPtr
				kept := cell[:0]
				for _, rec := range cell {
					if deg[uint32(rec)] >= 2 {
						kept = append(kept, rec)
					}
				}
				*cellPtr = kept
			}
		}
		return nil
	}
	for x := start; x < end; x++ {
		row := t.mat.row(x)
		deg := make(map[uint32]int)
		for _, cell := range row {
			for _, rec := range cell {
				deg[uint32(rec>>32)]++
			}
		}
		for i, cell := range row {
			kept := cell[:0]
			for _, rec := range cell {
				if deg[uint32(rec>>32)] >= 2 {
					kept = append(kept, rec)
				}
			}
			row[i] = kept
		}
	}
	return nil
}

// compressShard assigns each row's (U side) or column's (V side) surviving
// distinct endpoint values a dense id starting at 0, rewrites every record
// to carry that id in place of the original value, and records the reverse
// mapping in rename for later resolution, for this worker's slice of
// rows/columns. capacity bounds how many distinct ids a single row or
// column may need; exceeding it means the header produced an unusually
// skewed graph and is reported as ErrRenameTableOverflow rather than
// silently truncated.
func (t *trimmer) compressShard(ctx context.Context, id int, side uint8, capacity uint32, rename [][]uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start, end := rangeForWorker32(id, t.threads, t.p.NX)
	if side == sideV {
		for y := start; y < end; y++ {
			cells := t.mat.col(y)
			ids := make(map[uint32]uint32)
			for _, cellPtr := range cells {
				for _, rec := range *cellPtr {
					v := uint32(rec)
					if _, ok := ids[v]; !ok {
						if uint32(len(ids)) >= capacity {
							return ErrRenameTableOverflow
						}
						ids[v] = uint32(len(ids))
					}
				}
			}
			table := make([]uint32, len(ids))
			for v, vid := range ids {
				table[vid] = v
			}
			rename[y] = table
			for _, cellPtr := range cells {
				cell := *cellPtr
				for i, rec := range cell {
					u := rec >> 32
					cell[i] = u<<32 | uint64(ids[uint32(rec)])
				}
			}
		}
		return nil
	}
	for x := start; x < end; x++ {
		row := t.mat.row(x)
		ids := make(map[uint32]uint32)
		for _, cell := range row {
			for _, rec := range cell {
				u := uint32(rec >> 32)
				if _, ok := ids[u]; !ok {
					if uint32(len(ids)) >= capacity {
						return ErrRenameTableOverflow
					}
					ids[u] = uint32(len(ids))
				}
			}
		}
		table := make([]uint32, len(ids))
		for u, uid := range ids {
			table[uid] = u
		}
		rename[x] = table
		for i, cell := range row {
			for j, rec := range cell {
				v := uint32(rec)
				cell[j] = uint64(ids[uint32(rec>>32)])<<32 | uint64(v)
			}
			row[i] = cell
		}
	}
	return nil
}
