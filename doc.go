// Package cuckoocycle implements John Tromp's Cuckoo Cycle proof-of-work:
// given a header-derived key it enumerates the implicit bipartite graph of
// 2^edgeBits edges, trims edges that cannot lie on a fixed-length cycle, and
// reports every simple cycle of the requested length that survives.
//
// The heavy lifting lives in a bucket-sorting trimmer (trimmer.go) that
// alternates degree-1 edge elimination between the two sides of the graph,
// a small union-by-splice cycle finder (solver.go), and an edge-recovery
// matcher (matcher.go) that turns a found cycle's compressed endpoints back
// into the original 32-bit edge indices.
//
// Nothing here talks to a network, a database, or a GPU: callers hand this
// package a header and get back cycles.
package cuckoocycle
