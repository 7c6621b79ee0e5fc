package cuckoocycle

import "github.com/pkg/errors"

// Sentinel errors returned by this package. Callers should compare against
// these with errors.Is rather than matching on message text.
var (
	// ErrUnsupportedEdgeBits is returned when edgeBits falls outside the
	// dispatch table's supported range.
	ErrUnsupportedEdgeBits = errors.New("cuckoocycle: unsupported edge bits")

	// ErrBucketOverflow is returned when a bucket's record count exceeds
	// its guard capacity during trimming. This should be astronomically
	// unlikely for a well-formed siphash key; it exists as a defensive
	// invariant rather than a routine failure mode.
	ErrBucketOverflow = errors.New("cuckoocycle: bucket overflow during trim")

	// ErrRenameTableOverflow is returned when a compression round needs
	// to assign more distinct ids than its rename table can hold.
	ErrRenameTableOverflow = errors.New("cuckoocycle: rename table overflow")

	// ErrInvalidProofSize is returned when proofSize is zero, odd, or too
	// large to ever complete a cycle within the graph.
	ErrInvalidProofSize = errors.New("cuckoocycle: invalid proof size")

	// ErrNoCycle is never returned by Solve itself (an empty result means
	// no cycle), but is used internally by the edge matcher to report a
	// candidate cycle whose edges cannot all be recovered.
	ErrNoCycle = errors.New("cuckoocycle: no cycle")

	// ErrWrongProofSize is returned by Verify when the supplied cycle's
	// length does not match proofSize.
	ErrWrongProofSize = errors.New("cuckoocycle: cycle length does not match proof size")

	// ErrDuplicateEdge is returned by Verify when the same edge index
	// appears twice in a cycle or the indices are not strictly ascending.
	ErrDuplicateEdge = errors.New("cuckoocycle: duplicate edge in cycle")

	// ErrEdgeOutOfRange is returned by Verify when a nonce is not below
	// the graph's edge count (2^edgeBits) for the requested edgeBits.
	ErrEdgeOutOfRange = errors.New("cuckoocycle: edge index out of range")

	// ErrNotACycle is returned by Verify when the edges do not form a
	// single closed cycle touching every node exactly twice.
	ErrNotACycle = errors.New("cuckoocycle: edges do not form a cycle")
)
