package cuckoocycle

// bucket holds packed (a<<32)|b node-pair records for one (x, y) cell of
// the bucket matrix. Records are appended during a generation or trim round
// and replaced wholesale at the start of the next one.
type bucket []uint64

// bucketCapHint returns a starting capacity for a bucket sized against the
// expected number of edges landing in an NZ-wide column, with slack for
// Poisson variance the same way the reference solver's ZBUCKETSIZE does
// (nominal size plus roughly 5/64 headroom).
func bucketCapHint(nz uint32) int {
	n := int(nz)
	return n + n*5/64
}

// bucketHardCap is the multiple of the nominal capacity a bucket may grow
// to before a round is aborted with ErrBucketOverflow. Go slices grow
// automatically, so this exists purely as a defensive invariant against a
// pathological siphash key skewing far more edges into one bucket than any
// real header could produce.
const bucketHardCap = 8

// matrix is the NX-by-NX bucket matrix described by the bucket matrix
// component: buckets[x][y] holds every record whose first coordinate's X
// partition is x and whose second coordinate's X partition is y.
type matrix struct {
	p       *Params
	buckets [][]bucket
	capHint int
}

func newMatrix(p *Params) *matrix {
	nx := int(p.NX)
	m := &matrix{p: p, capHint: bucketCapHint(p.NZ)}
	m.buckets = make([][]bucket, nx)
	for x := range m.buckets {
		m.buckets[x] = make([]bucket, nx)
	}
	return m
}

// reset drops every bucket's contents (but keeps the outer NX*NX shape) so
// the matrix can be reused for the next generation or trim round without
// reallocating the top-level slices.
func (m *matrix) reset() {
	for x := range m.buckets {
		row := m.buckets[x]
		for y := range row {
			row[y] = nil
		}
	}
}

// add appends a packed record to bucket (x, y), returning ErrBucketOverflow
// if doing so would push the bucket past its guard capacity.
func (m *matrix) add(x, y uint32, rec uint64) error {
	b := m.buckets[x][y]
	if len(b) >= m.capHint*bucketHardCap {
		return ErrBucketOverflow
	}
	if b == nil {
		b = make(bucket, 0, m.capHint)
	}
	m.buckets[x][y] = append(b, rec)
	return nil
}

// row returns the NX buckets sharing first coordinate x, i.e. matrix[x][*].
func (m *matrix) row(x uint32) []bucket {
	return m.buckets[x]
}

// col returns the NX buckets sharing second coordinate y, i.e. matrix[*][y],
// materialized as pointers so callers can replace individual cells in
// place without re-walking the matrix.
func (m *matrix) col(y uint32) []*bucket {
	out := make([]*bucket, len(m.buckets))
	for x := range m.buckets {
		out[x] = &m.buckets[x][y]
	}
	return out
}
