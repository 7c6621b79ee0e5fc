package cuckoocycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixAddAndAccessors(t *testing.T) {
	p, err := NewParams(21) // XBits 3: an 8x8 matrix, room for cells up to (3, 2)
	require.NoError(t, err)
	m := newMatrix(p)

	require.NoError(t, m.add(0, 1, 0xdead))
	require.NoError(t, m.add(0, 2, 0xbeef))
	require.NoError(t, m.add(3, 1, 0xf00d))

	row0 := m.row(0)
	require.Equal(t, bucket{0xdead}, row0[1])
	require.Equal(t, bucket{0xbeef}, row0[2])

	col1 := m.col(1)
	require.Equal(t, bucket{0xdead}, *col1[0])
	require.Equal(t, bucket{0xf00d}, *col1[3])
}

func TestMatrixColMutationIsVisibleThroughRow(t *testing.T) {
	p, err := NewParams(21) // XBits 3: an 8x8 matrix, room for cell (2, 5)
	require.NoError(t, err)
	m := newMatrix(p)
	require.NoError(t, m.add(2, 5, 1))

	col := m.col(5)
	*col[2] = append(*col[2], 2)

	row := m.row(2)
	require.Equal(t, bucket{1, 2}, row[5])
}

func TestMatrixAddRejectsOverflow(t *testing.T) {
	p, err := NewParams(16)
	require.NoError(t, err)
	m := newMatrix(p)

	limit := m.capHint * bucketHardCap
	var lastErr error
	for i := 0; i < limit+1; i++ {
		lastErr = m.add(0, 0, uint64(i))
	}
	require.ErrorIs(t, lastErr, ErrBucketOverflow)
}

func TestMatrixResetClearsBuckets(t *testing.T) {
	p, err := NewParams(16)
	require.NoError(t, err)
	m := newMatrix(p)
	require.NoError(t, m.add(0, 0, 1))
	m.reset()
	require.Empty(t, m.row(0)[0])
}
