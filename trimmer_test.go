package cuckoocycle

import (
	"context"
	"testing"

	"github.com/HalalChain/cuckoocycle/siphash"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestTrimRoundsAreMonotonicNonIncreasing exercises testable property 7
// (trim monotonicity): the surviving-record count reported at each trim
// round's log line must never increase from one round to the next, since a
// trim round only ever drops records with degree less than two.
func TestTrimRoundsAreMonotonicNonIncreasing(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	p, err := NewParams(16)
	require.NoError(t, err)
	keys := siphash.Keys(HeaderKeys([]byte("trim monotonicity fixture")))

	tr := newTrimmer(p, keys, 4, logger)
	_, err = tr.run(context.Background())
	require.NoError(t, err)

	var counts []int64
	for _, entry := range logs.All() {
		if entry.Message != "cuckoocycle: trim round complete" {
			continue
		}
		for _, f := range entry.Context {
			if f.Key == "survivingRecords" {
				counts = append(counts, f.Integer)
			}
		}
	}
	require.NotEmpty(t, counts, "expected at least one trim round log line")
	for i := 1; i < len(counts); i++ {
		require.LessOrEqualf(t, counts[i], counts[i-1],
			"surviving record count rose from %d to %d between logged rounds", counts[i-1], counts[i])
	}
}

// TestTrimLogsAreSilentByDefault checks that the no-op logger installed by
// default costs nothing beyond the flag check: no phase log line is ever
// emitted unless a caller opts in with a real logger.
func TestTrimLogsAreSilentByDefault(t *testing.T) {
	p, err := NewParams(16)
	require.NoError(t, err)
	keys := siphash.Keys(HeaderKeys([]byte("silent by default fixture")))

	tr := newTrimmer(p, keys, 2, nil)
	require.False(t, tr.logger.Core().Enabled(zap.DebugLevel))
}
