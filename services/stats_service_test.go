package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestStatusBreakdown(t *testing.T) {
	t.Run("closed is the residual", func(t *testing.T) {
		b := statusBreakdown(20, 5, 3, 7)
		require.Equal(t, 5, b.Upcoming)
		require.Equal(t, 3, b.Open)
		require.Equal(t, 7, b.Listed)
		require.Equal(t, 5, b.Closed)
	})

	t.Run("withdrawn rows land in closed", func(t *testing.T) {
		// 10 total, 2 upcoming, 1 open, 4 listed, 1 withdrawn: the
		// withdrawn row is indistinguishable from closed in the breakdown.
		b := statusBreakdown(10, 2, 1, 4)
		require.Equal(t, 3, b.Closed)
	})

	t.Run("empty table", func(t *testing.T) {
		b := statusBreakdown(0, 0, 0, 0)
		require.Zero(t, b.Upcoming)
		require.Zero(t, b.Open)
		require.Zero(t, b.Listed)
		require.Zero(t, b.Closed)
	})
}

func TestStatusBreakdownProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("buckets always sum back to the total", prop.ForAll(
		func(upcoming, open, listed, closed int) bool {
			total := upcoming + open + listed + closed
			b := statusBreakdown(total, upcoming, open, listed)
			return b.Upcoming+b.Open+b.Listed+b.Closed == total
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
	))

	properties.Property("named buckets pass through unchanged", prop.ForAll(
		func(total, upcoming, open, listed int) bool {
			b := statusBreakdown(total, upcoming, open, listed)
			return b.Upcoming == upcoming && b.Open == open && b.Listed == listed
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
