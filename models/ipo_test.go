package models

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dayOffset(base time.Time, days int) time.Time {
	return base.AddDate(0, 0, days)
}

func TestLifecycleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		openIn   int
		closeIn  int
		status   string
		expected string
		isOpen   bool
	}{
		{"future window is upcoming", 3, 6, StatusUpcoming, LifecycleUpcoming, false},
		{"window containing today is open", -1, 2, StatusOpen, LifecycleOpen, true},
		{"opens today is open", 0, 3, StatusUpcoming, LifecycleOpen, true},
		{"closes today is still open", -3, 0, StatusOpen, LifecycleOpen, true},
		{"past window with closed status", -10, -7, StatusClosed, LifecycleClosed, false},
		{"past window with listed status", -60, -57, StatusListed, LifecycleListed, false},
		{"past window with withdrawn status counts as closed", -30, -27, StatusWithdrawn, LifecycleClosed, false},
		{"stored listed before close still reads from dates", -1, 2, StatusListed, LifecycleOpen, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ipo := IPO{
				OpenDate:  dayOffset(now, tc.openIn),
				CloseDate: dayOffset(now, tc.closeIn),
				Status:    tc.status,
			}
			require.Equal(t, tc.expected, ipo.Lifecycle(now))
			require.Equal(t, tc.isOpen, ipo.IsOpen(now))
		})
	}
}

func TestDayCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	ipo := IPO{
		OpenDate:  dayOffset(now, 4),
		CloseDate: dayOffset(now, 7),
	}
	require.Equal(t, 4, ipo.DaysToOpen(now))
	require.Equal(t, 7, ipo.DaysToClose(now))

	past := IPO{
		OpenDate:  dayOffset(now, -10),
		CloseDate: dayOffset(now, -7),
	}
	require.Equal(t, 0, past.DaysToOpen(now))
	require.Equal(t, 0, past.DaysToClose(now))
}

func TestDisplayStrings(t *testing.T) {
	ipo := IPO{
		IssueSize:     decimal.RequireFromString("1200.50"),
		PriceRangeMin: decimal.RequireFromString("310"),
		PriceRangeMax: decimal.RequireFromString("326"),
	}
	require.Equal(t, "₹310 - ₹326", ipo.PriceRange())
	require.Equal(t, "₹1200.5 crores", ipo.TotalIssueValue())
}

func TestIsSubscribed(t *testing.T) {
	require.False(t, (&IPO{TotalSubscription: decimal.RequireFromString("0.85")}).IsSubscribed())
	require.False(t, (&IPO{TotalSubscription: decimal.RequireFromString("1")}).IsSubscribed())
	require.True(t, (&IPO{TotalSubscription: decimal.RequireFromString("12.4")}).IsSubscribed())
}

func TestNewIPOViewProjectsComputedFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ipo := IPO{
		OpenDate:      dayOffset(now, 2),
		CloseDate:     dayOffset(now, 5),
		Status:        StatusUpcoming,
		IssueSize:     decimal.RequireFromString("900"),
		PriceRangeMin: decimal.RequireFromString("100"),
		PriceRangeMax: decimal.RequireFromString("110"),
	}

	view := NewIPOView(&ipo, now)
	require.Equal(t, LifecycleUpcoming, view.Lifecycle)
	require.False(t, view.IsOpen)
	require.Equal(t, 2, view.DaysToOpen)
	require.Equal(t, 5, view.DaysToClose)
	require.Equal(t, "₹100 - ₹110", view.PriceRange)
	require.Equal(t, "₹900 crores", view.TotalIssueValue)
	require.False(t, view.IsSubscribed)
}

// Three offerings whose stored statuses were never updated after the
// dates moved on: classification must follow the dates, with the stored
// status consulted only to split listed from closed.
func TestStaleStoredStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	stillMarkedUpcoming := IPO{
		OpenDate:  dayOffset(now, -2),
		CloseDate: dayOffset(now, 1),
		Status:    StatusUpcoming,
	}
	require.Equal(t, LifecycleOpen, stillMarkedUpcoming.Lifecycle(now))
	require.True(t, stillMarkedUpcoming.IsOpen(now))

	stillMarkedOpen := IPO{
		OpenDate:  dayOffset(now, -15),
		CloseDate: dayOffset(now, -12),
		Status:    StatusOpen,
	}
	require.Equal(t, LifecycleClosed, stillMarkedOpen.Lifecycle(now))
	require.False(t, stillMarkedOpen.IsOpen(now))

	promotedToListed := IPO{
		OpenDate:  dayOffset(now, -15),
		CloseDate: dayOffset(now, -12),
		Status:    StatusListed,
	}
	require.Equal(t, LifecycleListed, promotedToListed.Lifecycle(now))
}

// Offsets include inverted windows so totality is exercised, not just
// well-formed records.
func TestClassifierProperties(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	properties := gopter.NewProperties(nil)

	properties.Property("is_open is exactly the inclusive date window", prop.ForAll(
		func(openOffset, closeOffset int) bool {
			ipo := IPO{
				OpenDate:  dayOffset(now, openOffset),
				CloseDate: dayOffset(now, closeOffset),
			}
			expected := openOffset <= 0 && closeOffset >= 0
			return ipo.IsOpen(now) == expected
		},
		gen.IntRange(-365, 365),
		gen.IntRange(-365, 365),
	))

	properties.Property("day counts are never negative", prop.ForAll(
		func(openOffset, closeOffset int) bool {
			ipo := IPO{
				OpenDate:  dayOffset(now, openOffset),
				CloseDate: dayOffset(now, closeOffset),
			}
			return ipo.DaysToOpen(now) >= 0 && ipo.DaysToClose(now) >= 0
		},
		gen.IntRange(-365, 365),
		gen.IntRange(-365, 365),
	))

	properties.Property("classification is total and returns a known bucket", prop.ForAll(
		func(openOffset, closeOffset int, status string) bool {
			ipo := IPO{
				OpenDate:  dayOffset(now, openOffset),
				CloseDate: dayOffset(now, closeOffset),
				Status:    status,
			}
			switch ipo.Lifecycle(now) {
			case LifecycleUpcoming, LifecycleOpen, LifecycleClosed, LifecycleListed:
				return true
			}
			return false
		},
		gen.IntRange(-365, 365),
		gen.IntRange(-365, 365),
		gen.OneConstOf(StatusUpcoming, StatusOpen, StatusClosed, StatusListed, StatusWithdrawn, ""),
	))

	properties.Property("open bucket and is_open agree", prop.ForAll(
		func(openOffset, closeOffset int, status string) bool {
			ipo := IPO{
				OpenDate:  dayOffset(now, openOffset),
				CloseDate: dayOffset(now, closeOffset),
				Status:    status,
			}
			if ipo.Lifecycle(now) == LifecycleOpen {
				return ipo.IsOpen(now)
			}
			return true
		},
		gen.IntRange(-365, 365),
		gen.IntRange(-365, 365),
		gen.OneConstOf(StatusUpcoming, StatusOpen, StatusClosed, StatusListed, StatusWithdrawn),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
