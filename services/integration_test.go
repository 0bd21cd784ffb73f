package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ipotrack/ipo-backend/models"
)

// openTestDB connects to TEST_DATABASE_URL and loads the schema, or skips
// the test when no database is available.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration tests - TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Skipf("Skipping integration tests - database not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration tests - database ping failed: %v", err)
	}

	schema, err := os.ReadFile("../database/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestOfferingLifecycleIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	auth := NewAuthService(db, "integration-secret", time.Hour, 24*time.Hour)
	admin, err := auth.GetOrCreateAdminUser(ctx, "it-admin", "it-admin@example.com", "integration-pass")
	require.NoError(t, err)

	companies := NewCompanyService(db)
	company := &models.Company{Name: fmt.Sprintf("Integration Co %d", time.Now().UnixNano())}
	require.NoError(t, companies.CreateCompany(ctx, company, admin.ID))
	t.Cleanup(func() { companies.DeleteCompany(ctx, company.ID) })

	ipos := NewIPOService(db)
	ipo := &models.IPO{
		CompanyID:     company.ID,
		IssueSize:     decimal.RequireFromString("1500"),
		PriceRangeMin: decimal.RequireFromString("200"),
		PriceRangeMax: decimal.RequireFromString("220"),
		OpenDate:      now.AddDate(0, 0, 3),
		CloseDate:     now.AddDate(0, 0, 6),
		ListingDate:   now.AddDate(0, 0, 12),
		Board:         models.BoardMain,
		Status:        models.StatusUpcoming,
		LotSize:       25,
	}
	require.NoError(t, ipos.CreateIPO(ctx, ipo, admin.ID))

	t.Run("upcoming filter finds the new offering", func(t *testing.T) {
		views, err := ipos.ListIPOs(ctx, IPOQuery{FilterStatus: "upcoming"}, now)
		require.NoError(t, err)

		found := false
		for _, v := range views {
			if v.ID == ipo.ID {
				found = true
				require.Equal(t, models.LifecycleUpcoming, v.Lifecycle)
				require.False(t, v.IsOpen)
			}
		}
		require.True(t, found)
	})

	t.Run("open filter excludes it", func(t *testing.T) {
		views, err := ipos.ListIPOs(ctx, IPOQuery{FilterStatus: "open"}, now)
		require.NoError(t, err)
		for _, v := range views {
			require.NotEqual(t, ipo.ID, v.ID)
		}
	})

	t.Run("free text search matches the company name", func(t *testing.T) {
		views, err := ipos.ListIPOs(ctx, IPOQuery{Search: "integration co"}, now)
		require.NoError(t, err)

		found := false
		for _, v := range views {
			if v.ID == ipo.ID {
				found = true
			}
		}
		require.True(t, found)
	})

	t.Run("dashboard stats count it", func(t *testing.T) {
		stats := NewStatsService(db)
		result, err := stats.GetDashboardStats(ctx, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.Overview.TotalIPOs, 1)
		require.GreaterOrEqual(t, result.IPOStatus.Upcoming, 1)
	})

	t.Run("activity feed records the creations", func(t *testing.T) {
		activity := NewActivityService(db)
		events, err := activity.GetRecentActivity(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, events)
		require.LessOrEqual(t, len(events), activityFeedLimit)
	})
}
