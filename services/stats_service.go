package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
	"github.com/shopspring/decimal"
)

type StatsService struct {
	DB *sql.DB
}

func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{DB: db}
}

// recentWindow is the trailing window for the recent-activity counts,
// inclusive of the boundary instant.
const recentWindow = 7 * 24 * time.Hour

// GetDashboardStats aggregates the dashboard payload at one instant. Any
// query failure aborts the whole request; a partial payload is never
// returned.
func (s *StatsService) GetDashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	totalCompanies, err := s.countRow(ctx, `SELECT COUNT(*) FROM companies`)
	if err != nil {
		return nil, err
	}
	totalIPOs, err := s.countRow(ctx, `SELECT COUNT(*) FROM ipos`)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.countRow(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return nil, err
	}

	// upcoming and open come from the date windows, not the stored status.
	upcoming, err := s.countRow(ctx, `SELECT COUNT(*) FROM ipos WHERE open_date > $1::date`, now)
	if err != nil {
		return nil, err
	}
	open, err := s.countRow(ctx, `SELECT COUNT(*) FROM ipos WHERE open_date <= $1::date AND close_date >= $1::date`, now)
	if err != nil {
		return nil, err
	}
	// listed comes from the stored status field.
	listed, err := s.countRow(ctx, `SELECT COUNT(*) FROM ipos WHERE status = $1`, models.StatusListed)
	if err != nil {
		return nil, err
	}

	weekAgo := now.Add(-recentWindow)
	recentCompanies, err := s.countRow(ctx, `SELECT COUNT(*) FROM companies WHERE created_at >= $1`, weekAgo)
	if err != nil {
		return nil, err
	}
	recentIPOs, err := s.countRow(ctx, `SELECT COUNT(*) FROM ipos WHERE created_at >= $1`, weekAgo)
	if err != nil {
		return nil, err
	}

	var totalIssueSize decimal.NullDecimal
	if err := s.DB.QueryRowContext(ctx, `SELECT SUM(issue_size) FROM ipos`).Scan(&totalIssueSize); err != nil {
		return nil, shared.NewDatabaseError("stats-service", "GetDashboardStats", err)
	}

	return &models.DashboardStats{
		Overview: models.Overview{
			TotalCompanies: totalCompanies,
			TotalIPOs:      totalIPOs,
			TotalUsers:     totalUsers,
			TotalIssueSize: zeroIfNull(totalIssueSize).String(),
		},
		IPOStatus: statusBreakdown(totalIPOs, upcoming, open, listed),
		RecentActivity: models.RecentActivityStats{
			CompaniesAdded: recentCompanies,
			IPOsAdded:      recentIPOs,
		},
	}, nil
}

// statusBreakdown derives closed as the residual, which folds Withdrawn
// and any rows whose stored status disagrees with their dates into the
// closed figure.
func statusBreakdown(total, upcoming, open, listed int) models.IPOStatusBreakdown {
	return models.IPOStatusBreakdown{
		Upcoming: upcoming,
		Open:     open,
		Listed:   listed,
		Closed:   total - upcoming - open - listed,
	}
}

func (s *StatsService) countRow(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, shared.NewDatabaseError("stats-service", "countRow", err)
	}
	return n, nil
}
