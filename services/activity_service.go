package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
)

type ActivityService struct {
	DB *sql.DB
}

func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{DB: db}
}

const (
	activityFetchLimit = 10
	activityFeedLimit  = 20
)

// GetRecentActivity returns the merged creation-event feed: up to ten of
// the newest companies and ten of the newest offerings, newest first,
// capped at twenty entries.
func (s *ActivityService) GetRecentActivity(ctx context.Context) ([]models.ActivityEvent, error) {
	companyEvents, err := s.fetchCompanyEvents(ctx)
	if err != nil {
		return nil, err
	}
	ipoEvents, err := s.fetchIPOEvents(ctx)
	if err != nil {
		return nil, err
	}
	return buildActivityFeed(companyEvents, ipoEvents), nil
}

func (s *ActivityService) fetchCompanyEvents(ctx context.Context) ([]models.ActivityEvent, error) {
	query := `SELECT c.id, c.name, c.created_at, u.username
		FROM companies c
		LEFT JOIN users u ON u.id = c.created_by
		ORDER BY c.created_at DESC
		LIMIT $1`

	rows, err := s.DB.QueryContext(ctx, query, activityFetchLimit)
	if err != nil {
		return nil, shared.NewDatabaseError("activity-service", "fetchCompanyEvents", err)
	}
	defer rows.Close()

	events := []models.ActivityEvent{}
	for rows.Next() {
		var e models.ActivityEvent
		var name string
		var username sql.NullString
		if err := rows.Scan(&e.ObjectID, &name, &e.Timestamp, &username); err != nil {
			return nil, shared.NewDatabaseError("activity-service", "fetchCompanyEvents", err)
		}
		e.Type = models.ActivityCompanyCreated
		e.Message = fmt.Sprintf("Company %q was created", name)
		e.User = actorName(username)
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("activity-service", "fetchCompanyEvents", err)
	}
	return events, nil
}

func (s *ActivityService) fetchIPOEvents(ctx context.Context) ([]models.ActivityEvent, error) {
	query := `SELECT i.id, c.name, i.created_at, u.username
		FROM ipos i
		JOIN companies c ON c.id = i.company_id
		LEFT JOIN users u ON u.id = i.created_by
		ORDER BY i.created_at DESC
		LIMIT $1`

	rows, err := s.DB.QueryContext(ctx, query, activityFetchLimit)
	if err != nil {
		return nil, shared.NewDatabaseError("activity-service", "fetchIPOEvents", err)
	}
	defer rows.Close()

	events := []models.ActivityEvent{}
	for rows.Next() {
		var e models.ActivityEvent
		var companyName string
		var username sql.NullString
		if err := rows.Scan(&e.ObjectID, &companyName, &e.Timestamp, &username); err != nil {
			return nil, shared.NewDatabaseError("activity-service", "fetchIPOEvents", err)
		}
		e.Type = models.ActivityIPOCreated
		e.Message = fmt.Sprintf("IPO for %q was created", companyName)
		e.User = actorName(username)
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("activity-service", "fetchIPOEvents", err)
	}
	return events, nil
}

// actorName renders a missing creator reference as the literal "System".
func actorName(username sql.NullString) string {
	if username.Valid && username.String != "" {
		return username.String
	}
	return "System"
}

// buildActivityFeed merges the two event lists newest-first and caps the
// result. The sort is stable: entries with equal timestamps keep their
// relative order (companies ahead of offerings, each already newest-first).
func buildActivityFeed(companyEvents, ipoEvents []models.ActivityEvent) []models.ActivityEvent {
	feed := make([]models.ActivityEvent, 0, len(companyEvents)+len(ipoEvents))
	feed = append(feed, companyEvents...)
	feed = append(feed, ipoEvents...)

	sort.SliceStable(feed, func(a, b int) bool {
		return feed[a].Timestamp.After(feed[b].Timestamp)
	})

	if len(feed) > activityFeedLimit {
		feed = feed[:activityFeedLimit]
	}
	return feed
}
