package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/ipotrack/ipo-backend/models"
	"github.com/stretchr/testify/require"
)

func TestActorName(t *testing.T) {
	require.Equal(t, "admin", actorName(sql.NullString{String: "admin", Valid: true}))
	require.Equal(t, "System", actorName(sql.NullString{}))
	require.Equal(t, "System", actorName(sql.NullString{String: "", Valid: true}))
}

func eventAt(kind string, offset time.Duration, label string) models.ActivityEvent {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return models.ActivityEvent{
		Type:      kind,
		Message:   label,
		User:      "admin",
		Timestamp: base.Add(offset),
	}
}

func TestBuildActivityFeed(t *testing.T) {
	t.Run("merges newest first", func(t *testing.T) {
		companies := []models.ActivityEvent{
			eventAt(models.ActivityCompanyCreated, 3*time.Hour, "c1"),
			eventAt(models.ActivityCompanyCreated, 1*time.Hour, "c2"),
		}
		ipos := []models.ActivityEvent{
			eventAt(models.ActivityIPOCreated, 2*time.Hour, "i1"),
			eventAt(models.ActivityIPOCreated, 0, "i2"),
		}

		feed := buildActivityFeed(companies, ipos)
		require.Len(t, feed, 4)
		labels := []string{feed[0].Message, feed[1].Message, feed[2].Message, feed[3].Message}
		require.Equal(t, []string{"c1", "i1", "c2", "i2"}, labels)
	})

	t.Run("caps the merged feed", func(t *testing.T) {
		var companies, ipos []models.ActivityEvent
		for i := 0; i < activityFetchLimit+5; i++ {
			companies = append(companies, eventAt(models.ActivityCompanyCreated, time.Duration(-i)*time.Hour, fmt.Sprintf("c%d", i)))
			ipos = append(ipos, eventAt(models.ActivityIPOCreated, time.Duration(-i)*time.Minute, fmt.Sprintf("i%d", i)))
		}

		feed := buildActivityFeed(companies, ipos)
		require.Len(t, feed, activityFeedLimit)
	})

	t.Run("equal timestamps keep companies ahead", func(t *testing.T) {
		companies := []models.ActivityEvent{eventAt(models.ActivityCompanyCreated, 0, "company")}
		ipos := []models.ActivityEvent{eventAt(models.ActivityIPOCreated, 0, "ipo")}

		feed := buildActivityFeed(companies, ipos)
		require.Equal(t, "company", feed[0].Message)
		require.Equal(t, "ipo", feed[1].Message)
	})

	t.Run("empty inputs yield empty feed", func(t *testing.T) {
		feed := buildActivityFeed(nil, nil)
		require.NotNil(t, feed)
		require.Empty(t, feed)
	})
}
