package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type NewsService struct {
	DB *sql.DB
}

func NewNewsService(db *sql.DB) *NewsService {
	return &NewsService{DB: db}
}

// ListNewsByIPO returns the news records of one offering, newest first.
func (s *NewsService) ListNewsByIPO(ctx context.Context, ipoID uuid.UUID) ([]models.IPONews, error) {
	query := `SELECT id, ipo_id, title, content, source, source_url, created_at, created_by
		FROM ipo_news WHERE ipo_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, ipoID)
	if err != nil {
		return nil, shared.NewDatabaseError("news-service", "ListNewsByIPO", err)
	}
	defer rows.Close()

	news := []models.IPONews{}
	for rows.Next() {
		var n models.IPONews
		var createdBy uuid.NullUUID
		if err := rows.Scan(&n.ID, &n.IPOID, &n.Title, &n.Content, &n.Source, &n.SourceURL,
			&n.CreatedAt, &createdBy); err != nil {
			return nil, shared.NewDatabaseError("news-service", "ListNewsByIPO", err)
		}
		if createdBy.Valid {
			n.CreatedBy = &createdBy.UUID
		}
		news = append(news, n)
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("news-service", "ListNewsByIPO", err)
	}

	return news, nil
}

// CreateNews inserts a news record for an offering.
func (s *NewsService) CreateNews(ctx context.Context, news *models.IPONews, actor uuid.UUID) error {
	fields := map[string]string{}
	if news.IPOID == uuid.Nil {
		fields["ipo_id"] = "ipo is required"
	}
	if strings.TrimSpace(news.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(news.Content) == "" {
		fields["content"] = "content is required"
	}
	if len(fields) > 0 {
		return shared.NewValidationError("news-service", "CreateNews", "invalid news data", fields)
	}

	query := `INSERT INTO ipo_news (ipo_id, title, content, source, source_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`

	err := s.DB.QueryRowContext(ctx, query,
		news.IPOID, news.Title, news.Content, news.Source, news.SourceURL, actor,
	).Scan(&news.ID, &news.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return shared.NewValidationError("news-service", "CreateNews", "IPO does not exist",
				map[string]string{"ipo_id": "no such IPO"})
		}
		return shared.NewDatabaseError("news-service", "CreateNews", err)
	}
	news.CreatedBy = &actor

	logrus.WithFields(logrus.Fields{
		"news_id": news.ID,
		"ipo_id":  news.IPOID,
	}).Info("News created")

	return nil
}

// DeleteNews removes a news record.
func (s *NewsService) DeleteNews(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM ipo_news WHERE id = $1`, id)
	if err != nil {
		return shared.NewDatabaseError("news-service", "DeleteNews", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shared.NewNotFoundError("news-service", "DeleteNews", "news not found")
	}

	logrus.WithField("news_id", id).Info("News deleted")
	return nil
}
