package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type IPOService struct {
	DB *sql.DB
}

func NewIPOService(db *sql.DB) *IPOService {
	return &IPOService{DB: db}
}

// IPOQuery carries the filter, search and ordering parameters of a list
// request. Structured filters narrow the SQL query; free text is applied
// afterwards as a single per-row predicate so a record matching several
// search fields appears exactly once.
type IPOQuery struct {
	Board        string
	Status       string
	Sector       string
	Featured     *bool
	Recommended  *bool
	FilterStatus string
	Search       string
	Ordering     string
}

// MatchesText reports whether the row matches the free-text query: an OR
// across company name, company sector, company industry and registrar,
// case-insensitive substring. An empty query matches everything.
func (q *IPOQuery) MatchesText(ipo *models.IPO) bool {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(ipo.CompanyName), needle) {
		return true
	}
	if ipo.CompanySector != nil && strings.Contains(strings.ToLower(*ipo.CompanySector), needle) {
		return true
	}
	if ipo.CompanyIndustry != nil && strings.Contains(strings.ToLower(*ipo.CompanyIndustry), needle) {
		return true
	}
	if ipo.Registrar != nil && strings.Contains(strings.ToLower(*ipo.Registrar), needle) {
		return true
	}
	return false
}

const ipoSelectColumns = `i.id, i.company_id, c.name, c.sector, c.industry, c.logo_url,
	i.issue_size, i.price_range_min, i.price_range_max, i.listing_price,
	i.open_date, i.close_date, i.listing_date,
	i.board, i.status, i.lot_size,
	i.total_subscription, i.retail_subscription, i.institutional_subscription,
	i.registrar, i.lead_managers, i.listing_gains, i.current_price,
	i.is_featured, i.is_recommended,
	i.created_at, i.updated_at, i.created_by, i.updated_by`

const ipoBaseQuery = `SELECT ` + ipoSelectColumns + `
	FROM ipos i
	JOIN companies c ON c.id = i.company_id`

// ipoOrderings whitelists the ordering fields a caller may request.
var ipoOrderings = map[string]string{
	"open_date":    "i.open_date",
	"close_date":   "i.close_date",
	"listing_date": "i.listing_date",
	"issue_size":   "i.issue_size",
	"created_at":   "i.created_at",
}

const defaultIPOOrdering = "i.created_at DESC"

// orderClause resolves an ordering token ("open_date", "-issue_size", ...)
// against the whitelist. Unknown tokens fall back to the default
// (most-recently-created first) rather than erroring.
func orderClause(ordering string) string {
	field := strings.TrimSpace(ordering)
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	column, ok := ipoOrderings[field]
	if !ok {
		return defaultIPOOrdering
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// buildIPOListQuery composes the SQL for a list request. The lifecycle
// token translates to date-window predicates; unrecognized tokens add no
// condition. Kept separate from execution so the composition is testable.
func buildIPOListQuery(q IPOQuery, now time.Time) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	addArg := func(v interface{}) int {
		args = append(args, v)
		idx := argIndex
		argIndex++
		return idx
	}

	if q.Board != "" {
		conditions = append(conditions, fmt.Sprintf("i.board = $%d", addArg(q.Board)))
	}
	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", addArg(q.Status)))
	}
	if q.Sector != "" {
		conditions = append(conditions, fmt.Sprintf("c.sector = $%d", addArg(q.Sector)))
	}
	if q.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("i.is_featured = $%d", addArg(*q.Featured)))
	}
	if q.Recommended != nil {
		conditions = append(conditions, fmt.Sprintf("i.is_recommended = $%d", addArg(*q.Recommended)))
	}

	switch q.FilterStatus {
	case "upcoming":
		conditions = append(conditions, fmt.Sprintf("i.open_date > $%d::date", addArg(now)))
	case "open":
		idx := addArg(now)
		conditions = append(conditions, fmt.Sprintf("i.open_date <= $%d::date AND i.close_date >= $%d::date", idx, idx))
	case "closed":
		conditions = append(conditions, fmt.Sprintf("i.close_date < $%d::date AND i.status IN ('CLOSED', 'LISTED')", addArg(now)))
	case "listed":
		conditions = append(conditions, "i.status = 'LISTED'")
	default:
		// Unknown or absent tokens add no condition.
	}

	query := ipoBaseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + orderClause(q.Ordering)

	return query, args
}

// ListIPOs returns the read-model views matching the composed filter,
// classified at the given instant.
func (s *IPOService) ListIPOs(ctx context.Context, q IPOQuery, now time.Time) ([]models.IPOView, error) {
	query, args := buildIPOListQuery(q, now)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "ListIPOs", err)
	}
	defer rows.Close()

	views := []models.IPOView{}
	for rows.Next() {
		ipo, err := scanIPO(rows)
		if err != nil {
			return nil, shared.NewDatabaseError("ipo-service", "ListIPOs", err)
		}
		if !q.MatchesText(ipo) {
			continue
		}
		views = append(views, models.NewIPOView(ipo, now))
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "ListIPOs", err)
	}

	return views, nil
}

// GetIPOByID returns the detail view with documents and news attached, or
// nil when no such record exists.
func (s *IPOService) GetIPOByID(ctx context.Context, id uuid.UUID, now time.Time) (*models.IPOView, error) {
	row := s.DB.QueryRowContext(ctx, ipoBaseQuery+" WHERE i.id = $1", id)
	ipo, err := scanIPO(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, shared.NewDatabaseError("ipo-service", "GetIPOByID", err)
	}

	view := models.NewIPOView(ipo, now)

	if view.Documents, err = s.fetchDocuments(ctx, id); err != nil {
		return nil, err
	}
	if view.News, err = s.fetchNews(ctx, id); err != nil {
		return nil, err
	}

	return &view, nil
}

func (s *IPOService) fetchDocuments(ctx context.Context, ipoID uuid.UUID) ([]models.IPODocument, error) {
	query := `SELECT id, ipo_id, document_type, title, file_path, description, created_at, uploaded_by
		FROM ipo_documents WHERE ipo_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, ipoID)
	if err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "fetchDocuments", err)
	}
	defer rows.Close()

	docs := []models.IPODocument{}
	for rows.Next() {
		var doc models.IPODocument
		var uploadedBy uuid.NullUUID
		if err := rows.Scan(&doc.ID, &doc.IPOID, &doc.DocumentType, &doc.Title, &doc.FilePath,
			&doc.Description, &doc.CreatedAt, &uploadedBy); err != nil {
			return nil, shared.NewDatabaseError("ipo-service", "fetchDocuments", err)
		}
		if uploadedBy.Valid {
			doc.UploadedBy = &uploadedBy.UUID
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "fetchDocuments", err)
	}
	return docs, nil
}

func (s *IPOService) fetchNews(ctx context.Context, ipoID uuid.UUID) ([]models.IPONews, error) {
	query := `SELECT id, ipo_id, title, content, source, source_url, created_at, created_by
		FROM ipo_news WHERE ipo_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, ipoID)
	if err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "fetchNews", err)
	}
	defer rows.Close()

	news := []models.IPONews{}
	for rows.Next() {
		var n models.IPONews
		var createdBy uuid.NullUUID
		if err := rows.Scan(&n.ID, &n.IPOID, &n.Title, &n.Content, &n.Source, &n.SourceURL,
			&n.CreatedAt, &createdBy); err != nil {
			return nil, shared.NewDatabaseError("ipo-service", "fetchNews", err)
		}
		if createdBy.Valid {
			n.CreatedBy = &createdBy.UUID
		}
		news = append(news, n)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("ipo-service", "fetchNews", err)
	}
	return news, nil
}

// validateIPO enforces the write-time invariants. Read paths never assume
// these hold; stored rows may predate validation.
func validateIPO(ipo *models.IPO) *shared.ServiceError {
	fields := map[string]string{}

	if ipo.CompanyID == uuid.Nil {
		fields["company_id"] = "company is required"
	}
	if !ipo.PriceRangeMin.LessThan(ipo.PriceRangeMax) {
		fields["price_range_min"] = "minimum price must be less than maximum price"
	}
	if !ipo.OpenDate.Before(ipo.CloseDate) {
		fields["open_date"] = "open date must be before close date"
	}
	if !ipo.CloseDate.Before(ipo.ListingDate) {
		fields["close_date"] = "close date must be before listing date"
	}
	if ipo.LotSize <= 0 {
		fields["lot_size"] = "lot size must be positive"
	}
	if !contains(models.ValidBoards, ipo.Board) {
		fields["board"] = "board must be one of MAIN, SME"
	}
	if !contains(models.ValidStatuses, ipo.Status) {
		fields["status"] = "invalid status"
	}
	if ipo.TotalSubscription.IsNegative() || ipo.RetailSubscription.IsNegative() || ipo.InstitutionalSubscription.IsNegative() {
		fields["total_subscription"] = "subscription multiples must be non-negative"
	}

	if len(fields) > 0 {
		return shared.NewValidationError("ipo-service", "validateIPO", "invalid IPO data", fields)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// CreateIPO inserts a new offering, recording the acting user.
func (s *IPOService) CreateIPO(ctx context.Context, ipo *models.IPO, actor uuid.UUID) error {
	if ipo.Board == "" {
		ipo.Board = models.BoardMain
	}
	if ipo.Status == "" {
		ipo.Status = models.StatusUpcoming
	}
	if verr := validateIPO(ipo); verr != nil {
		return verr
	}

	query := `INSERT INTO ipos (company_id, issue_size, price_range_min, price_range_max, listing_price,
		open_date, close_date, listing_date, board, status, lot_size,
		total_subscription, retail_subscription, institutional_subscription,
		registrar, lead_managers, listing_gains, current_price,
		is_featured, is_recommended, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $21)
		RETURNING id, created_at, updated_at`

	err := s.DB.QueryRowContext(ctx, query,
		ipo.CompanyID, ipo.IssueSize, ipo.PriceRangeMin, ipo.PriceRangeMax, ipo.ListingPrice,
		ipo.OpenDate, ipo.CloseDate, ipo.ListingDate, ipo.Board, ipo.Status, ipo.LotSize,
		ipo.TotalSubscription, ipo.RetailSubscription, ipo.InstitutionalSubscription,
		ipo.Registrar, ipo.LeadManagers, ipo.ListingGains, ipo.CurrentPrice,
		ipo.IsFeatured, ipo.IsRecommended, actor,
	).Scan(&ipo.ID, &ipo.CreatedAt, &ipo.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return shared.NewValidationError("ipo-service", "CreateIPO", "company does not exist",
				map[string]string{"company_id": "no such company"})
		}
		return shared.NewDatabaseError("ipo-service", "CreateIPO", err)
	}
	ipo.CreatedBy = &actor
	ipo.UpdatedBy = &actor

	logrus.WithFields(logrus.Fields{
		"ipo_id":     ipo.ID,
		"company_id": ipo.CompanyID,
		"status":     ipo.Status,
	}).Info("IPO created")

	return nil
}

// UpdateIPO replaces the mutable fields of an offering, recording the
// acting user. Returns a not-found error when the id is unknown.
func (s *IPOService) UpdateIPO(ctx context.Context, id uuid.UUID, ipo *models.IPO, actor uuid.UUID) error {
	if verr := validateIPO(ipo); verr != nil {
		return verr
	}

	query := `UPDATE ipos SET
		company_id = $1, issue_size = $2, price_range_min = $3, price_range_max = $4, listing_price = $5,
		open_date = $6, close_date = $7, listing_date = $8, board = $9, status = $10, lot_size = $11,
		total_subscription = $12, retail_subscription = $13, institutional_subscription = $14,
		registrar = $15, lead_managers = $16, listing_gains = $17, current_price = $18,
		is_featured = $19, is_recommended = $20, updated_by = $21, updated_at = CURRENT_TIMESTAMP
		WHERE id = $22`

	result, err := s.DB.ExecContext(ctx, query,
		ipo.CompanyID, ipo.IssueSize, ipo.PriceRangeMin, ipo.PriceRangeMax, ipo.ListingPrice,
		ipo.OpenDate, ipo.CloseDate, ipo.ListingDate, ipo.Board, ipo.Status, ipo.LotSize,
		ipo.TotalSubscription, ipo.RetailSubscription, ipo.InstitutionalSubscription,
		ipo.Registrar, ipo.LeadManagers, ipo.ListingGains, ipo.CurrentPrice,
		ipo.IsFeatured, ipo.IsRecommended, actor, id,
	)
	if err != nil {
		return shared.NewDatabaseError("ipo-service", "UpdateIPO", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shared.NewNotFoundError("ipo-service", "UpdateIPO", "IPO not found")
	}

	logrus.WithField("ipo_id", id).Info("IPO updated")
	return nil
}

// DeleteIPO removes an offering; child documents and news cascade.
func (s *IPOService) DeleteIPO(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM ipos WHERE id = $1`, id)
	if err != nil {
		return shared.NewDatabaseError("ipo-service", "DeleteIPO", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shared.NewNotFoundError("ipo-service", "DeleteIPO", "IPO not found")
	}

	logrus.WithField("ipo_id", id).Info("IPO deleted")
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIPO(row rowScanner) (*models.IPO, error) {
	var ipo models.IPO
	var createdBy, updatedBy uuid.NullUUID

	err := row.Scan(
		&ipo.ID, &ipo.CompanyID, &ipo.CompanyName, &ipo.CompanySector, &ipo.CompanyIndustry, &ipo.CompanyLogo,
		&ipo.IssueSize, &ipo.PriceRangeMin, &ipo.PriceRangeMax, &ipo.ListingPrice,
		&ipo.OpenDate, &ipo.CloseDate, &ipo.ListingDate,
		&ipo.Board, &ipo.Status, &ipo.LotSize,
		&ipo.TotalSubscription, &ipo.RetailSubscription, &ipo.InstitutionalSubscription,
		&ipo.Registrar, &ipo.LeadManagers, &ipo.ListingGains, &ipo.CurrentPrice,
		&ipo.IsFeatured, &ipo.IsRecommended,
		&ipo.CreatedAt, &ipo.UpdatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		ipo.CreatedBy = &createdBy.UUID
	}
	if updatedBy.Valid {
		ipo.UpdatedBy = &updatedBy.UUID
	}
	return &ipo, nil
}

// zeroIfNull keeps decimal sums printable when the corpus is empty.
func zeroIfNull(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}
