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
	"github.com/sirupsen/logrus"
)

type CompanyService struct {
	DB *sql.DB
}

func NewCompanyService(db *sql.DB) *CompanyService {
	return &CompanyService{DB: db}
}

// CompanyQuery carries the list parameters for companies.
type CompanyQuery struct {
	Search   string
	Sector   string
	Industry string
	Ordering string
}

var companyOrderings = map[string]string{
	"name":             "c.name",
	"created_at":       "c.created_at",
	"established_year": "c.established_year",
}

func companyOrderClause(ordering string) string {
	field := strings.TrimSpace(ordering)
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	column, ok := companyOrderings[field]
	if !ok {
		return "c.name ASC"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// companySelect joins the per-company IPO counts in as sub-selects; they
// are derived on every read, never stored.
const companySelect = `SELECT c.id, c.name, c.description, c.sector, c.industry,
	c.website, c.established_year, c.headquarters, c.logo_url,
	(SELECT COUNT(*) FROM ipos i WHERE i.company_id = c.id) AS total_ipos,
	(SELECT COUNT(*) FROM ipos i WHERE i.company_id = c.id AND i.listing_date >= $1::date) AS upcoming_ipos,
	c.created_at, c.updated_at, c.created_by, c.updated_by
	FROM companies c`

// ListCompanies returns companies matching the query. Free text searches
// name, description, sector and industry.
func (s *CompanyService) ListCompanies(ctx context.Context, q CompanyQuery, now time.Time) ([]models.Company, error) {
	var conditions []string
	args := []interface{}{now}
	argIndex := 2

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(c.name ILIKE $%d OR c.description ILIKE $%d OR c.sector ILIKE $%d OR c.industry ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex))
		args = append(args, pattern)
		argIndex++
	}
	if q.Sector != "" {
		conditions = append(conditions, fmt.Sprintf("c.sector = $%d", argIndex))
		args = append(args, q.Sector)
		argIndex++
	}
	if q.Industry != "" {
		conditions = append(conditions, fmt.Sprintf("c.industry = $%d", argIndex))
		args = append(args, q.Industry)
		argIndex++
	}

	query := companySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + companyOrderClause(q.Ordering)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.NewDatabaseError("company-service", "ListCompanies", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, shared.NewDatabaseError("company-service", "ListCompanies", err)
		}
		companies = append(companies, *company)
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("company-service", "ListCompanies", err)
	}

	return companies, nil
}

// GetCompanyByID returns one company with its IPO counts, or nil when the
// id is unknown.
func (s *CompanyService) GetCompanyByID(ctx context.Context, id uuid.UUID, now time.Time) (*models.Company, error) {
	row := s.DB.QueryRowContext(ctx, companySelect+" WHERE c.id = $2", now, id)
	company, err := scanCompany(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, shared.NewDatabaseError("company-service", "GetCompanyByID", err)
	}
	return company, nil
}

func validateCompany(company *models.Company) *shared.ServiceError {
	if strings.TrimSpace(company.Name) == "" {
		return shared.NewValidationError("company-service", "validateCompany", "invalid company data",
			map[string]string{"name": "name is required"})
	}
	return nil
}

// CreateCompany inserts a new company, recording the acting user. A
// duplicate name is reported as a validation failure, not a server error.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company, actor uuid.UUID) error {
	if verr := validateCompany(company); verr != nil {
		return verr
	}

	query := `INSERT INTO companies (name, description, sector, industry, website,
		established_year, headquarters, logo_url, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at`

	err := s.DB.QueryRowContext(ctx, query,
		company.Name, company.Description, company.Sector, company.Industry, company.Website,
		company.EstablishedYear, company.Headquarters, company.LogoURL, actor,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return shared.NewValidationError("company-service", "CreateCompany", "company already exists",
				map[string]string{"name": "a company with this name already exists"})
		}
		return shared.NewDatabaseError("company-service", "CreateCompany", err)
	}
	company.CreatedBy = &actor
	company.UpdatedBy = &actor

	logrus.WithFields(logrus.Fields{
		"company_id":   company.ID,
		"company_name": company.Name,
	}).Info("Company created")

	return nil
}

// UpdateCompany replaces the descriptive fields, recording the acting user.
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, company *models.Company, actor uuid.UUID) error {
	if verr := validateCompany(company); verr != nil {
		return verr
	}

	query := `UPDATE companies SET name = $1, description = $2, sector = $3, industry = $4,
		website = $5, established_year = $6, headquarters = $7, logo_url = $8,
		updated_by = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10`

	result, err := s.DB.ExecContext(ctx, query,
		company.Name, company.Description, company.Sector, company.Industry,
		company.Website, company.EstablishedYear, company.Headquarters, company.LogoURL,
		actor, id,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return shared.NewValidationError("company-service", "UpdateCompany", "company already exists",
				map[string]string{"name": "a company with this name already exists"})
		}
		return shared.NewDatabaseError("company-service", "UpdateCompany", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shared.NewNotFoundError("company-service", "UpdateCompany", "company not found")
	}

	logrus.WithField("company_id", id).Info("Company updated")
	return nil
}

// DeleteCompany removes a company; its offerings cascade.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return shared.NewDatabaseError("company-service", "DeleteCompany", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return shared.NewNotFoundError("company-service", "DeleteCompany", "company not found")
	}

	logrus.WithField("company_id", id).Info("Company deleted")
	return nil
}

// GetCompanyIPOs lists all offerings of one company, newest first.
func (s *CompanyService) GetCompanyIPOs(ctx context.Context, companyID uuid.UUID, now time.Time) ([]models.IPOView, error) {
	query := ipoBaseQuery + " WHERE i.company_id = $1 ORDER BY i.created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, shared.NewDatabaseError("company-service", "GetCompanyIPOs", err)
	}
	defer rows.Close()

	views := []models.IPOView{}
	for rows.Next() {
		ipo, err := scanIPO(rows)
		if err != nil {
			return nil, shared.NewDatabaseError("company-service", "GetCompanyIPOs", err)
		}
		views = append(views, models.NewIPOView(ipo, now))
	}
	if err = rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("company-service", "GetCompanyIPOs", err)
	}

	return views, nil
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var company models.Company
	var createdBy, updatedBy uuid.NullUUID

	err := row.Scan(
		&company.ID, &company.Name, &company.Description, &company.Sector, &company.Industry,
		&company.Website, &company.EstablishedYear, &company.Headquarters, &company.LogoURL,
		&company.TotalIPOs, &company.UpcomingIPOs,
		&company.CreatedAt, &company.UpdatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		company.CreatedBy = &createdBy.UUID
	}
	if updatedBy.Valid {
		company.UpdatedBy = &updatedBy.UUID
	}
	return &company, nil
}
