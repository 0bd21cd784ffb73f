// Command seed bootstraps an admin account and loads a small set of
// sample companies and offerings covering every lifecycle state. Safe
// to re-run: existing rows are left alone.
package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/config"
	"github.com/ipotrack/ipo-backend/database"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type seedIPO struct {
	company  string
	sector   string
	openIn   int // days from now, negative for the past
	closeIn  int
	listIn   int
	status   string
	issue    string // crores
	priceMin string
	priceMax string
	featured bool
}

var samples = []seedIPO{
	{"Meridian Foods", "FMCG", 5, 8, 14, models.StatusUpcoming, "1200.00", "310.00", "326.00", true},
	{"Cobalt Energy", "Energy", -1, 2, 9, models.StatusOpen, "4500.00", "870.00", "915.00", true},
	{"Astra Logistics", "Logistics", -20, -17, -10, models.StatusClosed, "950.00", "118.00", "124.00", false},
	{"Nimbus Software", "Technology", -60, -57, -50, models.StatusListed, "2800.00", "480.00", "505.00", false},
	{"Halberd Metals", "Metals", -30, -27, -20, models.StatusWithdrawn, "600.00", "92.00", "97.00", false},
}

func main() {
	cfg := config.LoadConfig()

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate("database/schema.sql"); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	auth := services.NewAuthService(database.DB, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-now"
	}
	admin, err := auth.GetOrCreateAdminUser(ctx, "admin", "admin@example.com", password)
	if err != nil {
		logrus.Fatalf("Admin bootstrap failed: %v", err)
	}
	logrus.WithField("user_id", admin.ID).Info("Admin account ready")

	now := time.Now()
	for _, sample := range samples {
		if err := seedOne(ctx, database.DB, cfg.UploadDir, admin.ID, sample, now); err != nil {
			logrus.Fatalf("Seeding %s failed: %v", sample.company, err)
		}
	}

	logrus.Info("Seed complete")
}

func seedOne(ctx context.Context, db *sql.DB, uploadDir string, actor uuid.UUID, sample seedIPO, now time.Time) error {
	var companyID uuid.UUID
	err := db.QueryRowContext(ctx,
		`INSERT INTO companies (name, sector, created_by, updated_by)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (name) DO UPDATE SET sector = EXCLUDED.sector
		 RETURNING id`,
		sample.company, sample.sector, actor,
	).Scan(&companyID)
	if err != nil {
		return err
	}

	var existing int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ipos WHERE company_id = $1`, companyID,
	).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		logrus.WithField("company", sample.company).Info("Offerings already seeded, skipping")
		return nil
	}

	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset)
	}
	issue, _ := decimal.NewFromString(sample.issue)
	priceMin, _ := decimal.NewFromString(sample.priceMin)
	priceMax, _ := decimal.NewFromString(sample.priceMax)

	ipoService := services.NewIPOService(db)
	ipo := &models.IPO{
		CompanyID:     companyID,
		IssueSize:     issue,
		PriceRangeMin: priceMin,
		PriceRangeMax: priceMax,
		OpenDate:      day(sample.openIn),
		CloseDate:     day(sample.closeIn),
		ListingDate:   day(sample.listIn),
		Board:         models.BoardMain,
		Status:        sample.status,
		LotSize:       10,
		IsFeatured:    sample.featured,
	}
	if err := ipoService.CreateIPO(ctx, ipo, actor); err != nil {
		return err
	}

	newsService := services.NewNewsService(db)
	news := &models.IPONews{
		IPOID:   ipo.ID,
		Title:   sample.company + " files its offer document",
		Content: "The company has filed its offer document with the exchange.",
	}
	if err := newsService.CreateNews(ctx, news, actor); err != nil {
		return err
	}

	documentService := services.NewDocumentService(db, uploadDir)
	doc := &models.IPODocument{
		IPOID:        ipo.ID,
		DocumentType: models.DocumentTypeDRHP,
		Title:        sample.company + " DRHP",
		UploadedBy:   &actor,
	}
	placeholder := strings.NewReader("Placeholder draft red herring prospectus for " + sample.company + ".\n")
	if err := documentService.SaveDocument(ctx, doc, "drhp.txt", placeholder); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"company": sample.company,
		"ipo_id":  ipo.ID,
		"status":  sample.status,
	}).Info("Seeded offering")
	return nil
}
