package services

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/shared"
	"github.com/sirupsen/logrus"
)

// DocumentService stores prospectus files on local disk and their metadata
// in the store. File handling is outside the query core; a failed insert
// cleans the file back up.
type DocumentService struct {
	DB        *sql.DB
	uploadDir string
}

func NewDocumentService(db *sql.DB, uploadDir string) *DocumentService {
	return &DocumentService{DB: db, uploadDir: uploadDir}
}

// SaveDocument persists the file content and inserts the metadata row.
func (s *DocumentService) SaveDocument(ctx context.Context, doc *models.IPODocument, filename string, src io.Reader) error {
	if verr := validateDocument(doc); verr != nil {
		return verr
	}

	dir := filepath.Join(s.uploadDir, "ipo_documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return shared.NewDatabaseError("document-service", "SaveDocument", err)
	}

	// Prefix with a fresh uuid so colliding upload names never overwrite.
	path := filepath.Join(dir, uuid.NewString()+"_"+filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return shared.NewDatabaseError("document-service", "SaveDocument", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return shared.NewDatabaseError("document-service", "SaveDocument", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return shared.NewDatabaseError("document-service", "SaveDocument", err)
	}
	doc.FilePath = path

	query := `INSERT INTO ipo_documents (ipo_id, document_type, title, file_path, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`

	err = s.DB.QueryRowContext(ctx, query,
		doc.IPOID, doc.DocumentType, doc.Title, doc.FilePath, doc.Description, doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		os.Remove(path)
		return shared.NewDatabaseError("document-service", "SaveDocument", err)
	}

	logrus.WithFields(logrus.Fields{
		"document_id":   doc.ID,
		"ipo_id":        doc.IPOID,
		"document_type": doc.DocumentType,
	}).Info("Document uploaded")

	return nil
}

func validateDocument(doc *models.IPODocument) *shared.ServiceError {
	fields := map[string]string{}
	if doc.IPOID == uuid.Nil {
		fields["ipo_id"] = "ipo is required"
	}
	if strings.TrimSpace(doc.Title) == "" {
		fields["title"] = "title is required"
	}
	if !contains(models.ValidDocumentTypes, doc.DocumentType) {
		fields["document_type"] = "document type must be one of RHP, DRHP, PROSPECTUS, APPLICATION, OTHER"
	}
	if len(fields) > 0 {
		return shared.NewValidationError("document-service", "validateDocument", "invalid document data", fields)
	}
	return nil
}

// ListByIPO returns all documents attached to one offering, newest first.
func (s *DocumentService) ListByIPO(ctx context.Context, ipoID uuid.UUID) ([]models.IPODocument, error) {
	query := `SELECT id, ipo_id, document_type, title, file_path, description, created_at, uploaded_by
		FROM ipo_documents WHERE ipo_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, ipoID)
	if err != nil {
		return nil, shared.NewDatabaseError("document-service", "ListByIPO", err)
	}
	defer rows.Close()

	docs := []models.IPODocument{}
	for rows.Next() {
		var doc models.IPODocument
		var uploadedBy uuid.NullUUID
		if err := rows.Scan(
			&doc.ID, &doc.IPOID, &doc.DocumentType, &doc.Title, &doc.FilePath,
			&doc.Description, &doc.CreatedAt, &uploadedBy,
		); err != nil {
			return nil, shared.NewDatabaseError("document-service", "ListByIPO", err)
		}
		if uploadedBy.Valid {
			doc.UploadedBy = &uploadedBy.UUID
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewDatabaseError("document-service", "ListByIPO", err)
	}
	return docs, nil
}

// GetDocument returns one document's metadata, or nil when unknown.
func (s *DocumentService) GetDocument(ctx context.Context, id uuid.UUID) (*models.IPODocument, error) {
	query := `SELECT id, ipo_id, document_type, title, file_path, description, created_at, uploaded_by
		FROM ipo_documents WHERE id = $1`

	var doc models.IPODocument
	var uploadedBy uuid.NullUUID
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.IPOID, &doc.DocumentType, &doc.Title, &doc.FilePath,
		&doc.Description, &doc.CreatedAt, &uploadedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, shared.NewDatabaseError("document-service", "GetDocument", err)
	}
	if uploadedBy.Valid {
		doc.UploadedBy = &uploadedBy.UUID
	}
	return &doc, nil
}

// DeleteDocument removes the metadata row and then the stored file. A
// failed file removal is logged, not surfaced: the record is already gone.
func (s *DocumentService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	var path string
	err := s.DB.QueryRowContext(ctx,
		`DELETE FROM ipo_documents WHERE id = $1 RETURNING file_path`, id,
	).Scan(&path)
	if err != nil {
		if err == sql.ErrNoRows {
			return shared.NewNotFoundError("document-service", "DeleteDocument", "document not found")
		}
		return shared.NewDatabaseError("document-service", "DeleteDocument", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{
			"document_id": id,
			"file_path":   path,
		}).Warn("Failed to remove document file")
	}

	logrus.WithField("document_id", id).Info("Document deleted")
	return nil
}
