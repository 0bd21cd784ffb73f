package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/services"
)

type DocumentHandler struct {
	Service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	ipoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	docs, err := h.Service.ListByIPO(c.Context(), ipoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, docs)
}

// UploadDocument accepts a multipart form with a "file" part plus
// document_type, title and optional description fields.
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	ipoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "a file is required",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "could not read uploaded file",
		})
	}
	defer src.Close()

	doc := models.IPODocument{
		IPOID:        ipoID,
		DocumentType: c.FormValue("document_type"),
		Title:        c.FormValue("title"),
	}
	if desc := c.FormValue("description"); desc != "" {
		doc.Description = &desc
	}
	if actor := actorID(c); actor != uuid.Nil {
		doc.UploadedBy = &actor
	}

	if err := h.Service.SaveDocument(c.Context(), &doc, fileHeader.Filename, src); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    doc,
	})
}

// DownloadDocument streams the stored file back to the client.
func (h *DocumentHandler) DownloadDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("docID"))
	if err != nil {
		return respondNotFound(c, "document not found")
	}

	doc, err := h.Service.GetDocument(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if doc == nil {
		return respondNotFound(c, "document not found")
	}
	return c.Download(doc.FilePath, doc.Title)
}

func (h *DocumentHandler) DeleteDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("docID"))
	if err != nil {
		return respondNotFound(c, "document not found")
	}

	if err := h.Service.DeleteDocument(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
