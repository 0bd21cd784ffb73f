package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/services"
)

type NewsHandler struct {
	Service *services.NewsService
}

func NewNewsHandler(service *services.NewsService) *NewsHandler {
	return &NewsHandler{Service: service}
}

type newsRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Source    *string `json:"source"`
	SourceURL *string `json:"source_url"`
}

func (h *NewsHandler) ListNews(c *fiber.Ctx) error {
	ipoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	items, err := h.Service.ListNewsByIPO(c.Context(), ipoID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, items)
}

func (h *NewsHandler) CreateNews(c *fiber.Ctx) error {
	ipoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	news := models.IPONews{
		IPOID:     ipoID,
		Title:     req.Title,
		Content:   req.Content,
		Source:    req.Source,
		SourceURL: req.SourceURL,
	}
	if err := h.Service.CreateNews(c.Context(), &news, actorID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    news,
	})
}

func (h *NewsHandler) DeleteNews(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("newsID"))
	if err != nil {
		return respondNotFound(c, "news item not found")
	}

	if err := h.Service.DeleteNews(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
