package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/services"
)

type CompanyHandler struct {
	Service *services.CompanyService
}

func NewCompanyHandler(service *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Service: service}
}

type companyRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Sector          *string `json:"sector"`
	Industry        *string `json:"industry"`
	Website         *string `json:"website"`
	EstablishedYear *int    `json:"established_year"`
	Headquarters    *string `json:"headquarters"`
	LogoURL         *string `json:"logo_url"`
}

func (r *companyRequest) toModel() *models.Company {
	return &models.Company{
		Name:            r.Name,
		Description:     r.Description,
		Sector:          r.Sector,
		Industry:        r.Industry,
		Website:         r.Website,
		EstablishedYear: r.EstablishedYear,
		Headquarters:    r.Headquarters,
		LogoURL:         r.LogoURL,
	}
}

func (h *CompanyHandler) ListCompanies(c *fiber.Ctx) error {
	q := services.CompanyQuery{
		Search:   c.Query("q", c.Query("search")),
		Sector:   c.Query("sector"),
		Industry: c.Query("industry"),
		Ordering: c.Query("ordering"),
	}

	companies, err := h.Service.ListCompanies(c.Context(), q, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, companies)
}

func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "company not found")
	}

	company, err := h.Service.GetCompanyByID(c.Context(), id, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	if company == nil {
		return respondNotFound(c, "company not found")
	}
	return respondData(c, company)
}

func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var req companyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	company := req.toModel()
	if err := h.Service.CreateCompany(c.Context(), company, actorID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    company,
	})
}

func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "company not found")
	}

	var req companyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	company := req.toModel()
	if err := h.Service.UpdateCompany(c.Context(), id, company, actorID(c)); err != nil {
		return respondError(c, err)
	}

	updated, err := h.Service.GetCompanyByID(c.Context(), id, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, updated)
}

func (h *CompanyHandler) DeleteCompany(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "company not found")
	}

	if err := h.Service.DeleteCompany(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CompanyHandler) GetCompanyIPOs(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "company not found")
	}

	ipos, err := h.Service.GetCompanyIPOs(c.Context(), id, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}
