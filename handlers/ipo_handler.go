package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/ipotrack/ipo-backend/services"
	"github.com/shopspring/decimal"
)

type IPOHandler struct {
	Service *services.IPOService
}

func NewIPOHandler(service *services.IPOService) *IPOHandler {
	return &IPOHandler{Service: service}
}

const dateLayout = "2006-01-02"

type ipoRequest struct {
	CompanyID                 uuid.UUID           `json:"company_id"`
	IssueSize                 decimal.Decimal     `json:"issue_size"`
	PriceRangeMin             decimal.Decimal     `json:"price_range_min"`
	PriceRangeMax             decimal.Decimal     `json:"price_range_max"`
	ListingPrice              decimal.NullDecimal `json:"listing_price"`
	OpenDate                  string              `json:"open_date"`
	CloseDate                 string              `json:"close_date"`
	ListingDate               string              `json:"listing_date"`
	Board                     string              `json:"board"`
	Status                    string              `json:"status"`
	LotSize                   int                 `json:"lot_size"`
	TotalSubscription         decimal.Decimal     `json:"total_subscription"`
	RetailSubscription        decimal.Decimal     `json:"retail_subscription"`
	InstitutionalSubscription decimal.Decimal     `json:"institutional_subscription"`
	Registrar                 *string             `json:"registrar"`
	LeadManagers              *string             `json:"lead_managers"`
	ListingGains              decimal.NullDecimal `json:"listing_gains"`
	CurrentPrice              decimal.NullDecimal `json:"current_price"`
	IsFeatured                bool                `json:"is_featured"`
	IsRecommended             bool                `json:"is_recommended"`
}

func (r *ipoRequest) toModel() (*models.IPO, map[string]string) {
	fields := map[string]string{}

	openDate, err := time.Parse(dateLayout, r.OpenDate)
	if err != nil {
		fields["open_date"] = "must be a date in YYYY-MM-DD format"
	}
	closeDate, err := time.Parse(dateLayout, r.CloseDate)
	if err != nil {
		fields["close_date"] = "must be a date in YYYY-MM-DD format"
	}
	listingDate, err := time.Parse(dateLayout, r.ListingDate)
	if err != nil {
		fields["listing_date"] = "must be a date in YYYY-MM-DD format"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	return &models.IPO{
		CompanyID:                 r.CompanyID,
		IssueSize:                 r.IssueSize,
		PriceRangeMin:             r.PriceRangeMin,
		PriceRangeMax:             r.PriceRangeMax,
		ListingPrice:              r.ListingPrice,
		OpenDate:                  openDate,
		CloseDate:                 closeDate,
		ListingDate:               listingDate,
		Board:                     r.Board,
		Status:                    r.Status,
		LotSize:                   r.LotSize,
		TotalSubscription:         r.TotalSubscription,
		RetailSubscription:        r.RetailSubscription,
		InstitutionalSubscription: r.InstitutionalSubscription,
		Registrar:                 r.Registrar,
		LeadManagers:              r.LeadManagers,
		ListingGains:              r.ListingGains,
		CurrentPrice:              r.CurrentPrice,
		IsFeatured:                r.IsFeatured,
		IsRecommended:             r.IsRecommended,
	}, nil
}

// queryFromRequest reads the list parameters. Malformed boolean or
// unknown token values degrade to "no filter" rather than erroring.
func queryFromRequest(c *fiber.Ctx) services.IPOQuery {
	return services.IPOQuery{
		Board:        c.Query("board"),
		Status:       c.Query("status"),
		Sector:       c.Query("sector"),
		Featured:     parseBoolQuery(c, "is_featured"),
		Recommended:  parseBoolQuery(c, "is_recommended"),
		FilterStatus: c.Query("filter_status"),
		Search:       c.Query("q"),
		Ordering:     c.Query("ordering"),
	}
}

func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &b
}

func (h *IPOHandler) GetIPOs(c *fiber.Ctx) error {
	ipos, err := h.Service.ListIPOs(c.Context(), queryFromRequest(c), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetUpcomingIPOs lists offerings whose open date is in the future.
func (h *IPOHandler) GetUpcomingIPOs(c *fiber.Ctx) error {
	q := queryFromRequest(c)
	q.FilterStatus = "upcoming"
	ipos, err := h.Service.ListIPOs(c.Context(), q, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetOpenIPOs lists offerings currently open for subscription.
func (h *IPOHandler) GetOpenIPOs(c *fiber.Ctx) error {
	q := queryFromRequest(c)
	q.FilterStatus = "open"
	ipos, err := h.Service.ListIPOs(c.Context(), q, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// GetFeaturedIPOs lists offerings flagged as featured.
func (h *IPOHandler) GetFeaturedIPOs(c *fiber.Ctx) error {
	q := queryFromRequest(c)
	featured := true
	q.Featured = &featured
	ipos, err := h.Service.ListIPOs(c.Context(), q, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

// SearchIPOs filters by the free-text query parameter.
func (h *IPOHandler) SearchIPOs(c *fiber.Ctx) error {
	ipos, err := h.Service.ListIPOs(c.Context(), queryFromRequest(c), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, ipos)
}

func (h *IPOHandler) GetIPOByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	ipo, err := h.Service.GetIPOByID(c.Context(), id, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	if ipo == nil {
		return respondNotFound(c, "IPO not found")
	}
	return respondData(c, ipo)
}

func (h *IPOHandler) CreateIPO(c *fiber.Ctx) error {
	var req ipoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	ipo, fields := req.toModel()
	if fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid IPO data",
			"details": fields,
		})
	}

	if err := h.Service.CreateIPO(c.Context(), ipo, actorID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    models.NewIPOView(ipo, time.Now()),
	})
}

func (h *IPOHandler) UpdateIPO(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	var req ipoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	ipo, fields := req.toModel()
	if fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid IPO data",
			"details": fields,
		})
	}

	if err := h.Service.UpdateIPO(c.Context(), id, ipo, actorID(c)); err != nil {
		return respondError(c, err)
	}

	updated, err := h.Service.GetIPOByID(c.Context(), id, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, updated)
}

func (h *IPOHandler) DeleteIPO(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondNotFound(c, "IPO not found")
	}

	if err := h.Service.DeleteIPO(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
