package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Board categories
const (
	BoardMain = "MAIN"
	BoardSME  = "SME"
)

// Stored lifecycle statuses. Set by the acting user at write time and never
// advanced automatically; the date-derived lifecycle is computed on read.
const (
	StatusUpcoming  = "UPCOMING"
	StatusOpen      = "OPEN"
	StatusClosed    = "CLOSED"
	StatusListed    = "LISTED"
	StatusWithdrawn = "WITHDRAWN"
)

// Date-derived lifecycle buckets.
const (
	LifecycleUpcoming = "upcoming"
	LifecycleOpen     = "open"
	LifecycleClosed   = "closed"
	LifecycleListed   = "listed"
)

// ValidBoards and ValidStatuses are the closed sets accepted at write time.
var (
	ValidBoards        = []string{BoardMain, BoardSME}
	ValidStatuses      = []string{StatusUpcoming, StatusOpen, StatusClosed, StatusListed, StatusWithdrawn}
	ValidDocumentTypes = []string{DocumentTypeRHP, DocumentTypeDRHP, DocumentTypeProspectus, DocumentTypeApplication, DocumentTypeOther}
)

type IPO struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`

	// Company fields resolved by the list/detail joins
	CompanyName     string  `json:"company_name"`
	CompanySector   *string `json:"company_sector,omitempty"`
	CompanyIndustry *string `json:"company_industry,omitempty"`
	CompanyLogo     *string `json:"company_logo,omitempty"`

	// Pricing information (issue size in crores)
	IssueSize     decimal.Decimal     `json:"issue_size"`
	PriceRangeMin decimal.Decimal     `json:"price_range_min"`
	PriceRangeMax decimal.Decimal     `json:"price_range_max"`
	ListingPrice  decimal.NullDecimal `json:"listing_price"`

	// Milestone dates
	OpenDate    time.Time `json:"open_date"`
	CloseDate   time.Time `json:"close_date"`
	ListingDate time.Time `json:"listing_date"`

	// Classification
	Board   string `json:"board"`
	Status  string `json:"status"`
	LotSize int    `json:"lot_size"`

	// Subscription snapshots (times subscribed)
	TotalSubscription         decimal.Decimal `json:"total_subscription"`
	RetailSubscription        decimal.Decimal `json:"retail_subscription"`
	InstitutionalSubscription decimal.Decimal `json:"institutional_subscription"`

	// Additional information
	Registrar    *string `json:"registrar"`
	LeadManagers *string `json:"lead_managers"`

	// Post-listing performance
	ListingGains decimal.NullDecimal `json:"listing_gains"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`

	IsFeatured    bool `json:"is_featured"`
	IsRecommended bool `json:"is_recommended"`

	// Audit fields
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

// Classification is the snapshot of date-derived lifecycle state for one
// IPO at a given instant. Lifecycle is independent of the stored Status
// field, which may disagree when nobody updated the record.
type Classification struct {
	IsOpen      bool   `json:"is_open"`
	DaysToOpen  int    `json:"days_to_open"`
	DaysToClose int    `json:"days_to_close"`
	Lifecycle   string `json:"lifecycle"`
}

// civilDate truncates an instant to midnight UTC so milestone DATE columns
// and wall-clock "now" compare at day granularity.
func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOpen reports whether the subscription window contains today,
// inclusive on both ends.
func (i *IPO) IsOpen(now time.Time) bool {
	today := civilDate(now)
	return !civilDate(i.OpenDate).After(today) && !civilDate(i.CloseDate).Before(today)
}

// DaysToOpen returns whole days until the open date, 0 once it is today
// or past.
func (i *IPO) DaysToOpen(now time.Time) int {
	return daysUntil(i.OpenDate, now)
}

// DaysToClose returns whole days until the close date, 0 once it is today
// or past.
func (i *IPO) DaysToClose(now time.Time) int {
	return daysUntil(i.CloseDate, now)
}

func daysUntil(date, now time.Time) int {
	today := civilDate(now)
	target := civilDate(date)
	if !target.After(today) {
		return 0
	}
	return int(target.Sub(today).Hours() / 24)
}

// Lifecycle derives the date-based bucket. Before the window it is
// upcoming, inside it open; past the close date the stored status breaks
// the closed/listed tie, since listing is an event the dates alone cannot
// confirm.
func (i *IPO) Lifecycle(now time.Time) string {
	today := civilDate(now)
	if civilDate(i.OpenDate).After(today) {
		return LifecycleUpcoming
	}
	if !civilDate(i.CloseDate).Before(today) {
		return LifecycleOpen
	}
	if i.Status == StatusListed {
		return LifecycleListed
	}
	return LifecycleClosed
}

// Classify bundles the derived state for one instant. Total over any
// dates; inputs are not assumed to satisfy the write-time invariants.
func (i *IPO) Classify(now time.Time) Classification {
	return Classification{
		IsOpen:      i.IsOpen(now),
		DaysToOpen:  i.DaysToOpen(now),
		DaysToClose: i.DaysToClose(now),
		Lifecycle:   i.Lifecycle(now),
	}
}

// PriceRange returns the display form of the price band.
func (i *IPO) PriceRange() string {
	return fmt.Sprintf("₹%s - ₹%s", i.PriceRangeMin.String(), i.PriceRangeMax.String())
}

// TotalIssueValue returns the display form of the issue size.
func (i *IPO) TotalIssueValue() string {
	return fmt.Sprintf("₹%s crores", i.IssueSize.String())
}

// IsSubscribed reports whether demand exceeded the offered quantity.
func (i *IPO) IsSubscribed() bool {
	return i.TotalSubscription.GreaterThan(decimal.NewFromInt(1))
}

// IPOView is the read-model: the stored row plus the fields computed per
// request. Computed values live here, not on the row, so they can never
// go stale in storage.
type IPOView struct {
	*IPO
	PriceRange      string `json:"price_range"`
	TotalIssueValue string `json:"total_issue_value"`
	IsOpen          bool   `json:"is_open"`
	DaysToOpen      int    `json:"days_to_open"`
	DaysToClose     int    `json:"days_to_close"`
	Lifecycle       string `json:"lifecycle"`
	IsSubscribed    bool   `json:"is_subscribed"`

	Documents []IPODocument `json:"documents,omitempty"`
	News      []IPONews     `json:"news,omitempty"`
}

// NewIPOView projects a stored row into the read-model at the given instant.
func NewIPOView(ipo *IPO, now time.Time) IPOView {
	c := ipo.Classify(now)
	return IPOView{
		IPO:             ipo,
		PriceRange:      ipo.PriceRange(),
		TotalIssueValue: ipo.TotalIssueValue(),
		IsOpen:          c.IsOpen,
		DaysToOpen:      c.DaysToOpen,
		DaysToClose:     c.DaysToClose,
		Lifecycle:       c.Lifecycle,
		IsSubscribed:    ipo.IsSubscribed(),
	}
}
