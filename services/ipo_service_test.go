package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestOrderClause(t *testing.T) {
	cases := []struct {
		ordering string
		expected string
	}{
		{"", "i.created_at DESC"},
		{"open_date", "i.open_date ASC"},
		{"-open_date", "i.open_date DESC"},
		{"-issue_size", "i.issue_size DESC"},
		{"listing_date", "i.listing_date ASC"},
		{"created_at", "i.created_at ASC"},
		{"-created_at", "i.created_at DESC"},
		{"company_name", "i.created_at DESC"},
		{"; DROP TABLE ipos", "i.created_at DESC"},
		{"-", "i.created_at DESC"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expected, orderClause(tc.ordering), "ordering %q", tc.ordering)
	}
}

func TestBuildIPOListQueryFilters(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no filters", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{}, now)
		require.NotContains(t, query, "WHERE")
		require.Contains(t, query, "ORDER BY i.created_at DESC")
		require.Empty(t, args)
	})

	t.Run("structured filters compose with AND", func(t *testing.T) {
		featured := true
		query, args := buildIPOListQuery(IPOQuery{
			Board:    models.BoardSME,
			Status:   models.StatusOpen,
			Sector:   "Energy",
			Featured: &featured,
		}, now)
		require.Contains(t, query, "i.board = $1")
		require.Contains(t, query, "i.status = $2")
		require.Contains(t, query, "c.sector = $3")
		require.Contains(t, query, "i.is_featured = $4")
		require.Equal(t, 3, strings.Count(query, " AND "))
		require.Equal(t, []interface{}{models.BoardSME, models.StatusOpen, "Energy", true}, args)
	})

	t.Run("upcoming token", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{FilterStatus: "upcoming"}, now)
		require.Contains(t, query, "i.open_date > $1::date")
		require.Equal(t, []interface{}{now}, args)
	})

	t.Run("open token binds one argument twice", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{FilterStatus: "open"}, now)
		require.Contains(t, query, "i.open_date <= $1::date AND i.close_date >= $1::date")
		require.Equal(t, []interface{}{now}, args)
	})

	t.Run("closed token also requires a terminal status", func(t *testing.T) {
		query, _ := buildIPOListQuery(IPOQuery{FilterStatus: "closed"}, now)
		require.Contains(t, query, "i.close_date < $1::date")
		require.Contains(t, query, "i.status IN ('CLOSED', 'LISTED')")
	})

	t.Run("listed token needs no argument", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{FilterStatus: "listed"}, now)
		require.Contains(t, query, "i.status = 'LISTED'")
		require.Empty(t, args)
	})

	t.Run("unknown token adds no condition", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{FilterStatus: "imaginary"}, now)
		require.NotContains(t, query, "WHERE")
		require.Empty(t, args)
	})

	t.Run("token argument indexes follow structured filters", func(t *testing.T) {
		query, args := buildIPOListQuery(IPOQuery{Board: models.BoardMain, FilterStatus: "open"}, now)
		require.Contains(t, query, "i.board = $1")
		require.Contains(t, query, "i.open_date <= $2::date AND i.close_date >= $2::date")
		require.Equal(t, []interface{}{models.BoardMain, now}, args)
	})
}

func TestBuildIPOListQueryProperties(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	properties := gopter.NewProperties(nil)

	properties.Property("placeholder count always matches argument count", prop.ForAll(
		func(board, status, sector, filterStatus string, withFeatured bool) bool {
			q := IPOQuery{Board: board, Status: status, Sector: sector, FilterStatus: filterStatus}
			if withFeatured {
				v := true
				q.Featured = &v
			}
			query, args := buildIPOListQuery(q, now)
			for i := 1; i <= len(args); i++ {
				if !strings.Contains(query, "$"+strconv.Itoa(i)) {
					return false
				}
			}
			return !strings.Contains(query, "$"+strconv.Itoa(len(args)+1))
		},
		gen.OneConstOf("", models.BoardMain, models.BoardSME),
		gen.OneConstOf("", models.StatusOpen, models.StatusListed),
		gen.OneConstOf("", "Energy"),
		gen.OneConstOf("", "upcoming", "open", "closed", "listed", "junk"),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMatchesText(t *testing.T) {
	ipo := &models.IPO{
		CompanyName:     "Nimbus Software",
		CompanySector:   strPtr("Technology"),
		CompanyIndustry: strPtr("Enterprise SaaS"),
		Registrar:       strPtr("Link Intime"),
	}

	t.Run("empty query matches", func(t *testing.T) {
		q := IPOQuery{}
		require.True(t, q.MatchesText(ipo))
	})

	t.Run("case-insensitive substring on each field", func(t *testing.T) {
		for _, needle := range []string{"nimbus", "TECH", "saas", "intime"} {
			q := IPOQuery{Search: needle}
			require.True(t, q.MatchesText(ipo), "needle %q", needle)
		}
	})

	t.Run("no field matches", func(t *testing.T) {
		q := IPOQuery{Search: "pharma"}
		require.False(t, q.MatchesText(ipo))
	})

	t.Run("nil optional fields are skipped", func(t *testing.T) {
		bare := &models.IPO{CompanyName: "Cobalt Energy"}
		require.True(t, (&IPOQuery{Search: "cobalt"}).MatchesText(bare))
		require.False(t, (&IPOQuery{Search: "technology"}).MatchesText(bare))
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		q := IPOQuery{Search: "  nimbus  "}
		require.True(t, q.MatchesText(ipo))
	})
}

func TestValidateIPO(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	valid := func() *models.IPO {
		return &models.IPO{
			CompanyID:     uuid.MustParse("4be0643f-1d98-473b-97cd-ca98a65347dd"),
			OpenDate:      now,
			CloseDate:     now.AddDate(0, 0, 3),
			ListingDate:   now.AddDate(0, 0, 8),
			Board:         models.BoardMain,
			Status:        models.StatusUpcoming,
			LotSize:       15,
			PriceRangeMin: decimal.RequireFromString("100"),
			PriceRangeMax: decimal.RequireFromString("110"),
			IssueSize:     decimal.RequireFromString("900"),
		}
	}

	t.Run("valid record passes", func(t *testing.T) {
		require.Nil(t, validateIPO(valid()))
	})

	t.Run("price band must be increasing", func(t *testing.T) {
		ipo := valid()
		ipo.PriceRangeMin = decimal.RequireFromString("110")
		ipo.PriceRangeMax = decimal.RequireFromString("100")
		verr := validateIPO(ipo)
		require.NotNil(t, verr)
		require.Contains(t, verr.Details, "price_range_min")
	})

	t.Run("milestones must be strictly ordered", func(t *testing.T) {
		ipo := valid()
		ipo.ListingDate = ipo.CloseDate
		verr := validateIPO(ipo)
		require.NotNil(t, verr)
		require.Contains(t, verr.Details, "close_date")
	})

	t.Run("unknown board rejected", func(t *testing.T) {
		ipo := valid()
		ipo.Board = "NASDAQ"
		verr := validateIPO(ipo)
		require.NotNil(t, verr)
		require.Contains(t, verr.Details, "board")
	})

	t.Run("negative subscription rejected", func(t *testing.T) {
		ipo := valid()
		ipo.RetailSubscription = decimal.RequireFromString("-0.5")
		verr := validateIPO(ipo)
		require.NotNil(t, verr)
	})
}
