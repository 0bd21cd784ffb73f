package services

import (
	"testing"

	"github.com/ipotrack/ipo-backend/models"
	"github.com/stretchr/testify/require"
)

func TestCompanyOrderClause(t *testing.T) {
	cases := []struct {
		ordering string
		expected string
	}{
		{"", "c.name ASC"},
		{"name", "c.name ASC"},
		{"-name", "c.name DESC"},
		{"-created_at", "c.created_at DESC"},
		{"established_year", "c.established_year ASC"},
		{"sector", "c.name ASC"},
		{"-unknown", "c.name ASC"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expected, companyOrderClause(tc.ordering), "ordering %q", tc.ordering)
	}
}

func TestValidateCompany(t *testing.T) {
	require.Nil(t, validateCompany(&models.Company{Name: "Meridian Foods"}))

	verr := validateCompany(&models.Company{Name: "   "})
	require.NotNil(t, verr)
	require.Contains(t, verr.Details, "name")
}
