package models

// DashboardStats is the payload of the admin stats endpoint. Either the
// whole struct is produced or the request fails; there is no partial shape.
type DashboardStats struct {
	Overview       Overview            `json:"overview"`
	IPOStatus      IPOStatusBreakdown  `json:"ipo_status"`
	RecentActivity RecentActivityStats `json:"recent_activity"`
}

type Overview struct {
	TotalCompanies int `json:"total_companies"`
	TotalIPOs      int `json:"total_ipos"`
	TotalUsers     int `json:"total_users"`
	// Decimal-formatted string so display never picks up float drift.
	TotalIssueSize string `json:"total_issue_size"`
}

// IPOStatusBreakdown mixes derivations on purpose: upcoming and open come
// from the date windows, listed from the stored status field, and closed is
// the residual. The residual folds in Withdrawn records and any rows whose
// stored status disagrees with their dates.
type IPOStatusBreakdown struct {
	Upcoming int `json:"upcoming"`
	Open     int `json:"open"`
	Listed   int `json:"listed"`
	Closed   int `json:"closed"`
}

type RecentActivityStats struct {
	CompaniesAdded int `json:"companies_added"`
	IPOsAdded      int `json:"ipos_added"`
}
