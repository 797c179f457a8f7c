package models

// Party identifies one side of a filing or contract: the registrant
// (lobbying firm / vendor) or the client (represented party / agency).
type Party struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact,omitempty"`
	Address     string `json:"address,omitempty"`
}

// GovernmentEntity is an agency or body named in a lobbying activity.
type GovernmentEntity struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Activity is one lobbying activity line within a filing.
type Activity struct {
	Description        string             `json:"description"`
	IssueCode          string             `json:"issue_category"`
	IssueCodeDisplay   string             `json:"issue_category_display"`
	GovernmentEntities []GovernmentEntity `json:"government_entities"`
}

// Meta flags provenance. IsMock is true for synthetic records produced by
// the fallback generator so callers can tell real data from substitute data.
type Meta struct {
	IsMock        bool   `json:"is_mock"`
	OriginalQuery string `json:"original_query,omitempty"`
}

// Filing is the canonical record every source normalizes into. All top-level
// fields are always populated (null/empty defaults, never omitted) so
// consumers never branch on key presence.
type Filing struct {
	ID                 string     `json:"id"`
	FilingUUID         string     `json:"filing_uuid"`
	FilingType         string     `json:"filing_type"`
	FilingTypeDisplay  string     `json:"filing_type_display"`
	FilingYear         *int       `json:"filing_year"`
	FilingPeriod       string     `json:"filing_period"`
	PeriodDisplay      string     `json:"period_display"`
	Registrant         Party      `json:"registrant"`
	Client             Party      `json:"client"`
	LobbyingActivities []Activity `json:"lobbying_activities"`
	FilingDate         string     `json:"filing_date"`
	DocumentURL        string     `json:"document_url"`
	Income             *float64   `json:"income"`
	Expenses           *float64   `json:"expenses"`
	Amount             *float64   `json:"amount"`
	AmountReported     bool       `json:"amount_reported"`

	// Contract-specific extras (checkbook source only).
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	OriginalAmount *float64 `json:"original_amount,omitempty"`
	CurrentAmount  *float64 `json:"current_amount,omitempty"`

	Meta Meta `json:"meta"`
}

// SetAmounts fills Income, Expenses, Amount and AmountReported from the two
// source values. Amount is income when present, expenses otherwise.
// AmountReported is derived here and never set independently.
func (f *Filing) SetAmounts(income, expenses *float64) {
	f.Income = income
	f.Expenses = expenses
	if income != nil {
		f.Amount = income
	} else {
		f.Amount = expenses
	}
	f.AmountReported = (income != nil && *income != 0) || (expenses != nil && *expenses != 0)
}

// Pagination is the envelope returned alongside every paged result set.
type Pagination struct {
	Count      int  `json:"count"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes the envelope for a total count and page window.
// total_pages is ceil(count/pageSize); has_next/has_prev follow from it.
func NewPagination(count, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (count + pageSize - 1) / pageSize
	}
	return Pagination{
		Count:      count,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ChartSeries is one chart-ready label/value series.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// VisualizationData holds the five series a result set reduces into.
type VisualizationData struct {
	YearsData          ChartSeries `json:"years_data"`
	TopEntities        ChartSeries `json:"top_entities"`
	SpendingTrend      ChartSeries `json:"spending_trend"`
	IssueAreas         ChartSeries `json:"issue_areas"`
	GovernmentEntities ChartSeries `json:"government_entities"`
}

// Float64 returns a pointer to v. Convenience for nullable amounts.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v. Convenience for nullable years.
func Int(v int) *int { return &v }
