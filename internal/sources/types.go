package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/david/vetting-hub/internal/models"
)

// SourceKey is the closed enumeration of data sources the dispatcher routes
// on. Free-form strings never reach adapter logic; ParseSourceKey is the only
// way in.
type SourceKey string

const (
	SourceSenate    SourceKey = "senate"
	SourceNYC       SourceKey = "nyc"
	SourceCheckbook SourceKey = "nyc_checkbook"
)

// ParseSourceKey maps a request parameter onto the enumeration.
func ParseSourceKey(s string) (SourceKey, error) {
	switch SourceKey(strings.ToLower(strings.TrimSpace(s))) {
	case SourceSenate:
		return SourceSenate, nil
	case SourceNYC:
		return SourceNYC, nil
	case SourceCheckbook:
		return SourceCheckbook, nil
	}
	return "", fmt.Errorf("invalid data source: %s", s)
}

// SearchType selects which party a query matches against. Each adapter maps
// unrecognized values to its documented default (registrant/vendor).
type SearchType string

const (
	SearchRegistrant SearchType = "registrant"
	SearchClient     SearchType = "client"
	SearchLobbyist   SearchType = "lobbyist"
	SearchVendor     SearchType = "vendor"
	SearchAgency     SearchType = "agency"
)

// Filters carries the recognized search filters. Zero values and "all" mean
// unfiltered; each adapter interprets the best-effort fields it supports.
type Filters struct {
	FilingYear       string // "all" or a 4-digit year
	FilingType       string // "all" or a source-specific code (contract type for checkbook)
	AmountMin        string // numeric floor, parsed best-effort
	YearFrom         string
	YearTo           string
	IssueCode        string
	GovernmentEntity string
}

// ConnectionStatus is the result of a source connectivity self-test.
type ConnectionStatus struct {
	Source  string `json:"source"`
	Status  string `json:"status"` // "ok", "config_error", "error", "exception"
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the probe succeeded.
func (s ConnectionStatus) OK() bool { return s.Status == "ok" }

// DataSource is the capability contract every adapter implements:
// search, detail fetch, and visualization aggregation against one upstream.
//
// All methods return errors as values, never panic, and never return a
// partial result set alongside an error.
type DataSource interface {
	// Name returns the human-readable source name.
	Name() string
	// GovernmentLevel returns "Federal" or "Local".
	GovernmentLevel() string
	// Search returns one page of canonical records plus the total count and
	// pagination envelope. An empty query is rejected before any network call.
	Search(ctx context.Context, query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error)
	// GetFilingDetail looks up one record by canonical id. Transport failures
	// degrade to the deterministic mock generator rather than erroring.
	GetFilingDetail(ctx context.Context, id string) (*models.Filing, error)
	// FetchVisualizationData searches with a large page size and reduces the
	// result set into chart-ready series.
	FetchVisualizationData(ctx context.Context, query string, filters Filters) (*models.VisualizationData, error)
	// TestConnection probes the upstream with a minimal request.
	TestConnection(ctx context.Context) ConnectionStatus
}

// ValidateSearchParams rejects requests before any network call: empty
// queries, bad pagination, and queries carrying shell/markup metacharacters.
func ValidateSearchParams(query string, page, pageSize int) error {
	if strings.TrimSpace(query) == "" {
		return ErrQueryRequired
	}
	if page < 1 {
		return fmt.Errorf("page number must be greater than 0")
	}
	if pageSize < 1 {
		return fmt.Errorf("page size must be greater than 0")
	}
	if strings.ContainsAny(query, "<>;$|&`") {
		return fmt.Errorf("invalid characters in search query")
	}
	return nil
}
