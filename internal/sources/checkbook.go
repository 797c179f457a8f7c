package sources

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/david/vetting-hub/internal/models"
)

// checkbookContractTypeDisplays maps the contract-type vocabulary to display
// labels.
var checkbookContractTypeDisplays = map[string]string{
	"EXPENSE": "Expense Contract",
	"REVENUE": "Revenue Contract",
	"AWARD":   "Award Agreement",
	"GRANT":   "Grant Agreement",
	"CAPITAL": "Capital Project",
}

func checkbookTypeDisplay(code string) string {
	if display, ok := checkbookContractTypeDisplays[code]; ok {
		return display
	}
	return code
}

// CheckbookSource searches the CheckbookNYC contracts dataset, the second
// Socrata-style upstream. Same count-then-data pattern as the city lobbying
// source, ordered by contract end date descending.
type CheckbookSource struct {
	baseURL  string
	dataset  string
	client   *Client
	sanitize *bluemonday.Policy
	useMock  bool
}

// NewCheckbookSource builds the contracts adapter.
func NewCheckbookSource(cfg SocrataConfig, httpCfg HTTPConfig, transport http.RoundTripper, useMock bool) *CheckbookSource {
	headers := map[string]string{}
	if cfg.AppToken != "" {
		headers["X-App-Token"] = cfg.AppToken
	}
	return &CheckbookSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		dataset: cfg.Dataset,
		client: NewClient(ClientConfig{
			TimeoutSeconds: httpCfg.TimeoutSeconds,
			MaxRetries:     httpCfg.MaxRetries,
			RateLimitRPS:   httpCfg.RateLimitRPS,
			Headers:        headers,
			Transport:      transport,
		}),
		sanitize: bluemonday.StrictPolicy(),
		useMock:  useMock,
	}
}

func (s *CheckbookSource) Name() string            { return "NYC Checkbook (Contracts)" }
func (s *CheckbookSource) GovernmentLevel() string { return "Local" }

func (s *CheckbookSource) datasetURL() string {
	return s.baseURL + "/" + s.dataset + ".json"
}

// checkbookRawContract is one row of the contracts dataset.
type checkbookRawContract struct {
	ContractID             string   `json:"contract_id"`
	ContractType           string   `json:"contract_type"`
	FiscalYear             flexYear `json:"fiscal_year"`
	StartDate              string   `json:"start_date"`
	EndDate                string   `json:"end_date"`
	RegisteredDate         string   `json:"registered_date"`
	VendorName             string   `json:"vendor_name"`
	VendorID               string   `json:"vendor_id"`
	AgencyName             string   `json:"agency_name"`
	AgencyID               string   `json:"agency_id"`
	Purpose                string   `json:"purpose"`
	ContractDescription    string   `json:"contract_description"`
	Address                string   `json:"address"`
	ContactName            string   `json:"contact_name"`
	MaximumContractAmount  string   `json:"maximum_contract_amount"`
	OriginalContractAmount string   `json:"original_contract_amount"`
}

// searchPredicate translates the search contract into a SoQL $where clause.
func (s *CheckbookSource) searchPredicate(query string, searchType SearchType, filters Filters) *Predicate {
	p := &Predicate{}
	switch searchType {
	case SearchAgency, SearchClient:
		p.LikeUpper("agency_name", query)
	case SearchVendor, SearchRegistrant, SearchLobbyist:
		p.LikeUpper("vendor_name", query)
	default:
		p.AnyLikeUpper([]string{"vendor_name", "agency_name"}, query)
	}
	if filters.FilingYear != "" && filters.FilingYear != "all" {
		if year, err := strconv.Atoi(filters.FilingYear); err == nil {
			p.EqNumber("fiscal_year", year)
		}
	}
	if filters.FilingType != "" && !strings.EqualFold(filters.FilingType, "all") {
		p.EqString("contract_type", filters.FilingType)
	}
	if filters.AmountMin != "" {
		if min, err := strconv.ParseFloat(filters.AmountMin, 64); err == nil {
			p.GteNumber("maximum_contract_amount", min)
		}
	}
	return p
}

// Search runs the count query then the data query, newest contracts first.
func (s *CheckbookSource) Search(ctx context.Context, query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error) {
	if err := ValidateSearchParams(query, page, pageSize); err != nil {
		return nil, 0, models.Pagination{}, err
	}

	if s.useMock {
		log.Printf("[Checkbook] Using mock data for query %q", query)
		return MockCheckbookSearch(query, searchType, filters, page, pageSize)
	}

	where := s.searchPredicate(query, searchType, filters).String()

	totalCount, err := socrataCount(ctx, s.client, s.datasetURL(), where)
	if err != nil {
		return nil, 0, models.Pagination{}, err
	}

	params := url.Values{}
	params.Set("$where", where)
	params.Set("$order", "end_date DESC")
	params.Set("$limit", strconv.Itoa(pageSize))
	params.Set("$offset", strconv.Itoa((page-1)*pageSize))

	var rows []checkbookRawContract
	code, err := s.client.GetJSON(ctx, s.datasetURL(), params, &rows)
	if err != nil {
		return nil, 0, models.Pagination{}, TransportError("CheckbookNYC API", err)
	}
	if code != http.StatusOK {
		return nil, 0, models.Pagination{}, StatusError(code)
	}

	results := make([]models.Filing, 0, len(rows))
	for _, raw := range rows {
		results = append(results, s.normalize(raw))
	}

	return results, totalCount, models.NewPagination(totalCount, page, pageSize), nil
}

// normalize maps one contract row onto the canonical record.
func (s *CheckbookSource) normalize(raw checkbookRawContract) models.Filing {
	id := raw.ContractID
	if id == "" {
		id = SynthesizeID("checkbook", raw.VendorName, raw.AgencyName, raw.StartDate)
	}

	period := "N/A"
	if raw.StartDate != "" && raw.EndDate != "" {
		period = raw.StartDate + " - " + raw.EndDate
	}

	description := raw.Purpose
	if description == "" {
		description = raw.ContractDescription
	}
	if description == "" {
		description = "City contract"
	}

	filingDate := raw.StartDate
	if filingDate == "" {
		filingDate = raw.RegisteredDate
	}

	activity := models.Activity{
		Description:        s.sanitize.Sanitize(description),
		IssueCode:          raw.ContractType,
		IssueCodeDisplay:   checkbookTypeDisplay(raw.ContractType),
		GovernmentEntities: []models.GovernmentEntity{},
	}
	if raw.AgencyName != "" {
		activity.GovernmentEntities = append(activity.GovernmentEntities,
			models.GovernmentEntity{Name: raw.AgencyName, Type: "NYC Agency"})
	}

	f := models.Filing{
		ID:                id,
		FilingUUID:        id,
		FilingType:        raw.ContractType,
		FilingTypeDisplay: checkbookTypeDisplay(raw.ContractType),
		FilingYear:        raw.FiscalYear.value,
		FilingPeriod:      period,
		PeriodDisplay:     period,
		Registrant: models.Party{
			Name:        raw.VendorName,
			Description: "Vendor/Contractor",
			Contact:     raw.ContactName,
			Address:     raw.Address,
		},
		Client: models.Party{
			Name:        raw.AgencyName,
			Description: "NYC Government Agency",
		},
		LobbyingActivities: []models.Activity{activity},
		FilingDate:         filingDate,
		DocumentURL:        "https://www.checkbooknyc.com/contract_details/" + id,
		StartDate:          raw.StartDate,
		EndDate:            raw.EndDate,
		OriginalAmount:     ParseCurrency(raw.OriginalContractAmount),
		CurrentAmount:      ParseCurrency(raw.MaximumContractAmount),
	}
	// Contracts report a single maximum amount; it maps to income.
	f.SetAmounts(ParseCurrency(raw.MaximumContractAmount), nil)
	return f
}

// GetFilingDetail looks up one contract by contract_id. Transport and
// upstream failures degrade to the deterministic mock detail; a clean empty
// response is a genuine not-found.
func (s *CheckbookSource) GetFilingDetail(ctx context.Context, contractID string) (*models.Filing, error) {
	if s.useMock {
		return MockFilingDetail(SourceCheckbook, contractID), nil
	}

	p := &Predicate{}
	p.EqString("contract_id", contractID)

	params := url.Values{}
	params.Set("$where", p.String())

	var rows []checkbookRawContract
	code, err := s.client.GetJSON(ctx, s.datasetURL(), params, &rows)
	if err != nil {
		log.Printf("[Checkbook] Detail lookup failed for %s, using mock fallback: %v", contractID, err)
		return MockFilingDetail(SourceCheckbook, contractID), nil
	}
	if code != http.StatusOK {
		log.Printf("[Checkbook] Detail lookup returned %d for %s, using mock fallback", code, contractID)
		return MockFilingDetail(SourceCheckbook, contractID), nil
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	contract := s.normalize(rows[0])
	return &contract, nil
}

// FetchVisualizationData reduces a large result page into chart series,
// bucketing spending by month.
func (s *CheckbookSource) FetchVisualizationData(ctx context.Context, query string, filters Filters) (*models.VisualizationData, error) {
	results, _, _, err := s.Search(ctx, query, SearchVendor, filters, 1, visualizationPageSize)
	if err != nil {
		return nil, err
	}
	return buildVisualizationData(results, bucketMonthly)
}

// TestConnection probes the dataset with a one-row request.
func (s *CheckbookSource) TestConnection(ctx context.Context) ConnectionStatus {
	return socrataConnectionTest(ctx, s.client, s.Name(), s.datasetURL())
}
