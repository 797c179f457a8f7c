package sources

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/david/vetting-hub/internal/models"
)

// nycFilingTypes maps the city lobbying filing-type vocabulary to display
// labels.
var nycFilingTypeDisplays = map[string]string{
	"ANNUAL":       "Annual Report",
	"PERIODIC":     "Periodic Report",
	"REGISTRATION": "Registration",
	"TERMINATION":  "Termination",
}

func nycFilingTypeDisplay(code string) string {
	if display, ok := nycFilingTypeDisplays[code]; ok {
		return display
	}
	return code
}

// NYCSource searches the city lobbying registry, an NYC Open Data (Socrata)
// dataset. Socrata speaks a SQL-like predicate language and does not return
// a total alongside paged rows, so every search issues a COUNT(*) query
// before the data query.
type NYCSource struct {
	baseURL  string
	dataset  string
	client   *Client
	sanitize *bluemonday.Policy
	useMock  bool
}

// NewNYCSource builds the city lobbying adapter. When useMock is set all
// operations come from the fallback generator.
func NewNYCSource(cfg SocrataConfig, httpCfg HTTPConfig, transport http.RoundTripper, useMock bool) *NYCSource {
	headers := map[string]string{}
	if cfg.AppToken != "" {
		headers["X-App-Token"] = cfg.AppToken
	}
	return &NYCSource{
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

func (s *NYCSource) Name() string            { return "NYC Lobbying" }
func (s *NYCSource) GovernmentLevel() string { return "Local" }

func (s *NYCSource) datasetURL() string {
	return s.baseURL + "/" + s.dataset + ".json"
}

// nycRawFiling is one row of the eLobbyist dataset.
type nycRawFiling struct {
	ID                       string   `json:"id"`
	RecordID                 string   `json:"record_id"`
	FilingType               string   `json:"filing_type"`
	Year                     flexYear `json:"year"`
	LobbyistName             string   `json:"lobbyist_name"`
	PrincipalName            string   `json:"principal_name"`
	ClientName               string   `json:"client_name"`
	ClientBusinessNature     string   `json:"client_business_nature"`
	PurposeOfLobbying        string   `json:"purpose_of_lobbying"`
	Subjects                 string   `json:"subjects"`
	BillDetails              string   `json:"bill_details"`
	AgencyLobbied            string   `json:"agency_lobbied"`
	StartDate                string   `json:"start_date"`
	CompensationAmount       string   `json:"compensation_amount"`
	ReimbursedExpensesAmount string   `json:"reimbursed_expenses_amount"`
}

// searchPredicate translates the search contract into a SoQL $where clause.
func (s *NYCSource) searchPredicate(query string, searchType SearchType, filters Filters) *Predicate {
	p := &Predicate{}
	switch searchType {
	case SearchClient, SearchAgency:
		p.LikeUpper("client_name", query)
	case SearchLobbyist:
		p.LikeUpper("principal_name", query)
	case SearchRegistrant, SearchVendor:
		p.LikeUpper("lobbyist_name", query)
	default:
		p.AnyLikeUpper([]string{"lobbyist_name", "client_name"}, query)
	}
	if filters.FilingYear != "" && filters.FilingYear != "all" {
		p.EqString("year", filters.FilingYear)
	}
	if filters.FilingType != "" && !strings.EqualFold(filters.FilingType, "all") {
		p.EqString("filing_type", filters.FilingType)
	}
	return p
}

// socrataCount issues the COUNT(*) pre-query for a predicate.
func socrataCount(ctx context.Context, client *Client, datasetURL, where string) (int, error) {
	params := url.Values{}
	params.Set("$where", where)
	params.Set("$select", "COUNT(*) AS count")

	var rows []struct {
		Count string `json:"count"`
	}
	code, err := client.GetJSON(ctx, datasetURL, params, &rows)
	if err != nil {
		return 0, err
	}
	if code != http.StatusOK {
		return 0, fmt.Errorf("Error getting result count: %d", code)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, err := strconv.Atoi(rows[0].Count)
	if err != nil {
		return 0, fmt.Errorf("Error parsing result count: %v", err)
	}
	return count, nil
}

// Search runs the count query then the data query, newest filings first.
func (s *NYCSource) Search(ctx context.Context, query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error) {
	if err := ValidateSearchParams(query, page, pageSize); err != nil {
		return nil, 0, models.Pagination{}, err
	}

	if s.useMock {
		log.Printf("[NYCLobbying] Using mock data for query %q", query)
		return MockNYCSearch(query, searchType, filters, page, pageSize)
	}

	where := s.searchPredicate(query, searchType, filters).String()

	totalCount, err := socrataCount(ctx, s.client, s.datasetURL(), where)
	if err != nil {
		return nil, 0, models.Pagination{}, err
	}

	params := url.Values{}
	params.Set("$where", where)
	params.Set("$order", "year DESC")
	params.Set("$limit", strconv.Itoa(pageSize))
	params.Set("$offset", strconv.Itoa((page-1)*pageSize))

	var rows []nycRawFiling
	code, err := s.client.GetJSON(ctx, s.datasetURL(), params, &rows)
	if err != nil {
		return nil, 0, models.Pagination{}, TransportError("NYC Lobbying API", err)
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

// normalize maps one eLobbyist row onto the canonical record.
func (s *NYCSource) normalize(raw nycRawFiling) models.Filing {
	id := raw.ID
	if id == "" {
		id = raw.RecordID
	}
	if id == "" {
		year := ""
		if raw.Year.value != nil {
			year = strconv.Itoa(*raw.Year.value)
		}
		id = SynthesizeID("nyc", raw.LobbyistName, raw.ClientName, year)
	}

	year := 0
	if raw.Year.value != nil {
		year = *raw.Year.value
	}

	filingType := raw.FilingType
	if filingType == "" {
		filingType = "ANNUAL"
	}

	filingDate := raw.StartDate
	if filingDate == "" && year != 0 {
		filingDate = fmt.Sprintf("%d-01-01", year)
	}

	f := models.Filing{
		ID:                id,
		FilingUUID:        id,
		FilingType:        filingType,
		FilingTypeDisplay: nycFilingTypeDisplay(filingType),
		FilingYear:        raw.Year.value,
		FilingPeriod:      fmt.Sprintf("January 1 - December 31, %d", year),
		PeriodDisplay:     fmt.Sprintf("Annual Filing %d", year),
		Registrant: models.Party{
			Name:        raw.LobbyistName,
			Description: "Lobbying Firm",
			Contact:     raw.PrincipalName,
		},
		Client: models.Party{
			Name:        raw.ClientName,
			Description: s.sanitize.Sanitize(raw.ClientBusinessNature),
		},
		LobbyingActivities: s.extractActivities(raw),
		FilingDate:         filingDate,
		// The eLobbyist dataset carries no direct document links.
		DocumentURL: "",
	}
	f.SetAmounts(ParseCurrency(raw.CompensationAmount), ParseCurrency(raw.ReimbursedExpensesAmount))
	return f
}

// extractActivities builds a summary activity from the purpose, subjects
// and lobbied-agency columns.
func (s *NYCSource) extractActivities(raw nycRawFiling) []models.Activity {
	if raw.PurposeOfLobbying == "" && raw.Subjects == "" && raw.BillDetails == "" {
		return []models.Activity{}
	}

	description := raw.PurposeOfLobbying
	if description == "" {
		description = "Lobbying on various matters"
	}
	subjects := raw.Subjects
	if subjects == "" {
		subjects = "Various Issues"
	}

	activity := models.Activity{
		Description:        s.sanitize.Sanitize(description),
		IssueCode:          strings.ReplaceAll(strings.ToUpper(subjects), " ", "_"),
		IssueCodeDisplay:   subjects,
		GovernmentEntities: []models.GovernmentEntity{},
	}
	for _, agency := range strings.Split(raw.AgencyLobbied, ",") {
		agency = strings.TrimSpace(agency)
		if agency != "" {
			activity.GovernmentEntities = append(activity.GovernmentEntities,
				models.GovernmentEntity{Name: agency, Type: "NYC Agency"})
		}
	}
	return []models.Activity{activity}
}

// GetFilingDetail looks up one filing by id or record_id. Transport and
// upstream failures degrade to the deterministic mock detail; a clean empty
// response is a genuine not-found.
func (s *NYCSource) GetFilingDetail(ctx context.Context, filingID string) (*models.Filing, error) {
	if s.useMock {
		return MockFilingDetail(SourceNYC, filingID), nil
	}

	p := &Predicate{}
	p.OrEqString([]string{"id", "record_id"}, filingID)

	params := url.Values{}
	params.Set("$where", p.String())

	var rows []nycRawFiling
	code, err := s.client.GetJSON(ctx, s.datasetURL(), params, &rows)
	if err != nil {
		log.Printf("[NYCLobbying] Detail lookup failed for %s, using mock fallback: %v", filingID, err)
		return MockFilingDetail(SourceNYC, filingID), nil
	}
	if code != http.StatusOK {
		log.Printf("[NYCLobbying] Detail lookup returned %d for %s, using mock fallback", code, filingID)
		return MockFilingDetail(SourceNYC, filingID), nil
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	filing := s.normalize(rows[0])
	return &filing, nil
}

// FetchVisualizationData reduces a large result page into chart series,
// bucketing spending by month.
func (s *NYCSource) FetchVisualizationData(ctx context.Context, query string, filters Filters) (*models.VisualizationData, error) {
	results, _, _, err := s.Search(ctx, query, SearchRegistrant, filters, 1, visualizationPageSize)
	if err != nil {
		return nil, err
	}
	return buildVisualizationData(results, bucketMonthly)
}

// TestConnection probes the dataset with a one-row request.
func (s *NYCSource) TestConnection(ctx context.Context) ConnectionStatus {
	return socrataConnectionTest(ctx, s.client, s.Name(), s.datasetURL())
}

// socrataConnectionTest is the shared one-row probe for Socrata datasets.
func socrataConnectionTest(ctx context.Context, client *Client, name, datasetURL string) ConnectionStatus {
	status := ConnectionStatus{Source: name}

	params := url.Values{}
	params.Set("$limit", "1")

	var rows []map[string]any
	code, err := client.GetJSON(ctx, datasetURL, params, &rows)
	if err != nil {
		status.Status = "exception"
		status.Message = "Exception occurred: " + err.Error()
		status.Error = err.Error()
		return status
	}
	if code != http.StatusOK {
		status.Status = "error"
		status.Message = fmt.Sprintf("API request failed with status code: %d", code)
		return status
	}
	status.Status = "ok"
	status.Message = fmt.Sprintf("Connection successful. Retrieved %d records.", len(rows))
	return status
}
