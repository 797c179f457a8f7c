package sources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/david/vetting-hub/internal/models"
)

// SenateSource searches the federal Senate LDA lobbying registry. The LDA
// API speaks native query parameters and returns a {count, results} envelope,
// so no count pre-query is needed and upstream ordering is preserved.
type SenateSource struct {
	baseURL  string
	apiKey   string
	client   *Client
	sanitize *bluemonday.Policy
	useMock  bool
}

// NewSenateSource builds the federal adapter. When useMock is set, detail
// lookups come from the fallback generator without touching the network.
func NewSenateSource(cfg SenateConfig, httpCfg HTTPConfig, transport http.RoundTripper, useMock bool) *SenateSource {
	timeout := httpCfg.SenateTimeoutSeconds
	if timeout == 0 {
		timeout = 45
	}
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["x-api-key"] = cfg.APIKey
	}
	return &SenateSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: NewClient(ClientConfig{
			TimeoutSeconds: timeout,
			MaxRetries:     httpCfg.MaxRetries,
			RateLimitRPS:   httpCfg.RateLimitRPS,
			Headers:        headers,
			Transport:      transport,
		}),
		sanitize: bluemonday.StrictPolicy(),
		useMock:  useMock,
	}
}

func (s *SenateSource) Name() string            { return "Senate LDA (Federal)" }
func (s *SenateSource) GovernmentLevel() string { return "Federal" }

// ldaEnvelope is the LDA list response.
type ldaEnvelope struct {
	Count   int         `json:"count"`
	Results []ldaFiling `json:"results"`
}

type ldaFiling struct {
	FilingUUID          string        `json:"filing_uuid"`
	FilingType          string        `json:"filing_type"`
	FilingTypeDisplay   string        `json:"filing_type_display"`
	FilingYear          flexYear      `json:"filing_year"`
	FilingPeriod        string        `json:"filing_period"`
	FilingPeriodDisplay string        `json:"filing_period_display"`
	DtPosted            string        `json:"dt_posted"`
	FilingDocumentURL   string        `json:"filing_document_url"`
	Income              flexAmount    `json:"income"`
	Expenses            flexAmount    `json:"expenses"`
	Registrant          ldaRegistrant `json:"registrant"`
	Client              ldaClient     `json:"client"`
	LobbyingActivities  []ldaActivity `json:"lobbying_activities"`
}

type ldaRegistrant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContactName string `json:"contact_name"`
}

type ldaClient struct {
	Name               string `json:"name"`
	GeneralDescription string `json:"general_description"`
}

type ldaActivity struct {
	Description             string `json:"description"`
	GeneralIssueCode        string `json:"general_issue_code"`
	GeneralIssueCodeDisplay string `json:"general_issue_code_display"`
	GovernmentEntities      []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"government_entities"`
}

// Search queries GET /filings/ with native LDA parameters. The filing_year
// filter defaults to the current year because the API requires one.
func (s *SenateSource) Search(ctx context.Context, query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error) {
	if err := ValidateSearchParams(query, page, pageSize); err != nil {
		return nil, 0, models.Pagination{}, err
	}
	if s.apiKey == "" {
		return nil, 0, models.Pagination{}, errors.New("Senate LDA API key not configured")
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(pageSize))

	switch searchType {
	case SearchClient:
		params.Set("client_name", query)
	case SearchLobbyist:
		params.Set("lobbyist_name", query)
	default:
		// Registrant is the documented default, including for vendor/agency
		// aliases which only the city sources distinguish.
		params.Set("registrant_name", query)
	}

	if filters.FilingYear != "" && filters.FilingYear != "all" {
		params.Set("filing_year", filters.FilingYear)
	} else {
		params.Set("filing_year", strconv.Itoa(time.Now().Year()))
	}
	if filters.FilingType != "" && filters.FilingType != "all" {
		params.Set("filing_type", filters.FilingType)
	}
	for key, val := range map[string]string{
		"year_from":         filters.YearFrom,
		"year_to":           filters.YearTo,
		"issue_code":        filters.IssueCode,
		"government_entity": filters.GovernmentEntity,
		"amount_min":        filters.AmountMin,
	} {
		if val != "" {
			params.Set(key, val)
		}
	}

	log.Printf("[SenateLDA] Searching filings query=%q type=%s page=%d", query, searchType, page)

	var envelope ldaEnvelope
	code, err := s.client.GetJSON(ctx, s.baseURL+"/filings/", params, &envelope)
	if err != nil {
		return nil, 0, models.Pagination{}, TransportError("Senate LDA API", err)
	}
	if code != http.StatusOK {
		return nil, 0, models.Pagination{}, StatusError(code)
	}

	results := make([]models.Filing, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		results = append(results, s.normalize(raw))
	}

	return results, envelope.Count, models.NewPagination(envelope.Count, page, pageSize), nil
}

// normalize maps one raw LDA filing onto the canonical record. Missing
// fields degrade to null/empty defaults; it never fails.
func (s *SenateSource) normalize(raw ldaFiling) models.Filing {
	id := raw.FilingUUID
	if id == "" {
		id = SynthesizeID("senate", raw.Registrant.Name, raw.Client.Name, raw.FilingPeriod, raw.DtPosted)
	}

	activities := make([]models.Activity, 0, len(raw.LobbyingActivities))
	for _, a := range raw.LobbyingActivities {
		entities := make([]models.GovernmentEntity, 0, len(a.GovernmentEntities))
		for _, e := range a.GovernmentEntities {
			entities = append(entities, models.GovernmentEntity{Name: e.Name, Type: e.Type})
		}
		activities = append(activities, models.Activity{
			Description:        s.sanitize.Sanitize(a.Description),
			IssueCode:          a.GeneralIssueCode,
			IssueCodeDisplay:   a.GeneralIssueCodeDisplay,
			GovernmentEntities: entities,
		})
	}

	f := models.Filing{
		ID:                id,
		FilingUUID:        id,
		FilingType:        raw.FilingType,
		FilingTypeDisplay: raw.FilingTypeDisplay,
		FilingYear:        raw.FilingYear.value,
		FilingPeriod:      raw.FilingPeriod,
		PeriodDisplay:     raw.FilingPeriodDisplay,
		Registrant: models.Party{
			Name:        raw.Registrant.Name,
			Description: s.sanitize.Sanitize(raw.Registrant.Description),
			Contact:     raw.Registrant.ContactName,
		},
		Client: models.Party{
			Name:        raw.Client.Name,
			Description: s.sanitize.Sanitize(raw.Client.GeneralDescription),
		},
		LobbyingActivities: activities,
		FilingDate:         raw.DtPosted,
		DocumentURL:        raw.FilingDocumentURL,
	}
	f.SetAmounts(raw.Income.value, raw.Expenses.value)
	return f
}

// GetFilingDetail fetches GET /filings/{id}/. A 404 is a genuine not-found;
// transport failures and other upstream errors degrade to the deterministic
// mock detail so the caller still gets a record, flagged via meta.is_mock.
func (s *SenateSource) GetFilingDetail(ctx context.Context, filingID string) (*models.Filing, error) {
	if s.useMock {
		return MockFilingDetail(SourceSenate, filingID), nil
	}

	var raw ldaFiling
	code, err := s.client.GetJSON(ctx, s.baseURL+"/filings/"+url.PathEscape(filingID)+"/", nil, &raw)
	if err != nil {
		log.Printf("[SenateLDA] Detail lookup failed for %s, using mock fallback: %v", filingID, err)
		return MockFilingDetail(SourceSenate, filingID), nil
	}
	if code == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if code != http.StatusOK {
		log.Printf("[SenateLDA] Detail lookup returned %d for %s, using mock fallback", code, filingID)
		return MockFilingDetail(SourceSenate, filingID), nil
	}

	filing := s.normalize(raw)
	return &filing, nil
}

// FetchVisualizationData reduces a large result page into chart series.
// Federal filings are quarterly, so spending buckets by quarter.
func (s *SenateSource) FetchVisualizationData(ctx context.Context, query string, filters Filters) (*models.VisualizationData, error) {
	results, _, _, err := s.Search(ctx, query, SearchRegistrant, filters, 1, visualizationPageSize)
	if err != nil {
		return nil, err
	}
	return buildVisualizationData(results, bucketQuarterly)
}

// TestConnection probes /filings/ with a one-row request.
func (s *SenateSource) TestConnection(ctx context.Context) ConnectionStatus {
	status := ConnectionStatus{Source: s.Name()}
	if s.apiKey == "" {
		status.Status = "config_error"
		status.Message = "LDA API key not configured"
		return status
	}

	params := url.Values{}
	params.Set("filing_year", strconv.Itoa(time.Now().Year()))
	params.Set("limit", "1")

	var envelope ldaEnvelope
	code, err := s.client.GetJSON(ctx, s.baseURL+"/filings/", params, &envelope)
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
	status.Message = fmt.Sprintf("Connection successful. Found %d filings.", envelope.Count)
	return status
}
