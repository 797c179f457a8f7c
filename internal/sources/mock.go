package sources

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"

	"github.com/david/vetting-hub/internal/models"
)

// Mock fallback generator. Produces plausible, internally consistent
// synthetic result sets when real upstream access is unavailable. Output is
// a pure function of the input query/id: the generator is seeded from a
// stable hash of the input, and each record derives its own seed from its
// absolute index, so pagination across the same query is stable and page 2
// never duplicates page 1's rows.

var nycFirms = []string{
	"Capalino+Company", "Pitta Bishop & Del Giorno LLC", "Constantinople & Vallone Consulting LLC",
	"Kasirer LLC", "Geto & de Milly Inc.", "Greenberg Traurig, LLP", "Bolton-St. Johns LLC",
	"Fried, Frank, Harris, Shriver & Jacobson LLP", "Manatt, Phelps & Phillips, LLP",
	"Davidoff Hutcher & Citron LLP", "Mercury Public Affairs, LLC", "Cozen O'Connor Public Strategies",
}

var nycClients = []string{
	"Real Estate Board of New York", "Airbnb, Inc.", "Uber Technologies Inc.",
	"New York University", "Columbia University", "Mount Sinai Hospital",
	"Madison Square Garden Entertainment Corp.", "The Related Companies, L.P.",
	"SL Green Realty Corp.", "Vornado Realty Trust", "Extell Development Company",
	"New York Building Congress", "Tishman Speyer",
}

var nycAgencies = []string{
	"Office of the Mayor", "Department of City Planning", "Department of Buildings",
	"New York City Council", "Department of Housing Preservation and Development",
	"Economic Development Corporation", "Department of Transportation",
	"Department of Environmental Protection", "Department of Health and Mental Hygiene",
	"Department of Education", "Department of Parks and Recreation",
	"Department of Consumer and Worker Protection",
}

var nycIssues = []string{
	"Land Use", "Zoning", "Housing", "Transportation", "Economic Development",
	"Health", "Education", "Environment", "Public Safety", "Finance",
	"Technology", "Social Services", "Contracts", "Procurement",
}

var checkbookAgencies = []string{
	"Department of Education", "Health and Hospitals Corporation",
	"Department of Transportation", "Department of Environmental Protection",
	"Department of Parks and Recreation", "Department of Sanitation",
	"Department of Housing Preservation and Development", "Police Department",
	"Fire Department", "Department of Correction",
	"Department of Information Technology and Telecommunications",
}

var contractPurposes = []string{
	"Technology Services", "Consulting Services", "Construction Services",
	"Professional Services", "Equipment and Supplies", "Maintenance Services",
	"Engineering Services", "Educational Services", "Healthcare Services",
	"Transportation Services", "Social Services", "Security Services",
}

var contactFirst = []string{"John", "Sarah", "Michael", "Jennifer"}
var contactLast = []string{"Smith", "Johnson", "Williams", "Brown"}

var nycFilingTypes = []string{"ANNUAL", "PERIODIC", "REGISTRATION", "TERMINATION"}
var checkbookContractTypes = []string{"EXPENSE", "REVENUE", "AWARD", "GRANT", "CAPITAL"}

// seedFor hashes an input string to a stable RNG seed.
func seedFor(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(s))))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// recordRNG derives a per-record generator so a record's fields depend only
// on the query and its absolute index, never on which page fetched it.
func recordRNG(seed int64, index int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(index)*0x9e3779b9))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}

func contactName(rng *rand.Rand) string {
	return pick(rng, contactFirst) + " " + pick(rng, contactLast)
}

// mockYear resolves the filing year for a synthetic record: the filter's
// year when parseable, otherwise defaultYear (or, when defaultYear is 0, a
// deterministic pick from 2020-2023).
func mockYear(rng *rand.Rand, filters Filters, defaultYear int) int {
	if y, err := strconv.Atoi(filters.FilingYear); err == nil {
		return y
	}
	if defaultYear != 0 {
		return defaultYear
	}
	return 2020 + rng.Intn(4)
}

// MockNYCSearch generates a synthetic city-lobbying result page.
func MockNYCSearch(query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error) {
	seed := seedFor(query)
	baseCount := 20 + int(seed%100)

	firms := append(append([]string{}, nycFirms...),
		titleCase(query)+" Associates", "NYC Advocates", "Metropolitan "+titleCase(query)+" Group")
	clients := append(append([]string{}, nycClients...), titleCase(query)+" New York LLC")

	start := (page - 1) * pageSize
	n := baseCount - start
	if n > pageSize {
		n = pageSize
	}
	if n < 0 {
		n = 0
	}

	results := make([]models.Filing, 0, n)
	for i := 0; i < n; i++ {
		idx := start + i
		rng := recordRNG(seed, idx)

		filingID := fmt.Sprintf("NYC-%d-%04d", seed%10000, idx)
		clientName := clients[idx%len(clients)]
		registrantName := firms[idx%len(firms)]
		year := mockYear(rng, filters, 2023)

		activities := mockActivities(rng, clientName)
		filingType := pick(rng, nycFilingTypes)

		f := models.Filing{
			ID:                filingID,
			FilingUUID:        filingID,
			FilingType:        filingType,
			FilingTypeDisplay: nycFilingTypeDisplay(filingType),
			FilingYear:        models.Int(year),
			FilingPeriod:      fmt.Sprintf("January 1 - December 31, %d", year),
			PeriodDisplay:     fmt.Sprintf("January 1 - December 31, %d", year),
			Registrant: models.Party{
				Name:        registrantName,
				Description: "Lobbying Firm",
				Contact:     contactName(rng),
			},
			Client: models.Party{
				Name:        clientName,
				Description: "Company involved in " + strings.ToLower(activities[0].IssueCodeDisplay),
			},
			LobbyingActivities: activities,
			FilingDate:         fmt.Sprintf("%d-%02d-%02d", year, 1+rng.Intn(12), 1+rng.Intn(28)),
			DocumentURL:        fmt.Sprintf("https://example.com/nyc/filings/%s.pdf", filingID),
			Meta:               models.Meta{IsMock: true, OriginalQuery: query},
		}
		compensation := float64((5+rng.Intn(26))*10) * 1000
		expenses := float64(1+rng.Intn(5)) * 1000
		f.SetAmounts(models.Float64(compensation), models.Float64(expenses))

		results = append(results, f)
	}

	return results, baseCount, models.NewPagination(baseCount, page, pageSize), nil
}

// MockCheckbookSearch generates a synthetic contracts result page.
func MockCheckbookSearch(query string, searchType SearchType, filters Filters, page, pageSize int) ([]models.Filing, int, models.Pagination, error) {
	seed := seedFor(query)
	baseCount := 15 + int(seed%50)

	start := (page - 1) * pageSize
	n := baseCount - start
	if n > pageSize {
		n = pageSize
	}
	if n < 0 {
		n = 0
	}

	suffixes := []string{"Inc.", "LLC", "Corp.", "Group", "Services"}

	results := make([]models.Filing, 0, n)
	for i := 0; i < n; i++ {
		idx := start + i
		rng := recordRNG(seed, idx)

		contractID := fmt.Sprintf("NYC-CT%d-%04d", seed%10000, idx)

		var agencyName, vendorName string
		if searchType == SearchAgency {
			agencyName = titleCase(query) + " " + checkbookAgencies[idx%len(checkbookAgencies)]
			vendorName = fmt.Sprintf("Vendor %d", int(seed%1000)+idx)
		} else {
			agencyName = checkbookAgencies[idx%len(checkbookAgencies)]
			vendorName = titleCase(query) + " " + suffixes[idx%len(suffixes)]
		}

		year := mockYear(rng, filters, 0)
		startMonth, startDay := 1+rng.Intn(12), 1+rng.Intn(28)
		startDate := fmt.Sprintf("%d-%02d-%02d", year, startMonth, startDay)
		endDate := fmt.Sprintf("%d-%02d-%02d", year+1+rng.Intn(3), startMonth, startDay)

		amount := float64(100+rng.Intn(4900)) * 1000
		contractType := pick(rng, checkbookContractTypes)
		purpose := contractPurposes[idx%len(contractPurposes)] + " for " + agencyName

		f := models.Filing{
			ID:                contractID,
			FilingUUID:        contractID,
			FilingType:        contractType,
			FilingTypeDisplay: checkbookTypeDisplay(contractType),
			FilingYear:        models.Int(year),
			FilingPeriod:      startDate + " - " + endDate,
			PeriodDisplay:     startDate + " - " + endDate,
			Registrant: models.Party{
				Name:        vendorName,
				Description: "Vendor/Contractor",
				Contact:     contactName(rng),
				Address:     fmt.Sprintf("%d Broadway, New York, NY", 100+rng.Intn(900)),
			},
			Client: models.Party{
				Name:        agencyName,
				Description: "NYC Government Agency",
			},
			LobbyingActivities: []models.Activity{{
				Description:      purpose,
				IssueCode:        contractType,
				IssueCodeDisplay: checkbookTypeDisplay(contractType),
				GovernmentEntities: []models.GovernmentEntity{
					{Name: agencyName, Type: "NYC Agency"},
				},
			}},
			FilingDate:  startDate,
			DocumentURL: "https://www.checkbooknyc.com/contract_details/" + contractID,
			StartDate:   startDate,
			EndDate:     endDate,
			Meta:        models.Meta{IsMock: true, OriginalQuery: query},
		}
		f.SetAmounts(models.Float64(amount), nil)
		f.OriginalAmount = models.Float64(amount)
		f.CurrentAmount = models.Float64(amount)

		results = append(results, f)
	}

	return results, baseCount, models.NewPagination(baseCount, page, pageSize), nil
}

// MockFilingDetail generates a synthetic detail record for an id, with
// source-appropriate parties and activities. The same id always yields the
// same record.
func MockFilingDetail(source SourceKey, filingID string) *models.Filing {
	rng := recordRNG(seedFor(filingID), 0)

	// Recover the year from ids shaped like NYC-<entity>-<year>-<n>.
	year := 2023
	for _, part := range strings.Split(filingID, "-") {
		if n, err := strconv.Atoi(part); err == nil && n >= 2000 && n <= 2100 {
			year = n
			break
		}
	}

	switch source {
	case SourceCheckbook:
		f, _, _, _ := MockCheckbookSearch(filingID, SearchVendor, Filters{FilingYear: strconv.Itoa(year)}, 1, 1)
		detail := f[0]
		detail.ID = filingID
		detail.FilingUUID = filingID
		detail.DocumentURL = "https://www.checkbooknyc.com/contract_details/" + filingID
		detail.Meta = models.Meta{IsMock: true}
		return &detail
	case SourceSenate:
		return mockLobbyingDetail(rng, filingID, year, "Federal Agency",
			fmt.Sprintf("https://lda.senate.gov/filings/public/filing/%s/print/", filingID))
	default:
		return mockLobbyingDetail(rng, filingID, year, "City Agency",
			fmt.Sprintf("https://example.com/nyc/filings/%s.pdf", filingID))
	}
}

func mockLobbyingDetail(rng *rand.Rand, filingID string, year int, entityType, documentURL string) *models.Filing {
	clientName := fmt.Sprintf("NYC Client %d", 1000+rng.Intn(9000))
	registrantName := fmt.Sprintf("NYC Lobbyist Firm %d", 1000+rng.Intn(9000))

	numSubjects := 1 + rng.Intn(4)
	activities := make([]models.Activity, 0, numSubjects)
	for i := 0; i < numSubjects; i++ {
		issue := nycIssues[rng.Intn(len(nycIssues))]
		entities := make([]models.GovernmentEntity, 0, 3)
		for j := 0; j < 1+rng.Intn(3); j++ {
			entities = append(entities, models.GovernmentEntity{
				Name: pick(rng, nycAgencies),
				Type: entityType,
			})
		}
		activities = append(activities, models.Activity{
			Description:        fmt.Sprintf("Matters related to %s regulations and policies affecting %s.", strings.ToLower(issue), clientName),
			IssueCode:          strings.ReplaceAll(strings.ToUpper(issue), " ", "_"),
			IssueCodeDisplay:   issue,
			GovernmentEntities: entities,
		})
	}

	filingType := pick(rng, nycFilingTypes)
	period := fmt.Sprintf("January 1 - December 31, %d", year)

	f := &models.Filing{
		ID:                filingID,
		FilingUUID:        filingID,
		FilingType:        filingType,
		FilingTypeDisplay: nycFilingTypeDisplay(filingType),
		FilingYear:        models.Int(year),
		FilingPeriod:      period,
		PeriodDisplay:     period,
		Registrant: models.Party{
			Name:        registrantName,
			Description: "Lobbying and Government Relations Firm",
			Contact:     contactName(rng),
			Address:     fmt.Sprintf("%d 3rd Avenue, Suite %d, New York, NY 10017", 100+rng.Intn(900), 100+rng.Intn(900)),
		},
		Client: models.Party{
			Name:        clientName,
			Description: "Company involved in " + strings.ToLower(activities[0].IssueCodeDisplay),
			Address:     fmt.Sprintf("%d Madison Avenue, New York, NY 10022", 100+rng.Intn(900)),
		},
		LobbyingActivities: activities,
		FilingDate:         fmt.Sprintf("%d-%02d-%02d", year, 1+rng.Intn(12), 1+rng.Intn(28)),
		DocumentURL:        documentURL,
		Meta:               models.Meta{IsMock: true},
	}
	compensation := float64(20+rng.Intn(81)) * 1000
	expenses := float64(1+rng.Intn(10)) * 1000
	f.SetAmounts(models.Float64(compensation), models.Float64(expenses))
	return f
}

func mockActivities(rng *rand.Rand, clientName string) []models.Activity {
	num := 1 + rng.Intn(3)
	activities := make([]models.Activity, 0, num)
	for i := 0; i < num; i++ {
		issue := nycIssues[rng.Intn(len(nycIssues))]
		entities := make([]models.GovernmentEntity, 0, 3)
		for j := 0; j < 1+rng.Intn(3); j++ {
			entities = append(entities, models.GovernmentEntity{Name: pick(rng, nycAgencies), Type: "NYC Agency"})
		}
		activities = append(activities, models.Activity{
			Description:        fmt.Sprintf("Matters related to %s for %s", strings.ToLower(issue), clientName),
			IssueCode:          strings.ReplaceAll(strings.ToUpper(issue), " ", "_"),
			IssueCodeDisplay:   issue,
			GovernmentEntities: entities,
		})
	}
	return activities
}
