package sources

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func checkbookConfig() SocrataConfig {
	return SocrataConfig{BaseURL: "https://data.test/resource", Dataset: "6vm5-bzd6"}
}

func TestCheckbookSearchTypePredicates(t *testing.T) {
	src := NewCheckbookSource(checkbookConfig(), testHTTPConfig(), nil, false)

	tests := []struct {
		name       string
		searchType SearchType
		filters    Filters
		want       string
	}{
		{"vendor", SearchVendor, Filters{}, "UPPER(vendor_name) LIKE '%CON ED%'"},
		{"agency", SearchAgency, Filters{}, "UPPER(agency_name) LIKE '%CON ED%'"},
		{"registrant aliases vendor", SearchRegistrant, Filters{}, "UPPER(vendor_name) LIKE '%CON ED%'"},
		{
			"unknown matches either party",
			SearchType("anything"), Filters{},
			"(UPPER(vendor_name) LIKE '%CON ED%' OR UPPER(agency_name) LIKE '%CON ED%')",
		},
		{
			"filters conjoin",
			SearchVendor,
			Filters{FilingYear: "2024", FilingType: "EXPENSE", AmountMin: "50000"},
			"UPPER(vendor_name) LIKE '%CON ED%' AND fiscal_year = 2024 AND contract_type = 'EXPENSE' AND maximum_contract_amount >= 50000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := src.searchPredicate("con ed", tt.searchType, tt.filters).String()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckbookSearchOrdersByEndDate(t *testing.T) {
	var dataReq *http.Request
	src := NewCheckbookSource(checkbookConfig(), testHTTPConfig(), socrataStub(`[{"count": "7"}]`, `[]`, &dataReq), false)

	_, count, pagination, err := src.Search(context.Background(), "con ed", SearchVendor, Filters{}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if count != 7 || pagination.TotalPages != 1 {
		t.Errorf("count = %d, pagination = %+v", count, pagination)
	}
	if got := dataReq.URL.Query().Get("$order"); got != "end_date DESC" {
		t.Errorf("$order = %q", got)
	}
}

func TestCheckbookNormalize(t *testing.T) {
	src := NewCheckbookSource(checkbookConfig(), testHTTPConfig(), nil, false)

	f := src.normalize(checkbookRawContract{
		ContractID:             "CT-2024-0099",
		ContractType:           "EXPENSE",
		FiscalYear:             flexYear{value: intp(2024)},
		StartDate:              "2024-01-01",
		EndDate:                "2026-12-31",
		VendorName:             "Consolidated Edison",
		AgencyName:             "Department of Transportation",
		Purpose:                "Street lighting maintenance",
		ContactName:            "Pat Doe",
		MaximumContractAmount:  "$2,500,000",
		OriginalContractAmount: "2000000",
	})

	if f.ID != "CT-2024-0099" || f.FilingUUID != "CT-2024-0099" {
		t.Errorf("id = %q / %q", f.ID, f.FilingUUID)
	}
	if f.FilingTypeDisplay != "Expense Contract" {
		t.Errorf("display = %q", f.FilingTypeDisplay)
	}
	if f.FilingPeriod != "2024-01-01 - 2026-12-31" {
		t.Errorf("period = %q", f.FilingPeriod)
	}
	if f.DocumentURL != "https://www.checkbooknyc.com/contract_details/CT-2024-0099" {
		t.Errorf("document url = %q", f.DocumentURL)
	}
	if f.Registrant.Name != "Consolidated Edison" || f.Registrant.Description != "Vendor/Contractor" {
		t.Errorf("registrant = %+v", f.Registrant)
	}
	if f.Client.Name != "Department of Transportation" || f.Client.Description != "NYC Government Agency" {
		t.Errorf("client = %+v", f.Client)
	}
	if f.Amount == nil || *f.Amount != 2500000 {
		t.Errorf("amount = %v, want maximum contract amount", f.Amount)
	}
	if f.OriginalAmount == nil || *f.OriginalAmount != 2000000 {
		t.Errorf("original amount = %v", f.OriginalAmount)
	}
	if f.CurrentAmount == nil || *f.CurrentAmount != 2500000 {
		t.Errorf("current amount = %v", f.CurrentAmount)
	}
	if len(f.LobbyingActivities) != 1 || f.LobbyingActivities[0].Description != "Street lighting maintenance" {
		t.Errorf("activities = %+v", f.LobbyingActivities)
	}
}

func TestCheckbookNormalizeMissingDates(t *testing.T) {
	src := NewCheckbookSource(checkbookConfig(), testHTTPConfig(), nil, false)

	f := src.normalize(checkbookRawContract{
		ContractID:   "CT-1",
		ContractType: "GRANT",
		VendorName:   "Vendor",
		AgencyName:   "Agency",
	})
	if f.FilingPeriod != "N/A" {
		t.Errorf("period = %q, want N/A without dates", f.FilingPeriod)
	}
	if f.Amount != nil || f.AmountReported {
		t.Errorf("no amount on record, got %v", f.Amount)
	}
}

func TestCheckbookDetailByContractID(t *testing.T) {
	src := NewCheckbookSource(checkbookConfig(), testHTTPConfig(), roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if got := r.URL.Query().Get("$where"); !strings.Contains(got, "contract_id = 'CT-9'") {
			t.Errorf("$where = %q", got)
		}
		return jsonResponse(http.StatusOK, `[{"contract_id": "CT-9", "contract_type": "EXPENSE", "vendor_name": "V", "agency_name": "A"}]`), nil
	}), false)

	filing, err := src.GetFilingDetail(context.Background(), "CT-9")
	if err != nil {
		t.Fatal(err)
	}
	if filing.ID != "CT-9" || filing.Meta.IsMock {
		t.Errorf("detail = %+v", filing)
	}
}
