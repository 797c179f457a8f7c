package sources

import (
	"reflect"
	"testing"
)

func TestMockSearchDeterministic(t *testing.T) {
	a, countA, pagA, err := MockNYCSearch("Capalino", SearchRegistrant, Filters{FilingYear: "2023"}, 2, 25)
	if err != nil {
		t.Fatal(err)
	}
	b, countB, pagB, err := MockNYCSearch("Capalino", SearchRegistrant, Filters{FilingYear: "2023"}, 2, 25)
	if err != nil {
		t.Fatal(err)
	}
	if countA != countB {
		t.Errorf("counts differ across calls: %d vs %d", countA, countB)
	}
	if !reflect.DeepEqual(pagA, pagB) {
		t.Errorf("pagination differs across calls: %+v vs %+v", pagA, pagB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical mock calls produced different records")
	}
}

func TestMockSearchPagesDoNotOverlap(t *testing.T) {
	page1, count, _, err := MockNYCSearch("Uber", SearchClient, Filters{}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	page2, _, _, err := MockNYCSearch("Uber", SearchClient, Filters{}, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if count < 20 || count > 119 {
		t.Errorf("count = %d, want within [20, 119]", count)
	}
	seen := map[string]bool{}
	for _, f := range page1 {
		seen[f.ID] = true
	}
	for _, f := range page2 {
		if seen[f.ID] {
			t.Errorf("record %s appears on both pages", f.ID)
		}
	}
}

func TestMockSearchHonorsFilters(t *testing.T) {
	results, count, _, err := MockNYCSearch("Capalino", SearchRegistrant, Filters{FilingYear: "2023"}, 1, 25)
	if err != nil {
		t.Fatal(err)
	}
	wantLen := 25
	if count < wantLen {
		wantLen = count
	}
	if len(results) != wantLen {
		t.Fatalf("got %d records, want %d (count=%d)", len(results), wantLen, count)
	}
	for _, f := range results {
		if f.FilingYear == nil || *f.FilingYear != 2023 {
			t.Errorf("record %s year = %v, want 2023", f.ID, f.FilingYear)
		}
		if !f.Meta.IsMock {
			t.Errorf("record %s not flagged as mock", f.ID)
		}
		if f.Meta.OriginalQuery != "Capalino" {
			t.Errorf("record %s original query = %q", f.ID, f.Meta.OriginalQuery)
		}
	}
}

func TestMockSearchPastEndIsEmpty(t *testing.T) {
	results, count, pag, err := MockCheckbookSearch("Consolidated Edison", SearchVendor, Filters{}, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("page past the end returned %d records", len(results))
	}
	if count < 15 || count > 64 {
		t.Errorf("count = %d, want within [15, 64]", count)
	}
	if pag.HasNext {
		t.Error("page past the end claims has_next")
	}
}

func TestMockCheckbookCountRange(t *testing.T) {
	for _, q := range []string{"acme", "ACME", "  Acme  "} {
		_, count, _, err := MockCheckbookSearch(q, SearchVendor, Filters{}, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if count < 15 || count > 64 {
			t.Errorf("count = %d for %q, want within [15, 64]", count, q)
		}
	}
	// Seeding normalizes case and whitespace, so these agree.
	_, c1, _, _ := MockCheckbookSearch("acme", SearchVendor, Filters{}, 1, 10)
	_, c2, _, _ := MockCheckbookSearch("  ACME ", SearchVendor, Filters{}, 1, 10)
	if c1 != c2 {
		t.Errorf("case-variant queries got different counts: %d vs %d", c1, c2)
	}
}

func TestMockFilingDetailStable(t *testing.T) {
	for _, source := range []SourceKey{SourceSenate, SourceNYC, SourceCheckbook} {
		a := MockFilingDetail(source, "NYC-1234-2022-001")
		b := MockFilingDetail(source, "NYC-1234-2022-001")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: same id produced different details", source)
		}
		if a.ID != "NYC-1234-2022-001" {
			t.Errorf("%s: detail id = %q", source, a.ID)
		}
		if a.FilingYear == nil || *a.FilingYear != 2022 {
			t.Errorf("%s: year = %v, want 2022 recovered from id", source, a.FilingYear)
		}
		if !a.Meta.IsMock {
			t.Errorf("%s: detail not flagged as mock", source)
		}
		if len(a.LobbyingActivities) == 0 {
			t.Errorf("%s: detail has no activities", source)
		}
	}
}

func TestMockCheckbookAgencySearchNames(t *testing.T) {
	results, _, _, err := MockCheckbookSearch("parks", SearchAgency, Filters{}, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range results {
		if f.Client.Name == "" || f.Registrant.Name == "" {
			t.Fatalf("record %s missing parties: %+v", f.ID, f)
		}
		if want := "Parks "; f.Client.Name[:len(want)] != want {
			t.Errorf("agency search should derive agency name from query, got %q", f.Client.Name)
		}
	}
}
