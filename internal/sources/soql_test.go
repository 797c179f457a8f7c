package sources

import "testing"

func TestPredicateLikeUpper(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{"plain term", "acme", "UPPER(vendor_name) LIKE '%ACME%'"},
		{"single quote doubled", "O'Brien", "UPPER(vendor_name) LIKE '%O''BRIEN%'"},
		{"wildcards stripped", "ac%me_corp", "UPPER(vendor_name) LIKE '%ACMECORP%'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Predicate{}
			p.LikeUpper("vendor_name", tt.term)
			if got := p.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicateConjunction(t *testing.T) {
	p := &Predicate{}
	p.AnyLikeUpper([]string{"lobbyist_name", "client_name"}, "acme")
	p.EqString("year", "2023")
	p.GteNumber("maximum_contract_amount", 50000)

	want := "(UPPER(lobbyist_name) LIKE '%ACME%' OR UPPER(client_name) LIKE '%ACME%') " +
		"AND year = '2023' AND maximum_contract_amount >= 50000"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPredicateGteNumberPlainDecimal(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"small floor", 50000, "maximum_contract_amount >= 50000"},
		{"million floor", 1000000, "maximum_contract_amount >= 1000000"},
		{"fractional floor", 2500000.5, "maximum_contract_amount >= 2500000.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Predicate{}
			p.GteNumber("maximum_contract_amount", tt.value)
			if got := p.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicateOrEqStringParenthesized(t *testing.T) {
	p := &Predicate{}
	p.OrEqString([]string{"id", "record_id"}, "abc")
	p.EqNumber("year", 2023)

	want := "(id = 'abc' OR record_id = 'abc') AND year = 2023"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPredicateEqStringEscapes(t *testing.T) {
	p := &Predicate{}
	p.EqString("contract_id", "x' OR '1'='1")
	want := "contract_id = 'x'' OR ''1''=''1'"
	if got := p.String(); got != want {
		t.Errorf("injection not neutralized: got %q, want %q", got, want)
	}
}

func TestPredicateEmpty(t *testing.T) {
	p := &Predicate{}
	if !p.Empty() {
		t.Error("new predicate should be empty")
	}
	if p.String() != "" {
		t.Errorf("empty predicate renders %q", p.String())
	}
	p.EqNumber("fiscal_year", 2024)
	if p.Empty() {
		t.Error("predicate with a clause reported empty")
	}
	if got, want := p.String(), "fiscal_year = 2024"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
