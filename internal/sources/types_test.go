package sources

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSourceKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SourceKey
		wantErr bool
	}{
		{"senate", SourceSenate, false},
		{"nyc", SourceNYC, false},
		{"nyc_checkbook", SourceCheckbook, false},
		{" Senate ", SourceSenate, false},
		{"NYC_CHECKBOOK", SourceCheckbook, false},
		{"federal", "", true},
		{"", "", true},
		{"nyc-checkbook", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSourceKey(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSourceKey(%q) = %q, want error", tt.input, got)
				}
				if !strings.Contains(err.Error(), "invalid data source") {
					t.Errorf("error = %q, want invalid data source message", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSourceKey(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSourceKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateSearchParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		wantErr  string
	}{
		{"valid", "acme", 1, 10, ""},
		{"empty query", "", 1, 10, "Search query is required"},
		{"whitespace query", "   ", 1, 10, "Search query is required"},
		{"zero page", "acme", 0, 10, "page number"},
		{"negative page", "acme", -1, 10, "page number"},
		{"zero page size", "acme", 1, 0, "page size"},
		{"angle brackets", "<script>", 1, 10, "invalid characters"},
		{"semicolon", "acme; drop", 1, 10, "invalid characters"},
		{"pipe", "a|b", 1, 10, "invalid characters"},
		{"backtick", "a`b", 1, 10, "invalid characters"},
		{"ampersand", "Barnes & Noble", 1, 10, "invalid characters"},
		{"apostrophe allowed", "O'Brien", 1, 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchParams(tt.query, tt.page, tt.pageSize)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("want error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmptyQueryIsErrQueryRequired(t *testing.T) {
	if err := ValidateSearchParams("", 1, 10); !errors.Is(err, ErrQueryRequired) {
		t.Errorf("empty query error = %v, want ErrQueryRequired", err)
	}
}
