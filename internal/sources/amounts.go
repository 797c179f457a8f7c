package sources

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ParseCurrency parses a currency-formatted string ("$1,250,000.00") to a
// float. Returns nil for empty or unparseable input; never errors.
func ParseCurrency(s string) *float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &val
}

// flexAmount decodes upstream money fields that arrive as JSON numbers,
// quoted decimals with currency formatting, or null.
type flexAmount struct {
	value *float64
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.value = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			a.value = nil
			return nil
		}
		a.value = ParseCurrency(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		a.value = nil
		return nil
	}
	a.value = &f
	return nil
}

// flexYear decodes a year that may arrive as a JSON number, a quoted digit
// string, or null.
type flexYear struct {
	value *int
}

func (y *flexYear) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		y.value = nil
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		y.value = nil
		return nil
	}
	y.value = &n
	return nil
}
