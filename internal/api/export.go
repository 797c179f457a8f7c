package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/david/vetting-hub/internal/models"
	"github.com/david/vetting-hub/internal/sources"
)

// exportPageSize caps how many records one CSV export pulls.
const exportPageSize = 500

// handleExport streams the current result set as a CSV attachment. Column
// layout follows the source: lobbying sources report income/expenses,
// contracts report a single amount with its date range.
func (s *Server) handleExport(c echo.Context) error {
	req, err := parseSearchRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}

	result, err := s.Dispatcher.Search(c.Request().Context(), req.Source, req.Query, req.SearchType, req.Filters, 1, exportPageSize)
	if err != nil {
		return errorJSON(c, err)
	}

	filename := fmt.Sprintf("%s_filings_%s.csv", req.Source, sanitizeFilename(req.Query))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if req.Source == sources.SourceCheckbook {
		if err := writeContractRows(w, result.Filings); err != nil {
			return err
		}
	} else if err := writeLobbyingRows(w, result.Filings); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeLobbyingRows(w *csv.Writer, filings []models.Filing) error {
	header := []string{"filing_uuid", "filing_type", "filing_year", "registrant", "client", "income", "expenses", "filing_date"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range filings {
		row := []string{
			f.FilingUUID,
			f.FilingType,
			fmtIntPtr(f.FilingYear),
			f.Registrant.Name,
			f.Client.Name,
			fmtFloatPtr(f.Income),
			fmtFloatPtr(f.Expenses),
			f.FilingDate,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeContractRows(w *csv.Writer, filings []models.Filing) error {
	header := []string{"contract_id", "contract_type", "fiscal_year", "vendor", "agency", "amount", "start_date", "end_date"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range filings {
		row := []string{
			f.FilingUUID,
			f.FilingType,
			fmtIntPtr(f.FilingYear),
			f.Registrant.Name,
			f.Client.Name,
			fmtFloatPtr(f.Amount),
			f.StartDate,
			f.EndDate,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// sanitizeFilename keeps the query usable inside a Content-Disposition
// filename.
func sanitizeFilename(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	var b strings.Builder
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "export"
	}
	return b.String()
}
