package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/vetting-hub/internal/sources"
)

type Server struct {
	Dispatcher *sources.Dispatcher
	Echo       *echo.Echo
}

func NewServer(dispatcher *sources.Dispatcher) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Dispatcher: dispatcher,
		Echo:       e,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/search", s.handleSearch)
	api.GET("/filings/:id", s.handleFilingDetail)
	api.GET("/visualize", s.handleVisualize)
	api.GET("/export", s.handleExport)
	api.GET("/status", s.handleStatus)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// searchRequest is the parsed, defaulted query surface shared by the search,
// visualize, and export handlers.
type searchRequest struct {
	Source     sources.SourceKey
	Query      string
	SearchType sources.SearchType
	Filters    sources.Filters
	Page       int
	PageSize   int
}

func parseSearchRequest(c echo.Context) (searchRequest, error) {
	sourceKey, err := sources.ParseSourceKey(queryDefault(c, "source", string(sources.SourceSenate)))
	if err != nil {
		return searchRequest{}, err
	}

	req := searchRequest{
		Source:     sourceKey,
		Query:      strings.TrimSpace(c.QueryParam("query")),
		SearchType: sources.SearchType(queryDefault(c, "search_type", string(sources.SearchRegistrant))),
		Filters: sources.Filters{
			FilingYear:       c.QueryParam("filing_year"),
			FilingType:       c.QueryParam("filing_type"),
			AmountMin:        c.QueryParam("amount_min"),
			YearFrom:         c.QueryParam("year_from"),
			YearTo:           c.QueryParam("year_to"),
			IssueCode:        c.QueryParam("issue_code"),
			GovernmentEntity: c.QueryParam("government_entity"),
		},
		Page:     1,
		PageSize: 10,
	}

	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		req.Page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 && ps <= 100 {
		req.PageSize = ps
	}

	return req, nil
}

func queryDefault(c echo.Context, name, fallback string) string {
	if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
		return v
	}
	return fallback
}

// errorStatus maps a domain error onto an HTTP status. Validation failures
// are the caller's fault, everything else is an upstream problem.
func errorStatus(err error) int {
	if errors.Is(err, sources.ErrQueryRequired) {
		return http.StatusBadRequest
	}
	if errors.Is(err, sources.ErrNotFound) {
		return http.StatusNotFound
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "invalid data source"),
		strings.HasPrefix(msg, "invalid characters"),
		strings.HasPrefix(msg, "page number"),
		strings.HasPrefix(msg, "page size"):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}

func (s *Server) handleSearch(c echo.Context) error {
	req, err := parseSearchRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}

	result, err := s.Dispatcher.Search(c.Request().Context(), req.Source, req.Query, req.SearchType, req.Filters, req.Page, req.PageSize)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"results":    result.Filings,
		"count":      result.Count,
		"pagination": result.Pagination,
		"source":     req.Source,
	})
}

func (s *Server) handleFilingDetail(c echo.Context) error {
	sourceKey, err := sources.ParseSourceKey(queryDefault(c, "source", string(sources.SourceSenate)))
	if err != nil {
		return errorJSON(c, err)
	}

	filing, err := s.Dispatcher.GetFilingDetail(c.Request().Context(), sourceKey, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, filing)
}

func (s *Server) handleVisualize(c echo.Context) error {
	req, err := parseSearchRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}

	data, err := s.Dispatcher.FetchVisualizationData(c.Request().Context(), req.Source, req.Query, req.Filters)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, data)
}

func (s *Server) handleStatus(c echo.Context) error {
	statuses := s.Dispatcher.TestConnections(c.Request().Context())
	overall := "ok"
	for _, st := range statuses {
		if !st.OK() {
			overall = "degraded"
			break
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  overall,
		"sources": statuses,
	})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
