package sources

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/david/vetting-hub/internal/cache"
	"github.com/david/vetting-hub/internal/models"
)

// SearchResult is one page of search output, cached as a unit.
type SearchResult struct {
	Filings    []models.Filing   `json:"results"`
	Count      int               `json:"count"`
	Pagination models.Pagination `json:"pagination"`
}

// Dispatcher routes requests to the registered adapters by source key and
// memoizes responses in a TTL cache. Routing is over the closed SourceKey
// enumeration; an unregistered or unknown key is an error, never a fallback.
type Dispatcher struct {
	sources map[SourceKey]DataSource
	cache   *cache.Cache
}

// NewDispatcher builds a dispatcher over the given adapters.
func NewDispatcher(adapters map[SourceKey]DataSource, c *cache.Cache) *Dispatcher {
	if c == nil {
		c = cache.New(cache.DefaultTTL)
	}
	return &Dispatcher{sources: adapters, cache: c}
}

// Source returns the adapter registered for key.
func (d *Dispatcher) Source(key SourceKey) (DataSource, error) {
	src, ok := d.sources[key]
	if !ok {
		return nil, fmt.Errorf("invalid data source: %s", key)
	}
	return src, nil
}

// Keys returns the registered source keys.
func (d *Dispatcher) Keys() []SourceKey {
	keys := make([]SourceKey, 0, len(d.sources))
	for _, k := range []SourceKey{SourceSenate, SourceNYC, SourceCheckbook} {
		if _, ok := d.sources[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func searchCacheKey(key SourceKey, query string, searchType SearchType, filters Filters, page, pageSize int) string {
	return cache.Key("search",
		cache.KV("source", key),
		cache.KV("query", query),
		cache.KV("type", searchType),
		cache.KV("year", filters.FilingYear),
		cache.KV("filing_type", filters.FilingType),
		cache.KV("amount_min", filters.AmountMin),
		cache.KV("year_from", filters.YearFrom),
		cache.KV("year_to", filters.YearTo),
		cache.KV("issue", filters.IssueCode),
		cache.KV("entity", filters.GovernmentEntity),
		cache.KV("page", strconv.Itoa(page)),
		cache.KV("page_size", strconv.Itoa(pageSize)),
	)
}

// Search routes a search to the keyed adapter, serving repeats from cache.
// Validation failures and upstream errors are never cached.
func (d *Dispatcher) Search(ctx context.Context, key SourceKey, query string, searchType SearchType, filters Filters, page, pageSize int) (*SearchResult, error) {
	src, err := d.Source(key)
	if err != nil {
		return nil, err
	}

	ck := searchCacheKey(key, query, searchType, filters, page, pageSize)
	if hit, ok := d.cache.Get(ck); ok {
		if result, ok := hit.(*SearchResult); ok {
			return result, nil
		}
	}

	filings, count, pagination, err := src.Search(ctx, query, searchType, filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Filings: filings, Count: count, Pagination: pagination}
	d.cache.Set(ck, result)
	return result, nil
}

// GetFilingDetail routes a detail lookup, serving repeats from cache.
func (d *Dispatcher) GetFilingDetail(ctx context.Context, key SourceKey, id string) (*models.Filing, error) {
	src, err := d.Source(key)
	if err != nil {
		return nil, err
	}

	ck := cache.Key("detail", cache.KV("source", key), cache.KV("id", id))
	if hit, ok := d.cache.Get(ck); ok {
		if filing, ok := hit.(*models.Filing); ok {
			return filing, nil
		}
	}

	filing, err := src.GetFilingDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	d.cache.Set(ck, filing)
	return filing, nil
}

// FetchVisualizationData routes a visualization request, serving repeats from
// cache.
func (d *Dispatcher) FetchVisualizationData(ctx context.Context, key SourceKey, query string, filters Filters) (*models.VisualizationData, error) {
	src, err := d.Source(key)
	if err != nil {
		return nil, err
	}

	ck := cache.Key("visualize",
		cache.KV("source", key),
		cache.KV("query", query),
		cache.KV("year", filters.FilingYear),
		cache.KV("filing_type", filters.FilingType),
		cache.KV("amount_min", filters.AmountMin),
		cache.KV("year_from", filters.YearFrom),
		cache.KV("year_to", filters.YearTo),
		cache.KV("issue", filters.IssueCode),
		cache.KV("entity", filters.GovernmentEntity),
	)
	if hit, ok := d.cache.Get(ck); ok {
		if data, ok := hit.(*models.VisualizationData); ok {
			return data, nil
		}
	}

	data, err := src.FetchVisualizationData(ctx, query, filters)
	if err != nil {
		return nil, err
	}

	d.cache.Set(ck, data)
	return data, nil
}

// TestConnections probes every registered source. Failures downgrade the
// source, they never abort the sweep.
func (d *Dispatcher) TestConnections(ctx context.Context) map[SourceKey]ConnectionStatus {
	statuses := make(map[SourceKey]ConnectionStatus, len(d.sources))
	for _, key := range d.Keys() {
		status := d.sources[key].TestConnection(ctx)
		if !status.OK() {
			log.Printf("[Dispatcher] Source %s failed connection test: %s", key, status.Message)
		}
		statuses[key] = status
	}
	return statuses
}

// ClearCache drops all memoized responses.
func (d *Dispatcher) ClearCache() {
	d.cache.Clear()
}
