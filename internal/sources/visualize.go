package sources

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/david/vetting-hub/internal/models"
)

// spendingBucket controls how the spending trend is grouped.
type spendingBucket int

const (
	bucketMonthly spendingBucket = iota
	bucketQuarterly
)

// visualizationPageSize is the result-set size fetched for chart reduction.
const visualizationPageSize = 100

// buildVisualizationData reduces a result set into the five chart series.
// Returns an error when the set is empty so callers can surface "no data".
func buildVisualizationData(results []models.Filing, bucket spendingBucket) (*models.VisualizationData, error) {
	if len(results) == 0 {
		return nil, errors.New("No data found for visualization")
	}

	years := map[string]float64{}
	registrants := map[string]float64{}
	agencies := map[string]float64{}
	issues := map[string]float64{}
	spending := map[string]float64{}

	for _, f := range results {
		if f.FilingYear != nil {
			years[strconv.Itoa(*f.FilingYear)]++
		}
		if f.Registrant.Name != "" {
			registrants[f.Registrant.Name]++
		}
		if f.Income != nil && f.FilingDate != "" {
			spending[spendingPeriod(f.FilingDate, bucket)] += *f.Income
		}
		for _, activity := range f.LobbyingActivities {
			if activity.IssueCodeDisplay != "" {
				issues[activity.IssueCodeDisplay]++
			}
			for _, entity := range activity.GovernmentEntities {
				if entity.Name != "" {
					agencies[entity.Name]++
				}
			}
		}
	}

	return &models.VisualizationData{
		YearsData:          sortedSeries(years),
		TopEntities:        topSeries(registrants, 10),
		SpendingTrend:      sortedSeries(spending),
		IssueAreas:         topSeries(issues, 10),
		GovernmentEntities: topSeries(agencies, 10),
	}, nil
}

// spendingPeriod buckets an ISO date into YYYY-MM or YYYY-Qn. Unparseable
// dates degrade to their year prefix.
func spendingPeriod(date string, bucket spendingBucket) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		if len(date) >= 4 {
			return date[:4]
		}
		return "Unknown"
	}
	if bucket == bucketQuarterly {
		quarter := (int(t.Month())-1)/3 + 1
		return t.Format("2006") + "-Q" + strconv.Itoa(quarter)
	}
	return t.Format("2006-01")
}

// sortedSeries returns labels in ascending label order.
func sortedSeries(data map[string]float64) models.ChartSeries {
	labels := make([]string, 0, len(data))
	for label := range data {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = data[label]
	}
	return models.ChartSeries{Labels: labels, Values: values}
}

// topSeries returns the n highest-valued entries, descending. Ties break on
// label so output is deterministic.
func topSeries(data map[string]float64, n int) models.ChartSeries {
	type entry struct {
		label string
		value float64
	}
	entries := make([]entry, 0, len(data))
	for label, value := range data {
		entries = append(entries, entry{label, value})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].label < entries[j].label
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	series := models.ChartSeries{
		Labels: make([]string, len(entries)),
		Values: make([]float64, len(entries)),
	}
	for i, e := range entries {
		series.Labels[i] = e.label
		series.Values[i] = e.value
	}
	return series
}
