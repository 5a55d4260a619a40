package gsc

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// Metric column names, in report order.
const (
	MetricClicks      = "clicks"
	MetricImpressions = "impressions"
	MetricCTR         = "ctr"
	MetricPosition    = "position"
)

// Row is one line of a Report. Keys align positionally with the report's
// dimension columns. Position is meaningful only when the report schema
// includes it.
type Row struct {
	Keys        []string
	Clicks      float64
	Impressions float64
	CTR         float64
	Position    float64
}

// Report is the accumulated result of a query: every fetched page folded
// into one row set under a column schema fixed by the first page.
type Report struct {
	site       string
	dimensions []string
	metrics    []string
	rows       []Row
	requests   []*searchconsole.SearchAnalyticsQueryRequest
	responses  []*searchconsole.SearchAnalyticsQueryResponse
	complete   bool
}

// newReport derives the schema from the first page's request: columns are
// the requested dimensions followed by the metrics available on the
// requested search surface.
func newReport(site string, req *searchconsole.SearchAnalyticsQueryRequest) *Report {
	metrics := []string{MetricClicks, MetricImpressions, MetricCTR, MetricPosition}
	if req.Type == SearchTypeDiscover || req.Type == SearchTypeGoogleNews {
		// These surfaces report no ranking position.
		metrics = metrics[:len(metrics)-1]
	}

	return &Report{
		site:       site,
		dimensions: append([]string(nil), req.Dimensions...),
		metrics:    metrics,
	}
}

// appendPage folds one API page into the report. Every page must carry
// key arrays matching the dimension schema fixed by the first page.
func (r *Report) appendPage(req *searchconsole.SearchAnalyticsQueryRequest, resp *searchconsole.SearchAnalyticsQueryResponse) error {
	r.requests = append(r.requests, req)
	r.responses = append(r.responses, resp)

	for _, raw := range resp.Rows {
		if len(raw.Keys) != len(r.dimensions) {
			return fmt.Errorf("%w: response row has %d keys, report schema has %d dimensions",
				domain.ErrInvalidConfiguration, len(raw.Keys), len(r.dimensions))
		}

		row := Row{
			Keys:        append([]string(nil), raw.Keys...),
			Clicks:      raw.Clicks,
			Impressions: raw.Impressions,
			CTR:         raw.Ctr,
		}
		if r.HasPosition() {
			row.Position = raw.Position
		}

		r.rows = append(r.rows, row)
	}

	return nil
}

// truncate drops rows beyond the budget. The pagination loop calls it
// once, after the final page.
func (r *Report) truncate(limit int64) {
	if limit > 0 && int64(len(r.rows)) > limit {
		r.rows = r.rows[:limit]
	}
}

// Site returns the web property URL the report was fetched for.
func (r *Report) Site() string {
	return r.site
}

// Dimensions returns the dimension columns in request order.
func (r *Report) Dimensions() []string {
	return append([]string(nil), r.dimensions...)
}

// Metrics returns the metric columns in report order.
func (r *Report) Metrics() []string {
	return append([]string(nil), r.metrics...)
}

// Columns returns the full schema: dimensions followed by metrics.
func (r *Report) Columns() []string {
	cols := make([]string, 0, len(r.dimensions)+len(r.metrics))
	cols = append(cols, r.dimensions...)
	return append(cols, r.metrics...)
}

// HasPosition reports whether the schema includes the position metric.
func (r *Report) HasPosition() bool {
	return slices.Contains(r.metrics, MetricPosition)
}

// Len returns the number of accumulated rows.
func (r *Report) Len() int {
	return len(r.rows)
}

// Rows returns a copy of the accumulated rows.
func (r *Report) Rows() []Row {
	return append([]Row(nil), r.rows...)
}

// First returns the first row, or false when the report is empty.
func (r *Report) First() (Row, bool) {
	if len(r.rows) == 0 {
		return Row{}, false
	}
	return r.rows[0], true
}

// Last returns the last row, or false when the report is empty.
func (r *Report) Last() (Row, bool) {
	if len(r.rows) == 0 {
		return Row{}, false
	}
	return r.rows[len(r.rows)-1], true
}

// IsComplete reports whether the final fetched page came back short,
// meaning the API had no further rows for the query.
func (r *Report) IsComplete() bool {
	return r.complete
}

// Pages returns the number of API pages folded into the report.
func (r *Report) Pages() int {
	return len(r.responses)
}

// Records projects the rows into column-keyed maps, one per row, in row
// order. Dimension values are strings, metric values float64. This is
// the shape the exporters and the JSON output consume.
func (r *Report) Records() []map[string]any {
	records := make([]map[string]any, 0, len(r.rows))
	for _, row := range r.rows {
		rec := make(map[string]any, len(r.dimensions)+len(r.metrics))
		for i, dim := range r.dimensions {
			rec[dim] = row.Keys[i]
		}
		rec[MetricClicks] = row.Clicks
		rec[MetricImpressions] = row.Impressions
		rec[MetricCTR] = row.CTR
		if r.HasPosition() {
			rec[MetricPosition] = row.Position
		}
		records = append(records, rec)
	}
	return records
}

// WriteCSV writes the report as CSV, header first, one line per row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, 0, len(r.dimensions)+len(r.metrics))
	for _, row := range r.rows {
		record = record[:0]
		record = append(record, row.Keys...)
		record = append(record, formatMetric(row.Clicks), formatMetric(row.Impressions), formatMetric(row.CTR))
		if r.HasPosition() {
			record = append(record, formatMetric(row.Position))
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatMetric renders a metric without trailing zeros, so counts stay
// integral ("12", not "12.000000") and ratios keep full precision.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String implements fmt.Stringer.
func (r *Report) String() string {
	return fmt.Sprintf("Report(rows=%d, complete=%t)", len(r.rows), r.complete)
}
