package gsc

import (
	"context"
	"fmt"

	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// executor is the slice of Service the pagination loop needs. Tests
// substitute a scripted implementation.
type executor interface {
	querySearchAnalytics(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error)
}

// queryMeta holds builder state that never goes on the wire.
type queryMeta struct {
	// limit caps the total rows Get accumulates across pages; zero means
	// unlimited.
	limit int64
}

// Query assembles a search analytics request for one web property.
//
// A Query is immutable: every mutator deep-copies the receiver, applies
// its single change to the copy, and returns it. Chains can therefore
// branch from any intermediate query without contaminating each other.
// Mutator failures (a bad date, a bad limit) poison the returned chain
// instead of being lost; Build and Get surface the first such error.
type Query struct {
	exec    executor
	siteURL string
	raw     *searchconsole.SearchAnalyticsQueryRequest
	meta    queryMeta
	err     error
}

// newQuery returns the base query for a web property: row window at the
// API page cap, web search surface, no dates, no dimensions.
func newQuery(exec executor, siteURL string) *Query {
	return &Query{
		exec:    exec,
		siteURL: siteURL,
		raw: &searchconsole.SearchAnalyticsQueryRequest{
			RowLimit: maxRowLimit,
			Type:     SearchTypeWeb,
		},
	}
}

// clone deep-copies the query, including nested filter groups, so that no
// raw request state is shared between chains.
func (q *Query) clone() *Query {
	c := *q
	c.raw = cloneRequest(q.raw)
	return &c
}

func cloneRequest(req *searchconsole.SearchAnalyticsQueryRequest) *searchconsole.SearchAnalyticsQueryRequest {
	if req == nil {
		return nil
	}

	c := *req

	if req.Dimensions != nil {
		c.Dimensions = append([]string(nil), req.Dimensions...)
	}

	if req.DimensionFilterGroups != nil {
		c.DimensionFilterGroups = make([]*searchconsole.ApiDimensionFilterGroup, len(req.DimensionFilterGroups))
		for i, group := range req.DimensionFilterGroups {
			g := *group
			g.Filters = make([]*searchconsole.ApiDimensionFilter, len(group.Filters))
			for j, filter := range group.Filters {
				f := *filter
				g.Filters[j] = &f
			}
			c.DimensionFilterGroups[i] = &g
		}
	}

	return &c
}

// Clone returns an independent copy of the query bound to the same web
// property.
func (q *Query) Clone() *Query {
	return q.clone()
}

// Err returns the first error recorded by a mutator on this chain, if
// any. Build and Get return the same error.
func (q *Query) Err() error {
	return q.err
}

// SiteURL returns the web property the query is bound to.
func (q *Query) SiteURL() string {
	return q.siteURL
}

// Range returns a query scoped to a date range. Inputs follow
// ResolveDateRange: start/stop accept time.Time values, date strings, or
// the keywords "today" and "yesterday"; months/days place stop relative
// to start when no explicit stop is given.
//
//	q.Range("2017-01-01", "2017-01-07", 0, 0)
//	q.Range("2017-01-01", nil, 0, 28)
//	q.Range("today", nil, -3, 0)
func (q *Query) Range(start, stop any, months, days int) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	from, to, err := ResolveDateRange(start, stop, days, months)
	if err != nil {
		c.err = err
		return c
	}

	c.raw.StartDate = from
	c.raw.EndDate = to
	return c
}

// Dimension returns a query reporting on the given dimensions. The list
// replaces any previous one; order drives the alignment of row keys.
func (q *Query) Dimension(dimensions ...string) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	c.raw.Dimensions = append([]string(nil), dimensions...)
	return c
}

// Filter returns a query with one more row filter. Each call appends its
// own filter group; the API ANDs the groups together. Empty operator
// defaults to equals, empty groupType to and. The API accepts "or" group
// types without honoring them.
func (q *Query) Filter(dimension, expression, operator, groupType string) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	if operator == "" {
		operator = OperatorEquals
	}
	if groupType == "" {
		groupType = GroupTypeAnd
	}

	c.raw.DimensionFilterGroups = append(c.raw.DimensionFilterGroups, &searchconsole.ApiDimensionFilterGroup{
		GroupType: groupType,
		Filters: []*searchconsole.ApiDimensionFilter{{
			Dimension:  dimension,
			Expression: expression,
			Operator:   operator,
		}},
	})
	return c
}

// SearchType returns a query against the given search surface (web,
// image, video, news, discover, googleNews). The surface decides the
// report schema: discover and googleNews rows carry no position metric.
func (q *Query) SearchType(searchType string) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	c.raw.Type = searchType
	return c
}

// Type is an alias for SearchType, named after the current API parameter.
func (q *Query) Type(searchType string) *Query {
	return q.SearchType(searchType)
}

// DataState returns a query with the given data state: final (default)
// for finalized rows only, all to include fresh data the API may still
// revise.
func (q *Query) DataState(state string) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	c.raw.DataState = state
	return c
}

// Limit returns a query capped to a row window.
//
//	Limit(n)        caps the total rows Get returns.
//	Limit(start, n) additionally skips the first start rows.
//
// The per-request page size is min(n, 25000); larger budgets paginate.
func (q *Query) Limit(args ...int) *Query {
	c := q.clone()
	if c.err != nil {
		return c
	}

	var start, n int
	switch len(args) {
	case 1:
		n = args[0]
	case 2:
		start, n = args[0], args[1]
	default:
		c.err = fmt.Errorf("%w: limit takes (n) or (start, n), got %d arguments", domain.ErrInvalidConfiguration, len(args))
		return c
	}

	if n <= 0 || start < 0 {
		c.err = fmt.Errorf("%w: limit needs a positive row count and a non-negative start row", domain.ErrInvalidConfiguration)
		return c
	}

	c.meta.limit = int64(n)
	c.raw.StartRow = int64(start)
	c.raw.RowLimit = int64(n)
	if c.raw.RowLimit > maxRowLimit {
		c.raw.RowLimit = maxRowLimit
	}
	return c
}

// next returns the query for the following page window.
func (q *Query) next() *Query {
	c := q.clone()
	c.raw.StartRow += c.raw.RowLimit
	return c
}

// Build materializes the current parameters as a request body, or returns
// the chain's recorded error. The copy is deep; callers cannot reach back
// into the query through it.
func (q *Query) Build() (*searchconsole.SearchAnalyticsQueryRequest, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.raw == nil {
		return nil, fmt.Errorf("%w: query is not bound to a web property", domain.ErrInvalidConfiguration)
	}

	return cloneRequest(q.raw), nil
}

// Get executes the query and paginates until the dataset is exhausted or
// the row budget is met, folding every page into one Report.
//
// A page counts as final when it returns fewer rows than it asked for.
// Errors from the API abort immediately and propagate verbatim; partial
// results are discarded.
func (q *Query) Get(ctx context.Context) (*Report, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.exec == nil || q.raw == nil {
		return nil, fmt.Errorf("%w: query is not bound to a web property", domain.ErrInvalidConfiguration)
	}

	cursor := q.clone()

	var report *Report
	for {
		req, err := cursor.Build()
		if err != nil {
			return nil, err
		}

		resp, err := cursor.exec.querySearchAnalytics(ctx, cursor.siteURL, req)
		if err != nil {
			return nil, err
		}

		if report == nil {
			report = newReport(cursor.siteURL, req)
		}
		if err := report.appendPage(req, resp); err != nil {
			return nil, err
		}

		complete := int64(len(resp.Rows)) < req.RowLimit
		if complete {
			report.complete = true
		}

		enough := cursor.meta.limit > 0 && int64(report.Len()) >= cursor.meta.limit
		if complete || enough {
			break
		}

		cursor = cursor.next()
	}

	// The final page may overshoot the budget when the budget is not a
	// multiple of the page size.
	report.truncate(q.meta.limit)

	return report, nil
}

// String implements fmt.Stringer.
func (q *Query) String() string {
	if q.raw == nil {
		return "Query()"
	}
	return fmt.Sprintf("Query(site=%s, dimensions=%v)", q.siteURL, q.raw.Dimensions)
}
