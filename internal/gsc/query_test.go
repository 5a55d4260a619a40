package gsc

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

const testSite = "https://example.com/"

// fakeAnalytics serves a fixed dataset, slicing pages by startRow and
// rowLimit the way the real API does. When err is set every call fails
// with it.
type fakeAnalytics struct {
	rows  []*searchconsole.ApiDataRow
	err   error
	calls []*searchconsole.SearchAnalyticsQueryRequest
	sites []string
}

func (f *fakeAnalytics) querySearchAnalytics(_ context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	f.calls = append(f.calls, req)
	f.sites = append(f.sites, siteURL)

	if f.err != nil {
		return nil, f.err
	}

	start := int(req.StartRow)
	end := start + int(req.RowLimit)
	if start > len(f.rows) {
		start = len(f.rows)
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}

	return &searchconsole.SearchAnalyticsQueryResponse{Rows: f.rows[start:end]}, nil
}

// makeRows builds n single-key dataset rows with distinct keys and
// metrics derived from the row index.
func makeRows(n int) []*searchconsole.ApiDataRow {
	rows := make([]*searchconsole.ApiDataRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &searchconsole.ApiDataRow{
			Keys:        []string{fmt.Sprintf("page-%04d", i)},
			Clicks:      float64(i),
			Impressions: float64(i * 10),
			Ctr:         0.1,
			Position:    1.5,
		})
	}
	return rows
}

// TestQuery_MutatorsDoNotMutateReceiver tests the copy-on-write contract:
// deriving a query leaves the receiver untouched.
func TestQuery_MutatorsDoNotMutateReceiver(t *testing.T) {
	base := newQuery(nil, testSite)

	derived := base.Dimension(DimensionDate, DimensionQuery)
	require.NotSame(t, base, derived)

	baseReq, err := base.Build()
	require.NoError(t, err)
	derivedReq, err := derived.Build()
	require.NoError(t, err)

	assert.Empty(t, baseReq.Dimensions)
	assert.Equal(t, []string{DimensionDate, DimensionQuery}, derivedReq.Dimensions)
}

// TestQuery_CloneIsIndependentAndEqual tests that a clone builds the same
// request without sharing state with the original.
func TestQuery_CloneIsIndependentAndEqual(t *testing.T) {
	q := newQuery(nil, testSite).
		Range("2017-01-01", "2017-01-07", 0, 0).
		Dimension(DimensionDate).
		Filter(DimensionQuery, "dress", OperatorContains, "")

	c := q.Clone()
	require.NotSame(t, q, c)

	qReq, err := q.Build()
	require.NoError(t, err)
	cReq, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, qReq, cReq)

	// A filter added to the clone must not leak back.
	c2 := c.Filter(DimensionPage, "/shoes/", "", "")
	c2Req, err := c2.Build()
	require.NoError(t, err)
	qReqAfter, err := q.Build()
	require.NoError(t, err)

	assert.Len(t, c2Req.DimensionFilterGroups, 2)
	assert.Len(t, qReqAfter.DimensionFilterGroups, 1)
}

// TestQuery_FilterDefaultsAndGrouping tests operator/groupType defaults
// and that every Filter call appends its own group.
func TestQuery_FilterDefaultsAndGrouping(t *testing.T) {
	q := newQuery(nil, testSite).
		Filter(DimensionQuery, "dress", "", "").
		Filter(DimensionPage, "/womens/", OperatorNotContains, GroupTypeOr)

	req, err := q.Build()
	require.NoError(t, err)
	require.Len(t, req.DimensionFilterGroups, 2)

	first := req.DimensionFilterGroups[0]
	assert.Equal(t, GroupTypeAnd, first.GroupType)
	require.Len(t, first.Filters, 1)
	assert.Equal(t, DimensionQuery, first.Filters[0].Dimension)
	assert.Equal(t, "dress", first.Filters[0].Expression)
	assert.Equal(t, OperatorEquals, first.Filters[0].Operator)

	second := req.DimensionFilterGroups[1]
	assert.Equal(t, GroupTypeOr, second.GroupType)
	require.Len(t, second.Filters, 1)
	assert.Equal(t, OperatorNotContains, second.Filters[0].Operator)
}

// TestQuery_RangeSetsDates tests explicit and offset-based ranges on the
// built request.
func TestQuery_RangeSetsDates(t *testing.T) {
	req, err := newQuery(nil, testSite).Range("2017-01-01", "2017-01-07", 0, 0).Build()
	require.NoError(t, err)
	assert.Equal(t, "2017-01-01", req.StartDate)
	assert.Equal(t, "2017-01-07", req.EndDate)

	req, err = newQuery(nil, testSite).Range("2017-01-01", nil, 0, 28).Build()
	require.NoError(t, err)
	assert.Equal(t, "2017-01-01", req.StartDate)
	assert.Equal(t, "2017-01-28", req.EndDate)
}

// TestQuery_RangeErrorPoisonsChain tests that a failed mutator survives
// further chaining and surfaces at Build and Get.
func TestQuery_RangeErrorPoisonsChain(t *testing.T) {
	q := newQuery(&fakeAnalytics{}, testSite).
		Range("the deadline", nil, 0, 0).
		Dimension(DimensionDate).
		Limit(10)

	require.Error(t, q.Err())
	assert.ErrorIs(t, q.Err(), domain.ErrDateParse)

	_, err := q.Build()
	assert.ErrorIs(t, err, domain.ErrDateParse)

	_, err = q.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrDateParse)
}

// TestQuery_SearchTypeDefaultAndAlias tests the default web surface and
// the Type alias writing the same parameter.
func TestQuery_SearchTypeDefaultAndAlias(t *testing.T) {
	req, err := newQuery(nil, testSite).Build()
	require.NoError(t, err)
	assert.Equal(t, SearchTypeWeb, req.Type)

	req, err = newQuery(nil, testSite).SearchType(SearchTypeImage).Build()
	require.NoError(t, err)
	assert.Equal(t, SearchTypeImage, req.Type)

	req, err = newQuery(nil, testSite).Type(SearchTypeDiscover).Build()
	require.NoError(t, err)
	assert.Equal(t, SearchTypeDiscover, req.Type)
}

// TestQuery_DataState tests the dataState passthrough.
func TestQuery_DataState(t *testing.T) {
	req, err := newQuery(nil, testSite).DataState(DataStateAll).Build()
	require.NoError(t, err)
	assert.Equal(t, DataStateAll, req.DataState)
}

// TestQuery_Limit tests the row window forms and their validation.
func TestQuery_Limit(t *testing.T) {
	tests := []struct {
		name          string
		args          []int
		wantStartRow  int64
		wantRowLimit  int64
		wantErr       bool
	}{
		{name: "budget only", args: []int{10}, wantStartRow: 0, wantRowLimit: 10},
		{name: "budget above page cap", args: []int{30000}, wantStartRow: 0, wantRowLimit: 25000},
		{name: "window with start", args: []int{2, 2}, wantStartRow: 2, wantRowLimit: 2},
		{name: "no arguments", args: nil, wantErr: true},
		{name: "too many arguments", args: []int{1, 2, 3}, wantErr: true},
		{name: "zero rows", args: []int{0}, wantErr: true},
		{name: "negative rows", args: []int{-5}, wantErr: true},
		{name: "negative start", args: []int{-1, 5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuery(nil, testSite).Limit(tt.args...)
			req, err := q.Build()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStartRow, req.StartRow)
			assert.Equal(t, tt.wantRowLimit, req.RowLimit)
		})
	}
}

// TestQuery_Get_SinglePageComplete tests the one-page happy path: a page
// shorter than its window ends the run as complete.
func TestQuery_Get_SinglePageComplete(t *testing.T) {
	fake := &fakeAnalytics{rows: makeRows(5)}
	q := newQuery(fake, testSite).Dimension(DimensionPage)

	report, err := q.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Len())
	assert.True(t, report.IsComplete())
	assert.Equal(t, 1, report.Pages())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{testSite}, fake.sites)
	assert.Equal(t, testSite, report.Site())
}

// TestQuery_Get_PaginatesUntilShortPage tests that full pages advance the
// window until a short page arrives, preserving row order.
func TestQuery_Get_PaginatesUntilShortPage(t *testing.T) {
	fake := &fakeAnalytics{rows: makeRows(25)}
	q := newQuery(fake, testSite).Dimension(DimensionPage)
	q.raw.RowLimit = 10

	report, err := q.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, report.Len())
	assert.True(t, report.IsComplete())
	require.Len(t, fake.calls, 3)
	assert.Equal(t, int64(0), fake.calls[0].StartRow)
	assert.Equal(t, int64(10), fake.calls[1].StartRow)
	assert.Equal(t, int64(20), fake.calls[2].StartRow)

	first, ok := report.First()
	require.True(t, ok)
	assert.Equal(t, []string{"page-0000"}, first.Keys)

	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"page-0024"}, last.Keys)
}

// TestQuery_Get_ExactMultipleFetchesEmptyPage tests the boundary where
// the dataset size is a multiple of the page size: completion costs one
// empty page.
func TestQuery_Get_ExactMultipleFetchesEmptyPage(t *testing.T) {
	fake := &fakeAnalytics{rows: makeRows(20)}
	q := newQuery(fake, testSite).Dimension(DimensionPage)
	q.raw.RowLimit = 10

	report, err := q.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, report.Len())
	assert.True(t, report.IsComplete())
	assert.Len(t, fake.calls, 3)
}

// TestQuery_Get_BudgetTruncates tests that a budget not aligned to the
// page size stops pagination early and trims the overshoot.
func TestQuery_Get_BudgetTruncates(t *testing.T) {
	fake := &fakeAnalytics{rows: makeRows(25)}
	q := newQuery(fake, testSite).Dimension(DimensionPage).Limit(15)
	q.raw.RowLimit = 10

	report, err := q.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 15, report.Len())
	assert.False(t, report.IsComplete())
	assert.Len(t, fake.calls, 2)

	last, ok := report.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"page-0014"}, last.Keys)
}

// TestQuery_Get_LimitWindow tests the offset form: Limit(2, 2) returns
// rows [2:4) of the unlimited dataset in a single fetch.
func TestQuery_Get_LimitWindow(t *testing.T) {
	fake := &fakeAnalytics{rows: makeRows(10)}
	q := newQuery(fake, testSite).Dimension(DimensionPage).Limit(2, 2)

	report, err := q.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Len())
	assert.Len(t, fake.calls, 1)

	rows := report.Rows()
	assert.Equal(t, []string{"page-0002"}, rows[0].Keys)
	assert.Equal(t, []string{"page-0003"}, rows[1].Keys)
}

// TestQuery_Get_ErrorPropagatesVerbatim tests that an API failure aborts
// the run and comes back unwrapped.
func TestQuery_Get_ErrorPropagatesVerbatim(t *testing.T) {
	apiErr := &googleapi.Error{Code: 403, Message: "quota exceeded"}
	fake := &fakeAnalytics{err: apiErr}
	q := newQuery(fake, testSite).Dimension(DimensionDate)

	report, err := q.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)

	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 403, gerr.Code)
	assert.Same(t, apiErr, err)
}

// TestQuery_Get_SchemaMismatchFails tests the guard against pages whose
// key arrays disagree with the requested dimensions.
func TestQuery_Get_SchemaMismatchFails(t *testing.T) {
	fake := &fakeAnalytics{rows: []*searchconsole.ApiDataRow{
		{Keys: []string{"2025-01-01", "desktop"}, Clicks: 1},
	}}
	q := newQuery(fake, testSite).Dimension(DimensionDate)

	_, err := q.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

// TestQuery_Get_UnboundQuery tests that a zero-value query refuses to
// run.
func TestQuery_Get_UnboundQuery(t *testing.T) {
	var q Query

	_, err := q.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = q.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

// TestQuery_Accessors tests the small read-side helpers.
func TestQuery_Accessors(t *testing.T) {
	q := newQuery(nil, testSite).Dimension(DimensionDate)

	assert.Equal(t, testSite, q.SiteURL())
	assert.NoError(t, q.Err())
	assert.Contains(t, q.String(), testSite)
	assert.Contains(t, q.String(), DimensionDate)
}
