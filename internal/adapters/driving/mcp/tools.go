package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// ListPropertiesInput is the input schema for the list_properties tool.
type ListPropertiesInput struct{}

// PropertyOutput describes a single web property.
type PropertyOutput struct {
	SiteURL         string `json:"site_url"`
	PermissionLevel string `json:"permission_level"`
}

// ListPropertiesOutput is the output schema for the list_properties tool.
type ListPropertiesOutput struct {
	Properties []PropertyOutput `json:"properties"`
	Count      int              `json:"count"`
}

// FilterInput is a single dimension filter for the query tool.
type FilterInput struct {
	Dimension  string `json:"dimension" jsonschema:"dimension to filter on (country, device, page, query, searchAppearance)"`
	Operator   string `json:"operator,omitempty" jsonschema:"comparison operator (equals, notEquals, contains, notContains, includingRegex, excludingRegex; default equals)"`
	Expression string `json:"expression" jsonschema:"value or pattern to match against"`
}

// QueryInput is the input schema for the query_search_analytics tool.
type QueryInput struct {
	SiteURL    string        `json:"site_url" jsonschema:"web property URL exactly as registered in Search Console"`
	Dimensions []string      `json:"dimensions,omitempty" jsonschema:"dimensions to group rows by (country, date, device, page, query, searchAppearance)"`
	StartDate  string        `json:"start_date,omitempty" jsonschema:"start date: YYYY-MM-DD, today or yesterday"`
	EndDate    string        `json:"end_date,omitempty" jsonschema:"end date: YYYY-MM-DD, today or yesterday"`
	SearchType string        `json:"search_type,omitempty" jsonschema:"search surface (web, image, video, news, discover, googleNews; default web)"`
	DataState  string        `json:"data_state,omitempty" jsonschema:"final for finalized data only, all to include fresh data"`
	Filters    []FilterInput `json:"filters,omitempty" jsonschema:"dimension filters, combined with AND"`
	Limit      int           `json:"limit,omitempty" jsonschema:"maximum number of rows to return"`
}

// QueryOutput is the output schema for the query_search_analytics tool.
type QueryOutput struct {
	Columns    []string         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
	RowCount   int              `json:"row_count"`
	IsComplete bool             `json:"is_complete"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_properties",
		Description: "List the Search Console web properties visible to the authenticated account",
	}, s.handleListProperties)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_search_analytics",
		Description: "Run a search-analytics query against a web property",
	}, s.handleQuery)
}

// handleListProperties handles the list_properties tool invocation.
func (s *Server) handleListProperties(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListPropertiesInput,
) (*mcp.CallToolResult, ListPropertiesOutput, error) {
	properties, err := s.ports.Properties.Webproperties(ctx)
	if err != nil {
		return nil, ListPropertiesOutput{}, err
	}

	output := ListPropertiesOutput{
		Properties: make([]PropertyOutput, len(properties)),
		Count:      len(properties),
	}

	for i, wp := range properties {
		output.Properties[i] = PropertyOutput{
			SiteURL:         wp.URL,
			PermissionLevel: wp.RawPermission,
		}
	}

	return nil, output, nil
}

// handleQuery handles the query_search_analytics tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	wp, err := s.ports.Query.Property(ctx, input.SiteURL)
	if err != nil {
		return nil, QueryOutput{}, err
	}
	if wp == nil {
		return nil, QueryOutput{}, fmt.Errorf("%w: web property %q", domain.ErrNotFound, input.SiteURL)
	}

	q := wp.Query
	if input.StartDate != "" || input.EndDate != "" {
		var start, stop any
		if input.StartDate != "" {
			start = input.StartDate
		}
		if input.EndDate != "" {
			stop = input.EndDate
		}
		q = q.Range(start, stop, 0, 0)
	}
	if len(input.Dimensions) > 0 {
		q = q.Dimension(input.Dimensions...)
	}
	if input.SearchType != "" {
		q = q.SearchType(input.SearchType)
	}
	if input.DataState != "" {
		q = q.DataState(input.DataState)
	}
	for _, f := range input.Filters {
		q = q.Filter(f.Dimension, f.Expression, f.Operator, "")
	}
	if input.Limit > 0 {
		q = q.Limit(input.Limit)
	}

	report, err := q.Get(ctx)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Columns:    report.Columns(),
		Rows:       report.Records(),
		RowCount:   report.Len(),
		IsComplete: report.IsComplete(),
	}

	return nil, output, nil
}
