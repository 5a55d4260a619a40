// Package mcp provides an MCP (Model Context Protocol) server adapter for gsc.
// It lets AI assistants list a Search Console account's web properties and run
// search-analytics queries against them.
package mcp

import "errors"

// ErrMissingPropertyLister is returned when the property lister is not provided.
var ErrMissingPropertyLister = errors.New("mcp: property lister is required")

// ErrMissingQueryRunner is returned when the query runner is not provided.
var ErrMissingQueryRunner = errors.New("mcp: query runner is required")
