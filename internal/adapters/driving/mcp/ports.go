package mcp

import (
	"context"

	"github.com/arden-labs/gsc-cli/internal/gsc"
)

// PropertyLister lists the web properties the authenticated account can read.
type PropertyLister interface {
	Webproperties(ctx context.Context) ([]*gsc.WebProperty, error)
}

// QueryRunner resolves web properties whose bound Query seeds
// search-analytics requests.
type QueryRunner interface {
	Property(ctx context.Context, siteURL string) (*gsc.WebProperty, error)
}

// Both ports are implemented by *gsc.Account.
var (
	_ PropertyLister = (*gsc.Account)(nil)
	_ QueryRunner    = (*gsc.Account)(nil)
)

// Ports aggregates the capabilities required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Properties lists web properties.
	Properties PropertyLister

	// Query resolves properties for search-analytics queries.
	Query QueryRunner
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Properties == nil {
		return ErrMissingPropertyLister
	}
	if p.Query == nil {
		return ErrMissingQueryRunner
	}
	return nil
}
