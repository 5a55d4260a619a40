package gsc

import (
	"github.com/arden-labs/gsc-cli/internal/core/domain"
)

// WebProperty is one site tracked in Search Console. Its Query field
// carries the property's base query; every mutator on it returns a
// clone, so the base stays reusable.
type WebProperty struct {
	// URL identifies the property, e.g. "https://example.com/" or
	// "sc-domain:example.com".
	URL string
	// Permission is the credential's parsed access level on the site.
	Permission domain.PermissionLevel
	// RawPermission keeps the API's permission string verbatim, covering
	// values this package does not recognise.
	RawPermission string
	// Query is the base query bound to this property.
	Query *Query
}

func newWebProperty(site domain.Site, exec executor) *WebProperty {
	return &WebProperty{
		URL:           site.URL,
		Permission:    site.Permission,
		RawPermission: site.RawPermission,
		Query:         newQuery(exec, site.URL),
	}
}

// Verified reports whether the credential's access level grants data
// access on this property.
func (w *WebProperty) Verified() bool {
	return w.Permission.Verified()
}

// String implements fmt.Stringer.
func (w *WebProperty) String() string {
	return w.URL
}
