// Package gsc is a convenience client for the Google Search Console
// Search Analytics API.
//
// The entry point is Authenticate, which resolves credentials and returns
// an Account. An Account lists WebProperties, and each property carries a
// base Query. Queries are immutable: every mutator returns a clone, so a
// configured query can branch into variants without side effects.
//
//	account, err := gsc.Authenticate(ctx, auth.Options{Credentials: "credentials.json"})
//	prop, err := account.Property(ctx, "https://example.com/")
//	report, err := prop.Query.
//		Range("today", nil, 0, -7).
//		Dimension(gsc.DimensionDate, gsc.DimensionQuery).
//		Limit(100).
//		Get(ctx)
//
// Get paginates transparently, pacing one API call per second, and folds
// every page into a single Report.
package gsc
