package gsc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/core/ports/driven"
	"github.com/arden-labs/gsc-cli/internal/logger"
)

// Service wraps the generated Search Console client with request pacing
// and structured logging. All API traffic for an Account funnels through
// one Service so its Pacer sees every call.
type Service struct {
	api    *searchconsole.Service
	pacer  *Pacer
	logger hclog.Logger
}

type serviceOptions struct {
	pace       time.Duration
	logger     hclog.Logger
	endpoint   string
	httpClient *http.Client
}

// Option configures a Service.
type Option func(*serviceOptions)

// WithPace overrides the minimum spacing between API calls. Tests use
// tiny intervals to keep pagination fast.
func WithPace(interval time.Duration) Option {
	return func(o *serviceOptions) { o.pace = interval }
}

// WithLogger routes the service's debug output through the given logger.
func WithLogger(l hclog.Logger) Option {
	return func(o *serviceOptions) { o.logger = l }
}

// WithEndpoint points the client at an alternative API base URL, e.g. an
// httptest server.
func WithEndpoint(url string) Option {
	return func(o *serviceOptions) { o.endpoint = url }
}

// WithHTTPClient supplies a fully configured HTTP client. It replaces the
// token-source transport, so the client must carry its own authorization.
func WithHTTPClient(c *http.Client) Option {
	return func(o *serviceOptions) { o.httpClient = c }
}

// NewService opens a Search Console API session authenticated by the
// given token provider.
func NewService(ctx context.Context, provider driven.TokenProvider, opts ...Option) (*Service, error) {
	o := serviceOptions{
		pace:   DefaultPace,
		logger: logger.Named("service"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if provider == nil && o.httpClient == nil {
		return nil, fmt.Errorf("%w: a token provider is required", domain.ErrInvalidConfiguration)
	}

	clientOpts := make([]option.ClientOption, 0, 2)
	if o.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(o.httpClient))
	} else {
		clientOpts = append(clientOpts, option.WithTokenSource(NewTokenSource(ctx, provider)))
	}
	if o.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.endpoint))
	}

	api, err := searchconsole.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create searchconsole client: %w", err)
	}

	return &Service{
		api:    api,
		pacer:  NewPacer(o.pace),
		logger: o.logger,
	}, nil
}

// querySearchAnalytics runs one page of a search analytics query. API and
// transport failures come back untouched so callers can inspect the
// googleapi error.
func (s *Service) querySearchAnalytics(ctx context.Context, siteURL string, req *searchconsole.SearchAnalyticsQueryRequest) (*searchconsole.SearchAnalyticsQueryResponse, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("querying search analytics",
		"site", siteURL,
		"start_row", req.StartRow,
		"row_limit", req.RowLimit,
	)

	return s.api.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
}

// listSites returns every site visible to the authenticated identity, in
// API order.
func (s *Service) listSites(ctx context.Context) ([]domain.Site, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("listing sites")

	resp, err := s.api.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	sites := make([]domain.Site, 0, len(resp.SiteEntry))
	for _, entry := range resp.SiteEntry {
		sites = append(sites, domain.Site{
			URL:           entry.SiteUrl,
			Permission:    domain.ParsePermissionLevel(entry.PermissionLevel),
			RawPermission: entry.PermissionLevel,
		})
	}

	return sites, nil
}
