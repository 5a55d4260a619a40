package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/arden-labs/gsc-cli/internal/gsc"
)

// executeCommand runs the root command with an isolated config directory
// and returns captured stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	t.Cleanup(resetCommandState)

	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// resetCommandState clears flag values and changed markers so one test's
// flags never leak into the next.
func resetCommandState() {
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)

	commands := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, c := range commands {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			switch f.Name {
			case "dimensions", "filter":
				// Slice flags reset through their bound variables below.
			default:
				f.Value.Set(f.DefValue) //nolint:errcheck
			}
			f.Changed = false
		})
	}

	queryDimensions = nil
	queryFilters = nil
	configStore = nil
}

// capturedRequest records the last search-analytics request the stub saw.
type capturedRequest struct {
	req *searchconsole.SearchAnalyticsQueryRequest
}

// newStubAccount builds a real account against a stub Search Console API.
func newStubAccount(t *testing.T, sites []*searchconsole.WmxSite, rows []*searchconsole.ApiDataRow) *gsc.Account {
	account, _ := newCapturingAccount(t, sites, rows)
	return account
}

// newCapturingAccount additionally exposes the query request the stub
// received, for asserting that flags reach the wire.
func newCapturingAccount(t *testing.T, sites []*searchconsole.WmxSite, rows []*searchconsole.ApiDataRow) (*gsc.Account, *capturedRequest) {
	t.Helper()

	capture := &capturedRequest{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/webmasters/v3/sites":
			json.NewEncoder(w).Encode(&searchconsole.SitesListResponse{SiteEntry: sites}) //nolint:errcheck
		case strings.HasSuffix(r.URL.Path, "/searchAnalytics/query"):
			var req searchconsole.SearchAnalyticsQueryRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			capture.req = &req
			json.NewEncoder(w).Encode(&searchconsole.SearchAnalyticsQueryResponse{Rows: rows}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gsc.NewService(context.Background(), nil,
		gsc.WithEndpoint(srv.URL),
		gsc.WithHTTPClient(http.DefaultClient),
		gsc.WithPace(time.Millisecond))
	require.NoError(t, err)

	return gsc.NewAccount(svc, nil), capture
}

// stubAccount substitutes the account factory for the duration of a test.
func stubAccount(t *testing.T, account *gsc.Account) {
	t.Helper()

	original := newAccountFunc
	newAccountFunc = func(*cobra.Command) (*gsc.Account, error) {
		return account, nil
	}
	t.Cleanup(func() { newAccountFunc = original })
}

// stubAccountError makes the account factory fail for the duration of a test.
func stubAccountError(t *testing.T, err error) {
	t.Helper()

	original := newAccountFunc
	newAccountFunc = func(*cobra.Command) (*gsc.Account, error) {
		return nil, err
	}
	t.Cleanup(func() { newAccountFunc = original })
}

func stubSites() []*searchconsole.WmxSite {
	return []*searchconsole.WmxSite{
		{SiteUrl: "https://example.com/", PermissionLevel: "siteOwner"},
		{SiteUrl: "sc-domain:example.org", PermissionLevel: "siteUnverifiedUser"},
	}
}

func stubRows() []*searchconsole.ApiDataRow {
	return []*searchconsole.ApiDataRow{
		{Keys: []string{"2025-01-01"}, Clicks: 12, Impressions: 240, Ctr: 0.05, Position: 3.7},
		{Keys: []string{"2025-01-02"}, Clicks: 4, Impressions: 80, Ctr: 0.05, Position: 9.1},
	}
}
