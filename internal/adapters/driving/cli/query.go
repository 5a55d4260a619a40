package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arden-labs/gsc-cli/internal/adapters/driven/config/file"
	"github.com/arden-labs/gsc-cli/internal/adapters/driven/export/excel"
	"github.com/arden-labs/gsc-cli/internal/adapters/driven/export/sqlitex"
	"github.com/arden-labs/gsc-cli/internal/adapters/driving/tui/picker"
	"github.com/arden-labs/gsc-cli/internal/gsc"
)

var (
	queryDimensions []string
	queryStart      string
	queryStop       string
	queryDays       int
	queryMonths     int
	queryFilters    []string
	querySearchType string
	queryDataState  string
	queryLimit      string
	queryFormat     string
	querySQLite     string
	queryTable      string
	queryXLSX       string
)

var queryCmd = &cobra.Command{
	Use:   "query [site]",
	Short: "Run a search-analytics query",
	Long: `Runs a search-analytics query against a web property and renders the
result. The site argument is the property URL exactly as registered in
Search Console (e.g. "https://example.com/" or "sc-domain:example.com").

When the site is omitted, GSC_SITE and the config file are consulted; in
an interactive terminal a picker then offers the account's properties.

Dates accept YYYY-MM-DD (and most unambiguous formats) plus the keywords
"today" and "yesterday". --days and --months derive the range from the
start date instead of an explicit stop date.

Filters take the form dimension:operator:expression, e.g.
"country:equals:usa" or "page:contains:/blog/". The operator defaults to
equals when omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringSliceVarP(&queryDimensions, "dimensions", "d", nil, "dimensions to group by (date, query, page, country, device, searchAppearance)")
	queryCmd.Flags().StringVar(&queryStart, "start", "", "start date (YYYY-MM-DD, today, yesterday)")
	queryCmd.Flags().StringVar(&queryStop, "stop", "", "stop date (YYYY-MM-DD, today, yesterday)")
	queryCmd.Flags().IntVar(&queryDays, "days", 0, "day offset from the start date (negative reaches back)")
	queryCmd.Flags().IntVar(&queryMonths, "months", 0, "month offset from the start date (negative reaches back)")
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "dimension filter dimension:operator:expression (repeatable)")
	queryCmd.Flags().StringVar(&querySearchType, "search-type", "", "search surface: web, image, video, news, discover, googleNews")
	queryCmd.Flags().StringVar(&queryDataState, "data-state", "", "final for finalized data only, all to include fresh data")
	queryCmd.Flags().StringVarP(&queryLimit, "limit", "n", "", "row budget: N, or START,N to skip START rows first")
	queryCmd.Flags().StringVar(&queryFormat, "format", "table", "output format: table, csv or json")
	queryCmd.Flags().StringVar(&querySQLite, "sqlite", "", "also export the report to this SQLite database")
	queryCmd.Flags().StringVar(&queryTable, "table", "", "SQLite table name (default "+sqlitex.DefaultTable+")")
	queryCmd.Flags().StringVar(&queryXLSX, "xlsx", "", "also export the report to this XLSX workbook")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	account, err := newAccountFunc(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	site := ""
	if len(args) > 0 {
		site = args[0]
	} else {
		site = resolveSetting(nil, "", "", "GSC_SITE", file.KeySite)
	}

	var property *gsc.WebProperty
	if site != "" {
		property, err = account.Property(ctx, site)
		if err != nil {
			return fmt.Errorf("resolving web property: %w", err)
		}
		if property == nil {
			return fmt.Errorf("web property %q is not on this account (try 'gsc properties')", site)
		}
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no web property given and stdin is not a terminal")
		}
		properties, err := account.Webproperties(ctx)
		if err != nil {
			return fmt.Errorf("listing properties: %w", err)
		}
		property, err = picker.Pick(properties)
		if err != nil {
			return err
		}
	}

	query, err := buildQuery(property.Query)
	if err != nil {
		return err
	}

	report, err := query.Get(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	if err := exportReport(cmd, report); err != nil {
		return err
	}

	return outputReport(cmd, report)
}

// buildQuery applies the query flags to the property's seed query.
func buildQuery(q *gsc.Query) (*gsc.Query, error) {
	if queryStart != "" || queryStop != "" || queryDays != 0 || queryMonths != 0 {
		var start, stop any
		if queryStart != "" {
			start = queryStart
		}
		if queryStop != "" {
			stop = queryStop
		}
		q = q.Range(start, stop, queryMonths, queryDays)
	}

	if len(queryDimensions) > 0 {
		q = q.Dimension(queryDimensions...)
	}
	if querySearchType != "" {
		q = q.SearchType(querySearchType)
	}
	if queryDataState != "" {
		q = q.DataState(queryDataState)
	}

	for _, raw := range queryFilters {
		dimension, expression, operator, err := parseFilter(raw)
		if err != nil {
			return nil, err
		}
		q = q.Filter(dimension, expression, operator, "")
	}

	if queryLimit != "" {
		limitArgs, err := parseLimit(queryLimit)
		if err != nil {
			return nil, err
		}
		q = q.Limit(limitArgs...)
	}

	if err := q.Err(); err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return q, nil
}

// filterOperators are the operators the query tool accepts.
var filterOperators = map[string]bool{
	gsc.OperatorEquals:         true,
	gsc.OperatorNotEquals:      true,
	gsc.OperatorContains:       true,
	gsc.OperatorNotContains:    true,
	gsc.OperatorIncludingRegex: true,
	gsc.OperatorExcludingRegex: true,
}

// parseFilter splits dimension:operator:expression. When the middle part
// is not a known operator the whole remainder is the expression, so
// two-part filters like "page:/blog/" and URL expressions keep working.
func parseFilter(raw string) (dimension, expression, operator string, err error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return "", "", "", fmt.Errorf("invalid filter %q (want dimension:operator:expression)", raw)
	}
	if len(parts) == 3 && filterOperators[parts[1]] {
		return parts[0], parts[2], parts[1], nil
	}
	return parts[0], strings.TrimPrefix(raw, parts[0]+":"), "", nil
}

// parseLimit parses "N" or "START,N" into Limit arguments.
func parseLimit(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid limit %q (want N or START,N)", raw)
	}

	// The flag reads START,N; Limit takes (start, n) in the same order.
	out := make([]int, 0, 2)
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q (want N or START,N)", raw)
		}
		out = append(out, n)
	}
	return out, nil
}

// exportReport writes the side-channel exports. Notices go to stderr so
// stdout stays clean for the formatted report.
func exportReport(cmd *cobra.Command, report *gsc.Report) error {
	if querySQLite != "" {
		count, err := sqlitex.Export(cmd.Context(), querySQLite, queryTable, report)
		if err != nil {
			return fmt.Errorf("exporting to sqlite: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", count, querySQLite)
	}

	if queryXLSX != "" {
		if err := excel.Export(queryXLSX, "", report); err != nil {
			return fmt.Errorf("exporting to xlsx: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote workbook %s\n", queryXLSX)
	}

	return nil
}

func outputReport(cmd *cobra.Command, report *gsc.Report) error {
	switch queryFormat {
	case "", "table":
		return outputReportTable(cmd, report)
	case "csv":
		return report.WriteCSV(cmd.OutOrStdout())
	case "json":
		return outputReportJSON(cmd, report)
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", queryFormat)
	}
}

func outputReportJSON(cmd *cobra.Command, report *gsc.Report) error {
	payload := struct {
		Site       string           `json:"site"`
		Columns    []string         `json:"columns"`
		Rows       []map[string]any `json:"rows"`
		RowCount   int              `json:"row_count"`
		IsComplete bool             `json:"is_complete"`
	}{
		Site:       report.Site(),
		Columns:    report.Columns(),
		Rows:       report.Records(),
		RowCount:   report.Len(),
		IsComplete: report.IsComplete(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportTable(cmd *cobra.Command, report *gsc.Report) error {
	if report.Len() == 0 {
		cmd.Println("No rows returned.")
		return nil
	}

	headers := report.Columns()
	rows := make([][]string, 0, report.Len())
	for _, r := range report.Rows() {
		cells := make([]string, 0, len(headers))
		cells = append(cells, r.Keys...)
		cells = append(cells, formatMetric(r.Clicks), formatMetric(r.Impressions), formatMetric(r.CTR))
		if report.HasPosition() {
			cells = append(cells, formatMetric(r.Position))
		}
		rows = append(rows, cells)
	}

	cmd.Print(renderTable(headers, rows))

	summary := fmt.Sprintf("%d rows", report.Len())
	if !report.IsComplete() {
		summary += " (more available)"
	}
	cmd.Println(mutedStyle.Render(summary))
	return nil
}

// formatMetric renders a metric without trailing zeros.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
