package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/analytics"
)

var (
	analyticsQuery      string
	analyticsList       bool
	analyticsTable      string
	analyticsStart      string
	analyticsEnd        string
	analyticsStartIndex int64
	analyticsMaxResults int64
	analyticsCSV        string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Run a reporting query against an analytics view",
	Long: `Run one of the canned Core Reporting queries and print the result.
The view to query comes from google.analytics_table in the config
file, or from --table.

Examples:
  googoal analytics --list
  googoal analytics --query page_hits
  googoal analytics --query traffic_goals --start 2026-01-01 --end 2026-01-31`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().StringVarP(&analyticsQuery, "query", "q", "page_hits", "Canned query to run")
	analyticsCmd.Flags().BoolVar(&analyticsList, "list", false, "List the canned queries and exit")
	analyticsCmd.Flags().StringVar(&analyticsTable, "table", "", "View (table) id, overrides the config file")
	analyticsCmd.Flags().StringVar(&analyticsStart, "start", "", `First day to cover (default "30daysAgo")`)
	analyticsCmd.Flags().StringVar(&analyticsEnd, "end", "", `Last day to cover (default "yesterday")`)
	analyticsCmd.Flags().Int64Var(&analyticsStartIndex, "start-index", 0, "1-based index of the first row returned")
	analyticsCmd.Flags().Int64Var(&analyticsMaxResults, "max-results", 0, "Cap on returned rows (default 100)")
	analyticsCmd.Flags().StringVar(&analyticsCSV, "csv", "", `Write CSV to this file, "-" for stdout`)
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	if analyticsList {
		tw := tablewriter.NewWriter(cmd.OutOrStdout())
		tw.SetHeader([]string{"Query", "Reports"})
		for _, q := range analytics.Queries() {
			tw.Append([]string{q.Name, q.Doc})
		}
		tw.Render()
		return nil
	}

	q, ok := analytics.ByName(analyticsQuery)
	if !ok {
		return fmt.Errorf("no canned query named %q, run with --list to see them", analyticsQuery)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table := analyticsTable
	if table == "" {
		if table, err = cfg.AnalyticsTable(); err != nil {
			return err
		}
	}
	p, err := newProvider(cfg, analytics.DefaultScopes...)
	if err != nil {
		return err
	}
	c, err := newAnalytics(cmd.Context(), p, table)
	if err != nil {
		return err
	}
	if analyticsStart != "" {
		c.SetStartDate(analyticsStart)
	}
	if analyticsEnd != "" {
		c.SetEndDate(analyticsEnd)
	}
	if analyticsStartIndex > 0 {
		c.SetStartIndex(analyticsStartIndex)
	}
	if analyticsMaxResults > 0 {
		c.SetMaxResults(analyticsMaxResults)
	}

	f, err := c.Run(cmd.Context(), q)
	if err != nil {
		return err
	}
	return writeFrame(cmd, f, analyticsCSV)
}
