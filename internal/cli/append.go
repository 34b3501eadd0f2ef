package cli

import (
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/frame"
	"github.com/opendsi/googoal/internal/sheet"
)

var (
	appendSpreadsheetID string
	appendSheetName     string
	appendValues        []string
)

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append a row to a sheet",
	Long: `Append one row of values underneath the table in a worksheet.
Values that look numeric are written as numbers.

Example:
  googoal append -s <spreadsheet-id> -v alice -v alice@example.com -v 3`,
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVarP(&appendSpreadsheetID, "spreadsheet-id", "s", "",
		"Spreadsheet id, the long token in the sheet's URL")
	appendCmd.Flags().StringVarP(&appendSheetName, "sheet-name", "n", "", "Worksheet to append to (default: the first one)")
	appendCmd.Flags().StringArrayVarP(&appendValues, "values", "v", nil, "Cell values of the new row, one per flag")
	appendCmd.MarkFlagRequired("spreadsheet-id")
	appendCmd.MarkFlagRequired("values")
	rootCmd.AddCommand(appendCmd)
}

func runAppend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, sheet.DefaultScopes...)
	if err != nil {
		return err
	}
	c, err := openSheet(cmd.Context(), p, appendSpreadsheetID, sheet.Options{Worksheet: appendSheetName})
	if err != nil {
		return err
	}
	row := make([]any, len(appendValues))
	for i, v := range appendValues {
		row[i] = frame.Numericise(v)
	}
	if err := c.AppendRow(cmd.Context(), row...); err != nil {
		return err
	}
	cmd.Printf("appended 1 row to %s\n", c.URL())
	return nil
}
