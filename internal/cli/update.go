package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/frame"
	"github.com/opendsi/googoal/internal/sheet"
)

var (
	updateSpreadsheetID string
	updateSheetName     string
	updateCSVPath       string
	updateIndexField    string
	updateHeader        int
	updateColIndent     int
	updateNAValues      []string
	updateColumns       []string
	updateComment       string
	updateAugment       bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reconcile a sheet with a CSV file",
	Long: `Bring the table in a worksheet in line with a CSV file: changed
cells are rewritten, new rows appended and rows missing from the file
removed. Rows are matched by the index column, so both sides must key
every row uniquely and carry the same columns.

With --augment only empty cells gain values and no rows are removed.

Examples:
  googoal update -s <spreadsheet-id> --csv members.csv
  googoal update -s <spreadsheet-id> --csv members.csv --augment
  googoal update -s <spreadsheet-id> --csv members.csv --columns email`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateSpreadsheetID, "spreadsheet-id", "s", "",
		"Spreadsheet id, the long token in the sheet's URL")
	updateCmd.Flags().StringVarP(&updateSheetName, "sheet-name", "n", "", "Worksheet to update (default: the first one)")
	updateCmd.Flags().StringVar(&updateCSVPath, "csv", "", "CSV file holding the desired table")
	updateCmd.Flags().StringVar(&updateIndexField, "index", "", "Column holding the row keys")
	updateCmd.Flags().IntVar(&updateHeader, "header", 1, "Number of header rows in the sheet")
	updateCmd.Flags().IntVar(&updateColIndent, "col-indent", 0, "Columns to skip on the left")
	updateCmd.Flags().StringSliceVar(&updateNAValues, "na", []string{"nan"}, "Cell contents treated as missing, on both sides")
	updateCmd.Flags().StringSliceVar(&updateColumns, "columns", nil, "Only reconcile these columns")
	updateCmd.Flags().StringVar(&updateComment, "comment", "", "Comment to write into the top-left cell")
	updateCmd.Flags().BoolVar(&updateAugment, "augment", false, "Only fill empty cells, never remove rows")
	updateCmd.MarkFlagRequired("spreadsheet-id")
	updateCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	in, err := os.Open(updateCSVPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", updateCSVPath, err)
	}
	desired, err := frame.ReadCSV(in, updateIndexField, updateNAValues...)
	in.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", updateCSVPath, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, sheet.DefaultScopes...)
	if err != nil {
		return err
	}
	c, err := openSheet(cmd.Context(), p, updateSpreadsheetID, sheet.Options{
		Worksheet:  updateSheetName,
		IndexField: updateIndexField,
		Header:     updateHeader,
		ColIndent:  updateColIndent,
		NAValues:   updateNAValues,
	})
	if err != nil {
		return err
	}

	plan, err := c.Update(cmd.Context(), desired, updateColumns, updateComment, !updateAugment)
	if err != nil {
		return err
	}
	if plan.Empty() {
		cmd.Println("nothing to change")
		return nil
	}
	cmd.Printf("updated %d cells, added %d rows, removed %d rows\n",
		len(plan.Updates), len(plan.Add), len(plan.Remove))
	return nil
}
