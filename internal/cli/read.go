package cli

import (
	"github.com/spf13/cobra"

	"github.com/opendsi/googoal/internal/sheet"
)

var (
	readSpreadsheetID string
	readSheetName     string
	readIndexField    string
	readHeader        int
	readColIndent     int
	readRaw           bool
	readNAValues      []string
	readColumns       []string
	readCSV           string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read a sheet into a table or CSV file",
	Long: `Read the table in one worksheet and print it, or write it to a CSV
file with --csv. The column named "index" (any casing) keys the rows;
name a different key column with --index.

Examples:
  googoal read -s <spreadsheet-id>
  googoal read -s <spreadsheet-id> -n Attendees --csv attendees.csv
  googoal read -s <spreadsheet-id> --raw --csv -`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVarP(&readSpreadsheetID, "spreadsheet-id", "s", "",
		"Spreadsheet id, the long token in the sheet's URL")
	readCmd.Flags().StringVarP(&readSheetName, "sheet-name", "n", "", "Worksheet to read (default: the first one)")
	readCmd.Flags().StringVar(&readIndexField, "index", "", "Column holding the row keys")
	readCmd.Flags().IntVar(&readHeader, "header", 1, "Number of header rows")
	readCmd.Flags().IntVar(&readColIndent, "col-indent", 0, "Columns to skip on the left")
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Read formulae instead of computed values")
	readCmd.Flags().StringSliceVar(&readNAValues, "na", []string{"nan"}, "Cell contents treated as missing")
	readCmd.Flags().StringSliceVar(&readColumns, "columns", nil, "Only fill in these columns")
	readCmd.Flags().StringVar(&readCSV, "csv", "", `Write CSV to this file, "-" for stdout`)
	readCmd.MarkFlagRequired("spreadsheet-id")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newProvider(cfg, sheet.DefaultScopes...)
	if err != nil {
		return err
	}
	c, err := openSheet(cmd.Context(), p, readSpreadsheetID, sheet.Options{
		Worksheet:  readSheetName,
		IndexField: readIndexField,
		Header:     readHeader,
		ColIndent:  readColIndent,
		NAValues:   readNAValues,
		RawValues:  readRaw,
	})
	if err != nil {
		return err
	}
	f, err := c.Read(cmd.Context(), readColumns...)
	if err != nil {
		return err
	}
	return writeFrame(cmd, f, readCSV)
}
